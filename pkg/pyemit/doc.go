// Package pyemit provides the text-emission primitives used to build Python
// source: string literals (and their decoder), identifiers, indentation,
// comment banners and the per-node block markers.
//
// Every function here is pure and total. Unusual input (invalid UTF-8, mixed
// line endings, text that already looks escaped) is escaped conservatively
// rather than rejected.
package pyemit
