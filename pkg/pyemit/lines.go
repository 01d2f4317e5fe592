package pyemit

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Indent is one level of Python indentation.
const Indent = "    "

// Lines accumulates source lines. The zero value is ready to use.
type Lines []string

// Add appends lines verbatim.
func (l *Lines) Add(lines ...string) {
	*l = append(*l, lines...)
}

// Addf appends one formatted line.
func (l *Lines) Addf(format string, args ...any) {
	*l = append(*l, fmt.Sprintf(format, args...))
}

// Blank appends an empty line.
func (l *Lines) Blank() {
	*l = append(*l, "")
}

// String joins the lines with "\n" and terminates the result with a newline.
func (l Lines) String() string {
	if len(l) == 0 {
		return ""
	}
	return strings.Join(l, "\n") + "\n"
}

// IndentBlock prefixes every line with indent. The result has exactly
// len(lines) entries, in order; empty lines are prefixed too.
func IndentBlock(lines []string, indent string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = indent + line
	}
	return out
}

// Deeper returns indent plus one level.
func Deeper(indent string) string {
	return indent + Indent
}

// Banner returns a single comment line naming the fragment that produced the
// following block. The text goes through the same folding as Comment.
func Banner(source string, description ...string) string {
	line := "# [botforge:" + oneLine(source) + "]"
	if len(description) > 0 && description[0] != "" {
		line += " " + oneLine(strings.Join(description, " "))
	}
	return line
}

// Comment returns a single-line Python comment. Line breaks fold into spaces;
// other control characters and invalid UTF-8 are escaped as in StringLiteral,
// so any text yields a comment the Python tokenizer accepts.
func Comment(text string) string {
	return "# " + oneLine(text)
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// oneLine returns s unchanged when it is valid UTF-8 without control
// characters other than tab.
func oneLine(s string) string {
	s = lineBreaks.Replace(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			writeRawByte(&sb, s[i])
		case isControl(r) && r != '\t':
			fmt.Fprintf(&sb, `\x%02x`, r)
		default:
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}
