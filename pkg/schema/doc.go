// Package schema validates the loosely typed data bags the builder UI attaches
// to nodes.
//
// A Schema maps data keys to Fields. Each Field has a Type and may be
// Required. Keys absent from the schema are ignored (the UI stores plenty of
// presentation-only keys), and a nil value counts as absent.
//
//	s := schema.Schema{
//	    "messageText":     schema.Optional(schema.String()),
//	    "enableBroadcast": schema.Optional(schema.Bool()),
//	    "buttons":         schema.Optional(schema.Slice(schema.Object(buttonSchema))),
//	}
//
//	if err := schema.Validate(s, node.Data); err != nil {
//	    for _, e := range schema.ValidationErrors(err) { ... }
//	}
//
// Errors are reported in key order so repeated validation of the same bag
// yields identical messages.
package schema
