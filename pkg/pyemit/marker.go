package pyemit

const (
	beginMarkerPrefix = "# @@BOTFORGE:BEGIN "
	endMarkerPrefix   = "# @@BOTFORGE:END "
	markerSuffix      = "@@"
)

// BeginMarker is the line opening the generated block of node id. Ids that
// pass domain.ValidID appear verbatim; anything else is folded like Comment.
func BeginMarker(id string) string {
	return beginMarkerPrefix + oneLine(id) + markerSuffix
}

// EndMarker is the line closing the generated block of node id.
func EndMarker(id string) string {
	return endMarkerPrefix + oneLine(id) + markerSuffix
}

// Wrap surrounds a node's lines with its begin and end markers.
func Wrap(id string, lines []string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, BeginMarker(id))
	out = append(out, lines...)
	return append(out, EndMarker(id))
}
