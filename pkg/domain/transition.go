package domain

// Connection is a directed edge expressing a possible transition between two nodes.
// Both endpoints should resolve to existing node IDs; the generator tolerates
// dangling references by reporting and skipping them.
type Connection struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// SourceHandle is the UI port the edge leaves from (usually a button id).
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
}
