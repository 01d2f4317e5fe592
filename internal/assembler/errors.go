package assembler

import (
	"fmt"
	"strings"

	"github.com/aretw0/botforge/pkg/domain"
)

// NodeError is the failure of one node's compilation.
type NodeError struct {
	NodeID string
	Kind   domain.NodeKind
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s (%s): %v", e.NodeID, e.Kind, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// AggregateError lists every node that failed to compile in one generation
// pass, in input order. No source is produced when it is returned.
type AggregateError struct {
	Errors []*NodeError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return "generation failed: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "generation failed: %d nodes could not be compiled:", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the node errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// NodeIDs returns the ids of the failing nodes.
func (e *AggregateError) NodeIDs() []string {
	ids := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		ids[i] = err.NodeID
	}
	return ids
}

// Code is the text code of an aggregate failure.
func (e *AggregateError) Code() string { return domain.CodeGenerationFailed }
