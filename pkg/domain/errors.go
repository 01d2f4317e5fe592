package domain

import (
	stderrors "errors"
	"fmt"

	apperrors "github.com/goliatone/go-errors"
)

// Text codes attached to generation errors.
const (
	CodeDuplicateNodeID     = "DUPLICATE_NODE_ID"
	CodeIdentifierCollision = "IDENTIFIER_COLLISION"
	CodeInvalidNodeID       = "INVALID_NODE_ID"
	CodeInvalidNodeConfig   = "INVALID_NODE_CONFIG"
	CodeUnknownNodeKind     = "UNKNOWN_NODE_KIND"
	CodeGenerationFailed    = "GENERATION_FAILED"
	CodeInvalidProject      = "INVALID_PROJECT"
	CodeCacheMiss           = "CACHE_MISS"
)

var (
	// ErrDuplicateNodeID is returned when two nodes share an id.
	ErrDuplicateNodeID = apperrors.New("duplicate node id", apperrors.CategoryBadInput).
				WithTextCode(CodeDuplicateNodeID)
	// ErrIdentifierCollision is returned when two distinct ids sanitize to the
	// same handler name.
	ErrIdentifierCollision = apperrors.New("node ids collide after sanitization", apperrors.CategoryConflict).
				WithTextCode(CodeIdentifierCollision)
	// ErrInvalidNodeID is returned for empty ids or ids spanning several lines.
	ErrInvalidNodeID = apperrors.New("invalid node id", apperrors.CategoryBadInput).
				WithTextCode(CodeInvalidNodeID)
	// ErrInvalidNodeConfig is returned when a node's data makes correct code
	// generation impossible.
	ErrInvalidNodeConfig = apperrors.New("invalid node configuration", apperrors.CategoryValidation).
				WithTextCode(CodeInvalidNodeConfig)
	// ErrUnknownNodeKind is returned when no compiler is registered for a kind.
	ErrUnknownNodeKind = apperrors.New("unknown node kind", apperrors.CategoryBadInput).
				WithTextCode(CodeUnknownNodeKind)
	// ErrGenerationFailed marks an aggregate failure of a generation pass.
	ErrGenerationFailed = apperrors.New("generation failed", apperrors.CategoryValidation).
				WithTextCode(CodeGenerationFailed)
	// ErrInvalidProject is returned when a project document cannot be decoded.
	ErrInvalidProject = apperrors.New("invalid project document", apperrors.CategoryBadInput).
				WithTextCode(CodeInvalidProject)
	// ErrCacheMiss is returned by caches when no program is stored for a key.
	ErrCacheMiss = apperrors.New("cache miss", apperrors.CategoryNotFound).
			WithTextCode(CodeCacheMiss)
)

// NodeErr clones base with a node-specific message and records the node ids in
// the error metadata under "node_ids".
func NodeErr(base *apperrors.Error, message string, nodeIDs ...string) *apperrors.Error {
	err := base.Clone()
	if message != "" {
		err.Message = message
	}
	return err.WithMetadata(map[string]any{"node_ids": nodeIDs})
}

// InvalidConfig builds an ErrInvalidNodeConfig for one node.
func InvalidConfig(nodeID, format string, args ...any) *apperrors.Error {
	msg := fmt.Sprintf("node %q: %s", nodeID, fmt.Sprintf(format, args...))
	return NodeErr(ErrInvalidNodeConfig, msg, nodeID)
}

// ErrorCode returns the text code carried by err, or "" if there is none.
// Errors exposing a Code() string method take precedence.
func ErrorCode(err error) string {
	var coder interface{ Code() string }
	if stderrors.As(err, &coder) {
		return coder.Code()
	}
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// ErrorNodeIDs returns the node ids recorded on err, if any.
func ErrorNodeIDs(err error) []string {
	var ge *apperrors.Error
	if !stderrors.As(err, &ge) || ge.Metadata == nil {
		return nil
	}
	ids, _ := ge.Metadata["node_ids"].([]string)
	return ids
}
