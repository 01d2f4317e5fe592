package assembler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/botforge/pkg/pyemit"
)

// ErrBlockNotFound is returned when a source has no complete block for an id.
var ErrBlockNotFound = errors.New("node block not found")

// ExtractBlock returns the lines of node id's block in source, markers
// included. The block ends at the first end marker after the begin marker.
func ExtractBlock(source, id string) (string, error) {
	lines := strings.Split(source, "\n")
	start, end, err := blockBounds(lines, id)
	if err != nil {
		return "", err
	}
	return strings.Join(lines[start:end+1], "\n") + "\n", nil
}

// ReplaceBlock swaps node id's block in source for block, which must itself be
// a complete block for id.
func ReplaceBlock(source, id, block string) (string, error) {
	replacement := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	if _, _, err := blockBounds(replacement, id); err != nil {
		return "", fmt.Errorf("replacement for %s is not a block: %w", id, err)
	}

	lines := strings.Split(source, "\n")
	start, end, err := blockBounds(lines, id)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(lines)-(end-start+1)+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end+1:]...)
	return strings.Join(out, "\n"), nil
}

// BlockIDs lists the ids of every block in source, in order.
func BlockIDs(source string) []string {
	const prefix = "# @@BOTFORGE:BEGIN "
	var ids []string
	for _, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(line, prefix) && strings.HasSuffix(line, "@@") && len(line) >= len(prefix)+2 {
			ids = append(ids, line[len(prefix):len(line)-2])
		}
	}
	return ids
}

func blockBounds(lines []string, id string) (int, int, error) {
	begin, end := pyemit.BeginMarker(id), pyemit.EndMarker(id)
	start := -1
	for i, line := range lines {
		switch {
		case start < 0 && line == begin:
			start = i
		case start >= 0 && line == end:
			return start, i, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
}
