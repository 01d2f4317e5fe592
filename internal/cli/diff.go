package cli

import (
	"github.com/aretw0/botforge/internal/assembler"
)

// BlockChanges lists the node blocks that differ between two generated programs.
type BlockChanges struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether no block differs.
func (c BlockChanges) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// DiffBlocks compares the node blocks of prev and next. Ids are reported in
// the order they appear in next (removed ids in the order of prev).
func DiffBlocks(prev, next string) BlockChanges {
	before := blocks(prev)
	var changes BlockChanges

	nextIDs := assembler.BlockIDs(next)
	seen := make(map[string]bool, len(nextIDs))
	for _, id := range nextIDs {
		seen[id] = true
		block, err := assembler.ExtractBlock(next, id)
		if err != nil {
			continue
		}
		old, existed := before[id]
		switch {
		case !existed:
			changes.Added = append(changes.Added, id)
		case old != block:
			changes.Changed = append(changes.Changed, id)
		}
	}
	for _, id := range assembler.BlockIDs(prev) {
		if !seen[id] {
			changes.Removed = append(changes.Removed, id)
		}
	}
	return changes
}

func blocks(source string) map[string]string {
	out := make(map[string]string)
	for _, id := range assembler.BlockIDs(source) {
		if block, err := assembler.ExtractBlock(source, id); err == nil {
			out[id] = block
		}
	}
	return out
}
