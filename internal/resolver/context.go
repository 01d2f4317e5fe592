// Package resolver walks a project graph once and builds the lookup structures
// the node compilers need: the id index, outgoing edges, the multi-select set,
// auto-transition targets and, on demand, broadcast sets.
package resolver

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// Context is the Generation Context: the transient, single-pass view of a
// project. It is created by Resolve and must not outlive one generation call.
// It is safe for concurrent reads.
type Context struct {
	projectName string
	options     domain.Options

	nodes       []domain.Node
	connections []domain.Connection
	byID        map[string]int
	data        map[string]domain.NodeData
	dataErrs    map[string]error

	outgoing    map[string][]domain.Connection
	multiSelect map[string]bool
	autoNext    map[string]string
	dangling    []domain.Connection
	warnings    []string

	mu            sync.Mutex
	broadcastSets map[string][]domain.Node
}

// Resolve builds the Generation Context for project. Duplicate ids, invalid ids
// and ids whose handler names would collide are fatal. Dangling connections and
// unresolved auto-transition targets are recorded and skipped.
func Resolve(project domain.Project) (*Context, error) {
	c := &Context{
		projectName:   project.Name,
		options:       project.Options,
		nodes:         project.Nodes,
		byID:          make(map[string]int, len(project.Nodes)),
		data:          make(map[string]domain.NodeData, len(project.Nodes)),
		dataErrs:      make(map[string]error),
		outgoing:      make(map[string][]domain.Connection),
		multiSelect:   make(map[string]bool),
		autoNext:      make(map[string]string),
		broadcastSets: make(map[string][]domain.Node),
	}

	// 1. Index nodes
	if err := c.index(); err != nil {
		return nil, err
	}

	// 2. Decode data bags (failures are reported by the compilers)
	for _, n := range c.nodes {
		d, err := n.Decode()
		if err != nil {
			c.dataErrs[n.ID] = err
			continue
		}
		c.data[n.ID] = d
		if d.AllowMultipleSelection {
			c.multiSelect[n.ID] = true
		}
	}

	// 3. Callback data
	if err := c.checkCallbackData(); err != nil {
		return nil, err
	}

	// 4. Edges
	for _, conn := range project.Connections {
		_, srcOK := c.byID[conn.Source]
		_, dstOK := c.byID[conn.Target]
		if !srcOK || !dstOK {
			c.dangling = append(c.dangling, conn)
			c.warnings = append(c.warnings,
				fmt.Sprintf("connection %s -> %s references an unknown node", conn.Source, conn.Target))
			continue
		}
		c.connections = append(c.connections, conn)
		c.outgoing[conn.Source] = append(c.outgoing[conn.Source], conn)
	}

	// 5. Auto-transition targets
	for _, n := range c.nodes {
		d, ok := c.data[n.ID]
		if !ok {
			continue
		}
		switch {
		case d.AutoTransitionTo != "":
			if _, exists := c.byID[d.AutoTransitionTo]; !exists {
				c.warnings = append(c.warnings,
					fmt.Sprintf("node %s auto-transitions to unknown node %s", n.ID, d.AutoTransitionTo))
				continue
			}
			c.autoNext[n.ID] = d.AutoTransitionTo
		case d.EnableAutoTransition:
			if out := c.outgoing[n.ID]; len(out) == 1 {
				c.autoNext[n.ID] = out[0].Target
			}
		}
	}

	return c, nil
}

func (c *Context) index() error {
	var invalid, duplicates []string
	handlers := make(map[string]string, len(c.nodes))
	var collisions []string

	for i, n := range c.nodes {
		if !domain.ValidID(n.ID) {
			invalid = append(invalid, n.ID)
			continue
		}
		if _, exists := c.byID[n.ID]; exists {
			duplicates = append(duplicates, n.ID)
			continue
		}
		c.byID[n.ID] = i

		name := pyemit.HandlerName(n.ID)
		if other, exists := handlers[name]; exists {
			collisions = append(collisions, other, n.ID)
			continue
		}
		handlers[name] = n.ID
	}

	switch {
	case len(invalid) > 0:
		return domain.NodeErr(domain.ErrInvalidNodeID,
			fmt.Sprintf("invalid node ids %q: ids must be non-blank UTF-8 without control characters", invalid), invalid...)
	case len(duplicates) > 0:
		duplicates = uniqueSorted(duplicates)
		return domain.NodeErr(domain.ErrDuplicateNodeID,
			fmt.Sprintf("duplicate node ids: %s", strings.Join(duplicates, ", ")), duplicates...)
	case len(collisions) > 0:
		collisions = uniqueSorted(collisions)
		return domain.NodeErr(domain.ErrIdentifierCollision,
			fmt.Sprintf("node ids map to the same handler name: %s", strings.Join(collisions, ", ")), collisions...)
	}
	return nil
}

// checkCallbackData rejects graphs where two nodes would answer the same
// callback_data. Node ids, multi-select options and continue buttons share one
// namespace.
func (c *Context) checkCallbackData() error {
	owners := make(map[string]string)
	var clashes []string
	claim := func(data, id string) {
		if other, exists := owners[data]; exists && other != id {
			clashes = append(clashes, other, id)
			return
		}
		owners[data] = id
	}

	for _, n := range c.nodes {
		claim(pyemit.CallbackData(n.ID), n.ID)
	}
	for _, n := range c.nodes {
		if !c.multiSelect[n.ID] {
			continue
		}
		for i := range c.data[n.ID].Buttons {
			claim(pyemit.ToggleData(n.ID, i), n.ID)
		}
		claim(pyemit.DoneData(n.ID), n.ID)
	}

	if len(clashes) == 0 {
		return nil
	}
	clashes = uniqueSorted(clashes)
	return domain.NodeErr(domain.ErrIdentifierCollision,
		fmt.Sprintf("node ids map to the same callback data: %s", strings.Join(clashes, ", ")), clashes...)
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
