package fragments_test

import (
	"strings"
	"testing"

	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/stretchr/testify/require"
)

func node(id string, kind domain.NodeKind, data map[string]any) domain.Node {
	return domain.Node{ID: id, Kind: kind, Data: data}
}

func resolve(t *testing.T, project domain.Project) *resolver.Context {
	t.Helper()
	c, err := resolver.Resolve(project)
	require.NoError(t, err)
	return c
}

func data(t *testing.T, c *resolver.Context, id string) domain.NodeData {
	t.Helper()
	d, err := c.Data(id)
	require.NoError(t, err)
	return d
}

func joined(lines []string) string {
	return strings.Join(lines, "\n")
}
