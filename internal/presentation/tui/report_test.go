package tui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/internal/presentation/tui"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project() domain.Project {
	return domain.Project{
		Name: "shop",
		Nodes: []domain.Node{
			{ID: "start", Kind: domain.KindStart},
			{ID: "a", Kind: domain.KindMessage},
			{ID: "b", Kind: domain.KindMessage},
		},
		Options: domain.Options{EnableLogging: true},
	}
}

func TestReport_Success(t *testing.T) {
	md := tui.Report(project(), &ports.Generation{RunID: "r1", Nodes: 3, Warnings: []string{"connection a -> x references an unknown node"}}, nil)

	assert.Contains(t, md, "# shop")
	assert.Contains(t, md, "Generated **3** nodes, run `r1`.")
	assert.Contains(t, md, "| message | 2 |")
	assert.Contains(t, md, "| start | 1 |")
	assert.Contains(t, md, "Enabled: message logging.")
	assert.Contains(t, md, "## Warnings")
	assert.NotContains(t, md, "Failing nodes")
}

func TestReport_Failure(t *testing.T) {
	err := &assembler.AggregateError{Errors: []*assembler.NodeError{
		{NodeID: "a", Kind: domain.KindMessage, Err: errors.New("bad | pipe")},
	}}
	md := tui.Report(project(), nil, err)

	assert.Contains(t, md, "**Generation failed** (`GENERATION_FAILED`)")
	assert.Contains(t, md, "| a | message | bad \\| pipe |")
}

func TestReport_FatalError(t *testing.T) {
	md := tui.Report(project(), nil, domain.ErrDuplicateNodeID)
	assert.Contains(t, md, "(`DUPLICATE_NODE_ID`)")
	assert.Contains(t, md, "> ")
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer(60)
	out, err := render("# Title\n\nbody text")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "1.2.3")
	assert.True(t, strings.Count(buf.String(), "\n") >= 8)
}
