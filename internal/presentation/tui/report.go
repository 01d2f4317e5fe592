package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
)

// Report builds a markdown summary of one generation pass. Exactly one of res
// and err is expected to be set.
func Report(project domain.Project, res *ports.Generation, err error) string {
	var sb strings.Builder

	name := project.Options.DisplayName(project.Name)
	fmt.Fprintf(&sb, "# %s\n\n", escapeCell(name))

	// 1. Outcome
	switch {
	case err != nil:
		fmt.Fprintf(&sb, "**Generation failed** (`%s`)\n\n", codeOf(err))
	case res.Cached:
		fmt.Fprintf(&sb, "Generated **%d** nodes (from cache), run `%s`.\n\n", res.Nodes, res.RunID)
	default:
		fmt.Fprintf(&sb, "Generated **%d** nodes, run `%s`.\n\n", res.Nodes, res.RunID)
	}

	// 2. Node kinds
	counts := make(map[domain.NodeKind]int)
	for _, n := range project.Nodes {
		counts[n.Kind]++
	}
	if len(counts) > 0 {
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)

		sb.WriteString("| Kind | Nodes |\n|---|---|\n")
		for _, k := range kinds {
			fmt.Fprintf(&sb, "| %s | %d |\n", escapeCell(k), counts[domain.NodeKind(k)])
		}
		sb.WriteString("\n")
	}

	// 3. Features
	var features []string
	if project.Options.EnableLogging {
		features = append(features, "message logging")
	}
	if project.Options.UserDatabaseEnabled {
		features = append(features, "user database")
	}
	if len(project.Options.Groups) > 0 {
		features = append(features, fmt.Sprintf("%d group(s)", len(project.Options.Groups)))
	}
	if len(features) > 0 {
		fmt.Fprintf(&sb, "Enabled: %s.\n\n", strings.Join(features, ", "))
	}

	// 4. Failures
	if err != nil {
		var agg *assembler.AggregateError
		if errors.As(err, &agg) {
			sb.WriteString("## Failing nodes\n\n| Node | Kind | Problem |\n|---|---|---|\n")
			for _, ne := range agg.Errors {
				fmt.Fprintf(&sb, "| %s | %s | %s |\n", escapeCell(ne.NodeID), escapeCell(string(ne.Kind)), escapeCell(ne.Err.Error()))
			}
			sb.WriteString("\n")
		} else {
			fmt.Fprintf(&sb, "> %s\n\n", escapeCell(err.Error()))
		}
	}

	// 5. Warnings
	if res != nil && len(res.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func codeOf(err error) string {
	if code := domain.ErrorCode(err); code != "" {
		return code
	}
	return "ERROR"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
