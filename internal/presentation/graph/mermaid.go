package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/botforge/pkg/domain"
)

// GraphOverlay contains per-run data to visualize on the graph.
type GraphOverlay struct {
	// FailedNodes are drawn in red (nodes that could not be compiled).
	FailedNodes []string
	// Selected is highlighted (e.g. the node whose block was extracted).
	Selected string
}

// GenerateMermaid produces a Mermaid flowchart of the bot flow.
// It applies semantic styling:
// - Start / Command: ((Circle))
// - Input: [/Parallelogram/]
// - Conditional: {Rhombus}
// - Broadcast: [[Subroutine]]
// - Admin action: {{Hexagon}}
// - Default: [Rectangle]
//
// Edges come from connections (solid), goto buttons (labelled), conditions
// (labelled), and auto-transitions (dotted). Edges to unknown nodes are skipped.
func GenerateMermaid(project domain.Project, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	known := make(map[string]bool, len(project.Nodes))
	for _, n := range project.Nodes {
		known[n.ID] = true
	}

	seen := make(map[string]bool)
	edge := func(from, to, arrow string) {
		if !known[to] {
			return
		}
		line := fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(from), arrow, sanitizeMermaidID(to))
		if !seen[line] {
			seen[line] = true
			sb.WriteString(line)
		}
	}

	for _, node := range project.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		// Node Shape based on Kind
		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindStart, domain.KindCommand:
			opener, closer = "((", "))"
		case domain.KindInput:
			opener, closer = "[/", "/]"
		case domain.KindConditional:
			opener, closer = "{", "}"
		case domain.KindBroadcast:
			opener, closer = "[[", "]]"
		case domain.KindAdminAction:
			opener, closer = "{{", "}}"
		}

		data, _ := node.Decode()
		label := node.ID
		if node.Kind == domain.KindCommand && data.Command != "" {
			label = "/" + strings.TrimPrefix(data.Command, "/")
		}
		if icon := kindIcon(node.Kind); icon != "" {
			label = icon + " " + label
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))

		// Buttons
		for _, b := range data.Buttons {
			if b.Action == domain.ActionGoto && b.Target != "" {
				edge(node.ID, b.Target, fmt.Sprintf("-- \"%s\" -->", escapeLabel(b.Text)))
			}
		}
		if data.ContinueButtonTarget != "" {
			edge(node.ID, data.ContinueButtonTarget, "-- \"continue\" -->")
		}

		// Conditions
		for _, c := range data.Conditions {
			cond := strings.TrimSpace(c.Variable + " " + c.Operator + " " + c.Value)
			edge(node.ID, c.Target, fmt.Sprintf("-- \"%s\" -->", escapeLabel(cond)))
		}
		if data.DefaultTarget != "" {
			edge(node.ID, data.DefaultTarget, "-- \"else\" -->")
		}

		// Auto-transition
		if data.AutoTransitionTo != "" {
			edge(node.ID, data.AutoTransitionTo, "-. \"auto\" .->")
		}
	}

	for _, conn := range project.Connections {
		if !known[conn.Source] {
			continue
		}
		edge(conn.Source, conn.Target, "-->")
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		failedSet := make(map[string]bool)
		for _, id := range overlay.FailedNodes {
			safeID := sanitizeMermaidID(id)
			if !failedSet[safeID] && known[id] {
				failedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s failed;\n", safeID))
			}
		}

		if overlay.Selected != "" && known[overlay.Selected] {
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", sanitizeMermaidID(overlay.Selected)))
		}
	}

	return sb.String()
}

func kindIcon(kind domain.NodeKind) string {
	switch kind {
	case domain.KindPhoto:
		return "🖼️"
	case domain.KindVideo:
		return "🎬"
	case domain.KindAudio:
		return "🎵"
	case domain.KindDocument:
		return "📄"
	case domain.KindBroadcast:
		return "📢"
	case domain.KindAdminAction:
		return "🛡️"
	}
	return ""
}

// escapeLabel keeps a label inside Mermaid's double quotes on one line.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
