package fragments

import (
	"regexp"
	"strings"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

var variablePattern = regexp.MustCompile(`\{([^{}\s]+)\}`)

// Variables returns the {name} references in text, in order of first use.
func Variables(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// TextScope is the scope of MessageText.
func TextScope(prefix string) Scope { return scope("text", prefix, "text") }

// MessageText renders the node body into the target's text variable. Variable
// references are substituted at runtime by replace_variables_in_text; the
// generator never resolves their values.
func MessageText(body string, t Target, indent string) []string {
	var l pyemit.Lines
	lit := pyemit.StringLiteral(body)
	if vars := Variables(body); len(vars) > 0 {
		l.Add(pyemit.Banner("text", "variables: "+strings.Join(vars, ", ")))
		l.Addf("%s = replace_variables_in_text(%s, %s)", t.TextVar(), lit, t.Vars)
	} else {
		l.Addf("%s = %s", t.TextVar(), lit)
	}
	return indented(l, indent)
}

// BodyText picks the text a node sends: messageText, else the input prompt,
// else a neutral placeholder so the send never carries an empty text.
func BodyText(d domain.NodeData) string {
	switch {
	case d.MessageText != "":
		return d.MessageText
	case d.InputPrompt != "":
		return d.InputPrompt
	}
	return "..."
}
