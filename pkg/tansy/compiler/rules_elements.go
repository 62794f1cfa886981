package compiler

import (
	"regexp"

	"github.com/sambeau/tansy/pkg/tansy/ast"
)

var (
	attrQuoted = regexp.MustCompile(`(\w+)="([^"]*)"`)
	attrRef    = regexp.MustCompile(`(\w+)=(<\w+_value>)`)
	quotedPart = regexp.MustCompile(`"([^"]*)"`)

	// Declaration bodies are scanned per attribute rather than parsed
	// positionally, so attribute order inside a tag never matters.
	windowTitleAttr = regexp.MustCompile(`title=(?:"([^"]*)"|(<\w+_value>))`)
	windowNameAttr  = regexp.MustCompile(`name=(?:"(\w+)"|(<\w+_value>))`)
	windowSizeAttr  = regexp.MustCompile(`size=(?:("[\d,"\s]+"|"\d+")|(<\w+_value>))`)
)

// scanAttrs collects attr="value" pairs, then bare attr=<ref> pairs.
// Values are stored raw; references resolve when the node executes.
func scanAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrQuoted.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2]
	}
	for _, m := range attrRef.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// stackArgs splits stack-style values: "300","350" gives two parts,
// "300" one, and an unquoted value comes back whole.
func stackArgs(s string) []string {
	ms := quotedPart.FindAllStringSubmatch(s, -1)
	if len(ms) == 0 {
		return []string{s}
	}
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m[1]
	}
	return parts
}

// windowRules covers the window declaration and its per-name actions.
// Declarations match greedily to the last bracket on the line so
// attribute values may carry nested <name_value> references. The three
// title forms run specific to general: a bracketed reference inside
// quotes, a bare reference, then a plain literal.
func (c *Compiler) windowRules() []rule {
	return []rule{
		{pat(`<window\s+(.+)>$`), c.parseWindowDecl},
		{pat(`<(\w+)_show>`), c.windowAction("show")},
		{pat(`<(\w+)_hide>`), c.windowAction("hide")},
		{pat(`<(\w+)_close>`), c.windowAction("close")},
		{pat(`<(\w+)_title\s*=\s*"(<[^>]+>)">`), c.parseWindowTitle},
		{pat(`<(\w+)_title\s*=\s*(<\w+_value>)>`), c.parseWindowTitle},
		{pat(`<(\w+)_title\s*=\s*"([^"]*)">`), c.parseWindowTitle},
		{pat(`<(\w+)_size=(.+)>$`), c.parseWindowSize},
	}
}

func (c *Compiler) parseWindowDecl(m []string, current ast.Node) (ast.Node, bool) {
	body := m[1]

	var name, title string
	var size []string
	if am := windowNameAttr.FindStringSubmatch(body); am != nil {
		name = am[1]
		if am[2] != "" {
			name = am[2]
		}
	}
	if am := windowTitleAttr.FindStringSubmatch(body); am != nil {
		title = am[1]
		if am[2] != "" {
			title = am[2]
		}
	}
	if am := windowSizeAttr.FindStringSubmatch(body); am != nil {
		if am[2] != "" {
			size = []string{am[2]}
		} else {
			size = stackArgs(am[1])
		}
	}

	ast.Append(current, ast.NewWindow(name, title, size))
	return nil, true
}

func (c *Compiler) windowAction(action string) handler {
	return func(m []string, current ast.Node) (ast.Node, bool) {
		ast.Append(current, ast.NewWindowAction(m[1], action))
		return nil, true
	}
}

func (c *Compiler) parseWindowTitle(m []string, current ast.Node) (ast.Node, bool) {
	node := ast.NewWindowAction(m[1], "title")
	node.Value = m[2]
	ast.Append(current, node)
	return nil, true
}

func (c *Compiler) parseWindowSize(m []string, current ast.Node) (ast.Node, bool) {
	node := ast.NewWindowAction(m[1], "size")
	node.Size = stackArgs(m[2])
	ast.Append(current, node)
	return nil, true
}

func (c *Compiler) buttonRules() []rule {
	return []rule{
		{pat(`<button\s+(.+)>$`), c.parseButtonDecl},
		{pat(`<(\w+)_enabled="(\w+)">`), c.parseButtonEnabled},
	}
}

func (c *Compiler) parseButtonDecl(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewButton(scanAttrs(m[1])))
	return nil, true
}

func (c *Compiler) parseButtonEnabled(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewButtonAction(m[1], "enabled", m[2]))
	return nil, true
}

func (c *Compiler) labelRules() []rule {
	return []rule{
		{pat(`<label\s+(.+)>$`), c.parseLabelDecl},
	}
}

func (c *Compiler) parseLabelDecl(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewLabel(scanAttrs(m[1])))
	return nil, true
}

// entryRules: declaration plus the per-name property setters. The
// value rule never fires in practice; the variable family's assignment
// and shorthand rules match both of its shapes first, so setting an
// entry's content from a script goes through the dynamic fallback
// (<name_value ...> creates a variable instead). It stays in the table
// because the entry family contributes it to the grammar.
func (c *Compiler) entryRules() []rule {
	return []rule{
		{pat(`<entry\s+(.+)>$`), c.parseEntryDecl},
		{pat(`<(\w+)_value=(?:"([^"]*)"|(<\w+_value>))>`), c.entryAction("value")},
		{pat(`<(\w+)_placeholder=(?:"([^"]*)"|(<\w+_value>))>`), c.entryAction("placeholder")},
		{pat(`<(\w+)_readonly="(\w+)">`), c.parseEntryReadonly},
	}
}

func (c *Compiler) parseEntryDecl(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewEntry(scanAttrs(m[1])))
	return nil, true
}

func (c *Compiler) entryAction(action string) handler {
	return func(m []string, current ast.Node) (ast.Node, bool) {
		value := m[2]
		if m[3] != "" {
			value = m[3]
		}
		ast.Append(current, ast.NewEntryAction(m[1], action, value))
		return nil, true
	}
}

func (c *Compiler) parseEntryReadonly(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewEntryAction(m[1], "readonly", m[2]))
	return nil, true
}
