// Package compiler parses tag source into an executable action tree.
//
// Parsing is one pass over the source lines. Each line is tried against
// an ordered rule table; the first matching rule's handler builds a
// node and decides where the cursor goes next. Lines no rule recognizes
// fall back to the registry analyzer, which can still synthesize a
// dynamic element action. Anything left after that is dropped, so a
// typo never stops a script; strict mode records every drop as a
// diagnostic instead of losing it.
//
// The rule table is ordered per family, definitions before usages
// before legacy forms. The order is part of the grammar: several rules
// match overlapping shapes and the earlier one wins.
package compiler

import (
	"regexp"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/ast"
	"github.com/sambeau/tansy/pkg/tansy/errors"
	"github.com/sambeau/tansy/pkg/tansy/registry"
)

// handler consumes one matched line. The returned node becomes the new
// cursor: a fresh node descends into its block, the parent ascends out
// of one, nil stays at the current level. ok reports whether the rule
// accepted the line at all; on false the line moves on to the next
// rule even though the pattern matched.
type handler func(m []string, current ast.Node) (next ast.Node, ok bool)

type rule struct {
	re     *regexp.Regexp
	handle handler
}

// pat anchors a rule pattern at the start of the line. Trailing text
// after a match is ignored, matching the prefix-match dispatch the
// grammar grew up with.
func pat(expr string) *regexp.Regexp {
	return regexp.MustCompile("^" + expr)
}

// Compiler turns source text into an action tree. The named-construct
// table survives across Parse calls, so an interactive session can
// declare a construct in one chunk and open it in the next.
type Compiler struct {
	registry *registry.Registry
	analyzer *registry.Analyzer
	rules    []rule
	named    map[string]string // declared construct name -> if, loop or block

	strict bool
	diags  []*errors.TansyError
	line   int
}

// New returns a compiler over the given tag registry. A nil registry
// falls back to the builtin table.
func New(reg *registry.Registry) *Compiler {
	if reg == nil {
		reg = registry.NewBuiltin()
	}
	c := &Compiler{
		registry: reg,
		analyzer: registry.NewAnalyzer(reg),
		named:    make(map[string]string),
	}
	c.rules = c.buildRules()
	return c
}

// SetStrict toggles diagnostic collection for dropped lines.
func (c *Compiler) SetStrict(on bool) { c.strict = on }

// Diagnostics returns the problems recorded by the most recent Parse.
func (c *Compiler) Diagnostics() []*errors.TansyError { return c.diags }

// Named reports the declared kind of a named construct.
func (c *Compiler) Named(name string) (kind string, ok bool) {
	kind, ok = c.named[name]
	return kind, ok
}

// Reset drops the named-construct table and any diagnostics.
func (c *Compiler) Reset() {
	c.named = make(map[string]string)
	c.diags = nil
}

// buildRules assembles the full rule table. Family order matters just
// as much as the order within each family: the variable family must
// see <name_value=...> shapes before the entry family does, and the
// base rules catch whatever the specific families left.
func (c *Compiler) buildRules() []rule {
	var rules []rule
	rules = append(rules, c.varRules()...)
	rules = append(rules, c.outputRules()...)
	rules = append(rules, c.consoleRules()...)
	rules = append(rules, c.windowRules()...)
	rules = append(rules, c.buttonRules()...)
	rules = append(rules, c.labelRules()...)
	rules = append(rules, c.entryRules()...)
	rules = append(rules, c.inputRules()...)
	rules = append(rules, c.randomRules()...)
	rules = append(rules, c.baseRules()...)
	return rules
}

// Parse builds the action tree for source. It never fails: a line that
// matches nothing is dropped, recorded as a diagnostic in strict mode.
func (c *Compiler) Parse(source string) *ast.SequenceNode {
	c.diags = nil
	root := ast.NewSequence("root")
	var current ast.Node = root

	for i, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		c.line = i + 1
		current = c.parseLine(line, current)
	}
	return root
}

func (c *Compiler) parseLine(line string, current ast.Node) ast.Node {
	for _, r := range c.rules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		next, ok := r.handle(m, current)
		if !ok {
			continue
		}
		if next != nil {
			return next
		}
		return current
	}

	// No dedicated rule. The analyzer can still recognize an element
	// name followed by a verb or a property assignment.
	an := c.analyzer.AnalyzeLine(line)
	if an.ElementName != "" && (an.Action != "" || an.Property != "") {
		node := ast.NewDynamicAction(c.registry, an.ElementName)
		node.Action = an.Action
		node.Property = an.Property
		node.Value = an.Value
		node.HasValue = an.HasValue
		ast.Append(current, node)
		return current
	}

	c.report("PARSE-0001", map[string]any{"Line": line})
	return current
}

// ascend steps the cursor out of the current block. A close at the
// root has nothing to step out of and is consumed where it stands.
func (c *Compiler) ascend(current ast.Node, tag string) ast.Node {
	if p := current.Parent(); p != nil {
		return p
	}
	c.report("PARSE-0002", map[string]any{"Tag": tag})
	return current
}

func (c *Compiler) report(code string, data map[string]any) {
	if !c.strict {
		return
	}
	c.diags = append(c.diags, errors.NewWithPosition(code, c.line, 0, data))
}
