package compiler

import (
	"regexp"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/ast"
)

// refValue spots an attribute value that is exactly one bare
// reference, e.g. value="<other_value>". Such a value collapses to
// $other so the referenced value passes through with its type; text
// with embedded references resolves as a template instead.
var refValue = regexp.MustCompile(`^<(\w+)_value>$`)

// varRules covers variable declaration, assignment and arithmetic.
// The <variable> long form mirrors the <var> forms one for one, after
// the math rules, keeping the historical priority: a <variable ...>
// line can never shadow a math shorthand.
func (c *Compiler) varRules() []rule {
	rules := c.varForms("var")
	rules = append(rules,
		rule{pat(`<(\w+)_value="([^"]*)">`), c.parseVarAssign},
		rule{pat(`<math\s+var="(\w+)"\s+op="([^"]+)"\s+value="([^"]*)">`), c.parseMathFull},
		rule{pat(`<math\s+var="(\w+)"\s+op="(\+\+|--|inc|dec)">`), c.parseMathIncDec},
		rule{pat(`<(\w+)_value\s*(\+\+|--)>`), c.parseMathIncDec},
		rule{pat(`<(\w+)_value\s*(\+=|-=|\*=|/=|//=|%=|\*\*=|=)\s*(.+)>`), c.parseMathShorthand},
	)
	return append(rules, c.varForms("variable")...)
}

// varForms builds the six declaration shapes for one tag spelling.
// Order matters: the quoted-value form must run before the reference
// and input forms, and the bare declaration comes last so it cannot
// swallow a line that carries a value.
func (c *Compiler) varForms(tag string) []rule {
	return []rule{
		{pat(`<` + tag + `\s+name="(\w+)"\s+value="([^"]*)">`), c.parseVarWithValue},
		{pat(`<` + tag + `\s+name="(\w+)"\s+value=<(\w+)_value>>`), c.parseVarWithRef},
		{pat(`<` + tag + `\s+name="(\w+)"\s+value=<input>>`), c.parseVarWithInput},
		{pat(`<` + tag + `\s+name="(\w+)"\s+value=<input\s+prompt="([^"]*)">>`), c.parseVarWithPrompt},
		{pat(`<` + tag + `\s+name="(\w+)"\s+value=<input\s+"([^"]*)">>`), c.parseVarWithPrompt},
		{pat(`<` + tag + `\s+name="(\w+)">`), c.parseVarBare},
	}
}

func (c *Compiler) parseVarWithValue(m []string, current ast.Node) (ast.Node, bool) {
	node := ast.NewVar(m[1])
	node.Value = m[2]
	node.HasValue = true
	ast.Append(current, node)
	return nil, true
}

func (c *Compiler) parseVarWithRef(m []string, current ast.Node) (ast.Node, bool) {
	node := ast.NewVar(m[1])
	node.Ref = m[2]
	ast.Append(current, node)
	return nil, true
}

func (c *Compiler) parseVarWithInput(m []string, current ast.Node) (ast.Node, bool) {
	node := ast.NewVar(m[1])
	node.Input = true
	ast.Append(current, node)
	return nil, true
}

func (c *Compiler) parseVarWithPrompt(m []string, current ast.Node) (ast.Node, bool) {
	node := ast.NewVar(m[1])
	node.Input = true
	node.Prompt = m[2]
	ast.Append(current, node)
	return nil, true
}

func (c *Compiler) parseVarBare(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewVar(m[1]))
	return nil, true
}

// parseVarAssign handles <name_value="...">. A value that is itself a
// bare reference is stored in $-form; anything else, including text
// with embedded references, goes through the resolver untouched.
func (c *Compiler) parseVarAssign(m []string, current ast.Node) (ast.Node, bool) {
	value := m[2]
	if ref := refValue.FindStringSubmatch(value); ref != nil {
		value = "$" + ref[1]
	}
	node := ast.NewVar(m[1])
	node.Value = value
	node.HasValue = true
	ast.Append(current, node)
	return nil, true
}

func (c *Compiler) parseMathFull(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewMath(m[1], m[2], m[3]))
	return nil, true
}

// parseMathIncDec covers both <math var="x" op="++"> and the
// <x_value++> shorthand; the operand is always one.
func (c *Compiler) parseMathIncDec(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewMath(m[1], m[2], "1"))
	return nil, true
}

// parseMathShorthand handles <x_value OP expr>. The greedy capture
// runs to the last bracket on the line, so expressions may carry
// nested <name_value> references.
func (c *Compiler) parseMathShorthand(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewMath(m[1], m[2], strings.TrimSpace(m[3])))
	return nil, true
}
