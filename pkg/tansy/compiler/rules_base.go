package compiler

import (
	"strconv"

	"github.com/sambeau/tansy/pkg/tansy/ast"
)

// standardClose lists the block tags a </...> line always closes,
// whether or not the name was declared.
var standardClose = map[string]bool{
	"if":      true,
	"loop":    true,
	"block":   true,
	"forever": true,
}

// baseRules carries the control-flow grammar. Definitions come first
// so a freshly declared name is usable on the very next line; the
// generic close runs early because every block family shares it; the
// legacy literal forms sit below the named usages they predate.
func (c *Compiler) baseRules() []rule {
	return []rule{
		{pat(`<if_name="(\w+)">`), c.defineNamed("if")},
		{pat(`<loop_name="(\w+)">`), c.defineNamed("loop")},
		{pat(`<block_name="(\w+)">`), c.defineNamed("block")},

		{pat(`<(\w+)\s+condition="([^"]*)">`), c.parseCondOpen},
		{pat(`</(\w+)>`), c.parseClose},

		{pat(`<forever\s+interval="(\d+)">`), c.parseForeverInterval},
		{pat(`<forever>`), c.parseForever},

		{pat(`<if\s+event="([^"]*)">`), c.parseIfEvent},

		{pat(`<(\w+)_text="([^"]*)">`), c.parseWidgetText},

		{pat(`<loop\s+count="(\d+)"(?:\s+var="(\w+)")?>`), c.parseLoopCount},
		{pat(`<loop\s+from="(-?\d+)"\s+to="(-?\d+)"(?:\s+var="(\w+)")?>`), c.parseLoopRange},
		{pat(`<(\w+)\s+count="(\d+)"(?:\s+var="(\w+)")?>`), c.parseNamedCount},
		{pat(`<(\w+)\s+from="(-?\d+)"\s+to="(-?\d+)"(?:\s+var="(\w+)")?>`), c.parseNamedRange},

		{pat(`<block>`), c.parseBlock},

		{pat(`<if\s+condition=(.+)>$`), c.parseIfExpr},

		{pat(`<(\w+)>`), c.parseNamedBlock},
	}
}

// defineNamed records a construct name. Definitions produce no node;
// the name takes effect at its first usage.
func (c *Compiler) defineNamed(kind string) handler {
	return func(m []string, current ast.Node) (ast.Node, bool) {
		c.named[m[1]] = kind
		return nil, true
	}
}

// parseCondOpen opens a conditional block for <if condition="..."> and
// for any name declared with <if_name="...">. A name declared as some
// other kind, or never declared, consumes the line without opening
// anything.
func (c *Compiler) parseCondOpen(m []string, current ast.Node) (ast.Node, bool) {
	name, condition := m[1], m[2]
	if name == "if" || c.named[name] == "if" {
		return ast.Append(current, ast.NewIf(name, condition)), true
	}
	if _, declared := c.named[name]; !declared {
		c.report("PARSE-0003", map[string]any{"Name": name, "Kind": "if"})
	}
	return nil, true
}

// parseClose ascends out of the current block for the standard block
// tags and for declared construct names. Any other closing tag is
// consumed where it stands.
func (c *Compiler) parseClose(m []string, current ast.Node) (ast.Node, bool) {
	name := m[1]
	_, declared := c.named[name]
	if standardClose[name] || declared {
		return c.ascend(current, name), true
	}
	c.report("PARSE-0002", map[string]any{"Tag": name})
	return nil, true
}

func (c *Compiler) parseForeverInterval(m []string, current ast.Node) (ast.Node, bool) {
	interval, _ := strconv.Atoi(m[1])
	return ast.Append(current, ast.NewForever(interval)), true
}

func (c *Compiler) parseForever(m []string, current ast.Node) (ast.Node, bool) {
	return ast.Append(current, ast.NewForever(0)), true
}

func (c *Compiler) parseIfEvent(m []string, current ast.Node) (ast.Node, bool) {
	return ast.Append(current, ast.NewEventIf(m[1])), true
}

// parseWidgetText is the catch-all for <name_text="...">. The node
// works out at execution time which widget kind owns the name.
func (c *Compiler) parseWidgetText(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewWidgetText(m[1], m[2]))
	return nil, true
}

func (c *Compiler) parseLoopCount(m []string, current ast.Node) (ast.Node, bool) {
	return ast.Append(current, ast.NewLoop(m[1], "", "", m[2])), true
}

func (c *Compiler) parseLoopRange(m []string, current ast.Node) (ast.Node, bool) {
	return ast.Append(current, ast.NewLoop("", m[1], m[2], m[3])), true
}

// parseNamedCount opens a counted loop under a declared loop name.
// Names declared as another kind consume the line quietly, mirroring
// parseCondOpen.
func (c *Compiler) parseNamedCount(m []string, current ast.Node) (ast.Node, bool) {
	name := m[1]
	if c.named[name] == "loop" {
		return ast.Append(current, ast.NewLoop(m[2], "", "", m[3])), true
	}
	if _, declared := c.named[name]; !declared {
		c.report("PARSE-0003", map[string]any{"Name": name, "Kind": "loop"})
	}
	return nil, true
}

func (c *Compiler) parseNamedRange(m []string, current ast.Node) (ast.Node, bool) {
	name := m[1]
	if c.named[name] == "loop" {
		return ast.Append(current, ast.NewLoop("", m[2], m[3], m[4])), true
	}
	if _, declared := c.named[name]; !declared {
		c.report("PARSE-0003", map[string]any{"Name": name, "Kind": "loop"})
	}
	return nil, true
}

func (c *Compiler) parseBlock(m []string, current ast.Node) (ast.Node, bool) {
	return ast.Append(current, ast.NewSequence("block")), true
}

// parseIfExpr handles the unquoted legacy form. The capture runs to
// the last bracket on the line, so conditions may carry references and
// quoted strings.
func (c *Compiler) parseIfExpr(m []string, current ast.Node) (ast.Node, bool) {
	return ast.Append(current, ast.NewIf("if", m[1])), true
}

// parseNamedBlock opens a grouping block under a declared name. An
// undeclared name declines the match so the line can still reach the
// dynamic fallback.
func (c *Compiler) parseNamedBlock(m []string, current ast.Node) (ast.Node, bool) {
	if _, declared := c.named[m[1]]; !declared {
		return nil, false
	}
	return ast.Append(current, ast.NewSequence(m[1])), true
}
