package compiler

import (
	"github.com/sambeau/tansy/pkg/tansy/ast"
)

// outputRules prints either a single variable reference or a literal.
// The print alias mirrors the output forms.
func (c *Compiler) outputRules() []rule {
	return []rule{
		{pat(`<output\s+<(\w+)_value>>`), c.parseOutputRef},
		{pat(`<output\s+"([^"]*)">`), c.parseOutputLiteral},
		{pat(`<print\s+<(\w+)_value>>`), c.parseOutputRef},
		{pat(`<print\s+"([^"]*)">`), c.parseOutputLiteral},
	}
}

func (c *Compiler) parseOutputRef(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewOutput("$"+m[1]))
	return nil, true
}

func (c *Compiler) parseOutputLiteral(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewOutput(m[1]))
	return nil, true
}

// consoleRules holds the terminal-behavior statements.
func (c *Compiler) consoleRules() []rule {
	return []rule{
		{pat(`<noterminate>`), c.parseNoTerminate},
		{pat(`<noquit>`), c.parseNoTerminate},
	}
}

func (c *Compiler) parseNoTerminate(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewNoTerminate())
	return nil, true
}

// inputRules reads one console line, with or without a prompt. The
// bare form stores the line under the variable named input.
func (c *Compiler) inputRules() []rule {
	return []rule{
		{pat(`<input\s+prompt="([^"]*)">`), c.parseInputPrompt},
		{pat(`<input>`), c.parseInput},
	}
}

func (c *Compiler) parseInputPrompt(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewInput(m[1]))
	return nil, true
}

func (c *Compiler) parseInput(m []string, current ast.Node) (ast.Node, bool) {
	ast.Append(current, ast.NewInput(""))
	return nil, true
}

// randomRules declares a named number generator. The body is scanned
// for attributes, so order inside the tag does not matter, and a
// self-closing slash is tolerated.
func (c *Compiler) randomRules() []rule {
	return []rule{
		{pat(`<random\s+(.+?)\s*/?>$`), c.parseRandom},
	}
}

func (c *Compiler) parseRandom(m []string, current ast.Node) (ast.Node, bool) {
	attrs := scanAttrs(m[1])
	ast.Append(current, ast.NewRandom(attrs["name"], attrs["min"], attrs["max"], attrs["seed"]))
	return nil, true
}
