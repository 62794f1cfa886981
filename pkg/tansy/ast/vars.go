package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// VarNode declares or assigns a variable. The value comes from one of
// three sources, checked in order: a console prompt (Input), a direct
// copy of another variable (Ref, which preserves the source's type),
// or the resolved Value text. With none of those the variable is
// declared and holds nil.
type VarNode struct {
	Base
	Name     string
	Value    string
	HasValue bool
	Ref      string // source variable for a direct <other_value> copy
	Input    bool   // read the value from the console reader
	Prompt   string // prompt for Input; empty selects the default
}

// NewVar creates a variable node. Value, Ref, Input and Prompt are set
// by the handler that recognized the statement form.
func NewVar(name string) *VarNode {
	return &VarNode{Base: base("var"), Name: name}
}

func (n *VarNode) Execute(env *runtime.Env) {
	n.runChildren(env)

	var value any
	switch {
	case n.Input:
		prompt := n.Prompt
		if prompt == "" {
			prompt = "Enter value for " + n.Name + ": "
		}
		env.Log.Log(prompt)
		line, err := env.ReadLine()
		if err == nil {
			value = line
		} else {
			value = ""
		}
	case n.Ref != "":
		value = env.Vars.Value(n.Ref)
	case n.HasValue && n.Value != "":
		value = resolve.Value(n.Value, env)
	case n.HasValue:
		value = n.Value
	}

	if n.Name != "" {
		env.Vars.Set(n.Name, value)
	}
	n.done()
}

// MathNode updates a variable in place. The operand is evaluated as a
// math expression first; when that fails it falls back to template
// resolution plus numeric coercion, and finally to zero. The stored
// value stays int as long as every input is int, in the usual
// calculator sense: division always widens to float.
type MathNode struct {
	Base
	Var   string
	Op    string
	Value string
}

func NewMath(varName, op, value string) *MathNode {
	return &MathNode{Base: base("math"), Var: varName, Op: op, Value: value}
}

func (n *MathNode) Execute(env *runtime.Env) {
	defer n.done()
	if n.Var == "" {
		return
	}

	operand := n.operand(env)
	current := toNumber(env.Vars.Value(n.Var))

	var result any
	switch n.Op {
	case "=", ":=", "set":
		result = operand
	case "+=", "add":
		result = numAdd(current, operand)
	case "-=", "sub":
		result = numSub(current, operand)
	case "*=", "mul":
		result = numMul(current, operand)
	case "/=", "div":
		result = numDiv(current, operand)
	case "//=", "floordiv":
		result = numFloorDiv(current, operand)
	case "%=", "mod":
		result = numMod(current, operand)
	case "**=", "pow":
		result = numPow(current, operand)
	case "++", "inc":
		result = numAdd(current, 1)
	case "--", "dec":
		result = numSub(current, 1)
	default:
		result = operand
	}

	env.Vars.Set(n.Var, result)
}

// operand evaluates the value attribute. Expressions win; otherwise the
// resolved text is coerced to a number, and anything unparseable
// becomes zero rather than stopping the script.
func (n *MathNode) operand(env *runtime.Env) any {
	expr := n.Value
	if expr == "" {
		expr = "0"
	}
	if v, err := resolve.Eval(expr, env); err == nil {
		return v
	}
	return toNumber(resolve.Value(expr, env))
}

// toNumber coerces a stored value to int or float64. A decimal point
// anywhere in the text selects float; everything unparseable, nil and
// bools included, collapses to int zero.
func toNumber(v any) any {
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		return t
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if strings.Contains(s, ".") {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
			return 0
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		return 0
	}
	return 0
}

// numParts views a value as a float plus an "is integral" flag. Bools
// count as integral 1 and 0 so comparison results can feed arithmetic.
func numParts(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		return t, false
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, true
}

func narrowNum(f float64, bothInt bool) any {
	if bothInt {
		return int(f)
	}
	return f
}

func numAdd(a, b any) any {
	fa, ai := numParts(a)
	fb, bi := numParts(b)
	return narrowNum(fa+fb, ai && bi)
}

func numSub(a, b any) any {
	fa, ai := numParts(a)
	fb, bi := numParts(b)
	return narrowNum(fa-fb, ai && bi)
}

func numMul(a, b any) any {
	fa, ai := numParts(a)
	fb, bi := numParts(b)
	return narrowNum(fa*fb, ai && bi)
}

// numDiv divides and always widens to float. A zero divisor yields
// zero instead of stopping the script.
func numDiv(a, b any) any {
	fa, _ := numParts(a)
	fb, _ := numParts(b)
	if fb == 0 {
		return 0
	}
	return fa / fb
}

func numFloorDiv(a, b any) any {
	fa, ai := numParts(a)
	fb, bi := numParts(b)
	if fb == 0 {
		return 0
	}
	if ai && bi {
		return floorDivInt(int(fa), int(fb))
	}
	return math.Floor(fa / fb)
}

func floorDivInt(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func numMod(a, b any) any {
	fa, ai := numParts(a)
	fb, bi := numParts(b)
	if fb == 0 {
		return 0
	}
	if ai && bi {
		return int(fa) % int(fb)
	}
	return math.Mod(fa, fb)
}

// numPow raises a to b and narrows back to int when both inputs were
// int and the result is integral, so counters stay counters.
func numPow(a, b any) any {
	fa, ai := numParts(a)
	fb, bi := numParts(b)
	r := math.Pow(fa, fb)
	if ai && bi && r == math.Trunc(r) && !math.IsInf(r, 0) {
		return int(r)
	}
	return r
}
