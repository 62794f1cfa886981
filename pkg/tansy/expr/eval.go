package expr

import (
	"math"
	"strconv"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/errors"
)

// BuiltinFunc is a function callable from expressions.
type BuiltinFunc func(args ...any) (any, error)

// Funcs is the function table an evaluation runs with. Identifier calls
// outside the table fail; there is no other access to the host.
type Funcs map[string]BuiltinFunc

// Builtins returns the stock function table: abs, min, max, round, int,
// float, len, sqrt, pow. The arithmetic sandbox allows exactly these.
func Builtins() Funcs {
	return Funcs{
		"abs": func(args ...any) (any, error) {
			if err := arity("abs", 1, args); err != nil {
				return nil, err
			}
			f, err := toFloat("abs", args[0])
			if err != nil {
				return nil, err
			}
			return narrow(math.Abs(f), isInt(args[0])), nil
		},
		"min": minMax("min", func(a, b float64) bool { return a < b }),
		"max": minMax("max", func(a, b float64) bool { return a > b }),
		"round": func(args ...any) (any, error) {
			if err := arity("round", 1, args); err != nil {
				return nil, err
			}
			f, err := toFloat("round", args[0])
			if err != nil {
				return nil, err
			}
			return int(math.Round(f)), nil
		},
		"int": func(args ...any) (any, error) {
			if err := arity("int", 1, args); err != nil {
				return nil, err
			}
			switch v := args[0].(type) {
			case int:
				return v, nil
			case float64:
				return int(v), nil
			case bool:
				if v {
					return 1, nil
				}
				return 0, nil
			case string:
				f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return nil, errors.New("EXPR-0008", map[string]any{"Op": "int", "Type": "string"})
				}
				return int(f), nil
			}
			return nil, errors.New("EXPR-0008", map[string]any{"Op": "int", "Type": typeName(args[0])})
		},
		"float": func(args ...any) (any, error) {
			if err := arity("float", 1, args); err != nil {
				return nil, err
			}
			switch v := args[0].(type) {
			case int:
				return float64(v), nil
			case float64:
				return v, nil
			case string:
				f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return nil, errors.New("EXPR-0008", map[string]any{"Op": "float", "Type": "string"})
				}
				return f, nil
			}
			return nil, errors.New("EXPR-0008", map[string]any{"Op": "float", "Type": typeName(args[0])})
		},
		"len": func(args ...any) (any, error) {
			if err := arity("len", 1, args); err != nil {
				return nil, err
			}
			s, ok := args[0].(string)
			if !ok {
				return nil, errors.New("EXPR-0008", map[string]any{"Op": "len", "Type": typeName(args[0])})
			}
			return len(s), nil
		},
		"sqrt": func(args ...any) (any, error) {
			if err := arity("sqrt", 1, args); err != nil {
				return nil, err
			}
			f, err := toFloat("sqrt", args[0])
			if err != nil {
				return nil, err
			}
			return math.Sqrt(f), nil
		},
		"pow": func(args ...any) (any, error) {
			if err := arity("pow", 2, args); err != nil {
				return nil, err
			}
			base, err := toFloat("pow", args[0])
			if err != nil {
				return nil, err
			}
			exp, err := toFloat("pow", args[1])
			if err != nil {
				return nil, err
			}
			return narrow(math.Pow(base, exp), isInt(args[0]) && isInt(args[1])), nil
		},
	}
}

func arity(name string, want int, args []any) error {
	if len(args) != want {
		return errors.New("EXPR-0005", map[string]any{"Name": name, "Want": want, "Got": len(args)})
	}
	return nil
}

func minMax(name string, better func(a, b float64) bool) BuiltinFunc {
	return func(args ...any) (any, error) {
		if len(args) < 1 {
			return nil, errors.New("EXPR-0005", map[string]any{"Name": name, "Want": "at least 1", "Got": len(args)})
		}
		best := args[0]
		bestF, err := toFloat(name, best)
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			f, err := toFloat(name, a)
			if err != nil {
				return nil, err
			}
			if better(f, bestF) {
				best, bestF = a, f
			}
		}
		return best, nil
	}
}

// Eval walks node with the given function table.
func Eval(node Node, fns Funcs) (any, error) {
	switch n := node.(type) {
	case *IntLit:
		return n.Value, nil
	case *FloatLit:
		return n.Value, nil
	case *StringLit:
		return n.Value, nil
	case *BoolLit:
		return n.Value, nil
	case *NullLit:
		return nil, nil
	case *Ident:
		return nil, errors.New("EXPR-0003", map[string]any{"Name": n.Name})
	case *PrefixExpr:
		return evalPrefix(n, fns)
	case *InfixExpr:
		return evalInfix(n, fns)
	case *CallExpr:
		return evalCall(n, fns)
	}
	return nil, errors.New("EXPR-0001", map[string]any{"Token": node.String()})
}

// Run parses and evaluates input in one step.
func Run(input string, fns Funcs) (any, error) {
	node, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return Eval(node, fns)
}

// Truthy converts a value to its condition result: false for nil, zero,
// empty string, and false; true otherwise.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	}
	return true
}

func evalPrefix(n *PrefixExpr, fns Funcs) (any, error) {
	right, err := Eval(n.Right, fns)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!", "not":
		return !Truthy(right), nil
	case "-":
		switch v := right.(type) {
		case int:
			return -v, nil
		case float64:
			return -v, nil
		}
		return nil, errors.New("EXPR-0008", map[string]any{"Op": "-", "Type": typeName(right)})
	case "+":
		switch right.(type) {
		case int, float64:
			return right, nil
		}
		return nil, errors.New("EXPR-0008", map[string]any{"Op": "+", "Type": typeName(right)})
	}
	return nil, errors.New("EXPR-0008", map[string]any{"Op": n.Op, "Type": typeName(right)})
}

func evalInfix(n *InfixExpr, fns Funcs) (any, error) {
	// Logical operators short-circuit before the right side evaluates.
	if n.Op == "&&" || n.Op == "||" {
		left, err := Eval(n.Left, fns)
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" && !Truthy(left) {
			return false, nil
		}
		if n.Op == "||" && Truthy(left) {
			return true, nil
		}
		right, err := Eval(n.Right, fns)
		if err != nil {
			return nil, err
		}
		return Truthy(right), nil
	}

	left, err := Eval(n.Left, fns)
	if err != nil {
		return nil, err
	}
	right, err := Eval(n.Right, fns)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil
	case "<", ">", "<=", ">=":
		return compare(n.Op, left, right)
	case "+", "-", "*", "/", "//", "%", "**":
		return arithmetic(n.Op, left, right)
	}
	return nil, errors.New("EXPR-0008", map[string]any{"Op": n.Op, "Type": typeName(left)})
}

func evalCall(n *CallExpr, fns Funcs) (any, error) {
	fn, ok := fns[n.Func]
	if !ok {
		return nil, errors.New("EXPR-0004", map[string]any{"Name": n.Func})
	}
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, fns)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args...)
}

// valuesEqual follows loose-script equality: numbers compare numerically
// across int/float, otherwise mismatched types are simply unequal.
func valuesEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	lf, lok := numeric(left)
	rf, rok := numeric(right)
	if lok && rok {
		return lf == rf
	}
	if lok != rok {
		return false
	}
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	}
	return false
}

func compare(op string, left, right any) (any, error) {
	lf, lok := numeric(left)
	rf, rok := numeric(right)
	if lok && rok {
		switch op {
		case "<":
			return lf < rf, nil
		case ">":
			return lf > rf, nil
		case "<=":
			return lf <= rf, nil
		case ">=":
			return lf >= rf, nil
		}
	}
	ls, lsok := left.(string)
	rs, rsok := right.(string)
	if lsok && rsok {
		switch op {
		case "<":
			return ls < rs, nil
		case ">":
			return ls > rs, nil
		case "<=":
			return ls <= rs, nil
		case ">=":
			return ls >= rs, nil
		}
	}
	return nil, errors.New("EXPR-0006", map[string]any{"Left": typeName(left), "Right": typeName(right)})
}

func arithmetic(op string, left, right any) (any, error) {
	// String concatenation is the one non-numeric arithmetic form.
	if op == "+" {
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
	}

	lf, lok := numeric(left)
	rf, rok := numeric(right)
	if !lok || !rok {
		return nil, errors.New("EXPR-0008", map[string]any{"Op": op, "Type": typeName(pickNonNumeric(left, right))})
	}
	bothInt := isInt(left) && isInt(right)

	switch op {
	case "+":
		return narrow(lf+rf, bothInt), nil
	case "-":
		return narrow(lf-rf, bothInt), nil
	case "*":
		return narrow(lf*rf, bothInt), nil
	case "/":
		if rf == 0 {
			return nil, errors.New("EXPR-0007", nil)
		}
		return lf / rf, nil
	case "//":
		if rf == 0 {
			return nil, errors.New("EXPR-0007", nil)
		}
		return narrow(math.Floor(lf/rf), bothInt), nil
	case "%":
		if rf == 0 {
			return nil, errors.New("EXPR-0007", nil)
		}
		if bothInt {
			return left.(int) % right.(int), nil
		}
		return math.Mod(lf, rf), nil
	case "**":
		return narrow(math.Pow(lf, rf), bothInt), nil
	}
	return nil, errors.New("EXPR-0008", map[string]any{"Op": op, "Type": typeName(left)})
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isInt(v any) bool {
	_, ok := v.(int)
	return ok
}

// narrow keeps integer arithmetic in ints when the result is integral.
func narrow(f float64, wantInt bool) any {
	if wantInt && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return f
}

func toFloat(name string, v any) (float64, error) {
	if f, ok := numeric(v); ok {
		return f, nil
	}
	return 0, errors.New("EXPR-0008", map[string]any{"Op": name, "Type": typeName(v)})
}

func pickNonNumeric(left, right any) any {
	if _, ok := numeric(left); !ok {
		return left
	}
	return right
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case int:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case bool:
		return "bool"
	}
	return "value"
}
