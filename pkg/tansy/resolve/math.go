package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"

	"github.com/sambeau/tansy/pkg/tansy/errors"
	"github.com/sambeau/tansy/pkg/tansy/expr"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Eval resolves the references in expression, then evaluates what
// remains as arithmetic. Substitution that already yields a plain
// number short-circuits the evaluator. The expression may only use a
// restricted character set and the stock function table; quotes are
// rejected, so no string literals reach the evaluator from here.
func Eval(expression string, env *runtime.Env) (any, error) {
	resolved := Value(expression, env)
	switch v := resolved.(type) {
	case int:
		return v, nil
	case float64:
		return v, nil
	}

	text := fmt.Sprint(resolved)
	if r, bad := illegalChar(text); bad {
		return nil, errors.New("MATH-0001", map[string]any{
			"Char":    string(r),
			"Allowed": "letters, '_', and + - * / % ( ) . < > = ! ,",
		})
	}

	result, err := expr.Run(text, expr.Builtins())
	if err != nil {
		return nil, errors.New("MATH-0002", map[string]any{
			"Expr":   expression,
			"Reason": err.Error(),
		})
	}
	return result, nil
}

var condValuePattern = regexp.MustCompile(`<(\w+)_value>`)

// Condition evaluates a conditional expression leniently. Only plain
// variable references substitute here: text values are quoted so string
// comparisons work, and missing names become null. Any failure prints a
// diagnostic through env and degrades to false.
func Condition(condition string, env *runtime.Env) bool {
	substituted := condValuePattern.ReplaceAllStringFunc(condition, func(m string) string {
		name := condValuePattern.FindStringSubmatch(m)[1]
		return conditionOperand(env.Vars.Value(name))
	})
	substituted = dollarPattern.ReplaceAllStringFunc(substituted, func(m string) string {
		name := dollarPattern.FindStringSubmatch(m)[1]
		return conditionOperand(env.Vars.Value(name))
	})

	result, err := expr.Run(substituted, expr.Builtins())
	if err != nil {
		diag := errors.New("COND-0001", map[string]any{
			"Reason":    err.Error(),
			"Condition": substituted,
		})
		env.Log.LogLine(diag.Error())
		return false
	}
	return expr.Truthy(result)
}

func conditionOperand(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	}
	return formatValue(v)
}

func illegalChar(s string) (rune, bool) {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			continue
		}
		switch r {
		case '+', '-', '*', '/', '%', '(', ')', '.', ' ', '<', '>', '=', '!', ',':
			continue
		}
		return r, true
	}
	return 0, false
}
