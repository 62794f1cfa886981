// Package resolve substitutes variable references inside attribute text
// and evaluates sandboxed arithmetic over the result.
//
// Two reference forms are recognized anywhere in a string:
//
//	<name_suffix>  compound references: bound callables, generator
//	               operations, and <name_value> lookups
//	$name          plain variable references
//
// References that cannot be resolved pass through verbatim.
package resolve

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

var (
	tagPattern    = regexp.MustCompile(`<(\w+)_(\w+)>`)
	dollarPattern = regexp.MustCompile(`\$(\w+)`)
)

// Value substitutes every reference in s and returns the result. When
// substitution changed the string and left it fully numeric, the result
// converts to int, or to float64 when it contains a decimal point.
// A string without references comes back unchanged, as a string.
func Value(s string, env *runtime.Env) any {
	result := tagPattern.ReplaceAllStringFunc(s, func(m string) string {
		groups := tagPattern.FindStringSubmatch(m)
		name, suffix := groups[1], groups[2]

		// An exact compound binding wins over everything else.
		if v, ok := env.Binding(name + "_" + suffix); ok {
			if fn, ok := v.(func() any); ok {
				return formatValue(fn())
			}
			return formatValue(v)
		}

		// Generator operations, such as <dice_random> or <dice_float>.
		if g, ok := env.Generator(name); ok {
			if v, ok := g.Invoke(suffix); ok {
				return formatValue(v)
			}
		}

		// <name_value> reads the entry field first, then the variable.
		if suffix == "value" {
			if v, ok := env.InputValue(name); ok {
				return v
			}
			if v := env.Vars.Value(name); v != nil {
				return formatValue(v)
			}
		}

		return m
	})

	result = dollarPattern.ReplaceAllStringFunc(result, func(m string) string {
		name := dollarPattern.FindStringSubmatch(m)[1]
		if v := env.Vars.Value(name); v != nil {
			return formatValue(v)
		}
		return m
	})

	if result == s {
		return result
	}
	return coerceNumeric(result)
}

// AsString resolves s and always returns text.
func AsString(s string, env *runtime.Env) string {
	return formatValue(Value(s, env))
}

// AsInt resolves s and coerces to int, truncating floats toward zero.
// Returns def when the result is not numeric.
func AsInt(s string, env *runtime.Env, def int) int {
	switch v := Value(s, env).(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(f)
		}
	}
	return def
}

// AsFloat resolves s and coerces to float64. Returns def when the
// result is not numeric.
func AsFloat(s string, env *runtime.Env, def float64) float64 {
	switch v := Value(s, env).(type) {
	case int:
		return float64(v)
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// AsBool resolves s and coerces to bool. Numbers are true when nonzero;
// text is true for the tokens true, yes, 1, on, and enabled, compared
// case-insensitively. Everything else is false.
func AsBool(s string, env *runtime.Env, def bool) bool {
	switch v := Value(s, env).(type) {
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "on", "enabled":
			return true
		}
		return false
	}
	return def
}

// Format renders a final value as display text, using the same rules
// substitution does. The variable dump and widget text go through it so
// a float variable never silently prints as an int.
func Format(v any) string {
	return formatValue(v)
}

// formatValue renders a value as substitution text. Integer-valued
// floats keep a trailing decimal so they round-trip as floats.
func formatValue(v any) string {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return fmt.Sprint(v)
}

func coerceNumeric(s string) any {
	trimmed := strings.TrimSpace(s)
	if strings.Contains(trimmed, ".") {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	} else if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	return s
}
