package ast

import (
	"strings"
	"testing"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

func TestVarStoresResolvedValue(t *testing.T) {
	env, _ := newTestEnv()

	node := NewVar("x")
	node.Value = "42"
	node.HasValue = true
	node.Execute(env)

	// Plain text stays text; coercion happens at the point of use.
	if got := env.Vars.Value("x"); got != "42" {
		t.Errorf("x = %#v, want the string \"42\"", got)
	}
}

func TestVarResolvesTemplates(t *testing.T) {
	env, _ := newTestEnv()
	env.Vars.Set("y", 7)

	quoted := NewVar("x")
	quoted.Value = "<y_value>"
	quoted.HasValue = true
	quoted.Execute(env)
	if got := env.Vars.Value("x"); got != 7 {
		t.Errorf("quoted reference x = %#v, want 7", got)
	}

	mixed := NewVar("msg")
	mixed.Value = "<y_value> items"
	mixed.HasValue = true
	mixed.Execute(env)
	if got := env.Vars.Value("msg"); got != "7 items" {
		t.Errorf("mixed template msg = %#v, want \"7 items\"", got)
	}
}

func TestVarRefCopiesTypedValue(t *testing.T) {
	env, _ := newTestEnv()
	env.Vars.Set("y", 3.25)

	node := NewVar("x")
	node.Ref = "y"
	node.Execute(env)

	if got := env.Vars.Value("x"); got != 3.25 {
		t.Errorf("x = %#v, want the float 3.25 copied as-is", got)
	}
}

func TestVarRefMissingSourceStoresNil(t *testing.T) {
	env, _ := newTestEnv()

	node := NewVar("x")
	node.Ref = "ghost"
	node.Execute(env)

	if !env.Vars.Exists("x") {
		t.Fatal("x should be declared even when the source is missing")
	}
	if got := env.Vars.Value("x"); got != nil {
		t.Errorf("x = %#v, want nil", got)
	}
}

func TestVarBareDeclaration(t *testing.T) {
	env, _ := newTestEnv()

	NewVar("x").Execute(env)

	if !env.Vars.Exists("x") {
		t.Fatal("x should exist after declaration")
	}
	if got := env.Vars.Value("x"); got != nil {
		t.Errorf("x = %#v, want nil", got)
	}
}

func TestVarEmptyValueStaysEmptyString(t *testing.T) {
	env, _ := newTestEnv()

	node := NewVar("x")
	node.HasValue = true
	node.Execute(env)

	if got := env.Vars.Value("x"); got != "" {
		t.Errorf("x = %#v, want the empty string", got)
	}
}

func TestVarInputDefaultPrompt(t *testing.T) {
	env, log := newTestEnv()
	env.Input = strings.NewReader("blue\n")

	node := NewVar("color")
	node.Input = true
	node.Execute(env)

	if got := env.Vars.Value("color"); got != "blue" {
		t.Errorf("color = %#v, want \"blue\"", got)
	}
	if len(log.lines) != 1 || log.lines[0] != "Enter value for color: " {
		t.Errorf("prompt = %q, want the default prompt", log.lines)
	}
}

func TestVarInputCustomPrompt(t *testing.T) {
	env, log := newTestEnv()
	env.Input = strings.NewReader("42\n")

	node := NewVar("age")
	node.Input = true
	node.Prompt = "How old? "
	node.Execute(env)

	if got := env.Vars.Value("age"); got != "42" {
		t.Errorf("age = %#v, want \"42\"", got)
	}
	if len(log.lines) != 1 || log.lines[0] != "How old? " {
		t.Errorf("prompt = %q, want it passed through verbatim", log.lines)
	}
}

func TestVarInputEOFStoresEmpty(t *testing.T) {
	env, _ := newTestEnv()
	env.Input = strings.NewReader("")

	node := NewVar("x")
	node.Input = true
	node.Execute(env)

	if got := env.Vars.Value("x"); got != "" {
		t.Errorf("x = %#v, want empty string at EOF", got)
	}
}

func TestVarRunsChildrenBeforeResolving(t *testing.T) {
	env, _ := newTestEnv()

	node := NewVar("x")
	node.Value = "<y_value>"
	node.HasValue = true
	Append(node, newFuncNode(func(env *runtime.Env) {
		env.Vars.Set("y", 9)
	}))
	node.Execute(env)

	if got := env.Vars.Value("x"); got != 9 {
		t.Errorf("x = %#v, want 9 set by the child first", got)
	}
}

func TestMathOps(t *testing.T) {
	tests := []struct {
		name  string
		start any
		op    string
		value string
		want  any
	}{
		{"assign evaluates", 0, "=", "2 + 3", 5},
		{"assign walrus", 0, ":=", "7", 7},
		{"assign verb", 0, "set", "7", 7},
		{"add", 10, "+=", "5", 15},
		{"add verb", 10, "add", "5", 15},
		{"sub", 10, "-=", "3", 7},
		{"sub verb", 10, "sub", "3", 7},
		{"mul", 4, "*=", "3", 12},
		{"div widens to float", 10, "/=", "4", 2.5},
		{"div by zero", 10, "/=", "0", 0},
		{"floordiv", 7, "//=", "2", 3},
		{"floordiv negative floors", -7, "//=", "2", -4},
		{"floordiv by zero", 7, "//=", "0", 0},
		{"mod", 10, "%=", "3", 1},
		{"mod by zero", 10, "%=", "0", 0},
		{"pow stays int", 2, "**=", "3", 8},
		{"pow negative exponent", 2, "**=", "-1", 0.5},
		{"inc", 10, "++", "", 11},
		{"inc verb", 10, "inc", "", 11},
		{"dec", 10, "--", "", 9},
		{"unknown op stores operand", 10, "??", "7", 7},
		{"float current", 2.5, "+=", "1", 3.5},
		{"float operand widens", 10, "+=", "2.5", 12.5},
		{"string current coerces", "7", "++", "", 8},
		{"bool current counts as zero", true, "+=", "1", 1},
		{"garbage operand is zero", 10, "+=", "abc", 10},
		{"template operand", 10, "+=", "<y_value>", 13},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env, _ := newTestEnv()
			env.Vars.Set("y", 3)
			env.Vars.Set("x", tc.start)

			NewMath("x", tc.op, tc.value).Execute(env)

			if got := env.Vars.Value("x"); got != tc.want {
				t.Errorf("%v %s %q = %#v, want %#v", tc.start, tc.op, tc.value, got, tc.want)
			}
		})
	}
}

func TestMathMissingVariableStartsAtZero(t *testing.T) {
	env, _ := newTestEnv()

	NewMath("x", "+=", "5").Execute(env)

	if got := env.Vars.Value("x"); got != 5 {
		t.Errorf("x = %#v, want 5 from a zero start", got)
	}
}

func TestMathEmptyValueActsAsZero(t *testing.T) {
	env, _ := newTestEnv()
	env.Vars.Set("x", 10)

	NewMath("x", "+=", "").Execute(env)

	if got := env.Vars.Value("x"); got != 10 {
		t.Errorf("x = %#v, want 10 unchanged", got)
	}
}

func TestMathWithoutVariableNameIsNoOp(t *testing.T) {
	env, _ := newTestEnv()

	NewMath("", "+=", "5").Execute(env)

	if env.Vars.Len() != 0 {
		t.Errorf("variable count = %d, want 0", env.Vars.Len())
	}
}
