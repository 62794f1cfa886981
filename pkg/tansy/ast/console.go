package ast

import (
	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// OutputNode prints one resolved value followed by a newline.
// References that cannot be resolved pass through verbatim, so the
// printed line shows exactly what the script asked for.
type OutputNode struct {
	Base
	Value string
}

func NewOutput(value string) *OutputNode {
	return &OutputNode{Base: base("output"), Value: value}
}

func (n *OutputNode) Execute(env *runtime.Env) {
	n.runChildren(env)
	env.Log.LogLine(resolve.AsString(n.Value, env))
	n.done()
}

// InputNode reads one console line and stores it under "input". The
// prompt, when present, gets a trailing space so the cursor does not
// touch the user's typing.
type InputNode struct {
	Base
	Prompt string
}

func NewInput(prompt string) *InputNode {
	return &InputNode{Base: base("input"), Prompt: prompt}
}

func (n *InputNode) Execute(env *runtime.Env) {
	if n.Prompt != "" {
		env.Log.Log(n.Prompt + " ")
	}
	line, err := env.ReadLine()
	if err != nil {
		line = ""
	}
	env.Vars.Set("input", line)
	n.done()
}

// NoTerminateNode marks the run as wanting to stay open after the last
// statement. The host decides what that means; the terminal runner
// waits for Enter.
type NoTerminateNode struct {
	Base
}

func NewNoTerminate() *NoTerminateNode {
	return &NoTerminateNode{Base: base("noterminate")}
}

func (n *NoTerminateNode) Execute(env *runtime.Env) {
	env.NoTerminate = true
	n.runChildren(env)
	n.done()
}
