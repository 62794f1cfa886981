package ast

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// IfNode guards its children behind a condition expression. The
// condition is re-evaluated on every Execute, so an if inside a loop
// sees the loop variable change.
type IfNode struct {
	Base
	Condition string
}

// NewIf creates a conditional. tag is "if" for anonymous conditionals
// and the declared name for named ones.
func NewIf(tag, condition string) *IfNode {
	return &IfNode{Base: base(tag), Condition: condition}
}

func (n *IfNode) Execute(env *runtime.Env) {
	if resolve.Condition(n.Condition, env) {
		n.runChildren(env)
	}
	n.done()
}

var eventRefPattern = regexp.MustCompile(`^<(\w+)_(\w+)>`)

// EventIfNode runs its children when a widget event flag is set, then
// clears the flag so the event is consumed exactly once. The event
// attribute keeps its source form, "<btn1_click>".
type EventIfNode struct {
	Base
	Event string
}

func NewEventIf(event string) *EventIfNode {
	return &EventIfNode{Base: base("if_event"), Event: event}
}

func (n *EventIfNode) Execute(env *runtime.Env) {
	if m := eventRefPattern.FindStringSubmatch(n.Event); m != nil {
		key := m[1] + "_" + m[2]
		if env.Events.Peek(key) {
			n.runChildren(env)
			env.Events.Clear(key)
		}
	}
	n.done()
}

// LoopNode repeats its children a bounded number of times. A count
// attribute iterates var over [0, count); otherwise from/to iterate the
// inclusive range [from, to]. The loop variable lands in the variable
// store before each pass, and stays set after the loop ends.
type LoopNode struct {
	Base
	Count string
	From  string
	To    string
	Var   string
}

// NewLoop creates a loop node. Empty count selects the from/to range;
// empty from starts at zero; empty varName counts in "i".
func NewLoop(count, from, to, varName string) *LoopNode {
	return &LoopNode{Base: base("loop"), Count: count, From: from, To: to, Var: varName}
}

func (n *LoopNode) Execute(env *runtime.Env) {
	defer n.done()

	name := n.Var
	if name == "" {
		name = "i"
	}

	if n.Count != "" {
		count, err := strconv.Atoi(strings.TrimSpace(n.Count))
		if err != nil {
			return
		}
		for i := 0; i < count; i++ {
			if env.Ctx.Err() != nil {
				return
			}
			env.Vars.Set(name, i)
			n.runChildren(env)
		}
		return
	}

	if n.To == "" {
		return
	}
	from := n.From
	if from == "" {
		from = "0"
	}
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return
	}
	end, err := strconv.Atoi(strings.TrimSpace(n.To))
	if err != nil {
		return
	}
	for i := start; i <= end; i++ {
		if env.Ctx.Err() != nil {
			return
		}
		env.Vars.Set(name, i)
		n.runChildren(env)
	}
}

// ForeverNode repeats its children on a fixed interval until the run is
// cancelled. With a live surface the body becomes a repeating surface
// task and Execute returns immediately; without one it blocks and
// ticks on a timer until the context ends.
type ForeverNode struct {
	Base
	Interval int // milliseconds between iterations

	task runtime.Task
}

// NewForever creates a forever loop. interval <= 0 falls back to the
// environment default, then to 100ms.
func NewForever(interval int) *ForeverNode {
	return &ForeverNode{Base: base("forever"), Interval: interval}
}

func (n *ForeverNode) Execute(env *runtime.Env) {
	interval := n.Interval
	if interval <= 0 {
		interval = env.Interval
	}
	if interval <= 0 {
		interval = 100
	}
	period := time.Duration(interval) * time.Millisecond

	env.RegisterForever(n)

	if surface := env.Surface; surface != nil && surface.Alive() {
		n.task = surface.Repeat(period, func() {
			if !surface.Alive() || env.Ctx.Err() != nil {
				n.Cancel()
				return
			}
			n.runChildren(env)
		})
		n.done()
		return
	}

	n.runBlocking(env, period)
	n.done()
}

func (n *ForeverNode) runBlocking(env *runtime.Env, period time.Duration) {
	for {
		if env.Ctx.Err() != nil {
			return
		}
		n.runChildren(env)
		select {
		case <-env.Ctx.Done():
			return
		case <-time.After(period):
		}
	}
}

// Cancel stops the scheduled surface task, when one is running.
func (n *ForeverNode) Cancel() {
	if n.task != nil {
		n.task.Cancel()
	}
}
