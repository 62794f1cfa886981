// Package ast defines the executable action tree. Each source line the
// dispatcher recognizes becomes one typed node; block tags own their
// body lines as children. Executing the root walks the tree depth-first
// against a shared runtime environment. Attribute fields hold the raw
// text from the source line, templates included; interpolation and
// coercion happen once, when a field is read during Execute.
package ast

import (
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Node is one executable statement or block in the action tree.
type Node interface {
	Tag() string
	Parent() Node
	Children() []Node
	Ready() bool
	Execute(env *runtime.Env)

	attach(parent Node)
	adopt(child Node)
}

// Append attaches child under parent and returns child. Handlers use
// the return value to descend into block bodies.
func Append(parent, child Node) Node {
	parent.adopt(child)
	child.attach(parent)
	return child
}

// Base carries the structure shared by every node kind: the tag label,
// the child list, the parent back-reference used to pop scopes during
// parsing, and the readiness flags.
type Base struct {
	tag      string
	parent   Node
	children []Node
	ready    bool
	executed bool
}

func base(tag string) Base {
	return Base{tag: tag}
}

func (b *Base) Tag() string      { return b.tag }
func (b *Base) Parent() Node     { return b.parent }
func (b *Base) Children() []Node { return b.children }

func (b *Base) attach(parent Node) { b.parent = parent }
func (b *Base) adopt(child Node)   { b.children = append(b.children, child) }

// Ready reports whether this node and every descendant finished their
// execution pass. Computed on demand, never cached.
func (b *Base) Ready() bool {
	if !b.ready {
		return false
	}
	for _, c := range b.children {
		if !c.Ready() {
			return false
		}
	}
	return true
}

// Executed reports whether Execute ran at least once. Diagnostic only.
func (b *Base) Executed() bool { return b.executed }

func (b *Base) runChildren(env *runtime.Env) {
	for _, c := range b.children {
		c.Execute(env)
	}
}

func (b *Base) done() {
	b.ready = true
	b.executed = true
}

// SequenceNode runs its children in source order with no condition and
// no short-circuit. The parse root is a sequence, as is <block>.
type SequenceNode struct {
	Base
}

// NewSequence creates a sequence node labelled tag ("root", "block", or
// a declared block name).
func NewSequence(tag string) *SequenceNode {
	return &SequenceNode{base(tag)}
}

func (n *SequenceNode) Execute(env *runtime.Env) {
	n.runChildren(env)
	n.done()
}

// HasForever reports whether the tree under root contains a forever
// loop. The REPL refuses such chunks so the prompt cannot block.
func HasForever(root Node) bool {
	if _, ok := root.(*ForeverNode); ok {
		return true
	}
	for _, c := range root.Children() {
		if HasForever(c) {
			return true
		}
	}
	return false
}
