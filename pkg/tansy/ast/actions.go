package ast

import (
	"strconv"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/gui"
	"github.com/sambeau/tansy/pkg/tansy/registry"
	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Action nodes mutate existing elements. They probe the stores without
// creating them, so acting on an element that was never declared does
// nothing.

// WindowActionNode drives one window: show, hide, close, title or
// size. Value carries the title text, Size the stack-style geometry
// parts.
type WindowActionNode struct {
	Base
	Window string
	Action string
	Value  string
	Size   []string
}

func NewWindowAction(window, action string) *WindowActionNode {
	return &WindowActionNode{Base: base("window_action"), Window: window, Action: action}
}

func (n *WindowActionNode) Execute(env *runtime.Env) {
	defer n.done()

	win, ok := windowIn(env, n.Window)
	if !ok {
		return
	}

	switch n.Action {
	case "show":
		win.Show()
	case "hide":
		win.Hide()
	case "close":
		win.Close()
	case "title":
		win.SetTitle(resolve.AsString(n.Value, env))
	case "size":
		if len(n.Size) == 0 {
			return
		}
		width := resolve.AsInt(n.Size[0], env, 0)
		if width <= 0 {
			return
		}
		height := width
		if len(n.Size) > 1 {
			height = resolve.AsInt(n.Size[1], env, width)
		}
		win.SetSize(width, height)
	}
}

// ButtonActionNode drives one button.
type ButtonActionNode struct {
	Base
	Button string
	Action string
	Value  string
}

func NewButtonAction(button, action, value string) *ButtonActionNode {
	return &ButtonActionNode{Base: base("button_action"), Button: button, Action: action, Value: value}
}

func (n *ButtonActionNode) Execute(env *runtime.Env) {
	defer n.done()

	button, ok := buttonIn(env, n.Button)
	if !ok {
		return
	}

	switch n.Action {
	case "text":
		button.SetText(resolve.AsString(n.Value, env))
	case "enabled":
		button.SetEnabled(strings.EqualFold(resolve.AsString(n.Value, env), "true"))
	case "position":
		if x, y, ok := positionFrom(resolve.AsString(n.Value, env)); ok {
			button.SetPosition(x, y)
		}
	}
}

// EntryActionNode drives one entry field.
type EntryActionNode struct {
	Base
	Entry  string
	Action string
	Value  string
}

func NewEntryAction(entry, action, value string) *EntryActionNode {
	return &EntryActionNode{Base: base("entry_action"), Entry: entry, Action: action, Value: value}
}

func (n *EntryActionNode) Execute(env *runtime.Env) {
	defer n.done()

	entry, ok := entryIn(env, n.Entry)
	if !ok {
		return
	}

	switch n.Action {
	case "value":
		entry.SetValue(resolve.AsString(n.Value, env))
	case "placeholder":
		entry.SetPlaceholder(resolve.AsString(n.Value, env))
	case "readonly":
		entry.SetReadonly(strings.EqualFold(resolve.AsString(n.Value, env), "true"))
	}
}

// WidgetTextNode is the generic <name_text="..."> form. It finds the
// widget at execution time, trying buttons, then labels, then entries,
// and sets its text property. Entries treat text as their value.
type WidgetTextNode struct {
	Base
	Widget string
	Value  string
}

func NewWidgetText(widget, value string) *WidgetTextNode {
	return &WidgetTextNode{Base: base("widget_text"), Widget: widget, Value: value}
}

func (n *WidgetTextNode) Execute(env *runtime.Env) {
	defer n.done()

	text := resolve.AsString(n.Value, env)
	for _, key := range []string{runtime.StoreButtons, runtime.StoreLabels, runtime.StoreEntries} {
		if el, ok := elementIn(env, key, n.Widget); ok {
			if settable, ok := el.(runtime.Settable); ok {
				settable.SetProperty("text", text)
			}
			return
		}
	}
}

// DynamicActionNode handles element statements no dedicated rule
// recognized. The tag registry classifies the element name; the target
// store follows from its category, and the verb dispatches through the
// element's Actionable or Settable side.
type DynamicActionNode struct {
	Base
	Registry *registry.Registry
	Element  string
	Action   string
	Property string
	Value    string
	HasValue bool
}

func NewDynamicAction(reg *registry.Registry, element string) *DynamicActionNode {
	return &DynamicActionNode{Base: base("dynamic_action"), Registry: reg, Element: element}
}

func (n *DynamicActionNode) Execute(env *runtime.Env) {
	defer n.done()

	if n.Registry == nil {
		return
	}
	def, ok := n.Registry.InferElementType(n.Element)
	if !ok {
		return
	}

	el, ok := n.find(env, def.Category)
	if !ok {
		return
	}

	if n.Action != "" {
		actionable, ok := el.(runtime.Actionable)
		if !ok {
			return
		}
		var arg any
		if n.HasValue {
			arg = resolve.Value(n.Value, env)
		}
		actionable.Invoke(n.Action, arg)
		return
	}

	if n.Property != "" && n.HasValue {
		if settable, ok := el.(runtime.Settable); ok {
			settable.SetProperty(n.Property, resolve.Value(n.Value, env))
		}
	}
}

// find picks the store set for the element's category. Containers live
// in the window store; widgets are probed across buttons, entries and
// labels in declaration-store order.
func (n *DynamicActionNode) find(env *runtime.Env, category registry.Category) (runtime.Element, bool) {
	switch category {
	case registry.CategoryContainer:
		if w, ok := windowIn(env, n.Element); ok {
			return w, true
		}
	case registry.CategoryWidget:
		for _, key := range []string{runtime.StoreButtons, runtime.StoreEntries, runtime.StoreLabels} {
			if el, ok := elementIn(env, key, n.Element); ok {
				return el, true
			}
		}
	}
	return nil, false
}

// elementIn probes one store by key without creating it.
func elementIn(env *runtime.Env, key, name string) (runtime.Element, bool) {
	store, ok := env.Store(key)
	if !ok {
		return nil, false
	}
	lookup, ok := store.(runtime.Lookup)
	if !ok {
		return nil, false
	}
	return lookup.Find(name)
}

func buttonIn(env *runtime.Env, name string) (*gui.Button, bool) {
	store, ok := env.Store(runtime.StoreButtons)
	if !ok {
		return nil, false
	}
	bs, ok := store.(*gui.ButtonStore)
	if !ok {
		return nil, false
	}
	if b := bs.Get(name); b != nil {
		return b, true
	}
	return nil, false
}

func entryIn(env *runtime.Env, name string) (*gui.Entry, bool) {
	store, ok := env.Store(runtime.StoreEntries)
	if !ok {
		return nil, false
	}
	es, ok := store.(*gui.EntryStore)
	if !ok {
		return nil, false
	}
	if e := es.Get(name); e != nil {
		return e, true
	}
	return nil, false
}

// positionFrom parses an "x,y" pair.
func positionFrom(s string) (int, int, bool) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}
