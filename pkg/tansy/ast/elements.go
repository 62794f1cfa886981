package ast

import (
	"github.com/sambeau/tansy/pkg/tansy/gui"
	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Declaration nodes create elements and install their stores on first
// use. Attribute fields hold raw text so a declaration can name its
// window, title or geometry through variable references.

// WindowNode declares a window. Without a name attribute the statement
// is a no-op; with one it creates (or replaces) the named window and
// brings the surface up as a side effect.
type WindowNode struct {
	Base
	NameAttr  string
	TitleAttr string
	SizeAttr  []string
}

func NewWindow(name, title string, size []string) *WindowNode {
	return &WindowNode{Base: base("window"), NameAttr: name, TitleAttr: title, SizeAttr: size}
}

func (n *WindowNode) Execute(env *runtime.Env) {
	n.runChildren(env)
	defer n.done()

	name := resolve.AsString(n.NameAttr, env)
	if name == "" {
		return
	}
	title := resolve.AsString(n.TitleAttr, env)
	width, height := sizeFromParts(n.SizeAttr, env, 300)
	gui.Windows(env).Create(name, title, width, height)
}

// sizeFromParts resolves a stack-style size argument. One part means a
// square; missing or unparseable parts fall back to def.
func sizeFromParts(parts []string, env *runtime.Env, def int) (int, int) {
	if len(parts) == 0 {
		return def, def
	}
	w := resolve.AsInt(parts[0], env, def)
	if len(parts) == 1 {
		return w, w
	}
	return w, resolve.AsInt(parts[1], env, def)
}

// ButtonNode declares a button. Known attributes become typed fields;
// everything else rides along in Extra and is applied as style
// configuration when the button attaches to its parent window.
type ButtonNode struct {
	Base
	NameAttr   string
	TextAttr   string
	ParentAttr string
	XAttr      string
	YAttr      string
	WidthAttr  string
	HeightAttr string
	Extra      map[string]string
}

// NewButton splits the declaration's attributes into the known fields
// and the style extras.
func NewButton(attrs map[string]string) *ButtonNode {
	n := &ButtonNode{Base: base("button"), Extra: make(map[string]string)}
	for key, value := range attrs {
		switch key {
		case "name":
			n.NameAttr = value
		case "text":
			n.TextAttr = value
		case "parent":
			n.ParentAttr = value
		case "x":
			n.XAttr = value
		case "y":
			n.YAttr = value
		case "width":
			n.WidthAttr = value
		case "height":
			n.HeightAttr = value
		default:
			n.Extra[key] = value
		}
	}
	return n
}

func (n *ButtonNode) Execute(env *runtime.Env) {
	n.runChildren(env)
	defer n.done()

	name := resolve.AsString(n.NameAttr, env)
	if name == "" {
		return
	}
	text := resolve.AsString(n.TextAttr, env)
	x := resolve.AsInt(n.XAttr, env, 0)
	y := resolve.AsInt(n.YAttr, env, 0)
	width := resolve.AsInt(n.WidthAttr, env, 100)
	height := resolve.AsInt(n.HeightAttr, env, 30)

	button := gui.Buttons(env).Create(name, text, x, y, width, height)

	parent := resolve.AsString(n.ParentAttr, env)
	if parent == "" {
		return
	}
	win, ok := windowIn(env, parent)
	if !ok {
		return
	}
	button.Attach(win, env)
	for key, value := range n.Extra {
		button.SetProperty(key, resolve.Value(value, env))
	}
}

// LabelNode declares a label.
type LabelNode struct {
	Base
	NameAttr   string
	TextAttr   string
	ParentAttr string
	XAttr      string
	YAttr      string
	WidthAttr  string
	HeightAttr string
}

func NewLabel(attrs map[string]string) *LabelNode {
	return &LabelNode{
		Base:       base("label"),
		NameAttr:   attrs["name"],
		TextAttr:   attrs["text"],
		ParentAttr: attrs["parent"],
		XAttr:      attrs["x"],
		YAttr:      attrs["y"],
		WidthAttr:  attrs["width"],
		HeightAttr: attrs["height"],
	}
}

func (n *LabelNode) Execute(env *runtime.Env) {
	n.runChildren(env)
	defer n.done()

	name := resolve.AsString(n.NameAttr, env)
	if name == "" {
		return
	}
	text := resolve.AsString(n.TextAttr, env)
	x := resolve.AsInt(n.XAttr, env, 0)
	y := resolve.AsInt(n.YAttr, env, 0)
	width := resolve.AsInt(n.WidthAttr, env, 100)
	height := resolve.AsInt(n.HeightAttr, env, 25)

	label := gui.Labels(env).Create(name, text, x, y, width, height)

	if parent := resolve.AsString(n.ParentAttr, env); parent != "" {
		if win, ok := windowIn(env, parent); ok {
			label.Attach(win)
		}
	}
}

// EntryNode declares a text entry field.
type EntryNode struct {
	Base
	NameAttr        string
	ParentAttr      string
	XAttr           string
	YAttr           string
	WidthAttr       string
	HeightAttr      string
	PlaceholderAttr string
}

func NewEntry(attrs map[string]string) *EntryNode {
	return &EntryNode{
		Base:            base("entry"),
		NameAttr:        attrs["name"],
		ParentAttr:      attrs["parent"],
		XAttr:           attrs["x"],
		YAttr:           attrs["y"],
		WidthAttr:       attrs["width"],
		HeightAttr:      attrs["height"],
		PlaceholderAttr: attrs["placeholder"],
	}
}

func (n *EntryNode) Execute(env *runtime.Env) {
	n.runChildren(env)
	defer n.done()

	name := resolve.AsString(n.NameAttr, env)
	if name == "" {
		return
	}
	x := resolve.AsInt(n.XAttr, env, 0)
	y := resolve.AsInt(n.YAttr, env, 0)
	width := resolve.AsInt(n.WidthAttr, env, 150)
	height := resolve.AsInt(n.HeightAttr, env, 25)

	entry := gui.Entries(env).Create(name, x, y, width, height)
	if placeholder := resolve.AsString(n.PlaceholderAttr, env); placeholder != "" {
		entry.SetPlaceholder(placeholder)
	}

	if parent := resolve.AsString(n.ParentAttr, env); parent != "" {
		if win, ok := windowIn(env, parent); ok {
			entry.Attach(win)
		}
	}
}

// windowIn finds a declared window without installing the window store
// as a side effect. Action and attach paths use it so that acting on a
// window that was never declared stays a no-op.
func windowIn(env *runtime.Env, name string) (*gui.Window, bool) {
	store, ok := env.Store(runtime.StoreWindows)
	if !ok {
		return nil, false
	}
	ws, ok := store.(*gui.WindowStore)
	if !ok {
		return nil, false
	}
	if w := ws.Get(name); w != nil {
		return w, true
	}
	return nil, false
}
