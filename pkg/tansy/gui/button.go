package gui

import (
	"fmt"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// buttonStyleAliases maps the script-facing styling names onto the
// backend configuration keys. Several script names share a key so that
// beginners can write textcolor or frontcolor and land on the same
// setting.
var buttonStyleAliases = map[string]string{
	"clickcolor": "activebackground",
	"hovercolor": "activebackground",
	"frontcolor": "fg",
	"foreground": "fg",
	"textcolor":  "fg",
	"background": "bg",
	"fontsize":   "font",
	"fontfamily": "font",
	"cursor":     "cursor",
	"pointer":    "cursor",
}

// Button is a clickable widget. Clicking fires a <name>_click event
// into the environment's event flags, which event conditionals consume.
type Button struct {
	name    string
	text    string
	x, y    int
	width   int
	height  int
	enabled bool
	parent  *Window
	onClick func()
	style   map[string]string
}

// NewButton creates a detached button.
func NewButton(name, text string, x, y, width, height int) *Button {
	return &Button{
		name:    name,
		text:    text,
		x:       x,
		y:       y,
		width:   width,
		height:  height,
		enabled: true,
		style:   make(map[string]string),
	}
}

func (b *Button) Name() string { return b.name }

// Text returns the button caption.
func (b *Button) Text() string { return b.text }

// Enabled reports whether the button accepts clicks.
func (b *Button) Enabled() bool { return b.enabled }

// Position returns the placement inside the parent window.
func (b *Button) Position() (int, int) { return b.x, b.y }

// Style returns the backend value stored for a styling key, after alias
// mapping.
func (b *Button) Style(name string) (string, bool) {
	if backend, ok := buttonStyleAliases[name]; ok {
		name = backend
	}
	v, ok := b.style[name]
	return v, ok
}

// Attach places the button in a window and wires its click handler to
// the environment's event flags.
func (b *Button) Attach(parent *Window, env *runtime.Env) *Button {
	b.parent = parent
	if env != nil {
		events := env.Events
		name := b.name
		b.onClick = func() {
			events.Fire(name + "_click")
		}
	}
	if parent != nil {
		parent.AddChild(b)
	}
	return b
}

// Click simulates a user click. Disabled and orphaned buttons swallow
// the click the way a greyed-out widget would.
func (b *Button) Click() {
	if !b.enabled {
		return
	}
	if b.parent != nil && b.parent.Destroyed() {
		return
	}
	if b.onClick != nil {
		b.onClick()
	}
}

// SetText updates the caption.
func (b *Button) SetText(text string) {
	b.text = text
}

// SetEnabled toggles whether the button accepts clicks.
func (b *Button) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// SetPosition moves the button inside its window.
func (b *Button) SetPosition(x, y int) {
	b.x = x
	b.y = y
}

// SetProperty implements runtime.Settable. Unrecognized names are kept
// in the style bag after alias mapping, so declaration attributes like
// clickcolor pass straight through to the backend.
func (b *Button) SetProperty(name string, value any) bool {
	switch name {
	case "text":
		b.SetText(toText(value))
	case "enabled":
		b.SetEnabled(asBool(value))
	case "disabled":
		b.SetEnabled(!asBool(value))
	case "position":
		if x, y, ok := dimensions(value); ok {
			b.SetPosition(x, y)
		}
	default:
		key := name
		if backend, ok := buttonStyleAliases[name]; ok {
			key = backend
		}
		b.style[key] = toText(value)
	}
	return true
}

// Invoke implements runtime.Actionable. The click verb synthesizes a
// user click; the REPL uses it to poke event conditionals by hand.
func (b *Button) Invoke(verb string, arg any) bool {
	switch verb {
	case "click":
		b.Click()
	case "text":
		b.SetText(toText(arg))
	case "enabled":
		b.SetEnabled(asBool(arg))
	default:
		return false
	}
	return true
}

func (b *Button) String() string {
	return fmt.Sprintf("<button name=%q text=%q>", b.name, b.text)
}

// ButtonStore keeps every declared button by name.
type ButtonStore struct {
	buttons map[string]*Button
	order   []string
}

// NewButtonStore creates an empty store.
func NewButtonStore() *ButtonStore {
	return &ButtonStore{buttons: make(map[string]*Button)}
}

// Create declares a button. Redeclaring a name replaces the button.
func (s *ButtonStore) Create(name, text string, x, y, width, height int) *Button {
	if text == "" {
		text = "Button"
	}
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 30
	}
	b := NewButton(name, text, x, y, width, height)
	if _, exists := s.buttons[name]; !exists {
		s.order = append(s.order, name)
	}
	s.buttons[name] = b
	return b
}

// Get returns the named button, or nil.
func (s *ButtonStore) Get(name string) *Button {
	return s.buttons[name]
}

// Exists reports whether a button with this name was declared.
func (s *ButtonStore) Exists(name string) bool {
	_, ok := s.buttons[name]
	return ok
}

// Names returns the declared button names in declaration order.
func (s *ButtonStore) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Find implements runtime.Lookup.
func (s *ButtonStore) Find(name string) (runtime.Element, bool) {
	b, ok := s.buttons[name]
	if !ok {
		return nil, false
	}
	return b, true
}
