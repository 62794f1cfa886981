package gui

import (
	"fmt"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Label is a static text widget.
type Label struct {
	name       string
	text       string
	x, y       int
	width      int
	height     int
	foreground string
	parent     *Window
}

// NewLabel creates a detached label.
func NewLabel(name, text string, x, y, width, height int) *Label {
	return &Label{
		name:       name,
		text:       text,
		x:          x,
		y:          y,
		width:      width,
		height:     height,
		foreground: "#000000",
	}
}

func (l *Label) Name() string { return l.name }

// Text returns the displayed text.
func (l *Label) Text() string { return l.text }

// Foreground returns the text color.
func (l *Label) Foreground() string { return l.foreground }

// Position returns the placement inside the parent window.
func (l *Label) Position() (int, int) { return l.x, l.y }

// Attach places the label in a window.
func (l *Label) Attach(parent *Window) *Label {
	l.parent = parent
	if parent != nil {
		parent.AddChild(l)
	}
	return l
}

// SetText updates the displayed text.
func (l *Label) SetText(text string) {
	l.text = text
}

// SetForeground updates the text color.
func (l *Label) SetForeground(color string) {
	l.foreground = color
}

// SetPosition moves the label inside its window.
func (l *Label) SetPosition(x, y int) {
	l.x = x
	l.y = y
}

// SetProperty implements runtime.Settable.
func (l *Label) SetProperty(name string, value any) bool {
	switch name {
	case "text":
		l.SetText(toText(value))
	case "foreground", "color":
		l.SetForeground(toText(value))
	case "position":
		if x, y, ok := dimensions(value); ok {
			l.SetPosition(x, y)
		}
	default:
		return false
	}
	return true
}

func (l *Label) String() string {
	return fmt.Sprintf("<label name=%q text=%q>", l.name, l.text)
}

// LabelStore keeps every declared label by name.
type LabelStore struct {
	labels map[string]*Label
	order  []string
}

// NewLabelStore creates an empty store.
func NewLabelStore() *LabelStore {
	return &LabelStore{labels: make(map[string]*Label)}
}

// Create declares a label. Redeclaring a name replaces the label.
func (s *LabelStore) Create(name, text string, x, y, width, height int) *Label {
	if text == "" {
		text = "Label"
	}
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 25
	}
	l := NewLabel(name, text, x, y, width, height)
	if _, exists := s.labels[name]; !exists {
		s.order = append(s.order, name)
	}
	s.labels[name] = l
	return l
}

// Get returns the named label, or nil.
func (s *LabelStore) Get(name string) *Label {
	return s.labels[name]
}

// Exists reports whether a label with this name was declared.
func (s *LabelStore) Exists(name string) bool {
	_, ok := s.labels[name]
	return ok
}

// Names returns the declared label names in declaration order.
func (s *LabelStore) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Find implements runtime.Lookup.
func (s *LabelStore) Find(name string) (runtime.Element, bool) {
	l, ok := s.labels[name]
	if !ok {
		return nil, false
	}
	return l, true
}
