package gui

import (
	"fmt"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Entry is a single-line text input. It satisfies runtime.ValueProvider,
// which is how <name_value> references read what the user typed.
type Entry struct {
	name        string
	text        string
	placeholder string
	readonly    bool
	x, y        int
	width       int
	height      int
	parent      *Window
}

// NewEntry creates a detached entry field.
func NewEntry(name string, x, y, width, height int) *Entry {
	return &Entry{name: name, x: x, y: y, width: width, height: height}
}

func (e *Entry) Name() string { return e.name }

// Value implements runtime.ValueProvider. Placeholder text is never a
// value: a field still showing its hint reads as empty.
func (e *Entry) Value() string {
	if e.placeholder != "" && e.text == e.placeholder {
		return ""
	}
	return e.text
}

// Placeholder returns the hint text shown while the field is empty.
func (e *Entry) Placeholder() string { return e.placeholder }

// Readonly reports whether user edits are blocked.
func (e *Entry) Readonly() bool { return e.readonly }

// Position returns the placement inside the parent window.
func (e *Entry) Position() (int, int) { return e.x, e.y }

// Attach places the entry in a window.
func (e *Entry) Attach(parent *Window) *Entry {
	e.parent = parent
	if parent != nil {
		parent.AddChild(e)
	}
	return e
}

// SetValue replaces the field contents. Scripted writes land even on a
// readonly field, which only blocks user edits.
func (e *Entry) SetValue(value string) {
	e.text = value
}

// Type simulates the user typing into the field. Readonly fields
// swallow it.
func (e *Entry) Type(value string) {
	if e.readonly {
		return
	}
	e.text = value
}

// SetPlaceholder updates the hint text. An empty field shows the hint.
func (e *Entry) SetPlaceholder(placeholder string) {
	if e.text == e.placeholder {
		e.text = placeholder
	}
	e.placeholder = placeholder
}

// SetReadonly toggles whether user edits are blocked.
func (e *Entry) SetReadonly(readonly bool) {
	e.readonly = readonly
}

// SetPosition moves the entry inside its window.
func (e *Entry) SetPosition(x, y int) {
	e.x = x
	e.y = y
}

// SetProperty implements runtime.Settable.
func (e *Entry) SetProperty(name string, value any) bool {
	switch name {
	case "value", "text":
		e.SetValue(toText(value))
	case "placeholder":
		e.SetPlaceholder(toText(value))
	case "readonly":
		e.SetReadonly(asBool(value))
	case "position":
		if x, y, ok := dimensions(value); ok {
			e.SetPosition(x, y)
		}
	default:
		return false
	}
	return true
}

func (e *Entry) String() string {
	return fmt.Sprintf("<entry name=%q>", e.name)
}

// EntryStore keeps every declared entry field by name.
type EntryStore struct {
	entries map[string]*Entry
	order   []string
}

// NewEntryStore creates an empty store.
func NewEntryStore() *EntryStore {
	return &EntryStore{entries: make(map[string]*Entry)}
}

// Create declares an entry field. Redeclaring a name replaces it.
func (s *EntryStore) Create(name string, x, y, width, height int) *Entry {
	if width <= 0 {
		width = 150
	}
	if height <= 0 {
		height = 25
	}
	e := NewEntry(name, x, y, width, height)
	if _, exists := s.entries[name]; !exists {
		s.order = append(s.order, name)
	}
	s.entries[name] = e
	return e
}

// Get returns the named entry, or nil.
func (s *EntryStore) Get(name string) *Entry {
	return s.entries[name]
}

// Exists reports whether an entry with this name was declared.
func (s *EntryStore) Exists(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Names returns the declared entry names in declaration order.
func (s *EntryStore) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Value returns the named entry's current value, or "" for a missing
// entry.
func (s *EntryStore) Value(name string) string {
	e, ok := s.entries[name]
	if !ok {
		return ""
	}
	return e.Value()
}

// Find implements runtime.Lookup.
func (s *EntryStore) Find(name string) (runtime.Element, bool) {
	e, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	return e, true
}
