// Package runtime holds the shared execution environment a Tansy program
// runs against: the variable store, event flags, element stores, dynamic
// bindings, and the narrow capability interfaces the language core needs
// from an element backend.
package runtime

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

// Element is any live object managed by an element backend.
type Element interface {
	Name() string
}

// Settable is the property-setting capability of an element. It returns
// false when the element does not recognize the property, letting callers
// fall back or no-op without probing attributes.
type Settable interface {
	SetProperty(name string, value any) bool
}

// Actionable is the verb-invoking capability of an element. The argument
// is nil for bare verbs such as show or close.
type Actionable interface {
	Invoke(verb string, arg any) bool
}

// ValueProvider exposes an element's current displayed value. Input-field
// elements implement it; the resolver prefers these over variables when
// expanding <name_value>.
type ValueProvider interface {
	Value() string
}

// Lookup is the membership surface of a name-keyed element store.
type Lookup interface {
	Find(name string) (Element, bool)
}

// Task is a handle to a scheduled repeating tick.
type Task interface {
	Cancel()
	Cancelled() bool
}

// Surface is the element layer's root. Forever loops schedule their ticks
// through it when one exists so control returns to the driving loop
// between iterations.
type Surface interface {
	Alive() bool
	Repeat(interval time.Duration, fn func()) Task
}

// Generator is a named binding with recognized operations, consulted by
// the resolver for <name_op> tokens (random sources register "random"
// and "float").
type Generator interface {
	Invoke(op string) (any, bool)
}

// ForeverRef identifies a registered infinite loop.
type ForeverRef interface {
	Tag() string
}

// Events is the flag set written by element callbacks and consumed by
// event conditionals.
type Events map[string]bool

// Fire sets the flag for key.
func (ev Events) Fire(key string) {
	ev[key] = true
}

// Peek reports the flag without clearing it.
func (ev Events) Peek(key string) bool {
	return ev[key]
}

// Clear resets the flag for key.
func (ev Events) Clear(key string) {
	ev[key] = false
}

// Store keys for the stock element kinds.
const (
	StoreWindows = "windows"
	StoreButtons = "buttons"
	StoreLabels  = "labels"
	StoreEntries = "entries"
)

// Env is the mutable execution environment, created fresh per run and
// passed by pointer through every node's Execute. There is exactly one
// logical thread of control; nothing here is synchronized.
type Env struct {
	Ctx         context.Context // cancellation for forever loops and waits
	Vars        *VariableStore
	Events      Events
	Log         Logger
	Input       io.Reader // console input source, nil when unavailable
	Surface     Surface   // nil until the backend installs one
	NoTerminate bool      // set by <noterminate>, honored by the CLI
	Seed        int64     // default generator seed, 0 means time-based
	Interval    int       // default forever-loop interval in ms, 0 keeps the built-in

	reader     *bufio.Reader
	stores     map[string]any
	storeOrder []string
	bindings   map[string]any
	generators map[string]Generator
	forever    []ForeverRef
}

// NewEnv creates an environment with empty stores and the default logger.
func NewEnv() *Env {
	return &Env{
		Ctx:        context.Background(),
		Vars:       NewVariableStore(),
		Events:     make(Events),
		Log:        DefaultLogger,
		stores:     make(map[string]any),
		bindings:   make(map[string]any),
		generators: make(map[string]Generator),
	}
}

// Bind installs a dynamic entry under key. Values may be plain values or
// func() any callables; the resolver invokes callables on lookup.
func (e *Env) Bind(key string, value any) {
	e.bindings[key] = value
}

// Binding returns the dynamic entry for key.
func (e *Env) Binding(key string) (any, bool) {
	v, ok := e.bindings[key]
	return v, ok
}

// SetGenerator registers a named generator binding.
func (e *Env) SetGenerator(name string, g Generator) {
	e.generators[name] = g
}

// Generator returns the generator registered under name.
func (e *Env) Generator(name string) (Generator, bool) {
	g, ok := e.generators[name]
	return g, ok
}

// SetStore installs an element store under key. First install wins the
// probe order used by FindElement.
func (e *Env) SetStore(key string, store any) {
	if _, ok := e.stores[key]; !ok {
		e.storeOrder = append(e.storeOrder, key)
	}
	e.stores[key] = store
}

// Store returns the element store installed under key.
func (e *Env) Store(key string) (any, bool) {
	s, ok := e.stores[key]
	return s, ok
}

// FindElement probes every installed store in installation order for a
// live element called name. Element names are unique across stores, so
// the first hit is the element.
func (e *Env) FindElement(name string) (Element, bool) {
	for _, key := range e.storeOrder {
		if lk, ok := e.stores[key].(Lookup); ok {
			if el, ok := lk.Find(name); ok {
				return el, true
			}
		}
	}
	return nil, false
}

// InputValue returns the displayed value of the input-field element
// called name, when one exists.
func (e *Env) InputValue(name string) (string, bool) {
	store, ok := e.stores[StoreEntries]
	if !ok {
		return "", false
	}
	lk, ok := store.(Lookup)
	if !ok {
		return "", false
	}
	el, ok := lk.Find(name)
	if !ok {
		return "", false
	}
	if vp, ok := el.(ValueProvider); ok {
		return vp.Value(), true
	}
	return "", false
}

// RegisterForever records an active infinite loop for the run.
func (e *Env) RegisterForever(f ForeverRef) {
	e.forever = append(e.forever, f)
}

// ForeverLoops returns the registered infinite loops.
func (e *Env) ForeverLoops() []ForeverRef {
	return e.forever
}

// ReadLine reads one line from the environment's input, without the
// trailing newline. Returns io.EOF when no input source is attached.
func (e *Env) ReadLine() (string, error) {
	if e.Input == nil {
		return "", io.EOF
	}
	if e.reader == nil {
		e.reader = bufio.NewReader(e.Input)
	}
	line, err := e.reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
