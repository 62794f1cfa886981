// Package registry holds the static capability table describing every
// tag the language knows: categories, properties, methods, events,
// placement rules, and the line shapes each tag answers to. The table
// is plain data. It is built once at startup and handed to the parser
// and to dynamic dispatch explicitly; rebuilding it is just calling
// NewBuiltin again.
package registry

import (
	"regexp"
	"sort"
)

// Category classifies a tag by the store and behavior family it
// belongs to.
type Category int

const (
	CategoryVariable Category = iota
	CategoryControl
	CategoryContainer
	CategoryWidget
	CategoryOutput
	CategoryInput
	CategoryAction
	CategoryMeta
)

func (c Category) String() string {
	switch c {
	case CategoryVariable:
		return "variable"
	case CategoryControl:
		return "control"
	case CategoryContainer:
		return "container"
	case CategoryWidget:
		return "widget"
	case CategoryOutput:
		return "output"
	case CategoryInput:
		return "input"
	case CategoryAction:
		return "action"
	case CategoryMeta:
		return "meta"
	}
	return "unknown"
}

// Kind is the declared value type of a property.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	}
	return "unknown"
}

// PropertyDef describes one settable property of a tag.
type PropertyDef struct {
	Name        string
	Kind        Kind
	Default     any
	Required    bool
	Interpolate bool
	Description string
}

// MethodDef describes one invocable action of a tag.
type MethodDef struct {
	Name        string
	Params      []string
	Description string
}

// Pattern pairs a line-shape regex with the name of the rule that
// handles it. The strings here describe the grammar for tooling; the
// executable rule set lives with the parser.
type Pattern struct {
	Expr    string
	Handler string
}

// TagDef is one row of the capability table.
type TagDef struct {
	Name          string
	Category      Category
	Aliases       []string
	Properties    map[string]PropertyDef
	Methods       map[string]MethodDef
	Events        []string
	ValidParents  map[string]bool
	ValidChildren map[string]bool
	Patterns      []Pattern
	SelfClosing   bool
	DefaultSize   [2]int
	Icon          string
	Description   string
}

// Matches reports whether name is this tag's name or one of its
// aliases.
func (t *TagDef) Matches(name string) bool {
	if name == t.Name {
		return true
	}
	for _, a := range t.Aliases {
		if name == a {
			return true
		}
	}
	return false
}

// CompiledPattern is a ready-to-match grammar entry.
type CompiledPattern struct {
	Re      *regexp.Regexp
	Handler string
	Tag     *TagDef
}

// Registry is the capability table plus its lookup indexes. A Registry
// is not safe for concurrent mutation; build it up front and share it
// read-only.
type Registry struct {
	tags    map[string]*TagDef
	aliases map[string]string
	order   []string

	patternCache []CompiledPattern
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		tags:    make(map[string]*TagDef),
		aliases: make(map[string]string),
	}
}

// Register adds or replaces a tag definition and invalidates the
// pattern cache.
func (r *Registry) Register(def *TagDef) {
	if _, exists := r.tags[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.tags[def.Name] = def
	for _, alias := range def.Aliases {
		r.aliases[alias] = def.Name
	}
	r.patternCache = nil
}

// Get looks a tag up by name or alias.
func (r *Registry) Get(name string) (*TagDef, bool) {
	if def, ok := r.tags[name]; ok {
		return def, true
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.tags[canonical], true
	}
	return nil, false
}

// CanonicalName maps an alias to its tag name; unknown names come back
// unchanged.
func (r *Registry) CanonicalName(name string) string {
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// Names returns all registered tag names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ByCategory returns the tags in a category, in registration order.
func (r *Registry) ByCategory(c Category) []*TagDef {
	var defs []*TagDef
	for _, name := range r.order {
		if def := r.tags[name]; def.Category == c {
			defs = append(defs, def)
		}
	}
	return defs
}

// ValidChildren returns the tags that may sit under parent: those with
// no placement restriction, plus those naming parent explicitly.
func (r *Registry) ValidChildren(parent string) []*TagDef {
	var defs []*TagDef
	for _, name := range r.order {
		def := r.tags[name]
		if len(def.ValidParents) == 0 || def.ValidParents[parent] {
			defs = append(defs, def)
		}
	}
	return defs
}

// CanBeChildOf reports whether child may be placed under parent.
// Unknown and unrestricted tags are always allowed.
func (r *Registry) CanBeChildOf(child, parent string) bool {
	def, ok := r.Get(child)
	if !ok {
		return true
	}
	if len(def.ValidParents) == 0 {
		return true
	}
	return def.ValidParents[parent]
}

// AllPatterns compiles and returns every tag's grammar entries. The
// result is cached until the next Register call. Patterns that fail to
// compile are skipped.
func (r *Registry) AllPatterns() []CompiledPattern {
	if r.patternCache != nil {
		return r.patternCache
	}

	var patterns []CompiledPattern
	for _, name := range r.order {
		def := r.tags[name]
		for _, p := range def.Patterns {
			re, err := regexp.Compile(p.Expr)
			if err != nil {
				continue
			}
			patterns = append(patterns, CompiledPattern{Re: re, Handler: p.Handler, Tag: def})
		}
	}

	r.patternCache = patterns
	return patterns
}

// namePrefixes maps common element-name prefixes to tag names, checked
// in order.
var namePrefixes = []struct {
	prefix string
	tag    string
}{
	{"wnd", "window"},
	{"win", "window"},
	{"btn", "button"},
	{"ent", "entry"},
	{"txt", "entry"},
	{"lbl", "label"},
	{"frm", "frame"},
}

// InferElementType resolves an element name to its tag definition. An
// exact name or alias match wins; otherwise the name prefix decides,
// so "btn7" lands on button without any entry named btn7.
func (r *Registry) InferElementType(name string) (*TagDef, bool) {
	if def, ok := r.Get(name); ok {
		return def, true
	}

	for _, p := range namePrefixes {
		if len(name) >= len(p.prefix) && name[:len(p.prefix)] == p.prefix {
			if def, ok := r.Get(p.tag); ok {
				return def, true
			}
		}
	}

	return nil, false
}

// PropertyFor resolves a property definition through element-type
// inference, e.g. ("btn1", "text") finds button's text property.
func (r *Registry) PropertyFor(element, property string) (PropertyDef, bool) {
	def, ok := r.InferElementType(element)
	if !ok {
		return PropertyDef{}, false
	}
	prop, ok := def.Properties[property]
	return prop, ok
}

// MethodFor resolves a method definition through element-type
// inference, e.g. ("wnd1", "show") finds window's show method.
func (r *Registry) MethodFor(element, method string) (MethodDef, bool) {
	def, ok := r.InferElementType(element)
	if !ok {
		return MethodDef{}, false
	}
	m, ok := def.Methods[method]
	return m, ok
}

// HasEvent reports whether the inferred element type declares event.
func (r *Registry) HasEvent(element, event string) bool {
	def, ok := r.InferElementType(element)
	if !ok {
		return false
	}
	for _, e := range def.Events {
		if e == event {
			return true
		}
	}
	return false
}

// PropertyNames returns a tag's property names sorted for stable
// output.
func (t *TagDef) PropertyNames() []string {
	names := make([]string, 0, len(t.Properties))
	for name := range t.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MethodNames returns a tag's method names sorted for stable output.
func (t *TagDef) MethodNames() []string {
	names := make([]string, 0, len(t.Methods))
	for name := range t.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
