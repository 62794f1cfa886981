package runtime

// Variable is a named mutable value cell. Values are strings, ints,
// float64s, or bools after coercion; a cell lives for the whole run.
type Variable struct {
	Name  string
	Value any
	ready bool
}

// Ready reports whether the variable has been materialized. Variables are
// ready from creation; the flag exists so a tree walk can ask the store
// the same readiness question it asks nodes.
func (v *Variable) Ready() bool {
	return v.ready
}

// VariableStore holds the run's variables in declaration order.
// Names are unique within a store; there is no delete.
type VariableStore struct {
	vars  map[string]*Variable
	order []string
}

// NewVariableStore creates an empty store.
func NewVariableStore() *VariableStore {
	return &VariableStore{vars: make(map[string]*Variable)}
}

// Create declares a variable. Declaring an existing name replaces its
// value in place rather than creating a duplicate entry.
func (s *VariableStore) Create(name string, value any) *Variable {
	if v, ok := s.vars[name]; ok {
		v.Value = value
		return v
	}
	v := &Variable{Name: name, Value: value, ready: true}
	s.vars[name] = v
	s.order = append(s.order, name)
	return v
}

// Get returns the variable cell for name.
func (s *VariableStore) Get(name string) (*Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Value returns the current value of name, or nil when undeclared.
func (s *VariableStore) Value(name string) any {
	if v, ok := s.vars[name]; ok {
		return v.Value
	}
	return nil
}

// Set upserts: updates the cell in place when present, else creates it.
func (s *VariableStore) Set(name string, value any) *Variable {
	return s.Create(name, value)
}

// Exists reports whether name is declared.
func (s *VariableStore) Exists(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// AllReady reports whether every declared variable is ready.
func (s *VariableStore) AllReady() bool {
	for _, v := range s.vars {
		if !v.ready {
			return false
		}
	}
	return true
}

// Names returns the variable names in declaration order.
func (s *VariableStore) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of declared variables.
func (s *VariableStore) Len() int {
	return len(s.vars)
}
