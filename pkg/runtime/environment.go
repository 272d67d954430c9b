package runtime

import "sort"

// ScopeKind distinguishes the four scope lifetimes.
type ScopeKind int

const (
	// ScopeModule is the process-wide root.
	ScopeModule ScopeKind = iota
	// ScopeFrame owns a call's parameters and locals.
	ScopeFrame
	// ScopeInstance owns stored properties and reports writes.
	ScopeInstance
	// ScopeType owns static members.
	ScopeType
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFrame:
		return "frame"
	case ScopeInstance:
		return "instance"
	case ScopeType:
		return "type"
	default:
		return "scope"
	}
}

// Scope provides lexical scoping for runtime values.
type Scope struct {
	kind   ScopeKind
	values map[string]Value
	order  []string
	parent *Scope
	owner  Value
	hook   func()
}

// NewScope creates a new scope, optionally nested under a parent.
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		kind:   kind,
		values: make(map[string]Value),
		parent: parent,
	}
}

// NewModuleScope creates a root scope.
func NewModuleScope() *Scope {
	return NewScope(ScopeModule, nil)
}

// Child creates a frame scope nested under s.
func (s *Scope) Child() *Scope {
	return NewScope(ScopeFrame, s)
}

func (s *Scope) Kind() ScopeKind { return s.kind }

// Parent exposes the lexical parent (nil for the root).
func (s *Scope) Parent() *Scope { return s.parent }

// Owner is the instance or type value an instance/type scope belongs to.
func (s *Scope) Owner() Value { return s.owner }

func (s *Scope) SetOwner(owner Value) { s.owner = owner }

// SetMutationHook installs the callback run after every slot write. Only
// one hook is kept; the most recent registration wins. Passing nil clears it.
func (s *Scope) SetMutationHook(hook func()) {
	s.hook = hook
}

// Define inserts or shadows a binding in this scope only.
func (s *Scope) Define(name string, value Value) {
	if value == nil {
		value = Void
	}
	if _, exists := s.values[name]; !exists {
		s.order = append(s.order, name)
	}
	s.values[name] = value
	s.notify()
}

// Set updates the nearest scope, starting at s, that defines name. A
// non-void slot only accepts a value of the same kind (or void).
func (s *Scope) Set(name string, value Value) error {
	if value == nil {
		value = Void
	}
	for scope := s; scope != nil; scope = scope.parent {
		current, ok := scope.values[name]
		if !ok {
			continue
		}
		if !IsVoid(current) && !IsVoid(value) && current.Kind() != value.Kind() {
			return Errorf(UnsupportedAssignment, "Cannot assign %s to '%s' of type %s", value.Kind(), name, current.Kind())
		}
		scope.values[name] = value
		scope.notify()
		return nil
	}
	return Errorf(UnknownIdentifier, "Undefined variable '%s'", name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (s *Scope) Get(name string) (Value, error) {
	if v, ok := s.Resolve(name); ok {
		return v, nil
	}
	return nil, Errorf(UnknownIdentifier, "Undefined variable '%s'", name)
}

// Resolve is Get without the error.
func (s *Scope) Resolve(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Locate returns the scope, starting at s, that defines name.
func (s *Scope) Locate(name string) (*Scope, Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.values[name]; ok {
			return scope, v, true
		}
	}
	return nil, nil, false
}

// Lookup reads name from this scope only.
func (s *Scope) Lookup(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether this scope itself defines name.
func (s *Scope) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Nearest returns the closest scope of the given kind, starting at s.
func (s *Scope) Nearest(kind ScopeKind) *Scope {
	for scope := s; scope != nil; scope = scope.parent {
		if scope.kind == kind {
			return scope
		}
	}
	return nil
}

// Names returns this scope's bindings in definition order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Keys returns this scope's binding names in sorted order.
func (s *Scope) Keys() []string {
	keys := s.Names()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of this scope's bindings.
func (s *Scope) Snapshot() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Scope) notify() {
	if s.kind == ScopeInstance && s.hook != nil {
		s.hook()
	}
}
