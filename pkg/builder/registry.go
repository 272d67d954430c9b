// Package builder is the name-keyed table of host constructors and
// modifiers the interpreter calls into.
package builder

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/arguments"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// Param declares one accepted parameter. An empty Label means the
// argument is passed without one. A nil Default makes it required.
type Param struct {
	Label   string
	Name    string
	Type    string
	Default runtime.Value
}

// Definition is one overload.
type Definition struct {
	Params []Param
	Build  func(call *Call) (runtime.Value, error)
}

// Context is the evaluator state handed to builders.
type Context struct {
	Scope   *runtime.Scope
	Invoker runtime.Invoker
}

// Registry holds value builders (constructors) and method builders
// (modifiers applied to a receiver).
type Registry struct {
	mu      sync.RWMutex
	values  map[string][]Definition
	methods map[string][]Definition
}

func NewRegistry() *Registry {
	return &Registry{
		values:  make(map[string][]Definition),
		methods: make(map[string][]Definition),
	}
}

// RegisterValue appends overloads for a constructor name.
func (r *Registry) RegisterValue(name string, defs ...Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[name] = append(r.values[name], defs...)
}

// RegisterMethod appends overloads for a modifier name.
func (r *Registry) RegisterMethod(name string, defs ...Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[name] = append(r.methods[name], defs...)
}

func (r *Registry) HasValue(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values[name]) > 0
}

func (r *Registry) HasMethod(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods[name]) > 0
}

// ValueNames lists registered constructors in sorted order.
func (r *Registry) ValueNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MethodNames lists registered method and modifier builders in sorted order.
func (r *Registry) MethodNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildValue constructs name from args.
func (r *Registry) BuildValue(name string, args []runtime.Argument, ctx Context) (runtime.Value, error) {
	r.mu.RLock()
	defs := r.values[name]
	r.mu.RUnlock()
	if len(defs) == 0 {
		return nil, runtime.Errorf(runtime.UnknownFunction, "No builder registered for '%s'", name)
	}
	return Apply(name, defs, nil, args, ctx)
}

// ApplyMethod runs modifier name against receiver.
func (r *Registry) ApplyMethod(name string, receiver runtime.Value, args []runtime.Argument, ctx Context) (runtime.Value, error) {
	r.mu.RLock()
	defs := r.methods[name]
	r.mu.RUnlock()
	if len(defs) == 0 {
		return nil, runtime.Errorf(runtime.UnknownFunction, "No modifier registered for '%s'", name)
	}
	return Apply(name, defs, receiver, args, ctx)
}

// Apply tries each overload in order and returns the first success. When
// every overload rejects the call, the last rejection is returned.
func Apply(name string, defs []Definition, receiver runtime.Value, args []runtime.Argument, ctx Context) (runtime.Value, error) {
	var lastErr error
	for _, def := range defs {
		call, err := bind(def, receiver, args, ctx)
		if err != nil {
			lastErr = err
			continue
		}
		result, err := def.Build(call)
		if err != nil {
			lastErr = err
			continue
		}
		if result == nil {
			result = runtime.Void
		}
		return result, nil
	}
	if lastErr == nil {
		lastErr = runtime.Errorf(runtime.InvalidArgument, "No overload of '%s' accepts these arguments", name)
	}
	return nil, fmt.Errorf("%s: %w", name, lastErr)
}

func bind(def Definition, receiver runtime.Value, args []runtime.Argument, ctx Context) (*Call, error) {
	params := make([]arguments.Param, len(def.Params))
	for i, p := range def.Params {
		params[i] = arguments.Param{Label: p.Label, Name: p.Name, HasDefault: p.Default != nil}
	}
	slots, err := arguments.Resolve(params, arguments.FromValues(args))
	if err != nil {
		return nil, err
	}
	call := &Call{
		Receiver: receiver,
		Scope:    ctx.Scope,
		Invoker:  ctx.Invoker,
		names:    make(map[string]int, len(def.Params)),
		values:   make([]runtime.Value, len(def.Params)),
		provided: make([]bool, len(def.Params)),
	}
	for i, p := range def.Params {
		call.names[p.Name] = i
		if slots[i] == arguments.UseDefault {
			call.values[i] = p.Default
			continue
		}
		value := args[slots[i]].Value
		converted, ok := Accepts(p.Type, value)
		if !ok {
			return nil, runtime.Errorf(runtime.InvalidArgument, "Argument '%s' expects %s, got %s", p.Name, p.Type, value.Kind())
		}
		call.values[i] = converted
		call.provided[i] = true
	}
	return call, nil
}
