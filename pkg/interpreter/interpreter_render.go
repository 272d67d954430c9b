package interpreter

import (
	"fmt"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// maxViewDepth bounds body expansion so self-referential views fail
// instead of recursing forever.
const maxViewDepth = 256

// StateStore persists @State values across render passes. Load returns
// the stored value for id, registering initial when id is new.
type StateStore interface {
	Load(id string, initial runtime.Value) runtime.Value
	Store(id string, value runtime.Value)
}

type renderPass struct {
	store  StateStore
	counts map[string]int
}

// RenderView constructs the named view type and expands its body into
// host values. @State properties of every view constructed during the pass
// are linked to store.
func (i *Interpreter) RenderView(typeName string, store StateStore) (runtime.Value, error) {
	val, err := i.module.Get(typeName)
	if err != nil {
		return nil, err
	}
	t, ok := val.(*runtime.TypeValue)
	if !ok {
		return nil, runtime.Errorf(runtime.UnknownType, "'%s' is not a type", typeName)
	}
	previous := i.render
	i.render = &renderPass{store: store, counts: make(map[string]int)}
	defer func() { i.render = previous }()

	i.logger.Debug("render pass", "view", typeName)
	root, err := i.construct(t, nil, i.module)
	if err != nil {
		return nil, err
	}
	return i.materialize(root, 0)
}

// materialize expands view instances through their `body` until only host
// values remain. Nested arrays flatten into their parent.
func (i *Interpreter) materialize(v runtime.Value, depth int) (runtime.Value, error) {
	if depth > maxViewDepth {
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "View hierarchy deeper than %d", maxViewDepth)
	}
	switch val := v.(type) {
	case *runtime.InstanceValue:
		body, ok := val.Scope.Lookup("body")
		if !ok {
			return val, nil
		}
		fn, ok := body.(*runtime.FunctionValue)
		if !ok || !fn.Declaration.IsComputed {
			return val, nil
		}
		out, err := i.callFunction(fn, nil, val.Scope)
		if err != nil {
			return nil, fmt.Errorf("%s.body: %w", val.Type.Name, err)
		}
		return i.materialize(out, depth+1)
	case runtime.ArrayValue:
		elements := make([]runtime.Value, 0, len(val.Elements))
		for _, el := range val.Elements {
			expanded, err := i.materialize(el, depth+1)
			if err != nil {
				return nil, err
			}
			if nested, ok := expanded.(runtime.ArrayValue); ok {
				elements = append(elements, nested.Elements...)
				continue
			}
			elements = append(elements, expanded)
		}
		return runtime.NewArray(elements...), nil
	default:
		return v, nil
	}
}

// link connects inst's @State properties to cells. The nth instance of a
// type in one pass is keyed "Type#n.prop" (the first is "Type.prop"). Each
// write to the instance stores changed state values back.
func (p *renderPass) link(inst *runtime.InstanceValue) {
	if p.store == nil || inst.Type == nil || inst.Type.Definition == nil {
		return
	}
	var props []*ast.Binding
	for _, b := range inst.Type.Definition.StoredProperties() {
		if b.HasAttribute("State") {
			props = append(props, b)
		}
	}
	if len(props) == 0 {
		return
	}
	name := inst.Type.Name
	p.counts[name]++
	prefix := name
	if n := p.counts[name]; n > 1 {
		prefix = fmt.Sprintf("%s#%d", name, n)
	}

	ids := make(map[string]string, len(props))
	last := make(map[string]runtime.Value, len(props))
	for _, prop := range props {
		id := prefix + "." + prop.Name
		current, _ := inst.Scope.Lookup(prop.Name)
		stored := p.store.Load(id, current)
		if !runtime.Equal(stored, current) {
			inst.Scope.Define(prop.Name, stored)
		}
		ids[prop.Name] = id
		last[prop.Name] = stored
	}
	store := p.store
	inst.Scope.SetMutationHook(func() {
		for _, prop := range props {
			v, _ := inst.Scope.Lookup(prop.Name)
			if runtime.Equal(v, last[prop.Name]) {
				continue
			}
			last[prop.Name] = v
			store.Store(ids[prop.Name], v)
		}
	})
}
