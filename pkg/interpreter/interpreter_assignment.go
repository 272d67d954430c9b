package interpreter

import (
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func (i *Interpreter) executeAssignment(stmt *ast.AssignmentStatement, scope *runtime.Scope) error {
	val, err := i.evaluateExpression(stmt.Value, scope)
	if err != nil {
		return err
	}
	return i.assign(stmt.Target, settle(val), scope)
}

// assign writes val through target. Arrays and maps have value semantics,
// so element writes rebuild the container and assign it to its own target.
func (i *Interpreter) assign(target ast.Expression, val runtime.Value, scope *runtime.Scope) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if t.Name == "self" || t.Name == "Self" {
			return runtime.Errorf(runtime.UnsupportedAssignment, "Cannot assign to '%s'", t.Name)
		}
		owner, current, ok := scope.Locate(t.Name)
		if !ok {
			if typ := enclosingType(scope); typ != nil && typ.Statics != nil {
				owner, current, ok = typ.Statics.Locate(t.Name)
			}
		}
		if !ok {
			return runtime.Errorf(runtime.UnknownIdentifier, "Undefined variable '%s'", t.Name)
		}
		return i.assignSlot(owner, t.Name, current, val)
	case *ast.MemberAccess:
		if t.IsImplicit() {
			return runtime.Errorf(runtime.UnsupportedAssignment, "Cannot assign to implicit member '.%s'", t.Name)
		}
		base, err := i.evaluateExpression(t.Base, scope)
		if err != nil {
			return err
		}
		return i.assignMember(base, t.Name, val)
	case *ast.Subscript:
		return i.assignSubscript(t, val, scope)
	case *ast.ForceUnwrap:
		return i.assign(t.Operand, val, scope)
	default:
		return runtime.Errorf(runtime.UnsupportedAssignment, "Cannot assign to %s", target.NodeType())
	}
}

func (i *Interpreter) assignMember(base runtime.Value, name string, val runtime.Value) error {
	switch b := base.(type) {
	case runtime.BindingValue:
		if name == "wrappedValue" {
			return b.Set(val)
		}
		return i.assignMember(unwrapBinding(b), name, val)
	case *runtime.InstanceValue:
		if current, ok := b.Scope.Lookup(name); ok {
			return i.assignSlot(b.Scope, name, current, val)
		}
		if b.Type != nil && b.Type.Statics != nil {
			if current, ok := b.Type.Statics.Lookup(name); ok {
				return i.assignSlot(b.Type.Statics, name, current, val)
			}
		}
		return runtime.Errorf(runtime.UnknownIdentifier, "Value of type %s has no member '%s'", kindName(b), name)
	case *runtime.TypeValue:
		if b.Statics != nil {
			if current, ok := b.Statics.Lookup(name); ok {
				return i.assignSlot(b.Statics, name, current, val)
			}
		}
		return runtime.Errorf(runtime.UnknownIdentifier, "Type %s has no static member '%s'", b.Name, name)
	default:
		return runtime.Errorf(runtime.UnsupportedAssignment, "Cannot assign to property '%s' of %s", name, kindName(base))
	}
}

func (i *Interpreter) assignSubscript(target *ast.Subscript, val runtime.Value, scope *runtime.Scope) error {
	base, err := i.evaluateExpression(target.Base, scope)
	if err != nil {
		return err
	}
	args, err := i.evaluateArguments(target.Arguments, scope)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return runtime.Errorf(runtime.ArgumentCountMismatch, "Subscript expects one argument, got %d", len(args))
	}
	key := unwrapBinding(args[0].Value)
	switch container := unwrapBinding(base).(type) {
	case runtime.ArrayValue:
		idx, err := arrayIndex(container, key)
		if err != nil {
			return err
		}
		elements := make([]runtime.Value, len(container.Elements))
		copy(elements, container.Elements)
		elements[idx] = val
		return i.assign(target.Base, runtime.NewArray(elements...), scope)
	case runtime.MapValue:
		updated, err := container.With(key, val)
		if err != nil {
			return err
		}
		return i.assign(target.Base, updated, scope)
	default:
		return runtime.Errorf(runtime.UnsupportedAssignment, "Cannot subscript-assign into %s", kindName(base))
	}
}

// assignSlot stores val into owner's name slot. Slots holding a binding
// write through it; integer values widen into double slots.
func (i *Interpreter) assignSlot(owner *runtime.Scope, name string, current, val runtime.Value) error {
	switch c := current.(type) {
	case runtime.BindingValue:
		if _, rebind := val.(runtime.BindingValue); !rebind && c.Set != nil {
			return c.Set(val)
		}
	case runtime.DoubleValue:
		if n, ok := val.(runtime.IntValue); ok {
			val = runtime.DoubleValue{Val: float64(n.Val)}
		}
	case *runtime.FunctionValue:
		if c.Declaration != nil && c.Declaration.IsComputed {
			return runtime.Errorf(runtime.UnsupportedAssignment, "Cannot assign to computed property '%s'", name)
		}
	}
	return owner.Set(name, val)
}
