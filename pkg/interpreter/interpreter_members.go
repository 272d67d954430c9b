package interpreter

import (
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func (i *Interpreter) evaluateMemberAccess(expr *ast.MemberAccess, scope *runtime.Scope) (runtime.Value, error) {
	if expr.IsImplicit() {
		return runtime.EnumCaseValue{Case: expr.Name}, nil
	}
	base, err := i.evaluateExpression(expr.Base, scope)
	if err != nil {
		return nil, err
	}
	if runtime.IsVoid(unwrapBinding(base)) && isOptionalChain(expr.Base) {
		return runtime.Void, nil
	}
	if t, ok := base.(*runtime.TypeValue); ok && !hasStatic(t, expr.Name) {
		qualified := t.Name + "." + expr.Name
		if i.registry.HasValue(qualified) {
			// `Color.red` builds immediately; `Font.system` stays callable.
			if built, err := i.registry.BuildValue(qualified, nil, i.builderContext(scope)); err == nil {
				return built, nil
			}
			callable, _ := i.builderType(qualified)
			return callable, nil
		}
	}
	return i.member(base, expr.Name, scope)
}

// member resolves name on base: bindings read through, then instance
// slots, type statics, enum case members, built-ins, and finally registry
// modifiers.
func (i *Interpreter) member(base runtime.Value, name string, scope *runtime.Scope) (runtime.Value, error) {
	switch b := base.(type) {
	case runtime.BindingValue:
		if name == "wrappedValue" {
			return unwrapBinding(b), nil
		}
		if name == "projectedValue" {
			return b, nil
		}
		return i.member(unwrapBinding(b), name, scope)
	case *runtime.InstanceValue:
		if b.Scope != nil {
			if val, ok := b.Scope.Lookup(name); ok {
				return i.readSlot(b.Scope, val)
			}
		}
		if b.Type != nil && b.Type.Statics != nil {
			if val, ok := b.Type.Statics.Lookup(name); ok {
				return i.readSlot(b.Type.Statics, val)
			}
		}
	case *runtime.TypeValue:
		if b.Statics != nil {
			if val, ok := b.Statics.Lookup(name); ok {
				return i.readSlot(b.Statics, val)
			}
		}
		if name == "self" {
			return b, nil
		}
	case runtime.EnumCaseValue:
		if val, ok, err := i.enumMember(b, name); ok || err != nil {
			return val, err
		}
	}
	if val, ok, err := i.builtinMember(base, name); ok || err != nil {
		return val, err
	}
	if i.registry.HasMethod(name) {
		return i.modifier(base, name), nil
	}
	return nil, runtime.Errorf(runtime.UnknownIdentifier, "Value of type %s has no member '%s'", kindName(base), name)
}

// modifier binds a registry method builder to its receiver. View
// instances expand into host nodes before the builder sees them.
func (i *Interpreter) modifier(receiver runtime.Value, name string) runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:     name,
		Receiver: receiver,
		Impl: func(ctx *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
			recv, err := i.materialize(ctx.Receiver, 0)
			if err != nil {
				return nil, err
			}
			return i.registry.ApplyMethod(name, recv, args, i.builderContext(ctx.Scope))
		},
	}
}

func (i *Interpreter) enumMember(c runtime.EnumCaseValue, name string) (runtime.Value, bool, error) {
	t := c.Type
	if t == nil || t.Definition == nil {
		return nil, false, nil
	}
	if name == "rawValue" {
		raw, err := i.rawValue(t, c.Case)
		return raw, true, err
	}
	for _, b := range t.Definition.Instance {
		if b.Name != name {
			continue
		}
		fn, ok := b.Function()
		if !ok {
			continue
		}
		// Enum methods see the case as `self`.
		receiver := runtime.NewScope(runtime.ScopeInstance, t.Statics)
		receiver.SetOwner(c)
		val, err := i.readSlot(receiver, &runtime.FunctionValue{Declaration: fn, Closure: receiver})
		return val, true, err
	}
	return nil, false, nil
}

// rawValue evaluates the raw value of caseName. Cases without an explicit
// raw value use their name for String enums and count up from the
// previous integer for Int enums.
func (i *Interpreter) rawValue(t *runtime.TypeValue, caseName string) (runtime.Value, error) {
	def := t.Definition
	var next int64
	for _, c := range def.Cases {
		var raw runtime.Value = runtime.Void
		switch {
		case c.RawValue != nil:
			v, err := i.evaluateExpression(c.RawValue, t.Statics)
			if err != nil {
				return nil, err
			}
			raw = v
		case def.Conforms("String"):
			raw = runtime.StringValue{Val: c.Name}
		case def.Conforms("Int"):
			raw = runtime.IntValue{Val: next}
		}
		if n, ok := raw.(runtime.IntValue); ok {
			next = n.Val + 1
		}
		if c.Name == caseName {
			return raw, nil
		}
	}
	return nil, runtime.Errorf(runtime.UnknownIdentifier, "'%s' has no case '%s'", t.Name, caseName)
}
