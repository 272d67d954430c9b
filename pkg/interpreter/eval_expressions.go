package interpreter

import (
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, scope *runtime.Scope) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.DoubleLiteral:
		return runtime.DoubleValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.Void, nil
	case *ast.StringInterpolation:
		return i.evaluateInterpolation(n, scope)
	case *ast.ArrayLiteral:
		elements := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el, scope)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return runtime.NewArray(elements...), nil
	case *ast.DictionaryLiteral:
		return i.evaluateDictionary(n, scope)
	case *ast.KeyPath:
		return runtime.KeyPathValue{Path: n}, nil
	case *ast.Identifier:
		return i.evaluateIdentifier(n.Name, scope)
	case *ast.BindingReference:
		return i.evaluateBindingReference(n.Name, scope)
	case *ast.UnaryExpression:
		return i.evaluateUnary(n, scope)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n, scope)
	case *ast.TernaryExpression:
		cond, err := i.evaluateExpression(n.Condition, scope)
		if err != nil {
			return nil, err
		}
		ok, err := truthy(cond)
		if err != nil {
			return nil, err
		}
		if ok {
			return i.evaluateExpression(n.Then, scope)
		}
		return i.evaluateExpression(n.Else, scope)
	case *ast.MemberAccess:
		return i.evaluateMemberAccess(n, scope)
	case *ast.Call:
		return i.evaluateCall(n, scope)
	case *ast.Subscript:
		return i.evaluateSubscript(n, scope)
	case *ast.FunctionLiteral:
		if n.Function == nil {
			return nil, runtime.Errorf(runtime.UnsupportedExpression, "Empty function literal")
		}
		return &runtime.FunctionValue{Declaration: n.Function, Closure: scope}, nil
	case *ast.DefinitionLiteral:
		if n.Definition == nil {
			return nil, runtime.Errorf(runtime.UnsupportedExpression, "Empty definition literal")
		}
		return i.registerDefinition(n.Definition, scope)
	case *ast.ForceUnwrap:
		val, err := i.evaluateExpression(n.Operand, scope)
		if err != nil {
			return nil, err
		}
		if !n.Optional && runtime.IsVoid(unwrapBinding(val)) {
			return nil, runtime.Errorf(runtime.UnsupportedExpression, "Unexpectedly found nil while unwrapping an Optional value")
		}
		return val, nil
	case *ast.Unknown:
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Unsupported expression '%s': %s", n.Kind, n.Text)
	case nil:
		return runtime.Void, nil
	default:
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Unsupported expression type %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateInterpolation(expr *ast.StringInterpolation, scope *runtime.Scope) (runtime.Value, error) {
	var sb strings.Builder
	for _, part := range expr.Parts {
		if lit, ok := part.(*ast.StringLiteral); ok {
			sb.WriteString(lit.Value)
			continue
		}
		val, err := i.evaluateExpression(part, scope)
		if err != nil {
			return nil, err
		}
		str, err := i.stringify(val)
		if err != nil {
			return nil, err
		}
		sb.WriteString(str)
	}
	return runtime.StringValue{Val: sb.String()}, nil
}

func (i *Interpreter) evaluateDictionary(expr *ast.DictionaryLiteral, scope *runtime.Scope) (runtime.Value, error) {
	out := runtime.NewMap()
	for _, entry := range expr.Entries {
		key, err := i.evaluateExpression(entry.Key, scope)
		if err != nil {
			return nil, err
		}
		val, err := i.evaluateExpression(entry.Value, scope)
		if err != nil {
			return nil, err
		}
		if out, err = out.With(unwrapBinding(key), val); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (i *Interpreter) evaluateIdentifier(name string, scope *runtime.Scope) (runtime.Value, error) {
	switch name {
	case "self":
		return selfValue(scope)
	case "Self":
		return selfType(scope)
	}
	owner, val, ok := scope.Locate(name)
	if ok {
		return i.readSlot(owner, val)
	}
	if t := enclosingType(scope); t != nil && t.Statics != nil {
		if owner, val, ok := t.Statics.Locate(name); ok {
			return i.readSlot(owner, val)
		}
	}
	if t, ok := i.builderType(name); ok {
		return t, nil
	}
	return nil, runtime.Errorf(runtime.UnknownIdentifier, "Undefined variable '%s'", name)
}

// readSlot applies read-side behaviour to a stored value: computed
// properties run, and bindings held as instance properties dereference.
func (i *Interpreter) readSlot(owner *runtime.Scope, val runtime.Value) (runtime.Value, error) {
	switch v := val.(type) {
	case *runtime.FunctionValue:
		if v.Declaration != nil && v.Declaration.IsComputed {
			return i.callFunction(v, nil, owner)
		}
	case runtime.BindingValue:
		if owner.Kind() == runtime.ScopeInstance && v.Get != nil {
			return v.Get()
		}
	}
	return val, nil
}

func (i *Interpreter) evaluateBindingReference(name string, scope *runtime.Scope) (runtime.Value, error) {
	owner, val, ok := scope.Locate(name)
	if !ok {
		return nil, runtime.Errorf(runtime.UnknownIdentifier, "Undefined variable '%s'", name)
	}
	if b, ok := val.(runtime.BindingValue); ok {
		return b, nil
	}
	return runtime.BindingValue{
		Name: name,
		Get: func() (runtime.Value, error) {
			v, _ := owner.Lookup(name)
			return i.readSlot(owner, v)
		},
		Set: func(v runtime.Value) error {
			current, _ := owner.Lookup(name)
			return i.assignSlot(owner, name, current, v)
		},
	}, nil
}

func selfValue(scope *runtime.Scope) (runtime.Value, error) {
	if inst := scope.Nearest(runtime.ScopeInstance); inst != nil && inst.Owner() != nil {
		return inst.Owner(), nil
	}
	if typ := scope.Nearest(runtime.ScopeType); typ != nil && typ.Owner() != nil {
		return typ.Owner(), nil
	}
	return nil, runtime.Errorf(runtime.UnknownIdentifier, "'self' used outside of a type")
}

func selfType(scope *runtime.Scope) (runtime.Value, error) {
	if t := enclosingType(scope); t != nil {
		return t, nil
	}
	return nil, runtime.Errorf(runtime.UnknownIdentifier, "'Self' used outside of a type")
}

// enclosingType is the type whose instance or static member is running.
func enclosingType(scope *runtime.Scope) *runtime.TypeValue {
	if inst := scope.Nearest(runtime.ScopeInstance); inst != nil {
		switch owner := inst.Owner().(type) {
		case *runtime.InstanceValue:
			return owner.Type
		case runtime.EnumCaseValue:
			return owner.Type
		}
	}
	if typ := scope.Nearest(runtime.ScopeType); typ != nil {
		if t, ok := typ.Owner().(*runtime.TypeValue); ok {
			return t
		}
	}
	return nil
}

func (i *Interpreter) evaluateSubscript(expr *ast.Subscript, scope *runtime.Scope) (runtime.Value, error) {
	base, err := i.evaluateExpression(expr.Base, scope)
	if err != nil {
		return nil, err
	}
	base = unwrapBinding(base)
	if runtime.IsVoid(base) && isOptionalChain(expr.Base) {
		return runtime.Void, nil
	}
	args, err := i.evaluateArguments(expr.Arguments, scope)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "Subscript expects one argument, got %d", len(args))
	}
	if args[0].Label == "keyPath" {
		path, ok := args[0].Value.(runtime.KeyPathValue)
		if !ok {
			return nil, runtime.Errorf(runtime.InvalidArgument, "Subscript 'keyPath' expects KeyPath, got %s", kindName(args[0].Value))
		}
		return i.applyKeyPath(base, path, scope)
	}
	return subscriptValue(base, unwrapBinding(args[0].Value))
}

func subscriptValue(base, key runtime.Value) (runtime.Value, error) {
	switch b := base.(type) {
	case runtime.ArrayValue:
		idx, err := arrayIndex(b, key)
		if err != nil {
			return nil, err
		}
		return b.Elements[idx], nil
	case runtime.MapValue:
		if v, ok := b.Get(key); ok {
			return v, nil
		}
		return runtime.Void, nil
	default:
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Cannot subscript %s", kindName(base))
	}
}

func arrayIndex(arr runtime.ArrayValue, key runtime.Value) (int, error) {
	idx, ok := runtime.ToIndex(key)
	if !ok {
		return 0, runtime.Errorf(runtime.InvalidArgument, "Array index must be Int, got %s", kindName(key))
	}
	if idx < 0 || idx >= len(arr.Elements) {
		return 0, runtime.Errorf(runtime.InvalidArgument, "Index %d out of range", idx)
	}
	return idx, nil
}

// applyKeyPath walks path's components starting at root. An optional
// component stops the walk with void when the current value is void.
func (i *Interpreter) applyKeyPath(root runtime.Value, path runtime.KeyPathValue, scope *runtime.Scope) (runtime.Value, error) {
	current := unwrapBinding(root)
	if path.Path == nil {
		return current, nil
	}
	for _, c := range path.Path.Components {
		switch c.Kind {
		case ast.KeyPathProperty:
			next, err := i.member(current, c.Name, scope)
			if err != nil {
				return nil, err
			}
			current = unwrapBinding(next)
		case ast.KeyPathOptional:
			if runtime.IsVoid(current) {
				return runtime.Void, nil
			}
		case ast.KeyPathForceUnwrap:
			if runtime.IsVoid(current) {
				return nil, runtime.Errorf(runtime.UnsupportedExpression, "Unexpectedly found nil while applying %s", path.Path.String())
			}
		case ast.KeyPathSubscript:
			next, err := subscriptValue(current, runtime.IntValue{Val: int64(c.Index)})
			if err != nil {
				return nil, err
			}
			current = next
		}
	}
	return current, nil
}

func isOptionalChain(expr ast.Expression) bool {
	unwrap, ok := expr.(*ast.ForceUnwrap)
	return ok && unwrap.Optional
}

// unwrapBinding reads through a two-way binding. Read failures yield void.
func unwrapBinding(v runtime.Value) runtime.Value {
	b, ok := v.(runtime.BindingValue)
	if !ok || b.Get == nil {
		return v
	}
	inner, err := b.Get()
	if err != nil {
		return runtime.Void
	}
	return inner
}
