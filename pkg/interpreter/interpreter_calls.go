package interpreter

import (
	"strconv"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/arguments"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// mutationResult is what a mutating built-in returns: the call's own
// result plus the receiver's replacement, which the caller writes back.
type mutationResult struct {
	result   runtime.Value
	receiver runtime.Value
}

func (mutationResult) Kind() runtime.Kind { return runtime.KindVoid }

func settle(v runtime.Value) runtime.Value {
	if m, ok := v.(mutationResult); ok {
		return m.result
	}
	return v
}

func (i *Interpreter) evaluateArguments(args []*ast.Argument, scope *runtime.Scope) ([]runtime.Argument, error) {
	out := make([]runtime.Argument, 0, len(args))
	for _, arg := range args {
		val, err := i.evaluateExpression(arg.Value, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, runtime.Argument{Label: arg.Label, Value: val})
	}
	return out, nil
}

func (i *Interpreter) evaluateCall(call *ast.Call, scope *runtime.Scope) (runtime.Value, error) {
	if member, ok := call.Callee.(*ast.MemberAccess); ok && !member.IsImplicit() {
		return i.evaluateMemberCall(call, member, scope)
	}
	callee, err := i.evaluateExpression(call.Callee, scope)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(call.Arguments, scope)
	if err != nil {
		return nil, err
	}
	result, err := i.callValue(callee, args, scope)
	if err != nil {
		return nil, err
	}
	return settle(result), nil
}

func (i *Interpreter) evaluateMemberCall(call *ast.Call, member *ast.MemberAccess, scope *runtime.Scope) (runtime.Value, error) {
	base, err := i.evaluateExpression(member.Base, scope)
	if err != nil {
		return nil, err
	}
	if runtime.IsVoid(unwrapBinding(base)) && isOptionalChain(member.Base) {
		return runtime.Void, nil
	}
	args, err := i.evaluateArguments(call.Arguments, scope)
	if err != nil {
		return nil, err
	}
	if t, ok := base.(*runtime.TypeValue); ok {
		qualified := t.Name + "." + member.Name
		if !hasStatic(t, member.Name) && i.registry.HasValue(qualified) {
			return i.registry.BuildValue(qualified, args, i.builderContext(scope))
		}
	}
	fn, err := i.member(base, member.Name, scope)
	if err != nil {
		return nil, err
	}
	result, err := i.callValue(fn, args, scope)
	if err != nil {
		return nil, err
	}
	if m, ok := result.(mutationResult); ok {
		if err := i.assign(member.Base, m.receiver, scope); err != nil {
			return nil, err
		}
		return m.result, nil
	}
	return result, nil
}

func hasStatic(t *runtime.TypeValue, name string) bool {
	return t.Statics != nil && t.Statics.Has(name)
}

// callValue dispatches on the callee's variant.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Argument, scope *runtime.Scope) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(fn, args, scope)
	case runtime.NativeFunctionValue:
		ctx := &runtime.NativeCallContext{Receiver: fn.Receiver, Scope: scope, Invoker: i}
		result, err := fn.Impl(ctx, args)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = runtime.Void
		}
		return result, nil
	case *runtime.TypeValue:
		return i.construct(fn, args, scope)
	case runtime.EnumCaseValue:
		if len(args) == 0 {
			return fn, nil
		}
		out := fn
		out.Associated = make([]runtime.Value, 0, len(args))
		for _, arg := range args {
			out.Associated = append(out.Associated, arg.Value)
		}
		return out, nil
	case runtime.BindingValue:
		return i.callValue(unwrapBinding(fn), args, scope)
	case runtime.KeyPathValue:
		if len(args) != 1 {
			return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "Key path expects one argument, got %d", len(args))
		}
		return i.applyKeyPath(args[0].Value, fn, scope)
	default:
		return nil, runtime.Errorf(runtime.UnknownFunction, "Cannot call value of type %s", kindName(callee))
	}
}

// callFunction runs fn and folds its collected values into one result.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Argument, caller *runtime.Scope) (runtime.Value, error) {
	_, result, err := i.invokeFunction(fn, args, caller)
	return result, err
}

// invokeFunction binds args into a fresh frame under the closure scope and
// runs the body. The result is the explicit return value, else the single
// collected value, else an array of everything collected, else void.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Argument, caller *runtime.Scope) ([]runtime.Value, runtime.Value, error) {
	decl := fn.Declaration
	if decl == nil {
		return nil, nil, runtime.Errorf(runtime.UnknownFunction, "Function has no body")
	}
	frame := fn.Closure.Child()
	if err := i.bindParameters(decl, frame, args, caller); err != nil {
		return nil, nil, err
	}
	out := &collector{}
	if err := i.executeStatements(decl.Body, frame, out); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return out.values, coerceResult(decl, ret.value), nil
		}
		return nil, nil, err
	}
	switch len(out.values) {
	case 0:
		return out.values, runtime.Void, nil
	case 1:
		return out.values, coerceResult(decl, out.values[0]), nil
	default:
		return out.values, runtime.NewArray(out.values...), nil
	}
}

func coerceResult(decl *ast.Function, v runtime.Value) runtime.Value {
	if decl.ReturnType == "" {
		return v
	}
	return runtime.CoerceToAnnotation(decl.ReturnType, v)
}

// bindParameters resolves args against decl's parameters. A closure that
// declares no parameters receives its arguments as $0, $1, ...
func (i *Interpreter) bindParameters(decl *ast.Function, frame *runtime.Scope, args []runtime.Argument, caller *runtime.Scope) error {
	if len(decl.Params) == 0 {
		if decl.Name != "" && len(args) > 0 {
			return runtime.Errorf(runtime.ArgumentCountMismatch, "'%s' takes no arguments, got %d", decl.Name, len(args))
		}
		for idx, arg := range args {
			frame.Define("$"+strconv.Itoa(idx), arg.Value)
		}
		return nil
	}
	params := make([]arguments.Param, len(decl.Params))
	for idx, p := range decl.Params {
		params[idx] = arguments.Param{Label: p.Label, Name: p.Name, HasDefault: p.Default != nil}
	}
	slots, err := arguments.Resolve(params, arguments.FromValues(args))
	if err != nil {
		return err
	}
	for idx, p := range decl.Params {
		var val runtime.Value
		if slots[idx] == arguments.UseDefault {
			val, err = i.evaluateExpression(p.Default, caller)
			if err != nil {
				return err
			}
		} else {
			val = args[slots[idx]].Value
		}
		frame.Define(p.Name, runtime.CoerceToAnnotation(p.TypeAnnotation, val))
	}
	return nil
}
