package interpreter

import (
	"fmt"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/builder"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// registerDefinition binds a user type into scope. Statics, enum cases and
// nested types live in the type's own scope, evaluated once here.
func (i *Interpreter) registerDefinition(def *ast.Definition, scope *runtime.Scope) (*runtime.TypeValue, error) {
	t := &runtime.TypeValue{Name: def.Name, Flavor: runtime.TypeDefinition, Definition: def}
	statics := runtime.NewScope(runtime.ScopeType, scope)
	statics.SetOwner(t)
	t.Statics = statics
	scope.Define(def.Name, t)

	var allCases []runtime.Value
	for _, c := range def.Cases {
		if len(c.AssociatedNames) > 0 {
			statics.Define(c.Name, enumConstructor(t, c))
			continue
		}
		caseValue := runtime.EnumCaseValue{Type: t, TypeName: t.Name, Case: c.Name}
		statics.Define(c.Name, caseValue)
		allCases = append(allCases, caseValue)
	}
	if def.Kind == ast.DefinitionEnum && def.Conforms("CaseIterable") {
		statics.Define("allCases", runtime.NewArray(allCases...))
	}
	for _, nested := range def.Nested {
		if _, err := i.registerDefinition(nested, statics); err != nil {
			return nil, err
		}
	}
	for _, b := range def.Static {
		if err := i.executeBinding(b, statics); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", def.Name, b.Name, err)
		}
	}
	i.logger.Debug("registered type", "name", def.Name, "kind", string(def.Kind), "cases", len(def.Cases), "members", len(def.Instance))
	return t, nil
}

func enumConstructor(t *runtime.TypeValue, c *ast.EnumCase) runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name: t.Name + "." + c.Name,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
			if len(args) != len(c.AssociatedNames) {
				return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "'%s.%s' expects %d associated values, got %d", t.Name, c.Name, len(c.AssociatedNames), len(args))
			}
			values := make([]runtime.Value, len(args))
			for idx, arg := range args {
				values[idx] = arg.Value
			}
			return runtime.EnumCaseValue{Type: t, TypeName: t.Name, Case: c.Name, Associated: values}, nil
		},
	}
}

// construct instantiates a type value with resolved arguments.
func (i *Interpreter) construct(t *runtime.TypeValue, args []runtime.Argument, scope *runtime.Scope) (runtime.Value, error) {
	switch t.Flavor {
	case runtime.TypeBuilder:
		return i.registry.BuildValue(t.Name, args, i.builderContext(scope))
	case runtime.TypeNative:
		defs := i.natives[t.Name]
		if len(defs) == 0 {
			return nil, runtime.Errorf(runtime.UnknownType, "'%s' cannot be constructed", t.Name)
		}
		return builder.Apply(t.Name, defs, nil, args, i.builderContext(scope))
	}
	def := t.Definition
	if def == nil {
		return nil, runtime.Errorf(runtime.UnknownType, "Unknown type '%s'", t.Name)
	}
	if def.Kind == ast.DefinitionEnum {
		return i.constructEnum(t, args)
	}

	inst := &runtime.InstanceValue{Type: t}
	instScope := runtime.NewScope(runtime.ScopeInstance, scope)
	instScope.SetOwner(inst)
	inst.Scope = instScope

	for _, prop := range def.StoredProperties() {
		var val runtime.Value = runtime.Void
		if prop.Initializer != nil {
			v, err := i.evaluateExpression(prop.Initializer, instScope)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name, prop.Name, err)
			}
			val = runtime.CoerceToAnnotation(prop.TypeAnnotation, v)
		}
		instScope.Define(prop.Name, val)
	}
	for _, b := range def.Instance {
		fn, ok := b.Function()
		if !ok || b.Name == "init" {
			continue
		}
		instScope.Define(b.Name, &runtime.FunctionValue{Declaration: fn, Closure: instScope})
	}
	if init, ok := def.Initializer(); ok {
		if _, _, err := i.invokeFunction(&runtime.FunctionValue{Declaration: init, Closure: instScope}, args, scope); err != nil {
			return nil, fmt.Errorf("%s.init: %w", t.Name, err)
		}
	} else if len(args) > 0 {
		return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "'%s' takes no arguments, got %d", t.Name, len(args))
	}
	if i.render != nil {
		i.render.link(inst)
	}
	return inst, nil
}

// constructEnum handles `Type(rawValue:)`, which yields void when no case
// carries the raw value.
func (i *Interpreter) constructEnum(t *runtime.TypeValue, args []runtime.Argument) (runtime.Value, error) {
	if len(args) != 1 || args[0].Label != "rawValue" {
		return nil, runtime.Errorf(runtime.InvalidArgument, "Enum '%s' can only be constructed with 'rawValue:'", t.Name)
	}
	want := unwrapBinding(args[0].Value)
	for _, c := range t.Definition.Cases {
		raw, err := i.rawValue(t, c.Name)
		if err != nil {
			return nil, err
		}
		if !runtime.IsVoid(raw) && runtime.Equal(raw, want) {
			if v, ok := t.Statics.Lookup(c.Name); ok {
				return v, nil
			}
		}
	}
	return runtime.Void, nil
}
