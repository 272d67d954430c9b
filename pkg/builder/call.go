package builder

import (
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// Call is a matched invocation: one value per declared parameter.
type Call struct {
	Receiver runtime.Value
	Scope    *runtime.Scope
	Invoker  runtime.Invoker

	names    map[string]int
	values   []runtime.Value
	provided []bool
}

// Value returns the argument bound to the named parameter (void if the
// builder declared no such parameter).
func (c *Call) Value(name string) runtime.Value {
	idx, ok := c.names[name]
	if !ok || c.values[idx] == nil {
		return runtime.Void
	}
	return c.values[idx]
}

// Provided reports whether the caller passed the parameter explicitly.
func (c *Call) Provided(name string) bool {
	idx, ok := c.names[name]
	return ok && c.provided[idx]
}

func (c *Call) String(name string) (string, error) {
	switch v := c.Value(name).(type) {
	case runtime.StringValue:
		return v.Val, nil
	default:
		return "", c.mismatch(name, "String")
	}
}

func (c *Call) Int(name string) (int64, error) {
	if n, ok := runtime.ToInt(c.Value(name)); ok {
		return n, nil
	}
	return 0, c.mismatch(name, "Int")
}

func (c *Call) Double(name string) (float64, error) {
	if f, ok := runtime.ToFloat(c.Value(name)); ok {
		return f, nil
	}
	return 0, c.mismatch(name, "Double")
}

func (c *Call) Bool(name string) (bool, error) {
	if b, ok := c.Value(name).(runtime.BoolValue); ok {
		return b.Val, nil
	}
	return false, c.mismatch(name, "Bool")
}

// Children runs a content closure and returns what it collected. A void
// argument yields no children.
func (c *Call) Children(name string) ([]runtime.Value, error) {
	fn := c.Value(name)
	if runtime.IsVoid(fn) {
		return nil, nil
	}
	if c.Invoker == nil {
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Cannot evaluate '%s' without an evaluator", name)
	}
	return c.Invoker.Collect(fn, nil)
}

func (c *Call) mismatch(name, want string) error {
	return runtime.Errorf(runtime.InvalidArgument, "Argument '%s' expects %s, got %s", name, want, c.Value(name).Kind())
}

// Accepts checks value against a parameter type and applies Int to
// Double widening. Empty and "Any" types accept everything.
func Accepts(typeName string, value runtime.Value) (runtime.Value, bool) {
	name := runtime.NormalizeAnnotation(typeName)
	switch name {
	case "", "Any":
		return value, true
	}
	if runtime.IsVoid(value) {
		return value, strings.HasSuffix(strings.TrimSpace(typeName), "?")
	}
	switch name {
	case "Function":
		switch value.(type) {
		case *runtime.FunctionValue, runtime.NativeFunctionValue:
			return value, true
		}
		return value, false
	case "View":
		switch value.(type) {
		case runtime.HostNodeValue, *runtime.InstanceValue:
			return value, true
		}
		return value, false
	}
	if runtime.IsFloatingAnnotation(name) {
		if f, ok := runtime.ToFloat(value); ok {
			return runtime.DoubleValue{Val: f}, true
		}
		return value, false
	}
	if runtime.IsIntegerAnnotation(name) {
		_, ok := value.(runtime.IntValue)
		return value, ok
	}
	return value, value.Kind().String() == name || kindAlias(value) == name
}

func kindAlias(value runtime.Value) string {
	switch v := value.(type) {
	case *runtime.InstanceValue:
		if v.Type != nil {
			return v.Type.Name
		}
	case runtime.EnumCaseValue:
		return v.TypeName
	case runtime.BindingValue:
		return "Binding"
	}
	return ""
}
