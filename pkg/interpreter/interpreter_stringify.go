package interpreter

import (
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// stringify is the projection used by interpolation, print and String(x).
// A user type with a `description` member prints through it.
func (i *Interpreter) stringify(val runtime.Value) (string, error) {
	val = unwrapBinding(val)
	switch v := val.(type) {
	case *runtime.InstanceValue:
		if str, ok, err := i.describeMember(v); ok || err != nil {
			return str, err
		}
	case runtime.EnumCaseValue:
		if v.Type != nil && v.Type.Definition != nil {
			if str, ok, err := i.describeMember(v); ok || err != nil {
				return str, err
			}
		}
	}
	return runtime.Describe(val), nil
}

func (i *Interpreter) describeMember(val runtime.Value) (string, bool, error) {
	if !declaresDescription(val) {
		return "", false, nil
	}
	desc, err := i.member(val, "description", i.module)
	if err != nil {
		return "", true, err
	}
	if s, ok := desc.(runtime.StringValue); ok {
		return s.Val, true, nil
	}
	return runtime.Describe(desc), true, nil
}

func declaresDescription(val runtime.Value) bool {
	var t *runtime.TypeValue
	switch v := val.(type) {
	case *runtime.InstanceValue:
		t = v.Type
	case runtime.EnumCaseValue:
		t = v.Type
	}
	if t == nil || t.Definition == nil {
		return false
	}
	for _, b := range t.Definition.Instance {
		if b.Name == "description" {
			return true
		}
	}
	return false
}
