package runtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Describe is the string projection used by interpolation and `String(x)`.
func Describe(v Value) string {
	return describe(v, false)
}

// DebugDescribe quotes nested strings, like collection printing does.
func DebugDescribe(v Value) string {
	return describe(v, true)
}

func describe(v Value, quoted bool) string {
	switch val := v.(type) {
	case nil, VoidValue:
		return "nil"
	case IntValue:
		return strconv.FormatInt(val.Val, 10)
	case DoubleValue:
		return FormatDouble(val.Val)
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case StringValue:
		if quoted {
			return strconv.Quote(val.Val)
		}
		return val.Val
	case UUIDValue:
		return strings.ToUpper(val.Val.String())
	case DateValue:
		return val.Val.UTC().Format(time.RFC3339)
	case KeyPathValue:
		if val.Path == nil {
			return `\.self`
		}
		return val.Path.String()
	case ArrayValue:
		parts := make([]string, 0, len(val.Elements))
		for _, el := range val.Elements {
			parts = append(parts, describe(el, true))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case MapValue:
		if len(val.Entries) == 0 {
			return "[:]"
		}
		parts := make([]string, 0, len(val.Entries))
		for _, entry := range val.Entries {
			parts = append(parts, describe(entry.Key, true)+": "+describe(entry.Value, true))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case EnumCaseValue:
		if len(val.Associated) == 0 {
			return val.Case
		}
		parts := make([]string, 0, len(val.Associated))
		for _, a := range val.Associated {
			parts = append(parts, describe(a, true))
		}
		return val.Case + "(" + strings.Join(parts, ", ") + ")"
	case *InstanceValue:
		return describeInstance(val)
	case *TypeValue:
		return val.Name
	case *FunctionValue:
		return "(Function)"
	case NativeFunctionValue:
		return "(Function " + val.Name + ")"
	case BindingValue:
		if val.Get == nil {
			return "Binding"
		}
		inner, err := val.Get()
		if err != nil {
			return "Binding"
		}
		return describe(inner, quoted)
	case HostNodeValue:
		if s, ok := val.Node.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%v", val.Node)
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

func describeInstance(inst *InstanceValue) string {
	name := "instance"
	if inst.Type != nil {
		name = inst.Type.Name
	}
	if inst.Scope == nil || inst.Type == nil || inst.Type.Definition == nil {
		return name + "()"
	}
	var parts []string
	for _, prop := range inst.Type.Definition.StoredProperties() {
		if v, ok := inst.Scope.Lookup(prop.Name); ok {
			parts = append(parts, prop.Name+": "+describe(v, true))
		}
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// FormatDouble prints whole doubles with a trailing `.0`.
func FormatDouble(f float64) string {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(text, ".eEnN") {
		return text
	}
	return text + ".0"
}
