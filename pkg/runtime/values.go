package runtime

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindVoid Kind = iota
	KindInt
	KindDouble
	KindBool
	KindString
	KindArray
	KindMap
	KindUUID
	KindDate
	KindKeyPath
	KindFunction
	KindNativeFunction
	KindType
	KindEnumCase
	KindInstance
	KindBinding
	KindHostNode
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt:
		return "Int"
	case KindDouble:
		return "Double"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindMap:
		return "Dictionary"
	case KindUUID:
		return "UUID"
	case KindDate:
		return "Date"
	case KindKeyPath:
		return "KeyPath"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindType:
		return "type"
	case KindEnumCase:
		return "enum_case"
	case KindInstance:
		return "instance"
	case KindBinding:
		return "binding"
	case KindHostNode:
		return "host_node"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

// Void is the shared void value.
var Void Value = VoidValue{}

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type DoubleValue struct {
	Val float64
}

func (v DoubleValue) Kind() Kind { return KindDouble }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type UUIDValue struct {
	Val uuid.UUID
}

func (v UUIDValue) Kind() Kind { return KindUUID }

type DateValue struct {
	Val time.Time
}

func (v DateValue) Kind() Kind { return KindDate }

type KeyPathValue struct {
	Path *ast.KeyPath
}

func (v KeyPathValue) Kind() Kind { return KindKeyPath }

// IsVoid reports whether v is void or absent.
func IsVoid(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(VoidValue)
	return ok
}

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

// ArrayValue has value semantics: operations that change an array build a
// new one and write it back through the assignment path.
type ArrayValue struct {
	Elements []Value
}

func (v ArrayValue) Kind() Kind { return KindArray }

func NewArray(elements ...Value) ArrayValue {
	if elements == nil {
		elements = []Value{}
	}
	return ArrayValue{Elements: elements}
}

// With returns a copy with extra elements appended.
func (v ArrayValue) With(extra ...Value) ArrayValue {
	out := make([]Value, 0, len(v.Elements)+len(extra))
	out = append(out, v.Elements...)
	out = append(out, extra...)
	return ArrayValue{Elements: out}
}

type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue keeps entries in insertion order. Keys must be hashable
// scalars (see HashKey).
type MapValue struct {
	Entries []MapEntry
	index   map[string]int
}

func (v MapValue) Kind() Kind { return KindMap }

func NewMap() MapValue {
	return MapValue{index: make(map[string]int)}
}

// Get looks up key.
func (v MapValue) Get(key Value) (Value, bool) {
	hashed, ok := HashKey(key)
	if !ok {
		return nil, false
	}
	if v.index == nil {
		for _, entry := range v.Entries {
			if h, _ := HashKey(entry.Key); h == hashed {
				return entry.Value, true
			}
		}
		return nil, false
	}
	pos, ok := v.index[hashed]
	if !ok {
		return nil, false
	}
	return v.Entries[pos].Value, true
}

// With returns a copy where key maps to value. A void value removes key.
func (v MapValue) With(key, value Value) (MapValue, error) {
	hashed, ok := HashKey(key)
	if !ok {
		return MapValue{}, Errorf(InvalidArgument, "%s is not a valid dictionary key", key.Kind())
	}
	out := NewMap()
	for _, entry := range v.Entries {
		h, _ := HashKey(entry.Key)
		if h == hashed {
			if IsVoid(value) {
				continue
			}
			entry = MapEntry{Key: entry.Key, Value: value}
		}
		out.index[h] = len(out.Entries)
		out.Entries = append(out.Entries, entry)
	}
	if _, exists := out.index[hashed]; !exists && !IsVoid(value) {
		out.index[hashed] = len(out.Entries)
		out.Entries = append(out.Entries, MapEntry{Key: key, Value: value})
	}
	return out, nil
}

func (v MapValue) Len() int { return len(v.Entries) }

// HashKey returns a stable key for hashable scalars.
func HashKey(v Value) (string, bool) {
	switch val := v.(type) {
	case IntValue:
		return fmt.Sprintf("i:%d", val.Val), true
	case DoubleValue:
		if val.Val == float64(int64(val.Val)) {
			return fmt.Sprintf("i:%d", int64(val.Val)), true
		}
		return fmt.Sprintf("d:%v", val.Val), true
	case BoolValue:
		return fmt.Sprintf("b:%t", val.Val), true
	case StringValue:
		return "s:" + val.Val, true
	case UUIDValue:
		return "u:" + val.Val.String(), true
	case EnumCaseValue:
		if len(val.Associated) > 0 {
			return "", false
		}
		return "e:" + val.TypeName + "." + val.Case, true
	default:
		return "", false
	}
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is an IR closure bound to its defining scope.
type FunctionValue struct {
	Declaration *ast.Function
	Closure     *Scope
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Argument is an evaluated, optionally labeled call argument.
type Argument struct {
	Label string
	Value Value
}

// Invoker calls back into the evaluator, letting native code run closures.
// Collect returns every value the body produced instead of folding them
// into one result, which is what view-builder closures need.
type Invoker interface {
	Invoke(fn Value, args []Argument) (Value, error)
	Collect(fn Value, args []Argument) ([]Value, error)
}

// NativeCallContext carries evaluator state into native implementations.
type NativeCallContext struct {
	Receiver Value
	Scope    *Scope
	Invoker  Invoker
}

// NativeFunctionValue is implemented in Go. A non-nil Receiver marks a
// bound built-in method such as `items.append`.
type NativeFunctionValue struct {
	Name     string
	Receiver Value
	// Mutating natives return the receiver's replacement value.
	Mutating bool
	Impl     func(ctx *NativeCallContext, args []Argument) (Value, error)
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Types and instances
//-----------------------------------------------------------------------------

type TypeFlavor int

const (
	// TypeDefinition is a user definition lowered from source.
	TypeDefinition TypeFlavor = iota
	// TypeNative is a built-in constructor such as Int or UUID.
	TypeNative
	// TypeBuilder delegates construction to the host registry.
	TypeBuilder
)

type TypeValue struct {
	Name       string
	Flavor     TypeFlavor
	Definition *ast.Definition
	// Statics is the type-kind scope holding static members and enum cases.
	Statics *Scope
}

func (v *TypeValue) Kind() Kind { return KindType }

// IsEnum reports whether the type was declared as an enum.
func (v *TypeValue) IsEnum() bool {
	return v.Definition != nil && v.Definition.Kind == ast.DefinitionEnum
}

// EnumCaseValue is `.name` or `Type.name(...)`. A nil Type is the implicit
// form, which compares equal to any case with the same name.
type EnumCaseValue struct {
	Type       *TypeValue
	TypeName   string
	Case       string
	Associated []Value
}

func (v EnumCaseValue) Kind() Kind { return KindEnumCase }

type InstanceValue struct {
	Type  *TypeValue
	Scope *Scope
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// Field reads a stored slot directly from the instance scope.
func (v *InstanceValue) Field(name string) (Value, bool) {
	return v.Scope.Lookup(name)
}

// BindingValue is a two-way binding produced by `$name`.
type BindingValue struct {
	Name string
	Get  func() (Value, error)
	Set  func(Value) error
}

func (v BindingValue) Kind() Kind { return KindBinding }

// HostNodeValue wraps whatever a registry builder produced.
type HostNodeValue struct {
	Node any
}

func (v HostNodeValue) Kind() Kind { return KindHostNode }
