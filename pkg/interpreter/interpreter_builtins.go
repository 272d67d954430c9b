package interpreter

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/builder"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// builtin is a member of a built-in value kind: either a property read
// directly off the receiver or a set of method overloads.
type builtin struct {
	property func(recv runtime.Value) (runtime.Value, error)
	methods  []builder.Definition
	mutating bool
}

func (i *Interpreter) builtinMember(base runtime.Value, name string) (runtime.Value, bool, error) {
	if base == nil {
		return nil, false, nil
	}
	b, ok := i.builtins[base.Kind()][name]
	if !ok {
		if name == "description" {
			s, err := i.stringify(base)
			if err != nil {
				return nil, true, err
			}
			return runtime.StringValue{Val: s}, true, nil
		}
		return nil, false, nil
	}
	if b.property != nil {
		v, err := b.property(base)
		return v, true, err
	}
	return runtime.NativeFunctionValue{
		Name:     name,
		Receiver: base,
		Mutating: b.mutating,
		Impl: func(ctx *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
			return builder.Apply(name, b.methods, ctx.Receiver, args, i.builderContext(ctx.Scope))
		},
	}, true, nil
}

func (i *Interpreter) builtinTables() map[runtime.Kind]map[string]builtin {
	return map[runtime.Kind]map[string]builtin{
		runtime.KindString: i.stringBuiltins(),
		runtime.KindInt:    intBuiltins(),
		runtime.KindDouble: doubleBuiltins(),
		runtime.KindBool:   boolBuiltins(),
		runtime.KindArray:  i.arrayBuiltins(),
		runtime.KindMap:    mapBuiltins(),
		runtime.KindUUID: {
			"uuidString": {property: func(recv runtime.Value) (runtime.Value, error) {
				return runtime.StringValue{Val: runtime.Describe(recv)}, nil
			}},
		},
		runtime.KindDate: {
			"timeIntervalSince1970": {property: func(recv runtime.Value) (runtime.Value, error) {
				t := recv.(runtime.DateValue).Val
				return runtime.DoubleValue{Val: float64(t.UnixNano()) / 1e9}, nil
			}},
			"addingTimeInterval": {methods: []builder.Definition{
				{Params: []builder.Param{param("", "interval", "Double")}, Build: func(c *builder.Call) (runtime.Value, error) {
					f, err := c.Double("interval")
					if err != nil {
						return nil, err
					}
					t := c.Receiver.(runtime.DateValue).Val
					return runtime.DateValue{Val: t.Add(time.Duration(f * float64(time.Second)))}, nil
				}},
			}},
		},
	}
}

// method wraps a single overload.
func method(build func(c *builder.Call) (runtime.Value, error), params ...builder.Param) builtin {
	return builtin{methods: []builder.Definition{{Params: params, Build: build}}}
}

func mutating(b builtin) builtin {
	b.mutating = true
	return b
}

func (i *Interpreter) stringBuiltins() map[string]builtin {
	str := func(v runtime.Value) string { return v.(runtime.StringValue).Val }
	predicate := func(fn func(s, arg string) bool) builtin {
		return method(func(c *builder.Call) (runtime.Value, error) {
			arg, err := c.String("other")
			if err != nil {
				return nil, err
			}
			return runtime.BoolValue{Val: fn(str(c.Receiver), arg)}, nil
		}, param("", "other", "String"))
	}
	return map[string]builtin{
		"count": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.IntValue{Val: int64(uniseg.GraphemeClusterCount(str(recv)))}, nil
		}},
		"isEmpty": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.BoolValue{Val: str(recv) == ""}, nil
		}},
		"capitalized": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: cases.Title(language.Und).String(str(recv))}, nil
		}},
		"first": {property: func(recv runtime.Value) (runtime.Value, error) {
			g := uniseg.NewGraphemes(str(recv))
			if g.Next() {
				return runtime.StringValue{Val: g.Str()}, nil
			}
			return runtime.Void, nil
		}},
		"uppercased": method(func(c *builder.Call) (runtime.Value, error) {
			return runtime.StringValue{Val: cases.Upper(language.Und).String(str(c.Receiver))}, nil
		}),
		"lowercased": method(func(c *builder.Call) (runtime.Value, error) {
			return runtime.StringValue{Val: cases.Lower(language.Und).String(str(c.Receiver))}, nil
		}),
		"hasPrefix": predicate(strings.HasPrefix),
		"hasSuffix": predicate(strings.HasSuffix),
		"contains":  predicate(strings.Contains),
		"split": method(func(c *builder.Call) (runtime.Value, error) {
			sep, err := c.String("separator")
			if err != nil {
				return nil, err
			}
			var out []runtime.Value
			for _, part := range strings.Split(str(c.Receiver), sep) {
				if part != "" {
					out = append(out, runtime.StringValue{Val: part})
				}
			}
			return runtime.NewArray(out...), nil
		}, param("separator", "separator", "String")),
		"components": method(func(c *builder.Call) (runtime.Value, error) {
			sep, err := c.String("separator")
			if err != nil {
				return nil, err
			}
			parts := strings.Split(str(c.Receiver), sep)
			out := make([]runtime.Value, len(parts))
			for idx, part := range parts {
				out[idx] = runtime.StringValue{Val: part}
			}
			return runtime.NewArray(out...), nil
		}, param("separatedBy", "separator", "String")),
		"replacingOccurrences": method(func(c *builder.Call) (runtime.Value, error) {
			old, err := c.String("of")
			if err != nil {
				return nil, err
			}
			replacement, err := c.String("with")
			if err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: strings.ReplaceAll(str(c.Receiver), old, replacement)}, nil
		}, param("of", "of", "String"), param("with", "with", "String")),
		"trimmingWhitespace": method(func(c *builder.Call) (runtime.Value, error) {
			return runtime.StringValue{Val: strings.TrimSpace(str(c.Receiver))}, nil
		}),
	}
}

func intBuiltins() map[string]builtin {
	return map[string]builtin{
		"isMultiple": method(func(c *builder.Call) (runtime.Value, error) {
			n, err := c.Int("of")
			if err != nil {
				return nil, err
			}
			recv := c.Receiver.(runtime.IntValue).Val
			if n == 0 {
				return runtime.BoolValue{Val: recv == 0}, nil
			}
			return runtime.BoolValue{Val: recv%n == 0}, nil
		}, param("of", "of", "Int")),
		"signum": method(func(c *builder.Call) (runtime.Value, error) {
			recv := c.Receiver.(runtime.IntValue).Val
			switch {
			case recv > 0:
				return runtime.IntValue{Val: 1}, nil
			case recv < 0:
				return runtime.IntValue{Val: -1}, nil
			}
			return runtime.IntValue{Val: 0}, nil
		}),
	}
}

func doubleBuiltins() map[string]builtin {
	unary := func(fn func(float64) float64) builtin {
		return method(func(c *builder.Call) (runtime.Value, error) {
			return runtime.DoubleValue{Val: fn(c.Receiver.(runtime.DoubleValue).Val)}, nil
		})
	}
	return map[string]builtin{
		"rounded":    unary(math.Round),
		"squareRoot": unary(math.Sqrt),
		"isNaN": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.BoolValue{Val: math.IsNaN(recv.(runtime.DoubleValue).Val)}, nil
		}},
		"isInfinite": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.BoolValue{Val: math.IsInf(recv.(runtime.DoubleValue).Val, 0)}, nil
		}},
	}
}

func boolBuiltins() map[string]builtin {
	return map[string]builtin{
		"toggle": mutating(method(func(c *builder.Call) (runtime.Value, error) {
			recv := c.Receiver.(runtime.BoolValue)
			return mutationResult{result: runtime.Void, receiver: runtime.BoolValue{Val: !recv.Val}}, nil
		})),
	}
}

func (i *Interpreter) arrayBuiltins() map[string]builtin {
	elems := func(v runtime.Value) []runtime.Value { return v.(runtime.ArrayValue).Elements }
	closure := param("", "transform", "Function")
	return map[string]builtin{
		"count": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.IntValue{Val: int64(len(elems(recv)))}, nil
		}},
		"isEmpty": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.BoolValue{Val: len(elems(recv)) == 0}, nil
		}},
		"first": {property: func(recv runtime.Value) (runtime.Value, error) {
			if e := elems(recv); len(e) > 0 {
				return e[0], nil
			}
			return runtime.Void, nil
		}},
		"last": {property: func(recv runtime.Value) (runtime.Value, error) {
			if e := elems(recv); len(e) > 0 {
				return e[len(e)-1], nil
			}
			return runtime.Void, nil
		}},
		"indices": {property: func(recv runtime.Value) (runtime.Value, error) {
			return makeRange("..<", runtime.IntValue{Val: 0}, runtime.IntValue{Val: int64(len(elems(recv)))})
		}},
		"append": {mutating: true, methods: []builder.Definition{
			{Params: []builder.Param{param("", "element", "Any")}, Build: func(c *builder.Call) (runtime.Value, error) {
				arr := c.Receiver.(runtime.ArrayValue)
				return mutationResult{result: runtime.Void, receiver: arr.With(c.Value("element"))}, nil
			}},
			{Params: []builder.Param{param("contentsOf", "contentsOf", "Array")}, Build: func(c *builder.Call) (runtime.Value, error) {
				arr := c.Receiver.(runtime.ArrayValue)
				return mutationResult{result: runtime.Void, receiver: arr.With(elems(c.Value("contentsOf"))...)}, nil
			}},
		}},
		"insert": mutating(method(func(c *builder.Call) (runtime.Value, error) {
			e := elems(c.Receiver)
			at, err := c.Int("at")
			if err != nil {
				return nil, err
			}
			if at < 0 || at > int64(len(e)) {
				return nil, runtime.Errorf(runtime.InvalidArgument, "Index %d out of range", at)
			}
			out := make([]runtime.Value, 0, len(e)+1)
			out = append(out, e[:at]...)
			out = append(out, c.Value("element"))
			out = append(out, e[at:]...)
			return mutationResult{result: runtime.Void, receiver: runtime.NewArray(out...)}, nil
		}, param("", "element", "Any"), param("at", "at", "Int"))),
		"remove": mutating(method(func(c *builder.Call) (runtime.Value, error) {
			arr := c.Receiver.(runtime.ArrayValue)
			idx, err := arrayIndex(arr, c.Value("at"))
			if err != nil {
				return nil, err
			}
			return mutationResult{result: arr.Elements[idx], receiver: without(arr.Elements, idx)}, nil
		}, param("at", "at", "Int"))),
		"removeLast": mutating(method(func(c *builder.Call) (runtime.Value, error) {
			e := elems(c.Receiver)
			if len(e) == 0 {
				return nil, runtime.Errorf(runtime.InvalidArgument, "Can't remove last element from an empty collection")
			}
			return mutationResult{result: e[len(e)-1], receiver: without(e, len(e)-1)}, nil
		})),
		"removeFirst": mutating(method(func(c *builder.Call) (runtime.Value, error) {
			e := elems(c.Receiver)
			if len(e) == 0 {
				return nil, runtime.Errorf(runtime.InvalidArgument, "Can't remove first element from an empty collection")
			}
			return mutationResult{result: e[0], receiver: without(e, 0)}, nil
		})),
		"removeAll": {mutating: true, methods: []builder.Definition{
			{Build: func(*builder.Call) (runtime.Value, error) {
				return mutationResult{result: runtime.Void, receiver: runtime.NewArray()}, nil
			}},
			{Params: []builder.Param{param("where", "where", "Function")}, Build: func(c *builder.Call) (runtime.Value, error) {
				kept, err := i.filterElements(elems(c.Receiver), c.Value("where"), false)
				if err != nil {
					return nil, err
				}
				return mutationResult{result: runtime.Void, receiver: runtime.NewArray(kept...)}, nil
			}},
		}},
		"contains": {methods: []builder.Definition{
			{Params: []builder.Param{param("where", "where", "Function")}, Build: func(c *builder.Call) (runtime.Value, error) {
				matches, err := i.filterElements(elems(c.Receiver), c.Value("where"), true)
				if err != nil {
					return nil, err
				}
				return runtime.BoolValue{Val: len(matches) > 0}, nil
			}},
			{Params: []builder.Param{param("", "element", "Any")}, Build: func(c *builder.Call) (runtime.Value, error) {
				return runtime.BoolValue{Val: indexOf(elems(c.Receiver), c.Value("element")) >= 0}, nil
			}},
		}},
		"firstIndex": method(func(c *builder.Call) (runtime.Value, error) {
			if idx := indexOf(elems(c.Receiver), c.Value("of")); idx >= 0 {
				return runtime.IntValue{Val: int64(idx)}, nil
			}
			return runtime.Void, nil
		}, param("of", "of", "Any")),
		"map": method(func(c *builder.Call) (runtime.Value, error) {
			out, err := i.mapElements(elems(c.Receiver), c.Value("transform"), false)
			if err != nil {
				return nil, err
			}
			return runtime.NewArray(out...), nil
		}, closure),
		"compactMap": method(func(c *builder.Call) (runtime.Value, error) {
			out, err := i.mapElements(elems(c.Receiver), c.Value("transform"), true)
			if err != nil {
				return nil, err
			}
			return runtime.NewArray(out...), nil
		}, closure),
		"filter": method(func(c *builder.Call) (runtime.Value, error) {
			out, err := i.filterElements(elems(c.Receiver), c.Value("transform"), true)
			if err != nil {
				return nil, err
			}
			return runtime.NewArray(out...), nil
		}, closure),
		"forEach": method(func(c *builder.Call) (runtime.Value, error) {
			_, err := i.mapElements(elems(c.Receiver), c.Value("transform"), true)
			return runtime.Void, err
		}, closure),
		"reduce": method(func(c *builder.Call) (runtime.Value, error) {
			acc := c.Value("initial")
			for _, el := range elems(c.Receiver) {
				next, err := i.Invoke(c.Value("combine"), []runtime.Argument{{Value: acc}, {Value: el}})
				if err != nil {
					return nil, err
				}
				acc = next
			}
			return acc, nil
		}, param("", "initial", "Any"), param("", "combine", "Function")),
		"joined": method(func(c *builder.Call) (runtime.Value, error) {
			sep, err := c.String("separator")
			if err != nil {
				return nil, err
			}
			parts := make([]string, 0, len(elems(c.Receiver)))
			for _, el := range elems(c.Receiver) {
				s, err := i.stringify(el)
				if err != nil {
					return nil, err
				}
				parts = append(parts, s)
			}
			return runtime.StringValue{Val: strings.Join(parts, sep)}, nil
		}, builder.Param{Label: "separator", Name: "separator", Type: "String", Default: runtime.StringValue{}}),
		"sorted": {methods: []builder.Definition{
			{Build: func(c *builder.Call) (runtime.Value, error) {
				return i.sortElements(elems(c.Receiver), nil)
			}},
			{Params: []builder.Param{param("by", "by", "Function")}, Build: func(c *builder.Call) (runtime.Value, error) {
				return i.sortElements(elems(c.Receiver), c.Value("by"))
			}},
		}},
		"reversed": method(func(c *builder.Call) (runtime.Value, error) {
			e := elems(c.Receiver)
			out := make([]runtime.Value, len(e))
			for idx, el := range e {
				out[len(e)-1-idx] = el
			}
			return runtime.NewArray(out...), nil
		}),
		"enumerated": method(func(c *builder.Call) (runtime.Value, error) {
			e := elems(c.Receiver)
			out := make([]runtime.Value, len(e))
			for idx, el := range e {
				out[idx] = runtime.NewArray(runtime.IntValue{Val: int64(idx)}, el)
			}
			return runtime.NewArray(out...), nil
		}),
	}
}

func mapBuiltins() map[string]builtin {
	entries := func(v runtime.Value) []runtime.MapEntry { return v.(runtime.MapValue).Entries }
	return map[string]builtin{
		"count": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.IntValue{Val: int64(len(entries(recv)))}, nil
		}},
		"isEmpty": {property: func(recv runtime.Value) (runtime.Value, error) {
			return runtime.BoolValue{Val: len(entries(recv)) == 0}, nil
		}},
		"keys": {property: func(recv runtime.Value) (runtime.Value, error) {
			out := make([]runtime.Value, 0, len(entries(recv)))
			for _, e := range entries(recv) {
				out = append(out, e.Key)
			}
			return runtime.NewArray(out...), nil
		}},
		"values": {property: func(recv runtime.Value) (runtime.Value, error) {
			out := make([]runtime.Value, 0, len(entries(recv)))
			for _, e := range entries(recv) {
				out = append(out, e.Value)
			}
			return runtime.NewArray(out...), nil
		}},
		"removeValue": mutating(method(func(c *builder.Call) (runtime.Value, error) {
			m := c.Receiver.(runtime.MapValue)
			old, ok := m.Get(c.Value("forKey"))
			if !ok {
				return mutationResult{result: runtime.Void, receiver: m}, nil
			}
			updated, err := m.With(c.Value("forKey"), runtime.Void)
			if err != nil {
				return nil, err
			}
			return mutationResult{result: old, receiver: updated}, nil
		}, param("forKey", "forKey", "Any"))),
	}
}

func without(elements []runtime.Value, idx int) runtime.ArrayValue {
	out := make([]runtime.Value, 0, len(elements)-1)
	out = append(out, elements[:idx]...)
	out = append(out, elements[idx+1:]...)
	return runtime.NewArray(out...)
}

func indexOf(elements []runtime.Value, target runtime.Value) int {
	for idx, el := range elements {
		if runtime.Equal(el, target) {
			return idx
		}
	}
	return -1
}

// mapElements applies fn to each element. With dropVoid set, void results
// are left out.
func (i *Interpreter) mapElements(elements []runtime.Value, fn runtime.Value, dropVoid bool) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(elements))
	for _, el := range elements {
		v, err := i.Invoke(fn, []runtime.Argument{{Value: el}})
		if err != nil {
			return nil, err
		}
		if dropVoid && runtime.IsVoid(v) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// filterElements keeps the elements for which pred returns keep.
func (i *Interpreter) filterElements(elements []runtime.Value, pred runtime.Value, keep bool) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(elements))
	for _, el := range elements {
		v, err := i.Invoke(pred, []runtime.Argument{{Value: el}})
		if err != nil {
			return nil, err
		}
		ok, err := truthy(v)
		if err != nil {
			return nil, err
		}
		if ok == keep {
			out = append(out, el)
		}
	}
	return out, nil
}

// sortElements is a stable sort by Compare, or by the areInIncreasingOrder
// closure when one is given.
func (i *Interpreter) sortElements(elements []runtime.Value, less runtime.Value) (runtime.Value, error) {
	out := make([]runtime.Value, len(elements))
	copy(out, elements)
	var sortErr error
	sort.SliceStable(out, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		if less == nil {
			cmp, err := runtime.Compare(out[a], out[b])
			sortErr = err
			return cmp < 0
		}
		v, err := i.Invoke(less, []runtime.Argument{{Value: out[a]}, {Value: out[b]}})
		if err != nil {
			sortErr = err
			return false
		}
		ok, err := truthy(v)
		sortErr = err
		return ok
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return runtime.NewArray(out...), nil
}
