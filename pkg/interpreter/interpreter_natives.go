package interpreter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/builder"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func (i *Interpreter) installNatives() {
	integer := i.defineNative("Int", i.intConstructors())
	integer.Statics.Define("max", runtime.IntValue{Val: math.MaxInt64})
	integer.Statics.Define("min", runtime.IntValue{Val: math.MinInt64})

	for _, name := range []string{"Double", "Float", "CGFloat"} {
		t := i.defineNative(name, doubleConstructors())
		t.Statics.Define("pi", runtime.DoubleValue{Val: math.Pi})
		t.Statics.Define("infinity", runtime.DoubleValue{Val: math.Inf(1)})
		t.Statics.Define("nan", runtime.DoubleValue{Val: math.NaN()})
		t.Statics.Define("greatestFiniteMagnitude", runtime.DoubleValue{Val: math.MaxFloat64})
	}
	i.defineNative("String", i.stringConstructors())
	i.defineNative("Bool", boolConstructors())
	i.defineNative("UUID", uuidConstructors())
	i.defineNative("Date", dateConstructors())
	i.defineNative("Array", arrayConstructors())
	i.defineNative("Dictionary", dictionaryConstructors())

	i.defineFunction("print", i.nativePrint)
	i.defineFunction("min", extremum("min", -1))
	i.defineFunction("max", extremum("max", 1))
	i.defineFunction("abs", nativeAbs)
	i.defineFunction("withAnimation", invokeLastClosure)
}

func (i *Interpreter) defineNative(name string, defs []builder.Definition) *runtime.TypeValue {
	t := &runtime.TypeValue{Name: name, Flavor: runtime.TypeNative}
	t.Statics = runtime.NewScope(runtime.ScopeType, i.module)
	t.Statics.SetOwner(t)
	i.natives[name] = defs
	i.module.Define(name, t)
	return t
}

func (i *Interpreter) defineFunction(name string, impl func(ctx *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error)) {
	i.module.Define(name, runtime.NativeFunctionValue{Name: name, Impl: impl})
}

func param(label, name, typeName string) builder.Param {
	return builder.Param{Label: label, Name: name, Type: typeName}
}

func (i *Interpreter) intConstructors() []builder.Definition {
	return []builder.Definition{
		{Params: []builder.Param{param("", "value", "Int")}, Build: func(c *builder.Call) (runtime.Value, error) {
			return c.Value("value"), nil
		}},
		{Params: []builder.Param{param("", "value", "Double")}, Build: func(c *builder.Call) (runtime.Value, error) {
			f, err := c.Double("value")
			if err != nil {
				return nil, err
			}
			return runtime.IntValue{Val: runtime.TruncateDouble(f)}, nil
		}},
		{Params: []builder.Param{param("", "value", "String")}, Build: func(c *builder.Call) (runtime.Value, error) {
			s, err := c.String("value")
			if err != nil {
				return nil, err
			}
			n, perr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if perr != nil {
				return runtime.Void, nil
			}
			return runtime.IntValue{Val: n}, nil
		}},
		{Params: []builder.Param{param("", "value", "Bool")}, Build: func(c *builder.Call) (runtime.Value, error) {
			b, err := c.Bool("value")
			if err != nil {
				return nil, err
			}
			if b {
				return runtime.IntValue{Val: 1}, nil
			}
			return runtime.IntValue{Val: 0}, nil
		}},
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.IntValue{Val: 0}, nil
		}},
	}
}

func doubleConstructors() []builder.Definition {
	return []builder.Definition{
		{Params: []builder.Param{param("", "value", "Double")}, Build: func(c *builder.Call) (runtime.Value, error) {
			return c.Value("value"), nil
		}},
		{Params: []builder.Param{param("", "value", "String")}, Build: func(c *builder.Call) (runtime.Value, error) {
			s, err := c.String("value")
			if err != nil {
				return nil, err
			}
			f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if perr != nil {
				return runtime.Void, nil
			}
			return runtime.DoubleValue{Val: f}, nil
		}},
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.DoubleValue{Val: 0}, nil
		}},
	}
}

func (i *Interpreter) stringConstructors() []builder.Definition {
	describe := func(c *builder.Call) (runtime.Value, error) {
		s, err := i.stringify(c.Value("value"))
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: s}, nil
	}
	return []builder.Definition{
		{Params: []builder.Param{param("", "value", "Any")}, Build: describe},
		{Params: []builder.Param{param("describing", "value", "Any")}, Build: describe},
		{Params: []builder.Param{param("repeating", "repeating", "String"), param("count", "count", "Int")}, Build: func(c *builder.Call) (runtime.Value, error) {
			s, err := c.String("repeating")
			if err != nil {
				return nil, err
			}
			n, err := c.Int("count")
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, runtime.Errorf(runtime.InvalidArgument, "Negative repeat count %d", n)
			}
			return runtime.StringValue{Val: strings.Repeat(s, int(n))}, nil
		}},
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.StringValue{}, nil
		}},
	}
}

func boolConstructors() []builder.Definition {
	return []builder.Definition{
		{Params: []builder.Param{param("", "value", "Bool")}, Build: func(c *builder.Call) (runtime.Value, error) {
			return c.Value("value"), nil
		}},
		{Params: []builder.Param{param("", "value", "String")}, Build: func(c *builder.Call) (runtime.Value, error) {
			s, err := c.String("value")
			if err != nil {
				return nil, err
			}
			switch s {
			case "true":
				return runtime.BoolValue{Val: true}, nil
			case "false":
				return runtime.BoolValue{Val: false}, nil
			}
			return runtime.Void, nil
		}},
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.BoolValue{}, nil
		}},
	}
}

func uuidConstructors() []builder.Definition {
	return []builder.Definition{
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.UUIDValue{Val: uuid.New()}, nil
		}},
		{Params: []builder.Param{param("uuidString", "uuidString", "String")}, Build: func(c *builder.Call) (runtime.Value, error) {
			s, err := c.String("uuidString")
			if err != nil {
				return nil, err
			}
			id, perr := uuid.Parse(s)
			if perr != nil {
				return runtime.Void, nil
			}
			return runtime.UUIDValue{Val: id}, nil
		}},
	}
}

func dateConstructors() []builder.Definition {
	return []builder.Definition{
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.DateValue{Val: time.Now()}, nil
		}},
		{Params: []builder.Param{param("timeIntervalSince1970", "interval", "Double")}, Build: func(c *builder.Call) (runtime.Value, error) {
			f, err := c.Double("interval")
			if err != nil {
				return nil, err
			}
			sec, frac := math.Modf(f)
			return runtime.DateValue{Val: time.Unix(int64(sec), int64(frac*1e9)).UTC()}, nil
		}},
	}
}

func arrayConstructors() []builder.Definition {
	return []builder.Definition{
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.NewArray(), nil
		}},
		{Params: []builder.Param{param("", "sequence", "Any")}, Build: func(c *builder.Call) (runtime.Value, error) {
			items, err := iterate(unwrapBinding(c.Value("sequence")))
			if err != nil {
				return nil, err
			}
			return runtime.NewArray(append([]runtime.Value(nil), items...)...), nil
		}},
		{Params: []builder.Param{param("repeating", "repeating", "Any"), param("count", "count", "Int")}, Build: func(c *builder.Call) (runtime.Value, error) {
			n, err := c.Int("count")
			if err != nil {
				return nil, err
			}
			if n < 0 || n > maxRangeLength {
				return nil, runtime.Errorf(runtime.InvalidArgument, "Invalid repeat count %d", n)
			}
			out := make([]runtime.Value, n)
			for idx := range out {
				out[idx] = c.Value("repeating")
			}
			return runtime.NewArray(out...), nil
		}},
	}
}

func dictionaryConstructors() []builder.Definition {
	return []builder.Definition{
		{Build: func(*builder.Call) (runtime.Value, error) {
			return runtime.NewMap(), nil
		}},
		{Params: []builder.Param{param("uniqueKeysWithValues", "pairs", "Array")}, Build: func(c *builder.Call) (runtime.Value, error) {
			pairs := c.Value("pairs").(runtime.ArrayValue)
			out := runtime.NewMap()
			for _, p := range pairs.Elements {
				pair, ok := p.(runtime.ArrayValue)
				if !ok || len(pair.Elements) != 2 {
					return nil, runtime.Errorf(runtime.InvalidArgument, "Expected (key, value) pairs, got %s", kindName(p))
				}
				if _, exists := out.Get(pair.Elements[0]); exists {
					return nil, runtime.Errorf(runtime.InvalidArgument, "Duplicate key %s", runtime.DebugDescribe(pair.Elements[0]))
				}
				var err error
				if out, err = out.With(pair.Elements[0], pair.Elements[1]); err != nil {
					return nil, err
				}
			}
			return out, nil
		}},
	}
}

func (i *Interpreter) nativePrint(_ *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
	separator := " "
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg.Label {
		case "separator":
			if s, ok := arg.Value.(runtime.StringValue); ok {
				separator = s.Val
			}
			continue
		case "terminator":
			continue
		}
		s, err := i.stringify(arg.Value)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	i.logger.Info("print", "message", strings.Join(parts, separator))
	return runtime.Void, nil
}

// extremum builds min/max over two or more comparable arguments.
func extremum(name string, sign int) func(*runtime.NativeCallContext, []runtime.Argument) (runtime.Value, error) {
	return func(_ *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
		if len(args) < 2 {
			return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "'%s' expects at least two arguments, got %d", name, len(args))
		}
		best := unwrapBinding(args[0].Value)
		for _, arg := range args[1:] {
			v := unwrapBinding(arg.Value)
			cmp, err := runtime.Compare(v, best)
			if err != nil {
				return nil, err
			}
			if cmp*sign > 0 {
				best = v
			}
		}
		return best, nil
	}
}

func nativeAbs(_ *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "'abs' expects one argument, got %d", len(args))
	}
	switch v := unwrapBinding(args[0].Value).(type) {
	case runtime.IntValue:
		if v.Val == math.MinInt64 {
			return nil, overflow("abs")
		}
		if v.Val < 0 {
			return runtime.IntValue{Val: -v.Val}, nil
		}
		return v, nil
	case runtime.DoubleValue:
		return runtime.DoubleValue{Val: math.Abs(v.Val)}, nil
	default:
		return nil, runtime.Errorf(runtime.InvalidArgument, "'abs' expects a number, got %s", kindName(v))
	}
}

// invokeLastClosure runs the trailing closure; animation arguments are
// accepted and ignored.
func invokeLastClosure(ctx *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "Missing closure argument")
	}
	return ctx.Invoker.Invoke(args[len(args)-1].Value, nil)
}
