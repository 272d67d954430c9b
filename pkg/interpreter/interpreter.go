// Package interpreter evaluates lowered modules against a scope chain and
// turns view definitions into host nodes through a builder registry.
package interpreter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/builder"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// Interpreter drives evaluation of lowered modules.
type Interpreter struct {
	module   *runtime.Scope
	registry *builder.Registry
	logger   *slog.Logger
	// builders caches the type values standing in for registry builders.
	builders map[string]*runtime.TypeValue
	natives  map[string][]builder.Definition
	builtins map[runtime.Kind]map[string]builtin

	render *renderPass
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithRegistry installs the host builder registry.
func WithRegistry(registry *builder.Registry) Option {
	return func(i *Interpreter) { i.registry = registry }
}

// WithLogger routes evaluation diagnostics and `print` output to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// New returns an interpreter with the built-in types and functions defined
// in a fresh module scope.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		module:   runtime.NewModuleScope(),
		builders: make(map[string]*runtime.TypeValue),
		natives:  make(map[string][]builder.Definition),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if i.registry == nil {
		i.registry = builder.NewRegistry()
	}
	i.installNatives()
	i.builtins = i.builtinTables()
	return i
}

// ModuleScope returns the interpreter's root scope.
func (i *Interpreter) ModuleScope() *runtime.Scope {
	return i.module
}

// Registry returns the builder registry calls fall back to.
func (i *Interpreter) Registry() *builder.Registry {
	return i.registry
}

// EvaluateModule executes a module's statements in the module scope and
// returns the values they collected.
func (i *Interpreter) EvaluateModule(module *ast.Module) ([]runtime.Value, error) {
	if module == nil {
		return nil, fmt.Errorf("interpreter: nil module")
	}
	out := &collector{}
	if err := i.executeStatements(module.Body, i.module, out); err != nil {
		if _, ok := err.(returnSignal); !ok {
			return nil, err
		}
	}
	return out.values, nil
}

// Evaluate evaluates a single expression in the module scope.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	return i.evaluateExpression(expr, i.module)
}

// Invoke calls fn with evaluated arguments. It implements runtime.Invoker,
// which is how builders run closures such as button actions.
func (i *Interpreter) Invoke(fn runtime.Value, args []runtime.Argument) (runtime.Value, error) {
	result, err := i.callValue(fn, args, i.module)
	if err != nil {
		return nil, err
	}
	return settle(result), nil
}

// Collect calls fn and returns every value its body produced, with child
// views expanded into host values and nested arrays flattened.
func (i *Interpreter) Collect(fn runtime.Value, args []runtime.Argument) ([]runtime.Value, error) {
	var raw []runtime.Value
	if closure, ok := fn.(*runtime.FunctionValue); ok {
		values, _, err := i.invokeFunction(closure, args, i.module)
		if err != nil {
			return nil, err
		}
		raw = values
	} else {
		result, err := i.Invoke(fn, args)
		if err != nil {
			return nil, err
		}
		if !runtime.IsVoid(result) {
			raw = []runtime.Value{result}
		}
	}
	out := make([]runtime.Value, 0, len(raw))
	for _, v := range raw {
		expanded, err := i.materialize(v, 0)
		if err != nil {
			return nil, err
		}
		if arr, ok := expanded.(runtime.ArrayValue); ok {
			out = append(out, arr.Elements...)
			continue
		}
		out = append(out, expanded)
	}
	return out, nil
}

// collector accumulates the non-void values statements produce.
type collector struct {
	values []runtime.Value
}

func (c *collector) add(v runtime.Value) {
	if c == nil || runtime.IsVoid(v) {
		return
	}
	c.values = append(c.values, v)
}

// returnSignal unwinds to the enclosing function call.
type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return outside function"
}

func (i *Interpreter) builderType(name string) (*runtime.TypeValue, bool) {
	if !i.registry.HasValue(name) {
		return nil, false
	}
	if t, ok := i.builders[name]; ok {
		return t, true
	}
	t := &runtime.TypeValue{Name: name, Flavor: runtime.TypeBuilder}
	i.builders[name] = t
	return t, true
}

func (i *Interpreter) builderContext(scope *runtime.Scope) builder.Context {
	return builder.Context{Scope: scope, Invoker: i}
}
