// Package arguments matches call-site arguments to declared parameters.
package arguments

import (
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// UseDefault marks a parameter that takes its default value.
const UseDefault = -1

// Param describes one declared parameter. An empty Label means the
// parameter is called without one (`_ name`).
type Param struct {
	Label      string
	Name       string
	HasDefault bool
}

// Arg describes one call-site argument. IsFunction marks closures, which
// may fill labelled parameters positionally (trailing-closure syntax).
type Arg struct {
	Label      string
	IsFunction bool
}

// accepts matches an argument label against the external label, or the
// internal name when the parameter has no external label.
func (p Param) accepts(label string) bool {
	if label == "" {
		return false
	}
	if p.Label != "" {
		return label == p.Label
	}
	return label == p.Name
}

func (p Param) displayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// Resolve returns, for each parameter, the index of the argument bound to
// it or UseDefault.
//
// A parameter first takes the earliest unconsumed argument whose label
// matches its external label, or its name when it has none. Failing that it takes the next unconsumed
// unlabelled argument, provided it has no label, has no default, or the
// argument is a function that no later parameter requires. Otherwise it
// falls back to its default.
func Resolve(params []Param, args []Arg) ([]int, error) {
	consumed := make([]bool, len(args))
	slots := make([]int, len(params))
	cursor := 0

	for pi, param := range params {
		slots[pi] = UseDefault

		if idx := findLabelled(param, args, consumed); idx >= 0 {
			consumed[idx] = true
			slots[pi] = idx
			continue
		}

		for cursor < len(args) && (consumed[cursor] || args[cursor].Label != "") {
			cursor++
		}
		if cursor < len(args) {
			arg := args[cursor]
			if param.Label == "" || !param.HasDefault || arg.IsFunction && !laterRequired(params[pi+1:]) {
				consumed[cursor] = true
				slots[pi] = cursor
				cursor++
				continue
			}
		}

		if !param.HasDefault {
			return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "Missing argument for parameter '%s'", param.displayName())
		}
	}

	for i, arg := range args {
		if consumed[i] {
			continue
		}
		if arg.Label != "" {
			return nil, runtime.Errorf(runtime.InvalidArgument, "Incorrect argument label '%s'", arg.Label)
		}
		return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "Extra argument at position %d", i+1)
	}
	return slots, nil
}

// laterRequired reports whether some remaining parameter still needs a
// positional argument.
func laterRequired(rest []Param) bool {
	for _, p := range rest {
		if p.Label == "" || !p.HasDefault {
			return true
		}
	}
	return false
}

func findLabelled(param Param, args []Arg, consumed []bool) int {
	for i, arg := range args {
		if !consumed[i] && param.accepts(arg.Label) {
			return i
		}
	}
	return -1
}

// FromValues describes evaluated arguments.
func FromValues(values []runtime.Argument) []Arg {
	out := make([]Arg, len(values))
	for i, v := range values {
		out[i] = Arg{Label: v.Label, IsFunction: isFunction(v.Value)}
	}
	return out
}

func isFunction(v runtime.Value) bool {
	switch v.(type) {
	case *runtime.FunctionValue, runtime.NativeFunctionValue:
		return true
	default:
		return false
	}
}
