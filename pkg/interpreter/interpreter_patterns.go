package interpreter

import (
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// matchPattern tests subject against pattern, defining any bound names in
// scope when it matches.
func (i *Interpreter) matchPattern(pattern *ast.CasePattern, subject runtime.Value, scope *runtime.Scope) (bool, error) {
	switch pattern.Kind {
	case ast.PatternWildcard:
		return true, nil
	case ast.PatternBind:
		if pattern.Name != "" && pattern.Name != "_" {
			scope.Define(pattern.Name, subject)
		}
		return true, nil
	case ast.PatternOptional:
		if runtime.IsVoid(subject) {
			return false, nil
		}
		if pattern.Name != "" && pattern.Name != "_" {
			scope.Define(pattern.Name, subject)
		}
		return true, nil
	case ast.PatternEnumCase:
		return matchEnumCase(pattern, subject, scope), nil
	case ast.PatternValue:
		return i.matchValue(pattern.Value, subject, scope)
	default:
		return false, runtime.Errorf(runtime.UnsupportedExpression, "Unsupported pattern kind '%s'", pattern.Kind)
	}
}

func matchEnumCase(pattern *ast.CasePattern, subject runtime.Value, scope *runtime.Scope) bool {
	bind := func(idx int, v runtime.Value) {
		if idx < len(pattern.Bindings) {
			if name := pattern.Bindings[idx]; name != "" && name != "_" {
				scope.Define(name, v)
			}
		}
	}
	// Optionals are plain values here: `.none` is void and `.some` is
	// anything else.
	switch pattern.Name {
	case "none":
		if runtime.IsVoid(subject) {
			return true
		}
	case "some":
		if !runtime.IsVoid(subject) {
			bind(0, subject)
			return true
		}
	}
	c, ok := subject.(runtime.EnumCaseValue)
	if !ok || c.Case != pattern.Name {
		return false
	}
	for idx, v := range c.Associated {
		bind(idx, v)
	}
	return true
}

func (i *Interpreter) matchValue(expr ast.Expression, subject runtime.Value, scope *runtime.Scope) (bool, error) {
	if bin, ok := expr.(*ast.BinaryExpression); ok && (bin.Operator == "..<" || bin.Operator == "...") {
		return i.rangeContains(bin, subject, scope)
	}
	val, err := i.evaluateExpression(expr, scope)
	if err != nil {
		return false, err
	}
	val = unwrapBinding(val)
	if pat, ok := val.(runtime.EnumCaseValue); ok && len(pat.Associated) == 0 {
		sub, ok := subject.(runtime.EnumCaseValue)
		return ok && sub.Case == pat.Case, nil
	}
	return runtime.Equal(val, subject), nil
}

// rangeContains checks bounds directly instead of materialising the range.
func (i *Interpreter) rangeContains(bin *ast.BinaryExpression, subject runtime.Value, scope *runtime.Scope) (bool, error) {
	lo, err := i.evaluateExpression(bin.Left, scope)
	if err != nil {
		return false, err
	}
	hi, err := i.evaluateExpression(bin.Right, scope)
	if err != nil {
		return false, err
	}
	if _, ok := runtime.ToFloat(subject); !ok {
		if _, isString := subject.(runtime.StringValue); !isString {
			return false, nil
		}
	}
	lower, err := runtime.Compare(subject, unwrapBinding(lo))
	if err != nil {
		return false, nil
	}
	upper, err := runtime.Compare(subject, unwrapBinding(hi))
	if err != nil {
		return false, nil
	}
	if bin.Operator == "..<" {
		return lower >= 0 && upper < 0, nil
	}
	return lower >= 0 && upper <= 0, nil
}
