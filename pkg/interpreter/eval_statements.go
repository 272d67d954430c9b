package interpreter

import (
	"github.com/rivo/uniseg"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func (i *Interpreter) executeStatements(stmts []ast.Statement, scope *runtime.Scope, out *collector) error {
	for _, stmt := range stmts {
		if err := i.executeStatement(stmt, scope, out); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeStatement(node ast.Statement, scope *runtime.Scope, out *collector) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		val, err := i.evaluateExpression(n.Expression, scope)
		if err != nil {
			return err
		}
		out.add(val)
		return nil
	case *ast.Binding:
		return i.executeBinding(n, scope)
	case *ast.IfStatement:
		return i.executeIf(n, scope, out)
	case *ast.SwitchStatement:
		return i.executeSwitch(n, scope, out)
	case *ast.ForInStatement:
		return i.executeForIn(n, scope, out)
	case *ast.AssignmentStatement:
		return i.executeAssignment(n, scope)
	case *ast.ReturnStatement:
		var val runtime.Value = runtime.Void
		if n.Value != nil {
			v, err := i.evaluateExpression(n.Value, scope)
			if err != nil {
				return err
			}
			val = v
		}
		out.add(val)
		return returnSignal{value: val}
	case *ast.UnhandledStatement:
		return runtime.Errorf(runtime.UnsupportedExpression, "Unsupported statement '%s': %s", n.Kind, n.Text)
	case nil:
		return nil
	default:
		return runtime.Errorf(runtime.UnsupportedExpression, "Unsupported statement type %s", n.NodeType())
	}
}

func (i *Interpreter) executeBinding(b *ast.Binding, scope *runtime.Scope) error {
	if def, ok := b.Definition(); ok {
		_, err := i.registerDefinition(def, scope)
		return err
	}
	if fn, ok := b.Function(); ok {
		scope.Define(b.Name, &runtime.FunctionValue{Declaration: fn, Closure: scope})
		return nil
	}
	var val runtime.Value = runtime.Void
	if b.Initializer != nil {
		v, err := i.evaluateExpression(b.Initializer, scope)
		if err != nil {
			return err
		}
		val = runtime.CoerceToAnnotation(b.TypeAnnotation, v)
	}
	scope.Define(b.Name, val)
	return nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, scope *runtime.Scope, out *collector) error {
	inner := scope.Child()
	for _, cond := range stmt.Conditions {
		ok, err := i.evaluateCondition(cond, inner)
		if err != nil {
			return err
		}
		if !ok {
			if len(stmt.Else) == 0 {
				return nil
			}
			return i.executeStatements(stmt.Else, scope.Child(), out)
		}
	}
	return i.executeStatements(stmt.Body, inner, out)
}

func (i *Interpreter) evaluateCondition(cond *ast.Condition, scope *runtime.Scope) (bool, error) {
	val, err := i.evaluateExpression(cond.Expression, scope)
	if err != nil {
		return false, err
	}
	if cond.IsOptionalBinding() {
		val = unwrapBinding(val)
		if runtime.IsVoid(val) {
			return false, nil
		}
		scope.Define(cond.Binding, val)
		return true, nil
	}
	return truthy(val)
}

func truthy(val runtime.Value) (bool, error) {
	b, ok := unwrapBinding(val).(runtime.BoolValue)
	if !ok {
		return false, runtime.Errorf(runtime.UnsupportedExpression, "Condition must be Bool, got %s", kindName(val))
	}
	return b.Val, nil
}

func (i *Interpreter) executeSwitch(stmt *ast.SwitchStatement, scope *runtime.Scope, out *collector) error {
	subject, err := i.evaluateExpression(stmt.Subject, scope)
	if err != nil {
		return err
	}
	subject = unwrapBinding(subject)
	var fallback *ast.SwitchCase
	for _, c := range stmt.Cases {
		if c.IsDefault {
			if fallback == nil {
				fallback = c
			}
			continue
		}
		caseScope := scope.Child()
		matched, err := i.matchCase(c, subject, caseScope)
		if err != nil {
			return err
		}
		if matched {
			return i.executeStatements(c.Body, caseScope, out)
		}
	}
	if fallback != nil {
		return i.executeStatements(fallback.Body, scope.Child(), out)
	}
	return nil
}

func (i *Interpreter) matchCase(c *ast.SwitchCase, subject runtime.Value, scope *runtime.Scope) (bool, error) {
	for _, pattern := range c.Patterns {
		ok, err := i.matchPattern(pattern, subject, scope)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if c.Guard == nil {
			return true, nil
		}
		guard, err := i.evaluateExpression(c.Guard, scope)
		if err != nil {
			return false, err
		}
		pass, err := truthy(guard)
		if err != nil {
			return false, err
		}
		if pass {
			return true, nil
		}
	}
	return false, nil
}

func (i *Interpreter) executeForIn(loop *ast.ForInStatement, scope *runtime.Scope, out *collector) error {
	seq, err := i.evaluateExpression(loop.Sequence, scope)
	if err != nil {
		return err
	}
	items, err := iterate(unwrapBinding(seq))
	if err != nil {
		return err
	}
	for _, item := range items {
		iter := scope.Child()
		if loop.Variable != "" && loop.Variable != "_" {
			iter.Define(loop.Variable, item)
		}
		if err := i.executeStatements(loop.Body, iter, out); err != nil {
			return err
		}
	}
	return nil
}

// iterate lists the elements a for-in loop visits. Maps yield
// [key, value] pairs and strings yield grapheme clusters.
func iterate(seq runtime.Value) ([]runtime.Value, error) {
	switch s := seq.(type) {
	case runtime.ArrayValue:
		return s.Elements, nil
	case runtime.MapValue:
		out := make([]runtime.Value, 0, s.Len())
		for _, entry := range s.Entries {
			out = append(out, runtime.NewArray(entry.Key, entry.Value))
		}
		return out, nil
	case runtime.StringValue:
		var out []runtime.Value
		g := uniseg.NewGraphemes(s.Val)
		for g.Next() {
			out = append(out, runtime.StringValue{Val: g.Str()})
		}
		return out, nil
	case runtime.VoidValue:
		return nil, nil
	default:
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Cannot iterate over %s", kindName(seq))
	}
}

func kindName(v runtime.Value) string {
	if v == nil {
		return runtime.KindVoid.String()
	}
	if inst, ok := v.(*runtime.InstanceValue); ok && inst.Type != nil {
		return inst.Type.Name
	}
	return v.Kind().String()
}
