package interpreter

import (
	"math"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// maxRangeLength bounds eager range materialisation.
const maxRangeLength = 1 << 20

func (i *Interpreter) evaluateUnary(expr *ast.UnaryExpression, scope *runtime.Scope) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, scope)
	if err != nil {
		return nil, err
	}
	operand = unwrapBinding(operand)
	switch expr.Operator {
	case ast.UnaryNegate:
		switch v := operand.(type) {
		case runtime.IntValue:
			if v.Val == math.MinInt64 {
				return nil, overflow("-")
			}
			return runtime.IntValue{Val: -v.Val}, nil
		case runtime.DoubleValue:
			return runtime.DoubleValue{Val: -v.Val}, nil
		}
	case ast.UnaryPlus:
		if _, ok := runtime.ToFloat(operand); ok {
			return operand, nil
		}
	case ast.UnaryNot:
		if b, ok := operand.(runtime.BoolValue); ok {
			return runtime.BoolValue{Val: !b.Val}, nil
		}
	}
	return nil, runtime.Errorf(runtime.UnsupportedExpression, "Unary operator '%s' cannot be applied to %s", expr.Operator, kindName(operand))
}

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpression, scope *runtime.Scope) (runtime.Value, error) {
	switch expr.Operator {
	case "&&", "||":
		left, err := i.evaluateExpression(expr.Left, scope)
		if err != nil {
			return nil, err
		}
		l, err := truthy(left)
		if err != nil {
			return nil, err
		}
		if expr.Operator == "&&" && !l || expr.Operator == "||" && l {
			return runtime.BoolValue{Val: l}, nil
		}
		right, err := i.evaluateExpression(expr.Right, scope)
		if err != nil {
			return nil, err
		}
		r, err := truthy(right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: r}, nil
	case "??":
		left, err := i.evaluateExpression(expr.Left, scope)
		if err != nil {
			return nil, err
		}
		if left = unwrapBinding(left); !runtime.IsVoid(left) {
			return left, nil
		}
		return i.evaluateExpression(expr.Right, scope)
	}
	left, err := i.evaluateExpression(expr.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, scope)
	if err != nil {
		return nil, err
	}
	return applyBinary(expr.Operator, unwrapBinding(left), unwrapBinding(right))
}

func applyBinary(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "==", "===":
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case "!=", "!==":
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case "<", "<=", ">", ">=":
		cmp, err := runtime.Compare(left, right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "<":
			return runtime.BoolValue{Val: cmp < 0}, nil
		case "<=":
			return runtime.BoolValue{Val: cmp <= 0}, nil
		case ">":
			return runtime.BoolValue{Val: cmp > 0}, nil
		default:
			return runtime.BoolValue{Val: cmp >= 0}, nil
		}
	case "..<", "...":
		return makeRange(op, left, right)
	case "+":
		switch l := left.(type) {
		case runtime.StringValue:
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		case runtime.ArrayValue:
			if r, ok := right.(runtime.ArrayValue); ok {
				return l.With(r.Elements...), nil
			}
		}
		return arithmetic(op, left, right)
	case "-", "*", "/", "%":
		return arithmetic(op, left, right)
	}
	return nil, runtime.Errorf(runtime.UnsupportedExpression, "Unsupported operator '%s'", op)
}

// arithmetic is exact for two integers and IEEE otherwise.
func arithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if l, ok := left.(runtime.IntValue); ok {
		if r, ok := right.(runtime.IntValue); ok {
			return integerArithmetic(op, l.Val, r.Val)
		}
	}
	l, lok := runtime.ToFloat(left)
	r, rok := runtime.ToFloat(right)
	if !lok || !rok {
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Operator '%s' cannot be applied to %s and %s", op, kindName(left), kindName(right))
	}
	switch op {
	case "+":
		return runtime.DoubleValue{Val: l + r}, nil
	case "-":
		return runtime.DoubleValue{Val: l - r}, nil
	case "*":
		return runtime.DoubleValue{Val: l * r}, nil
	case "/":
		return runtime.DoubleValue{Val: l / r}, nil
	default:
		return runtime.DoubleValue{Val: math.Mod(l, r)}, nil
	}
}

func integerArithmetic(op string, l, r int64) (runtime.Value, error) {
	switch op {
	case "+":
		sum := l + r
		if (l > 0 && r > 0 && sum < 0) || (l < 0 && r < 0 && sum >= 0) {
			return nil, overflow(op)
		}
		return runtime.IntValue{Val: sum}, nil
	case "-":
		diff := l - r
		if (l >= 0 && r < 0 && diff < 0) || (l < 0 && r > 0 && diff >= 0) {
			return nil, overflow(op)
		}
		return runtime.IntValue{Val: diff}, nil
	case "*":
		if l == 0 || r == 0 {
			return runtime.IntValue{Val: 0}, nil
		}
		product := l * r
		if product/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return nil, overflow(op)
		}
		return runtime.IntValue{Val: product}, nil
	case "/":
		if r == 0 {
			return nil, runtime.Errorf(runtime.DivisionByZero, "Division by zero")
		}
		if l == math.MinInt64 && r == -1 {
			return nil, overflow(op)
		}
		return runtime.IntValue{Val: l / r}, nil
	default:
		if r == 0 {
			return nil, runtime.Errorf(runtime.DivisionByZero, "Modulo by zero")
		}
		if r == -1 {
			return runtime.IntValue{Val: 0}, nil
		}
		return runtime.IntValue{Val: l % r}, nil
	}
}

func overflow(op string) error {
	return runtime.Errorf(runtime.UnsupportedExpression, "Arithmetic overflow in '%s'", op)
}

// makeRange materialises an integer range. Inverted bounds give an empty
// array rather than an error.
func makeRange(op string, left, right runtime.Value) (runtime.Value, error) {
	lo, lok := left.(runtime.IntValue)
	hi, hok := right.(runtime.IntValue)
	if !lok || !hok {
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Range bounds must be Int, got %s and %s", kindName(left), kindName(right))
	}
	end := hi.Val
	if op == "..." {
		if end == math.MaxInt64 {
			return nil, runtime.Errorf(runtime.InvalidArgument, "Range upper bound overflows")
		}
		end++
	}
	if end <= lo.Val {
		return runtime.NewArray(), nil
	}
	if uint64(end-lo.Val) > maxRangeLength || end-lo.Val < 0 {
		return nil, runtime.Errorf(runtime.InvalidArgument, "Range %d%s%d is too large", lo.Val, op, hi.Val)
	}
	elements := make([]runtime.Value, 0, end-lo.Val)
	for n := lo.Val; n < end; n++ {
		elements = append(elements, runtime.IntValue{Val: n})
	}
	return runtime.NewArray(elements...), nil
}
