package parser

import (
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

// Precedence tiers, lowest first. Operators missing from the table bind
// like comparisons.
const (
	precLogicalOr = iota
	precLogicalAnd
	precComparison
	precNilCoalescing
	precRange
	precAdditive
	precMultiplicative
)

var binaryPrecedence = map[string]int{
	"||":  precLogicalOr,
	"&&":  precLogicalAnd,
	"==":  precComparison,
	"!=":  precComparison,
	"<":   precComparison,
	"<=":  precComparison,
	">":   precComparison,
	">=":  precComparison,
	"===": precComparison,
	"!==": precComparison,
	"~=":  precComparison,
	"??":  precNilCoalescing,
	"..<": precRange,
	"...": precRange,
	"+":   precAdditive,
	"-":   precAdditive,
	"*":   precMultiplicative,
	"/":   precMultiplicative,
	"%":   precMultiplicative,
}

var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

func precedenceOf(op string) int {
	if p, ok := binaryPrecedence[op]; ok {
		return p
	}
	return precComparison
}

type elementKind int

const (
	elementOperand elementKind = iota
	elementBinary
	elementAssignment
	elementTernary
)

type sequenceElement struct {
	node *syntax.Node
	kind elementKind
	op   string
}

func classifyElements(node *syntax.Node) []sequenceElement {
	var out []sequenceElement
	for _, child := range node.Children {
		if child == nil || child.Kind == "comment" {
			continue
		}
		text := strings.TrimSpace(child.Content())
		switch {
		case child.Kind == "assignment_operator":
			out = append(out, sequenceElement{node: child, kind: elementAssignment, op: text})
		case child.Kind == "ternary_operator":
			out = append(out, sequenceElement{node: child, kind: elementTernary})
		case child.Kind == "binary_operator":
			out = append(out, sequenceElement{node: child, kind: elementBinary, op: text})
		case child.Token && assignmentOperators[text]:
			out = append(out, sequenceElement{node: child, kind: elementAssignment, op: text})
		case child.Token && isOperatorText(text):
			out = append(out, sequenceElement{node: child, kind: elementBinary, op: text})
		case child.Token:
			// Punctuation such as parentheses carries no meaning here.
		default:
			out = append(out, sequenceElement{node: child, kind: elementOperand})
		}
	}
	return out
}

func isOperatorText(text string) bool {
	_, ok := binaryPrecedence[text]
	return ok
}

// lowerAssignmentSequence splits `target = value` and desugars compound
// assignments. The assignment token must sit strictly inside the sequence.
func (l *lowerer) lowerAssignmentSequence(node *syntax.Node) (ast.Statement, bool) {
	elements := classifyElements(node)
	for i, el := range elements {
		if el.kind != elementAssignment {
			continue
		}
		if i == 0 || i == len(elements)-1 {
			return nil, false
		}
		target := l.resolveSequence(node, elements[:i])
		value := l.resolveSequence(node, elements[i+1:])
		return assignment(el.op, target, value), true
	}
	return nil, false
}

func (l *lowerer) lowerSequence(node *syntax.Node) ast.Expression {
	elements := classifyElements(node)
	for _, el := range elements {
		if el.kind == elementAssignment {
			// Assignments are statements; one nested in an expression
			// cannot be evaluated for a value.
			return l.unknown(node)
		}
	}
	return l.resolveSequence(node, elements)
}

// resolveSequence reduces operand/operator elements. A ternary splits the
// sequence first (lowest precedence, right associative); the remainder is
// folded by precedence climbing with an operand stack and an operator
// stack, popping while the incoming operator binds no tighter than the
// top so equal tiers associate left.
func (l *lowerer) resolveSequence(parent *syntax.Node, elements []sequenceElement) ast.Expression {
	if len(elements) == 0 {
		return l.unknown(parent)
	}
	for i, el := range elements {
		if el.kind != elementTernary {
			continue
		}
		if i == 0 || i == len(elements)-1 {
			return l.unknown(parent)
		}
		condition := l.resolveSequence(parent, elements[:i])
		then := l.lowerExpression(fieldOrFirst(el.node, "then"))
		otherwise := l.resolveSequence(parent, elements[i+1:])
		return ast.NewTernaryExpression(condition, then, otherwise)
	}
	if len(elements) == 1 {
		if elements[0].kind != elementOperand {
			return l.unknown(parent)
		}
		return l.lowerExpression(elements[0].node)
	}

	var (
		operands  []ast.Expression
		operators []string
	)
	fold := func() {
		n := len(operands)
		op := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		folded := ast.NewBinaryExpression(op, operands[n-2], operands[n-1])
		ast.SetSpan(folded, ast.Span{Start: operands[n-2].Span().Start, End: operands[n-1].Span().End})
		operands = append(operands[:n-2], folded)
	}
	expectOperand := true
	for _, el := range elements {
		if expectOperand != (el.kind == elementOperand) {
			// Dangling or doubled operator, or adjacent operands.
			return l.unknown(parent)
		}
		if el.kind == elementOperand {
			operands = append(operands, l.lowerExpression(el.node))
			expectOperand = false
			continue
		}
		for len(operators) > 0 && precedenceOf(operators[len(operators)-1]) >= precedenceOf(el.op) {
			fold()
		}
		operators = append(operators, el.op)
		expectOperand = true
	}
	if expectOperand {
		return l.unknown(parent)
	}
	for len(operators) > 0 {
		fold()
	}
	return operands[0]
}
