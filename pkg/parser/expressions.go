package parser

import (
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

var expressionKinds = map[string]bool{
	"identifier":                   true,
	"self_expression":              true,
	"integer_literal":              true,
	"float_literal":                true,
	"boolean_literal":              true,
	"nil_literal":                  true,
	"string_literal":               true,
	"array_literal":                true,
	"dictionary_literal":           true,
	"key_path_expression":          true,
	"prefix_expression":            true,
	"sequence_expression":          true,
	"infix_expression":             true,
	"ternary_expression":           true,
	"member_access_expression":     true,
	"call_expression":              true,
	"subscript_expression":         true,
	"closure_expression":           true,
	"tuple_expression":             true,
	"parenthesized_expression":     true,
	"force_unwrap_expression":      true,
	"optional_chaining_expression": true,
	"binding_reference":            true,
}

func isExpressionKind(kind string) bool {
	return expressionKinds[kind]
}

func (l *lowerer) lowerExpression(node *syntax.Node) ast.Expression {
	if node == nil {
		return ast.NewUnknown("missing", "")
	}
	return annotateExpression(l.lowerExpressionKind(node), node)
}

func (l *lowerer) lowerExpressionKind(node *syntax.Node) ast.Expression {
	switch node.Kind {
	case "identifier", "simple_identifier", "type_identifier":
		return identifierExpression(strings.TrimSpace(node.Content()))
	case "self_expression":
		return ast.NewIdentifier("self")
	case "integer_literal":
		if n, ok := parseIntegerText(node.Content()); ok {
			return ast.NewIntegerLiteral(n)
		}
		return l.unknown(node)
	case "float_literal":
		if f, ok := parseFloatText(node.Content()); ok {
			return ast.NewDoubleLiteral(f)
		}
		return l.unknown(node)
	case "boolean_literal":
		return ast.NewBooleanLiteral(strings.TrimSpace(node.Content()) == "true")
	case "nil_literal":
		return ast.NewNilLiteral()
	case "string_literal":
		return l.lowerStringLiteral(node)
	case "array_literal":
		elements := make([]ast.Expression, 0, len(node.Named()))
		for _, child := range node.Named() {
			elements = append(elements, l.lowerExpression(child))
		}
		return ast.NewArrayLiteral(elements)
	case "dictionary_literal":
		return l.lowerDictionary(node)
	case "key_path_expression":
		return l.lowerKeyPath(node)
	case "prefix_expression":
		return l.lowerPrefix(node)
	case "sequence_expression":
		return l.lowerSequence(node)
	case "infix_expression":
		op := strings.TrimSpace(node.ChildByField("operator").Content())
		return ast.NewBinaryExpression(op, l.lowerExpression(node.ChildByField("left")), l.lowerExpression(node.ChildByField("right")))
	case "ternary_expression":
		return ast.NewTernaryExpression(
			l.lowerExpression(node.ChildByField("condition")),
			l.lowerExpression(node.ChildByField("then")),
			l.lowerExpression(node.ChildByField("else")),
		)
	case "member_access_expression":
		return l.lowerMemberAccess(node)
	case "call_expression":
		return l.lowerCall(node)
	case "subscript_expression":
		base := l.lowerExpression(fieldOrFirst(node, "base", "argument"))
		return ast.NewSubscript(base, l.lowerArguments(node))
	case "closure_expression":
		return ast.NewFunctionLiteral(l.lowerClosure(node))
	case "tuple_expression", "parenthesized_expression":
		return l.lowerTuple(node)
	case "force_unwrap_expression", "optional_chaining_expression":
		operand := l.lowerExpression(fieldOrFirst(node, "operand"))
		return ast.NewForceUnwrap(operand, node.Kind == "optional_chaining_expression")
	case "binding_reference":
		name := identifierText(node.ChildByField("name"))
		if name == "" {
			name = strings.TrimPrefix(strings.TrimSpace(node.Content()), "$")
		}
		return ast.NewBindingReference(name)
	case "if_statement", "switch_statement":
		// Statement-expressions evaluate through an immediately invoked
		// closure so their branch value becomes the result.
		stmt := l.lowerStatement(node)
		fn := ast.NewFunction("", nil, "", []ast.Statement{stmt})
		return ast.NewCall(ast.NewFunctionLiteral(fn), nil)
	}
	return l.unknown(node)
}

// identifierExpression maps `$name` onto a binding reference while
// leaving closure shorthand parameters (`$0`) as identifiers.
func identifierExpression(name string) ast.Expression {
	if strings.HasPrefix(name, "$") && len(name) > 1 && (name[1] < '0' || name[1] > '9') {
		return ast.NewBindingReference(name[1:])
	}
	return ast.NewIdentifier(name)
}

func (l *lowerer) lowerStringLiteral(node *syntax.Node) ast.Expression {
	named := node.Named()
	if len(named) == 0 {
		return ast.NewStringLiteral(unescapeSegment(trimQuotes(node.Content())))
	}
	var (
		parts       []ast.Expression
		buf         strings.Builder
		interpolate bool
	)
	flush := func() {
		if buf.Len() > 0 {
			parts = append(parts, ast.NewStringLiteral(buf.String()))
			buf.Reset()
		}
	}
	for _, child := range named {
		switch child.Kind {
		case "string_segment", "line_str_text", "multi_line_str_text":
			buf.WriteString(unescapeSegment(child.Content()))
		case "escape_sequence", "str_escaped_char":
			buf.WriteString(unescapeSegment(child.Content()))
		case "interpolation", "interpolated_expression":
			flush()
			interpolate = true
			inner := fieldOrFirst(child, "value")
			parts = append(parts, l.lowerExpression(inner))
		default:
			flush()
			interpolate = true
			parts = append(parts, l.lowerExpression(child))
		}
	}
	if !interpolate {
		return ast.NewStringLiteral(buf.String())
	}
	flush()
	return ast.NewStringInterpolation(parts)
}

func (l *lowerer) lowerDictionary(node *syntax.Node) ast.Expression {
	var entries []ast.DictionaryEntry
	for _, child := range node.Named() {
		if child.Kind != "dictionary_element" {
			continue
		}
		key := child.ChildByField("key")
		value := child.ChildByField("value")
		if key == nil || value == nil {
			named := child.Named()
			if len(named) != 2 {
				return l.unknown(node)
			}
			key, value = named[0], named[1]
		}
		entries = append(entries, ast.DictionaryEntry{Key: l.lowerExpression(key), Value: l.lowerExpression(value)})
	}
	return ast.NewDictionaryLiteral(entries)
}

func (l *lowerer) lowerPrefix(node *syntax.Node) ast.Expression {
	opNode := node.ChildByField("operator")
	op := strings.TrimSpace(opNode.Content())
	if opNode == nil {
		for _, child := range node.Children {
			if child.Token {
				op = strings.TrimSpace(child.Text)
				break
			}
		}
	}
	operandNode := node.ChildByField("operand")
	if operandNode == nil {
		named := node.Named()
		if len(named) > 0 {
			operandNode = named[len(named)-1]
		}
	}
	if operandNode == nil {
		return l.unknown(node)
	}
	switch op {
	case "-":
		// Fold negative numeric literals so `-1` stays a constant.
		operand := l.lowerExpression(operandNode)
		switch lit := operand.(type) {
		case *ast.IntegerLiteral:
			return ast.NewIntegerLiteral(-lit.Value)
		case *ast.DoubleLiteral:
			return ast.NewDoubleLiteral(-lit.Value)
		}
		return ast.NewUnaryExpression(ast.UnaryNegate, operand)
	case "+":
		return ast.NewUnaryExpression(ast.UnaryPlus, l.lowerExpression(operandNode))
	case "!":
		return ast.NewUnaryExpression(ast.UnaryNot, l.lowerExpression(operandNode))
	case ".":
		return ast.NewMemberAccess(nil, identifierText(operandNode))
	case "$":
		return ast.NewBindingReference(identifierText(operandNode))
	}
	return l.unknown(node)
}

func (l *lowerer) lowerMemberAccess(node *syntax.Node) ast.Expression {
	nameNode := node.ChildByField("name")
	baseNode := node.ChildByField("base")
	if nameNode == nil {
		named := node.Named()
		switch len(named) {
		case 1:
			nameNode = named[0]
		case 2:
			baseNode, nameNode = named[0], named[1]
		default:
			return l.unknown(node)
		}
	}
	name := strings.TrimPrefix(identifierText(nameNode), ".")
	var base ast.Expression
	if baseNode != nil {
		base = l.lowerExpression(baseNode)
	}
	if base != nil {
		// Tuple element access `pair.0` reads like an index.
		if idx, ok := parseIntegerText(name); ok {
			return ast.NewSubscript(base, []*ast.Argument{ast.NewArgument("", ast.NewIntegerLiteral(idx))})
		}
	}
	return ast.NewMemberAccess(base, name)
}

func (l *lowerer) lowerCall(node *syntax.Node) ast.Expression {
	calleeNode := fieldOrFirst(node, "callee", "argument", "trailing_closure", "closure_expression", "value_arguments", "call_suffix")
	if calleeNode == nil {
		return l.unknown(node)
	}
	callee := l.lowerExpression(calleeNode)
	return ast.NewCall(callee, l.lowerArguments(node))
}

// lowerArguments collects ordinary arguments followed by trailing
// closures. The first trailing closure is unlabeled; additional ones keep
// their labels.
func (l *lowerer) lowerArguments(node *syntax.Node) []*ast.Argument {
	var args, trailing []*ast.Argument
	var walk func(*syntax.Node)
	walk = func(n *syntax.Node) {
		for _, child := range n.Named() {
			if child.Field == "callee" || child.Field == "base" {
				continue
			}
			switch child.Kind {
			case "argument", "value_argument":
				args = append(args, l.lowerArgument(child))
			case "trailing_closure":
				label := identifierText(child.ChildByField("label"))
				value := fieldOrFirst(child, "value", "identifier")
				if len(trailing) == 0 {
					label = ""
				}
				arg := ast.NewArgument(label, l.lowerExpression(value))
				ast.SetSpan(arg, spanFromNode(child))
				trailing = append(trailing, arg)
			case "closure_expression":
				if child.Field != "" {
					continue
				}
				arg := ast.NewArgument("", l.lowerExpression(child))
				ast.SetSpan(arg, spanFromNode(child))
				trailing = append(trailing, arg)
			case "value_arguments", "call_suffix", "arguments", "annotated_lambda":
				walk(child)
			}
		}
	}
	walk(node)
	return append(args, trailing...)
}

func (l *lowerer) lowerArgument(node *syntax.Node) *ast.Argument {
	label := identifierText(node.ChildByField("label"))
	if label == "_" {
		label = ""
	}
	value := node.ChildByField("value")
	if value == nil {
		for _, child := range node.Named() {
			if child.Field != "label" {
				value = child
			}
		}
	}
	arg := ast.NewArgument(label, l.lowerExpression(value))
	ast.SetSpan(arg, spanFromNode(node))
	return arg
}

func (l *lowerer) lowerTuple(node *syntax.Node) ast.Expression {
	var elements []*syntax.Node
	for _, child := range node.Named() {
		if child.Kind == "tuple_element" {
			if v := fieldOrFirst(child, "value", "identifier"); v != nil && child.ChildByField("label") != nil {
				elements = append(elements, v)
				continue
			}
			if v := child.FirstNamed(); v != nil {
				elements = append(elements, v)
			}
			continue
		}
		elements = append(elements, child)
	}
	switch len(elements) {
	case 0:
		return ast.NewArrayLiteral(nil)
	case 1:
		return l.lowerExpression(elements[0])
	default:
		exprs := make([]ast.Expression, 0, len(elements))
		for _, el := range elements {
			exprs = append(exprs, l.lowerExpression(el))
		}
		return ast.NewArrayLiteral(exprs)
	}
}

func (l *lowerer) lowerClosure(node *syntax.Node) *ast.Function {
	var (
		params    []*ast.Parameter
		bodyNodes []*syntax.Node
	)
	var collectParams func(*syntax.Node)
	collectParams = func(n *syntax.Node) {
		for _, child := range n.Named() {
			switch child.Kind {
			case "closure_parameter", "parameter":
				params = append(params, l.lowerParameter(child, true))
			case "identifier":
				params = append(params, ast.NewParameter("", identifierText(child), "", nil))
			}
		}
	}
	for _, child := range node.Named() {
		switch {
		case child.Kind == "closure_parameter":
			params = append(params, l.lowerParameter(child, true))
		case child.Kind == "closure_parameters" || child.Field == "parameters":
			collectParams(child)
		case child.Field == "body" || child.Kind == "code_block" || child.Kind == "statements":
			bodyNodes = append(bodyNodes, child.Named()...)
		default:
			bodyNodes = append(bodyNodes, child)
		}
	}
	fn := ast.NewFunction("", params, "", l.lowerStatements(bodyNodes))
	ast.SetSpan(fn, spanFromNode(node))
	return fn
}
