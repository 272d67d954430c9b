package parser

import (
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

func (l *lowerer) lowerStatements(nodes []*syntax.Node) []ast.Statement {
	out := make([]ast.Statement, 0, len(nodes))
	for _, node := range nodes {
		if node == nil || node.Token {
			continue
		}
		if node.Kind == "statements" {
			out = append(out, l.lowerStatements(node.Named())...)
			continue
		}
		if stmt := l.lowerStatement(node); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

// lowerBlock lowers the statements of a code_block (or a single statement
// standing in for one).
func (l *lowerer) lowerBlock(node *syntax.Node) []ast.Statement {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case "code_block", "block", "statements", "function_body", "computed_property", "getter":
		return l.lowerStatements(node.Named())
	default:
		return l.lowerStatements([]*syntax.Node{node})
	}
}

func (l *lowerer) lowerStatement(node *syntax.Node) ast.Statement {
	switch node.Kind {
	case "comment", "multiline_comment", "import_declaration":
		return nil
	case "variable_declaration", "property_declaration":
		return annotateStatement(l.lowerVariable(node), node)
	case "function_declaration":
		return annotateStatement(l.lowerFunctionDeclaration(node), node)
	case "struct_declaration", "class_declaration", "enum_declaration":
		def := l.lowerDefinition(node)
		return annotateStatement(ast.NewBinding(def.Name, "", ast.NewDefinitionLiteral(def)), node)
	case "if_statement":
		return annotateStatement(l.lowerIf(node), node)
	case "switch_statement":
		return annotateStatement(l.lowerSwitch(node), node)
	case "for_statement":
		return annotateStatement(l.lowerFor(node), node)
	case "return_statement":
		var value ast.Expression
		if child := fieldOrFirst(node, "value"); child != nil {
			value = l.lowerExpression(child)
		}
		return annotateStatement(ast.NewReturnStatement(value), node)
	case "assignment":
		target := l.lowerExpression(node.ChildByField("target"))
		value := l.lowerExpression(node.ChildByField("value"))
		op := strings.TrimSpace(node.ChildByField("operator").Content())
		return annotateStatement(assignment(op, target, value), node)
	case "expression_statement":
		inner := node.FirstNamed()
		if inner == nil {
			return nil
		}
		return annotateStatement(l.lowerExpressionStatement(inner), node)
	}
	if isExpressionKind(node.Kind) {
		return annotateStatement(l.lowerExpressionStatement(node), node)
	}
	return l.unhandled(node)
}

// lowerExpressionStatement turns an expression node into a statement,
// recognising bare and compound assignments inside operator sequences.
func (l *lowerer) lowerExpressionStatement(node *syntax.Node) ast.Statement {
	if node.Kind == "sequence_expression" {
		if stmt, ok := l.lowerAssignmentSequence(node); ok {
			return stmt
		}
	}
	return ast.NewExpressionStatement(l.lowerExpression(node))
}

func assignment(op string, target, value ast.Expression) ast.Statement {
	if op == "" || op == "=" {
		return ast.NewAssignment(target, value)
	}
	binary := strings.TrimSuffix(op, "=")
	return ast.NewAssignment(target, ast.NewBinaryExpression(binary, target, value))
}

func (l *lowerer) lowerIf(node *syntax.Node) *ast.IfStatement {
	var (
		conditions []*ast.Condition
		body       []ast.Statement
		otherwise  []ast.Statement
	)
	condNodes := node.ChildrenByField("condition")
	bodyNode := node.ChildByField("body")
	elseNode := node.ChildByField("else")
	if len(condNodes) == 0 && bodyNode == nil {
		// Unlabelled layout: conditions, then the body block, then an
		// optional else block or chained if.
		for _, child := range node.Named() {
			switch {
			case bodyNode == nil && child.Kind == "code_block":
				bodyNode = child
			case bodyNode == nil:
				condNodes = append(condNodes, child)
			case elseNode == nil:
				elseNode = child
			}
		}
	}
	for _, cond := range condNodes {
		conditions = append(conditions, l.lowerConditions(cond)...)
	}
	body = l.lowerBlock(bodyNode)
	if elseNode != nil {
		if elseNode.Kind == "if_statement" {
			otherwise = []ast.Statement{annotateStatement(l.lowerIf(elseNode), elseNode)}
		} else {
			otherwise = l.lowerBlock(elseNode)
		}
	}
	return ast.NewIfStatement(conditions, body, otherwise)
}

func (l *lowerer) lowerConditions(node *syntax.Node) []*ast.Condition {
	switch node.Kind {
	case "condition", "condition_list":
		var out []*ast.Condition
		for _, child := range node.Named() {
			out = append(out, l.lowerConditions(child)...)
		}
		return out
	case "optional_binding":
		name := identifierText(node.ChildByField("name"))
		if name == "" {
			name = identifierText(fieldOrFirst(node, "pattern"))
		}
		var value ast.Expression
		if v := node.ChildByField("value"); v != nil {
			value = l.lowerExpression(v)
		} else {
			// `if let name` shorthand unwraps the variable of the same name.
			value = ast.NewIdentifier(name)
		}
		cond := ast.NewOptionalBinding(name, value)
		ast.SetSpan(cond, spanFromNode(node))
		return []*ast.Condition{cond}
	default:
		cond := ast.NewCondition(l.lowerExpression(node))
		ast.SetSpan(cond, spanFromNode(node))
		return []*ast.Condition{cond}
	}
}

func (l *lowerer) lowerSwitch(node *syntax.Node) *ast.SwitchStatement {
	subject := fieldOrFirst(node, "subject", "switch_case", "default_case")
	var cases []*ast.SwitchCase
	for _, child := range node.Named() {
		if child.Kind != "switch_case" && child.Kind != "default_case" {
			continue
		}
		cases = append(cases, l.lowerSwitchCase(child))
	}
	return ast.NewSwitchStatement(l.lowerExpression(subject), cases)
}

func (l *lowerer) lowerSwitchCase(node *syntax.Node) *ast.SwitchCase {
	var (
		patterns  []*ast.CasePattern
		guard     ast.Expression
		bodyNodes []*syntax.Node
		isDefault = node.Kind == "default_case" || node.HasToken("default")
	)
	for _, child := range node.Named() {
		switch {
		case child.Field == "pattern" || child.Kind == "case_item" || child.Kind == "pattern":
			patterns = append(patterns, l.lowerCaseItem(child)...)
			for _, where := range child.ChildrenByKind("where_clause") {
				guard = l.lowerGuard(where)
			}
		case child.Field == "guard" || child.Kind == "where_clause":
			guard = l.lowerGuard(child)
		case child.Kind == "code_block":
			bodyNodes = append(bodyNodes, child.Named()...)
		default:
			bodyNodes = append(bodyNodes, child)
		}
	}
	body := l.lowerStatements(bodyNodes)
	var sc *ast.SwitchCase
	if isDefault && len(patterns) == 0 {
		sc = ast.NewDefaultCase(body)
	} else {
		sc = ast.NewSwitchCase(patterns, guard, body)
	}
	ast.SetSpan(sc, spanFromNode(node))
	return sc
}

func (l *lowerer) lowerGuard(node *syntax.Node) ast.Expression {
	if node.Kind == "where_clause" {
		if inner := fieldOrFirst(node, "condition"); inner != nil {
			return l.lowerExpression(inner)
		}
	}
	return l.lowerExpression(node)
}

func (l *lowerer) lowerCaseItem(node *syntax.Node) []*ast.CasePattern {
	if node.Kind == "case_item" {
		var out []*ast.CasePattern
		for _, child := range node.Named() {
			if child.Kind == "where_clause" {
				continue
			}
			out = append(out, l.lowerPattern(child))
		}
		return out
	}
	return []*ast.CasePattern{l.lowerPattern(node)}
}

func (l *lowerer) lowerPattern(node *syntax.Node) *ast.CasePattern {
	var pattern *ast.CasePattern
	switch node.Kind {
	case "pattern":
		if named := node.Named(); len(named) == 1 {
			return l.lowerPattern(named[0])
		}
		if strings.TrimSpace(node.Content()) == "_" {
			pattern = ast.NewWildcardPattern()
		} else {
			pattern = ast.NewValuePattern(l.lowerExpression(node))
		}
	case "wildcard_pattern":
		pattern = ast.NewWildcardPattern()
	case "binding_pattern", "value_binding_pattern":
		name := identifierText(fieldOrFirst(node, "name"))
		if strings.HasSuffix(strings.TrimSpace(node.Content()), "?") {
			pattern = ast.NewOptionalPattern(strings.TrimSuffix(name, "?"))
		} else {
			pattern = ast.NewBindPattern(name)
		}
	case "optional_pattern":
		pattern = ast.NewOptionalPattern(strings.TrimSuffix(identifierText(fieldOrFirst(node, "name")), "?"))
	case "enum_case_pattern":
		name := identifierText(fieldOrFirst(node, "name"))
		name = strings.TrimPrefix(name, ".")
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		var bindings []string
		for _, b := range node.ChildrenByField("binding") {
			bindings = append(bindings, identifierText(b))
		}
		pattern = ast.NewEnumCasePattern(name, bindings)
	default:
		if node.Kind == "identifier" && strings.TrimSpace(node.Text) == "_" {
			pattern = ast.NewWildcardPattern()
		} else {
			pattern = ast.NewValuePattern(l.lowerExpression(node))
		}
	}
	ast.SetSpan(pattern, spanFromNode(node))
	return pattern
}

func (l *lowerer) lowerFor(node *syntax.Node) *ast.ForInStatement {
	variable := identifierText(fieldOrFirst(node, "variable"))
	if variable == "" {
		variable = identifierText(node.ChildByField("pattern"))
	}
	sequence := node.ChildByField("sequence")
	body := node.ChildByField("body")
	if sequence == nil || body == nil {
		named := node.Named()
		for i, child := range named {
			if i == 0 && child.Field == "" {
				continue
			}
			switch {
			case child.Kind == "code_block" && body == nil:
				body = child
			case sequence == nil && child.Field == "":
				sequence = child
			}
		}
	}
	return ast.NewForInStatement(variable, l.lowerExpression(sequence), l.lowerBlock(body))
}
