package parser

import (
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

func (l *lowerer) lowerVariable(node *syntax.Node) *ast.Binding {
	keywords := keywordSet(node)
	name := identifierText(node.ChildByField("name"))
	if name == "" {
		name = identifierText(node.ChildByField("pattern"))
	}
	typeAnnotation := typeText(node.ChildByField("type"))
	if typeAnnotation == "" {
		for _, child := range node.ChildrenByKind("type_annotation") {
			typeAnnotation = typeText(child)
		}
	}

	var initializer ast.Expression
	if computed := l.computedBody(node); computed != nil {
		fn := ast.NewFunction(name, nil, typeAnnotation, l.lowerBlock(computed))
		fn.IsComputed = true
		ast.SetSpan(fn, spanFromNode(computed))
		initializer = ast.NewFunctionLiteral(fn)
	} else if value := node.ChildByField("value"); value != nil {
		initializer = l.lowerExpression(value)
	}

	binding := ast.NewBinding(name, typeAnnotation, initializer)
	binding.Attributes = attributeNames(node)
	binding.IsStatic = keywords["static"] || keywords["class"]
	binding.IsConstant = keywords["let"]
	return binding
}

// computedBody finds the getter of a computed property, if any.
func (l *lowerer) computedBody(node *syntax.Node) *syntax.Node {
	if node.ChildByField("value") != nil {
		return nil
	}
	body := node.ChildByField("computed")
	if body == nil {
		for _, child := range node.Named() {
			if child.Kind == "computed_property" || child.Kind == "code_block" {
				body = child
				break
			}
		}
	}
	if body == nil {
		return nil
	}
	for _, child := range body.Named() {
		if child.Kind == "getter" {
			return child
		}
	}
	return body
}

func (l *lowerer) lowerFunctionDeclaration(node *syntax.Node) *ast.Binding {
	keywords := keywordSet(node)
	name := identifierText(node.ChildByField("name"))
	fn := ast.NewFunction(name, l.lowerParameters(node), typeText(node.ChildByField("return_type")), l.lowerBlock(node.ChildByField("body")))
	fn.IsMutating = keywords["mutating"]
	ast.SetSpan(fn, spanFromNode(node))
	binding := ast.NewBinding(name, "", ast.NewFunctionLiteral(fn))
	binding.IsStatic = keywords["static"] || keywords["class"]
	binding.Attributes = attributeNames(node)
	return binding
}

func (l *lowerer) lowerInitializer(node *syntax.Node) *ast.Binding {
	fn := ast.NewFunction("init", l.lowerParameters(node), "", l.lowerBlock(node.ChildByField("body")))
	ast.SetSpan(fn, spanFromNode(node))
	return ast.NewBinding("init", "", ast.NewFunctionLiteral(fn))
}

func (l *lowerer) lowerParameters(node *syntax.Node) []*ast.Parameter {
	var params []*ast.Parameter
	for _, child := range node.Named() {
		switch child.Kind {
		case "parameter":
			params = append(params, l.lowerParameter(child, false))
		case "parameters", "parameter_clause", "function_parameters":
			params = append(params, l.lowerParameters(child)...)
		}
	}
	return params
}

// lowerParameter reads `label name: Type = default`. A declaration
// parameter without an explicit label uses its name as the label; closure
// parameters are never labelled.
func (l *lowerer) lowerParameter(node *syntax.Node, closure bool) *ast.Parameter {
	name := identifierText(node.ChildByField("name"))
	labelNode := node.ChildByField("label")
	if name == "" && len(node.Children) == 0 {
		name = strings.TrimSpace(node.Text)
	}
	label := ""
	switch {
	case closure:
	case labelNode != nil:
		label = identifierText(labelNode)
	default:
		label = name
	}
	if label == "_" {
		label = ""
	}
	var defaultValue ast.Expression
	if d := node.ChildByField("default"); d != nil {
		defaultValue = l.lowerExpression(d)
	}
	param := ast.NewParameter(label, name, typeText(node.ChildByField("type")), defaultValue)
	ast.SetSpan(param, spanFromNode(node))
	return param
}

func (l *lowerer) lowerDefinition(node *syntax.Node) *ast.Definition {
	kind := ast.DefinitionStruct
	switch node.Kind {
	case "class_declaration":
		kind = ast.DefinitionClass
	case "enum_declaration":
		kind = ast.DefinitionEnum
	}
	def := ast.NewDefinition(identifierText(node.ChildByField("name")), kind)
	ast.SetSpan(def, spanFromNode(node))

	for _, inh := range node.ChildrenByField("inheritance") {
		for _, name := range strings.Split(inh.Content(), ",") {
			if name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), ":")); name != "" {
				def.Inherits = append(def.Inherits, name)
			}
		}
	}

	members := node.Named()
	if body := node.ChildByField("body"); body != nil {
		members = body.Named()
	}
	for _, member := range members {
		if member.Field == "name" || member.Field == "inheritance" {
			continue
		}
		l.lowerMember(def, member)
	}

	if def.Kind != ast.DefinitionEnum {
		if _, ok := def.Initializer(); !ok {
			synthesizeInitializer(def)
		}
	}
	return def
}

func (l *lowerer) lowerMember(def *ast.Definition, member *syntax.Node) {
	var binding *ast.Binding
	switch member.Kind {
	case "variable_declaration", "property_declaration":
		binding = l.lowerVariable(member)
	case "function_declaration":
		binding = l.lowerFunctionDeclaration(member)
	case "initializer_declaration":
		binding = l.lowerInitializer(member)
	case "struct_declaration", "class_declaration", "enum_declaration":
		def.Nested = append(def.Nested, l.lowerDefinition(member))
		return
	case "enum_case", "enum_entry":
		def.Cases = append(def.Cases, l.lowerEnumCases(member)...)
		return
	case "comment", "multiline_comment":
		return
	default:
		l.logger.Debug("lowering fallback", "kind", member.Kind, "definition", def.Name)
		return
	}
	annotateStatement(binding, member)
	if binding.IsStatic {
		def.Static = append(def.Static, binding)
	} else {
		def.Instance = append(def.Instance, binding)
	}
}

// lowerEnumCases handles `case a, b(x: Int) = raw` declarations.
func (l *lowerer) lowerEnumCases(node *syntax.Node) []*ast.EnumCase {
	var out []*ast.EnumCase
	entries := node.ChildrenByKind("enum_case_element")
	if len(entries) == 0 {
		entries = []*syntax.Node{node}
	}
	for _, entry := range entries {
		names := entry.ChildrenByField("name")
		for i, nameNode := range names {
			c := &ast.EnumCase{Name: identifierText(nameNode)}
			// Associated values and raw values attach to the last name.
			if i == len(names)-1 {
				for _, assoc := range entry.ChildrenByField("associated") {
					label := identifierText(assoc.ChildByField("label"))
					if label == "" {
						label = identifierText(assoc.ChildByField("name"))
					}
					if label == "" {
						label = "_"
					}
					c.AssociatedNames = append(c.AssociatedNames, label)
				}
				if raw := entry.ChildByField("raw_value"); raw != nil {
					c.RawValue = l.lowerExpression(raw)
				}
			}
			out = append(out, c)
		}
	}
	return out
}

// synthesizeInitializer adds the memberwise `init`: one parameter per
// stored property (label and name are the property name, default is the
// property's initializer) and one `self.prop = prop` per property.
// Constants that already have a value are not parameters.
func synthesizeInitializer(def *ast.Definition) {
	var (
		params []*ast.Parameter
		body   []ast.Statement
	)
	for _, prop := range def.StoredProperties() {
		if prop.IsConstant && prop.Initializer != nil {
			continue
		}
		params = append(params, ast.NewParameter(prop.Name, prop.Name, prop.TypeAnnotation, prop.Initializer))
		target := ast.NewMemberAccess(ast.NewIdentifier("self"), prop.Name)
		body = append(body, ast.NewAssignment(target, ast.NewIdentifier(prop.Name)))
	}
	fn := ast.NewFunction("init", params, "", body)
	def.Instance = append(def.Instance, ast.NewBinding("init", "", ast.NewFunctionLiteral(fn)))
	def.Synthesized = true
}
