package ast

type NodeType string

const (
	NodeModule              NodeType = "Module"
	NodeBinding             NodeType = "Binding"
	NodeDefinition          NodeType = "Definition"
	NodeFunction            NodeType = "Function"
	NodeParameter           NodeType = "Parameter"
	NodeIdentifier          NodeType = "Identifier"
	NodeBindingReference    NodeType = "BindingReference"
	NodeIntegerLiteral      NodeType = "IntegerLiteral"
	NodeDoubleLiteral       NodeType = "DoubleLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeNilLiteral          NodeType = "NilLiteral"
	NodeStringInterpolation NodeType = "StringInterpolation"
	NodeArrayLiteral        NodeType = "ArrayLiteral"
	NodeDictionaryLiteral   NodeType = "DictionaryLiteral"
	NodeKeyPath             NodeType = "KeyPath"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeTernaryExpression   NodeType = "TernaryExpression"
	NodeMemberAccess        NodeType = "MemberAccess"
	NodeCall                NodeType = "Call"
	NodeArgument            NodeType = "Argument"
	NodeSubscript           NodeType = "Subscript"
	NodeFunctionLiteral     NodeType = "FunctionLiteral"
	NodeDefinitionLiteral   NodeType = "DefinitionLiteral"
	NodeForceUnwrap         NodeType = "ForceUnwrap"
	NodeUnknown             NodeType = "Unknown"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeCondition           NodeType = "Condition"
	NodeSwitchStatement     NodeType = "SwitchStatement"
	NodeSwitchCase          NodeType = "SwitchCase"
	NodeCasePattern         NodeType = "CasePattern"
	NodeForInStatement      NodeType = "ForInStatement"
	NodeAssignment          NodeType = "Assignment"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeUnhandledStatement  NodeType = "UnhandledStatement"
)

// Position is a 1-based line/column location in the original source.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span covers the source range a node was lowered from.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (n *nodeImpl) setSpan(span Span) { n.span = span }
func (nodeImpl) isNode()              {}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Module is the lowered form of one source unit.
type Module struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewModule(body []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}

// Bindings returns the top-level binding declarations in source order.
func (m *Module) Bindings() []*Binding {
	if m == nil {
		return nil
	}
	out := make([]*Binding, 0, len(m.Body))
	for _, stmt := range m.Body {
		if b, ok := stmt.(*Binding); ok {
			out = append(out, b)
		}
	}
	return out
}

// Binding declares a name. The initializer is a FunctionLiteral for
// functions and a DefinitionLiteral for type definitions.
type Binding struct {
	nodeImpl
	statementMarker

	Name           string     `json:"name"`
	TypeAnnotation string     `json:"typeAnnotation,omitempty"`
	Initializer    Expression `json:"initializer,omitempty"`
	Attributes     []string   `json:"attributes,omitempty"`
	IsStatic       bool       `json:"isStatic,omitempty"`
	IsConstant     bool       `json:"isConstant,omitempty"`
}

func NewBinding(name, typeAnnotation string, initializer Expression) *Binding {
	return &Binding{nodeImpl: newNodeImpl(NodeBinding), Name: name, TypeAnnotation: typeAnnotation, Initializer: initializer}
}

// HasAttribute reports whether the binding carries @name.
func (b *Binding) HasAttribute(name string) bool {
	for _, attr := range b.Attributes {
		if attr == name {
			return true
		}
	}
	return false
}

// Function returns the initializer as a function literal, if it is one.
func (b *Binding) Function() (*Function, bool) {
	if b == nil {
		return nil, false
	}
	lit, ok := b.Initializer.(*FunctionLiteral)
	if !ok || lit.Function == nil {
		return nil, false
	}
	return lit.Function, true
}

// Definition returns the initializer as a type definition, if it is one.
func (b *Binding) Definition() (*Definition, bool) {
	if b == nil {
		return nil, false
	}
	lit, ok := b.Initializer.(*DefinitionLiteral)
	if !ok || lit.Definition == nil {
		return nil, false
	}
	return lit.Definition, true
}

// Literals

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// BindingReference is `$name`: a two-way binding to a stored slot.
type BindingReference struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewBindingReference(name string) *BindingReference {
	return &BindingReference{nodeImpl: newNodeImpl(NodeBindingReference), Name: name}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type DoubleLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewDoubleLiteral(value float64) *DoubleLiteral {
	return &DoubleLiteral{nodeImpl: newNodeImpl(NodeDoubleLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

// StringInterpolation concatenates the string projection of each part.
type StringInterpolation struct {
	nodeImpl
	expressionMarker

	Parts []Expression `json:"parts"`
}

func NewStringInterpolation(parts []Expression) *StringInterpolation {
	return &StringInterpolation{nodeImpl: newNodeImpl(NodeStringInterpolation), Parts: parts}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

type DictionaryEntry struct {
	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

type DictionaryLiteral struct {
	nodeImpl
	expressionMarker

	Entries []DictionaryEntry `json:"entries"`
}

func NewDictionaryLiteral(entries []DictionaryEntry) *DictionaryLiteral {
	return &DictionaryLiteral{nodeImpl: newNodeImpl(NodeDictionaryLiteral), Entries: entries}
}

// Operators

type UnaryOperator string

const (
	UnaryNegate UnaryOperator = "-"
	UnaryPlus   UnaryOperator = "+"
	UnaryNot    UnaryOperator = "!"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type TernaryExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewTernaryExpression(condition, then, otherwise Expression) *TernaryExpression {
	return &TernaryExpression{nodeImpl: newNodeImpl(NodeTernaryExpression), Condition: condition, Then: then, Else: otherwise}
}

// Access and calls

// MemberAccess is `base.name`; a nil Base is the implicit form `.name`.
type MemberAccess struct {
	nodeImpl
	expressionMarker

	Base Expression `json:"base,omitempty"`
	Name string     `json:"name"`
}

func NewMemberAccess(base Expression, name string) *MemberAccess {
	return &MemberAccess{nodeImpl: newNodeImpl(NodeMemberAccess), Base: base, Name: name}
}

// IsImplicit reports whether the access has no explicit base.
func (m *MemberAccess) IsImplicit() bool { return m.Base == nil }

type Argument struct {
	nodeImpl

	Label string     `json:"label,omitempty"`
	Value Expression `json:"value"`
}

func NewArgument(label string, value Expression) *Argument {
	return &Argument{nodeImpl: newNodeImpl(NodeArgument), Label: label, Value: value}
}

type Call struct {
	nodeImpl
	expressionMarker

	Callee    Expression  `json:"callee"`
	Arguments []*Argument `json:"arguments"`
}

func NewCall(callee Expression, args []*Argument) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Arguments: args}
}

type Subscript struct {
	nodeImpl
	expressionMarker

	Base      Expression  `json:"base"`
	Arguments []*Argument `json:"arguments"`
}

func NewSubscript(base Expression, args []*Argument) *Subscript {
	return &Subscript{nodeImpl: newNodeImpl(NodeSubscript), Base: base, Arguments: args}
}

type ForceUnwrap struct {
	nodeImpl
	expressionMarker

	Operand  Expression `json:"operand"`
	Optional bool       `json:"optional,omitempty"`
}

// NewForceUnwrap builds `x!`; optional marks the chaining form `x?`.
func NewForceUnwrap(operand Expression, optional bool) *ForceUnwrap {
	return &ForceUnwrap{nodeImpl: newNodeImpl(NodeForceUnwrap), Operand: operand, Optional: optional}
}

// FunctionLiteral wraps a Function as an expression (closures and the
// initializer of function bindings).
type FunctionLiteral struct {
	nodeImpl
	expressionMarker

	Function *Function `json:"function"`
}

func NewFunctionLiteral(fn *Function) *FunctionLiteral {
	return &FunctionLiteral{nodeImpl: newNodeImpl(NodeFunctionLiteral), Function: fn}
}

type DefinitionLiteral struct {
	nodeImpl
	expressionMarker

	Definition *Definition `json:"definition"`
}

func NewDefinitionLiteral(def *Definition) *DefinitionLiteral {
	return &DefinitionLiteral{nodeImpl: newNodeImpl(NodeDefinitionLiteral), Definition: def}
}

// Unknown stands in for syntax the lowering did not recognise. Evaluating
// it fails; lowering it never does.
type Unknown struct {
	nodeImpl
	expressionMarker

	Kind string `json:"kind"`
	Text string `json:"text"`
}

func NewUnknown(kind, text string) *Unknown {
	return &Unknown{nodeImpl: newNodeImpl(NodeUnknown), Kind: kind, Text: text}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

// Condition is either a boolean expression or an optional binding
// (`let name = value`) when Binding is non-empty.
type Condition struct {
	nodeImpl

	Expression Expression `json:"expression"`
	Binding    string     `json:"binding,omitempty"`
}

func NewCondition(expr Expression) *Condition {
	return &Condition{nodeImpl: newNodeImpl(NodeCondition), Expression: expr}
}

func NewOptionalBinding(name string, value Expression) *Condition {
	return &Condition{nodeImpl: newNodeImpl(NodeCondition), Expression: value, Binding: name}
}

// IsOptionalBinding reports whether the condition unwraps into a name.
func (c *Condition) IsOptionalBinding() bool { return c.Binding != "" }

type IfStatement struct {
	nodeImpl
	statementMarker

	Conditions []*Condition `json:"conditions"`
	Body       []Statement  `json:"body"`
	Else       []Statement  `json:"else,omitempty"`
}

func NewIfStatement(conditions []*Condition, body, otherwise []Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Conditions: conditions, Body: body, Else: otherwise}
}

type AssignmentStatement struct {
	nodeImpl
	statementMarker

	Target Expression `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignment(target, value Expression) *AssignmentStatement {
	return &AssignmentStatement{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

type ForInStatement struct {
	nodeImpl
	statementMarker

	Variable string      `json:"variable"`
	Sequence Expression  `json:"sequence"`
	Body     []Statement `json:"body"`
}

func NewForInStatement(variable string, sequence Expression, body []Statement) *ForInStatement {
	return &ForInStatement{nodeImpl: newNodeImpl(NodeForInStatement), Variable: variable, Sequence: sequence, Body: body}
}

// UnhandledStatement mirrors Unknown at statement level.
type UnhandledStatement struct {
	nodeImpl
	statementMarker

	Kind string `json:"kind"`
	Text string `json:"text"`
}

func NewUnhandledStatement(kind, text string) *UnhandledStatement {
	return &UnhandledStatement{nodeImpl: newNodeImpl(NodeUnhandledStatement), Kind: kind, Text: text}
}
