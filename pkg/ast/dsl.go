package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Ref(name string) *BindingReference {
	return NewBindingReference(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Flt(value float64) *DoubleLiteral {
	return NewDoubleLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

func Interp(parts ...Expression) *StringInterpolation {
	return NewStringInterpolation(parts)
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

func Dict(entries ...DictionaryEntry) *DictionaryLiteral {
	return NewDictionaryLiteral(entries)
}

func Entry(key, value Expression) DictionaryEntry {
	return DictionaryEntry{Key: key, Value: value}
}

// Operator helpers.

func Un(op UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Tern(condition, then, otherwise Expression) *TernaryExpression {
	return NewTernaryExpression(condition, then, otherwise)
}

// Access helpers.

func Member(base Expression, name string) *MemberAccess {
	return NewMemberAccess(base, name)
}

// Dot is the implicit member `.name`.
func Dot(name string) *MemberAccess {
	return NewMemberAccess(nil, name)
}

func Arg(label string, value Expression) *Argument {
	return NewArgument(label, value)
}

func CallExpr(callee Expression, args ...*Argument) *Call {
	return NewCall(callee, args)
}

// CallN calls a named function with unlabeled arguments.
func CallN(name string, args ...Expression) *Call {
	wrapped := make([]*Argument, 0, len(args))
	for _, arg := range args {
		wrapped = append(wrapped, NewArgument("", arg))
	}
	return NewCall(ID(name), wrapped)
}

func Index(base Expression, index Expression) *Subscript {
	return NewSubscript(base, []*Argument{NewArgument("", index)})
}

func Unwrap(operand Expression) *ForceUnwrap {
	return NewForceUnwrap(operand, false)
}

// Function helpers.

func Param(label, name, typeAnnotation string, defaultValue Expression) *Parameter {
	return NewParameter(label, name, typeAnnotation, defaultValue)
}

func Fn(params []*Parameter, body ...Statement) *Function {
	return NewFunction("", params, "", body)
}

func Closure(params []*Parameter, body ...Statement) *FunctionLiteral {
	return NewFunctionLiteral(NewFunction("", params, "", body))
}

// Statement helpers.

func Let(name string, initializer Expression) *Binding {
	b := NewBinding(name, "", initializer)
	b.IsConstant = true
	return b
}

func Var(name, typeAnnotation string, initializer Expression) *Binding {
	return NewBinding(name, typeAnnotation, initializer)
}

func State(name, typeAnnotation string, initializer Expression) *Binding {
	b := NewBinding(name, typeAnnotation, initializer)
	b.Attributes = []string{"State"}
	return b
}

func FuncDecl(name string, params []*Parameter, body ...Statement) *Binding {
	fn := NewFunction(name, params, "", body)
	return NewBinding(name, "", NewFunctionLiteral(fn))
}

// Computed declares `var name: T { body }`.
func Computed(name, typeAnnotation string, body ...Statement) *Binding {
	fn := NewFunction(name, nil, typeAnnotation, body)
	fn.IsComputed = true
	return NewBinding(name, typeAnnotation, NewFunctionLiteral(fn))
}

func TypeDecl(def *Definition) *Binding {
	return NewBinding(def.Name, "", NewDefinitionLiteral(def))
}

func Struct(name string, instance ...*Binding) *Definition {
	def := NewDefinition(name, DefinitionStruct)
	def.Instance = instance
	return def
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Assign(target, value Expression) *AssignmentStatement {
	return NewAssignment(target, value)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func If(condition Expression, body []Statement, otherwise []Statement) *IfStatement {
	return NewIfStatement([]*Condition{NewCondition(condition)}, body, otherwise)
}

func IfLet(name string, value Expression, body []Statement, otherwise []Statement) *IfStatement {
	return NewIfStatement([]*Condition{NewOptionalBinding(name, value)}, body, otherwise)
}

func ForIn(variable string, sequence Expression, body ...Statement) *ForInStatement {
	return NewForInStatement(variable, sequence, body)
}

func Switch(subject Expression, cases ...*SwitchCase) *SwitchStatement {
	return NewSwitchStatement(subject, cases)
}

func Case(patterns []*CasePattern, body ...Statement) *SwitchCase {
	return NewSwitchCase(patterns, nil, body)
}

func Default(body ...Statement) *SwitchCase {
	return NewDefaultCase(body)
}

func Block(stmts ...Statement) []Statement {
	return stmts
}

func Mod(stmts ...Statement) *Module {
	return NewModule(stmts)
}
