package ast

// Definitions

type DefinitionKind string

const (
	DefinitionStruct DefinitionKind = "struct"
	DefinitionClass  DefinitionKind = "class"
	DefinitionEnum   DefinitionKind = "enum"
)

// EnumCase is one `case name(labels...)` entry of an enum definition.
type EnumCase struct {
	Name            string     `json:"name"`
	AssociatedNames []string   `json:"associatedNames,omitempty"`
	RawValue        Expression `json:"rawValue,omitempty"`
}

// Definition is the lowered form of a user-declared composite type.
type Definition struct {
	nodeImpl

	Name        string         `json:"name"`
	Kind        DefinitionKind `json:"kind"`
	Inherits    []string       `json:"inherits,omitempty"`
	Instance    []*Binding     `json:"instance"`
	Static      []*Binding     `json:"static,omitempty"`
	Cases       []*EnumCase    `json:"cases,omitempty"`
	Nested      []*Definition  `json:"nested,omitempty"`
	Synthesized bool           `json:"synthesized,omitempty"`
}

func NewDefinition(name string, kind DefinitionKind) *Definition {
	return &Definition{nodeImpl: newNodeImpl(NodeDefinition), Name: name, Kind: kind}
}

// Conforms reports whether the definition lists name among its supertypes.
func (d *Definition) Conforms(name string) bool {
	for _, inherited := range d.Inherits {
		if inherited == name {
			return true
		}
	}
	return false
}

// StoredProperties returns instance bindings that hold data, in order.
func (d *Definition) StoredProperties() []*Binding {
	out := make([]*Binding, 0, len(d.Instance))
	for _, b := range d.Instance {
		if _, isFn := b.Function(); isFn {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Initializer returns the `init` binding.
func (d *Definition) Initializer() (*Function, bool) {
	for _, b := range d.Instance {
		if b.Name != "init" {
			continue
		}
		if fn, ok := b.Function(); ok {
			return fn, true
		}
	}
	return nil, false
}

// Case finds an enum case by name.
func (d *Definition) Case(name string) (*EnumCase, bool) {
	for _, c := range d.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Functions

type Parameter struct {
	nodeImpl

	Label          string     `json:"label,omitempty"`
	Name           string     `json:"name"`
	TypeAnnotation string     `json:"typeAnnotation,omitempty"`
	Default        Expression `json:"default,omitempty"`
}

func NewParameter(label, name, typeAnnotation string, defaultValue Expression) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Label: label, Name: name, TypeAnnotation: typeAnnotation, Default: defaultValue}
}

type Function struct {
	nodeImpl

	Name       string       `json:"name,omitempty"`
	Params     []*Parameter `json:"params"`
	ReturnType string       `json:"returnType,omitempty"`
	Body       []Statement  `json:"body"`
	IsComputed bool         `json:"isComputed,omitempty"`
	IsMutating bool         `json:"isMutating,omitempty"`
}

func NewFunction(name string, params []*Parameter, returnType string, body []Statement) *Function {
	return &Function{nodeImpl: newNodeImpl(NodeFunction), Name: name, Params: params, ReturnType: returnType, Body: body}
}

// Pattern matching

type CasePatternKind string

const (
	// PatternValue compares the subject with an expression (or range).
	PatternValue CasePatternKind = "value"
	// PatternBind binds the subject to Name unconditionally.
	PatternBind CasePatternKind = "bind"
	// PatternOptional binds the subject to Name when it is not void.
	PatternOptional CasePatternKind = "optional"
	// PatternEnumCase matches an enum case and binds associated values.
	PatternEnumCase CasePatternKind = "enumCase"
	// PatternWildcard matches anything.
	PatternWildcard CasePatternKind = "wildcard"
)

type CasePattern struct {
	nodeImpl

	Kind     CasePatternKind `json:"kind"`
	Name     string          `json:"name,omitempty"`
	Value    Expression      `json:"value,omitempty"`
	Bindings []string        `json:"bindings,omitempty"`
}

func NewValuePattern(value Expression) *CasePattern {
	return &CasePattern{nodeImpl: newNodeImpl(NodeCasePattern), Kind: PatternValue, Value: value}
}

func NewBindPattern(name string) *CasePattern {
	return &CasePattern{nodeImpl: newNodeImpl(NodeCasePattern), Kind: PatternBind, Name: name}
}

func NewOptionalPattern(name string) *CasePattern {
	return &CasePattern{nodeImpl: newNodeImpl(NodeCasePattern), Kind: PatternOptional, Name: name}
}

// NewEnumCasePattern matches `.name(let a, let b)`; "_" skips a position.
func NewEnumCasePattern(name string, bindings []string) *CasePattern {
	return &CasePattern{nodeImpl: newNodeImpl(NodeCasePattern), Kind: PatternEnumCase, Name: name, Bindings: bindings}
}

func NewWildcardPattern() *CasePattern {
	return &CasePattern{nodeImpl: newNodeImpl(NodeCasePattern), Kind: PatternWildcard}
}

type SwitchCase struct {
	nodeImpl

	Patterns  []*CasePattern `json:"patterns"`
	Guard     Expression     `json:"guard,omitempty"`
	Body      []Statement    `json:"body"`
	IsDefault bool           `json:"isDefault,omitempty"`
}

func NewSwitchCase(patterns []*CasePattern, guard Expression, body []Statement) *SwitchCase {
	return &SwitchCase{nodeImpl: newNodeImpl(NodeSwitchCase), Patterns: patterns, Guard: guard, Body: body}
}

func NewDefaultCase(body []Statement) *SwitchCase {
	return &SwitchCase{nodeImpl: newNodeImpl(NodeSwitchCase), Body: body, IsDefault: true}
}

type SwitchStatement struct {
	nodeImpl
	statementMarker

	Subject Expression    `json:"subject"`
	Cases   []*SwitchCase `json:"cases"`
}

func NewSwitchStatement(subject Expression, cases []*SwitchCase) *SwitchStatement {
	return &SwitchStatement{nodeImpl: newNodeImpl(NodeSwitchStatement), Subject: subject, Cases: cases}
}
