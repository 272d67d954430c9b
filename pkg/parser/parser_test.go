package parser

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

// Shorthand for syntax builders used throughout these tests.
var (
	n     = syntax.N
	f     = syntax.F
	ident = syntax.Ident
	lit   = syntax.Lit
	seq   = syntax.Seq
	op    = syntax.Op
	block = syntax.Block
)

func lower(t testing.TB, nodes ...*syntax.Node) *ast.Module {
	t.Helper()
	mod, err := LowerModule(syntax.Source(nodes...))
	if err != nil {
		t.Fatalf("LowerModule error: %v", err)
	}
	return mod
}

func assertModulesEqual(t testing.TB, expected, actual *ast.Module) {
	t.Helper()
	if reflect.DeepEqual(expected, actual) {
		return
	}
	wantJSON, _ := json.MarshalIndent(expected, "", "  ")
	gotJSON, _ := json.MarshalIndent(actual, "", "  ")
	if bytes.Equal(wantJSON, gotJSON) {
		return
	}
	t.Fatalf("module mismatch\nexpected: %s\n   actual: %s", wantJSON, gotJSON)
}

func assertExpression(t testing.TB, expected ast.Expression, node *syntax.Node) {
	t.Helper()
	assertModulesEqual(t, ast.Mod(ast.Expr(expected)), lower(t, node))
}

func TestLowerModuleRejectsNilRoot(t *testing.T) {
	if _, err := LowerModule(nil); err == nil {
		t.Fatalf("expected error for nil root")
	}
}

func TestLowerLiterals(t *testing.T) {
	cases := []struct {
		name     string
		node     *syntax.Node
		expected ast.Expression
	}{
		{"int", lit(42), ast.Int(42)},
		{"hex", syntax.T("integer_literal", "0x1F"), ast.Int(31)},
		{"underscored", syntax.T("integer_literal", "1_000"), ast.Int(1000)},
		{"double", lit(2.5), ast.Flt(2.5)},
		{"bool", lit(true), ast.Bool(true)},
		{"nil", lit(nil), ast.Nil()},
		{"string", lit("hello"), ast.Str("hello")},
		{"escaped", n("string_literal", syntax.T("string_segment", `a\nb`)), ast.Str("a\nb")},
		{"bare string", syntax.T("string_literal", `"plain"`), ast.Str("plain")},
		{"array", n("array_literal", lit(1), lit(2)), ast.Arr(ast.Int(1), ast.Int(2))},
		{"dictionary", n("dictionary_literal",
			n("dictionary_element", f("key", lit("a")), f("value", lit(1))),
		), ast.Dict(ast.Entry(ast.Str("a"), ast.Int(1)))},
		{"negative", n("prefix_expression", f("operator", syntax.Tok("-")), f("operand", lit(5))), ast.Int(-5)},
		{"not", n("prefix_expression", f("operator", syntax.Tok("!")), f("operand", ident("flag"))), ast.Un(ast.UnaryNot, ast.ID("flag"))},
		{"implicit member", n("prefix_expression", f("operator", syntax.Tok(".")), f("operand", ident("red"))), ast.Dot("red")},
		{"binding reference", ident("$count"), ast.Ref("count")},
		{"shorthand parameter", ident("$0"), ast.ID("$0")},
		{"self", syntax.T("self_expression", "self"), ast.ID("self")},
		{"tuple index", syntax.Member(ident("pair"), "0"), ast.Index(ast.ID("pair"), ast.Int(0))},
		{"parenthesized", n("parenthesized_expression", lit(3)), ast.Int(3)},
		{"force unwrap", n("force_unwrap_expression", ident("x")), ast.Unwrap(ast.ID("x"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertExpression(t, tc.expected, tc.node)
		})
	}
}

func TestLowerStringInterpolation(t *testing.T) {
	node := n("string_literal",
		syntax.T("string_segment", "Hello, "),
		n("interpolation", f("value", ident("name"))),
		syntax.T("string_segment", "!"),
	)
	assertExpression(t, ast.Interp(ast.Str("Hello, "), ast.ID("name"), ast.Str("!")), node)
}

func TestLowerKeyPaths(t *testing.T) {
	cases := []struct {
		name     string
		node     *syntax.Node
		expected ast.Expression
	}{
		{
			"structured",
			n("key_path_expression", f("root", syntax.T("type_identifier", "Item")), syntax.T("key_path_property", "name")),
			ast.NewKeyPath("Item", []ast.KeyPathComponent{ast.PropertyComponent("name")}),
		},
		{
			"text",
			syntax.T("key_path_expression", `\.items?[0]`),
			ast.NewKeyPath("", []ast.KeyPathComponent{
				ast.PropertyComponent("items"),
				{Kind: ast.KeyPathOptional},
				ast.SubscriptComponent(0),
			}),
		},
		{
			"identity",
			syntax.T("key_path_expression", `\.self`),
			ast.NewKeyPath("", nil),
		},
		{
			"malformed",
			syntax.T("key_path_expression", `\.items[x]`),
			ast.NewUnknown("key_path_expression", `\.items[x]`),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertExpression(t, tc.expected, tc.node)
		})
	}
}

func TestParseKeyPathTextRoundTrip(t *testing.T) {
	for _, text := range []string{`\Person.address?.street`, `\.rows[2]!`, `\.self`} {
		root, components, ok := parseKeyPathText(text)
		if !ok {
			t.Fatalf("parseKeyPathText(%q) failed", text)
		}
		if got := ast.NewKeyPath(root, components).String(); got != text {
			t.Fatalf("round trip: expected %q, got %q", text, got)
		}
	}
}

func TestLowerVariableDeclarations(t *testing.T) {
	mod := lower(t,
		n("variable_declaration", syntax.Tok("let"), f("name", ident("x")), f("type", syntax.T("type_identifier", "Int")), f("value", lit(1))),
		n("variable_declaration", syntax.T("attribute", "@State"), syntax.Tok("private"), syntax.Tok("var"), f("name", ident("count")), f("value", lit(0))),
		n("variable_declaration", syntax.Tok("static"), syntax.Tok("var"), f("name", ident("shared")), f("value", lit("s"))),
		n("variable_declaration", syntax.Tok("var"), f("name", ident("body")), f("type", syntax.T("type_identifier", "some View")),
			f("computed", block(syntax.Call(ident("Text"), syntax.Arg("", lit("hi")))))),
	)

	x := ast.Let("x", ast.Int(1))
	x.TypeAnnotation = "Int"
	shared := ast.Var("shared", "", ast.Str("s"))
	shared.IsStatic = true
	expected := ast.Mod(
		x,
		ast.State("count", "", ast.Int(0)),
		shared,
		ast.Computed("body", "some View", ast.Expr(ast.CallN("Text", ast.Str("hi")))),
	)
	assertModulesEqual(t, expected, mod)
}

func TestLowerFunctionDeclaration(t *testing.T) {
	mod := lower(t, n("function_declaration",
		f("name", ident("greet")),
		n("parameter", f("label", ident("_")), f("name", ident("name")), f("type", syntax.T("type_identifier", "String"))),
		n("parameter", f("name", ident("times")), f("type", syntax.T("type_identifier", "Int")), f("default", lit(1))),
		f("return_type", syntax.T("type_identifier", "String")),
		f("body", block(n("return_statement", f("value", ident("name"))))),
	))

	fn := ast.NewFunction("greet", []*ast.Parameter{
		ast.Param("", "name", "String", nil),
		ast.Param("times", "times", "Int", ast.Int(1)),
	}, "String", []ast.Statement{ast.Ret(ast.ID("name"))})
	expected := ast.Mod(ast.NewBinding("greet", "", ast.NewFunctionLiteral(fn)))
	assertModulesEqual(t, expected, mod)
}

func TestLowerStructSynthesizesInitializer(t *testing.T) {
	mod := lower(t, n("struct_declaration",
		f("name", ident("Point")),
		f("inheritance", syntax.T("type_identifier", "View")),
		f("body", n("struct_body",
			n("variable_declaration", syntax.Tok("var"), f("name", ident("x")), f("type", syntax.T("type_identifier", "Int"))),
			n("variable_declaration", syntax.Tok("var"), f("name", ident("y")), f("type", syntax.T("type_identifier", "Int")), f("value", lit(0))),
			n("variable_declaration", syntax.Tok("let"), f("name", ident("kind")), f("value", lit("p"))),
		)),
	))

	x := ast.Var("x", "Int", nil)
	y := ast.Var("y", "Int", ast.Int(0))
	kind := ast.Let("kind", ast.Str("p"))
	init := ast.NewFunction("init", []*ast.Parameter{
		ast.Param("x", "x", "Int", nil),
		ast.Param("y", "y", "Int", ast.Int(0)),
	}, "", []ast.Statement{
		ast.Assign(ast.Member(ast.ID("self"), "x"), ast.ID("x")),
		ast.Assign(ast.Member(ast.ID("self"), "y"), ast.ID("y")),
	})
	def := ast.Struct("Point", x, y, kind, ast.NewBinding("init", "", ast.NewFunctionLiteral(init)))
	def.Inherits = []string{"View"}
	def.Synthesized = true
	assertModulesEqual(t, ast.Mod(ast.TypeDecl(def)), mod)
}

func TestLowerStructKeepsExplicitInitializer(t *testing.T) {
	mod := lower(t, n("struct_declaration",
		f("name", ident("Box")),
		f("body", n("struct_body",
			n("variable_declaration", syntax.Tok("var"), f("name", ident("v")), f("type", syntax.T("type_identifier", "Int"))),
			n("initializer_declaration",
				n("parameter", f("name", ident("value")), f("type", syntax.T("type_identifier", "Int"))),
				f("body", block(seq(syntax.Member(ident("self"), "v"), syntax.T("assignment_operator", "="), ident("value")))),
			),
		)),
	))
	def, ok := mod.Bindings()[0].Definition()
	if !ok {
		t.Fatalf("expected definition binding")
	}
	if def.Synthesized {
		t.Fatalf("explicit init must not be replaced")
	}
	init, ok := def.Initializer()
	if !ok || len(init.Params) != 1 || init.Params[0].Label != "value" {
		t.Fatalf("unexpected initializer %#v", init)
	}
	if _, ok := init.Body[0].(*ast.AssignmentStatement); !ok {
		t.Fatalf("expected assignment body, got %T", init.Body[0])
	}
}

func TestLowerEnumDeclaration(t *testing.T) {
	mod := lower(t, n("enum_declaration",
		f("name", ident("Shape")),
		f("body", n("enum_body",
			n("enum_case", f("name", ident("square")), f("name", ident("circle")),
				f("associated", n("enum_associated_value", f("label", ident("radius")), f("type", syntax.T("type_identifier", "Double"))))),
			n("enum_case", f("name", ident("none")), f("raw_value", lit(0))),
		)),
	))

	def := ast.NewDefinition("Shape", ast.DefinitionEnum)
	def.Cases = []*ast.EnumCase{
		{Name: "square"},
		{Name: "circle", AssociatedNames: []string{"radius"}},
		{Name: "none", RawValue: ast.Int(0)},
	}
	assertModulesEqual(t, ast.Mod(ast.TypeDecl(def)), mod)
}

func TestLowerCallsWithTrailingClosures(t *testing.T) {
	closure := n("closure_expression", f("body", block(
		seq(ident("count"), syntax.T("assignment_operator", "+="), lit(1)),
	)))
	label := n("closure_expression", f("body", block(syntax.Call(ident("Text"), syntax.Arg("", lit("Go"))))))
	node := syntax.Call(ident("Button"),
		syntax.Arg("action", ident("noop")),
		n("trailing_closure", f("value", closure)),
		n("trailing_closure", f("label", ident("label")), f("value", label)),
	)

	expected := ast.CallExpr(ast.ID("Button"),
		ast.Arg("action", ast.ID("noop")),
		ast.Arg("", ast.Closure(nil, ast.Assign(ast.ID("count"), ast.Bin("+", ast.ID("count"), ast.Int(1))))),
		ast.Arg("label", ast.Closure(nil, ast.Expr(ast.CallN("Text", ast.Str("Go"))))),
	)
	assertExpression(t, expected, node)
}

func TestLowerClosureParameters(t *testing.T) {
	node := n("closure_expression",
		n("closure_parameter", f("name", ident("item"))),
		f("body", block(syntax.Member(ident("item"), "name"))),
	)
	expected := ast.Closure([]*ast.Parameter{ast.Param("", "item", "", nil)}, ast.Expr(ast.Member(ast.ID("item"), "name")))
	assertExpression(t, expected, node)
}

func TestLowerControlFlow(t *testing.T) {
	mod := lower(t,
		n("if_statement",
			f("condition", seq(ident("a"), op(">"), lit(1))),
			f("body", block(n("return_statement", f("value", lit(1))))),
			f("else", n("if_statement",
				f("condition", ident("b")),
				f("body", block(n("return_statement", f("value", lit(2))))),
			)),
		),
		n("if_statement",
			f("condition", n("optional_binding", f("name", ident("v")), f("value", ident("maybe")))),
			f("body", block(ident("v"))),
		),
		n("if_statement",
			f("condition", n("optional_binding", f("name", ident("maybe")))),
			f("body", block()),
		),
		n("for_statement",
			f("variable", ident("i")),
			f("sequence", seq(lit(0), op("..<"), lit(3))),
			f("body", block(seq(ident("total"), syntax.T("assignment_operator", "+="), ident("i")))),
		),
	)

	expected := ast.Mod(
		ast.If(ast.Bin(">", ast.ID("a"), ast.Int(1)),
			ast.Block(ast.Ret(ast.Int(1))),
			ast.Block(ast.If(ast.ID("b"), ast.Block(ast.Ret(ast.Int(2))), nil)),
		),
		ast.IfLet("v", ast.ID("maybe"), ast.Block(ast.Expr(ast.ID("v"))), nil),
		ast.IfLet("maybe", ast.ID("maybe"), []ast.Statement{}, nil),
		ast.ForIn("i", ast.Bin("..<", ast.Int(0), ast.Int(3)),
			ast.Assign(ast.ID("total"), ast.Bin("+", ast.ID("total"), ast.ID("i"))),
		),
	)
	assertModulesEqual(t, expected, mod)
}

func TestLowerSwitch(t *testing.T) {
	mod := lower(t, n("switch_statement",
		f("subject", ident("shape")),
		n("switch_case",
			f("pattern", n("enum_case_pattern", f("name", ident(".circle")), f("binding", ident("r")))),
			f("guard", seq(ident("r"), op(">"), lit(0))),
			f("body", block(n("return_statement", f("value", ident("r"))))),
		),
		n("switch_case",
			f("pattern", lit(1)),
			f("pattern", n("wildcard_pattern")),
			f("body", block(n("return_statement", f("value", lit(0))))),
		),
		n("default_case", syntax.Tok("default"), block(n("return_statement", f("value", lit(-1))))),
	))

	circle := ast.NewSwitchCase(
		[]*ast.CasePattern{ast.NewEnumCasePattern("circle", []string{"r"})},
		ast.Bin(">", ast.ID("r"), ast.Int(0)),
		ast.Block(ast.Ret(ast.ID("r"))),
	)
	expected := ast.Mod(ast.Switch(ast.ID("shape"),
		circle,
		ast.Case([]*ast.CasePattern{ast.NewValuePattern(ast.Int(1)), ast.NewWildcardPattern()}, ast.Ret(ast.Int(0))),
		ast.Default(ast.Ret(ast.Int(-1))),
	))
	assertModulesEqual(t, expected, mod)
}

func TestLowerIfExpressionBecomesInvokedClosure(t *testing.T) {
	node := syntax.Call(ident("Text"), syntax.Arg("", n("if_statement",
		f("condition", ident("on")),
		f("body", block(lit("On"))),
		f("else", block(lit("Off"))),
	)))
	branch := ast.If(ast.ID("on"), ast.Block(ast.Expr(ast.Str("On"))), ast.Block(ast.Expr(ast.Str("Off"))))
	expected := ast.CallN("Text", ast.NewCall(ast.Closure(nil, branch), nil))
	assertExpression(t, expected, node)
}

func TestLowerUnrecognisedSyntax(t *testing.T) {
	mod := lower(t,
		syntax.T("defer_statement", "defer {}"),
		syntax.Call(ident("f"), syntax.Arg("", syntax.T("regex_literal", "/a+/"))),
		syntax.T("comment", "// skipped"),
	)
	expected := ast.Mod(
		ast.NewUnhandledStatement("defer_statement", "defer {}"),
		ast.Expr(ast.CallN("f", ast.NewUnknown("regex_literal", "/a+/"))),
	)
	assertModulesEqual(t, expected, mod)
}

func TestLowerKindAliases(t *testing.T) {
	root := syntax.Source(n("value_declaration", syntax.Tok("let"), f("name", ident("x")), f("value", lit(1))))
	mod, err := LowerModule(root, WithKindAliases(map[string]string{"value_declaration": "variable_declaration"}))
	if err != nil {
		t.Fatalf("LowerModule error: %v", err)
	}
	assertModulesEqual(t, ast.Mod(ast.Let("x", ast.Int(1))), mod)
}

func TestLowerSpansAreOneBased(t *testing.T) {
	node := ident("x")
	node.Start = syntax.Point{Row: 2, Column: 4}
	node.End = syntax.Point{Row: 2, Column: 5}
	mod := lower(t, node)
	span := mod.Body[0].(*ast.ExpressionStatement).Expression.Span()
	if span.Start.Line != 3 || span.Start.Column != 5 || span.End.Column != 6 {
		t.Fatalf("unexpected span %+v", span)
	}
}

func TestLowerFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatalf("glob error: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read error: %v", err)
			}
			root, err := syntax.ParseYAML(data)
			if err != nil {
				t.Fatalf("ParseYAML error: %v", err)
			}
			mod, err := LowerModule(root)
			if err != nil {
				t.Fatalf("LowerModule error: %v", err)
			}
			for _, stmt := range mod.Body {
				if u, ok := stmt.(*ast.UnhandledStatement); ok {
					t.Fatalf("unhandled %s at %+v", u.Kind, u.Span())
				}
			}
			if len(mod.Bindings()) == 0 {
				t.Fatalf("fixture declares nothing")
			}
		})
	}
}
