package hostkit

import (
	"strings"
	"testing"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/interpreter"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/reactive"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func newInterpreter(t *testing.T, stmts ...ast.Statement) *interpreter.Interpreter {
	t.Helper()
	interp := interpreter.New(interpreter.WithRegistry(NewRegistry()))
	if _, err := interp.EvaluateModule(ast.Mod(stmts...)); err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return interp
}

func evalNodes(t *testing.T, interp *interpreter.Interpreter, expr ast.Expression) []*Node {
	t.Helper()
	val, err := interp.Evaluate(expr)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	nodes, err := Nodes(val)
	if err != nil {
		t.Fatalf("Nodes error: %v", err)
	}
	return nodes
}

func coordinate(t *testing.T, interp *interpreter.Interpreter, view string) *reactive.Coordinator {
	t.Helper()
	c := reactive.NewCoordinator(func(store interpreter.StateStore) (runtime.Value, error) {
		return interp.RenderView(view, store)
	})
	if _, err := c.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return c
}

func treeNodes(t *testing.T, c *reactive.Coordinator) []*Node {
	t.Helper()
	nodes, err := Nodes(c.Tree())
	if err != nil {
		t.Fatalf("Nodes error: %v", err)
	}
	return nodes
}

func counterView() *ast.Definition {
	increment := ast.Closure(nil, ast.Assign(ast.ID("count"), ast.Bin("+", ast.ID("count"), ast.Int(1))))
	button := ast.CallExpr(ast.ID("Button"), ast.Arg("", ast.Str("Increment")), ast.Arg("", increment))
	content := ast.Closure(nil,
		ast.Expr(ast.CallN("Text", ast.Interp(ast.Str("Count: "), ast.ID("count")))),
		ast.Expr(ast.CallExpr(ast.Member(button, "padding"), ast.Arg("", ast.Int(8)))),
	)
	return ast.Struct("CounterView",
		ast.State("count", "Int", ast.Int(0)),
		ast.Computed("body", "some View", ast.Expr(ast.CallExpr(ast.ID("VStack"), ast.Arg("", content)))),
	)
}

func TestCounterTapRerenders(t *testing.T) {
	interp := newInterpreter(t, ast.TypeDecl(counterView()))
	c := coordinate(t, interp, "CounterView")

	nodes := treeNodes(t, c)
	if text := FindKind(nodes, "Text"); text == nil || text.Props["text"] != "Count: 0" {
		t.Fatalf("unexpected initial tree:\n%s", Outline(nodes))
	}
	button := FindKind(nodes, "Button")
	if button == nil {
		t.Fatalf("no button in tree:\n%s", Outline(nodes))
	}
	if m, ok := button.Modifier("padding"); !ok || m.Args["length"] != float64(8) {
		t.Fatalf("expected padding(8), got %+v", button.Modifiers)
	}
	if err := Fire(interp, button, ActionTap); err != nil {
		t.Fatalf("tap failed: %v", err)
	}
	if err := Fire(interp, button, ActionTap); err != nil {
		t.Fatalf("tap failed: %v", err)
	}
	nodes = treeNodes(t, c)
	if text := FindKind(nodes, "Text"); text.Props["text"] != "Count: 2" {
		t.Fatalf("expected updated count, got:\n%s", Outline(nodes))
	}
	if c.Renders() != 3 {
		t.Fatalf("expected 3 renders, got %d", c.Renders())
	}
}

func TestToggleWritesThroughBinding(t *testing.T) {
	view := ast.Struct("SettingsView",
		ast.State("wifi", "Bool", ast.Bool(false)),
		ast.Computed("body", "some View", ast.Expr(ast.CallExpr(ast.ID("Toggle"),
			ast.Arg("", ast.Str("Wi-Fi")), ast.Arg("isOn", ast.Ref("wifi"))))),
	)
	interp := newInterpreter(t, ast.TypeDecl(view))
	c := coordinate(t, interp, "SettingsView")
	toggle := FindKind(treeNodes(t, c), "Toggle")
	if toggle == nil || toggle.Props["isOn"] != false {
		t.Fatalf("unexpected toggle %+v", toggle)
	}
	if err := Fire(interp, toggle, ActionToggle); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	toggle = FindKind(treeNodes(t, c), "Toggle")
	if toggle.Props["isOn"] != true {
		t.Fatalf("expected toggle on, got %+v", toggle.Props)
	}
	cell, ok := c.Cell("SettingsView.wifi")
	if !ok || !runtime.Equal(cell.Read(), runtime.BoolValue{Val: true}) {
		t.Fatalf("state cell not updated")
	}
}

func TestTextFieldEditsBinding(t *testing.T) {
	view := ast.Struct("NameView",
		ast.State("name", "String", ast.Str("")),
		ast.Computed("body", "some View", ast.Expr(ast.CallExpr(ast.ID("VStack"), ast.Arg("", ast.Closure(nil,
			ast.Expr(ast.CallExpr(ast.ID("TextField"), ast.Arg("", ast.Str("Name")), ast.Arg("text", ast.Ref("name")))),
			ast.Expr(ast.CallN("Text", ast.Interp(ast.Str("Hello, "), ast.ID("name")))),
		))))),
	)
	interp := newInterpreter(t, ast.TypeDecl(view))
	c := coordinate(t, interp, "NameView")
	field := FindKind(treeNodes(t, c), "TextField")
	if err := Fire(interp, field, ActionEdit, runtime.StringValue{Val: "Ada"}); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if text := FindKind(treeNodes(t, c), "Text"); text.Props["text"] != "Hello, Ada" {
		t.Fatalf("expected edited text, got %v", text.Props)
	}
	if err := Fire(interp, field, ActionEdit, runtime.IntValue{Val: 1}); err == nil {
		t.Fatalf("expected edit with Int to fail")
	}
}

func TestModifiersRecordArguments(t *testing.T) {
	interp := newInterpreter(t)
	text := ast.CallExpr(ast.Member(
		ast.CallExpr(ast.Member(
			ast.CallExpr(ast.Member(ast.CallN("Text", ast.Str("hi")), "padding"), ast.Arg("", ast.Dot("horizontal")), ast.Arg("", ast.Int(4))),
			"foregroundColor"), ast.Arg("", ast.Dot("red"))),
		"frame"), ast.Arg("width", ast.Int(100)))
	nodes := evalNodes(t, interp, text)
	if len(nodes) != 1 {
		t.Fatalf("expected one node, got %d", len(nodes))
	}
	node := nodes[0]
	cases := []struct {
		name string
		args map[string]any
	}{
		{"padding", map[string]any{"edges": "horizontal", "length": float64(4)}},
		{"foregroundColor", map[string]any{"value": "red"}},
		{"frame", map[string]any{"width": float64(100)}},
	}
	if len(node.Modifiers) != len(cases) {
		t.Fatalf("expected %d modifiers, got %+v", len(cases), node.Modifiers)
	}
	for i, tc := range cases {
		m := node.Modifiers[i]
		if m.Name != tc.name || len(m.Args) != len(tc.args) {
			t.Fatalf("modifier %d: expected %s%v, got %s%v", i, tc.name, tc.args, m.Name, m.Args)
		}
		for k, want := range tc.args {
			if m.Args[k] != want {
				t.Fatalf("modifier %s arg %s: expected %v, got %v", m.Name, k, want, m.Args[k])
			}
		}
	}
}

func TestColorStaticsAndBackground(t *testing.T) {
	interp := newInterpreter(t)
	nodes := evalNodes(t, interp, ast.Member(ast.ID("Color"), "blue"))
	if nodes[0].Kind != "Color" || nodes[0].Props["name"] != "blue" {
		t.Fatalf("unexpected color node %+v", nodes[0])
	}
	nodes = evalNodes(t, interp, ast.CallExpr(ast.Member(ast.CallN("Text", ast.Str("x")), "background"),
		ast.Arg("", ast.Member(ast.ID("Color"), "red"))))
	m, ok := nodes[0].Modifier("background")
	if !ok {
		t.Fatalf("missing background modifier")
	}
	bg, ok := m.Args["value"].(map[string]any)
	if !ok || bg["kind"] != "Color" {
		t.Fatalf("unexpected background %#v", m.Args["value"])
	}
}

func TestForEachPassesItems(t *testing.T) {
	interp := newInterpreter(t)
	row := ast.Closure([]*ast.Parameter{ast.Param("", "item", "", nil)},
		ast.Expr(ast.CallN("Text", ast.CallExpr(ast.Member(ast.ID("item"), "uppercased")))))
	nodes := evalNodes(t, interp, ast.CallExpr(ast.ID("ForEach"), ast.Arg("", ast.Arr(ast.Str("a"), ast.Str("b"))), ast.Arg("", row)))
	each := nodes[0]
	if each.Kind != "ForEach" || len(each.Children) != 2 {
		t.Fatalf("unexpected ForEach:\n%s", Outline(nodes))
	}
	for i, want := range []string{"A", "B"} {
		if got := each.Children[i].Props["text"]; got != want {
			t.Fatalf("child %d: expected %q, got %v", i, want, got)
		}
	}

	_, err := interp.Evaluate(ast.CallExpr(ast.ID("ForEach"), ast.Arg("", ast.Int(3)), ast.Arg("", row)))
	if err == nil {
		t.Fatalf("expected ForEach over Int to fail")
	}
}

func TestStackOverloadsAndOutline(t *testing.T) {
	interp := newInterpreter(t)
	stack := ast.CallExpr(ast.ID("HStack"), ast.Arg("spacing", ast.Int(4)), ast.Arg("", ast.Closure(nil,
		ast.Expr(ast.CallExpr(ast.ID("Image"), ast.Arg("systemName", ast.Str("star")))),
		ast.Expr(ast.CallN("Spacer")),
		ast.Expr(ast.CallN("Text", ast.Int(3))),
	)))
	nodes := evalNodes(t, interp, stack)
	want := "HStack spacing=4\n  Image systemName=star\n  Spacer\n  Text text=3\n"
	if got := Outline(nodes); got != want {
		t.Fatalf("unexpected outline:\n%s\nwant:\n%s", got, want)
	}
	scroll := evalNodes(t, interp, ast.CallExpr(ast.ID("ScrollView"), ast.Arg("", ast.Dot("horizontal")),
		ast.Arg("", ast.Closure(nil, ast.Expr(ast.CallN("Divider"))))))
	if scroll[0].Props["axes"] != "horizontal" || len(scroll[0].Children) != 1 {
		t.Fatalf("unexpected scroll view:\n%s", Outline(scroll))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	interp := newInterpreter(t, ast.TypeDecl(counterView()))
	val, err := interp.RenderView("CounterView", nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	nodes, err := Nodes(val)
	if err != nil {
		t.Fatalf("Nodes error: %v", err)
	}
	data, err := Encode(nodes)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !Equal(nodes, decoded) {
		t.Fatalf("round trip changed the tree:\n%s\nvs\n%s", Outline(nodes), Outline(decoded))
	}
	if button := FindKind(decoded, "Button"); button == nil || button.Actions != nil {
		t.Fatalf("actions must not cross the wire")
	}
	FindKind(decoded, "Text").Props["text"] = "changed"
	if Equal(nodes, decoded) {
		t.Fatalf("expected modified tree to differ")
	}
}

func TestNodesRejectsNonViews(t *testing.T) {
	if _, err := Nodes(runtime.IntValue{Val: 1}); err == nil || !strings.Contains(err.Error(), "not a view") {
		t.Fatalf("expected not-a-view error, got %v", err)
	}
	nodes, err := Nodes(runtime.StringValue{Val: "plain"})
	if err != nil || len(nodes) != 1 || nodes[0].Props["text"] != "plain" {
		t.Fatalf("expected string to become Text, got %v (%v)", nodes, err)
	}
}
