package interpreter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/parser"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

func counterDefinition() *ast.Definition {
	increment := ast.Closure(nil, ast.Assign(ast.ID("count"), ast.Bin("+", ast.ID("count"), ast.Int(1))))
	return memberwise(ast.Struct("CounterView",
		ast.State("count", "", ast.Int(0)),
		ast.Computed("body", "some View", ast.Expr(ast.CallExpr(ast.ID("Button"),
			ast.Arg("", ast.Interp(ast.Str("Count: "), ast.ID("count"))),
			ast.Arg("", increment),
		))),
	))
}

func renderButton(t *testing.T, interp *Interpreter, store StateStore) *testNode {
	t.Helper()
	val, err := interp.RenderView("CounterView", store)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	host, ok := val.(runtime.HostNodeValue)
	if !ok {
		t.Fatalf("expected host node, got %s", val.Kind())
	}
	return host.Node.(*testNode)
}

func TestRenderViewLinksStateToStore(t *testing.T) {
	interp := New(WithRegistry(testRegistry()))
	mustEvaluate(t, interp, ast.TypeDecl(counterDefinition()))
	store := newMemoryStore()

	button := renderButton(t, interp, store)
	if button.title != "Count: 0" {
		t.Fatalf("expected initial title, got %q", button.title)
	}
	expectValue(t, runtime.IntValue{Val: 0}, store.values["CounterView.count"])

	if _, err := interp.Invoke(button.action, nil); err != nil {
		t.Fatalf("action failed: %v", err)
	}
	if len(store.writes) != 1 || store.writes[0] != "CounterView.count" {
		t.Fatalf("expected one store write, got %v", store.writes)
	}
	expectValue(t, runtime.IntValue{Val: 1}, store.values["CounterView.count"])

	button = renderButton(t, interp, store)
	if button.title != "Count: 1" {
		t.Fatalf("expected re-rendered title, got %q", button.title)
	}
}

func TestRenderViewPrefersStoredValue(t *testing.T) {
	interp := New(WithRegistry(testRegistry()))
	mustEvaluate(t, interp, ast.TypeDecl(counterDefinition()))
	store := newMemoryStore()
	store.values["CounterView.count"] = runtime.IntValue{Val: 41}

	button := renderButton(t, interp, store)
	if button.title != "Count: 41" {
		t.Fatalf("expected stored value, got %q", button.title)
	}
	if len(store.writes) != 0 {
		t.Fatalf("render must not write state, got %v", store.writes)
	}
}

func TestRenderViewNumbersRepeatedInstances(t *testing.T) {
	pair := memberwise(ast.Struct("Pair",
		ast.Computed("body", "some View", ast.Expr(ast.CallExpr(ast.ID("VStack"), ast.Arg("", ast.Closure(nil,
			ast.Expr(ast.CallN("CounterView")),
			ast.Expr(ast.CallN("CounterView")),
		))))),
	))
	interp := New(WithRegistry(testRegistry()))
	mustEvaluate(t, interp, ast.TypeDecl(counterDefinition()), ast.TypeDecl(pair))
	store := newMemoryStore()
	if _, err := interp.RenderView("Pair", store); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, id := range []string{"CounterView.count", "CounterView#2.count"} {
		if _, ok := store.values[id]; !ok {
			t.Fatalf("expected state cell %s, got %v", id, store.values)
		}
	}
}

func TestRenderViewRejectsUnknownView(t *testing.T) {
	_, err := New().RenderView("Missing", newMemoryStore())
	expectErrorKind(t, err, runtime.UnknownIdentifier)
}

func TestRenderViewBoundsRecursion(t *testing.T) {
	loop := memberwise(ast.Struct("Loop",
		ast.Computed("body", "some View", ast.Expr(ast.CallN("Loop"))),
	))
	interp := New()
	mustEvaluate(t, interp, ast.TypeDecl(loop))
	_, err := interp.RenderView("Loop", nil)
	expectErrorKind(t, err, runtime.UnsupportedExpression)
}

func TestRenderLoweredCounterFixture(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "parser", "testdata", "counter.yaml"))
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	root, err := syntax.ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML error: %v", err)
	}
	mod, err := parser.LowerModule(root)
	if err != nil {
		t.Fatalf("LowerModule error: %v", err)
	}
	interp := New(WithRegistry(testRegistry()))
	if _, err := interp.EvaluateModule(mod); err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	store := newMemoryStore()
	render := func() *testNode {
		val, err := interp.RenderView("CounterView", store)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}
		return val.(runtime.HostNodeValue).Node.(*testNode)
	}

	stack := render()
	if stack.kind != "VStack" || len(stack.children) != 2 {
		t.Fatalf("unexpected tree %#v", stack)
	}
	text := stack.children[0].(runtime.HostNodeValue).Node.(*testNode)
	button := stack.children[1].(runtime.HostNodeValue).Node.(*testNode)
	if text.title != "Count: 0" || button.title != "Increment" {
		t.Fatalf("unexpected children %q, %q", text.title, button.title)
	}
	for n := 0; n < 2; n++ {
		if _, err := interp.Invoke(button.action, nil); err != nil {
			t.Fatalf("action failed: %v", err)
		}
	}
	text = render().children[0].(runtime.HostNodeValue).Node.(*testNode)
	if text.title != "Count: 2" {
		t.Fatalf("expected updated count, got %q", text.title)
	}
}
