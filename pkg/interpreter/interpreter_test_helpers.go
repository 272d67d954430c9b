package interpreter

import (
	"testing"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/builder"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// testNode is the host node produced by the registry in these tests.
type testNode struct {
	kind     string
	title    string
	bold     bool
	action   runtime.Value
	children []runtime.Value
}

func testRegistry() *builder.Registry {
	reg := builder.NewRegistry()
	reg.RegisterValue("Text", builder.Definition{
		Params: []builder.Param{{Name: "content", Type: "String"}},
		Build: func(c *builder.Call) (runtime.Value, error) {
			title, err := c.String("content")
			if err != nil {
				return nil, err
			}
			return runtime.HostNodeValue{Node: &testNode{kind: "Text", title: title}}, nil
		},
	})
	reg.RegisterValue("Button", builder.Definition{
		Params: []builder.Param{{Name: "title", Type: "String"}, {Label: "action", Name: "action", Type: "Function"}},
		Build: func(c *builder.Call) (runtime.Value, error) {
			title, err := c.String("title")
			if err != nil {
				return nil, err
			}
			return runtime.HostNodeValue{Node: &testNode{kind: "Button", title: title, action: c.Value("action")}}, nil
		},
	})
	reg.RegisterValue("VStack", builder.Definition{
		Params: []builder.Param{{Label: "content", Name: "content", Type: "Function"}},
		Build: func(c *builder.Call) (runtime.Value, error) {
			children, err := c.Children("content")
			if err != nil {
				return nil, err
			}
			return runtime.HostNodeValue{Node: &testNode{kind: "VStack", children: children}}, nil
		},
	})
	reg.RegisterMethod("bold", builder.Definition{
		Build: func(c *builder.Call) (runtime.Value, error) {
			host, ok := c.Receiver.(runtime.HostNodeValue)
			if !ok {
				return nil, runtime.Errorf(runtime.InvalidArgument, "bold expects a view")
			}
			node := *host.Node.(*testNode)
			node.bold = true
			return runtime.HostNodeValue{Node: &node}, nil
		},
	})
	return reg
}

// memoryStore is a StateStore backed by a map.
type memoryStore struct {
	values map[string]runtime.Value
	writes []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]runtime.Value)}
}

func (m *memoryStore) Load(id string, initial runtime.Value) runtime.Value {
	if v, ok := m.values[id]; ok {
		return v
	}
	m.values[id] = initial
	return initial
}

func (m *memoryStore) Store(id string, value runtime.Value) {
	m.values[id] = value
	m.writes = append(m.writes, id)
}

// memberwise appends the initializer the lowering synthesizes for
// definitions that declare none.
func memberwise(def *ast.Definition) *ast.Definition {
	var (
		params []*ast.Parameter
		body   []ast.Statement
	)
	for _, prop := range def.StoredProperties() {
		params = append(params, ast.Param(prop.Name, prop.Name, prop.TypeAnnotation, prop.Initializer))
		body = append(body, ast.Assign(ast.Member(ast.ID("self"), prop.Name), ast.ID(prop.Name)))
	}
	def.Instance = append(def.Instance, ast.FuncDecl("init", params, body...))
	def.Synthesized = true
	return def
}

func mustEvaluate(t *testing.T, interp *Interpreter, stmts ...ast.Statement) []runtime.Value {
	t.Helper()
	values, err := interp.EvaluateModule(ast.Mod(stmts...))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return values
}

func mustEvaluateExpr(t *testing.T, interp *Interpreter, expr ast.Expression) runtime.Value {
	t.Helper()
	val, err := interp.Evaluate(expr)
	if err != nil {
		t.Fatalf("evaluation of %s failed: %v", expr.NodeType(), err)
	}
	return val
}

func expectErrorKind(t *testing.T, err error, kind runtime.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	got, ok := runtime.KindOf(err)
	if !ok || got != kind {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

func expectValue(t *testing.T, want, got runtime.Value) {
	t.Helper()
	if !runtime.Equal(want, got) || want.Kind() != got.Kind() {
		t.Fatalf("expected %s (%s), got %s (%s)", runtime.DebugDescribe(want), want.Kind(), runtime.DebugDescribe(got), got.Kind())
	}
}

func ints(values ...int64) runtime.ArrayValue {
	out := make([]runtime.Value, len(values))
	for i, v := range values {
		out[i] = runtime.IntValue{Val: v}
	}
	return runtime.NewArray(out...)
}

func strVal(s string) runtime.StringValue {
	return runtime.StringValue{Val: s}
}
