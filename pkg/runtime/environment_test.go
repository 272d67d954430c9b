package runtime

import (
	"errors"
	"testing"
)

func TestScopeShadowing(t *testing.T) {
	root := NewModuleScope()
	root.Define("x", IntValue{Val: 1})
	child := root.Child()
	child.Define("x", IntValue{Val: 2})

	val, err := child.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(IntValue).Val; got != 2 {
		t.Fatalf("expected child value 2, got %d", got)
	}
	val, _ = root.Get("x")
	if got := val.(IntValue).Val; got != 1 {
		t.Fatalf("expected root value 1, got %d", got)
	}
}

func TestScopeSetMutatesNearestDefiningScope(t *testing.T) {
	root := NewModuleScope()
	root.Define("x", IntValue{Val: 1})
	middle := root.Child()
	middle.Define("x", IntValue{Val: 2})
	leaf := middle.Child()

	if err := leaf.Set("x", IntValue{Val: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := middle.Lookup("x"); v.(IntValue).Val != 3 {
		t.Fatalf("expected middle scope to change, got %#v", v)
	}
	if v, _ := root.Lookup("x"); v.(IntValue).Val != 1 {
		t.Fatalf("expected root scope untouched, got %#v", v)
	}
	if leaf.Has("x") {
		t.Fatalf("set must not define in the leaf scope")
	}
}

func TestScopeSetUnknownIdentifier(t *testing.T) {
	scope := NewModuleScope()
	err := scope.Set("missing", IntValue{Val: 1})
	if !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected unknown identifier, got %v", err)
	}
	if _, err := scope.Get("missing"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected unknown identifier on get, got %v", err)
	}
}

func TestScopeSetTypeMismatchLeavesValue(t *testing.T) {
	scope := NewModuleScope()
	scope.Define("name", StringValue{Val: "a"})

	err := scope.Set("name", IntValue{Val: 5})
	if !errors.Is(err, ErrUnsupportedAssignment) {
		t.Fatalf("expected unsupported assignment, got %v", err)
	}
	val, _ := scope.Get("name")
	if str, ok := val.(StringValue); !ok || str.Val != "a" {
		t.Fatalf("expected original value to survive, got %#v", val)
	}

	if err := scope.Set("name", Void); err != nil {
		t.Fatalf("void assignment should be accepted: %v", err)
	}
	if err := scope.Set("name", IntValue{Val: 5}); err != nil {
		t.Fatalf("assignment into a void slot should be accepted: %v", err)
	}
}

func TestInstanceScopeHookLastRegistrationWins(t *testing.T) {
	scope := NewScope(ScopeInstance, nil)
	scope.Define("count", IntValue{Val: 0})

	var first, second int
	scope.SetMutationHook(func() { first++ })
	scope.SetMutationHook(func() { second++ })

	if err := scope.Set("count", IntValue{Val: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scope.Define("other", BoolValue{Val: true})
	if first != 0 || second != 2 {
		t.Fatalf("expected only the latest hook to fire twice, got first=%d second=%d", first, second)
	}

	frame := NewScope(ScopeFrame, nil)
	frame.SetMutationHook(func() { t.Fatalf("frame scopes never notify") })
	frame.Define("x", IntValue{Val: 1})
}

func TestScopeNearest(t *testing.T) {
	module := NewModuleScope()
	instance := NewScope(ScopeInstance, module)
	frame := instance.Child()
	if frame.Nearest(ScopeInstance) != instance {
		t.Fatalf("expected to find the instance scope")
	}
	if frame.Nearest(ScopeType) != nil {
		t.Fatalf("expected no type scope")
	}
	if got := module.Kind().String(); got != "module" {
		t.Fatalf("unexpected kind name %q", got)
	}
}

func TestScopeKeysAndSnapshot(t *testing.T) {
	root := NewModuleScope()
	root.Define("b", IntValue{Val: 2})
	root.Define("a", IntValue{Val: 1})
	child := root.Child()
	child.Define("c", IntValue{Val: 3})

	if got := root.Names(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("expected definition order [b a], got %v", got)
	}
	if got := root.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected sorted keys [a b], got %v", got)
	}
	snap := root.Snapshot()
	if len(snap) != 2 || snap["a"] != (IntValue{Val: 1}) {
		t.Fatalf("unexpected snapshot %v", snap)
	}
	snap["a"] = IntValue{Val: 9}
	if v, _ := root.Lookup("a"); v != (IntValue{Val: 1}) {
		t.Fatalf("snapshot must not alias the scope, got %v", v)
	}
}
