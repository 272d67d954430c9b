package arguments

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func TestResolveLabelledOutOfOrder(t *testing.T) {
	params := []Param{{Label: "a", Name: "a"}, {Label: "b", Name: "b"}}
	slots, err := Resolve(params, []Arg{{Label: "b"}, {Label: "a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(slots, []int{1, 0}) {
		t.Fatalf("expected a<-1 b<-0, got %v", slots)
	}
}

func TestResolvePositional(t *testing.T) {
	params := []Param{{Label: "a", Name: "a"}, {Label: "b", Name: "b"}}
	slots, err := Resolve(params, []Arg{{}, {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(slots, []int{0, 1}) {
		t.Fatalf("expected positional binding, got %v", slots)
	}
}

func TestResolveDefaults(t *testing.T) {
	params := []Param{
		{Name: "title"},
		{Label: "spacing", Name: "spacing", HasDefault: true},
		{Label: "content", Name: "content"},
	}
	slots, err := Resolve(params, []Arg{{}, {IsFunction: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(slots, []int{0, UseDefault, 1}) {
		t.Fatalf("expected the closure to reach content, got %v", slots)
	}
}

func TestResolveLabelledDefaultSkipsUnlabelledValue(t *testing.T) {
	params := []Param{
		{Label: "alignment", Name: "alignment", HasDefault: true},
		{Name: "value"},
	}
	slots, err := Resolve(params, []Arg{{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(slots, []int{UseDefault, 0}) {
		t.Fatalf("expected default then positional, got %v", slots)
	}
}

func TestResolveTrailingClosureFillsLabelledParameter(t *testing.T) {
	params := []Param{
		{Label: "spacing", Name: "spacing", HasDefault: true},
		{Label: "content", Name: "content", HasDefault: true},
	}
	slots, err := Resolve(params, []Arg{{Label: "spacing"}, {IsFunction: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(slots, []int{0, 1}) {
		t.Fatalf("expected closure to bind content, got %v", slots)
	}
}

func TestResolveErrors(t *testing.T) {
	params := []Param{{Label: "a", Name: "a"}}

	if _, err := Resolve(params, nil); !errors.Is(err, runtime.ErrArgumentCountMismatch) {
		t.Fatalf("expected missing argument error, got %v", err)
	}
	if _, err := Resolve(params, []Arg{{Label: "a"}, {Label: "c"}}); !errors.Is(err, runtime.ErrInvalidArgument) {
		t.Fatalf("expected label mismatch, got %v", err)
	}
	if _, err := Resolve(params, []Arg{{}, {}}); !errors.Is(err, runtime.ErrArgumentCountMismatch) {
		t.Fatalf("expected extra argument error, got %v", err)
	}
}

func TestFromValues(t *testing.T) {
	args := FromValues([]runtime.Argument{
		{Label: "x", Value: runtime.IntValue{Val: 1}},
		{Value: &runtime.FunctionValue{}},
	})
	if args[0].Label != "x" || args[0].IsFunction || !args[1].IsFunction {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestResolveLabelIgnoresOtherParametersNames(t *testing.T) {
	// func f(from start: Int, start s: Int)
	params := []Param{{Label: "from", Name: "start"}, {Label: "start", Name: "s"}}
	cases := []struct {
		args []Arg
		want []int
	}{
		{[]Arg{{Label: "from"}, {Label: "start"}}, []int{0, 1}},
		{[]Arg{{Label: "start"}, {Label: "from"}}, []int{1, 0}},
	}
	for _, tc := range cases {
		slots, err := Resolve(params, tc.args)
		if err != nil {
			t.Fatalf("Resolve(%v) error: %v", tc.args, err)
		}
		if !reflect.DeepEqual(slots, tc.want) {
			t.Fatalf("Resolve(%v) = %v, want %v", tc.args, slots, tc.want)
		}
	}
}

func TestResolveInternalNameIsNotALabel(t *testing.T) {
	params := []Param{{Label: "fahrenheit", Name: "f"}}
	if _, err := Resolve(params, []Arg{{Label: "f"}}); !errors.Is(err, runtime.ErrInvalidArgument) && !errors.Is(err, runtime.ErrArgumentCountMismatch) {
		t.Fatalf("expected a label error, got %v", err)
	}
}

func TestResolveUnlabelledParameterAcceptsItsName(t *testing.T) {
	params := []Param{{Name: "content"}}
	slots, err := Resolve(params, []Arg{{Label: "content"}})
	if err != nil || !reflect.DeepEqual(slots, []int{0}) {
		t.Fatalf("expected content<-0, got %v (%v)", slots, err)
	}
}
