package builder

import (
	"errors"
	"strings"
	"testing"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

type label struct {
	text string
	size float64
}

func textRegistry() *Registry {
	reg := NewRegistry()
	reg.RegisterValue("Text",
		Definition{
			Params: []Param{{Name: "content", Type: "String"}},
			Build: func(call *Call) (runtime.Value, error) {
				text, err := call.String("content")
				if err != nil {
					return nil, err
				}
				return runtime.HostNodeValue{Node: label{text: text}}, nil
			},
		},
		Definition{
			Params: []Param{{Name: "value", Type: "Int"}},
			Build: func(call *Call) (runtime.Value, error) {
				n, err := call.Int("value")
				if err != nil {
					return nil, err
				}
				if n < 0 {
					return nil, runtime.Errorf(runtime.InvalidArgument, "negative label %d", n)
				}
				return runtime.HostNodeValue{Node: label{text: "#"}}, nil
			},
		},
	)
	reg.RegisterMethod("font", Definition{
		Params: []Param{{Label: "size", Name: "size", Type: "Double", Default: runtime.DoubleValue{Val: 17}}},
		Build: func(call *Call) (runtime.Value, error) {
			node, ok := call.Receiver.(runtime.HostNodeValue)
			if !ok {
				return nil, runtime.Errorf(runtime.InvalidArgument, "font needs a view")
			}
			lbl := node.Node.(label)
			lbl.size, _ = call.Double("size")
			return runtime.HostNodeValue{Node: lbl}, nil
		},
	})
	return reg
}

func TestRegistryFirstMatchingOverloadWins(t *testing.T) {
	reg := textRegistry()
	val, err := reg.BuildValue("Text", []runtime.Argument{{Value: runtime.StringValue{Val: "hi"}}}, Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(runtime.HostNodeValue).Node.(label).text; got != "hi" {
		t.Fatalf("unexpected label %q", got)
	}
	val, err = reg.BuildValue("Text", []runtime.Argument{{Value: runtime.IntValue{Val: 3}}}, Context{})
	if err != nil {
		t.Fatalf("second overload should accept ints: %v", err)
	}
	if got := val.(runtime.HostNodeValue).Node.(label).text; got != "#" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestRegistrySurfacesLastOverloadError(t *testing.T) {
	reg := textRegistry()
	_, err := reg.BuildValue("Text", []runtime.Argument{{Value: runtime.IntValue{Val: -1}}}, Context{})
	if err == nil || !strings.Contains(err.Error(), "negative label -1") {
		t.Fatalf("expected last overload error, got %v", err)
	}
	if !errors.Is(err, runtime.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument kind, got %v", err)
	}
	if _, err := reg.BuildValue("Image", nil, Context{}); !errors.Is(err, runtime.ErrUnknownFunction) {
		t.Fatalf("expected unknown function, got %v", err)
	}
}

func TestRegistryMethodDefaultsAndWidening(t *testing.T) {
	reg := textRegistry()
	receiver := runtime.HostNodeValue{Node: label{text: "a"}}
	val, err := reg.ApplyMethod("font", receiver, nil, Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(runtime.HostNodeValue).Node.(label).size; got != 17 {
		t.Fatalf("expected default size 17, got %v", got)
	}
	val, err = reg.ApplyMethod("font", receiver, []runtime.Argument{{Label: "size", Value: runtime.IntValue{Val: 12}}}, Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(runtime.HostNodeValue).Node.(label).size; got != 12 {
		t.Fatalf("expected widened size 12, got %v", got)
	}
	if !reg.HasMethod("font") || reg.HasMethod("padding") || !reg.HasValue("Text") {
		t.Fatalf("registry lookups disagree")
	}
}

func TestAccepts(t *testing.T) {
	if _, ok := Accepts("String?", runtime.Void); !ok {
		t.Fatalf("optional parameters accept void")
	}
	if _, ok := Accepts("String", runtime.Void); ok {
		t.Fatalf("required parameters reject void")
	}
	if v, ok := Accepts("CGFloat", runtime.IntValue{Val: 2}); !ok || v != (runtime.DoubleValue{Val: 2}) {
		t.Fatalf("expected widening, got %#v %v", v, ok)
	}
	if _, ok := Accepts("Bool", runtime.StringValue{Val: "true"}); ok {
		t.Fatalf("strings are not bools")
	}
}

func TestRegistryNames(t *testing.T) {
	reg := textRegistry()
	reg.RegisterValue("Image", Definition{})
	if got := strings.Join(reg.ValueNames(), ","); got != "Image,Text" {
		t.Fatalf("unexpected value names %q", got)
	}
	if got := strings.Join(reg.MethodNames(), ","); got != "font" {
		t.Fatalf("unexpected method names %q", got)
	}
}
