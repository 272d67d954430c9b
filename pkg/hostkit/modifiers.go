package hostkit

import (
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/builder"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// Action names stored on nodes.
const (
	ActionTap    = "tap"
	ActionToggle = "toggle"
	ActionEdit   = "edit"
)

func registerModifiers(reg *builder.Registry) {
	reg.RegisterMethod("padding",
		builder.Definition{Build: modifier("padding")},
		builder.Definition{Params: []builder.Param{required("", "length", "Double")}, Build: modifier("padding", "length")},
		builder.Definition{
			Params: []builder.Param{required("", "edges", ""), optional("", "length", "Double")},
			Build:  modifier("padding", "edges", "length"),
		},
	)
	for _, name := range []string{"font", "foregroundColor", "foregroundStyle", "background", "tint", "tag"} {
		reg.RegisterMethod(name, builder.Definition{
			Params: []builder.Param{required("", "value", "")},
			Build:  modifier(name, "value"),
		})
	}
	for _, name := range []string{"opacity", "cornerRadius", "blur", "scaleEffect"} {
		reg.RegisterMethod(name, builder.Definition{
			Params: []builder.Param{required("", "value", "Double")},
			Build:  modifier(name, "value"),
		})
	}
	for _, name := range []string{"bold", "italic", "underline"} {
		reg.RegisterMethod(name, builder.Definition{Build: modifier(name)})
	}
	reg.RegisterMethod("disabled", builder.Definition{
		Params: []builder.Param{required("", "value", "Bool")},
		Build:  modifier("disabled", "value"),
	})
	reg.RegisterMethod("navigationTitle", builder.Definition{
		Params: []builder.Param{required("", "value", "String")},
		Build:  modifier("navigationTitle", "value"),
	})
	frame := []string{"width", "height", "minWidth", "maxWidth", "minHeight", "maxHeight", "alignment"}
	frameParams := make([]builder.Param, len(frame))
	for i, name := range frame {
		typ := "Double"
		if name == "alignment" {
			typ = ""
		}
		frameParams[i] = optional(name, name, typ)
	}
	reg.RegisterMethod("frame", builder.Definition{Params: frameParams, Build: modifier("frame", frame...)})
	reg.RegisterMethod("onTapGesture", builder.Definition{
		Params: []builder.Param{optional("count", "count", "Int"), required("perform", "perform", "Function")},
		Build: func(c *builder.Call) (runtime.Value, error) {
			node, err := receiverNode(c, "onTapGesture")
			if err != nil {
				return nil, err
			}
			node = node.clone()
			m := Modifier{Name: "onTapGesture"}
			if c.Provided("count") {
				m.Args = map[string]any{"count": plain(c.Value("count"))}
			}
			node.Modifiers = append(node.Modifiers, m)
			node.setAction(ActionTap, c.Value("perform"))
			return node.Value(), nil
		},
	})
}

// modifier appends a record of the provided arguments to the receiver.
func modifier(name string, args ...string) func(*builder.Call) (runtime.Value, error) {
	return func(c *builder.Call) (runtime.Value, error) {
		node, err := receiverNode(c, name)
		if err != nil {
			return nil, err
		}
		node = node.clone()
		m := Modifier{Name: name}
		if len(args) > 0 {
			recorded := make(map[string]any, len(args))
			record(recorded, c, args)
			if len(recorded) > 0 {
				m.Args = recorded
			}
		}
		node.Modifiers = append(node.Modifiers, m)
		return node.Value(), nil
	}
}

func receiverNode(c *builder.Call, name string) (*Node, error) {
	nodes, err := Nodes(c.Receiver)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, runtime.Errorf(runtime.InvalidArgument, "'%s' applies to a single view, got %d", name, len(nodes))
	}
	return nodes[0], nil
}

// Fire runs the named action of node through inv.
func Fire(inv runtime.Invoker, node *Node, action string, args ...runtime.Value) error {
	if node == nil {
		return runtime.Errorf(runtime.InvalidArgument, "No node to fire '%s' on", action)
	}
	fn, ok := node.Actions[action]
	if !ok || runtime.IsVoid(fn) {
		return runtime.Errorf(runtime.UnknownFunction, "%s has no '%s' action", node.Kind, action)
	}
	callArgs := make([]runtime.Argument, len(args))
	for i, arg := range args {
		callArgs[i] = runtime.Argument{Value: arg}
	}
	_, err := inv.Invoke(fn, callArgs)
	return err
}
