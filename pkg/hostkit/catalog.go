package hostkit

import (
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/builder"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// Colors lists the named colors available as `Color.name` and `.name`.
var Colors = []string{
	"red", "orange", "yellow", "green", "mint", "teal", "cyan", "blue",
	"indigo", "purple", "pink", "brown", "gray", "black", "white", "clear",
	"primary", "secondary", "accentColor",
}

// NewRegistry returns a registry holding the hostkit catalog.
func NewRegistry() *builder.Registry {
	reg := builder.NewRegistry()
	Register(reg)
	return reg
}

// Register installs the hostkit views and modifiers into reg.
func Register(reg *builder.Registry) {
	registerViews(reg)
	registerModifiers(reg)
}

func required(label, name, typ string) builder.Param {
	return builder.Param{Label: label, Name: name, Type: typ}
}

func optional(label, name, typ string) builder.Param {
	return builder.Param{Label: label, Name: name, Type: typ, Default: runtime.Void}
}

func content() builder.Param {
	return required("content", "content", "Function")
}

func registerViews(reg *builder.Registry) {
	reg.RegisterValue("Text",
		builder.Definition{Params: []builder.Param{required("", "content", "")}, Build: buildText},
		builder.Definition{Params: []builder.Param{required("verbatim", "content", "String")}, Build: buildText},
	)
	for _, kind := range []string{"VStack", "HStack", "ZStack", "LazyVStack", "LazyHStack"} {
		reg.RegisterValue(kind, builder.Definition{
			Params: []builder.Param{optional("alignment", "alignment", ""), optional("spacing", "spacing", "Double"), content()},
			Build:  container(kind, "alignment", "spacing"),
		})
	}
	for _, kind := range []string{"Group", "List", "Form", "NavigationStack"} {
		reg.RegisterValue(kind, builder.Definition{Params: []builder.Param{content()}, Build: container(kind)})
	}
	reg.RegisterValue("Section",
		builder.Definition{Params: []builder.Param{content()}, Build: container("Section")},
		builder.Definition{Params: []builder.Param{required("", "header", "String"), content()}, Build: container("Section", "header")},
	)
	reg.RegisterValue("ScrollView",
		builder.Definition{Params: []builder.Param{content()}, Build: container("ScrollView")},
		builder.Definition{
			Params: []builder.Param{required("", "axes", ""), optional("showsIndicators", "showsIndicators", "Bool"), content()},
			Build:  container("ScrollView", "axes", "showsIndicators"),
		},
	)
	reg.RegisterValue("Spacer", builder.Definition{
		Params: []builder.Param{optional("minLength", "minLength", "Double")},
		Build:  leaf("Spacer", "minLength"),
	})
	reg.RegisterValue("Divider", builder.Definition{Build: leaf("Divider")})
	reg.RegisterValue("Image",
		builder.Definition{Params: []builder.Param{required("systemName", "systemName", "String")}, Build: leaf("Image", "systemName")},
		builder.Definition{Params: []builder.Param{required("", "name", "String")}, Build: leaf("Image", "name")},
	)
	reg.RegisterValue("Button",
		builder.Definition{
			Params: []builder.Param{required("", "title", "String"), required("action", "action", "Function")},
			Build:  buildButton,
		},
		builder.Definition{
			Params: []builder.Param{required("action", "action", "Function"), required("label", "label", "Function")},
			Build:  buildButton,
		},
	)
	reg.RegisterValue("Toggle", builder.Definition{
		Params: []builder.Param{required("", "title", "String"), required("isOn", "isOn", "Binding")},
		Build:  buildToggle,
	})
	reg.RegisterValue("TextField", builder.Definition{
		Params: []builder.Param{required("", "title", "String"), required("text", "text", "Binding")},
		Build:  buildTextField,
	})
	reg.RegisterValue("ForEach", builder.Definition{
		Params: []builder.Param{required("", "data", ""), optional("id", "id", ""), content()},
		Build:  buildForEach,
	})

	reg.RegisterValue("Color", builder.Definition{
		Params: []builder.Param{
			required("red", "red", "Double"), required("green", "green", "Double"),
			required("blue", "blue", "Double"), optional("opacity", "opacity", "Double"),
		},
		Build: leaf("Color", "red", "green", "blue", "opacity"),
	})
	for _, name := range Colors {
		reg.RegisterValue("Color."+name, builder.Definition{Build: func(*builder.Call) (runtime.Value, error) {
			node := newNode("Color")
			node.Props["name"] = name
			return node.Value(), nil
		}})
	}
	reg.RegisterValue("Font.system", builder.Definition{
		Params: []builder.Param{required("size", "size", "Double"), optional("weight", "weight", "")},
		Build: func(c *builder.Call) (runtime.Value, error) {
			font := runtime.NewMap()
			for _, name := range []string{"size", "weight"} {
				if !c.Provided(name) {
					continue
				}
				var err error
				if font, err = font.With(runtime.StringValue{Val: name}, c.Value(name)); err != nil {
					return nil, err
				}
			}
			return font, nil
		},
	})
}

func buildText(c *builder.Call) (runtime.Value, error) {
	node := newNode("Text")
	if s, ok := c.Value("content").(runtime.StringValue); ok {
		node.Props["text"] = s.Val
	} else {
		node.Props["text"] = runtime.Describe(c.Value("content"))
	}
	return node.Value(), nil
}

// leaf builds a childless node recording the provided parameters as props.
func leaf(kind string, props ...string) func(*builder.Call) (runtime.Value, error) {
	return func(c *builder.Call) (runtime.Value, error) {
		node := newNode(kind)
		record(node.Props, c, props)
		return node.Value(), nil
	}
}

// container builds a node whose children come from the content closure.
func container(kind string, props ...string) func(*builder.Call) (runtime.Value, error) {
	return func(c *builder.Call) (runtime.Value, error) {
		node := newNode(kind)
		record(node.Props, c, props)
		children, err := childNodes(c, "content")
		if err != nil {
			return nil, err
		}
		node.Children = children
		return node.Value(), nil
	}
}

func record(into map[string]any, c *builder.Call, names []string) {
	for _, name := range names {
		if c.Provided(name) {
			into[name] = plain(c.Value(name))
		}
	}
}

func childNodes(c *builder.Call, name string) ([]*Node, error) {
	values, err := c.Children(name)
	if err != nil {
		return nil, err
	}
	return Nodes(runtime.NewArray(values...))
}

func buildButton(c *builder.Call) (runtime.Value, error) {
	node := newNode("Button")
	if c.Provided("title") {
		node.Props["title"] = plain(c.Value("title"))
	}
	if c.Provided("label") {
		children, err := childNodes(c, "label")
		if err != nil {
			return nil, err
		}
		node.Children = children
	}
	node.setAction(ActionTap, c.Value("action"))
	return node.Value(), nil
}

func buildToggle(c *builder.Call) (runtime.Value, error) {
	binding, _ := c.Value("isOn").(runtime.BindingValue)
	node := newNode("Toggle")
	node.Props["title"] = plain(c.Value("title"))
	node.Props["isOn"] = plain(binding)
	node.setAction(ActionToggle, runtime.NativeFunctionValue{
		Name: "toggle",
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Argument) (runtime.Value, error) {
			current, err := binding.Get()
			if err != nil {
				return nil, err
			}
			on, ok := current.(runtime.BoolValue)
			if !ok {
				return nil, runtime.Errorf(runtime.InvalidArgument, "Toggle binding holds %s, not Bool", current.Kind())
			}
			return runtime.Void, binding.Set(runtime.BoolValue{Val: !on.Val})
		},
	})
	return node.Value(), nil
}

func buildTextField(c *builder.Call) (runtime.Value, error) {
	binding, _ := c.Value("text").(runtime.BindingValue)
	node := newNode("TextField")
	node.Props["placeholder"] = plain(c.Value("title"))
	node.Props["text"] = plain(binding)
	node.setAction(ActionEdit, runtime.NativeFunctionValue{
		Name: "edit",
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Argument) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, runtime.Errorf(runtime.ArgumentCountMismatch, "edit expects one argument, got %d", len(args))
			}
			if _, ok := args[0].Value.(runtime.StringValue); !ok {
				return nil, runtime.Errorf(runtime.InvalidArgument, "edit expects String, got %s", args[0].Value.Kind())
			}
			return runtime.Void, binding.Set(args[0].Value)
		},
	})
	return node.Value(), nil
}

func buildForEach(c *builder.Call) (runtime.Value, error) {
	var items []runtime.Value
	switch data := c.Value("data").(type) {
	case runtime.ArrayValue:
		items = data.Elements
	case runtime.MapValue:
		for _, entry := range data.Entries {
			items = append(items, runtime.NewArray(entry.Key, entry.Value))
		}
	default:
		return nil, runtime.Errorf(runtime.InvalidArgument, "ForEach expects a collection, got %s", data.Kind())
	}
	if c.Invoker == nil {
		return nil, runtime.Errorf(runtime.UnsupportedExpression, "Cannot evaluate ForEach content without an evaluator")
	}
	node := newNode("ForEach")
	node.Props["count"] = int64(len(items))
	for _, item := range items {
		values, err := c.Invoker.Collect(c.Value("content"), []runtime.Argument{{Value: item}})
		if err != nil {
			return nil, err
		}
		children, err := Nodes(runtime.NewArray(values...))
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, children...)
	}
	return node.Value(), nil
}
