// Package hostkit is a small reference host: a generic node tree built by
// a registry catalog, structural equality, and a msgpack wire format.
package hostkit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// Node is one host view. Actions hold the closures a host fires in
// response to input; they never cross the wire.
type Node struct {
	Kind      string                   `msgpack:"kind" yaml:"kind"`
	Props     map[string]any           `msgpack:"props,omitempty" yaml:"props,omitempty"`
	Modifiers []Modifier               `msgpack:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Children  []*Node                  `msgpack:"children,omitempty" yaml:"children,omitempty"`
	Actions   map[string]runtime.Value `msgpack:"-" yaml:"-"`
}

// Modifier records one applied modifier and the arguments it was given.
type Modifier struct {
	Name string         `msgpack:"name" yaml:"name"`
	Args map[string]any `msgpack:"args,omitempty" yaml:"args,omitempty"`
}

func newNode(kind string) *Node {
	return &Node{Kind: kind, Props: make(map[string]any)}
}

// clone copies n with fresh modifier and action tables; props and
// children are shared.
func (n *Node) clone() *Node {
	out := *n
	out.Modifiers = append([]Modifier(nil), n.Modifiers...)
	if n.Actions != nil {
		out.Actions = make(map[string]runtime.Value, len(n.Actions))
		for k, v := range n.Actions {
			out.Actions[k] = v
		}
	}
	return &out
}

func (n *Node) setAction(name string, fn runtime.Value) {
	if n.Actions == nil {
		n.Actions = make(map[string]runtime.Value)
	}
	n.Actions[name] = fn
}

// Modifier returns the last applied modifier with the given name.
func (n *Node) Modifier(name string) (Modifier, bool) {
	for i := len(n.Modifiers) - 1; i >= 0; i-- {
		if n.Modifiers[i].Name == name {
			return n.Modifiers[i], true
		}
	}
	return Modifier{}, false
}

// Value wraps n for the interpreter.
func (n *Node) Value() runtime.Value {
	return runtime.HostNodeValue{Node: n}
}

// Nodes converts a rendered value into host nodes. Arrays flatten, void
// yields nothing and bare strings become Text.
func Nodes(v runtime.Value) ([]*Node, error) {
	switch val := v.(type) {
	case nil, runtime.VoidValue:
		return nil, nil
	case runtime.HostNodeValue:
		node, ok := val.Node.(*Node)
		if !ok {
			return nil, runtime.Errorf(runtime.InvalidArgument, "Host node of type %T is not a hostkit node", val.Node)
		}
		return []*Node{node}, nil
	case runtime.StringValue:
		node := newNode("Text")
		node.Props["text"] = val.Val
		return []*Node{node}, nil
	case runtime.ArrayValue:
		var out []*Node
		for _, el := range val.Elements {
			nodes, err := Nodes(el)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil
	default:
		return nil, runtime.Errorf(runtime.InvalidArgument, "%s is not a view", v.Kind())
	}
}

// Find returns the first node, depth first, for which match holds.
func Find(nodes []*Node, match func(*Node) bool) *Node {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if match(n) {
			return n
		}
		if found := Find(n.Children, match); found != nil {
			return found
		}
	}
	return nil
}

// FindKind returns the first node of the given kind.
func FindKind(nodes []*Node, kind string) *Node {
	return Find(nodes, func(n *Node) bool { return n.Kind == kind })
}

// Outline renders nodes as an indented text tree.
func Outline(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeOutline(&b, n, 0)
	}
	return b.String()
}

func writeOutline(b *strings.Builder, n *Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind)
	if len(n.Props) > 0 {
		b.WriteString(" ")
		b.WriteString(formatArgs(n.Props))
	}
	for _, m := range n.Modifiers {
		b.WriteString(" .")
		b.WriteString(m.Name)
		b.WriteString("(")
		b.WriteString(formatArgs(m.Args))
		b.WriteString(")")
	}
	b.WriteString("\n")
	for _, child := range n.Children {
		writeOutline(b, child, depth+1)
	}
}

func formatArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, args[k])
	}
	return strings.Join(parts, " ")
}

// plain projects a runtime value onto msgpack-friendly Go values.
func plain(v runtime.Value) any {
	switch val := v.(type) {
	case nil, runtime.VoidValue:
		return nil
	case runtime.IntValue:
		return val.Val
	case runtime.DoubleValue:
		return val.Val
	case runtime.BoolValue:
		return val.Val
	case runtime.StringValue:
		return val.Val
	case runtime.UUIDValue:
		return val.Val.String()
	case runtime.DateValue:
		return val.Val.UTC().Format(time.RFC3339Nano)
	case runtime.ArrayValue:
		out := make([]any, len(val.Elements))
		for i, el := range val.Elements {
			out[i] = plain(el)
		}
		return out
	case runtime.MapValue:
		out := make(map[string]any, len(val.Entries))
		for _, entry := range val.Entries {
			out[runtime.Describe(entry.Key)] = plain(entry.Value)
		}
		return out
	case runtime.EnumCaseValue:
		if len(val.Associated) == 0 {
			return val.Case
		}
		values := make([]any, len(val.Associated))
		for i, el := range val.Associated {
			values[i] = plain(el)
		}
		return map[string]any{"case": val.Case, "values": values}
	case runtime.BindingValue:
		if val.Get == nil {
			return nil
		}
		current, err := val.Get()
		if err != nil {
			return nil
		}
		return plain(current)
	case runtime.HostNodeValue:
		if node, ok := val.Node.(*Node); ok {
			return nodeMap(node)
		}
		return fmt.Sprint(val.Node)
	default:
		return runtime.Describe(v)
	}
}

func nodeMap(n *Node) map[string]any {
	out := map[string]any{"kind": n.Kind}
	if len(n.Props) > 0 {
		out["props"] = n.Props
	}
	return out
}
