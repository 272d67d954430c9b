package syntax

import (
	"strconv"
	"strings"
)

// N builds a named node with children.
func N(kind string, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// T builds a leaf carrying source text.
func T(kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

// Tok builds an anonymous token such as `let` or `static`.
func Tok(text string) *Node {
	return &Node{Kind: text, Text: text, Token: true}
}

// F stores node under a field name and returns it.
func F(field string, node *Node) *Node {
	if node == nil {
		return nil
	}
	node.Field = field
	return node
}

// Ident is shorthand for T("identifier", name).
func Ident(name string) *Node {
	return T("identifier", name)
}

// Op is shorthand for a binary_operator element inside a sequence.
func Op(text string) *Node {
	return T("binary_operator", text)
}

// Seq builds a flat sequence_expression from operands and operators.
func Seq(elements ...*Node) *Node {
	return N("sequence_expression", elements...)
}

// Lit builds a literal node from a Go value.
func Lit(value any) *Node {
	switch v := value.(type) {
	case int:
		return T("integer_literal", itoa(int64(v)))
	case int64:
		return T("integer_literal", itoa(v))
	case float64:
		return T("float_literal", ftoa(v))
	case bool:
		if v {
			return T("boolean_literal", "true")
		}
		return T("boolean_literal", "false")
	case string:
		return N("string_literal", T("string_segment", v))
	case nil:
		return T("nil_literal", "nil")
	default:
		return T("unknown", "")
	}
}

// Member builds `base.name`; a nil base yields the implicit form `.name`.
func Member(base *Node, name string) *Node {
	node := N("member_access_expression", F("name", Ident(name)))
	if base != nil {
		node.Children = append([]*Node{F("base", base)}, node.Children...)
	}
	return node
}

// Arg builds a call argument; an empty label leaves it unlabeled.
func Arg(label string, value *Node) *Node {
	node := N("argument", F("value", value))
	if label != "" {
		node.Children = append([]*Node{F("label", Ident(label))}, node.Children...)
	}
	return node
}

// Call builds a call_expression on a callee with arguments.
func Call(callee *Node, args ...*Node) *Node {
	return N("call_expression", append([]*Node{F("callee", callee)}, args...)...)
}

// Block builds a code_block.
func Block(stmts ...*Node) *Node {
	return N("code_block", stmts...)
}

// Source builds a source_file from top-level nodes.
func Source(nodes ...*Node) *Node {
	return N("source_file", nodes...)
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func ftoa(v float64) string {
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(text, ".eEn") {
		text += ".0"
	}
	return text
}
