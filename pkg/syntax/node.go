// Package syntax holds the concrete syntax tree the lowering consumes.
//
// Trees come from a tree-sitter grammar supplied by the host (see
// FromTreeSitter), from YAML fixtures (see DecodeYAML), or from the
// builders in dsl.go. Only node kinds and field names matter to the
// lowering; anything it does not recognise degrades to an unknown leaf.
package syntax

import "strings"

// Point is a zero-based row/column location.
type Point struct {
	Row    int `yaml:"row"`
	Column int `yaml:"column"`
}

// Node is one concrete syntax node.
type Node struct {
	Kind     string  `yaml:"kind"`
	Field    string  `yaml:"field,omitempty"`
	Text     string  `yaml:"text,omitempty"`
	Token    bool    `yaml:"token,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
	Start    Point   `yaml:"-"`
	End      Point   `yaml:"-"`
}

// IsNamed reports whether the node is a grammar rule rather than a bare
// token such as `=` or `let`.
func (n *Node) IsNamed() bool {
	return n != nil && !n.Token
}

// ChildByField returns the first child stored under field.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child != nil && child.Field == field {
			return child
		}
	}
	return nil
}

// ChildrenByField returns every child stored under field, in order.
func (n *Node) ChildrenByField(field string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child != nil && child.Field == field {
			out = append(out, child)
		}
	}
	return out
}

// ChildrenByKind returns every child of the given kind, in order.
func (n *Node) ChildrenByKind(kind string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child != nil && child.Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// Named returns the named children, skipping tokens and comments.
func (n *Node) Named() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		if child == nil || child.Token || isComment(child.Kind) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// FirstNamed returns the first named child.
func (n *Node) FirstNamed() *Node {
	for _, child := range n.Named() {
		return child
	}
	return nil
}

// HasToken reports whether a direct child token or keyword spells text.
func (n *Node) HasToken(text string) bool {
	if n == nil {
		return false
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if child.Token && (child.Kind == text || child.Text == text) {
			return true
		}
	}
	return false
}

// Content is the node's source text. Interior nodes without recorded text
// concatenate their children.
func (n *Node) Content() string {
	if n == nil {
		return ""
	}
	if n.Text != "" || len(n.Children) == 0 {
		return n.Text
	}
	parts := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		if text := child.Content(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

func isComment(kind string) bool {
	return kind == "comment" || kind == "multiline_comment"
}

var keywords = map[string]bool{
	"let": true, "var": true, "func": true, "init": true, "struct": true,
	"class": true, "enum": true, "case": true, "default": true, "static": true,
	"mutating": true, "private": true, "fileprivate": true, "public": true,
	"internal": true, "final": true, "override": true, "return": true,
	"if": true, "else": true, "switch": true, "for": true, "in": true,
	"where": true, "get": true, "set": true, "some": true, "inout": true,
}

// isKeyword reports whether kind spells a keyword or pure punctuation.
func isKeyword(kind string) bool {
	if keywords[kind] {
		return true
	}
	if kind == "" {
		return false
	}
	for _, r := range kind {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}
