package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ConvertOptions tune FromTreeSitter.
type ConvertOptions struct {
	// Aliases renames grammar node kinds into the lowering vocabulary.
	Aliases map[string]string
	// KeepExtras retains comment nodes.
	KeepExtras bool
}

// FromTreeSitter copies a tree-sitter node (and its subtree) into a Node,
// recording field names and source text.
func FromTreeSitter(root *sitter.Node, source []byte, opts ConvertOptions) *Node {
	if root == nil {
		return nil
	}
	return convertNode(root, "", source, &opts)
}

func convertNode(node *sitter.Node, field string, source []byte, opts *ConvertOptions) *Node {
	kind := node.Kind()
	if alias, ok := opts.Aliases[kind]; ok {
		kind = alias
	}
	start := node.StartPosition()
	end := node.EndPosition()
	out := &Node{
		Kind:  kind,
		Field: field,
		Text:  sliceContent(node, source),
		Token: !node.IsNamed(),
		Start: Point{Row: int(start.Row), Column: int(start.Column)},
		End:   Point{Row: int(end.Row), Column: int(end.Column)},
	}
	count := node.ChildCount()
	if count == 0 {
		return out
	}
	out.Children = make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.IsExtra() && !opts.KeepExtras {
			continue
		}
		childField := node.FieldNameForChild(uint32(i))
		out.Children = append(out.Children, convertNode(child, childField, source, opts))
	}
	return out
}

func sliceContent(node *sitter.Node, source []byte) string {
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}
