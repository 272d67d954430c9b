package syntax

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// A syntax tree in YAML is a mapping with kind, field, text, token and
// children keys. Leaves may be written as a scalar "field=kind text", so
// `name=identifier count` is the identifier `count` stored under `name`
// and `binary_operator +` is an unlabelled operator element. A bare
// keyword or punctuation scalar such as `let` or `{` is a token.

type yamlNode struct {
	Kind     string  `yaml:"kind"`
	Field    string  `yaml:"field,omitempty"`
	Text     string  `yaml:"text,omitempty"`
	Token    bool    `yaml:"token,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

var yamlNodeKeys = map[string]bool{"kind": true, "field": true, "text": true, "token": true, "children": true}

// UnmarshalYAML accepts both the mapping and the scalar shorthand form.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := parseShorthand(value.Value)
		if err != nil {
			return fmt.Errorf("syntax: line %d: %w", value.Line, err)
		}
		*n = *parsed
		n.Start = Point{Row: value.Line - 1, Column: value.Column - 1}
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i].Value
			if !yamlNodeKeys[key] {
				return fmt.Errorf("syntax: line %d: unknown key %q", value.Content[i].Line, key)
			}
		}
		var raw yamlNode
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if raw.Kind == "" {
			return fmt.Errorf("syntax: line %d: node is missing kind", value.Line)
		}
		*n = Node{
			Kind:     raw.Kind,
			Field:    raw.Field,
			Text:     raw.Text,
			Token:    raw.Token,
			Children: raw.Children,
			Start:    Point{Row: value.Line - 1, Column: value.Column - 1},
		}
		return nil
	default:
		return fmt.Errorf("syntax: line %d: expected mapping or scalar node", value.Line)
	}
}

// MarshalYAML writes leaves in shorthand and interior nodes as mappings.
func (n *Node) MarshalYAML() (any, error) {
	if len(n.Children) == 0 && !strings.ContainsAny(n.Kind, " =") && (!n.Token || n.Text == n.Kind && isKeyword(n.Kind)) {
		return formatShorthand(n), nil
	}
	return yamlNode{Kind: n.Kind, Field: n.Field, Text: n.Text, Token: n.Token, Children: n.Children}, nil
}

func parseShorthand(text string) (*Node, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty node")
	}
	head, rest, _ := strings.Cut(text, " ")
	node := &Node{Kind: head, Text: rest}
	if field, kind, ok := strings.Cut(head, "="); ok {
		if field == "" || kind == "" {
			return nil, fmt.Errorf("malformed node %q", text)
		}
		node.Field = field
		node.Kind = kind
	}
	if node.Field == "" && node.Text == "" && isKeyword(node.Kind) {
		node.Token = true
		node.Text = node.Kind
	}
	return node, nil
}

func formatShorthand(n *Node) string {
	var b strings.Builder
	if n.Field != "" {
		b.WriteString(n.Field)
		b.WriteByte('=')
	}
	b.WriteString(n.Kind)
	if n.Text != "" && !n.Token {
		b.WriteByte(' ')
		b.WriteString(n.Text)
	}
	return b.String()
}

// DecodeYAML reads one syntax tree.
func DecodeYAML(r io.Reader) (*Node, error) {
	decoder := yaml.NewDecoder(r)
	var root Node
	if err := decoder.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("syntax: empty document")
		}
		return nil, err
	}
	return &root, nil
}

// ParseYAML is DecodeYAML over a byte slice.
func ParseYAML(data []byte) (*Node, error) {
	return DecodeYAML(bytes.NewReader(data))
}

// EncodeYAML writes a syntax tree.
func EncodeYAML(w io.Writer, root *Node) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("syntax: encode: %w", err)
	}
	return encoder.Close()
}
