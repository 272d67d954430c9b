package ast

import (
	"strconv"
	"strings"
)

type KeyPathComponentKind string

const (
	KeyPathProperty    KeyPathComponentKind = "property"
	KeyPathOptional    KeyPathComponentKind = "optional"
	KeyPathForceUnwrap KeyPathComponentKind = "forceUnwrap"
	KeyPathSubscript   KeyPathComponentKind = "subscript"
)

type KeyPathComponent struct {
	Kind  KeyPathComponentKind `json:"kind"`
	Name  string               `json:"name,omitempty"`
	Index int                  `json:"index,omitempty"`
}

func PropertyComponent(name string) KeyPathComponent {
	return KeyPathComponent{Kind: KeyPathProperty, Name: name}
}

func SubscriptComponent(index int) KeyPathComponent {
	return KeyPathComponent{Kind: KeyPathSubscript, Index: index}
}

// KeyPath is `\Root.a?.b[0]`. An empty Root makes the path relative; no
// components makes it the identity path `\.self`.
type KeyPath struct {
	nodeImpl
	expressionMarker

	Root       string             `json:"root,omitempty"`
	Components []KeyPathComponent `json:"components,omitempty"`
}

func NewKeyPath(root string, components []KeyPathComponent) *KeyPath {
	return &KeyPath{nodeImpl: newNodeImpl(NodeKeyPath), Root: root, Components: components}
}

func (k *KeyPath) IsAbsolute() bool { return k.Root != "" }

func (k *KeyPath) IsIdentity() bool { return len(k.Components) == 0 }

func (k *KeyPath) String() string {
	var sb strings.Builder
	sb.WriteByte('\\')
	sb.WriteString(k.Root)
	if k.IsIdentity() {
		sb.WriteString(".self")
		return sb.String()
	}
	for _, c := range k.Components {
		switch c.Kind {
		case KeyPathProperty:
			sb.WriteByte('.')
			sb.WriteString(c.Name)
		case KeyPathOptional:
			sb.WriteByte('?')
		case KeyPathForceUnwrap:
			sb.WriteByte('!')
		case KeyPathSubscript:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(c.Index))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}
