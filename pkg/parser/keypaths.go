package parser

import (
	"strconv"
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

// lowerKeyPath reads either structured component children or, for
// grammars that keep key paths as a single token, the raw text.
func (l *lowerer) lowerKeyPath(node *syntax.Node) ast.Expression {
	root := identifierText(node.ChildByField("root"))
	var components []ast.KeyPathComponent
	structured := false
	for _, child := range node.Named() {
		switch child.Kind {
		case "key_path_property":
			structured = true
			name := strings.TrimPrefix(identifierText(child), ".")
			if name == "self" {
				continue
			}
			components = append(components, ast.PropertyComponent(name))
		case "key_path_optional":
			structured = true
			components = append(components, ast.KeyPathComponent{Kind: ast.KeyPathOptional})
		case "key_path_force_unwrap":
			structured = true
			components = append(components, ast.KeyPathComponent{Kind: ast.KeyPathForceUnwrap})
		case "key_path_subscript":
			structured = true
			text := strings.Trim(strings.TrimSpace(child.Content()), "[]")
			idx, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil {
				return l.unknown(node)
			}
			components = append(components, ast.SubscriptComponent(idx))
		}
	}
	if !structured {
		parsedRoot, parsed, ok := parseKeyPathText(node.Content())
		if !ok {
			return l.unknown(node)
		}
		if root == "" {
			root = parsedRoot
		}
		components = parsed
	}
	return ast.NewKeyPath(root, components)
}

// parseKeyPathText decodes `\Root.a?.b![0]`. `\.self` is the identity.
func parseKeyPathText(text string) (string, []ast.KeyPathComponent, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, `\`) {
		return "", nil, false
	}
	text = text[1:]
	root := ""
	end := strings.IndexAny(text, ".?![")
	if end < 0 {
		return text, nil, text != ""
	}
	root = text[:end]
	text = text[end:]

	var components []ast.KeyPathComponent
	for len(text) > 0 {
		switch text[0] {
		case '.':
			text = text[1:]
			stop := strings.IndexAny(text, ".?![")
			if stop < 0 {
				stop = len(text)
			}
			name := text[:stop]
			if name == "" {
				return "", nil, false
			}
			if name != "self" {
				components = append(components, ast.PropertyComponent(name))
			}
			text = text[stop:]
		case '?':
			components = append(components, ast.KeyPathComponent{Kind: ast.KeyPathOptional})
			text = text[1:]
		case '!':
			components = append(components, ast.KeyPathComponent{Kind: ast.KeyPathForceUnwrap})
			text = text[1:]
		case '[':
			close := strings.IndexByte(text, ']')
			if close < 0 {
				return "", nil, false
			}
			idx, err := strconv.Atoi(strings.TrimSpace(text[1:close]))
			if err != nil {
				return "", nil, false
			}
			components = append(components, ast.SubscriptComponent(idx))
			text = text[close+1:]
		default:
			return "", nil, false
		}
	}
	return root, components, true
}
