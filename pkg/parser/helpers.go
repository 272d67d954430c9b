package parser

import (
	"strconv"
	"strings"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

func spanFromNode(node *syntax.Node) ast.Span {
	if node == nil {
		return ast.Span{}
	}
	return ast.Span{
		Start: ast.Position{Line: node.Start.Row + 1, Column: node.Start.Column + 1},
		End:   ast.Position{Line: node.End.Row + 1, Column: node.End.Column + 1},
	}
}

func annotateExpression(expr ast.Expression, node *syntax.Node) ast.Expression {
	if expr != nil && node != nil {
		ast.SetSpan(expr, spanFromNode(node))
	}
	return expr
}

func annotateStatement(stmt ast.Statement, node *syntax.Node) ast.Statement {
	if stmt != nil && node != nil {
		ast.SetSpan(stmt, spanFromNode(node))
	}
	return stmt
}

// identifierText reads a name from an identifier-like node, unwrapping
// single-child wrappers such as `pattern` or `simple_identifier`.
func identifierText(node *syntax.Node) string {
	if node == nil {
		return ""
	}
	if len(node.Children) == 0 {
		return strings.TrimSpace(node.Text)
	}
	if named := node.Named(); len(named) == 1 {
		return identifierText(named[0])
	}
	for _, child := range node.Named() {
		if child.Kind == "identifier" {
			return strings.TrimSpace(child.Text)
		}
	}
	return strings.TrimSpace(node.Content())
}

// typeText normalises a type annotation node into its spelling.
func typeText(node *syntax.Node) string {
	if node == nil {
		return ""
	}
	text := strings.TrimSpace(node.Content())
	text = strings.TrimPrefix(text, ":")
	text = strings.TrimSpace(text)
	// Keep spaces between words (`some View`) but not around punctuation
	// (`[String : Int]` becomes `[String:Int]`).
	fields := strings.Fields(text)
	var b strings.Builder
	for i, field := range fields {
		if i > 0 && isWordByte(fields[i-1][len(fields[i-1])-1]) && isWordByte(field[0]) {
			b.WriteByte(' ')
		}
		b.WriteString(field)
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// keywordSet collects the modifier keywords attached to a declaration.
func keywordSet(node *syntax.Node) map[string]bool {
	out := make(map[string]bool)
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		switch {
		case child.Token:
			out[strings.TrimSpace(child.Text)] = true
		case child.Kind == "modifier" || child.Kind == "modifiers":
			for _, word := range strings.Fields(child.Content()) {
				out[word] = true
			}
		}
	}
	return out
}

// attributeNames returns `@State`-style attributes without the `@` or any
// argument list.
func attributeNames(node *syntax.Node) []string {
	var out []string
	for _, child := range node.Children {
		if child == nil || child.Kind != "attribute" {
			continue
		}
		name := strings.TrimSpace(child.Content())
		name = strings.TrimPrefix(name, "@")
		name = strings.TrimSpace(name)
		if idx := strings.IndexAny(name, "( "); idx >= 0 {
			name = name[:idx]
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func parseIntegerText(text string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloatText(text string) (float64, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(text), "_", "")
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// unescapeSegment resolves backslash escapes inside a string segment.
func unescapeSegment(text string) string {
	if !strings.Contains(text, `\`) {
		return text
	}
	if s, err := strconv.Unquote(`"` + text + `"`); err == nil {
		return s
	}
	return text
}

func trimQuotes(text string) string {
	text = strings.TrimSpace(text)
	for _, q := range []string{`"""`, `"`} {
		if len(text) >= 2*len(q) && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			return text[len(q) : len(text)-len(q)]
		}
	}
	return text
}

// fieldOrFirst returns the child stored under field, or the first named
// child whose kind is not listed in skip.
func fieldOrFirst(node *syntax.Node, field string, skip ...string) *syntax.Node {
	if child := node.ChildByField(field); child != nil {
		return child
	}
	for _, child := range node.Named() {
		if child.Field != "" {
			continue
		}
		skipped := false
		for _, kind := range skip {
			if child.Kind == kind {
				skipped = true
				break
			}
		}
		if !skipped {
			return child
		}
	}
	return nil
}
