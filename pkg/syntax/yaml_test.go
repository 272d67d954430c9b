package syntax

import (
	"bytes"
	"strings"
	"testing"
)

const counterFixture = `
kind: source_file
children:
  - kind: variable_declaration
    children:
      - let
      - name=identifier total
      - kind: sequence_expression
        field: value
        children:
          - integer_literal 2
          - binary_operator +
          - integer_literal 3
`

func TestDecodeYAMLShorthandAndMappings(t *testing.T) {
	root, err := ParseYAML([]byte(counterFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != "source_file" || len(root.Children) != 1 {
		t.Fatalf("unexpected root %#v", root)
	}
	decl := root.Children[0]
	name := decl.ChildByField("name")
	if name == nil || name.Kind != "identifier" || name.Text != "total" {
		t.Fatalf("unexpected name node %#v", name)
	}
	value := decl.ChildByField("value")
	if value == nil || len(value.Children) != 3 {
		t.Fatalf("unexpected value node %#v", value)
	}
	if op := value.Children[1]; op.Kind != "binary_operator" || op.Text != "+" {
		t.Fatalf("unexpected operator %#v", op)
	}
	if kw := decl.Children[0]; kw.Kind != "let" || !kw.Token || kw.IsNamed() {
		t.Fatalf("expected keyword token, got %#v", kw)
	}
}

func TestDecodeYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := ParseYAML([]byte("kind: identifier\nname: x\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDecodeYAMLRequiresKind(t *testing.T) {
	if _, err := ParseYAML([]byte("text: x\n")); err == nil {
		t.Fatalf("expected missing kind error")
	}
	if _, err := ParseYAML(nil); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	original := Source(
		N("expression_statement",
			Call(Ident("Text"), Arg("", Lit("hello")), Arg("verbatim", Lit(true))),
		),
	)
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, original); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeYAML(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v\n%s", err, buf.String())
	}
	if !sameShape(original, decoded) {
		t.Fatalf("round trip mismatch:\n%s", buf.String())
	}
}

func sameShape(a, b *Node) bool {
	if a.Kind != b.Kind || a.Field != b.Field || a.Text != b.Text || a.Token != b.Token {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !sameShape(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
