package hostkit

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode writes nodes in the host wire format. Map keys are sorted so
// equal trees encode to equal bytes.
func Encode(nodes []*Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(nodes); err != nil {
		return nil, fmt.Errorf("hostkit: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads nodes written by Encode. Actions are not restored.
func Decode(data []byte) ([]*Node, error) {
	var nodes []*Node
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&nodes); err != nil {
		return nil, fmt.Errorf("hostkit: decode: %w", err)
	}
	return nodes, nil
}

// Equal reports whether two trees are structurally equal, ignoring
// actions.
func Equal(a, b []*Node) bool {
	left, err := Encode(a)
	if err != nil {
		return false
	}
	right, err := Encode(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
