package runtime

import (
	"math"
	"testing"
)

func TestCoerceToAnnotation(t *testing.T) {
	cases := []struct {
		annotation string
		in         Value
		want       Value
	}{
		{"Double", IntValue{Val: 3}, DoubleValue{Val: 3}},
		{"CGFloat?", IntValue{Val: -2}, DoubleValue{Val: -2}},
		{"Int", DoubleValue{Val: 3.9}, IntValue{Val: 3}},
		{"Int", DoubleValue{Val: -3.9}, IntValue{Val: -3}},
		{"Int", DoubleValue{Val: 2.7}, IntValue{Val: 2}},
		{"Int?", DoubleValue{Val: math.NaN()}, IntValue{Val: 0}},
		{"Int8", DoubleValue{Val: 1000}, IntValue{Val: math.MaxInt8}},
		{"UInt8", DoubleValue{Val: -4}, IntValue{Val: 0}},
		{"Int", DoubleValue{Val: math.Inf(-1)}, IntValue{Val: math.MinInt64}},
		{"String", IntValue{Val: 3}, IntValue{Val: 3}},
		{"Decimal", DoubleValue{Val: 1.5}, DoubleValue{Val: 1.5}},
		{"Double", StringValue{Val: "x"}, StringValue{Val: "x"}},
	}
	for _, tc := range cases {
		got := CoerceToAnnotation(tc.annotation, tc.in)
		if got != tc.want {
			t.Fatalf("CoerceToAnnotation(%q, %#v) = %#v, want %#v", tc.annotation, tc.in, got, tc.want)
		}
	}
}

func TestToIndex(t *testing.T) {
	if idx, ok := ToIndex(IntValue{Val: 4}); !ok || idx != 4 {
		t.Fatalf("expected index 4, got %d %v", idx, ok)
	}
	if _, ok := ToIndex(DoubleValue{Val: 1.5}); ok {
		t.Fatalf("fractional doubles are not indices")
	}
	if _, ok := ToIndex(StringValue{Val: "1"}); ok {
		t.Fatalf("strings are not indices")
	}
}
