package runtime

import (
	"math"
	"strings"

	"fortio.org/safecast"
)

var floatingAnnotations = map[string]bool{
	"Double":  true,
	"Float":   true,
	"Float32": true,
	"Float64": true,
	"CGFloat": true,
}

type intRange struct {
	lo, hi int64
}

var integerAnnotations = map[string]intRange{
	"Int":    {math.MinInt64, math.MaxInt64},
	"Int64":  {math.MinInt64, math.MaxInt64},
	"Int32":  {math.MinInt32, math.MaxInt32},
	"Int16":  {math.MinInt16, math.MaxInt16},
	"Int8":   {math.MinInt8, math.MaxInt8},
	"UInt":   {0, math.MaxInt64},
	"UInt64": {0, math.MaxInt64},
	"UInt32": {0, math.MaxUint32},
	"UInt16": {0, math.MaxUint16},
	"UInt8":  {0, math.MaxUint8},
}

// truncate drops the fraction and saturates at the range bounds.
func (r intRange) truncate(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if n, err := safecast.Truncate[int64](f); err == nil && n >= r.lo && n <= r.hi {
		return n
	}
	switch {
	case f <= float64(r.lo):
		return r.lo
	case f >= float64(r.hi):
		return r.hi
	default:
		return int64(math.Trunc(f))
	}
}

// NormalizeAnnotation strips optionality and whitespace from a type
// annotation, so `Double?` and ` Double ` both read as `Double`.
func NormalizeAnnotation(annotation string) string {
	name := strings.TrimSpace(annotation)
	name = strings.TrimPrefix(name, ":")
	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, "?!")
	return name
}

// IsFloatingAnnotation reports whether annotation names a floating type.
func IsFloatingAnnotation(annotation string) bool {
	return floatingAnnotations[NormalizeAnnotation(annotation)]
}

// IsIntegerAnnotation reports whether annotation names an integer type.
func IsIntegerAnnotation(annotation string) bool {
	_, ok := integerAnnotations[NormalizeAnnotation(annotation)]
	return ok
}

// CoerceToAnnotation widens integers for floating annotations and
// truncates doubles for integer annotations. Unrecognised spellings pass
// the value through unchanged.
func CoerceToAnnotation(annotation string, value Value) Value {
	name := NormalizeAnnotation(annotation)
	switch v := value.(type) {
	case IntValue:
		if floatingAnnotations[name] {
			return DoubleValue{Val: float64(v.Val)}
		}
	case DoubleValue:
		if bounds, ok := integerAnnotations[name]; ok {
			return IntValue{Val: bounds.truncate(v.Val)}
		}
	}
	return value
}

// TruncateDouble converts f to an integer, saturating at the int64 bounds
// and mapping NaN to zero.
func TruncateDouble(f float64) int64 {
	return integerAnnotations["Int"].truncate(f)
}

// ToFloat promotes numeric values to float64.
func ToFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case IntValue:
		return float64(n.Val), true
	case DoubleValue:
		return n.Val, true
	default:
		return 0, false
	}
}

// ToInt extracts an integer; doubles are accepted when they are whole.
func ToInt(v Value) (int64, bool) {
	switch n := v.(type) {
	case IntValue:
		return n.Val, true
	case DoubleValue:
		if n.Val == math.Trunc(n.Val) && !math.IsInf(n.Val, 0) {
			return TruncateDouble(n.Val), true
		}
	}
	return 0, false
}

// ToIndex converts an integer value to a Go slice index.
func ToIndex(v Value) (int, bool) {
	n, ok := ToInt(v)
	if !ok {
		return 0, false
	}
	idx, err := safecast.Conv[int](n)
	if err != nil {
		return 0, false
	}
	return idx, true
}
