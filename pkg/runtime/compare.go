package runtime

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Equal implements `==`. Numbers compare across Int and Double; strings
// compare after NFC normalisation; enum cases compare by name (and type,
// when both carry one) and associated values.
func Equal(a, b Value) bool {
	if IsVoid(a) || IsVoid(b) {
		return IsVoid(a) && IsVoid(b)
	}
	if af, ok := ToFloat(a); ok {
		if bf, ok := ToFloat(b); ok {
			if ai, aok := a.(IntValue); aok {
				if bi, bok := b.(IntValue); bok {
					return ai.Val == bi.Val
				}
			}
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && norm.NFC.String(av.Val) == norm.NFC.String(bv.Val)
	case UUIDValue:
		bv, ok := b.(UUIDValue)
		return ok && av.Val == bv.Val
	case DateValue:
		bv, ok := b.(DateValue)
		return ok && av.Val.Equal(bv.Val)
	case EnumCaseValue:
		bv, ok := b.(EnumCaseValue)
		if !ok || av.Case != bv.Case {
			return false
		}
		if av.TypeName != "" && bv.TypeName != "" && av.TypeName != bv.TypeName {
			return false
		}
		if len(av.Associated) != len(bv.Associated) {
			return len(av.Associated) == 0 || len(bv.Associated) == 0
		}
		for i := range av.Associated {
			if !Equal(av.Associated[i], bv.Associated[i]) {
				return false
			}
		}
		return true
	case ArrayValue:
		bv, ok := b.(ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case MapValue:
		bv, ok := b.(MapValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, entry := range av.Entries {
			other, found := bv.Get(entry.Key)
			if !found || !Equal(entry.Value, other) {
				return false
			}
		}
		return true
	case *InstanceValue:
		bv, ok := b.(*InstanceValue)
		return ok && av == bv
	case *TypeValue:
		bv, ok := b.(*TypeValue)
		return ok && av == bv
	case KeyPathValue:
		bv, ok := b.(KeyPathValue)
		return ok && av.Path.String() == bv.Path.String()
	default:
		return false
	}
}

// Compare orders two scalars, returning -1, 0 or 1.
func Compare(a, b Value) (int, error) {
	if ai, ok := a.(IntValue); ok {
		if bi, ok := b.(IntValue); ok {
			return cmpOrdered(ai.Val, bi.Val), nil
		}
	}
	if af, ok := ToFloat(a); ok {
		if bf, ok := ToFloat(b); ok {
			return cmpOrdered(af, bf), nil
		}
	}
	switch av := a.(type) {
	case StringValue:
		if bv, ok := b.(StringValue); ok {
			return strings.Compare(norm.NFC.String(av.Val), norm.NFC.String(bv.Val)), nil
		}
	case BoolValue:
		if bv, ok := b.(BoolValue); ok {
			return cmpOrdered(boolRank(av.Val), boolRank(bv.Val)), nil
		}
	case DateValue:
		if bv, ok := b.(DateValue); ok {
			return av.Val.Compare(bv.Val), nil
		}
	case EnumCaseValue:
		if bv, ok := b.(EnumCaseValue); ok {
			return cmpOrdered(caseOrdinal(av), caseOrdinal(bv)), nil
		}
	}
	return 0, Errorf(UnsupportedExpression, "Cannot compare %s with %s", kindName(a), kindName(b))
}

func cmpOrdered[T int64 | float64 | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// caseOrdinal is the declaration index of an enum case, or -1 when the
// case has no known type.
func caseOrdinal(v EnumCaseValue) int {
	if v.Type == nil || v.Type.Definition == nil {
		return -1
	}
	for i, c := range v.Type.Definition.Cases {
		if c.Name == v.Case {
			return i
		}
	}
	return -1
}

func kindName(v Value) string {
	if v == nil {
		return KindVoid.String()
	}
	return v.Kind().String()
}
