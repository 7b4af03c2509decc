package values

import "fmt"

// PrintableKey returns the printable form used to key Set elements
// (spec section 3.1). Values with a display coercion use it directly;
// anything else (a List, Hash, function, ...) falls back to a
// best-effort Go representation — Shellish sets are documented to hold
// simple scalar/IP values in practice.
func PrintableKey(v *Value) string {
	if s, ok := v.ToDisplayString(); ok {
		return s
	}
	return fmt.Sprintf("%s:%p", v.TypeName(), v)
}

// Equal implements same-kind value equality (sets key members by
// PrintableKey and EQ/EQCONSTANT go through arith.Eq, not through
// this function); it does not implement the cross-kind stringification
// fallback (that lives in the arith package, gated behind
// VM.CompatStringEquality per spec section 9).
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a.IsNull() && b.IsNull()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Data.(bool) == b.Data.(bool)
	case KindInt:
		return a.Data.(int32) == b.Data.(int32)
	case KindFloat:
		return a.Data.(float64) == b.Data.(float64)
	case KindBigInt:
		return a.Data.(*BigInt).Cmp(b.Data.(*BigInt).Int) == 0
	case KindString:
		return a.Data.(*StringTriple).Raw == b.Data.(*StringTriple).Raw
	case KindIpv4:
		av, bv := a.Data.(Ipv4), b.Data.(Ipv4)
		return av.Len == bv.Len && av.Addr == bv.Addr
	case KindIpv6:
		av, bv := a.Data.(Ipv6), b.Data.(Ipv6)
		return av.Len == bv.Len && av.Addr == bv.Addr
	default:
		return a.Data == b.Data
	}
}
