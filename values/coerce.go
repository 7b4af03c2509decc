package values

import (
	"math/big"
	"strconv"
)

// ToInt implements the to_int coercion of spec section 4.1.
func (v *Value) ToInt() (int32, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Kind {
	case KindInt:
		return v.Data.(int32), true
	case KindBigInt:
		b := v.Data.(*BigInt)
		if b.FitsInt32() {
			return int32(b.Int64()), true
		}
		return 0, false
	case KindFloat:
		return int32(v.Data.(float64)), true
	case KindString:
		n, err := strconv.ParseInt(v.Data.(*StringTriple).Raw, 10, 32)
		if err != nil {
			return 0, false
		}
		return int32(n), true
	case KindNull:
		return 0, true
	default:
		return 0, false
	}
}

// ToBigInt implements the to_bigint coercion of spec section 4.1.
func (v *Value) ToBigInt() (*big.Int, bool) {
	if v == nil {
		return nil, false
	}
	switch v.Kind {
	case KindInt:
		return big.NewInt(int64(v.Data.(int32))), true
	case KindBigInt:
		return new(big.Int).Set(v.Data.(*BigInt).Int), true
	case KindFloat:
		return big.NewInt(int64(v.Data.(float64))), true
	case KindString:
		n, ok := new(big.Int).SetString(v.Data.(*StringTriple).Raw, 10)
		if !ok {
			return nil, false
		}
		return n, true
	case KindNull:
		return big.NewInt(0), true
	default:
		return nil, false
	}
}

// ToFloat implements the to_float coercion of spec section 4.1.
func (v *Value) ToFloat() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Kind {
	case KindInt:
		return float64(v.Data.(int32)), true
	case KindBigInt:
		f := new(big.Float).SetInt(v.Data.(*BigInt).Int)
		out, _ := f.Float64()
		return out, true
	case KindFloat:
		return v.Data.(float64), true
	case KindString:
		f, err := strconv.ParseFloat(v.Data.(*StringTriple).Raw, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case KindNull:
		return 0.0, true
	default:
		return 0, false
	}
}

// ToDisplayString implements the to_string coercion of spec section
// 4.1: numeric variants render as canonical decimal, IP objects use
// their textual form, IpSet joins sorted v4-then-v6 networks, Null is
// empty, and String returns its raw text directly (a zero-copy borrow
// in spirit — Go strings are already immutable/shared).
func (v *Value) ToDisplayString() (string, bool) {
	if v == nil {
		return "", true
	}
	switch v.Kind {
	case KindNull:
		return "", true
	case KindString:
		return v.Data.(*StringTriple).Raw, true
	case KindInt:
		return strconv.FormatInt(int64(v.Data.(int32)), 10), true
	case KindBigInt:
		return v.Data.(*BigInt).String(), true
	case KindFloat:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64), true
	case KindBool:
		if v.Data.(bool) {
			return "true", true
		}
		return "false", true
	case KindIpv4:
		return v.Data.(Ipv4).String(), true
	case KindIpv6:
		return v.Data.(Ipv6).String(), true
	case KindIpv4Range:
		return v.Data.(Ipv4Range).String(), true
	case KindIpv6Range:
		return v.Data.(Ipv6Range).String(), true
	case KindIpSet:
		return v.Data.(*IpSet).String(), true
	default:
		return "", false
	}
}
