package values

import "math/big"

// BigInt is the arbitrary-precision signed integer payload for
// KindBigInt. Shellish never stores a BigInt result that fits in int32
// (spec section 3.1 invariant) except when the value came straight from
// a literal constant.
type BigInt struct {
	*big.Int
}

// NewBigInt wraps a *big.Int.
func NewBigInt(i *big.Int) *Value {
	return &Value{Kind: KindBigInt, Data: &BigInt{Int: i}}
}

// NewBigIntFromInt64 builds a BigInt value from an int64.
func NewBigIntFromInt64(i int64) *Value {
	return NewBigInt(big.NewInt(i))
}

// ParseBigInt parses a base-10 string into a BigInt value.
func ParseBigInt(s string) (*Value, bool) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return NewBigInt(i), true
}

// FitsInt32 reports whether the BigInt fits in a signed 32-bit integer.
func (b *BigInt) FitsInt32() bool {
	return b.IsInt64() && b.Int64() >= int32Min && b.Int64() <= int32Max
}

const (
	int32Min = -2147483648
	int32Max = 2147483647
)

// Normalize demotes a BigInt result back to Int when it fits, matching
// spec section 3.1's invariant that arithmetic never leaves a BigInt
// holding an i32-representable value.
func Normalize(v *Value) *Value {
	if v.Kind != KindBigInt {
		return v
	}
	b := v.Data.(*BigInt)
	if b.FitsInt32() {
		return NewInt(int32(b.Int64()))
	}
	return v
}
