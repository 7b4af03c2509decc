// Package arith implements the promotion-ladder arithmetic kernel of
// spec section 4.3: Int, promoting to BigInt on overflow and to Float
// on any Float operand, plus the three-way comparison operators.
//
// Every binary operator here follows the original interpreter's
// operand order: the VM pops the top of the value stack into v1 and
// the next value into v2, and for non-commutative operators (SUB,
// DIV, LT, GT) the result is computed as "v2 OP v1" — the
// second-from-top operand is the left-hand side. This is
// counterintuitive (textually the more recently pushed value acts as
// the right-hand operand) but matches
// original_source/src/vm/vm_arithmetic.rs exactly, and callers in the
// vm package must pop in that same v1-then-v2 order.
package arith

import (
	"math/big"
	"strconv"

	"github.com/wudi/shellish/values"
)

// CompatStringEquality gates the legacy cross-kind fallback to
// stringwise comparison in Eq/Gt/Lt once the int/bigint/float ladders
// fail to coerce both operands (spec section 9 Open Question). It
// defaults to off; the original interpreter always performed this
// fallback, but spec.md flags it as compatibility-only behavior that
// should not be the default for new code.
var CompatStringEquality = false

func intToBigInt(n int32) *big.Int { return big.NewInt(int64(n)) }

func bigIntToFloat(n *big.Int) float64 {
	f := new(big.Float).SetInt(n)
	out, _ := f.Float64()
	return out
}

// addInts implements add_ints: overflow-checked native add, promoting
// to BigInt only when the native add overflows.
func addInts(n1, n2 int32) *values.Value {
	sum := int64(n1) + int64(n2)
	if sum >= int32Min && sum <= int32Max {
		return values.NewInt(int32(sum))
	}
	return values.NewBigInt(new(big.Int).Add(intToBigInt(n1), intToBigInt(n2)))
}

// subtractInts implements subtract_ints: computes n2 - n1 (reversed
// operand order, see package doc).
func subtractInts(n1, n2 int32) *values.Value {
	diff := int64(n2) - int64(n1)
	if diff >= int32Min && diff <= int32Max {
		return values.NewInt(int32(diff))
	}
	return values.NewBigInt(new(big.Int).Sub(intToBigInt(n2), intToBigInt(n1)))
}

func multiplyInts(n1, n2 int32) *values.Value {
	prod := int64(n1) * int64(n2)
	if prod >= int32Min && prod <= int32Max {
		return values.NewInt(int32(prod))
	}
	return values.NewBigInt(new(big.Int).Mul(intToBigInt(n1), intToBigInt(n2)))
}

// divideInts implements divide_ints: computes n2 / n1 (reversed
// operand order), promoting to BigInt when the native division would
// not be exact-representable as the original's checked_div semantics
// — in practice Go int32 division never overflows except
// MinInt32/-1, which this still routes through BigInt for parity.
func divideInts(n1, n2 int32) (*values.Value, error) {
	if n1 == 0 {
		return nil, DivisionByZeroError
	}
	if n1 == -1 && n2 == int32Min {
		return values.NewBigInt(new(big.Int).Quo(intToBigInt(n2), intToBigInt(n1))), nil
	}
	return values.NewInt(n2 / n1), nil
}

const (
	int32Min = -2147483648
	int32Max = 2147483647
)

// DivisionByZeroError is returned by Div (the VM's DIV/DIVCONSTANT) when the
// divisor (v1, the top-of-stack operand) is zero.
var DivisionByZeroError = &ArithError{Message: "division by zero"}

// ArithError reports an arithmetic operator applied to incompatible
// operands, or division by zero.
type ArithError struct {
	Message string
}

func (e *ArithError) Error() string { return e.Message }

// rung is a position on the promotion ladder (Int < BigInt < Float).
// commonRung returns rungNone when the operands share no rung they
// both coerce to (spec section 4.3: "operators fail with
// a TypeError ... if no common rung exists").
type rung int

const (
	rungNone rung = iota
	rungInt
	rungBigInt
	rungFloat
)

func classify(v *values.Value) rung {
	switch v.Kind {
	case values.KindInt:
		return rungInt
	case values.KindBigInt:
		return rungBigInt
	case values.KindFloat:
		return rungFloat
	default:
		return rungNone
	}
}

// commonRung picks the higher of two direct-kind rungs, or falls back
// to the coercion ladder (to_int, to_bigint, to_float in turn) when at
// least one operand isn't natively numeric.
func commonRung(v1, v2 *values.Value) rung {
	r1, r2 := classify(v1), classify(v2)
	if r1 != rungNone && r2 != rungNone {
		if r1 > r2 {
			return r1
		}
		return r2
	}
	if _, ok1 := v1.ToInt(); ok1 {
		if _, ok2 := v2.ToInt(); ok2 {
			return rungInt
		}
	}
	if _, ok1 := v1.ToBigInt(); ok1 {
		if _, ok2 := v2.ToBigInt(); ok2 {
			return rungBigInt
		}
	}
	if _, ok1 := v1.ToFloat(); ok1 {
		if _, ok2 := v2.ToFloat(); ok2 {
			return rungFloat
		}
	}
	return rungNone
}

func asInt(v *values.Value) (int32, bool) {
	if v.Kind == values.KindInt {
		return v.Data.(int32), true
	}
	return v.ToInt()
}

func asBigInt(v *values.Value) (*big.Int, bool) {
	if v.Kind == values.KindBigInt {
		return v.Data.(*values.BigInt).Int, true
	}
	return v.ToBigInt()
}

func asFloat(v *values.Value) (float64, bool) {
	if v.Kind == values.KindFloat {
		return v.Data.(float64), true
	}
	return v.ToFloat()
}

// op identifies which binary arithmetic operator is being evaluated,
// so Binary can apply the correct reversed-operand convention.
type op int

const (
	OpAdd op = iota
	OpSub
	OpMul
	OpDiv
)

// Binary applies OP to v1 and v2 per the package's v1/v2 convention: v1 is
// the value popped first (originally top-of-stack), v2 is popped
// second. Addition and multiplication are commutative so operand order
// is immaterial; subtraction and division compute v2 OP v1.
func Binary(o op, v1, v2 *values.Value) (*values.Value, error) {
	switch commonRung(v1, v2) {
	case rungInt:
		n1, _ := asInt(v1)
		n2, _ := asInt(v2)
		switch o {
		case OpAdd:
			return addInts(n1, n2), nil
		case OpSub:
			return subtractInts(n1, n2), nil
		case OpMul:
			return multiplyInts(n1, n2), nil
		case OpDiv:
			return divideInts(n1, n2)
		}
	case rungBigInt:
		n1, _ := asBigInt(v1)
		n2, _ := asBigInt(v2)
		switch o {
		case OpAdd:
			return values.Normalize(values.NewBigInt(new(big.Int).Add(n1, n2))), nil
		case OpSub:
			return values.Normalize(values.NewBigInt(new(big.Int).Sub(n2, n1))), nil
		case OpMul:
			return values.Normalize(values.NewBigInt(new(big.Int).Mul(n1, n2))), nil
		case OpDiv:
			if n1.Sign() == 0 {
				return nil, DivisionByZeroError
			}
			return values.Normalize(values.NewBigInt(new(big.Int).Quo(n2, n1))), nil
		}
	case rungFloat:
		n1, _ := asFloat(v1)
		n2, _ := asFloat(v2)
		switch o {
		case OpAdd:
			return values.NewFloat(n1 + n2), nil
		case OpSub:
			return values.NewFloat(n2 - n1), nil
		case OpMul:
			return values.NewFloat(n1 * n2), nil
		case OpDiv:
			return values.NewFloat(n2 / n1), nil
		}
	}
	return nil, &ArithError{Message: "operator requires two numbers"}
}

// Add, Sub, Mul, Div are thin Binary wrappers, used directly by the vm
// package's ADD/SUB/MUL/DIV and *CONSTANT dispatch.
func Add(v1, v2 *values.Value) (*values.Value, error) { return Binary(OpAdd, v1, v2) }
func Sub(v1, v2 *values.Value) (*values.Value, error) { return Binary(OpSub, v1, v2) }
func Mul(v1, v2 *values.Value) (*values.Value, error) { return Binary(OpMul, v1, v2) }
func Div(v1, v2 *values.Value) (*values.Value, error) { return Binary(OpDiv, v1, v2) }

// Eq implements the three-way equality ladder of opcode_eq_inner: same-
// kind/cross-rung numeric equality first, falling back to stringwise
// comparison only when CompatStringEquality is set.
func Eq(v1, v2 *values.Value) (*values.Value, error) {
	switch commonRung(v1, v2) {
	case rungInt:
		n1, _ := asInt(v1)
		n2, _ := asInt(v2)
		return boolInt(n1 == n2), nil
	case rungBigInt:
		n1, _ := asBigInt(v1)
		n2, _ := asBigInt(v2)
		return boolInt(n1.Cmp(n2) == 0), nil
	case rungFloat:
		n1, _ := asFloat(v1)
		n2, _ := asFloat(v2)
		return boolInt(n1 == n2), nil
	}
	if CompatStringEquality {
		s1, ok1 := v1.ToDisplayString()
		s2, ok2 := v2.ToDisplayString()
		if ok1 && ok2 {
			return boolInt(s1 == s2), nil
		}
	}
	return nil, &ArithError{Message: "= requires two comparable values"}
}

// Gt implements "is v2 greater than v1" (opcode_gt_inner's reversed
// convention).
func Gt(v1, v2 *values.Value) (*values.Value, error) { return compare(v1, v2, false) }

// Lt implements "is v2 less than v1" (opcode_lt_inner's reversed
// convention).
func Lt(v1, v2 *values.Value) (*values.Value, error) { return compare(v1, v2, true) }

func compare(v1, v2 *values.Value, less bool) (*values.Value, error) {
	switch commonRung(v1, v2) {
	case rungInt:
		n1, _ := asInt(v1)
		n2, _ := asInt(v2)
		if less {
			return boolInt(n2 < n1), nil
		}
		return boolInt(n2 > n1), nil
	case rungBigInt:
		n1, _ := asBigInt(v1)
		n2, _ := asBigInt(v2)
		c := n2.Cmp(n1)
		if less {
			return boolInt(c < 0), nil
		}
		return boolInt(c > 0), nil
	case rungFloat:
		n1, _ := asFloat(v1)
		n2, _ := asFloat(v2)
		if less {
			return boolInt(n2 < n1), nil
		}
		return boolInt(n2 > n1), nil
	}
	if CompatStringEquality {
		s1, ok1 := v1.ToDisplayString()
		s2, ok2 := v2.ToDisplayString()
		if ok1 && ok2 {
			if less {
				return boolInt(s2 < s1), nil
			}
			return boolInt(s2 > s1), nil
		}
	}
	return nil, &ArithError{Message: "requires two comparable values"}
}

func boolInt(b bool) *values.Value {
	if b {
		return values.NewInt(1)
	}
	return values.NewInt(0)
}

// ParseNumericLiteral is a small helper used by the compiler-adjacent
// CONSTANT-folding path: it recognises whether a raw token parses as
// Int, BigInt, or Float, matching the promotion ladder's own rungs.
func ParseNumericLiteral(s string) (*values.Value, bool) {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return values.NewInt(int32(n)), true
	}
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return values.Normalize(values.NewBigInt(n)), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return values.NewFloat(f), true
	}
	return nil, false
}
