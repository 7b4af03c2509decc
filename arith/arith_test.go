package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/shellish/values"
)

// TestAdd_IntOverflowPromotesToBigInt covers spec section 8 end-to-end
// scenario 1: Int(2147483647) + Int(1) -> BigInt("2147483648").
func TestAdd_IntOverflowPromotesToBigInt(t *testing.T) {
	v1 := values.NewInt(1)
	v2 := values.NewInt(2147483647)

	result, err := Add(v1, v2)
	require.NoError(t, err)
	require.Equal(t, values.KindBigInt, result.Kind)

	want, _ := new(big.Int).SetString("2147483648", 10)
	assert.Equal(t, 0, result.Data.(*values.BigInt).Cmp(want))
}

// TestAdd_FloatAbsorbsBigInt covers spec section 8 end-to-end scenario
// 2: Float(1.5) + BigInt("10") -> Float(11.5).
func TestAdd_FloatAbsorbsBigInt(t *testing.T) {
	ten, ok := values.ParseBigInt("10")
	require.True(t, ok)

	v1 := ten
	v2 := values.NewFloat(1.5)

	result, err := Add(v1, v2)
	require.NoError(t, err)
	require.Equal(t, values.KindFloat, result.Kind)
	assert.Equal(t, 11.5, result.Data.(float64))
}

func TestSub_ReversedOperandConvention(t *testing.T) {
	// v1 is popped first (top of stack), v2 second; Sub computes
	// v2 - v1, matching the package's documented reversed convention.
	v1 := values.NewInt(3)
	v2 := values.NewInt(10)

	result, err := Sub(v1, v2)
	require.NoError(t, err)
	assert.Equal(t, int32(7), result.Data.(int32))
}

func TestDiv_ByZeroIsArithmeticError(t *testing.T) {
	v1 := values.NewInt(0)
	v2 := values.NewInt(5)

	_, err := Div(v1, v2)
	require.Error(t, err)
	var ae *ArithError
	require.ErrorAs(t, err, &ae)
}

func TestEq_SameRung(t *testing.T) {
	result, err := Eq(values.NewInt(5), values.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.Data.(int32))

	result, err = Eq(values.NewInt(5), values.NewInt(6))
	require.NoError(t, err)
	assert.Equal(t, int32(0), result.Data.(int32))
}

func TestEq_CrossKindWithoutCompatFlagErrors(t *testing.T) {
	defer func() { CompatStringEquality = false }()
	CompatStringEquality = false

	// "abc" coerces to neither int, bigint, nor float, so the
	// promotion ladder finds no common rung and the comparison must
	// fail unless the legacy string fallback is enabled.
	_, err := Eq(values.NewString("abc"), values.NewInt(5))
	require.Error(t, err)
}

func TestEq_CrossKindWithCompatFlagFallsBackToString(t *testing.T) {
	defer func() { CompatStringEquality = false }()
	CompatStringEquality = true

	result, err := Eq(values.NewString("true"), values.NewBool(true))
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.Data.(int32))
}

func TestGtLt_ReversedOperandConvention(t *testing.T) {
	// Gt(v1, v2) asks "is v2 greater than v1?"
	result, err := Gt(values.NewInt(3), values.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.Data.(int32))

	result, err = Lt(values.NewInt(10), values.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.Data.(int32))
}
