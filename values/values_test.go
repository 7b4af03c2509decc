package values

import (
	"fmt"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeepClone_ListIsIndependentOfOriginal covers spec section 8's
// universal deep-clone property: mutating the clone's aggregates must
// not affect the original.
func TestDeepClone_ListIsIndependentOfOriginal(t *testing.T) {
	original := NewListFrom([]*Value{NewInt(1), NewInt(2)})
	clone := DeepClone(original)

	origFirst, _ := original.Data.(*List).Get(0)
	cloneFirst, _ := clone.Data.(*List).Get(0)
	assert.True(t, Equal(origFirst, cloneFirst))

	clone.Data.(*List).PushBack(NewInt(3))
	assert.Equal(t, 2, original.Data.(*List).Len())
	assert.Equal(t, 3, clone.Data.(*List).Len())
}

func TestDeepClone_HashIsIndependentOfOriginal(t *testing.T) {
	original := NewHash()
	original.Data.(*Hash).Set("a", NewInt(1))

	clone := DeepClone(original)
	clone.Data.(*Hash).Set("a", NewInt(99))

	v, _ := original.Data.(*Hash).Get("a")
	assert.Equal(t, int32(1), v.Data.(int32))
	v2, _ := clone.Data.(*Hash).Get("a")
	assert.Equal(t, int32(99), v2.Data.(int32))
}

func TestDeepClone_ScalarsCompareEqual(t *testing.T) {
	for _, v := range []*Value{
		NewInt(42), NewFloat(1.5), NewBool(true), Null(), NewString("hi"),
	} {
		clone := DeepClone(v)
		assert.True(t, Equal(v, clone))
	}
}

func TestTruthy_ClonePreservesTruthiness(t *testing.T) {
	for _, v := range []*Value{
		NewInt(0), NewInt(1), NewFloat(0), NewString(""), NewString("0"),
		NewString("hello"), Null(), NewBool(false), NewListFrom(nil),
	} {
		assert.Equal(t, v.Truthy(), DeepClone(v).Truthy())
	}
}

func TestSet_HomogeneityRejectsMixedKinds(t *testing.T) {
	s := NewSet().Data.(*Set)

	ok := s.Add(NewInt(1), PrintableKey(NewInt(1)))
	require.True(t, ok)

	ok = s.Add(NewString("x"), PrintableKey(NewString("x")))
	assert.False(t, ok, "set section 8 end-to-end scenario 5: string insertion into an int set must fail")

	ok = s.Add(NewInt(2), PrintableKey(NewInt(2)))
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestParseIP_RoundTripAndAcceptanceRules(t *testing.T) {
	v, err := ParseIP("10.0.0.0/8")
	require.NoError(t, err)
	require.Equal(t, KindIpv4, v.Kind)
	assert.Equal(t, "10.0.0.0/8", v.Data.(Ipv4).String())

	host, err := ParseIP("192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.1", host.Data.(Ipv4).String())

	rng, err := ParseIP("10.0.0.0-10.0.0.3")
	require.NoError(t, err)
	require.Equal(t, KindIpv4Range, rng.Kind)
	assert.Equal(t, int64(4), rng.Data.(Ipv4Range).Size().Int64())

	_, err = ParseIP("10.0.0.1/8")
	assert.Error(t, err, "non-zero host bits under the given prefix must be rejected")

	_, err = ParseIP("10.0.0.5-10.0.0.1")
	assert.Error(t, err, "range start must be less than end")
}

func TestRound_IntBigIntFloat_ToStringThenParse(t *testing.T) {
	i := NewInt(42)
	s, ok := i.ToDisplayString()
	require.True(t, ok)
	n, ok := NewString(s).ToInt()
	require.True(t, ok)
	assert.Equal(t, int32(42), n)

	bi, ok := ParseBigInt("123456789012345678901234567890")
	require.True(t, ok)
	s, ok = bi.ToDisplayString()
	require.True(t, ok)
	reparsed, ok := ParseBigInt(s)
	require.True(t, ok)
	assert.True(t, Equal(bi, reparsed))

	f := NewFloat(1.5)
	s, ok = f.ToDisplayString()
	require.True(t, ok)
	fl, ok := NewString(s).ToFloat()
	require.True(t, ok)
	assert.Equal(t, 1.5, fl)
}

// TestFuzz_IntRoundTripsThroughDisplayString uses gofuzz (as
// ProbeChain-go-probe's test suites do for randomized struct fields)
// to generate operand inputs for the to_string/parse round trip, in
// place of a fixed table of hand-picked integers.
func TestFuzz_IntRoundTripsThroughDisplayString(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 200; i++ {
		var n int32
		f.Fuzz(&n)

		s, ok := NewInt(n).ToDisplayString()
		require.True(t, ok)
		got, ok := NewString(s).ToInt()
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
}

// TestFuzz_IPv4RoundTripsThroughParseIP generates random host
// addresses and checks ParseIP(ip.String()) reproduces the same
// address, covering spec section 6's "to_string is the left inverse
// of parse" property across the address space rather than a handful
// of fixed cases.
func TestFuzz_IPv4RoundTripsThroughParseIP(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 200; i++ {
		var a, b, c, d uint8
		f.Fuzz(&a)
		f.Fuzz(&b)
		f.Fuzz(&c)
		f.Fuzz(&d)

		text := fmt.Sprintf("%d.%d.%d.%d", a, b, c, d)
		v, err := ParseIP(text)
		require.NoError(t, err)
		require.Equal(t, KindIpv4, v.Kind)

		reparsed, err := ParseIP(v.Data.(Ipv4).String())
		require.NoError(t, err)
		assert.Equal(t, v.Data.(Ipv4).String(), reparsed.Data.(Ipv4).String())
	}
}
