package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
	"github.com/wudi/shellish/vm"
)

func yieldingChunk(t *testing.T, ints ...int32) *chunk.Chunk {
	t.Helper()
	c := chunk.NewGenerator("gen", 0, 0)
	for _, n := range ints {
		idx := c.AddConstant(values.NewInt(n))
		c.AddOpcode(opcode.CONSTANT)
		c.AddUint16(uint16(idx))
		c.AddOpcode(opcode.YIELD)
	}
	c.AddOpcode(opcode.RETURN)
	return c
}

// TestGeneratorObject_ShiftYieldsThenExhausts covers spec section 8
// end-to-end scenario 3: a generator chunk that yields 1, 2, 3 and
// then returns; a fourth Shift reports exhaustion.
func TestGeneratorObject_ShiftYieldsThenExhausts(t *testing.T) {
	fc := yieldingChunk(t, 1, 2, 3)
	owner := vm.New(chunk.NewStandard("(main)"))

	genVal := newGeneratorValue(owner, fc, nil)
	g := genVal.Data.(*GeneratorObject)

	for _, want := range []int32{1, 2, 3} {
		v, hasMore, err := g.Shift()
		require.NoError(t, err)
		require.True(t, hasMore)
		assert.Equal(t, want, v.Data.(int32))
	}

	v, hasMore, err := g.Shift()
	require.NoError(t, err)
	assert.False(t, hasMore)
	assert.Nil(t, v)

	// Further shifts stay exhausted without rerunning the chunk.
	_, hasMore, err = g.Shift()
	require.NoError(t, err)
	assert.False(t, hasMore)
}

// TestGeneratorObject_PreservesOwnerContextAcrossShift ensures the
// owning VM's own stack/chunk/ip are restored after each Shift, since
// SaveContext/LoadContext swaps the owner's execution state out and
// back in around every step.
func TestGeneratorObject_PreservesOwnerContextAcrossShift(t *testing.T) {
	outerChunk := chunk.NewStandard("(main)")
	owner := vm.New(outerChunk)
	owner.PushValue(values.NewInt(99))

	fc := yieldingChunk(t, 1)
	genVal := newGeneratorValue(owner, fc, nil)
	g := genVal.Data.(*GeneratorObject)

	_, hasMore, err := g.Shift()
	require.NoError(t, err)
	require.True(t, hasMore)

	after := owner.SaveContext()
	assert.Same(t, outerChunk, after.Chunk)
	require.Len(t, after.Stack, 1)
	assert.Equal(t, int32(99), after.Stack[0].Data.(int32))
}

func TestMultiGenerator_RoundRobinsAndDropsExhausted(t *testing.T) {
	a := yieldingChunk(t, 1, 2)
	b := yieldingChunk(t, 10)
	owner := vm.New(chunk.NewStandard("(main)"))

	ga := newGeneratorValue(owner, a, nil)
	gb := newGeneratorValue(owner, b, nil)

	m := NewMultiGenerator([]*values.Value{ga, gb})

	var got []int32
	for i := 0; i < 10; i++ {
		v, hasMore, err := m.Data.(*MultiGenerator).Shift()
		require.NoError(t, err)
		if !hasMore {
			break
		}
		got = append(got, v.Data.(int32))
	}

	// a yields 1, then b yields 10 (round robin), then a yields 2, then
	// b is exhausted and removed, then a is exhausted too.
	assert.Equal(t, []int32{1, 10, 2}, got)
}

func TestMultiGenerator_SkipsNonShiftableSources(t *testing.T) {
	notShiftable := values.NewInt(5)
	m := NewMultiGenerator([]*values.Value{notShiftable})

	_, hasMore, err := m.Data.(*MultiGenerator).Shift()
	require.NoError(t, err)
	assert.False(t, hasMore)
}

func TestHashGenerators_IterateInInsertionOrder(t *testing.T) {
	h := values.NewHash().Data.(*values.Hash)
	h.Set("a", values.NewInt(1))
	h.Set("b", values.NewInt(2))

	keysVal := NewKeysGenerator(h)
	k1, ok, err := keysVal.Data.(*KeysGenerator).Shift()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", k1.Data.(*values.StringTriple).Raw)

	valuesVal := NewValuesGenerator(h)
	v1, ok, err := valuesVal.Data.(*ValuesGenerator).Shift()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(1), v1.Data.(int32))

	eachVal := NewEachGenerator(h)
	e1, ok, err := eachVal.Data.(*EachGenerator).Shift()
	require.NoError(t, err)
	require.True(t, ok)
	pair := e1.Data.(*values.List)
	first, _ := pair.Get(0)
	second, _ := pair.Get(1)
	assert.Equal(t, "a", first.Data.(*values.StringTriple).Raw)
	assert.Equal(t, int32(1), second.Data.(int32))

	for i := 0; i < 2; i++ {
		_, ok, _ = keysVal.Data.(*KeysGenerator).Shift()
		if i == 1 {
			assert.False(t, ok)
		}
	}
}

func TestCommandGenerator_SplitModeYieldsBareLines(t *testing.T) {
	genVal, err := NewCommandGenerator("printf 'one\\ntwo\\n'", false)
	require.NoError(t, err)
	g := genVal.Data.(*CommandGenerator)

	var lines []string
	for {
		v, hasMore, err := g.Shift()
		require.NoError(t, err)
		if !hasMore {
			break
		}
		lines = append(lines, v.Data.(*values.StringTriple).Raw)
	}
	assert.ElementsMatch(t, []string{"one", "two"}, lines)
}

func TestCommandGenerator_CombinedModeTagsStream(t *testing.T) {
	genVal, err := NewCommandGenerator("echo out", true)
	require.NoError(t, err)
	g := genVal.Data.(*CommandGenerator)

	v, hasMore, err := g.Shift()
	require.NoError(t, err)
	require.True(t, hasMore)
	pair := v.Data.(*values.List)
	stream, _ := pair.Get(0)
	line, _ := pair.Get(1)
	assert.Equal(t, int32(1), stream.Data.(int32))
	assert.Equal(t, "out", line.Data.(*values.StringTriple).Raw)
}
