package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// TestSetNextPoint_AttributesEachByteAndBackfills covers spec section
// 8 end-to-end scenario 6: two single-byte opcodes each get their own
// point, and a multi-byte instruction attributed by a single
// SetNextPoint call has every one of its bytes resolve to that point.
func TestSetNextPoint_AttributesEachByteAndBackfills(t *testing.T) {
	c := NewStandard("(main)")

	c.AddOpcode(opcode.RETURN)
	c.SetNextPoint(5, 1)

	c.AddOpcode(opcode.ENDFN)
	c.SetNextPoint(5, 3)

	p0, ok := c.GetPoint(0)
	require.True(t, ok)
	assert.Equal(t, Point{Line: 5, Column: 1}, p0)

	p1, ok := c.GetPoint(1)
	require.True(t, ok)
	assert.Equal(t, Point{Line: 5, Column: 3}, p1)

	// A three-byte instruction (opcode + 16-bit operand) attributed by
	// a single trailing SetNextPoint call back-fills all three bytes
	// to the same point.
	c2 := NewStandard("(main)")
	c2.AddOpcode(opcode.CONSTANT)
	c2.AddUint16(0)
	c2.SetNextPoint(7, 2)

	for i := 0; i < 3; i++ {
		p, ok := c2.GetPoint(i)
		require.True(t, ok, "byte %d should be attributed", i)
		assert.Equal(t, Point{Line: 7, Column: 2}, p)
	}
}

func TestGetPoint_UnattributedByteReportsFalse(t *testing.T) {
	c := NewStandard("(main)")
	_, ok := c.GetPoint(0)
	assert.False(t, ok)
}

func TestConstantPool_RoundTripsThroughGetConstant(t *testing.T) {
	c := NewStandard("(main)")
	idx := c.AddConstant(values.NewInt(42))
	assert.Equal(t, int32(0), idx)

	got := c.GetConstant(idx)
	assert.Equal(t, int32(42), got.Data.(int32))

	cached := c.GetConstantValue(idx)
	assert.Same(t, cached, c.GetConstantValue(idx), "GetConstantValue must cache and reuse the same *Value")
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	c := NewStandard("script.sh")
	c.AddConstant(values.NewInt(7))
	c.AddConstant(values.NewString("hi"))
	c.AddOpcode(opcode.CONSTANT)
	c.AddUint16(0)
	c.SetNextPoint(1, 1)
	c.HasVars = true

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))

	decoded, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, c.Name, decoded.Name)
	assert.Equal(t, c.Data, decoded.Data)
	assert.Equal(t, c.HasVars, decoded.HasVars)
	require.Len(t, decoded.Constants, 2)
	assert.Equal(t, int32(7), decoded.GetConstant(0).Data.(int32))
	assert.Equal(t, "hi", decoded.GetConstant(1).Data.(*values.StringTriple).Raw)

	p, ok := decoded.GetPoint(0)
	require.True(t, ok)
	assert.Equal(t, Point{Line: 1, Column: 1}, p)
}

func TestGenerator_ChunkCarriesArgCounts(t *testing.T) {
	g := NewGenerator("gen", 2, 1)
	assert.True(t, g.IsGenerator)
	assert.Equal(t, int32(2), g.ArgCount)
	assert.Equal(t, int32(1), g.ReqArgCount)
}
