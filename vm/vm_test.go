package vm

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

func constChunk(t *testing.T, consts ...*values.Value) *chunk.Chunk {
	t.Helper()
	c := chunk.NewStandard("(main)")
	for _, v := range consts {
		idx := c.AddConstant(v)
		c.AddOpcode(opcode.CONSTANT)
		c.AddUint16(uint16(idx))
	}
	return c
}

// TestScenario1_IntOverflowPromotesToBigInt is spec section 8
// end-to-end scenario 1.
func TestScenario1_IntOverflowPromotesToBigInt(t *testing.T) {
	c := constChunk(t, values.NewInt(2147483647), values.NewInt(1))
	c.AddOpcode(opcode.ADD)

	machine := New(c)
	require.NoError(t, machine.Run())

	require.Len(t, machine.stack, 1)
	top := machine.stack[0]
	require.Equal(t, values.KindBigInt, top.Kind)
	assert.Equal(t, "2147483648", top.Data.(*values.BigInt).String())
}

// TestScenario2_FloatAbsorbsBigInt is spec section 8 end-to-end
// scenario 2.
func TestScenario2_FloatAbsorbsBigInt(t *testing.T) {
	bi, ok := values.ParseBigInt("10")
	require.True(t, ok)

	c := constChunk(t, values.NewFloat(1.5), bi)
	c.AddOpcode(opcode.ADD)

	machine := New(c)
	require.NoError(t, machine.Run())

	require.Len(t, machine.stack, 1)
	assert.Equal(t, values.KindFloat, machine.stack[0].Kind)
	assert.Equal(t, 11.5, machine.stack[0].Data.(float64))
}

// TestScenario5_SetHomogeneityRejectsStringInIntSet is spec section 8
// end-to-end scenario 5.
func TestScenario5_SetHomogeneityRejectsStringInIntSet(t *testing.T) {
	c := chunk.NewStandard("(main)")
	c.AddOpcode(opcode.STARTSET)

	pushConst := func(v *values.Value) {
		idx := c.AddConstant(v)
		c.AddOpcode(opcode.CONSTANT)
		c.AddUint16(uint16(idx))
	}
	pushConst(values.NewInt(1))
	pushConst(values.NewString("x"))
	pushConst(values.NewInt(2))
	c.AddOpcode(opcode.ENDSET)

	machine := New(c)
	err := machine.Run()
	require.Error(t, err)

	vmErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, TypeError, vmErr.Kind)
}

// TestSHIFT_TerminalShiftPushesNull covers the universal property
// (spec section 8): "for any non-empty generator, ... terminal SHIFT
// pushes Null" — exercised here on an already-exhausted FileReader,
// the simplest concrete Shifter.
func TestSHIFT_TerminalShiftPushesNull(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "empty")
	require.NoError(t, err)
	defer f.Close()

	c := chunk.NewStandard("(main)")
	c.AddOpcode(opcode.SHIFT)

	machine := New(c)
	machine.push(values.NewFileReader(f))
	require.NoError(t, machine.Run())

	require.Len(t, machine.stack, 2)
	assert.True(t, machine.stack[1].IsNull())
}

// TestSetLocal_GrowsFrameDynamically exercises the fix documented in
// DESIGN.md: a call frame starts with zero locals, and SETLOCALVAR
// must grow it rather than erroring out of range.
func TestSetLocal_GrowsFrameDynamically(t *testing.T) {
	machine := New(chunk.NewStandard("(main)"))
	machine.calls.PushFrame(&CallFrame{Chunk: machine.chunk})

	ok := machine.setLocal(3, values.NewInt(9))
	require.True(t, ok)

	v, ok := machine.getLocal(3)
	require.True(t, ok)
	assert.Equal(t, int32(9), v.Data.(int32))

	v, ok = machine.getLocal(0)
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

// TestOPEN_RejectsFileOverSizeLimit covers the fix documented in
// DESIGN.md: OPEN's read mode stats the target before handing back a
// FileReader, and a file past maxOpenFileBytes surfaces a humanized
// ResourceError instead of a working handle.
func TestOPEN_RejectsFileOverSizeLimit(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "big")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(maxOpenFileBytes+1))
	require.NoError(t, f.Close())

	c := chunk.NewStandard("(main)")
	pathIdx := c.AddConstant(values.NewString(f.Name()))
	modeIdx := c.AddConstant(values.NewInt(0)) // mode 0 == read
	c.AddOpcode(opcode.CONSTANT)
	c.AddUint16(uint16(pathIdx))
	c.AddOpcode(opcode.OPEN)
	c.AddUint16(uint16(modeIdx))

	machine := New(c)
	err = machine.Run()
	require.Error(t, err)

	vmErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ResourceError, vmErr.Kind)
	assert.Contains(t, vmErr.Message, "exceeds the limit of")
}

// TestCompatStringEquality_WiredFromVMField covers the fix documented
// in DESIGN.md: setting VM.CompatStringEquality must actually change
// EQ's string-fallback behavior.
func TestCompatStringEquality_WiredFromVMField(t *testing.T) {
	// "abc" coerces to no numeric rung, so EQ only succeeds here when
	// the legacy string-fallback flag is actually consulted.
	c := constChunk(t, values.NewString("abc"), values.NewString("abc"))
	c.AddOpcode(opcode.EQ)

	machine := New(c)
	machine.CompatStringEquality = true
	require.NoError(t, machine.Run())

	require.Len(t, machine.stack, 1)
	assert.Equal(t, int32(1), machine.stack[0].Data.(int32))
}
