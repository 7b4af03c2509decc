package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
	"github.com/wudi/shellish/vm"
)

func TestInstall_DefinesEveryCoreFunction(t *testing.T) {
	machine := vm.New(chunk.NewStandard("(main)"))
	Install(machine)

	for name := range functions {
		v, ok := machine.GetGlobal(name)
		require.True(t, ok, "expected global %q to be defined", name)
		assert.Equal(t, values.KindCoreFunction, v.Kind)
	}
}

// callCoreFunction pushes arg straight onto the VM's stack (IP values
// and hashes cannot be pooled as constants), then runs a chunk that
// looks up name as a global and calls it, returning the VM after
// running to completion.
func callCoreFunction(t *testing.T, name string, arg *values.Value) *vm.VM {
	t.Helper()
	c := chunk.NewStandard("(main)")

	nameIdx := c.AddConstant(values.NewString(name))
	c.AddOpcode(opcode.GETVAR)
	c.AddUint16(uint16(nameIdx))

	c.AddOpcode(opcode.CALL)

	machine := vm.New(c)
	Install(machine)
	machine.PushValue(arg)
	require.NoError(t, machine.Run())
	return machine
}

// TestCoreIP_Scenario4 covers spec section 8 end-to-end scenario 4:
// ip("10.0.0.0/8") then ip.len/ip.size on the results.
func TestCoreIP_Scenario4(t *testing.T) {
	machine := callCoreFunction(t, "ip", values.NewString("10.0.0.0/8"))
	top, ok := machine.PopValue()
	require.True(t, ok)
	require.Equal(t, values.KindIpv4, top.Kind)

	machine2 := callCoreFunction(t, "ip.len", top)
	top2, ok := machine2.PopValue()
	require.True(t, ok)
	assert.Equal(t, int32(8), top2.Data.(int32))

	rangeVal, err := values.ParseIP("10.0.0.0-10.0.0.3")
	require.NoError(t, err)
	machine3 := callCoreFunction(t, "ip.size", rangeVal)
	top3, ok := machine3.PopValue()
	require.True(t, ok)
	require.Equal(t, values.KindBigInt, top3.Kind)
	assert.Equal(t, int64(4), top3.Data.(*values.BigInt).Int64())
}

func TestCoreKeys_WrapsHashInGenerator(t *testing.T) {
	h := values.NewHash()
	h.Data.(*values.Hash).Set("a", values.NewInt(1))

	machine := callCoreFunction(t, "keys", h)
	top, ok := machine.PopValue()
	require.True(t, ok)
	assert.Equal(t, values.KindKeysGenerator, top.Kind)
}

// TestCoreMatch_CompilesAndReusesPattern exercises the String regex
// cache (spec section 9's "String regex caching" design note): the
// first call compiles "^a.c$" through values.StringTriple.Regex, the
// second call against a different subject reuses the cached pattern,
// and a non-matching subject returns false.
func TestCoreMatch_CompilesAndReusesPattern(t *testing.T) {
	callMatch := func(subject, pattern string) bool {
		c := chunk.NewStandard("(main)")

		subjIdx := c.AddConstant(values.NewString(subject))
		c.AddOpcode(opcode.CONSTANT)
		c.AddUint16(uint16(subjIdx))

		patIdx := c.AddConstant(values.NewString(pattern))
		c.AddOpcode(opcode.CONSTANT)
		c.AddUint16(uint16(patIdx))

		nameIdx := c.AddConstant(values.NewString("match"))
		c.AddOpcode(opcode.GETVAR)
		c.AddUint16(uint16(nameIdx))

		c.AddOpcode(opcode.CALL)

		machine := vm.New(c)
		Install(machine)
		require.NoError(t, machine.Run())

		top, ok := machine.PopValue()
		require.True(t, ok)
		return top.Data.(bool)
	}

	assert.True(t, callMatch("abc", "^a.c$"))
	assert.True(t, callMatch("axc", "^a.c$"))
	assert.False(t, callMatch("abcd", "^a.c$"))
}

func TestCoreCommand_RejectsEmptyString(t *testing.T) {
	c := chunk.NewStandard("(main)")
	argIdx := c.AddConstant(values.NewString("   "))
	c.AddOpcode(opcode.CONSTANT)
	c.AddUint16(uint16(argIdx))
	nameIdx := c.AddConstant(values.NewString("command"))
	c.AddOpcode(opcode.GETVAR)
	c.AddUint16(uint16(nameIdx))
	c.AddOpcode(opcode.CALL)

	machine := vm.New(c)
	Install(machine)
	err := machine.Run()
	require.Error(t, err)

	vmErr, ok := err.(*vm.Error)
	require.True(t, ok)
	assert.Equal(t, vm.TypeError, vmErr.Kind)
}
