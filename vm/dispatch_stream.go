package vm

import (
	"errors"

	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// errYielded is a control-flow sentinel, not a user-visible VM.Error:
// it signals that YIELD suspended the current chunk's execution, so
// RunUntilYield can hand control back to the generator package without
// treating the suspension as a failure.
var errYielded = errors.New("generator yielded")

// dispatchStream implements the stream/generator family (spec section
// 4.4/4.5): SHIFT peeks the generator-like value on top of stack and
// advances it one step, leaving the container in place and pushing
// the produced value (or Null at exhaustion) on top of it; YIELD
// suspends the current chunk, handing its popped operand to the
// driving generator.GeneratorObject; DUPISNULL duplicates the null-test of the
// top of stack without consuming it, the standard "while (shift) {...}"
// loop-guard idiom.
func (vm *VM) dispatchStream(op opcode.Code) error {
	switch op {
	case opcode.SHIFT:
		return vm.doShift()
	case opcode.YIELD:
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "YIELD requires one value on the stack")
		}
		vm.yieldedValue = v
		vm.ip++
		return errYielded
	case opcode.DUPISNULL:
		v, ok := vm.peek(0)
		if !ok {
			return vm.err(ArityError, "DUPISNULL requires one value on the stack")
		}
		vm.push(boolAsInt(v.IsNull()))
		vm.ip++
		return nil
	}
	return nil
}

func (vm *VM) doShift() error {
	v, ok := vm.peek(0)
	if !ok {
		return vm.err(ArityError, "SHIFT requires one value on the stack")
	}
	shifter, ok := v.Data.(values.Shifter)
	if !ok {
		return vm.err(TypeError, "%s is not shiftable", v.TypeName())
	}
	next, hasMore, err := shifter.Shift()
	if err != nil {
		return vm.err(ResourceError, "%s", err)
	}
	if !hasMore {
		vm.push(values.Null())
	} else {
		vm.push(next)
	}
	vm.ip++
	return nil
}

// RunUntilYield drives the VM's current chunk until it yields a value,
// runs off the end of the chunk, or errors. yielded reports which of
// the first two happened; the yielded value itself is available via
// TakeYielded.
func (vm *VM) RunUntilYield() (yielded bool, err error) {
	for vm.ip < len(vm.chunk.Data) {
		stepErr := vm.step()
		if stepErr == errYielded {
			return true, nil
		}
		if stepErr != nil {
			return false, stepErr
		}
	}
	return false, nil
}

// TakeYielded returns and clears the most recently yielded value.
func (vm *VM) TakeYielded() *values.Value {
	v := vm.yieldedValue
	vm.yieldedValue = nil
	return v
}
