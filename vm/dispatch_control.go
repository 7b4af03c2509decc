package vm

import "github.com/wudi/shellish/opcode"

// dispatchControl implements the control-flow family (spec section
// 4.4). JUMP/JUMPNE take an absolute 16-bit byte offset; JUMPR/
// JUMPNER/JUMPNEREQC take an ip-relative signed offset (encoded as
// uint16 two's complement, matching the chunk's big-endian 16-bit
// operand convention). The JUMPNE family pops the top of stack and
// jumps when it is *not* truthy — the compiler emits these for
// "continue the loop while condition holds" constructs, jumping past
// the loop body once the condition goes false.
func (vm *VM) dispatchControl(op opcode.Code) error {
	switch op {
	case opcode.JUMP:
		target := int(vm.readUint16())
		vm.ip = target
		return nil
	case opcode.JUMPR:
		offset := int(int16(vm.readUint16()))
		vm.ip += offset
		return nil
	case opcode.JUMPNE:
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "JUMPNE requires one value on the stack")
		}
		target := int(vm.readUint16())
		if !v.Truthy() {
			vm.ip = target
		}
		return nil
	case opcode.JUMPNER:
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "JUMPNER requires one value on the stack")
		}
		offset := int(int16(vm.readUint16()))
		if !v.Truthy() {
			vm.ip += offset
		}
		return nil
	case opcode.JUMPNEREQC:
		return vm.dispatchJumpNeReqC()
	}
	return nil
}

// dispatchJumpNeReqC implements JUMPNEREQC: pop the top of stack,
// compare it for equality against a pooled constant, and take the
// relative jump when they are *not* equal — a fusion of EQCONSTANT
// and JUMPNER that avoids round-tripping the comparison result
// through the stack for the common "while x != CONST" loop guard.
func (vm *VM) dispatchJumpNeReqC() error {
	v, ok := vm.pop()
	if !ok {
		return vm.err(ArityError, "JUMPNEREQC requires one value on the stack")
	}
	hi, lo := vm.chunk.Data[vm.ip+1], vm.chunk.Data[vm.ip+2]
	offset := int(int16(uint16(hi)<<8 | uint16(lo)))
	constIdx := int32(vm.chunk.Data[vm.ip+3])
	constVal := vm.chunk.GetConstantValue(constIdx)

	result, err := vm.applyArithOp(opcode.EQ, v, constVal)
	if err != nil {
		vm.ip += 4
		return vm.err(TypeError, "%s", err)
	}
	equal := result.Data.(int32) != 0
	if !equal {
		vm.ip += offset
	} else {
		vm.ip += 4
	}
	return nil
}
