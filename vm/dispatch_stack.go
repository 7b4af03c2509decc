package vm

import "github.com/wudi/shellish/opcode"

// dispatchStack implements the stack-shuffle family (spec section
// 4.4): DROP, CLEAR, DUP, OVER, SWAP, ROT, DEPTH.
func (vm *VM) dispatchStack(op opcode.Code) error {
	switch op {
	case opcode.DROP:
		if _, ok := vm.pop(); !ok {
			return vm.err(ArityError, "DROP requires one value on the stack")
		}
	case opcode.CLEAR:
		vm.stack = vm.stack[:0]
	case opcode.DUP:
		v, ok := vm.peek(0)
		if !ok {
			return vm.err(ArityError, "DUP requires one value on the stack")
		}
		vm.push(v)
	case opcode.OVER:
		v, ok := vm.peek(1)
		if !ok {
			return vm.err(ArityError, "OVER requires two values on the stack")
		}
		vm.push(v)
	case opcode.SWAP:
		n := len(vm.stack)
		if n < 2 {
			return vm.err(ArityError, "SWAP requires two values on the stack")
		}
		vm.stack[n-1], vm.stack[n-2] = vm.stack[n-2], vm.stack[n-1]
	case opcode.ROT:
		n := len(vm.stack)
		if n < 3 {
			return vm.err(ArityError, "ROT requires three values on the stack")
		}
		vm.stack[n-3], vm.stack[n-2], vm.stack[n-1] = vm.stack[n-2], vm.stack[n-1], vm.stack[n-3]
	case opcode.DEPTH:
		vm.push(intValue(len(vm.stack)))
	}
	vm.ip++
	return nil
}
