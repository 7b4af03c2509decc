package vm

import (
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// dispatchVars implements the variable family (spec section 4.4):
// VAR/GETVAR/SETVAR address the shared global map by name (a pooled
// string constant); SETLOCALVAR/GETLOCALVAR/POPLOCALVAR address the
// current frame's local-slot array by an 8-bit index, growing it on
// demand since a Chunk carries no static local-variable count (spec
// section 3.2 only records arg_count/req_arg_count for generator
// chunks); GLVSHIFT/GLVCALL are the local-slot fusions of SHIFT/CALL,
// letting the compiler advance or invoke a value already sitting in a
// local slot without first round-tripping it through GETLOCALVAR.
func (vm *VM) dispatchVars(op opcode.Code) error {
	switch op {
	case opcode.VAR:
		name := vm.constantName(vm.peekUint16())
		if _, exists := vm.globals[name]; !exists {
			vm.globals[name] = values.Null()
			vm.globalIdx = append(vm.globalIdx, name)
		}
		vm.ip += 3
		return nil

	case opcode.GETVAR:
		name := vm.constantName(vm.peekUint16())
		v, ok := vm.globals[name]
		if !ok {
			return vm.err(InvariantViolation, "undeclared global variable %q", name)
		}
		vm.push(v)
		vm.ip += 3
		return nil

	case opcode.SETVAR:
		name := vm.constantName(vm.peekUint16())
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "SETVAR requires one value on the stack")
		}
		if _, exists := vm.globals[name]; !exists {
			vm.globalIdx = append(vm.globalIdx, name)
		}
		vm.globals[name] = v
		vm.ip += 3
		return nil

	case opcode.SETLOCALVAR:
		idx := vm.chunk.Data[vm.ip+1]
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "SETLOCALVAR requires one value on the stack")
		}
		if !vm.setLocal(int(idx), v) {
			return vm.err(InvariantViolation, "SETLOCALVAR outside any call frame")
		}
		vm.ip += 2
		return nil

	case opcode.GETLOCALVAR:
		idx := vm.chunk.Data[vm.ip+1]
		v, ok := vm.getLocal(int(idx))
		if !ok {
			return vm.err(InvariantViolation, "GETLOCALVAR outside any call frame")
		}
		vm.push(v)
		vm.ip += 2
		return nil

	case opcode.POPLOCALVAR:
		idx := vm.chunk.Data[vm.ip+1]
		vm.setLocal(int(idx), values.Null())
		vm.ip += 2
		return nil

	case opcode.GLVSHIFT:
		return vm.dispatchGlvShift()

	case opcode.GLVCALL:
		return vm.dispatchGlvCall()
	}
	return nil
}

func (vm *VM) peekUint16() uint16 {
	hi, lo := vm.chunk.Data[vm.ip+1], vm.chunk.Data[vm.ip+2]
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) constantName(idx uint16) string {
	v := vm.chunk.GetConstantValue(int32(idx))
	s, _ := v.ToDisplayString()
	return s
}

// setLocal writes v into the current frame's local slot idx, growing
// the frame's Locals slice with Null padding as needed. Reports false
// if there is no active call frame (top-level code has no local
// slots, globals only).
func (vm *VM) setLocal(idx int, v *values.Value) bool {
	f := vm.calls.CurrentFrame()
	if f == nil {
		return false
	}
	for len(f.Locals) <= idx {
		f.Locals = append(f.Locals, values.Null())
	}
	f.Locals[idx] = v
	return true
}

// getLocal reads the current frame's local slot idx, reporting Null
// (not an error) for a slot beyond what's been written so far — a
// local read before its first write is legitimate (e.g. a loop
// variable's first iteration).
func (vm *VM) getLocal(idx int) (*values.Value, bool) {
	f := vm.calls.CurrentFrame()
	if f == nil {
		return nil, false
	}
	if idx >= len(f.Locals) {
		return values.Null(), true
	}
	return f.Locals[idx], true
}

// dispatchGlvShift implements GLVSHIFT (spec section 4.4: "advance a
// local generator one step and push the result"): read the
// shiftable value in local slot idx, advance it, and push the
// produced value (or Null at exhaustion) — the local-slot fusion of
// GETLOCALVAR+SHIFT that leaves the generator itself in place for
// the next GLVSHIFT.
func (vm *VM) dispatchGlvShift() error {
	idx := vm.chunk.Data[vm.ip+1]
	v, ok := vm.getLocal(int(idx))
	if !ok {
		return vm.err(InvariantViolation, "GLVSHIFT outside any call frame")
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
	vm.ip += 2
	return nil
}

// dispatchGlvCall implements GLVCALL (spec section 4.4: "invoke the
// local-slot callable"): the local-slot fusion of GETLOCALVAR+CALL,
// sparing the compiler a round trip through the stack for a callable
// already sitting in a local.
func (vm *VM) dispatchGlvCall() error {
	idx := vm.chunk.Data[vm.ip+1]
	v, ok := vm.getLocal(int(idx))
	if !ok {
		return vm.err(InvariantViolation, "GLVCALL outside any call frame")
	}
	vm.ip += 2
	return vm.invoke(v)
}
