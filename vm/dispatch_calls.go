package vm

import (
	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// dispatchCalls implements the call family (spec section 4.4): CALL
// pops a callable off the stack and invokes it; CALLIMPLICITCONSTANT
// invokes a pooled named function directly, without the compiler
// having to also emit a preceding GETVAR+CALL pair; CALLIMPLICIT
// invokes the current chunk's nested function whose name is the
// 16-bit constant operand; ENDFN marks a function
// chunk boundary (a no-op at runtime, informative for disassembly
// only); RETURN pops the current call frame and resumes the caller.
func (vm *VM) dispatchCalls(op opcode.Code) error {
	switch op {
	case opcode.CALL:
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "CALL requires a callable value")
		}
		vm.ip++
		return vm.invoke(v)

	case opcode.CALLIMPLICITCONSTANT:
		idx := int32(vm.peekUint16())
		fnVal := vm.chunk.GetConstantValue(idx)
		vm.ip += 3
		return vm.invoke(fnVal)

	case opcode.CALLIMPLICIT:
		name := vm.constantName(vm.peekUint16())
		fc, ok := vm.chunk.Functions[name]
		vm.ip += 3
		if !ok {
			return vm.err(InvariantViolation, "no nested function named %q", name)
		}
		return vm.invoke(values.NewNamedFunction(fc))

	case opcode.ENDFN:
		vm.ip++
		return nil

	case opcode.RETURN:
		return vm.doReturn()
	}
	return nil
}

// invoke dispatches a callable value: core functions run inline;
// anonymous/named functions backed by a non-generator chunk push a
// new call frame and transfer control to it; functions backed by a
// chunk compiled with IsGenerator=true instead build a suspended
// Generator value and push that (spec section 4.5: "calling a chunk
// with is_generator = true builds a GeneratorObject ... whose
// gen_args is the actual argument list" — control never transfers
// into the chunk at call time, only at the first SHIFT).
func (vm *VM) invoke(callee *values.Value) error {
	if !callee.IsCallable() {
		return vm.err(TypeError, "value is not callable")
	}
	switch callee.Kind {
	case values.KindCoreFunction:
		cf := callee.Data.(*values.CoreFunction)
		return cf.Fn(vm)
	case values.KindAnonymousFunction:
		af := callee.Data.(*values.AnonymousFunction)
		fc := chunk.AsChunk(af.Chunk)
		if fc.IsGenerator {
			return vm.invokeGenerator(fc)
		}
		return vm.enterChunk(fc, append([]*values.Value{}, af.Locals...))
	case values.KindNamedFunction:
		nf := callee.Data.(*values.NamedFunction)
		fc := chunk.AsChunk(nf.Chunk)
		if fc.IsGenerator {
			return vm.invokeGenerator(fc)
		}
		return vm.enterChunk(fc, nil)
	}
	return vm.err(TypeError, "value is not callable")
}

// invokeGenerator pops fc.ArgCount already-pushed argument values off
// the caller's stack and hands them, along with fc, to the
// generator-package factory registered via NewGeneratorValue,
// pushing the resulting Generator value in place of entering fc.
func (vm *VM) invokeGenerator(fc *chunk.Chunk) error {
	args, ok := vm.PopArgs(int(fc.ArgCount))
	if !ok {
		return vm.err(ArityError, "generator call requires %d arguments on the stack", fc.ArgCount)
	}
	if NewGeneratorValue == nil {
		return vm.err(InvariantViolation, "no generator factory registered")
	}
	vm.push(NewGeneratorValue(vm, fc, args))
	return nil
}

// enterChunk pushes a frame for fc and switches execution into it;
// the caller's chunk/ip are preserved on the frame and restored by
// doReturn.
func (vm *VM) enterChunk(fc *chunk.Chunk, presetLocals []*values.Value) error {
	if fc == nil {
		return vm.err(InvariantViolation, "call target has no chunk")
	}
	locals := presetLocals
	if locals == nil {
		locals = make([]*values.Value, 0, 8)
	}
	frame := &CallFrame{
		Chunk: vm.chunk, IP: vm.ip, Locals: locals,
		ReturnStackLen: len(vm.stack),
	}
	vm.calls.PushFrame(frame)
	vm.chunk = fc
	vm.ip = 0
	return nil
}

// doReturn pops the current frame and resumes the caller at the
// instruction following its CALL. The return value (if any) is left
// exactly where the callee's bytecode put it, on top of the stack.
func (vm *VM) doReturn() error {
	frame := vm.calls.PopFrame()
	if frame == nil {
		return vm.err(InvariantViolation, "RETURN with no active call frame")
	}
	vm.chunk = frame.Chunk
	vm.ip = frame.IP
	return nil
}
