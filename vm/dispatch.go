package vm

import (
	"github.com/wudi/shellish/opcode"
)

// step decodes and executes the single instruction at vm.ip, advancing
// ip past it (or leaving ip at a jump target, for control-flow
// opcodes). Each opcode family's handlers live in their own
// dispatch_*.go file, mirroring wudi-hey's own per-concern dispatch
// split.
func (vm *VM) step() error {
	op := opcode.Code(vm.chunk.Data[vm.ip])
	switch op {
	case opcode.NOP:
		vm.ip++
		return nil

	case opcode.ADD, opcode.SUB, opcode.MUL, opcode.DIV, opcode.EQ, opcode.LT, opcode.GT:
		return vm.dispatchArith(op)
	case opcode.CONSTANT, opcode.ADDCONSTANT, opcode.SUBCONSTANT, opcode.MULCONSTANT,
		opcode.DIVCONSTANT, opcode.EQCONSTANT:
		return vm.dispatchConstantArith(op)

	case opcode.JUMP, opcode.JUMPR, opcode.JUMPNE, opcode.JUMPNER, opcode.JUMPNEREQC:
		return vm.dispatchControl(op)

	case opcode.DROP, opcode.CLEAR, opcode.DUP, opcode.OVER, opcode.SWAP, opcode.ROT, opcode.DEPTH:
		return vm.dispatchStack(op)

	case opcode.VAR, opcode.GETVAR, opcode.SETVAR, opcode.SETLOCALVAR, opcode.GETLOCALVAR,
		opcode.POPLOCALVAR, opcode.GLVSHIFT, opcode.GLVCALL:
		return vm.dispatchVars(op)

	case opcode.CALL, opcode.CALLIMPLICIT, opcode.CALLIMPLICITCONSTANT,
		opcode.ENDFN, opcode.RETURN:
		return vm.dispatchCalls(op)

	case opcode.STARTLIST, opcode.ENDLIST, opcode.STARTHASH, opcode.ENDHASH,
		opcode.STARTSET, opcode.ENDSET:
		return vm.dispatchAggregate(op)

	case opcode.STR, opcode.INT, opcode.BIGINT, opcode.FLT, opcode.BOOL,
		opcode.ISNULL, opcode.ISLIST, opcode.ISCALLABLE, opcode.ISSHIFTABLE,
		opcode.ISBOOL, opcode.ISINT, opcode.ISBIGINT, opcode.ISSTR, opcode.ISFLT:
		return vm.dispatchCoerce(op)

	case opcode.SHIFT, opcode.YIELD, opcode.DUPISNULL:
		return vm.dispatchStream(op)

	case opcode.OPEN, opcode.READLINE, opcode.PRINT:
		return vm.dispatchIO(op)

	case opcode.RAND, opcode.CLONE, opcode.IMPORT, opcode.TOFUNCTION,
		opcode.TOGGLEMODE, opcode.PRINTSTACK, opcode.ERROR:
		return vm.dispatchMisc(op)

	default:
		return vm.err(InvariantViolation, "unknown opcode %d", byte(op))
	}
}
