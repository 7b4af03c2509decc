package vm

import (
	"github.com/wudi/shellish/arith"
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// dispatchArith implements the bare binary arithmetic/comparison
// opcodes. Per the package's documented operand convention, v1 is
// popped first (the value nearer the top of stack) and v2 second;
// arith.Binary/Eq/Gt/Lt apply the reversed-operand semantics for
// non-commutative operators internally.
func (vm *VM) dispatchArith(op opcode.Code) error {
	v1, ok1 := vm.pop()
	v2, ok2 := vm.pop()
	if !ok1 || !ok2 {
		return vm.err(ArityError, "%s requires two arguments", op)
	}
	result, err := vm.applyArithOp(op, v1, v2)
	if err != nil {
		return vm.err(arithErrorKind(op), "%s", err)
	}
	vm.push(result)
	vm.ip++
	return nil
}

func (vm *VM) applyArithOp(op opcode.Code, v1, v2 *values.Value) (*values.Value, error) {
	arith.CompatStringEquality = vm.CompatStringEquality
	switch op {
	case opcode.ADD:
		return arith.Add(v1, v2)
	case opcode.SUB:
		return arith.Sub(v1, v2)
	case opcode.MUL:
		return arith.Mul(v1, v2)
	case opcode.DIV:
		return arith.Div(v1, v2)
	case opcode.EQ:
		return arith.Eq(v1, v2)
	case opcode.GT:
		return arith.Gt(v1, v2)
	case opcode.LT:
		return arith.Lt(v1, v2)
	}
	return nil, &arith.ArithError{Message: "unreachable arithmetic opcode"}
}

func arithErrorKind(op opcode.Code) ErrorKind {
	if op == opcode.DIV || op == opcode.DIVCONSTANT {
		return ArithmeticError
	}
	return TypeError
}

// dispatchConstantArith implements the fused constant-operand forms:
// CONSTANT pushes a pooled value directly; ADDCONSTANT/SUBCONSTANT/
// MULCONSTANT/DIVCONSTANT/EQCONSTANT pop one stack value (v2) and
// combine it with the pooled constant (acting as v1, i.e. the
// "more recently pushed" operand in the reversed-operand convention)
// without the compiler having to emit a separate CONSTANT+op pair.
func (vm *VM) dispatchConstantArith(op opcode.Code) error {
	hi, lo := vm.chunk.Data[vm.ip+1], vm.chunk.Data[vm.ip+2]
	idx := int32(uint16(hi)<<8 | uint16(lo))
	constVal := vm.chunk.GetConstantValue(idx)

	if op == opcode.CONSTANT {
		vm.push(constVal)
		vm.ip += 3
		return nil
	}

	v2, ok := vm.pop()
	if !ok {
		return vm.err(ArityError, "%s requires one stack argument", op)
	}

	var baseOp opcode.Code
	switch op {
	case opcode.ADDCONSTANT:
		baseOp = opcode.ADD
	case opcode.SUBCONSTANT:
		baseOp = opcode.SUB
	case opcode.MULCONSTANT:
		baseOp = opcode.MUL
	case opcode.DIVCONSTANT:
		baseOp = opcode.DIV
	case opcode.EQCONSTANT:
		baseOp = opcode.EQ
	}
	result, err := vm.applyArithOp(baseOp, constVal, v2)
	if err != nil {
		return vm.err(arithErrorKind(op), "%s", err)
	}
	vm.push(result)
	vm.ip += 3
	return nil
}
