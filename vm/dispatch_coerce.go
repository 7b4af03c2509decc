package vm

import (
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// dispatchCoerce implements the coercion and introspection family
// (spec section 4.4/4.1): STR/INT/BIGINT/FLT/BOOL replace the top of
// stack with its coerced form (failing with a TypeError when no
// coercion applies); the IS* predicates replace it with an Int 0/1
// without consuming the original meaning of the value (they test, not
// transform).
func (vm *VM) dispatchCoerce(op opcode.Code) error {
	v, ok := vm.pop()
	if !ok {
		return vm.err(ArityError, "%s requires one value on the stack", op)
	}
	switch op {
	case opcode.STR:
		s, ok := v.ToDisplayString()
		if !ok {
			return vm.err(TypeError, "value has no string coercion")
		}
		vm.push(values.NewString(s))
	case opcode.INT:
		n, ok := v.ToInt()
		if !ok {
			return vm.err(TypeError, "value has no int coercion")
		}
		vm.push(values.NewInt(n))
	case opcode.BIGINT:
		n, ok := v.ToBigInt()
		if !ok {
			return vm.err(TypeError, "value has no bigint coercion")
		}
		vm.push(values.Normalize(values.NewBigInt(n)))
	case opcode.FLT:
		f, ok := v.ToFloat()
		if !ok {
			return vm.err(TypeError, "value has no float coercion")
		}
		vm.push(values.NewFloat(f))
	case opcode.BOOL:
		vm.push(values.NewBool(v.Truthy()))
	case opcode.ISNULL:
		vm.push(boolAsInt(v.IsNull()))
	case opcode.ISLIST:
		vm.push(boolAsInt(v.Kind == values.KindList))
	case opcode.ISCALLABLE:
		vm.push(boolAsInt(v.IsCallable()))
	case opcode.ISSHIFTABLE:
		vm.push(boolAsInt(v.IsShiftable()))
	case opcode.ISBOOL:
		vm.push(boolAsInt(v.Kind == values.KindBool))
	case opcode.ISINT:
		vm.push(boolAsInt(v.Kind == values.KindInt))
	case opcode.ISBIGINT:
		vm.push(boolAsInt(v.Kind == values.KindBigInt))
	case opcode.ISSTR:
		vm.push(boolAsInt(v.Kind == values.KindString))
	case opcode.ISFLT:
		vm.push(boolAsInt(v.Kind == values.KindFloat))
	}
	vm.ip++
	return nil
}

func boolAsInt(b bool) *values.Value {
	if b {
		return values.NewInt(1)
	}
	return values.NewInt(0)
}
