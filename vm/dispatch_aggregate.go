package vm

import (
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// dispatchAggregate implements aggregate literal construction (spec
// section 4.4): STARTLIST/STARTHASH/STARTSET record the current value
// stack depth as a mark; the corresponding END* opcode collects
// everything pushed since that mark into the aggregate and replaces
// it with a single aggregate value.
func (vm *VM) dispatchAggregate(op opcode.Code) error {
	switch op {
	case opcode.STARTLIST, opcode.STARTHASH, opcode.STARTSET:
		vm.marks = append(vm.marks, len(vm.stack))
		vm.ip++
		return nil
	case opcode.ENDLIST:
		return vm.endList()
	case opcode.ENDHASH:
		return vm.endHash()
	case opcode.ENDSET:
		return vm.endSet()
	}
	return nil
}

func (vm *VM) popMark() (int, error) {
	if len(vm.marks) == 0 {
		return 0, vm.err(InvariantViolation, "END* opcode with no matching START*")
	}
	idx := len(vm.marks) - 1
	mark := vm.marks[idx]
	vm.marks = vm.marks[:idx]
	return mark, nil
}

func (vm *VM) endList() error {
	mark, err := vm.popMark()
	if err != nil {
		return err
	}
	items := append([]*values.Value{}, vm.stack[mark:]...)
	vm.stack = vm.stack[:mark]
	vm.push(values.NewListFrom(items))
	vm.ip++
	return nil
}

func (vm *VM) endHash() error {
	mark, err := vm.popMark()
	if err != nil {
		return err
	}
	pairs := vm.stack[mark:]
	if len(pairs)%2 != 0 {
		return vm.err(InvariantViolation, "hash literal has an odd number of elements")
	}
	vm.stack = vm.stack[:mark]
	h := values.NewHash()
	hv := h.Data.(*values.Hash)
	for i := 0; i < len(pairs); i += 2 {
		key, _ := pairs[i].ToDisplayString()
		hv.Set(key, pairs[i+1])
	}
	vm.push(h)
	vm.ip++
	return nil
}

func (vm *VM) endSet() error {
	mark, err := vm.popMark()
	if err != nil {
		return err
	}
	items := vm.stack[mark:]
	vm.stack = vm.stack[:mark]
	s := values.NewSet()
	sv := s.Data.(*values.Set)
	for _, it := range items {
		key := values.PrintableKey(it)
		if ok := sv.Add(it, key); !ok {
			return vm.err(TypeError, "set elements must all share the same type, got %s", it.TypeName())
		}
	}
	vm.push(s)
	vm.ip++
	return nil
}
