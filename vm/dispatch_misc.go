package vm

import (
	"fmt"
	"os"

	"github.com/go-stack/stack"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// dispatchMisc implements the remaining opcodes of spec section 4.4:
// RAND, CLONE, IMPORT, TOFUNCTION, TOGGLEMODE, PRINTSTACK, ERROR.
func (vm *VM) dispatchMisc(op opcode.Code) error {
	switch op {
	case opcode.RAND:
		vm.push(values.NewFloat(vm.Rand.Float64()))
		vm.ip++
		return nil

	case opcode.CLONE:
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "CLONE requires one value on the stack")
		}
		vm.push(values.DeepClone(v))
		vm.ip++
		return nil

	case opcode.IMPORT:
		return vm.doImport()

	case opcode.TOFUNCTION:
		return vm.doToFunction()

	case opcode.TOGGLEMODE:
		vm.toggledMode = !vm.toggledMode
		vm.ip++
		return nil

	case opcode.PRINTSTACK:
		vm.doPrintStack()
		vm.ip++
		return nil

	case opcode.ERROR:
		v, ok := vm.pop()
		if !ok {
			return vm.err(ArityError, "ERROR requires a message on the stack")
		}
		msg, _ := v.ToDisplayString()
		return vm.err(InvariantViolation, "%s", msg)
	}
	return nil
}

// doImport loads a persisted chunk file (spec section 4.4 "misc") and
// merges its nested function table into the current chunk's, so a
// subsequently compiled CALLIMPLICIT/TOFUNCTION can resolve
// names defined in the imported unit. Running an import's own
// top-level code is left to the host (cmd/shellvm), which already
// drives a VM per loaded chunk.
func (vm *VM) doImport() error {
	path, ok := vm.pop()
	if !ok {
		return vm.err(ArityError, "IMPORT requires a path on the stack")
	}
	p, ok := path.ToDisplayString()
	if !ok {
		return vm.err(TypeError, "IMPORT requires a string path")
	}
	f, err := os.Open(p)
	if err != nil {
		return vm.err(ResourceError, "%s", err)
	}
	defer f.Close()
	imported, err := chunk.Decode(f)
	if err != nil {
		return vm.err(ResourceError, "%s", err)
	}
	for name, fc := range imported.Functions {
		vm.chunk.Functions[name] = fc
	}
	vm.ip++
	return nil
}

// doToFunction pops a string naming a chunk-local nested function and
// pushes the corresponding callable NamedFunction value, letting a
// compiled name flow through the same VAR/CALL path as any other
// value (spec section 4.4 "misc").
func (vm *VM) doToFunction() error {
	v, ok := vm.pop()
	if !ok {
		return vm.err(ArityError, "TOFUNCTION requires a name on the stack")
	}
	name, ok := v.ToDisplayString()
	if !ok {
		return vm.err(TypeError, "TOFUNCTION requires a string name")
	}
	fc, ok := vm.chunk.Functions[name]
	if !ok {
		return vm.err(InvariantViolation, "no function named %q", name)
	}
	vm.push(values.NewNamedFunction(fc))
	vm.ip++
	return nil
}

// doPrintStack renders the value stack, the call-frame depth, and the
// current Go call stack (github.com/go-stack/stack, carried from the
// example pack) to vm.Stderr for PRINTSTACK's debug surface.
func (vm *VM) doPrintStack() {
	out := vm.Stderr
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "-- stack (depth %d) --\n", len(vm.stack))
	for i := len(vm.stack) - 1; i >= 0; i-- {
		s, ok := vm.stack[i].ToDisplayString()
		if !ok {
			s = vm.stack[i].TypeName()
		}
		fmt.Fprintf(out, "  [%d] %s\n", i, s)
	}
	fmt.Fprintf(out, "-- call frames (depth %d) --\n", vm.calls.Depth())
	fmt.Fprintf(out, "-- go call stack --\n%s\n", stack.Trace().TrimRuntime())
}
