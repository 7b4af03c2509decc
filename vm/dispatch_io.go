package vm

import (
	"fmt"
	"os"

	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// maxOpenFileBytes bounds OPEN's read mode: a FileReader is meant to
// be shifted line-by-line, so a file far past any plausible script
// input (a misdirected device node, a multi-gigabyte log) is rejected
// up front rather than handed to the caller as a working handle.
const maxOpenFileBytes = 256 * 1024 * 1024

// dispatchIO implements the I/O family (spec section 4.4): OPEN turns
// a path string into a FileReader (pooled constant operand 0) or a
// FileWriter (any other operand value);
// READLINE shifts a single line from a FileReader directly (a
// convenience fusion of SHIFT for the common "one line at a time"
// case); PRINT writes the display form of the popped value followed
// by a newline to vm.Stdout (or os.Stdout if unset).
func (vm *VM) dispatchIO(op opcode.Code) error {
	switch op {
	case opcode.OPEN:
		return vm.doOpen()
	case opcode.READLINE:
		return vm.doReadLine()
	case opcode.PRINT:
		return vm.doPrint()
	}
	return nil
}

func (vm *VM) doOpen() error {
	modeIdx := int32(vm.peekUint16())
	mode := vm.chunk.GetConstantInt(modeIdx)
	path, ok := vm.pop()
	if !ok {
		return vm.err(ArityError, "OPEN requires a path on the stack")
	}
	p, ok := path.ToDisplayString()
	if !ok {
		return vm.err(TypeError, "OPEN requires a string path")
	}
	vm.ip += 3

	if mode == 0 {
		f, err := os.Open(p)
		if err != nil {
			return vm.err(ResourceError, "%s", err)
		}
		if info, statErr := f.Stat(); statErr == nil && info.Size() > maxOpenFileBytes {
			f.Close()
			return vm.resourceLimitErr(fmt.Sprintf("%s size in bytes", p), uint64(info.Size()), maxOpenFileBytes)
		}
		vm.push(values.NewFileReader(f))
		return nil
	}
	f, err := os.Create(p)
	if err != nil {
		return vm.err(ResourceError, "%s", err)
	}
	vm.push(values.NewFileWriter(f))
	return nil
}

func (vm *VM) doReadLine() error {
	v, ok := vm.peek(0)
	if !ok {
		return vm.err(ArityError, "READLINE requires a file handle on the stack")
	}
	fr, ok := v.Data.(*values.FileReader)
	if !ok {
		return vm.err(TypeError, "READLINE requires a file-reader value")
	}
	line, hasMore, err := fr.Shift()
	if err != nil {
		return vm.err(ResourceError, "%s", err)
	}
	vm.ip++
	if !hasMore {
		vm.push(values.Null())
		return nil
	}
	vm.push(line)
	return nil
}

func (vm *VM) doPrint() error {
	v, ok := vm.pop()
	if !ok {
		return vm.err(ArityError, "PRINT requires one value on the stack")
	}
	s, ok := v.ToDisplayString()
	if !ok {
		return vm.err(TypeError, "PRINT requires a displayable value")
	}
	out := vm.Stdout
	if out == nil {
		fmt.Fprintln(os.Stdout, s)
	} else {
		fmt.Fprintln(out, s)
	}
	vm.ip++
	return nil
}
