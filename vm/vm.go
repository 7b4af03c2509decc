// Package vm implements the stack-machine execution core of spec
// section 4.4: a single value stack, a call-frame stack carrying
// per-frame local-variable slots, a shared global-variable map, and an
// opcode dispatch loop split by opcode family across dispatch_*.go,
// mirroring wudi-hey's per-concern file layout for its own dispatch
// switch.
package vm

import (
	"math/rand"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/values"
)

// VM is one interpreter instance: its value stack, call stack, and
// global variable table. A VM is not safe for concurrent use from
// multiple goroutines (spec section 5: single-threaded cooperative
// execution only).
type VM struct {
	stack []*values.Value
	calls *CallStackManager

	globals   map[string]*values.Value
	globalIdx []string // insertion order, for PRINTSTACK/debug dumps

	chunk *chunk.Chunk
	ip    int

	// CompatStringEquality mirrors arith.CompatStringEquality but is
	// surfaced on the VM itself so a hosting CLI can flip it per run
	// (spec section 9 Open Question) without reaching into the arith
	// package directly.
	CompatStringEquality bool

	// Rand is the source for the RAND opcode. Exposed so tests can
	// substitute a seeded source for determinism.
	Rand *rand.Rand

	// Stdout/Stderr are the PRINT/diagnostic sinks; defaulting to
	// os.Stdout/os.Stderr, overridable for embedding and tests.
	Stdout, Stderr writer
	// toggledMode reflects the TOGGLEMODE opcode's free-form runtime
	// flag, exact meaning left to the host (spec section 4.4: "misc").
	toggledMode bool

	// marks records value-stack depths at each STARTLIST/STARTHASH/
	// STARTSET, so the matching END* opcode knows where its aggregate
	// literal's elements begin.
	marks []int

	// yieldedValue holds the operand of the most recent YIELD, read
	// back by TakeYielded once RunUntilYield reports a suspension.
	yieldedValue *values.Value
}

type writer interface {
	Write(p []byte) (int, error)
}

// New builds a VM ready to execute the given top-level chunk.
func New(c *chunk.Chunk) *VM {
	return &VM{
		stack:   make([]*values.Value, 0, 64),
		calls:   NewCallStackManager(),
		globals: make(map[string]*values.Value),
		chunk:   c,
		Rand:    rand.New(rand.NewSource(1)),
	}
}

// push/pop implement the value-stack discipline all opcode handlers
// share.
func (vm *VM) push(v *values.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() (*values.Value, bool) {
	if len(vm.stack) == 0 {
		return nil, false
	}
	idx := len(vm.stack) - 1
	v := vm.stack[idx]
	vm.stack = vm.stack[:idx]
	return v, true
}

func (vm *VM) peek(depthFromTop int) (*values.Value, bool) {
	idx := len(vm.stack) - 1 - depthFromTop
	if idx < 0 {
		return nil, false
	}
	return vm.stack[idx], true
}

// Run executes the VM's chunk to completion (IP running off the end
// of Data), returning the first unrecovered *Error.
func (vm *VM) Run() error {
	for vm.ip < len(vm.chunk.Data) {
		if err := vm.step(); err != nil {
			return err
		}
	}
	return nil
}

// Context is a complete snapshot of a VM's active execution
// position: which chunk is running, where, its value stack, and the
// call-frame stack beneath it. This is the Go-native counterpart of
// spec section 3.3's GeneratorObject fields (local_vars_stack,
// instruction_index, chunk, call_stack_chunks): Stack plays the
// "local_vars_stack" role (the original cosh interpreter addresses
// locals as stack slots relative to a frame pointer) while Frames
// carries this VM's own per-frame Locals arrays alongside the
// (caller chunk, return ip) pairs spec section 3.3 calls
// call_stack_chunks.
type Context struct {
	Chunk  *chunk.Chunk
	IP     int
	Stack  []*values.Value
	Frames []*CallFrame
}

// SaveContext captures the VM's current execution position, used by
// the generator package to suspend a coroutine mid-flight (spec
// section 4.5 shift protocol step (a)).
func (vm *VM) SaveContext() Context {
	return Context{Chunk: vm.chunk, IP: vm.ip, Stack: vm.stack, Frames: vm.calls.Frames()}
}

// LoadContext installs a previously captured (or freshly built)
// execution position wholesale, replacing the VM's chunk/ip/stack/
// call-frames outright (spec section 4.5 shift protocol steps (b)
// and (e)).
func (vm *VM) LoadContext(c Context) {
	vm.chunk = c.Chunk
	vm.ip = c.IP
	vm.stack = c.Stack
	vm.calls.SetFrames(c.Frames)
}

// EnterGeneratorFrame pushes the synthetic root call frame for a
// generator chunk's own activation (so GETLOCALVAR/SETLOCALVAR work
// inside its body) the first time it is shifted. Its "return"
// target is end-of-chunk on fc itself: a bare RETURN inside the
// generator's top-level body pops back to this frame and leaves
// vm.ip at len(fc.Data), so the driving RunUntilYield loop sees
// exhaustion exactly as it would running off the end of any chunk,
// without a special-cased return path.
func (vm *VM) EnterGeneratorFrame(fc *chunk.Chunk) {
	vm.calls.PushFrame(&CallFrame{
		Chunk: fc, IP: len(fc.Data), Locals: make([]*values.Value, 0, 8),
	})
}

// PushValue and PopValue expose the value-stack discipline to the
// generator package for injecting gen_args and reading a generator's
// own return path, without making the stack field itself exported.
func (vm *VM) PushValue(v *values.Value) { vm.push(v) }
func (vm *VM) PopValue() (*values.Value, bool) { return vm.pop() }

// PopArgs pops n values off the stack in their original left-to-right
// push order — used at generator-creation time (spec section 4.5:
// "gen_args is the actual argument list") to lift the call's already-
// pushed arguments off the caller's stack before the callee's chunk
// is suspended rather than entered.
func (vm *VM) PopArgs(n int) ([]*values.Value, bool) {
	if n < 0 || len(vm.stack) < n {
		return nil, false
	}
	start := len(vm.stack) - n
	args := append([]*values.Value{}, vm.stack[start:]...)
	vm.stack = vm.stack[:start]
	return args, true
}

// NewGeneratorValue is set by the generator package's init() to
// construct a Generator value when CALL targets a chunk compiled
// with IsGenerator=true (spec section 4.5). vm cannot import
// generator directly — generator needs *vm.VM to drive suspended
// chunk execution, which would create an import cycle — so this
// hook plays the same role as values.Cloner/values.Shifter do for
// the values<->generator boundary.
var NewGeneratorValue func(owner *VM, fc *chunk.Chunk, args []*values.Value) *values.Value

// DefineGlobal binds name to v in the global table, as VAR+SETVAR
// would from bytecode. Used by a hosting package to install core
// functions (spec section 3.1 CoreFunction) before Run.
func (vm *VM) DefineGlobal(name string, v *values.Value) {
	if _, exists := vm.globals[name]; !exists {
		vm.globalIdx = append(vm.globalIdx, name)
	}
	vm.globals[name] = v
}

// GetGlobal reads a global variable by name, as GETVAR would.
func (vm *VM) GetGlobal(name string) (*values.Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

func (vm *VM) err(kind ErrorKind, format string, args ...interface{}) error {
	pt, ok := vm.chunk.GetPoint(vm.ip)
	return newError(kind, vm.chunk.Name, pt, ok, format, args...)
}

// Err builds a diagnostic attributed to the VM's current instruction,
// exported so a core-function implementation living outside this
// package (it only ever receives the VM as interface{}, spec section
// 3.1) can still raise a properly tagged, point-attributed Error.
func (vm *VM) Err(kind ErrorKind, format string, args ...interface{}) error {
	return vm.err(kind, format, args...)
}

// readUint16 reads a big-endian 16-bit operand starting at the
// current ip+1 and advances ip past it.
func (vm *VM) readUint16() uint16 {
	hi, lo := vm.chunk.Data[vm.ip+1], vm.chunk.Data[vm.ip+2]
	vm.ip += 3
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readByteOperand() byte {
	b := vm.chunk.Data[vm.ip+1]
	vm.ip += 2
	return b
}
