// Package generator implements the suspension/resumption machinery of
// spec section 4.5: the shift protocol for user-defined Generator
// values (coroutines compiled into a chunk with IsGenerator=true), the
// CommandGenerator wrapping a child process's stdout/stderr, the
// Keys/Values/EachGenerator family over a Hash, and the MultiGenerator
// round-robin fan-in. Grounded on original_source/src/chunk.rs's
// GeneratorObject and original_source/src/vm/vm_basics.rs's
// command-reader loop, adapted to Go's explicit VM.Context
// save/install API (vm.SaveContext/LoadContext) in place of the
// original's Rc<RefCell<...>> shared mutable state.
package generator

import (
	"github.com/google/uuid"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/values"
	"github.com/wudi/shellish/vm"
)

func init() {
	vm.NewGeneratorValue = newGeneratorValue
}

// GeneratorObject is a suspended user-function coroutine: the exact
// VM execution context (stack, call frames, ip) captured at the most
// recent YIELD, the chunk it runs, and the argument values still
// awaiting injection on first resume (spec section 3.3).
type GeneratorObject struct {
	id uuid.UUID

	owner *vm.VM
	chunk *chunk.Chunk

	started bool
	done    bool

	// ip/stack/frames mirror spec section 3.3's instruction_index/
	// local_vars_stack/call_stack_chunks, valid once started is true
	// and done is false.
	ip     int
	stack  []*values.Value
	frames []*vm.CallFrame

	// genArgs holds the call's argument values until the first Shift,
	// which injects them onto the generator's own fresh stack and
	// clears this slice (spec section 4.5 shift protocol step (c)).
	genArgs []*values.Value
}

func newGeneratorValue(owner *vm.VM, fc *chunk.Chunk, args []*values.Value) *values.Value {
	g := &GeneratorObject{id: uuid.New(), owner: owner, chunk: fc, genArgs: args}
	return &values.Value{Kind: values.KindGenerator, Data: g}
}

func (g *GeneratorObject) ID() uuid.UUID { return g.id }

// Shift implements values.Shifter: advance the generator one step,
// running its captured VM context until YIELD, RETURN, or exhaustion
// (spec section 4.5).
func (g *GeneratorObject) Shift() (*values.Value, bool, error) {
	if g.done {
		return nil, false, nil
	}

	outer := g.owner.SaveContext()

	if !g.started {
		g.owner.LoadContext(vm.Context{Chunk: g.chunk, IP: 0, Stack: nil, Frames: nil})
		g.owner.EnterGeneratorFrame(g.chunk)
		for _, a := range g.genArgs {
			g.owner.PushValue(a)
		}
		g.genArgs = nil
		g.started = true
	} else {
		g.owner.LoadContext(vm.Context{Chunk: g.chunk, IP: g.ip, Stack: g.stack, Frames: g.frames})
	}

	yielded, err := g.owner.RunUntilYield()
	if err != nil {
		g.done = true
		g.owner.LoadContext(outer)
		return nil, false, err
	}

	if !yielded {
		g.done = true
		g.owner.LoadContext(outer)
		return nil, false, nil
	}

	after := g.owner.SaveContext()
	g.ip = after.IP
	g.stack = after.Stack
	g.frames = after.Frames
	value := g.owner.TakeYielded()

	g.owner.LoadContext(outer)
	return value, true, nil
}

// CloneValue implements values.Cloner (spec section 4.1): rebuilds the
// GeneratorObject with a freshly copied stack/frame snapshot (so
// mutating the clone's captured locals doesn't affect the original)
// but a shared chunk, since chunks are immutable at runtime.
func (g *GeneratorObject) CloneValue() *values.Value {
	clone := &GeneratorObject{
		id:      uuid.New(),
		owner:   g.owner,
		chunk:   g.chunk,
		started: g.started,
		done:    g.done,
		ip:      g.ip,
		stack:   append([]*values.Value{}, g.stack...),
		genArgs: append([]*values.Value{}, g.genArgs...),
	}
	clone.frames = make([]*vm.CallFrame, len(g.frames))
	for i, f := range g.frames {
		cp := *f
		cp.Locals = append([]*values.Value{}, f.Locals...)
		clone.frames[i] = &cp
	}
	return &values.Value{Kind: values.KindGenerator, Data: clone}
}
