package vm

import (
	"sync"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/values"
)

// CallFrame is one activation record: the chunk being executed, the
// instruction pointer within it, and the locals slots for that
// activation. Grounded on wudi-hey's CallFrame/CallStackManager split
// (vm/call_stack.go), adapted from PHP's register-window locals to
// this VM's stack-of-local-slices model (spec section 4.4 VAR family).
type CallFrame struct {
	Chunk  *chunk.Chunk
	IP     int
	Locals []*values.Value
	// ReturnStackLen records the value-stack depth at call entry;
	// RETURN and ENDFN do not check it.
	ReturnStackLen int
}

// CallStackManager manages the VM's call stack, grounded on
// wudi-hey's vm/call_stack.go (same push/pop/current/depth shape).
type CallStackManager struct {
	frames []*CallFrame
	mu     sync.Mutex
}

func NewCallStackManager() *CallStackManager {
	return &CallStackManager{frames: make([]*CallFrame, 0, 8)}
}

func (cs *CallStackManager) PushFrame(frame *CallFrame) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.frames = append(cs.frames, frame)
}

func (cs *CallStackManager) PopFrame() *CallFrame {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.frames) == 0 {
		return nil
	}
	idx := len(cs.frames) - 1
	frame := cs.frames[idx]
	cs.frames = cs.frames[:idx]
	return frame
}

func (cs *CallStackManager) CurrentFrame() *CallFrame {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.frames) == 0 {
		return nil
	}
	return cs.frames[len(cs.frames)-1]
}

func (cs *CallStackManager) Depth() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.frames)
}

func (cs *CallStackManager) IsEmpty() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.frames) == 0
}

// Frames returns a shallow copy of the frame slice, used by PRINTSTACK
// and by VM.SaveContext to snapshot the call-frame stack for a
// suspending generator (spec section 3.3 call_stack_chunks).
func (cs *CallStackManager) Frames() []*CallFrame {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]*CallFrame, len(cs.frames))
	copy(out, cs.frames)
	return out
}

// SetFrames replaces the call-frame stack wholesale, used by
// VM.LoadContext to install a generator's captured call-frame stack
// (or restore the driving VM's own) across a suspend/resume boundary.
func (cs *CallStackManager) SetFrames(frames []*CallFrame) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.frames = frames
}
