// Package chunk implements the persisted unit of compiled bytecode
// (spec section 4.2): a name, a flat instruction stream, a line/column
// attribution table, a constant pool, and a nested function table.
package chunk

import (
	"fmt"
	"os"

	"github.com/wudi/shellish/opcode"
	"github.com/wudi/shellish/values"
)

// Point is a (line, column) source-location attribution, 1-based;
// the zero value means "no attribution" (spec section 4.2).
type Point struct {
	Line, Column uint32
}

// Chunk is a parsed/compiled piece of code, grounded on the original
// cosh interpreter's Chunk (original_source/src/chunk.rs) and on the
// teacher's convention of small, name-oriented structs with a thin
// constructor.
type Chunk struct {
	// Name is either the source file name or "(main)" for top-level
	// script code.
	Name string
	// Data is the raw opcode/operand byte stream.
	Data []byte
	// Points holds one entry per byte of Data, back-filled by
	// SetNextPoint.
	Points []Point
	// Constants is the serializable constant pool.
	Constants []*Constant
	// Functions holds nested function chunks by name.
	Functions map[string]*Chunk

	// IsGenerator marks a chunk compiled from a generator function
	// literal (spec section 4.5).
	IsGenerator bool
	// HasVars marks a chunk that touches the global variable map.
	HasVars bool
	// ArgCount is how many arguments a call of this generator pops off
	// the stack (spec section 4.5); ReqArgCount is persisted and dumped
	// but not read by the VM. Meaningful only when IsGenerator.
	ArgCount, ReqArgCount int32
	// Nested marks a chunk that is itself a nested function body
	// rather than the top-level script chunk.
	Nested bool
	// ScopeDepth tracks lexical nesting depth, used by the compiler;
	// carried here purely for debug-dump fidelity.
	ScopeDepth uint32

	// constantValues caches the live values.Value built from each
	// Constant the first time it's requested, mirroring the original's
	// constant_values cache — never serialized (spec section 4.2: the
	// binary encoding persists Constants, not constantValues).
	constantValues []*values.Value
}

// NewStandard builds a non-generator chunk.
func NewStandard(name string) *Chunk {
	return &Chunk{Name: name, Functions: map[string]*Chunk{}, HasVars: true}
}

// NewGenerator builds a generator-function chunk.
func NewGenerator(name string, argCount, reqArgCount int32) *Chunk {
	return &Chunk{
		Name: name, Functions: map[string]*Chunk{}, HasVars: true,
		IsGenerator: true, ArgCount: argCount, ReqArgCount: reqArgCount,
	}
}

// AsChunk type-asserts a values.AnonymousFunction/NamedFunction's
// opaque Chunk field (stored as interface{} to avoid an import cycle
// between values and chunk) back to a *Chunk.
func AsChunk(data interface{}) *Chunk {
	c, _ := data.(*Chunk)
	return c
}

// AddOpcode appends a single opcode byte.
func (c *Chunk) AddOpcode(op opcode.Code) { c.Data = append(c.Data, byte(op)) }

// AddByte appends a single raw operand byte.
func (c *Chunk) AddByte(b byte) { c.Data = append(c.Data, b) }

// AddUint16 appends a big-endian 16-bit operand (spec section 6).
func (c *Chunk) AddUint16(n uint16) {
	c.Data = append(c.Data, byte(n>>8), byte(n))
}

// PopByte removes the most recently appended byte.
func (c *Chunk) PopByte() {
	if len(c.Data) > 0 {
		c.Data = c.Data[:len(c.Data)-1]
	}
}

// LastOpcode returns the final opcode in the stream.
func (c *Chunk) LastOpcode() opcode.Code {
	if len(c.Data) == 0 {
		return opcode.CALL
	}
	return opcode.Code(c.Data[len(c.Data)-1])
}

// nthLastOpcode returns the opcode n bytes from the end (n=1 is the
// last byte), defaulting to CALL when the stream is too short — this
// matches the original's behavior of defaulting to OpCode::Call so the
// compiler's peephole checks can run unconditionally.
func (c *Chunk) nthLastOpcode(n int) opcode.Code {
	if len(c.Data) < n {
		return opcode.CALL
	}
	return opcode.Code(c.Data[len(c.Data)-n])
}

func (c *Chunk) SecondLastOpcode() opcode.Code { return c.nthLastOpcode(2) }
func (c *Chunk) ThirdLastOpcode() opcode.Code  { return c.nthLastOpcode(3) }
func (c *Chunk) FourthLastOpcode() opcode.Code { return c.nthLastOpcode(4) }

func (c *Chunk) setNthLastOpcode(n int, op opcode.Code) {
	if idx := len(c.Data) - n; idx >= 0 {
		c.Data[idx] = byte(op)
	}
}

func (c *Chunk) SetLastOpcode(op opcode.Code)       { c.setNthLastOpcode(1, op) }
func (c *Chunk) SetSecondLastOpcode(op opcode.Code) { c.setNthLastOpcode(2, op) }
func (c *Chunk) SetThirdLastOpcode(op opcode.Code)  { c.setNthLastOpcode(3, op) }
func (c *Chunk) SetFourthLastOpcode(op opcode.Code) { c.setNthLastOpcode(4, op) }

func (c *Chunk) nthLastByte(n int) byte {
	if len(c.Data) < n {
		return 0
	}
	return c.Data[len(c.Data)-n]
}

func (c *Chunk) LastByte() byte       { return c.nthLastByte(1) }
func (c *Chunk) SecondLastByte() byte { return c.nthLastByte(2) }
func (c *Chunk) ThirdLastByte() byte  { return c.nthLastByte(3) }

func (c *Chunk) setNthLastByte(n int, b byte) {
	if idx := len(c.Data) - n; idx >= 0 {
		c.Data[idx] = b
	}
}

func (c *Chunk) SetLastByte(b byte)       { c.setNthLastByte(1, b) }
func (c *Chunk) SetSecondLastByte(b byte) { c.setNthLastByte(2, b) }
func (c *Chunk) SetThirdLastByte(b byte)  { c.setNthLastByte(3, b) }

// SetNextPoint attributes (line, column) to every byte of Data
// appended since the chunk's previous SetNextPoint call (or since the
// chunk's start, for the first call) — i.e. to every byte of the
// instruction just emitted, opcode and operand bytes alike, so a
// multi-byte instruction attributed by a single trailing call (the
// compiler's usual "emit opcode, emit operands, then attribute the
// instruction" ordering) resolves every one of its bytes to the same
// point. This is spec section 8 scenario 6's back-fill requirement
// made literal: a three-byte CONSTANT instruction attributed by one
// SetNextPoint call must report the same point for all three byte
// indices, which a per-previous-point back-fill (the original cosh
// set_next_point's literal behavior, grounded on
// original_source/src/chunk.rs) cannot satisfy under that call
// ordering — see DESIGN.md for the resolution.
func (c *Chunk) SetNextPoint(line, column uint32) {
	p := Point{Line: line, Column: column}
	for len(c.Points) < len(c.Data) {
		c.Points = append(c.Points, p)
	}
}

// GetPoint returns the attribution for byte index i, or false if the
// chunk has no attribution there (a (0,0) point, same as the original).
func (c *Chunk) GetPoint(i int) (Point, bool) {
	if i < 0 || i >= len(c.Points) {
		return Point{}, false
	}
	p := c.Points[i]
	if p.Line == 0 && p.Column == 0 {
		return Point{}, false
	}
	return p, true
}

// SetPreviousPoint overwrites the attribution at byte index i,
// aborting if it does not already exist — the compiler only ever
// adjusts a point it previously set.
func (c *Chunk) SetPreviousPoint(i int, line, column uint32) {
	if i < 0 || i >= len(c.Points) {
		fmt.Fprintln(os.Stderr, "point not found!")
		os.Exit(1)
	}
	c.Points[i] = Point{Line: line, Column: column}
}
