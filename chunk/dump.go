package chunk

import (
	"fmt"

	"github.com/wudi/shellish/opcode"
	"gopkg.in/yaml.v3"
)

// dumpView is the YAML-friendly projection of a Chunk, used only for
// human debugging through Chunk.Dump; it is never the persisted form
// (see encode.go for that).
type dumpView struct {
	Name        string            `yaml:"name"`
	IsGenerator bool              `yaml:"is_generator,omitempty"`
	HasVars     bool              `yaml:"has_vars,omitempty"`
	ArgCount    int32             `yaml:"arg_count,omitempty"`
	ReqArgCount int32             `yaml:"req_arg_count,omitempty"`
	Nested      bool              `yaml:"nested,omitempty"`
	Constants   []string          `yaml:"constants,omitempty"`
	Disassembly []string          `yaml:"disassembly"`
	Functions   map[string]string `yaml:"functions,omitempty"`
}

// Dump renders a chunk (and its nested functions) as YAML for
// debugging, grounded on the original's disassemble() text
// dump but restructured as structured YAML via gopkg.in/yaml.v3 rather
// than bare println! output.
func (c *Chunk) Dump() (string, error) {
	v := dumpView{
		Name: c.Name, IsGenerator: c.IsGenerator, HasVars: c.HasVars,
		ArgCount: c.ArgCount, ReqArgCount: c.ReqArgCount, Nested: c.Nested,
		Disassembly: c.Disassemble(),
	}
	for _, con := range c.Constants {
		v.Constants = append(v.Constants, constantLabel(con))
	}
	if len(c.Functions) > 0 {
		v.Functions = map[string]string{}
		for name, fn := range c.Functions {
			s, err := fn.Dump()
			if err != nil {
				return "", err
			}
			v.Functions[name] = s
		}
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func constantLabel(c *Constant) string {
	switch c.Kind {
	case ConstNull:
		return "null"
	case ConstBool:
		return fmt.Sprintf("bool(%t)", c.Bool)
	case ConstInt:
		return fmt.Sprintf("int(%d)", c.Int)
	case ConstFloat:
		return fmt.Sprintf("float(%g)", c.Float)
	case ConstBigInt:
		return fmt.Sprintf("bigint(%s)", c.BigInt)
	case ConstString:
		return fmt.Sprintf("str(%q)", c.Raw)
	case ConstCommand:
		return fmt.Sprintf("command(%q)", c.Raw)
	case ConstCommandUncaptured:
		return fmt.Sprintf("command-uncaptured(%q)", c.Raw)
	default:
		return "?"
	}
}

// Disassemble renders one line per instruction: byte offset, mnemonic,
// and any operand, matching the layout of the original's disassemble()
// (original_source/src/chunk.rs).
func (c *Chunk) Disassemble() []string {
	var lines []string
	i := 0
	for i < len(c.Data) {
		op := opcode.Code(c.Data[i])
		switch operandWidth(op) {
		case 0:
			lines = append(lines, fmt.Sprintf("%4d  %s", i, op))
			i++
		case 1:
			if i+1 < len(c.Data) {
				lines = append(lines, fmt.Sprintf("%4d  %-20s %d", i, op, c.Data[i+1]))
			}
			i += 2
		case 2:
			if i+2 < len(c.Data) {
				n := uint16(c.Data[i+1])<<8 | uint16(c.Data[i+2])
				label := fmt.Sprintf("%4d  %-20s %d", i, op, n)
				if isConstantOperand(op) && int(n) < len(c.Constants) {
					label += " ; " + constantLabel(c.Constants[n])
				}
				lines = append(lines, label)
			}
			i += 3
		case 3:
			if i+3 < len(c.Data) {
				rel := uint16(c.Data[i+1])<<8 | uint16(c.Data[i+2])
				idx := c.Data[i+3]
				lines = append(lines, fmt.Sprintf("%4d  %-20s rel=%d const=%d", i, op, rel, idx))
			}
			i += 4
		default:
			i++
		}
	}
	return lines
}

func isConstantOperand(op opcode.Code) bool {
	switch op {
	case opcode.CONSTANT, opcode.ADDCONSTANT, opcode.SUBCONSTANT, opcode.MULCONSTANT,
		opcode.DIVCONSTANT, opcode.EQCONSTANT, opcode.VAR, opcode.GETVAR, opcode.SETVAR,
		opcode.CALLIMPLICITCONSTANT, opcode.CALLIMPLICIT, opcode.OPEN:
		return true
	default:
		return false
	}
}

// operandWidth reports how many bytes of operand follow an opcode
// byte: 0 for bare opcodes, 1 for an 8-bit local-slot index, 2 for a
// 16-bit constant-pool/jump operand, 3 for JUMPNEREQC's combined
// relative-offset-plus-constant-index form.
func operandWidth(op opcode.Code) int {
	switch op {
	case opcode.SETLOCALVAR, opcode.GETLOCALVAR, opcode.POPLOCALVAR,
		opcode.GLVSHIFT, opcode.GLVCALL:
		return 1
	case opcode.CONSTANT, opcode.ADDCONSTANT, opcode.SUBCONSTANT, opcode.MULCONSTANT,
		opcode.DIVCONSTANT, opcode.EQCONSTANT,
		opcode.JUMP, opcode.JUMPR, opcode.JUMPNE, opcode.JUMPNER,
		opcode.VAR, opcode.GETVAR, opcode.SETVAR,
		opcode.CALLIMPLICIT, opcode.CALLIMPLICITCONSTANT, opcode.OPEN:
		return 2
	case opcode.JUMPNEREQC:
		return 3
	default:
		return 0
	}
}
