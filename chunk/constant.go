package chunk

import (
	"fmt"
	"math/big"
	"os"

	"github.com/wudi/shellish/values"
)

// ConstantKind tags the variant of a serialized Constant. Only the
// handful of value kinds that are meaningfully immutable and
// self-contained can live in a chunk's constant pool (spec section
// 4.2) — matching the original's ValueSD enum.
type ConstantKind byte

const (
	ConstNull ConstantKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstBigInt
	ConstString
	ConstCommand
	ConstCommandUncaptured
)

// Constant is the serializable form of a pooled constant value. Only
// one of the typed fields is meaningful, selected by Kind.
type Constant struct {
	Kind ConstantKind

	Bool   bool
	Int    int32
	Float  float64
	BigInt string // decimal, matching BigInt.to_str_radix(10)

	Raw, Escaped string // KindString / KindCommand / KindCommandUncaptured
}

// AddConstant appends v to the constant pool and returns its index,
// aborting the process if v's kind cannot be pooled — this mirrors
// the original's eprintln!+abort on an unserializable constant type,
// since a compiler that tries to pool a List or a Generator is broken
// at the call site, not recoverably wrong at runtime.
func (c *Chunk) AddConstant(v *values.Value) int32 {
	var con *Constant
	switch v.Kind {
	case values.KindNull:
		con = &Constant{Kind: ConstNull}
	case values.KindBool:
		con = &Constant{Kind: ConstBool, Bool: v.Data.(bool)}
	case values.KindInt:
		con = &Constant{Kind: ConstInt, Int: v.Data.(int32)}
	case values.KindFloat:
		con = &Constant{Kind: ConstFloat, Float: v.Data.(float64)}
	case values.KindBigInt:
		con = &Constant{Kind: ConstBigInt, BigInt: v.Data.(*values.BigInt).String()}
	case values.KindString:
		st := v.Data.(*values.StringTriple)
		con = &Constant{Kind: ConstString, Raw: st.Raw, Escaped: st.Escaped}
	default:
		fmt.Fprintf(os.Stderr, "constant type cannot be added to chunk! %v\n", v.TypeName())
		os.Exit(1)
	}
	c.Constants = append(c.Constants, con)
	c.constantValues = append(c.constantValues, nil)
	return int32(len(c.Constants) - 1)
}

// GetConstant rebuilds the live value.Value for pool entry i.
func (c *Chunk) GetConstant(i int32) *values.Value {
	con := c.Constants[i]
	switch con.Kind {
	case ConstNull:
		return values.Null()
	case ConstBool:
		return values.NewBool(con.Bool)
	case ConstInt:
		return values.NewInt(con.Int)
	case ConstFloat:
		return values.NewFloat(con.Float)
	case ConstBigInt:
		n, _ := new(big.Int).SetString(con.BigInt, 10)
		return values.NewBigInt(n)
	case ConstString:
		return values.NewStringWithEscaped(con.Raw, con.Escaped)
	default:
		return values.Null()
	}
}

// GetConstantValue returns the cached live value for pool entry i,
// building and caching it on first use. This is distinct from
// GetConstant: repeated GETVAR/CALLCONSTANT-style lookups of the same
// pool slot share one *values.Value instead of rebuilding it from the
// serialized form every time.
func (c *Chunk) GetConstantValue(i int32) *values.Value {
	if int(i) < len(c.constantValues) && c.constantValues[i] != nil {
		return c.constantValues[i]
	}
	v := c.GetConstant(i)
	for int32(len(c.constantValues)) <= i {
		c.constantValues = append(c.constantValues, nil)
	}
	c.constantValues[i] = v
	return v
}

// GetConstantInt returns the int payload of pool entry i, or 0 if it
// is not a ConstInt — used by opcodes that need a raw index/count
// operand pooled as a constant rather than encoded inline.
func (c *Chunk) GetConstantInt(i int32) int32 {
	if con := c.Constants[i]; con.Kind == ConstInt {
		return con.Int
	}
	return 0
}

// HasConstantInt reports whether pool entry i holds a ConstInt.
func (c *Chunk) HasConstantInt(i int32) bool {
	return c.Constants[i].Kind == ConstInt
}

// LastConstant returns the most recently pooled constant's live value.
func (c *Chunk) LastConstant() *values.Value {
	return c.GetConstant(int32(len(c.Constants) - 1))
}
