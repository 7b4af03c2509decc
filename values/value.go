// Package values implements the runtime datum of the Shellish scripting
// language: a single tagged union covering scalars, aggregates, callables,
// lazy generators, and opaque OS resource handles.
package values

import "github.com/google/uuid"

// Kind tags the variant held by a Value.
type Kind byte

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindString
	KindCommand
	KindCommandUncaptured
	KindList
	KindHash
	KindSet
	KindAnonymousFunction
	KindCoreFunction
	KindNamedFunction
	KindGenerator
	KindCommandGenerator
	KindKeysGenerator
	KindValuesGenerator
	KindEachGenerator
	KindFileReader
	KindFileWriter
	KindDirectoryHandle
	KindDateTimeNT
	KindDateTimeOT
	KindIpv4
	KindIpv6
	KindIpv4Range
	KindIpv6Range
	KindIpSet
	KindMultiGenerator
)

// typeNames are the short lower-case type tags used by TypeName, matching
// the projection table of spec section 3.1.
var typeNames = map[Kind]string{
	KindNull:              "null",
	KindBool:               "bool",
	KindInt:                "int",
	KindBigInt:             "bigint",
	KindFloat:              "float",
	KindString:             "str",
	KindCommand:            "command",
	KindCommandUncaptured:  "command",
	KindList:               "list",
	KindHash:               "hash",
	KindSet:                "set",
	KindAnonymousFunction:  "anon-fn",
	KindCoreFunction:       "core-fn",
	KindNamedFunction:      "named-fn",
	KindGenerator:          "gen",
	KindCommandGenerator:   "command-gen",
	KindKeysGenerator:      "keys-gen",
	KindValuesGenerator:    "values-gen",
	KindEachGenerator:      "each-gen",
	KindFileReader:         "file-reader",
	KindFileWriter:         "file-writer",
	KindDirectoryHandle:    "dir-handle",
	KindDateTimeNT:         "datetime",
	KindDateTimeOT:         "datetime",
	KindIpv4:               "ip",
	KindIpv6:               "ip",
	KindIpv4Range:          "ip",
	KindIpv6Range:          "ip",
	KindIpSet:              "ips",
	KindMultiGenerator:     "multi-gen",
}

// Value is the universal runtime datum. Scalars carry their payload
// directly in Data; aggregates and resources carry a pointer so that
// copies of a Value share the same underlying storage, matching the
// teacher's Value{Type, Data} shape (values/value.go in the teacher repo).
type Value struct {
	Kind Kind
	Data interface{}
}

var nullValue = &Value{Kind: KindNull}

// Null returns the singleton null value.
func Null() *Value { return nullValue }

// NewBool wraps a bool.
func NewBool(b bool) *Value { return &Value{Kind: KindBool, Data: b} }

// NewInt wraps a signed 32-bit integer.
func NewInt(i int32) *Value { return &Value{Kind: KindInt, Data: i} }

// NewFloat wraps an IEEE-754 double.
func NewFloat(f float64) *Value { return &Value{Kind: KindFloat, Data: f} }

// TypeName returns the short lower-case projection of the value's kind.
func (v *Value) TypeName() string {
	if v == nil {
		return typeNames[KindNull]
	}
	return typeNames[v.Kind]
}

// IsNull reports whether v is the null value.
func (v *Value) IsNull() bool { return v == nil || v.Kind == KindNull }

// newHandleID mints a fresh identity for a shared/mutable resource value,
// used only for diagnostics (PRINTSTACK, debug dumps) — never compared for
// semantic equality.
func newHandleID() uuid.UUID {
	return uuid.New()
}

// IsShiftable reports whether the value is a valid SHIFT target per
// spec section 4.4 (ISSHIFTABLE): any generator variant, plus the
// other lazily-advanceable handles the original interpreter treats as
// generator-like — a line-at-a-time FileReader, a name-at-a-time
// DirectoryHandle, and a network-at-a-time IpSet.
func (v *Value) IsShiftable() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case KindGenerator, KindCommandGenerator, KindKeysGenerator,
		KindValuesGenerator, KindEachGenerator, KindMultiGenerator,
		KindFileReader, KindDirectoryHandle, KindIpSet:
		return true
	default:
		return false
	}
}

// IsCallable reports whether the value can be the target of CALL/GLVCALL.
func (v *Value) IsCallable() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case KindAnonymousFunction, KindCoreFunction, KindNamedFunction:
		return true
	default:
		return false
	}
}

// Truthy implements the truthiness rules of spec section 3.1.
func (v *Value) Truthy() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Data.(bool)
	case KindInt:
		return v.Data.(int32) != 0
	case KindFloat:
		return v.Data.(float64) != 0.0
	case KindBigInt:
		return v.Data.(*BigInt).Sign() != 0
	case KindString:
		s := v.Data.(*StringTriple).Raw
		return s != "" && s != "0" && s != "0.0"
	default:
		return true
	}
}
