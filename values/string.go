package values

import (
	"regexp"
	"strings"
)

// StringTriple binds a string's raw (display) text, its canonical
// escaped text, and a lazily-materialised compiled regex cache, matching
// the teacher's StringTriple shape from the original cosh source
// (chunk.rs StringTriple) and spec section 3.1.
type StringTriple struct {
	Raw     string
	Escaped string

	cachedRegex  *regexp.Regexp
	cachedGlobal bool
	cachedReady  bool
}

// NewString builds a String value from raw display text, computing the
// canonical escaped form eagerly (spec section 3.1 invariant).
func NewString(raw string) *Value {
	return &Value{Kind: KindString, Data: &StringTriple{
		Raw:     raw,
		Escaped: EscapeString(raw),
	}}
}

// NewStringWithEscaped rebuilds a String value from a persisted
// (raw, escaped) pair without recomputing the escape (used when a
// Chunk's constant pool is deserialised — spec section 6).
func NewStringWithEscaped(raw, escaped string) *Value {
	return &Value{Kind: KindString, Data: &StringTriple{Raw: raw, Escaped: escaped}}
}

// EscapeString implements the canonical escape function of spec section
// 3.1: backslash doubling, newline/CR/tab escapes, quote escaping, and
// control-escape pass-through for anything else.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Regex lazily compiles (or fetches from the process-wide fastcache-backed
// cache) the StringTriple's pattern, matching the "String regex caching"
// design note of spec section 9: identical pattern text shares one
// compiled *regexp.Regexp across every String value that uses it.
func (st *StringTriple) Regex(global bool) (*regexp.Regexp, error) {
	if st.cachedReady && st.cachedGlobal == global {
		return st.cachedRegex, nil
	}
	re, err := compiledPattern(st.Raw, global)
	if err != nil {
		return nil, err
	}
	st.cachedRegex = re
	st.cachedGlobal = global
	st.cachedReady = true
	return re, nil
}
