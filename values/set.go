package values

import (
	"github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// Set is an insertion-ordered set of Values keyed by their printable
// form; spec section 3.1 requires it to be homogeneous (exactly one
// variant kind). Membership testing is delegated to golang-set (a
// dependency carried over from the example pack's ProbeChain-go-probe
// repo) keyed by the printable form; insertion order is tracked
// separately since golang-set itself has no ordering guarantee.
type Set struct {
	id      uuid.UUID
	kind    Kind
	hasKind bool
	keys    []string
	values  map[string]*Value
	member  mapset.Set[string]
}

// NewSet builds an empty Set value.
func NewSet() *Value {
	return &Value{Kind: KindSet, Data: &Set{
		id:     newHandleID(),
		values: make(map[string]*Value),
		member: mapset.NewThreadUnsafeSet[string](),
	}}
}

// Add inserts v into the set. It reports a TypeError-shaped failure
// (ok=false) if v's kind differs from the set's established element
// kind (spec section 3.1 "Set homogeneity" invariant, exercised by
// end-to-end scenario 5).
func (s *Set) Add(v *Value, display string) (ok bool) {
	if !s.hasKind {
		s.kind = v.Kind
		s.hasKind = true
	} else if s.kind != v.Kind {
		return false
	}
	if !s.member.Contains(display) {
		s.member.Add(display)
		s.keys = append(s.keys, display)
		s.values[display] = v
	}
	return true
}

func (s *Set) Contains(display string) bool { return s.member.Contains(display) }

func (s *Set) Len() int { return len(s.keys) }

func (s *Set) Keys() []string { return s.keys }

func (s *Set) At(i int) (*Value, bool) {
	if i < 0 || i >= len(s.keys) {
		return nil, false
	}
	return s.values[s.keys[i]], true
}

func (s *Set) ID() uuid.UUID { return s.id }
