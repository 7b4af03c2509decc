package generator

import (
	"github.com/google/uuid"

	"github.com/wudi/shellish/values"
)

// MultiGenerator round-robins over an ordered sequence of inner
// generator-like values, removing an inner source once it is
// exhausted; it is itself exhausted once empty (spec section 4.5).
type MultiGenerator struct {
	id    uuid.UUID
	inner []*values.Value
	next  int
}

// NewMultiGenerator builds a MultiGenerator fanning in sources in
// order, skipping any that are not themselves shiftable.
func NewMultiGenerator(sources []*values.Value) *values.Value {
	inner := make([]*values.Value, 0, len(sources))
	for _, s := range sources {
		if s.IsShiftable() {
			inner = append(inner, s)
		}
	}
	return &values.Value{Kind: values.KindMultiGenerator, Data: &MultiGenerator{id: uuid.New(), inner: inner}}
}

func (m *MultiGenerator) ID() uuid.UUID { return m.id }

func (m *MultiGenerator) Shift() (*values.Value, bool, error) {
	for len(m.inner) > 0 {
		if m.next >= len(m.inner) {
			m.next = 0
		}
		src := m.inner[m.next]
		shifter, ok := src.Data.(values.Shifter)
		if !ok {
			m.removeAt(m.next)
			continue
		}
		v, hasMore, err := shifter.Shift()
		if err != nil {
			return nil, false, err
		}
		if !hasMore {
			m.removeAt(m.next)
			continue
		}
		m.next++
		return v, true, nil
	}
	return nil, false, nil
}

func (m *MultiGenerator) removeAt(i int) {
	m.inner = append(m.inner[:i], m.inner[i+1:]...)
	if m.next > i {
		m.next--
	}
}
