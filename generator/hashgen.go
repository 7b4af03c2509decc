package generator

import (
	"github.com/google/uuid"

	"github.com/wudi/shellish/values"
)

// KeysGenerator/ValuesGenerator/EachGenerator hold an immutable view
// of a Hash plus a shift cursor (spec section 4.5): on each Shift they
// read the entry at the cursor, advance it, and return the key, the
// value, or a two-element [key, value] list respectively. Mutating
// the underlying hash while iterating is unspecified behaviour (spec
// section 4.5), matching the original's HashWithIndex.

type hashCursor struct {
	id    uuid.UUID
	hash  *values.Hash
	index int
}

// KeysGenerator yields each key in the hash's insertion order.
type KeysGenerator struct{ hashCursor }

// NewKeysGenerator builds a KeysGenerator over h.
func NewKeysGenerator(h *values.Hash) *values.Value {
	return &values.Value{Kind: values.KindKeysGenerator, Data: &KeysGenerator{hashCursor{id: uuid.New(), hash: h}}}
}

func (g *KeysGenerator) ID() uuid.UUID { return g.id }

func (g *KeysGenerator) Shift() (*values.Value, bool, error) {
	k, _, ok := g.hash.At(g.index)
	if !ok {
		return nil, false, nil
	}
	g.index++
	return values.NewString(k), true, nil
}

// ValuesGenerator yields each value in the hash's insertion order.
type ValuesGenerator struct{ hashCursor }

func NewValuesGenerator(h *values.Hash) *values.Value {
	return &values.Value{Kind: values.KindValuesGenerator, Data: &ValuesGenerator{hashCursor{id: uuid.New(), hash: h}}}
}

func (g *ValuesGenerator) ID() uuid.UUID { return g.id }

func (g *ValuesGenerator) Shift() (*values.Value, bool, error) {
	_, v, ok := g.hash.At(g.index)
	if !ok {
		return nil, false, nil
	}
	g.index++
	return v, true, nil
}

// EachGenerator yields a two-element [key, value] List per entry.
type EachGenerator struct{ hashCursor }

func NewEachGenerator(h *values.Hash) *values.Value {
	return &values.Value{Kind: values.KindEachGenerator, Data: &EachGenerator{hashCursor{id: uuid.New(), hash: h}}}
}

func (g *EachGenerator) ID() uuid.UUID { return g.id }

func (g *EachGenerator) Shift() (*values.Value, bool, error) {
	k, v, ok := g.hash.At(g.index)
	if !ok {
		return nil, false, nil
	}
	g.index++
	return values.NewListFrom([]*values.Value{values.NewString(k), v}), true, nil
}
