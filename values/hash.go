package values

import "github.com/google/uuid"

// Hash is an insertion-ordered mapping from string to Value (spec
// section 3.1), the Go analogue of the original cosh implementation's
// indexmap::IndexMap<String, Value>.
type Hash struct {
	id     uuid.UUID
	keys   []string
	lookup map[string]*Value
}

// NewHash builds an empty Hash value.
func NewHash() *Value {
	return &Value{Kind: KindHash, Data: &Hash{id: newHandleID(), lookup: make(map[string]*Value)}}
}

func (h *Hash) Len() int { return len(h.keys) }

func (h *Hash) Get(key string) (*Value, bool) {
	v, ok := h.lookup[key]
	return v, ok
}

// Set inserts or overwrites key, preserving original insertion position
// on overwrite (matches IndexMap semantics).
func (h *Hash) Set(key string, v *Value) {
	if _, ok := h.lookup[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.lookup[key] = v
}

func (h *Hash) Delete(key string) {
	if _, ok := h.lookup[key]; !ok {
		return
	}
	delete(h.lookup, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (h *Hash) Keys() []string { return h.keys }

// At returns the key/value pair at the given index, matching the
// behaviour the KeysGenerator/ValuesGenerator/EachGenerator family
// relies on (spec section 4.5).
func (h *Hash) At(i int) (string, *Value, bool) {
	if i < 0 || i >= len(h.keys) {
		return "", nil, false
	}
	k := h.keys[i]
	return k, h.lookup[k], true
}

func (h *Hash) ID() uuid.UUID { return h.id }
