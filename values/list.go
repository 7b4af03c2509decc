package values

import "github.com/google/uuid"

// List is an ordered, mutable sequence of Values supporting front/back
// access (spec section 3.1). It is reference-shared: copying a List
// value copies the pointer, not the backing slice.
type List struct {
	id    uuid.UUID
	items []*Value
}

// NewList builds an empty List value.
func NewList() *Value {
	return &Value{Kind: KindList, Data: &List{id: newHandleID()}}
}

// NewListFrom builds a List value pre-populated with items.
func NewListFrom(items []*Value) *Value {
	return &Value{Kind: KindList, Data: &List{id: newHandleID(), items: items}}
}

func (l *List) Len() int { return len(l.items) }

func (l *List) Items() []*Value { return l.items }

func (l *List) PushBack(v *Value) { l.items = append(l.items, v) }

func (l *List) PushFront(v *Value) {
	l.items = append([]*Value{v}, l.items...)
}

func (l *List) PopBack() (*Value, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	v := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return v, true
}

func (l *List) PopFront() (*Value, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	v := l.items[0]
	l.items = l.items[1:]
	return v, true
}

func (l *List) Get(i int) (*Value, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

func (l *List) ID() uuid.UUID { return l.id }
