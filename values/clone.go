package values

// Cloner is implemented by Data payloads (defined outside this package,
// e.g. generator.GeneratorObject) that need custom deep-clone behaviour
// beyond the List/Hash/Set cases DeepClone handles directly. This keeps
// values decoupled from the generator package (no import cycle) while
// still letting DeepClone (spec section 4.1) dispatch correctly.
type Cloner interface {
	CloneValue() *Value
}

// DeepClone implements spec section 4.1: List/Hash/Set are rebuilt with
// freshly-cloned elements; Generators rebuild with a copied local-vars
// stack but a shared chunk (via Cloner, implemented in the generator
// package); every other variant — scalars and OS resource handles — is
// a shallow copy, since cloning an OS handle isn't meaningful.
func DeepClone(v *Value) *Value {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindList:
		l := v.Data.(*List)
		items := make([]*Value, len(l.items))
		for i, it := range l.items {
			items[i] = DeepClone(it)
		}
		return NewListFrom(items)
	case KindHash:
		h := v.Data.(*Hash)
		out := NewHash()
		outHash := out.Data.(*Hash)
		for _, k := range h.keys {
			outHash.Set(k, DeepClone(h.lookup[k]))
		}
		return out
	case KindSet:
		s := v.Data.(*Set)
		out := NewSet()
		outSet := out.Data.(*Set)
		for _, k := range s.keys {
			outSet.Add(DeepClone(s.values[k]), k)
		}
		return out
	default:
		if cl, ok := v.Data.(Cloner); ok {
			return cl.CloneValue()
		}
		cp := *v
		return &cp
	}
}
