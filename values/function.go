package values

// AnonymousFunction pairs a compiled chunk with a snapshot of the
// locals captured at the point the closure literal was evaluated (spec
// section 3.1). Chunk is held as interface{} here rather than a
// concrete *chunk.Chunk to avoid a values<->chunk import cycle — the
// chunk package dereferences it via chunk.AsChunk.
type AnonymousFunction struct {
	Chunk   interface{}
	Locals  []*Value
}

// NewAnonymousFunction builds an AnonymousFunction value.
func NewAnonymousFunction(ch interface{}, locals []*Value) *Value {
	return &Value{Kind: KindAnonymousFunction, Data: &AnonymousFunction{Chunk: ch, Locals: locals}}
}

// NamedFunction wraps a chunk reachable by name from the VM's function
// table.
type NamedFunction struct {
	Chunk interface{}
}

// NewNamedFunction builds a NamedFunction value.
func NewNamedFunction(ch interface{}) *Value {
	return &Value{Kind: KindNamedFunction, Data: &NamedFunction{Chunk: ch}}
}

// CoreFunction is a built-in implementation taking the VM, by value
// (spec section 3.1). VM is held as interface{} for the same reason as
// Chunk above; the vm package defines the concrete signature and casts.
type CoreFunctionImpl func(vm interface{}) error

// CoreFunction wraps a built-in core function pointer.
type CoreFunction struct {
	Name string
	Fn   CoreFunctionImpl
}

// NewCoreFunction builds a CoreFunction value.
func NewCoreFunction(name string, fn CoreFunctionImpl) *Value {
	return &Value{Kind: KindCoreFunction, Data: &CoreFunction{Name: name, Fn: fn}}
}
