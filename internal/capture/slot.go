package capture

import (
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/types"
)

// Kind is the storage strategy of one capture slot.
type Kind uint8

const (
	ByValueCopy Kind = iota + 1
	SharedMutableBox
	EnclosingInstanceRef
	SelfRecursiveRef
)

func (k Kind) String() string {
	switch k {
	case ByValueCopy:
		return "ByValueCopy"
	case SharedMutableBox:
		return "SharedMutableBox"
	case EnclosingInstanceRef:
		return "EnclosingInstanceRef"
	case SelfRecursiveRef:
		return "SelfRecursiveRef"
	}
	return "invalid"
}

// Slot is one field of a compiled closure.
type Slot struct {
	// Binding is the captured variable; for SelfRecursiveRef it is the
	// binding the literal initializes, for EnclosingInstanceRef it is empty.
	Binding symbols.BindingID
	Name    string
	Kind    Kind
	Type    types.TypeID
	Decl    source.Span
	// Ref is the first reference to the slot inside the literal.
	Ref source.Span
}

// ThisName is the slot name used for the enclosing instance.
const ThisName = "this"
