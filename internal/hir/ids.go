// Package hir is the typed intermediate form member bodies and closures
// are lowered to. Every expression carries its TypeID; captured variables
// are addressed by slot, frame variables by local id.
package hir

// LocalID identifies a local variable or parameter within a function.
// Index 0 of Func.Locals is reserved.
type LocalID uint32

// ClosureID identifies a compiled closure within a unit; 1-based.
type ClosureID uint32

const (
	NoLocalID   LocalID   = 0
	NoClosureID ClosureID = 0
)

func (id LocalID) IsValid() bool   { return id != NoLocalID }
func (id ClosureID) IsValid() bool { return id != NoClosureID }
