// Package closure compiles the function literals of a unit into closures.
//
// Every literal moves through the stages Unanalyzed, CapturesResolved,
// ContractResolved, TypesResolved and Emitted. Capture analysis decides
// the slot layout, inference picks the call contract and types the body,
// and the emitter lowers the body to HIR, reading captured variables
// through slots and writing shared mutable variables through boxes. A
// literal that calls itself through the binding it initializes gets a
// self slot, patched right after the closure is created.
//
// Nested literals are compiled while their parent is lowered, so the
// parent knows the slots it must fill when it creates the child.
package closure
