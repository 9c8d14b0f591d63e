package vm

// Box is the storage of a SharedMutableBox variable. Every closure that
// captured the variable and the declaring frame hold the same box. Boxes
// are not synchronized; a unit runs on one goroutine.
type Box struct {
	V Value
}

func boxValue(v Value) Value { return Value{Kind: VKBox, H: &Box{V: v}} }

// SelfCell is the write-once SelfRecursiveRef slot of a closure. It is
// created empty with the closure and set right after, so the closure can
// reach itself even if the variable it was assigned to changes.
type SelfCell struct {
	v   Value
	set bool
}

// Set stores the closure. A second Set is a compiler bug and panics.
func (c *SelfCell) Set(v Value) {
	if c.set {
		panic("vm: self cell set twice")
	}
	c.v, c.set = v, true
}

// Get returns the stored closure; ok is false before Set.
func (c *SelfCell) Get() (v Value, ok bool) {
	return c.v, c.set
}
