package hir

import (
	"fortio.org/safecast"

	"arrowc/internal/ast"
	"arrowc/internal/capture"
	"arrowc/internal/contract"
	"arrowc/internal/source"
	"arrowc/internal/types"
)

// Local is one frame variable.
type Local struct {
	Name  string
	Type  types.TypeID
	Boxed bool // lives in a box shared with closures
	Param bool
	Span  source.Span
}

// Func is a member body or a closure body.
type Func struct {
	Name   string
	Class  string // enclosing class, empty for top-level functions
	Params []LocalID
	// Rest makes the last parameter collect surplus arguments.
	Rest   bool
	Result types.TypeID
	Locals []Local
	Body   *Block
	Span   source.Span
}

func NewFunc(name, class string, sp source.Span) *Func {
	return &Func{Name: name, Class: class, Locals: make([]Local, 1, 8), Body: &Block{Span: sp}, Span: sp}
}

// AddLocal appends a local and returns its id.
func (f *Func) AddLocal(l Local) LocalID {
	f.Locals = append(f.Locals, l)
	return LocalID(safecast.MustConv[uint32](len(f.Locals) - 1))
}

func (f *Func) Local(id LocalID) *Local {
	if !id.IsValid() || int(id) >= len(f.Locals) {
		return nil
	}
	return &f.Locals[id]
}

// Closure is a compiled function literal: its slot layout, the contract it
// implements and its lowered body.
type Closure struct {
	ID   ClosureID
	Name string
	// Member is the enclosing member, e.g. "Calc.run".
	Member  string
	Literal ast.ExprID
	Span    source.Span
	Slots   []capture.Slot
	// Self is the index of the SelfRecursiveRef slot, or -1.
	Self     int
	Contract *contract.Instance
	Func     *Func
}

// Method is the contract method name the closure answers to.
func (c *Closure) Method() string {
	if c.Contract == nil {
		return ""
	}
	return c.Contract.Contract.Method
}

// Field is one declared class field.
type Field struct {
	Name string
	Type types.TypeID
	// Init computes the initial value with this bound; nil for zero.
	Init *Func
}

type Class struct {
	Name    string
	Fields  []Field
	Methods map[string]*Func
}

// Ctor returns the constructor, or nil.
func (c *Class) Ctor() *Func { return c.Methods["constructor"] }

// Unit is everything compiled from one source file.
type Unit struct {
	Name     string
	Interner *types.Interner
	Funcs    map[string]*Func
	Classes  map[string]*Class
	Closures []*Closure
	// Order lists functions and classes in declaration order for dumps.
	Order []string
}

func NewUnit(name string, in *types.Interner) *Unit {
	return &Unit{
		Name:     name,
		Interner: in,
		Funcs:    make(map[string]*Func),
		Classes:  make(map[string]*Class),
	}
}

// AddClosure registers c and assigns its id.
func (u *Unit) AddClosure(c *Closure) ClosureID {
	u.Closures = append(u.Closures, c)
	c.ID = ClosureID(safecast.MustConv[uint32](len(u.Closures)))
	return c.ID
}

func (u *Unit) Closure(id ClosureID) *Closure {
	if !id.IsValid() || int(id) > len(u.Closures) {
		return nil
	}
	return u.Closures[id-1]
}
