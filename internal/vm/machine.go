package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"arrowc/internal/diag"
	"arrowc/internal/hir"
	"arrowc/internal/source"
	"arrowc/internal/trace"
	"arrowc/internal/types"
)

// DefaultMaxDepth bounds the call stack.
const DefaultMaxDepth = 2048

// ErrNoEntry is returned by Call for a name the unit does not define.
var ErrNoEntry = errors.New("vm: no such function")

// Options configures a Machine.
type Options struct {
	// Out receives print output; nil means os.Stdout.
	Out      io.Writer
	MaxDepth int
	Tracer   trace.Tracer
	Parent   uint64
}

// Machine interprets one compiled unit. It is not safe for concurrent use.
type Machine struct {
	unit     *hir.Unit
	in       *types.Interner
	out      io.Writer
	maxDepth int
	tracer   trace.Tracer
	parent   uint64
	stack    []*frame
	objects  uint64
}

func New(u *hir.Unit, opts Options) *Machine {
	m := &Machine{
		unit:     u,
		in:       u.Interner,
		out:      opts.Out,
		maxDepth: opts.MaxDepth,
		tracer:   opts.Tracer,
		parent:   opts.Parent,
	}
	if m.out == nil {
		m.out = os.Stdout
	}
	if m.maxDepth <= 0 {
		m.maxDepth = DefaultMaxDepth
	}
	return m
}

// frame is one activation: a function, a method (this set) or a closure
// body (clo set).
type frame struct {
	fn     *hir.Func
	locals []Value
	this   Value
	clo    *Closure
	span   source.Span
}

func (f *frame) name() string {
	if f.clo != nil {
		return f.clo.Unit.Name
	}
	if f.fn.Class != "" {
		return f.fn.Class + "." + f.fn.Name
	}
	return f.fn.Name
}

// Call runs a top-level function, or Class.method on a new instance
// created with no constructor arguments. A fault is returned as *Fault.
func (m *Machine) Call(name string, args ...Value) (Value, error) {
	sp := trace.Begin(m.tracer, trace.ScopePhase, "run:"+name, m.parent)
	v, err := m.call(name, args)
	if err != nil {
		sp.End(err.Error())
		return Value{}, err
	}
	sp.End("ok")
	return v, nil
}

func (m *Machine) call(name string, args []Value) (Value, error) {
	if class, method, ok := strings.Cut(name, "."); ok {
		c := m.unit.Classes[class]
		if c == nil || c.Methods[method] == nil || method == "constructor" {
			return Value{}, fmt.Errorf("%w: %s", ErrNoEntry, name)
		}
		obj, f := m.instantiate(c, nil, source.Span{})
		if f != nil {
			return Value{}, f
		}
		v, f := m.invoke(c.Methods[method], obj, nil, args, false, source.Span{})
		if f != nil {
			return Value{}, f
		}
		return v, nil
	}
	fn := m.unit.Funcs[name]
	if fn == nil {
		return Value{}, fmt.Errorf("%w: %s", ErrNoEntry, name)
	}
	v, f := m.invoke(fn, Null(), nil, args, false, source.Span{})
	if f != nil {
		return Value{}, f
	}
	return v, nil
}

// Instantiate creates an instance of class, running field initializers
// and the constructor.
func (m *Machine) Instantiate(class string, args ...Value) (Value, error) {
	c := m.unit.Classes[class]
	if c == nil {
		return Value{}, fmt.Errorf("%w: class %s", ErrNoEntry, class)
	}
	v, f := m.instantiate(c, args, source.Span{})
	if f != nil {
		return Value{}, f
	}
	return v, nil
}

// Apply calls closure v through its contract method.
func (m *Machine) Apply(v Value, args ...Value) (Value, error) {
	clo := v.Closure()
	if clo == nil {
		return Value{}, fmt.Errorf("vm: apply %s", v.Kind)
	}
	r, f := m.invoke(clo.Unit.Func, Null(), clo, args, false, clo.Unit.Span)
	if f != nil {
		return Value{}, f
	}
	return r, nil
}

func (m *Machine) instantiate(c *hir.Class, args []Value, sp source.Span) (Value, *Fault) {
	m.objects++
	obj := &Object{ID: m.objects, Class: c, Fields: make(map[string]Value, len(c.Fields))}
	v := ObjectValue(obj)
	for _, fd := range c.Fields {
		obj.Fields[fd.Name] = m.zero(fd.Type)
	}
	for _, fd := range c.Fields {
		if fd.Init == nil {
			continue
		}
		init, f := m.invoke(fd.Init, v, nil, nil, false, sp)
		if f != nil {
			return Value{}, f
		}
		obj.Fields[fd.Name] = init
	}
	if ctor := c.Ctor(); ctor != nil {
		if _, f := m.invoke(ctor, v, nil, args, false, sp); f != nil {
			return Value{}, f
		}
	}
	return v, nil
}

// zero is the initial value of a variable of type t.
func (m *Machine) zero(t types.TypeID) Value {
	switch k := m.in.KindOf(t); {
	case k == types.KindBool:
		return Bool(false)
	case k == types.KindFloat || k == types.KindDouble:
		return Float(0, k)
	case k.IsNumeric():
		return Int(0, k)
	}
	return Null()
}

// invoke runs fn. packed tells that the last argument already is the
// rest array.
func (m *Machine) invoke(fn *hir.Func, this Value, clo *Closure, args []Value, packed bool, sp source.Span) (Value, *Fault) {
	if len(m.stack) >= m.maxDepth {
		return Value{}, m.fault(diag.RunStackOverflow, sp, "call depth exceeds %d", m.maxDepth)
	}
	fr := &frame{fn: fn, locals: make([]Value, len(fn.Locals)), this: this, clo: clo, span: sp}
	m.bind(fr, args, packed)
	m.stack = append(m.stack, fr)
	defer func() { m.stack = m.stack[:len(m.stack)-1] }()
	fl, v, f := m.block(fr, fn.Body)
	if f != nil {
		return Value{}, f
	}
	if fl != flowReturn || m.in.KindOf(fn.Result) == types.KindVoid {
		return Null(), nil
	}
	return v, nil
}

// bind stores the arguments into the parameter locals: converted to the
// parameter type, the surplus packed into the rest array, the omitted
// ones marked missing for their defaults, and boxed where captured as
// shared state.
func (m *Machine) bind(fr *frame, args []Value, packed bool) {
	fn := fr.fn
	fixed := len(fn.Params)
	if fn.Rest {
		fixed--
	}
	for i := 0; i < fixed; i++ {
		l := fn.Local(fn.Params[i])
		v := missing()
		if i < len(args) {
			v = convert(args[i], m.in.KindOf(l.Type))
		}
		m.bindParam(fr, fn.Params[i], l, v)
	}
	if !fn.Rest {
		return
	}
	id := fn.Params[fixed]
	l := fn.Local(id)
	if packed && len(args) == fixed+1 {
		m.bindParam(fr, id, l, args[fixed])
		return
	}
	var rest []Value
	if len(args) > fixed {
		ek := types.KindInvalid
		if t, ok := m.in.Lookup(l.Type); ok && t.Kind == types.KindArray {
			ek = m.in.KindOf(t.Elem)
		}
		rest = make([]Value, 0, len(args)-fixed)
		for _, a := range args[fixed:] {
			rest = append(rest, convert(a, ek))
		}
	}
	m.bindParam(fr, id, l, ArrayOf(rest...))
}

func (m *Machine) bindParam(fr *frame, id hir.LocalID, l *hir.Local, v Value) {
	if l.Boxed {
		v = boxValue(v)
	}
	fr.locals[id] = v
}
