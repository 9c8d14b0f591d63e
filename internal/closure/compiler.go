package closure

import (
	"errors"
	"fmt"

	"arrowc/internal/ast"
	"arrowc/internal/capture"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/hir"
	"arrowc/internal/infer"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/trace"
	"arrowc/internal/types"
)

// Options configures a Compiler.
type Options struct {
	// Registry is the contract registry to use, e.g. one preloaded from a
	// contract cache. Nil creates a fresh one.
	Registry *contract.Registry
	Tracer   trace.Tracer
	// Parent is the trace span the unit's events nest under.
	Parent uint64
}

// Compiler lowers one compilation unit. It owns the unit's registry,
// interner and closures, and reports into the unit's bag. A Compiler is
// not safe for concurrent use.
type Compiler struct {
	b        *ast.Builder
	in       *types.Interner
	reg      *contract.Registry
	res      *contract.Resolver
	bag      *diag.Bag
	reporter diag.Reporter
	tracer   trace.Tracer
	parent   uint64

	unit     *hir.Unit
	iu       *infer.Unit
	universe symbols.Universe
	cur      *emitter

	results  map[*ast.FuncDecl]types.TypeID
	pending  map[*ast.FuncDecl]bool
	stages   map[*hir.Closure]Stage
	failures []*CompileError
}

func New(b *ast.Builder, name string, bag *diag.Bag, opts Options) *Compiler {
	reg := opts.Registry
	if reg == nil {
		reg = contract.NewRegistry(types.NewInterner())
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	in := reg.Interner()
	c := &Compiler{
		b:        b,
		in:       in,
		reg:      reg,
		res:      contract.NewResolver(reg),
		bag:      bag,
		reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		tracer:   tracer,
		parent:   opts.Parent,
		unit:     hir.NewUnit(name, in),
		results:  make(map[*ast.FuncDecl]types.TypeID),
		pending:  make(map[*ast.FuncDecl]bool),
		stages:   make(map[*hir.Closure]Stage),
	}
	c.iu = &infer.Unit{
		Builder:  b,
		Interner: in,
		Resolver: c.res,
		Classes:  make(map[string]*ast.ClassDecl),
		Funcs:    make(map[string]*ast.FuncDecl),
		Result:   c.memberResult,
	}
	c.universe = c.iu.Universe()
	return c
}

func (c *Compiler) Interner() *types.Interner   { return c.in }
func (c *Compiler) Registry() *contract.Registry { return c.reg }
func (c *Compiler) Unit() *hir.Unit              { return c.unit }

// Failures returns the literals that failed, in compilation order.
func (c *Compiler) Failures() []*CompileError { return c.failures }

// Stage returns the stage closure clo reached.
func (c *Compiler) Stage(clo *hir.Closure) Stage { return c.stages[clo] }

// Declare makes the top-level declarations of file known to the unit
// without compiling any body. CompileUnit calls it first.
func (c *Compiler) Declare(file ast.FileID) error {
	f := c.b.File(file)
	if f == nil {
		return fmt.Errorf("closure: unknown file %d", file)
	}
	var ifaces []*ast.InterfaceDecl
	var imports []*ast.ImportDecl
	var classes []*ast.ClassDecl
	seen := make(map[string]source.Span)
	declare := func(name string, sp source.Span) bool {
		if prev, dup := seen[name]; dup {
			diag.ReportError(c.reporter, diag.NameDuplicate, sp, fmt.Sprintf("'%s' is already declared", name)).
				WithNote(prev, "first declared here").
				Emit()
			return false
		}
		seen[name] = sp
		return true
	}
	for _, id := range f.Items {
		it := c.b.Item(id)
		if it == nil {
			continue
		}
		switch d := it.Data.(type) {
		case *ast.FuncDecl:
			if declare(d.Name, d.NameSpan) {
				c.iu.Funcs[d.Name] = d
			}
		case *ast.ClassDecl:
			if declare(d.Name, d.NameSpan) {
				c.iu.Classes[d.Name] = d
				classes = append(classes, d)
			}
		case *ast.InterfaceDecl:
			if declare(d.Name, d.NameSpan) {
				ifaces = append(ifaces, d)
			}
		case *ast.ImportDecl:
			imports = append(imports, d)
		}
	}
	c.universe = c.iu.Universe()
	for _, d := range ifaces {
		c.declareInterface(d)
	}
	for _, d := range imports {
		for _, n := range d.Names {
			if _, ok := c.reg.Lookup(n.Name); !ok {
				diag.ReportError(c.reporter, diag.NameUnknownImport, n.Span,
					fmt.Sprintf("'%s' is not a known functional interface", n.Name)).Emit()
			}
		}
	}
	for _, cls := range classes {
		for _, name := range cls.Implements {
			if _, ok := c.reg.Lookup(name); !ok {
				diag.ReportError(c.reporter, diag.NameUnknownType, cls.NameSpan,
					fmt.Sprintf("class %s implements unknown interface '%s'", cls.Name, name)).Emit()
			}
		}
	}
	return nil
}

// declareInterface registers a source interface as a contract.
func (c *Compiler) declareInterface(d *ast.InterfaceDecl) {
	b := c.in.Builtins()
	names := make([]string, len(d.TypeParams))
	tparams := make(map[string]bool, len(d.TypeParams))
	for i, tp := range d.TypeParams {
		names[i] = tp.Name
		tparams[tp.Name] = true
	}
	annot := infer.Annotator{Unit: c.iu, Reporter: c.reporter}
	methods := make([]contract.Method, len(d.Methods))
	for i, m := range d.Methods {
		params := make([]types.TypeID, len(m.Params))
		for j, p := range m.Params {
			params[j] = annot.Resolve(p.Type, tparams)
			if c.in.IsUnresolved(params[j]) {
				params[j] = b.Object
			}
		}
		result := annot.Resolve(m.Return, tparams)
		if c.in.IsUnresolved(result) {
			result = b.Void
		}
		methods[i] = contract.Method{Name: m.Name, Params: params, Result: result}
	}
	_, err := c.reg.Declare(d.Name, names, methods, d.NameSpan)
	switch {
	case errors.Is(err, contract.ErrNotFunctional):
		rb := diag.ReportError(c.reporter, diag.ClosureInterfaceNotFunctional, d.NameSpan,
			fmt.Sprintf("interface %s has %d methods; a function literal needs exactly one", d.Name, len(d.Methods)))
		for _, m := range d.Methods {
			rb.WithNote(m.NameSpan, "method "+m.Name)
		}
		rb.Emit()
	case errors.Is(err, contract.ErrDuplicate):
		diag.ReportError(c.reporter, diag.NameDuplicate, d.NameSpan,
			fmt.Sprintf("interface %s is already declared", d.Name)).Emit()
	}
}

// CompileUnit compiles every function and class of file. On errors the
// partial unit is returned with an error wrapping ErrFailed; every
// diagnostic is in the bag.
func (c *Compiler) CompileUnit(file ast.FileID) (*hir.Unit, error) {
	sp := trace.Begin(c.tracer, trace.ScopePhase, "lower", c.parent)
	defer sp.End("")
	if err := c.Declare(file); err != nil {
		return nil, err
	}
	for _, id := range c.b.File(file).Items {
		switch d := c.b.Item(id).Data.(type) {
		case *ast.FuncDecl:
			if c.iu.Funcs[d.Name] != d {
				continue
			}
			c.unit.Funcs[d.Name] = c.CompileMember(nil, d)
			c.unit.Order = append(c.unit.Order, d.Name)
		case *ast.ClassDecl:
			if c.iu.Classes[d.Name] != d {
				continue
			}
			c.unit.Classes[d.Name] = c.compileClass(d)
			c.unit.Order = append(c.unit.Order, d.Name)
		}
	}
	if n := c.bag.ErrorCount(); n > 0 {
		return c.unit, fmt.Errorf("%w: %d errors", ErrFailed, n)
	}
	return c.unit, nil
}

func (c *Compiler) compileClass(d *ast.ClassDecl) *hir.Class {
	cls := &hir.Class{Name: d.Name, Methods: make(map[string]*hir.Func, len(d.Methods))}
	for i := range d.Fields {
		f := &d.Fields[i]
		t, _ := c.iu.FieldType(d, f.Name, c.reporter)
		cls.Fields = append(cls.Fields, hir.Field{Name: f.Name, Type: t, Init: c.CompileField(d, f)})
	}
	for _, m := range d.Methods {
		if _, dup := cls.Methods[m.Name]; dup {
			diag.ReportError(c.reporter, diag.NameDuplicate, m.NameSpan,
				fmt.Sprintf("method %s.%s is already declared", d.Name, m.Name)).Emit()
			continue
		}
		cls.Methods[m.Name] = c.CompileMember(d, m)
	}
	return cls
}

func memberName(class *ast.ClassDecl, name string) string {
	if class == nil {
		return name
	}
	return class.Name + "." + name
}

// CompileMember lowers a top-level function (class nil) or a method,
// compiling every function literal in it.
func (c *Compiler) CompileMember(class *ast.ClassDecl, fn *ast.FuncDecl) *hir.Func {
	name := memberName(class, fn.Name)
	sp := trace.Begin(c.tracer, trace.ScopeMember, "member:"+name, c.parent)
	defer sp.End("")
	em := c.enter(class, name, symbols.Member{Class: class, Func: fn, Span: fn.NameSpan}, sp.ID())
	em.eng.Func(fn)
	if _, ok := c.results[fn]; !ok && !fn.Return.IsValid() && fn.Name != "constructor" {
		c.results[fn] = c.known(em.eng.MemberResult())
	}
	return em.member(fn)
}

// CompileField lowers the initializer of field f, or returns nil.
func (c *Compiler) CompileField(class *ast.ClassDecl, f *ast.FieldDecl) *hir.Func {
	if !f.Init.IsValid() {
		return nil
	}
	name := memberName(class, f.Name)
	sp := trace.Begin(c.tracer, trace.ScopeMember, "field:"+name, c.parent)
	defer sp.End("")
	em := c.enter(class, name, symbols.Member{Class: class, Init: f.Init, Span: f.NameSpan}, sp.ID())
	em.eng.FieldInit(f)
	return em.fieldInit(f)
}

func (c *Compiler) enter(class *ast.ClassDecl, name string, m symbols.Member, span uint64) *emitter {
	c.res.SetTrace(c.tracer, span)
	t := symbols.Resolve(c.b, m, c.universe, c.reporter)
	boxes := capture.Classify(t)
	eng := infer.New(c.iu, t, class, c.reporter)
	eng.SetObserver(observer{tracer: c.tracer, parent: span, in: c.in})
	em := &emitter{
		c:          c,
		class:      class,
		memberName: name,
		table:      t,
		boxes:      boxes,
		analyzer:   capture.NewAnalyzer(t, boxes, c.reporter),
		eng:        eng,
		span:       span,
	}
	c.cur = em
	return em
}

// memberResult infers the result of a member without a return
// annotation. A member still being inferred answers Unresolved, so
// direct recursion takes its type from the other returns.
func (c *Compiler) memberResult(class *ast.ClassDecl, fn *ast.FuncDecl) types.TypeID {
	if t, ok := c.results[fn]; ok {
		return t
	}
	if c.pending[fn] {
		return c.in.Builtins().Unresolved
	}
	c.pending[fn] = true
	defer delete(c.pending, fn)
	t := symbols.Resolve(c.b, symbols.Member{Class: class, Func: fn, Span: fn.NameSpan}, c.universe, nil)
	eng := infer.New(c.iu, t, class, nil)
	eng.Mute()
	eng.Func(fn)
	res := c.known(eng.MemberResult())
	c.results[fn] = res
	return res
}

func (c *Compiler) known(t types.TypeID) types.TypeID {
	if t == types.NoTypeID || c.in.IsUnresolved(t) {
		return c.in.Builtins().Object
	}
	return t
}

// errorsIn returns the errors reported inside span.
func (c *Compiler) errorsIn(span source.Span) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range c.bag.Items() {
		if d.Severity == diag.SevError && span.Contains(d.Primary) {
			out = append(out, d)
		}
	}
	return out
}

// observer turns inference progress into trace points.
type observer struct {
	tracer trace.Tracer
	parent uint64
	in     *types.Interner
}

func (o observer) ContractResolved(lit ast.ExprID, info *infer.Literal) {
	trace.Point(o.tracer, trace.ScopeLiteral, "contract",
		fmt.Sprintf("#%d %s (%s)", lit, info.Contract.Label(o.in), info.Tier), o.parent)
}

func (o observer) TypesResolved(lit ast.ExprID, info *infer.Literal) {
	trace.Point(o.tracer, trace.ScopeLiteral, "types",
		fmt.Sprintf("#%d result %s", lit, o.in.Label(info.Result)), o.parent)
}
