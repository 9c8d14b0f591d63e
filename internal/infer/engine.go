package infer

import (
	"fmt"

	"arrowc/internal/ast"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/types"
)

// Observer is told when a literal's contract and types are settled.
// Tentative passes are not observed.
type Observer interface {
	ContractResolved(lit ast.ExprID, info *Literal)
	TypesResolved(lit ast.ExprID, info *Literal)
}

// Literal is the inference result for one function literal.
type Literal struct {
	Expr     ast.ExprID
	Expected *contract.Instance
	Contract *contract.Instance
	Tier     contract.Tier
	// Params are the final parameter types, defaults and rest included.
	Params []types.TypeID
	// Result is the type every return converts to; void when a void
	// contract discards an expression body.
	Result  types.TypeID
	Discard bool
	Returns []Return
	// Errors counts diagnostics reported while typing the literal.
	Errors int
}

// Return is one return site of a function body.
type Return struct {
	Stmt ast.StmtID // NoStmtID for an expression body
	Span source.Span
	Type types.TypeID // void for a bare return
}

type CallKind uint8

const (
	CallInvalid CallKind = iota
	CallFunc
	CallMethod
	CallInvoke
	CallIntrinsic
	CallNew
)

// Call records what a call or new expression resolved to.
type Call struct {
	Kind  CallKind
	Name  string // function, method, contract method or intrinsic
	Class *ast.ClassDecl
	Func  *ast.FuncDecl
	// Recv is the method receiver or the invoke target. NoExprID means
	// this for methods and the callee expression for invokes.
	Recv     ast.ExprID
	Sig      Signature
	Instance *contract.Instance
}

type AccessKind uint8

const (
	AccessInvalid AccessKind = iota
	AccessField
	AccessLength
	AccessMapKey
	AccessConst
)

// Access records what a member expression (not a call) reads.
type Access struct {
	Kind  AccessKind
	Class *ast.ClassDecl
	Name  string
}

type frame struct {
	lit      ast.ExprID
	declared types.TypeID
	hint     types.TypeID
	returns  []Return
}

// Engine types one member body: every expression, every binding and
// every function literal in it.
type Engine struct {
	unit     *Unit
	in       *types.Interner
	b        *ast.Builder
	t        *symbols.Table
	class    *ast.ClassDecl
	reporter diag.Reporter
	observer Observer
	annot    Annotator
	mute     int
	errors   int

	exprs   map[ast.ExprID]types.TypeID
	binds   map[symbols.BindingID]types.TypeID
	lits    map[ast.ExprID]*Literal
	calls   map[ast.ExprID]*Call
	access  map[ast.ExprID]*Access
	dead    map[ast.StmtID]bool
	frames  []*frame
	loops   []*loop
	tparams []map[string]bool
	root    *frame
}

func New(u *Unit, t *symbols.Table, class *ast.ClassDecl, r diag.Reporter) *Engine {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Engine{
		unit:     u,
		in:       u.Interner,
		b:        u.Builder,
		t:        t,
		class:    class,
		reporter: r,
		annot:    Annotator{Unit: u, Reporter: r},
		exprs:    make(map[ast.ExprID]types.TypeID),
		binds:    make(map[symbols.BindingID]types.TypeID),
		lits:     make(map[ast.ExprID]*Literal),
		calls:    make(map[ast.ExprID]*Call),
		access:   make(map[ast.ExprID]*Access),
		dead:     make(map[ast.StmtID]bool),
	}
}

func (e *Engine) SetObserver(o Observer) { e.observer = o }

// Mute turns the engine into a tentative one: nothing is reported,
// observed or synthesized.
func (e *Engine) Mute() { e.mute++ }

func (e *Engine) Interner() *types.Interner { return e.in }

func (e *Engine) Table() *symbols.Table { return e.t }

func (e *Engine) Unit() *Unit { return e.unit }

// TypeOf returns the type of an expression typed so far.
func (e *Engine) TypeOf(id ast.ExprID) types.TypeID {
	if t, ok := e.exprs[id]; ok {
		return t
	}
	return e.in.Builtins().Unresolved
}

// BindingType returns the type of a variable, field or parameter.
func (e *Engine) BindingType(id symbols.BindingID) types.TypeID {
	if t, ok := e.binds[id]; ok {
		return t
	}
	if b := e.t.Binding(id); b != nil && b.Kind == symbols.BindField {
		if t, ok := e.unit.FieldType(e.class, b.Name, nil); ok {
			return t
		}
	}
	return e.in.Builtins().Unresolved
}

func (e *Engine) LiteralInfo(id ast.ExprID) *Literal { return e.lits[id] }

func (e *Engine) Call(id ast.ExprID) *Call { return e.calls[id] }

func (e *Engine) Access(id ast.ExprID) *Access { return e.access[id] }

// Dead reports statements skipped as unreachable.
func (e *Engine) Dead(id ast.StmtID) bool { return e.dead[id] }

// MemberResult is the result type of the member typed by Func: the
// declared one, or the join of its returns.
func (e *Engine) MemberResult() types.TypeID {
	if e.root == nil {
		return e.in.Builtins().Void
	}
	return e.root.declared
}

// Errors counts the diagnostics reported so far.
func (e *Engine) Errors() int { return e.errors }

// Func types a top-level function or method body.
func (e *Engine) Func(fn *ast.FuncDecl) {
	sig := e.unit.params(fn, e.reporter)
	ids := e.t.Params[ast.NoExprID]
	for i, p := range fn.Params {
		if p.Default.IsValid() {
			e.expect(p.Default, sig.Params[i], e.b.Expr(p.Default).Span)
		}
		if i < len(ids) && ids[i] != symbols.NoBindingID {
			e.binds[ids[i]] = sig.Params[i]
		}
		e.bindPattern(p.Pattern, sig.Params[i])
	}
	declared := e.in.Builtins().Unresolved
	switch {
	case fn.Return.IsValid():
		declared = e.annot.Resolve(fn.Return, nil)
	case fn.Name == "constructor":
		declared = e.in.Builtins().Void
	}
	fr := &frame{lit: ast.NoExprID, declared: declared, hint: declared}
	e.root = fr
	e.frames = append(e.frames, fr)
	closed := e.stmt(fn.Body)
	e.frames = e.frames[:len(e.frames)-1]
	fr.declared = e.blockResult(fr, closed, fn.NameSpan)
}

// FieldInit types a field initializer against the field's type.
func (e *Engine) FieldInit(f *ast.FieldDecl) {
	if !f.Init.IsValid() {
		return
	}
	want, _ := e.unit.FieldType(e.class, f.Name, e.reporter)
	fr := &frame{lit: ast.NoExprID, declared: want, hint: want}
	e.root = fr
	e.frames = append(e.frames, fr)
	e.expect(f.Init, want, e.b.Expr(f.Init).Span)
	e.frames = e.frames[:len(e.frames)-1]
}

func (e *Engine) report(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	if e.mute > 0 {
		return diag.ReportError(diag.NopReporter{}, code, span, "")
	}
	e.errors++
	return diag.ReportError(e.reporter, code, span, fmt.Sprintf(format, args...))
}

func (e *Engine) label(id types.TypeID) string { return e.in.Label(id) }

func (e *Engine) unresolved(id types.TypeID) bool {
	return id == types.NoTypeID || e.in.IsUnresolved(id)
}

func (e *Engine) kind(id types.TypeID) types.Kind { return e.in.KindOf(id) }

func (e *Engine) top() *frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

func (e *Engine) typeParams() map[string]bool {
	if len(e.tparams) == 0 {
		return nil
	}
	return e.tparams[len(e.tparams)-1]
}

// Annot resolves an annotation in the current type parameter scope.
func (e *Engine) Annot(id ast.TypeID) types.TypeID {
	if e.mute > 0 {
		return Annotator{Unit: e.unit}.Resolve(id, e.typeParams())
	}
	return e.annot.Resolve(id, e.typeParams())
}

// localAnnot resolves an annotation written inside a body. Type
// parameters of the enclosing literals erase to Object there.
func (e *Engine) localAnnot(id ast.TypeID) types.TypeID {
	t := e.Annot(id)
	if e.in.HasTypeParam(t) {
		return e.in.Erase(t)
	}
	return t
}

// expect types expression id against want and reports a mismatch.
func (e *Engine) expect(id ast.ExprID, want types.TypeID, span source.Span) types.TypeID {
	got := e.expr(id, want)
	e.assignable(got, want, span)
	return got
}

func (e *Engine) assignable(got, want types.TypeID, span source.Span) bool {
	if e.unresolved(want) || e.unresolved(got) || e.in.Assignable(got, want) {
		return true
	}
	e.report(diag.TypeMismatch, span, "cannot use %s as %s", e.label(got), e.label(want)).Emit()
	return false
}
