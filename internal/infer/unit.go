package infer

import (
	"arrowc/internal/ast"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/symbols"
	"arrowc/internal/types"
)

// Unit is what inference knows about the compilation unit around the
// member being typed.
type Unit struct {
	Builder  *ast.Builder
	Interner *types.Interner
	Resolver *contract.Resolver
	Classes  map[string]*ast.ClassDecl
	Funcs    map[string]*ast.FuncDecl
	// Result returns the result type of a member without a return
	// annotation. Nil means such members return Object.
	Result func(class *ast.ClassDecl, fn *ast.FuncDecl) types.TypeID
}

// Universe returns the global names of the unit for name resolution.
func (u *Unit) Universe() symbols.Universe {
	uni := make(symbols.Universe, len(u.Funcs)+len(u.Classes)+len(intrinsics))
	for name := range intrinsicRoots {
		uni[name] = symbols.BindIntrinsic
	}
	for name := range u.Funcs {
		uni[name] = symbols.BindFunc
	}
	for name := range u.Classes {
		uni[name] = symbols.BindClass
	}
	return uni
}

// Signature is the callable shape of a function, method or constructor.
type Signature struct {
	Params   []types.TypeID
	Optional []bool
	Rest     bool
	Result   types.TypeID
}

// Required is the number of arguments a call must pass.
func (s Signature) Required() int {
	n := len(s.Params)
	if s.Rest {
		n--
	}
	for n > 0 && s.Optional[n-1] {
		n--
	}
	return n
}

// Signature computes the signature of fn, declared in class (nil for
// top-level functions). Parameters without annotations are Object.
func (u *Unit) Signature(class *ast.ClassDecl, fn *ast.FuncDecl, r diag.Reporter) Signature {
	sig := u.params(fn, r)
	a := Annotator{Unit: u, Reporter: r}
	switch {
	case fn.Return.IsValid():
		sig.Result = a.Resolve(fn.Return, nil)
	case fn.Name == "constructor":
		sig.Result = u.Interner.Builtins().Void
	case u.Result != nil:
		sig.Result = u.Result(class, fn)
	default:
		sig.Result = u.Interner.Builtins().Object
	}
	return sig
}

// params is Signature without the result.
func (u *Unit) params(fn *ast.FuncDecl, r diag.Reporter) Signature {
	a := Annotator{Unit: u, Reporter: r}
	sig := Signature{
		Params:   make([]types.TypeID, len(fn.Params)),
		Optional: make([]bool, len(fn.Params)),
	}
	for i, p := range fn.Params {
		t := a.Resolve(p.Type, nil)
		if u.Interner.IsUnresolved(t) {
			t = u.Interner.Builtins().Object
			if p.Rest {
				t = u.Interner.Array(t)
			}
		}
		sig.Params[i] = t
		sig.Optional[i] = p.Default.IsValid()
		sig.Rest = sig.Rest || p.Rest
	}
	return sig
}

// FieldType returns the declared type of field name of class.
func (u *Unit) FieldType(class *ast.ClassDecl, name string, r diag.Reporter) (types.TypeID, bool) {
	if class == nil {
		return types.NoTypeID, false
	}
	f := class.Field(name)
	if f == nil {
		return types.NoTypeID, false
	}
	t := Annotator{Unit: u, Reporter: r}.Resolve(f.Type, nil)
	if u.Interner.IsUnresolved(t) {
		t = u.Interner.Builtins().Object
	}
	return t, true
}
