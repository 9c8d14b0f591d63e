package infer

import (
	"fmt"

	"arrowc/internal/ast"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/types"
)

// Annotator turns written type annotations into interned types.
type Annotator struct {
	Unit     *Unit
	Reporter diag.Reporter
}

// Resolve maps annotation id to a type. A missing annotation is
// Unresolved; names in tparams are literal type parameters.
func (a Annotator) Resolve(id ast.TypeID, tparams map[string]bool) types.TypeID {
	in := a.Unit.Interner
	if !id.IsValid() {
		return in.Builtins().Unresolved
	}
	te := a.Unit.Builder.Type(id)
	if te == nil {
		return in.Builtins().Unresolved
	}
	switch te.Kind {
	case ast.TypeArray:
		return in.Array(a.resolveKnown(te.Elem, tparams))
	case ast.TypeFunc:
		params := make([]types.TypeID, len(te.Params))
		for i, p := range te.Params {
			params[i] = in.Erase(a.resolveKnown(p.Type, tparams))
		}
		result := in.Erase(a.resolveKnown(te.Result, tparams))
		if inst := a.Unit.Resolver.FunctionType(params, result); inst != nil {
			return inst.Type
		}
		return in.Builtins().Object
	}

	if tparams[te.Name] && len(te.Args) == 0 {
		return in.TypeParam(te.Name)
	}
	args := make([]types.TypeID, len(te.Args))
	for i, arg := range te.Args {
		args[i] = a.resolveKnown(arg, tparams)
	}
	if len(args) == 0 {
		if id, ok := in.Primitive(te.Name); ok {
			return id
		}
	}
	switch te.Name {
	case "Array", "List":
		if len(args) == 1 {
			return in.Array(args[0])
		}
		if len(args) == 0 {
			return in.Array(in.Builtins().Object)
		}
		a.argCount(te, 1, len(args))
		return in.Builtins().Object
	case "Map", "Record":
		switch len(args) {
		case 2:
			return in.Map(args[0], args[1])
		case 0:
			return in.Map(in.Builtins().String, in.Builtins().Object)
		}
		a.argCount(te, 2, len(args))
		return in.Builtins().Object
	}
	if _, ok := a.Unit.Classes[te.Name]; ok && len(args) == 0 {
		return in.Class(te.Name)
	}
	if c, ok := a.Unit.Resolver.Registry().Lookup(te.Name); ok {
		if len(args) != 0 && len(args) != len(c.TypeParams) {
			a.argCount(te, len(c.TypeParams), len(args))
			args = nil
		}
		if len(args) == 0 {
			args = rawArgs(in, len(c.TypeParams))
		}
		return contract.Instantiate(in, c, args).Type
	}
	if a.Reporter != nil {
		diag.ReportError(a.Reporter, diag.NameUnknownType, te.Span, "unknown type '"+te.Name+"'").Emit()
	}
	return in.Builtins().Object
}

// rawArgs binds every type parameter of a contract written without type
// arguments to Object.
func rawArgs(in *types.Interner, n int) []types.TypeID {
	args := make([]types.TypeID, n)
	for i := range args {
		args[i] = in.Builtins().Object
	}
	return args
}

// resolveKnown is Resolve where a missing annotation means Object.
func (a Annotator) resolveKnown(id ast.TypeID, tparams map[string]bool) types.TypeID {
	t := a.Resolve(id, tparams)
	if a.Unit.Interner.IsUnresolved(t) {
		return a.Unit.Interner.Builtins().Object
	}
	return t
}

func (a Annotator) argCount(te *ast.TypeExpr, want, got int) {
	if a.Reporter == nil {
		return
	}
	diag.ReportError(a.Reporter, diag.TypeArgCount, te.Span,
		fmt.Sprintf("%s takes %d type arguments, got %d", te.Name, want, got)).Emit()
}
