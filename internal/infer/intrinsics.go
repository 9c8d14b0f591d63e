package infer

import (
	"arrowc/internal/types"
)

// Intrinsic is a built-in function the runtime implements by name.
type Intrinsic struct {
	Name string
	Min  int
	Max  int // -1 for variadic
	// check returns the result type, or an empty TypeID and a message.
	check func(in *types.Interner, args []types.TypeID) (types.TypeID, string)
}

var intrinsicRoots = map[string]bool{
	"print":    true,
	"toString": true,
	"length":   true,
	"push":     true,
	"Math":     true,
}

// IntrinsicConsts are the constant members of intrinsic namespaces.
var IntrinsicConsts = map[string]float64{
	"Math.PI": 3.141592653589793,
	"Math.E":  2.718281828459045,
}

var intrinsics = map[string]Intrinsic{
	"print": {Name: "print", Min: 0, Max: -1, check: func(in *types.Interner, _ []types.TypeID) (types.TypeID, string) {
		return in.Builtins().Void, ""
	}},
	"toString": {Name: "toString", Min: 1, Max: 1, check: func(in *types.Interner, _ []types.TypeID) (types.TypeID, string) {
		return in.Builtins().String, ""
	}},
	"length": {Name: "length", Min: 1, Max: 1, check: func(in *types.Interner, args []types.TypeID) (types.TypeID, string) {
		switch in.KindOf(args[0]) {
		case types.KindArray, types.KindString, types.KindMap, types.KindUnresolved, types.KindObject:
			return in.Builtins().Int, ""
		}
		return types.NoTypeID, "length needs an array, a string or a map"
	}},
	"push": {Name: "push", Min: 2, Max: 2, check: func(in *types.Interner, args []types.TypeID) (types.TypeID, string) {
		t, ok := in.Lookup(args[0])
		if !ok || (t.Kind != types.KindArray && t.Kind != types.KindUnresolved) {
			return types.NoTypeID, "push needs an array"
		}
		if t.Kind == types.KindArray && !in.Assignable(args[1], t.Elem) {
			return types.NoTypeID, "cannot push " + in.Label(args[1]) + " onto " + in.Label(args[0])
		}
		return in.Builtins().Int, ""
	}},
	"charAt": {Name: "charAt", Min: 2, Max: 2, check: func(in *types.Interner, args []types.TypeID) (types.TypeID, string) {
		if k := in.KindOf(args[0]); k != types.KindString && k != types.KindUnresolved {
			return types.NoTypeID, "charAt needs a string"
		}
		if k := in.KindOf(args[1]); !k.IsIntegral() && k != types.KindUnresolved {
			return types.NoTypeID, "charAt needs an integer index"
		}
		return in.Builtins().Char, ""
	}},
	"Math.max": {Name: "Math.max", Min: 2, Max: 2, check: numeric2},
	"Math.min": {Name: "Math.min", Min: 2, Max: 2, check: numeric2},
	"Math.abs": {Name: "Math.abs", Min: 1, Max: 1, check: func(in *types.Interner, args []types.TypeID) (types.TypeID, string) {
		k := in.KindOf(args[0])
		if k == types.KindUnresolved {
			return args[0], ""
		}
		if !k.IsNumeric() {
			return types.NoTypeID, "Math.abs needs a number"
		}
		return in.UnaryPromote(args[0]), ""
	}},
	"Math.sqrt": {Name: "Math.sqrt", Min: 1, Max: 1, check: func(in *types.Interner, args []types.TypeID) (types.TypeID, string) {
		if k := in.KindOf(args[0]); !k.IsNumeric() && k != types.KindUnresolved {
			return types.NoTypeID, "Math.sqrt needs a number"
		}
		return in.Builtins().Double, ""
	}},
}

func numeric2(in *types.Interner, args []types.TypeID) (types.TypeID, string) {
	for _, a := range args {
		k := in.KindOf(a)
		if k == types.KindUnresolved {
			return a, ""
		}
		if !k.IsNumeric() {
			return types.NoTypeID, "expected numbers, got " + in.Label(a)
		}
	}
	return in.Promote(args[0], args[1]), ""
}

// LookupIntrinsic finds an intrinsic by its qualified name.
func LookupIntrinsic(name string) (Intrinsic, bool) {
	it, ok := intrinsics[name]
	return it, ok
}
