package types

// Erase replaces type parameters by Object, recursively.
func (in *Interner) Erase(id TypeID) TypeID {
	return in.Substitute(id, nil)
}

// Substitute replaces type parameters by their bindings; unbound ones become
// Object.
func (in *Interner) Substitute(id TypeID, bind map[string]TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch t.Kind {
	case KindTypeParam:
		if r, ok := bind[t.Name]; ok {
			return r
		}
		return in.builtins.Object
	case KindArray:
		return in.Array(in.Substitute(t.Elem, bind))
	case KindMap:
		return in.Map(in.Substitute(t.Key, bind), in.Substitute(t.Elem, bind))
	case KindContract:
		if len(t.Args) == 0 {
			return id
		}
		args := make([]TypeID, len(t.Args))
		for i, a := range t.Args {
			args[i] = in.Substitute(a, bind)
		}
		return in.Contract(t.Name, args...)
	}
	return id
}

// HasTypeParam reports whether id mentions a type parameter.
func (in *Interner) HasTypeParam(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindTypeParam:
		return true
	case KindArray:
		return in.HasTypeParam(t.Elem)
	case KindMap:
		return in.HasTypeParam(t.Key) || in.HasTypeParam(t.Elem)
	case KindContract:
		for _, a := range t.Args {
			if in.HasTypeParam(a) {
				return true
			}
		}
	}
	return false
}
