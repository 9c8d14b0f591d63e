package types

import "strings"

// Label renders a type the way it is written in source.
func (in *Interner) Label(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindUnresolved:
		return "?"
	case KindArray:
		return in.Label(t.Elem) + "[]"
	case KindMap:
		return "Map<" + in.Label(t.Key) + ", " + in.Label(t.Elem) + ">"
	case KindClass, KindTypeParam:
		return t.Name
	case KindContract:
		if len(t.Args) == 0 {
			return t.Name
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = in.Label(a)
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	}
	return t.Kind.String()
}

// Descriptor is a compact mangled form used in synthesized contract names
// and cache keys. Primitives follow the JVM letters (Z B S C I J F D V).
func (in *Interner) Descriptor(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch t.Kind {
	case KindUnresolved:
		return "?"
	case KindVoid:
		return "V"
	case KindBool:
		return "Z"
	case KindByte:
		return "B"
	case KindShort:
		return "S"
	case KindChar:
		return "C"
	case KindInt:
		return "I"
	case KindLong:
		return "J"
	case KindFloat:
		return "F"
	case KindDouble:
		return "D"
	case KindString:
		return "T"
	case KindObject, KindNull, KindTypeParam:
		return "O"
	case KindArray:
		return "A" + in.Descriptor(t.Elem)
	case KindMap:
		return "M" + in.Descriptor(t.Key) + in.Descriptor(t.Elem)
	case KindClass:
		return "L" + t.Name + "_"
	case KindContract:
		var sb strings.Builder
		sb.WriteString("L" + t.Name)
		for _, a := range t.Args {
			sb.WriteString(in.Descriptor(a))
		}
		sb.WriteString("_")
		return sb.String()
	}
	return "?"
}

// ParseDescriptor is the inverse of Descriptor for the forms it produces.
// Type parameters come back as Object.
func (in *Interner) ParseDescriptor(s string) (TypeID, bool) {
	id, rest, ok := in.parseDesc(s)
	return id, ok && rest == ""
}

// ParseDescriptors splits a concatenation of descriptors.
func (in *Interner) ParseDescriptors(s string) ([]TypeID, bool) {
	var out []TypeID
	for s != "" {
		id, rest, ok := in.parseDesc(s)
		if !ok {
			return nil, false
		}
		out = append(out, id)
		s = rest
	}
	return out, true
}

func (in *Interner) parseDesc(s string) (TypeID, string, bool) {
	if s == "" {
		return NoTypeID, s, false
	}
	b := in.builtins
	simple := map[byte]TypeID{
		'V': b.Void, 'Z': b.Bool, 'B': b.Byte, 'S': b.Short, 'C': b.Char, 'I': b.Int,
		'J': b.Long, 'F': b.Float, 'D': b.Double, 'T': b.String, 'O': b.Object,
	}
	if id, ok := simple[s[0]]; ok {
		return id, s[1:], true
	}
	switch s[0] {
	case 'A':
		elem, rest, ok := in.parseDesc(s[1:])
		if !ok {
			return NoTypeID, s, false
		}
		return in.Array(elem), rest, true
	case 'M':
		key, rest, ok := in.parseDesc(s[1:])
		if !ok {
			return NoTypeID, s, false
		}
		val, rest, ok := in.parseDesc(rest)
		if !ok {
			return NoTypeID, s, false
		}
		return in.Map(key, val), rest, true
	case 'L':
		// class names carry no arguments; contracts with arguments are not
		// round-tripped.
		end := strings.IndexByte(s, '_')
		if end < 2 {
			return NoTypeID, s, false
		}
		return in.Class(s[1:end]), s[end+1:], true
	}
	return NoTypeID, s, false
}
