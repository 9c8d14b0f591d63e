package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive and well-known types.
type Builtins struct {
	Unresolved TypeID
	Void       TypeID
	Bool       TypeID
	Byte       TypeID
	Short      TypeID
	Char       TypeID
	Int        TypeID
	Long       TypeID
	Float      TypeID
	Double     TypeID
	String     TypeID
	Object     TypeID
	Null       TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// It is not safe for concurrent use; each compilation unit owns one.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.types = append(in.types, Type{}) // reserve 0 as invalid sentinel
	b := &in.builtins
	b.Unresolved = in.Intern(Type{Kind: KindUnresolved})
	b.Void = in.Intern(Type{Kind: KindVoid})
	b.Bool = in.Intern(Type{Kind: KindBool})
	b.Byte = in.Intern(Type{Kind: KindByte})
	b.Short = in.Intern(Type{Kind: KindShort})
	b.Char = in.Intern(Type{Kind: KindChar})
	b.Int = in.Intern(Type{Kind: KindInt})
	b.Long = in.Intern(Type{Kind: KindLong})
	b.Float = in.Intern(Type{Kind: KindFloat})
	b.Double = in.Intern(Type{Kind: KindDouble})
	b.String = in.Intern(Type{Kind: KindString})
	b.Object = in.Intern(Type{Kind: KindObject})
	b.Null = in.Intern(Type{Kind: KindNull})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := makeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	if len(t.Args) > 0 {
		t.Args = append([]TypeID(nil), t.Args...)
	}
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind of id, KindInvalid for unknown ids.
func (in *Interner) KindOf(id TypeID) Kind {
	t, _ := in.Lookup(id)
	return t.Kind
}

// Array interns T[].
func (in *Interner) Array(elem TypeID) TypeID { return in.Intern(MakeArray(elem)) }

// Map interns Map<K, V>.
func (in *Interner) Map(key, value TypeID) TypeID { return in.Intern(MakeMap(key, value)) }

// Class interns the instance type of a class.
func (in *Interner) Class(name string) TypeID { return in.Intern(MakeClass(name)) }

// Contract interns a contract type with its type arguments.
func (in *Interner) Contract(name string, args ...TypeID) TypeID {
	return in.Intern(MakeContract(name, args...))
}

// TypeParam interns a generic parameter.
func (in *Interner) TypeParam(name string) TypeID { return in.Intern(MakeTypeParam(name)) }

// Primitive maps an annotation name to a builtin, if it names one.
func (in *Interner) Primitive(name string) (TypeID, bool) {
	b := in.builtins
	switch name {
	case "void":
		return b.Void, true
	case "boolean", "bool":
		return b.Bool, true
	case "byte":
		return b.Byte, true
	case "short":
		return b.Short, true
	case "char":
		return b.Char, true
	case "int":
		return b.Int, true
	case "long":
		return b.Long, true
	case "float":
		return b.Float, true
	case "double", "number":
		return b.Double, true
	case "string", "String":
		return b.String, true
	case "Object", "any":
		return b.Object, true
	}
	return NoTypeID, false
}

// IsUnresolved reports whether id is still waiting for inference.
func (in *Interner) IsUnresolved(id TypeID) bool {
	return id == in.builtins.Unresolved
}

type typeKey struct {
	Kind Kind
	Elem TypeID
	Key  TypeID
	Name string
	Args string
}

func makeKey(t Type) typeKey {
	k := typeKey{Kind: t.Kind, Elem: t.Elem, Key: t.Key, Name: t.Name}
	if len(t.Args) > 0 {
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = strconv.FormatUint(uint64(a), 10)
		}
		k.Args = strings.Join(parts, ",")
	}
	return k
}
