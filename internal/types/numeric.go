package types

// numericRank orders the numeric kinds for widening. char sits beside
// short but neither widens into the other.
func numericRank(k Kind) int {
	switch k {
	case KindByte:
		return 1
	case KindShort, KindChar:
		return 2
	case KindInt:
		return 3
	case KindLong:
		return 4
	case KindFloat:
		return 5
	case KindDouble:
		return 6
	}
	return 0
}

// widensPrimitive is the primitive widening table: byte -> short -> int ->
// long -> float -> double, char -> int.
func widensPrimitive(from, to Kind) bool {
	if from == to {
		return true
	}
	if !from.IsNumeric() || !to.IsNumeric() {
		return false
	}
	switch {
	case from == KindChar:
		return numericRank(to) >= numericRank(KindInt)
	case to == KindChar:
		return false
	}
	return numericRank(from) < numericRank(to)
}

// Widens reports whether a value of type from can be used where to is
// expected without boxing: identity, primitive widening, null to any
// reference, or any reference to Object.
func (in *Interner) Widens(from, to TypeID) bool {
	if from == to {
		return true
	}
	ft, ok1 := in.Lookup(from)
	tt, ok2 := in.Lookup(to)
	if !ok1 || !ok2 {
		return false
	}
	switch {
	case ft.Kind.IsPrimitive() && tt.Kind.IsPrimitive():
		return widensPrimitive(ft.Kind, tt.Kind)
	case ft.Kind == KindNull:
		return tt.Kind.IsReference()
	case tt.Kind == KindObject:
		return ft.Kind.IsReference()
	case ft.Kind == KindArray && tt.Kind == KindArray:
		// arrays of references are covariant
		fe, te := in.KindOf(ft.Elem), in.KindOf(tt.Elem)
		return fe.IsReference() && te.IsReference() && in.Widens(ft.Elem, tt.Elem)
	}
	return false
}

// Assignable is Widens plus boxing a primitive into Object. Unresolved on
// either side is accepted; inference settles it later.
func (in *Interner) Assignable(from, to TypeID) bool {
	if in.IsUnresolved(from) || in.IsUnresolved(to) {
		return true
	}
	if in.Widens(from, to) {
		return true
	}
	fk, tk := in.KindOf(from), in.KindOf(to)
	return fk.IsPrimitive() && tk == KindObject
}

// Promote applies binary numeric promotion: double if either is double,
// else float, else long, else int.
func (in *Interner) Promote(a, b TypeID) TypeID {
	ak, bk := in.KindOf(a), in.KindOf(b)
	switch {
	case ak == KindDouble || bk == KindDouble:
		return in.builtins.Double
	case ak == KindFloat || bk == KindFloat:
		return in.builtins.Float
	case ak == KindLong || bk == KindLong:
		return in.builtins.Long
	}
	return in.builtins.Int
}

// UnaryPromote widens byte, short and char to int.
func (in *Interner) UnaryPromote(a TypeID) TypeID {
	switch in.KindOf(a) {
	case KindByte, KindShort, KindChar:
		return in.builtins.Int
	}
	return a
}

// Join computes the common type of two branch results:
//
//	equal            -> same
//	numeric, numeric -> the wider (binary promotion without the int floor)
//	null, reference  -> the reference
//	two references   -> Object
//
// Anything else has no join.
func (in *Interner) Join(a, b TypeID) (TypeID, bool) {
	if a == b {
		return a, true
	}
	ak, bk := in.KindOf(a), in.KindOf(b)
	switch {
	case ak.IsNumeric() && bk.IsNumeric():
		if widensPrimitive(ak, bk) {
			return b, true
		}
		if widensPrimitive(bk, ak) {
			return a, true
		}
		return in.Promote(a, b), true
	case ak == KindNull && bk.IsReference():
		return b, true
	case bk == KindNull && ak.IsReference():
		return a, true
	case ak.IsReference() && bk.IsReference():
		return in.builtins.Object, true
	}
	return NoTypeID, false
}
