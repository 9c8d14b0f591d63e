package contract

import (
	"strings"

	"arrowc/internal/types"
)

// entry is one row of the built-in catalog. Signatures are written with
// primitive names and single-letter type parameters: "int, T -> R".
type entry struct {
	name   string
	method string
	sig    string
}

// catalog lists the java.util.function shapes. Within an arity, more
// specialized contracts come first; resolution breaks ties by this order.
var catalog = []entry{
	{"Runnable", "run", " -> void"},
	{"IntSupplier", "getAsInt", " -> int"},
	{"LongSupplier", "getAsLong", " -> long"},
	{"DoubleSupplier", "getAsDouble", " -> double"},
	{"BooleanSupplier", "getAsBoolean", " -> boolean"},
	{"Supplier", "get", " -> T"},

	{"IntUnaryOperator", "applyAsInt", "int -> int"},
	{"LongUnaryOperator", "applyAsLong", "long -> long"},
	{"DoubleUnaryOperator", "applyAsDouble", "double -> double"},
	{"IntPredicate", "test", "int -> boolean"},
	{"LongPredicate", "test", "long -> boolean"},
	{"DoublePredicate", "test", "double -> boolean"},
	{"IntToLongFunction", "applyAsLong", "int -> long"},
	{"IntToDoubleFunction", "applyAsDouble", "int -> double"},
	{"LongToIntFunction", "applyAsInt", "long -> int"},
	{"LongToDoubleFunction", "applyAsDouble", "long -> double"},
	{"DoubleToIntFunction", "applyAsInt", "double -> int"},
	{"DoubleToLongFunction", "applyAsLong", "double -> long"},
	{"IntConsumer", "accept", "int -> void"},
	{"LongConsumer", "accept", "long -> void"},
	{"DoubleConsumer", "accept", "double -> void"},
	{"IntFunction", "apply", "int -> R"},
	{"LongFunction", "apply", "long -> R"},
	{"DoubleFunction", "apply", "double -> R"},
	{"UnaryOperator", "apply", "T -> T"},
	{"Predicate", "test", "T -> boolean"},
	{"ToIntFunction", "applyAsInt", "T -> int"},
	{"ToLongFunction", "applyAsLong", "T -> long"},
	{"ToDoubleFunction", "applyAsDouble", "T -> double"},
	{"Consumer", "accept", "T -> void"},
	{"Function", "apply", "T -> R"},

	{"IntBinaryOperator", "applyAsInt", "int, int -> int"},
	{"LongBinaryOperator", "applyAsLong", "long, long -> long"},
	{"DoubleBinaryOperator", "applyAsDouble", "double, double -> double"},
	{"ObjIntConsumer", "accept", "T, int -> void"},
	{"ObjLongConsumer", "accept", "T, long -> void"},
	{"ObjDoubleConsumer", "accept", "T, double -> void"},
	{"BinaryOperator", "apply", "T, T -> T"},
	{"BiPredicate", "test", "T, U -> boolean"},
	{"ToIntBiFunction", "applyAsInt", "T, U -> int"},
	{"ToLongBiFunction", "applyAsLong", "T, U -> long"},
	{"ToDoubleBiFunction", "applyAsDouble", "T, U -> double"},
	{"BiConsumer", "accept", "T, U -> void"},
	{"BiFunction", "apply", "T, U -> R"},
}

// buildCatalog interns the catalog into in.
func buildCatalog(in *types.Interner) []*Contract {
	out := make([]*Contract, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e.build(in))
	}
	return out
}

func (e entry) build(in *types.Interner) *Contract {
	lhs, rhs, _ := strings.Cut(e.sig, "->")
	c := &Contract{Name: e.name, Method: e.method, Flavor: Cataloged}
	typ := func(s string) types.TypeID {
		s = strings.TrimSpace(s)
		if id, ok := in.Primitive(s); ok {
			return id
		}
		for _, tp := range c.TypeParams {
			if tp == s {
				return in.TypeParam(s)
			}
		}
		c.TypeParams = append(c.TypeParams, s)
		return in.TypeParam(s)
	}
	for part := range strings.SplitSeq(lhs, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c.Params = append(c.Params, typ(part))
	}
	c.Result = typ(rhs)
	return c
}
