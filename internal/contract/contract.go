package contract

import (
	"strings"

	"arrowc/internal/source"
	"arrowc/internal/types"
)

// Flavor records where a contract came from.
type Flavor uint8

const (
	Cataloged Flavor = iota + 1
	Declared
	Synthesized
)

func (f Flavor) String() string {
	switch f {
	case Cataloged:
		return "cataloged"
	case Declared:
		return "declared"
	case Synthesized:
		return "synthesized"
	}
	return "invalid"
}

// Contract is a single-method call contract. Params and Result may mention
// the contract's own TypeParams.
type Contract struct {
	Name       string
	Method     string
	TypeParams []string
	Params     []types.TypeID
	Result     types.TypeID
	Flavor     Flavor
	// Decl is the interface declaration for Declared contracts.
	Decl source.Span
	// Key is the structural key of Synthesized contracts.
	Key string
}

func (c *Contract) Arity() int { return len(c.Params) }

// Generic reports whether the contract has type parameters.
func (c *Contract) Generic() bool { return len(c.TypeParams) > 0 }

// Signature renders "Name<T, R>.method(T): R".
func (c *Contract) Signature(in *types.Interner) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	if len(c.TypeParams) > 0 {
		sb.WriteByte('<')
		sb.WriteString(strings.Join(c.TypeParams, ", "))
		sb.WriteByte('>')
	}
	sb.WriteByte('.')
	sb.WriteString(c.Method)
	sb.WriteByte('(')
	for i, p := range c.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(in.Label(p))
	}
	sb.WriteString("): ")
	sb.WriteString(in.Label(c.Result))
	return sb.String()
}

// Instance is a contract with its type parameters bound.
type Instance struct {
	Contract *Contract
	Args     []types.TypeID
	Params   []types.TypeID
	Result   types.TypeID
	// Type is the interned contract type, e.g. Function<string, int>.
	Type types.TypeID
}

// Instantiate binds c's type parameters to args in order. Missing or
// unresolved arguments stay as the contract's own type parameters.
func Instantiate(in *types.Interner, c *Contract, args []types.TypeID) *Instance {
	bind := make(map[string]types.TypeID, len(c.TypeParams))
	full := make([]types.TypeID, len(c.TypeParams))
	for i, name := range c.TypeParams {
		full[i] = in.TypeParam(name)
		if i < len(args) && !in.IsUnresolved(args[i]) {
			full[i] = args[i]
		}
		bind[name] = full[i]
	}
	inst := &Instance{Contract: c, Args: full, Result: in.Substitute(c.Result, bind)}
	inst.Params = make([]types.TypeID, len(c.Params))
	for i, p := range c.Params {
		inst.Params[i] = in.Substitute(p, bind)
	}
	inst.Type = in.Contract(c.Name, full...)
	return inst
}

// Label renders the instance type, e.g. "BiFunction<int, string, long>".
func (i *Instance) Label(in *types.Interner) string {
	if i == nil {
		return "<none>"
	}
	return in.Label(i.Type)
}

// Open reports whether some type parameter is still unbound.
func (i *Instance) Open(in *types.Interner) bool {
	for _, a := range i.Args {
		if in.KindOf(a) == types.KindTypeParam {
			return true
		}
	}
	return false
}
