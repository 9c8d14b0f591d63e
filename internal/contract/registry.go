package contract

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"arrowc/internal/source"
	"arrowc/internal/types"
)

var (
	// ErrNotFunctional is returned by Declare for interfaces that do not
	// have exactly one method.
	ErrNotFunctional = errors.New("interface is not functional")
	// ErrDuplicate is returned by Declare when the unit already declares
	// an interface with the same name.
	ErrDuplicate = errors.New("contract already declared")
)

// SynthPrefix starts every synthesized contract name.
const SynthPrefix = "Arrow"

// SynthMethod is the method name of synthesized contracts.
const SynthMethod = "call"

// Registry holds the contracts visible to one compilation unit: the
// catalog, the unit's declared interfaces and the contracts synthesized
// so far. It is not safe for concurrent use.
type Registry struct {
	in       *types.Interner
	catalog  []*Contract
	byName   map[string]*Contract
	declared []*Contract
	synth    []*Contract
	byKey    map[string]*Contract
}

func NewRegistry(in *types.Interner) *Registry {
	r := &Registry{
		in:      in,
		catalog: buildCatalog(in),
		byName:  make(map[string]*Contract),
		byKey:   make(map[string]*Contract),
	}
	for _, c := range r.catalog {
		r.byName[c.Name] = c
	}
	return r
}

func (r *Registry) Interner() *types.Interner { return r.in }

// Lookup finds a contract by name. Declared interfaces shadow catalog
// entries of the same name.
func (r *Registry) Lookup(name string) (*Contract, bool) {
	for _, c := range r.declared {
		if c.Name == name {
			return c, true
		}
	}
	c, ok := r.byName[name]
	return c, ok
}

// Catalog returns the built-in contracts in resolution order.
func (r *Registry) Catalog() []*Contract { return r.catalog }

func (r *Registry) Declared() []*Contract { return r.declared }

func (r *Registry) Synthesized() []*Contract { return r.synth }

// Method describes one abstract method of a declared interface.
type Method struct {
	Name   string
	Params []types.TypeID
	Result types.TypeID
}

// Declare registers a source-level interface as a contract. Only single
// method interfaces qualify.
func (r *Registry) Declare(name string, typeParams []string, methods []Method, decl source.Span) (*Contract, error) {
	if len(methods) != 1 {
		return nil, fmt.Errorf("%w: %s has %d methods", ErrNotFunctional, name, len(methods))
	}
	if slices.ContainsFunc(r.declared, func(c *Contract) bool { return c.Name == name }) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	m := methods[0]
	c := &Contract{
		Name:       name,
		Method:     m.Name,
		TypeParams: slices.Clone(typeParams),
		Params:     slices.Clone(m.Params),
		Result:     m.Result,
		Flavor:     Declared,
		Decl:       decl,
	}
	r.declared = append(r.declared, c)
	return c, nil
}

// SynthKey is the structural key of a (params, result) shape. Type
// parameters and unresolved types key as Object.
func SynthKey(in *types.Interner, params []types.TypeID, result types.TypeID) string {
	var sb strings.Builder
	for _, p := range params {
		sb.WriteString(in.Descriptor(norm(in, p)))
	}
	sb.WriteByte('$')
	sb.WriteString(in.Descriptor(norm(in, result)))
	return sb.String()
}

func norm(in *types.Interner, id types.TypeID) types.TypeID {
	if in.IsUnresolved(id) {
		return in.Builtins().Object
	}
	return in.Erase(id)
}

// SynthName derives the contract name from its key: Arrow3$IIJ$D.
func SynthName(arity int, key string) string {
	return fmt.Sprintf("%s%d$%s", SynthPrefix, arity, key)
}

// Synthesize returns the contract for the shape, creating it on first use.
// Equal shapes always yield the same contract.
func (r *Registry) Synthesize(params []types.TypeID, result types.TypeID) *Contract {
	c := r.peek(params, result)
	if _, ok := r.byKey[c.Key]; !ok {
		r.byKey[c.Key] = c
		r.byName[c.Name] = c
		r.synth = append(r.synth, c)
	}
	return c
}

// peek returns the synthesized contract for the shape without
// registering a new one.
func (r *Registry) peek(params []types.TypeID, result types.TypeID) *Contract {
	key := SynthKey(r.in, params, result)
	if c, ok := r.byKey[key]; ok {
		return c
	}
	c := &Contract{
		Name:   SynthName(len(params), key),
		Method: SynthMethod,
		Result: norm(r.in, result),
		Flavor: Synthesized,
		Key:    key,
	}
	c.Params = make([]types.TypeID, len(params))
	for i, p := range params {
		c.Params[i] = norm(r.in, p)
	}
	return c
}

// Preload registers a synthesized contract from its key, as stored by an
// earlier run. Keys that do not parse back to the same shape are ignored.
func (r *Registry) Preload(key string) (*Contract, bool) {
	if c, ok := r.byKey[key]; ok {
		return c, true
	}
	params, result, ok := r.parseKey(key)
	if !ok {
		return nil, false
	}
	if SynthKey(r.in, params, result) != key {
		return nil, false
	}
	return r.Synthesize(params, result), true
}

func (r *Registry) parseKey(key string) ([]types.TypeID, types.TypeID, bool) {
	lhs, rhs, ok := strings.Cut(key, "$")
	if !ok {
		return nil, types.NoTypeID, false
	}
	params, ok := r.in.ParseDescriptors(lhs)
	if !ok {
		return nil, types.NoTypeID, false
	}
	result, ok := r.in.ParseDescriptor(rhs)
	if !ok {
		return nil, types.NoTypeID, false
	}
	return params, result, true
}

// All returns declared, cataloged and synthesized contracts in that order.
func (r *Registry) All() []*Contract {
	out := make([]*Contract, 0, len(r.declared)+len(r.catalog)+len(r.synth))
	out = append(out, r.declared...)
	out = append(out, r.catalog...)
	out = append(out, r.synth...)
	return out
}
