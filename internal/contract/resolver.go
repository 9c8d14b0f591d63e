package contract

import (
	"fmt"

	"arrowc/internal/trace"
	"arrowc/internal/types"
)

// Tier tells how a contract was chosen; lower is better.
type Tier uint8

const (
	TierExpected Tier = iota + 1
	TierExact
	TierReference
	TierBoxed
	TierSynthesized
)

func (t Tier) String() string {
	switch t {
	case TierExpected:
		return "expected"
	case TierExact:
		return "exact"
	case TierReference:
		return "reference"
	case TierBoxed:
		return "boxed"
	case TierSynthesized:
		return "synthesized"
	}
	return "invalid"
}

// Shape is what a literal offers to resolution: declared parameter types
// and the result type, any of which may be unresolved.
type Shape struct {
	Params []types.TypeID
	// Optional marks parameters that carry a default value.
	Optional []bool
	// Rest means the last parameter is an array collecting surplus
	// arguments.
	Rest   bool
	Result types.TypeID
}

func (s Shape) optional(i int) bool {
	return i < len(s.Optional) && s.Optional[i]
}

// Resolution is the chosen contract together with the literal's parameter
// types after backfill.
type Resolution struct {
	Instance *Instance
	Tier     Tier
	Params   []types.TypeID
}

// MismatchError reports a literal that cannot implement a contract.
type MismatchError struct {
	Contract string
	// Index is the parameter position, or -1 for the result.
	Index int
	Want  string
	Got   string
	// Arity is set when the parameter counts disagree.
	Arity     bool
	WantArity int
	GotArity  int
}

func (e *MismatchError) Error() string {
	switch {
	case e.Arity:
		return fmt.Sprintf("%s takes %d arguments, literal declares %d parameters", e.Contract, e.WantArity, e.GotArity)
	case e.Index < 0:
		return fmt.Sprintf("%s returns %s, literal returns %s", e.Contract, e.Want, e.Got)
	default:
		return fmt.Sprintf("%s passes %s as argument %d, literal declares %s", e.Contract, e.Want, e.Index+1, e.Got)
	}
}

// Resolver picks call contracts for literals of one unit.
type Resolver struct {
	reg    *Registry
	in     *types.Interner
	tracer trace.Tracer
	parent uint64
	dry    bool
}

func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg, in: reg.in, tracer: trace.Nop}
}

// SetTrace routes tier events to t under the given parent span.
func (r *Resolver) SetTrace(t trace.Tracer, parent uint64) {
	if t == nil {
		t = trace.Nop
	}
	r.tracer, r.parent = t, parent
}

func (r *Resolver) Registry() *Registry { return r.reg }

// FromType returns the contract instance named by a contract type.
func (r *Resolver) FromType(id types.TypeID) (*Instance, bool) {
	t, ok := r.in.Lookup(id)
	if !ok || (t.Kind != types.KindContract && t.Kind != types.KindClass) {
		return nil, false
	}
	c, ok := r.reg.Lookup(t.Name)
	if !ok {
		return nil, false
	}
	return Instantiate(r.in, c, t.Args), true
}

// Resolve chooses the contract for s. With an expected contract the
// literal must be compatible with it; otherwise the catalog is searched
// tier by tier and shapes with three or more parameters, or with no match,
// are synthesized.
func (r *Resolver) Resolve(s Shape, expected *Instance) (Resolution, error) {
	if expected != nil {
		return r.adopt(s, expected)
	}
	if len(s.Params) < 3 {
		if res, ok := r.search(s); ok {
			return res, nil
		}
	}
	var c *Contract
	if r.dry {
		c = r.reg.peek(s.Params, s.Result)
	} else {
		c = r.reg.Synthesize(s.Params, s.Result)
	}
	trace.Point(r.tracer, trace.ScopeNode, "contract:"+c.Name, TierSynthesized.String(), r.parent)
	inst := Instantiate(r.in, c, nil)
	return Resolution{Instance: inst, Tier: TierSynthesized, Params: r.backfill(s, inst)}, nil
}

// Probe is Resolve without side effects: nothing is synthesized into the
// registry and no trace events are emitted. Inference uses it for
// tentative passes.
func (r *Resolver) Probe(s Shape, expected *Instance) (Resolution, error) {
	saved := r.tracer
	r.tracer, r.dry = trace.Nop, true
	defer func() { r.tracer, r.dry = saved, false }()
	return r.Resolve(s, expected)
}

// FunctionType resolves a written function type to a contract instance.
func (r *Resolver) FunctionType(params []types.TypeID, result types.TypeID) *Instance {
	res, err := r.Resolve(Shape{Params: params, Result: result}, nil)
	if err != nil {
		return nil
	}
	return res.Instance
}

// CheckResult tests a literal result against a contract result. convert
// is set when a primitive widening has to be inserted at the returns.
// A void contract accepts any result and discards it.
func (r *Resolver) CheckResult(got, want types.TypeID) (convert bool, err error) {
	in := r.in
	switch {
	case in.KindOf(want) == types.KindVoid, in.IsUnresolved(got), in.IsUnresolved(want), got == want:
		return false, nil
	case in.KindOf(got) == types.KindVoid:
	case in.Assignable(got, want):
		return in.KindOf(got).IsPrimitive() && in.KindOf(want).IsPrimitive(), nil
	}
	return false, &MismatchError{Index: -1, Want: in.Label(want), Got: in.Label(got)}
}

func (r *Resolver) unresolved(id types.TypeID) bool {
	return id == types.NoTypeID || r.in.IsUnresolved(id)
}

// openParam returns the name of c's type parameter at id when it is not
// bound yet.
func (r *Resolver) openParam(c *Contract, id types.TypeID, bind map[string]types.TypeID) (string, bool) {
	t, ok := r.in.Lookup(id)
	if !ok || t.Kind != types.KindTypeParam {
		return "", false
	}
	for _, name := range c.TypeParams {
		if name == t.Name {
			_, bound := bind[name]
			return name, !bound
		}
	}
	return "", false
}

func (r *Resolver) args(c *Contract, bind map[string]types.TypeID) []types.TypeID {
	out := make([]types.TypeID, len(c.TypeParams))
	for i, name := range c.TypeParams {
		if b, ok := bind[name]; ok {
			out[i] = b
		} else {
			out[i] = r.in.Builtins().Object
		}
	}
	return out
}

func (r *Resolver) adopt(s Shape, exp *Instance) (Resolution, error) {
	in := r.in
	c := exp.Contract
	n, m := len(exp.Params), len(s.Params)
	fixed := m
	if s.Rest {
		fixed = m - 1
	}
	arity := func() error {
		return &MismatchError{Contract: exp.Label(in), Arity: true, WantArity: n, GotArity: m}
	}
	if n > fixed && !s.Rest {
		return Resolution{}, arity()
	}
	for i := n; i < fixed; i++ {
		if !s.optional(i) {
			return Resolution{}, arity()
		}
	}

	bind := make(map[string]types.TypeID)
	for i, name := range c.TypeParams {
		if i < len(exp.Args) && in.KindOf(exp.Args[i]) != types.KindTypeParam {
			bind[name] = exp.Args[i]
		}
	}
	for i := range n {
		decl := in.Builtins().Unresolved
		if i < fixed {
			decl = s.Params[i]
		} else if t, ok := in.Lookup(s.Params[m-1]); ok && t.Kind == types.KindArray {
			decl = t.Elem
		}
		want := exp.Params[i]
		if name, ok := r.openParam(c, want, bind); ok {
			if !r.unresolved(decl) {
				bind[name] = decl
			}
			continue
		}
		want = r.substOpen(c, want, bind)
		if r.unresolved(decl) || in.KindOf(want) == types.KindTypeParam {
			continue
		}
		if !in.Assignable(want, decl) {
			return Resolution{}, &MismatchError{Contract: exp.Label(in), Index: i, Want: in.Label(want), Got: in.Label(decl)}
		}
	}
	if name, ok := r.openParam(c, exp.Result, bind); ok && !r.unresolved(s.Result) && in.KindOf(s.Result) != types.KindVoid {
		bind[name] = s.Result
	}

	inst := Instantiate(in, c, r.args(c, bind))
	if !r.unresolved(s.Result) {
		if _, err := r.CheckResult(s.Result, inst.Result); err != nil {
			var me *MismatchError
			me, _ = err.(*MismatchError)
			me.Contract = inst.Label(in)
			return Resolution{}, me
		}
	}
	trace.Point(r.tracer, trace.ScopeNode, "contract:"+c.Name, TierExpected.String(), r.parent)
	return Resolution{Instance: inst, Tier: TierExpected, Params: r.backfill(s, inst)}, nil
}

// substOpen substitutes bound type parameters and leaves open ones alone.
func (r *Resolver) substOpen(c *Contract, id types.TypeID, bind map[string]types.TypeID) types.TypeID {
	full := make(map[string]types.TypeID, len(c.TypeParams))
	for _, name := range c.TypeParams {
		if b, ok := bind[name]; ok {
			full[name] = b
		} else {
			full[name] = r.in.TypeParam(name)
		}
	}
	return r.in.Substitute(id, full)
}

// backfill gives unresolved literal parameters the contract's types.
// Optional parameters past the contract arity stay unresolved so their
// defaults can type them.
func (r *Resolver) backfill(s Shape, inst *Instance) []types.TypeID {
	in := r.in
	out := make([]types.TypeID, len(s.Params))
	fixed := len(s.Params)
	if s.Rest {
		fixed--
	}
	for i, p := range s.Params {
		switch {
		case !r.unresolved(p):
			out[i] = p
		case i < fixed && i < len(inst.Params):
			out[i] = inst.Params[i]
		case i == fixed && s.Rest:
			elem := in.Builtins().Object
			if i < len(inst.Params) {
				elem = inst.Params[i]
			}
			out[i] = in.Array(elem)
		default:
			out[i] = p
		}
	}
	return out
}

func (r *Resolver) search(s Shape) (Resolution, bool) {
	var (
		best     *Contract
		bestTier Tier
		bestBind map[string]types.TypeID
	)
	for _, c := range r.reg.catalog {
		if c.Arity() != len(s.Params) {
			continue
		}
		tier, bind, ok := r.match(c, s)
		if !ok {
			trace.Point(r.tracer, trace.ScopeNode, "contract:"+c.Name, "no match", r.parent)
			continue
		}
		trace.Point(r.tracer, trace.ScopeNode, "contract:"+c.Name, tier.String(), r.parent)
		if best == nil || tier < bestTier {
			best, bestTier, bestBind = c, tier, bind
		}
		if tier == TierExact {
			break
		}
	}
	if best == nil {
		return Resolution{}, false
	}
	inst := Instantiate(r.in, best, r.args(best, bestBind))
	return Resolution{Instance: inst, Tier: bestTier, Params: r.backfill(s, inst)}, true
}

// match tests s against catalog contract c. Concrete positions must match
// exactly; type parameters bind to references (TierReference) or to boxed
// primitives (TierBoxed). Unresolved parameters only fit type parameters
// and bind Object; an unresolved result fits anything.
func (r *Resolver) match(c *Contract, s Shape) (Tier, map[string]types.TypeID, bool) {
	in := r.in
	tier := TierExact
	if c.Generic() {
		tier = TierReference
	}
	bind := make(map[string]types.TypeID)
	for i, p := range c.Params {
		d := s.Params[i]
		name, isParam := r.openParam(c, p, nil)
		if !isParam {
			if r.unresolved(d) || d != p {
				return 0, nil, false
			}
			continue
		}
		if r.unresolved(d) {
			continue
		}
		k := in.KindOf(d)
		switch {
		case k.IsPrimitive():
			tier = TierBoxed
		case !k.IsReference():
			return 0, nil, false
		}
		if b, ok := bind[name]; ok && b != d {
			return 0, nil, false
		}
		bind[name] = d
	}

	d := s.Result
	if name, isParam := r.openParam(c, c.Result, nil); isParam {
		if !r.unresolved(d) {
			k := in.KindOf(d)
			if k == types.KindVoid {
				return 0, nil, false
			}
			if b, ok := bind[name]; ok {
				if !in.Widens(d, b) {
					return 0, nil, false
				}
			} else {
				bind[name] = d
				if k.IsPrimitive() {
					tier = TierBoxed
				}
			}
		}
	} else if !r.unresolved(d) && d != c.Result {
		return 0, nil, false
	}
	return tier, bind, true
}
