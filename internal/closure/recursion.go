package closure

import (
	"arrowc/internal/hir"
	"arrowc/internal/source"
)

// bindRecursion follows the declaration of local lid, initialized with
// closure value v, by storing the new closure into its own self slot. The
// slot is written once and keeps the original closure even if the
// variable is reassigned later.
func (em *emitter) bindRecursion(out *hir.Block, lid hir.LocalID, v *hir.Expr, sp source.Span) {
	mc, ok := v.Data.(hir.MakeClosureData)
	if !ok {
		return
	}
	clo := em.c.unit.Closure(mc.Closure)
	if clo == nil || clo.Self < 0 {
		return
	}
	out.Append(hir.StmtPatchSelf, sp, hir.PatchSelfData{Target: em.local(lid, sp), Slot: clo.Self})
}
