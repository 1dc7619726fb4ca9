package lowering

import (
	"rv2model/internal/dwctx"
	"rv2model/internal/rewrite"
	"rv2model/internal/sir"
)

// ResolveGlobalsCtx carries the DWARF context Pass 2 consults.
type ResolveGlobalsCtx struct {
	Dwarf dwctx.Ctx
}

// ResolveGlobals implements spec-lowering Pass 2: every identifier that
// resolves to a global variable is replaced by a Bv literal carrying its
// absolute memory address. It runs after Pass 1, so a primitive global
// Ident has already been wrapped in a Deref by Pass 1; this pass rewrites
// the Ident *inside* that Deref (and any bare, non-primitive global Ident
// left untouched by Pass 1) without needing to know which case it is
// (FoldIdent is blind to its parent).
type ResolveGlobals struct {
	rewrite.DefaultVExprFolder[*ResolveGlobalsCtx]
	rewrite.DefaultBExprFolder[*ResolveGlobalsCtx]
	rewrite.DefaultSpecFolder[*ResolveGlobalsCtx]
}

// NewResolveGlobals constructs a Pass 2 folder with self-referential wiring.
func NewResolveGlobals() *ResolveGlobals {
	g := &ResolveGlobals{}
	g.DefaultVExprFolder.Self = g
	g.DefaultBExprFolder.Self = g
	g.DefaultBExprFolder.VSelf = g
	g.DefaultSpecFolder.BSelf = g
	g.DefaultSpecFolder.VSelf = g
	return g
}

// RunResolveGlobals runs Pass 2 over every spec item of fs. Idempotent by
// construction: once every Ident naming a global has become a Bv literal,
// there is no remaining Ident for a second run to act on.
func RunResolveGlobals(dwarf dwctx.Ctx, fs *sir.FuncSpec) *sir.FuncSpec {
	g := NewResolveGlobals()
	ctx := &ResolveGlobalsCtx{Dwarf: dwarf}
	return rewrite.FoldFuncSpec[*ResolveGlobalsCtx](g, fs, ctx)
}

func (g *ResolveGlobals) FoldIdent(e *sir.IdentExpr, ctx *ResolveGlobalsCtx) sir.VExpr {
	if v, err := ctx.Dwarf.GlobalVar(e.Name); err == nil {
		return sir.NewBv(v.MemoryAddr, e.Typ)
	}
	return e
}
