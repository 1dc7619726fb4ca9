package builder

import (
	"rv2model/internal/rewrite"
	"rv2model/internal/vir"
)

// constPropCtx carries intra-block dataflow state: a name -> known-value
// map, forgotten on any control-flow split.
type constPropCtx struct {
	Values map[string]uint64
}

// constProp implements per-block constant propagation: pure intra-block
// dataflow over a name -> u64 map, threaded across sibling statements in
// program order.
//
// Grounded on vslc/src/ir/lir/live.go's shape for an intra-block dataflow
// pass walking a block's statement list in order, adapted from liveness
// bits to a value map.
type constProp struct {
	rewrite.DefaultExprFolder[*constPropCtx]
	rewrite.DefaultStmtFolder[*constPropCtx]
}

func newConstProp() *constProp {
	c := &constProp{}
	c.DefaultExprFolder.Self = c
	c.DefaultStmtFolder.Self = c
	c.DefaultStmtFolder.ESelf = c
	return c
}

// runConstProp runs the pass over one basic block's already-lowered body.
func runConstProp(body *vir.BlockStmt) *vir.BlockStmt {
	c := newConstProp()
	ctx := &constPropCtx{Values: map[string]uint64{}}
	return rewrite.FoldStmt[*constPropCtx](c, body, ctx).(*vir.BlockStmt)
}

// FoldVar substitutes a variable reference with its known literal value, if
// any; Bool/Array/Struct typed variables are never tracked (this pass only
// ever folds arithmetic/comparison/boolean bitvector operands).
func (c *constProp) FoldVar(e *vir.VarExpr, ctx *constPropCtx) vir.Expr {
	if e.Typ.Kind() != vir.KindBv {
		return e
	}
	if v, ok := ctx.Values[e.Name]; ok {
		return vir.NewLit(vir.BvLit(maskWidth(v, e.Typ.Width()), e.Typ.Width()))
	}
	return e
}

// FoldOpApp folds children via the embedded default, then evaluates the
// node itself if every (now-substituted) operand is literal.
func (c *constProp) FoldOpApp(e *vir.OpAppExpr, ctx *constPropCtx) vir.Expr {
	folded := c.DefaultExprFolder.FoldOpApp(e, ctx).(*vir.OpAppExpr)
	return evalConstOpApp(folded)
}

// FoldAssign handles the Assign case: the RHS is folded
// (substituting and constant-folding), the LHS base Var is left untouched
// (its current value is about to be overwritten, not read), and an
// array-indexed LHS only has its index folded: the stored value itself is
// never propagated into the map. A literal RHS updates the map for a
// scalar Var LHS; anything else forgets that name.
func (c *constProp) FoldAssign(s *vir.AssignStmt, ctx *constPropCtx) vir.Stmt {
	lhs := make([]vir.Expr, len(s.Lhs))
	rhs := make([]vir.Expr, len(s.Rhs))
	for i := range s.Lhs {
		rhs[i] = rewrite.FoldExpr[*constPropCtx](c, s.Rhs[i], ctx)

		switch l := s.Lhs[i].(type) {
		case *vir.OpAppExpr:
			if l.Op == vir.OpArrayIndex {
				idx := rewrite.FoldExpr[*constPropCtx](c, l.Args[1], ctx)
				lhs[i] = vir.NewOpApp(vir.OpArrayIndex, l.Args[0], idx)
				continue
			}
			lhs[i] = l
		case *vir.VarExpr:
			lhs[i] = l
			if lit, ok := rhs[i].(*vir.LitExpr); ok && lit.Lit.Kind() == vir.LitBv {
				ctx.Values[l.Name] = lit.Lit.Uint64()
			} else {
				delete(ctx.Values, l.Name)
			}
		default:
			lhs[i] = l
		}
	}
	return vir.NewAssign(lhs, rhs)
}

// FoldIfThenElse clears the entire value map (conservative across a split
// in control flow) and leaves the statement itself untouched: the branch
// condition and arms are not folded by this pass.
func (c *constProp) FoldIfThenElse(s *vir.IfThenElseStmt, ctx *constPropCtx) vir.Stmt {
	for k := range ctx.Values {
		delete(ctx.Values, k)
	}
	return s
}
