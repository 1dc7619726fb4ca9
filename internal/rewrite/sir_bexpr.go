package rewrite

import (
	"fmt"

	"rv2model/internal/sir"
)

// BExprFolder folds over sir.BExpr trees carrying context C. Quantifiers
// (Forall/Exists) route through FoldBOpApp like every other boolean
// connective; a pass that needs to react specifically to entering a
// quantifier's scope (internal/lowering's type-inference pass, recording
// the bound name in its scope map) overrides FoldBOpApp and special-cases
// e.Op.IsQuantifier() itself, rather than the framework special-casing it.
type BExprFolder[C any] interface {
	FoldBoolLit(e *sir.BoolLitExpr, ctx C) sir.BExpr
	FoldBOpApp(e *sir.BOpAppExpr, ctx C) sir.BExpr
	FoldCOpApp(e *sir.COpAppExpr, ctx C) sir.BExpr
}

// FoldBExpr dispatches e to the Fold<Kind> method of f matching its dynamic
// type.
func FoldBExpr[C any](f BExprFolder[C], e sir.BExpr, ctx C) sir.BExpr {
	switch n := e.(type) {
	case *sir.BoolLitExpr:
		return f.FoldBoolLit(n, ctx)
	case *sir.BOpAppExpr:
		return f.FoldBOpApp(n, ctx)
	case *sir.COpAppExpr:
		return f.FoldCOpApp(n, ctx)
	default:
		panic(fmt.Sprintf("rewrite: unhandled BExpr variant %T", e))
	}
}

// DefaultBExprFolder supplies bottom-up identity recursion for every BExpr
// variant, delegating VExpr sub-trees (inside COpApp) to a paired
// VExprFolder.
type DefaultBExprFolder[C any] struct {
	Self  BExprFolder[C]
	VSelf VExprFolder[C]
}

func (d DefaultBExprFolder[C]) FoldBoolLit(e *sir.BoolLitExpr, ctx C) sir.BExpr { return e }

func (d DefaultBExprFolder[C]) FoldBOpApp(e *sir.BOpAppExpr, ctx C) sir.BExpr {
	args := make([]sir.BExpr, len(e.Args))
	for i, a := range e.Args {
		args[i] = FoldBExpr(d.Self, a, ctx)
	}
	cp := *e
	cp.Args = args
	return &cp
}

func (d DefaultBExprFolder[C]) FoldCOpApp(e *sir.COpAppExpr, ctx C) sir.BExpr {
	args := make([]sir.VExpr, len(e.Args))
	for i, a := range e.Args {
		args[i] = FoldVExpr(d.VSelf, a, ctx)
	}
	cp := *e
	cp.Args = args
	return &cp
}
