package rewrite

import (
	"fmt"

	"rv2model/internal/sir"
)

// VExprFolder folds over sir.VExpr trees carrying context C.
type VExprFolder[C any] interface {
	FoldBv(e *sir.BvExpr, ctx C) sir.VExpr
	FoldInt(e *sir.IntExpr, ctx C) sir.VExpr
	FoldBoolV(e *sir.BoolVExpr, ctx C) sir.VExpr
	FoldIdent(e *sir.IdentExpr, ctx C) sir.VExpr
	FoldVOpApp(e *sir.VOpAppExpr, ctx C) sir.VExpr
	FoldFuncApp(e *sir.FuncAppExpr, ctx C) sir.VExpr
}

// FoldVExpr dispatches e to the Fold<Kind> method of f matching its dynamic
// type.
func FoldVExpr[C any](f VExprFolder[C], e sir.VExpr, ctx C) sir.VExpr {
	switch n := e.(type) {
	case *sir.BvExpr:
		return f.FoldBv(n, ctx)
	case *sir.IntExpr:
		return f.FoldInt(n, ctx)
	case *sir.BoolVExpr:
		return f.FoldBoolV(n, ctx)
	case *sir.IdentExpr:
		return f.FoldIdent(n, ctx)
	case *sir.VOpAppExpr:
		return f.FoldVOpApp(n, ctx)
	case *sir.FuncAppExpr:
		return f.FoldFuncApp(n, ctx)
	default:
		panic(fmt.Sprintf("rewrite: unhandled VExpr variant %T", e))
	}
}

// DefaultVExprFolder supplies bottom-up identity recursion for every VExpr
// variant. Self must be set to the outer, fully-overridden folder so that
// recursive cases (FoldVOpApp, FoldFuncApp) re-enter the pass's overrides
// on each child rather than this default's own identity behavior.
type DefaultVExprFolder[C any] struct {
	Self VExprFolder[C]
}

func (d DefaultVExprFolder[C]) FoldBv(e *sir.BvExpr, ctx C) sir.VExpr         { return e }
func (d DefaultVExprFolder[C]) FoldInt(e *sir.IntExpr, ctx C) sir.VExpr      { return e }
func (d DefaultVExprFolder[C]) FoldBoolV(e *sir.BoolVExpr, ctx C) sir.VExpr  { return e }
func (d DefaultVExprFolder[C]) FoldIdent(e *sir.IdentExpr, ctx C) sir.VExpr  { return e }

func (d DefaultVExprFolder[C]) FoldVOpApp(e *sir.VOpAppExpr, ctx C) sir.VExpr {
	args := make([]sir.VExpr, len(e.Args))
	for i, a := range e.Args {
		args[i] = FoldVExpr(d.Self, a, ctx)
	}
	cp := *e
	cp.Args = args
	return &cp
}

func (d DefaultVExprFolder[C]) FoldFuncApp(e *sir.FuncAppExpr, ctx C) sir.VExpr {
	args := make([]sir.VExpr, len(e.Args))
	for i, a := range e.Args {
		args[i] = FoldVExpr(d.Self, a, ctx)
	}
	cp := *e
	cp.Args = args
	return &cp
}
