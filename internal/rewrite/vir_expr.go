package rewrite

import (
	"fmt"

	"rv2model/internal/vir"
)

// ExprFolder folds over vir.Expr trees carrying context C.
type ExprFolder[C any] interface {
	FoldLit(e *vir.LitExpr, ctx C) vir.Expr
	FoldVar(e *vir.VarExpr, ctx C) vir.Expr
	FoldOpApp(e *vir.OpAppExpr, ctx C) vir.Expr
	FoldFuncApp(e *vir.FuncAppExpr, ctx C) vir.Expr
}

// FoldExpr dispatches e to the Fold<Kind> method of f matching its dynamic
// type.
func FoldExpr[C any](f ExprFolder[C], e vir.Expr, ctx C) vir.Expr {
	switch n := e.(type) {
	case *vir.LitExpr:
		return f.FoldLit(n, ctx)
	case *vir.VarExpr:
		return f.FoldVar(n, ctx)
	case *vir.OpAppExpr:
		return f.FoldOpApp(n, ctx)
	case *vir.FuncAppExpr:
		return f.FoldFuncApp(n, ctx)
	default:
		panic(fmt.Sprintf("rewrite: unhandled vir.Expr variant %T", e))
	}
}

// DefaultExprFolder supplies bottom-up identity recursion for every vir.Expr
// variant.
type DefaultExprFolder[C any] struct {
	Self ExprFolder[C]
}

func (d DefaultExprFolder[C]) FoldLit(e *vir.LitExpr, ctx C) vir.Expr { return e }
func (d DefaultExprFolder[C]) FoldVar(e *vir.VarExpr, ctx C) vir.Expr { return e }

func (d DefaultExprFolder[C]) FoldOpApp(e *vir.OpAppExpr, ctx C) vir.Expr {
	args := make([]vir.Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = FoldExpr(d.Self, a, ctx)
	}
	cp := *e
	cp.Args = args
	return &cp
}

func (d DefaultExprFolder[C]) FoldFuncApp(e *vir.FuncAppExpr, ctx C) vir.Expr {
	args := make([]vir.Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = FoldExpr(d.Self, a, ctx)
	}
	cp := *e
	cp.Args = args
	return &cp
}
