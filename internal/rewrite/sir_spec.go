package rewrite

import (
	"fmt"

	"rv2model/internal/sir"
)

// SpecFolder folds over sir.Spec trees, delegating their BExpr/VExpr
// payloads to a paired BExprFolder/VExprFolder.
type SpecFolder[C any] interface {
	FoldRequires(s *sir.RequiresSpec, ctx C) sir.Spec
	FoldEnsures(s *sir.EnsuresSpec, ctx C) sir.Spec
	FoldModifies(s *sir.ModifiesSpec, ctx C) sir.Spec
	FoldTrack(s *sir.TrackSpec, ctx C) sir.Spec
}

// FoldSpec dispatches s to the Fold<Kind> method of f matching its dynamic
// type.
func FoldSpec[C any](f SpecFolder[C], s sir.Spec, ctx C) sir.Spec {
	switch n := s.(type) {
	case *sir.RequiresSpec:
		return f.FoldRequires(n, ctx)
	case *sir.EnsuresSpec:
		return f.FoldEnsures(n, ctx)
	case *sir.ModifiesSpec:
		return f.FoldModifies(n, ctx)
	case *sir.TrackSpec:
		return f.FoldTrack(n, ctx)
	default:
		panic(fmt.Sprintf("rewrite: unhandled Spec variant %T", s))
	}
}

// DefaultSpecFolder recurses into a Spec's BExpr/VExpr payload via paired
// folders and leaves Modifies untouched (it carries no sub-expressions).
type DefaultSpecFolder[C any] struct {
	BSelf BExprFolder[C]
	VSelf VExprFolder[C]
}

func (d DefaultSpecFolder[C]) FoldRequires(s *sir.RequiresSpec, ctx C) sir.Spec {
	return sir.NewRequires(FoldBExpr(d.BSelf, s.Cond, ctx))
}

func (d DefaultSpecFolder[C]) FoldEnsures(s *sir.EnsuresSpec, ctx C) sir.Spec {
	return sir.NewEnsures(FoldBExpr(d.BSelf, s.Cond, ctx))
}

func (d DefaultSpecFolder[C]) FoldModifies(s *sir.ModifiesSpec, ctx C) sir.Spec {
	return s
}

func (d DefaultSpecFolder[C]) FoldTrack(s *sir.TrackSpec, ctx C) sir.Spec {
	return sir.NewTrack(s.Name, FoldVExpr(d.VSelf, s.Expr, ctx))
}

// FoldFuncSpec applies f to every Spec item of fs, returning a new FuncSpec.
func FoldFuncSpec[C any](f SpecFolder[C], fs *sir.FuncSpec, ctx C) *sir.FuncSpec {
	specs := make([]sir.Spec, len(fs.Specs))
	for i, s := range fs.Specs {
		specs[i] = FoldSpec(f, s, ctx)
	}
	return &sir.FuncSpec{FuncName: fs.FuncName, Specs: specs}
}
