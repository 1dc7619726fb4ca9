package rewrite

import (
	"fmt"

	"rv2model/internal/vir"
)

// StmtFolder folds over vir.Stmt trees, delegating Expr payloads to a
// paired ExprFolder. internal/builder's constant propagation overrides
// FoldAssign and FoldIfThenElse to carry dataflow state in ctx across
// sibling statements within a Block; its constant-address memory
// abstraction keeps the default statement recursion and overrides only the
// expression-level FoldOpApp.
type StmtFolder[C any] interface {
	FoldAssume(s *vir.AssumeStmt, ctx C) vir.Stmt
	FoldFuncCall(s *vir.FuncCallStmt, ctx C) vir.Stmt
	FoldAssign(s *vir.AssignStmt, ctx C) vir.Stmt
	FoldIfThenElse(s *vir.IfThenElseStmt, ctx C) vir.Stmt
	FoldBlock(s *vir.BlockStmt, ctx C) vir.Stmt
	FoldComment(s *vir.CommentStmt, ctx C) vir.Stmt
}

// FoldStmt dispatches s to the Fold<Kind> method of f matching its dynamic
// type.
func FoldStmt[C any](f StmtFolder[C], s vir.Stmt, ctx C) vir.Stmt {
	switch n := s.(type) {
	case *vir.AssumeStmt:
		return f.FoldAssume(n, ctx)
	case *vir.FuncCallStmt:
		return f.FoldFuncCall(n, ctx)
	case *vir.AssignStmt:
		return f.FoldAssign(n, ctx)
	case *vir.IfThenElseStmt:
		return f.FoldIfThenElse(n, ctx)
	case *vir.BlockStmt:
		return f.FoldBlock(n, ctx)
	case *vir.CommentStmt:
		return f.FoldComment(n, ctx)
	default:
		panic(fmt.Sprintf("rewrite: unhandled vir.Stmt variant %T", s))
	}
}

// DefaultStmtFolder supplies top-to-bottom identity recursion for every
// vir.Stmt variant: statements are visited in program order, which is what
// every pass over a Block needs (unlike expressions, where post-order
// child-first folding is what matters).
type DefaultStmtFolder[C any] struct {
	Self  StmtFolder[C]
	ESelf ExprFolder[C]
}

func (d DefaultStmtFolder[C]) FoldAssume(s *vir.AssumeStmt, ctx C) vir.Stmt {
	return vir.NewAssume(FoldExpr(d.ESelf, s.Cond, ctx))
}

func (d DefaultStmtFolder[C]) FoldFuncCall(s *vir.FuncCallStmt, ctx C) vir.Stmt {
	lhs := make([]vir.Expr, len(s.Lhs))
	for i, e := range s.Lhs {
		lhs[i] = FoldExpr(d.ESelf, e, ctx)
	}
	args := make([]vir.Expr, len(s.Args))
	for i, e := range s.Args {
		args[i] = FoldExpr(d.ESelf, e, ctx)
	}
	return vir.NewFuncCall(s.Name, lhs, args)
}

func (d DefaultStmtFolder[C]) FoldAssign(s *vir.AssignStmt, ctx C) vir.Stmt {
	lhs := make([]vir.Expr, len(s.Lhs))
	for i, e := range s.Lhs {
		lhs[i] = FoldExpr(d.ESelf, e, ctx)
	}
	rhs := make([]vir.Expr, len(s.Rhs))
	for i, e := range s.Rhs {
		rhs[i] = FoldExpr(d.ESelf, e, ctx)
	}
	return vir.NewAssign(lhs, rhs)
}

func (d DefaultStmtFolder[C]) FoldIfThenElse(s *vir.IfThenElseStmt, ctx C) vir.Stmt {
	cond := FoldExpr(d.ESelf, s.Cond, ctx)
	then := FoldStmt(d.Self, s.Then, ctx)
	var els vir.Stmt
	if s.Else != nil {
		els = FoldStmt(d.Self, s.Else, ctx)
	}
	return vir.NewIfThenElse(cond, then, els)
}

func (d DefaultStmtFolder[C]) FoldBlock(s *vir.BlockStmt, ctx C) vir.Stmt {
	out := make([]vir.Stmt, len(s.Stmts))
	for i, st := range s.Stmts {
		out[i] = FoldStmt(d.Self, st, ctx)
	}
	return vir.NewBlock(out...)
}

func (d DefaultStmtFolder[C]) FoldComment(s *vir.CommentStmt, ctx C) vir.Stmt { return s }
