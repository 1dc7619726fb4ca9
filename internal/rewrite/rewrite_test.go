package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/rewrite"
	"rv2model/internal/sir"
	"rv2model/internal/vir"
)

// renameFolder renames every Ident named "old" to "new", exercising
// override-one-hook-keep-default-recursion.
type renameFolder struct {
	rewrite.DefaultVExprFolder[struct{}]
}

func (r *renameFolder) FoldIdent(e *sir.IdentExpr, ctx struct{}) sir.VExpr {
	if e.Name == "old" {
		return sir.NewIdent("new", e.Typ)
	}
	return e
}

func TestVExprFolder_OverrideAppliesRecursively(t *testing.T) {
	r := &renameFolder{}
	r.Self = r
	tree := sir.NewVOpApp(sir.VOpAdd, sir.VBv(32),
		sir.NewIdent("old", sir.VBv(32)),
		sir.NewIdent("keep", sir.VBv(32)),
	)
	out := rewrite.FoldVExpr[struct{}](r, tree, struct{}{})
	op := out.(*sir.VOpAppExpr)
	require.Equal(t, "new", op.Args[0].(*sir.IdentExpr).Name)
	require.Equal(t, "keep", op.Args[1].(*sir.IdentExpr).Name)
}

// constantFoldVirExpr is a tiny VIR ExprFolder that folds Add of two
// literals, enough to demonstrate vir-side folding without duplicating
// internal/lowering's full constant folder.
type constantFoldVirExpr struct {
	rewrite.DefaultExprFolder[struct{}]
}

func (c *constantFoldVirExpr) FoldOpApp(e *vir.OpAppExpr, ctx struct{}) vir.Expr {
	folded := c.DefaultExprFolder.FoldOpApp(e, ctx).(*vir.OpAppExpr)
	if folded.Op == vir.OpAdd && len(folded.Args) == 2 {
		l0, ok0 := folded.Args[0].(*vir.LitExpr)
		l1, ok1 := folded.Args[1].(*vir.LitExpr)
		if ok0 && ok1 {
			return vir.NewLit(vir.BvLit(l0.Lit.Uint64()+l1.Lit.Uint64(), l0.Lit.Width()))
		}
	}
	return folded
}

func TestExprFolder_FoldsAddOfLiterals(t *testing.T) {
	c := &constantFoldVirExpr{}
	c.Self = c
	tree := vir.NewOpApp(vir.OpAdd, vir.NewLit(vir.BvLit(2, 32)), vir.NewLit(vir.BvLit(3, 32)))
	out := rewrite.FoldExpr[struct{}](c, tree, struct{}{})
	lit, ok := out.(*vir.LitExpr)
	require.True(t, ok)
	require.Equal(t, uint64(5), lit.Lit.Uint64())
}

func TestStmtFolder_DefaultRecursesBlockInOrder(t *testing.T) {
	var visited []string
	f := &traceStmtFolder{visited: &visited}
	f.Self = f
	f.ESelf = rewrite.DefaultExprFolder[struct{}]{Self: identityExprFolder{}}

	v := vir.NewVar("a0", vir.Bv(64))
	block := vir.NewBlock(
		vir.NewAssign([]vir.Expr{v}, []vir.Expr{vir.NewLit(vir.BvLit(1, 64))}),
		vir.NewComment("marker"),
	)
	rewrite.FoldStmt[struct{}](f, block, struct{}{})
	require.Equal(t, []string{"assign", "comment"}, visited)
}

type identityExprFolder struct{ rewrite.DefaultExprFolder[struct{}] }

type traceStmtFolder struct {
	rewrite.DefaultStmtFolder[struct{}]
	visited *[]string
}

func (t *traceStmtFolder) FoldAssign(s *vir.AssignStmt, ctx struct{}) vir.Stmt {
	*t.visited = append(*t.visited, "assign")
	return t.DefaultStmtFolder.FoldAssign(s, ctx)
}

func (t *traceStmtFolder) FoldComment(s *vir.CommentStmt, ctx struct{}) vir.Stmt {
	*t.visited = append(*t.visited, "comment")
	return t.DefaultStmtFolder.FoldComment(s, ctx)
}
