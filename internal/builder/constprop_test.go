package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/vir"
)

func TestRunConstProp_SubstitutesKnownLiteralAcrossStatements(t *testing.T) {
	x1 := vir.NewVar("x1", vir.Bv(64))
	x2 := vir.NewVar("x2", vir.Bv(64))
	body := vir.NewBlock(
		vir.NewAssign([]vir.Expr{x1}, []vir.Expr{vir.NewLit(vir.BvLit(5, 64))}),
		vir.NewAssign([]vir.Expr{x2}, []vir.Expr{vir.NewOpApp(vir.OpAdd, x1, vir.NewLit(vir.BvLit(3, 64)))}),
	)
	out := runConstProp(body)
	second := out.Stmts[1].(*vir.AssignStmt)
	lit, ok := second.Rhs[0].(*vir.LitExpr)
	require.True(t, ok, "expected constant-folded literal, got %s", second.Rhs[0])
	require.Equal(t, uint64(8), lit.Lit.Uint64())
}

func TestRunConstProp_OverwritingAssignForgetsStaleValue(t *testing.T) {
	x1 := vir.NewVar("x1", vir.Bv(64))
	x2 := vir.NewVar("x2", vir.Bv(64))
	nonConst := vir.NewVar("x9", vir.Bv(64))
	body := vir.NewBlock(
		vir.NewAssign([]vir.Expr{x1}, []vir.Expr{vir.NewLit(vir.BvLit(5, 64))}),
		vir.NewAssign([]vir.Expr{x1}, []vir.Expr{nonConst}),
		vir.NewAssign([]vir.Expr{x2}, []vir.Expr{x1}),
	)
	out := runConstProp(body)
	third := out.Stmts[2].(*vir.AssignStmt)
	_, stillVar := third.Rhs[0].(*vir.VarExpr)
	require.True(t, stillVar, "expected x1 to no longer resolve to a literal after being overwritten, got %s", third.Rhs[0])
}

func TestRunConstProp_IfThenElseClearsValueMapAndIsLeftUntouched(t *testing.T) {
	x1 := vir.NewVar("x1", vir.Bv(64))
	x2 := vir.NewVar("x2", vir.Bv(64))
	cond := vir.NewLit(vir.BoolLit(true))
	then := vir.NewAssign([]vir.Expr{x2}, []vir.Expr{vir.NewLit(vir.BvLit(1, 64))})
	ifStmt := vir.NewIfThenElse(cond, then, nil)
	body := vir.NewBlock(
		vir.NewAssign([]vir.Expr{x1}, []vir.Expr{vir.NewLit(vir.BvLit(5, 64))}),
		ifStmt,
		vir.NewAssign([]vir.Expr{x2}, []vir.Expr{x1}),
	)
	out := runConstProp(body)
	require.Same(t, ifStmt, out.Stmts[1])
	third := out.Stmts[2].(*vir.AssignStmt)
	_, stillVar := third.Rhs[0].(*vir.VarExpr)
	require.True(t, stillVar, "expected value map to be cleared across the if, got %s", third.Rhs[0])
}

func TestRunConstProp_ArrayIndexLhsOnlyFoldsIndexNotStoredValue(t *testing.T) {
	memW := vir.NewVar("mem_w", vir.Array([]vir.Type{vir.Bv(64)}, vir.Bv(32)))
	x1 := vir.NewVar("x1", vir.Bv(64))
	idx := vir.NewOpApp(vir.OpArrayIndex, memW, x1)
	body := vir.NewBlock(
		vir.NewAssign([]vir.Expr{x1}, []vir.Expr{vir.NewLit(vir.BvLit(16, 64))}),
		vir.NewAssign([]vir.Expr{idx}, []vir.Expr{vir.NewLit(vir.BvLit(7, 32))}),
	)
	out := runConstProp(body)
	second := out.Stmts[1].(*vir.AssignStmt)
	lhs := second.Lhs[0].(*vir.OpAppExpr)
	require.Equal(t, vir.OpArrayIndex, lhs.Op)
	_, folded := lhs.Args[1].(*vir.LitExpr)
	require.True(t, folded, "expected array index to be folded to the known literal, got %s", lhs.Args[1])
}
