package uclid5

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/dwctx"
	"rv2model/internal/dwctx/dwtest"
	"rv2model/internal/vir"
)

func TestTypeToString_RendersEachKind(t *testing.T) {
	require.Equal(t, "boolean", typeToString(vir.BoolType))
	require.Equal(t, "integer", typeToString(vir.IntType))
	require.Equal(t, "bv64", typeToString(vir.Bv(64)))
	require.Equal(t, "[bv64]bv8", typeToString(vir.Array([]vir.Type{vir.Bv(64)}, vir.Bv(8))))
}

func TestExprToString_LiteralAndVar(t *testing.T) {
	require.Equal(t, "5bv32", exprToString(vir.NewLit(vir.BvLit(5, 32)), 64))
	require.Equal(t, "x5", exprToString(vir.NewVar("x5", vir.Bv(64)), 64))
}

func TestOpAppToString_ComparisonsAndArith(t *testing.T) {
	x := vir.NewVar("x", vir.Bv(64))
	y := vir.NewVar("y", vir.Bv(64))
	require.Equal(t, "(x == y)", exprToString(vir.NewOpApp(vir.OpEq, x, y), 64))
	require.Equal(t, "(x <_u y)", exprToString(vir.NewOpApp(vir.OpLtUnsigned, x, y), 64))
	require.Equal(t, "(x + y)", exprToString(vir.NewOpApp(vir.OpAdd, x, y), 64))
}

func TestOpAppToString_ShiftsPutAmountFirst(t *testing.T) {
	val := vir.NewVar("val", vir.Bv(64))
	amt := vir.NewVar("amt", vir.Bv(64))
	require.Equal(t, "bv_left_shift(amt, val)", exprToString(vir.NewOpApp(vir.OpLeftShift, val, amt), 64))
	require.Equal(t, "bv_l_right_shift(amt, val)", exprToString(vir.NewOpApp(vir.OpLogicalRightShift, val, amt), 64))
	require.Equal(t, "bv_a_right_shift(amt, val)", exprToString(vir.NewOpApp(vir.OpArithRightShift, val, amt), 64))
}

func TestExtToString_SuppressedWhenWidthsMatch(t *testing.T) {
	raw := vir.NewVar("raw", vir.Bv(64))
	same := &vir.OpAppExpr{Op: vir.OpSignExt, Args: []vir.Expr{raw}, Typ: vir.Bv(64)}
	require.Equal(t, "raw", exprToString(same, 64))

	widened := &vir.OpAppExpr{Op: vir.OpSignExt, Args: []vir.Expr{vir.NewVar("b", vir.Bv(8))}, Typ: vir.Bv(64)}
	require.Equal(t, "bv_sign_extend(56, b)", exprToString(widened, 64))
}

func TestOpAppToString_ArrayIndexAndGetField(t *testing.T) {
	arr := vir.NewVar("mem_w", vir.Array([]vir.Type{vir.Bv(64)}, vir.Bv(32)))
	addr := vir.NewVar("addr", vir.Bv(64))
	require.Equal(t, "mem_w[addr]", exprToString(vir.NewOpApp(vir.OpArrayIndex, arr, addr), 64))

	st := vir.Struct("point", []vir.StructField{{Name: "x", Typ: vir.Bv(64)}}, 64)
	obj := vir.NewVar("p", st)
	require.Equal(t, "point_x(p)", exprToString(vir.NewGetField(obj, "x"), 64))
}

func TestFuncCallToString_ZeroRegisterArgRendersAsLiteral(t *testing.T) {
	call := vir.NewFuncCall("callee", nil, []vir.Expr{vir.NewVar("x0", vir.Bv(64))})
	require.Equal(t, "call callee(0bv64);", funcCallToString(call, 64))
}

func TestFuncCallToString_WithLhsWrapsInParens(t *testing.T) {
	call := vir.NewFuncCall("callee", []vir.Expr{vir.NewVar("x10", vir.Bv(64))}, nil)
	require.Equal(t, "call (x10) = callee();", funcCallToString(call, 64))
}

func TestMultiplyExpr_DecomposesIntoLeftShiftsOverSetBits(t *testing.T) {
	require.Equal(t, "bv_left_shift(2bv64, index)", multiplyExpr(4, "index", 64))
	require.Equal(t, "bv_left_shift(1bv64, index) + bv_left_shift(0bv64, index)", multiplyExpr(3, "index", 64))
}

func TestGenArrayDefn_PrimitiveEmitsIndexByMacro(t *testing.T) {
	defns := genArrayDefn(dwctx.Primitive(4), 64)
	require.Len(t, defns, 1)
	require.Contains(t, defns[0], "index_by_4")
}

func TestGenStructDefn_EmitsFieldOffsetMacro(t *testing.T) {
	fields := map[string]dwctx.StructFieldDefn{"x": {Typ: dwctx.Primitive(8), Loc: 0}, "y": {Typ: dwctx.Primitive(8), Loc: 8}}
	st := dwctx.StructType("point", fields, 16)
	defns := genStructDefn(st, 64)
	require.Contains(t, defns, "define point_x(ptr: bv64): bv64 = ptr + 0bv64;")
	require.Contains(t, defns, "define point_y(ptr: bv64): bv64 = ptr + 8bv64;")
}

func TestRestrictMacros_FiltersStructDefnsByAllowList(t *testing.T) {
	fields := map[string]dwctx.StructFieldDefn{"x": {Typ: dwctx.Primitive(8), Loc: 0}, "y": {Typ: dwctx.Primitive(8), Loc: 8}}
	st := dwctx.StructType("point", fields, 16)
	dw := dwtest.New(64).WithType("point", st)

	b := New()
	b.RestrictMacros([]string{"point_x"}, nil)
	model := vir.NewModel("m")
	out, err := b.ModelToString(64, model, dw, nil, nil)
	require.NoError(t, err)
	require.Contains(t, out, "point_x(ptr: bv64)")
	require.NotContains(t, out, "point_y(ptr: bv64)")
}

func TestModelToString_AssemblesFullModule(t *testing.T) {
	model := vir.NewModel("leaf_model")
	model.AddVar("pc", vir.Bv(64))
	model.AddVar("x5", vir.Bv(64))

	body := vir.NewBlock(
		vir.NewAssign([]vir.Expr{vir.NewVar("x5", vir.Bv(64))}, []vir.Expr{vir.NewLit(vir.BvLit(3, 64))}),
		vir.NewAssign([]vir.Expr{vir.NewVar("returned", vir.Bv(1))}, []vir.Expr{vir.NewLit(vir.BvLit(1, 1))}),
	)
	fm := vir.NewFuncModel("leaf", 0x1000, nil, nil, body)
	fm.AddModifies("x5", "pc", "returned")
	model.AddFuncModel(fm)

	dw := dwtest.New(64).WithGlobal(dwctx.Var{Name: "counter", MemoryAddr: 0x4000, TypDefn: dwctx.Primitive(8)}).
		WithFuncSig("leaf", dwctx.FuncSig{})

	out, err := New().ModelToString(64, model, dw, nil, nil)
	require.NoError(t, err)
	require.Contains(t, out, "module leaf_model {")
	require.Contains(t, out, "var pc: bv64;")
	require.Contains(t, out, "define global_var_counter(): bv64 = 16384bv64;")
	require.Contains(t, out, "define global_func_leaf(): bv64 = 4096bv64;")
	require.Contains(t, out, "procedure leaf()")
	require.Contains(t, out, "fleaf = verify(leaf);")
	require.Contains(t, out, `set_solver_option(":blast_full", true);`)
}

func TestControlBlk_ExplicitVerifyListOverridesAutoSelection(t *testing.T) {
	model := vir.NewModel("m")
	fm := vir.NewFuncModel("a", 0, nil, nil, vir.NewBlock())
	model.AddFuncModel(fm)
	dw := dwtest.New(64).WithFuncSig("a", dwctx.FuncSig{})

	out := controlBlk(model, dw, nil, []string{"only_this"})
	require.Contains(t, out, "fonly_this = verify(only_this);")
	require.NotContains(t, out, "fa = verify(a);")
}

func TestControlBlk_AutoSelectionSkipsIgnoredAndUnsignedFuncs(t *testing.T) {
	model := vir.NewModel("m")
	model.AddFuncModel(vir.NewFuncModel("has_sig", 0, nil, nil, vir.NewBlock()))
	model.AddFuncModel(vir.NewFuncModel("bb_1000", 0, nil, nil, vir.NewBlock()))
	model.AddFuncModel(vir.NewFuncModel("ignored_fn", 0, nil, nil, vir.NewBlock()))
	dw := dwtest.New(64).WithFuncSig("has_sig", dwctx.FuncSig{}).WithFuncSig("ignored_fn", dwctx.FuncSig{})

	out := controlBlk(model, dw, map[string]bool{"ignored_fn": true}, nil)
	require.Contains(t, out, "fhas_sig = verify(has_sig);")
	require.NotContains(t, out, "fbb_1000")
	require.NotContains(t, out, "fignored_fn")
}

func TestControlBlk_EmptyModelStillEmitsCheck(t *testing.T) {
	require.True(t, strings.Contains(controlBlkBody(), "check;"))
}

func controlBlkBody() string {
	model := vir.NewModel("m")
	dw := dwtest.New(64)
	return controlBlk(model, dw, nil, nil)
}
