package lowering_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/dwctx"
	"rv2model/internal/dwctx/dwtest"
	"rv2model/internal/lowering"
	"rv2model/internal/sir"
)

func TestTypeInfer_ResolvesSystemIdentAndRegister(t *testing.T) {
	dw := dwtest.New(64)
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs: []sir.Spec{
			sir.NewEnsures(sir.NewCOpApp(sir.CompEq, sir.NewIdent("pc", sir.VUnknown), sir.NewIdent("a0", sir.VUnknown))),
		},
	}
	out, err := lowering.RunTypeInfer(dw, "f", fs)
	require.NoError(t, err)
	cmp := out.Ensures()[0].Cond.(*sir.COpAppExpr)
	require.Equal(t, sir.VBv(64), cmp.Args[0].Type())
	require.Equal(t, sir.VBv(64), cmp.Args[1].Type())
}

func TestTypeInfer_WrapsGlobalPrimitiveInDeref(t *testing.T) {
	dw := dwtest.New(64).WithGlobal(dwctx.Var{Name: "g", MemoryAddr: 0x1000, TypDefn: dwctx.Primitive(4)})
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs:    []sir.Spec{sir.NewRequires(sir.NewCOpApp(sir.CompEq, sir.NewIdent("g", sir.VUnknown), sir.NewInt(0)))},
	}
	out, err := lowering.RunTypeInfer(dw, "f", fs)
	require.NoError(t, err)
	cmp := out.Requires()[0].Cond.(*sir.COpAppExpr)
	deref, ok := cmp.Args[0].(*sir.VOpAppExpr)
	require.True(t, ok)
	require.Equal(t, sir.VOpDeref, deref.Op)
	require.Equal(t, sir.VBv(32), deref.Typ)
	ident := deref.Args[0].(*sir.IdentExpr)
	require.Equal(t, "g", ident.Name)
}

func TestTypeInfer_IdempotentOnOwnOutput(t *testing.T) {
	dw := dwtest.New(64).WithGlobal(dwctx.Var{Name: "g", MemoryAddr: 0x1000, TypDefn: dwctx.Primitive(4)})
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs:    []sir.Spec{sir.NewEnsures(sir.NewCOpApp(sir.CompEq, sir.NewIdent("g", sir.VUnknown), sir.NewInt(0)))},
	}
	once, err := lowering.RunTypeInfer(dw, "f", fs)
	require.NoError(t, err)
	twice, err := lowering.RunTypeInfer(dw, "f", once)
	require.NoError(t, err)
	require.Equal(t, once.Ensures()[0].Cond.String(), twice.Ensures()[0].Cond.String())
}

// TestTypeInfer_ExtWidthMatchesSourceBehavior pins DESIGN.md Open Question
// 3: sext/uext's result width is args[1].width + args[0].literal_value, not
// the more natural args[1].width + literal-amount-named-something-else.
func TestTypeInfer_ExtWidthMatchesSourceBehavior(t *testing.T) {
	dw := dwtest.New(64)
	call := sir.NewFuncApp("sext", sir.VUnknown, sir.NewInt(8), sir.NewIdent("a0", sir.VUnknown))
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs:    []sir.Spec{sir.NewTrack("t", call)},
	}
	out, err := lowering.RunTypeInfer(dw, "f", fs)
	require.NoError(t, err)
	tracked := out.Tracked()[0].Expr.(*sir.FuncAppExpr)
	require.Equal(t, sir.VBv(64+8), tracked.Typ)
}

func TestResolveGlobals_ReplacesGlobalIdentWithAddress(t *testing.T) {
	dw := dwtest.New(64).WithGlobal(dwctx.Var{Name: "g", MemoryAddr: 0x2000, TypDefn: dwctx.Primitive(4)})
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs:    []sir.Spec{sir.NewEnsures(sir.NewCOpApp(sir.CompEq, sir.NewIdent("g", sir.VBv(32)), sir.NewInt(0)))},
	}
	out := lowering.RunResolveGlobals(dw, fs)
	cmp := out.Ensures()[0].Cond.(*sir.COpAppExpr)
	bv, ok := cmp.Args[0].(*sir.BvExpr)
	require.True(t, ok)
	require.Equal(t, uint64(0x2000), bv.Value)
}

func TestConstFold_FoldsAddOfLiterals(t *testing.T) {
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs: []sir.Spec{
			sir.NewTrack("sum", sir.NewVOpApp(sir.VOpAdd, sir.VBv(32), sir.NewBv(2, sir.VBv(32)), sir.NewBv(3, sir.VBv(32)))),
		},
	}
	out := lowering.RunConstFold(fs)
	bv := out.Tracked()[0].Expr.(*sir.BvExpr)
	require.Equal(t, uint64(5), bv.Value)
}

// TestConstFold_SliceWidthMatchesSourceBehavior pins DESIGN.md Open
// Question 1.
func TestConstFold_SliceWidthMatchesSourceBehavior(t *testing.T) {
	slice := sir.NewSliceV(sir.NewBv(0xff, sir.VBv(32)), 8, 0, sir.VBv(8))
	fs := &sir.FuncSpec{FuncName: "f", Specs: []sir.Spec{sir.NewTrack("s", slice)}}
	out := lowering.RunConstFold(fs)
	bv := out.Tracked()[0].Expr.(*sir.BvExpr)
	require.Equal(t, sir.VBv(32+8), bv.Typ)
}

// TestLowering_GlobalPrimitiveDerefEndToEnd is spec.md §8's seed test 2:
// type inference wraps a primitive global in Deref, global-resolution turns
// the inner Ident into its address, and constant folding collapses the
// Deref into a canonical mem_access_<addr> identifier.
func TestLowering_GlobalPrimitiveDerefEndToEnd(t *testing.T) {
	dw := dwtest.New(64).WithGlobal(dwctx.Var{Name: "g", MemoryAddr: 0x1000, TypDefn: dwctx.Primitive(4)})
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs:    []sir.Spec{sir.NewEnsures(sir.NewCOpApp(sir.CompEq, sir.NewIdent("g", sir.VUnknown), sir.NewInt(0)))},
	}
	fs, err := lowering.RunTypeInfer(dw, "f", fs)
	require.NoError(t, err)
	fs = lowering.RunResolveGlobals(dw, fs)
	fs = lowering.RunConstFold(fs)

	cmp := fs.Ensures()[0].Cond.(*sir.COpAppExpr)
	ident, ok := cmp.Args[0].(*sir.IdentExpr)
	require.True(t, ok)
	require.Equal(t, "mem_access_4096", ident.Name)
	require.Equal(t, sir.VBv(32), ident.Typ)
}

// TestLowering_ArrayIndexEndToEnd is spec.md §8's seed test 3.
func TestLowering_ArrayIndexEndToEnd(t *testing.T) {
	arrType := dwctx.ArrayType(dwctx.Primitive(8), dwctx.Primitive(4), 64)
	dw := dwtest.New(64).WithGlobal(dwctx.Var{Name: "arr", MemoryAddr: 0x2000, TypDefn: arrType})
	idx := sir.NewVOpApp(sir.VOpArrayIndex, sir.VUnknown, sir.NewIdent("arr", sir.VUnknown), sir.NewInt(3))
	fs := &sir.FuncSpec{FuncName: "f", Specs: []sir.Spec{sir.NewTrack("t", idx)}}

	fs, err := lowering.RunTypeInfer(dw, "f", fs)
	require.NoError(t, err)
	fs = lowering.RunResolveGlobals(dw, fs)
	fs = lowering.RunConstFold(fs)

	ident, ok := fs.Tracked()[0].Expr.(*sir.IdentExpr)
	require.True(t, ok)
	require.Equal(t, "mem_access_8204", ident.Name)
}
