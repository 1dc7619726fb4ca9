package vir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/vir"
)

func TestBv_PanicsOnZeroWidth(t *testing.T) {
	require.Panics(t, func() { vir.Bv(0) })
}

func TestBvLit_PanicsWhenValueDoesNotFit(t *testing.T) {
	require.Panics(t, func() { vir.BvLit(256, 8) })
	require.NotPanics(t, func() { vir.BvLit(255, 8) })
}

func TestStruct_FieldsAreSortedByName(t *testing.T) {
	s := vir.Struct("point", []vir.StructField{
		{Name: "y", Typ: vir.Bv(32)},
		{Name: "x", Typ: vir.Bv(32)},
	}, 64)
	fields := s.StructFields()
	require.Len(t, fields, 2)
	require.Equal(t, "x", fields[0].Name)
	require.Equal(t, "y", fields[1].Name)
}

func TestNewOpApp_ComparisonYieldsBool(t *testing.T) {
	a := vir.NewLit(vir.BvLit(1, 32))
	b := vir.NewLit(vir.BvLit(2, 32))
	eq := vir.NewOpApp(vir.OpEq, a, b)
	require.Equal(t, vir.KindBool, eq.Type().Kind())
}

func TestNewOpApp_ArithmeticYieldsOperand0Type(t *testing.T) {
	a := vir.NewLit(vir.BvLit(1, 32))
	b := vir.NewLit(vir.BvLit(2, 32))
	add := vir.NewOpApp(vir.OpAdd, a, b)
	require.True(t, add.Type().Equal(vir.Bv(32)))
}

func TestNewOpApp_ArrayIndexYieldsElementType(t *testing.T) {
	arrTy := vir.Array([]vir.Type{vir.Bv(64)}, vir.Bv(32))
	arr := vir.NewVar("mem_w", arrTy)
	idx := vir.NewLit(vir.BvLit(4, 64))
	ai := vir.NewOpApp(vir.OpArrayIndex, arr, idx)
	require.True(t, ai.Type().Equal(vir.Bv(32)))
}

func TestNewGetField_ResolvesFieldType(t *testing.T) {
	s := vir.Struct("point", []vir.StructField{
		{Name: "x", Typ: vir.Bv(32)},
	}, 32)
	obj := vir.NewVar("p", s)
	gf := vir.NewGetField(obj, "x")
	require.True(t, gf.Type().Equal(vir.Bv(32)))
	require.Panics(t, func() { vir.NewGetField(obj, "z") })
}

func TestNewAssign_RequiresMatchingArity(t *testing.T) {
	v := vir.NewVar("a0", vir.Bv(64))
	lit := vir.NewLit(vir.BvLit(1, 64))
	require.NotPanics(t, func() { vir.NewAssign([]vir.Expr{v}, []vir.Expr{lit}) })
	require.Panics(t, func() { vir.NewAssign([]vir.Expr{v}, []vir.Expr{lit, lit}) })
}

func TestNewAssign_RequiresAssignableLhs(t *testing.T) {
	lit := vir.NewLit(vir.BvLit(1, 64))
	require.Panics(t, func() { vir.NewAssign([]vir.Expr{lit}, []vir.Expr{lit}) })
}

func TestAssignBase_ReturnsVarNameForArrayIndex(t *testing.T) {
	arrTy := vir.Array([]vir.Type{vir.Bv(64)}, vir.Bv(32))
	arr := vir.NewVar("mem_w", arrTy)
	idx := vir.NewLit(vir.BvLit(8, 64))
	ai := vir.NewOpApp(vir.OpArrayIndex, arr, idx)
	require.Equal(t, "mem_w", vir.AssignBase(ai))
}

func TestModel_AddFuncModelFirstWins(t *testing.T) {
	m := vir.NewModel("mod")
	body := vir.NewBlock()
	fm1 := vir.NewFuncModel("f", 0x100, nil, nil, body)
	fm2 := vir.NewFuncModel("f", 0x200, nil, nil, body)
	m.AddFuncModel(fm1)
	m.AddFuncModel(fm2)
	got, ok := m.FuncModel("f")
	require.True(t, ok)
	require.Equal(t, uint64(0x100), got.EntryAddr)
	require.Len(t, m.FuncModels(), 1)
}

func TestModel_VarsSortedByName(t *testing.T) {
	m := vir.NewModel("mod")
	m.AddVar("pc", vir.Bv(64))
	m.AddVar("a0", vir.Bv(64))
	vars := m.Vars()
	require.Len(t, vars, 2)
	require.Equal(t, "a0", vars[0].Name)
	require.Equal(t, "pc", vars[1].Name)
}

func TestModel_AddVarConflictingTypePanics(t *testing.T) {
	m := vir.NewModel("mod")
	m.AddVar("a0", vir.Bv(64))
	require.Panics(t, func() { m.AddVar("a0", vir.Bv(32)) })
}
