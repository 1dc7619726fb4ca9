package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/cfg"
	"rv2model/internal/cfg/cfgtest"
	"rv2model/internal/dwctx"
	"rv2model/internal/dwctx/dwtest"
	"rv2model/internal/sir"
	"rv2model/internal/systemmodel/rv64g"
	"rv2model/internal/vir"
)

func newTestBuilder(t *testing.T, c *cfgtest.Cfg, dw dwctx.Ctx, specs map[string]*sir.FuncSpec, ignored map[string]bool, ignoreSpecs bool) (*Builder, *vir.Model) {
	t.Helper()
	model := vir.NewModel("test")
	return New(c, dw, rv64g.New(), specs, ignored, ignoreSpecs, 64, model), model
}

func TestGenFuncModel_BuildsOneInlineProcedurePerBasicBlock(t *testing.T) {
	fn := cfg.Func{
		Name:  "leaf",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: {
				Addr: 0x1000,
				Insts: []cfg.Instruction{
					{Addr: 0x1000, Mnemonic: "addi", Rd: "x5", Rs1: "zero", Imm: 3, HasImm: true, Size: 4},
				},
			},
		},
	}
	c := cfgtest.New().WithFunc(fn)
	dw := dwtest.New(64)
	b, model := newTestBuilder(t, c, dw, nil, nil, false)

	require.NoError(t, b.GenFuncModel("leaf"))

	bb, ok := model.FuncModel("bb_1000")
	require.True(t, ok)
	require.True(t, bb.Inline)
	require.Contains(t, bb.ModSet, "x5")

	top, ok := model.FuncModel("leaf")
	require.True(t, ok)
	require.Equal(t, uint64(0x1000), top.EntryAddr)
	require.Contains(t, top.ModSet, "x5")
	require.Contains(t, top.ModSet, "pc")
	require.Contains(t, top.ModSet, "returned")
}

func TestGenFuncModel_IgnoredFunctionGetsEmptyNonInlineStub(t *testing.T) {
	fn := cfg.Func{
		Name:  "skip_me",
		Entry: 0x4000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x4000: {Addr: 0x4000, Insts: []cfg.Instruction{{Addr: 0x4000, Mnemonic: "addi", Rd: "x5", Rs1: "zero", Imm: 1, HasImm: true, Size: 4}}},
		},
	}
	c := cfgtest.New().WithFunc(fn)
	dw := dwtest.New(64)
	specs := map[string]*sir.FuncSpec{
		"skip_me": {FuncName: "skip_me", Specs: []sir.Spec{sir.NewModifies("x10")}},
	}
	b, model := newTestBuilder(t, c, dw, specs, map[string]bool{"skip_me": true}, false)

	require.NoError(t, b.GenFuncModel("skip_me"))

	stub, ok := model.FuncModel("skip_me")
	require.True(t, ok)
	require.False(t, stub.Inline)
	require.Empty(t, stub.Body.Stmts)
	require.Contains(t, stub.ModSet, "x10")

	_, hasBlock := model.FuncModel("bb_4000")
	require.False(t, hasBlock, "an ignored function must not get any per-block procedures")
}

func TestGenFuncModel_CallerUnionsCalleeModifiesSet(t *testing.T) {
	callee := cfg.Func{
		Name:  "callee",
		Entry: 0x2000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x2000: {Addr: 0x2000, Insts: []cfg.Instruction{{Addr: 0x2000, Mnemonic: "addi", Rd: "x6", Rs1: "zero", Imm: 9, HasImm: true, Size: 4}}},
		},
	}
	caller := cfg.Func{
		Name:  "caller",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: {
				Addr: 0x1000,
				Insts: []cfg.Instruction{
					{Addr: 0x1000, Mnemonic: "jal", Rd: "ra", Imm: 0x1000, HasImm: true, Size: 4},
				},
				Succs: nil,
			},
		},
		Callees: []string{"callee"},
	}
	c := cfgtest.New().WithFunc(caller).WithFunc(callee)
	dw := dwtest.New(64)
	b, model := newTestBuilder(t, c, dw, nil, nil, false)

	require.NoError(t, b.GenFuncModel("caller"))

	calleeModel, ok := model.FuncModel("callee")
	require.True(t, ok)
	require.Contains(t, calleeModel.ModSet, "x6")

	callerModel, ok := model.FuncModel("caller")
	require.True(t, ok)
	require.Contains(t, callerModel.ModSet, "x6", "caller's modifies set must include its callee's")
}

func TestGenFuncModel_IgnoredCalleeModifiesSetComesFromItsSpec(t *testing.T) {
	callee := cfg.Func{
		Name:  "ignored_callee",
		Entry: 0x2000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x2000: {Addr: 0x2000, Insts: []cfg.Instruction{{Addr: 0x2000, Mnemonic: "addi", Rd: "x7", Rs1: "zero", Imm: 1, HasImm: true, Size: 4}}},
		},
	}
	caller := cfg.Func{
		Name:  "caller",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: {Addr: 0x1000, Insts: []cfg.Instruction{{Addr: 0x1000, Mnemonic: "jal", Rd: "ra", Imm: 0x1000, HasImm: true, Size: 4}}},
		},
		Callees: []string{"ignored_callee"},
	}
	c := cfgtest.New().WithFunc(caller).WithFunc(callee)
	dw := dwtest.New(64)
	specs := map[string]*sir.FuncSpec{
		"ignored_callee": {FuncName: "ignored_callee", Specs: []sir.Spec{sir.NewModifies("x20", "x21")}},
	}
	b, model := newTestBuilder(t, c, dw, specs, map[string]bool{"ignored_callee": true}, false)

	require.NoError(t, b.GenFuncModel("caller"))

	callerModel, ok := model.FuncModel("caller")
	require.True(t, ok)
	require.Contains(t, callerModel.ModSet, "x20")
	require.Contains(t, callerModel.ModSet, "x21")
	require.NotContains(t, callerModel.ModSet, "x7", "the ignored callee's real writes are opaque; only its declared spec modifies set counts")
}

func TestGenFuncModel_NoEntryAddressIsInputMissing(t *testing.T) {
	c := cfgtest.New()
	dw := dwtest.New(64)
	b, _ := newTestBuilder(t, c, dw, nil, nil, false)

	err := b.GenFuncModel("nowhere")
	require.Error(t, err)
}

func TestGenFuncModel_CycleInCFGPropagatesAsError(t *testing.T) {
	fn := cfg.Func{
		Name:  "loopy",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: {Addr: 0x1000, Insts: []cfg.Instruction{{Addr: 0x1000, Mnemonic: "addi", Rd: "x5", Rs1: "zero", Imm: 1, HasImm: true, Size: 4}}, Succs: []cfg.Address{0x1004}},
			0x1004: {Addr: 0x1004, Insts: []cfg.Instruction{{Addr: 0x1004, Mnemonic: "addi", Rd: "x6", Rs1: "zero", Imm: 1, HasImm: true, Size: 4}}, Succs: []cfg.Address{0x1000}},
		},
	}
	c := cfgtest.New().WithFunc(fn)
	dw := dwtest.New(64)
	b, _ := newTestBuilder(t, c, dw, nil, nil, false)

	err := b.GenFuncModel("loopy")
	require.Error(t, err)
}

func TestGenFuncModel_IgnoreSpecsMarksTopLevelInline(t *testing.T) {
	fn := cfg.Func{
		Name:  "f",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: {Addr: 0x1000, Insts: []cfg.Instruction{{Addr: 0x1000, Mnemonic: "addi", Rd: "x5", Rs1: "zero", Imm: 1, HasImm: true, Size: 4}}},
		},
	}
	c := cfgtest.New().WithFunc(fn)
	dw := dwtest.New(64)
	b, model := newTestBuilder(t, c, dw, nil, nil, true)

	require.NoError(t, b.GenFuncModel("f"))
	top, ok := model.FuncModel("f")
	require.True(t, ok)
	require.True(t, top.Inline)
}
