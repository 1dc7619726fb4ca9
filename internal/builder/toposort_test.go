package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/cfg"
	"rv2model/internal/rverrors"
)

func block(addr cfg.Address, succs ...cfg.Address) *cfg.BasicBlock {
	return &cfg.BasicBlock{
		Addr:  addr,
		Insts: []cfg.Instruction{{Addr: addr, Mnemonic: "nop", Size: 4}},
		Succs: succs,
	}
}

func TestTopoSort_OrdersDiamondWithPredecessorsFirst(t *testing.T) {
	fn := cfg.Func{
		Name:  "f",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: block(0x1000, 0x1004, 0x1008),
			0x1004: block(0x1004, 0x100c),
			0x1008: block(0x1008, 0x100c),
			0x100c: block(0x100c),
		},
	}
	order, err := topoSort(fn, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []cfg.Address{0x1000, 0x1004, 0x1008, 0x100c}, order)
}

func TestTopoSort_DetectsCycle(t *testing.T) {
	fn := cfg.Func{
		Name:  "f",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: block(0x1000, 0x1004),
			0x1004: block(0x1004, 0x1000),
		},
	}
	_, err := topoSort(fn, nil, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, rverrors.CycleInCFG)
}

func TestTopoSort_PrunesInterFunctionAndIgnoredEdges(t *testing.T) {
	fn := cfg.Func{
		Name:  "f",
		Entry: 0x1000,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x1000: block(0x1000, 0x2000, 0x3000),
		},
	}
	other := map[cfg.Address]bool{0x2000: true}
	ignored := map[cfg.Address]bool{0x3000: true}
	order, err := topoSort(fn, other, ignored)
	require.NoError(t, err)
	require.Equal(t, []cfg.Address{0x1000}, order)
}
