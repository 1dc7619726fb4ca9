package cfg_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/cfg"
)

func TestAddresses_SortInterfaceOrdersAscending(t *testing.T) {
	addrs := cfg.Addresses{0x2000, 0x1000, 0x1800}
	sort.Sort(addrs)
	require.Equal(t, cfg.Addresses{0x1000, 0x1800, 0x2000}, addrs)
}

func TestInstruction_NextAddsSize(t *testing.T) {
	i := cfg.Instruction{Addr: 0x1000, Size: 4}
	require.Equal(t, cfg.Address(0x1004), i.Next())

	c := cfg.Instruction{Addr: 0x2000, Size: 2}
	require.Equal(t, cfg.Address(0x2002), c.Next())
}

func TestBasicBlock_TermReturnsLastInstruction(t *testing.T) {
	b := cfg.BasicBlock{
		Insts: []cfg.Instruction{
			{Mnemonic: "addi"},
			{Mnemonic: "beq"},
		},
	}
	require.Equal(t, "beq", b.Term().Mnemonic)
}

func TestFunc_BlockAddrsSortedAscending(t *testing.T) {
	f := cfg.Func{
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			0x3000: {Addr: 0x3000},
			0x1000: {Addr: 0x1000},
			0x2000: {Addr: 0x2000},
		},
	}
	require.Equal(t, []cfg.Address{0x1000, 0x2000, 0x3000}, f.BlockAddrs())
}
