// Package cfg defines the shape of the disassembler/control-flow-graph
// collaborator: an external component, out of this core's scope, that
// turns a RISC-V binary's code section into a control-flow
// graph of basic blocks of decoded instructions. internal/instrlower
// depends only on this package's interfaces; internal/cfg/cfgtest supplies
// an in-memory fixture for tests. The Address/basic-block shape mirrors
// github.com/decomp/exp/bin, as used by golint-fixer-exp/cmd/bin2ll to
// carry disassembled x86 blocks into its own lowering pass.
package cfg

import "fmt"

// Address is an absolute memory address within the binary's address space.
type Address uint64

// String formats an address as lower-case hex with a 0x prefix.
func (a Address) String() string { return fmt.Sprintf("0x%x", uint64(a)) }

// Addresses implements sort.Interface for a slice of Address, mirroring
// bin.Addresses's role in golint-fixer-exp/cmd/bin2ll's block-ordering pass.
type Addresses []Address

func (a Addresses) Len() int           { return len(a) }
func (a Addresses) Less(i, j int) bool { return a[i] < a[j] }
func (a Addresses) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// Instruction is one decoded RISC-V instruction, the shape a disassembler
// produces once encoding has been peeled away: a mnemonic the system-model
// table (internal/systemmodel) is keyed on, the up-to-three register
// operands RISC-V's instruction formats carry (Rs1, Rs2, Rd; RVC-expanded
// instructions never need a third source), and a single immediate field
// covering every format's encoded constant (I-type offset, S/B-type
// offset, U-type constant, J-type offset, CSR uimm). Csr names the control
// and status register an instruction addresses, empty for non-CSR
// mnemonics. Raw preserves the encoded word for diagnostics.
type Instruction struct {
	Addr     Address
	Mnemonic string
	Rs1, Rs2 string
	Rd       string
	Csr      string
	Imm      int64
	HasImm   bool
	Raw      uint32
	Size     uint8 // 2 for compressed (RVC) instructions, 4 otherwise
}

// Next returns the address immediately following this instruction.
func (i Instruction) Next() Address { return i.Addr + Address(i.Size) }

// BasicBlock is a maximal straight-line run of instructions: single entry,
// single exit, no internal control flow.
type BasicBlock struct {
	Addr  Address
	Insts []Instruction
	// Succs holds the addresses of this block's control-flow successors, in
	// fallthrough-then-taken order for conditional branches (0 successors
	// for a function-terminating block, 1 for a fallthrough/unconditional
	// jump, 2 for a conditional branch).
	Succs []Address
}

// Term returns the block's last instruction, its terminator.
func (b BasicBlock) Term() Instruction {
	return b.Insts[len(b.Insts)-1]
}

// Func is a disassembled function: its entry address and the basic blocks
// reachable from it, keyed by block address.
type Func struct {
	Name    string
	Entry   Address
	Blocks  map[Address]*BasicBlock
	Callees []string // names of functions called anywhere in this function's body
}

// BlockAddrs returns the function's block addresses in ascending order,
// the order internal/builder generates the per-block procedures in (the
// guarded-dispatch body itself follows the topological order instead).
func (f Func) BlockAddrs() []Address {
	addrs := make([]Address, 0, len(f.Blocks))
	for a := range f.Blocks {
		addrs = append(addrs, a)
	}
	sortAddresses(addrs)
	return addrs
}

func sortAddresses(addrs []Address) {
	// Insertion sort: block counts per function are small (tens, not
	// thousands), and this avoids importing sort for one call site that
	// cfgtest and production adapters would otherwise each need to repeat.
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j-1] > addrs[j]; j-- {
			addrs[j-1], addrs[j] = addrs[j], addrs[j-1]
		}
	}
}

// Cfg is the disassembler/control-flow-graph collaborator interface.
type Cfg interface {
	// Funcs enumerates every function the disassembler recovered.
	Funcs() []Func

	// Func resolves one function by name.
	Func(name string) (Func, error)
}
