// Package systemmodel defines the shape of the "system model" library: an
// external component, out of this core's scope, mapping each supported
// RISC-V mnemonic to a VIR statement template. internal/
// instrlower depends only on the Table interface; internal/systemmodel/
// rv64g supplies one concrete table covering the RV64G base and its common
// extensions.
package systemmodel

import "rv2model/internal/vir"

// MnemonicFunc lowers one instance of a mnemonic to a VIR statement, given
// its destination and up-to-three source operands (registers substituted
// per instrlower's reading convention, zero register folded to a literal
// zero) plus the target XLEN. dst may be nil for mnemonics with no
// register destination (branches, stores, fences).
type MnemonicFunc func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt

// Table is the system-model collaborator interface.
type Table interface {
	// Lookup resolves a mnemonic's lowering function. ok is false for any
	// mnemonic the table does not model; instrlower lowers those to
	// UnimplementedInst instead of failing the whole translation
	// (UnsupportedInstruction is non-fatal).
	Lookup(mnemonic string) (fn MnemonicFunc, ok bool)

	// StateVars returns the fixed architectural state variables the
	// table's mnemonics reference (pc, privilege, memory), for
	// registration into the Model before any block is translated.
	// General-purpose registers are not part of this list.
	StateVars(xlen uint64) []*vir.VarExpr

	// PCVar returns the program-counter state variable.
	PCVar(xlen uint64) *vir.VarExpr

	// PrivVar returns the privilege-level state variable.
	PrivVar(xlen uint64) *vir.VarExpr

	// MemVars returns the four width-keyed memory state variables
	// (mem_b/mem_h/mem_w/mem_d, 8/16/32/64-bit element types respectively),
	// each an Array{in_typs: [Bv{xlen}], out_typ: Bv{width}}. The name
	// suffix is what internal/builder's constant-address memory
	// abstraction pass reads to recover an access's bit width, so the
	// suffixes themselves are part of this interface's contract, not an
	// implementation detail of one concrete table.
	MemVars(xlen uint64) []*vir.VarExpr

	// BvType returns the register-width bit-vector type for xlen.
	BvType(xlen uint64) vir.Type
}

// UnimplementedInst is the statement every table-miss lowers to: an
// always-false assumption the verifier backend flags if control ever
// reaches it (UnsupportedInstruction).
func UnimplementedInst(mnemonic string) vir.Stmt {
	return vir.NewBlock(
		vir.NewComment("unimplemented instruction: "+mnemonic),
		vir.NewAssume(vir.NewLit(vir.BoolLit(false))),
	)
}
