// Package instrlower maps one decoded RISC-V instruction (internal/cfg) to
// one VIR statement (internal/vir), consulting a pluggable system-model
// table (internal/systemmodel) for the per-mnemonic semantics. It owns no
// instruction semantics itself: its only job is building the up-to-three
// operand expressions a system-model function expects from an
// Instruction's registers and immediate field, the zero register folding
// to a literal zero rather than a variable reference.
package instrlower

import (
	"rv2model/internal/cfg"
	"rv2model/internal/systemmodel"
	"rv2model/internal/vir"
)

// zeroReg is every spelling a disassembler might use for the architectural
// zero register. A read of it always folds to a literal zero; a write to
// it is left as an ordinary Var assignment. This is harmless, since every
// read of the zero register bypasses that Var entirely.
var zeroReg = map[string]bool{"": true, "x0": true, "zero": true}

// regExpr resolves a register name to a VIR expression: a literal zero for
// the zero register, a Var reference otherwise.
func regExpr(name string, xlen uint64) vir.Expr {
	if zeroReg[name] {
		return vir.NewLit(vir.BvLit(0, xlen))
	}
	return vir.NewVar(name, vir.Bv(xlen))
}

// immExpr builds the literal VIR expression for an instruction's encoded
// immediate, two's-complement truncated to xlen bits (a signed RISC-V
// immediate and its xlen-wide unsigned bit pattern are the same value as
// far as BvLit's fixed-width storage is concerned).
func immExpr(imm int64, xlen uint64) vir.Expr {
	return vir.NewLit(vir.BvLit(uint64(imm), xlen))
}

// csrVar builds the state variable an instruction's CSR field addresses.
// Every CSR referenced anywhere in a translated binary becomes its own
// named xlen-wide state variable, the same treatment general-purpose
// registers get.
func csrVar(name string, xlen uint64) vir.Expr {
	return vir.NewVar("csr_"+name, vir.Bv(xlen))
}

// format classifies a mnemonic by where its operands come from, mirroring
// the RISC-V instruction-format table: which of Rs1/Rs2/Imm/Rd/Csr the
// mnemonic actually reads, and in what order the system-model function
// wants them as (dst, src0, src1, src2).
type format int

const (
	fmtRegReg   format = iota // dst = op(rs1, rs2)
	fmtRegImm                 // dst = op(rs1, imm)
	fmtImmOnly                // dst = op(imm)                     (lui, auipc)
	fmtLoad                   // dst = op(rs1/*base*/, imm/*off*/)
	fmtStore                  // op(rs1/*base*/, imm/*off*/, rs2/*value*/)
	fmtBranch                 // op(rs1, rs2, imm/*offset*/)
	fmtJal                    // dst = op(imm/*offset*/)
	fmtJalr                   // dst = op(rs1/*base*/, imm/*offset*/)
	fmtCsrReg                 // dst=csr: op(rs1, _, rd)
	fmtCsrImm                 // dst=csr: op(imm, _, rd)
)

var formats = buildFormats()

func buildFormats() map[string]format {
	m := make(map[string]format)
	set := func(f format, names ...string) {
		for _, n := range names {
			m[n] = f
		}
	}
	set(fmtRegReg,
		"add", "sub", "and", "or", "xor", "mul", "sll", "srl", "sra",
		"addw", "subw", "mulw", "sllw", "srlw", "sraw",
		"slt", "sltu")
	set(fmtRegImm,
		"addi", "andi", "ori", "xori", "slli", "srli", "srai",
		"addiw", "slliw", "srliw", "sraiw",
		"slti", "sltiu")
	set(fmtImmOnly, "lui", "auipc")
	set(fmtLoad, "lb", "lh", "lw", "ld", "lbu", "lhu", "lwu")
	set(fmtStore, "sb", "sh", "sw", "sd")
	set(fmtBranch, "beq", "bne", "blt", "bge", "bltu", "bgeu")
	set(fmtJal, "jal")
	set(fmtJalr, "jalr")
	set(fmtCsrReg, "csrrw", "csrrs", "csrrc")
	set(fmtCsrImm, "csrrwi", "csrrsi", "csrrci")
	return m
}

// Lower maps one instruction to its VIR statement. A mnemonic the format
// table or the system-model table does not recognize lowers to
// systemmodel.UnimplementedInst rather than failing the whole translation
// (UnsupportedInstruction is non-fatal).
func Lower(inst cfg.Instruction, table systemmodel.Table, xlen uint64) vir.Stmt {
	fn, ok := table.Lookup(inst.Mnemonic)
	if !ok {
		return systemmodel.UnimplementedInst(inst.Mnemonic)
	}
	f, ok := formats[inst.Mnemonic]
	if !ok {
		return systemmodel.UnimplementedInst(inst.Mnemonic)
	}

	var dst, src0, src1, src2 vir.Expr
	switch f {
	case fmtRegReg:
		dst, src0, src1 = dstReg(inst, xlen), regExpr(inst.Rs1, xlen), regExpr(inst.Rs2, xlen)
	case fmtRegImm:
		dst, src0, src1 = dstReg(inst, xlen), regExpr(inst.Rs1, xlen), immExpr(inst.Imm, xlen)
	case fmtImmOnly:
		dst, src0 = dstReg(inst, xlen), immExpr(inst.Imm, xlen)
	case fmtLoad:
		dst, src0, src1 = dstReg(inst, xlen), regExpr(inst.Rs1, xlen), immExpr(inst.Imm, xlen)
	case fmtStore:
		src0, src1, src2 = regExpr(inst.Rs1, xlen), immExpr(inst.Imm, xlen), regExpr(inst.Rs2, xlen)
	case fmtBranch:
		src0, src1, src2 = regExpr(inst.Rs1, xlen), regExpr(inst.Rs2, xlen), immExpr(inst.Imm, xlen)
	case fmtJal:
		dst, src0 = dstReg(inst, xlen), immExpr(inst.Imm, xlen)
	case fmtJalr:
		dst, src0, src1 = dstReg(inst, xlen), regExpr(inst.Rs1, xlen), immExpr(inst.Imm, xlen)
	case fmtCsrReg:
		dst, src0, src2 = csrVar(inst.Csr, xlen), regExpr(inst.Rs1, xlen), dstReg(inst, xlen)
	case fmtCsrImm:
		dst, src0, src2 = csrVar(inst.Csr, xlen), immExpr(inst.Imm, xlen), dstReg(inst, xlen)
	}
	return fn(dst, src0, src1, src2, xlen)
}

// dstReg resolves an instruction's destination register, nil only when the
// format carries no rd field at all (stores, branches: rv64g's mnemonic
// functions for those never reference dst). A write to the zero register
// still produces an ordinary Var: vir.NewAssign requires an assignable LHS,
// and the write is inert anyway since every *read* of the zero register
// bypasses this Var via regExpr's literal-zero substitution.
func dstReg(inst cfg.Instruction, xlen uint64) vir.Expr {
	if inst.Rd == "" {
		return nil
	}
	return vir.NewVar(inst.Rd, vir.Bv(xlen))
}
