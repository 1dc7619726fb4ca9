// Package rv64g supplies a concrete systemmodel.Table covering the RV64G
// base integer instruction set plus its common Zicsr extension mnemonics:
// arithmetic/logic, loads/stores, branches, jal/jalr, and CSR
// read-modify-write. It is grounded on the system-model library's
// per-mnemonic statement templates, the role
// github.com/llir/llvm/ir/constant's folding helpers play for
// golint-fixer-exp/cmd/bin2ll's own per-opcode x86 lowering functions.
package rv64g

import (
	"rv2model/internal/systemmodel"
	"rv2model/internal/vir"
)

// pcName and privName are the fixed architectural state-variable names
// every emitted model refers to.
const (
	pcName   = "pc"
	privName = "priv"
)

// Table is the RV64G system model.
type Table struct {
	fns map[string]systemmodel.MnemonicFunc
}

// New constructs the RV64G table, registering every supported mnemonic.
func New() *Table {
	t := &Table{fns: make(map[string]systemmodel.MnemonicFunc)}
	t.registerArithmetic()
	t.registerLoadsStores()
	t.registerBranches()
	t.registerJumps()
	t.registerCSR()
	return t
}

func (t *Table) Lookup(mnemonic string) (systemmodel.MnemonicFunc, bool) {
	fn, ok := t.fns[mnemonic]
	return fn, ok
}

func (t *Table) BvType(xlen uint64) vir.Type { return vir.Bv(xlen) }

func (t *Table) PCVar(xlen uint64) *vir.VarExpr { return vir.NewVar(pcName, vir.Bv(xlen)) }

func (t *Table) PrivVar(xlen uint64) *vir.VarExpr { return vir.NewVar(privName, vir.Bv(2)) }

// memVarName maps an access bit-width to its array's suffix, the naming
// convention internal/builder's memory-abstraction pass decodes in the
// other direction ("mem_b"=8, "mem_h"=16, "mem_w"=32, "mem_d"=64).
func memVarName(width uint64) string {
	switch width {
	case 8:
		return "mem_b"
	case 16:
		return "mem_h"
	case 32:
		return "mem_w"
	case 64:
		return "mem_d"
	default:
		panic("rv64g: unsupported memory access width")
	}
}

func (t *Table) memVar(xlen, width uint64) *vir.VarExpr {
	return vir.NewVar(memVarName(width), vir.Array([]vir.Type{vir.Bv(xlen)}, vir.Bv(width)))
}

func (t *Table) StateVars(xlen uint64) []*vir.VarExpr {
	return append([]*vir.VarExpr{t.PCVar(xlen), t.PrivVar(xlen)}, t.MemVars(xlen)...)
}

func (t *Table) MemVars(xlen uint64) []*vir.VarExpr {
	return []*vir.VarExpr{t.memVar(xlen, 8), t.memVar(xlen, 16), t.memVar(xlen, 32), t.memVar(xlen, 64)}
}

// binArith registers a two-source-operand arithmetic/logic op that writes
// dst = op(src0, src1), the shape shared by add/sub/and/or/xor/mul and
// their *i immediate-form siblings (instrlower resolves the immediate into
// src1 before calling the table, so register and immediate forms share one
// lowering function).
func (t *Table) binArith(mnemonics []string, op vir.Op) {
	fn := func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
		return vir.NewAssign([]vir.Expr{dst}, []vir.Expr{vir.NewOpApp(op, src0, src1)})
	}
	for _, m := range mnemonics {
		t.fns[m] = fn
	}
}

func (t *Table) registerArithmetic() {
	t.binArith([]string{"add", "addi", "addw", "addiw"}, vir.OpAdd)
	t.binArith([]string{"sub", "subw"}, vir.OpSub)
	t.binArith([]string{"and", "andi"}, vir.OpAnd)
	t.binArith([]string{"or", "ori"}, vir.OpOr)
	t.binArith([]string{"xor", "xori"}, vir.OpXor)
	t.binArith([]string{"mul", "mulw"}, vir.OpMul)
	t.binArith([]string{"sll", "slli", "sllw", "slliw"}, vir.OpLeftShift)
	t.binArith([]string{"srl", "srli", "srlw", "srliw"}, vir.OpLogicalRightShift)
	t.binArith([]string{"sra", "srai", "sraw", "sraiw"}, vir.OpArithRightShift)

	t.fns["slt"] = func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
		return cmpToBv(dst, src0, src1, vir.OpLtSigned, xlen)
	}
	t.fns["slti"] = t.fns["slt"]
	t.fns["sltu"] = func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
		return cmpToBv(dst, src0, src1, vir.OpLtUnsigned, xlen)
	}
	t.fns["sltiu"] = t.fns["sltu"]

	t.fns["lui"] = func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
		return vir.NewAssign([]vir.Expr{dst}, []vir.Expr{src0})
	}
	t.fns["auipc"] = func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
		return vir.NewAssign([]vir.Expr{dst}, []vir.Expr{vir.NewOpApp(vir.OpAdd, t.PCVar(xlen), src0)})
	}
}

// cmpToBv lowers a signed/unsigned comparison to a single-bit bv result,
// zero-extended to xlen: set<X> writes a full register, not a Bool.
func cmpToBv(dst, src0, src1 vir.Expr, op vir.Op, xlen uint64) vir.Stmt {
	cond := vir.NewOpApp(op, src0, src1)
	one := vir.NewLit(vir.BvLit(1, xlen))
	zero := vir.NewLit(vir.BvLit(0, xlen))
	then := vir.NewAssign([]vir.Expr{dst}, []vir.Expr{one})
	els := vir.NewAssign([]vir.Expr{dst}, []vir.Expr{zero})
	return vir.NewIfThenElse(cond, then, els)
}

func (t *Table) registerLoadsStores() {
	load := func(width uint64, signed bool) systemmodel.MnemonicFunc {
		return func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
			addr := vir.NewOpApp(vir.OpAdd, src0, src1)
			mem := t.memVar(xlen, width)
			raw := vir.NewOpApp(vir.OpArrayIndex, mem, addr)
			extOp := vir.OpZeroExt
			if signed {
				extOp = vir.OpSignExt
			}
			ext := vir.Expr(raw)
			if width < xlen {
				ext = &vir.OpAppExpr{Op: extOp, Args: []vir.Expr{raw}, Typ: vir.Bv(xlen)}
			}
			return vir.NewAssign([]vir.Expr{dst}, []vir.Expr{ext})
		}
	}
	t.fns["lb"] = load(8, true)
	t.fns["lh"] = load(16, true)
	t.fns["lw"] = load(32, true)
	t.fns["ld"] = load(64, true)
	t.fns["lbu"] = load(8, false)
	t.fns["lhu"] = load(16, false)
	t.fns["lwu"] = load(32, false)

	store := func(width uint64) systemmodel.MnemonicFunc {
		return func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
			addr := vir.NewOpApp(vir.OpAdd, src0, src1)
			mem := t.memVar(xlen, width)
			idx := vir.NewOpApp(vir.OpArrayIndex, mem, addr)
			value := src2
			if width < xlen {
				value = vir.NewSlice(src2, width, 0, vir.Bv(width))
			}
			return vir.NewAssign([]vir.Expr{idx}, []vir.Expr{value})
		}
	}
	t.fns["sb"] = store(8)
	t.fns["sh"] = store(16)
	t.fns["sw"] = store(32)
	t.fns["sd"] = store(64)
}

func (t *Table) registerBranches() {
	branch := func(op vir.Op) systemmodel.MnemonicFunc {
		return func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
			cond := vir.NewOpApp(op, src0, src1)
			pc := t.PCVar(xlen)
			taken := vir.NewAssign([]vir.Expr{pc}, []vir.Expr{vir.NewOpApp(vir.OpAdd, pc, src2)})
			return vir.NewIfThenElse(cond, taken, nil)
		}
	}
	t.fns["beq"] = branch(vir.OpEq)
	t.fns["bne"] = branch(vir.OpNe)
	t.fns["blt"] = branch(vir.OpLtSigned)
	t.fns["bge"] = branch(vir.OpGeSigned)
	t.fns["bltu"] = branch(vir.OpLtUnsigned)
	t.fns["bgeu"] = branch(vir.OpGeUnsigned)
}

func (t *Table) registerJumps() {
	t.fns["jal"] = func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
		pc := t.PCVar(xlen)
		link := vir.NewOpApp(vir.OpAdd, pc, vir.NewLit(vir.BvLit(4, xlen)))
		jump := vir.NewAssign([]vir.Expr{pc}, []vir.Expr{vir.NewOpApp(vir.OpAdd, pc, src0)})
		if dst == nil {
			return jump
		}
		return vir.NewBlock(vir.NewAssign([]vir.Expr{dst}, []vir.Expr{link}), jump)
	}
	t.fns["jalr"] = func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
		pc := t.PCVar(xlen)
		link := vir.NewOpApp(vir.OpAdd, pc, vir.NewLit(vir.BvLit(4, xlen)))
		target := vir.NewOpApp(vir.OpAdd, src0, src1)
		jump := vir.NewAssign([]vir.Expr{pc}, []vir.Expr{target})
		if dst == nil {
			return jump
		}
		return vir.NewBlock(vir.NewAssign([]vir.Expr{dst}, []vir.Expr{link}), jump)
	}
}

func (t *Table) registerCSR() {
	csr := func(combine func(old, src vir.Expr) vir.Expr) systemmodel.MnemonicFunc {
		return func(dst, src0, src1, src2 vir.Expr, xlen uint64) vir.Stmt {
			// dst here is the CSR variable (systemmodel's caller binds the
			// csr operand as dst: "Destinations come from rd and csr when
			// present"); src2 carries the destination register to receive
			// the CSR's prior value.
			old := dst
			newVal := combine(old, src0)
			write := vir.NewAssign([]vir.Expr{dst}, []vir.Expr{newVal})
			if src2 == nil {
				return write
			}
			read := vir.NewAssign([]vir.Expr{src2}, []vir.Expr{old})
			return vir.NewBlock(read, write)
		}
	}
	t.fns["csrrw"] = csr(func(old, src vir.Expr) vir.Expr { return src })
	t.fns["csrrwi"] = t.fns["csrrw"]
	t.fns["csrrs"] = csr(func(old, src vir.Expr) vir.Expr { return vir.NewOpApp(vir.OpOr, old, src) })
	t.fns["csrrsi"] = t.fns["csrrs"]
	t.fns["csrrc"] = csr(func(old, src vir.Expr) vir.Expr {
		return vir.NewOpApp(vir.OpAnd, old, vir.NewOpApp(vir.OpXor, src, allOnes(src.Type())))
	})
	t.fns["csrrci"] = t.fns["csrrc"]
}

// allOnes builds an all-1-bits literal of t's width, used to simulate
// bitwise-NOT via XOR since vir has no standalone Not operator for
// bit-vectors (only OpNeg, which is boolean).
func allOnes(t vir.Type) vir.Expr {
	w := t.Width()
	var val uint64
	if w >= 64 {
		val = ^uint64(0)
	} else {
		val = (uint64(1) << w) - 1
	}
	return vir.NewLit(vir.BvLit(val, w))
}

var _ systemmodel.Table = (*Table)(nil)
