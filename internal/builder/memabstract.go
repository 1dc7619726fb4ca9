package builder

import (
	"fmt"

	"rv2model/internal/rewrite"
	"rv2model/internal/vir"
)

// memAbstractCtx accumulates the fresh scalar variables this pass mints,
// keyed by name, so the caller can register them in the Model.
type memAbstractCtx struct {
	NewVars map[string]uint64 // name -> bit width
}

// memAbstract implements constant-address memory abstraction: every
// ArrayIndex on one of the width-keyed memory arrays
// (mem_b/mem_h/mem_w/mem_d, see internal/systemmodel/rv64g) whose index is
// a literal after constant propagation becomes a fresh scalar Var named
// mem_access_<addr>, typed at the width its array name suffix encodes.
// Non-literal indices, and ArrayIndex on any other array, are left alone.
type memAbstract struct {
	rewrite.DefaultExprFolder[*memAbstractCtx]
	rewrite.DefaultStmtFolder[*memAbstractCtx]
}

func newMemAbstract() *memAbstract {
	m := &memAbstract{}
	m.DefaultExprFolder.Self = m
	m.DefaultStmtFolder.Self = m
	m.DefaultStmtFolder.ESelf = m
	return m
}

// runMemAbstract runs the pass over one basic block's const-propagated
// body, returning the rewritten body and the set of fresh variables it
// introduced.
func runMemAbstract(body *vir.BlockStmt) (*vir.BlockStmt, map[string]uint64) {
	m := newMemAbstract()
	ctx := &memAbstractCtx{NewVars: map[string]uint64{}}
	out := rewrite.FoldStmt[*memAbstractCtx](m, body, ctx).(*vir.BlockStmt)
	return out, ctx.NewVars
}

func (m *memAbstract) FoldOpApp(e *vir.OpAppExpr, ctx *memAbstractCtx) vir.Expr {
	folded := m.DefaultExprFolder.FoldOpApp(e, ctx).(*vir.OpAppExpr)
	if folded.Op != vir.OpArrayIndex {
		return folded
	}
	base, ok := folded.Args[0].(*vir.VarExpr)
	if !ok {
		return folded
	}
	width, ok := memArrayWidth(base.Name)
	if !ok {
		return folded
	}
	addr, ok := virLitUint(folded.Args[1])
	if !ok {
		return folded
	}
	name := fmt.Sprintf("mem_access_%d", addr)
	ctx.NewVars[name] = width
	return vir.NewVar(name, vir.Bv(width))
}

// memArrayWidth decodes the bit width a memory array's name suffix
// encodes. Any other array name (a struct/array state variable unrelated
// to memory) is reported as not-recognized.
func memArrayWidth(name string) (uint64, bool) {
	switch name {
	case "mem_b":
		return 8, true
	case "mem_h":
		return 16, true
	case "mem_w":
		return 32, true
	case "mem_d":
		return 64, true
	default:
		return 0, false
	}
}
