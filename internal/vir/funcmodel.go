package vir

import (
	"fmt"
	"sort"
)

// FuncModel is a verification procedure: a signature (name, entry address,
// formal args, optional return type, requires/ensures/tracked contract
// items, and a modifies set) plus a Block body, and an inline flag.
// SpecItem is declared as an alias here and satisfied by internal/sir's
// lowered Spec values, keeping vir free of a dependency on sir. The
// builder is the package that actually carries lowered specs into a
// FuncModel.
type SpecItem interface {
	String() string
}

// FuncModel is the VIR procedure type.
type FuncModel struct {
	Name      string
	EntryAddr uint64
	Args      []*VarExpr
	Ret       *Type // nil if void
	Requires  []SpecItem
	Ensures   []SpecItem
	Tracked   []SpecItem
	ModSet    map[string]struct{}

	Body   *BlockStmt
	Inline bool
}

// NewFuncModel constructs a FuncModel. Formal arguments are *VarExpr by
// type, so each is a variable by construction; panics if Body is nil
// ("Body must be a Block").
func NewFuncModel(name string, entryAddr uint64, args []*VarExpr, ret *Type, body *BlockStmt) *FuncModel {
	if body == nil {
		panic(fmt.Sprintf("vir: FuncModel %q body must be a Block, got nil", name))
	}
	return &FuncModel{
		Name:      name,
		EntryAddr: entryAddr,
		Args:      args,
		Ret:       ret,
		ModSet:    make(map[string]struct{}),
		Body:      body,
	}
}

// SortedModSet returns the FuncModel's modifies set as a sorted slice, the
// stable dump order the emitter and the "Determinism" testable property
// both require.
func (f *FuncModel) SortedModSet() []string {
	out := make([]string, 0, len(f.ModSet))
	for n := range f.ModSet {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// AddModifies unions names into the FuncModel's modifies set.
func (f *FuncModel) AddModifies(names ...string) {
	for _, n := range names {
		f.ModSet[n] = struct{}{}
	}
}
