package vir

import "sort"

// Model is the top-level verification module: a flat variable set plus the
// sequence of generated FuncModels. A Model owns its FuncModels
// exclusively.
type Model struct {
	Name       string
	vars       map[string]*VarExpr
	funcModels []*FuncModel
	funcByName map[string]int // index into funcModels, for the first-wins dedup rule
}

// NewModel constructs an empty Model.
func NewModel(name string) *Model {
	return &Model{
		Name:       name,
		vars:       make(map[string]*VarExpr),
		funcByName: make(map[string]int),
	}
}

// AddVar registers a state variable in the Model. Re-adding a variable with
// the same name and type is a no-op; re-adding with a conflicting type
// panics, since that can only indicate a builder bug (two different
// mnemonics disagreeing on a register's width, say).
func (m *Model) AddVar(name string, typ Type) *VarExpr {
	if existing, ok := m.vars[name]; ok {
		if !existing.Typ.Equal(typ) {
			panic("vir: variable " + name + " re-declared with a conflicting type")
		}
		return existing
	}
	v := NewVar(name, typ)
	m.vars[name] = v
	return v
}

// Vars returns the Model's variables sorted by name, the deterministic
// emission order the "Determinism" property requires.
func (m *Model) Vars() []*VarExpr {
	names := make([]string, 0, len(m.vars))
	for n := range m.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*VarExpr, len(names))
	for i, n := range names {
		out[i] = m.vars[n]
	}
	return out
}

// AddFuncModel appends fm to the Model. A FuncModel with a duplicate name is
// a no-op: first-wins.
func (m *Model) AddFuncModel(fm *FuncModel) {
	if _, exists := m.funcByName[fm.Name]; exists {
		return
	}
	m.funcByName[fm.Name] = len(m.funcModels)
	m.funcModels = append(m.funcModels, fm)
}

// FuncModels returns the Model's procedures in insertion order.
func (m *Model) FuncModels() []*FuncModel {
	return m.funcModels
}

// FuncModel looks up a procedure by name.
func (m *Model) FuncModel(name string) (*FuncModel, bool) {
	i, ok := m.funcByName[name]
	if !ok {
		return nil, false
	}
	return m.funcModels[i], true
}
