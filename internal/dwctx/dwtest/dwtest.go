// Package dwtest supplies an in-memory dwctx.Ctx fixture for tests that
// need a DWARF context without reading a real ELF binary.
package dwtest

import (
	"rv2model/internal/dwctx"
	"rv2model/internal/rverrors"
)

// Ctx is a small, builder-populated dwctx.Ctx.
type Ctx struct {
	xlen     uint64
	globals  map[string]dwctx.Var
	funcSigs map[string]dwctx.FuncSig
	types    map[string]dwctx.TypeDefn
}

// New constructs an empty fixture for the given XLEN.
func New(xlen uint64) *Ctx {
	return &Ctx{
		xlen:     xlen,
		globals:  make(map[string]dwctx.Var),
		funcSigs: make(map[string]dwctx.FuncSig),
		types:    make(map[string]dwctx.TypeDefn),
	}
}

// WithGlobal registers a global variable and returns the fixture for
// chaining.
func (c *Ctx) WithGlobal(v dwctx.Var) *Ctx {
	c.globals[v.Name] = v
	return c
}

// WithFuncSig registers a function signature and returns the fixture for
// chaining.
func (c *Ctx) WithFuncSig(name string, sig dwctx.FuncSig) *Ctx {
	c.funcSigs[name] = sig
	return c
}

// WithType registers a named type definition and returns the fixture for
// chaining.
func (c *Ctx) WithType(name string, t dwctx.TypeDefn) *Ctx {
	c.types[name] = t
	return c
}

func (c *Ctx) Xlen() uint64 { return c.xlen }

func (c *Ctx) GlobalVar(name string) (dwctx.Var, error) {
	v, ok := c.globals[name]
	if !ok {
		return dwctx.Var{}, rverrors.Wrap(rverrors.DwarfResolution, "no global variable named %q", name)
	}
	return v, nil
}

func (c *Ctx) GlobalVarType(name string) (dwctx.TypeDefn, error) {
	v, err := c.GlobalVar(name)
	if err != nil {
		return dwctx.TypeDefn{}, err
	}
	return v.TypDefn, nil
}

func (c *Ctx) GlobalVars() []dwctx.Var {
	out := make([]dwctx.Var, 0, len(c.globals))
	for _, v := range c.globals {
		out = append(out, v)
	}
	return out
}

func (c *Ctx) FuncSigs() map[string]dwctx.FuncSig { return c.funcSigs }

func (c *Ctx) FuncSig(name string) (dwctx.FuncSig, error) {
	s, ok := c.funcSigs[name]
	if !ok {
		return dwctx.FuncSig{}, rverrors.Wrap(rverrors.DwarfResolution, "no function signature for %q", name)
	}
	return s, nil
}

func (c *Ctx) TypMap() map[string]dwctx.TypeDefn { return c.types }
