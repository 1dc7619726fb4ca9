// Package cfgtest supplies an in-memory cfg.Cfg fixture for tests that need
// a control-flow graph without a real disassembler.
package cfgtest

import (
	"sort"

	"rv2model/internal/cfg"
	"rv2model/internal/rverrors"
)

// Cfg is a builder-populated cfg.Cfg fixture.
type Cfg struct {
	funcs map[string]cfg.Func
}

// New constructs an empty fixture.
func New() *Cfg {
	return &Cfg{funcs: make(map[string]cfg.Func)}
}

// WithFunc registers a function and returns the fixture for chaining.
func (c *Cfg) WithFunc(f cfg.Func) *Cfg {
	c.funcs[f.Name] = f
	return c
}

func (c *Cfg) Funcs() []cfg.Func {
	out := make([]cfg.Func, 0, len(c.funcs))
	for _, f := range c.funcs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Cfg) Func(name string) (cfg.Func, error) {
	f, ok := c.funcs[name]
	if !ok {
		return cfg.Func{}, rverrors.Wrap(rverrors.InputMissing, "no function named %q in control-flow graph", name)
	}
	return f, nil
}

// LinearFunc builds a single-basic-block function from a straight-line
// instruction sequence, the common case test passes exercise: no branches,
// one entry, one (implicit) exit.
func LinearFunc(name string, entry cfg.Address, insts ...cfg.Instruction) cfg.Func {
	return cfg.Func{
		Name:  name,
		Entry: entry,
		Blocks: map[cfg.Address]*cfg.BasicBlock{
			entry: {Addr: entry, Insts: insts},
		},
	}
}
