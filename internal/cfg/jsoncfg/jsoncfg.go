// Package jsoncfg loads a cfg.Cfg from a JSON document produced by an
// external disassembler, since the real RISC-V disassembler/CFG recovery
// tool is out of this module's scope (the collaborator is specified only
// by interface). The JSON shape mirrors internal/cfg's exported types
// field for field, the same "read a sidecar data file a separate tool
// produced" pattern scripts/validate_manifest.go uses for its manifest.json.
package jsoncfg

import (
	"encoding/json"
	"os"
	"sort"

	"rv2model/internal/cfg"
	"rv2model/internal/rverrors"
)

// doc is the on-disk JSON shape: a list of functions, each a list of basic
// blocks, each a list of instructions, the same nesting as cfg.Func /
// cfg.BasicBlock / cfg.Instruction.
type doc struct {
	Funcs []funcDoc `json:"funcs"`
}

type funcDoc struct {
	Name    string     `json:"name"`
	Entry   uint64     `json:"entry"`
	Blocks  []blockDoc `json:"blocks"`
	Callees []string   `json:"callees"`
}

type blockDoc struct {
	Addr  uint64    `json:"addr"`
	Insts []instDoc `json:"insts"`
	Succs []uint64  `json:"succs"`
}

type instDoc struct {
	Addr     uint64 `json:"addr"`
	Mnemonic string `json:"mnemonic"`
	Rs1      string `json:"rs1"`
	Rs2      string `json:"rs2"`
	Rd       string `json:"rd"`
	Csr      string `json:"csr"`
	Imm      int64  `json:"imm"`
	HasImm   bool   `json:"has_imm"`
	Raw      uint32 `json:"raw"`
	Size     uint8  `json:"size"`
}

// Cfg is the loaded, immutable cfg.Cfg fixture.
type Cfg struct {
	funcs map[string]cfg.Func
}

// LoadFile reads and decodes the CFG document at path.
func LoadFile(path string) (*Cfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rverrors.Wrapf(err, rverrors.InputMissing, "reading CFG file %q", path)
	}
	var d doc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, rverrors.Wrapf(err, rverrors.InputMissing, "decoding CFG file %q", path)
	}
	funcs := make(map[string]cfg.Func, len(d.Funcs))
	for _, fd := range d.Funcs {
		blocks := make(map[cfg.Address]*cfg.BasicBlock, len(fd.Blocks))
		for _, bd := range fd.Blocks {
			insts := make([]cfg.Instruction, len(bd.Insts))
			for i, id := range bd.Insts {
				insts[i] = cfg.Instruction{
					Addr: cfg.Address(id.Addr), Mnemonic: id.Mnemonic,
					Rs1: id.Rs1, Rs2: id.Rs2, Rd: id.Rd, Csr: id.Csr,
					Imm: id.Imm, HasImm: id.HasImm, Raw: id.Raw, Size: id.Size,
				}
			}
			succs := make([]cfg.Address, len(bd.Succs))
			for i, s := range bd.Succs {
				succs[i] = cfg.Address(s)
			}
			blocks[cfg.Address(bd.Addr)] = &cfg.BasicBlock{Addr: cfg.Address(bd.Addr), Insts: insts, Succs: succs}
		}
		funcs[fd.Name] = cfg.Func{Name: fd.Name, Entry: cfg.Address(fd.Entry), Blocks: blocks, Callees: fd.Callees}
	}
	return &Cfg{funcs: funcs}, nil
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
