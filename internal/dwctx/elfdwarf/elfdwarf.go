// Package elfdwarf adapts the standard library's debug/elf and debug/dwarf
// packages to the dwctx.Ctx interface, so the orchestrator can read real
// DWARF debug information out of an ELF object instead of only the
// dwtest fixtures.
package elfdwarf

import (
	"debug/dwarf"
	"debug/elf"
	"encoding/binary"

	"github.com/pkg/errors"

	"rv2model/internal/dwctx"
	"rv2model/internal/rverrors"
)

// opAddr is the DWARF DW_OP_addr opcode: a location expression consisting
// of a single absolute address, the only location-expression shape this
// adapter understands (global variables compiled without PIE use exactly
// this form).
const opAddr = 0x03

// Ctx wraps a parsed ELF file's DWARF data.
type Ctx struct {
	xlen     uint64
	globals  map[string]dwctx.Var
	funcSigs map[string]dwctx.FuncSig
	types    map[string]dwctx.TypeDefn
}

// Open reads ELF and DWARF data from path and returns a Ctx for xlen (64 is
// the only value this core accepts past the orchestrator's validation, but
// the adapter itself is not XLEN-specific).
func Open(path string, xlen uint64) (*Ctx, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, rverrors.Wrap(rverrors.InputMissing, "opening ELF file %q: %s", path, err)
	}
	defer f.Close()

	data, err := f.DWARF()
	if err != nil {
		return nil, rverrors.Wrap(rverrors.InputMissing, "reading DWARF from %q: %s", path, err)
	}

	c := &Ctx{
		xlen:     xlen,
		globals:  make(map[string]dwctx.Var),
		funcSigs: make(map[string]dwctx.FuncSig),
		types:    make(map[string]dwctx.TypeDefn),
	}
	if err := c.load(data); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Ctx) load(data *dwarf.Data) error {
	r := data.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			return rverrors.Wrap(rverrors.InputMissing, "reading DWARF entries: %s", err)
		}
		if entry == nil {
			return nil
		}
		switch entry.Tag {
		case dwarf.TagVariable:
			if err := c.loadVariable(data, entry); err != nil {
				return err
			}
		case dwarf.TagSubprogram:
			if err := c.loadSubprogram(data, r, entry); err != nil {
				return err
			}
		case dwarf.TagStructType:
			if err := c.loadNamedStruct(data, entry); err != nil {
				return err
			}
		}
	}
}

func (c *Ctx) loadVariable(data *dwarf.Data, entry *dwarf.Entry) error {
	name, ok := entry.Val(dwarf.AttrName).(string)
	if !ok || name == "" {
		return nil // anonymous or local variable, not a resolvable global
	}
	loc, ok := entry.Val(dwarf.AttrLocation).([]byte)
	if !ok || len(loc) < 9 || loc[0] != opAddr {
		return nil // not a statically-addressed global this adapter understands
	}
	addr := binary.LittleEndian.Uint64(loc[1:9])

	typ, err := c.resolveTypeAttr(data, entry)
	if err != nil {
		return errors.Wrapf(err, "global %q", name)
	}
	c.globals[name] = dwctx.Var{Name: name, MemoryAddr: addr, TypDefn: typ}
	return nil
}

func (c *Ctx) loadSubprogram(data *dwarf.Data, r *dwarf.Reader, entry *dwarf.Entry) error {
	name, ok := entry.Val(dwarf.AttrName).(string)
	if !ok || name == "" {
		return nil
	}
	var args []dwctx.FuncArg
	for {
		child, err := r.Next()
		if err != nil {
			return rverrors.Wrap(rverrors.InputMissing, "reading subprogram %q children: %s", name, err)
		}
		if child == nil || child.Tag == 0 {
			break // end of sibling chain
		}
		if child.Tag != dwarf.TagFormalParameter {
			r.SkipChildren()
			continue
		}
		argName, _ := child.Val(dwarf.AttrName).(string)
		argTyp, err := c.resolveTypeAttr(data, child)
		if err != nil {
			return errors.Wrapf(err, "subprogram %q parameter %q", name, argName)
		}
		args = append(args, dwctx.FuncArg{Name: argName, TypDefn: argTyp})
	}

	var ret *dwctx.TypeDefn
	if _, hasType := entry.Val(dwarf.AttrType).(dwarf.Offset); hasType {
		t, err := c.resolveTypeAttr(data, entry)
		if err != nil {
			return errors.Wrapf(err, "subprogram %q return type", name)
		}
		ret = &t
	}
	c.funcSigs[name] = dwctx.FuncSig{Args: args, RetType: ret}
	return nil
}

func (c *Ctx) loadNamedStruct(data *dwarf.Data, entry *dwarf.Entry) error {
	name, ok := entry.Val(dwarf.AttrName).(string)
	if !ok || name == "" {
		return nil
	}
	if _, exists := c.types[name]; exists {
		return nil
	}
	// The entry itself, not its AttrType, describes the struct; resolve it
	// directly through dwarf.Data.Type using the entry's own offset.
	t, err := data.Type(entry.Offset)
	if err != nil {
		return rverrors.Wrap(rverrors.DwarfResolution, "resolving struct %q: %s", name, err)
	}
	defn, err := c.convertType(data, t)
	if err != nil {
		return err
	}
	c.types[name] = defn
	return nil
}

func (c *Ctx) resolveTypeAttr(data *dwarf.Data, entry *dwarf.Entry) (dwctx.TypeDefn, error) {
	off, ok := entry.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return dwctx.Primitive(c.xlen / 8), nil // untyped entry: treat as a register-width scalar
	}
	t, err := data.Type(off)
	if err != nil {
		return dwctx.TypeDefn{}, rverrors.Wrap(rverrors.DwarfResolution, "resolving type: %s", err)
	}
	return c.convertType(data, t)
}

// convertType translates a parsed debug/dwarf Type into this module's
// dwctx.TypeDefn, unwrapping typedefs and cv-qualifiers along the way since
// downstream consumers only care about the underlying primitive/pointer/
// array/struct shape.
func (c *Ctx) convertType(data *dwarf.Data, t dwarf.Type) (dwctx.TypeDefn, error) {
	switch tt := t.(type) {
	case *dwarf.TypedefType:
		return c.convertType(data, tt.Type)
	case *dwarf.QualType:
		return c.convertType(data, tt.Type)
	case *dwarf.BasicType:
		return dwctx.Primitive(uint64(tt.ByteSize)), nil
	case *dwarf.PtrType:
		var inner dwctx.TypeDefn
		var err error
		if tt.Type != nil {
			inner, err = c.convertType(data, tt.Type)
			if err != nil {
				return dwctx.TypeDefn{}, err
			}
		} else {
			inner = dwctx.Primitive(c.xlen / 8)
		}
		return dwctx.Pointer(inner, c.xlen/8), nil
	case *dwarf.ArrayType:
		elem, err := c.convertType(data, tt.Type)
		if err != nil {
			return dwctx.TypeDefn{}, err
		}
		idx := dwctx.Primitive(c.xlen / 8)
		return dwctx.ArrayType(idx, elem, uint64(tt.ByteSize)), nil
	case *dwarf.StructType:
		fields := make(map[string]dwctx.StructFieldDefn, len(tt.Field))
		for _, f := range tt.Field {
			ft, err := c.convertType(data, f.Type)
			if err != nil {
				return dwctx.TypeDefn{}, err
			}
			fields[f.Name] = dwctx.StructFieldDefn{Typ: ft, Loc: uint64(f.ByteOffset)}
		}
		return dwctx.StructType(tt.StructName, fields, uint64(tt.ByteSize)), nil
	default:
		// Enums and other rarer DWARF type tags collapse to a register-width
		// scalar: type inference only distinguishes primitive/pointer/
		// array/struct, so anything else behaves as a primitive.
		return dwctx.Primitive(c.xlen / 8), nil
	}
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

var _ dwctx.Ctx = (*Ctx)(nil)
