package lowering

import (
	"rv2model/internal/dwctx"
	"rv2model/internal/sir"
)

// convertDwarfType translates a dwctx.TypeDefn (the DWARF-derived type
// shape) into the narrower sir.VType the spec-lowering passes reason about.
// Pointers collapse to a register-width bit-vector: SIR never distinguishes
// pointer arithmetic from plain integer arithmetic.
func convertDwarfType(t dwctx.TypeDefn, xlen uint64) sir.VType {
	switch t.Kind() {
	case dwctx.KindPrimitive:
		return sir.VBv(uint16(t.Bytes() * 8))
	case dwctx.KindPointer:
		return sir.VBv(uint16(xlen))
	case dwctx.KindArray:
		elem := convertDwarfType(t.ArrayElem(), xlen)
		idx := convertDwarfType(t.ArrayIndexType(), xlen)
		return sir.VArray([]sir.VType{idx}, elem)
	case dwctx.KindStruct:
		fields := t.Fields()
		out := make([]sir.VField, 0, len(fields))
		for name, f := range fields {
			out = append(out, sir.VField{Name: name, Typ: convertDwarfType(f.Typ, xlen)})
		}
		return sir.VStruct(t.StructID(), out, t.Bytes())
	default:
		return sir.VBv(uint16(xlen))
	}
}
