// Package sir implements the specification IR: the narrow, user-facing
// contract language AST that requires/ensures/modifies/track clauses are
// written in before spec-lowering (internal/lowering) turns them into VIR.
// SIR deliberately overlaps with vir's type/arithmetic vocabulary but is
// kept as a separate sum type by design: SIR's quantifiers and
// Deref/old/value built-ins live in their own enum rather than being
// folded into VIR's instruction-level operators.
package sir

import "fmt"

// VKind discriminates the variants of VType.
type VKind int

const (
	VKindUnknown VKind = iota
	VKindBv
	VKindInt
	VKindBool
	VKindArray
	VKindStruct
)

func (k VKind) String() string {
	switch k {
	case VKindUnknown:
		return "unknown"
	case VKindBv:
		return "bv"
	case VKindInt:
		return "int"
	case VKindBool:
		return "bool"
	case VKindArray:
		return "array"
	case VKindStruct:
		return "struct"
	default:
		return fmt.Sprintf("vkind(%d)", int(k))
	}
}

// VField is one named, ordered field of a struct VType.
type VField struct {
	Name string
	Typ  VType
}

// VType is the SIR type algebra: Unknown | Bv(u16) | Int | Bool |
// Array{in,out} | Struct{id,fields,size}. Bv's width is
// intentionally narrower (uint16) than vir.Type's (uint64): SIR widths
// always originate from a DWARF byte count or a system-identifier table,
// never from arbitrary computed bit-vector arithmetic, so a 16-bit width
// is never truncating in practice and documents that narrower provenance.
type VType struct {
	kind VKind

	width uint16 // valid when kind == VKindBv

	arrayIn  []VType // valid when kind == VKindArray
	arrayOut *VType

	structID     string
	structFields []VField
	structSize   uint64 // bytes
}

// VUnknown is the not-yet-inferred SIR type.
var VUnknown = VType{kind: VKindUnknown}

// VIntType is SIR's unbounded integer type.
var VIntType = VType{kind: VKindInt}

// VBoolType is SIR's boolean type.
var VBoolType = VType{kind: VKindBool}

// VBv constructs a bit-vector VType of the given width.
func VBv(width uint16) VType {
	if width == 0 {
		panic("sir: VBv width must be non-zero")
	}
	return VType{kind: VKindBv, width: width}
}

// VArray constructs an Array{in,out} VType.
func VArray(in []VType, out VType) VType {
	cp := make([]VType, len(in))
	copy(cp, in)
	o := out
	return VType{kind: VKindArray, arrayIn: cp, arrayOut: &o}
}

// VStruct constructs a Struct{id,fields,size} VType. Field order as passed
// in is preserved for display, but lookups are by name, so ordering doesn't
// affect lowering semantics the way vir.Struct's ordering affects layout.
func VStruct(id string, fields []VField, sizeBytes uint64) VType {
	cp := make([]VField, len(fields))
	copy(cp, fields)
	return VType{kind: VKindStruct, structID: id, structFields: cp, structSize: sizeBytes}
}

func (t VType) Kind() VKind { return t.kind }

func (t VType) Width() uint16 {
	if t.kind != VKindBv {
		panic("sir: Width called on non-Bv VType")
	}
	return t.width
}

func (t VType) ArrayOut() VType {
	if t.kind != VKindArray {
		panic("sir: ArrayOut called on non-Array VType")
	}
	return *t.arrayOut
}

func (t VType) ArrayIn() []VType {
	if t.kind != VKindArray {
		panic("sir: ArrayIn called on non-Array VType")
	}
	return t.arrayIn
}

func (t VType) StructID() string {
	if t.kind != VKindStruct {
		panic("sir: StructID called on non-Struct VType")
	}
	return t.structID
}

func (t VType) StructSize() uint64 {
	if t.kind != VKindStruct {
		panic("sir: StructSize called on non-Struct VType")
	}
	return t.structSize
}

// FieldType looks up a struct field's type by name.
func (t VType) FieldType(name string) (VType, bool) {
	if t.kind != VKindStruct {
		return VType{}, false
	}
	for _, f := range t.structFields {
		if f.Name == name {
			return f.Typ, true
		}
	}
	return VType{}, false
}

// IsPrimitive reports whether t is a bit-vector, integer, or boolean type:
// these are dereferenced eagerly, as opposed to structs/arrays which are
// left as addresses.
func (t VType) IsPrimitive() bool {
	switch t.kind {
	case VKindBv, VKindInt, VKindBool:
		return true
	default:
		return false
	}
}

// Equal reports structural equality between two VTypes.
func (t VType) Equal(o VType) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case VKindBv:
		return t.width == o.width
	case VKindArray:
		return t.arrayOut.Equal(*o.arrayOut)
	case VKindStruct:
		return t.structID == o.structID
	default:
		return true
	}
}

func (t VType) String() string {
	switch t.kind {
	case VKindBv:
		return fmt.Sprintf("bv%d", t.width)
	case VKindArray:
		return fmt.Sprintf("array->%s", t.arrayOut.String())
	case VKindStruct:
		return fmt.Sprintf("struct %s", t.structID)
	default:
		return t.kind.String()
	}
}
