// Package vir implements the verification IR: the low-level bit-vector,
// boolean, and array/struct term algebra that basic-block procedures and
// the backend emitter operate on. Trees are immutable once constructed;
// constructor functions enforce VIR's invariants centrally, the way
// vslc's ir/lir builder methods (CreateXxx) validate operands before
// admitting a new IR node.
package vir

import (
	"fmt"
	"sort"
)

// Kind discriminates the variants of Type.
type Kind int

const (
	// KindUnknown marks a type not yet inferred.
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindBv
	KindArray
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindBv:
		return "bv"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// StructField is one named, ordered field of a Struct type. Field order is
// significant: it is the layout order observed in emitted declarations and
// offset macros.
type StructField struct {
	Name string
	Typ  Type
}

// Type is the VIR type algebra: Unknown, Bool, Int, Bv{w}, Array{in,out},
// Struct{id,fields,w}.
type Type struct {
	kind Kind

	// Bv width, in bits. Valid only when kind == KindBv.
	width uint64

	// Array input/output component types. Valid only when kind == KindArray.
	arrayIn  []Type
	arrayOut *Type

	// Struct identity and fields. Valid only when kind == KindStruct.
	structID     string
	structFields []StructField
	structWidth  uint64
}

// Unknown is the not-yet-inferred type.
var Unknown = Type{kind: KindUnknown}

// BoolType is the boolean type.
var BoolType = Type{kind: KindBool}

// IntType is the unbounded mathematical integer type.
var IntType = Type{kind: KindInt}

// Bv constructs a bit-vector type of the given width. Panics if width is 0,
// matching the builder-panics-on-malformed-input idiom vir follows
// throughout (a width of zero can never arise from a correctly driven
// pipeline).
func Bv(width uint64) Type {
	if width == 0 {
		panic("vir: Bv width must be non-zero")
	}
	return Type{kind: KindBv, width: width}
}

// Array constructs an Array{in_typs, out_typ} type.
func Array(in []Type, out Type) Type {
	cp := make([]Type, len(in))
	copy(cp, in)
	o := out
	return Type{kind: KindArray, arrayIn: cp, arrayOut: &o}
}

// Struct constructs a Struct{id, fields, w} type. Fields are stored and
// later emitted in name-sorted order regardless of the order passed in,
// because field layout must be deterministic across runs (the
// "Determinism" testable property).
func Struct(id string, fields []StructField, width uint64) Type {
	cp := make([]StructField, len(fields))
	copy(cp, fields)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })
	return Type{kind: KindStruct, structID: id, structFields: cp, structWidth: width}
}

// Kind returns the type's discriminant.
func (t Type) Kind() Kind { return t.kind }

// Width returns the bit-vector width. Panics if t is not a Bv type.
func (t Type) Width() uint64 {
	if t.kind != KindBv {
		panic(fmt.Sprintf("vir: Width called on non-Bv type %s", t.kind))
	}
	return t.width
}

// ArrayIn returns the array's index component types. Panics if t is not
// an Array type.
func (t Type) ArrayIn() []Type {
	if t.kind != KindArray {
		panic(fmt.Sprintf("vir: ArrayIn called on non-Array type %s", t.kind))
	}
	return t.arrayIn
}

// ArrayOut returns the array's element type. Panics if t is not an Array
// type.
func (t Type) ArrayOut() Type {
	if t.kind != KindArray {
		panic(fmt.Sprintf("vir: ArrayOut called on non-Array type %s", t.kind))
	}
	return *t.arrayOut
}

// StructID returns the struct's name. Panics if t is not a Struct type.
func (t Type) StructID() string {
	if t.kind != KindStruct {
		panic(fmt.Sprintf("vir: StructID called on non-Struct type %s", t.kind))
	}
	return t.structID
}

// StructFields returns the struct's fields, sorted by name.
func (t Type) StructFields() []StructField {
	if t.kind != KindStruct {
		panic(fmt.Sprintf("vir: StructFields called on non-Struct type %s", t.kind))
	}
	return t.structFields
}

// StructWidth returns the struct's total bit width.
func (t Type) StructWidth() uint64 {
	if t.kind != KindStruct {
		panic(fmt.Sprintf("vir: StructWidth called on non-Struct type %s", t.kind))
	}
	return t.structWidth
}

// FieldType looks up a field's type by name. The bool result is false if
// the struct has no such field.
func (t Type) FieldType(name string) (Type, bool) {
	for _, f := range t.StructFields() {
		if f.Name == name {
			return f.Typ, true
		}
	}
	return Type{}, false
}

// Equal reports structural equality between two types.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindBv:
		return t.width == o.width
	case KindArray:
		if len(t.arrayIn) != len(o.arrayIn) {
			return false
		}
		for i := range t.arrayIn {
			if !t.arrayIn[i].Equal(o.arrayIn[i]) {
				return false
			}
		}
		return t.arrayOut.Equal(*o.arrayOut)
	case KindStruct:
		return t.structID == o.structID
	default:
		return true
	}
}

// String renders a type in the emitter's surface-adjacent notation, useful
// for diagnostics and test failure output.
func (t Type) String() string {
	switch t.kind {
	case KindBv:
		return fmt.Sprintf("bv%d", t.width)
	case KindArray:
		ins := make([]string, len(t.arrayIn))
		for i, it := range t.arrayIn {
			ins[i] = it.String()
		}
		return fmt.Sprintf("[%v]%s", ins, t.arrayOut.String())
	case KindStruct:
		return fmt.Sprintf("struct %s", t.structID)
	default:
		return t.kind.String()
	}
}
