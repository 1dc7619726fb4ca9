// Package dwctx defines the shape of the DWARF-context collaborator: an
// external component, out of this core's scope, that resolves global
// variables, their types, and function signatures from a
// binary's debug information. internal/lowering and internal/builder
// depend only on the DwarfCtx interface; internal/dwctx/elfdwarf adapts the
// standard library's debug/dwarf and debug/elf packages to it, and
// internal/dwctx/dwtest supplies an in-memory fixture for tests.
package dwctx

import "fmt"

// TypeDefnKind discriminates the variants of TypeDefn.
type TypeDefnKind int

const (
	KindPrimitive TypeDefnKind = iota
	KindPointer
	KindArray
	KindStruct
)

// StructFieldDefn is one field of a Struct TypeDefn: its type and its byte
// offset within the struct.
type StructFieldDefn struct {
	Typ TypeDefn
	Loc uint64 // byte offset
}

// TypeDefn is the DWARF type-description sum type: Primitive{bytes} |
// Pointer{value_typ,bytes} | Array{in_typ,out_typ,bytes} |
// Struct{id,fields,bytes}.
type TypeDefn struct {
	kind  TypeDefnKind
	bytes uint64

	// Pointer
	pointee *TypeDefn

	// Array
	arrayIn  *TypeDefn
	arrayOut *TypeDefn

	// Struct
	structID     string
	structFields map[string]StructFieldDefn
}

// Primitive constructs a Primitive{bytes} TypeDefn.
func Primitive(bytes uint64) TypeDefn {
	return TypeDefn{kind: KindPrimitive, bytes: bytes}
}

// Pointer constructs a Pointer{value_typ,bytes} TypeDefn.
func Pointer(value TypeDefn, bytes uint64) TypeDefn {
	return TypeDefn{kind: KindPointer, pointee: &value, bytes: bytes}
}

// ArrayType constructs an Array{in_typ,out_typ,bytes} TypeDefn.
func ArrayType(in, out TypeDefn, bytes uint64) TypeDefn {
	return TypeDefn{kind: KindArray, arrayIn: &in, arrayOut: &out, bytes: bytes}
}

// StructType constructs a Struct{id,fields,bytes} TypeDefn.
func StructType(id string, fields map[string]StructFieldDefn, bytes uint64) TypeDefn {
	return TypeDefn{kind: KindStruct, structID: id, structFields: fields, bytes: bytes}
}

func (t TypeDefn) Kind() TypeDefnKind { return t.kind }
func (t TypeDefn) Bytes() uint64      { return t.bytes }

func (t TypeDefn) Pointee() TypeDefn {
	mustKind(t, KindPointer)
	return *t.pointee
}

func (t TypeDefn) ArrayElem() TypeDefn {
	mustKind(t, KindArray)
	return *t.arrayOut
}

func (t TypeDefn) ArrayIndexType() TypeDefn {
	mustKind(t, KindArray)
	return *t.arrayIn
}

func (t TypeDefn) StructID() string {
	mustKind(t, KindStruct)
	return t.structID
}

// Field looks up a struct field by name.
func (t TypeDefn) Field(name string) (StructFieldDefn, bool) {
	mustKind(t, KindStruct)
	f, ok := t.structFields[name]
	return f, ok
}

// Fields returns the struct's fields, keyed by field name.
func (t TypeDefn) Fields() map[string]StructFieldDefn {
	mustKind(t, KindStruct)
	return t.structFields
}

func mustKind(t TypeDefn, want TypeDefnKind) {
	if t.kind != want {
		panic(fmt.Sprintf("dwctx: expected TypeDefn kind %d, got %d", want, t.kind))
	}
}

// Var is a DWARF global variable: its name, its absolute memory address,
// and its type.
type Var struct {
	Name       string
	MemoryAddr uint64
	TypDefn    TypeDefn
}

// FuncArg is one formal argument of a DWARF function signature.
type FuncArg struct {
	Name    string
	TypDefn TypeDefn
}

// FuncSig is a DWARF function signature: its formal arguments and optional
// return type.
type FuncSig struct {
	Args    []FuncArg
	RetType *TypeDefn // nil for void
}

// Ctx is the DWARF-context collaborator interface.
type Ctx interface {
	// Xlen returns the architecture's register width in bits.
	Xlen() uint64

	// GlobalVar resolves a global variable by name.
	GlobalVar(name string) (Var, error)

	// GlobalVarType resolves a global variable's type by name.
	GlobalVarType(name string) (TypeDefn, error)

	// GlobalVars enumerates every global variable.
	GlobalVars() []Var

	// FuncSigs returns every function signature, keyed by name.
	FuncSigs() map[string]FuncSig

	// FuncSig resolves one function's signature by name.
	FuncSig(name string) (FuncSig, error)

	// TypMap returns every named type definition known to the debug
	// information, keyed by name (used by the emitter to enumerate struct
	// ids for field-offset macros).
	TypMap() map[string]TypeDefn
}
