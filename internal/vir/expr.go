package vir

import (
	"fmt"
	"strings"
)

// Op enumerates the VIR expression operators: comparison, bitvector
// arithmetic/logic, boolean connectives, and the two structured accessors
// ArrayIndex/GetField. Kept as one sealed enum (not unified with SIR's
// value-ops) by design: VIR's instruction-level operators and SIR's
// spec-language operators are distinct sum-type arms.
type Op int

const (
	// Comparison: Bool result.
	OpEq Op = iota
	OpNe
	OpLtSigned
	OpLeSigned
	OpGtSigned
	OpGeSigned
	OpLtUnsigned
	OpLeUnsigned
	OpGtUnsigned
	OpGeUnsigned

	// Bitvector: result type is operand 0's type.
	OpAdd
	OpSub
	OpMul
	OpAnd
	OpOr
	OpXor
	OpSignExt
	OpZeroExt
	OpLeftShift
	OpLogicalRightShift
	OpArithRightShift
	OpConcat
	OpSlice

	// Boolean: Bool result.
	OpBoolAnd
	OpBoolOr
	OpIff
	OpImpl
	OpNeg

	// Structured access.
	OpArrayIndex
	OpGetField
)

var opNames = map[Op]string{
	OpEq: "eq", OpNe: "ne",
	OpLtSigned: "lt_s", OpLeSigned: "le_s", OpGtSigned: "gt_s", OpGeSigned: "ge_s",
	OpLtUnsigned: "lt_u", OpLeUnsigned: "le_u", OpGtUnsigned: "gt_u", OpGeUnsigned: "ge_u",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpSignExt: "sext", OpZeroExt: "zext",
	OpLeftShift: "lshl", OpLogicalRightShift: "lshr", OpArithRightShift: "ashr",
	OpConcat: "concat", OpSlice: "slice",
	OpBoolAnd: "and", OpBoolOr: "or", OpIff: "iff", OpImpl: "impl", OpNeg: "not",
	OpArrayIndex: "array_index", OpGetField: "get_field",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// isComparison reports whether op always yields a Bool result.
func isComparison(op Op) bool {
	switch op {
	case OpEq, OpNe, OpLtSigned, OpLeSigned, OpGtSigned, OpGeSigned,
		OpLtUnsigned, OpLeUnsigned, OpGtUnsigned, OpGeUnsigned,
		OpBoolAnd, OpBoolOr, OpIff, OpImpl, OpNeg:
		return true
	default:
		return false
	}
}

// Expr is the VIR expression sum type: Literal | Var | OpApp | FuncApp, each
// annotated with its Type. Trees are immutable; there is no in-place
// mutation API.
type Expr interface {
	// Type returns the expression's annotated result type.
	Type() Type
	// String renders the expression for diagnostics.
	String() string

	// exprNode is an unexported marker restricting Expr to this package's
	// variants, the Go idiom for a closed (sealed) sum type.
	exprNode()
}

// LitExpr wraps a Literal as an Expr.
type LitExpr struct {
	Lit Literal
}

func (e *LitExpr) Type() Type     { return e.Lit.Type() }
func (e *LitExpr) String() string { return e.Lit.String() }
func (*LitExpr) exprNode()        {}

// NewLit constructs a literal expression.
func NewLit(l Literal) Expr { return &LitExpr{Lit: l} }

// VarExpr references a named program variable (register, memory-array
// alias, or synthesized temporary), annotated with its type.
type VarExpr struct {
	Name string
	Typ  Type
}

func (e *VarExpr) Type() Type     { return e.Typ }
func (e *VarExpr) String() string { return e.Name }
func (*VarExpr) exprNode()        {}

// NewVar constructs a variable reference.
func NewVar(name string, typ Type) *VarExpr { return &VarExpr{Name: name, Typ: typ} }

// OpAppExpr applies an operator to a sequence of argument expressions.
type OpAppExpr struct {
	Op   Op
	Args []Expr
	Typ  Type

	// Lo, Hi are valid only when Op == OpSlice.
	Lo, Hi uint64

	// Field is valid only when Op == OpGetField: the accessed field's name.
	Field string
}

func (e *OpAppExpr) Type() Type { return e.Typ }

func (e *OpAppExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	switch e.Op {
	case OpSlice:
		return fmt.Sprintf("%s[%d:%d]", parts[0], e.Hi, e.Lo)
	case OpGetField:
		return fmt.Sprintf("%s.%s", parts[0], e.Field)
	default:
		return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ", "))
	}
}
func (*OpAppExpr) exprNode() {}

// NewOpApp constructs an operator application, deriving its result type:
// comparison/boolean ops -> Bool; arithmetic ops -> operand-0's type;
// ArrayIndex -> array's element type; GetField -> the named field's type
// (GetField's field name and type must be supplied by the caller via
// NewGetField, since the field identifier isn't itself an Expr operand in
// this encoding).
func NewOpApp(op Op, args ...Expr) *OpAppExpr {
	if len(args) == 0 {
		panic("vir: OpApp requires at least one argument")
	}
	var typ Type
	switch {
	case isComparison(op):
		typ = BoolType
	case op == OpArrayIndex:
		typ = args[0].Type().ArrayOut()
	default:
		typ = args[0].Type()
	}
	return &OpAppExpr{Op: op, Args: args, Typ: typ}
}

// NewSlice constructs a Slice{l,r} operator application over a single
// bit-vector operand, with an explicitly supplied result type (callers
// decide the width per the pass that produces it: internal/lowering's
// constant-folding pass produces a width that diverges from the naive
// Bv(hi-lo) expectation).
func NewSlice(arg Expr, hi, lo uint64, resultType Type) *OpAppExpr {
	return &OpAppExpr{Op: OpSlice, Args: []Expr{arg}, Typ: resultType, Lo: lo, Hi: hi}
}

// NewGetField constructs a GetField{name} access on obj, whose result type
// is the named field's type within obj's Struct type.
func NewGetField(obj Expr, field string) *OpAppExpr {
	ft, ok := obj.Type().FieldType(field)
	if !ok {
		panic(fmt.Sprintf("vir: struct %s has no field %q", obj.Type().StructID(), field))
	}
	return &OpAppExpr{Op: OpGetField, Args: []Expr{obj}, Typ: ft, Field: field}
}

// FuncAppExpr is a call to a named pure function (used for built-ins that
// remain in VIR after lowering, e.g. sign/zero-extension helpers the
// instruction table emits directly).
type FuncAppExpr struct {
	Name string
	Args []Expr
	Typ  Type
}

func (e *FuncAppExpr) Type() Type { return e.Typ }
func (e *FuncAppExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}
func (*FuncAppExpr) exprNode() {}

// NewFuncApp constructs a function-application expression with an
// explicitly supplied result type.
func NewFuncApp(name string, typ Type, args ...Expr) *FuncAppExpr {
	return &FuncAppExpr{Name: name, Args: args, Typ: typ}
}
