package sir

import (
	"fmt"
	"strings"
)

// VOp enumerates SIR's value-level operators: arithmetic, shifts, the
// structured accessors, and the spec-language-only Deref.
type VOp int

const (
	VOpAdd VOp = iota
	VOpSub
	VOpDiv
	VOpMul
	VOpXor
	VOpOr
	VOpAnd
	VOpLeftShift
	VOpLogicalRightShift
	VOpArithRightShift
	VOpArrayIndex
	VOpGetField
	VOpSlice
	VOpConcat
	VOpDeref
)

var vOpNames = [...]string{
	"add", "sub", "div", "mul", "xor", "or", "and",
	"lshl", "lshr", "ashr",
	"array_index", "get_field", "slice", "concat", "deref",
}

func (o VOp) String() string {
	if int(o) < len(vOpNames) {
		return vOpNames[o]
	}
	return fmt.Sprintf("vop(%d)", int(o))
}

// VExpr is the SIR value-expression sum type: Bv | Int | Bool | Ident |
// OpApp | FuncApp, each annotated with a VType which may be VUnknown before
// lowering.
type VExpr interface {
	Type() VType
	// WithType returns a copy of this node with its annotated type
	// replaced (the mechanism internal/lowering's passes use to thread a
	// resolved type back onto a node without mutating the original tree).
	WithType(VType) VExpr
	String() string
	vexprNode()
}

// BvExpr is a bit-vector literal.
type BvExpr struct {
	Value uint64
	Typ   VType
}

func (e *BvExpr) Type() VType          { return e.Typ }
func (e *BvExpr) WithType(t VType) VExpr { return &BvExpr{Value: e.Value, Typ: t} }
func (e *BvExpr) String() string       { return fmt.Sprintf("%d:%s", e.Value, e.Typ) }
func (*BvExpr) vexprNode()            {}

// NewBv constructs a bit-vector literal VExpr.
func NewBv(value uint64, typ VType) *BvExpr { return &BvExpr{Value: value, Typ: typ} }

// IntExpr is an unbounded-integer literal.
type IntExpr struct {
	Value uint64
}

func (e *IntExpr) Type() VType            { return VIntType }
func (e *IntExpr) WithType(VType) VExpr   { return e }
func (e *IntExpr) String() string         { return fmt.Sprintf("%d", e.Value) }
func (*IntExpr) vexprNode()               {}

// NewInt constructs an integer literal VExpr.
func NewInt(value uint64) *IntExpr { return &IntExpr{Value: value} }

// BoolVExpr is a boolean literal used in value position.
type BoolVExpr struct {
	Value bool
}

func (e *BoolVExpr) Type() VType          { return VBoolType }
func (e *BoolVExpr) WithType(VType) VExpr { return e }
func (e *BoolVExpr) String() string       { return fmt.Sprintf("%t", e.Value) }
func (*BoolVExpr) vexprNode()             {}

// NewBoolV constructs a boolean-literal VExpr.
func NewBoolV(value bool) *BoolVExpr { return &BoolVExpr{Value: value} }

// IdentExpr names a program identifier: a system register/state variable, a
// formal argument, a quantifier-bound name, or a global. Its type starts as
// VUnknown and is resolved by internal/lowering's type-inference pass.
type IdentExpr struct {
	Name string
	Typ  VType
}

func (e *IdentExpr) Type() VType { return e.Typ }
func (e *IdentExpr) WithType(t VType) VExpr {
	return &IdentExpr{Name: e.Name, Typ: t}
}
func (e *IdentExpr) String() string { return e.Name }
func (*IdentExpr) vexprNode()       {}

// NewIdent constructs an identifier VExpr, typically VUnknown before
// lowering.
func NewIdent(name string, typ VType) *IdentExpr { return &IdentExpr{Name: name, Typ: typ} }

// VOpAppExpr applies a VOp to value-expression arguments.
type VOpAppExpr struct {
	Op   VOp
	Args []VExpr
	Typ  VType

	// Lo, Hi are valid only when Op == VOpSlice.
	Lo, Hi uint64
	// Field is valid only when Op == VOpGetField.
	Field string
}

func (e *VOpAppExpr) Type() VType { return e.Typ }
func (e *VOpAppExpr) WithType(t VType) VExpr {
	cp := *e
	cp.Typ = t
	return &cp
}
func (e *VOpAppExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	switch e.Op {
	case VOpSlice:
		return fmt.Sprintf("%s[%d:%d]", parts[0], e.Hi, e.Lo)
	case VOpGetField:
		return fmt.Sprintf("%s.%s", parts[0], e.Field)
	default:
		return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ", "))
	}
}
func (*VOpAppExpr) vexprNode() {}

// NewVOpApp constructs a value-operator application. The result type is
// left as supplied by the caller: unlike vir's NewOpApp, SIR's type
// inference is itself one of the lowering passes this package feeds, so
// callers building pre-lowering trees pass VUnknown and let
// internal/lowering fill it in.
func NewVOpApp(op VOp, typ VType, args ...VExpr) *VOpAppExpr {
	return &VOpAppExpr{Op: op, Args: args, Typ: typ}
}

// NewSliceV constructs a Slice{lo,hi} value expression.
func NewSliceV(arg VExpr, hi, lo uint64, typ VType) *VOpAppExpr {
	return &VOpAppExpr{Op: VOpSlice, Args: []VExpr{arg}, Typ: typ, Lo: lo, Hi: hi}
}

// NewGetFieldV constructs a GetField{name} value expression.
func NewGetFieldV(obj VExpr, field string, typ VType) *VOpAppExpr {
	return &VOpAppExpr{Op: VOpGetField, Args: []VExpr{obj}, Typ: typ, Field: field}
}

// NewDeref constructs a Deref value expression reading from the address
// addr.
func NewDeref(addr VExpr, typ VType) *VOpAppExpr {
	return &VOpAppExpr{Op: VOpDeref, Args: []VExpr{addr}, Typ: typ}
}

// FuncAppExpr calls a named built-in: old, value, sext, or uext.
type FuncAppExpr struct {
	Name string
	Args []VExpr
	Typ  VType
}

func (e *FuncAppExpr) Type() VType { return e.Typ }
func (e *FuncAppExpr) WithType(t VType) VExpr {
	return &FuncAppExpr{Name: e.Name, Args: e.Args, Typ: t}
}
func (e *FuncAppExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}
func (*FuncAppExpr) vexprNode() {}

// NewFuncApp constructs a built-in function-application VExpr.
func NewFuncApp(name string, typ VType, args ...VExpr) *FuncAppExpr {
	return &FuncAppExpr{Name: name, Args: args, Typ: typ}
}
