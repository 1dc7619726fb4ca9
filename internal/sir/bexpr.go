package sir

import (
	"fmt"
	"strings"
)

// BoolOp enumerates SIR's boolean connectives and quantifiers: "∧∨¬→"
// plus Forall/Exists.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
	BoolNot
	BoolImpl
	BoolForall
	BoolExists
)

func (o BoolOp) String() string {
	switch o {
	case BoolAnd:
		return "and"
	case BoolOr:
		return "or"
	case BoolNot:
		return "not"
	case BoolImpl:
		return "impl"
	case BoolForall:
		return "forall"
	case BoolExists:
		return "exists"
	default:
		return fmt.Sprintf("boolop(%d)", int(o))
	}
}

// IsQuantifier reports whether op binds a name (Forall/Exists).
func (o BoolOp) IsQuantifier() bool { return o == BoolForall || o == BoolExists }

// CompOp enumerates SIR's comparison operators over VExpr operands,
// mirroring vir.Op's comparison subset (signed/unsigned order, equality).
type CompOp int

const (
	CompEq CompOp = iota
	CompNe
	CompLtSigned
	CompLeSigned
	CompGtSigned
	CompGeSigned
	CompLtUnsigned
	CompLeUnsigned
	CompGtUnsigned
	CompGeUnsigned
)

func (o CompOp) String() string {
	names := [...]string{"eq", "ne", "lt_s", "le_s", "gt_s", "ge_s", "lt_u", "le_u", "gt_u", "ge_u"}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("compop(%d)", int(o))
}

// BExpr is the SIR boolean-expression sum type: Bool(b) | BOpApp(BoolOp,
// args) | COpApp(CompOp, VExpr args).
type BExpr interface {
	String() string
	bexprNode()
}

// BoolLitExpr is a boolean literal.
type BoolLitExpr struct {
	Value bool
}

func (e *BoolLitExpr) String() string { return fmt.Sprintf("%t", e.Value) }
func (*BoolLitExpr) bexprNode()       {}

// NewBoolLit constructs a boolean-literal BExpr.
func NewBoolLit(v bool) *BoolLitExpr { return &BoolLitExpr{Value: v} }

// BOpAppExpr applies a BoolOp to boolean-expression arguments. For a
// quantifier (Forall/Exists), Args holds exactly the quantified body and
// Bound/BoundType name the bound identifier and its VType ("Forall(bound,
// type)").
type BOpAppExpr struct {
	Op        BoolOp
	Args      []BExpr
	Bound     string // valid only when Op.IsQuantifier()
	BoundType VType  // valid only when Op.IsQuantifier()
}

func (e *BOpAppExpr) String() string {
	if e.Op.IsQuantifier() {
		return fmt.Sprintf("%s %s:%s. %s", e.Op, e.Bound, e.BoundType, e.Args[0])
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ", "))
}
func (*BOpAppExpr) bexprNode() {}

// NewBOpApp constructs a non-quantifier boolean connective application.
func NewBOpApp(op BoolOp, args ...BExpr) *BOpAppExpr {
	if op.IsQuantifier() {
		panic("sir: NewBOpApp called with a quantifier op; use NewForall/NewExists")
	}
	return &BOpAppExpr{Op: op, Args: args}
}

// NewForall constructs a universally quantified BExpr.
func NewForall(bound string, typ VType, body BExpr) *BOpAppExpr {
	return &BOpAppExpr{Op: BoolForall, Args: []BExpr{body}, Bound: bound, BoundType: typ}
}

// NewExists constructs an existentially quantified BExpr.
func NewExists(bound string, typ VType, body BExpr) *BOpAppExpr {
	return &BOpAppExpr{Op: BoolExists, Args: []BExpr{body}, Bound: bound, BoundType: typ}
}

// COpAppExpr applies a CompOp to value-expression operands, yielding Bool.
type COpAppExpr struct {
	Op   CompOp
	Args []VExpr
}

func (e *COpAppExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ", "))
}
func (*COpAppExpr) bexprNode() {}

// NewCOpApp constructs a comparison BExpr.
func NewCOpApp(op CompOp, args ...VExpr) *COpAppExpr {
	return &COpAppExpr{Op: op, Args: args}
}
