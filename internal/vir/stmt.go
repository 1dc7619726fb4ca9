package vir

import (
	"fmt"
	"strings"
)

// Stmt is the VIR statement sum type: Assume | FuncCall | Assign |
// IfThenElse | Block | Comment.
type Stmt interface {
	String() string
	stmtNode()
}

// AssumeStmt asserts a boolean condition holds at this program point.
type AssumeStmt struct {
	Cond Expr
}

func (s *AssumeStmt) String() string { return fmt.Sprintf("assume %s;", s.Cond) }
func (*AssumeStmt) stmtNode()        {}

// NewAssume constructs an Assume statement. Panics if Cond is not Bool
// typed.
func NewAssume(cond Expr) *AssumeStmt {
	if cond.Type().Kind() != KindBool {
		panic(fmt.Sprintf("vir: Assume condition must be Bool, got %s", cond.Type()))
	}
	return &AssumeStmt{Cond: cond}
}

// FuncCallStmt calls a named procedure, binding its outputs to lhs.
type FuncCallStmt struct {
	Name string
	Lhs  []Expr
	Args []Expr
}

func (s *FuncCallStmt) String() string {
	lhs := make([]string, len(s.Lhs))
	for i, e := range s.Lhs {
		lhs[i] = e.String()
	}
	args := make([]string, len(s.Args))
	for i, e := range s.Args {
		args[i] = e.String()
	}
	prefix := ""
	if len(lhs) > 0 {
		prefix = strings.Join(lhs, ", ") + " = "
	}
	return fmt.Sprintf("%scall %s(%s);", prefix, s.Name, strings.Join(args, ", "))
}
func (*FuncCallStmt) stmtNode() {}

// NewFuncCall constructs a FuncCall statement.
func NewFuncCall(name string, lhs, args []Expr) *FuncCallStmt {
	return &FuncCallStmt{Name: name, Lhs: lhs, Args: args}
}

// AssignStmt is a parallel assignment: |lhs| == |rhs|, each lhs element a
// Var or an ArrayIndex whose base is a Var.
type AssignStmt struct {
	Lhs []Expr
	Rhs []Expr
}

func (s *AssignStmt) String() string {
	lhs := make([]string, len(s.Lhs))
	for i, e := range s.Lhs {
		lhs[i] = e.String()
	}
	rhs := make([]string, len(s.Rhs))
	for i, e := range s.Rhs {
		rhs[i] = e.String()
	}
	return fmt.Sprintf("%s = %s;", strings.Join(lhs, ", "), strings.Join(rhs, ", "))
}
func (*AssignStmt) stmtNode() {}

// assignableBase returns the base Var of an assignable LHS expression, and
// whether lhs is in fact assignable (a Var, or an ArrayIndex over a Var).
func assignableBase(lhs Expr) (*VarExpr, bool) {
	switch e := lhs.(type) {
	case *VarExpr:
		return e, true
	case *OpAppExpr:
		if e.Op == OpArrayIndex {
			if v, ok := e.Args[0].(*VarExpr); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// AssignBase returns the base variable name written by an assignable LHS
// expression. Used by modifies-set inference.
func AssignBase(lhs Expr) string {
	v, ok := assignableBase(lhs)
	if !ok {
		panic(fmt.Sprintf("vir: %s is not an assignable LHS", lhs))
	}
	return v.Name
}

// NewAssign constructs a parallel Assign statement. Panics if arities
// mismatch or any LHS element is not a Var/ArrayIndex-of-Var.
func NewAssign(lhs, rhs []Expr) *AssignStmt {
	if len(lhs) != len(rhs) {
		panic(fmt.Sprintf("vir: Assign arity mismatch: %d lhs vs %d rhs", len(lhs), len(rhs)))
	}
	for _, l := range lhs {
		if _, ok := assignableBase(l); !ok {
			panic(fmt.Sprintf("vir: %s is not an assignable LHS (must be Var or ArrayIndex of Var)", l))
		}
	}
	return &AssignStmt{Lhs: lhs, Rhs: rhs}
}

// IfThenElseStmt is a two-armed conditional; Else may be nil.
type IfThenElseStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

func (s *IfThenElseStmt) String() string {
	if s.Else == nil {
		return fmt.Sprintf("if (%s) { %s }", s.Cond, s.Then)
	}
	return fmt.Sprintf("if (%s) { %s } else { %s }", s.Cond, s.Then, s.Else)
}
func (*IfThenElseStmt) stmtNode() {}

// NewIfThenElse constructs a conditional statement. Panics if Cond is not
// Bool typed.
func NewIfThenElse(cond Expr, then Stmt, els Stmt) *IfThenElseStmt {
	if cond.Type().Kind() != KindBool {
		panic(fmt.Sprintf("vir: IfThenElse condition must be Bool, got %s", cond.Type()))
	}
	return &IfThenElseStmt{Cond: cond, Then: then, Else: els}
}

// BlockStmt sequences statements.
type BlockStmt struct {
	Stmts []Stmt
}

func (s *BlockStmt) String() string {
	parts := make([]string, len(s.Stmts))
	for i, st := range s.Stmts {
		parts[i] = st.String()
	}
	return strings.Join(parts, " ")
}
func (*BlockStmt) stmtNode() {}

// NewBlock constructs a Block statement.
func NewBlock(stmts ...Stmt) *BlockStmt { return &BlockStmt{Stmts: stmts} }

// CommentStmt carries free text with no semantic effect.
type CommentStmt struct {
	Text string
}

func (s *CommentStmt) String() string { return fmt.Sprintf("// %s", s.Text) }
func (*CommentStmt) stmtNode()        {}

// NewComment constructs a Comment statement.
func NewComment(text string) *CommentStmt { return &CommentStmt{Text: text} }
