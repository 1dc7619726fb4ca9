package sir

import (
	"fmt"
	"sort"
	"strings"
)

// Spec is the SIR contract-item sum type: Requires(BExpr) | Ensures(BExpr)
// | Modifies(set<string>) | Track(name, VExpr).
type Spec interface {
	String() string
	specNode()
}

// RequiresSpec is a precondition.
type RequiresSpec struct{ Cond BExpr }

func (s *RequiresSpec) String() string { return fmt.Sprintf("requires %s;", s.Cond) }
func (*RequiresSpec) specNode()        {}

// NewRequires constructs a Requires Spec.
func NewRequires(cond BExpr) *RequiresSpec { return &RequiresSpec{Cond: cond} }

// EnsuresSpec is a postcondition.
type EnsuresSpec struct{ Cond BExpr }

func (s *EnsuresSpec) String() string { return fmt.Sprintf("ensures %s;", s.Cond) }
func (*EnsuresSpec) specNode()        {}

// NewEnsures constructs an Ensures Spec.
func NewEnsures(cond BExpr) *EnsuresSpec { return &EnsuresSpec{Cond: cond} }

// ModifiesSpec declares the set of named locations a function may write.
type ModifiesSpec struct{ Names map[string]struct{} }

func (s *ModifiesSpec) String() string {
	names := s.Sorted()
	return fmt.Sprintf("modifies %s;", strings.Join(names, ", "))
}
func (*ModifiesSpec) specNode() {}

// Sorted returns the declared names in sorted order.
func (s *ModifiesSpec) Sorted() []string {
	out := make([]string, 0, len(s.Names))
	for n := range s.Names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// NewModifies constructs a Modifies Spec from a set of names.
func NewModifies(names ...string) *ModifiesSpec {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return &ModifiesSpec{Names: m}
}

// TrackSpec names a value expression to report in the verifier's output for
// diagnostic purposes, unrelated to pre/post correctness.
type TrackSpec struct {
	Name string
	Expr VExpr
}

func (s *TrackSpec) String() string { return fmt.Sprintf("track %s := %s;", s.Name, s.Expr) }
func (*TrackSpec) specNode()        {}

// NewTrack constructs a Track Spec.
func NewTrack(name string, expr VExpr) *TrackSpec { return &TrackSpec{Name: name, Expr: expr} }

// FuncSpec groups the Specs declared for one function.
type FuncSpec struct {
	FuncName string
	Specs    []Spec
}

// Requires returns only the Requires items, in declaration order.
func (fs *FuncSpec) Requires() []*RequiresSpec {
	var out []*RequiresSpec
	for _, s := range fs.Specs {
		if r, ok := s.(*RequiresSpec); ok {
			out = append(out, r)
		}
	}
	return out
}

// Ensures returns only the Ensures items, in declaration order.
func (fs *FuncSpec) Ensures() []*EnsuresSpec {
	var out []*EnsuresSpec
	for _, s := range fs.Specs {
		if e, ok := s.(*EnsuresSpec); ok {
			out = append(out, e)
		}
	}
	return out
}

// Tracked returns only the Track items, in declaration order.
func (fs *FuncSpec) Tracked() []*TrackSpec {
	var out []*TrackSpec
	for _, s := range fs.Specs {
		if t, ok := s.(*TrackSpec); ok {
			out = append(out, t)
		}
	}
	return out
}

// ModifiesSet unions every Modifies item's names into one set.
func (fs *FuncSpec) ModifiesSet() map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range fs.Specs {
		if m, ok := s.(*ModifiesSpec); ok {
			for n := range m.Names {
				out[n] = struct{}{}
			}
		}
	}
	return out
}
