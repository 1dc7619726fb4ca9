package lowering

import "rv2model/internal/sir"

// isLiteral reports whether e is a closed (variable-free) VExpr this
// package's folding logic can fold further: a Bv or Int literal.
func isLiteral(e sir.VExpr) bool {
	switch e.(type) {
	case *sir.BvExpr, *sir.IntExpr:
		return true
	default:
		return false
	}
}

// literalUint extracts the numeric value from a Bv or Int literal VExpr.
func literalUint(e sir.VExpr) (uint64, bool) {
	switch n := e.(type) {
	case *sir.BvExpr:
		return n.Value, true
	case *sir.IntExpr:
		return n.Value, true
	default:
		return 0, false
	}
}
