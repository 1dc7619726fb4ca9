package builder

import "rv2model/internal/vir"

// modifiesSet walks a statement tree and accumulates the set of names it
// may write: pc and returned are always included; every
// Assign contributes its LHS elements' base variable names; every FuncCall
// unions the callee's memoized modifies set (calleeModSets, keyed by
// callee name) plus its own LHS names; IfThenElse/Block recurse.
func modifiesSet(s vir.Stmt, calleeModSets map[string]map[string]struct{}) map[string]struct{} {
	set := map[string]struct{}{"pc": {}, "returned": {}}
	addStmt(s, set, calleeModSets)
	return set
}

func addStmt(s vir.Stmt, set map[string]struct{}, calleeModSets map[string]map[string]struct{}) {
	switch n := s.(type) {
	case *vir.AssignStmt:
		for _, l := range n.Lhs {
			if name, ok := baseName(l); ok {
				set[name] = struct{}{}
			}
		}
	case *vir.FuncCallStmt:
		if cm, ok := calleeModSets[n.Name]; ok {
			for k := range cm {
				set[k] = struct{}{}
			}
		}
		for _, l := range n.Lhs {
			if name, ok := baseName(l); ok {
				set[name] = struct{}{}
			}
		}
	case *vir.IfThenElseStmt:
		addStmt(n.Then, set, calleeModSets)
		if n.Else != nil {
			addStmt(n.Else, set, calleeModSets)
		}
	case *vir.BlockStmt:
		for _, st := range n.Stmts {
			addStmt(st, set, calleeModSets)
		}
	case *vir.AssumeStmt, *vir.CommentStmt:
		// no writes
	}
}

// baseName extracts an assignable expression's base variable name without
// vir.AssignBase's panic-on-mismatch: a LHS this pass doesn't recognize is
// simply not counted rather than aborting modifies-set computation.
func baseName(e vir.Expr) (string, bool) {
	switch v := e.(type) {
	case *vir.VarExpr:
		return v.Name, true
	case *vir.OpAppExpr:
		if v.Op == vir.OpArrayIndex {
			if base, ok := v.Args[0].(*vir.VarExpr); ok {
				return base.Name, true
			}
		}
	}
	return "", false
}
