package builder

import (
	"sort"

	"rv2model/internal/cfg"
	"rv2model/internal/rverrors"
)

// topoSort orders fn's basic blocks so that for every intra-function CFG
// edge A -> B, A precedes B (a testable "topological order correctness"
// property). A successor that is itself another function's entry label,
// or that belongs to an ignored function, ends the walk at that edge
// without adding a dependency past it. Inter-function control flow is
// handled by the guarded-dispatch call clause, not by this ordering. Ties
// are broken by ascending address.
//
// Grounded on sunholo-data-ailang/internal/link/topo.go's DFS-based
// topological sort over a module-import graph: visited/inPath sets, and a
// reconstructed cycle path on failure, adapted here from import edges to
// CFG successor edges.
func topoSort(fn cfg.Func, otherEntries map[cfg.Address]bool, ignoredEntries map[cfg.Address]bool) ([]cfg.Address, error) {
	addrs := fn.BlockAddrs()

	const (
		white = iota
		gray
		black
	)
	state := make(map[cfg.Address]int, len(addrs))
	var order []cfg.Address
	var path []cfg.Address

	var visit func(a cfg.Address) error
	visit = func(a cfg.Address) error {
		switch state[a] {
		case black:
			return nil
		case gray:
			cyclePath := append(append([]cfg.Address{}, path...), a)
			return rverrors.Wrap(rverrors.CycleInCFG, "cycle in control-flow graph for function %q: %v", fn.Name, cyclePath)
		}
		state[a] = gray
		path = append(path, a)

		blk := fn.Blocks[a]
		if blk != nil {
			succs := append([]cfg.Address{}, blk.Succs...)
			sort.Slice(succs, func(i, j int) bool { return succs[i] > succs[j] })
			for _, s := range succs {
				if ignoredEntries[s] {
					continue // pruned: call into an ignored function, not a block dependency
				}
				if otherEntries[s] && s != fn.Entry {
					continue // inter-function edge: recorded by the caller via the guarded-dispatch clause, not ordering
				}
				if _, ok := fn.Blocks[s]; !ok {
					continue
				}
				if err := visit(s); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		state[a] = black
		order = append(order, a)
		return nil
	}

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] > addrs[j] })
	for _, a := range addrs {
		if err := visit(a); err != nil {
			return nil, err
		}
	}

	// visit appends in post-order (dependencies before dependents' own
	// post-order close), so reverse to get a forward topological order.
	// Roots and successors are visited in descending address order so that,
	// after the reversal, independent blocks come out in ascending order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
