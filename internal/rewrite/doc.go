// Package rewrite implements a narrow, generic AST-folding framework
// applicable to both sir and vir trees, carrying a caller-supplied context
// type C through every callback.
//
// The source this module is derived from used a visitor with a pair of
// hooks per node kind (visit_X recurses then delegates to rewrite_X, which
// defaults to identity). That shape is worth reconsidering in a strongly
// typed language; this package instead uses a narrower Folder[T] per AST
// with default recursion helpers instead of a per-node rewrite_X for every
// variant.
//
// Each AST gets one generic Folder interface (ExprFolder[C], StmtFolder[C],
// VExprFolder[C], BExprFolder[C], SpecFolder[C]) with one Fold<Kind> method
// per node variant, plus a Default<Name>Folder[C] struct supplying
// identity, bottom-up recursion for every variant. A concrete pass embeds
// the Default folder and overrides only the Fold<Kind> methods it needs;
// overridden methods still see recursively-folded children because the
// Default folder's recursive cases dispatch through an embedded Self
// reference back to the outer, fully-overridden folder rather than to
// themselves (the standard Go substitute for the virtual-dispatch a
// class-based visitor gets for free).
//
// The framework itself never mutates shared state: any context-level
// bookkeeping (for example internal/lowering Pass 1's quantifier
// bound-name scope map) happens inside the concrete Fold<Kind> overrides,
// via the context value they receive.
package rewrite
