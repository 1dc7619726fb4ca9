package builder

import "rv2model/internal/vir"

// maskWidth truncates v to its low width bits, the wraparound semantics a
// fixed-width register or memory cell has in hardware, and the detail that
// keeps constProp's literal rebuilding from ever handing vir.BvLit a value
// that doesn't fit its width.
func maskWidth(v, width uint64) uint64 {
	if width >= 64 {
		return v
	}
	return v & ((uint64(1) << width) - 1)
}

func isVirLiteral(e vir.Expr) bool {
	_, ok := e.(*vir.LitExpr)
	return ok
}

func virLitUint(e vir.Expr) (uint64, bool) {
	l, ok := e.(*vir.LitExpr)
	if !ok {
		return 0, false
	}
	switch l.Lit.Kind() {
	case vir.LitBv, vir.LitInt:
		return l.Lit.Uint64(), true
	default:
		return 0, false
	}
}

func virLitBool(e vir.Expr) (bool, bool) {
	l, ok := e.(*vir.LitExpr)
	if !ok || l.Lit.Kind() != vir.LitBool {
		return false, false
	}
	return l.Lit.Bool(), true
}

// signExtendVir reinterprets the low width bits of v as two's complement.
func signExtendVir(v, width uint64) int64 {
	if width >= 64 {
		return int64(v)
	}
	signBit := uint64(1) << (width - 1)
	return int64((v ^ signBit) - signBit)
}

// evalConstOpApp attempts to collapse e into a literal once all of its
// operands are literal, mirroring internal/lowering's constant-folding
// table but over vir.Op/vir.Expr and extended to the comparison/boolean
// operators this pass also needs. ArrayIndex, GetField, Slice, and Concat
// are left untouched here: ArrayIndex is the constant-address
// memory-abstraction pass's job, and the other three are never folded at
// this stage in the source this module is derived from.
func evalConstOpApp(e *vir.OpAppExpr) vir.Expr {
	switch e.Op {
	case vir.OpArrayIndex, vir.OpGetField, vir.OpSlice, vir.OpConcat, vir.OpSignExt, vir.OpZeroExt:
		return e
	}
	for _, a := range e.Args {
		if !isVirLiteral(a) {
			return e
		}
	}

	switch e.Op {
	case vir.OpEq, vir.OpNe, vir.OpLtSigned, vir.OpLeSigned, vir.OpGtSigned, vir.OpGeSigned,
		vir.OpLtUnsigned, vir.OpLeUnsigned, vir.OpGtUnsigned, vir.OpGeUnsigned:
		a, _ := virLitUint(e.Args[0])
		b, _ := virLitUint(e.Args[1])
		w := e.Args[0].Type().Width()
		return vir.NewLit(vir.BoolLit(evalComparison(e.Op, a, b, w)))
	case vir.OpBoolAnd, vir.OpBoolOr, vir.OpIff, vir.OpImpl, vir.OpNeg:
		return evalBoolOp(e)
	case vir.OpAdd, vir.OpSub, vir.OpMul, vir.OpAnd, vir.OpOr, vir.OpXor:
		a, _ := virLitUint(e.Args[0])
		b, _ := virLitUint(e.Args[1])
		w := e.Args[0].Type().Width()
		return vir.NewLit(vir.BvLit(maskWidth(evalArith(e.Op, a, b), w), w))
	case vir.OpLeftShift, vir.OpLogicalRightShift, vir.OpArithRightShift:
		a, _ := virLitUint(e.Args[0])
		b, _ := virLitUint(e.Args[1])
		w := e.Args[0].Type().Width()
		return vir.NewLit(vir.BvLit(maskWidth(evalShift(e.Op, a, b, w), w), w))
	default:
		return e
	}
}

func evalArith(op vir.Op, a, b uint64) uint64 {
	switch op {
	case vir.OpAdd:
		return a + b
	case vir.OpSub:
		return a - b
	case vir.OpMul:
		return a * b
	case vir.OpAnd:
		return a & b
	case vir.OpOr:
		return a | b
	case vir.OpXor:
		return a ^ b
	default:
		return 0
	}
}

func evalShift(op vir.Op, base, amt, width uint64) uint64 {
	switch op {
	case vir.OpLeftShift:
		return base << amt
	case vir.OpLogicalRightShift:
		return base >> amt
	case vir.OpArithRightShift:
		return uint64(signExtendVir(base, width) >> amt)
	default:
		return 0
	}
}

func evalComparison(op vir.Op, a, b, width uint64) bool {
	switch op {
	case vir.OpEq:
		return a == b
	case vir.OpNe:
		return a != b
	case vir.OpLtUnsigned:
		return a < b
	case vir.OpLeUnsigned:
		return a <= b
	case vir.OpGtUnsigned:
		return a > b
	case vir.OpGeUnsigned:
		return a >= b
	case vir.OpLtSigned:
		return signExtendVir(a, width) < signExtendVir(b, width)
	case vir.OpLeSigned:
		return signExtendVir(a, width) <= signExtendVir(b, width)
	case vir.OpGtSigned:
		return signExtendVir(a, width) > signExtendVir(b, width)
	case vir.OpGeSigned:
		return signExtendVir(a, width) >= signExtendVir(b, width)
	default:
		return false
	}
}

func evalBoolOp(e *vir.OpAppExpr) vir.Expr {
	switch e.Op {
	case vir.OpNeg:
		a, _ := virLitBool(e.Args[0])
		return vir.NewLit(vir.BoolLit(!a))
	case vir.OpBoolAnd:
		a, _ := virLitBool(e.Args[0])
		b, _ := virLitBool(e.Args[1])
		return vir.NewLit(vir.BoolLit(a && b))
	case vir.OpBoolOr:
		a, _ := virLitBool(e.Args[0])
		b, _ := virLitBool(e.Args[1])
		return vir.NewLit(vir.BoolLit(a || b))
	case vir.OpIff:
		a, _ := virLitBool(e.Args[0])
		b, _ := virLitBool(e.Args[1])
		return vir.NewLit(vir.BoolLit(a == b))
	case vir.OpImpl:
		a, _ := virLitBool(e.Args[0])
		b, _ := virLitBool(e.Args[1])
		return vir.NewLit(vir.BoolLit(!a || b))
	default:
		return e
	}
}
