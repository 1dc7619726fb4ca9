package textspec

import (
	"fmt"

	"rv2model/internal/sir"
)

// parser is a recursive-descent parser over one spec file's token stream,
// producing sir.FuncSpecs. Grammar (informal):
//
//	file       := { func_spec }
//	func_spec  := "func" IDENT "{" { spec_item } "}"
//	spec_item  := "requires" bexpr ";"
//	            | "ensures" bexpr ";"
//	            | "modifies" [ IDENT { "," IDENT } ] ";"
//	            | "track" IDENT ":=" vexpr ";"
//	bexpr      := bor
//	bor        := band { "||" band }
//	band       := bnot { "&&" bnot }
//	bnot       := "!" bnot | batom
//	batom      := "true" | "false"
//	            | ("forall"|"exists") IDENT ":" type "." bexpr
//	            | "(" bexpr ")"
//	            | vexpr cmpop vexpr
//	cmpop      := "==" | "!=" | "<" | "<=" | ">" | ">=" | "<_u" | "<=_u" | ">_u" | ">=_u"
//	vexpr      := vadd
//	vadd       := vmul { ("+"|"-") vmul }
//	vmul       := vunary { ("*"|"/"|"&"|"|"|"^"|"<<"|">>"|">>>") vunary }
//	vunary     := "*" vunary | vpostfix
//	vpostfix   := vatom { "[" NUM ":" NUM "]" | "[" vexpr "]" | "." IDENT }
//	vatom      := BVNUM | NUM | IDENT
//	            | "old" "(" vexpr ")" | "value" "(" IDENT ")"
//	            | "sext" "(" NUM "," vexpr ")" | "uext" "(" NUM "," vexpr ")"
//	            | "(" vexpr ")"
//	type       := "bv" NUM | "bv<width>" | "int" | "bool"
type parser struct {
	lex *lexer
	tok token
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) atKeyword(kw string) bool { return p.tok.kind == tokKeyword && p.tok.val == kw }
func (p *parser) atSymbol(sym string) bool { return p.tok.kind == tokSymbol && p.tok.val == sym }

func (p *parser) expectSymbol(sym string) error {
	if !p.atSymbol(sym) {
		return fmt.Errorf("textspec: line %d: expected %q, got %q", p.tok.line, sym, p.tok.val)
	}
	return p.advance()
}

func (p *parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return fmt.Errorf("textspec: line %d: expected %q, got %q", p.tok.line, kw, p.tok.val)
	}
	return p.advance()
}

func (p *parser) expectIdent() (string, error) {
	if p.tok.kind != tokIdent {
		return "", fmt.Errorf("textspec: line %d: expected identifier, got %q", p.tok.line, p.tok.val)
	}
	name := p.tok.val
	return name, p.advance()
}

// parseFile parses every func_spec in one file's contents.
func (p *parser) parseFile() ([]*sir.FuncSpec, error) {
	var out []*sir.FuncSpec
	for p.tok.kind != tokEOF {
		fs, err := p.parseFuncSpec()
		if err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, nil
}

func (p *parser) parseFuncSpec() (*sir.FuncSpec, error) {
	if err := p.expectKeyword("func"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	fs := &sir.FuncSpec{FuncName: name}
	for !p.atSymbol("}") {
		item, err := p.parseSpecItem()
		if err != nil {
			return nil, err
		}
		fs.Specs = append(fs.Specs, item)
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return fs, nil
}

func (p *parser) parseSpecItem() (sir.Spec, error) {
	switch {
	case p.atKeyword("requires"):
		p.advance()
		cond, err := p.parseBExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
		return sir.NewRequires(cond), nil
	case p.atKeyword("ensures"):
		p.advance()
		cond, err := p.parseBExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
		return sir.NewEnsures(cond), nil
	case p.atKeyword("modifies"):
		p.advance()
		var names []string
		for p.tok.kind == tokIdent {
			names = append(names, p.tok.val)
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.atSymbol(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
		return sir.NewModifies(names...), nil
	case p.atKeyword("track"):
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":="); err != nil {
			return nil, err
		}
		expr, err := p.parseVExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
		return sir.NewTrack(name, expr), nil
	default:
		return nil, fmt.Errorf("textspec: line %d: expected a spec item, got %q", p.tok.line, p.tok.val)
	}
}

func (p *parser) parseBExpr() (sir.BExpr, error) { return p.parseBOr() }

func (p *parser) parseBOr() (sir.BExpr, error) {
	left, err := p.parseBAnd()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("||") {
		p.advance()
		right, err := p.parseBAnd()
		if err != nil {
			return nil, err
		}
		left = sir.NewBOpApp(sir.BoolOr, left, right)
	}
	return left, nil
}

func (p *parser) parseBAnd() (sir.BExpr, error) {
	left, err := p.parseBNot()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("&&") {
		p.advance()
		right, err := p.parseBNot()
		if err != nil {
			return nil, err
		}
		left = sir.NewBOpApp(sir.BoolAnd, left, right)
	}
	return left, nil
}

func (p *parser) parseBNot() (sir.BExpr, error) {
	if p.atSymbol("!") {
		p.advance()
		inner, err := p.parseBNot()
		if err != nil {
			return nil, err
		}
		return sir.NewBOpApp(sir.BoolNot, inner), nil
	}
	return p.parseBAtom()
}

func (p *parser) parseBAtom() (sir.BExpr, error) {
	switch {
	case p.atKeyword("true"):
		p.advance()
		return sir.NewBoolLit(true), nil
	case p.atKeyword("false"):
		p.advance()
		return sir.NewBoolLit(false), nil
	case p.atKeyword("forall"), p.atKeyword("exists"):
		isForall := p.atKeyword("forall")
		p.advance()
		bound, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("."); err != nil {
			return nil, err
		}
		body, err := p.parseBExpr()
		if err != nil {
			return nil, err
		}
		if isForall {
			return sir.NewForall(bound, typ, body), nil
		}
		return sir.NewExists(bound, typ, body), nil
	case p.atSymbol("("):
		p.advance()
		inner, err := p.parseBExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return p.parseComparison()
	}
}

var compOps = map[string]sir.CompOp{
	"==": sir.CompEq, "!=": sir.CompNe,
	"<": sir.CompLtSigned, "<=": sir.CompLeSigned, ">": sir.CompGtSigned, ">=": sir.CompGeSigned,
	"<_u": sir.CompLtUnsigned, "<=_u": sir.CompLeUnsigned, ">_u": sir.CompGtUnsigned, ">=_u": sir.CompGeUnsigned,
}

func (p *parser) parseComparison() (sir.BExpr, error) {
	left, err := p.parseVExpr()
	if err != nil {
		return nil, err
	}
	op, ok := compOps[p.tok.val]
	if p.tok.kind != tokSymbol || !ok {
		return nil, fmt.Errorf("textspec: line %d: expected a comparison operator, got %q", p.tok.line, p.tok.val)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseVExpr()
	if err != nil {
		return nil, err
	}
	return sir.NewCOpApp(op, left, right), nil
}

func (p *parser) parseType() (sir.VType, error) {
	switch {
	case p.atKeyword("bv"):
		p.advance()
		if p.tok.kind != tokNumber {
			return sir.VType{}, fmt.Errorf("textspec: line %d: expected a width after \"bv\"", p.tok.line)
		}
		w := p.tok.num
		if err := p.advance(); err != nil {
			return sir.VType{}, err
		}
		return sir.VBv(uint16(w)), nil
	case p.atKeyword("int"):
		p.advance()
		return sir.VIntType, nil
	case p.atKeyword("bool"):
		p.advance()
		return sir.VBoolType, nil
	case p.tok.kind == tokIdent && len(p.tok.val) > 2 && p.tok.val[:2] == "bv":
		// "bv64" written as one word scans as a single identifier.
		var w uint64
		if _, err := fmt.Sscanf(p.tok.val, "bv%d", &w); err != nil || w == 0 {
			return sir.VType{}, fmt.Errorf("textspec: line %d: expected a type, got %q", p.tok.line, p.tok.val)
		}
		if err := p.advance(); err != nil {
			return sir.VType{}, err
		}
		return sir.VBv(uint16(w)), nil
	default:
		return sir.VType{}, fmt.Errorf("textspec: line %d: expected a type, got %q", p.tok.line, p.tok.val)
	}
}

func (p *parser) parseVExpr() (sir.VExpr, error) { return p.parseVAdd() }

func (p *parser) parseVAdd() (sir.VExpr, error) {
	left, err := p.parseVMul()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("+") || p.atSymbol("-") {
		op := sir.VOpAdd
		if p.tok.val == "-" {
			op = sir.VOpSub
		}
		p.advance()
		right, err := p.parseVMul()
		if err != nil {
			return nil, err
		}
		left = sir.NewVOpApp(op, sir.VUnknown, left, right)
	}
	return left, nil
}

var mulOps = map[string]sir.VOp{
	"*": sir.VOpMul, "/": sir.VOpDiv, "&": sir.VOpAnd, "|": sir.VOpOr, "^": sir.VOpXor,
	"<<": sir.VOpLeftShift, ">>": sir.VOpLogicalRightShift, ">>>": sir.VOpArithRightShift,
}

func (p *parser) parseVMul() (sir.VExpr, error) {
	left, err := p.parseVUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := mulOps[p.tok.val]
		if p.tok.kind != tokSymbol || !ok {
			break
		}
		p.advance()
		right, err := p.parseVUnary()
		if err != nil {
			return nil, err
		}
		left = sir.NewVOpApp(op, sir.VUnknown, left, right)
	}
	return left, nil
}

func (p *parser) parseVUnary() (sir.VExpr, error) {
	if p.atSymbol("*") {
		p.advance()
		inner, err := p.parseVUnary()
		if err != nil {
			return nil, err
		}
		return sir.NewDeref(inner, sir.VUnknown), nil
	}
	return p.parseVPostfix()
}

func (p *parser) parseVPostfix() (sir.VExpr, error) {
	expr, err := p.parseVAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atSymbol("."):
			p.advance()
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = sir.NewGetFieldV(expr, field, sir.VUnknown)
		case p.atSymbol("["):
			p.advance()
			if p.tok.kind == tokNumber {
				hi := p.tok.num
				if err := p.advance(); err != nil {
					return nil, err
				}
				if p.atSymbol(":") {
					p.advance()
					if p.tok.kind != tokNumber {
						return nil, fmt.Errorf("textspec: line %d: expected a slice lower bound", p.tok.line)
					}
					lo := p.tok.num
					if err := p.advance(); err != nil {
						return nil, err
					}
					if err := p.expectSymbol("]"); err != nil {
						return nil, err
					}
					expr = sir.NewSliceV(expr, hi, lo, sir.VUnknown)
					continue
				}
				idx := sir.NewInt(hi)
				if err := p.expectSymbol("]"); err != nil {
					return nil, err
				}
				expr = sir.NewVOpApp(sir.VOpArrayIndex, sir.VUnknown, expr, idx)
				continue
			}
			idx, err := p.parseVExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol("]"); err != nil {
				return nil, err
			}
			expr = sir.NewVOpApp(sir.VOpArrayIndex, sir.VUnknown, expr, idx)
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseVAtom() (sir.VExpr, error) {
	switch {
	case p.tok.kind == tokBvNumber:
		v, w := p.tok.num, p.tok.width
		if err := p.advance(); err != nil {
			return nil, err
		}
		return sir.NewBv(v, sir.VBv(uint16(w))), nil
	case p.tok.kind == tokNumber:
		v := p.tok.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return sir.NewInt(v), nil
	case p.tok.kind == tokIdent:
		name := p.tok.val
		if err := p.advance(); err != nil {
			return nil, err
		}
		return sir.NewIdent(name, sir.VUnknown), nil
	case p.atKeyword("old"):
		p.advance()
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		inner, err := p.parseVExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return sir.NewFuncApp("old", sir.VUnknown, inner), nil
	case p.atKeyword("value"):
		p.advance()
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return sir.NewFuncApp("value", sir.VUnknown, sir.NewIdent(name, sir.VUnknown)), nil
	case p.atKeyword("sext"), p.atKeyword("uext"):
		// sext/uext(amount, value): amount-first so the built-in's Args
		// order matches Pass 1's args[0]=literal-amount, args[1]=value
		// convention directly, with no reordering at lowering.
		name := p.tok.val
		p.advance()
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		if p.tok.kind != tokNumber {
			return nil, fmt.Errorf("textspec: line %d: expected a numeric extension amount", p.tok.line)
		}
		amount := sir.NewInt(p.tok.num)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
		value, err := p.parseVExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return sir.NewFuncApp(name, sir.VUnknown, amount, value), nil
	case p.atSymbol("("):
		p.advance()
		inner, err := p.parseVExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("textspec: line %d: expected a value expression, got %q", p.tok.line, p.tok.val)
	}
}
