package specparser

import (
	"fmt"
	"sort"
	"strings"

	"rv2model/internal/dwctx"
)

// GenerateTemplate emits a skeleton textspec-syntax spec file, one func
// block per DWARF-declared function signature, with no assertions filled
// in. Restores original_source/src/lib.rs's spec_template_generator
// feature, so a user iterating on contracts has a starting point instead
// of writing a spec file from scratch.
func GenerateTemplate(dwarf dwctx.Ctx) string {
	sigs := dwarf.FuncSigs()
	names := make([]string, 0, len(sigs))
	for n := range sigs {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		sig := sigs[n]
		fmt.Fprintf(&b, "func %s {\n", n)
		if len(sig.Args) > 0 {
			argDescs := make([]string, len(sig.Args))
			for i, a := range sig.Args {
				argDescs[i] = fmt.Sprintf("%s: %s", a.Name, typeSummary(a.TypDefn))
			}
			fmt.Fprintf(&b, "    // args: %s\n", strings.Join(argDescs, ", "))
		}
		if sig.RetType != nil {
			fmt.Fprintf(&b, "    // returns: %s\n", typeSummary(*sig.RetType))
		}
		b.WriteString("    requires true;\n")
		b.WriteString("    ensures true;\n")
		b.WriteString("    modifies ;\n")
		b.WriteString("}\n\n")
	}
	return b.String()
}

func typeSummary(t dwctx.TypeDefn) string {
	switch t.Kind() {
	case dwctx.KindPrimitive:
		return fmt.Sprintf("bv%d", t.Bytes()*8)
	case dwctx.KindPointer:
		return fmt.Sprintf("*%s", typeSummary(t.Pointee()))
	case dwctx.KindArray:
		return fmt.Sprintf("[%s]%s", typeSummary(t.ArrayIndexType()), typeSummary(t.ArrayElem()))
	case dwctx.KindStruct:
		return "struct " + t.StructID()
	default:
		return "?"
	}
}
