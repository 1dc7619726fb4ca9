package uclid5

import (
	"fmt"
	"sort"
	"strings"

	"rv2model/internal/dwctx"
)

// indexByMacroName names the array-index-by-byte-size macro: one per
// distinct byte size found among globals and formal arguments.
func indexByMacroName(bytes uint64) string { return fmt.Sprintf("index_by_%d", bytes) }

// fieldMacroName names a struct field's offset macro.
func fieldMacroName(structID, field string) string { return fmt.Sprintf("%s_%s", structID, field) }

func globalVarMacroName(name string) string { return "global_var_" + name }
func globalFuncMacroName(name string) string { return "global_func_" + name }

// multiplyExpr builds "base_expr * bytes" as a sum of left-shifts over
// bytes's binary digits. Grounded literally on original_source's
// multiply_expr, which avoids a native SMT multiply in favor of addition
// over power-of-two left shifts of the index expression.
func multiplyExpr(bytes uint64, expr string, xlen uint64) string {
	acc := ""
	bit := uint64(0)
	for n := bytes; n > 0; n >>= 1 {
		if n&1 == 1 {
			term := fmt.Sprintf("bv_left_shift(%dbv%d, %s)", bit, xlen, expr)
			if acc == "" {
				acc = term
			} else {
				acc = term + " + " + acc
			}
		}
		bit++
	}
	if acc == "" {
		return fmt.Sprintf("0bv%d", xlen)
	}
	return acc
}

// genArrayDefn recursively emits index_by_<n> macros for t and, for
// Array/Struct/Pointer, its component types.
func genArrayDefn(t dwctx.TypeDefn, xlen uint64) []string {
	var out []string
	switch t.Kind() {
	case dwctx.KindPrimitive:
		if t.Bytes() == 0 {
			return nil
		}
		index := "index"
		if t.Bytes() != 1 {
			index = multiplyExpr(t.Bytes(), "index", xlen)
		}
		out = append(out, fmt.Sprintf("define %s(base: bv%d, index: bv%d): bv%d = base + %s;",
			indexByMacroName(t.Bytes()), xlen, xlen, xlen, index))
	case dwctx.KindArray:
		out = append(out, genArrayDefn(t.ArrayIndexType(), xlen)...)
		out = append(out, genArrayDefn(t.ArrayElem(), xlen)...)
	case dwctx.KindStruct:
		for _, name := range sortedFieldNames(t) {
			f, _ := t.Field(name)
			out = append(out, genArrayDefn(f.Typ, xlen)...)
		}
		if t.Bytes() > 0 {
			out = append(out, fmt.Sprintf("define %s(base: bv%d, index: bv%d): bv%d = base + %s;",
				indexByMacroName(t.Bytes()), xlen, xlen, xlen, multiplyExpr(t.Bytes(), "index", xlen)))
		}
	case dwctx.KindPointer:
		out = append(out, genArrayDefn(t.Pointee(), xlen)...)
	}
	return out
}

// genStructDefn recursively emits field-offset macros for t.
func genStructDefn(t dwctx.TypeDefn, xlen uint64) []string {
	var out []string
	switch t.Kind() {
	case dwctx.KindStruct:
		for _, name := range sortedFieldNames(t) {
			f, _ := t.Field(name)
			out = append(out, genStructDefn(f.Typ, xlen)...)
			out = append(out, fmt.Sprintf("define %s(ptr: bv%d): bv%d = ptr + %dbv%d;",
				fieldMacroName(t.StructID(), name), xlen, xlen, f.Loc, xlen))
		}
	case dwctx.KindArray:
		out = append(out, genStructDefn(t.ArrayIndexType(), xlen)...)
		out = append(out, genStructDefn(t.ArrayElem(), xlen)...)
	case dwctx.KindPointer:
		out = append(out, genStructDefn(t.Pointee(), xlen)...)
	}
	return out
}

func sortedFieldNames(t dwctx.TypeDefn) []string {
	fields := t.Fields()
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// collectTypes gathers every type definition reachable from dwarf's global
// variables, function signatures (args and return type), and named type
// map: the set the macro generation below walks.
func collectTypes(dwarf dwctx.Ctx) []dwctx.TypeDefn {
	var out []dwctx.TypeDefn
	for _, v := range dwarf.GlobalVars() {
		out = append(out, v.TypDefn)
	}
	sigs := dwarf.FuncSigs()
	names := make([]string, 0, len(sigs))
	for n := range sigs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		sig := sigs[n]
		for _, a := range sig.Args {
			out = append(out, a.TypDefn)
		}
		if sig.RetType != nil {
			out = append(out, *sig.RetType)
		}
	}
	typMap := dwarf.TypMap()
	typNames := make([]string, 0, len(typMap))
	for n := range typMap {
		typNames = append(typNames, n)
	}
	sort.Strings(typNames)
	for _, n := range typNames {
		out = append(out, typMap[n])
	}
	return out
}

func dedupSorted(ss []string) []string {
	if len(ss) == 0 {
		return ss
	}
	sort.Strings(ss)
	out := ss[:1]
	for _, s := range ss[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

// genArrayDefns builds the "Array helpers" section, restricted to
// allowSizes's macro ids when non-empty (the -a/--array-macros flag).
// By default every distinct size found is emitted.
func genArrayDefns(dwarf dwctx.Ctx, xlen uint64, allowSizes []string) string {
	var defns []string
	for _, t := range collectTypes(dwarf) {
		defns = append(defns, genArrayDefn(t, xlen)...)
	}
	defns = dedupSorted(defns)
	defns = filterDefnsByMacroName(defns, allowSizes)
	return "// Array helpers\n" + strings.Join(defns, "\n")
}

// genStructDefns builds the "Struct helpers" section, restricted to
// allowStructIDs's macro ids when non-empty (the -m/--struct-macros flag).
// By default every discovered struct/field is emitted.
func genStructDefns(dwarf dwctx.Ctx, xlen uint64, allowStructIDs []string) string {
	var defns []string
	for _, t := range collectTypes(dwarf) {
		defns = append(defns, genStructDefn(t, xlen)...)
	}
	defns = dedupSorted(defns)
	defns = filterDefnsByMacroName(defns, allowStructIDs)
	return "// Struct helpers\n" + strings.Join(defns, "\n")
}

// filterDefnsByMacroName keeps only the "define <name>(...)" lines whose
// <name> is in allow, or every line when allow is empty.
func filterDefnsByMacroName(defns []string, allow []string) []string {
	if len(allow) == 0 {
		return defns
	}
	allowed := make(map[string]bool, len(allow))
	for _, a := range allow {
		allowed[a] = true
	}
	var out []string
	for _, d := range defns {
		rest := strings.TrimPrefix(d, "define ")
		paren := strings.IndexByte(rest, '(')
		if paren < 0 {
			continue
		}
		name := rest[:paren]
		if allowed[name] {
			out = append(out, d)
		}
	}
	return out
}
