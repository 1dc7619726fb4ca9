package lowering

import (
	"fmt"

	"rv2model/internal/sir"
)

// systemIdentType resolves the fixed set of "system" identifiers given
// first-match priority: PC, the returned flag, privilege level,
// byte/half/word/double memory arrays, and the architectural register
// names. Returns ok=false for anything else, so callers fall through to
// formal-argument/scope/global resolution.
func systemIdentType(name string, xlen uint64) (sir.VType, bool) {
	w := uint16(xlen)
	switch name {
	case "pc":
		return sir.VBv(w), true
	case "returned":
		return sir.VBoolType, true
	case "priv":
		return sir.VBv(2), true
	case "mem_b":
		return sir.VArray([]sir.VType{sir.VBv(w)}, sir.VBv(8)), true
	case "mem_h":
		return sir.VArray([]sir.VType{sir.VBv(w)}, sir.VBv(16)), true
	case "mem_w":
		return sir.VArray([]sir.VType{sir.VBv(w)}, sir.VBv(32)), true
	case "mem_d":
		return sir.VArray([]sir.VType{sir.VBv(w)}, sir.VBv(64)), true
	}
	if _, ok := registerNames[name]; ok {
		return sir.VBv(w), true
	}
	return sir.VType{}, false
}

// registerNames is the RISC-V integer ABI register name set (x0-x31 plus
// their ABI aliases), every one of which names a Bv(xlen) state variable.
var registerNames = buildRegisterNames()

func buildRegisterNames() map[string]struct{} {
	names := []string{
		"zero", "ra", "sp", "gp", "tp",
		"t0", "t1", "t2", "t3", "t4", "t5", "t6",
		"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
		"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
		"fp",
	}
	out := make(map[string]struct{}, len(names)+32)
	for _, n := range names {
		out[n] = struct{}{}
	}
	for i := 0; i < 32; i++ {
		out[fmt.Sprintf("x%d", i)] = struct{}{}
	}
	return out
}
