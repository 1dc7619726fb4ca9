// Package emitter defines the shape of the pluggable backend emitter (C6):
// serializing a VIR Model plus its DWARF context into one
// verifier-surface-syntax textual module. internal/emitter/uclid5 supplies
// the default concrete Backend, grounded on original_source's
// verification_interfaces/uclidinterface.rs; the interface here keeps the
// backend swappable the way vslc/src/backend/riscv and vslc/src/backend/arm
// are two interchangeable code-generation packages behind one call shape.
package emitter

import (
	"rv2model/internal/dwctx"
	"rv2model/internal/vir"
)

// Backend turns a translation run's materialized Model into the verifier's
// textual module (the serialization contract built around a single
// external function "model_to_string"). A Backend is stateless: every input
// it needs is passed explicitly on each call, nothing is cached across
// calls.
type Backend interface {
	// ModelToString serializes model for the given xlen, using dwarf to
	// resolve array/struct/global helper macros, restricting (or not) the
	// control block's verify list per ignoredFuncs/verifyFuncs.
	ModelToString(xlen uint64, model *vir.Model, dwarf dwctx.Ctx, ignoredFuncs map[string]bool, verifyFuncs []string) (string, error)
}
