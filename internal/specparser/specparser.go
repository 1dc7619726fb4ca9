// Package specparser defines the shape of the spec-file parser
// collaborator: "process_spec_files(seq<path>) -> seq<FuncSpec>", left as a
// pure external interface here. internal/specparser/textspec supplies a
// concrete hand-written recursive-descent parser for a small
// requires/ensures/modifies/track contract language.
package specparser

import "rv2model/internal/sir"

// Parser turns a set of spec-file paths into the FuncSpecs declared in them.
type Parser interface {
	// ProcessSpecFiles parses every path and returns the FuncSpecs found,
	// keyed by function name across all files combined.
	ProcessSpecFiles(paths []string) (map[string]*sir.FuncSpec, error)
}
