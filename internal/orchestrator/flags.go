// Package orchestrator is the C7 driver: it parses CLI flags and an
// optional YAML config file, wires the external collaborators (CFG
// provider, DWARF context, spec parser) into the C3 lowering passes, the
// C5 builder and the C6 emitter, and writes the resulting module text.
//
// Grounded on vslc/src/main.go's run(opt) pipeline shape and
// vslc/src/util/args.go's hand-rolled flag loop, itself replaced here by
// the standard library flag package (vslc hand-rolls its own flag loop
// rather than using the stdlib package, but no corpus repo pulls in a
// third-party CLI framework, so stdlib flag is this module's version of
// the same "no CLI framework dependency" idiom).
package orchestrator

import (
	"flag"
	"fmt"
	"strings"
)

// stringList implements flag.Value, accumulating one or more
// comma-separated flag occurrences into a single de-duplication-free list
// (the same repeatable-flag shape vslc/util.ParseArgs emulates with its
// hand-rolled arg loop, done here with flag.Var instead).
type stringList struct {
	values *[]string
}

func (s stringList) String() string {
	if s.values == nil || *s.values == nil {
		return ""
	}
	return strings.Join(*s.values, ",")
}

func (s stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*s.values = append(*s.values, part)
		}
	}
	return nil
}

// Options is the fully-resolved configuration for one orchestrator run,
// after CLI flags and (optionally) a YAML config file have been merged.
type Options struct {
	BinaryPath   string // path to the ELF binary DWARF is read from
	CfgPath      string // path to the JSON control-flow-graph document
	ConfigPath   string // path to an optional YAML config file
	OutPath      string // output path; empty means stdout
	SpecFiles    []string
	IgnoreFuncs  []string
	VerifyFuncs  []string
	StructMacros []string
	ArrayMacros  []string
	IgnoreSpecs  bool
	XLEN         uint64
	TemplateMode bool // -t/--vectre_programs: emit a spec template instead of a model
	JSONLog      bool
	Verbose      bool
}

// ParseArgs parses command-line arguments into Options. It does not read
// any file; ResolveConfig merges in a YAML config file afterward.
func ParseArgs(args []string) (Options, error) {
	fs := flag.NewFlagSet("rv2model", flag.ContinueOnError)

	opt := Options{XLEN: 64}
	fs.StringVar(&opt.BinaryPath, "b", "", "path to the ELF binary DWARF debug info is read from")
	fs.StringVar(&opt.CfgPath, "cfg", "", "path to the JSON control-flow-graph document produced by an external disassembler")
	fs.StringVar(&opt.ConfigPath, "config", "", "path to an optional YAML config file (-c)")
	fs.StringVar(&opt.ConfigPath, "c", "", "shorthand for -config")
	fs.StringVar(&opt.OutPath, "o", "", "output path; defaults to stdout")
	fs.Uint64Var(&opt.XLEN, "xlen", 64, "target XLEN; only 64 is supported")
	fs.BoolVar(&opt.IgnoreSpecs, "ignore-specs", false, "drop parsed requires/ensures/modifies/track contracts from every FuncModel")
	fs.BoolVar(&opt.TemplateMode, "t", false, "emit a spec template (skeleton requires/ensures/modifies block per DWARF function) instead of a model")
	fs.BoolVar(&opt.TemplateMode, "vectre_programs", false, "alias for -t")
	fs.BoolVar(&opt.JSONLog, "json-log", false, "emit structured logs as JSON instead of text")
	fs.BoolVar(&opt.Verbose, "v", false, "verbose (debug-level) logging")

	fs.Var(stringList{&opt.SpecFiles}, "s", "path to a spec file (repeatable, or comma-separated)")
	fs.Var(stringList{&opt.IgnoreFuncs}, "i", "function name to ignore, emitting an empty stub (repeatable, or comma-separated)")
	fs.Var(stringList{&opt.VerifyFuncs}, "f", "function name to include in the control block's verify list (repeatable, or comma-separated); default is every DWARF-signed, non-ignored function")
	fs.Var(stringList{&opt.StructMacros}, "m", "struct macro id to restrict emission to (repeatable, or comma-separated); default is every discovered struct")
	fs.Var(stringList{&opt.ArrayMacros}, "a", "array-size macro id to restrict emission to (repeatable, or comma-separated); default is every discovered size")

	if err := fs.Parse(args); err != nil {
		return opt, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return opt, fmt.Errorf("unexpected positional argument(s): %v", rest)
	}
	return opt, nil
}
