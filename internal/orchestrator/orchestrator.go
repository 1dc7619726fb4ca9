package orchestrator

import (
	"io"
	"log/slog"
	"sort"

	"rv2model/internal/builder"
	"rv2model/internal/cfg"
	"rv2model/internal/dwctx"
	"rv2model/internal/emitter"
	"rv2model/internal/lowering"
	"rv2model/internal/rverrors"
	"rv2model/internal/sir"
	"rv2model/internal/specparser"
	"rv2model/internal/systemmodel"
	"rv2model/internal/vir"
)

// Orchestrator wires the external collaborators (C7) into the C3 lowering
// passes, the C5 builder and the C6 emitter. Every collaborator is
// injected rather than constructed internally, the same "accept your
// collaborators, don't build them" shape vslc/src/main.go's run(opt)
// takes with util.Options, generalized so tests can swap in the
// cfgtest/dwtest fixtures wherever cmd/rv2model wires the real
// jsoncfg/elfdwarf adapters.
type Orchestrator struct {
	CFG     cfg.Cfg
	Dwarf   dwctx.Ctx
	Specs   specparser.Parser
	Table   systemmodel.Table
	Backend emitter.Backend
	Log     *slog.Logger
}

// New constructs an Orchestrator, defaulting Log to slog.Default() when
// the caller passes nil.
func New(c cfg.Cfg, dwarf dwctx.Ctx, specs specparser.Parser, table systemmodel.Table, backend emitter.Backend, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{CFG: c, Dwarf: dwarf, Specs: specs, Table: table, Backend: backend, Log: log}
}

// Run executes one end-to-end translation: it validates XLEN, parses and
// lowers spec files, builds a FuncModel per CFG function via internal/
// builder, and serializes the resulting Model via the configured emitter
// Backend, writing the result to out.
//
// XLEN != 64 is reported as both a log warning and a fatal
// UnsupportedConfiguration error, restoring original_source/src/main.rs's
// "warn if XLEN != 64" behavior underneath this core's stricter
// hard-fatal requirement. A caller sees the original tool's warning text
// in the logs even though this module never proceeds past it.
func (o *Orchestrator) Run(opt Options, out io.Writer) error {
	if opt.XLEN != 64 {
		o.Log.Warn("XLEN != 64 is not fully supported by this core", "xlen", opt.XLEN)
		return rverrors.Wrap(rverrors.UnsupportedConfiguration, "unsupported XLEN %d: only 64 is supported", opt.XLEN)
	}

	ignored := toSet(opt.IgnoreFuncs)

	specs, err := o.parseAndLowerSpecs(opt.SpecFiles)
	if err != nil {
		return err
	}

	model := vir.NewModel("rv2model")
	b := builder.New(o.CFG, o.Dwarf, o.Table, specs, ignored, opt.IgnoreSpecs, opt.XLEN, model)

	funcs := o.CFG.Funcs()
	names := make([]string, len(funcs))
	for i, f := range funcs {
		names[i] = f.Name
	}
	sort.Strings(names)

	for _, name := range names {
		o.Log.Debug("generating function model", "func", name)
		if err := b.GenFuncModel(name); err != nil {
			return rverrors.Wrapf(err, rverrors.Internal, "generating function model for %q", name)
		}
	}

	restrictMacros(o.Backend, opt.StructMacros, opt.ArrayMacros)

	text, err := o.Backend.ModelToString(opt.XLEN, model, o.Dwarf, ignored, opt.VerifyFuncs)
	if err != nil {
		return rverrors.Wrapf(err, rverrors.Internal, "serializing model")
	}
	if _, err := io.WriteString(out, text); err != nil {
		return rverrors.Wrapf(err, rverrors.Internal, "writing output")
	}
	return nil
}

// RunTemplate emits a spec template (the -t/--vectre_programs feature)
// instead of a translated model.
func (o *Orchestrator) RunTemplate(out io.Writer) error {
	text := specparser.GenerateTemplate(o.Dwarf)
	_, err := io.WriteString(out, text)
	if err != nil {
		return rverrors.Wrapf(err, rverrors.Internal, "writing spec template")
	}
	return nil
}

// parseAndLowerSpecs reads every spec file via o.Specs, then runs the C3
// pipeline (type inference, global resolution, constant folding, in that
// exact order: see internal/lowering's own tests) over each parsed
// FuncSpec before it reaches the builder.
func (o *Orchestrator) parseAndLowerSpecs(paths []string) (map[string]*sir.FuncSpec, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	raw, err := o.Specs.ProcessSpecFiles(paths)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*sir.FuncSpec, len(raw))
	for name, fs := range raw {
		lowered, err := lowering.RunTypeInfer(o.Dwarf, name, fs)
		if err != nil {
			return nil, rverrors.Wrapf(err, rverrors.TypeMismatch, "inferring types for spec %q", name)
		}
		lowered = lowering.RunResolveGlobals(o.Dwarf, lowered)
		lowered = lowering.RunConstFold(lowered)
		out[name] = lowered
	}
	return out, nil
}

func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// macroRestricter is implemented by emitter backends that support
// restricting struct/array macro emission to an explicit allow-list (the
// -m/-a flags). Backends that don't implement it simply keep emitting
// every discovered macro, which is the documented default behavior in
// either case.
type macroRestricter interface {
	RestrictMacros(structIDs, arraySizes []string)
}

func restrictMacros(b emitter.Backend, structIDs, arraySizes []string) {
	if len(structIDs) == 0 && len(arraySizes) == 0 {
		return
	}
	if r, ok := b.(macroRestricter); ok {
		r.RestrictMacros(structIDs, arraySizes)
	}
}
