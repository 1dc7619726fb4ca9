// Command rv2model translates a RISC-V binary's control-flow graph and
// DWARF debug info into a UCLID5 verification model.
//
// Grounded on vslc/src/main.go's run(opt)/main() split: main parses
// arguments, wires concrete collaborators and exits non-zero on error;
// run (here, Orchestrator.Run) carries the actual pipeline logic so it
// stays testable without a process boundary.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"rv2model/internal/cfg/jsoncfg"
	"rv2model/internal/dwctx/elfdwarf"
	"rv2model/internal/emitter/uclid5"
	"rv2model/internal/orchestrator"
	"rv2model/internal/specparser/textspec"
	"rv2model/internal/systemmodel/rv64g"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rv2model: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opt, err := orchestrator.ParseArgs(args)
	if err != nil {
		return err
	}
	opt, err = orchestrator.ResolveConfig(opt)
	if err != nil {
		return err
	}

	logger := newLogger(opt)

	dwarf, err := elfdwarf.Open(opt.BinaryPath, opt.XLEN)
	if err != nil {
		return err
	}

	out := os.Stdout
	if opt.OutPath != "" {
		f, err := os.OpenFile(opt.OutPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening output file %q: %w", opt.OutPath, err)
		}
		defer f.Close()
		return runWith(opt, dwarf, logger, f)
	}
	return runWith(opt, dwarf, logger, out)
}

func runWith(opt orchestrator.Options, dwarf *elfdwarf.Ctx, logger *slog.Logger, out *os.File) error {
	if opt.TemplateMode {
		o := orchestrator.New(nil, dwarf, textspec.New(), rv64g.New(), uclid5.New(), logger)
		return o.RunTemplate(out)
	}

	c, err := jsoncfg.LoadFile(opt.CfgPath)
	if err != nil {
		return err
	}

	o := orchestrator.New(c, dwarf, textspec.New(), rv64g.New(), uclid5.New(), logger)
	return o.Run(opt, out)
}

func newLogger(opt orchestrator.Options) *slog.Logger {
	level := slog.LevelInfo
	if opt.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if opt.JSONLog {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}
