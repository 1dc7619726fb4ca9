package orchestrator

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/cfg"
	"rv2model/internal/cfg/cfgtest"
	"rv2model/internal/dwctx"
	"rv2model/internal/dwctx/dwtest"
	"rv2model/internal/emitter/uclid5"
	"rv2model/internal/rverrors"
	"rv2model/internal/specparser/textspec"
	"rv2model/internal/systemmodel/rv64g"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestRun_RejectsXLENOtherThan64(t *testing.T) {
	o := New(cfgtest.New(), dwtest.New(32), textspec.New(), rv64g.New(), uclid5.New(), discardLogger())
	var out bytes.Buffer
	err := o.Run(Options{XLEN: 32}, &out)
	require.Error(t, err)
	require.True(t, errors.Is(err, rverrors.UnsupportedConfiguration))
	require.Empty(t, out.String())
}

func TestRun_BuildsAndEmitsModelForEveryCFGFunction(t *testing.T) {
	fn := cfgtest.LinearFunc("leaf", 0x1000, cfg.Instruction{
		Addr: 0x1000, Mnemonic: "addi", Rd: "x5", Rs1: "zero", Imm: 3, HasImm: true, Size: 4,
	})
	c := cfgtest.New().WithFunc(fn)
	dw := dwtest.New(64).WithFuncSig("leaf", dwctx.FuncSig{})

	o := New(c, dw, textspec.New(), rv64g.New(), uclid5.New(), discardLogger())
	var out bytes.Buffer
	err := o.Run(Options{XLEN: 64}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "procedure leaf(")
	require.Contains(t, out.String(), "fleaf = verify(leaf);")
}

func TestRun_IgnoredFunctionGetsStubAndNoVerifyEntry(t *testing.T) {
	fn := cfgtest.LinearFunc("leaf", 0x1000, cfg.Instruction{
		Addr: 0x1000, Mnemonic: "addi", Rd: "x5", Rs1: "zero", Imm: 3, HasImm: true, Size: 4,
	})
	c := cfgtest.New().WithFunc(fn)
	dw := dwtest.New(64).WithFuncSig("leaf", dwctx.FuncSig{})

	o := New(c, dw, textspec.New(), rv64g.New(), uclid5.New(), discardLogger())
	var out bytes.Buffer
	err := o.Run(Options{XLEN: 64, IgnoreFuncs: []string{"leaf"}}, &out)
	require.NoError(t, err)
	require.NotContains(t, out.String(), "fleaf = verify(leaf);")
}

func TestRun_ParsesAndLowersSpecFiles(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "leaf.spec")
	require.NoError(t, os.WriteFile(specPath, []byte("func leaf {\n    requires true;\n}\n"), 0o644))

	fn := cfgtest.LinearFunc("leaf", 0x1000, cfg.Instruction{
		Addr: 0x1000, Mnemonic: "addi", Rd: "x5", Rs1: "zero", Imm: 3, HasImm: true, Size: 4,
	})
	c := cfgtest.New().WithFunc(fn)
	dw := dwtest.New(64).WithFuncSig("leaf", dwctx.FuncSig{})

	o := New(c, dw, textspec.New(), rv64g.New(), uclid5.New(), discardLogger())
	var out bytes.Buffer
	err := o.Run(Options{XLEN: 64, SpecFiles: []string{specPath}}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "requires true;")
}

func TestRunTemplate_EmitsSkeletonSpecFile(t *testing.T) {
	dw := dwtest.New(64).WithFuncSig("leaf", dwctx.FuncSig{})
	o := New(cfgtest.New(), dw, textspec.New(), rv64g.New(), uclid5.New(), discardLogger())
	var out bytes.Buffer
	require.NoError(t, o.RunTemplate(&out))
	require.Contains(t, out.String(), "func leaf {")
	require.Contains(t, out.String(), "requires true;")
}

func TestParseArgs_CollectsRepeatableAndCommaSeparatedLists(t *testing.T) {
	opt, err := ParseArgs([]string{"-i", "a,b", "-i", "c", "-xlen", "32"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, opt.IgnoreFuncs)
	require.Equal(t, uint64(32), opt.XLEN)
}

func TestResolveConfig_CLIFlagsWinOverConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rv2model.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ignore_funcs: [from_file]\nverify_funcs: [v1]\n"), 0o644))

	opt := Options{ConfigPath: cfgPath, IgnoreFuncs: []string{"from_cli"}}
	resolved, err := ResolveConfig(opt)
	require.NoError(t, err)
	require.Equal(t, []string{"from_cli"}, resolved.IgnoreFuncs)
	require.Equal(t, []string{"v1"}, resolved.VerifyFuncs)
}

func TestResolveConfig_MissingFileIsInputMissing(t *testing.T) {
	_, err := ResolveConfig(Options{ConfigPath: "/no/such/rv2model.yaml"})
	require.Error(t, err)
	require.True(t, errors.Is(err, rverrors.InputMissing))
}
