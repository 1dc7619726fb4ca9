package textspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/sir"
)

func parseString(t *testing.T, src string) []*sir.FuncSpec {
	t.Helper()
	p, err := newParser(src)
	require.NoError(t, err)
	fs, err := p.parseFile()
	require.NoError(t, err)
	return fs
}

func TestParseFile_RequiresEnsuresModifiesTrack(t *testing.T) {
	src := `
func foo {
    requires x > 0bv64;
    ensures ret == old(x);
    modifies x5, x6;
    track total := x5 + x6;
}
`
	fs := parseString(t, src)
	require.Len(t, fs, 1)
	require.Equal(t, "foo", fs[0].FuncName)
	require.Len(t, fs[0].Requires(), 1)
	require.Len(t, fs[0].Ensures(), 1)
	require.Len(t, fs[0].Tracked(), 1)
	mod := fs[0].ModifiesSet()
	require.Contains(t, mod, "x5")
	require.Contains(t, mod, "x6")
}

func TestParseFile_MultipleFuncsAndBoolConnectives(t *testing.T) {
	src := `
func a {
    requires true && (x == 1 || y != 2);
}
func b {
    requires !(x < 5);
}
`
	fs := parseString(t, src)
	require.Len(t, fs, 2)
	require.Equal(t, "a", fs[0].FuncName)
	require.Equal(t, "b", fs[1].FuncName)
}

func TestParseFile_QuantifierAndArrayIndex(t *testing.T) {
	src := `
func q {
    requires forall i: bv64 . mem[i] == 0bv8;
}
`
	fs := parseString(t, src)
	require.Len(t, fs, 1)
	require.Len(t, fs[0].Requires(), 1)
	cond := fs[0].Requires()[0].Cond
	bop, ok := cond.(*sir.BOpAppExpr)
	require.True(t, ok)
	require.Equal(t, sir.BoolForall, bop.Op)
	require.Equal(t, "i", bop.Bound)
}

func TestParseFile_SextUextBuiltins(t *testing.T) {
	src := `
func f {
    ensures ret == sext(32, x);
}
`
	fs := parseString(t, src)
	cond := fs[0].Ensures()[0].Cond
	comp, ok := cond.(*sir.COpAppExpr)
	require.True(t, ok)
	fa, ok := comp.Args[1].(*sir.FuncAppExpr)
	require.True(t, ok)
	require.Equal(t, "sext", fa.Name)
	require.Len(t, fa.Args, 2)
}

func TestParseFile_MalformedSyntaxReturnsError(t *testing.T) {
	p, err := newParser(`func bad { requires ; }`)
	require.NoError(t, err)
	_, err = p.parseFile()
	require.Error(t, err)
}

func TestProcessSpecFiles_MergesDuplicateFuncNamesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.spec")
	f2 := filepath.Join(dir, "b.spec")
	require.NoError(t, os.WriteFile(f1, []byte("func shared {\n    requires true;\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(f2, []byte("func shared {\n    ensures true;\n}\n"), 0o644))

	specs, err := New().ProcessSpecFiles([]string{f1, f2})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Len(t, specs["shared"].Specs, 2)
}

func TestProcessSpecFiles_MissingFileIsInputMissing(t *testing.T) {
	_, err := New().ProcessSpecFiles([]string{"/no/such/file.spec"})
	require.Error(t, err)
}
