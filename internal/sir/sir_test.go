package sir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/sir"
)

func TestIdentExpr_StartsUnknown(t *testing.T) {
	id := sir.NewIdent("g", sir.VUnknown)
	require.Equal(t, sir.VKindUnknown, id.Type().Kind())
}

func TestIdentExpr_WithTypeProducesNewNode(t *testing.T) {
	id := sir.NewIdent("g", sir.VUnknown)
	resolved := id.WithType(sir.VBv(32))
	require.Equal(t, sir.VKindUnknown, id.Type().Kind(), "original node must stay untouched")
	require.True(t, resolved.Type().Equal(sir.VBv(32)))
}

func TestForall_CarriesBoundNameAndType(t *testing.T) {
	body := sir.NewCOpApp(sir.CompEq, sir.NewIdent("i", sir.VBv(32)), sir.NewBv(0, sir.VBv(32)))
	f := sir.NewForall("i", sir.VBv(32), body)
	require.Equal(t, "i", f.Bound)
	require.True(t, f.BoundType.Equal(sir.VBv(32)))
	require.True(t, f.Op.IsQuantifier())
}

func TestModifiesSpec_SortedIsDeterministic(t *testing.T) {
	m := sir.NewModifies("a0", "pc", "returned")
	require.Equal(t, []string{"a0", "pc", "returned"}, m.Sorted())
}

func TestFuncSpec_ModifiesSetUnionsAllModifiesItems(t *testing.T) {
	fs := &sir.FuncSpec{
		FuncName: "f",
		Specs: []sir.Spec{
			sir.NewModifies("a0"),
			sir.NewModifies("a1", "pc"),
		},
	}
	set := fs.ModifiesSet()
	require.Contains(t, set, "a0")
	require.Contains(t, set, "a1")
	require.Contains(t, set, "pc")
}
