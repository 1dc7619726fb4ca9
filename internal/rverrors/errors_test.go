package rverrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"rv2model/internal/rverrors"
)

func TestWrap_ClassifiesKind(t *testing.T) {
	err := rverrors.Wrap(rverrors.InputMissing, "binary %q not found", "a.out")
	require.True(t, errors.Is(err, rverrors.InputMissing))
	require.False(t, errors.Is(err, rverrors.TypeMismatch))
	require.Contains(t, err.Error(), "a.out")
}

func TestWrapf_PreservesCauseAndKind(t *testing.T) {
	cause := rverrors.Wrap(rverrors.DwarfResolution, "global %q not found", "g")
	err := rverrors.Wrapf(cause, rverrors.TypeMismatch, "while inferring type of %q", "x")

	require.True(t, errors.Is(err, rverrors.TypeMismatch))
	require.True(t, errors.Is(err, rverrors.DwarfResolution))
	require.Contains(t, err.Error(), "x")
	require.Contains(t, err.Error(), "g")
}

func TestWrapf_NilCauseFallsBackToWrap(t *testing.T) {
	err := rverrors.Wrapf(nil, rverrors.CycleInCFG, "blocks %v", []string{"A", "B"})
	require.True(t, errors.Is(err, rverrors.CycleInCFG))
}
