package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	require := require.New(t)

	err := MissingKeyf("no key for %s", "P-fuji1abc")
	require.Equal("MissingKey: no key for P-fuji1abc", err.Error())

	err = Wrap(TransportFailure, context.Canceled, "fetch utxos")
	require.Equal("TransportFailure: fetch utxos: context canceled", err.Error())
	require.ErrorIs(err, context.Canceled)
}

func TestStatusOf(t *testing.T) {
	vectors := []struct {
		name   string
		err    error
		status Status
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), UnknownError},
		{"direct", InsufficientFundsf("x"), InsufficientFunds},
		{"wrapped by fmt", fmt.Errorf("import: %w", Errorf(StaleInput, "spent")), StaleInput},
		{"outermost wins", Wrap(Indeterminate, Errorf(TransportFailure, "eof"), "broadcast"), Indeterminate},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			require.Equal(t, v.status, StatusOf(v.err))
		})
	}
}

func TestIs(t *testing.T) {
	require := require.New(t)
	err := Wrap(Indeterminate, Errorf(TransportFailure, "eof"), "broadcast")
	require.True(Is(err, Indeterminate))
	require.True(Is(err, TransportFailure))
	require.False(Is(err, StaleInput))
	require.False(Is(errors.New("x"), UnknownError))
}

func TestRetryable(t *testing.T) {
	require := require.New(t)
	require.True(TransportFailure.Retryable())
	require.True(StaleInput.Retryable())
	require.False(Indeterminate.Retryable())
	require.False(MissingKey.Retryable())
	require.False(ConfigurationError.Retryable())
}
