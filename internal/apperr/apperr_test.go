package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(RemoteUnavailable, "embed request failed", cause)

	require.Contains(t, err.Error(), "REMOTE_UNAVAILABLE")
	require.Contains(t, err.Error(), "connection refused")
	require.ErrorIs(t, err, cause)
}

func TestIsMatchesByKindOnly(t *testing.T) {
	err := New(InvalidQuery, "k must be positive", nil)
	require.True(t, Is(err, InvalidQuery))
	require.False(t, Is(err, Auth))
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	inner := New(CorpusInvalid, "missing id field", nil)
	wrapped := fmt.Errorf("building catalog: %w", inner)

	require.True(t, Is(wrapped, CorpusInvalid))
}

func TestWrapNilReturnsNil(t *testing.T) {
	require.Nil(t, Wrap(IoError, nil))
}

func TestWrapPreservesKindAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(IoError, cause)
	require.Equal(t, IoError, err.Kind)
	require.ErrorIs(t, err, cause)
}
