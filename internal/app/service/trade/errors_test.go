package trade

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreWrapFriendly(t *testing.T) {
	for _, sentinel := range []error{ErrNotFound, ErrForbidden, ErrInvalidState, ErrUpstream} {
		err := fmt.Errorf("wrapped: %w", sentinel)
		require.True(t, errors.Is(err, sentinel))
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	require.False(t, errors.Is(ErrNotFound, ErrForbidden))
	require.False(t, errors.Is(ErrInvalidState, ErrUpstream))
}
