package trade

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPixPaymentInsertError_DuplicateBecomesStateConflict(t *testing.T) {
	// the losing side of two concurrent payment initiates sees the unique
	// violation from the active-attempt index, not a storage error
	err := pixPaymentInsertError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey))
	require.True(t, errors.Is(err, ErrInvalidState))
	require.Contains(t, err.Error(), "active payment already exists")
}

func TestPixPaymentInsertError_OtherErrorsPassThrough(t *testing.T) {
	cause := errors.New("connection reset")
	err := pixPaymentInsertError(cause)
	require.False(t, errors.Is(err, ErrInvalidState))
	require.True(t, errors.Is(err, cause))
}
