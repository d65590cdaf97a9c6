package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivePixPaymentIndex_IsPartialAndUnique(t *testing.T) {
	// one settleable attempt per transaction; settled and soft-deleted rows
	// must not count against the limit
	require.True(t, strings.HasPrefix(uqActivePixPayment, "CREATE UNIQUE INDEX IF NOT EXISTS"))
	require.Contains(t, uqActivePixPayment, "ON pix_payment (transaction_id)")
	require.Contains(t, uqActivePixPayment, "WHERE status IN ('pending', 'awaiting_confirmation')")
	require.Contains(t, uqActivePixPayment, "deleted_at IS NULL")
}
