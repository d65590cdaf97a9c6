package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rioporto/p2p/pkg/types"
)

var allStatuses = []types.TransactionStatus{
	types.TransactionStatusAwaitingPayment,
	types.TransactionStatusPaymentPendingConfirmation,
	types.TransactionStatusPaymentConfirmed,
	types.TransactionStatusCompleted,
	types.TransactionStatusCancelled,
	types.TransactionStatusFailed,
}

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := []struct {
		from, to types.TransactionStatus
	}{
		{types.TransactionStatusAwaitingPayment, types.TransactionStatusPaymentPendingConfirmation},
		{types.TransactionStatusAwaitingPayment, types.TransactionStatusPaymentConfirmed},
		{types.TransactionStatusAwaitingPayment, types.TransactionStatusCancelled},
		{types.TransactionStatusAwaitingPayment, types.TransactionStatusFailed},
		{types.TransactionStatusPaymentPendingConfirmation, types.TransactionStatusPaymentConfirmed},
		{types.TransactionStatusPaymentPendingConfirmation, types.TransactionStatusFailed},
		{types.TransactionStatusPaymentConfirmed, types.TransactionStatusCompleted},
		{types.TransactionStatusPaymentConfirmed, types.TransactionStatusFailed},
	}

	allowedSet := map[[2]types.TransactionStatus]bool{}
	for _, e := range allowed {
		allowedSet[[2]types.TransactionStatus{e.from, e.to}] = true
		assert.True(t, canTransition(e.from, e.to), "%s -> %s must be allowed", e.from, e.to)
	}

	// Everything not listed is rejected, including self-loops.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if allowedSet[[2]types.TransactionStatus{from, to}] {
				continue
			}
			assert.False(t, canTransition(from, to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestCanTransition_TerminalStatesHaveNoExit(t *testing.T) {
	for _, from := range allStatuses {
		if !from.Terminal() {
			continue
		}
		for _, to := range allStatuses {
			require.False(t, canTransition(from, to), "terminal %s must not transition to %s", from, to)
		}
	}
}

func TestCanTransition_SettlementSkipsBuyerClaim(t *testing.T) {
	// Reconciliation may detect a paid charge before the buyer taps confirm.
	require.True(t, canTransition(types.TransactionStatusAwaitingPayment, types.TransactionStatusPaymentConfirmed))
}

func TestCanTransition_CancelOnlyBeforePaymentClaim(t *testing.T) {
	require.True(t, canTransition(types.TransactionStatusAwaitingPayment, types.TransactionStatusCancelled))
	require.False(t, canTransition(types.TransactionStatusPaymentPendingConfirmation, types.TransactionStatusCancelled))
	require.False(t, canTransition(types.TransactionStatusPaymentConfirmed, types.TransactionStatusCancelled))
}
