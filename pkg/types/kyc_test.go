package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allLevels = []KYCLevel{KYCLevelPlatformAccess, KYCLevelBasic, KYCLevelIntermediate, KYCLevelAdvanced}

func TestKYCLevel_AtLeastIsMonotonic(t *testing.T) {
	// Anything unlocked at level N stays unlocked at every level above N.
	for _, required := range allLevels {
		for _, l := range allLevels {
			if l.AtLeast(required) {
				for _, higher := range allLevels {
					if higher >= l {
						assert.True(t, higher.AtLeast(required),
							"level %s satisfies %s but higher level %s does not", l, required, higher)
					}
				}
			}
		}
	}
}

func TestKYCLevel_AtLeast(t *testing.T) {
	require.True(t, KYCLevelAdvanced.AtLeast(KYCLevelPlatformAccess))
	require.True(t, KYCLevelBasic.AtLeast(KYCLevelBasic))
	require.False(t, KYCLevelPlatformAccess.AtLeast(KYCLevelBasic))
	require.False(t, KYCLevelIntermediate.AtLeast(KYCLevelAdvanced))
}

func TestKYCLevel_Valid(t *testing.T) {
	for _, l := range allLevels {
		require.True(t, l.Valid())
	}
	require.False(t, KYCLevel(-1).Valid())
	require.False(t, KYCLevel(4).Valid())
}

func TestTransactionStatus_Terminal(t *testing.T) {
	require.False(t, TransactionStatusAwaitingPayment.Terminal())
	require.False(t, TransactionStatusPaymentPendingConfirmation.Terminal())
	require.False(t, TransactionStatusPaymentConfirmed.Terminal())
	require.True(t, TransactionStatusCompleted.Terminal())
	require.True(t, TransactionStatusCancelled.Terminal())
	require.True(t, TransactionStatusFailed.Terminal())
}
