package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/types"
)

func fixtureTxn() *models.Transaction {
	return &models.Transaction{
		ID:             "tx-1",
		BuyerID:        "buyer-1",
		SellerID:       "seller-1",
		FiatAmount:     250000,
		CryptoAmount:   "0.001",
		CryptoCurrency: "BTC",
	}
}

func TestPaymentClaimed_TargetsSeller(t *testing.T) {
	n := PaymentClaimed(fixtureTxn(), "Maria")
	require.Equal(t, "seller-1", n.UserID)
	require.Equal(t, types.NotificationTypePaymentClaimed, n.Type)
	require.Contains(t, n.Message, "Maria")
	require.Contains(t, n.Message, "R$ 2.500,00")

	meta := n.Metadata.Data()
	require.NotNil(t, meta)
	require.Equal(t, "tx-1", meta.TransactionID)
	require.Equal(t, int64(250000), meta.Amount)
	require.Equal(t, "BRL", meta.Currency)
}

func TestPaymentReceived_TargetsSeller(t *testing.T) {
	n := PaymentReceived(fixtureTxn())
	require.Equal(t, "seller-1", n.UserID)
	require.Equal(t, types.NotificationTypePaymentReceived, n.Type)
	require.Contains(t, n.Message, "R$ 2.500,00")
}

func TestTradeCompleted_TargetsBuyer(t *testing.T) {
	n := TradeCompleted(fixtureTxn())
	require.Equal(t, "buyer-1", n.UserID)
	require.Contains(t, n.Message, "0.001 BTC")
}

func TestTradeCancelled_TargetsGivenRecipient(t *testing.T) {
	n := TradeCancelled(fixtureTxn(), "buyer-1", "João")
	require.Equal(t, "buyer-1", n.UserID)
	require.Contains(t, n.Message, "João")
}
