package notify

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/tool"
	"github.com/rioporto/p2p/pkg/types"
)

// Builders for each notification kind. Keeping one constructor per kind keeps
// the metadata shape closed instead of an open map.

func TradeCreated(txn *models.Transaction, buyerName string) *models.Notification {
	return &models.Notification{
		UserID:  txn.SellerID,
		Type:    types.NotificationTypeTradeCreated,
		Title:   "Nova negociação",
		Message: fmt.Sprintf("%s iniciou uma negociação de %s", buyerName, tool.FormatBRL(txn.FiatAmount)),
		Metadata: datatypes.NewJSONType(&models.NotificationMetadata{
			TransactionID:    txn.ID,
			Amount:           txn.FiatAmount,
			Currency:         "BRL",
			CounterpartyName: buyerName,
		}),
	}
}

func PaymentClaimed(txn *models.Transaction, buyerName string) *models.Notification {
	return &models.Notification{
		UserID:  txn.SellerID,
		Type:    types.NotificationTypePaymentClaimed,
		Title:   "Pagamento informado",
		Message: fmt.Sprintf("%s informou o pagamento de %s", buyerName, tool.FormatBRL(txn.FiatAmount)),
		Metadata: datatypes.NewJSONType(&models.NotificationMetadata{
			TransactionID:    txn.ID,
			Amount:           txn.FiatAmount,
			Currency:         "BRL",
			CounterpartyName: buyerName,
		}),
	}
}

func PaymentReceived(txn *models.Transaction) *models.Notification {
	return &models.Notification{
		UserID:  txn.SellerID,
		Type:    types.NotificationTypePaymentReceived,
		Title:   "Pagamento recebido",
		Message: fmt.Sprintf("O PIX de %s foi confirmado", tool.FormatBRL(txn.FiatAmount)),
		Metadata: datatypes.NewJSONType(&models.NotificationMetadata{
			TransactionID: txn.ID,
			Amount:        txn.FiatAmount,
			Currency:      "BRL",
		}),
	}
}

func TradeCancelled(txn *models.Transaction, recipientID, cancelledByName string) *models.Notification {
	return &models.Notification{
		UserID:  recipientID,
		Type:    types.NotificationTypeTradeCancelled,
		Title:   "Negociação cancelada",
		Message: fmt.Sprintf("%s cancelou a negociação", cancelledByName),
		Metadata: datatypes.NewJSONType(&models.NotificationMetadata{
			TransactionID:    txn.ID,
			CounterpartyName: cancelledByName,
		}),
	}
}

func TradeFailed(txn *models.Transaction, recipientID, reason string) *models.Notification {
	return &models.Notification{
		UserID:  recipientID,
		Type:    types.NotificationTypeTradeFailed,
		Title:   "Negociação encerrada",
		Message: fmt.Sprintf("A negociação foi encerrada pela equipe: %s", reason),
		Metadata: datatypes.NewJSONType(&models.NotificationMetadata{
			TransactionID: txn.ID,
			Amount:        txn.FiatAmount,
			Currency:      "BRL",
		}),
	}
}

func TradeCompleted(txn *models.Transaction) *models.Notification {
	return &models.Notification{
		UserID:  txn.BuyerID,
		Type:    types.NotificationTypeTradeCompleted,
		Title:   "Negociação concluída",
		Message: fmt.Sprintf("Você recebeu %s %s", txn.CryptoAmount, txn.CryptoCurrency),
		Metadata: datatypes.NewJSONType(&models.NotificationMetadata{
			TransactionID: txn.ID,
			Amount:        txn.FiatAmount,
			Currency:      "BRL",
		}),
	}
}
