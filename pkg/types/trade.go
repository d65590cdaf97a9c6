package types

// TransactionStatus is the lifecycle state of a P2P trade.
// Transitions only move forward along the graph:
//
//	awaiting_payment -> payment_pending_confirmation -> payment_confirmed -> completed
//	awaiting_payment -> cancelled
//	any non-terminal -> failed (dispute resolution)
type TransactionStatus string

const (
	TransactionStatusAwaitingPayment            TransactionStatus = "awaiting_payment"
	TransactionStatusPaymentPendingConfirmation TransactionStatus = "payment_pending_confirmation"
	TransactionStatusPaymentConfirmed           TransactionStatus = "payment_confirmed"
	TransactionStatusCompleted                  TransactionStatus = "completed"
	TransactionStatusCancelled                  TransactionStatus = "cancelled"
	TransactionStatusFailed                     TransactionStatus = "failed"
)

func (s TransactionStatus) Terminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusCancelled, TransactionStatusFailed:
		return true
	}
	return false
}

// PixStatus tracks a single payment attempt against the PIX gateway.
type PixStatus string

const (
	PixStatusPending              PixStatus = "pending"
	PixStatusAwaitingConfirmation PixStatus = "awaiting_confirmation"
	PixStatusPaid                 PixStatus = "paid"
	PixStatusFailed               PixStatus = "failed"
	PixStatusExpired              PixStatus = "expired"
)

// Active reports whether the payment attempt can still settle.
func (s PixStatus) Active() bool {
	return s == PixStatusPending || s == PixStatusAwaitingConfirmation
}

type NotificationType string

const (
	NotificationTypeTradeCreated    NotificationType = "trade_created"
	NotificationTypePaymentClaimed  NotificationType = "payment_claimed"
	NotificationTypePaymentReceived NotificationType = "payment_received"
	NotificationTypeTradeCancelled  NotificationType = "trade_cancelled"
	NotificationTypeTradeCompleted  NotificationType = "trade_completed"
	NotificationTypeTradeFailed     NotificationType = "trade_failed"
)

type AuditAction string

const (
	AuditActionTradeCreated   AuditAction = "TRADE_CREATED"
	AuditActionPixCreated     AuditAction = "PIX_CREATED"
	AuditActionPaymentClaimed AuditAction = "PAYMENT_CLAIMED"
	AuditActionPaymentSettled AuditAction = "PAYMENT_SETTLED"
	AuditActionTradeCancelled AuditAction = "TRADE_CANCELLED"
	AuditActionTradeCompleted AuditAction = "TRADE_COMPLETED"
	AuditActionTradeFailed    AuditAction = "TRADE_FAILED"
)
