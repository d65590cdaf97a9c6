package trade

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/app/service/notify"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/logctx"
	"github.com/rioporto/p2p/pkg/types"
)

// ConfirmPaymentByBuyer moves an awaiting-payment trade to
// payment_pending_confirmation: the buyer states the PIX was sent and the
// seller is asked to watch for it. Only the buyer may trigger this, and only
// once; a second attempt loses the CAS and gets ErrInvalidState.
func (s *Service) ConfirmPaymentByBuyer(ctx context.Context, transactionID, actingUserID string) (*models.Transaction, error) {
	now := time.Now()
	var sellerNote *models.Notification

	txn, err := s.applyTransition(ctx, s.db, transactionID,
		types.TransactionStatusPaymentPendingConfirmation,
		map[string]any{"payment_claimed_at": now},
		func(t *models.Transaction) error {
			if t.BuyerID != actingUserID {
				return fmt.Errorf("%w: only the buyer may confirm payment", ErrForbidden)
			}
			return nil
		},
		func(ctx context.Context, tx *gorm.DB, before, after *models.Transaction) error {
			// a still-pending charge follows the claim
			if err := tx.WithContext(ctx).Model(&models.PixPayment{}).
				Where("transaction_id = ? AND status = ? AND deleted_at IS NULL", after.ID, types.PixStatusPending).
				Update("status", types.PixStatusAwaitingConfirmation).Error; err != nil {
				return fmt.Errorf("failed to update pix payment: %w", err)
			}

			buyerName := loadUserName(ctx, tx, actingUserID)
			sellerNote = notify.PaymentClaimed(after, buyerName)
			if err := s.notifySvc.Create(ctx, tx, sellerNote); err != nil {
				return err
			}

			return s.auditSvc.Record(ctx, tx, &models.AuditLog{
				UserID:     actingUserID,
				Action:     types.AuditActionPaymentClaimed,
				EntityType: "transaction",
				EntityID:   after.ID,
				Metadata: datatypes.NewJSONType(&models.AuditMetadata{
					TransactionID: after.ID,
					FromStatus:    before.Status,
					ToStatus:      after.Status,
					Amount:        after.FiatAmount,
				}),
			})
		},
	)
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("payment_claimed",
		"transaction_id", txn.ID,
		"buyer_id", actingUserID,
	)
	s.notifySvc.Push(sellerNote)
	return txn, nil
}
