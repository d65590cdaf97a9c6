package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/app/service/notify"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/internal/platform/pix"
	"github.com/rioporto/p2p/pkg/logctx"
	"github.com/rioporto/p2p/pkg/types"
)

// ActivePayment returns the most recent payment attempt that can still
// settle, or nil.
func (s *Service) ActivePayment(ctx context.Context, transactionID string) (*models.PixPayment, error) {
	return activePixPayment(ctx, s.db, transactionID)
}

// LatestPixStatus is display-only: the newest attempt regardless of state.
func (s *Service) LatestPixStatus(ctx context.Context, transactionID string) types.PixStatus {
	var payment models.PixPayment
	err := s.db.WithContext(ctx).
		Where("transaction_id = ? AND deleted_at IS NULL", transactionID).
		Order("created_at desc").
		First(&payment).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warnw("failed to load latest pix payment", "transaction_id", transactionID, "err", err)
		}
		return ""
	}
	return payment.Status
}

// SettleFromGateway applies a gateway-reported settlement. It is idempotent:
// the payment row is advanced with a compare-and-swap, so the side effects
// (seller notification, audit entry) run at most once no matter how many
// pollers observe the same approval. A transaction that already reached
// payment_confirmed through another path is a benign no-op, not an error.
func (s *Service) SettleFromGateway(ctx context.Context, transactionID string, payment *models.PixPayment, st *pix.ChargeStatus, actingUserID string) (*models.Transaction, error) {
	paidAt := time.Now()
	if st.PaidAt != nil {
		paidAt = *st.PaidAt
	}

	var result *models.Transaction
	var sellerNote *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.WithContext(ctx).Model(&models.PixPayment{}).
			Where("id = ? AND status IN ? AND deleted_at IS NULL",
				payment.ID,
				[]types.PixStatus{types.PixStatusPending, types.PixStatusAwaitingConfirmation}).
			Updates(map[string]any{
				"status":        types.PixStatusPaid,
				"paid_at":       paidAt,
				"status_detail": st.StatusDetail,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to settle pix payment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// another poller settled this payment first
			txn, err := loadTransaction(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			result = txn
			return nil
		}

		txn, err := s.applyTransition(ctx, tx, transactionID,
			types.TransactionStatusPaymentConfirmed,
			map[string]any{"payment_confirmed_at": paidAt},
			nil,
			func(ctx context.Context, itx *gorm.DB, before, after *models.Transaction) error {
				sellerNote = notify.PaymentReceived(after)
				if err := s.notifySvc.Create(ctx, itx, sellerNote); err != nil {
					return err
				}

				return s.auditSvc.Record(ctx, itx, &models.AuditLog{
					UserID:     actingUserID,
					Action:     types.AuditActionPaymentSettled,
					EntityType: "transaction",
					EntityID:   after.ID,
					Metadata: datatypes.NewJSONType(&models.AuditMetadata{
						TransactionID: after.ID,
						FromStatus:    before.Status,
						ToStatus:      after.Status,
						Amount:        payment.Amount,
						GatewayRef:    payment.GatewayRef,
						Detail:        "gateway settlement",
					}),
				})
			},
		)
		if err != nil {
			if errors.Is(err, ErrInvalidState) {
				// already confirmed via another payment attempt; keep the
				// paid payment row and report the current state
				logctx.FromCtx(ctx, s.log).Infow("settlement_noop",
					"transaction_id", transactionID,
					"payment_id", payment.ID,
				)
				sellerNote = nil
				txn, lerr := loadTransaction(ctx, tx, transactionID)
				if lerr != nil {
					return lerr
				}
				result = txn
				return nil
			}
			return err
		}

		result = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sellerNote != nil {
		s.notifySvc.Push(sellerNote)
	}
	return result, nil
}
