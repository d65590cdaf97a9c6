package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/app/service/notify"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/internal/platform/pix"
	"github.com/rioporto/p2p/pkg/logctx"
	"github.com/rioporto/p2p/pkg/tool"
	"github.com/rioporto/p2p/pkg/types"
)

// CreateTrade opens a trade in awaiting_payment. The acting user becomes the
// buyer and must clear the p2p_trade tier gate.
func (s *Service) CreateTrade(ctx context.Context, actingUserID string, req *CreateTradeRequest) (*models.Transaction, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.SellerID == "" || req.ListingID == "" {
		return nil, fmt.Errorf("missing seller_id or listing_id")
	}
	if req.SellerID == actingUserID {
		return nil, fmt.Errorf("%w: buyer and seller must differ", ErrForbidden)
	}
	if req.FiatAmount <= 0 || req.CryptoAmount == "" {
		return nil, fmt.Errorf("invalid trade amounts")
	}

	allowed, err := s.accessSvc.Allowed(ctx, actingUserID, types.FeatureP2PTrade)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: p2p trading requires identity verification", ErrForbidden)
	}

	txn := &models.Transaction{
		ID:             tool.GenerateUUIDV7(),
		BuyerID:        actingUserID,
		SellerID:       req.SellerID,
		ListingID:      req.ListingID,
		FiatAmount:     req.FiatAmount,
		CryptoAmount:   req.CryptoAmount,
		CryptoCurrency: req.CryptoCurrency,
		Status:         types.TransactionStatusAwaitingPayment,
	}

	var sellerNote *models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(txn).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		buyerName := loadUserName(ctx, tx, actingUserID)
		sellerNote = notify.TradeCreated(txn, buyerName)
		if err := s.notifySvc.Create(ctx, tx, sellerNote); err != nil {
			return err
		}

		return s.auditSvc.Record(ctx, tx, &models.AuditLog{
			UserID:     actingUserID,
			Action:     types.AuditActionTradeCreated,
			EntityType: "transaction",
			EntityID:   txn.ID,
			Metadata: datatypes.NewJSONType(&models.AuditMetadata{
				TransactionID: txn.ID,
				ToStatus:      txn.Status,
				Amount:        txn.FiatAmount,
			}),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifySvc.Push(sellerNote)
	return txn, nil
}

// pixPaymentInsertError maps a rejected payment insert to the caller's error
// taxonomy. A duplicate-key violation comes from the partial unique index on
// active attempts and means a concurrent initiate won the race.
func pixPaymentInsertError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: an active payment already exists", ErrInvalidState)
	}
	return fmt.Errorf("failed to create pix payment: %w", err)
}

// InitiatePixPayment creates a charge at the gateway and records the attempt.
// At most one attempt may be active per trade, so a second call while one is
// open gets ErrInvalidState.
func (s *Service) InitiatePixPayment(ctx context.Context, transactionID, actingUserID string) (*PixChargeResult, error) {
	txn, err := loadTransaction(ctx, s.db, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.BuyerID != actingUserID {
		return nil, fmt.Errorf("%w: only the buyer may initiate payment", ErrForbidden)
	}
	if txn.Status != types.TransactionStatusAwaitingPayment {
		return nil, fmt.Errorf("%w: payment can only be initiated while awaiting payment", ErrInvalidState)
	}

	// friendly fast path; the unique index below is the authoritative guard
	if active, err := activePixPayment(ctx, s.db, txn.ID); err != nil {
		return nil, err
	} else if active != nil {
		return nil, fmt.Errorf("%w: an active payment already exists", ErrInvalidState)
	}

	// the gateway call stays outside the database transaction
	handle, err := s.gateway.CreateCharge(ctx, &pix.CreateChargeRequest{
		CorrelationID: txn.ID,
		Amount:        txn.FiatAmount,
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("pix_create_charge_failed", "transaction_id", txn.ID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	payment := &models.PixPayment{
		ID:            tool.GenerateUUIDV7(),
		TransactionID: txn.ID,
		GatewayRef:    handle.GatewayRef,
		Status:        types.PixStatusPending,
		Amount:        txn.FiatAmount,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// concurrent initiates are arbitrated by the partial unique index on
		// active payment attempts; the loser's insert is rejected here
		if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
			return pixPaymentInsertError(err)
		}

		if err := tx.WithContext(ctx).Model(&models.Transaction{}).
			Where("id = ? AND deleted_at IS NULL", txn.ID).
			Update("payment_ref", handle.GatewayRef).Error; err != nil {
			return fmt.Errorf("failed to set payment ref: %w", err)
		}

		return s.auditSvc.Record(ctx, tx, &models.AuditLog{
			UserID:     actingUserID,
			Action:     types.AuditActionPixCreated,
			EntityType: "pix_payment",
			EntityID:   payment.ID,
			Metadata: datatypes.NewJSONType(&models.AuditMetadata{
				TransactionID: txn.ID,
				Amount:        payment.Amount,
				GatewayRef:    handle.GatewayRef,
			}),
		})
	})
	if err != nil {
		// the charge exists at the gateway but was never recorded; it will
		// expire there unpaid
		logctx.FromCtx(ctx, s.log).Warnw("pix_charge_not_recorded", "gateway_ref", handle.GatewayRef, "err", err)
		return nil, err
	}

	return &PixChargeResult{
		PaymentID:  payment.ID,
		GatewayRef: handle.GatewayRef,
		BRCode:     handle.BRCode,
	}, nil
}

// Cancel backs out of a trade that has no claimed payment yet. Either party
// may cancel while the trade is still awaiting payment.
func (s *Service) Cancel(ctx context.Context, transactionID, actingUserID string) (*models.Transaction, error) {
	var counterpartyNote *models.Notification

	txn, err := s.applyTransition(ctx, s.db, transactionID,
		types.TransactionStatusCancelled,
		nil,
		func(t *models.Transaction) error {
			if !t.IsParty(actingUserID) {
				return fmt.Errorf("%w", ErrNotFound)
			}
			return nil
		},
		func(ctx context.Context, tx *gorm.DB, before, after *models.Transaction) error {
			// close out any open charge so it cannot settle later
			if err := tx.WithContext(ctx).Model(&models.PixPayment{}).
				Where("transaction_id = ? AND status IN ? AND deleted_at IS NULL",
					after.ID, []types.PixStatus{types.PixStatusPending, types.PixStatusAwaitingConfirmation}).
				Updates(map[string]any{
					"status":        types.PixStatusFailed,
					"status_detail": "trade cancelled",
				}).Error; err != nil {
				return fmt.Errorf("failed to close pix payment: %w", err)
			}

			actorName := loadUserName(ctx, tx, actingUserID)
			counterpartyNote = notify.TradeCancelled(after, after.CounterpartyOf(actingUserID), actorName)
			if err := s.notifySvc.Create(ctx, tx, counterpartyNote); err != nil {
				return err
			}

			return s.auditSvc.Record(ctx, tx, &models.AuditLog{
				UserID:     actingUserID,
				Action:     types.AuditActionTradeCancelled,
				EntityType: "transaction",
				EntityID:   after.ID,
				Metadata: datatypes.NewJSONType(&models.AuditMetadata{
					TransactionID: after.ID,
					FromStatus:    before.Status,
					ToStatus:      after.Status,
				}),
			})
		},
	)
	if err != nil {
		return nil, err
	}

	s.notifySvc.Push(counterpartyNote)
	return txn, nil
}

// Complete releases the trade after settlement. Seller-only: completion is
// the seller acknowledging the crypto hand-off.
func (s *Service) Complete(ctx context.Context, transactionID, actingUserID string) (*models.Transaction, error) {
	var buyerNote *models.Notification

	txn, err := s.applyTransition(ctx, s.db, transactionID,
		types.TransactionStatusCompleted,
		nil,
		func(t *models.Transaction) error {
			if !t.IsParty(actingUserID) {
				return fmt.Errorf("%w", ErrNotFound)
			}
			if t.SellerID != actingUserID {
				return fmt.Errorf("%w: only the seller may complete the trade", ErrForbidden)
			}
			return nil
		},
		func(ctx context.Context, tx *gorm.DB, before, after *models.Transaction) error {
			buyerNote = notify.TradeCompleted(after)
			if err := s.notifySvc.Create(ctx, tx, buyerNote); err != nil {
				return err
			}

			return s.auditSvc.Record(ctx, tx, &models.AuditLog{
				UserID:     actingUserID,
				Action:     types.AuditActionTradeCompleted,
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

	s.notifySvc.Push(buyerNote)
	return txn, nil
}

// Fail marks a trade failed as the outcome of dispute resolution. Operator
// action; both parties are informed.
func (s *Service) Fail(ctx context.Context, transactionID, operatorID, reason string) (*models.Transaction, error) {
	var notes []*models.Notification

	txn, err := s.applyTransition(ctx, s.db, transactionID,
		types.TransactionStatusFailed,
		nil,
		nil,
		func(ctx context.Context, tx *gorm.DB, before, after *models.Transaction) error {
			if err := tx.WithContext(ctx).Model(&models.PixPayment{}).
				Where("transaction_id = ? AND status IN ? AND deleted_at IS NULL",
					after.ID, []types.PixStatus{types.PixStatusPending, types.PixStatusAwaitingConfirmation}).
				Updates(map[string]any{
					"status":        types.PixStatusFailed,
					"status_detail": "trade failed: " + reason,
				}).Error; err != nil {
				return fmt.Errorf("failed to close pix payment: %w", err)
			}

			notes = lo.Map([]string{after.BuyerID, after.SellerID}, func(userID string, _ int) *models.Notification {
				return notify.TradeFailed(after, userID, reason)
			})
			for _, n := range notes {
				if err := s.notifySvc.Create(ctx, tx, n); err != nil {
					return err
				}
			}

			return s.auditSvc.Record(ctx, tx, &models.AuditLog{
				UserID:     operatorID,
				Action:     types.AuditActionTradeFailed,
				EntityType: "transaction",
				EntityID:   after.ID,
				Metadata: datatypes.NewJSONType(&models.AuditMetadata{
					TransactionID: after.ID,
					FromStatus:    before.Status,
					ToStatus:      after.Status,
					Detail:        reason,
				}),
			})
		},
	)
	if err != nil {
		return nil, err
	}

	for _, n := range notes {
		s.notifySvc.Push(n)
	}
	return txn, nil
}

// GetForParty loads a trade for one of its parties. Outsiders get ErrNotFound
// rather than ErrForbidden so existence does not leak.
func (s *Service) GetForParty(ctx context.Context, transactionID, userID string) (*models.Transaction, error) {
	txn, err := loadTransaction(ctx, s.db, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsParty(userID) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, transactionID)
	}
	return txn, nil
}
