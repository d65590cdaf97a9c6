package trade

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/metrics"
	"github.com/rioporto/p2p/pkg/types"
)

// transitionSources lists the states a target state may be entered from.
// AwaitingPayment is initial and never a target.
var transitionSources = map[types.TransactionStatus][]types.TransactionStatus{
	types.TransactionStatusPaymentPendingConfirmation: {
		types.TransactionStatusAwaitingPayment,
	},
	types.TransactionStatusPaymentConfirmed: {
		types.TransactionStatusAwaitingPayment,
		types.TransactionStatusPaymentPendingConfirmation,
	},
	types.TransactionStatusCompleted: {
		types.TransactionStatusPaymentConfirmed,
	},
	types.TransactionStatusCancelled: {
		types.TransactionStatusAwaitingPayment,
	},
	types.TransactionStatusFailed: {
		types.TransactionStatusAwaitingPayment,
		types.TransactionStatusPaymentPendingConfirmation,
		types.TransactionStatusPaymentConfirmed,
	},
}

func canTransition(from, to types.TransactionStatus) bool {
	for _, s := range transitionSources[to] {
		if s == from {
			return true
		}
	}
	return false
}

// transitionGuard validates the acting user against the loaded row before any
// write happens. Return ErrForbidden (wrapped) to reject.
type transitionGuard func(txn *models.Transaction) error

// transitionEffects runs inside the same database transaction as the state
// change. An error here, including an audit write failure, rolls the whole
// transition back.
type transitionEffects func(ctx context.Context, tx *gorm.DB, before, after *models.Transaction) error

// applyTransition is the single write path for trade state. It loads the row,
// runs the guard, and advances the status with a compare-and-swap against the
// observed state, so exactly one concurrent writer wins; the loser gets
// ErrInvalidState. Side effects ride in the same transaction.
func (s *Service) applyTransition(ctx context.Context, db *gorm.DB, transactionID string, to types.TransactionStatus, stamps map[string]any, guard transitionGuard, effects transitionEffects) (*models.Transaction, error) {
	var result *models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		txn, err := loadTransaction(ctx, tx, transactionID)
		if err != nil {
			return err
		}

		if guard != nil {
			if err := guard(txn); err != nil {
				return err
			}
		}

		if !canTransition(txn.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidState, txn.Status, to)
		}

		updates := map[string]any{"status": to}
		for k, v := range stamps {
			updates[k] = v
		}

		res := tx.WithContext(ctx).Model(&models.Transaction{}).
			Where("id = ? AND status = ? AND deleted_at IS NULL", txn.ID, txn.Status).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update transaction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// a concurrent writer advanced the row between load and write
			return fmt.Errorf("%w: transaction %s already moved past %s", ErrInvalidState, txn.ID, txn.Status)
		}

		before := *txn
		after, err := loadTransaction(ctx, tx, transactionID)
		if err != nil {
			return err
		}

		if effects != nil {
			if err := effects(ctx, tx, &before, after); err != nil {
				return err
			}
		}

		result = after
		return nil
	})

	outcome := "ok"
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidState):
			outcome = "conflict"
		case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotFound):
			outcome = "rejected"
		default:
			outcome = "error"
		}
	}
	metrics.TransitionCnt.WithLabelValues(string(to), outcome).Inc()

	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadTransaction fetches a live row. Soft-deleted rows are filtered
// explicitly so deletion semantics stay visible at the call site.
func loadTransaction(ctx context.Context, tx *gorm.DB, id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := tx.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return &txn, nil
}

func loadUserName(ctx context.Context, tx *gorm.DB, userID string) string {
	var user models.User
	err := tx.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&user).Error
	if err != nil {
		return ""
	}
	return user.Name
}

// activePixPayment returns the most recent payment attempt that can still
// settle, or nil when none exists.
func activePixPayment(ctx context.Context, tx *gorm.DB, transactionID string) (*models.PixPayment, error) {
	var payment models.PixPayment
	err := tx.WithContext(ctx).
		Where("transaction_id = ? AND status IN ? AND deleted_at IS NULL",
			transactionID,
			[]types.PixStatus{types.PixStatusPending, types.PixStatusAwaitingConfirmation}).
		Order("created_at desc").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pix payment: %w", err)
	}
	return &payment, nil
}
