package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/rioporto/p2p/internal/app/service/trade"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/internal/platform/pix"
	"github.com/rioporto/p2p/pkg/config"
	"github.com/rioporto/p2p/pkg/logctx"
	"github.com/rioporto/p2p/pkg/metrics"
	"github.com/rioporto/p2p/pkg/types"
)

// StatusResult is what a polling client sees.
type StatusResult struct {
	Status    types.TransactionStatus `json:"status"`
	PixStatus types.PixStatus         `json:"pix_status,omitempty"`
}

// tradeAccess is the slice of the trade service the poller needs. Narrow so
// tests can substitute a fake.
type tradeAccess interface {
	GetForParty(ctx context.Context, transactionID, userID string) (*models.Transaction, error)
	ActivePayment(ctx context.Context, transactionID string) (*models.PixPayment, error)
	LatestPixStatus(ctx context.Context, transactionID string) types.PixStatus
	SettleFromGateway(ctx context.Context, transactionID string, payment *models.PixPayment, st *pix.ChargeStatus, actingUserID string) (*models.Transaction, error)
}

// Service reconciles gateway-reported payment status with local transaction
// state. Pull-based: it runs only when a client polls, and a gateway failure
// degrades to the last known local state instead of an error.
type Service struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	gateway pix.Gateway
	trades  tradeAccess
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, gateway pix.Gateway, tradeSvc *trade.Service) *Service {
	return &Service{cfg: cfg, log: log, gateway: gateway, trades: tradeSvc}
}

// CheckStatus reports the current state of a trade, consulting the gateway
// when an active payment attempt exists. Settlement detection advances the
// state machine through the same transition used by manual confirmation.
func (s *Service) CheckStatus(ctx context.Context, transactionID, requestingUserID string) (*StatusResult, error) {
	txn, err := s.trades.GetForParty(ctx, transactionID, requestingUserID)
	if err != nil {
		return nil, err
	}

	payment, err := s.trades.ActivePayment(ctx, txn.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return &StatusResult{Status: txn.Status, PixStatus: s.trades.LatestPixStatus(ctx, txn.ID)}, nil
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout())
	defer cancel()

	st, err := s.gateway.GetChargeStatus(gctx, payment.GatewayRef)
	if err != nil {
		// degrade to last-known local state; the check is safe to retry
		logctx.FromCtx(ctx, s.log).Warnw("pix_status_poll_failed",
			"transaction_id", txn.ID,
			"gateway_ref", payment.GatewayRef,
			"err", err,
		)
		metrics.ReconcileCnt.WithLabelValues("gateway_error").Inc()
		return &StatusResult{Status: txn.Status, PixStatus: payment.Status}, nil
	}

	if !st.IsPaid() {
		metrics.ReconcileCnt.WithLabelValues("no_change").Inc()
		return &StatusResult{Status: txn.Status, PixStatus: payment.Status}, nil
	}

	settled, err := s.trades.SettleFromGateway(ctx, txn.ID, payment, st, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply settlement: %w", err)
	}
	metrics.ReconcileCnt.WithLabelValues("settled").Inc()

	return &StatusResult{Status: settled.Status, PixStatus: types.PixStatusPaid}, nil
}

func (s *Service) gatewayTimeout() time.Duration {
	t := time.Duration(s.cfg.PixGateway.TimeoutSeconds) * time.Second
	if t <= 0 {
		t = 5 * time.Second
	}
	return t
}

var Module = fx.Options(
	fx.Provide(NewService),
)
