package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rioporto/p2p/internal/app/service/trade"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/internal/platform/pix"
	"github.com/rioporto/p2p/pkg/config"
	"github.com/rioporto/p2p/pkg/types"
)

type fakeGateway struct {
	st    *pix.ChargeStatus
	err   error
	calls int
}

func (g *fakeGateway) CreateCharge(_ context.Context, _ *pix.CreateChargeRequest) (*pix.ChargeHandle, error) {
	panic("not used")
}

func (g *fakeGateway) GetChargeStatus(_ context.Context, _ string) (*pix.ChargeStatus, error) {
	g.calls++
	return g.st, g.err
}

// fakeTrades is stateful: a successful settlement consumes the active payment
// and confirms the transaction, mirroring what the real service persists.
type fakeTrades struct {
	txn         *models.Transaction
	payment     *models.PixPayment
	getErr      error
	settleCalls int
}

func (f *fakeTrades) GetForParty(_ context.Context, _, _ string) (*models.Transaction, error) {
	return f.txn, f.getErr
}

func (f *fakeTrades) ActivePayment(_ context.Context, _ string) (*models.PixPayment, error) {
	return f.payment, nil
}

func (f *fakeTrades) LatestPixStatus(_ context.Context, _ string) types.PixStatus {
	if f.payment != nil {
		return f.payment.Status
	}
	if f.txn.Status == types.TransactionStatusPaymentConfirmed {
		return types.PixStatusPaid
	}
	return ""
}

func (f *fakeTrades) SettleFromGateway(_ context.Context, _ string, _ *models.PixPayment, _ *pix.ChargeStatus, _ string) (*models.Transaction, error) {
	f.settleCalls++
	f.payment = nil
	f.txn.Status = types.TransactionStatusPaymentConfirmed
	return f.txn, nil
}

func newCheckFixture(gw *fakeGateway, tr *fakeTrades) *Service {
	cfg := &config.Config{}
	cfg.PixGateway.TimeoutSeconds = 1
	return &Service{cfg: cfg, log: zap.NewNop().Sugar(), gateway: gw, trades: tr}
}

func awaitingFixture() *fakeTrades {
	return &fakeTrades{
		txn: &models.Transaction{ID: "tx-1", BuyerID: "buyer-1", SellerID: "seller-1",
			Status: types.TransactionStatusPaymentPendingConfirmation},
		payment: &models.PixPayment{ID: "pay-1", TransactionID: "tx-1", GatewayRef: "chg_1",
			Status: types.PixStatusAwaitingConfirmation},
	}
}

func TestCheckStatus_GatewayErrorDegradesToLocalState(t *testing.T) {
	gw := &fakeGateway{err: errors.New("upstream timeout")}
	tr := awaitingFixture()
	s := newCheckFixture(gw, tr)

	res, err := s.CheckStatus(context.Background(), "tx-1", "buyer-1")
	require.NoError(t, err)
	require.Equal(t, types.TransactionStatusPaymentPendingConfirmation, res.Status)
	require.Equal(t, types.PixStatusAwaitingConfirmation, res.PixStatus)
	require.Equal(t, 1, gw.calls)
	require.Zero(t, tr.settleCalls)
}

func TestCheckStatus_UnpaidChargeIsNoChange(t *testing.T) {
	gw := &fakeGateway{st: &pix.ChargeStatus{Status: pix.ChargeStatusPending}}
	tr := awaitingFixture()
	s := newCheckFixture(gw, tr)

	res, err := s.CheckStatus(context.Background(), "tx-1", "buyer-1")
	require.NoError(t, err)
	require.Equal(t, types.TransactionStatusPaymentPendingConfirmation, res.Status)
	require.Zero(t, tr.settleCalls)
}

func TestCheckStatus_ApprovedChargeSettlesExactlyOnce(t *testing.T) {
	gw := &fakeGateway{st: &pix.ChargeStatus{Status: pix.ChargeStatusApproved}}
	tr := awaitingFixture()
	s := newCheckFixture(gw, tr)

	res, err := s.CheckStatus(context.Background(), "tx-1", "buyer-1")
	require.NoError(t, err)
	require.Equal(t, types.TransactionStatusPaymentConfirmed, res.Status)
	require.Equal(t, types.PixStatusPaid, res.PixStatus)
	require.Equal(t, 1, tr.settleCalls)

	// further polls after settlement see no active attempt and never touch
	// the gateway or the settlement path again
	for i := 0; i < 3; i++ {
		res, err = s.CheckStatus(context.Background(), "tx-1", "buyer-1")
		require.NoError(t, err)
		require.Equal(t, types.TransactionStatusPaymentConfirmed, res.Status)
		require.Equal(t, types.PixStatusPaid, res.PixStatus)
	}
	require.Equal(t, 1, tr.settleCalls)
	require.Equal(t, 1, gw.calls)
}

func TestCheckStatus_NoActivePaymentSkipsGateway(t *testing.T) {
	gw := &fakeGateway{}
	tr := &fakeTrades{txn: &models.Transaction{ID: "tx-1", Status: types.TransactionStatusAwaitingPayment}}
	s := newCheckFixture(gw, tr)

	res, err := s.CheckStatus(context.Background(), "tx-1", "buyer-1")
	require.NoError(t, err)
	require.Equal(t, types.TransactionStatusAwaitingPayment, res.Status)
	require.Zero(t, gw.calls)
}

func TestCheckStatus_NonPartyPropagatesNotFound(t *testing.T) {
	gw := &fakeGateway{}
	tr := &fakeTrades{getErr: trade.ErrNotFound}
	s := newCheckFixture(gw, tr)

	_, err := s.CheckStatus(context.Background(), "tx-1", "stranger")
	require.ErrorIs(t, err, trade.ErrNotFound)
	require.Zero(t, gw.calls)
}

func TestGatewayTimeout(t *testing.T) {
	cfg := &config.Config{}
	cfg.PixGateway.TimeoutSeconds = 3
	s := &Service{cfg: cfg}
	require.Equal(t, 3*time.Second, s.gatewayTimeout())
}

func TestGatewayTimeout_DefaultsWhenUnset(t *testing.T) {
	s := &Service{cfg: &config.Config{}}
	require.Equal(t, 5*time.Second, s.gatewayTimeout())
}
