package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rioporto/p2p/internal/app/service/trade"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/types"
)

type stubTradeMgr struct {
	txn *models.Transaction
	err error
}

func (s *stubTradeMgr) CreateTrade(_ context.Context, _ string, _ *trade.CreateTradeRequest) (*models.Transaction, error) {
	return s.txn, s.err
}

func (s *stubTradeMgr) ConfirmPaymentByBuyer(_ context.Context, _, _ string) (*models.Transaction, error) {
	return s.txn, s.err
}

func (s *stubTradeMgr) InitiatePixPayment(_ context.Context, _, _ string) (*trade.PixChargeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &trade.PixChargeResult{PaymentID: "pay-1", GatewayRef: "ref-1", BRCode: "0002012658..."}, nil
}

func (s *stubTradeMgr) Cancel(_ context.Context, _, _ string) (*models.Transaction, error) {
	return s.txn, s.err
}

func (s *stubTradeMgr) Complete(_ context.Context, _, _ string) (*models.Transaction, error) {
	return s.txn, s.err
}

func (s *stubTradeMgr) Fail(_ context.Context, _, _, _ string) (*models.Transaction, error) {
	return s.txn, s.err
}

func (s *stubTradeMgr) GetForParty(_ context.Context, _, _ string) (*models.Transaction, error) {
	return s.txn, s.err
}

func (s *stubTradeMgr) ListForParty(_ context.Context, _ string, _ types.TransactionStatus, _, _ int) ([]*models.Transaction, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return []*models.Transaction{s.txn}, 1, nil
}

func (s *stubTradeMgr) ScanTransactions(_ context.Context, _ *trade.ScanTransactionsRequest) (*trade.ScanTransactionsResponse, error) {
	panic("not used")
}

func doConfirm(t *testing.T, mgr trade.TradeManager) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/transactions/:id/confirm-payment", ApiConfirmPayment(mgr))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/tx-1/confirm-payment", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApiConfirmPayment_ReturnsUpdatedTransaction(t *testing.T) {
	mgr := &stubTradeMgr{txn: &models.Transaction{
		ID:         "tx-1",
		BuyerID:    "buyer-1",
		SellerID:   "seller-1",
		FiatAmount: 123456,
		Status:     types.TransactionStatusPaymentPendingConfirmation,
	}}

	w := doConfirm(t, mgr)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), string(types.TransactionStatusPaymentPendingConfirmation))
	require.Contains(t, w.Body.String(), "R$ 1.234,56")
}

func TestApiConfirmPayment_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown trade", trade.ErrNotFound, http.StatusNotFound},
		{"not the buyer", trade.ErrForbidden, http.StatusForbidden},
		{"already confirmed", trade.ErrInvalidState, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doConfirm(t, &stubTradeMgr{err: tc.err})
			require.Equal(t, tc.code, w.Code)
		})
	}
}

func TestApiCancelTrade_OutsiderSeesNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/transactions/:id/cancel", ApiCancelTrade(&stubTradeMgr{err: trade.ErrNotFound}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/tx-1/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
