package pix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/rioporto/p2p/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &cfgpkg.Config{}
	cfg.PixGateway.BaseURL = srv.URL
	cfg.PixGateway.APIKey = "test-key"
	cfg.PixGateway.TimeoutSeconds = 2
	return NewClient(cfg, zap.NewNop().Sugar())
}

func TestCreateCharge(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/charges", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"charge_id":"chg_123","br_code":"00020126580014br.gov.bcb.pix..."}`))
	})

	handle, err := client.CreateCharge(context.Background(), &CreateChargeRequest{
		CorrelationID: "tx-1",
		Amount:        123456,
	})
	require.NoError(t, err)
	require.Equal(t, "chg_123", handle.GatewayRef)
	require.NotEmpty(t, handle.BRCode)
}

func TestCreateCharge_EmptyChargeIDIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.CreateCharge(context.Background(), &CreateChargeRequest{CorrelationID: "tx-1", Amount: 100})
	require.Error(t, err)
}

func TestGetChargeStatus(t *testing.T) {
	paidAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/charges/chg_123", r.URL.Path)
		w.Write([]byte(`{"status":"approved","paid_at":"` + paidAt.Format(time.RFC3339) + `"}`))
	})

	st, err := client.GetChargeStatus(context.Background(), "chg_123")
	require.NoError(t, err)
	require.True(t, st.IsPaid())
	require.NotNil(t, st.PaidAt)
	require.True(t, st.PaidAt.Equal(paidAt))
}

func TestGetChargeStatus_NonPaidStatuses(t *testing.T) {
	for _, status := range []string{ChargeStatusPending, ChargeStatusFailed, ChargeStatusExpired} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"` + status + `"}`))
		})
		st, err := client.GetChargeStatus(context.Background(), "chg_123")
		require.NoError(t, err)
		require.False(t, st.IsPaid())
	}
}

func TestGetChargeStatus_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetChargeStatus(context.Background(), "chg_123")
	require.Error(t, err)
}
