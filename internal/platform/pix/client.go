package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/rioporto/p2p/pkg/config"
)

// Gateway wire statuses. Only "approved" means settled funds; everything else
// is treated by callers as "no status change".
const (
	ChargeStatusPending  = "pending"
	ChargeStatusApproved = "approved"
	ChargeStatusFailed   = "failed"
	ChargeStatusExpired  = "expired"
)

type CreateChargeRequest struct {
	// CorrelationID ties the charge back to the owning transaction.
	CorrelationID string `json:"correlation_id"`
	// Amount in centavos.
	Amount int64 `json:"amount"`
	Payer  string `json:"payer,omitempty"`
}

// ChargeHandle identifies a created charge and carries the copy-paste BR code
// the buyer pays with.
type ChargeHandle struct {
	GatewayRef string     `json:"charge_id"`
	BRCode     string     `json:"br_code"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type ChargeStatus struct {
	Status       string     `json:"status"`
	StatusDetail string     `json:"status_detail"`
	PaidAt       *time.Time `json:"paid_at"`
}

func (s *ChargeStatus) IsPaid() bool {
	return s != nil && s.Status == ChargeStatusApproved
}

// Gateway is the outbound PIX payment API surface used by the core. The
// concrete client is injected so tests can substitute fakes.
type Gateway interface {
	CreateCharge(ctx context.Context, req *CreateChargeRequest) (*ChargeHandle, error)
	GetChargeStatus(ctx context.Context, gatewayRef string) (*ChargeStatus, error)
}

// Client talks to the PIX payment provider over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	log     *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) Gateway {
	timeout := time.Duration(cfg.PixGateway.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: cfg.PixGateway.BaseURL,
		apiKey:  cfg.PixGateway.APIKey,
		log:     log,
	}
}

func (c *Client) CreateCharge(ctx context.Context, req *CreateChargeRequest) (*ChargeHandle, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	var handle ChargeHandle
	if err := c.do(ctx, http.MethodPost, "/v1/charges", bytes.NewReader(body), &handle); err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}
	if handle.GatewayRef == "" {
		return nil, fmt.Errorf("gateway returned empty charge id")
	}
	return &handle, nil
}

func (c *Client) GetChargeStatus(ctx context.Context, gatewayRef string) (*ChargeStatus, error) {
	var status ChargeStatus
	if err := c.do(ctx, http.MethodGet, "/v1/charges/"+gatewayRef, nil, &status); err != nil {
		return nil, fmt.Errorf("failed to get charge status: %w", err)
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warnw("pix_gateway_error", "method", method, "path", path, "status", resp.StatusCode, "body", string(payload))
		return fmt.Errorf("gateway responded %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewClient),
)
