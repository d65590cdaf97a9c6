package trade

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/app/service/access"
	"github.com/rioporto/p2p/internal/app/service/audit"
	"github.com/rioporto/p2p/internal/app/service/notify"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/internal/platform/pix"
	"github.com/rioporto/p2p/pkg/config"
	types "github.com/rioporto/p2p/pkg/types"
)

type CreateTradeRequest struct {
	SellerID       string `json:"seller_id"`
	ListingID      string `json:"listing_id"`
	FiatAmount     int64  `json:"fiat_amount"`
	CryptoAmount   string `json:"crypto_amount"`
	CryptoCurrency string `json:"crypto_currency"`
}

// PixChargeResult is returned to the buyer after a charge is created.
type PixChargeResult struct {
	PaymentID  string `json:"payment_id"`
	GatewayRef string `json:"gateway_ref"`
	BRCode     string `json:"br_code"`
}

// TradeManager owns every state transition of a P2P trade and the side
// effects that ride along with it.
type TradeManager interface {
	// Create a trade from an accepted listing. Gated on the buyer's tier.
	CreateTrade(ctx context.Context, actingUserID string, req *CreateTradeRequest) (*models.Transaction, error)
	// Buyer claims the PIX was sent.
	ConfirmPaymentByBuyer(ctx context.Context, transactionID, actingUserID string) (*models.Transaction, error)
	// Create a PIX charge at the gateway for an awaiting-payment trade.
	InitiatePixPayment(ctx context.Context, transactionID, actingUserID string) (*PixChargeResult, error)
	// Either party backs out before any payment is claimed.
	Cancel(ctx context.Context, transactionID, actingUserID string) (*models.Transaction, error)
	// Seller releases the crypto after settlement.
	Complete(ctx context.Context, transactionID, actingUserID string) (*models.Transaction, error)
	// Dispute resolution marks the trade failed (operator action).
	Fail(ctx context.Context, transactionID, operatorID, reason string) (*models.Transaction, error)
	// Load a trade visible to one of its parties.
	GetForParty(ctx context.Context, transactionID, userID string) (*models.Transaction, error)
	// List the user's trades, newest first.
	ListForParty(ctx context.Context, userID string, status types.TransactionStatus, from, size int) ([]*models.Transaction, int64, error)
	// Scan transactions (used by listing pages).
	ScanTransactions(ctx context.Context, req *ScanTransactionsRequest) (*ScanTransactionsResponse, error)
}

type Service struct {
	cfg       *config.Config
	log       *zap.SugaredLogger
	db        *gorm.DB
	gateway   pix.Gateway
	accessSvc *access.Service
	notifySvc *notify.Service
	auditSvc  *audit.Service
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, db *gorm.DB, gateway pix.Gateway, accessSvc *access.Service, notifySvc *notify.Service, auditSvc *audit.Service) *Service {
	return &Service{cfg: cfg, log: log, db: db, gateway: gateway, accessSvc: accessSvc, notifySvc: notifySvc, auditSvc: auditSvc}
}

// Scan transaction request/response.
type ScanTransactionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanTransactionsResponse struct {
	Items []*models.Transaction `json:"items"`
	Total int64                 `json:"total"`
}
