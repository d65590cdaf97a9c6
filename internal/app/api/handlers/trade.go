package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rioporto/p2p/internal/app/service/reconcile"
	"github.com/rioporto/p2p/internal/app/service/trade"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/response"
	"github.com/rioporto/p2p/pkg/tool"
	"github.com/rioporto/p2p/pkg/types"
)

// TransactionView is the trade representation exposed over HTTP.
type TransactionView struct {
	ID                 string                  `json:"id"`
	BuyerID            string                  `json:"buyer_id"`
	SellerID           string                  `json:"seller_id"`
	ListingID          string                  `json:"listing_id"`
	FiatAmount         int64                   `json:"fiat_amount"`
	FiatAmountDisplay  string                  `json:"fiat_amount_display"`
	CryptoAmount       string                  `json:"crypto_amount"`
	CryptoCurrency     string                  `json:"crypto_currency"`
	Status             types.TransactionStatus `json:"status"`
	PaymentRef         *string                 `json:"payment_ref"`
	PaymentClaimedAt   *time.Time              `json:"payment_claimed_at"`
	PaymentConfirmedAt *time.Time              `json:"payment_confirmed_at"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

func toTransactionView(m *models.Transaction) *TransactionView {
	if m == nil {
		return nil
	}
	return &TransactionView{
		ID:                 m.ID,
		BuyerID:            m.BuyerID,
		SellerID:           m.SellerID,
		ListingID:          m.ListingID,
		FiatAmount:         m.FiatAmount,
		FiatAmountDisplay:  tool.FormatBRL(m.FiatAmount),
		CryptoAmount:       m.CryptoAmount,
		CryptoCurrency:     m.CryptoCurrency,
		Status:             m.Status,
		PaymentRef:         m.PaymentRef,
		PaymentClaimedAt:   m.PaymentClaimedAt,
		PaymentConfirmedAt: m.PaymentConfirmedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// writeTradeError maps the trade error taxonomy to HTTP status codes.
// Unknown trades and trades the caller is not a party to both surface as 404.
func writeTradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trade.ErrNotFound):
		c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	case errors.Is(err, trade.ErrForbidden):
		c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, err.Error()))
	case errors.Is(err, trade.ErrInvalidState):
		c.JSON(http.StatusConflict, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
	case errors.Is(err, trade.ErrUpstream):
		c.JSON(http.StatusBadGateway, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}

func sessionUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// @Summary      Create Trade
// @Description  Opens a P2P trade against an accepted listing. The caller becomes the buyer.
// @Tags         Trade
// @Accept       json
// @Produce      json
// @Param        request body trade.CreateTradeRequest true "Trade parameters"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/transactions [post]
func ApiCreateTrade(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trade.CreateTradeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		txn, err := mgr.CreateTrade(c.Request.Context(), sessionUserID(c), &req)
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toTransactionView(txn)))
	}
}

// @Summary      Confirm Payment
// @Description  Buyer claims the PIX transfer was sent. Moves the trade to payment_pending_confirmation.
// @Tags         Trade
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/transactions/{id}/confirm-payment [post]
func ApiConfirmPayment(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := mgr.ConfirmPaymentByBuyer(c.Request.Context(), c.Param("id"), sessionUserID(c))
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toTransactionView(txn)))
	}
}

// @Summary      Initiate PIX Payment
// @Description  Creates a PIX charge at the gateway for an awaiting-payment trade.
// @Tags         Trade
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200  {object}  handlers.RespPixCharge
// @Router       /api/v1/transactions/{id}/pix [post]
func ApiInitiatePix(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := mgr.InitiatePixPayment(c.Request.Context(), c.Param("id"), sessionUserID(c))
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Trade Status
// @Description  Returns the current trade status, reconciling against the PIX gateway when a payment attempt is active.
// @Tags         Trade
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200  {object}  handlers.RespStatus
// @Router       /api/v1/transactions/{id}/status [get]
func ApiGetStatus(rec *reconcile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := rec.CheckStatus(c.Request.Context(), c.Param("id"), sessionUserID(c))
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Trade
// @Description  Returns a trade visible to one of its parties.
// @Tags         Trade
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/transactions/{id} [get]
func ApiGetTrade(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := mgr.GetForParty(c.Request.Context(), c.Param("id"), sessionUserID(c))
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toTransactionView(txn)))
	}
}

// @Summary      List My Trades
// @Description  Returns the caller's trades, newest first.
// @Tags         Trade
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        from query int false "Offset"
// @Param        size query int false "Page size (default 20, max 100)"
// @Success      200  {object}  handlers.RespListTransactions
// @Router       /api/v1/transactions [get]
func ApiListMyTrades(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, _ := strconv.Atoi(c.Query("from"))
		size, _ := strconv.Atoi(c.Query("size"))
		status := types.TransactionStatus(c.Query("status"))

		rows, total, err := mgr.ListForParty(c.Request.Context(), sessionUserID(c), status, from, size)
		if err != nil {
			writeTradeError(c, err)
			return
		}
		items := make([]*TransactionView, 0, len(rows))
		for _, m := range rows {
			items = append(items, toTransactionView(m))
		}
		c.JSON(http.StatusOK, response.OKT(&ListTransactionsResponse{Items: items, Total: total}))
	}
}

// @Summary      Cancel Trade
// @Description  Either party backs out before any payment is claimed.
// @Tags         Trade
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/transactions/{id}/cancel [post]
func ApiCancelTrade(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := mgr.Cancel(c.Request.Context(), c.Param("id"), sessionUserID(c))
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toTransactionView(txn)))
	}
}

// @Summary      Complete Trade
// @Description  Seller releases the crypto after the payment is confirmed.
// @Tags         Trade
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/transactions/{id}/complete [post]
func ApiCompleteTrade(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := mgr.Complete(c.Request.Context(), c.Param("id"), sessionUserID(c))
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toTransactionView(txn)))
	}
}

func RegisterTradeRoutes(r gin.IRouter, mgr trade.TradeManager, rec *reconcile.Service) {
	r.POST("/transactions", ApiCreateTrade(mgr))
	r.GET("/transactions", ApiListMyTrades(mgr))
	r.GET("/transactions/:id", ApiGetTrade(mgr))
	r.GET("/transactions/:id/status", ApiGetStatus(rec))
	r.POST("/transactions/:id/confirm-payment", ApiConfirmPayment(mgr))
	r.POST("/transactions/:id/pix", ApiInitiatePix(mgr))
	r.POST("/transactions/:id/cancel", ApiCancelTrade(mgr))
	r.POST("/transactions/:id/complete", ApiCompleteTrade(mgr))
}
