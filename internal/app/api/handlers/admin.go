package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/rioporto/p2p/internal/app/service/trade"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/response"
	"github.com/rioporto/p2p/pkg/types"
)

type ListTransactionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ListTransactionsResponse struct {
	Items []*TransactionView `json:"items"`
	Total int64              `json:"total"`
}

// @Summary      List Transactions (Admin)
// @Description  Retrieves a paginated and filterable list of all trades.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.ListTransactionsRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListTransactions
// @Router       /api/v1/admin/transactions/list [post]
func ApiListTransactions(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListTransactionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &trade.ScanTransactionsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := mgr.ScanTransactions(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.Transaction, _ int) *TransactionView { return toTransactionView(it) })
		c.JSON(http.StatusOK, response.OKT(&ListTransactionsResponse{Items: items, Total: res.Total}))
	}
}

type FailTransactionRequest struct {
	Reason string `json:"reason"`
}

// @Summary      Fail Transaction (Admin)
// @Description  Resolves a dispute by marking a trade failed. Both parties are notified.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body handlers.FailTransactionRequest true "Failure reason"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/admin/transactions/{id}/fail [post]
func ApiFailTransaction(mgr trade.TradeManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FailTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.Reason == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing reason"))
			return
		}
		txn, err := mgr.Fail(c.Request.Context(), c.Param("id"), sessionUserID(c), req.Reason)
		if err != nil {
			writeTradeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toTransactionView(txn)))
	}
}

func RegisterAdminRoutes(r gin.IRouter, mgr trade.TradeManager) {
	r.POST("/transactions/list", ApiListTransactions(mgr))
	r.POST("/transactions/:id/fail", ApiFailTransaction(mgr))
}
