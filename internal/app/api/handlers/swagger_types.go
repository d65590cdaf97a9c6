package handlers

import (
	"github.com/rioporto/p2p/internal/app/service/reconcile"
	"github.com/rioporto/p2p/internal/app/service/trade"
	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespTransaction wraps a single TransactionView in the standard envelope.
type RespTransaction struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    TransactionView          `json:"data"`
}

// RespPixCharge wraps a PixChargeResult in the standard envelope.
type RespPixCharge struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    trade.PixChargeResult    `json:"data"`
}

// RespStatus wraps a reconciled status result in the standard envelope.
type RespStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reconcile.StatusResult   `json:"data"`
}

// RespNotifications wraps a list of notifications in the standard envelope.
type RespNotifications struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Notification    `json:"data"`
}

// RespListTransactions wraps ListTransactionsResponse in the standard envelope.
type RespListTransactions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListTransactionsResponse `json:"data"`
}
