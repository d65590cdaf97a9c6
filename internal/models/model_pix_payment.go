package models

import (
	"time"

	"github.com/rioporto/p2p/pkg/types"
)

// PixPayment is a single payment attempt against the PIX gateway. A
// transaction may accumulate several attempts over its life, but at most one
// may be active (pending or awaiting_confirmation) at a time.
type PixPayment struct {
	ID            string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	TransactionID string `gorm:"column:transaction_id;type:uuid;not null;index:idx_txn_id_created,priority:1" json:"transaction_id"`
	// GatewayRef is the charge identifier assigned by the gateway.
	GatewayRef string `gorm:"column:gateway_ref;type:varchar(128);not null;uniqueIndex" json:"gateway_ref"`

	Status types.PixStatus `gorm:"column:status;type:varchar(40);not null;index" json:"status"`
	// Amount must match the owning transaction's fiat amount at creation time.
	Amount int64 `gorm:"column:amount;type:bigint;not null" json:"amount"`

	PaidAt *time.Time `gorm:"column:paid_at;default:null" json:"paid_at"`
	// StatusDetail is the gateway's free-form diagnostic string from the last poll.
	StatusDetail string `gorm:"column:status_detail;type:varchar(255)" json:"status_detail"`

	CreatedAt time.Time  `gorm:"index:idx_txn_id_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at;default:null;index" json:"-"`
}

func (PixPayment) TableName() string {
	return "pix_payment"
}
