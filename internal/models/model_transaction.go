package models

import (
	"time"

	"github.com/rioporto/p2p/pkg/types"
)

// Transaction is a P2P trade between a buyer and a seller. Rows are never
// hard-deleted; terminal states are retained for audit and soft deletion is an
// explicit deleted_at filter applied by every core query.
type Transaction struct {
	ID        string `gorm:"column:id;primary_key;type:uuid;index:idx_buyer_id_id,priority:2,sort:desc" json:"id"`
	BuyerID   string `gorm:"column:buyer_id;type:varchar(64);not null;index:idx_buyer_id_id,priority:1" json:"buyer_id"`
	SellerID  string `gorm:"column:seller_id;type:varchar(64);not null;index" json:"seller_id"`
	ListingID string `gorm:"column:listing_id;type:varchar(64);not null" json:"listing_id"`
	// FiatAmount is the BRL amount in centavos.
	FiatAmount     int64  `gorm:"column:fiat_amount;type:bigint;not null" json:"fiat_amount"`
	CryptoAmount   string `gorm:"column:crypto_amount;type:numeric(30,12);not null" json:"crypto_amount"`
	CryptoCurrency string `gorm:"column:crypto_currency;type:varchar(16);not null" json:"crypto_currency"`

	Status types.TransactionStatus `gorm:"column:status;type:varchar(40);not null;index" json:"status"`
	// PaymentRef is the gateway charge reference of the active PIX payment.
	// Nil until a payment is created.
	PaymentRef *string `gorm:"column:payment_ref;type:varchar(128);default:null" json:"payment_ref"`

	// PaymentClaimedAt marks the buyer's "I have paid" confirmation.
	PaymentClaimedAt *time.Time `gorm:"column:payment_claimed_at;default:null" json:"payment_claimed_at"`
	// PaymentConfirmedAt marks gateway settlement.
	PaymentConfirmedAt *time.Time `gorm:"column:payment_confirmed_at;default:null" json:"payment_confirmed_at"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at;default:null;index" json:"-"`
}

func (Transaction) TableName() string {
	return "transaction"
}

// IsParty reports whether userID is the buyer or the seller.
func (t *Transaction) IsParty(userID string) bool {
	if t == nil {
		return false
	}
	return t.BuyerID == userID || t.SellerID == userID
}

func (t *Transaction) CounterpartyOf(userID string) string {
	if t == nil {
		return ""
	}
	if t.BuyerID == userID {
		return t.SellerID
	}
	return t.BuyerID
}
