package models

import (
	"time"

	"github.com/rioporto/p2p/pkg/types"

	"gorm.io/datatypes"
)

// NotificationMetadata is the closed, typed payload attached to a
// notification. One shape per notification kind keeps payload errors at
// compile time instead of leaking free-form maps into clients.
type NotificationMetadata struct {
	TransactionID string `json:"transaction_id"`
	// Amount in centavos, present on payment notifications.
	Amount   int64  `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
	// CounterpartyName is the display name of the other party.
	CounterpartyName string `json:"counterparty_name,omitempty"`
}

// Notification is delivered in-app to exactly one recipient. Immutable after
// creation except for the read flag.
type Notification struct {
	ID      string                 `gorm:"column:id;primary_key;type:uuid;index:idx_user_id_id,priority:2,sort:desc" json:"id"`
	UserID  string                 `gorm:"column:user_id;type:varchar(64);not null;index:idx_user_id_id,priority:1" json:"user_id"`
	Type    types.NotificationType `gorm:"column:type;type:varchar(64);not null" json:"type"`
	Title   string                 `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message string                 `gorm:"column:message;type:varchar(1024);not null" json:"message"`

	Metadata datatypes.JSONType[*NotificationMetadata] `gorm:"column:metadata;type:jsonb;default:'{}'" json:"metadata"`

	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
