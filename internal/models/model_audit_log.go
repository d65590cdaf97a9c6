package models

import (
	"time"

	"github.com/rioporto/p2p/pkg/types"

	"gorm.io/datatypes"
)

// AuditMetadata is the typed context recorded with every audited action.
type AuditMetadata struct {
	TransactionID string                  `json:"transaction_id,omitempty"`
	FromStatus    types.TransactionStatus `json:"from_status,omitempty"`
	ToStatus      types.TransactionStatus `json:"to_status,omitempty"`
	Amount        int64                   `json:"amount,omitempty"`
	GatewayRef    string                  `json:"gateway_ref,omitempty"`
	Detail        string                  `json:"detail,omitempty"`
}

// AuditLog is append-only: rows are never mutated or deleted. Every
// state-changing core operation writes exactly one entry, inside the same
// database transaction as the state change itself.
type AuditLog struct {
	ID     string            `gorm:"column:id;primary_key;type:uuid;index:idx_user_id_id,priority:2,sort:desc"`
	UserID string            `gorm:"column:user_id;type:varchar(64);not null;index:idx_user_id_id,priority:1"`
	Action types.AuditAction `gorm:"column:action;type:varchar(64);not null;index"`

	EntityType string `gorm:"column:entity_type;type:varchar(64);not null"`
	EntityID   string `gorm:"column:entity_id;type:varchar(64);not null;index"`

	Metadata datatypes.JSONType[*AuditMetadata] `gorm:"column:metadata;type:jsonb;default:'{}'"`

	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
