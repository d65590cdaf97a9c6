package models

import (
	"time"

	"github.com/rioporto/p2p/pkg/types"
)

// User is the minimal account projection this service needs: identity,
// display name for counterparty-facing notifications, and the persisted KYC
// level that gates feature access. Profile management lives elsewhere.
type User struct {
	ID    string `gorm:"column:id;primary_key;type:varchar(64)" json:"id"`
	Name  string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email string `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`

	KYCLevel types.KYCLevel `gorm:"column:kyc_level;type:smallint;not null;default:0" json:"kyc_level"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at;default:null;index" json:"-"`
}

func (User) TableName() string {
	return "user"
}
