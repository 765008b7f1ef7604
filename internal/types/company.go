package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	AssetType     string         `gorm:"column:asset_type" json:"asset_type,omitempty"`
	FundingAmount string         `gorm:"column:funding_amount" json:"funding_amount,omitempty"`
	ContactName   string         `json:"contact_name,omitempty"`
	ContactEmail  string         `json:"contact_email,omitempty"`
	ContactPhone  string         `json:"contact_phone,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Company) TableName() string { return "company" }
