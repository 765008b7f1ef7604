package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deal is the intake record a qualified lead becomes. Asset-type and
// funding-amount fields are raw strings as captured from the intake forms;
// deal-level values override the owning company's when resolving context.
type Deal struct {
	ID                uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID                     `gorm:"type:uuid;not null;index" json:"company_id"`
	Company           *Company                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Name              string                        `gorm:"not null" json:"name"`
	AssetType         string                        `gorm:"column:asset_type" json:"asset_type,omitempty"`
	FundingAmount     string                        `gorm:"column:funding_amount" json:"funding_amount,omitempty"`
	QualificationTier string                        `gorm:"column:qualification_tier" json:"qualification_tier,omitempty"`
	Strengths         datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"strengths,omitempty"`
	Considerations    datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"considerations,omitempty"`
	HeadlineMetrics   datatypes.JSON                `gorm:"type:jsonb" json:"headline_metrics,omitempty"`
	PortfolioMetrics  datatypes.JSON                `gorm:"type:jsonb" json:"portfolio_metrics,omitempty"`
	CreatedAt         time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time                     `gorm:"not null" json:"updated_at"`
	DeletedAt         gorm.DeletedAt                `gorm:"index" json:"deleted_at,omitempty"`
}

func (Deal) TableName() string { return "deal" }
