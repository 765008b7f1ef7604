package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RequirementCategory groups checklist items for display.
type RequirementCategory string

const (
	CategoryFinancials RequirementCategory = "financials"
	CategoryLegal      RequirementCategory = "legal"
	CategoryCollateral RequirementCategory = "collateral"
	CategoryIdentity   RequirementCategory = "identity"
	CategoryProperty   RequirementCategory = "property"
	CategoryOther      RequirementCategory = "other"
)

func (c RequirementCategory) Known() bool {
	switch c {
	case CategoryFinancials, CategoryLegal, CategoryCollateral, CategoryIdentity, CategoryProperty, CategoryOther:
		return true
	}
	return false
}

// RequirementDefinition is catalog reference data: a named document obligation
// plus the applicability predicates that decide which deals it attaches to.
// Definitions are soft-deactivated, never deleted, so historical status rows
// stay resolvable.
type RequirementDefinition struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string                      `gorm:"not null" json:"name"`
	Description    string                      `json:"description,omitempty"`
	Category       RequirementCategory         `gorm:"not null;index" json:"category"`
	Required       bool                        `gorm:"not null;default:true" json:"required"`
	IsCore         bool                        `gorm:"column:is_core;not null;default:false" json:"is_core"`
	AssetTypes     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"asset_types,omitempty"`
	MinFundingTier FundingTier                 `gorm:"column:min_funding_tier" json:"min_funding_tier,omitempty"`
	DisplayOrder   int                         `gorm:"column:display_order;not null;default:0" json:"display_order"`
	Active         bool                        `gorm:"not null;default:true;index" json:"active"`
	CreatedAt      time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"not null" json:"updated_at"`
}

func (RequirementDefinition) TableName() string { return "requirement_definition" }

// Matches reports whether this definition applies to a deal in the given
// context. Core requirements always apply. An empty AssetTypes list means the
// asset predicate is unconstrained; an unknown deal tier fails any non-empty
// minimum-tier predicate.
func (d *RequirementDefinition) Matches(dc DealContext) bool {
	if d.IsCore {
		return true
	}
	if len(d.AssetTypes) > 0 {
		found := false
		for _, at := range d.AssetTypes {
			if AssetType(at) == dc.AssetType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return dc.FundingTier.Meets(d.MinFundingTier)
}
