package types

import (
	"time"

	"github.com/google/uuid"
)

type ChecklistStatus string

const (
	ChecklistPending  ChecklistStatus = "pending"
	ChecklistUploaded ChecklistStatus = "uploaded"
	ChecklistApproved ChecklistStatus = "approved"
	ChecklistWaived   ChecklistStatus = "waived"
)

// Completed reports whether the item counts toward checklist completion.
func (s ChecklistStatus) Completed() bool {
	return s == ChecklistApproved || s == ChecklistWaived
}

// ChecklistStatusRecord tracks per-deal, per-requirement progress. An absent
// row means implicit pending; rows are created on the first status-changing
// action and never deleted (restore returns them to pending instead).
// Manual adds carry their own name/category since no catalog definition
// backs them; their RequirementID is minted at insert time.
type ChecklistStatusRecord struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	DealID        uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_checklist_deal_requirement" json:"deal_id"`
	Deal          *Deal               `gorm:"constraint:OnDelete:CASCADE;foreignKey:DealID;references:ID" json:"deal,omitempty"`
	RequirementID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_checklist_deal_requirement" json:"requirement_id"`
	Status        ChecklistStatus     `gorm:"not null;default:'pending'" json:"status"`
	DocumentID    *string             `gorm:"column:document_id" json:"document_id,omitempty"`
	WaivedReason  *string             `gorm:"column:waived_reason" json:"waived_reason,omitempty"`
	IsManualAdd   bool                `gorm:"column:is_manual_add;not null;default:false" json:"is_manual_add"`
	Name          string              `json:"name,omitempty"`
	Category      RequirementCategory `json:"category,omitempty"`
	CreatedAt     time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"not null" json:"updated_at"`
}

func (ChecklistStatusRecord) TableName() string { return "checklist_status_record" }
