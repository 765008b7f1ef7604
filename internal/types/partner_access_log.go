package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PartnerAction is a logged partner (or admin-on-behalf) action against a
// released deal.
type PartnerAction string

const (
	ActionViewedSummary      PartnerAction = "viewed_summary"
	ActionViewedFull         PartnerAction = "viewed_full"
	ActionDownloadedPackage  PartnerAction = "downloaded_package"
	ActionDownloadedDocument PartnerAction = "downloaded_document"
	ActionExpressedInterest  PartnerAction = "expressed_interest"
	ActionPassed             PartnerAction = "passed"
	ActionSubmittedTermSheet PartnerAction = "submitted_term_sheet"
	ActionAddedNote          PartnerAction = "added_note"
)

// PartnerAccessLogEntry is the append-only audit trail of partner engagement.
// Rows are write-once: never updated, never deleted. DealRelease fields are a
// derived cache; this log is the historical source of truth.
type PartnerAccessLogEntry struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PartnerID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_access_log_partner_deal" json:"partner_id"`
	DealID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_access_log_partner_deal" json:"deal_id"`
	ActorUserID uuid.UUID      `gorm:"type:uuid;not null" json:"actor_user_id"`
	Action      PartnerAction  `gorm:"not null;index" json:"action"`
	Details     datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (PartnerAccessLogEntry) TableName() string { return "partner_access_log" }
