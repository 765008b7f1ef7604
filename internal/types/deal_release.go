package types

import (
	"time"

	"github.com/google/uuid"
)

// AccessLevel is the breadth of deal fields a partner's release exposes.
type AccessLevel string

const (
	AccessSummary   AccessLevel = "summary"
	AccessFull      AccessLevel = "full"
	AccessDocuments AccessLevel = "documents"
)

var accessRank = map[AccessLevel]int{
	AccessSummary:   0,
	AccessFull:      1,
	AccessDocuments: 2,
}

func (a AccessLevel) Known() bool {
	_, ok := accessRank[a]
	return ok
}

// AtLeast reports whether a grants everything level does.
func (a AccessLevel) AtLeast(level AccessLevel) bool {
	return accessRank[a] >= accessRank[level]
}

// ReleaseStatus is the lifecycle state of a deal release.
type ReleaseStatus string

const (
	ReleasePending      ReleaseStatus = "pending"
	ReleaseViewed       ReleaseStatus = "viewed"
	ReleaseInterested   ReleaseStatus = "interested"
	ReleaseReviewing    ReleaseStatus = "reviewing"
	ReleaseDueDiligence ReleaseStatus = "due_diligence"
	ReleaseTermSheet    ReleaseStatus = "term_sheet"
	ReleaseFunded       ReleaseStatus = "funded"
	ReleasePassed       ReleaseStatus = "passed"
)

// Terminal reports whether no further transitions are allowed.
func (s ReleaseStatus) Terminal() bool {
	return s == ReleasePassed || s == ReleaseFunded
}

// NonTerminalStatuses is the CAS guard set for transitions allowed from any
// live state.
func NonTerminalStatuses() []ReleaseStatus {
	return []ReleaseStatus{
		ReleasePending,
		ReleaseViewed,
		ReleaseInterested,
		ReleaseReviewing,
		ReleaseDueDiligence,
		ReleaseTermSheet,
	}
}

// nextAdminStatus maps each admin-advanceable state to its single forward
// successor. Backward moves are not representable.
var nextAdminStatus = map[ReleaseStatus]ReleaseStatus{
	ReleaseInterested:   ReleaseReviewing,
	ReleaseReviewing:    ReleaseDueDiligence,
	ReleaseDueDiligence: ReleaseTermSheet,
	ReleaseTermSheet:    ReleaseFunded,
}

// NextAdminStatus returns the only status an admin may advance s to.
func (s ReleaseStatus) NextAdminStatus() (ReleaseStatus, bool) {
	next, ok := nextAdminStatus[s]
	return next, ok
}

// DealRelease grants a specific partner visibility into a specific deal. The
// (deal, partner) pair is unique and the row is never deleted; it is the
// current-state cache over the append-only access log.
type DealRelease struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	DealID              uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_release_deal_partner" json:"deal_id"`
	Deal                *Deal         `gorm:"constraint:OnDelete:CASCADE;foreignKey:DealID;references:ID" json:"deal,omitempty"`
	PartnerID           uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_release_deal_partner" json:"partner_id"`
	Partner             *Partner      `gorm:"constraint:OnDelete:CASCADE;foreignKey:PartnerID;references:ID" json:"partner,omitempty"`
	AccessLevel         AccessLevel   `gorm:"column:access_level;not null;default:'summary'" json:"access_level"`
	Status              ReleaseStatus `gorm:"not null;default:'pending';index" json:"status"`
	FirstViewedAt       *time.Time    `gorm:"column:first_viewed_at" json:"first_viewed_at,omitempty"`
	InterestExpressedAt *time.Time    `gorm:"column:interest_expressed_at" json:"interest_expressed_at,omitempty"`
	PassedAt            *time.Time    `gorm:"column:passed_at" json:"passed_at,omitempty"`
	PassReason          *string       `gorm:"column:pass_reason" json:"pass_reason,omitempty"`
	PartnerNotes        string        `gorm:"column:partner_notes" json:"partner_notes,omitempty"`
	CreatedAt           time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"not null" json:"updated_at"`
}

func (DealRelease) TableName() string { return "deal_release" }
