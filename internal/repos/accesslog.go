package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

// AccessLogRepo is append-only: entries are never updated or deleted.
type AccessLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.PartnerAccessLogEntry) (*types.PartnerAccessLogEntry, error)
	ListByDealAndPartner(ctx context.Context, tx *gorm.DB, dealID, partnerID uuid.UUID) ([]*types.PartnerAccessLogEntry, error)
	ListByDealID(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) ([]*types.PartnerAccessLogEntry, error)
}

type accessLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccessLogRepo(db *gorm.DB, baseLog *logger.Logger) AccessLogRepo {
	repoLog := baseLog.With("repo", "AccessLogRepo")
	return &accessLogRepo{db: db, log: repoLog}
}

func (r *accessLogRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.PartnerAccessLogEntry) (*types.PartnerAccessLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if entry == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *accessLogRepo) ListByDealAndPartner(ctx context.Context, tx *gorm.DB, dealID, partnerID uuid.UUID) ([]*types.PartnerAccessLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PartnerAccessLogEntry
	if dealID == uuid.Nil || partnerID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("deal_id = ? AND partner_id = ?", dealID, partnerID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *accessLogRepo) ListByDealID(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) ([]*types.PartnerAccessLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PartnerAccessLogEntry
	if dealID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
