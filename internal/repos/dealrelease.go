package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type DealReleaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, release *types.DealRelease) (*types.DealRelease, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DealRelease, error)
	GetByDealAndPartner(ctx context.Context, tx *gorm.DB, dealID, partnerID uuid.UUID) (*types.DealRelease, error)
	ListByDealID(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) ([]*types.DealRelease, error)
	ListByPartnerID(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID) ([]*types.DealRelease, error)
	TransitionStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from []types.ReleaseStatus, updates map[string]any) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
}

type dealReleaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDealReleaseRepo(db *gorm.DB, baseLog *logger.Logger) DealReleaseRepo {
	repoLog := baseLog.With("repo", "DealReleaseRepo")
	return &dealReleaseRepo{db: db, log: repoLog}
}

func (r *dealReleaseRepo) Create(ctx context.Context, tx *gorm.DB, release *types.DealRelease) (*types.DealRelease, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if release == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(release).Error; err != nil {
		return nil, err
	}
	return release, nil
}

func (r *dealReleaseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DealRelease, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.DealRelease
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dealReleaseRepo) GetByDealAndPartner(ctx context.Context, tx *gorm.DB, dealID, partnerID uuid.UUID) (*types.DealRelease, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if dealID == uuid.Nil || partnerID == uuid.Nil {
		return nil, nil
	}

	var result types.DealRelease
	err := transaction.WithContext(ctx).
		Where("deal_id = ? AND partner_id = ?", dealID, partnerID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dealReleaseRepo) ListByDealID(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) ([]*types.DealRelease, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DealRelease
	if dealID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Partner").
		Where("deal_id = ?", dealID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dealReleaseRepo) ListByPartnerID(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID) ([]*types.DealRelease, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DealRelease
	if partnerID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// TransitionStatus is the single-statement compare-and-set every lifecycle
// transition goes through: the row is updated only while its status is still
// in the expected set, and all transition fields land in the same UPDATE so a
// lost race can never leave a half-applied pair like (status=viewed,
// access_level=full).
func (r *dealReleaseRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from []types.ReleaseStatus, updates map[string]any) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(from) == 0 || len(updates) == 0 {
		return false, nil
	}

	result := transaction.WithContext(ctx).
		Model(&types.DealRelease{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *dealReleaseRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.DealRelease{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return err
	}
	return nil
}
