package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type ChecklistStatusRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.ChecklistStatusRecord) ([]*types.ChecklistStatusRecord, error)
	GetByDealID(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) ([]*types.ChecklistStatusRecord, error)
	GetByDealAndRequirement(ctx context.Context, tx *gorm.DB, dealID, requirementID uuid.UUID) (*types.ChecklistStatusRecord, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	UpdateFromStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from []types.ChecklistStatus, updates map[string]any) (bool, error)
}

type checklistStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChecklistStatusRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistStatusRepo {
	repoLog := baseLog.With("repo", "ChecklistStatusRepo")
	return &checklistStatusRepo{db: db, log: repoLog}
}

func (r *checklistStatusRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.ChecklistStatusRecord) ([]*types.ChecklistStatusRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.ChecklistStatusRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *checklistStatusRepo) GetByDealID(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) ([]*types.ChecklistStatusRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChecklistStatusRecord
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

func (r *checklistStatusRepo) GetByDealAndRequirement(ctx context.Context, tx *gorm.DB, dealID, requirementID uuid.UUID) (*types.ChecklistStatusRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if dealID == uuid.Nil || requirementID == uuid.Nil {
		return nil, nil
	}

	var result types.ChecklistStatusRecord
	err := transaction.WithContext(ctx).
		Where("deal_id = ? AND requirement_id = ?", dealID, requirementID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *checklistStatusRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ChecklistStatusRecord{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return err
	}
	return nil
}

// UpdateFromStatus applies updates only when the record is still in one of the
// expected statuses. The boolean result reports whether the guarded write won.
func (r *checklistStatusRepo) UpdateFromStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from []types.ChecklistStatus, updates map[string]any) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(from) == 0 || len(updates) == 0 {
		return false, nil
	}

	result := transaction.WithContext(ctx).
		Model(&types.ChecklistStatusRecord{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
