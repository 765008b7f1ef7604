package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type RequirementDefRepo interface {
	Create(ctx context.Context, tx *gorm.DB, defs []*types.RequirementDefinition) ([]*types.RequirementDefinition, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RequirementDefinition, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RequirementDefinition, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.RequirementDefinition, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
}

type requirementDefRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRequirementDefRepo(db *gorm.DB, baseLog *logger.Logger) RequirementDefRepo {
	repoLog := baseLog.With("repo", "RequirementDefRepo")
	return &requirementDefRepo{db: db, log: repoLog}
}

func (r *requirementDefRepo) Create(ctx context.Context, tx *gorm.DB, defs []*types.RequirementDefinition) ([]*types.RequirementDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(defs) == 0 {
		return []*types.RequirementDefinition{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *requirementDefRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RequirementDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.RequirementDefinition
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *requirementDefRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RequirementDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RequirementDefinition
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *requirementDefRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.RequirementDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RequirementDefinition
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("category ASC").
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *requirementDefRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.RequirementDefinition{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return err
	}
	return nil
}

func (r *requirementDefRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"active": false})
}

func (r *requirementDefRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RequirementDefinition{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
