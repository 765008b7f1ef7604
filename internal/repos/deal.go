package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type DealRepo interface {
	Create(ctx context.Context, tx *gorm.DB, deals []*types.Deal) ([]*types.Deal, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Deal, error)
	GetByIDWithCompany(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Deal, error)
}

type dealRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDealRepo(db *gorm.DB, baseLog *logger.Logger) DealRepo {
	repoLog := baseLog.With("repo", "DealRepo")
	return &dealRepo{db: db, log: repoLog}
}

func (r *dealRepo) Create(ctx context.Context, tx *gorm.DB, deals []*types.Deal) ([]*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(deals) == 0 {
		return []*types.Deal{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *dealRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.Deal
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dealRepo) GetByIDWithCompany(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.Deal
	err := transaction.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
