package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type PartnerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, partners []*types.Partner) ([]*types.Partner, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Partner, error)
}

type partnerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartnerRepo(db *gorm.DB, baseLog *logger.Logger) PartnerRepo {
	repoLog := baseLog.With("repo", "PartnerRepo")
	return &partnerRepo{db: db, log: repoLog}
}

func (r *partnerRepo) Create(ctx context.Context, tx *gorm.DB, partners []*types.Partner) ([]*types.Partner, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(partners) == 0 {
		return []*types.Partner{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *partnerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Partner, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.Partner
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
