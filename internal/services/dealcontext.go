package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/apperr"
	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/repos"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

// DealContextResolver derives the asset type and funding tier the requirement
// predicates need from partially-populated deal/company records.
type DealContextResolver interface {
	Resolve(deal *types.Deal, company *types.Company) types.DealContext
	ResolveForDeal(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) (types.DealContext, *types.Deal, error)
}

type dealContextResolver struct {
	db       *gorm.DB
	log      *logger.Logger
	dealRepo repos.DealRepo
}

func NewDealContextResolver(db *gorm.DB, baseLog *logger.Logger, dealRepo repos.DealRepo) DealContextResolver {
	serviceLog := baseLog.With("service", "DealContextResolver")
	return &dealContextResolver{db: db, log: serviceLog, dealRepo: dealRepo}
}

// Resolve is a pure function of its inputs. Deal-level fields win over
// company-level ones; when neither source has a value the dimension stays
// unknown, never a default.
func (r *dealContextResolver) Resolve(deal *types.Deal, company *types.Company) types.DealContext {
	var dc types.DealContext

	assetType := ""
	if deal != nil && deal.AssetType != "" {
		assetType = deal.AssetType
	} else if company != nil && company.AssetType != "" {
		assetType = company.AssetType
	}
	dc.AssetType = types.AssetType(assetType)

	amount := ""
	if deal != nil && deal.FundingAmount != "" {
		amount = deal.FundingAmount
	} else if company != nil && company.FundingAmount != "" {
		amount = company.FundingAmount
	}
	dc.FundingTier = types.NormalizeFundingAmount(amount)

	return dc
}

func (r *dealContextResolver) ResolveForDeal(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) (types.DealContext, *types.Deal, error) {
	deal, err := r.dealRepo.GetByIDWithCompany(ctx, tx, dealID)
	if err != nil {
		return types.DealContext{}, nil, fmt.Errorf("load deal: %w", err)
	}
	if deal == nil {
		return types.DealContext{}, nil, apperr.NewNotFound("deal", dealID.String())
	}
	return r.Resolve(deal, deal.Company), deal, nil
}
