package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/apperr"
	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/repos"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

// CatalogService manages the requirement catalog. Definitions are reference
// data: admin-edited, ordered by category then display order, and only ever
// soft-deactivated so existing status records stay resolvable.
type CatalogService interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.RequirementDefinition, error)
	Create(ctx context.Context, tx *gorm.DB, input CreateRequirementInput) (*types.RequirementDefinition, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input UpdateRequirementInput) (*types.RequirementDefinition, error)
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type CreateRequirementInput struct {
	Name           string
	Description    string
	Category       types.RequirementCategory
	Required       bool
	IsCore         bool
	AssetTypes     []string
	MinFundingTier types.FundingTier
	DisplayOrder   int
}

type UpdateRequirementInput struct {
	Name           *string
	Description    *string
	Required       *bool
	IsCore         *bool
	AssetTypes     []string
	MinFundingTier *types.FundingTier
	DisplayOrder   *int
}

type catalogService struct {
	db      *gorm.DB
	log     *logger.Logger
	defRepo repos.RequirementDefRepo
}

func NewCatalogService(db *gorm.DB, baseLog *logger.Logger, defRepo repos.RequirementDefRepo) CatalogService {
	serviceLog := baseLog.With("service", "CatalogService")
	return &catalogService{db: db, log: serviceLog, defRepo: defRepo}
}

func (s *catalogService) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.RequirementDefinition, error) {
	defs, err := s.defRepo.ListActive(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("list active requirements: %w", err)
	}
	return defs, nil
}

func (s *catalogService) Create(ctx context.Context, tx *gorm.DB, input CreateRequirementInput) (*types.RequirementDefinition, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.NewValidation("name", "must not be empty")
	}
	if !input.Category.Known() {
		return nil, apperr.NewValidation("category", fmt.Sprintf("unknown category %q", input.Category))
	}
	if input.MinFundingTier != types.TierUnknown && !input.MinFundingTier.Known() {
		return nil, apperr.NewValidation("min_funding_tier", fmt.Sprintf("unknown tier %q", input.MinFundingTier))
	}

	now := time.Now().UTC()
	def := &types.RequirementDefinition{
		ID:             uuid.New(),
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Category:       input.Category,
		Required:       input.Required,
		IsCore:         input.IsCore,
		AssetTypes:     datatypes.NewJSONSlice(input.AssetTypes),
		MinFundingTier: input.MinFundingTier,
		DisplayOrder:   input.DisplayOrder,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.defRepo.Create(ctx, tx, []*types.RequirementDefinition{def}); err != nil {
		s.log.Error("Create requirement failed", "error", err)
		return nil, fmt.Errorf("create requirement: %w", err)
	}
	return def, nil
}

func (s *catalogService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input UpdateRequirementInput) (*types.RequirementDefinition, error) {
	def, err := s.defRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load requirement: %w", err)
	}
	if def == nil {
		return nil, apperr.NewNotFound("requirement", id.String())
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.NewValidation("name", "must not be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Required != nil {
		updates["required"] = *input.Required
	}
	if input.IsCore != nil {
		updates["is_core"] = *input.IsCore
	}
	if input.AssetTypes != nil {
		updates["asset_types"] = datatypes.NewJSONSlice(input.AssetTypes)
	}
	if input.MinFundingTier != nil {
		if *input.MinFundingTier != types.TierUnknown && !input.MinFundingTier.Known() {
			return nil, apperr.NewValidation("min_funding_tier", fmt.Sprintf("unknown tier %q", *input.MinFundingTier))
		}
		updates["min_funding_tier"] = *input.MinFundingTier
	}
	if input.DisplayOrder != nil {
		updates["display_order"] = *input.DisplayOrder
	}

	if err := s.defRepo.Update(ctx, tx, id, updates); err != nil {
		s.log.Error("Update requirement failed", "error", err, "requirement_id", id)
		return nil, fmt.Errorf("update requirement: %w", err)
	}
	return s.defRepo.GetByID(ctx, tx, id)
}

// Deactivate soft-disables a definition for new reads. Status records that
// reference it are untouched and stay visible as historical items.
func (s *catalogService) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	def, err := s.defRepo.GetByID(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("load requirement: %w", err)
	}
	if def == nil {
		return apperr.NewNotFound("requirement", id.String())
	}
	if err := s.defRepo.Deactivate(ctx, tx, id); err != nil {
		s.log.Error("Deactivate requirement failed", "error", err, "requirement_id", id)
		return fmt.Errorf("deactivate requirement: %w", err)
	}
	return nil
}
