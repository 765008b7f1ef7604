package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type seedRequirement struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Category       string   `yaml:"category"`
	Required       bool     `yaml:"required"`
	IsCore         bool     `yaml:"is_core"`
	AssetTypes     []string `yaml:"asset_types"`
	MinFundingTier string   `yaml:"min_funding_tier"`
	DisplayOrder   int      `yaml:"display_order"`
}

type seedFile struct {
	Requirements []seedRequirement `yaml:"requirements"`
}

// SeedRequirementCatalog loads the standard document set into an empty
// catalog. A populated catalog is left untouched so admin edits survive
// restarts.
func SeedRequirementCatalog(ctx context.Context, db *gorm.DB, log *logger.Logger, path string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&types.RequirementDefinition{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count requirement definitions: %w", err)
	}
	if count > 0 {
		log.Debug("Requirement catalog already populated, skipping seed", "count", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	if len(file.Requirements) == 0 {
		log.Warn("Seed file contains no requirements", "path", path)
		return nil
	}

	now := time.Now().UTC()
	defs := make([]*types.RequirementDefinition, 0, len(file.Requirements))
	for _, req := range file.Requirements {
		category := types.RequirementCategory(req.Category)
		if !category.Known() {
			return fmt.Errorf("seed requirement %q has unknown category %q", req.Name, req.Category)
		}
		tier := types.FundingTier(req.MinFundingTier)
		if tier != types.TierUnknown && !tier.Known() {
			return fmt.Errorf("seed requirement %q has unknown funding tier %q", req.Name, req.MinFundingTier)
		}
		defs = append(defs, &types.RequirementDefinition{
			ID:             uuid.New(),
			Name:           req.Name,
			Description:    req.Description,
			Category:       category,
			Required:       req.Required,
			IsCore:         req.IsCore,
			AssetTypes:     datatypes.NewJSONSlice(req.AssetTypes),
			MinFundingTier: tier,
			DisplayOrder:   req.DisplayOrder,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	if err := db.WithContext(ctx).Create(&defs).Error; err != nil {
		return fmt.Errorf("insert seed requirements: %w", err)
	}
	log.Info("Requirement catalog seeded", "count", len(defs), "path", path)
	return nil
}
