package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/harborpeak/dealdesk-backend/internal/types"
)

func TestEligibilityFilter(t *testing.T) {
	filter := NewEligibilityFilter(testLogger())

	core := &types.RequirementDefinition{ID: uuid.New(), Name: "Government ID", IsCore: true}
	rentRoll := &types.RequirementDefinition{
		ID:         uuid.New(),
		Name:       "Rent Roll",
		AssetTypes: datatypes.NewJSONSlice([]string{"commercial_re", "residential_re"}),
	}
	audited := &types.RequirementDefinition{
		ID:             uuid.New(),
		Name:           "Audited Financials",
		MinFundingTier: types.Tier10M50M,
	}
	equipmentInvoice := &types.RequirementDefinition{
		ID:         uuid.New(),
		Name:       "Equipment Invoice",
		AssetTypes: datatypes.NewJSONSlice([]string{"equipment"}),
	}
	defs := []*types.RequirementDefinition{core, rentRoll, audited, equipmentInvoice}

	t.Run("matching_context_keeps_catalog_order", func(t *testing.T) {
		dc := types.DealContext{AssetType: types.AssetTypeCommercialRE, FundingTier: types.Tier10M50M}
		got := filter.Filter(dc, defs)
		want := []*types.RequirementDefinition{core, rentRoll, audited}
		if len(got) != len(want) {
			t.Fatalf("got %d defs, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i].ID {
				t.Fatalf("position %d: got %q, want %q", i, got[i].Name, want[i].Name)
			}
		}
	})

	t.Run("unknown_context_keeps_only_core", func(t *testing.T) {
		got := filter.Filter(types.DealContext{}, defs)
		if len(got) != 1 || got[0].ID != core.ID {
			t.Fatalf("got %d defs, want just the core requirement", len(got))
		}
	})

	t.Run("tier_below_minimum_drops_def", func(t *testing.T) {
		dc := types.DealContext{AssetType: types.AssetTypeCommercialRE, FundingTier: types.Tier2M10M}
		got := filter.Filter(dc, defs)
		for _, def := range got {
			if def.ID == audited.ID {
				t.Fatalf("audited financials should not apply below %s", types.Tier10M50M)
			}
		}
		if len(got) != 2 {
			t.Fatalf("got %d defs, want 2", len(got))
		}
	})

	t.Run("nil_defs_skipped", func(t *testing.T) {
		got := filter.Filter(types.DealContext{}, []*types.RequirementDefinition{nil, core})
		if len(got) != 1 {
			t.Fatalf("got %d defs, want 1", len(got))
		}
	})
}
