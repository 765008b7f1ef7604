package types

import (
	"testing"

	"gorm.io/datatypes"
)

func TestRequirementDefinitionMatches(t *testing.T) {
	cases := []struct {
		name string
		def  RequirementDefinition
		dc   DealContext
		want bool
	}{
		{
			name: "core_ignores_predicates",
			def: RequirementDefinition{
				IsCore:         true,
				AssetTypes:     datatypes.NewJSONSlice([]string{string(AssetTypeEquipment)}),
				MinFundingTier: TierOver50M,
			},
			dc:   DealContext{AssetType: AssetTypeCommercialRE, FundingTier: TierUnknown},
			want: true,
		},
		{
			name: "asset_list_contains_deal_asset",
			def: RequirementDefinition{
				AssetTypes:     datatypes.NewJSONSlice([]string{string(AssetTypeCommercialRE), string(AssetTypeResidentialRE)}),
				MinFundingTier: Tier2M10M,
			},
			dc:   DealContext{AssetType: AssetTypeCommercialRE, FundingTier: Tier10M50M},
			want: true,
		},
		{
			name: "asset_list_excludes_deal_asset",
			def: RequirementDefinition{
				AssetTypes: datatypes.NewJSONSlice([]string{string(AssetTypeEquipment)}),
			},
			dc:   DealContext{AssetType: AssetTypeCommercialRE, FundingTier: Tier10M50M},
			want: false,
		},
		{
			name: "empty_asset_list_is_unconstrained",
			def: RequirementDefinition{
				MinFundingTier: Tier2M10M,
			},
			dc:   DealContext{AssetType: AssetTypeWorkingCapital, FundingTier: Tier2M10M},
			want: true,
		},
		{
			name: "tier_below_minimum_excluded",
			def: RequirementDefinition{
				AssetTypes:     datatypes.NewJSONSlice([]string{string(AssetTypeCommercialRE), string(AssetTypeResidentialRE)}),
				MinFundingTier: TierOver50M,
			},
			dc:   DealContext{AssetType: AssetTypeCommercialRE, FundingTier: Tier10M50M},
			want: false,
		},
		{
			name: "unknown_tier_fails_minimum",
			def: RequirementDefinition{
				MinFundingTier: TierUnder500K,
			},
			dc:   DealContext{AssetType: AssetTypeCommercialRE, FundingTier: TierUnknown},
			want: false,
		},
		{
			name: "unknown_tier_passes_without_minimum",
			def:  RequirementDefinition{},
			dc:   DealContext{AssetType: AssetTypeUnknown, FundingTier: TierUnknown},
			want: true,
		},
		{
			name: "unknown_asset_fails_asset_list",
			def: RequirementDefinition{
				AssetTypes: datatypes.NewJSONSlice([]string{string(AssetTypeCommercialRE)}),
			},
			dc:   DealContext{AssetType: AssetTypeUnknown, FundingTier: TierOver50M},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.def.Matches(tc.dc)
			if got != tc.want {
				t.Fatalf("Matches(%+v)=%v, want %v", tc.dc, got, tc.want)
			}
		})
	}
}
