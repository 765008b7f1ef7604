package services

import (
	"testing"

	"github.com/harborpeak/dealdesk-backend/internal/types"
)

func TestDealContextResolve(t *testing.T) {
	resolver := NewDealContextResolver(nil, testLogger(), nil)

	cases := []struct {
		name    string
		deal    *types.Deal
		company *types.Company
		want    types.DealContext
	}{
		{
			name:    "deal_fields_win_over_company",
			deal:    &types.Deal{AssetType: "commercial_re", FundingAmount: "$12,000,000"},
			company: &types.Company{AssetType: "equipment", FundingAmount: "100000"},
			want:    types.DealContext{AssetType: types.AssetTypeCommercialRE, FundingTier: types.Tier10M50M},
		},
		{
			name:    "company_fallback_per_dimension",
			deal:    &types.Deal{AssetType: "", FundingAmount: "$3,500,000"},
			company: &types.Company{AssetType: "residential_re", FundingAmount: "100000"},
			want:    types.DealContext{AssetType: types.AssetTypeResidentialRE, FundingTier: types.Tier2M10M},
		},
		{
			name:    "company_only",
			deal:    &types.Deal{},
			company: &types.Company{AssetType: "working_capital", FundingAmount: "250,000"},
			want:    types.DealContext{AssetType: types.AssetTypeWorkingCapital, FundingTier: types.TierUnder500K},
		},
		{
			name:    "nothing_resolvable_stays_unknown",
			deal:    &types.Deal{},
			company: &types.Company{},
			want:    types.DealContext{AssetType: types.AssetTypeUnknown, FundingTier: types.TierUnknown},
		},
		{
			name: "nil_company",
			deal: &types.Deal{AssetType: "land_development", FundingAmount: "over_50m"},
			want: types.DealContext{AssetType: types.AssetTypeLandDevelopment, FundingTier: types.TierOver50M},
		},
		{
			name:    "unparseable_amount_is_unknown_not_defaulted",
			deal:    &types.Deal{AssetType: "commercial_re", FundingAmount: "tbd"},
			company: &types.Company{},
			want:    types.DealContext{AssetType: types.AssetTypeCommercialRE, FundingTier: types.TierUnknown},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolver.Resolve(tc.deal, tc.company)
			if got != tc.want {
				t.Fatalf("Resolve()=%+v, want %+v", got, tc.want)
			}
		})
	}
}
