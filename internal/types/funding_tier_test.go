package types

import "testing"

func TestNormalizeFundingAmount(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want FundingTier
	}{
		{
			name: "tier_key_passthrough",
			raw:  "2m_10m",
			want: Tier2M10M,
		},
		{
			name: "tier_key_with_whitespace",
			raw:  "  over_50m ",
			want: TierOver50M,
		},
		{
			name: "plain_number",
			raw:  "450000",
			want: TierUnder500K,
		},
		{
			name: "currency_with_commas",
			raw:  "$1,200,000",
			want: Tier500K2M,
		},
		{
			name: "lower_breakpoint_is_exclusive",
			raw:  "500000",
			want: Tier500K2M,
		},
		{
			name: "upper_bucket",
			raw:  "75,000,000",
			want: TierOver50M,
		},
		{
			name: "range_uses_first_token",
			raw:  "$50,000,000 - $100,000,000",
			want: TierOver50M,
		},
		{
			name: "range_lower_bound_in_middle_bucket",
			raw:  "$2,000,000 to $5,000,000",
			want: Tier2M10M,
		},
		{
			name: "no_numeric_token",
			raw:  "not sure yet",
			want: TierUnknown,
		},
		{
			name: "empty",
			raw:  "",
			want: TierUnknown,
		},
		{
			name: "whitespace_only",
			raw:  "   ",
			want: TierUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeFundingAmount(tc.raw)
			if got != tc.want {
				t.Fatalf("NormalizeFundingAmount(%q)=%q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestTierForAmountMonotonic(t *testing.T) {
	amounts := []float64{0, 1, 499_999, 500_000, 1_999_999, 2_000_000, 9_999_999, 10_000_000, 49_999_999, 50_000_000, 500_000_000}
	for i := 1; i < len(amounts); i++ {
		lower := TierForAmount(amounts[i-1])
		higher := TierForAmount(amounts[i])
		if tierRank[lower] > tierRank[higher] {
			t.Fatalf("TierForAmount not monotonic: %v -> %q ranks above %v -> %q", amounts[i-1], lower, amounts[i], higher)
		}
	}
}

func TestFundingTierMeets(t *testing.T) {
	cases := []struct {
		name string
		tier FundingTier
		min  FundingTier
		want bool
	}{
		{name: "no_minimum_always_passes", tier: TierUnknown, min: TierUnknown, want: true},
		{name: "unknown_fails_any_minimum", tier: TierUnknown, min: TierUnder500K, want: false},
		{name: "equal_meets", tier: Tier2M10M, min: Tier2M10M, want: true},
		{name: "above_meets", tier: Tier10M50M, min: Tier2M10M, want: true},
		{name: "below_fails", tier: Tier500K2M, min: Tier2M10M, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.tier.Meets(tc.min)
			if got != tc.want {
				t.Fatalf("%q.Meets(%q)=%v, want %v", tc.tier, tc.min, got, tc.want)
			}
		})
	}
}
