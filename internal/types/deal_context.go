package types

// DealContext is the per-deal snapshot the requirement predicates evaluate
// against. It is derived on demand from the deal and its owning company and
// never persisted.
type DealContext struct {
	AssetType   AssetType   `json:"asset_type"`
	FundingTier FundingTier `json:"funding_tier"`
}
