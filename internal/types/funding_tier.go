package types

import (
	"regexp"
	"strconv"
	"strings"
)

// FundingTier is a coarse, totally-ordered bucket of capital-request size.
// The zero value means the amount could not be determined.
type FundingTier string

const (
	TierUnknown   FundingTier = ""
	TierUnder500K FundingTier = "under_500k"
	Tier500K2M    FundingTier = "500k_2m"
	Tier2M10M     FundingTier = "2m_10m"
	Tier10M50M    FundingTier = "10m_50m"
	TierOver50M   FundingTier = "over_50m"
)

var tierRank = map[FundingTier]int{
	TierUnder500K: 0,
	Tier500K2M:    1,
	Tier2M10M:     2,
	Tier10M50M:    3,
	TierOver50M:   4,
}

func (t FundingTier) Known() bool {
	_, ok := tierRank[t]
	return ok
}

// Meets reports whether t satisfies a minimum-tier predicate. An empty minimum
// always passes; an unknown tier fails every non-empty minimum.
func (t FundingTier) Meets(min FundingTier) bool {
	if min == TierUnknown {
		return true
	}
	tr, ok := tierRank[t]
	if !ok {
		return false
	}
	mr, ok := tierRank[min]
	if !ok {
		return true
	}
	return tr >= mr
}

// TierForAmount buckets a dollar amount by fixed breakpoints with exclusive
// upper bounds.
func TierForAmount(amount float64) FundingTier {
	switch {
	case amount < 500_000:
		return TierUnder500K
	case amount < 2_000_000:
		return Tier500K2M
	case amount < 10_000_000:
		return Tier2M10M
	case amount < 50_000_000:
		return Tier10M50M
	default:
		return TierOver50M
	}
}

var numericToken = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// NormalizeFundingAmount maps a free-form funding-amount string onto a tier.
// Tier keys pass through untouched; otherwise the first numeric token is
// extracted (so range strings like "$50,000,000 - $100,000,000" bucket by
// their lower bound) and mapped via TierForAmount. Anything without a numeric
// token yields TierUnknown, never a default tier.
func NormalizeFundingAmount(raw string) FundingTier {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return TierUnknown
	}
	if t := FundingTier(s); t.Known() {
		return t
	}
	token := numericToken.FindString(s)
	if token == "" {
		return TierUnknown
	}
	token = strings.ReplaceAll(token, ",", "")
	amount, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return TierUnknown
	}
	return TierForAmount(amount)
}
