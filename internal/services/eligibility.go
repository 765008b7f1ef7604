package services

import (
	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

// EligibilityFilter intersects the requirement catalog with a deal's context.
// It runs on every read so catalog edits apply to existing deals immediately;
// nothing is cached.
type EligibilityFilter interface {
	Filter(dc types.DealContext, defs []*types.RequirementDefinition) []*types.RequirementDefinition
}

type eligibilityFilter struct {
	log *logger.Logger
}

func NewEligibilityFilter(baseLog *logger.Logger) EligibilityFilter {
	return &eligibilityFilter{log: baseLog.With("service", "EligibilityFilter")}
}

// Filter preserves catalog order. A definition is included iff it is core, or
// its asset-type and minimum-tier predicates both pass against the context.
func (f *eligibilityFilter) Filter(dc types.DealContext, defs []*types.RequirementDefinition) []*types.RequirementDefinition {
	matched := make([]*types.RequirementDefinition, 0, len(defs))
	for _, def := range defs {
		if def == nil {
			continue
		}
		if def.Matches(dc) {
			matched = append(matched, def)
		}
	}
	return matched
}
