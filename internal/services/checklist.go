package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/apperr"
	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/repos"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

// ChecklistService joins the deal-eligible requirement set with per-deal
// status records. An absent record is an explicit pending default, not a null
// scattered across callers. Status records are never deleted; waiving is
// reversible via Restore.
type ChecklistService interface {
	GetChecklist(ctx context.Context, dealID uuid.UUID) (*Checklist, error)
	Waive(ctx context.Context, dealID, requirementID uuid.UUID, reason string) (*types.ChecklistStatusRecord, error)
	Restore(ctx context.Context, dealID, requirementID uuid.UUID) (*types.ChecklistStatusRecord, error)
	SetUploaded(ctx context.Context, dealID, requirementID uuid.UUID, documentID string) (*types.ChecklistStatusRecord, error)
	SetApproved(ctx context.Context, dealID, requirementID uuid.UUID) (*types.ChecklistStatusRecord, error)
	AddManualRequirement(ctx context.Context, dealID uuid.UUID, name string, category types.RequirementCategory) (*types.ChecklistStatusRecord, error)
}

type ChecklistItem struct {
	RequirementID uuid.UUID                 `json:"requirement_id"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description,omitempty"`
	Category      types.RequirementCategory `json:"category"`
	Required      bool                      `json:"required"`
	IsCore        bool                      `json:"is_core"`
	IsManualAdd   bool                      `json:"is_manual_add"`
	Status        types.ChecklistStatus     `json:"status"`
	DocumentID    *string                   `json:"document_id,omitempty"`
	WaivedReason  *string                   `json:"waived_reason,omitempty"`
	UpdatedAt     *time.Time                `json:"updated_at,omitempty"`
}

type ChecklistCategory struct {
	Category types.RequirementCategory `json:"category"`
	Items    []ChecklistItem           `json:"items"`
	Complete bool                      `json:"complete"`
}

type Checklist struct {
	DealID         uuid.UUID           `json:"deal_id"`
	Items          []ChecklistItem     `json:"items"`
	Categories     []ChecklistCategory `json:"categories"`
	CompletedCount int                 `json:"completed_count"`
	TotalCount     int                 `json:"total_count"`
	Progress       float64             `json:"progress"`
}

type checklistService struct {
	db         *gorm.DB
	log        *logger.Logger
	catalog    CatalogService
	resolver   DealContextResolver
	filter     EligibilityFilter
	statusRepo repos.ChecklistStatusRepo
	defRepo    repos.RequirementDefRepo
	notifier   DashboardNotifier
}

func NewChecklistService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog CatalogService,
	resolver DealContextResolver,
	filter EligibilityFilter,
	statusRepo repos.ChecklistStatusRepo,
	defRepo repos.RequirementDefRepo,
	notifier DashboardNotifier,
) ChecklistService {
	serviceLog := baseLog.With("service", "ChecklistService")
	return &checklistService{
		db:         db,
		log:        serviceLog,
		catalog:    catalog,
		resolver:   resolver,
		filter:     filter,
		statusRepo: statusRepo,
		defRepo:    defRepo,
		notifier:   notifier,
	}
}

func (s *checklistService) GetChecklist(ctx context.Context, dealID uuid.UUID) (*Checklist, error) {
	dc, _, err := s.resolver.ResolveForDeal(ctx, nil, dealID)
	if err != nil {
		return nil, err
	}

	defs, err := s.catalog.ListActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	eligible := s.filter.Filter(dc, defs)

	records, err := s.statusRepo.GetByDealID(ctx, nil, dealID)
	if err != nil {
		return nil, fmt.Errorf("load checklist status records: %w", err)
	}
	byRequirement := make(map[uuid.UUID]*types.ChecklistStatusRecord, len(records))
	for _, rec := range records {
		byRequirement[rec.RequirementID] = rec
	}

	items := make([]ChecklistItem, 0, len(eligible))
	seen := make(map[uuid.UUID]bool, len(eligible))
	for _, def := range eligible {
		item := ChecklistItem{
			RequirementID: def.ID,
			Name:          def.Name,
			Description:   def.Description,
			Category:      def.Category,
			Required:      def.Required,
			IsCore:        def.IsCore,
			Status:        types.ChecklistPending,
		}
		if rec, ok := byRequirement[def.ID]; ok {
			item.Status = rec.Status
			item.DocumentID = rec.DocumentID
			item.WaivedReason = rec.WaivedReason
			updated := rec.UpdatedAt
			item.UpdatedAt = &updated
		}
		items = append(items, item)
		seen[def.ID] = true
	}

	// Manual adds and progressed records whose definitions are no longer
	// eligible (or have been deactivated) stay on the checklist as
	// historical items.
	leftoverDefIDs := make([]uuid.UUID, 0)
	for _, rec := range records {
		if seen[rec.RequirementID] {
			continue
		}
		if rec.IsManualAdd {
			updated := rec.UpdatedAt
			items = append(items, ChecklistItem{
				RequirementID: rec.RequirementID,
				Name:          rec.Name,
				Category:      rec.Category,
				Required:      true,
				IsManualAdd:   true,
				Status:        rec.Status,
				DocumentID:    rec.DocumentID,
				WaivedReason:  rec.WaivedReason,
				UpdatedAt:     &updated,
			})
			seen[rec.RequirementID] = true
			continue
		}
		if rec.Status != types.ChecklistPending {
			leftoverDefIDs = append(leftoverDefIDs, rec.RequirementID)
		}
	}
	if len(leftoverDefIDs) > 0 {
		leftoverDefs, err := s.defRepo.GetByIDs(ctx, nil, leftoverDefIDs)
		if err != nil {
			return nil, fmt.Errorf("load historical requirement definitions: %w", err)
		}
		for _, def := range leftoverDefs {
			rec := byRequirement[def.ID]
			if rec == nil || seen[def.ID] {
				continue
			}
			updated := rec.UpdatedAt
			items = append(items, ChecklistItem{
				RequirementID: def.ID,
				Name:          def.Name,
				Description:   def.Description,
				Category:      def.Category,
				Required:      def.Required,
				IsCore:        def.IsCore,
				Status:        rec.Status,
				DocumentID:    rec.DocumentID,
				WaivedReason:  rec.WaivedReason,
				UpdatedAt:     &updated,
			})
			seen[def.ID] = true
		}
	}

	checklist := &Checklist{DealID: dealID, Items: items}
	byCategory := make(map[types.RequirementCategory]*ChecklistCategory)
	categoryOrder := make([]types.RequirementCategory, 0)
	for _, item := range items {
		checklist.TotalCount++
		if item.Status.Completed() {
			checklist.CompletedCount++
		}
		group, ok := byCategory[item.Category]
		if !ok {
			categoryOrder = append(categoryOrder, item.Category)
			group = &ChecklistCategory{Category: item.Category}
			byCategory[item.Category] = group
		}
		group.Items = append(group.Items, item)
	}
	for _, cat := range categoryOrder {
		group := byCategory[cat]
		group.Complete = true
		for _, item := range group.Items {
			if !item.Status.Completed() {
				group.Complete = false
				break
			}
		}
		checklist.Categories = append(checklist.Categories, *group)
	}
	if checklist.TotalCount > 0 {
		checklist.Progress = float64(checklist.CompletedCount) / float64(checklist.TotalCount)
	}
	return checklist, nil
}

func (s *checklistService) Waive(ctx context.Context, dealID, requirementID uuid.UUID, reason string) (*types.ChecklistStatusRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.NewValidation("reason", "waive reason must not be empty")
	}

	var result *types.ChecklistStatusRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec, err := s.requireEligibleRecord(ctx, tx, dealID, requirementID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if rec == nil {
			rec = &types.ChecklistStatusRecord{
				ID:            uuid.New(),
				DealID:        dealID,
				RequirementID: requirementID,
				Status:        types.ChecklistWaived,
				WaivedReason:  &reason,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if _, err := s.statusRepo.Create(ctx, tx, []*types.ChecklistStatusRecord{rec}); err != nil {
				return fmt.Errorf("create waived status record: %w", err)
			}
			result = rec
			return nil
		}
		if rec.Status == types.ChecklistWaived && rec.WaivedReason != nil && *rec.WaivedReason == reason {
			result = rec
			return nil
		}
		if err := s.statusRepo.Update(ctx, tx, rec.ID, map[string]any{
			"status":        types.ChecklistWaived,
			"waived_reason": reason,
			"updated_at":    now,
		}); err != nil {
			return fmt.Errorf("update status record to waived: %w", err)
		}
		rec.Status = types.ChecklistWaived
		rec.WaivedReason = &reason
		rec.UpdatedAt = now
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ChecklistUpdated(dealID, requirementID, types.ChecklistWaived)
	return result, nil
}

func (s *checklistService) Restore(ctx context.Context, dealID, requirementID uuid.UUID) (*types.ChecklistStatusRecord, error) {
	rec, err := s.statusRepo.GetByDealAndRequirement(ctx, nil, dealID, requirementID)
	if err != nil {
		return nil, fmt.Errorf("load status record: %w", err)
	}
	// Absent record is implicit pending; restoring it is a no-op.
	if rec == nil {
		return nil, nil
	}
	switch rec.Status {
	case types.ChecklistPending:
		return rec, nil
	case types.ChecklistWaived:
	default:
		return nil, apperr.NewInvalidTransition("checklist item", string(rec.Status), string(types.ChecklistPending))
	}

	now := time.Now().UTC()
	won, err := s.statusRepo.UpdateFromStatus(ctx, nil, rec.ID, []types.ChecklistStatus{types.ChecklistWaived}, map[string]any{
		"status":        types.ChecklistPending,
		"waived_reason": nil,
		"updated_at":    now,
	})
	if err != nil {
		return nil, fmt.Errorf("restore status record: %w", err)
	}
	if !won {
		fresh, err := s.statusRepo.GetByDealAndRequirement(ctx, nil, dealID, requirementID)
		if err != nil {
			return nil, fmt.Errorf("reload status record: %w", err)
		}
		if fresh != nil && fresh.Status == types.ChecklistPending {
			return fresh, nil
		}
		from := string(types.ChecklistWaived)
		if fresh != nil {
			from = string(fresh.Status)
		}
		return nil, apperr.NewInvalidTransition("checklist item", from, string(types.ChecklistPending))
	}
	rec.Status = types.ChecklistPending
	rec.WaivedReason = nil
	rec.UpdatedAt = now
	s.notifier.ChecklistUpdated(dealID, requirementID, types.ChecklistPending)
	return rec, nil
}

// SetUploaded is the document pipeline's entry point on file submission.
func (s *checklistService) SetUploaded(ctx context.Context, dealID, requirementID uuid.UUID, documentID string) (*types.ChecklistStatusRecord, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, apperr.NewValidation("document_id", "must not be empty")
	}

	var result *types.ChecklistStatusRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec, err := s.requireEligibleRecord(ctx, tx, dealID, requirementID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if rec == nil {
			rec = &types.ChecklistStatusRecord{
				ID:            uuid.New(),
				DealID:        dealID,
				RequirementID: requirementID,
				Status:        types.ChecklistUploaded,
				DocumentID:    &documentID,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if _, err := s.statusRepo.Create(ctx, tx, []*types.ChecklistStatusRecord{rec}); err != nil {
				return fmt.Errorf("create uploaded status record: %w", err)
			}
			result = rec
			return nil
		}
		switch rec.Status {
		case types.ChecklistPending, types.ChecklistUploaded:
		default:
			return apperr.NewInvalidTransition("checklist item", string(rec.Status), string(types.ChecklistUploaded))
		}
		if err := s.statusRepo.Update(ctx, tx, rec.ID, map[string]any{
			"status":      types.ChecklistUploaded,
			"document_id": documentID,
			"updated_at":  now,
		}); err != nil {
			return fmt.Errorf("update status record to uploaded: %w", err)
		}
		rec.Status = types.ChecklistUploaded
		rec.DocumentID = &documentID
		rec.UpdatedAt = now
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ChecklistUpdated(dealID, requirementID, types.ChecklistUploaded)
	return result, nil
}

// SetApproved is the document pipeline's entry point on reviewer sign-off.
// Only an uploaded item can be approved; approved items change again only via
// an explicit admin waive.
func (s *checklistService) SetApproved(ctx context.Context, dealID, requirementID uuid.UUID) (*types.ChecklistStatusRecord, error) {
	rec, err := s.statusRepo.GetByDealAndRequirement(ctx, nil, dealID, requirementID)
	if err != nil {
		return nil, fmt.Errorf("load status record: %w", err)
	}
	if rec == nil {
		return nil, apperr.NewInvalidTransition("checklist item", string(types.ChecklistPending), string(types.ChecklistApproved))
	}
	if rec.Status == types.ChecklistApproved {
		return rec, nil
	}
	if rec.Status != types.ChecklistUploaded {
		return nil, apperr.NewInvalidTransition("checklist item", string(rec.Status), string(types.ChecklistApproved))
	}

	now := time.Now().UTC()
	won, err := s.statusRepo.UpdateFromStatus(ctx, nil, rec.ID, []types.ChecklistStatus{types.ChecklistUploaded}, map[string]any{
		"status":     types.ChecklistApproved,
		"updated_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("approve status record: %w", err)
	}
	if !won {
		fresh, err := s.statusRepo.GetByDealAndRequirement(ctx, nil, dealID, requirementID)
		if err != nil {
			return nil, fmt.Errorf("reload status record: %w", err)
		}
		if fresh != nil && fresh.Status == types.ChecklistApproved {
			return fresh, nil
		}
		from := string(rec.Status)
		if fresh != nil {
			from = string(fresh.Status)
		}
		return nil, apperr.NewInvalidTransition("checklist item", from, string(types.ChecklistApproved))
	}
	rec.Status = types.ChecklistApproved
	rec.UpdatedAt = now
	s.notifier.ChecklistUpdated(dealID, requirementID, types.ChecklistApproved)
	return rec, nil
}

func (s *checklistService) AddManualRequirement(ctx context.Context, dealID uuid.UUID, name string, category types.RequirementCategory) (*types.ChecklistStatusRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.NewValidation("name", "must not be empty")
	}
	if !category.Known() {
		return nil, apperr.NewValidation("category", fmt.Sprintf("unknown category %q", category))
	}
	if _, _, err := s.resolver.ResolveForDeal(ctx, nil, dealID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &types.ChecklistStatusRecord{
		ID:            uuid.New(),
		DealID:        dealID,
		RequirementID: uuid.New(),
		Status:        types.ChecklistPending,
		IsManualAdd:   true,
		Name:          name,
		Category:      category,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.statusRepo.Create(ctx, nil, []*types.ChecklistStatusRecord{rec}); err != nil {
		return nil, fmt.Errorf("create manual checklist item: %w", err)
	}
	s.notifier.ChecklistUpdated(dealID, rec.RequirementID, types.ChecklistPending)
	return rec, nil
}

// requireEligibleRecord loads the status record for (deal, requirement) after
// verifying the requirement is currently applicable: either in the deal's
// filtered catalog set, or an existing manual add. Returns nil when no record
// exists yet (implicit pending).
func (s *checklistService) requireEligibleRecord(ctx context.Context, tx *gorm.DB, dealID, requirementID uuid.UUID) (*types.ChecklistStatusRecord, error) {
	dc, _, err := s.resolver.ResolveForDeal(ctx, tx, dealID)
	if err != nil {
		return nil, err
	}

	rec, err := s.statusRepo.GetByDealAndRequirement(ctx, tx, dealID, requirementID)
	if err != nil {
		return nil, fmt.Errorf("load status record: %w", err)
	}
	if rec != nil && rec.IsManualAdd {
		return rec, nil
	}

	defs, err := s.catalog.ListActive(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, def := range s.filter.Filter(dc, defs) {
		if def.ID == requirementID {
			return rec, nil
		}
	}
	return nil, apperr.NewNotEligible("requirement", fmt.Sprintf("%s does not apply to deal %s", requirementID, dealID))
}
