package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/apperr"
	"github.com/harborpeak/dealdesk-backend/internal/repos"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type checklistEnv struct {
	db      *gorm.DB
	svc     ChecklistService
	catalog CatalogService

	deal *types.Deal

	coreID     uuid.UUID // Government ID: core, always applies
	rentRollID uuid.UUID // asset-gated: commercial_re / residential_re
	auditedID  uuid.UUID // tier-gated: 10m_50m and up, never eligible here
}

// newChecklistEnv backs the service stack with sqlite and a deal whose
// context resolves to commercial_re / 2m_10m, so the core and rent-roll
// requirements apply and the audited-financials one does not.
func newChecklistEnv(t *testing.T) *checklistEnv {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()

	dealRepo := repos.NewDealRepo(db, log)
	defRepo := repos.NewRequirementDefRepo(db, log)
	statusRepo := repos.NewChecklistStatusRepo(db, log)
	catalog := NewCatalogService(db, log, defRepo)
	resolver := NewDealContextResolver(db, log, dealRepo)
	filter := NewEligibilityFilter(log)
	svc := NewChecklistService(db, log, catalog, resolver, filter, statusRepo, defRepo, NewDashboardNotifier(nil))

	env := &checklistEnv{db: db, svc: svc, catalog: catalog}
	env.deal = seedCompanyAndDeal(t, db, "commercial_re", "$5,000,000")

	ctx := context.Background()
	core, err := catalog.Create(ctx, nil, CreateRequirementInput{
		Name: "Government ID", Category: types.CategoryIdentity, Required: true, IsCore: true,
	})
	if err != nil {
		t.Fatalf("seed core requirement: %v", err)
	}
	env.coreID = core.ID
	rentRoll, err := catalog.Create(ctx, nil, CreateRequirementInput{
		Name: "Rent Roll", Category: types.CategoryProperty, Required: true,
		AssetTypes: []string{"commercial_re", "residential_re"},
	})
	if err != nil {
		t.Fatalf("seed rent roll: %v", err)
	}
	env.rentRollID = rentRoll.ID
	audited, err := catalog.Create(ctx, nil, CreateRequirementInput{
		Name: "Audited Financials", Category: types.CategoryFinancials, Required: true,
		MinFundingTier: types.Tier10M50M,
	})
	if err != nil {
		t.Fatalf("seed audited financials: %v", err)
	}
	env.auditedID = audited.ID
	return env
}

func (e *checklistEnv) item(t *testing.T, requirementID uuid.UUID) ChecklistItem {
	t.Helper()
	checklist, err := e.svc.GetChecklist(context.Background(), e.deal.ID)
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}
	for _, item := range checklist.Items {
		if item.RequirementID == requirementID {
			return item
		}
	}
	t.Fatalf("requirement %s not on checklist", requirementID)
	return ChecklistItem{}
}

func TestGetChecklistDefaultsToPending(t *testing.T) {
	env := newChecklistEnv(t)

	checklist, err := env.svc.GetChecklist(context.Background(), env.deal.ID)
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}
	if checklist.TotalCount != 2 {
		t.Fatalf("TotalCount=%d, want 2 (core + rent roll)", checklist.TotalCount)
	}
	for _, item := range checklist.Items {
		if item.RequirementID == env.auditedID {
			t.Fatal("tier-gated requirement should not be on the checklist")
		}
		if item.Status != types.ChecklistPending {
			t.Fatalf("item %q status=%q, want pending", item.Name, item.Status)
		}
	}
	if checklist.CompletedCount != 0 || checklist.Progress != 0 {
		t.Fatalf("CompletedCount=%d Progress=%v, want zeroes", checklist.CompletedCount, checklist.Progress)
	}
	if len(checklist.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(checklist.Categories))
	}
}

func TestGetChecklistUnknownDeal(t *testing.T) {
	env := newChecklistEnv(t)
	_, err := env.svc.GetChecklist(context.Background(), uuid.New())
	if !apperr.IsNotFound(err) {
		t.Fatalf("err=%v, want NotFoundError", err)
	}
}

func TestGetChecklistEmptyCatalog(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()
	for _, id := range []uuid.UUID{env.coreID, env.rentRollID, env.auditedID} {
		if err := env.catalog.Deactivate(ctx, nil, id); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
	}
	checklist, err := env.svc.GetChecklist(ctx, env.deal.ID)
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}
	if checklist.TotalCount != 0 || checklist.Progress != 0 {
		t.Fatalf("TotalCount=%d Progress=%v, want 0 and 0", checklist.TotalCount, checklist.Progress)
	}
}

func TestWaiveAndRestore(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Waive(ctx, env.deal.ID, env.rentRollID, "   "); !apperr.IsValidation(err) {
		t.Fatalf("blank reason: err=%v, want ValidationError", err)
	}

	rec, err := env.svc.Waive(ctx, env.deal.ID, env.rentRollID, "borrower exempt")
	if err != nil {
		t.Fatalf("Waive: %v", err)
	}
	if rec.Status != types.ChecklistWaived || rec.WaivedReason == nil || *rec.WaivedReason != "borrower exempt" {
		t.Fatalf("got status=%q reason=%v", rec.Status, rec.WaivedReason)
	}

	checklist, err := env.svc.GetChecklist(ctx, env.deal.ID)
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}
	if checklist.CompletedCount != 1 || checklist.Progress != 0.5 {
		t.Fatalf("CompletedCount=%d Progress=%v, want 1 and 0.5", checklist.CompletedCount, checklist.Progress)
	}

	// Waiving again with the same reason is a no-op.
	again, err := env.svc.Waive(ctx, env.deal.ID, env.rentRollID, "borrower exempt")
	if err != nil {
		t.Fatalf("repeat Waive: %v", err)
	}
	if again.ID != rec.ID {
		t.Fatalf("repeat waive created a new record")
	}

	restored, err := env.svc.Restore(ctx, env.deal.ID, env.rentRollID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Status != types.ChecklistPending || restored.WaivedReason != nil {
		t.Fatalf("got status=%q reason=%v, want pending with nil reason", restored.Status, restored.WaivedReason)
	}
	if got := env.item(t, env.rentRollID); got.Status != types.ChecklistPending {
		t.Fatalf("checklist status=%q, want pending", got.Status)
	}
}

func TestRestoreWithoutRecordIsNoop(t *testing.T) {
	env := newChecklistEnv(t)
	rec, err := env.svc.Restore(context.Background(), env.deal.ID, env.rentRollID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if rec != nil {
		t.Fatalf("got %+v, want nil record for implicit pending", rec)
	}
}

func TestWaiveIneligibleRequirement(t *testing.T) {
	env := newChecklistEnv(t)
	_, err := env.svc.Waive(context.Background(), env.deal.ID, env.auditedID, "n/a")
	if !apperr.IsNotEligible(err) {
		t.Fatalf("err=%v, want NotEligibleError", err)
	}
}

func TestUploadApprovePipeline(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()

	if _, err := env.svc.SetUploaded(ctx, env.deal.ID, env.coreID, ""); !apperr.IsValidation(err) {
		t.Fatalf("blank document id: err=%v, want ValidationError", err)
	}
	if _, err := env.svc.SetUploaded(ctx, env.deal.ID, env.auditedID, "doc-1"); !apperr.IsNotEligible(err) {
		t.Fatalf("ineligible upload: err=%v, want NotEligibleError", err)
	}
	if _, err := env.svc.SetApproved(ctx, env.deal.ID, env.coreID); !apperr.IsInvalidTransition(err) {
		t.Fatalf("approve before upload: err=%v, want InvalidStateTransitionError", err)
	}

	rec, err := env.svc.SetUploaded(ctx, env.deal.ID, env.coreID, "doc-1")
	if err != nil {
		t.Fatalf("SetUploaded: %v", err)
	}
	if rec.Status != types.ChecklistUploaded || rec.DocumentID == nil || *rec.DocumentID != "doc-1" {
		t.Fatalf("got status=%q doc=%v", rec.Status, rec.DocumentID)
	}

	// Re-upload replaces the document while still uploaded.
	rec, err = env.svc.SetUploaded(ctx, env.deal.ID, env.coreID, "doc-2")
	if err != nil {
		t.Fatalf("re-upload: %v", err)
	}
	if *rec.DocumentID != "doc-2" {
		t.Fatalf("document id=%q, want doc-2", *rec.DocumentID)
	}

	rec, err = env.svc.SetApproved(ctx, env.deal.ID, env.coreID)
	if err != nil {
		t.Fatalf("SetApproved: %v", err)
	}
	if rec.Status != types.ChecklistApproved {
		t.Fatalf("status=%q, want approved", rec.Status)
	}

	// Approve is idempotent; upload after approval is not allowed.
	if _, err := env.svc.SetApproved(ctx, env.deal.ID, env.coreID); err != nil {
		t.Fatalf("repeat approve: %v", err)
	}
	if _, err := env.svc.SetUploaded(ctx, env.deal.ID, env.coreID, "doc-3"); !apperr.IsInvalidTransition(err) {
		t.Fatalf("upload after approval: err=%v, want InvalidStateTransitionError", err)
	}
	if _, err := env.svc.Restore(ctx, env.deal.ID, env.coreID); !apperr.IsInvalidTransition(err) {
		t.Fatalf("restore from approved: err=%v, want InvalidStateTransitionError", err)
	}
}

func TestAddManualRequirement(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()

	if _, err := env.svc.AddManualRequirement(ctx, env.deal.ID, "", types.CategoryOther); !apperr.IsValidation(err) {
		t.Fatalf("blank name: err=%v, want ValidationError", err)
	}
	if _, err := env.svc.AddManualRequirement(ctx, env.deal.ID, "Site photos", "misc"); !apperr.IsValidation(err) {
		t.Fatalf("unknown category: err=%v, want ValidationError", err)
	}

	rec, err := env.svc.AddManualRequirement(ctx, env.deal.ID, "Site photos", types.CategoryProperty)
	if err != nil {
		t.Fatalf("AddManualRequirement: %v", err)
	}
	if !rec.IsManualAdd || rec.Status != types.ChecklistPending {
		t.Fatalf("got manual=%v status=%q", rec.IsManualAdd, rec.Status)
	}

	item := env.item(t, rec.RequirementID)
	if item.Name != "Site photos" || item.Category != types.CategoryProperty || !item.IsManualAdd {
		t.Fatalf("checklist item %+v missing manual metadata", item)
	}

	// Manual items waive without a catalog definition backing them.
	if _, err := env.svc.Waive(ctx, env.deal.ID, rec.RequirementID, "captured on site visit"); err != nil {
		t.Fatalf("waive manual item: %v", err)
	}
}

func TestDeactivatedRequirementStaysVisibleWhenProgressed(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Waive(ctx, env.deal.ID, env.rentRollID, "historical"); err != nil {
		t.Fatalf("Waive: %v", err)
	}
	if err := env.catalog.Deactivate(ctx, nil, env.rentRollID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	item := env.item(t, env.rentRollID)
	if item.Status != types.ChecklistWaived || item.Name != "Rent Roll" {
		t.Fatalf("historical item %+v, want waived rent roll", item)
	}
}
