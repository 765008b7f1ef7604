package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harborpeak/dealdesk-backend/internal/apperr"
	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/repos"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

// ReleaseService drives the per-(deal, partner) access-control state machine:
//
//	pending -> viewed -> {interested, passed}
//	interested -> reviewing -> due_diligence -> term_sheet -> funded
//	any non-terminal -> passed
//
// Every transition is a single guarded UPDATE on the release row; the access
// log is appended only after that write commits and is best-effort relative
// to it.
type ReleaseService interface {
	Create(ctx context.Context, dealID, partnerID uuid.UUID) (*types.DealRelease, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.DealRelease, error)
	ListByDealID(ctx context.Context, dealID uuid.UUID) ([]*types.DealRelease, error)
	ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]*types.DealRelease, error)
	MarkViewed(ctx context.Context, releaseID, actorUserID uuid.UUID) (*types.DealRelease, error)
	ExpressInterest(ctx context.Context, releaseID, actorUserID uuid.UUID) (*types.DealRelease, error)
	Pass(ctx context.Context, releaseID, actorUserID uuid.UUID, reason string) (*types.DealRelease, error)
	AdminAdvance(ctx context.Context, releaseID, actorUserID uuid.UUID, target types.ReleaseStatus) (*types.DealRelease, error)
	SetAccessLevel(ctx context.Context, releaseID, actorUserID uuid.UUID, level types.AccessLevel) (*types.DealRelease, error)
	AddNote(ctx context.Context, releaseID, actorUserID uuid.UUID, note string) (*types.DealRelease, error)
	RecordDownload(ctx context.Context, releaseID, actorUserID uuid.UUID, action types.PartnerAction, documentID string) error
	AccessLog(ctx context.Context, releaseID uuid.UUID) ([]*types.PartnerAccessLogEntry, error)
}

type releaseService struct {
	db          *gorm.DB
	log         *logger.Logger
	releaseRepo repos.DealReleaseRepo
	logRepo     repos.AccessLogRepo
	dealRepo    repos.DealRepo
	partnerRepo repos.PartnerRepo
	notifier    DashboardNotifier
}

func NewReleaseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	releaseRepo repos.DealReleaseRepo,
	logRepo repos.AccessLogRepo,
	dealRepo repos.DealRepo,
	partnerRepo repos.PartnerRepo,
	notifier DashboardNotifier,
) ReleaseService {
	serviceLog := baseLog.With("service", "ReleaseService")
	return &releaseService{
		db:          db,
		log:         serviceLog,
		releaseRepo: releaseRepo,
		logRepo:     logRepo,
		dealRepo:    dealRepo,
		partnerRepo: partnerRepo,
		notifier:    notifier,
	}
}

func (s *releaseService) Create(ctx context.Context, dealID, partnerID uuid.UUID) (*types.DealRelease, error) {
	deal, err := s.dealRepo.GetByID(ctx, nil, dealID)
	if err != nil {
		return nil, fmt.Errorf("load deal: %w", err)
	}
	if deal == nil {
		return nil, apperr.NewNotFound("deal", dealID.String())
	}
	partner, err := s.partnerRepo.GetByID(ctx, nil, partnerID)
	if err != nil {
		return nil, fmt.Errorf("load partner: %w", err)
	}
	if partner == nil {
		return nil, apperr.NewNotFound("partner", partnerID.String())
	}

	existing, err := s.releaseRepo.GetByDealAndPartner(ctx, nil, dealID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("check existing release: %w", err)
	}
	if existing != nil {
		return nil, apperr.NewValidation("partner_id", "deal already released to this partner")
	}

	now := time.Now().UTC()
	release := &types.DealRelease{
		ID:          uuid.New(),
		DealID:      dealID,
		PartnerID:   partnerID,
		AccessLevel: types.AccessSummary,
		Status:      types.ReleasePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.releaseRepo.Create(ctx, nil, release); err != nil {
		s.log.Error("Create release failed", "error", err, "deal_id", dealID, "partner_id", partnerID)
		return nil, fmt.Errorf("create release: %w", err)
	}
	s.notifier.ReleaseCreated(release)
	return release, nil
}

func (s *releaseService) GetByID(ctx context.Context, id uuid.UUID) (*types.DealRelease, error) {
	release, err := s.releaseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load release: %w", err)
	}
	if release == nil {
		return nil, apperr.NewNotFound("release", id.String())
	}
	return release, nil
}

func (s *releaseService) ListByDealID(ctx context.Context, dealID uuid.UUID) ([]*types.DealRelease, error) {
	return s.releaseRepo.ListByDealID(ctx, nil, dealID)
}

func (s *releaseService) ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]*types.DealRelease, error) {
	return s.releaseRepo.ListByPartnerID(ctx, nil, partnerID)
}

// MarkViewed records a view at the granularity the release's access level
// exposes. The pending -> viewed transition and firstViewedAt happen exactly
// once; later calls only append to the access log. Terminal releases reject
// the call instead of silently ignoring it.
func (s *releaseService) MarkViewed(ctx context.Context, releaseID, actorUserID uuid.UUID) (*types.DealRelease, error) {
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if release.Status.Terminal() {
		return nil, apperr.NewInvalidTransition("release", string(release.Status), string(types.ReleaseViewed))
	}

	if release.Status == types.ReleasePending {
		now := time.Now().UTC()
		won, err := s.releaseRepo.TransitionStatus(ctx, nil, releaseID,
			[]types.ReleaseStatus{types.ReleasePending},
			map[string]any{
				"status":          types.ReleaseViewed,
				"first_viewed_at": now,
				"updated_at":      now,
			})
		if err != nil {
			return nil, fmt.Errorf("mark release viewed: %w", err)
		}
		if won {
			release.Status = types.ReleaseViewed
			release.FirstViewedAt = &now
			release.UpdatedAt = now
			s.notifier.ReleaseTransitioned(release)
		} else {
			// Lost a race; someone else moved the release first.
			release, err = s.GetByID(ctx, releaseID)
			if err != nil {
				return nil, err
			}
			if release.Status.Terminal() {
				return nil, apperr.NewInvalidTransition("release", string(release.Status), string(types.ReleaseViewed))
			}
		}
	}

	action := types.ActionViewedSummary
	if release.AccessLevel.AtLeast(types.AccessFull) {
		action = types.ActionViewedFull
	}
	s.appendLog(ctx, release, actorUserID, action, nil)
	return release, nil
}

// ExpressInterest moves the release to interested and raises the partner's
// access to full as one guarded write: both columns land in the same UPDATE,
// so there is never an observable state where one changed without the other.
func (s *releaseService) ExpressInterest(ctx context.Context, releaseID, actorUserID uuid.UUID) (*types.DealRelease, error) {
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	switch release.Status {
	case types.ReleasePending, types.ReleaseViewed:
	case types.ReleaseInterested:
		// Already interested; retrying is a no-op.
		return release, nil
	default:
		return nil, apperr.NewInvalidTransition("release", string(release.Status), string(types.ReleaseInterested))
	}

	now := time.Now().UTC()
	won, err := s.releaseRepo.TransitionStatus(ctx, nil, releaseID,
		[]types.ReleaseStatus{types.ReleasePending, types.ReleaseViewed},
		map[string]any{
			"status":                types.ReleaseInterested,
			"access_level":          types.AccessFull,
			"interest_expressed_at": now,
			"updated_at":            now,
		})
	if err != nil {
		return nil, fmt.Errorf("express interest: %w", err)
	}
	if !won {
		fresh, err := s.GetByID(ctx, releaseID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == types.ReleaseInterested {
			return fresh, nil
		}
		return nil, apperr.NewInvalidTransition("release", string(fresh.Status), string(types.ReleaseInterested))
	}

	release.Status = types.ReleaseInterested
	release.AccessLevel = types.AccessFull
	release.InterestExpressedAt = &now
	release.UpdatedAt = now
	s.appendLog(ctx, release, actorUserID, types.ActionExpressedInterest, nil)
	s.notifier.ReleaseTransitioned(release)
	return release, nil
}

// Pass is allowed from any non-terminal state and does not alter the access
// level: historical access stays visible for audit.
func (s *releaseService) Pass(ctx context.Context, releaseID, actorUserID uuid.UUID, reason string) (*types.DealRelease, error) {
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if release.Status.Terminal() {
		return nil, apperr.NewInvalidTransition("release", string(release.Status), string(types.ReleasePassed))
	}

	reason = strings.TrimSpace(reason)
	now := time.Now().UTC()
	updates := map[string]any{
		"status":     types.ReleasePassed,
		"passed_at":  now,
		"updated_at": now,
	}
	if reason != "" {
		updates["pass_reason"] = reason
	}
	won, err := s.releaseRepo.TransitionStatus(ctx, nil, releaseID, types.NonTerminalStatuses(), updates)
	if err != nil {
		return nil, fmt.Errorf("pass release: %w", err)
	}
	if !won {
		fresh, err := s.GetByID(ctx, releaseID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.NewInvalidTransition("release", string(fresh.Status), string(types.ReleasePassed))
	}

	release.Status = types.ReleasePassed
	release.PassedAt = &now
	if reason != "" {
		release.PassReason = &reason
	}
	release.UpdatedAt = now
	details := map[string]any{}
	if reason != "" {
		details["reason"] = reason
	}
	s.appendLog(ctx, release, actorUserID, types.ActionPassed, details)
	s.notifier.ReleaseTransitioned(release)
	return release, nil
}

// AdminAdvance moves a release one step along the admin-controlled stages
// (interested -> reviewing -> due_diligence -> term_sheet -> funded). These
// are monotonic forward moves; backward moves are rejected.
func (s *releaseService) AdminAdvance(ctx context.Context, releaseID, actorUserID uuid.UUID, target types.ReleaseStatus) (*types.DealRelease, error) {
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	next, ok := release.Status.NextAdminStatus()
	if !ok || next != target {
		return nil, apperr.NewInvalidTransition("release", string(release.Status), string(target))
	}

	now := time.Now().UTC()
	won, err := s.releaseRepo.TransitionStatus(ctx, nil, releaseID,
		[]types.ReleaseStatus{release.Status},
		map[string]any{
			"status":     target,
			"updated_at": now,
		})
	if err != nil {
		return nil, fmt.Errorf("advance release: %w", err)
	}
	if !won {
		fresh, err := s.GetByID(ctx, releaseID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.NewInvalidTransition("release", string(fresh.Status), string(target))
	}

	from := release.Status
	release.Status = target
	release.UpdatedAt = now
	action := types.ActionAddedNote
	if target == types.ReleaseTermSheet {
		action = types.ActionSubmittedTermSheet
	}
	s.appendLog(ctx, release, actorUserID, action, map[string]any{
		"transition": fmt.Sprintf("%s -> %s", from, target),
	})
	s.notifier.ReleaseTransitioned(release)
	return release, nil
}

// SetAccessLevel is the only downgrade path; ordinary partner actions never
// lower access.
func (s *releaseService) SetAccessLevel(ctx context.Context, releaseID, actorUserID uuid.UUID, level types.AccessLevel) (*types.DealRelease, error) {
	if !level.Known() {
		return nil, apperr.NewValidation("access_level", fmt.Sprintf("unknown access level %q", level))
	}
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if release.AccessLevel == level {
		return release, nil
	}

	now := time.Now().UTC()
	if err := s.releaseRepo.Update(ctx, nil, releaseID, map[string]any{
		"access_level": level,
		"updated_at":   now,
	}); err != nil {
		return nil, fmt.Errorf("set access level: %w", err)
	}
	previous := release.AccessLevel
	release.AccessLevel = level
	release.UpdatedAt = now
	s.appendLog(ctx, release, actorUserID, types.ActionAddedNote, map[string]any{
		"access_level_change": fmt.Sprintf("%s -> %s", previous, level),
	})
	s.notifier.ReleaseTransitioned(release)
	return release, nil
}

func (s *releaseService) AddNote(ctx context.Context, releaseID, actorUserID uuid.UUID, note string) (*types.DealRelease, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperr.NewValidation("note", "must not be empty")
	}
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	notes := release.PartnerNotes
	if notes != "" {
		notes += "\n"
	}
	notes += note
	now := time.Now().UTC()
	if err := s.releaseRepo.Update(ctx, nil, releaseID, map[string]any{
		"partner_notes": notes,
		"updated_at":    now,
	}); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	release.PartnerNotes = notes
	release.UpdatedAt = now
	s.appendLog(ctx, release, actorUserID, types.ActionAddedNote, map[string]any{"note": note})
	return release, nil
}

// RecordDownload logs package/document downloads. They require the documents
// access level; lower levels are refused rather than silently logged.
func (s *releaseService) RecordDownload(ctx context.Context, releaseID, actorUserID uuid.UUID, action types.PartnerAction, documentID string) error {
	if action != types.ActionDownloadedPackage && action != types.ActionDownloadedDocument {
		return apperr.NewValidation("action", fmt.Sprintf("unsupported download action %q", action))
	}
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return err
	}
	if !release.AccessLevel.AtLeast(types.AccessDocuments) {
		return apperr.NewNotEligible("release", "document access has not been granted")
	}

	details := map[string]any{}
	if documentID = strings.TrimSpace(documentID); documentID != "" {
		details["document_id"] = documentID
	}
	s.appendLog(ctx, release, actorUserID, action, details)
	return nil
}

func (s *releaseService) AccessLog(ctx context.Context, releaseID uuid.UUID) ([]*types.PartnerAccessLogEntry, error) {
	release, err := s.GetByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	entries, err := s.logRepo.ListByDealAndPartner(ctx, nil, release.DealID, release.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("list access log: %w", err)
	}
	return entries, nil
}

// appendLog writes an audit entry after the primary state write has
// committed. Failures are warnings only; the audit log is best-effort
// relative to state correctness and never rolls back a transition.
func (s *releaseService) appendLog(ctx context.Context, release *types.DealRelease, actorUserID uuid.UUID, action types.PartnerAction, details map[string]any) {
	entry := &types.PartnerAccessLogEntry{
		ID:          uuid.New(),
		PartnerID:   release.PartnerID,
		DealID:      release.DealID,
		ActorUserID: actorUserID,
		Action:      action,
		CreatedAt:   time.Now().UTC(),
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			s.log.Warn("Failed to marshal access log details", "error", err, "action", action)
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}
	if _, err := s.logRepo.Append(ctx, nil, entry); err != nil {
		s.log.Warn("Access log append failed", "error", err,
			"release_id", release.ID, "action", action)
	}
}
