package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/harborpeak/dealdesk-backend/internal/sse"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

// SSEEmitter is how services hand events to the realtime layer. The local hub
// and the redis-backed bus both satisfy it.
type SSEEmitter interface {
	Emit(ctx context.Context, msg sse.SSEMessage)
}

// DashboardNotifier pushes live updates to the deal dashboard and partner
// views. All methods are best-effort; a nil notifier is a no-op.
type DashboardNotifier interface {
	ChecklistUpdated(dealID, requirementID uuid.UUID, status types.ChecklistStatus)
	ReleaseCreated(release *types.DealRelease)
	ReleaseTransitioned(release *types.DealRelease)
}

type dashboardNotifier struct {
	emit SSEEmitter
}

func NewDashboardNotifier(emit SSEEmitter) DashboardNotifier {
	return &dashboardNotifier{emit: emit}
}

func (n *dashboardNotifier) ChecklistUpdated(dealID, requirementID uuid.UUID, status types.ChecklistStatus) {
	if n == nil || n.emit == nil || dealID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), sse.SSEMessage{
		Channel: dealID.String(),
		Event:   sse.SSEEventChecklistUpdated,
		Data: map[string]any{
			"deal_id":        dealID,
			"requirement_id": requirementID,
			"status":         status,
		},
	})
}

func (n *dashboardNotifier) ReleaseCreated(release *types.DealRelease) {
	if n == nil || n.emit == nil || release == nil {
		return
	}
	n.emit.Emit(context.Background(), sse.SSEMessage{
		Channel: release.PartnerID.String(),
		Event:   sse.SSEEventReleaseCreated,
		Data:    map[string]any{"release": release},
	})
}

func (n *dashboardNotifier) ReleaseTransitioned(release *types.DealRelease) {
	if n == nil || n.emit == nil || release == nil {
		return
	}
	msg := sse.SSEMessage{
		Event: sse.SSEEventReleaseTransition,
		Data: map[string]any{
			"release_id":   release.ID,
			"deal_id":      release.DealID,
			"partner_id":   release.PartnerID,
			"status":       release.Status,
			"access_level": release.AccessLevel,
		},
	}
	msg.Channel = release.DealID.String()
	n.emit.Emit(context.Background(), msg)
	msg.Channel = release.PartnerID.String()
	n.emit.Emit(context.Background(), msg)
}
