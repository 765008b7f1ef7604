package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/repos"
	"github.com/harborpeak/dealdesk-backend/internal/requestdata"
	"github.com/harborpeak/dealdesk-backend/internal/services"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type ReleaseHandler struct {
	log      *logger.Logger
	releases services.ReleaseService
	dealRepo repos.DealRepo
}

func NewReleaseHandler(log *logger.Logger, releases services.ReleaseService, dealRepo repos.DealRepo) *ReleaseHandler {
	return &ReleaseHandler{
		log:      log.With("handler", "ReleaseHandler"),
		releases: releases,
		dealRepo: dealRepo,
	}
}

// dealView is the partner-facing projection of a deal. Which fields are
// populated is decided here, from the release's access level alone; the
// access controller itself knows nothing about rendering.
type dealView struct {
	DealID            uuid.UUID      `json:"deal_id"`
	Name              string         `json:"name"`
	QualificationTier string         `json:"qualification_tier,omitempty"`
	Strengths         []string       `json:"strengths,omitempty"`
	HeadlineMetrics   datatypes.JSON `json:"headline_metrics,omitempty"`
	Considerations    []string       `json:"considerations,omitempty"`
	PortfolioMetrics  datatypes.JSON `json:"portfolio_metrics,omitempty"`
	ContactName       string         `json:"contact_name,omitempty"`
	ContactEmail      string         `json:"contact_email,omitempty"`
	ContactPhone      string         `json:"contact_phone,omitempty"`
}

func buildDealView(release *types.DealRelease, deal *types.Deal) dealView {
	view := dealView{
		DealID:            deal.ID,
		Name:              deal.Name,
		QualificationTier: deal.QualificationTier,
		Strengths:         deal.Strengths,
		HeadlineMetrics:   deal.HeadlineMetrics,
	}
	if release.AccessLevel.AtLeast(types.AccessFull) {
		view.Considerations = deal.Considerations
		view.PortfolioMetrics = deal.PortfolioMetrics
		if deal.Company != nil {
			view.ContactName = deal.Company.ContactName
			view.ContactEmail = deal.Company.ContactEmail
			view.ContactPhone = deal.Company.ContactPhone
		}
	}
	return view
}

type createReleaseRequest struct {
	DealID    string `json:"deal_id"`
	PartnerID string `json:"partner_id"`
}

// POST /api/admin/releases
func (h *ReleaseHandler) Create(c *gin.Context) {
	var req createReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	dealID, err := uuid.Parse(req.DealID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_deal_id", err)
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_partner_id", err)
		return
	}
	release, err := h.releases.Create(c.Request.Context(), dealID, partnerID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"release": release})
}

// GET /api/releases/:id
// The partner view: release state plus the deal projection its access level
// allows.
func (h *ReleaseHandler) Get(c *gin.Context) {
	release, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	deal, err := h.dealRepo.GetByIDWithCompany(c.Request.Context(), nil, release.DealID)
	if err != nil || deal == nil {
		h.log.Error("Get release failed (load deal)", "error", err, "deal_id", release.DealID)
		RespondError(c, http.StatusInternalServerError, "load_deal_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"release": release,
		"deal":    buildDealView(release, deal),
	})
}

// GET /api/releases
// All releases for the calling partner.
func (h *ReleaseHandler) ListMine(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.PartnerID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	releases, err := h.releases.ListByPartnerID(c.Request.Context(), rd.PartnerID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"releases": releases})
}

// POST /api/releases/:id/viewed
func (h *ReleaseHandler) MarkViewed(c *gin.Context) {
	release, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	updated, err := h.releases.MarkViewed(c.Request.Context(), release.ID, rd.UserID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"release": updated})
}

// POST /api/releases/:id/interest
func (h *ReleaseHandler) ExpressInterest(c *gin.Context) {
	release, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	updated, err := h.releases.ExpressInterest(c.Request.Context(), release.ID, rd.UserID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"release": updated})
}

type passRequest struct {
	Reason string `json:"reason"`
}

// POST /api/releases/:id/pass
func (h *ReleaseHandler) Pass(c *gin.Context) {
	release, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	var req passRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	updated, err := h.releases.Pass(c.Request.Context(), release.ID, rd.UserID, req.Reason)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"release": updated})
}

type noteRequest struct {
	Note string `json:"note"`
}

// POST /api/releases/:id/notes
func (h *ReleaseHandler) AddNote(c *gin.Context) {
	release, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	updated, err := h.releases.AddNote(c.Request.Context(), release.ID, rd.UserID, req.Note)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"release": updated})
}

type downloadRequest struct {
	Kind       string `json:"kind"`
	DocumentID string `json:"document_id"`
}

// POST /api/releases/:id/downloads
func (h *ReleaseHandler) RecordDownload(c *gin.Context) {
	release, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	action := types.ActionDownloadedDocument
	if req.Kind == "package" {
		action = types.ActionDownloadedPackage
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := h.releases.RecordDownload(c.Request.Context(), release.ID, rd.UserID, action, req.DocumentID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"recorded": true})
}

type advanceRequest struct {
	Target string `json:"target"`
}

// POST /api/admin/releases/:id/advance
func (h *ReleaseHandler) AdminAdvance(c *gin.Context) {
	releaseID, ok := h.parseReleaseID(c)
	if !ok {
		return
	}
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	updated, err := h.releases.AdminAdvance(c.Request.Context(), releaseID, rd.UserID, types.ReleaseStatus(req.Target))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"release": updated})
}

type accessLevelRequest struct {
	AccessLevel string `json:"access_level"`
}

// POST /api/admin/releases/:id/access-level
func (h *ReleaseHandler) SetAccessLevel(c *gin.Context) {
	releaseID, ok := h.parseReleaseID(c)
	if !ok {
		return
	}
	var req accessLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	updated, err := h.releases.SetAccessLevel(c.Request.Context(), releaseID, rd.UserID, types.AccessLevel(req.AccessLevel))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"release": updated})
}

// GET /api/admin/releases/:id/log
func (h *ReleaseHandler) AccessLog(c *gin.Context) {
	releaseID, ok := h.parseReleaseID(c)
	if !ok {
		return
	}
	entries, err := h.releases.AccessLog(c.Request.Context(), releaseID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}

// GET /api/admin/deals/:id/releases
func (h *ReleaseHandler) ListByDeal(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil || dealID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_deal_id", err)
		return
	}
	releases, err := h.releases.ListByDealID(c.Request.Context(), dealID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"releases": releases})
}

func (h *ReleaseHandler) parseReleaseID(c *gin.Context) (uuid.UUID, bool) {
	releaseID, err := uuid.Parse(c.Param("id"))
	if err != nil || releaseID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_release_id", err)
		return uuid.Nil, false
	}
	return releaseID, true
}

// loadAuthorized fetches the release and confirms the caller may act on it:
// the partner it was released to, or an admin.
func (h *ReleaseHandler) loadAuthorized(c *gin.Context) (*types.DealRelease, bool) {
	releaseID, ok := h.parseReleaseID(c)
	if !ok {
		return nil, false
	}
	release, err := h.releases.GetByID(c.Request.Context(), releaseID)
	if err != nil {
		RespondAppError(c, err)
		return nil, false
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || (!rd.IsAdmin && rd.PartnerID != release.PartnerID) {
		RespondError(c, http.StatusNotFound, "release_not_found", nil)
		return nil, false
	}
	return release, true
}
