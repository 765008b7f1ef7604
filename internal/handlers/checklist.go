package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/services"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type ChecklistHandler struct {
	log       *logger.Logger
	checklist services.ChecklistService
}

func NewChecklistHandler(log *logger.Logger, checklist services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{
		log:       log.With("handler", "ChecklistHandler"),
		checklist: checklist,
	}
}

// GET /api/deals/:id/checklist
func (h *ChecklistHandler) GetChecklist(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil || dealID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_deal_id", err)
		return
	}
	checklist, err := h.checklist.GetChecklist(c.Request.Context(), dealID)
	if err != nil {
		h.log.Error("GetChecklist failed", "error", err, "deal_id", dealID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, checklist)
}

type waiveRequest struct {
	Reason string `json:"reason"`
}

// POST /api/admin/deals/:id/checklist/:requirementId/waive
func (h *ChecklistHandler) Waive(c *gin.Context) {
	dealID, requirementID, ok := h.parseItemIDs(c)
	if !ok {
		return
	}
	var req waiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rec, err := h.checklist.Waive(c.Request.Context(), dealID, requirementID, req.Reason)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"item": rec})
}

// POST /api/admin/deals/:id/checklist/:requirementId/restore
func (h *ChecklistHandler) Restore(c *gin.Context) {
	dealID, requirementID, ok := h.parseItemIDs(c)
	if !ok {
		return
	}
	rec, err := h.checklist.Restore(c.Request.Context(), dealID, requirementID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"item": rec})
}

type uploadRequest struct {
	DocumentID string `json:"document_id"`
}

// POST /api/deals/:id/checklist/:requirementId/upload
// Called by the document pipeline once a file lands in storage.
func (h *ChecklistHandler) SetUploaded(c *gin.Context) {
	dealID, requirementID, ok := h.parseItemIDs(c)
	if !ok {
		return
	}
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rec, err := h.checklist.SetUploaded(c.Request.Context(), dealID, requirementID, req.DocumentID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"item": rec})
}

// POST /api/deals/:id/checklist/:requirementId/approve
// Called by the document pipeline on reviewer sign-off.
func (h *ChecklistHandler) SetApproved(c *gin.Context) {
	dealID, requirementID, ok := h.parseItemIDs(c)
	if !ok {
		return
	}
	rec, err := h.checklist.SetApproved(c.Request.Context(), dealID, requirementID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"item": rec})
}

type manualAddRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// POST /api/admin/deals/:id/checklist/manual
func (h *ChecklistHandler) AddManualRequirement(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil || dealID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_deal_id", err)
		return
	}
	var req manualAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rec, err := h.checklist.AddManualRequirement(c.Request.Context(), dealID, req.Name, types.RequirementCategory(req.Category))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": rec})
}

func (h *ChecklistHandler) parseItemIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil || dealID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_deal_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	requirementID, err := uuid.Parse(c.Param("requirementId"))
	if err != nil || requirementID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_requirement_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	return dealID, requirementID, true
}
