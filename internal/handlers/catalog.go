package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/services"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

type CatalogHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:     log.With("handler", "CatalogHandler"),
		catalog: catalog,
	}
}

// GET /api/requirements
func (h *CatalogHandler) ListRequirements(c *gin.Context) {
	defs, err := h.catalog.ListActive(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListRequirements failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"requirements": defs})
}

type createRequirementRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Required       bool     `json:"required"`
	IsCore         bool     `json:"is_core"`
	AssetTypes     []string `json:"asset_types"`
	MinFundingTier string   `json:"min_funding_tier"`
	DisplayOrder   int      `json:"display_order"`
}

// POST /api/admin/requirements
func (h *CatalogHandler) CreateRequirement(c *gin.Context) {
	var req createRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	def, err := h.catalog.Create(c.Request.Context(), nil, services.CreateRequirementInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       types.RequirementCategory(req.Category),
		Required:       req.Required,
		IsCore:         req.IsCore,
		AssetTypes:     req.AssetTypes,
		MinFundingTier: types.FundingTier(req.MinFundingTier),
		DisplayOrder:   req.DisplayOrder,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requirement": def})
}

type updateRequirementRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Required       *bool    `json:"required"`
	IsCore         *bool    `json:"is_core"`
	AssetTypes     []string `json:"asset_types"`
	MinFundingTier *string  `json:"min_funding_tier"`
	DisplayOrder   *int     `json:"display_order"`
}

// PATCH /api/admin/requirements/:id
func (h *CatalogHandler) UpdateRequirement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_requirement_id", err)
		return
	}
	var req updateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	input := services.UpdateRequirementInput{
		Name:         req.Name,
		Description:  req.Description,
		Required:     req.Required,
		IsCore:       req.IsCore,
		AssetTypes:   req.AssetTypes,
		DisplayOrder: req.DisplayOrder,
	}
	if req.MinFundingTier != nil {
		tier := types.FundingTier(*req.MinFundingTier)
		input.MinFundingTier = &tier
	}
	def, err := h.catalog.Update(c.Request.Context(), nil, id, input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"requirement": def})
}

// DELETE /api/admin/requirements/:id
func (h *CatalogHandler) DeactivateRequirement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_requirement_id", err)
		return
	}
	if err := h.catalog.Deactivate(c.Request.Context(), nil, id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"deactivated": true})
}
