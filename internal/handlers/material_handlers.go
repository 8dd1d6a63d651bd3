package handlers

import (
	"net/http"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

// GetMaterials is the handler for GET /api/materials (?id=)
func (h *Handlers) GetMaterials(c *gin.Context) {
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		material, err := h.Store.Materials.GetByID(ctx, id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"material": material})
		return
	}

	materials, err := h.Store.Materials.List(ctx, !auth.IsAdmin(caller(c)))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// CreateMaterial is the handler for POST /api/materials (admin)
func (h *Handlers) CreateMaterial(c *gin.Context) {
	var input models.TrainingMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if input.Title == "" || input.Type == "" {
		badRequest(c, "title and type are required")
		return
	}

	material, err := h.Store.Materials.Create(c.Request.Context(), &input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"material": material})
}

type MaterialPatchInput struct {
	MaterialID string                         `json:"materialId" binding:"required"`
	Updates    *models.TrainingMaterialUpdate `json:"updates" binding:"required"`
}

// PatchMaterial is the handler for PATCH /api/materials (admin)
func (h *Handlers) PatchMaterial(c *gin.Context) {
	var input MaterialPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	material, err := h.Store.Materials.Update(c.Request.Context(), input.MaterialID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"material": material})
}

// DeleteMaterial is the handler for DELETE /api/materials/:id (admin)
func (h *Handlers) DeleteMaterial(c *gin.Context) {
	if err := h.Store.Materials.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Training material deleted successfully"})
}

//
// --- Learning Progress ---
//

// GetMyProgress is the handler for GET /api/materials/progress
func (h *Handlers) GetMyProgress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := caller(c).UserID

	progress, err := h.Store.Progress.ListForUser(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	stats, err := h.Store.Progress.Stats(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress, "stats": stats})
}

// UpdateProgress is the handler for PUT /api/materials/:id/progress
func (h *Handlers) UpdateProgress(c *gin.Context) {
	var input models.ProgressUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	// 1. --- Validate ---
	if input.Status != nil && !input.Status.Valid() {
		badRequest(c, "Invalid status")
		return
	}
	if p := input.ProgressPercentage; p != nil && (*p < 0 || *p > 100) {
		badRequest(c, "progressPercentage must be between 0 and 100")
		return
	}
	if t := input.TimeSpent; t != nil && *t < 0 {
		badRequest(c, "timeSpent cannot be negative")
		return
	}

	// 2. --- The material must exist ---
	ctx := c.Request.Context()
	materialID := c.Param("id")
	if _, err := h.Store.Materials.GetByID(ctx, materialID); err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Save ---
	progress, err := h.Store.Progress.Upsert(ctx, caller(c).UserID, materialID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
