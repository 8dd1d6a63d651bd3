package handlers

import (
	"net/http"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/store"
	"github.com/gin-gonic/gin"
)

//
// --- Resource Library ---
//

// GetResources is the handler for GET /api/resources (?id=, ?featured=true)
func (h *Handlers) GetResources(c *gin.Context) {
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		resource, err := h.Store.Resources.GetByID(ctx, id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resource": resource})
		return
	}

	var (
		resources []*models.Resource
		err       error
	)
	if c.Query("featured") == "true" {
		resources, err = h.Store.Resources.Featured(ctx, store.DefaultFeaturedResources)
	} else {
		resources, err = h.Store.Resources.List(ctx, !auth.IsAdmin(caller(c)))
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// CreateResource is the handler for POST /api/resources (admin)
func (h *Handlers) CreateResource(c *gin.Context) {
	var input models.Resource
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if input.Title == "" || input.URL == "" {
		badRequest(c, "title and url are required")
		return
	}

	resource, err := h.Store.Resources.Create(c.Request.Context(), &input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resource": resource})
}

type ResourcePatchInput struct {
	ResourceID string                 `json:"resourceId" binding:"required"`
	Updates    *models.ResourceUpdate `json:"updates" binding:"required"`
}

// PatchResource is the handler for PATCH /api/resources (admin)
func (h *Handlers) PatchResource(c *gin.Context) {
	var input ResourcePatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	resource, err := h.Store.Resources.Update(c.Request.Context(), input.ResourceID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// DownloadResource is the handler for POST /api/resources/:id/download
// It counts the download and hands back the file location.
func (h *Handlers) DownloadResource(c *gin.Context) {
	ctx := c.Request.Context()
	resourceID := c.Param("id")

	resource, err := h.Store.Resources.GetByID(ctx, resourceID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Store.Resources.IncrementDownloads(ctx, resourceID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":       resource.URL,
		"downloads": resource.Downloads + 1,
	})
}

type RateResourceInput struct {
	Rating float64 `json:"rating" binding:"required"`
}

// RateResource is the handler for POST /api/resources/:id/rate
func (h *Handlers) RateResource(c *gin.Context) {
	var input RateResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := models.ValidateRating(input.Rating); err != nil {
		h.respondError(c, err)
		return
	}

	resource, err := h.Store.Resources.Rate(c.Request.Context(), c.Param("id"), input.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": resource})
}
