package handlers

import (
	"net/http"

	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

// GetBadges is the handler for GET /api/badges
func (h *Handlers) GetBadges(c *gin.Context) {
	badges, err := h.Store.Badges.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

// GetMyBadges is the handler for GET /api/badges/me
func (h *Handlers) GetMyBadges(c *gin.Context) {
	badges, err := h.Store.Badges.ForUser(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

type CreateBadgeInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Icon        string `json:"icon"`
	Criteria    string `json:"criteria" binding:"required"`
	Points      int    `json:"points" binding:"omitempty,min=0"`
}

// CreateBadge is the handler for POST /api/badges (admin)
func (h *Handlers) CreateBadge(c *gin.Context) {
	var input CreateBadgeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	badge, err := h.Store.Badges.Create(c.Request.Context(), &models.Badge{
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
		Criteria:    input.Criteria,
		Points:      input.Points,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"badge": badge})
}

type AwardBadgeInput struct {
	UserID string `json:"userId" binding:"required"`
}

// AwardBadge is the handler for POST /api/badges/:id/award (admin)
// A badge can be earned once per user; a second award is a 409.
func (h *Handlers) AwardBadge(c *gin.Context) {
	var input AwardBadgeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	if _, err := h.Store.Users.GetByID(ctx, input.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	earned, err := h.Store.Badges.Award(ctx, input.UserID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userBadge": earned})
}
