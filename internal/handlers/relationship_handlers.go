package handlers

import (
	"net/http"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

// GetRelationships is the handler for GET /api/relationships
// Mentors get their mentees, everyone else their mentors. Only active pairings count.
func (h *Handlers) GetRelationships(c *gin.Context) {
	ctx := c.Request.Context()
	id := caller(c)

	var (
		rels []*models.MentorMenteeRelationship
		err  error
	)
	if id.Role == models.RoleMentor {
		rels, err = h.Store.Relationships.MenteesOf(ctx, id.UserID)
	} else {
		rels, err = h.Store.Relationships.MentorsOf(ctx, id.UserID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"relationships": rels})
}

type CreateRelationshipInput struct {
	MentorID string                    `json:"mentorId"`
	MenteeID string                    `json:"menteeId" binding:"required"`
	Status   models.RelationshipStatus `json:"status"`
	Notes    string                    `json:"notes"`
}

// CreateRelationship is the handler for POST /api/relationships (mentor or admin)
func (h *Handlers) CreateRelationship(c *gin.Context) {
	var input CreateRelationshipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if input.Status != "" && !input.Status.Valid() {
		h.respondError(c, models.ErrInvalidStatus)
		return
	}

	id := caller(c)
	if id.Role == models.RoleMentor {
		input.MentorID = id.UserID
	}
	if input.MentorID == "" {
		badRequest(c, "mentorId is required")
		return
	}

	// The mentee must be a real mentee account.
	ctx := c.Request.Context()
	mentee, err := h.Store.Users.GetByID(ctx, input.MenteeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if mentee.Role != models.RoleMentee {
		badRequest(c, "menteeId does not belong to a mentee")
		return
	}

	rel, err := h.Store.Relationships.Create(ctx, &models.MentorMenteeRelationship{
		MentorID: input.MentorID,
		MenteeID: input.MenteeID,
		Status:   input.Status,
		Notes:    input.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"relationship": rel})
}

type RelationshipPatchInput struct {
	RelationshipID string                     `json:"relationshipId" binding:"required"`
	Updates        *models.RelationshipUpdate `json:"updates" binding:"required"`
}

// PatchRelationship is the handler for PATCH /api/relationships (participants or admin)
func (h *Handlers) PatchRelationship(c *gin.Context) {
	var input RelationshipPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := input.Updates.Validate(); err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	existing, err := h.Store.Relationships.GetByID(ctx, input.RelationshipID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if id := caller(c); !auth.IsAdmin(id) && !existing.HasParticipant(id.UserID) {
		h.respondError(c, auth.ErrForbidden)
		return
	}

	rel, err := h.Store.Relationships.Update(ctx, input.RelationshipID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"relationship": rel})
}
