package handlers

import (
	"net/http"
	"time"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

// GetSessions is the handler for GET /api/sessions
// Mentors see the sessions they lead, everyone else the ones they attend.
func (h *Handlers) GetSessions(c *gin.Context) {
	ctx := c.Request.Context()
	id := caller(c)
	asMentor := id.Role == models.RoleMentor

	var (
		sessions []*models.Session
		err      error
	)
	switch {
	case c.Query("filter") == "upcoming":
		sessions, err = h.Store.Sessions.Upcoming(ctx, id.UserID, asMentor)
	case asMentor:
		sessions, err = h.Store.Sessions.ListForMentor(ctx, id.UserID)
	default:
		sessions, err = h.Store.Sessions.ListForMentee(ctx, id.UserID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type CreateSessionInput struct {
	MentorID      string    `json:"mentorId"`
	MenteeID      string    `json:"menteeId"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Duration      int       `json:"duration" binding:"omitempty,min=1"`
	Location      string    `json:"location"`
	MeetingLink   string    `json:"meetingLink"`
}

// CreateSession is the handler for POST /api/sessions
// The caller fills their own side of the session; admins must name both.
func (h *Handlers) CreateSession(c *gin.Context) {
	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	id := caller(c)
	switch id.Role {
	case models.RoleMentor:
		input.MentorID = id.UserID
	case models.RoleMentee:
		input.MenteeID = id.UserID
	}
	if input.ScheduledDate.IsZero() {
		badRequest(c, "scheduledDate is required")
		return
	}
	if input.MentorID == "" || input.MenteeID == "" {
		badRequest(c, "mentorId and menteeId are required")
		return
	}
	if input.Duration == 0 {
		input.Duration = 60
	}

	session, err := h.Store.Sessions.Create(c.Request.Context(), &models.Session{
		MentorID:      input.MentorID,
		MenteeID:      input.MenteeID,
		Title:         input.Title,
		Description:   input.Description,
		ScheduledDate: input.ScheduledDate,
		Duration:      input.Duration,
		Location:      input.Location,
		MeetingLink:   input.MeetingLink,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

type SessionPatchInput struct {
	SessionID string                `json:"sessionId" binding:"required"`
	Updates   *models.SessionUpdate `json:"updates" binding:"required"`
}

// PatchSession is the handler for PATCH /api/sessions (participants or admin)
func (h *Handlers) PatchSession(c *gin.Context) {
	var input SessionPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := input.Updates.Validate(); err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	existing, err := h.Store.Sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if id := caller(c); !auth.IsAdmin(id) && !existing.HasParticipant(id.UserID) {
		h.respondError(c, auth.ErrForbidden)
		return
	}

	session, err := h.Store.Sessions.Update(ctx, input.SessionID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
