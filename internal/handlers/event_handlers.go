package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/store"
	"github.com/gin-gonic/gin"
)

// GetEvents is the handler for GET /api/events
// ?id= returns one event, ?upcoming=true the next published events, otherwise the list
// (unpublished events are only listed for admins).
func (h *Handlers) GetEvents(c *gin.Context) {
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		event, err := h.Store.Events.GetByID(ctx, id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"event": event})
		return
	}

	if c.Query("upcoming") == "true" {
		limit := store.DefaultUpcomingEvents
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				badRequest(c, "limit must be a positive integer")
				return
			}
			limit = n
		}
		events, err := h.Store.Events.Upcoming(ctx, limit)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
		return
	}

	events, err := h.Store.Events.List(ctx, !auth.IsAdmin(caller(c)))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// EventPostInput carries either a registration (action=register, eventId) or a full
// event for admins to create.
type EventPostInput struct {
	Action  string `json:"action"`
	EventID string `json:"eventId"`
	models.Event
}

// PostEvents is the handler for POST /api/events
func (h *Handlers) PostEvents(c *gin.Context) {
	var input EventPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	if input.Action == "register" {
		h.registerForEvent(c, input.EventID)
		return
	}
	if input.Action != "" {
		badRequest(c, "Unknown action")
		return
	}

	// --- Admin: create event ---
	if err := auth.Authorize(caller(c), models.RoleAdmin); err != nil {
		h.respondError(c, err)
		return
	}
	if input.Title == "" || input.Date.IsZero() {
		badRequest(c, "title and date are required")
		return
	}
	event := input.Event
	if event.HostID == "" {
		event.HostID = caller(c).UserID
		event.HostName = caller(c).Name
	}
	created, err := h.Store.Events.Create(c.Request.Context(), &event)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": created})
}

func (h *Handlers) registerForEvent(c *gin.Context, eventID string) {
	if eventID == "" {
		badRequest(c, "eventId is required")
		return
	}

	reg, err := h.Store.Events.Register(c.Request.Context(), eventID, caller(c).UserID)
	h.Metrics.EventRegistrations.WithLabelValues(registrationOutcome(err)).Inc()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Successfully registered for event",
		"registration": reg,
	})
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return "registered"
	case errors.Is(err, models.ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, models.ErrEventFull):
		return "full"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	}
	return "error"
}

type EventPatchInput struct {
	EventID string              `json:"eventId" binding:"required"`
	Updates *models.EventUpdate `json:"updates" binding:"required"`
}

// PatchEvents is the handler for PATCH /api/events (admin)
func (h *Handlers) PatchEvents(c *gin.Context) {
	var input EventPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	event, err := h.Store.Events.Update(c.Request.Context(), input.EventID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// GetMyRegistrations is the handler for GET /api/events/registrations
func (h *Handlers) GetMyRegistrations(c *gin.Context) {
	regs, err := h.Store.Events.RegistrationsForUser(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}
