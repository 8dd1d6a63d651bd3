package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/realtime"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: User Management ---
//

// GetUsers is the handler for GET /api/admin/users (?action=stats)
func (h *Handlers) GetUsers(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("action") == "stats" {
		stats, err := h.Store.Users.Stats(ctx)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
		return
	}

	users, err := h.Store.Users.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UserPatchInput has no password field, so a password in the body is dropped on binding.
type UserPatchInput struct {
	UserID  string             `json:"userId" binding:"required"`
	Updates *models.UserUpdate `json:"updates" binding:"required"`
}

// PatchUser is the handler for PATCH /api/admin/users
func (h *Handlers) PatchUser(c *gin.Context) {
	var input UserPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := input.Updates.Validate(); err != nil {
		h.respondError(c, err)
		return
	}
	user, err := h.Store.Users.Update(c.Request.Context(), input.UserID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

//
// --- Admin: Subscriptions & Payments ---
//

// GetSubscriptions is the handler for GET /api/admin/subscriptions (?action=stats)
func (h *Handlers) GetSubscriptions(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("action") == "stats" {
		stats, err := h.Store.Subscriptions.Stats(ctx)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
		return
	}

	subs, err := h.Store.Subscriptions.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

type SubscriptionPatchInput struct {
	SubscriptionID string                     `json:"subscriptionId" binding:"required"`
	Updates        *models.SubscriptionUpdate `json:"updates" binding:"required"`
}

// PatchSubscription is the handler for PATCH /api/admin/subscriptions
func (h *Handlers) PatchSubscription(c *gin.Context) {
	var input SubscriptionPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := input.Updates.Validate(); err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	sub, err := h.Store.Subscriptions.Update(ctx, input.SubscriptionID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if input.Updates.Status != nil {
		status := string(sub.Status)
		if _, err := h.Store.Users.Update(ctx, sub.UserID, models.UserUpdate{SubscriptionStatus: &status}); err != nil {
			h.Log.Warn("could not mirror subscription status", slog.String("user_id", sub.UserID), slog.Any("error", err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

type PaymentPatchInput struct {
	PaymentID string                `json:"paymentId" binding:"required"`
	Updates   *models.PaymentUpdate `json:"updates" binding:"required"`
}

// PatchPayment is the handler for PATCH /api/admin/payments
func (h *Handlers) PatchPayment(c *gin.Context) {
	var input PaymentPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := input.Updates.Validate(); err != nil {
		h.respondError(c, err)
		return
	}
	payment, err := h.Store.Payments.Update(c.Request.Context(), input.PaymentID, *input.Updates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

//
// --- Admin: Realtime Metrics ---
//

// StreamMetrics is the handler for GET /api/admin/metrics/realtime
// It holds the connection open and writes one server-sent event per snapshot until the
// client goes away.
func (h *Handlers) StreamMetrics(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.Metrics.StreamClients.Inc()
	defer h.Metrics.StreamClients.Dec()

	err := h.stream().Run(c.Request.Context(), func(snap realtime.Snapshot) error {
		body, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", body); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		h.Log.Debug("metrics stream closed", slog.Any("error", err))
	}
}
