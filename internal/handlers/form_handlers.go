package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Lead Capture Forms ---
//

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" binding:"required"`
}

type VolunteerInput struct {
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Phone        string   `json:"phone,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Message      string   `json:"message,omitempty"`
}

type NewsletterInput struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

// SubmitContact is the handler for POST /api/forms/contact
func (h *Handlers) SubmitContact(c *gin.Context) {
	var input ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.Metrics.FormSubmissions.WithLabelValues("contact", "invalid").Inc()
		badRequest(c, err.Error())
		return
	}
	h.relayForm(c, "contact", input)
}

// SubmitVolunteer is the handler for POST /api/forms/volunteer
func (h *Handlers) SubmitVolunteer(c *gin.Context) {
	var input VolunteerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.Metrics.FormSubmissions.WithLabelValues("volunteer", "invalid").Inc()
		badRequest(c, err.Error())
		return
	}
	h.relayForm(c, "volunteer", input)
}

// SubscribeNewsletter is the handler for POST /api/newsletter (form-encoded)
func (h *Handlers) SubscribeNewsletter(c *gin.Context) {
	var input NewsletterInput
	if err := c.ShouldBind(&input); err != nil {
		h.Metrics.FormSubmissions.WithLabelValues("newsletter", "invalid").Inc()
		badRequest(c, err.Error())
		return
	}
	h.relayForm(c, "newsletter", input)
}

// relayForm applies the per-IP limit and forwards the submission.
func (h *Handlers) relayForm(c *gin.Context, form string, payload any) {
	ctx := c.Request.Context()

	// 1. --- Rate limit ---
	allowed, err := h.Limiter.Allow(ctx, form+":"+c.ClientIP())
	if err != nil {
		// Limiter outage: let the submission through.
		h.Log.Warn("rate limiter unavailable", slog.String("form", form), slog.Any("error", err))
		allowed = true
	}
	if !allowed {
		h.Metrics.FormSubmissions.WithLabelValues(form, "limited").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many submissions, please try again later"})
		return
	}

	// 2. --- Forward ---
	if err := h.Forms.Submit(ctx, form, payload); err != nil {
		h.Metrics.FormSubmissions.WithLabelValues(form, "failed").Inc()
		h.respondError(c, err)
		return
	}

	h.Metrics.FormSubmissions.WithLabelValues(form, "sent").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Thank you! Your submission has been received."})
}
