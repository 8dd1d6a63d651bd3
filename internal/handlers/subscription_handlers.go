package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Donor Subscriptions ---
//

// GetSubscriptionPlans is the handler for GET /api/subscriptions/plans (public)
func (h *Handlers) GetSubscriptionPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": models.Plans()})
}

type CreateSubscriptionInput struct {
	UserID        string                  `json:"userId"`
	Type          models.SubscriptionType `json:"type" binding:"required"`
	Amount        float64                 `json:"amount" binding:"required,gt=0"`
	Currency      string                  `json:"currency"`
	PaymentMethod string                  `json:"paymentMethod"`
}

// CreateSubscription is the handler for POST /api/subscriptions and
// POST /api/admin/subscriptions. Only admins may subscribe someone else.
func (h *Handlers) CreateSubscription(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !input.Type.Valid() {
		badRequest(c, "Invalid subscription type")
		return
	}
	if input.PaymentMethod != "" && !models.PaymentMethod(input.PaymentMethod).Valid() {
		badRequest(c, "Invalid payment method")
		return
	}

	// 2. --- Whose subscription? ---
	id := caller(c)
	if input.UserID == "" {
		input.UserID = id.UserID
	}
	if !auth.CanActFor(id, input.UserID) {
		h.respondError(c, auth.ErrForbidden)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Store.Users.GetByID(ctx, input.UserID); err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Save (dates are derived from the type) ---
	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = "USD"
	}
	sub, err := h.Store.Subscriptions.Create(ctx, &models.Subscription{
		UserID:        input.UserID,
		Type:          input.Type,
		Amount:        input.Amount,
		Currency:      currency,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 4. --- Mirror the status on the user ---
	status := string(sub.Status)
	if _, err := h.Store.Users.Update(ctx, input.UserID, models.UserUpdate{SubscriptionStatus: &status}); err != nil {
		h.Log.Warn("could not mirror subscription status", slog.String("user_id", input.UserID), slog.Any("error", err))
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

// GetMySubscription is the handler for GET /api/subscriptions/me
func (h *Handlers) GetMySubscription(c *gin.Context) {
	ctx := c.Request.Context()
	userID := caller(c).UserID

	active, err := h.Store.Subscriptions.ActiveForUser(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		h.respondError(c, err)
		return
	}
	history, err := h.Store.Subscriptions.ListForUser(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subscription":  active,
		"subscriptions": history,
	})
}

//
// --- Payments ---
//

// GetMyPayments is the handler for GET /api/payments/me
func (h *Handlers) GetMyPayments(c *gin.Context) {
	payments, err := h.Store.Payments.ListForUser(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"totals":   models.SumPayments(payments),
	})
}

type CreatePaymentInput struct {
	Amount         float64              `json:"amount" binding:"required,gt=0"`
	Currency       string               `json:"currency"`
	PaymentMethod  models.PaymentMethod `json:"paymentMethod" binding:"required"`
	SubscriptionID string               `json:"subscriptionId"`
	Metadata       map[string]string    `json:"metadata"`
}

// CreatePayment is the handler for POST /api/payments
// Payments start out pending; the provider callback (or an admin) completes them.
func (h *Handlers) CreatePayment(c *gin.Context) {
	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !input.PaymentMethod.Valid() {
		badRequest(c, "Invalid payment method")
		return
	}

	ctx := c.Request.Context()
	userID := caller(c).UserID
	if input.SubscriptionID != "" {
		sub, err := h.Store.Subscriptions.GetByID(ctx, input.SubscriptionID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if !auth.CanActFor(caller(c), sub.UserID) {
			h.respondError(c, auth.ErrForbidden)
			return
		}
	}

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = "USD"
	}
	payment, err := h.Store.Payments.Create(ctx, &models.Payment{
		UserID:         userID,
		SubscriptionID: input.SubscriptionID,
		Amount:         input.Amount,
		Currency:       currency,
		PaymentMethod:  input.PaymentMethod,
		Metadata:       input.Metadata,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}
