package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionPending   SubscriptionStatus = "pending"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionInactive, SubscriptionCancelled, SubscriptionExpired, SubscriptionPending:
		return true
	}
	return false
}

type SubscriptionType string

const (
	SubscriptionMonthly  SubscriptionType = "monthly"
	SubscriptionYearly   SubscriptionType = "yearly"
	SubscriptionLifetime SubscriptionType = "lifetime"
)

func (t SubscriptionType) Valid() bool {
	return t == SubscriptionMonthly || t == SubscriptionYearly || t == SubscriptionLifetime
}

// Subscription defines a donor's recurring (or lifetime) membership.
type Subscription struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        string             `json:"userId" bson:"userId"`
	Status        SubscriptionStatus `json:"status" bson:"status"`
	Type          SubscriptionType   `json:"type" bson:"type"`
	StartDate     time.Time          `json:"startDate" bson:"startDate"`
	EndDate       *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Amount        float64            `json:"amount" bson:"amount"`
	Currency      string             `json:"currency" bson:"currency"`
	PaymentMethod string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Prepare fills creation defaults: active status, a start date of now and the end date
// implied by the subscription type.
func (s *Subscription) Prepare(now time.Time) {
	s.ID = primitive.NilObjectID
	if s.Status == "" {
		s.Status = SubscriptionActive
	}
	if s.StartDate.IsZero() {
		s.StartDate = now
	}
	if s.EndDate == nil {
		s.EndDate = SubscriptionEndDate(s.Type, s.StartDate)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// SubscriptionEndDate returns start plus one calendar month or year. Lifetime
// subscriptions never end.
func SubscriptionEndDate(t SubscriptionType, start time.Time) *time.Time {
	var end time.Time
	switch t {
	case SubscriptionMonthly:
		end = start.AddDate(0, 1, 0)
	case SubscriptionYearly:
		end = start.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &end
}

type SubscriptionUpdate struct {
	Status        *SubscriptionStatus `json:"status" bson:"status,omitempty"`
	EndDate       *time.Time          `json:"endDate" bson:"endDate,omitempty"`
	Amount        *float64            `json:"amount" bson:"amount,omitempty"`
	Currency      *string             `json:"currency" bson:"currency,omitempty"`
	PaymentMethod *string             `json:"paymentMethod" bson:"paymentMethod,omitempty"`
}

// Validate rejects an unknown status.
func (p SubscriptionUpdate) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (s *Subscription) Apply(p SubscriptionUpdate, now time.Time) {
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.EndDate != nil {
		end := *p.EndDate
		s.EndDate = &end
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.PaymentMethod != nil {
		s.PaymentMethod = *p.PaymentMethod
	}
	s.UpdatedAt = now
}

type SubscriptionStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Cancelled int64 `json:"cancelled"`
	Expired   int64 `json:"expired"`
	Pending   int64 `json:"pending"`
}

func (s *SubscriptionStats) Add(status SubscriptionStatus, n int64) {
	s.Total += n
	switch status {
	case SubscriptionActive:
		s.Active += n
	case SubscriptionInactive:
		s.Inactive += n
	case SubscriptionCancelled:
		s.Cancelled += n
	case SubscriptionExpired:
		s.Expired += n
	case SubscriptionPending:
		s.Pending += n
	}
}
