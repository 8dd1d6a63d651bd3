package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentStripe   PaymentMethod = "stripe"
	PaymentPayPal   PaymentMethod = "paypal"
	PaymentApplePay PaymentMethod = "apple_pay"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentStripe || m == PaymentPayPal || m == PaymentApplePay
}

type Payment struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         string             `json:"userId" bson:"userId"`
	SubscriptionID string             `json:"subscriptionId,omitempty" bson:"subscriptionId,omitempty"`
	Amount         float64            `json:"amount" bson:"amount"`
	Currency       string             `json:"currency" bson:"currency"`
	Status         PaymentStatus      `json:"status" bson:"status"`
	PaymentMethod  PaymentMethod      `json:"paymentMethod" bson:"paymentMethod"`
	TransactionID  string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Metadata       map[string]string  `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (p *Payment) Prepare(now time.Time) {
	p.ID = primitive.NilObjectID
	if p.Status == "" {
		p.Status = PaymentPending
	}
	p.CreatedAt = now
	p.UpdatedAt = now
}

type PaymentUpdate struct {
	Status        *PaymentStatus    `json:"status" bson:"status,omitempty"`
	TransactionID *string           `json:"transactionId" bson:"transactionId,omitempty"`
	Metadata      map[string]string `json:"metadata" bson:"metadata,omitempty"`
}

// Validate rejects an unknown status.
func (p PaymentUpdate) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (p *Payment) Apply(u PaymentUpdate, now time.Time) {
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.TransactionID != nil {
		p.TransactionID = *u.TransactionID
	}
	if u.Metadata != nil {
		p.Metadata = make(map[string]string, len(u.Metadata))
		for k, v := range u.Metadata {
			p.Metadata[k] = v
		}
	}
	p.UpdatedAt = now
}

// PaymentTotals summarises completed payments for the donor dashboard.
type PaymentTotals struct {
	Count     int     `json:"count"`
	Completed int     `json:"completed"`
	Donated   float64 `json:"donated"`
}

func SumPayments(payments []*Payment) PaymentTotals {
	var t PaymentTotals
	for _, p := range payments {
		t.Count++
		if p.Status == PaymentCompleted {
			t.Completed++
			t.Donated += p.Amount
		}
	}
	return t
}
