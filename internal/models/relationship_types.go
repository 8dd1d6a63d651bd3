package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RelationshipStatus string

const (
	RelationshipActive    RelationshipStatus = "active"
	RelationshipInactive  RelationshipStatus = "inactive"
	RelationshipCompleted RelationshipStatus = "completed"
	RelationshipPending   RelationshipStatus = "pending"
)

func (s RelationshipStatus) Valid() bool {
	switch s {
	case RelationshipActive, RelationshipInactive, RelationshipCompleted, RelationshipPending:
		return true
	}
	return false
}

// MentorMenteeRelationship pairs one mentor with one mentee.
type MentorMenteeRelationship struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MentorID  string             `json:"mentorId" bson:"mentorId"`
	MenteeID  string             `json:"menteeId" bson:"menteeId"`
	Status    RelationshipStatus `json:"status" bson:"status"`
	StartDate time.Time          `json:"startDate" bson:"startDate"`
	EndDate   *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (r *MentorMenteeRelationship) Prepare(now time.Time) {
	r.ID = primitive.NilObjectID
	if r.Status == "" {
		r.Status = RelationshipPending
	}
	if r.StartDate.IsZero() {
		r.StartDate = now
	}
	r.CreatedAt = now
	r.UpdatedAt = now
}

func (r *MentorMenteeRelationship) HasParticipant(userID string) bool {
	return r.MentorID == userID || r.MenteeID == userID
}

type RelationshipUpdate struct {
	Status  *RelationshipStatus `json:"status" bson:"status,omitempty"`
	EndDate *time.Time          `json:"endDate" bson:"endDate,omitempty"`
	Notes   *string             `json:"notes" bson:"notes,omitempty"`
}

// Validate rejects an unknown status.
func (p RelationshipUpdate) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (r *MentorMenteeRelationship) Apply(p RelationshipUpdate, now time.Time) {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.EndDate != nil {
		end := *p.EndDate
		r.EndDate = &end
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	r.UpdatedAt = now
}
