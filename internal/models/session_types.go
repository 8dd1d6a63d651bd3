package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionStatus string

const (
	SessionScheduled   SessionStatus = "scheduled"
	SessionCompleted   SessionStatus = "completed"
	SessionCancelled   SessionStatus = "cancelled"
	SessionRescheduled SessionStatus = "rescheduled"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionCancelled, SessionRescheduled:
		return true
	}
	return false
}

// Session is a mentorship meeting between a mentor and a mentee.
// Not to be confused with the caller's auth session.
type Session struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MentorID      string             `json:"mentorId" bson:"mentorId"`
	MenteeID      string             `json:"menteeId" bson:"menteeId"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	ScheduledDate time.Time          `json:"scheduledDate" bson:"scheduledDate"`
	Duration      int                `json:"duration" bson:"duration"` // minutes
	Status        SessionStatus      `json:"status" bson:"status"`
	Location      string             `json:"location,omitempty" bson:"location,omitempty"`
	MeetingLink   string             `json:"meetingLink,omitempty" bson:"meetingLink,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (s *Session) Prepare(now time.Time) {
	s.ID = primitive.NilObjectID
	if s.Status == "" {
		s.Status = SessionScheduled
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// HasParticipant reports whether userID is the mentor or the mentee of the session.
func (s *Session) HasParticipant(userID string) bool {
	return s.MentorID == userID || s.MenteeID == userID
}

type SessionUpdate struct {
	Title         *string        `json:"title" bson:"title,omitempty"`
	Description   *string        `json:"description" bson:"description,omitempty"`
	ScheduledDate *time.Time     `json:"scheduledDate" bson:"scheduledDate,omitempty"`
	Duration      *int           `json:"duration" bson:"duration,omitempty"`
	Status        *SessionStatus `json:"status" bson:"status,omitempty"`
	Location      *string        `json:"location" bson:"location,omitempty"`
	MeetingLink   *string        `json:"meetingLink" bson:"meetingLink,omitempty"`
	Notes         *string        `json:"notes" bson:"notes,omitempty"`
}

// Validate rejects an unknown status.
func (p SessionUpdate) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (s *Session) Apply(p SessionUpdate, now time.Time) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.ScheduledDate != nil {
		s.ScheduledDate = *p.ScheduledDate
	}
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.MeetingLink != nil {
		s.MeetingLink = *p.MeetingLink
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	s.UpdatedAt = now
}
