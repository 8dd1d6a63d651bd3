package models

import (
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventWorkshop      EventType = "workshop"
	EventNetworking    EventType = "networking"
	EventBusinessHours EventType = "business_hours"
	EventConcert       EventType = "concert"
	EventSports        EventType = "sports"
	EventExhibition    EventType = "exhibition"
	EventFair          EventType = "fair"
	EventOther         EventType = "other"
)

// Event is a scheduled gathering members can register for.
// MaxAttendees of zero means the event has no capacity limit.
type Event struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Slug             string             `json:"slug" bson:"slug"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	Type             EventType          `json:"type" bson:"type"`
	Date             time.Time          `json:"date" bson:"date"`
	Time             string             `json:"time,omitempty" bson:"time,omitempty"`
	Duration         int                `json:"duration,omitempty" bson:"duration,omitempty"`
	Location         string             `json:"location,omitempty" bson:"location,omitempty"`
	MeetingLink      string             `json:"meetingLink,omitempty" bson:"meetingLink,omitempty"`
	MaxAttendees     int                `json:"maxAttendees,omitempty" bson:"maxAttendees,omitempty"`
	CurrentAttendees int                `json:"currentAttendees" bson:"currentAttendees"`
	HostID           string             `json:"hostId,omitempty" bson:"hostId,omitempty"`
	HostName         string             `json:"hostName,omitempty" bson:"hostName,omitempty"`
	ImageURL         string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	IsPublished      bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Prepare stamps a new event before insert. The attendee counter always starts at zero.
func (e *Event) Prepare(now time.Time) {
	e.ID = primitive.NilObjectID
	if e.Slug == "" {
		e.Slug = slug.Make(e.Title)
	}
	if e.Type == "" {
		e.Type = EventOther
	}
	e.CurrentAttendees = 0
	e.CreatedAt = now
	e.UpdatedAt = now
}

// HasCapacity reports whether one more attendee fits.
func (e *Event) HasCapacity() bool {
	return e.MaxAttendees <= 0 || e.CurrentAttendees < e.MaxAttendees
}

type EventUpdate struct {
	Title        *string    `json:"title" bson:"title,omitempty"`
	Description  *string    `json:"description" bson:"description,omitempty"`
	Type         *EventType `json:"type" bson:"type,omitempty"`
	Date         *time.Time `json:"date" bson:"date,omitempty"`
	Time         *string    `json:"time" bson:"time,omitempty"`
	Duration     *int       `json:"duration" bson:"duration,omitempty"`
	Location     *string    `json:"location" bson:"location,omitempty"`
	MeetingLink  *string    `json:"meetingLink" bson:"meetingLink,omitempty"`
	MaxAttendees *int       `json:"maxAttendees" bson:"maxAttendees,omitempty"`
	HostID       *string    `json:"hostId" bson:"hostId,omitempty"`
	HostName     *string    `json:"hostName" bson:"hostName,omitempty"`
	ImageURL     *string    `json:"imageUrl" bson:"imageUrl,omitempty"`
	IsPublished  *bool      `json:"isPublished" bson:"isPublished,omitempty"`
}

func (e *Event) Apply(p EventUpdate, now time.Time) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.MeetingLink != nil {
		e.MeetingLink = *p.MeetingLink
	}
	if p.MaxAttendees != nil {
		e.MaxAttendees = *p.MaxAttendees
	}
	if p.HostID != nil {
		e.HostID = *p.HostID
	}
	if p.HostName != nil {
		e.HostName = *p.HostName
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.IsPublished != nil {
		e.IsPublished = *p.IsPublished
	}
	e.UpdatedAt = now
}

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

// EventRegistration is unique per (EventID, UserID).
type EventRegistration struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID      string             `json:"eventId" bson:"eventId"`
	UserID       string             `json:"userId" bson:"userId"`
	RegisteredAt time.Time          `json:"registeredAt" bson:"registeredAt"`
	Status       RegistrationStatus `json:"status" bson:"status"`
}
