package memstore

import (
	"context"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type eventStore db

func (s *eventStore) Create(_ context.Context, e *models.Event) (*models.Event, error) {
	e.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = primitive.NewObjectID()
	stored := *e
	s.events[e.ID] = &stored
	return e, nil
}

func (s *eventStore) GetByID(_ context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.events, id)
}

func byDate(a, b *models.Event) bool { return a.Date.Before(b.Date) }

func (s *eventStore) List(_ context.Context, publishedOnly bool) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.events, func(e *models.Event) bool {
		return !publishedOnly || e.IsPublished
	}, byDate), nil
}

func (s *eventStore) Upcoming(_ context.Context, n int) ([]*models.Event, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	events := collect(s.events, func(e *models.Event) bool {
		return e.IsPublished && !e.Date.Before(now)
	}, byDate)
	return limit(events, n), nil
}

func (s *eventStore) Update(_ context.Context, id string, p models.EventUpdate) (*models.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	e.Apply(p, s.now())
	out := *e
	return &out, nil
}

// Register checks and mutates under one lock, which gives the same guarantees as the
// unique index plus conditional increment used against MongoDB.
func (s *eventStore) Register(_ context.Context, eventID, userID string) (*models.EventRegistration, error) {
	oid, err := parseID(eventID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, r := range s.registrations {
		if r.EventID == e.ID.Hex() && r.UserID == userID {
			return nil, models.ErrAlreadyRegistered
		}
	}
	if !e.HasCapacity() {
		return nil, models.ErrEventFull
	}

	now := s.now()
	reg := &models.EventRegistration{
		ID:           primitive.NewObjectID(),
		EventID:      e.ID.Hex(),
		UserID:       userID,
		RegisteredAt: now,
		Status:       models.RegistrationRegistered,
	}
	s.registrations[reg.ID] = reg
	e.CurrentAttendees++
	e.UpdatedAt = now

	out := *reg
	return &out, nil
}

func (s *eventStore) RegistrationsForUser(_ context.Context, userID string) ([]*models.EventRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.registrations, func(r *models.EventRegistration) bool {
		return r.UserID == userID
	}, func(a, b *models.EventRegistration) bool {
		return a.RegisteredAt.After(b.RegisteredAt)
	}), nil
}
