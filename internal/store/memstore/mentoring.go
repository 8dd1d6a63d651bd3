package memstore

import (
	"context"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sessionStore db

func (s *sessionStore) Create(_ context.Context, in *models.Session) (*models.Session, error) {
	in.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = primitive.NewObjectID()
	stored := *in
	s.sessions[in.ID] = &stored
	return in, nil
}

func (s *sessionStore) GetByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.sessions, id)
}

func latestFirst(a, b *models.Session) bool { return a.ScheduledDate.After(b.ScheduledDate) }

func (s *sessionStore) ListForMentor(_ context.Context, mentorID string) ([]*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.sessions, func(m *models.Session) bool { return m.MentorID == mentorID }, latestFirst), nil
}

func (s *sessionStore) ListForMentee(_ context.Context, menteeID string) ([]*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.sessions, func(m *models.Session) bool { return m.MenteeID == menteeID }, latestFirst), nil
}

func (s *sessionStore) Upcoming(_ context.Context, userID string, asMentor bool) ([]*models.Session, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.sessions, func(m *models.Session) bool {
		owner := m.MenteeID
		if asMentor {
			owner = m.MentorID
		}
		return owner == userID && m.Status == models.SessionScheduled && !m.ScheduledDate.Before(now)
	}, func(a, b *models.Session) bool {
		return a.ScheduledDate.Before(b.ScheduledDate)
	}), nil
}

func (s *sessionStore) Update(_ context.Context, id string, p models.SessionUpdate) (*models.Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.sessions[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	m.Apply(p, s.now())
	out := *m
	return &out, nil
}

type relationshipStore db

func (s *relationshipStore) Create(_ context.Context, r *models.MentorMenteeRelationship) (*models.MentorMenteeRelationship, error) {
	r.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = primitive.NewObjectID()
	stored := *r
	s.relationships[r.ID] = &stored
	return r, nil
}

func (s *relationshipStore) GetByID(_ context.Context, id string) (*models.MentorMenteeRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.relationships, id)
}

func (s *relationshipStore) MenteesOf(_ context.Context, mentorID string) ([]*models.MentorMenteeRelationship, error) {
	return s.active(func(r *models.MentorMenteeRelationship) bool { return r.MentorID == mentorID }), nil
}

func (s *relationshipStore) MentorsOf(_ context.Context, menteeID string) ([]*models.MentorMenteeRelationship, error) {
	return s.active(func(r *models.MentorMenteeRelationship) bool { return r.MenteeID == menteeID }), nil
}

func (s *relationshipStore) active(match func(*models.MentorMenteeRelationship) bool) []*models.MentorMenteeRelationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.relationships, func(r *models.MentorMenteeRelationship) bool {
		return r.Status == models.RelationshipActive && match(r)
	}, func(a, b *models.MentorMenteeRelationship) bool {
		return a.StartDate.After(b.StartDate)
	})
}

func (s *relationshipStore) Update(_ context.Context, id string, p models.RelationshipUpdate) (*models.MentorMenteeRelationship, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.relationships[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	r.Apply(p, s.now())
	out := *r
	return &out, nil
}
