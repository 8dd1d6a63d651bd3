package memstore

import (
	"context"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userStore db

func (s *userStore) Create(_ context.Context, in models.NewUser) (*models.User, error) {
	u, err := in.Record(s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, models.ErrEmailTaken
		}
	}
	u.ID = primitive.NewObjectID()
	s.users[u.ID] = u
	out := *u
	return &out, nil
}

func (s *userStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.users, id)
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *userStore) List(_ context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.users, nil, func(a, b *models.User) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (s *userStore) Update(_ context.Context, id string, p models.UserUpdate) (*models.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Apply(p, s.now())
	out := *u
	return &out, nil
}

func (s *userStore) Stats(_ context.Context) (models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.UserStats
	for _, u := range s.users {
		stats.Add(u.Role, 1)
	}
	return stats, nil
}
