package memstore

import (
	"context"
	"slices"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type resourceStore db

func (s *resourceStore) Create(_ context.Context, r *models.Resource) (*models.Resource, error) {
	r.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = primitive.NewObjectID()
	stored := *r
	stored.Tags = slices.Clone(r.Tags)
	s.resources[r.ID] = &stored
	return r, nil
}

func (s *resourceStore) GetByID(_ context.Context, id string) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.resources, id)
}

func bestRated(a, b *models.Resource) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.Downloads > b.Downloads
}

func (s *resourceStore) List(_ context.Context, publishedOnly bool) ([]*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.resources, func(r *models.Resource) bool {
		return !publishedOnly || r.IsPublished
	}, bestRated), nil
}

func (s *resourceStore) Featured(_ context.Context, n int) ([]*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return limit(collect(s.resources, func(r *models.Resource) bool { return r.IsPublished }, bestRated), n), nil
}

func (s *resourceStore) Update(_ context.Context, id string, p models.ResourceUpdate) (*models.Resource, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	r.Apply(p, s.now())
	out := *r
	return &out, nil
}

func (s *resourceStore) IncrementDownloads(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[oid]
	if !ok {
		return models.ErrNotFound
	}
	r.Downloads++
	r.UpdatedAt = s.now()
	return nil
}

func (s *resourceStore) Rate(_ context.Context, id string, value float64) (*models.Resource, error) {
	if err := models.ValidateRating(value); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	r.AddRating(value, s.now())
	out := *r
	return &out, nil
}

type materialStore db

func (s *materialStore) Create(_ context.Context, m *models.TrainingMaterial) (*models.TrainingMaterial, error) {
	m.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	stored := *m
	stored.Tags = slices.Clone(m.Tags)
	s.materials[m.ID] = &stored
	return m, nil
}

func (s *materialStore) GetByID(_ context.Context, id string) (*models.TrainingMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.materials, id)
}

func (s *materialStore) List(_ context.Context, publishedOnly bool) ([]*models.TrainingMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.materials, func(m *models.TrainingMaterial) bool {
		return !publishedOnly || m.IsPublished
	}, func(a, b *models.TrainingMaterial) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (s *materialStore) Update(_ context.Context, id string, p models.TrainingMaterialUpdate) (*models.TrainingMaterial, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	m.Apply(p, s.now())
	out := *m
	return &out, nil
}

func (s *materialStore) Delete(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[oid]; !ok {
		return models.ErrNotFound
	}
	delete(s.materials, oid)
	return nil
}

type badgeStore db

func (s *badgeStore) Create(_ context.Context, b *models.Badge) (*models.Badge, error) {
	b.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = primitive.NewObjectID()
	stored := *b
	s.badges[b.ID] = &stored
	return b, nil
}

func (s *badgeStore) GetByID(_ context.Context, id string) (*models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.badges, id)
}

func (s *badgeStore) List(_ context.Context) ([]*models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.badges, nil, func(a, b *models.Badge) bool { return a.Name < b.Name }), nil
}

func (s *badgeStore) Award(_ context.Context, userID, badgeID string) (*models.UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	badge, err := get(s.badges, badgeID)
	if err != nil {
		return nil, err
	}
	for _, ub := range s.userBadges {
		if ub.UserID == userID && ub.BadgeID == badge.ID.Hex() {
			return nil, models.ErrBadgeAlreadyAwarded
		}
	}

	now := s.now()
	ub := &models.UserBadge{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		BadgeID:   badge.ID.Hex(),
		EarnedAt:  now,
		CreatedAt: now,
	}
	s.userBadges[ub.ID] = ub
	out := *ub
	out.Badge = badge
	return &out, nil
}

func (s *badgeStore) ForUser(_ context.Context, userID string) ([]*models.UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	earned := collect(s.userBadges, func(ub *models.UserBadge) bool {
		return ub.UserID == userID
	}, func(a, b *models.UserBadge) bool {
		return a.EarnedAt.After(b.EarnedAt)
	})
	for _, ub := range earned {
		if badge, err := get(s.badges, ub.BadgeID); err == nil {
			ub.Badge = badge
		}
	}
	return earned, nil
}

type progressStore db

func (s *progressStore) Upsert(_ context.Context, userID, materialID string, p models.ProgressUpdate) (*models.Progress, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	var current *models.Progress
	for _, rec := range s.progress {
		if rec.UserID == userID && rec.MaterialID == materialID {
			current = rec
			break
		}
	}
	if current == nil {
		current = &models.Progress{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			MaterialID: materialID,
			CreatedAt:  now,
		}
		s.progress[current.ID] = current
	}
	current.Apply(p, now)
	out := *current
	return &out, nil
}

func (s *progressStore) ListForUser(_ context.Context, userID string) ([]*models.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.progress, func(p *models.Progress) bool {
		return p.UserID == userID
	}, func(a, b *models.Progress) bool {
		return a.LastAccessedAt.After(b.LastAccessedAt)
	}), nil
}

func (s *progressStore) Stats(_ context.Context, userID string) (models.ProgressStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.ProgressStats
	for _, p := range s.progress {
		if p.UserID == userID {
			stats.Add(p.Status, 1, int64(p.TimeSpent))
		}
	}
	stats.Finish()
	return stats, nil
}
