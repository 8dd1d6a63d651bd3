package memstore

import (
	"context"
	"maps"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type subscriptionStore db

func (s *subscriptionStore) Create(_ context.Context, in *models.Subscription) (*models.Subscription, error) {
	in.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = primitive.NewObjectID()
	stored := *in
	s.subscriptions[in.ID] = &stored
	return in, nil
}

func (s *subscriptionStore) GetByID(_ context.Context, id string) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.subscriptions, id)
}

func (s *subscriptionStore) ActiveForUser(_ context.Context, userID string) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := collect(s.subscriptions, func(sub *models.Subscription) bool {
		return sub.UserID == userID && sub.Status == models.SubscriptionActive
	}, func(a, b *models.Subscription) bool {
		return a.StartDate.After(b.StartDate)
	})
	if len(active) == 0 {
		return nil, models.ErrNotFound
	}
	return active[0], nil
}

func newestSubscription(a, b *models.Subscription) bool { return a.CreatedAt.After(b.CreatedAt) }

func (s *subscriptionStore) ListForUser(_ context.Context, userID string) ([]*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.subscriptions, func(sub *models.Subscription) bool {
		return sub.UserID == userID
	}, newestSubscription), nil
}

func (s *subscriptionStore) List(_ context.Context) ([]*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.subscriptions, nil, newestSubscription), nil
}

func (s *subscriptionStore) Update(_ context.Context, id string, p models.SubscriptionUpdate) (*models.Subscription, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	sub.Apply(p, s.now())
	out := *sub
	return &out, nil
}

func (s *subscriptionStore) Stats(_ context.Context) (models.SubscriptionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.SubscriptionStats
	for _, sub := range s.subscriptions {
		stats.Add(sub.Status, 1)
	}
	return stats, nil
}

type paymentStore db

func (s *paymentStore) Create(_ context.Context, p *models.Payment) (*models.Payment, error) {
	p.Prepare(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	stored := *p
	stored.Metadata = maps.Clone(p.Metadata)
	s.payments[p.ID] = &stored
	return p, nil
}

func (s *paymentStore) GetByID(_ context.Context, id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.payments, id)
}

func (s *paymentStore) ListForUser(_ context.Context, userID string) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.payments, func(p *models.Payment) bool {
		return p.UserID == userID
	}, func(a, b *models.Payment) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (s *paymentStore) Update(_ context.Context, id string, u models.PaymentUpdate) (*models.Payment, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	p.Apply(u, s.now())
	out := *p
	return &out, nil
}
