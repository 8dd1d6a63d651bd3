package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type subscriptionStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *subscriptionStore) Create(ctx context.Context, in *models.Subscription) (*models.Subscription, error) {
	in.Prepare(s.now())
	oid, err := insert(ctx, s.coll, in)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	in.ID = oid
	return in, nil
}

func (s *subscriptionStore) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	return findByID[models.Subscription](ctx, s.coll, id)
}

func (s *subscriptionStore) ActiveForUser(ctx context.Context, userID string) (*models.Subscription, error) {
	filter := bson.M{"userId": userID, "status": models.SubscriptionActive}
	opts := options.FindOne().SetSort(bson.D{{Key: "startDate", Value: -1}})
	return findOne[models.Subscription](ctx, s.coll, filter, opts)
}

func (s *subscriptionStore) ListForUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findMany[models.Subscription](ctx, s.coll, bson.M{"userId": userID}, opts)
}

func (s *subscriptionStore) List(ctx context.Context) ([]*models.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findMany[models.Subscription](ctx, s.coll, bson.M{}, opts)
}

func (s *subscriptionStore) Update(ctx context.Context, id string, p models.SubscriptionUpdate) (*models.Subscription, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return updateByID[models.Subscription](ctx, s.coll, id, p, s.now())
}

func (s *subscriptionStore) Stats(ctx context.Context) (models.SubscriptionStats, error) {
	var stats models.SubscriptionStats
	rows, err := aggregate[statusCount](ctx, s.coll, groupCount("status", nil))
	if err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.Add(models.SubscriptionStatus(r.Key), r.Count)
	}
	return stats, nil
}
