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

type userStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *userStore) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	u, err := in.Record(s.now())
	if err != nil {
		return nil, err
	}
	// The unique index on email decides races between concurrent sign-ups.
	oid, err := insert(ctx, s.coll, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = oid
	return u, nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return findByID[models.User](ctx, s.coll, id)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.M{"email": models.NormalizeEmail(email)})
}

func (s *userStore) List(ctx context.Context) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findMany[models.User](ctx, s.coll, bson.M{}, opts)
}

func (s *userStore) Update(ctx context.Context, id string, p models.UserUpdate) (*models.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return updateByID[models.User](ctx, s.coll, id, p, s.now())
}

func (s *userStore) Stats(ctx context.Context) (models.UserStats, error) {
	var stats models.UserStats
	rows, err := aggregate[statusCount](ctx, s.coll, groupCount("role", nil))
	if err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.Add(models.Role(r.Key), r.Count)
	}
	return stats, nil
}
