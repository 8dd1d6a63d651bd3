package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type progressStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

const upsertAttempts = 2

// Upsert merges p into the user's record for materialID, creating it on first touch.
// A concurrent first touch loses on the unique (userId, materialId) index and retries
// against the record the other writer created.
func (s *progressStore) Upsert(ctx context.Context, userID, materialID string, p models.ProgressUpdate) (*models.Progress, error) {
	filter := bson.M{"userId": userID, "materialId": materialID}

	var lastErr error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		now := s.now()
		current, err := findOne[models.Progress](ctx, s.coll, filter)
		switch {
		case errors.Is(err, models.ErrNotFound):
			current = &models.Progress{UserID: userID, MaterialID: materialID, CreatedAt: now}
		case err != nil:
			return nil, err
		}
		current.Apply(p, now)

		opts := options.Replace().SetUpsert(true)
		res, err := s.coll.ReplaceOne(ctx, filter, current, opts)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("upsert progress: %w", err)
		}
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			current.ID = oid
		}
		return current, nil
	}
	return nil, fmt.Errorf("upsert progress: %w", lastErr)
}

func (s *progressStore) ListForUser(ctx context.Context, userID string) ([]*models.Progress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastAccessedAt", Value: -1}})
	return findMany[models.Progress](ctx, s.coll, bson.M{"userId": userID}, opts)
}

func (s *progressStore) Stats(ctx context.Context, userID string) (models.ProgressStats, error) {
	var stats models.ProgressStats
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "timeSpent", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$timeSpent", 0}}}}}},
		}}},
	}
	rows, err := aggregate[statusCount](ctx, s.coll, pipeline)
	if err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.Add(models.ProgressStatus(r.Key), r.Count, r.TimeSpent)
	}
	stats.Finish()
	return stats, nil
}
