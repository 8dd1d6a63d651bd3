package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type resourceStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

var resourceOrder = bson.D{{Key: "rating", Value: -1}, {Key: "downloads", Value: -1}}

func (s *resourceStore) Create(ctx context.Context, r *models.Resource) (*models.Resource, error) {
	r.Prepare(s.now())
	oid, err := insert(ctx, s.coll, r)
	if err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}
	r.ID = oid
	return r, nil
}

func (s *resourceStore) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	return findByID[models.Resource](ctx, s.coll, id)
}

func (s *resourceStore) List(ctx context.Context, publishedOnly bool) ([]*models.Resource, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["isPublished"] = true
	}
	return findMany[models.Resource](ctx, s.coll, filter, options.Find().SetSort(resourceOrder))
}

func (s *resourceStore) Featured(ctx context.Context, limit int) ([]*models.Resource, error) {
	opts := options.Find().SetSort(resourceOrder).SetLimit(int64(limit))
	return findMany[models.Resource](ctx, s.coll, bson.M{"isPublished": true}, opts)
}

func (s *resourceStore) Update(ctx context.Context, id string, p models.ResourceUpdate) (*models.Resource, error) {
	return updateByID[models.Resource](ctx, s.coll, id, p, s.now())
}

func (s *resourceStore) IncrementDownloads(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$inc": bson.M{"downloads": 1},
		"$set": bson.M{"updatedAt": s.now()},
	})
	if err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Rate computes the new mean server-side so concurrent ratings cannot overwrite each
// other. Every expression in the $set stage reads the pre-update document.
func (s *resourceStore) Rate(ctx context.Context, id string, value float64) (*models.Resource, error) {
	if err := models.ValidateRating(value); err != nil {
		return nil, err
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	rating := bson.D{{Key: "$ifNull", Value: bson.A{"$rating", 0}}}
	count := bson.D{{Key: "$ifNull", Value: bson.A{"$ratingCount", 0}}}
	nextCount := bson.D{{Key: "$add", Value: bson.A{count, 1}}}
	total := bson.D{{Key: "$add", Value: bson.A{
		bson.D{{Key: "$multiply", Value: bson.A{rating, count}}},
		value,
	}}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$divide", Value: bson.A{total, nextCount}}}},
			{Key: "ratingCount", Value: nextCount},
			{Key: "updatedAt", Value: s.now()},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Resource
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("rate resource: %w", err)
	}
	return &out, nil
}
