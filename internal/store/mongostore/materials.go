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

type materialStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *materialStore) Create(ctx context.Context, m *models.TrainingMaterial) (*models.TrainingMaterial, error) {
	m.Prepare(s.now())
	oid, err := insert(ctx, s.coll, m)
	if err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}
	m.ID = oid
	return m, nil
}

func (s *materialStore) GetByID(ctx context.Context, id string) (*models.TrainingMaterial, error) {
	return findByID[models.TrainingMaterial](ctx, s.coll, id)
}

func (s *materialStore) List(ctx context.Context, publishedOnly bool) ([]*models.TrainingMaterial, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["isPublished"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findMany[models.TrainingMaterial](ctx, s.coll, filter, opts)
}

func (s *materialStore) Update(ctx context.Context, id string, p models.TrainingMaterialUpdate) (*models.TrainingMaterial, error) {
	return updateByID[models.TrainingMaterial](ctx, s.coll, id, p, s.now())
}

func (s *materialStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
