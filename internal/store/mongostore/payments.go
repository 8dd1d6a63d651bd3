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

type paymentStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *paymentStore) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	p.Prepare(s.now())
	oid, err := insert(ctx, s.coll, p)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	p.ID = oid
	return p, nil
}

func (s *paymentStore) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return findByID[models.Payment](ctx, s.coll, id)
}

func (s *paymentStore) ListForUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findMany[models.Payment](ctx, s.coll, bson.M{"userId": userID}, opts)
}

func (s *paymentStore) Update(ctx context.Context, id string, p models.PaymentUpdate) (*models.Payment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return updateByID[models.Payment](ctx, s.coll, id, p, s.now())
}
