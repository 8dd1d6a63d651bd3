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

type sessionStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *sessionStore) Create(ctx context.Context, in *models.Session) (*models.Session, error) {
	in.Prepare(s.now())
	oid, err := insert(ctx, s.coll, in)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	in.ID = oid
	return in, nil
}

func (s *sessionStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	return findByID[models.Session](ctx, s.coll, id)
}

func (s *sessionStore) ListForMentor(ctx context.Context, mentorID string) ([]*models.Session, error) {
	return s.list(ctx, bson.M{"mentorId": mentorID})
}

func (s *sessionStore) ListForMentee(ctx context.Context, menteeID string) ([]*models.Session, error) {
	return s.list(ctx, bson.M{"menteeId": menteeID})
}

func (s *sessionStore) list(ctx context.Context, filter bson.M) ([]*models.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})
	return findMany[models.Session](ctx, s.coll, filter, opts)
}

func (s *sessionStore) Upcoming(ctx context.Context, userID string, asMentor bool) ([]*models.Session, error) {
	field := "menteeId"
	if asMentor {
		field = "mentorId"
	}
	filter := bson.M{
		field:           userID,
		"status":        models.SessionScheduled,
		"scheduledDate": bson.M{"$gte": s.now()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})
	return findMany[models.Session](ctx, s.coll, filter, opts)
}

func (s *sessionStore) Update(ctx context.Context, id string, p models.SessionUpdate) (*models.Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return updateByID[models.Session](ctx, s.coll, id, p, s.now())
}
