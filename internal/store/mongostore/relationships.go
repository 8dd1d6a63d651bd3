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

type relationshipStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *relationshipStore) Create(ctx context.Context, r *models.MentorMenteeRelationship) (*models.MentorMenteeRelationship, error) {
	r.Prepare(s.now())
	oid, err := insert(ctx, s.coll, r)
	if err != nil {
		return nil, fmt.Errorf("insert relationship: %w", err)
	}
	r.ID = oid
	return r, nil
}

func (s *relationshipStore) GetByID(ctx context.Context, id string) (*models.MentorMenteeRelationship, error) {
	return findByID[models.MentorMenteeRelationship](ctx, s.coll, id)
}

func (s *relationshipStore) MenteesOf(ctx context.Context, mentorID string) ([]*models.MentorMenteeRelationship, error) {
	return s.active(ctx, "mentorId", mentorID)
}

func (s *relationshipStore) MentorsOf(ctx context.Context, menteeID string) ([]*models.MentorMenteeRelationship, error) {
	return s.active(ctx, "menteeId", menteeID)
}

func (s *relationshipStore) active(ctx context.Context, field, userID string) ([]*models.MentorMenteeRelationship, error) {
	filter := bson.M{field: userID, "status": models.RelationshipActive}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	return findMany[models.MentorMenteeRelationship](ctx, s.coll, filter, opts)
}

func (s *relationshipStore) Update(ctx context.Context, id string, p models.RelationshipUpdate) (*models.MentorMenteeRelationship, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return updateByID[models.MentorMenteeRelationship](ctx, s.coll, id, p, s.now())
}
