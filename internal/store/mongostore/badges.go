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

type badgeStore struct {
	badges *mongo.Collection
	earned *mongo.Collection
	now    func() time.Time
}

func (s *badgeStore) Create(ctx context.Context, b *models.Badge) (*models.Badge, error) {
	b.Prepare(s.now())
	oid, err := insert(ctx, s.badges, b)
	if err != nil {
		return nil, fmt.Errorf("insert badge: %w", err)
	}
	b.ID = oid
	return b, nil
}

func (s *badgeStore) GetByID(ctx context.Context, id string) (*models.Badge, error) {
	return findByID[models.Badge](ctx, s.badges, id)
}

func (s *badgeStore) List(ctx context.Context) ([]*models.Badge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findMany[models.Badge](ctx, s.badges, bson.M{}, opts)
}

func (s *badgeStore) Award(ctx context.Context, userID, badgeID string) (*models.UserBadge, error) {
	badge, err := s.GetByID(ctx, badgeID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	ub := &models.UserBadge{
		UserID:    userID,
		BadgeID:   badge.ID.Hex(),
		EarnedAt:  now,
		CreatedAt: now,
	}
	oid, err := insert(ctx, s.earned, ub)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrBadgeAlreadyAwarded
		}
		return nil, fmt.Errorf("insert user badge: %w", err)
	}
	ub.ID = oid
	ub.Badge = badge
	return ub, nil
}

// ForUser joins each earned badge with its definition. badgeId is stored as a hex string,
// so the lookup converts it back to an ObjectID before matching.
func (s *badgeStore) ForUser(ctx context.Context, userID string) ([]*models.UserBadge, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "earnedAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: s.badges.Name()},
			{Key: "let", Value: bson.D{{Key: "badgeId", Value: bson.D{{Key: "$toObjectId", Value: "$badgeId"}}}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$_id", "$$badgeId"}},
				}}}}},
			}},
			{Key: "as", Value: "badge"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$badge"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
	return aggregate[models.UserBadge](ctx, s.earned, pipeline)
}
