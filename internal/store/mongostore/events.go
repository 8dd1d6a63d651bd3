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

type eventStore struct {
	events *mongo.Collection
	regs   *mongo.Collection
	now    func() time.Time
}

func (s *eventStore) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	e.Prepare(s.now())
	oid, err := insert(ctx, s.events, e)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	e.ID = oid
	return e, nil
}

func (s *eventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return findByID[models.Event](ctx, s.events, id)
}

func (s *eventStore) List(ctx context.Context, publishedOnly bool) ([]*models.Event, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["isPublished"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return findMany[models.Event](ctx, s.events, filter, opts)
}

func (s *eventStore) Upcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	filter := bson.M{"isPublished": true, "date": bson.M{"$gte": s.now()}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}}).SetLimit(int64(limit))
	return findMany[models.Event](ctx, s.events, filter, opts)
}

func (s *eventStore) Update(ctx context.Context, id string, p models.EventUpdate) (*models.Event, error) {
	return updateByID[models.Event](ctx, s.events, id, p, s.now())
}

// Register inserts the registration first so the unique (eventId, userId) index rejects
// duplicates, then claims a seat with a conditional increment. If no seat can be claimed
// the registration is removed again.
func (s *eventStore) Register(ctx context.Context, eventID, userID string) (*models.EventRegistration, error) {
	oid, err := objectID(eventID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	// 1. --- Reserve the (event, user) pair ---
	reg := &models.EventRegistration{
		EventID:      oid.Hex(),
		UserID:       userID,
		RegisteredAt: now,
		Status:       models.RegistrationRegistered,
	}
	regID, err := insert(ctx, s.regs, reg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	reg.ID = regID

	// 2. --- Claim a seat only while one is free ---
	filter := bson.M{
		"_id": oid,
		"$or": bson.A{
			bson.M{"maxAttendees": bson.M{"$exists": false}},
			bson.M{"maxAttendees": bson.M{"$lte": 0}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$currentAttendees", "$maxAttendees"}}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"currentAttendees": 1},
		"$set": bson.M{"updatedAt": now},
	}
	res, err := s.events.UpdateOne(ctx, filter, update)
	if err == nil && res.MatchedCount == 1 {
		return reg, nil
	}

	// 3. --- Roll back the registration ---
	cleanup := context.WithoutCancel(ctx)
	if _, derr := s.regs.DeleteOne(cleanup, bson.M{"_id": regID}); derr != nil {
		return nil, fmt.Errorf("remove registration %s: %w", regID.Hex(), derr)
	}
	if err != nil {
		return nil, fmt.Errorf("claim seat: %w", err)
	}
	n, err := s.events.CountDocuments(cleanup, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("count event: %w", err)
	}
	if n == 0 {
		return nil, models.ErrNotFound
	}
	return nil, models.ErrEventFull
}

func (s *eventStore) RegistrationsForUser(ctx context.Context, userID string) ([]*models.EventRegistration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registeredAt", Value: -1}})
	return findMany[models.EventRegistration](ctx, s.regs, bson.M{"userId": userID}, opts)
}
