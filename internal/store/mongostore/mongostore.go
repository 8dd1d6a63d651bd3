// Package mongostore implements the store interfaces on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/mtd-portal/internal/database"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// New wires every repository to collections of db.
func New(db *mongo.Database) *store.Store {
	clock := func() time.Time { return time.Now().UTC() }
	return &store.Store{
		Users:         &userStore{coll: db.Collection(database.UsersCollection), now: clock},
		Events:        &eventStore{events: db.Collection(database.EventsCollection), regs: db.Collection(database.RegistrationsCollection), now: clock},
		Sessions:      &sessionStore{coll: db.Collection(database.SessionsCollection), now: clock},
		Subscriptions: &subscriptionStore{coll: db.Collection(database.SubscriptionsCollection), now: clock},
		Resources:     &resourceStore{coll: db.Collection(database.ResourcesCollection), now: clock},
		Materials:     &materialStore{coll: db.Collection(database.MaterialsCollection), now: clock},
		Badges:        &badgeStore{badges: db.Collection(database.BadgesCollection), earned: db.Collection(database.UserBadgesCollection), now: clock},
		Payments:      &paymentStore{coll: db.Collection(database.PaymentsCollection), now: clock},
		Relationships: &relationshipStore{coll: db.Collection(database.RelationshipsCollection), now: clock},
		Progress:      &progressStore{coll: db.Collection(database.ProgressCollection), now: clock},
	}
}

// objectID parses a hex id. Malformed ids are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrNotFound
	}
	return oid, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id %T", res.InsertedID)
	}
	return oid, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return &out, nil
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[T](ctx, coll, bson.M{"_id": oid})
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := []*T{}
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
		}
		out = append(out, &item)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", coll.Name(), err)
	}
	return out, nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]*T, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	out := []*T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	return out, nil
}

// setDoc turns a patch struct into a $set document. Nil pointer fields are dropped by
// their omitempty tags, and updatedAt is always stamped.
func setDoc(patch any, now time.Time) (bson.M, error) {
	raw, err := bson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	set["updatedAt"] = now
	return bson.M{"$set": set}, nil
}

// updateByID applies patch and returns the updated document.
func updateByID[T any](ctx context.Context, coll *mongo.Collection, id string, patch any, now time.Time) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	update, err := setDoc(patch, now)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out T
	if err := coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	return &out, nil
}

// statusCount is one row of a $group-by-field count.
type statusCount struct {
	Key       string `bson:"_id"`
	Count     int64  `bson:"count"`
	TimeSpent int64  `bson:"timeSpent"`
}

func groupCount(field string, match bson.D) mongo.Pipeline {
	p := mongo.Pipeline{}
	if len(match) > 0 {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	return append(p, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$" + field},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}})
}
