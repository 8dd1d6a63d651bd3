package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	UsersCollection              = "users"
	EventsCollection             = "events"
	RegistrationsCollection      = "event_registrations"
	SessionsCollection           = "sessions"
	SubscriptionsCollection      = "subscriptions"
	ResourcesCollection          = "resources"
	MaterialsCollection          = "training_materials"
	BadgesCollection             = "badges"
	UserBadgesCollection         = "user_badges"
	PaymentsCollection           = "payments"
	RelationshipsCollection      = "mentor_mentee_relationships"
	ProgressCollection           = "progress"
	defaultConnectTimeout        = 10 * time.Second
	defaultMaxPoolSize    uint64 = 25
)

// Provider owns the process-wide MongoDB client. The connection is established on the
// first call to DB and reused afterwards; a failed attempt is retried on the next call.
type Provider struct {
	uri     string
	name    string
	timeout time.Duration
	log     *slog.Logger

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewProvider(uri, name string, timeout time.Duration, log *slog.Logger) *Provider {
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	return &Provider{uri: uri, name: name, timeout: timeout, log: log}
}

// DB returns the shared database handle, connecting if needed.
func (p *Provider) DB(ctx context.Context) (*mongo.Database, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// 1. Open the client with pool settings.
	opts := options.Client().
		ApplyURI(p.uri).
		SetMaxPoolSize(defaultMaxPoolSize).
		SetMaxConnIdleTime(5 * time.Minute)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	// 2. Ping to verify the connection.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	p.client = client
	p.db = client.Database(p.name)
	p.log.Info("mongodb connection established", slog.String("database", p.name))
	return p.db, nil
}

// Close disconnects the client if one was opened.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client, p.db = nil, nil
	return err
}

// EnsureIndexes creates the unique indexes the store relies on for its uniqueness
// invariants, plus the indexes behind the common sort orders.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		EventsCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		RegistrationsCollection: {
			{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "userId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		SessionsCollection: {
			{Keys: bson.D{{Key: "mentorId", Value: 1}, {Key: "scheduledDate", Value: -1}}},
			{Keys: bson.D{{Key: "menteeId", Value: 1}, {Key: "scheduledDate", Value: -1}}},
		},
		SubscriptionsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		},
		UserBadgesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "badgeId", Value: 1}}, Options: unique},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		RelationshipsCollection: {
			{Keys: bson.D{{Key: "mentorId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "menteeId", Value: 1}, {Key: "status", Value: 1}}},
		},
		ProgressCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "materialId", Value: 1}}, Options: unique},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
