// Package store declares the persistence contract of the portal. Every entity has its
// own interface; mongostore implements them against MongoDB and memstore in memory.
//
// Implementations return models.ErrNotFound for unknown or malformed ids and the
// conflict errors from models for uniqueness and capacity violations.
package store

import (
	"context"

	"github.com/01moynul/mtd-portal/internal/models"
)

type Users interface {
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, p models.UserUpdate) (*models.User, error)
	Stats(ctx context.Context) (models.UserStats, error)
}

type Events interface {
	Create(ctx context.Context, e *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Event, error)
	// Upcoming returns published events dated now or later, soonest first.
	Upcoming(ctx context.Context, limit int) ([]*models.Event, error)
	Update(ctx context.Context, id string, p models.EventUpdate) (*models.Event, error)
	// Register records userID as an attendee and bumps the attendee counter exactly once.
	// It fails with ErrAlreadyRegistered or ErrEventFull and leaves no registration behind.
	Register(ctx context.Context, eventID, userID string) (*models.EventRegistration, error)
	RegistrationsForUser(ctx context.Context, userID string) ([]*models.EventRegistration, error)
}

type Sessions interface {
	Create(ctx context.Context, s *models.Session) (*models.Session, error)
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListForMentor(ctx context.Context, mentorID string) ([]*models.Session, error)
	ListForMentee(ctx context.Context, menteeID string) ([]*models.Session, error)
	Upcoming(ctx context.Context, userID string, asMentor bool) ([]*models.Session, error)
	Update(ctx context.Context, id string, p models.SessionUpdate) (*models.Session, error)
}

type Subscriptions interface {
	Create(ctx context.Context, s *models.Subscription) (*models.Subscription, error)
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	// ActiveForUser returns the most recent active subscription or ErrNotFound.
	ActiveForUser(ctx context.Context, userID string) (*models.Subscription, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	List(ctx context.Context) ([]*models.Subscription, error)
	Update(ctx context.Context, id string, p models.SubscriptionUpdate) (*models.Subscription, error)
	Stats(ctx context.Context) (models.SubscriptionStats, error)
}

type Resources interface {
	Create(ctx context.Context, r *models.Resource) (*models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Resource, error)
	Featured(ctx context.Context, limit int) ([]*models.Resource, error)
	Update(ctx context.Context, id string, p models.ResourceUpdate) (*models.Resource, error)
	IncrementDownloads(ctx context.Context, id string) error
	// Rate folds value into the running mean in a single atomic step.
	Rate(ctx context.Context, id string, value float64) (*models.Resource, error)
}

type Materials interface {
	Create(ctx context.Context, m *models.TrainingMaterial) (*models.TrainingMaterial, error)
	GetByID(ctx context.Context, id string) (*models.TrainingMaterial, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.TrainingMaterial, error)
	Update(ctx context.Context, id string, p models.TrainingMaterialUpdate) (*models.TrainingMaterial, error)
	Delete(ctx context.Context, id string) error
}

type Badges interface {
	Create(ctx context.Context, b *models.Badge) (*models.Badge, error)
	GetByID(ctx context.Context, id string) (*models.Badge, error)
	List(ctx context.Context) ([]*models.Badge, error)
	Award(ctx context.Context, userID, badgeID string) (*models.UserBadge, error)
	// ForUser returns the user's badges, newest first, with badge details attached.
	ForUser(ctx context.Context, userID string) ([]*models.UserBadge, error)
}

type Payments interface {
	Create(ctx context.Context, p *models.Payment) (*models.Payment, error)
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Payment, error)
	Update(ctx context.Context, id string, p models.PaymentUpdate) (*models.Payment, error)
}

type Relationships interface {
	Create(ctx context.Context, r *models.MentorMenteeRelationship) (*models.MentorMenteeRelationship, error)
	GetByID(ctx context.Context, id string) (*models.MentorMenteeRelationship, error)
	MenteesOf(ctx context.Context, mentorID string) ([]*models.MentorMenteeRelationship, error)
	MentorsOf(ctx context.Context, menteeID string) ([]*models.MentorMenteeRelationship, error)
	Update(ctx context.Context, id string, p models.RelationshipUpdate) (*models.MentorMenteeRelationship, error)
}

type Progress interface {
	Upsert(ctx context.Context, userID, materialID string, p models.ProgressUpdate) (*models.Progress, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Progress, error)
	Stats(ctx context.Context, userID string) (models.ProgressStats, error)
}

// Store bundles every repository the handlers depend on.
type Store struct {
	Users         Users
	Events        Events
	Sessions      Sessions
	Subscriptions Subscriptions
	Resources     Resources
	Materials     Materials
	Badges        Badges
	Payments      Payments
	Relationships Relationships
	Progress      Progress
}

const (
	DefaultUpcomingEvents    = 10
	DefaultFeaturedResources = 6
)
