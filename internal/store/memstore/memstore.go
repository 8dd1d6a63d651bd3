// Package memstore is an in-process implementation of the store interfaces. It enforces
// the same uniqueness and capacity rules as the MongoDB store under a single mutex and
// backs the handler tests and STORE_DRIVER=memory.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type db struct {
	mu  sync.Mutex
	now func() time.Time

	users         map[primitive.ObjectID]*models.User
	events        map[primitive.ObjectID]*models.Event
	registrations map[primitive.ObjectID]*models.EventRegistration
	sessions      map[primitive.ObjectID]*models.Session
	subscriptions map[primitive.ObjectID]*models.Subscription
	resources     map[primitive.ObjectID]*models.Resource
	materials     map[primitive.ObjectID]*models.TrainingMaterial
	badges        map[primitive.ObjectID]*models.Badge
	userBadges    map[primitive.ObjectID]*models.UserBadge
	payments      map[primitive.ObjectID]*models.Payment
	relationships map[primitive.ObjectID]*models.MentorMenteeRelationship
	progress      map[primitive.ObjectID]*models.Progress
}

// Option configures the in-memory store.
type Option func(*db)

// WithClock replaces time.Now, for tests that depend on "upcoming" windows.
func WithClock(now func() time.Time) Option {
	return func(d *db) { d.now = now }
}

func New(opts ...Option) *store.Store {
	d := &db{
		now:           func() time.Time { return time.Now().UTC() },
		users:         map[primitive.ObjectID]*models.User{},
		events:        map[primitive.ObjectID]*models.Event{},
		registrations: map[primitive.ObjectID]*models.EventRegistration{},
		sessions:      map[primitive.ObjectID]*models.Session{},
		subscriptions: map[primitive.ObjectID]*models.Subscription{},
		resources:     map[primitive.ObjectID]*models.Resource{},
		materials:     map[primitive.ObjectID]*models.TrainingMaterial{},
		badges:        map[primitive.ObjectID]*models.Badge{},
		userBadges:    map[primitive.ObjectID]*models.UserBadge{},
		payments:      map[primitive.ObjectID]*models.Payment{},
		relationships: map[primitive.ObjectID]*models.MentorMenteeRelationship{},
		progress:      map[primitive.ObjectID]*models.Progress{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return &store.Store{
		Users:         (*userStore)(d),
		Events:        (*eventStore)(d),
		Sessions:      (*sessionStore)(d),
		Subscriptions: (*subscriptionStore)(d),
		Resources:     (*resourceStore)(d),
		Materials:     (*materialStore)(d),
		Badges:        (*badgeStore)(d),
		Payments:      (*paymentStore)(d),
		Relationships: (*relationshipStore)(d),
		Progress:      (*progressStore)(d),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrNotFound
	}
	return oid, nil
}

func get[T any](m map[primitive.ObjectID]*T, id string) (*T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	v, ok := m[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *v
	return &out, nil
}

// collect copies the values that pass keep, ordered by less.
// Ties keep insertion order.
func collect[T any](m map[primitive.ObjectID]*T, keep func(*T) bool, less func(a, b *T) bool) []*T {
	ids := make([]primitive.ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	out := []*T{}
	for _, id := range ids {
		v := m[id]
		if keep == nil || keep(v) {
			c := *v
			out = append(out, &c)
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func limit[T any](items []*T, n int) []*T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
