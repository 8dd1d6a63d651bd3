// Package storetest holds the behavioural checks every store implementation must pass.
package storetest

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/store"
)

// Run exercises s against the invariants of the store contract. newStore must return an
// empty store for each call.
func Run(t *testing.T, newStore func(t *testing.T) *store.Store) {
	t.Run("UserEmailUnique", func(t *testing.T) { testUserEmailUnique(t, newStore(t)) })
	t.Run("UserUpdateKeepsPassword", func(t *testing.T) { testUserUpdateKeepsPassword(t, newStore(t)) })
	t.Run("UserStats", func(t *testing.T) { testUserStats(t, newStore(t)) })
	t.Run("InvalidIDIsNotFound", func(t *testing.T) { testInvalidID(t, newStore(t)) })
	t.Run("UpdateUnknownIDIsNotFound", func(t *testing.T) { testUpdateUnknownID(t, newStore(t)) })
	t.Run("UnknownStatusRejected", func(t *testing.T) { testUnknownStatusRejected(t, newStore(t)) })
	t.Run("RegisterOnce", func(t *testing.T) { testRegisterOnce(t, newStore(t)) })
	t.Run("RegisterCapacity", func(t *testing.T) { testRegisterCapacity(t, newStore(t)) })
	t.Run("RegisterUnknownEvent", func(t *testing.T) { testRegisterUnknownEvent(t, newStore(t)) })
	t.Run("ResourceRating", func(t *testing.T) { testResourceRating(t, newStore(t)) })
	t.Run("BadgeAwardOnce", func(t *testing.T) { testBadgeAwardOnce(t, newStore(t)) })
	t.Run("SubscriptionEndDate", func(t *testing.T) { testSubscriptionEndDate(t, newStore(t)) })
	t.Run("ProgressUpsert", func(t *testing.T) { testProgressUpsert(t, newStore(t)) })
	t.Run("MaterialDelete", func(t *testing.T) { testMaterialDelete(t, newStore(t)) })
}

func mustUser(t *testing.T, s *store.Store, email string, role models.Role) *models.User {
	t.Helper()
	u, err := s.Users.Create(context.Background(), models.NewUser{
		Email: email, Password: "correct horse", Name: "Test " + string(role), Role: role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func testUserEmailUnique(t *testing.T, s *store.Store) {
	mustUser(t, s, "ada@example.org", models.RoleMentor)
	_, err := s.Users.Create(context.Background(), models.NewUser{
		Email: "  ADA@example.org ", Password: "x", Name: "Ada again", Role: models.RoleMentee,
	})
	if !errors.Is(err, models.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	got, err := s.Users.GetByEmail(context.Background(), "Ada@Example.org")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.Role != models.RoleMentor {
		t.Fatalf("expected original user to survive, got role %s", got.Role)
	}
}

func testUserUpdateKeepsPassword(t *testing.T, s *store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "grace@example.org", models.RoleMentee)
	name := "Grace H."
	updated, err := s.Users.Update(ctx, u.ID.Hex(), models.UserUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected name %q, got %q", name, updated.Name)
	}
	if updated.PasswordHash != u.PasswordHash {
		t.Fatalf("password hash changed on update")
	}
	pw := models.Password{Hash: updated.PasswordHash}
	if ok, err := pw.Matches("correct horse"); err != nil || !ok {
		t.Fatalf("expected original password to still match (ok=%v err=%v)", ok, err)
	}

	bad := models.Role("owner")
	if _, err := s.Users.Update(ctx, u.ID.Hex(), models.UserUpdate{Role: &bad}); !errors.Is(err, models.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func testUserStats(t *testing.T, s *store.Store) {
	mustUser(t, s, "m1@example.org", models.RoleMentor)
	mustUser(t, s, "m2@example.org", models.RoleMentor)
	mustUser(t, s, "e1@example.org", models.RoleMentee)
	mustUser(t, s, "d1@example.org", models.RoleDonor)
	stats, err := s.Users.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := models.UserStats{Total: 4, Mentors: 2, Mentees: 1, Donors: 1}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func testInvalidID(t *testing.T, s *store.Store) {
	ctx := context.Background()
	if _, err := s.Users.GetByID(ctx, "not-an-id"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("users: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Events.GetByID(ctx, "0123"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("events: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Resources.GetByID(ctx, "ffffffffffffffffffffffff"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("resources: expected ErrNotFound, got %v", err)
	}
}

// testUpdateUnknownID covers every id-addressed write with an id that parses but matches
// nothing and with one that does not parse at all.
func testUpdateUnknownID(t *testing.T, s *store.Store) {
	ctx := context.Background()
	title := "renamed"
	notes := "n"
	writes := map[string]func(id string) error{
		"users": func(id string) error {
			_, err := s.Users.Update(ctx, id, models.UserUpdate{Name: &title})
			return err
		},
		"events": func(id string) error {
			_, err := s.Events.Update(ctx, id, models.EventUpdate{Title: &title})
			return err
		},
		"event registrations": func(id string) error {
			_, err := s.Events.Register(ctx, id, "user-1")
			return err
		},
		"sessions": func(id string) error {
			_, err := s.Sessions.Update(ctx, id, models.SessionUpdate{Notes: &notes})
			return err
		},
		"subscriptions": func(id string) error {
			_, err := s.Subscriptions.Update(ctx, id, models.SubscriptionUpdate{Currency: &title})
			return err
		},
		"resources": func(id string) error {
			_, err := s.Resources.Update(ctx, id, models.ResourceUpdate{Title: &title})
			return err
		},
		"resource downloads": func(id string) error {
			return s.Resources.IncrementDownloads(ctx, id)
		},
		"resource ratings": func(id string) error {
			_, err := s.Resources.Rate(ctx, id, 4)
			return err
		},
		"materials": func(id string) error {
			_, err := s.Materials.Update(ctx, id, models.TrainingMaterialUpdate{Title: &title})
			return err
		},
		"material deletes": func(id string) error {
			return s.Materials.Delete(ctx, id)
		},
		"badge awards": func(id string) error {
			_, err := s.Badges.Award(ctx, "user-1", id)
			return err
		},
		"payments": func(id string) error {
			_, err := s.Payments.Update(ctx, id, models.PaymentUpdate{TransactionID: &title})
			return err
		},
		"relationships": func(id string) error {
			_, err := s.Relationships.Update(ctx, id, models.RelationshipUpdate{Notes: &notes})
			return err
		},
	}
	for name, write := range writes {
		for _, id := range []string{"ffffffffffffffffffffffff", "not-an-id"} {
			if err := write(id); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("%s with id %q: expected ErrNotFound, got %v", name, id, err)
			}
		}
	}
}

func testUnknownStatusRejected(t *testing.T, s *store.Store) {
	ctx := context.Background()
	sub, err := s.Subscriptions.Create(ctx, &models.Subscription{UserID: "user-1", Type: models.SubscriptionMonthly, Amount: 10})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	bogus := models.SubscriptionStatus("bogus")
	if _, err := s.Subscriptions.Update(ctx, sub.ID.Hex(), models.SubscriptionUpdate{Status: &bogus}); !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("subscriptions: expected ErrInvalidStatus, got %v", err)
	}
	stats, err := s.Subscriptions.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Active != 1 {
		t.Fatalf("rejected status leaked into stats %+v", stats)
	}

	sessStatus := models.SessionStatus("postponed")
	if _, err := s.Sessions.Update(ctx, sub.ID.Hex(), models.SessionUpdate{Status: &sessStatus}); !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("sessions: expected ErrInvalidStatus, got %v", err)
	}
	payStatus := models.PaymentStatus("settled")
	if _, err := s.Payments.Update(ctx, sub.ID.Hex(), models.PaymentUpdate{Status: &payStatus}); !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("payments: expected ErrInvalidStatus, got %v", err)
	}
	relStatus := models.RelationshipStatus("paused")
	if _, err := s.Relationships.Update(ctx, sub.ID.Hex(), models.RelationshipUpdate{Status: &relStatus}); !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("relationships: expected ErrInvalidStatus, got %v", err)
	}
}

func mustEvent(t *testing.T, s *store.Store, max int) *models.Event {
	t.Helper()
	e, err := s.Events.Create(context.Background(), &models.Event{
		Title:        "Career Night",
		Type:         models.EventNetworking,
		Date:         time.Now().Add(48 * time.Hour),
		MaxAttendees: max,
		IsPublished:  true,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func testRegisterOnce(t *testing.T, s *store.Store) {
	ctx := context.Background()
	e := mustEvent(t, s, 0)
	if e.Slug != "career-night" {
		t.Fatalf("expected slug career-night, got %q", e.Slug)
	}
	if _, err := s.Events.Register(ctx, e.ID.Hex(), "user-1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := s.Events.Register(ctx, e.ID.Hex(), "user-1"); !errors.Is(err, models.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	got, err := s.Events.GetByID(ctx, e.ID.Hex())
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.CurrentAttendees != 1 {
		t.Fatalf("expected 1 attendee, got %d", got.CurrentAttendees)
	}
	regs, err := s.Events.RegistrationsForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("registrations: %v", err)
	}
	if len(regs) != 1 || regs[0].EventID != e.ID.Hex() {
		t.Fatalf("expected one registration for the event, got %+v", regs)
	}
}

func testRegisterCapacity(t *testing.T, s *store.Store) {
	ctx := context.Background()
	const seats, callers = 3, 12
	e := mustEvent(t, s, seats)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Events.Register(ctx, e.ID.Hex(), "user-"+string(rune('a'+i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, models.ErrEventFull):
				full++
			default:
				t.Errorf("unexpected register error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if ok != seats || full != callers-seats {
		t.Fatalf("expected %d registered and %d full, got %d and %d", seats, callers-seats, ok, full)
	}
	got, err := s.Events.GetByID(ctx, e.ID.Hex())
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.CurrentAttendees != seats {
		t.Fatalf("expected counter %d, got %d", seats, got.CurrentAttendees)
	}
	// Rejected callers must not leave registrations behind.
	for i := 0; i < callers; i++ {
		if _, err := s.Events.Register(ctx, e.ID.Hex(), "user-"+string(rune('a'+i))); err == nil {
			t.Fatalf("register after full should fail")
		}
	}
}

func testRegisterUnknownEvent(t *testing.T, s *store.Store) {
	_, err := s.Events.Register(context.Background(), "ffffffffffffffffffffffff", "user-1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testResourceRating(t *testing.T, s *store.Store) {
	ctx := context.Background()
	r, err := s.Resources.Create(ctx, &models.Resource{
		Title: "Budget template", Type: models.ResourceDocx, URL: "https://example.org/b.docx",
		Downloads: 99, Rating: 5, IsPublished: true,
	})
	if err != nil {
		t.Fatalf("create resource: %v", err)
	}
	if r.Downloads != 0 || r.Rating != 0 || r.RatingCount != 0 {
		t.Fatalf("expected zeroed counters, got %+v", r)
	}

	for _, v := range []float64{5, 4, 3} {
		if r, err = s.Resources.Rate(ctx, r.ID.Hex(), v); err != nil {
			t.Fatalf("rate %v: %v", v, err)
		}
	}
	if r.RatingCount != 3 || math.Abs(r.Rating-4) > 1e-9 {
		t.Fatalf("expected mean 4 over 3 ratings, got %v over %d", r.Rating, r.RatingCount)
	}
	if _, err := s.Resources.Rate(ctx, r.ID.Hex(), 6); !errors.Is(err, models.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if err := s.Resources.IncrementDownloads(ctx, r.ID.Hex()); err != nil {
		t.Fatalf("increment downloads: %v", err)
	}
	got, err := s.Resources.GetByID(ctx, r.ID.Hex())
	if err != nil {
		t.Fatalf("get resource: %v", err)
	}
	if got.Downloads != 1 {
		t.Fatalf("expected 1 download, got %d", got.Downloads)
	}
}

func testBadgeAwardOnce(t *testing.T, s *store.Store) {
	ctx := context.Background()
	b, err := s.Badges.Create(ctx, &models.Badge{Name: "First Session", Description: "Attended a session", Criteria: "1 session"})
	if err != nil {
		t.Fatalf("create badge: %v", err)
	}
	if _, err := s.Badges.Award(ctx, "user-1", b.ID.Hex()); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := s.Badges.Award(ctx, "user-1", b.ID.Hex()); !errors.Is(err, models.ErrBadgeAlreadyAwarded) {
		t.Fatalf("expected ErrBadgeAlreadyAwarded, got %v", err)
	}
	if _, err := s.Badges.Award(ctx, "user-1", "ffffffffffffffffffffffff"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown badge, got %v", err)
	}
	earned, err := s.Badges.ForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if len(earned) != 1 || earned[0].Badge == nil || earned[0].Badge.Name != "First Session" {
		t.Fatalf("expected one badge with details, got %+v", earned)
	}
}

func testSubscriptionEndDate(t *testing.T, s *store.Store) {
	ctx := context.Background()
	start := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	sub, err := s.Subscriptions.Create(ctx, &models.Subscription{
		UserID: "donor-1", Type: models.SubscriptionMonthly, StartDate: start, Amount: 25, Currency: "USD",
	})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if sub.Status != models.SubscriptionActive {
		t.Fatalf("expected active status, got %s", sub.Status)
	}
	if sub.EndDate == nil || !sub.EndDate.Equal(start.AddDate(0, 1, 0)) {
		t.Fatalf("expected end date one month after start, got %v", sub.EndDate)
	}

	life, err := s.Subscriptions.Create(ctx, &models.Subscription{
		UserID: "donor-2", Type: models.SubscriptionLifetime, Amount: 1000, Currency: "USD",
	})
	if err != nil {
		t.Fatalf("create lifetime: %v", err)
	}
	if life.EndDate != nil {
		t.Fatalf("lifetime subscription should not end, got %v", life.EndDate)
	}

	active, err := s.Subscriptions.ActiveForUser(ctx, "donor-1")
	if err != nil || active.ID != sub.ID {
		t.Fatalf("expected active subscription %s, got %v (err=%v)", sub.ID.Hex(), active, err)
	}
	stats, err := s.Subscriptions.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Active != 2 {
		t.Fatalf("expected 2 active subscriptions, got %+v", stats)
	}
}

func testProgressUpsert(t *testing.T, s *store.Store) {
	ctx := context.Background()
	inProgress := models.ProgressInProgress
	half := 50.0
	spent := 20
	p, err := s.Progress.Upsert(ctx, "mentee-1", "material-1", models.ProgressUpdate{
		Status: &inProgress, ProgressPercentage: &half, TimeSpent: &spent,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if p.StartedAt == nil || p.CompletedAt != nil {
		t.Fatalf("expected started but not completed, got %+v", p)
	}

	done := models.ProgressCompleted
	p, err = s.Progress.Upsert(ctx, "mentee-1", "material-1", models.ProgressUpdate{Status: &done})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if p.CompletedAt == nil || p.ProgressPercentage != 100 {
		t.Fatalf("expected completion, got %+v", p)
	}

	list, err := s.Progress.ListForUser(ctx, "mentee-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one record per material, got %d", len(list))
	}
	stats, err := s.Progress.Stats(ctx, "mentee-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Completed != 1 || stats.CompletionRate != 100 || stats.TotalTimeSpent != 20 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func testMaterialDelete(t *testing.T, s *store.Store) {
	ctx := context.Background()
	m, err := s.Materials.Create(ctx, &models.TrainingMaterial{Title: "Active Listening", Type: models.MaterialArticle})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if err := s.Materials.Delete(ctx, m.ID.Hex()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Materials.GetByID(ctx, m.ID.Hex()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Materials.Delete(ctx, m.ID.Hex()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
