package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/content"
	"github.com/01moynul/mtd-portal/internal/handlers"
	"github.com/01moynul/mtd-portal/internal/metrics"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/ratelimit"
	"github.com/01moynul/mtd-portal/internal/routes"
	"github.com/01moynul/mtd-portal/internal/store"
	"github.com/01moynul/mtd-portal/internal/store/memstore"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeForms records submissions instead of calling the forms service.
type fakeForms struct {
	mu   sync.Mutex
	sent map[string][]any
	err  error
}

func (f *fakeForms) Submit(_ context.Context, name string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = map[string][]any{}
	}
	f.sent[name] = append(f.sent[name], payload)
	return nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

type testEnv struct {
	router http.Handler
	store  *store.Store
	issuer *auth.Issuer
	forms  *fakeForms
	app    *handlers.Handlers
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  memstore.New(),
		issuer: auth.NewIssuer("test-secret", "mtd-portal", time.Hour),
		forms:  &fakeForms{},
	}
	env.app = &handlers.Handlers{
		Store:   env.store,
		Issuer:  env.issuer,
		Forms:   env.forms,
		Limiter: ratelimit.Unlimited{},
		Content: content.NewLibraryFS(fstest.MapFS{
			"blog/hello.mdx":     {Data: []byte("---\ntitle: Hello\ndate: 2026-01-01\n---\nhi")},
			"pages/about-us.mdx": {Data: []byte("---\ntitle: About\n---\nwho we are")},
		}),
		Metrics:        metrics.New(),
		Log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		CookieName:     "portal_session",
		StreamInterval: 20 * time.Millisecond,
	}
	env.router = routes.SetupRouter(env.app, []content.Redirect{
		{OldURL: "https://old.example.org/get-involved/", NewURL: "/volunteer"},
	})
	return env
}

// user creates an account and returns it with a bearer token.
func (e *testEnv) user(t *testing.T, role models.Role, email string) (*models.User, string) {
	t.Helper()
	u, err := e.store.Users.Create(context.Background(), models.NewUser{
		Email: email, Password: "correct-horse", Name: string(role) + " user", Role: role,
	})
	if err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	token, err := e.issuer.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Ada", "email": "Ada@Example.org", "password": "long-enough", "role": "mentee",
	}, "")
	expectStatus(t, w, http.StatusCreated)
	var created struct {
		UserID string `json:"userId"`
	}
	decode(t, w, &created)
	if created.UserID == "" {
		t.Fatalf("expected a user id")
	}

	w = env.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Ada again", "email": "ada@example.org", "password": "long-enough", "role": "donor",
	}, "")
	expectStatus(t, w, http.StatusConflict)

	w = env.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Mallory", "email": "m@example.org", "password": "long-enough", "role": "admin",
	}, "")
	expectStatus(t, w, http.StatusBadRequest)

	// bcrypt only hashes the first 72 bytes.
	for _, password := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		w = env.do(t, http.MethodPost, "/api/auth/register", gin.H{
			"name": "Long", "email": "long@example.org", "password": password, "role": "donor",
		}, "")
		expectStatus(t, w, http.StatusBadRequest)
	}

	w = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.org", "password": "long-enough"}, "")
	expectStatus(t, w, http.StatusOK)
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("login response leaks the password hash: %s", w.Body.String())
	}
	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "portal_session" {
			cookie = ck
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	env.router.ServeHTTP(me, req)
	expectStatus(t, me, http.StatusOK)
	if !strings.Contains(me.Body.String(), `"role":"mentee"`) {
		t.Fatalf("unexpected /me body %s", me.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newEnv(t)
	env.user(t, models.RoleDonor, "donor@example.org")

	w := env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "donor@example.org", "password": "wrong"}, "")
	expectStatus(t, w, http.StatusUnauthorized)
	w = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@example.org", "password": "wrong"}, "")
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	env := newEnv(t)
	_, mentor := env.user(t, models.RoleMentor, "mentor@example.org")

	expectStatus(t, env.do(t, http.MethodGet, "/api/events", nil, ""), http.StatusUnauthorized)
	expectStatus(t, env.do(t, http.MethodGet, "/api/admin/users", nil, mentor), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodPost, "/api/badges", gin.H{"name": "x"}, mentor), http.StatusForbidden)
}

func TestAdminRoutesRejectOutsiders(t *testing.T) {
	env := newEnv(t)
	_, mentor := env.user(t, models.RoleMentor, "mentor@example.org")
	_, donor := env.user(t, models.RoleDonor, "donor@example.org")

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPatch, "/api/admin/users"},
		{http.MethodGet, "/api/admin/subscriptions"},
		{http.MethodPost, "/api/admin/subscriptions"},
		{http.MethodPatch, "/api/admin/subscriptions"},
		{http.MethodPatch, "/api/admin/payments"},
		{http.MethodGet, "/api/admin/metrics/realtime"},
		{http.MethodPatch, "/api/events"},
		{http.MethodPost, "/api/resources"},
		{http.MethodPatch, "/api/resources"},
		{http.MethodPost, "/api/materials"},
		{http.MethodPatch, "/api/materials"},
		{http.MethodDelete, "/api/materials/65f000000000000000000001"},
		{http.MethodPost, "/api/badges"},
		{http.MethodPost, "/api/badges/65f000000000000000000001/award"},
	}
	for _, rt := range routes {
		if w := env.do(t, rt.method, rt.path, gin.H{}, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without a session: expected 401, got %d", rt.method, rt.path, w.Code)
		}
		for _, token := range []string{mentor, donor} {
			if w := env.do(t, rt.method, rt.path, gin.H{}, token); w.Code != http.StatusForbidden {
				t.Fatalf("%s %s as non-admin: expected 403, got %d", rt.method, rt.path, w.Code)
			}
		}
	}
}

func TestStatusUpdatesMustBeKnown(t *testing.T) {
	env := newEnv(t)
	_, admin := env.user(t, models.RoleAdmin, "admin@example.org")
	donor, donorToken := env.user(t, models.RoleDonor, "donor@example.org")
	mentee, _ := env.user(t, models.RoleMentee, "mentee@example.org")
	_, mentor := env.user(t, models.RoleMentor, "mentor@example.org")

	w := env.do(t, http.MethodPost, "/api/subscriptions", gin.H{"type": "monthly", "amount": 10}, donorToken)
	expectStatus(t, w, http.StatusCreated)
	var sub struct {
		Subscription models.Subscription `json:"subscription"`
	}
	decode(t, w, &sub)
	subID := sub.Subscription.ID.Hex()

	expectStatus(t, env.do(t, http.MethodPatch, "/api/admin/subscriptions", gin.H{
		"subscriptionId": subID, "updates": gin.H{"status": "bogus"},
	}, admin), http.StatusBadRequest)
	got, err := env.store.Subscriptions.GetByID(context.Background(), subID)
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if got.Status != models.SubscriptionActive {
		t.Fatalf("rejected status was stored: %s", got.Status)
	}
	user, err := env.store.Users.GetByID(context.Background(), donor.ID.Hex())
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.SubscriptionStatus != string(models.SubscriptionActive) {
		t.Fatalf("rejected status was mirrored: %s", user.SubscriptionStatus)
	}
	expectStatus(t, env.do(t, http.MethodPatch, "/api/admin/subscriptions", gin.H{
		"subscriptionId": subID, "updates": gin.H{"status": "cancelled"},
	}, admin), http.StatusOK)

	w = env.do(t, http.MethodPost, "/api/payments", gin.H{"amount": 5, "paymentMethod": "stripe"}, donorToken)
	expectStatus(t, w, http.StatusCreated)
	var pay struct {
		Payment models.Payment `json:"payment"`
	}
	decode(t, w, &pay)
	expectStatus(t, env.do(t, http.MethodPatch, "/api/admin/payments", gin.H{
		"paymentId": pay.Payment.ID.Hex(), "updates": gin.H{"status": "settled"},
	}, admin), http.StatusBadRequest)

	w = env.do(t, http.MethodPost, "/api/sessions", gin.H{
		"menteeId": mentee.ID.Hex(), "title": "Kickoff",
		"scheduledDate": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	}, mentor)
	expectStatus(t, w, http.StatusCreated)
	var sess struct {
		Session models.Session `json:"session"`
	}
	decode(t, w, &sess)
	expectStatus(t, env.do(t, http.MethodPatch, "/api/sessions", gin.H{
		"sessionId": sess.Session.ID.Hex(), "updates": gin.H{"status": "postponed"},
	}, mentor), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPatch, "/api/sessions", gin.H{
		"sessionId": sess.Session.ID.Hex(), "updates": gin.H{"status": "completed"},
	}, mentor), http.StatusOK)

	expectStatus(t, env.do(t, http.MethodPost, "/api/relationships", gin.H{
		"menteeId": mentee.ID.Hex(), "status": "paused",
	}, mentor), http.StatusBadRequest)
	w = env.do(t, http.MethodPost, "/api/relationships", gin.H{"menteeId": mentee.ID.Hex()}, mentor)
	expectStatus(t, w, http.StatusCreated)
	var rel struct {
		Relationship models.MentorMenteeRelationship `json:"relationship"`
	}
	decode(t, w, &rel)
	expectStatus(t, env.do(t, http.MethodPatch, "/api/relationships", gin.H{
		"relationshipId": rel.Relationship.ID.Hex(), "updates": gin.H{"status": "paused"},
	}, mentor), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPatch, "/api/relationships", gin.H{
		"relationshipId": rel.Relationship.ID.Hex(), "updates": gin.H{"status": "active"},
	}, mentor), http.StatusOK)
}

func TestEventRegistrationFlow(t *testing.T) {
	env := newEnv(t)
	_, admin := env.user(t, models.RoleAdmin, "admin@example.org")
	_, first := env.user(t, models.RoleMentee, "first@example.org")
	_, second := env.user(t, models.RoleMentee, "second@example.org")

	// Only admins create events.
	event := gin.H{
		"title": "Career Night", "date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"maxAttendees": 1, "isPublished": true,
	}
	expectStatus(t, env.do(t, http.MethodPost, "/api/events", event, first), http.StatusForbidden)

	w := env.do(t, http.MethodPost, "/api/events", event, admin)
	expectStatus(t, w, http.StatusCreated)
	var created struct {
		Event models.Event `json:"event"`
	}
	decode(t, w, &created)
	if created.Event.Slug != "career-night" || created.Event.CurrentAttendees != 0 {
		t.Fatalf("unexpected event %+v", created.Event)
	}
	eventID := created.Event.ID.Hex()

	register := gin.H{"action": "register", "eventId": eventID}
	expectStatus(t, env.do(t, http.MethodPost, "/api/events", register, first), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/events", register, first), http.StatusConflict)
	expectStatus(t, env.do(t, http.MethodPost, "/api/events", register, second), http.StatusConflict)
	expectStatus(t, env.do(t, http.MethodPost, "/api/events", gin.H{"action": "register", "eventId": "nope"}, second), http.StatusNotFound)

	w = env.do(t, http.MethodGet, "/api/events?id="+eventID, nil, second)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &created)
	if created.Event.CurrentAttendees != 1 {
		t.Fatalf("expected 1 attendee, got %d", created.Event.CurrentAttendees)
	}

	w = env.do(t, http.MethodGet, "/api/events/registrations", nil, first)
	expectStatus(t, w, http.StatusOK)
	var regs struct {
		Registrations []models.EventRegistration `json:"registrations"`
	}
	decode(t, w, &regs)
	if len(regs.Registrations) != 1 || regs.Registrations[0].EventID != eventID {
		t.Fatalf("unexpected registrations %+v", regs.Registrations)
	}

	w = env.do(t, http.MethodGet, "/api/events?upcoming=true", nil, second)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Career Night") {
		t.Fatalf("expected the event among upcoming, got %s", w.Body.String())
	}
}

func TestResourceRatingAndDownloads(t *testing.T) {
	env := newEnv(t)
	_, admin := env.user(t, models.RoleAdmin, "admin@example.org")
	_, donor := env.user(t, models.RoleDonor, "donor@example.org")

	w := env.do(t, http.MethodPost, "/api/resources", gin.H{
		"title": "Grant Guide", "url": "https://example.org/guide.pdf", "type": "pdf", "isPublished": true,
		"rating": 5, "downloads": 900,
	}, admin)
	expectStatus(t, w, http.StatusCreated)
	var body struct {
		Resource models.Resource `json:"resource"`
	}
	decode(t, w, &body)
	if body.Resource.Rating != 0 || body.Resource.Downloads != 0 {
		t.Fatalf("counters must start at zero, got %+v", body.Resource)
	}
	id := body.Resource.ID.Hex()

	expectStatus(t, env.do(t, http.MethodPost, "/api/resources/"+id+"/rate", gin.H{"rating": 6}, donor), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/api/resources/"+id+"/rate", gin.H{"rating": 5}, donor), http.StatusOK)
	w = env.do(t, http.MethodPost, "/api/resources/"+id+"/rate", gin.H{"rating": 2}, donor)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &body)
	if body.Resource.Rating != 3.5 || body.Resource.RatingCount != 2 {
		t.Fatalf("expected mean 3.5 over 2 ratings, got %v over %d", body.Resource.Rating, body.Resource.RatingCount)
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/resources/"+id+"/download", nil, donor), http.StatusOK)
	w = env.do(t, http.MethodGet, "/api/resources?id="+id, nil, donor)
	decode(t, w, &body)
	if body.Resource.Downloads != 1 {
		t.Fatalf("expected 1 download, got %d", body.Resource.Downloads)
	}
}

func TestAdminUserPatchIgnoresPassword(t *testing.T) {
	env := newEnv(t)
	_, admin := env.user(t, models.RoleAdmin, "admin@example.org")
	mentee, _ := env.user(t, models.RoleMentee, "mentee@example.org")

	w := env.do(t, http.MethodPatch, "/api/admin/users", gin.H{
		"userId":  mentee.ID.Hex(),
		"updates": gin.H{"name": "Renamed", "role": "mentor", "password": "hijacked!"},
	}, admin)
	expectStatus(t, w, http.StatusOK)

	expectStatus(t, env.do(t, http.MethodPatch, "/api/admin/users", gin.H{
		"userId": mentee.ID.Hex(), "updates": gin.H{"role": "superuser"},
	}, admin), http.StatusBadRequest)

	w = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "mentee@example.org", "password": "correct-horse"}, "")
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"role":"mentor"`) || !strings.Contains(w.Body.String(), "Renamed") {
		t.Fatalf("expected the patched user, got %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/admin/users?action=stats", nil, admin)
	expectStatus(t, w, http.StatusOK)
	var stats struct {
		Stats models.UserStats `json:"stats"`
	}
	decode(t, w, &stats)
	if stats.Stats.Total != 2 || stats.Stats.Mentors != 1 || stats.Stats.Admins != 1 {
		t.Fatalf("unexpected stats %+v", stats.Stats)
	}
}

func TestSubscriptionsSelfOnly(t *testing.T) {
	env := newEnv(t)
	donor, donorToken := env.user(t, models.RoleDonor, "donor@example.org")
	other, _ := env.user(t, models.RoleDonor, "other@example.org")
	_, admin := env.user(t, models.RoleAdmin, "admin@example.org")

	expectStatus(t, env.do(t, http.MethodPost, "/api/subscriptions", gin.H{
		"userId": other.ID.Hex(), "type": "monthly", "amount": 25,
	}, donorToken), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodPost, "/api/subscriptions", gin.H{
		"type": "weekly", "amount": 25,
	}, donorToken), http.StatusBadRequest)

	w := env.do(t, http.MethodPost, "/api/subscriptions", gin.H{"type": "yearly", "amount": 250}, donorToken)
	expectStatus(t, w, http.StatusCreated)
	var body struct {
		Subscription models.Subscription `json:"subscription"`
	}
	decode(t, w, &body)
	sub := body.Subscription
	if sub.UserID != donor.ID.Hex() || sub.Status != models.SubscriptionActive || sub.Currency != "USD" {
		t.Fatalf("unexpected subscription %+v", sub)
	}
	if sub.EndDate == nil || !sub.EndDate.Equal(sub.StartDate.AddDate(1, 0, 0)) {
		t.Fatalf("expected end date one year after %v, got %v", sub.StartDate, sub.EndDate)
	}

	// Admins may subscribe anyone.
	expectStatus(t, env.do(t, http.MethodPost, "/api/admin/subscriptions", gin.H{
		"userId": other.ID.Hex(), "type": "lifetime", "amount": 1000,
	}, admin), http.StatusCreated)

	w = env.do(t, http.MethodGet, "/api/admin/subscriptions?action=stats", nil, admin)
	expectStatus(t, w, http.StatusOK)
	var stats struct {
		Stats models.SubscriptionStats `json:"stats"`
	}
	decode(t, w, &stats)
	if stats.Stats.Total != 2 || stats.Stats.Active != 2 {
		t.Fatalf("unexpected stats %+v", stats.Stats)
	}

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, donorToken)
	if !strings.Contains(w.Body.String(), `"subscriptionStatus":"active"`) {
		t.Fatalf("expected the user to mirror the subscription status, got %s", w.Body.String())
	}
}

func TestSessionPatchParticipantsOnly(t *testing.T) {
	env := newEnv(t)
	_, mentor := env.user(t, models.RoleMentor, "mentor@example.org")
	mentee, menteeToken := env.user(t, models.RoleMentee, "mentee@example.org")
	_, stranger := env.user(t, models.RoleMentee, "stranger@example.org")

	w := env.do(t, http.MethodPost, "/api/sessions", gin.H{
		"menteeId": mentee.ID.Hex(), "title": "Kickoff",
		"scheduledDate": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	}, mentor)
	expectStatus(t, w, http.StatusCreated)
	var body struct {
		Session models.Session `json:"session"`
	}
	decode(t, w, &body)
	if body.Session.Status != models.SessionScheduled || body.Session.Duration != 60 {
		t.Fatalf("unexpected session defaults %+v", body.Session)
	}

	patch := gin.H{"sessionId": body.Session.ID.Hex(), "updates": gin.H{"notes": "bring CV"}}
	expectStatus(t, env.do(t, http.MethodPatch, "/api/sessions", patch, stranger), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodPatch, "/api/sessions", patch, menteeToken), http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/sessions?filter=upcoming", nil, menteeToken)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "bring CV") {
		t.Fatalf("expected the updated session, got %s", w.Body.String())
	}
}

func TestBadgeAwardOnce(t *testing.T) {
	env := newEnv(t)
	_, admin := env.user(t, models.RoleAdmin, "admin@example.org")
	mentee, menteeToken := env.user(t, models.RoleMentee, "mentee@example.org")

	w := env.do(t, http.MethodPost, "/api/badges", gin.H{
		"name": "First Steps", "description": "Finished onboarding", "criteria": "onboarding",
	}, admin)
	expectStatus(t, w, http.StatusCreated)
	var body struct {
		Badge models.Badge `json:"badge"`
	}
	decode(t, w, &body)

	award := "/api/badges/" + body.Badge.ID.Hex() + "/award"
	expectStatus(t, env.do(t, http.MethodPost, award, gin.H{"userId": mentee.ID.Hex()}, admin), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, award, gin.H{"userId": mentee.ID.Hex()}, admin), http.StatusConflict)

	w = env.do(t, http.MethodGet, "/api/badges/me", nil, menteeToken)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "First Steps") {
		t.Fatalf("expected badge details to be joined, got %s", w.Body.String())
	}
}

func TestMaterialProgress(t *testing.T) {
	env := newEnv(t)
	_, admin := env.user(t, models.RoleAdmin, "admin@example.org")
	_, mentee := env.user(t, models.RoleMentee, "mentee@example.org")

	w := env.do(t, http.MethodPost, "/api/materials", gin.H{
		"title": "Budgeting 101", "type": "course", "isPublished": true,
	}, admin)
	expectStatus(t, w, http.StatusCreated)
	var body struct {
		Material models.TrainingMaterial `json:"material"`
	}
	decode(t, w, &body)
	id := body.Material.ID.Hex()

	expectStatus(t, env.do(t, http.MethodPut, "/api/materials/"+id+"/progress", gin.H{"progressPercentage": 140}, mentee), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPut, "/api/materials/"+id+"/progress", gin.H{"status": "completed"}, mentee), http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/materials/progress", nil, mentee)
	expectStatus(t, w, http.StatusOK)
	var progress struct {
		Stats models.ProgressStats `json:"stats"`
	}
	decode(t, w, &progress)
	if progress.Stats.Completed != 1 || progress.Stats.CompletionRate != 100 {
		t.Fatalf("unexpected progress stats %+v", progress.Stats)
	}

	expectStatus(t, env.do(t, http.MethodDelete, "/api/materials/"+id, nil, mentee), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/materials/"+id, nil, admin), http.StatusOK)
	expectStatus(t, env.do(t, http.MethodPut, "/api/materials/"+id+"/progress", gin.H{"status": "in_progress"}, mentee), http.StatusNotFound)
}
