package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/content"
	"github.com/01moynul/mtd-portal/internal/metrics"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubParser maps raw tokens to identities.
type stubParser map[string]*auth.Identity

func (p stubParser) Parse(token string) (*auth.Identity, error) {
	if id, ok := p[token]; ok {
		return id, nil
	}
	return nil, errors.New("invalid token")
}

var tokens = stubParser{
	"mentor-token": {UserID: "m1", Role: models.RoleMentor},
	"mentee-token": {UserID: "e1", Role: models.RoleMentee},
	"donor-token":  {UserID: "d1", Role: models.RoleDonor},
	"admin-token":  {UserID: "a1", Role: models.RoleAdmin},
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(Session(tokens, "portal_session"))

	api := r.Group("/api", Require())
	api.GET("/me", func(c *gin.Context) { c.JSON(http.StatusOK, Identity(c)) })
	r.GET("/api/admin/only", Require(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/api/mentors", Require(models.RoleMentor), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	dash := r.Group("/dashboard", DashboardGate())
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.URL.Path) }
	dash.GET("", ok)
	dash.GET("/mentor", ok)
	dash.GET("/mentor/mentees", ok)
	dash.GET("/mentee", ok)
	dash.GET("/donor/history", ok)
	dash.GET("/admin", ok)
	return r
}

func do(r http.Handler, path, token string, cookie bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		if cookie {
			req.AddCookie(&http.Cookie{Name: "portal_session", Value: token})
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequire(t *testing.T) {
	r := newRouter()
	cases := []struct {
		path, token string
		want        int
	}{
		{"/api/me", "", http.StatusUnauthorized},
		{"/api/me", "garbage", http.StatusUnauthorized},
		{"/api/me", "donor-token", http.StatusOK},
		{"/api/admin/only", "mentor-token", http.StatusForbidden},
		{"/api/admin/only", "admin-token", http.StatusNoContent},
		{"/api/mentors", "mentee-token", http.StatusForbidden},
		{"/api/mentors", "mentor-token", http.StatusNoContent},
		{"/api/mentors", "admin-token", http.StatusNoContent},
	}
	for _, tc := range cases {
		if w := do(r, tc.path, tc.token, false); w.Code != tc.want {
			t.Fatalf("%s with %q: expected %d got %d", tc.path, tc.token, tc.want, w.Code)
		}
	}
}

func TestSessionReadsCookie(t *testing.T) {
	w := do(newRouter(), "/api/me", "mentee-token", true)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"role":"mentee"`) {
		t.Fatalf("expected cookie session to resolve, got %d %s", w.Code, w.Body.String())
	}
}

func TestDashboardGate(t *testing.T) {
	r := newRouter()
	cases := []struct {
		path, token, location string
		want                  int
	}{
		{"/dashboard/mentor", "", "/login?callbackUrl=%2Fdashboard%2Fmentor", http.StatusFound},
		{"/dashboard", "", "/login?callbackUrl=%2Fdashboard", http.StatusFound},
		{"/dashboard/mentor/mentees", "mentee-token", "/dashboard", http.StatusFound},
		{"/dashboard/donor/history", "mentor-token", "/dashboard", http.StatusFound},
		{"/dashboard/admin", "donor-token", "/dashboard", http.StatusFound},
		{"/dashboard/mentee", "donor-token", "/dashboard", http.StatusFound},
		{"/dashboard/mentor/mentees", "mentor-token", "", http.StatusOK},
		{"/dashboard/donor/history", "donor-token", "", http.StatusOK},
		{"/dashboard/mentee", "admin-token", "", http.StatusOK},
		{"/dashboard/admin", "admin-token", "", http.StatusOK},
		{"/dashboard", "donor-token", "", http.StatusOK},
	}
	for _, tc := range cases {
		w := do(r, tc.path, tc.token, true)
		if w.Code != tc.want {
			t.Fatalf("%s with %q: expected %d got %d", tc.path, tc.token, tc.want, w.Code)
		}
		if tc.location != "" && w.Header().Get("Location") != tc.location {
			t.Fatalf("%s with %q: expected redirect to %s got %s", tc.path, tc.token, tc.location, w.Header().Get("Location"))
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := do(r, "/", "", false)
	minted := w.Header().Get(RequestIDHeader)
	if minted == "" || w.Body.String() != minted {
		t.Fatalf("expected minted request id in header and context")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("expected incoming request id to be kept")
	}
}

func TestRedirects(t *testing.T) {
	r := gin.New()
	r.Use(Redirects([]content.Redirect{
		{OldURL: "https://old.example.org/about-us/", NewURL: "/about"},
	}))
	r.GET("/about", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/about-us", "", false)
	if w.Code != http.StatusPermanentRedirect || w.Header().Get("Location") != "/about" {
		t.Fatalf("expected 308 to /about, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if w := do(r, "/about", "", false); w.Code != http.StatusOK {
		t.Fatalf("unmapped path should pass through, got %d", w.Code)
	}
}

func TestInstrument(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Instrument(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	do(r, "/items/42", "", false)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read scrape: %v", err)
	}
	if !strings.Contains(buf.String(), `route="/items/:id",status="202"`) {
		t.Fatalf("expected route-labelled counter, got:\n%s", buf.String())
	}
}
