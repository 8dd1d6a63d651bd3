package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/01moynul/mtd-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser(role models.Role) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Email: "kim@example.org", Name: "Kim", Role: role}
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", "portal-test", time.Hour)
	u := testUser(models.RoleMentor)

	token, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.UserID != u.ID.Hex() || id.Role != models.RoleMentor || id.Email != u.Email {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestParseRejects(t *testing.T) {
	issuer := NewIssuer("test-secret", "portal-test", time.Hour)
	token, err := issuer.Issue(testUser(models.RoleDonor))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewIssuer("other-secret", "portal-test", time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}

	wrongIssuer := NewIssuer("test-secret", "someone-else", time.Hour)
	if _, err := wrongIssuer.Parse(token); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}

	later := NewIssuer("test-secret", "portal-test", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Parse(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}

	if _, err := issuer.Parse("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
}

func TestAuthorize(t *testing.T) {
	mentor := &Identity{UserID: "1", Role: models.RoleMentor}
	donor := &Identity{UserID: "2", Role: models.RoleDonor}
	admin := &Identity{UserID: "3", Role: models.RoleAdmin}

	cases := []struct {
		name    string
		id      *Identity
		allowed []models.Role
		want    error
	}{
		{"anonymous", nil, nil, ErrUnauthenticated},
		{"anonymous with roles", nil, []models.Role{models.RoleMentor}, ErrUnauthenticated},
		{"any signed in", donor, nil, nil},
		{"role allowed", mentor, []models.Role{models.RoleMentor, models.RoleAdmin}, nil},
		{"role denied", donor, []models.Role{models.RoleMentor}, ErrForbidden},
		{"admin is superuser", admin, []models.Role{models.RoleMentee}, nil},
	}
	for _, tc := range cases {
		if got := Authorize(tc.id, tc.allowed...); !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestCanActFor(t *testing.T) {
	self := &Identity{UserID: "u1", Role: models.RoleDonor}
	if !CanActFor(self, "u1") {
		t.Fatalf("caller should act for self")
	}
	if CanActFor(self, "u2") {
		t.Fatalf("caller should not act for others")
	}
	if !CanActFor(&Identity{UserID: "a", Role: models.RoleAdmin}, "u2") {
		t.Fatalf("admin should act for anyone")
	}
	if CanActFor(nil, "u1") {
		t.Fatalf("anonymous caller should act for nobody")
	}
}
