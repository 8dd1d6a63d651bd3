package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role is the authorization claim carried by every user and session token.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
	RoleDonor  Role = "donor"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMentor, RoleMentee, RoleDonor, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether a visitor may pick this role at sign-up.
// Admins are only ever promoted by another admin.
func (r Role) SelfRegistrable() bool {
	return r == RoleMentor || r == RoleMentee || r == RoleDonor
}

// User Model. The password hash is stored under "password" but never serialized to JSON.
type User struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email              string             `json:"email" bson:"email"`
	PasswordHash       string             `json:"-" bson:"password"`
	Name               string             `json:"name" bson:"name"`
	Role               Role               `json:"role" bson:"role"`
	EmailVerified      bool               `json:"emailVerified" bson:"emailVerified"`
	SubscriptionStatus string             `json:"subscriptionStatus,omitempty" bson:"subscriptionStatus,omitempty"`
	Profile            *UserProfile       `json:"profile,omitempty" bson:"profile,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UserProfile struct {
	Bio      string `json:"bio,omitempty" bson:"bio,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
	Image    string `json:"image,omitempty" bson:"image,omitempty"`
}

// NewUser is the input accepted when creating an account.
type NewUser struct {
	Email    string
	Password string
	Name     string
	Role     Role
}

// Record hashes the password and builds the stored user.
func (n NewUser) Record(now time.Time) (*User, error) {
	if !n.Role.Valid() {
		return nil, ErrInvalidRole
	}
	var password Password
	if err := password.Set(n.Password); err != nil {
		return nil, err
	}
	return &User{
		Email:        NormalizeEmail(n.Email),
		PasswordHash: password.Hash,
		Name:         strings.TrimSpace(n.Name),
		Role:         n.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UserUpdate holds the fields an update may touch. It has no password field, so a
// password in a request body is dropped when binding.
type UserUpdate struct {
	Name               *string      `json:"name" bson:"name,omitempty"`
	Role               *Role        `json:"role" bson:"role,omitempty"`
	EmailVerified      *bool        `json:"emailVerified" bson:"emailVerified,omitempty"`
	SubscriptionStatus *string      `json:"subscriptionStatus" bson:"subscriptionStatus,omitempty"`
	Profile            *UserProfile `json:"profile" bson:"profile,omitempty"`
}

// Validate rejects an unknown role.
func (p UserUpdate) Validate() error {
	if p.Role != nil && !p.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// Apply merges the non-nil fields of p into u.
func (u *User) Apply(p UserUpdate, now time.Time) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.EmailVerified != nil {
		u.EmailVerified = *p.EmailVerified
	}
	if p.SubscriptionStatus != nil {
		u.SubscriptionStatus = *p.SubscriptionStatus
	}
	if p.Profile != nil {
		profile := *p.Profile
		u.Profile = &profile
	}
	u.UpdatedAt = now
}

// UserStats is the per-role head count shown on the admin dashboard.
type UserStats struct {
	Total   int64 `json:"total"`
	Mentors int64 `json:"mentors"`
	Mentees int64 `json:"mentees"`
	Donors  int64 `json:"donors"`
	Admins  int64 `json:"admins"`
}

// Add counts n users of the given role.
func (s *UserStats) Add(role Role, n int64) {
	s.Total += n
	switch role {
	case RoleMentor:
		s.Mentors += n
	case RoleMentee:
		s.Mentees += n
	case RoleDonor:
		s.Donors += n
	case RoleAdmin:
		s.Admins += n
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
