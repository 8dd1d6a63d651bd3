package auth

import (
	"errors"

	"github.com/01moynul/mtd-portal/internal/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

// Authorize is the single access policy. A nil identity is unauthenticated. Admins pass
// every check. Otherwise the caller's role must be one of allowed; an empty allowed list
// admits any signed-in caller.
func Authorize(id *Identity, allowed ...models.Role) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if id.Role == models.RoleAdmin || len(allowed) == 0 {
		return nil
	}
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// IsAdmin reports whether id carries the admin role.
func IsAdmin(id *Identity) bool {
	return id != nil && id.Role == models.RoleAdmin
}

// CanActFor reports whether id may act on records owned by userID.
func CanActFor(id *Identity, userID string) bool {
	return id != nil && (id.Role == models.RoleAdmin || id.UserID == userID)
}
