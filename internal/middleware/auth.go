package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenParser is satisfied by *auth.Issuer.
type TokenParser interface {
	Parse(token string) (*auth.Identity, error)
}

// Session resolves the caller from the session cookie or a Bearer header. It never
// aborts: an invalid or missing token simply leaves the request anonymous.
func Session(parser TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Find the token ---
		token := ""
		if h := c.GetHeader("Authorization"); h != "" {
			parts := strings.SplitN(h, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = strings.TrimSpace(parts[1])
			}
		}
		if token == "" {
			if v, err := c.Cookie(cookieName); err == nil {
				token = v
			}
		}

		// 2. --- Validate it ---
		if token != "" {
			if id, err := parser.Parse(token); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// Identity returns the caller resolved by Session, or nil.
func Identity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// Require acts as the "security guard" for API groups. It asks auth.Authorize and
// answers 401 or 403 JSON on refusal.
func Require(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := auth.Authorize(Identity(c), roles...); {
		case err == nil:
			c.Next()
		case errors.Is(err, auth.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		}
	}
}

// dashboardRoles lists which roles may open each dashboard section. Admin is implied.
var dashboardRoles = []struct {
	prefix string
	role   models.Role
}{
	{"/dashboard/mentor", models.RoleMentor},
	{"/dashboard/mentee", models.RoleMentee},
	{"/dashboard/donor", models.RoleDonor},
	{"/dashboard/admin", models.RoleAdmin},
}

// DashboardGate guards /dashboard pages with redirects instead of JSON errors:
// anonymous visitors go to the login page and callers in the wrong section go back
// to /dashboard.
func DashboardGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path != "/dashboard" && !strings.HasPrefix(path, "/dashboard/") {
			c.Next()
			return
		}

		id := Identity(c)
		if id == nil {
			c.Redirect(http.StatusFound, "/login?callbackUrl="+url.QueryEscape(path))
			c.Abort()
			return
		}

		for _, section := range dashboardRoles {
			if path != section.prefix && !strings.HasPrefix(path, section.prefix+"/") {
				continue
			}
			if err := auth.Authorize(id, section.role); err != nil {
				c.Redirect(http.StatusFound, "/dashboard")
				c.Abort()
				return
			}
			break
		}
		c.Next()
	}
}

// DashboardPath returns the landing page for a role.
func DashboardPath(role models.Role) string {
	return "/dashboard/" + string(role)
}
