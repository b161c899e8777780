package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

const userKey = "user"

// Authenticator resolves a bearer token to the signed-in user.
type Authenticator interface {
	Current(ctx context.Context, token string) (*user.User, error)
}

// ErrUnauthenticated is returned by an Authenticator for a missing,
// expired or revoked token. Anything else is treated as a server error.
var ErrUnauthenticated = errors.New("unauthenticated")

// Auth requires a valid session and stores the user in the gin context.
func Auth(a Authenticator, isAuthErr func(error) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			Error(c, http.StatusUnauthorized, "authentication required")
			return
		}
		u, err := a.Current(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) || (isAuthErr != nil && isAuthErr(err)) {
				Error(c, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			logx.FromContext(c.Request.Context()).Error("session lookup failed", "error", err)
			InternalError(c)
			return
		}
		c.Set(userKey, u)
		c.Request = c.Request.WithContext(logx.WithLogger(c.Request.Context(),
			logx.FromContext(c.Request.Context()).With("user_id", u.ID)))
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			Error(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if u.Role != role {
			Error(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by Auth, or nil.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}

// SetUser is used by tests that mount handlers without Auth.
func SetUser(u *user.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userKey, u)
		c.Next()
	}
}
