package middleware

import (
	"strings"

	"github.com/dimitrije/officehub/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

const SessionKey = "session"

// Auth validates the bearer access token and stores the caller's session.
// Browsers cannot set headers on an EventSource, so the token is also
// accepted as the access_token query parameter.
func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		token := c.QueryParam("access_token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.Unauthorized("invalid authorization header format")
				return
			}
			token = parts[1]
		}
		if token == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(SessionKey, services.NewSession(claims.UserID, claims.Email, claims.Role))

		c.Next()
	}
}

// RequireOwner rejects callers whose session is not an owner's. It must run
// after Auth.
func RequireOwner() drift.HandlerFunc {
	return func(c *drift.Context) {
		if !GetSession(c).IsOwner {
			c.Forbidden("owner access required")
			return
		}
		c.Next()
	}
}

func GetSession(c *drift.Context) services.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(services.Session); ok {
			return s
		}
	}
	return services.Session{}
}

func GetUserID(c *drift.Context) string {
	return GetSession(c).UserID
}
