package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	accountports "github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	"github.com/streetsource/streetsource-api/internal/platform/auth"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

const (
	ctxUserIDKey = "auth.userID"
	ctxRoleKey   = "auth.role"

	accessTokenCookie = "accessToken"
)

// AuthMiddleware verifies access tokens and enforces role restrictions on
// route groups. A token is accepted from the Authorization header or the
// accessToken cookie, and only while a live session backs it.
type AuthMiddleware struct {
	tokens   *auth.Manager
	sessions accountports.SessionStore
}

func NewAuthMiddleware(tokens *auth.Manager, sessions accountports.SessionStore) *AuthMiddleware {
	if sessions == nil {
		sessions = accountports.NoopSessionStore
	}
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Require authenticates the request and stashes the caller identity on the
// gin context.
func (m *AuthMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			envelope.Unauthorized(c, "access token is required")
			c.Abort()
			return
		}
		claims, err := m.tokens.Verify(raw)
		if err != nil {
			envelope.Unauthorized(c, err.Error())
			c.Abort()
			return
		}
		live, err := m.sessions.Validate(c.Request.Context(), raw)
		if err != nil {
			envelope.Fail(c, 500, "session lookup failed")
			c.Abort()
			return
		}
		if !live {
			envelope.Unauthorized(c, "session expired or revoked")
			c.Abort()
			return
		}
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set. Must run
// after Require.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		role := currentRole(c)
		if _, ok := allowed[role]; !ok {
			envelope.Forbidden(c, "access denied for role "+role)
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func currentRole(c *gin.Context) string {
	if v, ok := c.Get(ctxRoleKey); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
