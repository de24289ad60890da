package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crewtrack/crewtrack/pkg/auth"
	"github.com/crewtrack/crewtrack/pkg/model"
	"github.com/crewtrack/crewtrack/pkg/session"
)

const (
	ctxPrincipal = "principal"
	ctxSession   = "session"
)

// Auth validates the Bearer session token and loads per-session state
// (impersonation) so downstream handlers get both as explicit objects.
func Auth(tokens *auth.SessionTokenManager, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization"})
			return
		}
		if strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		principal, err := auth.PrincipalFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sess := &session.Context{SessionID: principal.SessionID}
		if sessions != nil {
			loaded, err := sessions.Load(c.Request.Context(), principal.SessionID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
				return
			}
			sess = loaded
		}

		c.Set(ctxPrincipal, principal)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// RequireRole gates a route hierarchically: any role ranking at least as
// high as minimum passes.
func RequireRole(minimum model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil || !auth.HasRole(principal.Role, minimum) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// RequirePermission gates a route on the exact capability allow-list.
func RequirePermission(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil || !auth.HasPermission(principal.Role, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

func Principal(c *gin.Context) *auth.Principal {
	value, ok := c.Get(ctxPrincipal)
	if !ok {
		return nil
	}
	principal, _ := value.(*auth.Principal)
	return principal
}

func Session(c *gin.Context) *session.Context {
	value, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	sess, _ := value.(*session.Context)
	return sess
}
