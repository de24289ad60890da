package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/auth"
	"github.com/crewtrack/crewtrack/pkg/session"
	"github.com/crewtrack/crewtrack/pkg/store/postgres"
)

type AuthHandler struct {
	users    *postgres.UserRepository
	tokens   *auth.SessionTokenManager
	sessions *session.Store
	logger   *zap.Logger
}

func NewAuthHandler(users *postgres.UserRepository, tokens *auth.SessionTokenManager, sessions *session.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, sessions: sessions, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	// OIDC-only accounts carry no password hash and cannot use this path.
	if user.PasswordHash == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID.String(),
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout clears per-session state. The token itself simply expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
		return
	}
	if h.sessions != nil {
		if err := h.sessions.StopImpersonation(c.Request.Context(), principal.SessionID); err != nil {
			h.logger.Error("failed to clear session state", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
