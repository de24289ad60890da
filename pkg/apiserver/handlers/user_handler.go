package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/store/postgres"
)

type UserHandler struct {
	users  *postgres.UserRepository
	logger *zap.Logger
}

func NewUserHandler(users *postgres.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Deactivate soft-disables a user. Deactivating a tenant's last active admin
// is refused with a conflict.
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), tenantID, userID); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
