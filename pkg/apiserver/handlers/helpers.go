package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/billing"
	"github.com/crewtrack/crewtrack/pkg/leave"
	"github.com/crewtrack/crewtrack/pkg/store/postgres"
	"github.com/crewtrack/crewtrack/pkg/tenant"
	"github.com/crewtrack/crewtrack/pkg/timerecord"
	"github.com/crewtrack/crewtrack/pkg/tools"
)

const (
	timeRFC3339Nano = time.RFC3339Nano
	dateLayout      = "2006-01-02"
)

func parseLimit(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseOffset(value string) int {
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(timeRFC3339Nano)
	return &formatted
}

// effectiveTenant resolves the tenant a request acts under, honoring
// superadmin impersonation. It writes the 400 itself when no tenant context
// exists.
func effectiveTenant(c *gin.Context) (uuid.UUID, bool) {
	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
		return uuid.Nil, false
	}
	tenantID, err := tenant.Resolve(middleware.Session(c), principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no tenant context"})
		return uuid.Nil, false
	}
	return tenantID, true
}

// writeServiceError maps domain sentinel errors onto the uniform error body.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, timerecord.ErrActiveRecordExists),
		errors.Is(err, timerecord.ErrAlreadyCheckedOut),
		errors.Is(err, timerecord.ErrInvalidTransition),
		errors.Is(err, tools.ErrToolUnavailable),
		errors.Is(err, tools.ErrToolNotInUse),
		errors.Is(err, leave.ErrNotPending),
		errors.Is(err, postgres.ErrLastAdmin),
		errors.Is(err, postgres.ErrInvalidOrderTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, timerecord.ErrNotRecordOwner),
		errors.Is(err, leave.ErrNotRequestOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, timerecord.ErrReasonRequired),
		errors.Is(err, leave.ErrInvalidRange),
		errors.Is(err, leave.ErrDaysCountMismatch),
		errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, billing.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
