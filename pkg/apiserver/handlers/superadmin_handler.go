package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/metrics"
	"github.com/crewtrack/crewtrack/pkg/session"
	"github.com/crewtrack/crewtrack/pkg/store/postgres"
)

type SuperadminHandler struct {
	tenants  *postgres.TenantRepository
	sessions *session.Store
	logger   *zap.Logger
}

func NewSuperadminHandler(tenants *postgres.TenantRepository, sessions *session.Store, logger *zap.Logger) *SuperadminHandler {
	return &SuperadminHandler{tenants: tenants, sessions: sessions, logger: logger}
}

// Impersonate scopes this session to the target tenant. State is keyed by
// session ID, so another session of the same superadmin is unaffected.
func (h *SuperadminHandler) Impersonate(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	target, err := h.tenants.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	principal := middleware.Principal(c)
	imp := session.Impersonation{
		TenantID:   target.ID,
		TenantName: target.Name,
		StartedAt:  time.Now().UTC(),
	}
	if err := h.sessions.StartImpersonation(c.Request.Context(), principal.SessionID, imp); err != nil {
		h.logger.Error("failed to start impersonation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start impersonation"})
		return
	}

	metrics.ImpersonationsTotal.WithLabelValues("start").Inc()
	h.logger.Info("impersonation started",
		zap.String("superadmin_id", principal.UserID.String()),
		zap.String("tenant_id", target.ID.String()),
	)

	c.JSON(http.StatusOK, gin.H{
		"impersonatedTenantId":   target.ID.String(),
		"impersonatedTenantName": target.Name,
	})
}

func (h *SuperadminHandler) StopImpersonate(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	principal := middleware.Principal(c)
	if err := h.sessions.StopImpersonation(c.Request.Context(), principal.SessionID); err != nil {
		h.logger.Error("failed to stop impersonation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop impersonation"})
		return
	}

	metrics.ImpersonationsTotal.WithLabelValues("stop").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}
