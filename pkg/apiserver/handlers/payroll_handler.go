package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/store/postgres"
)

type PayrollHandler struct {
	repo   *postgres.PayrollRepository
	logger *zap.Logger
}

func NewPayrollHandler(repo *postgres.PayrollRepository, logger *zap.Logger) *PayrollHandler {
	return &PayrollHandler{repo: repo, logger: logger}
}

// Summary recomputes and upserts a user's payroll aggregate for a month.
func (h *PayrollHandler) Summary(c *gin.Context) {
	userValue := strings.TrimSpace(c.Query("userId"))
	if userValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	userID, err := uuid.Parse(userValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())
	if yearValue := strings.TrimSpace(c.Query("year")); yearValue != "" {
		parsed, err := strconv.Atoi(yearValue)
		if err != nil || parsed < 2000 || parsed > 2200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = parsed
	}
	if monthValue := strings.TrimSpace(c.Query("month")); monthValue != "" {
		parsed, err := strconv.Atoi(monthValue)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		month = parsed
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	record, err := h.repo.Summarize(c.Request.Context(), tenantID, userID, year, month)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            record.ID.String(),
		"userId":        record.UserID.String(),
		"year":          record.Year,
		"month":         record.Month,
		"regularHours":  record.RegularHours,
		"overtimeHours": record.OvertimeHours,
		"vacationDays":  record.VacationDays,
		"sickDays":      record.SickDays,
		"totalAmount":   record.TotalAmount,
		"status":        record.Status,
	})
}
