package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/model"
	"github.com/crewtrack/crewtrack/pkg/store/postgres"
	"github.com/crewtrack/crewtrack/pkg/timerecord"
)

type TimeRecordHandler struct {
	service *timerecord.Service
	repo    *postgres.TimeRecordRepository
	logger  *zap.Logger
}

func NewTimeRecordHandler(service *timerecord.Service, repo *postgres.TimeRecordRepository, logger *zap.Logger) *TimeRecordHandler {
	return &TimeRecordHandler{service: service, repo: repo, logger: logger}
}

type checkInRequest struct {
	SiteID    string  `json:"siteId" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Photo     string  `json:"photo"`
	DeviceID  string  `json:"deviceId"`
}

type checkOutRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Photo     string  `json:"photo"`
	DeviceID  string  `json:"deviceId"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type contestRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Severity string `json:"severity"`
}

type timeRecordResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"userId"`
	SiteID           string  `json:"siteId"`
	CheckInTime      string  `json:"checkInTime"`
	CheckOutTime     *string `json:"checkOutTime,omitempty"`
	IsWithinGeofence bool    `json:"isWithinGeofence"`
	IsSuspicious     bool    `json:"isSuspicious"`
	SuspiciousReason string  `json:"suspiciousReason,omitempty"`
	TotalHours       float64 `json:"totalHours"`
	OvertimeHours    float64 `json:"overtimeHours"`
	Status           string  `json:"status"`
	RejectionReason  string  `json:"rejectionReason,omitempty"`
	ClientValidated  bool    `json:"clientValidated"`
	ApprovedBy       *string `json:"approvedBy,omitempty"`
	ApprovedAt       *string `json:"approvedAt,omitempty"`
}

func (h *TimeRecordHandler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid siteId"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	record, err := h.service.CheckIn(c.Request.Context(), tenantID, principal.UserID, timerecord.CheckInInput{
		SiteID:    siteID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Photo:     req.Photo,
		DeviceID:  req.DeviceID,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, mapTimeRecord(record))
}

func (h *TimeRecordHandler) CheckOut(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	record, err := h.service.CheckOut(c.Request.Context(), tenantID, principal.UserID, recordID, timerecord.CheckOutInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Photo:     req.Photo,
		DeviceID:  req.DeviceID,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapTimeRecord(record))
}

func (h *TimeRecordHandler) Approve(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	record, err := h.service.Approve(c.Request.Context(), tenantID, principal.UserID, recordID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapTimeRecord(record))
}

func (h *TimeRecordHandler) Reject(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	record, err := h.service.Reject(c.Request.Context(), tenantID, principal.UserID, recordID, strings.TrimSpace(req.Reason))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapTimeRecord(record))
}

func (h *TimeRecordHandler) Contest(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	contestation, err := h.service.Contest(c.Request.Context(), tenantID, principal.UserID, recordID, req.Reason, req.Severity)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           contestation.ID.String(),
		"timeRecordId": contestation.TimeRecordID.String(),
		"reason":       contestation.Reason,
		"severity":     contestation.Severity,
		"status":       contestation.Status,
	})
}

func (h *TimeRecordHandler) Validate(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	record, err := h.service.Validate(c.Request.Context(), tenantID, recordID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapTimeRecord(record))
}

func (h *TimeRecordHandler) List(c *gin.Context) {
	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	var filter postgres.TimeRecordFilter

	if statusValue := strings.TrimSpace(c.Query("status")); statusValue != "" {
		parsed := model.TimeRecordStatus(statusValue)
		if !isValidTimeRecordStatus(parsed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &parsed
	}
	if siteValue := strings.TrimSpace(c.Query("siteId")); siteValue != "" {
		siteID, err := uuid.Parse(siteValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid siteId"})
			return
		}
		filter.SiteID = &siteID
	}
	if userValue := strings.TrimSpace(c.Query("userId")); userValue != "" {
		userID, err := uuid.Parse(userValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		filter.UserID = &userID
	}
	if startValue := strings.TrimSpace(c.Query("startDate")); startValue != "" {
		start, err := time.Parse(dateLayout, startValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
			return
		}
		filter.StartDate = &start
	}
	if endValue := strings.TrimSpace(c.Query("endDate")); endValue != "" {
		end, err := time.Parse(dateLayout, endValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
			return
		}
		endOfDay := end.Add(24*time.Hour - time.Millisecond)
		filter.EndDate = &endOfDay
	}

	limit := parseLimit(c.Query("limit"), 50)
	offset := parseOffset(c.Query("offset"))

	records, total, err := h.repo.List(c.Request.Context(), tenantID, filter, limit, offset)
	if err != nil {
		h.logger.Error("failed to list time records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list time records"})
		return
	}

	response := make([]timeRecordResponse, 0, len(records))
	for i := range records {
		response = append(response, mapTimeRecord(&records[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"records": response,
		"total":   total,
	})
}

func mapTimeRecord(record *model.TimeRecord) timeRecordResponse {
	response := timeRecordResponse{
		ID:               record.ID.String(),
		UserID:           record.UserID.String(),
		SiteID:           record.SiteID.String(),
		CheckInTime:      record.CheckInTime.UTC().Format(timeRFC3339Nano),
		CheckOutTime:     formatTime(record.CheckOutTime),
		IsWithinGeofence: record.IsWithinGeofence,
		IsSuspicious:     record.IsSuspicious,
		SuspiciousReason: record.SuspiciousReason,
		TotalHours:       record.TotalHours,
		OvertimeHours:    record.OvertimeHours,
		Status:           string(record.Status),
		RejectionReason:  record.RejectionReason,
		ClientValidated:  record.ClientValidated,
		ApprovedAt:       formatTime(record.ApprovedAt),
	}
	if record.ApprovedBy != nil {
		approver := record.ApprovedBy.String()
		response.ApprovedBy = &approver
	}
	return response
}

func isValidTimeRecordStatus(status model.TimeRecordStatus) bool {
	switch status {
	case model.TimeRecordPending, model.TimeRecordApproved, model.TimeRecordRejected, model.TimeRecordContested:
		return true
	default:
		return false
	}
}
