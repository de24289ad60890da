package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/auth"
	"github.com/crewtrack/crewtrack/pkg/leave"
	"github.com/crewtrack/crewtrack/pkg/model"
)

type LeaveHandler struct {
	service *leave.Service
	db      *gorm.DB
	logger  *zap.Logger
}

func NewLeaveHandler(service *leave.Service, db *gorm.DB, logger *zap.Logger) *LeaveHandler {
	return &LeaveHandler{service: service, db: db, logger: logger}
}

type leaveCreateRequest struct {
	Type      string `json:"type" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	DaysCount int    `json:"daysCount"`
	IsPaid    *bool  `json:"isPaid"`
	Reason    string `json:"reason"`
}

type leaveResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	Type            string  `json:"type"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	DaysCount       int     `json:"daysCount"`
	IsPaid          bool    `json:"isPaid"`
	Reason          string  `json:"reason,omitempty"`
	Status          string  `json:"status"`
	RejectionReason string  `json:"rejectionReason,omitempty"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	ApprovedAt      *string `json:"approvedAt,omitempty"`
}

func (h *LeaveHandler) Create(c *gin.Context) {
	var req leaveCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	isPaid := true
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}

	request, err := h.service.Create(c.Request.Context(), tenantID, principal.UserID, leave.CreateInput{
		Type:      req.Type,
		StartDate: start,
		EndDate:   end,
		DaysCount: req.DaysCount,
		IsPaid:    isPaid,
		Reason:    req.Reason,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, mapLeave(request))
}

func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, func(tenantID, approverID, requestID uuid.UUID, _ string) (*model.LeaveRequest, error) {
		return h.service.Approve(c.Request.Context(), tenantID, approverID, requestID)
	})
}

func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, func(tenantID, approverID, requestID uuid.UUID, reason string) (*model.LeaveRequest, error) {
		return h.service.Reject(c.Request.Context(), tenantID, approverID, requestID, reason)
	})
}

func (h *LeaveHandler) decide(c *gin.Context, fn func(tenantID, approverID, requestID uuid.UUID, reason string) (*model.LeaveRequest, error)) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req reasonRequest
	_ = c.ShouldBindJSON(&req) // reason is optional for leave decisions

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	request, err := fn(tenantID, principal.UserID, requestID, strings.TrimSpace(req.Reason))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapLeave(request))
}

func (h *LeaveHandler) Cancel(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	request, err := h.service.Cancel(c.Request.Context(), tenantID, principal.UserID, requestID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapLeave(request))
}

func (h *LeaveHandler) List(c *gin.Context) {
	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	query := h.db.WithContext(c.Request.Context()).Model(&model.LeaveRequest{}).Where("tenant_id = ?", tenantID)

	// Employees see only their own requests; approvers see the tenant's.
	if !auth.HasPermission(principal.Role, auth.CapApproveLeave) {
		query = query.Where("user_id = ?", principal.UserID)
	}
	if statusValue := strings.TrimSpace(c.Query("status")); statusValue != "" {
		query = query.Where("status = ?", statusValue)
	}

	limit := parseLimit(c.Query("limit"), 50)
	offset := parseOffset(c.Query("offset"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("failed to count leave requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leave requests"})
		return
	}

	var requests []model.LeaveRequest
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		h.logger.Error("failed to list leave requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leave requests"})
		return
	}

	response := make([]leaveResponse, 0, len(requests))
	for i := range requests {
		response = append(response, mapLeave(&requests[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": response,
		"total":    total,
	})
}

func mapLeave(request *model.LeaveRequest) leaveResponse {
	response := leaveResponse{
		ID:              request.ID.String(),
		UserID:          request.UserID.String(),
		Type:            request.Type,
		StartDate:       request.StartDate.Format(dateLayout),
		EndDate:         request.EndDate.Format(dateLayout),
		DaysCount:       request.DaysCount,
		IsPaid:          request.IsPaid,
		Reason:          request.Reason,
		Status:          string(request.Status),
		RejectionReason: request.RejectionReason,
		ApprovedAt:      formatTime(request.ApprovedAt),
	}
	if request.ApprovedBy != nil {
		approver := request.ApprovedBy.String()
		response.ApprovedBy = &approver
	}
	return response
}
