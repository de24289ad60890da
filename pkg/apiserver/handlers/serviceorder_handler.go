package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/billing"
	"github.com/crewtrack/crewtrack/pkg/model"
	"github.com/crewtrack/crewtrack/pkg/store/postgres"
)

type ServiceOrderHandler struct {
	engine *billing.Engine
	repo   *postgres.ServiceOrderRepository
	logger *zap.Logger
}

func NewServiceOrderHandler(engine *billing.Engine, repo *postgres.ServiceOrderRepository, logger *zap.Logger) *ServiceOrderHandler {
	return &ServiceOrderHandler{engine: engine, repo: repo, logger: logger}
}

// Calculate serves the computed billing aggregate. Read-only: nothing is
// persisted, and repeated calls over unchanged data return identical output.
func (h *ServiceOrderHandler) Calculate(c *gin.Context) {
	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	startValue := strings.TrimSpace(c.Query("startDate"))
	endValue := strings.TrimSpace(c.Query("endDate"))
	if startValue == "" || endValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate are required"})
		return
	}
	start, err := time.Parse(dateLayout, startValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := time.Parse(dateLayout, endValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	var siteID, clientID *uuid.UUID
	if siteValue := strings.TrimSpace(c.Query("siteId")); siteValue != "" {
		parsed, err := uuid.Parse(siteValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid siteId"})
			return
		}
		siteID = &parsed
	}
	if clientValue := strings.TrimSpace(c.Query("clientId")); clientValue != "" {
		parsed, err := uuid.Parse(clientValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clientId"})
			return
		}
		clientID = &parsed
	}

	report, err := h.engine.CalculateRange(c.Request.Context(), tenantID, start, end, siteID, clientID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type serviceOrderCreateRequest struct {
	SiteID      string `json:"siteId" binding:"required"`
	ClientID    string `json:"clientId"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	Amount      string `json:"amount"`
}

type serviceOrderResponse struct {
	ID          string  `json:"id"`
	SiteID      string  `json:"siteId"`
	ClientID    *string `json:"clientId,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

func (h *ServiceOrderHandler) Create(c *gin.Context) {
	var req serviceOrderCreateRequest
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

	order := &model.ServiceOrder{
		ID:          uuid.New(),
		TenantID:    tenantID,
		SiteID:      siteID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      model.ServiceOrderPending,
		CreatedBy:   principal.UserID,
	}
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clientId"})
			return
		}
		order.ClientID = &clientID
	}
	if req.PeriodStart != "" {
		start, err := time.Parse(dateLayout, req.PeriodStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodStart"})
			return
		}
		order.PeriodStart = start
	}
	if req.PeriodEnd != "" {
		end, err := time.Parse(dateLayout, req.PeriodEnd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodEnd"})
			return
		}
		order.PeriodEnd = end
	}

	if err := h.repo.Create(c.Request.Context(), order); err != nil {
		h.logger.Error("failed to create service order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create service order"})
		return
	}

	c.JSON(http.StatusCreated, mapServiceOrder(order))
}

func (h *ServiceOrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	order, err := h.repo.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapServiceOrder(order))
}

func (h *ServiceOrderHandler) List(c *gin.Context) {
	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	var status *model.ServiceOrderStatus
	if statusValue := strings.TrimSpace(c.Query("status")); statusValue != "" {
		parsed := model.ServiceOrderStatus(statusValue)
		if !isValidServiceOrderStatus(parsed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		status = &parsed
	}

	limit := parseLimit(c.Query("limit"), 20)
	offset := parseOffset(c.Query("offset"))

	orders, total, err := h.repo.List(c.Request.Context(), tenantID, status, limit, offset)
	if err != nil {
		h.logger.Error("failed to list service orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list service orders"})
		return
	}

	response := make([]serviceOrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, mapServiceOrder(&orders[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": response,
		"total":  total,
	})
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ServiceOrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	next := model.ServiceOrderStatus(req.Status)
	if !isValidServiceOrderStatus(next) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	order, err := h.repo.UpdateStatus(c.Request.Context(), tenantID, orderID, next)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapServiceOrder(order))
}

func mapServiceOrder(order *model.ServiceOrder) serviceOrderResponse {
	response := serviceOrderResponse{
		ID:          order.ID.String(),
		SiteID:      order.SiteID.String(),
		Title:       order.Title,
		Description: order.Description,
		Amount:      billing.ParseAmount(order.Amount),
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt.UTC().Format(timeRFC3339Nano),
	}
	if order.ClientID != nil {
		clientID := order.ClientID.String()
		response.ClientID = &clientID
	}
	return response
}

func isValidServiceOrderStatus(status model.ServiceOrderStatus) bool {
	switch status {
	case model.ServiceOrderPending, model.ServiceOrderInProgress, model.ServiceOrderCompleted, model.ServiceOrderCancelled:
		return true
	default:
		return false
	}
}
