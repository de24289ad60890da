package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/model"
	"github.com/crewtrack/crewtrack/pkg/tools"
)

type ToolHandler struct {
	service *tools.Service
	logger  *zap.Logger
}

func NewToolHandler(service *tools.Service, logger *zap.Logger) *ToolHandler {
	return &ToolHandler{service: service, logger: logger}
}

type toolTransactionRequest struct {
	SiteID    string `json:"siteId"`
	Condition string `json:"condition" binding:"required"`
	Notes     string `json:"notes"`
}

type toolTransactionResponse struct {
	ID        string  `json:"id"`
	ToolID    string  `json:"toolId"`
	UserID    string  `json:"userId"`
	SiteID    *string `json:"siteId,omitempty"`
	Type      string  `json:"type"`
	Condition string  `json:"condition"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

func (h *ToolHandler) Checkout(c *gin.Context) {
	h.transact(c, true)
}

func (h *ToolHandler) Checkin(c *gin.Context) {
	h.transact(c, false)
}

func (h *ToolHandler) transact(c *gin.Context, checkout bool) {
	toolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tool id"})
		return
	}

	var req toolTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	input := tools.TransactionInput{Condition: req.Condition, Notes: req.Notes}
	if req.SiteID != "" {
		siteID, err := uuid.Parse(req.SiteID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid siteId"})
			return
		}
		input.SiteID = &siteID
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	var transaction *model.ToolTransaction
	if checkout {
		transaction, err = h.service.Checkout(c.Request.Context(), tenantID, principal.UserID, toolID, input)
	} else {
		transaction, err = h.service.Checkin(c.Request.Context(), tenantID, principal.UserID, toolID, input)
	}
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, mapToolTransaction(transaction))
}

func (h *ToolHandler) Transactions(c *gin.Context) {
	toolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tool id"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	limit := parseLimit(c.Query("limit"), 50)
	transactions, err := h.service.History(c.Request.Context(), tenantID, toolID, limit)
	if err != nil {
		h.logger.Error("failed to list tool transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tool transactions"})
		return
	}

	response := make([]toolTransactionResponse, 0, len(transactions))
	for i := range transactions {
		response = append(response, mapToolTransaction(&transactions[i]))
	}

	c.JSON(http.StatusOK, response)
}

func mapToolTransaction(transaction *model.ToolTransaction) toolTransactionResponse {
	response := toolTransactionResponse{
		ID:        transaction.ID.String(),
		ToolID:    transaction.ToolID.String(),
		UserID:    transaction.UserID.String(),
		Type:      string(transaction.Type),
		Condition: transaction.Condition,
		Notes:     transaction.Notes,
		CreatedAt: transaction.CreatedAt.UTC().Format(timeRFC3339Nano),
	}
	if transaction.SiteID != nil {
		siteID := transaction.SiteID.String()
		response.SiteID = &siteID
	}
	return response
}
