package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/model"
	"github.com/crewtrack/crewtrack/pkg/notify"
)

type ChatHandler struct {
	service      *notify.Service
	historyLimit int
	logger       *zap.Logger
}

func NewChatHandler(service *notify.Service, historyLimit int, logger *zap.Logger) *ChatHandler {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &ChatHandler{service: service, historyLimit: historyLimit, logger: logger}
}

type chatSendRequest struct {
	Body string `json:"body" binding:"required"`
}

type chatMessageResponse struct {
	ID       string `json:"id"`
	RoomID   string `json:"roomId"`
	SenderID string `json:"senderId"`
	Body     string `json:"body"`
	SentAt   string `json:"sentAt"`
}

// History is the catch-up read path for sockets that missed a live push.
func (h *ChatHandler) History(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}

	limit := parseLimit(c.Query("limit"), h.historyLimit)
	messages, err := h.service.History(c.Request.Context(), tenantID, roomID, limit)
	if err != nil {
		h.logger.Error("failed to load chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history"})
		return
	}

	response := make([]chatMessageResponse, 0, len(messages))
	for i := range messages {
		response = append(response, mapChatMessage(&messages[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) Send(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req chatSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	tenantID, ok := effectiveTenant(c)
	if !ok {
		return
	}
	principal := middleware.Principal(c)

	message, err := h.service.SendChat(c.Request.Context(), tenantID, roomID, principal.UserID, req.Body)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, mapChatMessage(message))
}

func mapChatMessage(message *model.ChatMessage) chatMessageResponse {
	return chatMessageResponse{
		ID:       message.ID.String(),
		RoomID:   message.RoomID.String(),
		SenderID: message.SenderID.String(),
		Body:     message.Body,
		SentAt:   message.CreatedAt.UTC().Format(timeRFC3339Nano),
	}
}
