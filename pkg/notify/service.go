package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/model"
)

// Broadcaster is the thin interface the rest of the system depends on; the
// chat transport behind it is an external collaborator.
type Broadcaster interface {
	BroadcastChat(ctx context.Context, message *model.ChatMessage) error
}

// Service persists a chat message, then broadcasts it. Order matters:
// a socket that misses the live push can still read the row back.
type Service struct {
	db     *gorm.DB
	bus    *Bus
	hub    *Hub
	logger *zap.Logger
}

func NewService(db *gorm.DB, bus *Bus, hub *Hub, logger *zap.Logger) *Service {
	return &Service{db: db, bus: bus, hub: hub, logger: logger}
}

func (s *Service) SendChat(ctx context.Context, tenantID, roomID, senderID uuid.UUID, body string) (*model.ChatMessage, error) {
	message := &model.ChatMessage{
		ID:        uuid.New(),
		TenantID:  tenantID,
		RoomID:    roomID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}

	if err := s.BroadcastChat(ctx, message); err != nil {
		// Best-effort push; the message is already persisted.
		s.logger.Warn("chat broadcast failed", zap.Error(err), zap.String("room_id", roomID.String()))
	}

	return message, nil
}

func (s *Service) BroadcastChat(ctx context.Context, message *model.ChatMessage) error {
	event, err := NewEvent("chat_message", ChatMessageEvent{
		MessageID: message.ID.String(),
		RoomID:    message.RoomID.String(),
		SenderID:  message.SenderID.String(),
		Body:      message.Body,
		SentAt:    message.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	return s.bus.Publish(ctx, ChatChannel(message.RoomID.String()), event)
}

// Run bridges bus events into the in-process hub until the context ends.
func (s *Service) Run(ctx context.Context) {
	events := s.bus.Subscribe(ctx, channelChatPrefix+"*")
	for event := range events {
		if event.Type != "chat_message" {
			continue
		}
		var chat ChatMessageEvent
		if err := json.Unmarshal(event.Data, &chat); err != nil {
			continue
		}
		payload, err := json.Marshal(chat)
		if err != nil {
			continue
		}
		s.hub.Broadcast(chat.RoomID, payload)
	}
}

// History returns the most recent messages in a room, oldest first.
func (s *Service) History(ctx context.Context, tenantID, roomID uuid.UUID, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND tenant_id = ?", roomID, tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
