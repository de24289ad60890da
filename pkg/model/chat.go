package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRoom struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	SiteID    *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Room      *ChatRoom `gorm:"foreignKey:RoomID"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	Sender    *User     `gorm:"foreignKey:SenderID"`
	Body      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}
