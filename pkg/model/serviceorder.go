package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceOrderStatus string

const (
	ServiceOrderPending    ServiceOrderStatus = "pending"
	ServiceOrderInProgress ServiceOrderStatus = "in_progress"
	ServiceOrderCompleted  ServiceOrderStatus = "completed"
	ServiceOrderCancelled  ServiceOrderStatus = "cancelled"
)

// ServiceOrder is a manually created, persisted order with its own lifecycle.
// The billed aggregate served by /service-orders/calculate is computed on
// demand from approved time records and is never read from these rows.
type ServiceOrder struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SiteID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Site        *Site      `gorm:"foreignKey:SiteID"`
	ClientID    *uuid.UUID `gorm:"type:uuid"`
	Title       string     `gorm:"not null"`
	Description string
	PeriodStart time.Time          `gorm:"type:date"`
	PeriodEnd   time.Time          `gorm:"type:date"`
	Amount      string             `gorm:"type:numeric(12,2);default:'0'"`
	Status      ServiceOrderStatus `gorm:"type:varchar(20);default:'pending';index"`
	CreatedBy   uuid.UUID          `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
