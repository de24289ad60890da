package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ToolStatus string

const (
	ToolAvailable   ToolStatus = "available"
	ToolInUse       ToolStatus = "in_use"
	ToolMaintenance ToolStatus = "maintenance"
	ToolLost        ToolStatus = "lost"
	ToolStolen      ToolStatus = "stolen"
)

type Tool struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name          string     `gorm:"not null"`
	SerialNumber  string     `gorm:"type:varchar(100)"`
	Category      string     `gorm:"type:varchar(50)"`
	Status        ToolStatus `gorm:"type:varchar(20);default:'available';index"`
	CurrentUserID *uuid.UUID `gorm:"type:uuid"`
	CurrentUser   *User      `gorm:"foreignKey:CurrentUserID"`
	CurrentSiteID *uuid.UUID `gorm:"type:uuid"`
	CurrentSite   *Site      `gorm:"foreignKey:CurrentSiteID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

type ToolTransactionType string

const (
	ToolCheckout ToolTransactionType = "checkout"
	ToolCheckin  ToolTransactionType = "checkin"
)

// ToolTransaction rows are append-only. They are the authoritative custody
// history for a tool, independent of the mutable current-state fields above.
type ToolTransaction struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	ToolID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Tool      *Tool               `gorm:"foreignKey:ToolID"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null"`
	SiteID    *uuid.UUID          `gorm:"type:uuid"`
	Type      ToolTransactionType `gorm:"type:varchar(20);not null"`
	Condition string              `gorm:"type:varchar(30)"` // good | worn | damaged
	Notes     string
	CreatedAt time.Time
}
