package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantTrial     TenantStatus = "trial"
	TenantSuspended TenantStatus = "suspended"
	TenantCancelled TenantStatus = "cancelled"
)

// Tenant is an isolated customer organization. Every business row carries a
// TenantID and every query filters on it.
type Tenant struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string    `gorm:"uniqueIndex;not null"`
	ContactEmail     string
	ContactPhone     string
	SubscriptionPlan string       `gorm:"type:varchar(50);default:'basic'"`
	Status           TenantStatus `gorm:"type:varchar(20);default:'trial';index"`
	Settings         JSONB        `gorm:"type:jsonb;default:'{}'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

type SiteStatus string

const (
	SitePaused    SiteStatus = "paused"
	SiteActive    SiteStatus = "active"
	SiteCompleted SiteStatus = "completed"
)

type BillingType string

const (
	BillingHourly BillingType = "hourly"
	BillingDaily  BillingType = "daily"
	BillingFixed  BillingType = "fixed"
)

type Site struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tenant         *Tenant    `gorm:"foreignKey:TenantID"`
	ClientID       *uuid.UUID `gorm:"type:uuid;index"`
	Client         *User      `gorm:"foreignKey:ClientID"`
	Name           string     `gorm:"not null"`
	Address        string
	Latitude       *float64
	Longitude      *float64
	GeofenceRadius float64          `gorm:"default:100"` // meters
	WorkDays       pq.StringArray   `gorm:"type:text[]"`
	WorkStartTime  string           `gorm:"type:varchar(5)"` // "08:00"
	WorkEndTime    string           `gorm:"type:varchar(5)"`
	BillingType    BillingType      `gorm:"type:varchar(20);default:'hourly'"`
	HourlyRate     string           `gorm:"type:numeric(12,2);default:'0'"` // daily or flat rate depending on BillingType
	Status         SiteStatus       `gorm:"type:varchar(20);default:'active';index"`
	Assignments    []SiteAssignment `gorm:"foreignKey:SiteID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

type AssignmentRole string

const (
	AssignmentWorker     AssignmentRole = "worker"
	AssignmentSupervisor AssignmentRole = "supervisor"
)

type SiteAssignment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SiteID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uniq_site_user"`
	Site      *Site          `gorm:"foreignKey:SiteID"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uniq_site_user"`
	User      *User          `gorm:"foreignKey:UserID"`
	Role      AssignmentRole `gorm:"type:varchar(20);default:'worker'"`
	CreatedAt time.Time
}

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONB) GormDataType() string {
	return "jsonb"
}
