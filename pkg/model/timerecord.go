package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeRecordStatus string

const (
	TimeRecordPending   TimeRecordStatus = "pending"
	TimeRecordApproved  TimeRecordStatus = "approved"
	TimeRecordRejected  TimeRecordStatus = "rejected"
	TimeRecordContested TimeRecordStatus = "contested"
)

// TimeRecord is one check-in/check-out cycle. A nil CheckOutTime means the
// worker is currently clocked in; the partial unique index on UserID keeps at
// most one such row per user.
type TimeRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_open_record,where:check_out_time IS NULL"`
	User              *User     `gorm:"foreignKey:UserID"`
	SiteID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Site              *Site     `gorm:"foreignKey:SiteID"`
	CheckInTime       time.Time `gorm:"not null;index"`
	CheckOutTime      *time.Time
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckInPhoto      string
	CheckOutPhoto     string
	DeviceID          string `gorm:"type:varchar(100)"`
	IsWithinGeofence  bool   `gorm:"default:true"`
	IsSuspicious      bool   `gorm:"default:false"`
	SuspiciousReason  string
	TotalHours        float64          `gorm:"default:0"`
	OvertimeHours     float64          `gorm:"default:0"`
	Status            TimeRecordStatus `gorm:"type:varchar(20);default:'pending';index"`
	RejectionReason   string
	ClientValidated   bool `gorm:"default:false"`
	ValidatedAt       *time.Time
	ApprovedBy        *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

type ContestationStatus string

const (
	ContestationOpen      ContestationStatus = "open"
	ContestationResolved  ContestationStatus = "resolved"
	ContestationDismissed ContestationStatus = "dismissed"
)

type Contestation struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	TimeRecordID uuid.UUID          `gorm:"type:uuid;not null;index"`
	TimeRecord   *TimeRecord        `gorm:"foreignKey:TimeRecordID"`
	RaisedBy     uuid.UUID          `gorm:"type:uuid;not null"`
	Reason       string             `gorm:"not null"`
	Severity     string             `gorm:"type:varchar(20);default:'medium'"`
	Status       ContestationStatus `gorm:"type:varchar(20);default:'open';index"`
	Resolution   string
	ResolvedBy   *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
