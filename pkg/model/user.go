package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
	RoleClient     Role = "client"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash *string   // nil for OIDC-only accounts
	FirstName    string
	LastName     string
	Role         Role       `gorm:"type:varchar(20);not null;index"`
	TenantID     *uuid.UUID `gorm:"type:uuid;index"` // nil only for superadmin
	Tenant       *Tenant    `gorm:"foreignKey:TenantID"`
	HourlyRate   string     `gorm:"type:numeric(12,2);default:'0'"`
	PIN          string     `gorm:"type:varchar(10)"`
	LeaveBalance float64    `gorm:"default:0"`
	IsActive     bool       `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
