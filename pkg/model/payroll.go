package model

import (
	"time"

	"github.com/google/uuid"
)

type PayrollStatus string

const (
	PayrollPending    PayrollStatus = "pending"
	PayrollProcessing PayrollStatus = "processing"
	PayrollPaid       PayrollStatus = "paid"
)

type PayrollRecord struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uniq_payroll_period"`
	User          *User         `gorm:"foreignKey:UserID"`
	Year          int           `gorm:"not null;uniqueIndex:uniq_payroll_period"`
	Month         int           `gorm:"not null;uniqueIndex:uniq_payroll_period"`
	RegularHours  float64       `gorm:"default:0"`
	OvertimeHours float64       `gorm:"default:0"`
	NightHours    float64       `gorm:"default:0"`
	VacationDays  int           `gorm:"default:0"`
	SickDays      int           `gorm:"default:0"`
	TotalAmount   float64       `gorm:"default:0"`
	Status        PayrollStatus `gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
