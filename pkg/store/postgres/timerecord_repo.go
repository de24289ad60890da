package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/model"
)

type TimeRecordRepository struct {
	db *gorm.DB
}

func NewTimeRecordRepository(db *gorm.DB) *TimeRecordRepository {
	return &TimeRecordRepository{db: db}
}

type TimeRecordFilter struct {
	Status    *model.TimeRecordStatus
	SiteID    *uuid.UUID
	UserID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

func (r *TimeRecordRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*model.TimeRecord, error) {
	var record model.TimeRecord
	err := r.db.WithContext(ctx).
		Preload("Site").
		First(&record, "id = ? AND tenant_id = ?", id, tenantID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *TimeRecordRepository) List(ctx context.Context, tenantID uuid.UUID, filter TimeRecordFilter, limit, offset int) ([]model.TimeRecord, int64, error) {
	var records []model.TimeRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&model.TimeRecord{}).Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StartDate != nil {
		query = query.Where("check_in_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("check_in_time <= ?", *filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("check_in_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error

	return records, total, err
}
