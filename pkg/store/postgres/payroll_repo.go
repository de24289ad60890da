package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crewtrack/crewtrack/pkg/billing"
	"github.com/crewtrack/crewtrack/pkg/model"
)

type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// Summarize aggregates a user's approved hours for a month into a pending
// PayrollRecord, upserting on (user, year, month).
func (r *PayrollRepository) Summarize(ctx context.Context, tenantID, userID uuid.UUID, year, month int) (*model.PayrollRecord, error) {
	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ? AND tenant_id = ?", userID, tenantID).Error; err != nil {
		return nil, err
	}

	type hoursRow struct {
		TotalHours    float64
		OvertimeHours float64
	}
	var hours hoursRow
	err := r.db.WithContext(ctx).Model(&model.TimeRecord{}).
		Select("COALESCE(SUM(total_hours), 0) AS total_hours, COALESCE(SUM(overtime_hours), 0) AS overtime_hours").
		Where("tenant_id = ? AND user_id = ? AND status = ? AND check_in_time >= ? AND check_in_time < ?",
			tenantID, userID, model.TimeRecordApproved, periodStart, periodEnd).
		Scan(&hours).Error
	if err != nil {
		return nil, err
	}

	var vacationDays, sickDays int64
	leaveQuery := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("tenant_id = ? AND user_id = ? AND status = ? AND start_date >= ? AND start_date < ?",
			tenantID, userID, model.LeaveApproved, periodStart, periodEnd)
	if err := leaveQuery.Where("type = ?", "vacation").
		Select("COALESCE(SUM(days_count), 0)").Scan(&vacationDays).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("tenant_id = ? AND user_id = ? AND status = ? AND start_date >= ? AND start_date < ? AND type = ?",
			tenantID, userID, model.LeaveApproved, periodStart, periodEnd, "sick").
		Select("COALESCE(SUM(days_count), 0)").Scan(&sickDays).Error; err != nil {
		return nil, err
	}

	rate := billing.ParseAmount(user.HourlyRate)
	regular := billing.Round2(hours.TotalHours - hours.OvertimeHours)
	if regular < 0 {
		regular = 0
	}
	overtime := billing.Round2(hours.OvertimeHours)
	amount := billing.Round2(regular*rate + overtime*rate*billing.OvertimeMultiplier)

	record := &model.PayrollRecord{
		ID:            uuid.New(),
		TenantID:      tenantID,
		UserID:        userID,
		Year:          year,
		Month:         month,
		RegularHours:  regular,
		OvertimeHours: overtime,
		VacationDays:  int(vacationDays),
		SickDays:      int(sickDays),
		TotalAmount:   amount,
		Status:        model.PayrollPending,
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"regular_hours", "overtime_hours", "vacation_days", "sick_days", "total_amount", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}
