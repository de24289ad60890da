package leave

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crewtrack/crewtrack/pkg/metrics"
	"github.com/crewtrack/crewtrack/pkg/model"
)

var (
	ErrInvalidRange        = errors.New("start date must not be after end date")
	ErrDaysCountMismatch   = errors.New("days count does not match the date range")
	ErrNotPending          = errors.New("leave request is no longer pending")
	ErrNotRequestOwner     = errors.New("leave request belongs to another user")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
)

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// DaysCount is the inclusive day difference between two dates.
func DaysCount(start, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(endDay.Sub(startDay).Hours()/24) + 1
}

type CreateInput struct {
	Type      string
	StartDate time.Time
	EndDate   time.Time
	DaysCount int
	IsPaid    bool
	Reason    string
}

// Create files a pending request. The day count is recomputed server-side
// and a mismatching client-supplied value is rejected rather than trusted.
func (s *Service) Create(ctx context.Context, tenantID, userID uuid.UUID, in CreateInput) (*model.LeaveRequest, error) {
	if in.StartDate.After(in.EndDate) {
		return nil, ErrInvalidRange
	}
	days := DaysCount(in.StartDate, in.EndDate)
	if in.DaysCount != 0 && in.DaysCount != days {
		return nil, ErrDaysCountMismatch
	}

	request := &model.LeaveRequest{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Type:      in.Type,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		DaysCount: days,
		IsPaid:    in.IsPaid,
		Reason:    in.Reason,
		Status:    model.LeavePending,
	}

	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// Approve settles a pending request. Approving paid leave debits the user's
// balance in the same transaction.
func (s *Service) Approve(ctx context.Context, tenantID, approverID, requestID uuid.UUID) (*model.LeaveRequest, error) {
	var request model.LeaveRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ? AND tenant_id = ?", requestID, tenantID).Error; err != nil {
			return err
		}
		if request.Status != model.LeavePending {
			return ErrNotPending
		}

		if request.IsPaid {
			var user model.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&user, "id = ?", request.UserID).Error; err != nil {
				return err
			}
			if user.LeaveBalance < float64(request.DaysCount) {
				return ErrInsufficientBalance
			}
			if err := tx.Model(&model.User{}).Where("id = ?", user.ID).
				Update("leave_balance", gorm.Expr("leave_balance - ?", request.DaysCount)).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		request.Status = model.LeaveApproved
		request.ApprovedBy = &approverID
		request.ApprovedAt = &now

		return tx.Model(&model.LeaveRequest{}).Where("id = ?", request.ID).Updates(map[string]interface{}{
			"status":      model.LeaveApproved,
			"approved_by": approverID,
			"approved_at": now,
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.LeaveDecisionsTotal.WithLabelValues(tenantID.String(), "approved").Inc()
	return &request, nil
}

// Reject settles a pending request; the reason is optional.
func (s *Service) Reject(ctx context.Context, tenantID, approverID, requestID uuid.UUID, reason string) (*model.LeaveRequest, error) {
	var request model.LeaveRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ? AND tenant_id = ?", requestID, tenantID).Error; err != nil {
			return err
		}
		if request.Status != model.LeavePending {
			return ErrNotPending
		}

		now := time.Now().UTC()
		request.Status = model.LeaveRejected
		request.RejectionReason = reason
		request.ApprovedBy = &approverID
		request.ApprovedAt = &now

		return tx.Model(&model.LeaveRequest{}).Where("id = ?", request.ID).Updates(map[string]interface{}{
			"status":           model.LeaveRejected,
			"rejection_reason": reason,
			"approved_by":      approverID,
			"approved_at":      now,
			"updated_at":       now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.LeaveDecisionsTotal.WithLabelValues(tenantID.String(), "rejected").Inc()
	return &request, nil
}

// Cancel withdraws the caller's own pending request.
func (s *Service) Cancel(ctx context.Context, tenantID, userID, requestID uuid.UUID) (*model.LeaveRequest, error) {
	var request model.LeaveRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ? AND tenant_id = ?", requestID, tenantID).Error; err != nil {
			return err
		}
		if request.UserID != userID {
			return ErrNotRequestOwner
		}
		if request.Status != model.LeavePending {
			return ErrNotPending
		}

		now := time.Now().UTC()
		request.Status = model.LeaveCancelled

		return tx.Model(&model.LeaveRequest{}).Where("id = ?", request.ID).Updates(map[string]interface{}{
			"status":     model.LeaveCancelled,
			"updated_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.LeaveDecisionsTotal.WithLabelValues(tenantID.String(), "cancelled").Inc()
	return &request, nil
}
