package timerecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crewtrack/crewtrack/pkg/metrics"
	"github.com/crewtrack/crewtrack/pkg/model"
)

var (
	ErrActiveRecordExists = errors.New("an active time record already exists")
	ErrAlreadyCheckedOut  = errors.New("time record is already checked out")
	ErrNotRecordOwner     = errors.New("time record belongs to another user")
	ErrInvalidTransition  = errors.New("time record status does not allow this transition")
	ErrReasonRequired     = errors.New("a reason is required")
)

type Service struct {
	db            *gorm.DB
	defaultRadius float64
	logger        *zap.Logger
}

func NewService(db *gorm.DB, defaultRadius float64, logger *zap.Logger) *Service {
	if defaultRadius <= 0 {
		defaultRadius = DefaultGeofenceRadius
	}
	return &Service{db: db, defaultRadius: defaultRadius, logger: logger}
}

type CheckInInput struct {
	SiteID    uuid.UUID
	Latitude  float64
	Longitude float64
	Photo     string
	DeviceID  string
}

// CheckIn opens a new time record. The open-record guard runs under a row
// lock inside the transaction; the partial unique index on (user_id) where
// check_out_time IS NULL backs it against concurrent inserts.
func (s *Service) CheckIn(ctx context.Context, tenantID, userID uuid.UUID, in CheckInInput) (*model.TimeRecord, error) {
	var record *model.TimeRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var site model.Site
		if err := tx.First(&site, "id = ? AND tenant_id = ?", in.SiteID, tenantID).Error; err != nil {
			return err
		}

		var open []model.TimeRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND tenant_id = ? AND check_out_time IS NULL", userID, tenantID).
			Find(&open).Error; err != nil {
			return err
		}
		if len(open) > 0 {
			return ErrActiveRecordExists
		}

		if site.GeofenceRadius <= 0 {
			site.GeofenceRadius = s.defaultRadius
		}
		fence := EvaluateGeofence(&site, in.Latitude, in.Longitude)

		record = &model.TimeRecord{
			ID:               uuid.New(),
			TenantID:         tenantID,
			UserID:           userID,
			SiteID:           site.ID,
			CheckInTime:      time.Now().UTC(),
			CheckInLatitude:  &in.Latitude,
			CheckInLongitude: &in.Longitude,
			CheckInPhoto:     in.Photo,
			DeviceID:         in.DeviceID,
			IsWithinGeofence: fence.Within,
			IsSuspicious:     fence.Suspicious,
			SuspiciousReason: fence.Reason,
			Status:           model.TimeRecordPending,
		}

		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.CheckInsTotal.WithLabelValues(tenantID.String(), fmt.Sprintf("%t", record.IsWithinGeofence)).Inc()
	if record.IsSuspicious {
		s.logger.Warn("suspicious check-in",
			zap.String("record_id", record.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("reason", record.SuspiciousReason),
		)
	}

	return record, nil
}

type CheckOutInput struct {
	Latitude  float64
	Longitude float64
	Photo     string
	DeviceID  string
}

// CheckOut closes the caller's own open record, computing total and overtime
// hours from wall-clock elapsed time.
func (s *Service) CheckOut(ctx context.Context, tenantID, userID, recordID uuid.UUID, in CheckOutInput) (*model.TimeRecord, error) {
	var record model.TimeRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ? AND tenant_id = ?", recordID, tenantID).Error; err != nil {
			return err
		}
		if record.UserID != userID {
			return ErrNotRecordOwner
		}
		if record.CheckOutTime != nil {
			return ErrAlreadyCheckedOut
		}

		now := time.Now().UTC()
		total, overtime := ComputeHours(record.CheckInTime, now)

		record.CheckOutTime = &now
		record.CheckOutLatitude = &in.Latitude
		record.CheckOutLongitude = &in.Longitude
		record.CheckOutPhoto = in.Photo
		record.TotalHours = total
		record.OvertimeHours = overtime

		return tx.Model(&model.TimeRecord{}).Where("id = ?", record.ID).Updates(map[string]interface{}{
			"check_out_time":      &now,
			"check_out_latitude":  &in.Latitude,
			"check_out_longitude": &in.Longitude,
			"check_out_photo":     in.Photo,
			"total_hours":         total,
			"overtime_hours":      overtime,
			"updated_at":          now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.CheckOutsTotal.WithLabelValues(tenantID.String()).Inc()
	return &record, nil
}

// Approve moves a pending or contested record to approved, recording who
// decided and when.
func (s *Service) Approve(ctx context.Context, tenantID, approverID, recordID uuid.UUID) (*model.TimeRecord, error) {
	return s.decide(ctx, tenantID, approverID, recordID, model.TimeRecordApproved, "")
}

// Reject requires a reason.
func (s *Service) Reject(ctx context.Context, tenantID, approverID, recordID uuid.UUID, reason string) (*model.TimeRecord, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.decide(ctx, tenantID, approverID, recordID, model.TimeRecordRejected, reason)
}

func (s *Service) decide(ctx context.Context, tenantID, approverID, recordID uuid.UUID, status model.TimeRecordStatus, reason string) (*model.TimeRecord, error) {
	var record model.TimeRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ? AND tenant_id = ?", recordID, tenantID).Error; err != nil {
			return err
		}
		if !CanDecide(record.Status) {
			return ErrInvalidTransition
		}

		now := time.Now().UTC()
		record.Status = status
		record.RejectionReason = reason
		record.ApprovedBy = &approverID
		record.ApprovedAt = &now

		return tx.Model(&model.TimeRecord{}).Where("id = ?", record.ID).Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"approved_by":      approverID,
			"approved_at":      now,
			"updated_at":       now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.TimeRecordDecisionsTotal.WithLabelValues(tenantID.String(), string(record.Status)).Inc()
	return &record, nil
}

// Contest files a client dispute. It forces the record to contested from any
// prior status, including approved and rejected.
func (s *Service) Contest(ctx context.Context, tenantID, raisedBy, recordID uuid.UUID, reason, severity string) (*model.Contestation, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if severity == "" {
		severity = "medium"
	}

	contestation := &model.Contestation{
		ID:           uuid.New(),
		TenantID:     tenantID,
		TimeRecordID: recordID,
		RaisedBy:     raisedBy,
		Reason:       reason,
		Severity:     severity,
		Status:       model.ContestationOpen,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record model.TimeRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ? AND tenant_id = ?", recordID, tenantID).Error; err != nil {
			return err
		}

		if err := tx.Create(contestation).Error; err != nil {
			return err
		}

		return tx.Model(&model.TimeRecord{}).Where("id = ?", recordID).Updates(map[string]interface{}{
			"status":     model.TimeRecordContested,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.TimeRecordDecisionsTotal.WithLabelValues(tenantID.String(), "contested").Inc()
	return contestation, nil
}

// Validate flips the client-validated flag. It is orthogonal to the
// approve/reject status.
func (s *Service) Validate(ctx context.Context, tenantID, recordID uuid.UUID) (*model.TimeRecord, error) {
	var record model.TimeRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, "id = ? AND tenant_id = ?", recordID, tenantID).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		record.ClientValidated = true
		record.ValidatedAt = &now

		return tx.Model(&model.TimeRecord{}).Where("id = ?", record.ID).Updates(map[string]interface{}{
			"client_validated": true,
			"validated_at":     now,
			"updated_at":       now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}
