package tools

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
	ErrToolUnavailable = errors.New("tool is not available")
	ErrToolNotInUse    = errors.New("tool is not checked out")
)

const conditionDamaged = "damaged"

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

type TransactionInput struct {
	SiteID    *uuid.UUID
	Condition string
	Notes     string
}

// Checkout hands a tool to a user. The tool row is locked for the duration
// of the transaction so two concurrent checkouts cannot both succeed, and
// the audit row commits atomically with the state change.
func (s *Service) Checkout(ctx context.Context, tenantID, userID, toolID uuid.UUID, in TransactionInput) (*model.ToolTransaction, error) {
	transaction := &model.ToolTransaction{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ToolID:    toolID,
		UserID:    userID,
		SiteID:    in.SiteID,
		Type:      model.ToolCheckout,
		Condition: in.Condition,
		Notes:     in.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tool model.Tool
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tool, "id = ? AND tenant_id = ?", toolID, tenantID).Error; err != nil {
			return err
		}
		if tool.Status != model.ToolAvailable {
			return ErrToolUnavailable
		}

		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		return tx.Model(&model.Tool{}).Where("id = ?", tool.ID).Updates(map[string]interface{}{
			"status":          model.ToolInUse,
			"current_user_id": userID,
			"current_site_id": in.SiteID,
			"updated_at":      time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.ToolTransactionsTotal.WithLabelValues(tenantID.String(), string(model.ToolCheckout)).Inc()
	return transaction, nil
}

// Checkin returns a tool. A damaged return parks the tool in maintenance
// instead of making it available again.
func (s *Service) Checkin(ctx context.Context, tenantID, userID, toolID uuid.UUID, in TransactionInput) (*model.ToolTransaction, error) {
	transaction := &model.ToolTransaction{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ToolID:    toolID,
		UserID:    userID,
		SiteID:    in.SiteID,
		Type:      model.ToolCheckin,
		Condition: in.Condition,
		Notes:     in.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tool model.Tool
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tool, "id = ? AND tenant_id = ?", toolID, tenantID).Error; err != nil {
			return err
		}
		if tool.Status != model.ToolInUse {
			return ErrToolNotInUse
		}

		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		nextStatus := model.ToolAvailable
		if in.Condition == conditionDamaged {
			nextStatus = model.ToolMaintenance
		}

		return tx.Model(&model.Tool{}).Where("id = ?", tool.ID).Updates(map[string]interface{}{
			"status":          nextStatus,
			"current_user_id": nil,
			"current_site_id": nil,
			"updated_at":      time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.ToolTransactionsTotal.WithLabelValues(tenantID.String(), string(model.ToolCheckin)).Inc()
	return transaction, nil
}

// History returns the append-only custody log for a tool, newest first.
func (s *Service) History(ctx context.Context, tenantID, toolID uuid.UUID, limit int) ([]model.ToolTransaction, error) {
	var transactions []model.ToolTransaction
	err := s.db.WithContext(ctx).
		Where("tool_id = ? AND tenant_id = ?", toolID, tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}
