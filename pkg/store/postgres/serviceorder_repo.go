package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crewtrack/crewtrack/pkg/model"
)

var ErrInvalidOrderTransition = errors.New("service order status does not allow this transition")

type ServiceOrderRepository struct {
	db *gorm.DB
}

func NewServiceOrderRepository(db *gorm.DB) *ServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

func (r *ServiceOrderRepository) Create(ctx context.Context, order *model.ServiceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *ServiceOrderRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ServiceOrder, error) {
	var order model.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Site").
		First(&order, "id = ? AND tenant_id = ?", id, tenantID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *ServiceOrderRepository) List(ctx context.Context, tenantID uuid.UUID, status *model.ServiceOrderStatus, limit, offset int) ([]model.ServiceOrder, int64, error) {
	var orders []model.ServiceOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ServiceOrder{}).Where("tenant_id = ?", tenantID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error

	return orders, total, err
}

// orderTransitions is the forward-only lifecycle of a persisted order.
var orderTransitions = map[model.ServiceOrderStatus][]model.ServiceOrderStatus{
	model.ServiceOrderPending:    {model.ServiceOrderInProgress, model.ServiceOrderCancelled},
	model.ServiceOrderInProgress: {model.ServiceOrderCompleted, model.ServiceOrderCancelled},
}

func (r *ServiceOrderRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, next model.ServiceOrderStatus) (*model.ServiceOrder, error) {
	var order model.ServiceOrder

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
			return err
		}

		allowed := false
		for _, candidate := range orderTransitions[order.Status] {
			if candidate == next {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrInvalidOrderTransition
		}

		order.Status = next
		return tx.Model(&model.ServiceOrder{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
