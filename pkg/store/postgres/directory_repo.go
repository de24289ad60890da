package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/model"
)

// ErrLastAdmin guards the invariant that a tenant always keeps at least one
// active admin.
var ErrLastAdmin = errors.New("tenant must retain at least one admin")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Deactivate soft-disables a user. Removing a tenant's last active admin is
// refused inside the same transaction that performs the count.
func (r *UserRepository) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
			return err
		}

		if user.Role == model.RoleAdmin {
			var admins int64
			if err := tx.Model(&model.User{}).
				Where("tenant_id = ? AND role = ? AND is_active = true AND id <> ?", tenantID, model.RoleAdmin, id).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins == 0 {
				return ErrLastAdmin
			}
		}

		return tx.Model(&model.User{}).Where("id = ?", id).Update("is_active", false).Error
	})
}

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}
