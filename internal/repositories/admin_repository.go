package repositories

import (
	"context"
	"strings"
	"time"

	"IndoHomz/internal/models"

	"gorm.io/gorm"
)

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Administrator, error)
	GetByID(ctx context.Context, id int) (*models.Administrator, error)
	Save(ctx context.Context, a *models.Administrator) error
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

// GetByEmail is case-insensitive; emails are stored lower-cased.
func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	var a models.Administrator
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *adminRepo) GetByID(ctx context.Context, id int) (*models.Administrator, error) {
	var a models.Administrator
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Save inserts a new administrator or updates an existing one.
func (r *adminRepo) Save(ctx context.Context, a *models.Administrator) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *adminRepo) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Administrator{}).Where("id = ?", id).
		Update("last_login", at).Error
}
