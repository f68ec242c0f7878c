package repositories

import (
	"context"
	"time"

	"IndoHomz/internal/models"

	"gorm.io/gorm"
)

// LeadFilter narrows List; empty fields are ignored.
type LeadFilter struct {
	Status string
	Source string
	Skip   int
	Limit  int
}

type LeadRepository interface {
	Create(ctx context.Context, l *models.Lead) error
	GetByID(ctx context.Context, id int) (*models.Lead, error)
	List(ctx context.Context, f LeadFilter) ([]models.Lead, error)
	ListByProperty(ctx context.Context, propertyID int) ([]models.Lead, error)
	All(ctx context.Context) ([]models.Lead, error)
	Update(ctx context.Context, l *models.Lead) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type leadRepo struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) Create(ctx context.Context, l *models.Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *leadRepo) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	var l models.Lead
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (r *leadRepo) List(ctx context.Context, f LeadFilter) ([]models.Lead, error) {
	q := r.db.WithContext(ctx).Model(&models.Lead{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Skip > 0 {
		q = q.Offset(f.Skip)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []models.Lead
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *leadRepo) ListByProperty(ctx context.Context, propertyID int) ([]models.Lead, error) {
	var out []models.Lead
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).
		Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *leadRepo) All(ctx context.Context) ([]models.Lead, error) {
	return r.List(ctx, LeadFilter{})
}

func (r *leadRepo) Update(ctx context.Context, l *models.Lead) error {
	return r.db.WithContext(ctx).Omit("Property").Save(l).Error
}

func (r *leadRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Lead{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}
