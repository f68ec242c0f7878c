package repositories

import (
	"context"
	"time"

	"IndoHomz/internal/models"

	"gorm.io/gorm"
)

// PropertyRepository defines the data operations on listings.
type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id int) (*models.Property, error)
	GetBySlug(ctx context.Context, slug string) (*models.Property, error)
	SlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
	List(ctx context.Context) ([]models.Property, error)
	Update(ctx context.Context, p *models.Property) error
	SetAvailability(ctx context.Context, id int, available bool) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type propertyRepo struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepo{db: db}
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propertyRepo) GetByID(ctx context.Context, id int) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *propertyRepo) GetBySlug(ctx context.Context, slug string) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// SlugExists ignores the row with excludeID so an update can keep its own slug.
func (r *propertyRepo) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Property{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every listing, newest first.
func (r *propertyRepo) List(ctx context.Context) ([]models.Property, error) {
	var out []models.Property
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *propertyRepo) SetAvailability(ctx context.Context, id int, available bool) error {
	res := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).
		Update("is_available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes the listing and detaches its leads in one transaction.
func (r *propertyRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Lead{}).Where("property_id = ?", id).
			Update("property_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Property{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// DeleteAll is used by the seed command's --clear. Leads are kept without
// a listing.
func (r *propertyRepo) DeleteAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Lead{}).Where("property_id IS NOT NULL").
			Update("property_id", nil).Error; err != nil {
			return err
		}
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Property{})
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}

func (r *propertyRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Property{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}
