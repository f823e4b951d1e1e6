package repository

import (
	"context"

	"github.com/kithly/kithly-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopRepository defines data access for shops.
type ShopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Shop, error)
	FindEligible(ctx context.Context, page, limit int) ([]models.Shop, int64, error)
	Update(ctx context.Context, shop *models.Shop) error
}

// GormShopRepository implements ShopRepository using GORM.
type GormShopRepository struct {
	db *gorm.DB
}

func NewGormShopRepository(db *gorm.DB) ShopRepository {
	return &GormShopRepository{db: db}
}

func (r *GormShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *GormShopRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "owner_user_id = ?", ownerUserID).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindEligible retrieves verified, active shops with pagination.
func (r *GormShopRepository) FindEligible(ctx context.Context, page, limit int) ([]models.Shop, int64, error) {
	var shops []models.Shop
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("is_verified = ? AND is_active = ?", true, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("shop_name ASC").
		Find(&shops).Error; err != nil {
		return nil, 0, err
	}

	return shops, total, nil
}

func (r *GormShopRepository) Update(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}
