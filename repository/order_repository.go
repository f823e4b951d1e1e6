package repository

import (
	"context"

	"github.com/kithly/kithly-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines data access for orders.
type OrderRepository interface {
	// CreateWithToken persists a new order, its line items and its
	// collection token as a single transaction. Either all three are
	// visible afterwards or none is.
	CreateWithToken(ctx context.Context, order *models.Order, token *models.CollectionToken) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndBuyer(ctx context.Context, id, buyerUserID uuid.UUID) (*models.Order, error)
	FindByBuyer(ctx context.Context, buyerUserID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindByShop(ctx context.Context, shopID uuid.UUID, page, limit int) ([]models.Order, int64, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) CreateWithToken(ctx context.Context, order *models.Order, token *models.CollectionToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		token.OrderID = order.ID
		token.ShopID = order.ShopID
		return tx.Create(token).Error
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByIDAndBuyer(ctx context.Context, id, buyerUserID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND buyer_user_id = ?", id, buyerUserID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByBuyer retrieves a buyer's orders with pagination.
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerUserID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return r.findPaged(ctx, "buyer_user_id = ?", buyerUserID, page, limit)
}

// FindByShop retrieves a shop's orders with pagination.
func (r *GormOrderRepository) FindByShop(ctx context.Context, shopID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return r.findPaged(ctx, "shop_id = ?", shopID, page, limit)
}

func (r *GormOrderRepository) findPaged(ctx context.Context, cond string, arg uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where(cond, arg)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
