package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kithly/kithly-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyRedeemed means the conditional write found the token
	// already spent. Terminal; safe outcome for retried redemptions.
	ErrAlreadyRedeemed = errors.New("collection token already redeemed")
	// ErrOrderNotCollectable means the token flipped but its order was not
	// in the paid state. Indicates corrupted state; the transaction rolls
	// back so nothing is half-applied.
	ErrOrderNotCollectable = errors.New("order is not in a collectable state")
)

// TokenRepository defines data access for collection tokens.
type TokenRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CollectionToken, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.CollectionToken, error)
	// Redeem atomically marks the token redeemed and advances the bound
	// order paid -> collected. The token update is a compare-and-set on
	// is_redeemed, so of N concurrent calls exactly one succeeds; the rest
	// get ErrAlreadyRedeemed. Returns the redeemed token on success.
	Redeem(ctx context.Context, tokenID uuid.UUID, now time.Time) (*models.CollectionToken, error)
}

// GormTokenRepository implements TokenRepository using GORM.
type GormTokenRepository struct {
	db *gorm.DB
}

func NewGormTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

func (r *GormTokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CollectionToken, error) {
	var token models.CollectionToken
	if err := r.db.WithContext(ctx).First(&token, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *GormTokenRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.CollectionToken, error) {
	var token models.CollectionToken
	if err := r.db.WithContext(ctx).First(&token, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *GormTokenRepository) Redeem(ctx context.Context, tokenID uuid.UUID, now time.Time) (*models.CollectionToken, error) {
	var token models.CollectionToken

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CollectionToken{}).
			Where("id = ? AND is_redeemed = ?", tokenID, false).
			Updates(map[string]interface{}{
				"is_redeemed": true,
				"redeemed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Either the token does not exist or it is already spent.
			if err := tx.First(&token, "id = ?", tokenID).Error; err != nil {
				return err
			}
			return ErrAlreadyRedeemed
		}

		if err := tx.First(&token, "id = ?", tokenID).Error; err != nil {
			return err
		}

		orderRes := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", token.OrderID, models.OrderStatusPaid).
			Updates(map[string]interface{}{
				"status":       models.OrderStatusCollected,
				"collected_at": now,
			})
		if orderRes.Error != nil {
			return orderRes.Error
		}
		if orderRes.RowsAffected == 0 {
			return ErrOrderNotCollectable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &token, nil
}
