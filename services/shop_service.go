package services

import (
	"context"
	"errors"

	"github.com/kithly/kithly-backend/models"
	"github.com/kithly/kithly-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PublicShop is the storefront view of a shop. Payout details never leave
// the owner surface.
type PublicShop struct {
	ID           uuid.UUID `json:"id"`
	ShopName     string    `json:"shop_name"`
	Address      string    `json:"address"`
	LogoImageURL string    `json:"logo_image_url,omitempty"`
	IsVerified   bool      `json:"is_verified"`
}

func toPublicShop(s *models.Shop) PublicShop {
	return PublicShop{
		ID:           s.ID,
		ShopName:     s.ShopName,
		Address:      s.Address,
		LogoImageURL: s.LogoImageURL,
		IsVerified:   s.IsVerified,
	}
}

// ShopListResponse is the paginated public shop listing.
type ShopListResponse struct {
	Shops []PublicShop `json:"shops"`
	Meta  MetaData     `json:"meta"`
}

// UpdateShopSettingsRequest carries owner-editable shop settings.
// Verification and activation are not owner-editable.
type UpdateShopSettingsRequest struct {
	ShopName     string `json:"shop_name" binding:"required"`
	Address      string `json:"address"`
	LogoImageURL string `json:"logo_image_url"`

	PayoutType     string `json:"payout_type" binding:"omitempty,oneof=mobile_money bank"`
	PayoutProvider string `json:"payout_provider"`
	PayoutNumber   string `json:"payout_number"`
	PayoutBankName string `json:"payout_bank_name"`
	PayoutAccount  string `json:"payout_account"`
}

// ShopService serves shop reads and owner-scoped settings updates.
type ShopService struct {
	shopRepo  repository.ShopRepository
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

func NewShopService(shopRepo repository.ShopRepository, orderRepo repository.OrderRepository, logger *zap.Logger) *ShopService {
	return &ShopService{shopRepo: shopRepo, orderRepo: orderRepo, logger: logger}
}

// ListShops returns verified, active shops for the public storefront.
func (s *ShopService) ListShops(ctx context.Context, page, limit int) (*ShopListResponse, *ServiceError) {
	shops, total, err := s.shopRepo.FindEligible(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list shops", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch shops")
	}
	views := make([]PublicShop, 0, len(shops))
	for i := range shops {
		views = append(views, toPublicShop(&shops[i]))
	}
	return &ShopListResponse{
		Shops: views,
		Meta:  buildMeta(page, limit, total),
	}, nil
}

// GetShop returns the storefront view of one shop.
func (s *ShopService) GetShop(ctx context.Context, id uuid.UUID) (*PublicShop, *ServiceError) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(404, KindNotFound, "Shop not found")
		}
		s.logger.Error("Shop lookup failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch shop")
	}
	view := toPublicShop(shop)
	return &view, nil
}

// GetOwnedShop resolves the single shop owned by the caller. This is the
// central capability check for every shop-scoped mutation.
func (s *ShopService) GetOwnedShop(ctx context.Context, ownerUserID uuid.UUID) (*models.Shop, *ServiceError) {
	shop, err := s.shopRepo.FindByOwner(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(403, KindForbidden, "Caller does not own a shop")
		}
		s.logger.Error("Owned-shop lookup failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to resolve shop")
	}
	return shop, nil
}

// UpdateSettings applies owner-editable settings to the caller's shop.
func (s *ShopService) UpdateSettings(ctx context.Context, ownerUserID uuid.UUID, req *UpdateShopSettingsRequest) (*models.Shop, *ServiceError) {
	shop, serr := s.GetOwnedShop(ctx, ownerUserID)
	if serr != nil {
		return nil, serr
	}

	shop.ShopName = req.ShopName
	shop.Address = req.Address
	shop.LogoImageURL = req.LogoImageURL
	shop.PayoutType = req.PayoutType
	shop.PayoutProvider = req.PayoutProvider
	shop.PayoutNumber = req.PayoutNumber
	shop.PayoutBankName = req.PayoutBankName
	shop.PayoutAccount = req.PayoutAccount

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		s.logger.Error("Shop settings update failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to update settings")
	}

	s.logger.Info("Shop settings updated", zap.String("shop_id", shop.ID.String()))
	return shop, nil
}

// Deactivate soft-deactivates the caller's shop. Deactivated shops fail
// checkout eligibility; existing tokens remain redeemable.
func (s *ShopService) Deactivate(ctx context.Context, ownerUserID uuid.UUID) *ServiceError {
	shop, serr := s.GetOwnedShop(ctx, ownerUserID)
	if serr != nil {
		return serr
	}
	shop.IsActive = false
	if err := s.shopRepo.Update(ctx, shop); err != nil {
		s.logger.Error("Shop deactivation failed", zap.Error(err))
		return newServiceError(500, KindInternal, "Failed to deactivate shop")
	}
	s.logger.Info("Shop deactivated", zap.String("shop_id", shop.ID.String()))
	return nil
}

// GetShopOrders returns the caller's shop order history, newest first.
func (s *ShopService) GetShopOrders(ctx context.Context, ownerUserID uuid.UUID, page, limit int) (*OrderListResponse, *ServiceError) {
	shop, serr := s.GetOwnedShop(ctx, ownerUserID)
	if serr != nil {
		return nil, serr
	}

	orders, total, err := s.orderRepo.FindByShop(ctx, shop.ID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch shop orders", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch orders")
	}
	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}
