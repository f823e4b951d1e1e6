package services

import (
	"context"
	"errors"
	"time"

	"github.com/kithly/kithly-backend/models"
	"github.com/kithly/kithly-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GiftView is the public collection-page payload rendered behind the
// /gift/:tokenId link the recipient receives by SMS. It shows what to
// collect and where, and never exposes the buyer's identity.
type GiftView struct {
	TokenID          uuid.UUID          `json:"token_id"`
	ShopName         string             `json:"shop_name"`
	ShopAddress      string             `json:"shop_address"`
	Items            []models.OrderItem `json:"items"`
	TotalAmountNgwee int64              `json:"total_amount_ngwee"`
	Status           string             `json:"status"`
	IsRedeemed       bool               `json:"is_redeemed"`
	RedeemedAt       *time.Time         `json:"redeemed_at,omitempty"`
}

// GiftService resolves collection tokens for the public gift page.
type GiftService struct {
	tokenRepo repository.TokenRepository
	orderRepo repository.OrderRepository
	shopRepo  repository.ShopRepository
	logger    *zap.Logger
}

func NewGiftService(
	tokenRepo repository.TokenRepository,
	orderRepo repository.OrderRepository,
	shopRepo repository.ShopRepository,
	logger *zap.Logger,
) *GiftService {
	return &GiftService{
		tokenRepo: tokenRepo,
		orderRepo: orderRepo,
		shopRepo:  shopRepo,
		logger:    logger,
	}
}

// Lookup resolves a token to its gift view. Unknown tokens return
// token_not_found; the page stays useful after redemption so the recipient
// can see the gift was collected.
func (s *GiftService) Lookup(ctx context.Context, tokenID uuid.UUID) (*GiftView, *ServiceError) {
	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(404, KindTokenNotFound, "Gift not found")
		}
		s.logger.Error("Token lookup failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch gift")
	}

	order, err := s.orderRepo.FindByID(ctx, token.OrderID)
	if err != nil {
		s.logger.Error("Order lookup for gift failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch gift")
	}

	shop, err := s.shopRepo.FindByID(ctx, token.ShopID)
	if err != nil {
		s.logger.Error("Shop lookup for gift failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch gift")
	}

	return &GiftView{
		TokenID:          token.ID,
		ShopName:         shop.ShopName,
		ShopAddress:      shop.Address,
		Items:            order.Items,
		TotalAmountNgwee: order.TotalAmountNgwee,
		Status:           order.Status,
		IsRedeemed:       token.IsRedeemed,
		RedeemedAt:       token.RedeemedAt,
	}, nil
}
