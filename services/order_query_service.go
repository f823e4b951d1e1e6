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

// OrderQueryService serves buyer-scoped order reads.
type OrderQueryService struct {
	orderRepo repository.OrderRepository
	tokenRepo repository.TokenRepository
	logger    *zap.Logger
}

func NewOrderQueryService(orderRepo repository.OrderRepository, tokenRepo repository.TokenRepository, logger *zap.Logger) *OrderQueryService {
	return &OrderQueryService{orderRepo: orderRepo, tokenRepo: tokenRepo, logger: logger}
}

// GetBuyerOrders retrieves paginated orders for the authenticated buyer.
func (s *OrderQueryService) GetBuyerOrders(ctx context.Context, buyerUserID uuid.UUID, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.orderRepo.FindByBuyer(ctx, buyerUserID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch buyer orders", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch orders")
	}
	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// OrderWithToken pairs an order with its collection token so the buyer can
// re-share the collection link.
type OrderWithToken struct {
	Order *models.Order           `json:"order"`
	Token *models.CollectionToken `json:"token"`
}

// GetBuyerOrder retrieves one order for the buyer who placed it.
func (s *OrderQueryService) GetBuyerOrder(ctx context.Context, buyerUserID, orderID uuid.UUID) (*OrderWithToken, *ServiceError) {
	order, err := s.orderRepo.FindByIDAndBuyer(ctx, orderID, buyerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(404, KindNotFound, "Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch order")
	}

	token, err := s.tokenRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to fetch token for order", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch order")
	}

	return &OrderWithToken{Order: order, Token: token}, nil
}
