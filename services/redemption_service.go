package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kithly/kithly-backend/models"
	awspkg "github.com/kithly/kithly-backend/pkg/aws"
	"github.com/kithly/kithly-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RedemptionResult is shown on the point-of-sale screen after a successful
// scan: the frozen line items and total of the collected order.
type RedemptionResult struct {
	OrderID          uuid.UUID          `json:"order_id"`
	Items            []models.OrderItem `json:"items"`
	TotalAmountNgwee int64              `json:"total_amount_ngwee"`
	RedeemedAt       time.Time          `json:"redeemed_at"`
}

// RedemptionService marks collection tokens used, exactly once, and
// advances their orders to collected.
type RedemptionService struct {
	tokenRepo repository.TokenRepository
	orderRepo repository.OrderRepository
	publisher awspkg.SNSPublisher
	topicArn  string
	logger    *zap.Logger
}

func NewRedemptionService(
	tokenRepo repository.TokenRepository,
	orderRepo repository.OrderRepository,
	publisher awspkg.SNSPublisher,
	topicArn string,
	logger *zap.Logger,
) *RedemptionService {
	return &RedemptionService{
		tokenRepo: tokenRepo,
		orderRepo: orderRepo,
		publisher: publisher,
		topicArn:  topicArn,
		logger:    logger,
	}
}

// Redeem validates the presented token and redeems it atomically.
// Under concurrent scans of the same token at most one call succeeds; the
// others observe already_redeemed, which is also the safe outcome for a
// retry after a committed success.
func (s *RedemptionService) Redeem(ctx context.Context, tokenID, presentedByShopID uuid.UUID) (*RedemptionResult, *ServiceError) {
	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(404, KindTokenNotFound, "Collection code not recognized")
		}
		s.logger.Error("Token lookup failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to redeem token")
	}

	// A shop may only redeem its own tokens. Checked before any write.
	if token.ShopID != presentedByShopID {
		s.logger.Warn("Token presented at wrong shop",
			zap.String("token_id", tokenID.String()),
			zap.String("token_shop_id", token.ShopID.String()),
			zap.String("presented_by", presentedByShopID.String()),
		)
		return nil, newServiceError(403, KindShopMismatch, "This gift belongs to a different shop")
	}
	if token.IsRedeemed {
		return nil, newServiceError(409, KindAlreadyRedeemed, "This gift has already been collected")
	}

	now := time.Now().UTC()
	redeemed, err := s.tokenRepo.Redeem(ctx, tokenID, now)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyRedeemed):
			// Lost the race to a concurrent scan.
			return nil, newServiceError(409, KindAlreadyRedeemed, "This gift has already been collected")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, newServiceError(404, KindTokenNotFound, "Collection code not recognized")
		case errors.Is(err, repository.ErrOrderNotCollectable):
			s.logger.Error("Token bound to non-collectable order",
				zap.String("token_id", tokenID.String()),
				zap.String("order_id", token.OrderID.String()),
			)
			return nil, newServiceError(409, KindConflict, "Order cannot be collected")
		default:
			s.logger.Error("Redemption write failed", zap.Error(err))
			return nil, newServiceError(500, KindInternal, "Failed to redeem token")
		}
	}

	order, err := s.orderRepo.FindByID(ctx, redeemed.OrderID)
	if err != nil {
		// The redemption is committed; only the confirmation payload failed.
		s.logger.Error("Order lookup after redemption failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Redeemed, but failed to load order details")
	}

	s.publishTokenRedeemed(ctx, redeemed)

	s.logger.Info("Token redeemed",
		zap.String("token_id", tokenID.String()),
		zap.String("order_id", order.ID.String()),
	)
	return &RedemptionResult{
		OrderID:          order.ID,
		Items:            order.Items,
		TotalAmountNgwee: order.TotalAmountNgwee,
		RedeemedAt:       now,
	}, nil
}

func (s *RedemptionService) publishTokenRedeemed(ctx context.Context, token *models.CollectionToken) {
	if s.publisher == nil || s.topicArn == "" {
		return
	}
	event := models.TokenRedeemedEvent{
		EventType: models.EventTokenRedeemed,
		OrderID:   token.OrderID.String(),
		TokenID:   token.ID.String(),
		ShopID:    token.ShopID.String(),
		Timestamp: time.Now().UTC(),
	}
	b, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal token_redeemed event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topicArn, b); err != nil {
		s.logger.Error("Failed to publish token_redeemed event", zap.Error(err))
	}
}
