package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kithly/kithly-backend/models"
	awspkg "github.com/kithly/kithly-backend/pkg/aws"
	"github.com/kithly/kithly-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutItem references a product and quantity from the buyer's cart.
// No price: the authoritative price is always read from the catalog at
// checkout time, never trusted from the client.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest is the payment-intake payload.
type CheckoutRequest struct {
	ShopID         uuid.UUID      `json:"shop_id" binding:"required"`
	RecipientPhone string         `json:"recipient_phone" binding:"required"`
	Items          []CheckoutItem `json:"items" binding:"required,dive"`
	IdempotencyKey string         `json:"-"`
}

// CheckoutResult identifies the created order and its collection token.
type CheckoutResult struct {
	OrderID uuid.UUID `json:"order_id"`
	TokenID uuid.UUID `json:"token_id"`
}

// CheckoutService implements payment intake: it validates the purchase,
// computes the authoritative total and persists order + token atomically.
type CheckoutService struct {
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	idempotency IdempotencyStore
	publisher   awspkg.SNSPublisher
	topicArn    string
	baseURL     string
	logger      *zap.Logger
}

func NewCheckoutService(
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	idempotency IdempotencyStore,
	publisher awspkg.SNSPublisher,
	topicArn string,
	baseURL string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		shopRepo:    shopRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		idempotency: idempotency,
		publisher:   publisher,
		topicArn:    topicArn,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// CreateOrder processes a paid purchase. Payment capture happens upstream;
// this persists the order and its single-use collection token as one
// transaction and enqueues the recipient notification best-effort.
func (s *CheckoutService) CreateOrder(ctx context.Context, buyerUserID uuid.UUID, req *CheckoutRequest) (*CheckoutResult, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, newServiceError(400, KindEmptyCart, "At least one item is required")
	}

	phone, ok := NormalizeZambianPhone(req.RecipientPhone)
	if !ok {
		return nil, newServiceError(400, KindInvalidRecipient, "Recipient phone number is not a valid Zambian mobile number")
	}

	// Payment callbacks duplicate; replay the original result for a
	// repeated key instead of creating a second order.
	reserved := false
	if req.IdempotencyKey != "" && s.idempotency != nil {
		prior, err := s.idempotency.Reserve(ctx, req.IdempotencyKey)
		if err != nil {
			if errors.Is(err, ErrIdempotencyInFlight) {
				return nil, newServiceError(409, KindConflict, "A request with this idempotency key is already in progress")
			}
			s.logger.Error("Idempotency reserve failed", zap.Error(err))
			return nil, newServiceError(503, KindInternal, "Checkout temporarily unavailable")
		}
		if prior != nil {
			s.logger.Info("Replaying checkout result for duplicate idempotency key",
				zap.String("order_id", prior.OrderID.String()))
			return prior, nil
		}
		reserved = true
	}
	fail := func(serr *ServiceError) (*CheckoutResult, *ServiceError) {
		if reserved {
			if err := s.idempotency.Release(ctx, req.IdempotencyKey); err != nil {
				s.logger.Warn("Idempotency release failed", zap.Error(err))
			}
		}
		return nil, serr
	}

	shop, err := s.shopRepo.FindByID(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(newServiceError(422, KindShopNotEligible, "Shop not found"))
		}
		s.logger.Error("Shop lookup failed", zap.Error(err))
		return fail(newServiceError(500, KindInternal, "Failed to process checkout"))
	}
	if !shop.Eligible() {
		return fail(newServiceError(422, KindShopNotEligible, "Shop is not verified or no longer active"))
	}

	order, serr := s.buildOrder(ctx, buyerUserID, shop, phone, req.Items)
	if serr != nil {
		return fail(serr)
	}

	token := &models.CollectionToken{
		// v4 UUID from crypto/rand; unguessable, never timestamp-derived.
		ID: uuid.New(),
	}

	if err := s.orderRepo.CreateWithToken(ctx, order, token); err != nil {
		s.logger.Error("Failed to persist order with token", zap.Error(err))
		return fail(newServiceError(500, KindInternal, "Failed to create order"))
	}

	result := &CheckoutResult{OrderID: order.ID, TokenID: token.ID}

	if reserved {
		if err := s.idempotency.Complete(ctx, req.IdempotencyKey, result); err != nil {
			// The order is committed; a lost record only costs dedup.
			s.logger.Warn("Idempotency record failed", zap.Error(err))
		}
	}

	s.publishOrderCreated(ctx, shop, order, token)

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("shop_id", shop.ID.String()),
		zap.Int64("total_ngwee", order.TotalAmountNgwee),
	)
	return result, nil
}

// buildOrder re-reads the referenced products, verifies shop binding and
// availability at creation time and freezes line-item snapshots.
func (s *CheckoutService) buildOrder(ctx context.Context, buyerUserID uuid.UUID, shop *models.Shop, phone string, items []CheckoutItem) (*models.Order, *ServiceError) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, newServiceError(400, KindEmptyCart, "Item quantity must be at least 1")
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Product lookup failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to process checkout")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var total int64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || product.ShopID != shop.ID {
			return nil, newServiceError(422, KindProductUnavailable,
				fmt.Sprintf("Product %s is not sold by this shop", item.ProductID))
		}
		if !product.IsAvailable {
			return nil, newServiceError(422, KindProductUnavailable,
				fmt.Sprintf("Product %q is no longer available", product.Name))
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID:            product.ID,
			Name:                 product.Name,
			PriceAtPurchaseNgwee: product.PriceNgwee,
			Quantity:             item.Quantity,
		})
		total += product.PriceNgwee * int64(item.Quantity)
	}

	return &models.Order{
		ShopID:           shop.ID,
		BuyerUserID:      buyerUserID,
		RecipientPhone:   phone,
		TotalAmountNgwee: total,
		Status:           models.OrderStatusPaid,
		Items:            orderItems,
	}, nil
}

// publishOrderCreated enqueues the recipient SMS event. Best-effort: the
// order stands even if the publish fails; delivery retries belong to the
// notification pipeline.
func (s *CheckoutService) publishOrderCreated(ctx context.Context, shop *models.Shop, order *models.Order, token *models.CollectionToken) {
	if s.publisher == nil || s.topicArn == "" {
		s.logger.Warn("SNS not configured, skipping order_created publish")
		return
	}

	event := models.OrderCreatedEvent{
		EventType:        models.EventOrderCreated,
		OrderID:          order.ID.String(),
		TokenID:          token.ID.String(),
		ShopID:           shop.ID.String(),
		ShopName:         shop.ShopName,
		RecipientPhone:   order.RecipientPhone,
		CollectionLink:   fmt.Sprintf("%s/gift/%s", s.baseURL, token.ID),
		TotalAmountNgwee: order.TotalAmountNgwee,
		Timestamp:        time.Now().UTC(),
	}
	b, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order_created event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topicArn, b); err != nil {
		s.logger.Error("Failed to publish order_created event", zap.Error(err))
		return
	}
	s.logger.Info("Published order_created event", zap.String("order_id", event.OrderID))
}
