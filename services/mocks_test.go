package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/kithly/kithly-backend/models"
	"github.com/kithly/kithly-backend/repository"
	"github.com/kithly/kithly-backend/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ---- mock shop repository ----

type mockShopRepo struct {
	shops map[uuid.UUID]*models.Shop
}

func newMockShopRepo(shops ...*models.Shop) *mockShopRepo {
	m := &mockShopRepo{shops: make(map[uuid.UUID]*models.Shop)}
	for _, s := range shops {
		m.shops[s.ID] = s
	}
	return m
}

func (m *mockShopRepo) Create(_ context.Context, shop *models.Shop) error {
	m.shops[shop.ID] = shop
	return nil
}

func (m *mockShopRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if s, ok := m.shops[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShopRepo) FindByOwner(_ context.Context, ownerUserID uuid.UUID) (*models.Shop, error) {
	for _, s := range m.shops {
		if s.OwnerUserID == ownerUserID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShopRepo) FindEligible(_ context.Context, page, limit int) ([]models.Shop, int64, error) {
	var out []models.Shop
	for _, s := range m.shops {
		if s.Eligible() {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockShopRepo) Update(_ context.Context, shop *models.Shop) error {
	m.shops[shop.ID] = shop
	return nil
}

// ---- mock product repository ----

type mockProductRepo struct {
	products map[uuid.UUID]*models.Product
	inUse    map[uuid.UUID]bool
}

func newMockProductRepo(products ...*models.Product) *mockProductRepo {
	m := &mockProductRepo{
		products: make(map[uuid.UUID]*models.Product),
		inUse:    make(map[uuid.UUID]bool),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) Create(_ context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindByShop(_ context.Context, shopID uuid.UUID, availableOnly bool) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.ShopID != shopID {
			continue
		}
		if availableOnly && !p.IsAvailable {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *models.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if m.inUse[id] {
		return repository.ErrProductInUse
	}
	delete(m.products, id)
	return nil
}

// ---- mock order repository ----

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
	tokens map[uuid.UUID]*models.CollectionToken

	createErr error
	created   int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[uuid.UUID]*models.Order),
		tokens: make(map[uuid.UUID]*models.CollectionToken),
	}
}

func (m *mockOrderRepo) CreateWithToken(_ context.Context, order *models.Order, token *models.CollectionToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	token.OrderID = order.ID
	token.ShopID = order.ShopID
	m.orders[order.ID] = order
	m.tokens[token.ID] = token
	m.created++
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByIDAndBuyer(_ context.Context, id, buyerUserID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok && o.BuyerUserID == buyerUserID {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByBuyer(_ context.Context, buyerUserID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.BuyerUserID == buyerUserID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) FindByShop(_ context.Context, shopID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.ShopID == shopID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

// ---- mock token repository ----

// mockTokenRepo reproduces the store's compare-and-set semantics under a
// mutex so concurrency tests exercise real contention.
type mockTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*models.CollectionToken
	orders *mockOrderRepo

	redeemErr error
}

func newMockTokenRepo(orders *mockOrderRepo) *mockTokenRepo {
	return &mockTokenRepo{
		tokens: make(map[uuid.UUID]*models.CollectionToken),
		orders: orders,
	}
}

func (m *mockTokenRepo) add(token *models.CollectionToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = token
}

func (m *mockTokenRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CollectionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTokenRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*models.CollectionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.OrderID == orderID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTokenRepo) Redeem(_ context.Context, tokenID uuid.UUID, now time.Time) (*models.CollectionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redeemErr != nil {
		return nil, m.redeemErr
	}
	token, ok := m.tokens[tokenID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if token.IsRedeemed {
		return nil, repository.ErrAlreadyRedeemed
	}
	order, ok := m.orders.orders[token.OrderID]
	if !ok || order.Status != models.OrderStatusPaid {
		return nil, repository.ErrOrderNotCollectable
	}
	token.IsRedeemed = true
	token.RedeemedAt = &now
	order.Status = models.OrderStatusCollected
	order.CollectedAt = &now
	copied := *token
	return &copied, nil
}

// ---- mock SNS publisher ----

type mockPublisher struct {
	mu       sync.Mutex
	messages [][]byte
	topics   []string
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, topicArn string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.topics = append(m.topics, topicArn)
	m.messages = append(m.messages, append([]byte(nil), message...))
	return nil
}

// ---- mock idempotency store ----

type mockIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*services.CheckoutResult
	pending map[string]bool
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{
		records: make(map[string]*services.CheckoutResult),
		pending: make(map[string]bool),
	}
}

func (m *mockIdempotencyStore) Reserve(_ context.Context, key string) (*services.CheckoutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[key]; ok {
		return r, nil
	}
	if m.pending[key] {
		return nil, services.ErrIdempotencyInFlight
	}
	m.pending[key] = true
	return nil, nil
}

func (m *mockIdempotencyStore) Complete(_ context.Context, key string, result *services.CheckoutResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	m.records[key] = result
	return nil
}

func (m *mockIdempotencyStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	return nil
}
