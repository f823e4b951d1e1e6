package controllers_test

import (
	"context"
	"time"

	"github.com/kithly/kithly-backend/models"
	"github.com/kithly/kithly-backend/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories backing the real services in HTTP tests.

type memShopRepo struct{ shops map[uuid.UUID]*models.Shop }

func newMemShopRepo(shops ...*models.Shop) *memShopRepo {
	m := &memShopRepo{shops: map[uuid.UUID]*models.Shop{}}
	for _, s := range shops {
		m.shops[s.ID] = s
	}
	return m
}

func (m *memShopRepo) Create(_ context.Context, s *models.Shop) error { m.shops[s.ID] = s; return nil }

func (m *memShopRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if s, ok := m.shops[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memShopRepo) FindByOwner(_ context.Context, owner uuid.UUID) (*models.Shop, error) {
	for _, s := range m.shops {
		if s.OwnerUserID == owner {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memShopRepo) FindEligible(_ context.Context, page, limit int) ([]models.Shop, int64, error) {
	var out []models.Shop
	for _, s := range m.shops {
		if s.Eligible() {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memShopRepo) Update(_ context.Context, s *models.Shop) error { m.shops[s.ID] = s; return nil }

type memProductRepo struct{ products map[uuid.UUID]*models.Product }

func newMemProductRepo(products ...*models.Product) *memProductRepo {
	m := &memProductRepo{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memProductRepo) Create(_ context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
	return nil
}

func (m *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memProductRepo) FindByShop(_ context.Context, shopID uuid.UUID, availableOnly bool) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.ShopID == shopID && (!availableOnly || p.IsAvailable) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepo) Update(_ context.Context, p *models.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

type memStore struct {
	orders map[uuid.UUID]*models.Order
	tokens map[uuid.UUID]*models.CollectionToken
}

func newMemStore() *memStore {
	return &memStore{
		orders: map[uuid.UUID]*models.Order{},
		tokens: map[uuid.UUID]*models.CollectionToken{},
	}
}

func (m *memStore) CreateWithToken(_ context.Context, order *models.Order, token *models.CollectionToken) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	token.OrderID = order.ID
	token.ShopID = order.ShopID
	m.orders[order.ID] = order
	m.tokens[token.ID] = token
	return nil
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) FindByIDAndBuyer(_ context.Context, id, buyer uuid.UUID) (*models.Order, error) {
	if o, ok := m.orders[id]; ok && o.BuyerUserID == buyer {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) FindByBuyer(_ context.Context, buyer uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.BuyerUserID == buyer {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memStore) FindByShop(_ context.Context, shopID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.ShopID == shopID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

// memTokenRepo shares the memStore so Redeem can advance the order.
type memTokenRepo struct{ store *memStore }

func (m *memTokenRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CollectionToken, error) {
	if t, ok := m.store.tokens[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTokenRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*models.CollectionToken, error) {
	for _, t := range m.store.tokens {
		if t.OrderID == orderID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTokenRepo) Redeem(_ context.Context, tokenID uuid.UUID, now time.Time) (*models.CollectionToken, error) {
	t, ok := m.store.tokens[tokenID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if t.IsRedeemed {
		return nil, repository.ErrAlreadyRedeemed
	}
	o, ok := m.store.orders[t.OrderID]
	if !ok || o.Status != models.OrderStatusPaid {
		return nil, repository.ErrOrderNotCollectable
	}
	t.IsRedeemed = true
	t.RedeemedAt = &now
	o.Status = models.OrderStatusCollected
	o.CollectedAt = &now
	return t, nil
}
