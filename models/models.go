package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses. An order starts as paid (payment is captured upstream
// before checkout is invoked) and ends collected or cancelled.
const (
	OrderStatusPaid      = "paid"
	OrderStatusCollected = "collected"
	OrderStatusCancelled = "cancelled"
)

// Payout destination types for shop settlements.
const (
	PayoutTypeMobileMoney = "mobile_money"
	PayoutTypeBank        = "bank"
)

// CanTransition reports whether an order status change is allowed.
// collected and cancelled are terminal.
func CanTransition(from, to string) bool {
	if from != OrderStatusPaid {
		return false
	}
	return to == OrderStatusCollected || to == OrderStatusCancelled
}

// Shop is a verified local merchant fulfilling gift orders.
type Shop struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerUserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	ShopName     string    `gorm:"type:varchar(120);not null" json:"shop_name"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	LogoImageURL string    `gorm:"type:varchar(1024)" json:"logo_image_url,omitempty"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	// IsActive is the soft-deactivation flag; shops are never hard-deleted.
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	PayoutType     string `gorm:"type:varchar(20)" json:"payout_type,omitempty"`
	PayoutProvider string `gorm:"type:varchar(50)" json:"payout_provider,omitempty"`
	PayoutNumber   string `gorm:"type:varchar(30)" json:"payout_number,omitempty"`
	PayoutBankName string `gorm:"type:varchar(100)" json:"payout_bank_name,omitempty"`
	PayoutAccount  string `gorm:"type:varchar(50)" json:"payout_account,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Eligible reports whether the shop may accept new orders.
func (s *Shop) Eligible() bool {
	return s.IsVerified && s.IsActive
}

// Product belongs to exactly one shop. ShopID never changes after creation.
// Prices are ZMW minor units (ngwee); integer arithmetic only.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShopID      uuid.UUID `gorm:"type:uuid;not null;index" json:"shop_id"`
	Name        string    `gorm:"type:varchar(120);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string    `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	PriceNgwee  int64     `gorm:"not null;check:price_ngwee >= 0" json:"price_ngwee"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Order is a buyer's paid purchase bound to one shop, collected in person
// by the recipient. Line items are frozen snapshots; the total is computed
// once at creation and never recomputed.
type Order struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShopID           uuid.UUID `gorm:"type:uuid;not null;index" json:"shop_id"`
	BuyerUserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"buyer_user_id"`
	RecipientPhone   string    `gorm:"type:varchar(20);not null" json:"recipient_phone"`
	TotalAmountNgwee int64     `gorm:"not null" json:"total_amount_ngwee"`
	Status           string    `gorm:"type:varchar(20);not null;default:'paid'" json:"status"`
	CollectedAt      *time.Time `json:"collected_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a frozen snapshot of one product at purchase time.
// Later edits to the live product never alter it.
type OrderItem struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID              uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID            uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name                 string    `gorm:"type:varchar(120);not null" json:"name"`
	PriceAtPurchaseNgwee int64     `gorm:"not null" json:"price_at_purchase_ngwee"`
	Quantity             int       `gorm:"not null" json:"quantity"`
}

// CollectionToken is the single-use credential authorizing collection of
// one order. Its ID is a v4 UUID (crypto/rand backed), never derived from
// timestamps. ShopID is denormalized for point-of-sale lookup without a join.
type CollectionToken struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	ShopID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"shop_id"`
	IsRedeemed bool       `gorm:"not null;default:false" json:"is_redeemed"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
