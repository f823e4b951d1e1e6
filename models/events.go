package models

import "time"

// Event types published to SNS and consumed from the SMS queue.
const (
	EventOrderCreated  = "order_created"
	EventTokenRedeemed = "token_redeemed"
)

// OrderCreatedEvent notifies the recipient that a gift is waiting for
// collection. Published best-effort after the order/token transaction
// commits; delivery retries belong to the queue, not to checkout.
type OrderCreatedEvent struct {
	EventType        string    `json:"event_type"`
	OrderID          string    `json:"order_id"`
	TokenID          string    `json:"token_id"`
	ShopID           string    `json:"shop_id"`
	ShopName         string    `json:"shop_name"`
	RecipientPhone   string    `json:"recipient_phone"`
	CollectionLink   string    `json:"collection_link"`
	TotalAmountNgwee int64     `json:"total_amount_ngwee"`
	Timestamp        time.Time `json:"timestamp"`
}

// TokenRedeemedEvent records a successful point-of-sale redemption.
type TokenRedeemedEvent struct {
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	TokenID   string    `json:"token_id"`
	ShopID    string    `json:"shop_id"`
	Timestamp time.Time `json:"timestamp"`
}
