package services

// Error kinds exposed to clients. The point-of-sale UI relies on these to
// tell "already collected" apart from "invalid code".
const (
	KindInvalidInput       = "invalid_input"
	KindInvalidRecipient   = "invalid_recipient"
	KindEmptyCart          = "empty_cart"
	KindShopNotEligible    = "shop_not_eligible"
	KindProductUnavailable = "product_unavailable"
	KindTokenNotFound      = "token_not_found"
	KindShopMismatch       = "shop_mismatch"
	KindAlreadyRedeemed    = "already_redeemed"
	KindProductInUse       = "product_in_use"
	KindForbidden          = "forbidden"
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindInternal           = "internal"
)

// ServiceError is a typed error with an HTTP status code and a
// machine-readable kind.
type ServiceError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func newServiceError(status int, kind, message string) *ServiceError {
	return &ServiceError{StatusCode: status, Kind: kind, Message: message}
}
