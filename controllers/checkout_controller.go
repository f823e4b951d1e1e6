package controllers

import (
	"net/http"

	"github.com/kithly/kithly-backend/middleware"
	"github.com/kithly/kithly-backend/services"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService *services.CheckoutService
	validator       *RequestValidator
}

func NewCheckoutController(checkoutService *services.CheckoutService, validator *RequestValidator) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		validator:       validator,
	}
}

// CreateOrder handles payment intake. Payment is captured upstream; this
// endpoint persists the order and token and returns both ids.
func (cc *CheckoutController) CreateOrder(ctx *gin.Context) {
	buyerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if !cc.validator.ValidatePhone(req.RecipientPhone) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient phone number", "kind": services.KindInvalidRecipient})
		return
	}
	req.IdempotencyKey = ctx.GetHeader("Idempotency-Key")

	result, serr := cc.checkoutService.CreateOrder(ctx.Request.Context(), buyerID, &req)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}
