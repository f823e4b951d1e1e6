package controllers

import (
	"net/http"

	"github.com/kithly/kithly-backend/middleware"
	"github.com/kithly/kithly-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderController struct {
	orderQueryService *services.OrderQueryService
}

func NewOrderController(orderQueryService *services.OrderQueryService) *OrderController {
	return &OrderController{orderQueryService: orderQueryService}
}

// GetOrders returns paginated orders for the authenticated buyer.
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit := ParsePagination(ctx)

	result, serr := oc.orderQueryService.GetBuyerOrders(ctx.Request.Context(), userID, page, limit)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetOrderByID returns one of the buyer's orders with its token.
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	result, serr := oc.orderQueryService.GetBuyerOrder(ctx.Request.Context(), userID, orderID)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
