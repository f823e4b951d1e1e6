package controllers

import (
	"net/http"

	"github.com/kithly/kithly-backend/middleware"
	"github.com/kithly/kithly-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShopController struct {
	shopService *services.ShopService
}

func NewShopController(shopService *services.ShopService) *ShopController {
	return &ShopController{shopService: shopService}
}

// ListShops returns verified shops for the public storefront.
func (sc *ShopController) ListShops(ctx *gin.Context) {
	page, limit := ParsePagination(ctx)

	result, serr := sc.shopService.ListShops(ctx.Request.Context(), page, limit)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetShop returns one shop by id.
func (sc *ShopController) GetShop(ctx *gin.Context) {
	shopID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shop ID format"})
		return
	}

	shop, serr := sc.shopService.GetShop(ctx.Request.Context(), shopID)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"shop": shop})
}

// GetMyShop returns the authenticated owner's shop.
func (sc *ShopController) GetMyShop(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shop, serr := sc.shopService.GetOwnedShop(ctx.Request.Context(), userID)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"shop": shop})
}

// UpdateSettings applies owner-editable shop settings.
func (sc *ShopController) UpdateSettings(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.UpdateShopSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	shop, serr := sc.shopService.UpdateSettings(ctx.Request.Context(), userID, &req)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"shop": shop})
}

// Deactivate soft-deactivates the caller's shop.
func (sc *ShopController) Deactivate(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if serr := sc.shopService.Deactivate(ctx.Request.Context(), userID); serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Shop deactivated"})
}

// GetShopOrders returns the caller's shop order history.
func (sc *ShopController) GetShopOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit := ParsePagination(ctx)

	result, serr := sc.shopService.GetShopOrders(ctx.Request.Context(), userID, page, limit)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
