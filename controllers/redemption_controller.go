package controllers

import (
	"net/http"

	"github.com/kithly/kithly-backend/middleware"
	"github.com/kithly/kithly-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RedemptionController struct {
	redemptionService *services.RedemptionService
	giftService       *services.GiftService
	shopService       *services.ShopService
}

func NewRedemptionController(
	redemptionService *services.RedemptionService,
	giftService *services.GiftService,
	shopService *services.ShopService,
) *RedemptionController {
	return &RedemptionController{
		redemptionService: redemptionService,
		giftService:       giftService,
		shopService:       shopService,
	}
}

type redeemRequest struct {
	TokenID string `json:"token_id" binding:"required"`
}

// Redeem handles a point-of-sale scan. The acting shop is resolved from
// the authenticated owner, never from the request body.
func (rc *RedemptionController) Redeem(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req redeemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	tokenID, err := uuid.Parse(req.TokenID)
	if err != nil {
		// Indistinguishable from an unknown code to the operator.
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Collection code not recognized", "kind": services.KindTokenNotFound})
		return
	}

	shop, serr := rc.shopService.GetOwnedShop(ctx.Request.Context(), userID)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}

	result, serr := rc.redemptionService.Redeem(ctx.Request.Context(), tokenID, shop.ID)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetGift serves the public collection page payload for /gift/:tokenId.
func (rc *RedemptionController) GetGift(ctx *gin.Context) {
	tokenID, err := uuid.Parse(ctx.Param("tokenId"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Gift not found", "kind": services.KindTokenNotFound})
		return
	}

	gift, serr := rc.giftService.Lookup(ctx.Request.Context(), tokenID)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}

	ctx.JSON(http.StatusOK, gift)
}
