package controllers

import (
	"net/http"

	"github.com/kithly/kithly-backend/middleware"
	"github.com/kithly/kithly-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductController struct {
	productService *services.ProductService
	shopService    *services.ShopService
}

func NewProductController(productService *services.ProductService, shopService *services.ShopService) *ProductController {
	return &ProductController{
		productService: productService,
		shopService:    shopService,
	}
}

// ListShopProducts returns a shop's public catalog: available items only.
func (pc *ProductController) ListShopProducts(ctx *gin.Context) {
	shopID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shop ID format"})
		return
	}

	products, serr := pc.productService.ListShopProducts(ctx.Request.Context(), shopID, false)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// ListMyProducts returns the caller's full catalog, unavailable items
// included, so the owner can toggle availability.
func (pc *ProductController) ListMyProducts(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shop, serr := pc.shopService.GetOwnedShop(ctx.Request.Context(), userID)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}

	products, serr := pc.productService.ListShopProducts(ctx.Request.Context(), shop.ID, true)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct adds a product to the caller's shop.
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, serr := pc.productService.CreateProduct(ctx.Request.Context(), userID, &req)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct edits a product in the caller's shop.
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req services.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, serr := pc.productService.UpdateProduct(ctx.Request.Context(), userID, productID, &req)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product unless an order references it.
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if serr := pc.productService.DeleteProduct(ctx.Request.Context(), userID, productID); serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

type presignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUpload grants a direct S3 PUT for a product image.
func (pc *ProductController) PresignUpload(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req presignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	upload, serr := pc.productService.PresignImageUpload(ctx.Request.Context(), userID, req.Filename, req.ContentType)
	if serr != nil {
		respondServiceError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, upload)
}
