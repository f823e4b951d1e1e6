package routes

import (
	"time"

	"github.com/kithly/kithly-backend/controllers"
	"github.com/kithly/kithly-backend/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Register wires all HTTP routes. POST /checkout and POST /redeem are the
// only mutating entry points into the order/token core.
func Register(
	r *gin.Engine,
	jwtSecret []byte,
	checkoutController *controllers.CheckoutController,
	redemptionController *controllers.RedemptionController,
	orderController *controllers.OrderController,
	shopController *controllers.ShopController,
	productController *controllers.ProductController,
) {
	auth := middleware.AuthMiddleware(jwtSecret)
	ownerOnly := middleware.RequireRole(middleware.RoleShopOwner)
	mutatingLimit := middleware.RateLimitMiddleware(rate.Every(time.Minute/60), 20)

	// Public storefront and gift page.
	r.GET("/shops", shopController.ListShops)
	r.GET("/shops/:id", shopController.GetShop)
	r.GET("/shops/:id/products", productController.ListShopProducts)
	r.GET("/gift/:tokenId", redemptionController.GetGift)

	// Buyer surface.
	buyer := r.Group("/")
	buyer.Use(auth)
	buyer.POST("/checkout", mutatingLimit, checkoutController.CreateOrder)
	buyer.GET("/orders", orderController.GetOrders)
	buyer.GET("/orders/:id", orderController.GetOrderByID)

	// Shop-owner surface.
	shop := r.Group("/shop")
	shop.Use(auth, ownerOnly)
	shop.POST("/redeem", mutatingLimit, redemptionController.Redeem)
	shop.GET("/me", shopController.GetMyShop)
	shop.PUT("/settings", shopController.UpdateSettings)
	shop.POST("/deactivate", shopController.Deactivate)
	shop.GET("/orders", shopController.GetShopOrders)
	shop.GET("/products", productController.ListMyProducts)
	shop.POST("/products", productController.CreateProduct)
	shop.PUT("/products/:id", productController.UpdateProduct)
	shop.DELETE("/products/:id", productController.DeleteProduct)
	shop.POST("/products/upload-url", productController.PresignUpload)
}
