package routes

import (
	"github.com/gin-gonic/gin"

	"lensbox/controllers"
	"lensbox/middleware"
	"lensbox/models"
)

func RegisterRoutes(r *gin.Engine) {

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/logout", controllers.Logout)
			auth.GET("/check", middleware.AuthMiddleware(), controllers.CheckAuth)
		}

		api.GET("/products", controllers.GetProducts)
		api.GET("/products/:id", controllers.GetProductByID)
		api.GET("/products/:id/reviews", controllers.GetProductReviews)
		api.GET("/categories", controllers.GetCategories)

		api.POST("/subscribers/subscribe", controllers.Subscribe)
		api.POST("/subscribers/unsubscribe", controllers.Unsubscribe)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			user := protected.Group("/user")
			{
				user.POST("/cart", controllers.AddToCart)
				user.GET("/cart", controllers.GetCart)
				user.PUT("/cart/:productId", controllers.UpdateCart)
				user.DELETE("/cart/:productId", controllers.RemoveFromCart)
				user.DELETE("/cart", controllers.ClearCart)

				user.POST("/checkout/create-order", controllers.CreateCheckoutOrder)
				user.POST("/checkout/verify-payment", controllers.VerifyPayment)

				user.GET("/orders", controllers.GetOrders)
				user.PUT("/orders/:id/cancel", controllers.CancelOrder)

				user.POST("/reviews", controllers.CreateReview)
				user.PUT("/reviews/:id", controllers.UpdateReview)
				user.DELETE("/reviews/:id", controllers.DeleteReview)

				user.POST("/wishlist", controllers.AddToWishlist)
				user.GET("/wishlist", controllers.GetWishlist)
				user.DELETE("/wishlist/:productId", controllers.RemoveFromWishlist)

				user.POST("/stock-notifications/:productId", controllers.SubscribeToStockNotification)
				user.DELETE("/stock-notifications/:productId", controllers.UnsubscribeFromStockNotification)
				user.GET("/stock-notifications", controllers.GetMyStockNotifications)
			}

			seller := protected.Group("/seller")
			seller.Use(middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
			{
				seller.POST("/products", controllers.CreateProduct)
				seller.GET("/products", controllers.GetSellerProducts)
				seller.PUT("/products/:id", controllers.UpdateProduct)
				seller.PUT("/products/:id/status", controllers.UpdateProductStatus)
				seller.DELETE("/products/:id", controllers.DeleteProduct)

				seller.GET("/orders", controllers.GetSellerOrders)
				seller.PUT("/orders/:id/status", controllers.UpdateOrderStatus)

				seller.GET("/dashboard/stats", controllers.GetSellerDashboardStats)
			}

			heatmap := protected.Group("/heatmap")
			{
				heatmap.GET("/admin", middleware.RequireRole(models.RoleAdmin), controllers.GetAdminHeatmap)
				heatmap.GET("/seller/:sellerId", middleware.RequireRole(models.RoleSeller, models.RoleAdmin), controllers.GetSellerHeatmap)
				heatmap.GET("/location-orders", middleware.RequireRole(models.RoleSeller, models.RoleAdmin), controllers.GetLocationOrders)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/categories", controllers.CreateCategory)
				admin.PUT("/categories/:id", controllers.UpdateCategory)
				admin.DELETE("/categories/:id", controllers.DeleteCategory)
				admin.POST("/subcategories", controllers.CreateSubCategory)
				admin.PUT("/subcategories/:id", controllers.UpdateSubCategory)
				admin.DELETE("/subcategories/:id", controllers.DeleteSubCategory)

				admin.GET("/products", controllers.GetProductsAdmin)

				admin.GET("/orders", controllers.GetOrdersAdmin)
				admin.GET("/orders/:id", controllers.GetOrderByIDAdmin)
				admin.PUT("/orders/:id/cancel", controllers.CancelOrderAdmin)

				admin.GET("/dashboard/stats", controllers.GetAdminDashboardStats)
				admin.GET("/dashboard/sales-data", controllers.GetSalesData)
				admin.GET("/dashboard/sales-by-category", controllers.GetSalesByCategory)
				admin.GET("/dashboard/recent-orders", controllers.GetRecentOrders)
				admin.GET("/dashboard/user-stats", controllers.GetUserStats)
				admin.GET("/dashboard/product-stats", controllers.GetProductStats)

				admin.POST("/mail/broadcast", controllers.BroadcastMail)
			}
		}
	}
}
