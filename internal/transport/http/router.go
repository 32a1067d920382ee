package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/teewear/shop/internal/handlers"
	"github.com/teewear/shop/internal/handlers/cart"
	"github.com/teewear/shop/internal/handlers/order"
	"github.com/teewear/shop/internal/service"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	SearchHandler   *handlers.SearchHandler
	CartHandler     *cart.CartHandler
	OrderHandler    *order.OrderHandler
	TokenService    *service.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.GET("/me", d.AuthHandler.GetProfile, d.TokenService.AutoRefreshMiddleware)
	auth.PUT("/me", d.AuthHandler.UpdateProfile, d.TokenService.AutoRefreshMiddleware)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/featured", d.ProductHandler.GetFeaturedProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.TokenService.AutoRefreshMiddlewareAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.TokenService.AutoRefreshMiddlewareAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.TokenService.AutoRefreshMiddlewareAdmin)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory, d.TokenService.AutoRefreshMiddlewareAdmin)
	categories.PUT("/:id", d.CategoryHandler.UpdateCategory, d.TokenService.AutoRefreshMiddlewareAdmin)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, d.TokenService.AutoRefreshMiddlewareAdmin)

	cartGroup := api.Group("/cart", d.TokenService.AutoRefreshMiddleware)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.PUT("/:id", d.CartHandler.UpdateCartItem)
	cartGroup.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cartGroup.DELETE("", d.CartHandler.ClearCart)

	orders := api.Group("/orders", d.TokenService.AutoRefreshMiddleware)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.PUT("/:id/status", d.OrderHandler.UpdateOrderStatus)
	orders.PUT("/:id/cancel", d.OrderHandler.CancelOrder)
}
