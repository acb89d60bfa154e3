package routes

import (
	"food-order/controllers"
	"food-order/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Auth          *controllers.AuthController
	Cart          *controllers.CartController
	Order         *controllers.OrderController
	Address       *controllers.AddressController
	Menu          *controllers.MenuController
	Health        *controllers.HealthController
	Authenticator middleware.Authenticator
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/", h.Health.Health)
	router.GET("/health", h.Health.Health)
	router.GET("/health/db", h.Health.Database)

	router.POST("/auth/register", h.Auth.Register)
	router.POST("/auth/login", h.Auth.Login)

	public := router.Group("/api")
	{
		public.GET("/dishes", h.Menu.GetDishes)
		public.GET("/dishes/:id", h.Menu.GetDish)
		public.GET("/offers", h.Menu.GetOffers)
	}

	auth := router.Group("/api")
	auth.Use(middleware.AuthMiddleware(h.Authenticator))
	{
		auth.GET("/profile", h.Auth.GetProfile)

		auth.GET("/cart/:userId", h.Cart.GetCart)
		auth.POST("/cart", h.Cart.AddToCart)
		auth.PUT("/cart/:id", h.Cart.UpdateQuantity)
		auth.DELETE("/cart/:id", h.Cart.RemoveItem)
		auth.DELETE("/cart/all/:userId", h.Cart.ClearCart)

		auth.POST("/cart/orders", h.Order.PlaceOrder)
		auth.GET("/cart/orders/:userId", h.Order.GetOrders)
		auth.GET("/cart/orders/:userId/:orderId", h.Order.GetOrder)

		auth.GET("/addresses/:userId", h.Address.GetAddresses)
		auth.POST("/addresses", h.Address.AddAddress)
	}
}
