package router

import (
	"pokePortMarket/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupCardRoutes registers the catalog. Fixed paths go before /:id.
func SetupCardRoutes(api *echo.Group, handler *rest.CardHandler, adminGuard ...echo.MiddlewareFunc) {
	cards := api.Group("/cards")

	cards.GET("", handler.GetCards)
	cards.GET("/search", handler.SearchCards)
	cards.GET("/sets", handler.GetSets)
	cards.GET("/:id", handler.GetCardByID)
	cards.POST("", handler.CreateCard, adminGuard...)
	cards.PUT("/:id", handler.UpdateCard, adminGuard...)
	cards.DELETE("/:id", handler.DeleteCard, adminGuard...)
}

func SetOrdersRoutes(api *echo.Group, ordersHandler *rest.OrdersHandler, adminGuard ...echo.MiddlewareFunc) {
	orders := api.Group("/orders")

	orders.POST("", ordersHandler.CreateOrder)
	orders.GET("/user/:wallet_address", ordersHandler.GetOrdersByWallet)
	orders.GET("", ordersHandler.GetAllOrders, adminGuard...)
	orders.GET("/:id", ordersHandler.GetOrderByID)
	orders.POST("/:id/confirm", ordersHandler.ConfirmOrder)
	orders.POST("/:id/cancel", ordersHandler.CancelOrder)
	orders.PUT("/:id/status", ordersHandler.UpdateStatus, adminGuard...)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, adminGuard ...echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/auth", handler.Auth)
	users.GET("/wallet/:wallet_address", handler.GetUserByWallet)
	users.PUT("/wallet/:wallet_address/display-name", handler.UpdateDisplayName)

	users.GET("", handler.GetAllUsers, adminGuard...)
	users.GET("/:id", handler.GetUserByID, adminGuard...)
	users.PUT("/:id", handler.UpdateUser, adminGuard...)
	users.DELETE("/:id", handler.DeleteUser, adminGuard...)
}

// SetupPokedexRoutes registers the daily catch and the collection views. None
// of them is admin-only.
func SetupPokedexRoutes(api *echo.Group, handler *rest.PokedexHandler) {
	daily := api.Group("/daily-catch")
	daily.GET("/today", handler.Today)
	daily.POST("/catch", handler.Catch)

	dex := api.Group("/pokedex")
	dex.POST("/check-badges", handler.CheckBadges)
	dex.GET("/:wallet_address", handler.GetPokedex)
}

// SetupOpsRoutes mounts health and Prometheus scraping at the root.
func SetupOpsRoutes(e *echo.Echo, health *rest.HealthHandler) {
	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
