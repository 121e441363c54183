package main

import (
	"log"
	"strings"

	"primetop-backend/internal/admin"
	"primetop-backend/internal/audit"
	"primetop-backend/internal/auth"
	"primetop-backend/internal/bot"
	"primetop-backend/internal/cache"
	"primetop-backend/internal/cart"
	"primetop-backend/internal/catalog"
	"primetop-backend/internal/clients"
	"primetop-backend/internal/config"
	"primetop-backend/internal/database"
	"primetop-backend/internal/notify"
	"primetop-backend/internal/orders"
	"primetop-backend/internal/personal"
	"primetop-backend/internal/stocks"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	cache.Init(cfg)
	notify.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Непредвиденная ошибка:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Внутренняя ошибка сервера",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Аутентификация
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Каталог
	api.Get("/products", catalog.ListProductsHandler())
	api.Get("/products/top", catalog.TopProductsHandler())
	api.Get("/products/search", catalog.SearchProductsHandler())
	api.Get("/products/:id", catalog.GetProductHandler())
	api.Get("/coating-types", catalog.ListCoatingTypesHandler())
	api.Get("/series", catalog.ListSeriesHandler())
	api.Get("/analyses", catalog.ListAnalysesHandler())

	// Склад
	api.Get("/stocks", stocks.ListStocksHandler())
	api.Get("/stocks/available", stocks.AvailableStocksHandler())

	// Клиенты
	api.Get("/clients", clients.ListClientsHandler())
	api.Post("/clients", clients.CreateClientHandler())
	api.Get("/clients/:id", clients.GetClientHandler())
	api.Patch("/clients/:id", clients.UpdateClientHandler())
	api.Get("/clients/:id/orders", clients.ClientOrdersHandler())
	api.Get("/clients/:id/orders/summary", clients.ClientOrdersSummaryHandler())

	// Заказы
	api.Get("/orders", orders.ListOrdersHandler())
	api.Post("/orders", orders.CreateOrderHandler())
	api.Get("/orders/:id", orders.GetOrderHandler())
	api.Patch("/orders/:id", orders.UpdateOrderHandler())

	// Telegram-бот
	api.Post("/bot/link", bot.LinkHandler())
	api.Post("/bot/unlink", bot.UnlinkHandler())
	api.Get("/bot/orders", bot.OrdersHandler())
	api.Get("/bot/orders/:id", bot.OrderDetailHandler())
	api.Get("/bot/profile", bot.ProfileHandler())

	// Маршруты с токеном
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/clients/:id/users", clients.ClientUsersHandler())

	// Личный кабинет
	protected.Get("/me/orders/current", personal.CurrentOrdersHandler())
	protected.Get("/me/orders/history", personal.OrderHistoryHandler())
	protected.Get("/me/stocks", personal.MyStocksHandler())

	// Корзина
	protected.Get("/me/cart", cart.GetCartHandler())
	protected.Post("/me/cart/items", cart.AddItemHandler())
	protected.Patch("/me/cart/items/:id", cart.UpdateItemHandler())
	protected.Delete("/me/cart/items/:id", cart.DeleteItemHandler())
	protected.Post("/me/cart/checkout", cart.CheckoutHandler())
	protected.Delete("/me/cart/clear", cart.ClearCartHandler())

	// Админка
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireAdmin())

	adminRoutes.Post("/products", admin.CreateProductHandler())
	adminRoutes.Patch("/products/:id", admin.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", admin.DeleteProductHandler())

	adminRoutes.Post("/series", admin.CreateSeriesHandler())
	adminRoutes.Patch("/series/:id", admin.UpdateSeriesHandler())
	adminRoutes.Post("/analyses/:series_id", admin.UpsertAnalysisHandler())
	adminRoutes.Patch("/analyses/:series_id", admin.UpsertAnalysisHandler())

	adminRoutes.Get("/stocks", admin.ListStocksHandler())
	adminRoutes.Post("/stocks", admin.CreateStockHandler())
	adminRoutes.Patch("/stocks/:id", admin.UpdateStockHandler())
	adminRoutes.Delete("/stocks/:id", admin.DeleteStockHandler())
	adminRoutes.Post("/stocks/import", admin.ImportStocksHandler())

	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Patch("/users/:id", admin.UpdateUserHandler())

	adminRoutes.Post("/coating-types", admin.CreateCoatingTypeHandler())
	adminRoutes.Patch("/coating-types/:id", admin.UpdateCoatingTypeHandler())

	adminRoutes.Get("/orders", orders.ListOrdersHandler())
	adminRoutes.Get("/orders/:id", orders.GetOrderHandler())
	adminRoutes.Patch("/orders/:id", orders.UpdateOrderHandler())
	adminRoutes.Delete("/orders/:id", admin.DeleteOrderHandler())

	adminRoutes.Get("/analytics/top-products", admin.TopProductsHandler())
	adminRoutes.Get("/analytics/top-series", admin.TopSeriesHandler())
	adminRoutes.Get("/analytics/top-coating-types", admin.TopCoatingTypesHandler())

	adminRoutes.Get("/audit", audit.ListHandler())

	log.Println("Сервер запущен, порт:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
