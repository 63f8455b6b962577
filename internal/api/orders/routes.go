package orders

import (
	"github.com/gofiber/fiber/v3"

	"github.com/JhonesBR/go-exchange/internal/book"
)

func InitializeRoutes(app *fiber.App, books map[string]book.OrderBook) {
	app.Get("/v1/orders", GetOrdersHandler(books))
	app.Post("/v1/orders", PlaceOrderHandler(books))
	app.Get("/v1/orders/:id", GetOrderHandler(books))
	app.Post("/v1/orders/:id/cancel", CancelOrderHandler(books))
	app.Post("/v1/orders/:id/modify", ModifyOrderHandler(books))
}
