package market

import (
	"github.com/gofiber/fiber/v3"

	"github.com/JhonesBR/go-exchange/internal/book"
)

func InitializeRoutes(app *fiber.App, books map[string]book.OrderBook) {
	app.Get("/v1/market/:symbol/depth", GetDepthHandler(books))
	app.Get("/v1/market/:symbol/trades", GetTradesHandler(books))
	app.Get("/v1/market/:symbol/quote", GetQuoteHandler(books))
}
