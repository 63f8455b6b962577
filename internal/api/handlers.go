package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/JhonesBR/go-exchange/internal/api/market"
	"github.com/JhonesBR/go-exchange/internal/api/orders"
	"github.com/JhonesBR/go-exchange/internal/book"
)

func InitializeRoutes(app *fiber.App, books map[string]book.OrderBook) {
	orders.InitializeRoutes(app, books)
	market.InitializeRoutes(app, books)
}
