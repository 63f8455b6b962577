package market

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/book"
)

type QuoteSchema struct {
	Symbol string           `json:"symbol"`
	Bid    *decimal.Decimal `json:"bid"`
	Ask    *decimal.Decimal `json:"ask"`
}

func GetDepthHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		b, ok := books[c.Params("symbol")]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order book not found",
			})
		}

		levels, err := strconv.Atoi(c.Query("levels", "10"))
		if err != nil || levels < 1 {
			return fiber.ErrBadRequest
		}
		return c.JSON(b.MarketDepth(levels))
	}
}

func GetTradesHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		b, ok := books[c.Params("symbol")]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order book not found",
			})
		}

		limit, err := strconv.Atoi(c.Query("limit", "50"))
		if err != nil || limit < 1 {
			return fiber.ErrBadRequest
		}
		trades := b.RecentTrades(limit)
		return c.JSON(fiber.Map{
			"symbol": b.Symbol(),
			"trades": trades,
		})
	}
}

func GetQuoteHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		b, ok := books[c.Params("symbol")]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order book not found",
			})
		}

		quote := QuoteSchema{Symbol: b.Symbol()}
		if bid, ok := b.BestBidPrice(); ok {
			quote.Bid = &bid
		}
		if ask, ok := b.BestAskPrice(); ok {
			quote.Ask = &ask
		}
		return c.JSON(quote)
	}
}
