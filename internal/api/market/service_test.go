package market

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/model"
)

func newTestApp(t *testing.T) (*fiber.App, book.OrderBook) {
	t.Helper()
	b := book.NewSimpleOrderBook("AAPL")
	app := fiber.New()
	InitializeRoutes(app, map[string]book.OrderBook{"AAPL": b})
	return app, b
}

func restingOrder(t *testing.T, b book.OrderBook, side model.OrderSide, price, quantity string) {
	t.Helper()
	order := model.NewOrder("AAPL", model.Limit, side,
		decimal.RequireFromString(price), decimal.RequireFromString(quantity))
	require.True(t, b.AddOrder(order))
}

func TestGetDepth(t *testing.T) {
	t.Run("returns leveled depth", func(t *testing.T) {
		app, b := newTestApp(t)
		restingOrder(t, b, model.Buy, "100.00", "10")
		restingOrder(t, b, model.Buy, "100.00", "5")
		restingOrder(t, b, model.Sell, "101.00", "3")

		req := httptest.NewRequest(http.MethodGet, "/v1/market/AAPL/depth", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var depth book.MarketDepth
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&depth))
		assert.Equal(t, "AAPL", depth.Symbol)
		require.Len(t, depth.Bids, 1)
		assert.True(t, depth.Bids[0].Quantity.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, 2, depth.Bids[0].OrderCount)
		require.Len(t, depth.Asks, 1)
	})

	t.Run("levels query caps the depth", func(t *testing.T) {
		app, b := newTestApp(t)
		for _, price := range []string{"100.00", "99.00", "98.00"} {
			restingOrder(t, b, model.Buy, price, "1")
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/market/AAPL/depth?levels=2", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var depth book.MarketDepth
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&depth))
		assert.Len(t, depth.Bids, 2)
	})

	t.Run("unknown symbol is a 404", func(t *testing.T) {
		app, _ := newTestApp(t)
		req := httptest.NewRequest(http.MethodGet, "/v1/market/TSLA/depth", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid levels is a 400", func(t *testing.T) {
		app, _ := newTestApp(t)
		req := httptest.NewRequest(http.MethodGet, "/v1/market/AAPL/depth?levels=0", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetTrades(t *testing.T) {
	app, b := newTestApp(t)
	restingOrder(t, b, model.Buy, "100.00", "10")
	restingOrder(t, b, model.Sell, "100.00", "10")

	req := httptest.NewRequest(http.MethodGet, "/v1/market/AAPL/trades", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Symbol string        `json:"symbol"`
		Trades []model.Trade `json:"trades"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AAPL", body.Symbol)
	require.Len(t, body.Trades, 1)
	assert.True(t, body.Trades[0].Price.Equal(decimal.NewFromInt(100)))
}

func TestGetQuote(t *testing.T) {
	t.Run("reports both sides", func(t *testing.T) {
		app, b := newTestApp(t)
		restingOrder(t, b, model.Buy, "100.00", "10")
		restingOrder(t, b, model.Sell, "101.00", "10")

		req := httptest.NewRequest(http.MethodGet, "/v1/market/AAPL/quote", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var quote QuoteSchema
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
		require.NotNil(t, quote.Bid)
		require.NotNil(t, quote.Ask)
		assert.True(t, quote.Bid.Equal(decimal.NewFromInt(100)))
		assert.True(t, quote.Ask.Equal(decimal.NewFromInt(101)))
	})

	t.Run("empty book has nil quotes", func(t *testing.T) {
		app, _ := newTestApp(t)
		req := httptest.NewRequest(http.MethodGet, "/v1/market/AAPL/quote", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var quote QuoteSchema
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
		assert.Nil(t, quote.Bid)
		assert.Nil(t, quote.Ask)
	})
}
