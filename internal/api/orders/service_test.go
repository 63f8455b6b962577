package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/model"
)

func newTestApp(symbols ...string) (*fiber.App, map[string]book.OrderBook) {
	books := make(map[string]book.OrderBook)
	for _, symbol := range symbols {
		books[symbol] = book.NewSimpleOrderBook(symbol)
	}
	app := fiber.New()
	InitializeRoutes(app, books)
	return app, books
}

func placeOrder(t *testing.T, app *fiber.App, body fiber.Map) model.Order {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var order model.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	return order
}

func TestPlaceOrder(t *testing.T) {
	t.Run("places a valid limit order", func(t *testing.T) {
		app, books := newTestApp("AAPL")

		order := placeOrder(t, app, fiber.Map{
			"symbol":   "AAPL",
			"side":     "buy",
			"type":     "limit",
			"price":    "100.50",
			"quantity": "10",
		})

		assert.NotEqual(t, uuid.Nil, order.Id)
		assert.Equal(t, model.New, order.Status)
		assert.True(t, order.Price.Equal(decimal.RequireFromString("100.50")))

		_, ok := books["AAPL"].Order(order.Id)
		assert.True(t, ok)
	})

	t.Run("unknown symbol is a 404", func(t *testing.T) {
		app, _ := newTestApp("AAPL")

		payload, _ := json.Marshal(fiber.Map{
			"symbol":   "TSLA",
			"side":     "buy",
			"type":     "limit",
			"price":    "100",
			"quantity": "10",
		})
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid payloads are a 422", func(t *testing.T) {
		app, _ := newTestApp("AAPL")

		for name, body := range map[string]fiber.Map{
			"bad side":          {"symbol": "AAPL", "side": "hold", "type": "limit", "price": "100", "quantity": "10"},
			"bad type":          {"symbol": "AAPL", "side": "buy", "type": "trailing", "price": "100", "quantity": "10"},
			"zero quantity":     {"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "0"},
			"negative price":    {"symbol": "AAPL", "side": "buy", "type": "limit", "price": "-1", "quantity": "10"},
			"bad time in force": {"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "10", "time_in_force": "whenever"},
		} {
			t.Run(name, func(t *testing.T) {
				payload, _ := json.Marshal(body)
				req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(payload))
				req.Header.Set("Content-Type", "application/json")
				resp, err := app.Test(req)
				require.NoError(t, err)
				assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
			})
		}
	})

	t.Run("crossing order comes back with its fill", func(t *testing.T) {
		app, _ := newTestApp("AAPL")

		placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "sell", "type": "limit", "price": "100", "quantity": "10",
		})
		order := placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "4",
		})

		assert.Equal(t, model.Filled, order.Status)
		assert.True(t, order.FilledQuantity.Equal(decimal.NewFromInt(4)))
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("cancels a resting order", func(t *testing.T) {
		app, books := newTestApp("AAPL")
		order := placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "10",
		})

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/orders/%s/cancel", order.Id), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		canceled, ok := books["AAPL"].Order(order.Id)
		require.True(t, ok)
		assert.Equal(t, model.Canceled, canceled.Status)
	})

	t.Run("unknown order is a 404", func(t *testing.T) {
		app, _ := newTestApp("AAPL")
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/orders/%s/cancel", uuid.New()), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		app, _ := newTestApp("AAPL")
		req := httptest.NewRequest(http.MethodPost, "/v1/orders/not-a-uuid/cancel", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("already canceled order is a 400", func(t *testing.T) {
		app, books := newTestApp("AAPL")
		order := placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "10",
		})
		require.True(t, books["AAPL"].CancelOrder(order.Id))

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/orders/%s/cancel", order.Id), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestModifyOrder(t *testing.T) {
	t.Run("modifies price and quantity", func(t *testing.T) {
		app, _ := newTestApp("AAPL")
		order := placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "10",
		})

		payload, _ := json.Marshal(fiber.Map{"price": "101", "quantity": "20"})
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/orders/%s/modify", order.Id), bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var modified model.Order
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&modified))
		assert.True(t, modified.Price.Equal(decimal.NewFromInt(101)))
		assert.True(t, modified.Quantity.Equal(decimal.NewFromInt(20)))
	})

	t.Run("empty body is a 422", func(t *testing.T) {
		app, _ := newTestApp("AAPL")
		order := placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "10",
		})

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/orders/%s/modify", order.Id), bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestGetOrders(t *testing.T) {
	t.Run("returns an order by id", func(t *testing.T) {
		app, _ := newTestApp("AAPL")
		order := placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "10",
		})

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/orders/%s", order.Id), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got model.Order
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, order.Id, got.Id)
	})

	t.Run("filters the listing by symbol", func(t *testing.T) {
		app, _ := newTestApp("AAPL", "MSFT")
		placeOrder(t, app, fiber.Map{
			"symbol": "AAPL", "side": "buy", "type": "limit", "price": "100", "quantity": "10",
		})
		placeOrder(t, app, fiber.Map{
			"symbol": "MSFT", "side": "buy", "type": "limit", "price": "300", "quantity": "5",
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/orders?symbol=MSFT", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var page struct {
			Items []model.Order `json:"items"`
			Total *int          `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		require.NotNil(t, page.Total)
		assert.Equal(t, 1, *page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "MSFT", page.Items[0].Symbol)
	})
}
