package orders

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/helper"
	"github.com/JhonesBR/go-exchange/internal/model"
)

func PlaceOrderHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		var schema PlaceOrderSchema
		if err := c.Bind().Body(&schema); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&schema); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if !schema.Quantity.IsPositive() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "quantity must be positive",
			})
		}
		if schema.Type != model.Market && !schema.Price.IsPositive() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "price must be positive",
			})
		}

		b, ok := books[schema.Symbol]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order book not found",
			})
		}

		order := model.NewOrder(schema.Symbol, schema.Type, schema.Side, schema.Price, schema.Quantity)
		order.ClientOrderId = schema.ClientOrderId
		if schema.TimeInForce != "" {
			order.TimeInForce = schema.TimeInForce
		}

		if !b.AddOrder(order) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "order rejected by order book",
			})
		}

		// Read back through the book: matching may already have run.
		placed, ok := b.Order(order.Id)
		if !ok {
			placed = *order
		}
		return c.Status(fiber.StatusCreated).JSON(placed)
	}
}

func CancelOrderHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		orderId, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.ErrBadRequest
		}

		b, ok := findBook(books, orderId)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}

		if !b.CancelOrder(orderId) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "order is not eligible for cancelation",
			})
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ModifyOrderHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		orderId, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.ErrBadRequest
		}

		var schema ModifyOrderSchema
		if err := c.Bind().Body(&schema); err != nil {
			return fiber.ErrBadRequest
		}
		if schema.Price == nil && schema.Quantity == nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "nothing to modify",
			})
		}

		b, ok := findBook(books, orderId)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}

		if !b.ModifyOrder(orderId, schema.Price, schema.Quantity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "order is not eligible for modification",
			})
		}

		modified, _ := b.Order(orderId)
		return c.JSON(modified)
	}
}

func GetOrderHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		orderId, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.ErrBadRequest
		}

		for _, b := range books {
			if order, ok := b.Order(orderId); ok {
				return c.JSON(order)
			}
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}
}

func GetOrdersHandler(books map[string]book.OrderBook) fiber.Handler {
	return func(c fiber.Ctx) error {
		pagination := helper.GetPagination[model.Order](c)
		symbol := c.Query("symbol")

		var all []model.Order
		for sym, b := range books {
			if symbol != "" && sym != symbol {
				continue
			}
			all = append(all, b.AllOrders()...)
		}

		total := len(all)
		pagination.Total = &total

		start := (pagination.Page - 1) * pagination.Size
		if start < total {
			end := start + pagination.Size
			if end > total {
				end = total
			}
			pagination.Items = all[start:end]
		}
		return c.JSON(pagination)
	}
}

// findBook locates the book holding the order. Reads scan the configured
// books; with one book per instrument the id can live in at most one.
func findBook(books map[string]book.OrderBook, orderId uuid.UUID) (book.OrderBook, bool) {
	for _, b := range books {
		if _, ok := b.Order(orderId); ok {
			return b, true
		}
	}
	return nil, false
}
