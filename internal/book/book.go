package book

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/model"
)

// OrderBook maintains the resting orders of a single instrument and matches
// crossing orders by price-time priority.
//
// Mutating operations report business rejections (wrong symbol, unknown or
// inactive order) as a false return, never as an error value or panic.
// Query operations return copies; callers never hold a mutable reference
// into the book.
type OrderBook interface {
	// AddOrder accepts the order into the book and runs the matching loop.
	// It fails only when the order's symbol does not match the book's.
	// Success means accepted, not filled.
	AddOrder(order *model.Order) bool

	// CancelOrder removes an active order from the book. It fails for
	// unknown ids and for orders already filled, canceled or rejected, and
	// succeeds for partially filled ones.
	CancelOrder(orderId uuid.UUID) bool

	// ModifyOrder updates price and/or quantity (nil means unchanged) and
	// re-inserts the order at the back of its price level's queue, losing
	// time priority even when the price is unchanged.
	ModifyOrder(orderId uuid.UUID, newPrice, newQuantity *decimal.Decimal) bool

	BestBidPrice() (decimal.Decimal, bool)
	BestAskPrice() (decimal.Decimal, bool)

	// QuantityAtPriceLevel sums the remaining quantity of all resting
	// orders at exactly the given price on the given side.
	QuantityAtPriceLevel(price decimal.Decimal, side model.OrderSide) decimal.Decimal

	Order(orderId uuid.UUID) (model.Order, bool)
	AllOrders() []model.Order
	Symbol() string

	// RecentTrades returns up to limit of the most recent trades in
	// execution order, oldest first.
	RecentTrades(limit int) []model.Trade

	// MatchOrders runs the matching loop and returns the trades it
	// produced. It is a no-op when the book does not cross.
	MatchOrders() []model.Trade

	// MarketDepth aggregates up to the given number of price levels per
	// side.
	MarketDepth(levels int) *MarketDepth

	RegisterListener(listener EventListener)
	UnregisterListener(listener EventListener)
}
