package book

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/model"
)

// SimpleOrderBook is the single-writer matching engine. It assumes at most
// one goroutine mutates it at a time (see SequencedOrderBook); the internal
// lock only shields concurrent readers from torn state, it does not make
// concurrent mutation correct.
//
// Filled and canceled orders leave the matching structures but their records
// stay in the index for status queries.
type SimpleOrderBook struct {
	symbol string

	mu     sync.RWMutex
	orders map[uuid.UUID]*model.Order
	bids   *bookSide
	asks   *bookSide
	trades []model.Trade

	listeners listenerRegistry
}

func NewSimpleOrderBook(symbol string) *SimpleOrderBook {
	return &SimpleOrderBook{
		symbol: symbol,
		orders: make(map[uuid.UUID]*model.Order),
		bids:   newBookSide(model.Buy),
		asks:   newBookSide(model.Sell),
	}
}

func (b *SimpleOrderBook) Symbol() string {
	return b.symbol
}

func (b *SimpleOrderBook) AddOrder(order *model.Order) bool {
	if order.Symbol != b.symbol {
		return false
	}

	b.mu.Lock()
	batch := b.beginBatch()
	b.orders[order.Id] = order
	b.sideFor(order.Side).add(order)
	added := *order
	batch.add(func(l EventListener) { l.OnOrderAdded(added) })
	b.matchLocked(batch)
	batch.finish()
	b.mu.Unlock()

	batch.dispatch(&b.listeners)
	return true
}

func (b *SimpleOrderBook) CancelOrder(orderId uuid.UUID) bool {
	b.mu.Lock()
	order, ok := b.orders[orderId]
	if !ok || !order.Active() {
		b.mu.Unlock()
		return false
	}

	batch := b.beginBatch()
	b.sideFor(order.Side).remove(order)
	order.Status = model.Canceled
	order.UpdatedAt = time.Now()
	canceled := *order
	batch.add(func(l EventListener) { l.OnOrderCanceled(orderId, canceled) })
	batch.finish()
	b.mu.Unlock()

	batch.dispatch(&b.listeners)
	return true
}

func (b *SimpleOrderBook) ModifyOrder(orderId uuid.UUID, newPrice, newQuantity *decimal.Decimal) bool {
	b.mu.Lock()
	order, ok := b.orders[orderId]
	if !ok || !order.Active() {
		b.mu.Unlock()
		return false
	}
	// The new quantity must leave something open to rest, otherwise the
	// fill-state invariant breaks.
	if newQuantity != nil && newQuantity.LessThanOrEqual(order.FilledQuantity) {
		b.mu.Unlock()
		return false
	}

	batch := b.beginBatch()
	oldPrice := order.Price
	oldQuantity := order.Quantity

	side := b.sideFor(order.Side)
	side.remove(order)
	if newPrice != nil {
		order.Price = *newPrice
	}
	if newQuantity != nil {
		order.Quantity = *newQuantity
	}
	order.UpdatedAt = time.Now()
	// Re-insertion goes to the back of the (possibly new) level: a modified
	// order always loses time priority.
	side.add(order)

	modified := *order
	batch.add(func(l EventListener) { l.OnOrderModified(modified, oldPrice, oldQuantity) })
	b.matchLocked(batch)
	batch.finish()
	b.mu.Unlock()

	batch.dispatch(&b.listeners)
	return true
}

func (b *SimpleOrderBook) MatchOrders() []model.Trade {
	b.mu.Lock()
	batch := b.beginBatch()
	trades := b.matchLocked(batch)
	batch.finish()
	b.mu.Unlock()

	batch.dispatch(&b.listeners)
	return trades
}

// matchLocked runs the matching loop under the write lock. While the best
// bid crosses the best ask, the FIFO heads of the two best levels trade the
// minimum of their remaining quantities at the resting ask price.
func (b *SimpleOrderBook) matchLocked(batch *eventBatch) []model.Trade {
	var trades []model.Trade

	for !b.bids.empty() && !b.asks.empty() {
		bidLevel := b.bids.bestLevel()
		askLevel := b.asks.bestLevel()
		if bidLevel.price.LessThan(askLevel.price) {
			break
		}

		bid := bidLevel.orders[0]
		ask := askLevel.orders[0]
		matchQuantity := decimal.Min(bid.Remaining(), ask.Remaining())

		trade := model.NewTrade(bid.Id, ask.Id, b.symbol, askLevel.price, matchQuantity)

		bid.Fill(matchQuantity)
		ask.Fill(matchQuantity)
		if bid.Status == model.Filled {
			b.bids.removeHead()
		}
		if ask.Status == model.Filled {
			b.asks.removeHead()
		}

		b.trades = append(b.trades, trade)
		trades = append(trades, trade)
		batch.add(func(l EventListener) { l.OnTradeExecuted(trade) })
	}

	return trades
}

func (b *SimpleOrderBook) BestBidPrice() (decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.bestPrice()
}

func (b *SimpleOrderBook) BestAskPrice() (decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.bestPrice()
}

func (b *SimpleOrderBook) QuantityAtPriceLevel(price decimal.Decimal, side model.OrderSide) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	level := b.sideFor(side).level(price)
	if level == nil {
		return decimal.Zero
	}
	return level.remainingQuantity()
}

func (b *SimpleOrderBook) Order(orderId uuid.UUID) (model.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	order, ok := b.orders[orderId]
	if !ok {
		return model.Order{}, false
	}
	return *order, true
}

func (b *SimpleOrderBook) AllOrders() []model.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	all := make([]model.Order, 0, len(b.orders))
	for _, order := range b.orders {
		all = append(all, *order)
	}
	return all
}

func (b *SimpleOrderBook) RecentTrades(limit int) []model.Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if limit > len(b.trades) {
		limit = len(b.trades)
	}
	if limit <= 0 {
		return nil
	}
	recent := make([]model.Trade, limit)
	copy(recent, b.trades[len(b.trades)-limit:])
	return recent
}

func (b *SimpleOrderBook) MarketDepth(levels int) *MarketDepth {
	if levels < 0 {
		levels = 0
	}
	b.mu.RLock()
	bids := levelsOf(b.bids, levels)
	asks := levelsOf(b.asks, levels)
	b.mu.RUnlock()
	return NewMarketDepth(b.symbol, bids, asks)
}

func levelsOf(side *bookSide, limit int) []PriceLevel {
	out := make([]PriceLevel, 0, limit)
	for _, level := range side.levels {
		if len(out) >= limit {
			break
		}
		out = append(out, PriceLevel{
			Price:      level.price,
			Quantity:   level.remainingQuantity(),
			OrderCount: len(level.orders),
		})
	}
	return out
}

func (b *SimpleOrderBook) RegisterListener(listener EventListener) {
	b.listeners.register(listener)
}

func (b *SimpleOrderBook) UnregisterListener(listener EventListener) {
	b.listeners.unregister(listener)
}

func (b *SimpleOrderBook) sideFor(side model.OrderSide) *bookSide {
	if side == model.Buy {
		return b.bids
	}
	return b.asks
}

// eventBatch collects listener notifications during a locked mutation and
// dispatches them after the lock is released, so a slow listener cannot hold
// up readers and a reentrant listener cannot deadlock.
type eventBatch struct {
	book             *SimpleOrderBook
	prevBid, prevAsk *decimal.Decimal
	events           []func(EventListener)
}

// beginBatch samples the best prices before the mutation. Callers must hold
// the write lock.
func (b *SimpleOrderBook) beginBatch() *eventBatch {
	return &eventBatch{
		book:    b,
		prevBid: pricePtr(b.bids.bestPrice()),
		prevAsk: pricePtr(b.asks.bestPrice()),
	}
}

func (batch *eventBatch) add(event func(EventListener)) {
	batch.events = append(batch.events, event)
}

// finish compares the best prices after the mutation with the ones sampled
// at the start and queues best-price-changed events when they differ.
// Callers must still hold the write lock.
func (batch *eventBatch) finish() {
	newBid := pricePtr(batch.book.bids.bestPrice())
	newAsk := pricePtr(batch.book.asks.bestPrice())
	if !samePrice(batch.prevBid, newBid) {
		oldBid := batch.prevBid
		batch.add(func(l EventListener) { l.OnBestBidChanged(newBid, oldBid) })
	}
	if !samePrice(batch.prevAsk, newAsk) {
		oldAsk := batch.prevAsk
		batch.add(func(l EventListener) { l.OnBestAskChanged(newAsk, oldAsk) })
	}
}

func (batch *eventBatch) dispatch(registry *listenerRegistry) {
	for _, event := range batch.events {
		registry.notify(event)
	}
}

func pricePtr(price decimal.Decimal, ok bool) *decimal.Decimal {
	if !ok {
		return nil
	}
	p := price
	return &p
}

func samePrice(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
