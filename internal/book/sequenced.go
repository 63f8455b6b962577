package book

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/model"
)

const (
	// commandQueueSize bounds the number of queued mutations; producers
	// block (backpressure) when the queue is full. Power of two to mirror
	// the ring buffer it replaces, not a correctness requirement.
	commandQueueSize = 1024

	// submitTimeout is how long a producer waits for its command's result.
	// On expiry the caller sees a failure even though the command stays
	// queued and will still be applied.
	submitTimeout = 100 * time.Millisecond
)

type commandType int

const (
	addOrderCommand commandType = iota
	cancelOrderCommand
	modifyOrderCommand
	matchOrdersCommand
)

type command struct {
	id       uuid.UUID
	kind     commandType
	order    *model.Order
	orderId  uuid.UUID
	price    *decimal.Decimal
	quantity *decimal.Decimal
	trades   []model.Trade
	result   chan bool
}

// SequencedOrderBook makes a SimpleOrderBook safe for concurrent callers by
// funneling every mutation through a bounded FIFO queue consumed by a single
// goroutine. Commands are applied strictly in submission order with at most
// one in flight, which is what makes concurrent AddOrder/CancelOrder/
// ModifyOrder calls linearizable.
//
// Reads are not sequenced: they go straight to the underlying book and may
// observe the state before or after a queued-but-unapplied command, never a
// torn intermediate state.
type SequencedOrderBook struct {
	book     *SimpleOrderBook
	commands chan *command
	done     chan struct{}
}

func NewSequencedOrderBook(symbol string) *SequencedOrderBook {
	s := &SequencedOrderBook{
		book:     NewSimpleOrderBook(symbol),
		commands: make(chan *command, commandQueueSize),
		done:     make(chan struct{}),
	}
	go s.consume()
	return s
}

func (s *SequencedOrderBook) consume() {
	defer close(s.done)
	for cmd := range s.commands {
		var ok bool
		switch cmd.kind {
		case addOrderCommand:
			ok = s.book.AddOrder(cmd.order)
		case cancelOrderCommand:
			ok = s.book.CancelOrder(cmd.orderId)
		case modifyOrderCommand:
			ok = s.book.ModifyOrder(cmd.orderId, cmd.price, cmd.quantity)
		case matchOrdersCommand:
			cmd.trades = s.book.MatchOrders()
			ok = true
		}
		// The result channel is buffered: a producer that already timed
		// out never blocks the consumer.
		cmd.result <- ok
	}
}

func (s *SequencedOrderBook) submit(cmd *command) bool {
	cmd.id = uuid.New()
	cmd.result = make(chan bool, 1)
	s.commands <- cmd

	select {
	case ok := <-cmd.result:
		return ok
	case <-time.After(submitTimeout):
		// Known race: the command will still be applied. A false return
		// means "not confirmed", not "not applied".
		log.Printf("order book command %s not confirmed within %v", cmd.id, submitTimeout)
		return false
	}
}

func (s *SequencedOrderBook) AddOrder(order *model.Order) bool {
	return s.submit(&command{kind: addOrderCommand, order: order})
}

func (s *SequencedOrderBook) CancelOrder(orderId uuid.UUID) bool {
	return s.submit(&command{kind: cancelOrderCommand, orderId: orderId})
}

func (s *SequencedOrderBook) ModifyOrder(orderId uuid.UUID, newPrice, newQuantity *decimal.Decimal) bool {
	return s.submit(&command{kind: modifyOrderCommand, orderId: orderId, price: newPrice, quantity: newQuantity})
}

// MatchOrders mutates the book, so it is sequenced like the other write
// operations. An unconfirmed submission returns no trades.
func (s *SequencedOrderBook) MatchOrders() []model.Trade {
	cmd := &command{kind: matchOrdersCommand}
	if !s.submit(cmd) {
		return nil
	}
	return cmd.trades
}

// Close stops the consumer after draining already queued commands. No
// mutation may be submitted after Close.
func (s *SequencedOrderBook) Close() {
	close(s.commands)
	<-s.done
}

// Read path: straight through to the underlying book.

func (s *SequencedOrderBook) BestBidPrice() (decimal.Decimal, bool) { return s.book.BestBidPrice() }
func (s *SequencedOrderBook) BestAskPrice() (decimal.Decimal, bool) { return s.book.BestAskPrice() }
func (s *SequencedOrderBook) Symbol() string                        { return s.book.Symbol() }

func (s *SequencedOrderBook) QuantityAtPriceLevel(price decimal.Decimal, side model.OrderSide) decimal.Decimal {
	return s.book.QuantityAtPriceLevel(price, side)
}

func (s *SequencedOrderBook) Order(orderId uuid.UUID) (model.Order, bool) {
	return s.book.Order(orderId)
}

func (s *SequencedOrderBook) AllOrders() []model.Order {
	return s.book.AllOrders()
}

func (s *SequencedOrderBook) RecentTrades(limit int) []model.Trade {
	return s.book.RecentTrades(limit)
}

func (s *SequencedOrderBook) MarketDepth(levels int) *MarketDepth {
	return s.book.MarketDepth(levels)
}

func (s *SequencedOrderBook) RegisterListener(listener EventListener) {
	s.book.RegisterListener(listener)
}

func (s *SequencedOrderBook) UnregisterListener(listener EventListener) {
	s.book.UnregisterListener(listener)
}
