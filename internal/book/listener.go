package book

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/model"
)

// EventListener receives order book lifecycle events. Hooks are invoked
// synchronously on the mutating path after the book state has been updated;
// implementations must be fast and should not call back into mutating
// operations.
type EventListener interface {
	OnOrderAdded(order model.Order)
	OnOrderCanceled(orderId uuid.UUID, order model.Order)
	OnOrderModified(order model.Order, oldPrice, oldQuantity decimal.Decimal)
	OnTradeExecuted(trade model.Trade)

	// Best price hooks carry nil when that side of the book is empty.
	OnBestBidChanged(newBest, oldBest *decimal.Decimal)
	OnBestAskChanged(newBest, oldBest *decimal.Decimal)
}

// listenerRegistry is a copy-on-write set of listeners: registration and
// removal swap in a fresh slice, so notification iterates a snapshot that no
// concurrent mutation can touch.
type listenerRegistry struct {
	mu        sync.Mutex
	listeners []EventListener
}

func (r *listenerRegistry) register(l EventListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]EventListener, len(r.listeners), len(r.listeners)+1)
	copy(next, r.listeners)
	r.listeners = append(next, l)
}

func (r *listenerRegistry) unregister(l EventListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]EventListener, 0, len(r.listeners))
	for _, existing := range r.listeners {
		if existing != l {
			next = append(next, existing)
		}
	}
	r.listeners = next
}

func (r *listenerRegistry) snapshot() []EventListener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listeners
}

// notify invokes fn for every registered listener. A panicking listener is
// contained here: the book state was already mutated and must stay intact.
func (r *listenerRegistry) notify(fn func(EventListener)) {
	for _, l := range r.snapshot() {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("order book listener panicked: %v", rec)
				}
			}()
			fn(l)
		}()
	}
}
