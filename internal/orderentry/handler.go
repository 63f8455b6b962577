// Package orderentry defines the contract between protocol adapters and the
// order book: submission, cancel/replace, status queries and the callback
// hooks adapters use to emit execution reports.
package orderentry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/model"
)

// Handler is the adapter-facing order entry API. Implementations translate
// a wire protocol into order book mutations and keep their own mapping from
// client order ids to engine order ids.
type Handler interface {
	// SubmitOrder places the order and returns its engine id. ok is false
	// when the book rejected it.
	SubmitOrder(order *model.Order) (uuid.UUID, bool)

	// CancelOrder cancels by engine id, or by client order id when the
	// engine id is the zero uuid.
	CancelOrder(orderId uuid.UUID, clientOrderId string) bool

	// ModifyOrder replaces price and/or quantity, resolving the order the
	// same way CancelOrder does. Nil fields are left unchanged.
	ModifyOrder(orderId uuid.UUID, clientOrderId string, newPrice, newQuantity *decimal.Decimal) bool

	OrderStatus(orderId uuid.UUID) (StatusResponse, bool)
	Order(orderId uuid.UUID) (model.Order, bool)

	RegisterCallback(callback Callback)
	UnregisterCallback(callback Callback)
}

// Callback receives order entry lifecycle events for translation back into
// outbound protocol messages.
type Callback interface {
	OnOrderAccepted(orderId uuid.UUID, clientOrderId string)
	OnOrderRejected(clientOrderId string, reason string)
	OnOrderFilled(orderId uuid.UUID, trade model.Trade)
	OnOrderCanceled(orderId uuid.UUID)
	OnOrderModified(orderId uuid.UUID)
	OnOrderModificationRejected(orderId uuid.UUID, reason string)
}

// StatusResponse is the answer to an order status request.
type StatusResponse struct {
	OrderId        uuid.UUID         `json:"order_id"`
	ClientOrderId  string            `json:"client_order_id,omitempty"`
	Status         model.OrderStatus `json:"status"`
	Price          decimal.Decimal   `json:"price"`
	Quantity       decimal.Decimal   `json:"quantity"`
	FilledQuantity decimal.Decimal   `json:"filled_quantity"`
	Symbol         string            `json:"symbol"`
	Message        string            `json:"message,omitempty"`
}

func StatusFromOrder(order model.Order, message string) StatusResponse {
	return StatusResponse{
		OrderId:        order.Id,
		ClientOrderId:  order.ClientOrderId,
		Status:         order.Status,
		Price:          order.Price,
		Quantity:       order.Quantity,
		FilledQuantity: order.FilledQuantity,
		Symbol:         order.Symbol,
		Message:        message,
	}
}

// CallbackRegistry is the shared copy-on-write callback set used by the
// protocol adapters.
type CallbackRegistry struct {
	mu        sync.Mutex
	callbacks []Callback
}

func (r *CallbackRegistry) Register(callback Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]Callback, len(r.callbacks), len(r.callbacks)+1)
	copy(next, r.callbacks)
	r.callbacks = append(next, callback)
}

func (r *CallbackRegistry) Unregister(callback Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]Callback, 0, len(r.callbacks))
	for _, existing := range r.callbacks {
		if existing != callback {
			next = append(next, existing)
		}
	}
	r.callbacks = next
}

// Each invokes fn for every registered callback.
func (r *CallbackRegistry) Each(fn func(Callback)) {
	r.mu.Lock()
	snapshot := r.callbacks
	r.mu.Unlock()
	for _, callback := range snapshot {
		fn(callback)
	}
}

// ClientOrderIndex maps client order ids to engine order ids. Each adapter
// owns one; the engine itself never sees client order ids.
type ClientOrderIndex struct {
	mu  sync.RWMutex
	ids map[string]uuid.UUID
}

func NewClientOrderIndex() *ClientOrderIndex {
	return &ClientOrderIndex{ids: make(map[string]uuid.UUID)}
}

func (c *ClientOrderIndex) Put(clientOrderId string, orderId uuid.UUID) {
	if clientOrderId == "" {
		return
	}
	c.mu.Lock()
	c.ids[clientOrderId] = orderId
	c.mu.Unlock()
}

func (c *ClientOrderIndex) Get(clientOrderId string) (uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[clientOrderId]
	return id, ok
}

// Resolve returns orderId when set, otherwise the id mapped to the client
// order id.
func (c *ClientOrderIndex) Resolve(orderId uuid.UUID, clientOrderId string) (uuid.UUID, bool) {
	if orderId != uuid.Nil {
		return orderId, true
	}
	if clientOrderId == "" {
		return uuid.Nil, false
	}
	return c.Get(clientOrderId)
}
