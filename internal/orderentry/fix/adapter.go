// Package fix adapts FIX order entry messages onto the order book. The
// adapter works on already-parsed tag/value maps and is session-agnostic:
// transport and session management belong to the FIX engine in front of it.
package fix

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/model"
	"github.com/JhonesBR/go-exchange/internal/orderentry"
)

// FIX tag numbers used by the adapter.
const (
	TagClOrdID     = 11
	TagOrderQty    = 38
	TagOrdType     = 40
	TagOrigClOrdID = 41
	TagPrice       = 44
	TagSide        = 54
	TagSymbol      = 55
	TagTimeInForce = 59
)

type Adapter struct {
	book         book.OrderBook
	callbacks    orderentry.CallbackRegistry
	clientOrders *orderentry.ClientOrderIndex
}

func NewAdapter(b book.OrderBook) *Adapter {
	return &Adapter{
		book:         b,
		clientOrders: orderentry.NewClientOrderIndex(),
	}
}

func (a *Adapter) SubmitOrder(order *model.Order) (uuid.UUID, bool) {
	a.clientOrders.Put(order.ClientOrderId, order.Id)

	if !a.book.AddOrder(order) {
		a.callbacks.Each(func(cb orderentry.Callback) {
			cb.OnOrderRejected(order.ClientOrderId, "order rejected by order book")
		})
		return uuid.Nil, false
	}

	a.callbacks.Each(func(cb orderentry.Callback) {
		cb.OnOrderAccepted(order.Id, order.ClientOrderId)
	})
	return order.Id, true
}

func (a *Adapter) CancelOrder(orderId uuid.UUID, clientOrderId string) bool {
	orderId, ok := a.clientOrders.Resolve(orderId, clientOrderId)
	if !ok {
		return false
	}

	if !a.book.CancelOrder(orderId) {
		return false
	}
	a.callbacks.Each(func(cb orderentry.Callback) {
		cb.OnOrderCanceled(orderId)
	})
	return true
}

func (a *Adapter) ModifyOrder(orderId uuid.UUID, clientOrderId string, newPrice, newQuantity *decimal.Decimal) bool {
	orderId, ok := a.clientOrders.Resolve(orderId, clientOrderId)
	if !ok {
		return false
	}

	if !a.book.ModifyOrder(orderId, newPrice, newQuantity) {
		a.callbacks.Each(func(cb orderentry.Callback) {
			cb.OnOrderModificationRejected(orderId, "order modification rejected")
		})
		return false
	}
	a.callbacks.Each(func(cb orderentry.Callback) {
		cb.OnOrderModified(orderId)
	})
	return true
}

func (a *Adapter) OrderStatus(orderId uuid.UUID) (orderentry.StatusResponse, bool) {
	order, ok := a.book.Order(orderId)
	if !ok {
		return orderentry.StatusResponse{}, false
	}
	return orderentry.StatusFromOrder(order, "order found"), true
}

func (a *Adapter) Order(orderId uuid.UUID) (model.Order, bool) {
	return a.book.Order(orderId)
}

func (a *Adapter) RegisterCallback(callback orderentry.Callback) {
	a.callbacks.Register(callback)
}

func (a *Adapter) UnregisterCallback(callback orderentry.Callback) {
	a.callbacks.Unregister(callback)
}

// ProcessNewOrderSingle translates a NewOrderSingle (MsgType D) tag map into
// an order submission.
func (a *Adapter) ProcessNewOrderSingle(fields map[int]string) (uuid.UUID, error) {
	side, err := parseSide(fields[TagSide])
	if err != nil {
		return uuid.Nil, err
	}
	orderType, err := parseOrdType(fields[TagOrdType])
	if err != nil {
		return uuid.Nil, err
	}
	price, err := decimal.NewFromString(fields[TagPrice])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid price %q: %w", fields[TagPrice], err)
	}
	quantity, err := decimal.NewFromString(fields[TagOrderQty])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid order qty %q: %w", fields[TagOrderQty], err)
	}
	timeInForce, err := parseTimeInForce(fields[TagTimeInForce])
	if err != nil {
		return uuid.Nil, err
	}

	order := model.NewOrder(fields[TagSymbol], orderType, side, price, quantity)
	order.ClientOrderId = fields[TagClOrdID]
	order.TimeInForce = timeInForce

	orderId, ok := a.SubmitOrder(order)
	if !ok {
		return uuid.Nil, fmt.Errorf("order rejected by order book")
	}
	return orderId, nil
}

// ProcessOrderCancelRequest translates an OrderCancelRequest (MsgType F):
// the original order is addressed by OrigClOrdID.
func (a *Adapter) ProcessOrderCancelRequest(fields map[int]string) bool {
	return a.CancelOrder(uuid.Nil, fields[TagOrigClOrdID])
}

// ProcessCancelReplaceRequest translates an OrderCancelReplaceRequest
// (MsgType G) into a modify; absent price/qty tags leave the field as is.
func (a *Adapter) ProcessCancelReplaceRequest(fields map[int]string) (bool, error) {
	var newPrice, newQuantity *decimal.Decimal
	if raw, ok := fields[TagPrice]; ok {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return false, fmt.Errorf("invalid price %q: %w", raw, err)
		}
		newPrice = &price
	}
	if raw, ok := fields[TagOrderQty]; ok {
		quantity, err := decimal.NewFromString(raw)
		if err != nil {
			return false, fmt.Errorf("invalid order qty %q: %w", raw, err)
		}
		newQuantity = &quantity
	}
	return a.ModifyOrder(uuid.Nil, fields[TagOrigClOrdID], newPrice, newQuantity), nil
}

func parseSide(side string) (model.OrderSide, error) {
	switch side {
	case "1":
		return model.Buy, nil
	case "2":
		return model.Sell, nil
	default:
		return "", fmt.Errorf("invalid FIX side: %q", side)
	}
}

func parseOrdType(ordType string) (model.OrderType, error) {
	switch ordType {
	case "1":
		return model.Market, nil
	case "2":
		return model.Limit, nil
	default:
		return "", fmt.Errorf("invalid FIX order type: %q", ordType)
	}
}

func parseTimeInForce(tif string) (model.TimeInForce, error) {
	switch tif {
	case "", "0":
		return model.Day, nil
	case "1":
		return model.GTC, nil
	case "3":
		return model.IOCTif, nil
	case "4":
		return model.FOKTif, nil
	default:
		return "", fmt.Errorf("invalid FIX time in force: %q", tif)
	}
}
