// Package binary adapts the venue's fixed-layout binary order entry
// protocol onto the order book.
//
// New order message layout (53 bytes, big endian):
//
//	bytes 0-1   message type (1 = new order)
//	bytes 2-17  client order id, right-padded with zero bytes
//	bytes 18-33 symbol, right-padded with zero bytes
//	byte  34    side (1 = buy, 2 = sell)
//	byte  35    order type (1 = market, 2 = limit)
//	bytes 36-43 price as int64 scaled by 10^8
//	bytes 44-51 quantity as int64
//	byte  52    time in force (0 = day, 1 = GTC, 2 = IOC, 3 = FOK)
package binary

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/model"
	"github.com/JhonesBR/go-exchange/internal/orderentry"
)

const (
	MsgTypeNewOrder = 1

	NewOrderMessageSize = 53

	priceScale = 8
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

// ProcessNewOrderMessage decodes a new order message and submits it.
func (a *Adapter) ProcessNewOrderMessage(buf []byte) (uuid.UUID, error) {
	order, err := DecodeNewOrder(buf)
	if err != nil {
		return uuid.Nil, err
	}
	orderId, ok := a.SubmitOrder(order)
	if !ok {
		return uuid.Nil, fmt.Errorf("order rejected by order book")
	}
	return orderId, nil
}

// DecodeNewOrder parses the fixed-layout new order message.
func DecodeNewOrder(buf []byte) (*model.Order, error) {
	if len(buf) < NewOrderMessageSize {
		return nil, fmt.Errorf("new order message too short: %d bytes", len(buf))
	}
	if msgType := binary.BigEndian.Uint16(buf[0:2]); msgType != MsgTypeNewOrder {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	clientOrderId := decodeString(buf[2:18])
	symbol := decodeString(buf[18:34])

	var side model.OrderSide
	switch buf[34] {
	case 1:
		side = model.Buy
	case 2:
		side = model.Sell
	default:
		return nil, fmt.Errorf("invalid side: %d", buf[34])
	}

	var orderType model.OrderType
	switch buf[35] {
	case 1:
		orderType = model.Market
	case 2:
		orderType = model.Limit
	default:
		return nil, fmt.Errorf("invalid order type: %d", buf[35])
	}

	price := decimal.New(int64(binary.BigEndian.Uint64(buf[36:44])), -priceScale)
	quantity := decimal.NewFromInt(int64(binary.BigEndian.Uint64(buf[44:52])))

	var timeInForce model.TimeInForce
	switch buf[52] {
	case 0:
		timeInForce = model.Day
	case 1:
		timeInForce = model.GTC
	case 2:
		timeInForce = model.IOCTif
	case 3:
		timeInForce = model.FOKTif
	default:
		return nil, fmt.Errorf("invalid time in force: %d", buf[52])
	}

	order := model.NewOrder(symbol, orderType, side, price, quantity)
	order.ClientOrderId = clientOrderId
	order.TimeInForce = timeInForce
	return order, nil
}

// EncodeNewOrder produces the wire form of a new order message.
func EncodeNewOrder(order *model.Order) ([]byte, error) {
	buf := make([]byte, NewOrderMessageSize)
	binary.BigEndian.PutUint16(buf[0:2], MsgTypeNewOrder)
	if err := encodeString(buf[2:18], order.ClientOrderId); err != nil {
		return nil, fmt.Errorf("client order id: %w", err)
	}
	if err := encodeString(buf[18:34], order.Symbol); err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}

	switch order.Side {
	case model.Buy:
		buf[34] = 1
	case model.Sell:
		buf[34] = 2
	default:
		return nil, fmt.Errorf("invalid side: %q", order.Side)
	}

	switch order.Type {
	case model.Market:
		buf[35] = 1
	default:
		// Everything limit-classified goes on the wire as a limit.
		buf[35] = 2
	}

	binary.BigEndian.PutUint64(buf[36:44], uint64(order.Price.Shift(priceScale).IntPart()))
	binary.BigEndian.PutUint64(buf[44:52], uint64(order.Quantity.IntPart()))

	switch order.TimeInForce {
	case model.GTC:
		buf[52] = 1
	case model.IOCTif:
		buf[52] = 2
	case model.FOKTif:
		buf[52] = 3
	default:
		buf[52] = 0
	}
	return buf, nil
}

func decodeString(field []byte) string {
	return strings.TrimRight(string(field), "\x00 ")
}

func encodeString(field []byte, value string) error {
	if len(value) > len(field) {
		return fmt.Errorf("%q exceeds %d bytes", value, len(field))
	}
	copy(field, value)
	return nil
}
