package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

type OrderType string

const (
	Market    OrderType = "market"
	Limit     OrderType = "limit"
	IOC       OrderType = "ioc"
	FOK       OrderType = "fok"
	StopLimit OrderType = "stop_limit"
	StopLoss  OrderType = "stop_loss"
)

type OrderStatus string

const (
	New             OrderStatus = "new"
	PartiallyFilled OrderStatus = "partially_filled"
	Filled          OrderStatus = "filled"
	Canceled        OrderStatus = "canceled"
	Rejected        OrderStatus = "rejected"
)

type TimeInForce string

const (
	Day          TimeInForce = "day"
	GTC          TimeInForce = "gtc"
	GTD          TimeInForce = "gtd"
	IOCTif       TimeInForce = "ioc"
	FOKTif       TimeInForce = "fok"
	AtTheOpening TimeInForce = "at_the_opening"
	AtTheClose   TimeInForce = "at_the_close"
)

// Order is a single order in the venue. Identity fields are set once at
// creation; price, quantity, fill state and status are mutated exclusively
// by the order book.
type Order struct {
	Id             uuid.UUID       `json:"id"`
	ClientOrderId  string          `json:"client_order_id,omitempty"`
	Symbol         string          `json:"symbol"`
	Type           OrderType       `json:"type"`
	Side           OrderSide       `json:"side"`
	Price          decimal.Decimal `json:"price"`
	Quantity       decimal.Decimal `json:"quantity"`
	FilledQuantity decimal.Decimal `json:"filled_quantity"`
	Status         OrderStatus     `json:"status"`
	TimeInForce    TimeInForce     `json:"time_in_force"`
	ExpiryTime     *time.Time      `json:"expiry_time,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewOrder(symbol string, orderType OrderType, side OrderSide, price, quantity decimal.Decimal) *Order {
	now := time.Now()
	return &Order{
		Id:             uuid.New(),
		Symbol:         symbol,
		Type:           orderType,
		Side:           side,
		Price:          price,
		Quantity:       quantity,
		FilledQuantity: decimal.Zero,
		Status:         New,
		TimeInForce:    Day,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Remaining is the quantity still open for matching.
func (o *Order) Remaining() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// Active reports whether the order can still rest in the book.
func (o *Order) Active() bool {
	return o.Status == New || o.Status == PartiallyFilled
}

// Fill increases the filled quantity and moves the status along the
// new -> partially_filled -> filled progression.
func (o *Order) Fill(quantity decimal.Decimal) {
	o.FilledQuantity = o.FilledQuantity.Add(quantity)
	if o.FilledQuantity.GreaterThanOrEqual(o.Quantity) {
		o.Status = Filled
	} else if o.FilledQuantity.IsPositive() {
		o.Status = PartiallyFilled
	}
	o.UpdatedAt = time.Now()
}
