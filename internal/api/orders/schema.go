package orders

import (
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/model"
)

type PlaceOrderSchema struct {
	Symbol        string            `json:"symbol" validate:"required"`
	Side          model.OrderSide   `json:"side" validate:"required,oneof=buy sell"`
	Type          model.OrderType   `json:"type" validate:"required,oneof=market limit ioc fok stop_limit stop_loss"`
	Price         decimal.Decimal   `json:"price" validate:"required"`
	Quantity      decimal.Decimal   `json:"quantity" validate:"required"`
	ClientOrderId string            `json:"client_order_id"`
	TimeInForce   model.TimeInForce `json:"time_in_force" validate:"omitempty,oneof=day gtc gtd ioc fok at_the_opening at_the_close"`
}

type ModifyOrderSchema struct {
	Price    *decimal.Decimal `json:"price"`
	Quantity *decimal.Decimal `json:"quantity"`
}
