package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is the immutable record of a single match between a buy and a sell
// order. Fee is always zero for now.
type Trade struct {
	Id          uuid.UUID       `json:"id"`
	BuyOrderId  uuid.UUID       `json:"buy_order_id"`
	SellOrderId uuid.UUID       `json:"sell_order_id"`
	Symbol      string          `json:"symbol"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Fee         decimal.Decimal `json:"fee"`
	FeeCurrency string          `json:"fee_currency"`
	ExecutedAt  time.Time       `json:"executed_at"`
}

func NewTrade(buyOrderId, sellOrderId uuid.UUID, symbol string, price, quantity decimal.Decimal) Trade {
	return Trade{
		Id:          uuid.New(),
		BuyOrderId:  buyOrderId,
		SellOrderId: sellOrderId,
		Symbol:      symbol,
		Price:       price,
		Quantity:    quantity,
		Fee:         decimal.Zero,
		FeeCurrency: symbol,
		ExecutedAt:  time.Now(),
	}
}

// TotalValue is price * quantity.
func (t Trade) TotalValue() decimal.Decimal {
	return t.Price.Mul(t.Quantity)
}
