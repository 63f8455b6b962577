package book

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceLevel is one aggregated row of the market depth view.
type PriceLevel struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

// MarketDepth is a point-in-time leveled view of both sides of the book:
// bids sorted by price descending, asks ascending. Instances are built once
// and never mutated.
type MarketDepth struct {
	Symbol string       `json:"symbol"`
	Bids   []PriceLevel `json:"bids"`
	Asks   []PriceLevel `json:"asks"`
}

// NewMarketDepth sorts both sides on construction regardless of the input
// order, so a depth snapshot is valid no matter how it was assembled.
func NewMarketDepth(symbol string, bids, asks []PriceLevel) *MarketDepth {
	sort.Slice(bids, func(i, j int) bool {
		return bids[i].Price.GreaterThan(bids[j].Price)
	})
	sort.Slice(asks, func(i, j int) bool {
		return asks[i].Price.LessThan(asks[j].Price)
	})
	return &MarketDepth{Symbol: symbol, Bids: bids, Asks: asks}
}

// BestBid returns the highest bid level, or nil if there are no bids.
func (d *MarketDepth) BestBid() *PriceLevel {
	if len(d.Bids) == 0 {
		return nil
	}
	return &d.Bids[0]
}

// BestAsk returns the lowest ask level, or nil if there are no asks.
func (d *MarketDepth) BestAsk() *PriceLevel {
	if len(d.Asks) == 0 {
		return nil
	}
	return &d.Asks[0]
}
