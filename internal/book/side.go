package book

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/model"
)

// priceLevel groups all resting orders at one exact price, oldest first.
type priceLevel struct {
	price  decimal.Decimal
	orders []*model.Order
}

func (l *priceLevel) remainingQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.orders {
		total = total.Add(o.Remaining())
	}
	return total
}

// bookSide keeps the price levels of one side sorted best-first: descending
// for bids, ascending for asks. Levels are held in a sorted slice and found
// by binary search on the decimal price, so two representations of the same
// value (10000 vs 10000.00) always land on the same level.
type bookSide struct {
	side   model.OrderSide
	levels []*priceLevel
}

func newBookSide(side model.OrderSide) *bookSide {
	return &bookSide{side: side}
}

// search returns the index where price belongs and whether a level with that
// exact price already exists there.
func (s *bookSide) search(price decimal.Decimal) (int, bool) {
	var idx int
	if s.side == model.Buy {
		idx = sort.Search(len(s.levels), func(i int) bool {
			return s.levels[i].price.LessThanOrEqual(price)
		})
	} else {
		idx = sort.Search(len(s.levels), func(i int) bool {
			return s.levels[i].price.GreaterThanOrEqual(price)
		})
	}
	if idx < len(s.levels) && s.levels[idx].price.Equal(price) {
		return idx, true
	}
	return idx, false
}

// add appends the order to the back of its price level's FIFO queue,
// creating the level if absent.
func (s *bookSide) add(order *model.Order) {
	idx, found := s.search(order.Price)
	if found {
		s.levels[idx].orders = append(s.levels[idx].orders, order)
		return
	}
	level := &priceLevel{price: order.Price, orders: []*model.Order{order}}
	s.levels = append(s.levels, nil)
	copy(s.levels[idx+1:], s.levels[idx:])
	s.levels[idx] = level
}

// remove takes the order out of its price level and drops the level when it
// becomes empty. It reports whether the order was present.
func (s *bookSide) remove(order *model.Order) bool {
	idx, found := s.search(order.Price)
	if !found {
		return false
	}
	level := s.levels[idx]
	for i, o := range level.orders {
		if o.Id == order.Id {
			level.orders = append(level.orders[:i], level.orders[i+1:]...)
			if len(level.orders) == 0 {
				s.removeLevelAt(idx)
			}
			return true
		}
	}
	return false
}

// removeHead pops the oldest order off the best level, dropping the level
// when it empties. Used by the matching loop after a full fill.
func (s *bookSide) removeHead() {
	if len(s.levels) == 0 {
		return
	}
	level := s.levels[0]
	level.orders = level.orders[1:]
	if len(level.orders) == 0 {
		s.removeLevelAt(0)
	}
}

func (s *bookSide) removeLevelAt(idx int) {
	copy(s.levels[idx:], s.levels[idx+1:])
	s.levels[len(s.levels)-1] = nil
	s.levels = s.levels[:len(s.levels)-1]
}

func (s *bookSide) bestLevel() *priceLevel {
	if len(s.levels) == 0 {
		return nil
	}
	return s.levels[0]
}

func (s *bookSide) bestPrice() (decimal.Decimal, bool) {
	if len(s.levels) == 0 {
		return decimal.Decimal{}, false
	}
	return s.levels[0].price, true
}

func (s *bookSide) level(price decimal.Decimal) *priceLevel {
	idx, found := s.search(price)
	if !found {
		return nil
	}
	return s.levels[idx]
}

func (s *bookSide) empty() bool {
	return len(s.levels) == 0
}
