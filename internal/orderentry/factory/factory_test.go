package factory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/model"
	"github.com/JhonesBR/go-exchange/internal/orderentry/binary"
	"github.com/JhonesBR/go-exchange/internal/orderentry/fix"
)

func TestNew(t *testing.T) {
	t.Run("returns a working adapter per protocol", func(t *testing.T) {
		for _, protocol := range []string{ProtocolFIX, ProtocolBinary} {
			t.Run(protocol, func(t *testing.T) {
				b := book.NewSimpleOrderBook("AAPL")
				handler, err := New(protocol, b)
				require.NoError(t, err)
				require.NotNil(t, handler)

				order := model.NewOrder("AAPL", model.Limit, model.Buy,
					decimal.RequireFromString("100.00"), decimal.NewFromInt(10))
				orderId, ok := handler.SubmitOrder(order)
				require.True(t, ok)

				status, found := handler.OrderStatus(orderId)
				require.True(t, found)
				assert.Equal(t, model.New, status.Status)
			})
		}
	})

	t.Run("protocol name selects the adapter type", func(t *testing.T) {
		b := book.NewSimpleOrderBook("AAPL")
		fixHandler, err := New(ProtocolFIX, b)
		require.NoError(t, err)
		binaryHandler, err := New(ProtocolBinary, b)
		require.NoError(t, err)
		assert.IsType(t, &fix.Adapter{}, fixHandler)
		assert.IsType(t, &binary.Adapter{}, binaryHandler)
	})

	t.Run("unknown protocol errors", func(t *testing.T) {
		handler, err := New("telepathy", book.NewSimpleOrderBook("AAPL"))
		assert.Error(t, err)
		assert.Nil(t, handler)
	})
}
