// Package factory constructs order entry adapters by protocol name, so the
// bootstrap can pick one from configuration without importing every adapter
// package itself.
package factory

import (
	"fmt"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/orderentry"
	"github.com/JhonesBR/go-exchange/internal/orderentry/binary"
	"github.com/JhonesBR/go-exchange/internal/orderentry/fix"
)

// Supported protocol names.
const (
	ProtocolFIX    = "fix"
	ProtocolBinary = "binary"
)

// New returns the order entry handler for the given protocol name, bound to
// the given book.
func New(protocol string, b book.OrderBook) (orderentry.Handler, error) {
	switch protocol {
	case ProtocolFIX:
		return fix.NewAdapter(b), nil
	case ProtocolBinary:
		return binary.NewAdapter(b), nil
	default:
		return nil, fmt.Errorf("unknown order entry protocol: %q", protocol)
	}
}
