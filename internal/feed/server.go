// Package feed broadcasts order book events to websocket subscribers. It
// subscribes to the books through the notification registry and pushes JSON
// events out; the engine's mutation path is never blocked by a slow client.
package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/model"
)

const clientSendBuffer = 64

type Event struct {
	Type      string      `json:"type"`
	Symbol    string      `json:"symbol"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type Server struct {
	upgrader  websocket.Upgrader
	broadcast chan []byte
	done      chan struct{}
	once      sync.Once

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewServer() *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
		clients:   make(map[*client]struct{}),
	}
	go s.run()
	return s
}

func (s *Server) run() {
	for {
		select {
		case message := <-s.broadcast:
			s.mu.Lock()
			for c := range s.clients {
				select {
				case c.send <- message:
				default:
					// Client can't keep up: drop it instead of
					// stalling the hub.
					delete(s.clients, c)
					close(c.send)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			s.mu.Lock()
			for c := range s.clients {
				delete(s.clients, c)
				close(c.send)
			}
			s.mu.Unlock()
			return
		}
	}
}

// Handler upgrades incoming connections and serves them until they close.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("feed: upgrade failed: %v", err)
			return
		}

		c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}
		s.mu.Lock()
		s.clients[c] = struct{}{}
		s.mu.Unlock()

		go c.writePump()
		c.readPump(s)
	})
}

func (s *Server) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump only watches for the connection going away; inbound payloads are
// ignored, the feed is one-way.
func (c *client) readPump(s *Server) {
	defer s.removeClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) publish(eventType, symbol string, data interface{}) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Symbol:    symbol,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("feed: marshal %s event: %v", eventType, err)
		return
	}
	select {
	case s.broadcast <- payload:
	default:
		// Saturated hub: market data is best-effort, skip the event.
	}
}

// ListenerFor returns an order book listener that tags every event with the
// given symbol. Register one per book.
func (s *Server) ListenerFor(symbol string) book.EventListener {
	return &bookListener{server: s, symbol: symbol}
}

type bookListener struct {
	server *Server
	symbol string
}

type bestPricePayload struct {
	New *decimal.Decimal `json:"new"`
	Old *decimal.Decimal `json:"old"`
}

type modifiedPayload struct {
	Order       model.Order     `json:"order"`
	OldPrice    decimal.Decimal `json:"old_price"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
}

func (l *bookListener) OnOrderAdded(order model.Order) {
	l.server.publish("order_added", l.symbol, order)
}

func (l *bookListener) OnOrderCanceled(orderId uuid.UUID, order model.Order) {
	l.server.publish("order_canceled", l.symbol, order)
}

func (l *bookListener) OnOrderModified(order model.Order, oldPrice, oldQuantity decimal.Decimal) {
	l.server.publish("order_modified", l.symbol, modifiedPayload{
		Order:       order,
		OldPrice:    oldPrice,
		OldQuantity: oldQuantity,
	})
}

func (l *bookListener) OnTradeExecuted(trade model.Trade) {
	l.server.publish("trade", l.symbol, trade)
}

func (l *bookListener) OnBestBidChanged(newBest, oldBest *decimal.Decimal) {
	l.server.publish("best_bid", l.symbol, bestPricePayload{New: newBest, Old: oldBest})
}

func (l *bookListener) OnBestAskChanged(newBest, oldBest *decimal.Decimal) {
	l.server.publish("best_ask", l.symbol, bestPricePayload{New: newBest, Old: oldBest})
}
