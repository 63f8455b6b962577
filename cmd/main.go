package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/JhonesBR/go-exchange/internal/api"
	"github.com/JhonesBR/go-exchange/internal/book"
	"github.com/JhonesBR/go-exchange/internal/config"
	"github.com/JhonesBR/go-exchange/internal/feed"
)

func main() {
	cfg := config.Load()

	// Market data feed, fed by the order book listeners
	feedServer := feed.NewServer()

	// One sequenced order book per configured symbol
	books := make(map[string]book.OrderBook)
	sequenced := make([]*book.SequencedOrderBook, 0, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		b := book.NewSequencedOrderBook(symbol)
		b.RegisterListener(feedServer.ListenerFor(symbol))
		books[symbol] = b
		sequenced = append(sequenced, b)
		log.Printf("Initialized order book for %s", symbol)
	}

	// Initialize a new Fiber app and the API routes
	app := fiber.New()
	app.Use(logger.New())
	api.InitializeRoutes(app, books)

	feedSrv := &http.Server{Addr: cfg.FeedAddr, Handler: feedServer.Handler()}
	go func() {
		if err := feedSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Market data feed failed: %v", err)
		}
	}()
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()
	log.Printf("Exchange listening on %s (feed on %s)", cfg.HTTPAddr, cfg.FeedAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down exchange")
	_ = app.Shutdown()
	_ = feedSrv.Shutdown(context.Background())
	for _, b := range sequenced {
		b.Close()
	}
	feedServer.Close()
}
