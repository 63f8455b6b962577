package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	FeedAddr string
	Symbols  []string
}

// Load reads configuration from a .env file and the environment, with
// defaults for everything.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file, using system environment variables")
	}

	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8000"),
		FeedAddr: getenv("FEED_ADDR", ":8001"),
		Symbols:  splitSymbols(getenv("SYMBOLS", "AAPL,META,MSFT,GOOGL")),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, symbol := range strings.Split(raw, ",") {
		if symbol = strings.TrimSpace(symbol); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}
