package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	FrontendOrigin string
	WordBankPath   string
	LogLevel       string
	TurnAdvance    time.Duration
	EmptyRoomGrace time.Duration
}

// Load reads configuration from the environment, with .env as a convenience
// for local runs. Every field has a sensible default.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getenv("PORT", "3001"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "*"),
		WordBankPath:   os.Getenv("WORD_BANK_PATH"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		TurnAdvance:    durationMS("TURN_ADVANCE_MS", 2000),
		EmptyRoomGrace: durationMS("EMPTY_ROOM_GRACE_MS", 5000),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationMS(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
