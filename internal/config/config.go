package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Chat front-end
	BotToken    string        // Telegram bot token; empty disables cmd/bot
	TelegramAPI string        // Bot API base override (tests, gateways)
	PollTimeout int           // getUpdates long-poll window, seconds
	Workers     int           // update dispatch pool size
	SendRate    float64       // outbound Bot API calls per second
	SendBurst   int
	SessionTTL  time.Duration // idle chat sessions evicted after this

	// Probes
	ProbeTimeout time.Duration // per-probe budget
	CheckTimeout time.Duration // whole check cycle budget

	// Domain intelligence API
	IntelURL     string
	IntelKey     string
	IntelTimeout time.Duration

	// REST API
	Addr        string   // bind address, e.g. "127.0.0.1:8080"
	APIKeys     []string // non-empty enables the X-API-Key gate
	PublicRPM   int      // per-IP request budget
	PublicBurst int

	// Logs
	LogDir string
}

// FromEnv loads .env if present (existing env always wins) and builds the
// config with defaults for everything that is unset.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		TelegramAPI: os.Getenv("TELEGRAM_API"),
		PollTimeout: envInt("POLL_TIMEOUT", 25),
		Workers:     envInt("BOT_WORKERS", 8),
		SendRate:    envFloat("SEND_RATE", 25),
		SendBurst:   envInt("SEND_BURST", 5),
		SessionTTL:  envMS("SESSION_TTL_MS", 30*time.Minute),

		ProbeTimeout: envMS("PROBE_TIMEOUT_MS", 5*time.Second),
		CheckTimeout: envMS("CHECK_TIMEOUT_MS", 30*time.Second),

		IntelURL:     os.Getenv("INTEL_API_URL"),
		IntelKey:     os.Getenv("INTEL_API_KEY"),
		IntelTimeout: envMS("INTEL_TIMEOUT_MS", 10*time.Second),

		Addr:        env("API_ADDR", "127.0.0.1:8080"),
		APIKeys:     envList("API_KEYS"),
		PublicRPM:   envInt("PUBLIC_RPM", 60),
		PublicBurst: envInt("PUBLIC_BURST", 20),

		LogDir: env("LOG_DIR", "logs"),
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func envMS(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

// envList splits a comma-separated value, dropping empties and spaces.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
