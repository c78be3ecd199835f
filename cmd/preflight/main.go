// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	_ = godotenv.Load()

	token := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	intelURL := strings.TrimSpace(os.Getenv("INTEL_API_URL"))
	intelKey := strings.TrimSpace(os.Getenv("INTEL_API_KEY"))
	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))
	apiKeys := strings.TrimSpace(os.Getenv("API_KEYS"))
	logDir := strings.TrimSpace(os.Getenv("LOG_DIR"))

	if token == "" {
		fail("BOT_TOKEN is empty (cmd/bot will refuse to start).")
	}
	if !strings.Contains(token, ":") {
		warn("BOT_TOKEN does not look like <id>:<secret>; check it against @BotFather.")
	} else {
		ok("BOT_TOKEN present")
	}

	if intelURL == "" {
		warn("INTEL_API_URL empty — related-domain lookups will be disabled.")
	} else {
		ok("INTEL_API_URL=" + intelURL)
		if intelKey == "" {
			warn("INTEL_API_KEY empty — upstream may reject unauthenticated lookups.")
		} else {
			ok("INTEL_API_KEY present")
		}
	}

	if apiAddr == "" {
		warn("API_ADDR is empty; default in your app may be used.")
	} else {
		ok("API_ADDR=" + apiAddr)
	}

	if apiKeys == "" {
		warn("API_KEYS empty — the REST API will accept unauthenticated requests.")
	} else {
		if strings.Contains(apiKeys, " ") {
			warn("API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
		ok("API_KEYS present")
	}

	if logDir == "" {
		warn("LOG_DIR empty — falling back to ./logs")
	} else {
		ok("LOG_DIR=" + logDir)
	}

	ok("preflight passed")
}
