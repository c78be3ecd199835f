package domain

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the per-user check mode selected through the chat menu.
type Mode int

const (
	ModeNone    Mode = iota // no mode picked yet
	ModeMethod              // five-probe reachability matrix
	ModeActive              // DNS liveness check
	ModePayload             // three-step payload transcript
	ModeRelated             // subdomain / domain-detail lookup
)

func (m Mode) String() string {
	switch m {
	case ModeMethod:
		return "method-check"
	case ModeActive:
		return "active-check"
	case ModePayload:
		return "payload-check"
	case ModeRelated:
		return "related-domain-lookup"
	default:
		return "none"
	}
}

// ParseMode accepts the canonical mode names plus the short aliases used by
// the chat menu and the CLI ("method", "1", ...).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "method-check", "method", "1":
		return ModeMethod, nil
	case "active-check", "active", "2":
		return ModeActive, nil
	case "payload-check", "payload", "3":
		return ModePayload, nil
	case "related-domain-lookup", "related", "4":
		return ModeRelated, nil
	case "none", "":
		return ModeNone, nil
	default:
		return ModeNone, fmt.Errorf("unknown mode %q", s)
	}
}

// Session is the whole per-user state: who, which mode, and when we last
// heard from them. Nothing here survives a restart.
type Session struct {
	UserID    int64     `json:"user_id"`
	Mode      Mode      `json:"mode"`
	StartedAt time.Time `json:"started_at"`
	LastSeen  time.Time `json:"last_seen"`
}
