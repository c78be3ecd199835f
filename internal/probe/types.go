package probe

import (
	"encoding/json"
	"fmt"
)

// Verdict classifies how a single probe attempt resolved.
type Verdict int

const (
	VerdictOpen     Verdict = iota // request or handshake completed
	VerdictRejected                // server answered with a non-200 status
	VerdictFailed                  // connection could not be established
	VerdictTimeout                 // no resolution within the probe timeout
)

func (v Verdict) String() string {
	switch v {
	case VerdictOpen:
		return "open"
	case VerdictRejected:
		return "rejected"
	case VerdictFailed:
		return "failed"
	case VerdictTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Verdict) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "open":
		*v = VerdictOpen
	case "rejected":
		*v = VerdictRejected
	case "failed":
		*v = VerdictFailed
	case "timeout":
		*v = VerdictTimeout
	default:
		return fmt.Errorf("unknown verdict %q", s)
	}
	return nil
}

// Probe labels in the order reports present them.
const (
	ProbeHTTP    = "HTTP"
	ProbeTLS     = "SSL"
	ProbeSocket  = "WebSocket"
	ProbeConnect = "CONNECT"
	ProbeHeader  = "Custom-Header"
)

// Result holds the outcome of a single probe.
type Result struct {
	Probe      string  `json:"probe"`
	Verdict    Verdict `json:"verdict"`
	StatusCode int     `json:"status_code,omitempty"`
	Message    string  `json:"message"`
	LatencyMS  float64 `json:"latency_ms,omitempty"`
}

// OK reports whether the probe counts as a pass in summary lines.
func (r Result) OK() bool { return r.Verdict == VerdictOpen }
