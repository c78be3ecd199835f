package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPayloadCheck_ThreeNumberedEntries(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer s.Close()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	host, httpPort := serverHostPort(t, s.URL)

	p := New(2 * time.Second)
	p.HTTPPort = httpPort
	p.TLSPort = ln.Addr().(*net.TCPAddr).Port

	entries := p.PayloadCheck(context.Background(), host)
	if len(entries) != 3 {
		t.Fatalf("want exactly 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Seq != i+1 {
			t.Fatalf("entry %d: want seq %d, got %d", i, i+1, e.Seq)
		}
	}
	if !strings.Contains(entries[1].Desc, "X-Online-Host") {
		t.Fatalf("entry 2 should describe the header step, got %q", entries[1].Desc)
	}
	for _, e := range entries {
		if e.Result.Verdict != VerdictOpen {
			t.Fatalf("step %d: want open, got %+v", e.Seq, e.Result)
		}
	}
}

func TestPayloadCheck_EarlyFailureDoesNotStopLaterSteps(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	p := New(2 * time.Second)
	p.HTTPPort = closedPort(t) // steps 1 and 2 cannot connect
	p.TLSPort = ln.Addr().(*net.TCPAddr).Port

	entries := p.PayloadCheck(context.Background(), "127.0.0.1")
	if len(entries) != 3 {
		t.Fatalf("want exactly 3 entries, got %d", len(entries))
	}
	if entries[0].Result.Verdict != VerdictFailed {
		t.Fatalf("step 1: want failed, got %+v", entries[0].Result)
	}
	if entries[1].Result.Verdict != VerdictFailed {
		t.Fatalf("step 2: want failed, got %+v", entries[1].Result)
	}
	if entries[2].Result.Verdict != VerdictOpen {
		t.Fatalf("step 3 must still run and succeed, got %+v", entries[2].Result)
	}
}
