package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/Lenagitpus/hostcheckbot/internal/intel"
	"github.com/Lenagitpus/hostcheckbot/internal/probe"
)

// ---- test helpers ----

type fakeProber struct{}

func (fakeProber) MethodCheck(_ context.Context, _ string) []probe.Result {
	return []probe.Result{
		{Probe: probe.ProbeHTTP, Verdict: probe.VerdictOpen, StatusCode: 200, Message: "200 OK", LatencyMS: 12},
		{Probe: probe.ProbeTLS, Verdict: probe.VerdictOpen, Message: "handshake complete (TLS 1.3)"},
		{Probe: probe.ProbeSocket, Verdict: probe.VerdictFailed, Message: "connection refused"},
		{Probe: probe.ProbeConnect, Verdict: probe.VerdictOpen, Message: "connection established"},
		{Probe: probe.ProbeHeader, Verdict: probe.VerdictRejected, StatusCode: 403, Message: "403 Forbidden"},
	}
}

func (fakeProber) PayloadCheck(_ context.Context, _ string) []probe.TranscriptEntry {
	return []probe.TranscriptEntry{
		{Seq: 1, Desc: "GET / without extra headers", Result: probe.Result{Probe: probe.ProbeHTTP, Verdict: probe.VerdictOpen}},
		{Seq: 2, Desc: "GET / with X-Online-Host header", Result: probe.Result{Probe: probe.ProbeHeader, Verdict: probe.VerdictRejected, StatusCode: 403}},
		{Seq: 3, Desc: "TCP connect to port 443", Result: probe.Result{Probe: probe.ProbeConnect, Verdict: probe.VerdictOpen}},
	}
}

func (fakeProber) Resolve(_ context.Context, host string) probe.ResolveResult {
	return probe.ResolveResult{Host: host, Addrs: []string{"192.0.2.10", "192.0.2.11"}}
}

type fakeIntel struct {
	down bool
}

func (f fakeIntel) Related(_ context.Context, _ string) ([]string, error) {
	if f.down {
		return nil, errors.New("dial tcp: connection refused")
	}
	return []string{"example.com", "www.example.com", "mail.example.com"}, nil
}

func (f fakeIntel) Detail(_ context.Context, _ string) (intel.Record, error) {
	if f.down {
		return intel.Record{}, errors.New("dial tcp: connection refused")
	}
	return intel.Record{
		Parent: "example.com", Status: "active", IP: "192.0.2.1",
		ASN: "64500", Registrar: "Example Registrar",
		Created: "2001-01-01", Updated: "2024-01-01",
	}, nil
}

func setupServer(t *testing.T, ic Intel) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(zap.NewNop(), fakeProber{}, ic)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url, body string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// ---- tests ----

func TestMethodCheck_FiveResultsInOrder(t *testing.T) {
	_, ts := setupServer(t, fakeIntel{})

	resp := postJSON(t, ts.URL+"/api/checks/method", `{"host":"example.com"}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out methodResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID == "" || out.Host != "example.com" {
		t.Fatalf("bad envelope: %+v", out)
	}
	wantOrder := []string{
		probe.ProbeHTTP, probe.ProbeTLS, probe.ProbeSocket, probe.ProbeConnect, probe.ProbeHeader,
	}
	if len(out.Results) != len(wantOrder) {
		t.Fatalf("want %d results, got %d", len(wantOrder), len(out.Results))
	}
	for i, want := range wantOrder {
		if out.Results[i].Probe != want {
			t.Errorf("results[%d].Probe = %q, want %q", i, out.Results[i].Probe, want)
		}
	}
	if out.Results[4].StatusCode != 403 {
		t.Errorf("header probe status = %d, want 403", out.Results[4].StatusCode)
	}
}

func TestCheck_RejectsBadHosts(t *testing.T) {
	_, ts := setupServer(t, fakeIntel{})

	for _, body := range []string{
		`{"host":""}`,
		`{"host":"https://example.com"}`,
		`{"host":"example.com/path"}`,
		`{broken`,
	} {
		resp := postJSON(t, ts.URL+"/api/checks/method", body, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: want 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestPayloadCheck_ThreeSteps(t *testing.T) {
	_, ts := setupServer(t, fakeIntel{})

	resp := postJSON(t, ts.URL+"/api/checks/payload", `{"host":"example.com"}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out payloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Transcript) != 3 {
		t.Fatalf("want 3 transcript entries, got %d", len(out.Transcript))
	}
	for i, e := range out.Transcript {
		if e.Seq != i+1 {
			t.Errorf("transcript[%d].Seq = %d, want %d", i, e.Seq, i+1)
		}
	}
}

func TestResolve_ReportsAddrs(t *testing.T) {
	_, ts := setupServer(t, fakeIntel{})

	resp := postJSON(t, ts.URL+"/api/checks/resolve", `{"host":"example.com"}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.OK || len(out.Addrs) != 2 || out.Addrs[0] != "192.0.2.10" {
		t.Fatalf("unexpected resolve response: %+v", out)
	}
}

func TestRelated_ReturnsDetailAndList(t *testing.T) {
	_, ts := setupServer(t, fakeIntel{})

	resp := postJSON(t, ts.URL+"/api/intel/related", `{"host":"www.example.com"}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out relatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Parent != "example.com" {
		t.Errorf("parent = %q, want example.com", out.Parent)
	}
	if out.Detail.Registrar != "Example Registrar" {
		t.Errorf("registrar = %q", out.Detail.Registrar)
	}
	if len(out.Subdomains) != 3 || out.Subdomains[0] != "example.com" {
		t.Errorf("subdomains = %v", out.Subdomains)
	}
}

func TestRelated_UpstreamDownIs502(t *testing.T) {
	_, ts := setupServer(t, fakeIntel{down: true})

	resp := postJSON(t, ts.URL+"/api/intel/related", `{"host":"example.com"}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("want 502, got %d", resp.StatusCode)
	}
}

func TestRelated_UnconfiguredIs503(t *testing.T) {
	_, ts := setupServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/intel/related", `{"host":"example.com"}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", resp.StatusCode)
	}
}

func TestKeyGate_GuardsAPIButNotHealthz(t *testing.T) {
	srv := NewServer(zap.NewNop(), fakeProber{}, fakeIntel{})
	srv.Keys = []string{"sekrit"}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/checks/method", `{"host":"example.com"}`, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no key: want 401, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/checks/method", `{"host":"example.com"}`,
		map[string]string{"X-API-Key": "sekrit"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("with key: want 200, got %d", resp.StatusCode)
	}

	hz, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	hz.Body.Close()
	if hz.StatusCode != http.StatusOK {
		t.Fatalf("healthz should stay open, got %d", hz.StatusCode)
	}
}
