package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/xid"
	"go.uber.org/zap"

	apimw "github.com/Lenagitpus/hostcheckbot/internal/httpapi/middleware"
	"github.com/Lenagitpus/hostcheckbot/internal/intel"
	"github.com/Lenagitpus/hostcheckbot/internal/probe"
)

// Prober runs the reachability checks the API exposes.
type Prober interface {
	MethodCheck(ctx context.Context, host string) []probe.Result
	PayloadCheck(ctx context.Context, host string) []probe.TranscriptEntry
	Resolve(ctx context.Context, host string) probe.ResolveResult
}

// Intel answers related-domain lookups. May be left nil when the upstream
// API is not configured.
type Intel interface {
	Related(ctx context.Context, host string) ([]string, error)
	Detail(ctx context.Context, host string) (intel.Record, error)
}

type Server struct {
	Logger  *zap.Logger
	Prober  Prober
	Intel   Intel
	Timeout time.Duration // budget for one check request

	Keys  []string // optional X-API-Key gate for /api
	RPM   int      // per-IP rate limit, 0 disables
	Burst int
}

func NewServer(l *zap.Logger, p Prober, ic Intel) *Server {
	return &Server{Logger: l, Prober: p, Intel: ic, Timeout: 30 * time.Second}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(s.RPM, s.Burst))
		r.Use(apimw.RequireKey(s.Keys))

		r.Post("/checks/method", s.handleMethodCheck)
		r.Post("/checks/payload", s.handlePayloadCheck)
		r.Post("/checks/resolve", s.handleResolve)
		r.Post("/intel/related", s.handleRelated)
	})

	return r
}

type checkPayload struct {
	Host string `json:"host"`
}

type methodResponse struct {
	ID      string         `json:"id"`
	Host    string         `json:"host"`
	Results []probe.Result `json:"results"`
}

type payloadResponse struct {
	ID         string                  `json:"id"`
	Host       string                  `json:"host"`
	Transcript []probe.TranscriptEntry `json:"transcript"`
}

type resolveResponse struct {
	ID    string   `json:"id"`
	Host  string   `json:"host"`
	OK    bool     `json:"ok"`
	Addrs []string `json:"addrs,omitempty"`
	Error string   `json:"error,omitempty"`
}

type relatedResponse struct {
	ID         string       `json:"id"`
	Host       string       `json:"host"`
	Parent     string       `json:"parent"`
	Detail     intel.Record `json:"detail"`
	Subdomains []string     `json:"subdomains"`
}

func (s *Server) handleMethodCheck(w http.ResponseWriter, r *http.Request) {
	host, ok := s.readHost(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()

	id := xid.New().String()
	results := s.Prober.MethodCheck(ctx, host)

	passed := 0
	for _, res := range results {
		if res.OK() {
			passed++
		}
	}
	s.Logger.Info("api_method_check",
		zap.String("id", id),
		zap.String("host", host),
		zap.Int("passed", passed),
		zap.Int("total", len(results)),
	)
	writeJSON(w, methodResponse{ID: id, Host: host, Results: results})
}

func (s *Server) handlePayloadCheck(w http.ResponseWriter, r *http.Request) {
	host, ok := s.readHost(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()

	id := xid.New().String()
	transcript := s.Prober.PayloadCheck(ctx, host)

	s.Logger.Info("api_payload_check",
		zap.String("id", id),
		zap.String("host", host),
		zap.Int("steps", len(transcript)),
	)
	writeJSON(w, payloadResponse{ID: id, Host: host, Transcript: transcript})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	host, ok := s.readHost(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()

	id := xid.New().String()
	res := s.Prober.Resolve(ctx, host)

	s.Logger.Info("api_resolve",
		zap.String("id", id),
		zap.String("host", host),
		zap.Bool("ok", res.OK()),
	)
	writeJSON(w, resolveResponse{
		ID:    id,
		Host:  res.Host,
		OK:    res.OK(),
		Addrs: res.Addrs,
		Error: res.Err,
	})
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	if s.Intel == nil {
		http.Error(w, "intel not configured", http.StatusServiceUnavailable)
		return
	}
	host, ok := s.readHost(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()

	id := xid.New().String()
	detail, err := s.Intel.Detail(ctx, host)
	if err != nil {
		s.Logger.Warn("api_intel_error", zap.String("id", id), zap.String("host", host), zap.Error(err))
		http.Error(w, "intel unreachable", http.StatusBadGateway)
		return
	}
	subs, err := s.Intel.Related(ctx, host)
	if err != nil {
		s.Logger.Warn("api_intel_error", zap.String("id", id), zap.String("host", host), zap.Error(err))
		http.Error(w, "intel unreachable", http.StatusBadGateway)
		return
	}

	s.Logger.Info("api_related",
		zap.String("id", id),
		zap.String("host", host),
		zap.String("parent", detail.Parent),
		zap.Int("subdomains", len(subs)),
	)
	writeJSON(w, relatedResponse{
		ID:         id,
		Host:       host,
		Parent:     detail.Parent,
		Detail:     detail,
		Subdomains: subs,
	})
}

// readHost decodes the request body and validates the host token. Probes
// take bare hosts; anything URL-shaped is a client mistake.
func (s *Server) readHost(w http.ResponseWriter, r *http.Request) (string, bool) {
	var p checkPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return "", false
	}
	host, ok := cleanHost(p.Host)
	if !ok {
		http.Error(w, "bad host", http.StatusBadRequest)
		return "", false
	}
	return host, true
}

func cleanHost(raw string) (string, bool) {
	h := strings.TrimSpace(raw)
	if h == "" ||
		strings.Contains(h, "://") ||
		strings.ContainsAny(h, "/ \t") {
		return "", false
	}
	return h, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
