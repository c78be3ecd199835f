package intel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/zan8in/retryablehttp"
	"go.uber.org/zap"
)

// Placeholder stands in for any detail field the upstream API left out.
const Placeholder = "-"

const apiKeyHeader = "X-API-Key"

const maxBody = 2 * 1024 * 1024

// Record is the detail card for a parent domain.
type Record struct {
	Parent    string `json:"parent"`
	Status    string `json:"status"`
	IP        string `json:"ip"`
	ASN       string `json:"asn"`
	Registrar string `json:"registrar"`
	Created   string `json:"created"`
	Updated   string `json:"updated"`
}

// Client talks to the subdomain-intelligence API. Upstream rejections and
// garbage payloads degrade to empty values; only transport-level trouble
// surfaces as an error.
type Client struct {
	base   string
	key    string
	http   *retryablehttp.Client
	logger *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := retryablehttp.DefaultOptionsSingle
	opts.RetryMax = 1
	opts.RetryWaitMax = 2 * time.Second
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		key:    apiKey,
		http:   retryablehttp.NewWithHTTPClient(&http.Client{Timeout: timeout}, opts),
		logger: logger,
	}
}

// ParentDomain keeps the last three dot-separated labels of the host, the
// unit the intelligence API indexes by. Shorter names pass through whole.
func ParentDomain(host string) string {
	h := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
	labels := strings.Split(h, ".")
	if len(labels) <= 3 {
		return h
	}
	return strings.Join(labels[len(labels)-3:], ".")
}

type subdomainsPayload struct {
	Subdomains []string `json:"subdomains"`
}

// Related returns the de-duplicated FQDN list under the host's parent
// domain, the parent itself always included. A rejected or garbled upstream
// answer returns an empty list, not an error.
func (c *Client) Related(ctx context.Context, host string) ([]string, error) {
	parent := ParentDomain(host)
	body, status, err := c.get(ctx, "/v1/domain/"+url.PathEscape(parent)+"/subdomains")
	if err != nil {
		return nil, errors.Wrap(err, "subdomains request")
	}
	if status/100 != 2 {
		c.logger.Warn("intel_degraded",
			zap.String("endpoint", "subdomains"),
			zap.String("parent", parent),
			zap.Int("status", status))
		return []string{}, nil
	}
	var payload subdomainsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Warn("intel_degraded",
			zap.String("endpoint", "subdomains"),
			zap.String("parent", parent),
			zap.Error(err))
		return []string{}, nil
	}
	return normalize(parent, payload.Subdomains), nil
}

// normalize turns bare labels into FQDNs under parent, drops duplicates and
// empties, and keeps the parent as the headline entry.
func normalize(parent string, entries []string) []string {
	out := make([]string, 0, len(entries)+1)
	seen := make(map[string]struct{}, len(entries)+1)
	add := func(fqdn string) {
		if fqdn == "" {
			return
		}
		if _, dup := seen[fqdn]; dup {
			return
		}
		seen[fqdn] = struct{}{}
		out = append(out, fqdn)
	}

	add(parent)
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(e), "."))
		if e == "" {
			continue
		}
		if e != parent && !strings.HasSuffix(e, "."+parent) {
			e += "." + parent
		}
		add(e)
	}
	return out
}

type detailPayload struct {
	Status    flexString `json:"status"`
	IP        flexString `json:"ip"`
	ASN       flexString `json:"asn"`
	Registrar flexString `json:"registrar"`
	Created   flexString `json:"created"`
	Updated   flexString `json:"updated"`
}

// flexString absorbs strings and bare numbers; anything else reads as empty.
// Upstream schemas are not stable enough to be strict about.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*s = flexString(n.String())
		return nil
	}
	*s = ""
	return nil
}

// Detail returns the detail card for the host's parent domain. Fields the
// upstream left out stay "-".
func (c *Client) Detail(ctx context.Context, host string) (Record, error) {
	parent := ParentDomain(host)
	rec := Record{
		Parent:    parent,
		Status:    Placeholder,
		IP:        Placeholder,
		ASN:       Placeholder,
		Registrar: Placeholder,
		Created:   Placeholder,
		Updated:   Placeholder,
	}

	body, status, err := c.get(ctx, "/v1/domain/"+url.PathEscape(parent))
	if err != nil {
		return rec, errors.Wrap(err, "detail request")
	}
	if status/100 != 2 {
		c.logger.Warn("intel_degraded",
			zap.String("endpoint", "detail"),
			zap.String("parent", parent),
			zap.Int("status", status))
		return rec, nil
	}
	var payload detailPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Warn("intel_degraded",
			zap.String("endpoint", "detail"),
			zap.String("parent", parent),
			zap.Error(err))
		return rec, nil
	}
	fill(&rec.Status, payload.Status)
	fill(&rec.IP, payload.IP)
	fill(&rec.ASN, payload.ASN)
	fill(&rec.Registrar, payload.Registrar)
	fill(&rec.Created, payload.Created)
	fill(&rec.Updated, payload.Updated)
	return rec, nil
}

func fill(dst *string, v flexString) {
	if s := strings.TrimSpace(string(v)); s != "" {
		*dst = s
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "build request")
	}
	if c.key != "" {
		req.Header.Set(apiKeyHeader, c.key)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, 0, errors.Wrap(err, "read body")
	}
	return body, resp.StatusCode, nil
}
