package onsecurity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/onsecurity/onsec-mcp/pkg/apimetrics"
	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/duration"
	"github.com/onsecurity/onsec-mcp/pkg/jsonutil"
	"github.com/onsecurity/onsec-mcp/pkg/retry"
)

// ErrorKind classifies an upstream failure for internal observability.
// The tool layer renders every kind as the same friendly message; the
// kind drives metrics labels and log lines only.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindDecode  ErrorKind = "decode"
)

// APIError is a typed upstream failure.
type APIError struct {
	Kind   ErrorKind
	Status int // HTTP status when Kind == KindStatus
	URL    string
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upstream returned status %d for %s", e.Status, e.URL)
	case KindDecode:
		return fmt.Sprintf("decoding response from %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("requesting %s: %v", e.URL, e.Err)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64 // requests/sec, 0 = unlimited
	Retry     retry.Config
	Logger    *log.Logger
	Metrics   *apimetrics.Metrics
}

// Client talks to the OnSecurity REST API. All methods are safe for
// concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	retry   retry.Config
	logger  *log.Logger
	metrics *apimetrics.Metrics
	tracer  trace.Tracer
}

// NewClient builds a Client from opts. Zero-value fields get sensible
// defaults; only BaseURL and Token are required.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = duration.HTTPUpstream
	}
	retryCfg := opts.Retry
	if retryCfg.MaxAttempts <= 0 {
		retryCfg = retry.Single()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		retry:   retryCfg,
		logger:  logger,
		metrics: opts.Metrics,
		tracer:  otel.Tracer(defaults.ToolName),
	}
}

// BaseURL returns the configured upstream base.
func (c *Client) BaseURL() string { return c.baseURL }

// Get fetches pathAndQuery (relative to the API base, e.g.
// "rounds?page=1") and decodes the JSON body into T. Methods cannot be
// generic in Go, so this is a package function taking the client.
func Get[T any](ctx context.Context, c *Client, pathAndQuery string) (*T, error) {
	var out T
	if err := c.getJSON(ctx, pathAndQuery, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRaw fetches pathAndQuery and returns the raw JSON body, for
// resource endpoints that pass upstream JSON through untouched.
func (c *Client) GetRaw(ctx context.Context, pathAndQuery string) ([]byte, error) {
	var raw jsonutil.RawValue
	if err := c.getJSON(ctx, pathAndQuery, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, pathAndQuery string, out any) error {
	resource := resourceOf(pathAndQuery)
	fullURL := c.baseURL + "/" + strings.TrimLeft(pathAndQuery, "/")

	ctx, span := c.tracer.Start(ctx, "onsecurity.get",
		trace.WithAttributes(
			attribute.String("onsecurity.resource", resource),
			attribute.String("http.url", fullURL),
		))
	defer span.End()

	start := time.Now()
	err := retry.Do(ctx, c.retry, func() error {
		callErr := c.doOnce(ctx, fullURL, out)
		var apiErr *APIError
		if errors.As(callErr, &apiErr) && apiErr.Kind == KindStatus && apiErr.Status < 500 {
			// 4xx is permanent: retrying an auth or validation error
			// just burns the rate budget.
			return retry.Stop(callErr)
		}
		return callErr
	})
	elapsed := time.Since(start)

	outcome := apimetrics.OutcomeOK
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			outcome = string(apiErr.Kind)
		} else {
			outcome = apimetrics.OutcomeNetwork
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Printf("upstream %s failed after %s: %v", resource, elapsed.Round(time.Millisecond), err)
	}
	c.metrics.Observe(resource, outcome, elapsed)
	return err
}

// doOnce performs a single HTTP round trip.
func (c *Client) doOnce(ctx context.Context, fullURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &APIError{Kind: KindNetwork, URL: fullURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &APIError{Kind: KindNetwork, URL: fullURL, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", defaults.ContentTypeJSON)
	req.Header.Set("Content-Type", defaults.ContentTypeJSON)
	req.Header.Set("User-Agent", defaults.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindNetwork, URL: fullURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Kind:   KindStatus,
			Status: resp.StatusCode,
			URL:    fullURL,
			Err:    fmt.Errorf("body: %s", firstLine(body)),
		}
	}

	if err := jsonutil.Unmarshal(body, out); err != nil {
		return &APIError{Kind: KindDecode, URL: fullURL, Err: err}
	}
	return nil
}

// resourceOf extracts the resource name for metrics labels, keeping
// label cardinality bounded (no IDs). Namespaced resources like
// "platform/tasks" keep both segments so pods and tasks get distinct
// labels.
func resourceOf(pathAndQuery string) string {
	p := strings.TrimLeft(pathAndQuery, "/")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	segs := strings.SplitN(p, "/", 3)
	if segs[0] == "" {
		return "unknown"
	}
	if segs[0] == "platform" && len(segs) > 1 && segs[1] != "" {
		return segs[0] + "/" + segs[1]
	}
	return segs[0]
}

// firstLine clips an error body for logging.
func firstLine(body []byte) string {
	s := strings.TrimSpace(string(body))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > defaults.LongTextClip {
		s = s[:defaults.LongTextClip]
	}
	return s
}
