package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"custodian/internal/metrics"
	"custodian/internal/template"
	"custodian/pkg/logging"
	pkgstrings "custodian/pkg/strings"
)

// DefaultHandlerTimeout bounds a single live-status call.
const DefaultHandlerTimeout = 5 * time.Second

// maxPayloadBytes caps how much of a handler response is read.
const maxPayloadBytes = 1 << 20

// HandlerError records a failed live-status call. StatusCode is zero when no
// response was received.
type HandlerError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("handler %s returned HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("handler %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// HTTPFetcher calls team-supplied live-status URLs.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher returns a fetcher bounded by timeout (DefaultHandlerTimeout
// when zero). A nil client gets an otelhttp-instrumented default transport.
func NewHTTPFetcher(timeout time.Duration, client *http.Client) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultHandlerTimeout
	}
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &HTTPFetcher{client: client, timeout: timeout}
}

// Timeout returns the per-call bound.
func (f *HTTPFetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch expands urlTemplate with the escaped id and GETs it. Every
// failure is returned as a *HandlerError; the call is never retried.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlTemplate, id string) (*ResourceInfo, error) {
	start := time.Now()
	info, err := f.fetch(ctx, urlTemplate, id)
	metrics.HandlerCallDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.HandlerCallsTotal.WithLabelValues("http", metrics.OutcomeError).Inc()
		logging.Debug("Registry", "Live-status call for %s failed: %v", id, err)
		return nil, err
	}
	metrics.HandlerCallsTotal.WithLabelValues("http", metrics.OutcomeOK).Inc()
	return info, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, urlTemplate, id string) (*ResourceInfo, error) {
	target, err := template.Default.Expand(urlTemplate, map[string]string{"id": escapeID(id)})
	if err != nil {
		return nil, &HandlerError{URL: urlTemplate, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &HandlerError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "custodian")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", f.timeout)
		}
		return nil, &HandlerError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, &HandlerError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := pkgstrings.TruncateDescription(string(body), pkgstrings.DefaultBodyExcerptLen)
		if excerpt == "" {
			excerpt = http.StatusText(resp.StatusCode)
		}
		return nil, &HandlerError{URL: target, StatusCode: resp.StatusCode, Err: errors.New(excerpt)}
	}

	info := &ResourceInfo{}
	if err := json.Unmarshal(body, info); err != nil {
		if !errors.Is(err, ErrMalformedPayload) {
			err = fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return nil, &HandlerError{URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	if info.ID == "" {
		info.ID = id
	}
	return info, nil
}

// escapeID escapes id so it stays a single path segment or query value
// wherever ${id} sits in the template.
func escapeID(id string) string {
	return strings.ReplaceAll(url.QueryEscape(id), "+", "%20")
}
