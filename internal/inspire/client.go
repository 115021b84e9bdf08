// Package inspire provides a client for the INSPIRE-HEP literature API and
// the strategies used to resolve record identifiers into raw records.
package inspire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the INSPIRE-HEP REST API base URL.
	BaseURL = "https://inspirehep.net/api"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 15 requests per 5 seconds per INSPIRE documentation.
	RateLimit = 3.0

	// RateBurst allows a full window of requests to go out at once.
	RateBurst = 15

	// MaxPageSize caps the number of hits requested by a search.
	MaxPageSize = 100

	// DefaultUserAgent identifies folio to the API.
	DefaultUserAgent = "folio/1.0 (+https://github.com/fjonas/folio)"
)

// DefaultFields is the field projection requested by searches.
var DefaultFields = []string{
	"control_number",
	"titles.title",
	"authors.full_name",
	"collaborations.value",
	"publication_info",
	"preprint_date",
	"earliest_date",
	"arxiv_eprints.value",
	"dois.value",
	"abstracts.value",
	"documents",
	"citation_count",
}

// Client is a rate-limited HTTP client for the INSPIRE-HEP API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing or mirrors).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit replaces the default limiter. A non-positive limit disables
// client-side limiting.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new INSPIRE API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), RateBurst),
		baseURL:    BaseURL,
		userAgent:  DefaultUserAgent,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, recordID string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, recordID)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, RecordID: recordID}
	}
	return nil
}

// get performs a rate-limited GET and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, endpoint string, recordID string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("inspire request",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if err := checkHTTPErrors(resp, recordID); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// GetRecord fetches a single literature record by its control number.
func (c *Client) GetRecord(ctx context.Context, id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty record id", ErrNotFound)
	}

	endpoint := c.baseURL + "/literature/" + url.PathEscape(id)

	var rec Record
	if err := c.get(ctx, endpoint, id, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = RecordID(id)
	}
	return &rec, nil
}

// Search runs a literature query and returns the hits plus the total number
// of matches reported by the API. size is clamped to MaxPageSize; a nil
// fields slice requests DefaultFields.
func (c *Client) Search(ctx context.Context, query string, size int, fields []string) ([]Record, int, error) {
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}
	if fields == nil {
		fields = DefaultFields
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", "mostrecent")
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	endpoint := c.baseURL + "/literature?" + params.Encode()

	var resp searchResponse
	if err := c.get(ctx, endpoint, "", &resp); err != nil {
		return nil, 0, err
	}
	return resp.Hits.Hits, resp.Hits.Total, nil
}

// QueryForIDs builds a boolean OR query matching every record id.
func QueryForIDs(ids []string) string {
	terms := make([]string, 0, len(ids))
	for _, id := range ids {
		terms = append(terms, "recid:"+id)
	}
	return strings.Join(terms, " or ")
}
