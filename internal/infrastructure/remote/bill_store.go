// Package remote lists bills from the Billed REST API.
package remote

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

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	billsPath       = "/bills"
	maxResponseSize = 10 << 20
)

// ErrUnavailable is wrapped by every failure to reach the API at all
var ErrUnavailable = errors.New("remote bill store unavailable")

// Client talks to the bills API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the API at cfg.BaseURL
func NewClient(cfg config.RemoteStoreConfig, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote store base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote store base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote store base URL must be http or https, got %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ForSession returns a store authenticated with the session's token
func (c *Client) ForSession(s session.Context) *BillStore {
	return &BillStore{client: c, token: s.JWT}
}

// BillStore lists the bills visible to one bearer token
type BillStore struct {
	client *Client
	token  string
}

// List returns every bill the token may see, in API order
func (s *BillStore) List(ctx context.Context) ([]bill.Bill, error) {
	return s.client.list(ctx, s.token, nil)
}

// ListByEmail returns the bills of one user
func (s *BillStore) ListByEmail(ctx context.Context, email string) ([]bill.Bill, error) {
	return s.client.list(ctx, s.token, url.Values{"email": {email}})
}

func (c *Client) list(ctx context.Context, token string, query url.Values) ([]bill.Bill, error) {
	u := *c.baseURL
	u.Path += billsPath
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read bills response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Remote bill store rejected request",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", u.Redacted()),
		)
		return nil, bill.NewTransportError(resp.StatusCode, fmt.Errorf("GET %s: %s", u.Path, errorDetail(body)))
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode bills response: %w", err)
	}

	bills := make([]bill.Bill, 0, len(records))
	for i, raw := range records {
		b, bad := decodeBill(raw)
		if len(bad) > 0 {
			c.logger.Warn("bill record decoded partially",
				zap.Int("index", i),
				zap.String("bill_id", b.ID),
				zap.Strings("fields", bad),
				zap.ByteString("record", raw),
			)
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// decodeBill decodes each field of one record on its own so a bad field
// only loses itself. It returns the names of the fields that did not decode,
// or "record" when raw is not an object.
func decodeBill(raw json.RawMessage) (bill.Bill, []string) {
	var b bill.Bill
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return b, []string{"record"}
	}

	fields := []struct {
		name string
		dst  any
	}{
		{"id", &b.ID},
		{"type", &b.Type},
		{"name", &b.Name},
		{"date", &b.Date},
		{"amount", &b.Amount},
		{"vat", &b.VAT},
		{"pct", &b.PCT},
		{"commentary", &b.Commentary},
		{"status", &b.Status},
		{"commentAdmin", &b.CommentAdmin},
		{"email", &b.Email},
		{"fileUrl", &b.FileURL},
		{"fileName", &b.FileName},
	}
	var bad []string
	for _, f := range fields {
		v, ok := obj[f.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			bad = append(bad, f.name)
		}
	}
	return b, bad
}

// errorDetail extracts {"message": "..."} from an error body, if present
func errorDetail(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return strings.TrimSpace(string(body))
}
