// Package sitesync fetches, reconciles, caches and saves the site document on behalf
// of a consumer that must always have something to render.
package sitesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"sitecms/internal/model"
)

const (
	defaultTimeout     = 1500 * time.Millisecond
	defaultLeadTimeout = 3 * time.Second
	defaultCacheKey    = "site_content_cache"
	maxResponseBytes   = 32 << 20
)

var tracer = otel.Tracer("sitecms/internal/sitesync")

// Config locates the persistence endpoint.
type Config struct {
	Endpoint string
	// Timeout bounds Load; zero means 1.5s.
	Timeout time.Duration
	// CacheKey names the single cache entry; empty means "site_content_cache".
	CacheKey string
}

// Client synchronizes the site document with the persistence endpoint.
type Client struct {
	endpoint    string
	timeout     time.Duration
	leadTimeout time.Duration
	cacheKey    string
	http        *http.Client
	cache       Cache
	logger      *zap.Logger
	defaults    func() model.SiteContent
	now         func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDefaults replaces the built-in default document used for reconciliation and
// as the last fallback.
func WithDefaults(fn func() model.SiteContent) Option {
	return func(c *Client) { c.defaults = fn }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLeadTimeout(d time.Duration) Option {
	return func(c *Client) { c.leadTimeout = d }
}

// New builds a Client. Without options it uses an otelhttp-instrumented HTTP client,
// an in-memory cache and a no-op logger.
func New(cfg Config, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("sitesync: invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	c := &Client{
		endpoint:    cfg.Endpoint,
		timeout:     cfg.Timeout,
		leadTimeout: defaultLeadTimeout,
		cacheKey:    cfg.CacheKey,
		http:        &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		cache:       NewMemoryCache(),
		logger:      zap.NewNop(),
		defaults:    model.DefaultSiteContent,
		now:         time.Now,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.cacheKey == "" {
		c.cacheKey = defaultCacheKey
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("sitesync")
	return c, nil
}

// Source tells where a loaded document came from.
type Source string

const (
	SourceNetwork  Source = "network"
	SourceCache    Source = "cache"
	SourceDefaults Source = "defaults"
)

// Load returns a schema-complete document. It never fails: when the endpoint cannot
// supply usable content it falls back to the cached document, then to the defaults.
func (c *Client) Load(ctx context.Context) model.SiteContent {
	doc, _ := c.LoadWithSource(ctx)
	return doc
}

// LoadWithSource is Load that also reports which step of the fallback chain answered.
func (c *Client) LoadWithSource(ctx context.Context) (model.SiteContent, Source) {
	ctx, span := tracer.Start(ctx, "sitesync.Load")
	defer span.End()

	doc, src := c.load(ctx)
	span.SetAttributes(attribute.String("sitesync.source", string(src)))
	return doc, src
}

func (c *Client) load(ctx context.Context) (model.SiteContent, Source) {
	doc, err := c.fetch(ctx)
	if err == nil {
		if b, err := json.Marshal(doc); err == nil {
			if err := c.cache.Put(ctx, c.cacheKey, b); err != nil {
				c.logger.Warn("cache_write_failed", zap.Error(err))
			}
		}
		return doc, SourceNetwork
	}
	c.logger.Warn("site_content_fetch_failed", zap.String("endpoint", c.endpoint), zap.Error(err))

	if doc, ok := c.cached(ctx); ok {
		return doc, SourceCache
	}
	return c.defaults(), SourceDefaults
}

func (c *Client) fetch(ctx context.Context) (model.SiteContent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return model.SiteContent{}, err
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.SiteContent{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.SiteContent{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.SiteContent{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.SiteContent{}, &ServerError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return model.SiteContent{}, ErrMalformed
	}
	if err := classify(obj); err != nil {
		return model.SiteContent{}, err
	}
	return Reconcile(c.defaults(), obj)
}

func (c *Client) cached(ctx context.Context) (model.SiteContent, bool) {
	b, ok, err := c.cache.Get(ctx, c.cacheKey)
	if err != nil {
		c.logger.Warn("cache_read_failed", zap.Error(err))
		return model.SiteContent{}, false
	}
	if !ok {
		return model.SiteContent{}, false
	}
	var doc model.SiteContent
	if err := json.Unmarshal(b, &doc); err != nil {
		c.logger.Warn("cache_entry_corrupt", zap.Error(err))
		return model.SiteContent{}, false
	}
	return doc, true
}

// Save transmits doc in full, once. The cache is only updated after the endpoint
// confirms the write; on failure the returned error carries the server's message.
func (c *Client) Save(ctx context.Context, doc model.SiteContent) error {
	ctx, span := tracer.Start(ctx, "sitesync.Save")
	defer span.End()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode site content: %w", err)
	}
	if err := c.post(ctx, body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		c.logger.Error("site_content_save_failed", zap.Error(err))
		return err
	}

	if err := c.cache.Put(ctx, c.cacheKey, body); err != nil {
		c.logger.Warn("cache_write_failed", zap.Error(err))
	}
	c.logger.Info("site_content_saved", zap.Int("bytes", len(body)))
	return nil
}

// NotifyLead sends a lead event. Every failure is logged and swallowed.
func (c *Client) NotifyLead(ctx context.Context, name, email string) {
	ctx, span := tracer.Start(ctx, "sitesync.NotifyLead")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.leadTimeout)
	defer cancel()

	body, err := json.Marshal(model.LeadEvent{
		ActionType: model.LeadEventAction,
		Name:       name,
		Email:      email,
		EventTime:  c.now().Unix(),
	})
	if err != nil {
		c.logger.Warn("lead_event_failed", zap.Error(err))
		return
	}
	if err := c.post(ctx, body); err != nil {
		c.logger.Warn("lead_event_failed", zap.Error(err))
	}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok, ok := ctx.Value(bearerKey{}).(string); ok && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	var obj map[string]json.RawMessage
	_ = json.Unmarshal(respBody, &obj)
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if msg, ok := obj["error"]; ok {
			return &ServerError{StatusCode: resp.StatusCode, Message: errorMessage(msg)}
		}
		return nil
	}

	se := &ServerError{StatusCode: resp.StatusCode, Message: "Failed to save on server"}
	if msg, ok := obj["error"]; ok {
		se.Message = errorMessage(msg)
	} else if msg, ok := obj["message"]; ok {
		se.Message = errorMessage(msg)
	}
	return se
}

type bearerKey struct{}

// WithBearer attaches an editor session token to requests made with ctx.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}
