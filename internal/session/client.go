// Package session owns the authenticated HTTP session against FunPay: the
// cookie jar, the csrf token, request pacing and the retry policy.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

const (
	DefaultBaseURL        = "https://funpay.com"
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxAttempts    = 3
	DefaultBackoffBase    = 500 * time.Millisecond
	DefaultBackoffCap     = 10 * time.Second

	maxResponseBytes  = 8 << 20
	maxErrorBodyRunes = 200

	goldenKeyCookie   = "golden_key"
	cookiePrefsCookie = "cookie_prefs"
	sessionCookie     = "PHPSESSID"
)

type Config struct {
	BaseURL        string
	GoldenKey      string
	UserAgent      string
	Locale         string
	Proxy          string
	RequestTimeout time.Duration
	MaxAttempts    int
	BackoffBase    time.Duration
	BackoffCap     time.Duration
	// RateLimit is the sustained requests per second; zero disables pacing.
	RateLimit float64
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = DefaultBackoffCap
	}
	return c
}

type Option func(*Client)

// WithHTTPClient replaces the transport. The client's cookie jar is always the
// session's own.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient == nil {
			return
		}
		copied := *httpClient
		c.http = &copied
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithClock(clock ports.Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Client is safe for concurrent use. Its mutable session state is guarded by mu.
type Client struct {
	cfg     Config
	base    *url.URL
	http    *http.Client
	parser  ports.ResponseParser
	limiter *rate.Limiter
	clock   ports.Clock
	logger  *zap.Logger

	mu              sync.RWMutex
	initiated       bool
	identity        domain.Identity
	lastContact     time.Time
	lastRateLimited time.Time
}

func New(cfg Config, parser ports.ResponseParser, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if cfg.GoldenKey == "" {
		return nil, errors.New("golden key is required")
	}
	if parser == nil {
		return nil, errors.New("response parser is required")
	}

	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		base:   base,
		parser: parser,
		clock:  ports.SystemClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.Proxy != "" {
			proxyURL, err := url.Parse(cfg.Proxy)
			if err != nil {
				return nil, fmt.Errorf("parse proxy url: %w", err)
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}
		c.http = &http.Client{Transport: transport}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	jar.SetCookies(base, []*http.Cookie{
		{Name: goldenKeyCookie, Value: cfg.GoldenKey, Path: "/"},
		{Name: cookiePrefsCookie, Value: "1", Path: "/"},
	})
	c.http.Jar = jar

	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return c, nil
}

// Initiate requests the main page and records the identity it reports. A page
// without a user block means the golden key was rejected.
func (c *Client) Initiate(ctx context.Context) (domain.Identity, error) {
	resp, err := c.Do(ctx, Endpoint{Name: "identity", Method: http.MethodGet, Path: "/"})
	if err != nil {
		c.reset()
		return domain.Identity{}, fmt.Errorf("initiate session: %w", err)
	}

	identity, err := c.parser.ParseAccount(resp.Body)
	if err != nil {
		c.reset()
		return domain.Identity{}, fmt.Errorf("initiate session: %w", err)
	}
	if !identity.Valid() {
		c.reset()
		return domain.Identity{}, &domain.AuthenticationError{Reason: "main page has no user block"}
	}
	if identity.Locale == "" {
		identity.Locale = c.cfg.Locale
	}

	c.mu.Lock()
	c.initiated = true
	c.identity = identity
	c.mu.Unlock()

	c.logger.Info("session initiated",
		zap.Int64("user_id", identity.UserID),
		zap.String("username", identity.Username),
		zap.Bool("has_session_cookie", c.hasSessionCookie()),
	)
	return identity, nil
}

// Logout follows the logout link of the current identity and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	identity, ok := c.Identity()
	if !ok {
		return domain.ErrNotInitiated
	}

	path := identity.LogoutPath
	if path == "" {
		path = "/account/logout"
	}
	if _, err := c.Do(ctx, Endpoint{Name: "logout", Method: http.MethodGet, Path: path}); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	c.reset()
	return nil
}

// Do performs one logical call, retrying transient failures with capped
// exponential backoff.
func (c *Client) Do(ctx context.Context, ep Endpoint) (Response, error) {
	form, err := c.formFor(ep)
	if err != nil {
		return Response{}, err
	}

	attempts := 0
	var result Response
	err = retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempts++
		resp, err := c.attempt(ctx, ep, form)
		if err != nil {
			if transientError(ctx, err) {
				c.logger.Warn("transient request failure",
					zap.String("endpoint", ep.name()),
					zap.Int("attempt", attempts),
					zap.Error(err),
				)
				return retry.RetryableError(err)
			}
			return err
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return &domain.AuthenticationError{StatusCode: resp.StatusCode, Reason: ep.name() + " rejected the session"}
		case transientStatus(resp.StatusCode):
			if resp.StatusCode == http.StatusTooManyRequests {
				c.markRateLimited()
			}
			c.logger.Warn("transient response status",
				zap.String("endpoint", ep.name()),
				zap.Int("attempt", attempts),
				zap.Int("status", resp.StatusCode),
			)
			return retry.RetryableError(&statusError{StatusCode: resp.StatusCode})
		case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest:
			return &domain.RequestFailedError{
				Endpoint:   ep.name(),
				StatusCode: resp.StatusCode,
				Body:       truncate(string(resp.Body), maxErrorBodyRunes),
			}
		}

		result = resp
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		var authErr *domain.AuthenticationError
		var failedErr *domain.RequestFailedError
		if errors.As(err, &authErr) || errors.As(err, &failedErr) || errors.Is(err, domain.ErrNotInitiated) {
			return Response{}, err
		}
		return Response{}, &domain.TransientRequestError{Endpoint: ep.name(), Attempts: attempts, Err: err}
	}

	c.mu.Lock()
	c.lastContact = c.clock.Now()
	c.mu.Unlock()

	return result, nil
}

func (c *Client) attempt(ctx context.Context, ep Endpoint, form url.Values) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	requestCtx, cancel := context.WithTimeout(ctx, requestTimeout(c.cfg.RequestTimeout))
	defer cancel()

	endpoint := c.resolve(ep)
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(requestCtx, ep.method(), endpoint, body)
	if err != nil {
		return Response{}, fmt.Errorf("create %s request: %w", ep.name(), err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}
	if ep.XHR {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	c.logger.Debug("request", zap.String("endpoint", ep.name()), zap.String("url", endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request %s: %w", ep.name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("read %s response: %w", ep.name(), err)
	}

	return Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: bytes.TrimSpace(payload)}, nil
}

func (c *Client) formFor(ep Endpoint) (url.Values, error) {
	if ep.Form == nil && !ep.CSRF {
		return nil, nil
	}

	form := url.Values{}
	for key, values := range ep.Form {
		form[key] = append([]string(nil), values...)
	}
	if ep.CSRF {
		identity, ok := c.Identity()
		if !ok {
			return nil, domain.ErrNotInitiated
		}
		form.Set("csrf_token", identity.CSRFToken)
	}
	return form, nil
}

func (c *Client) resolve(ep Endpoint) string {
	locale := ep.Locale
	if locale == "" {
		locale = c.cfg.Locale
	}

	u := *c.base
	u.Path = strings.TrimSuffix(c.base.Path, "/") + normalizePath(ep.Path, locale)
	if len(ep.Query) > 0 {
		u.RawQuery = ep.Query.Encode()
	}
	return u.String()
}

func (c *Client) IsInitiated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initiated
}

func (c *Client) Identity() (domain.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity, c.initiated
}

// LastContact is the time of the last successful call, zero if none.
func (c *Client) LastContact() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastContact
}

// Stale reports whether the session has not been confirmed within threshold.
func (c *Client) Stale(threshold time.Duration) bool {
	return domain.IsStale(c.LastContact(), c.clock.Now(), threshold)
}

// LastRateLimited is the time the site last answered 429, zero if never.
func (c *Client) LastRateLimited() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRateLimited
}

func (c *Client) markRateLimited() {
	c.mu.Lock()
	c.lastRateLimited = c.clock.Now()
	c.mu.Unlock()
}

func (c *Client) reset() {
	c.mu.Lock()
	c.initiated = false
	c.identity = domain.Identity{}
	c.mu.Unlock()
}

func (c *Client) hasSessionCookie() bool {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == sessionCookie {
			return true
		}
	}
	return false
}

func parseBaseURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("base url host is required")
	}
	return parsed, nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
