package client

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "langsalary/1.0 (+https://github.com/fr4nk3nst1ner/langsalary)"

	maxErrorBody = 512
)

// HTTPError is returned when an API answers with a non-2xx status
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// CreateProxyHTTPClient creates an HTTP client with proxy support
func CreateProxyHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	if proxyURL == "" {
		return CreateHTTPClient(timeout), nil
	}

	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", proxyURL, err)
	}

	httpClient := CreateHTTPClient(timeout)
	httpClient.Transport.(*http.Transport).Proxy = http.ProxyURL(proxy)
	return httpClient, nil
}

// CreateHTTPClient creates a standard HTTP client
func CreateHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// ReadResponseBody reads the response body, handling gzip compression if necessary
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser
	var err error

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	return io.ReadAll(reader)
}

// APIClient performs paced JSON GET requests against one API host.
type APIClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	headers    http.Header
	logger     *pterm.Logger
}

type Option func(*APIClient)

// WithRateLimit caps the request rate. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *APIClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithHeader(key, value string) Option {
	return func(c *APIClient) {
		if value != "" {
			c.headers.Set(key, value)
		}
	}
}

func WithLogger(logger *pterm.Logger) Option {
	return func(c *APIClient) {
		c.logger = logger
	}
}

func NewAPIClient(httpClient *http.Client, opts ...Option) *APIClient {
	if httpClient == nil {
		httpClient = CreateHTTPClient(DefaultTimeout)
	}
	c := &APIClient{
		httpClient: httpClient,
		headers:    apiHeaders(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func apiHeaders() http.Header {
	headers := http.Header{}
	headers.Set("User-Agent", DefaultUserAgent)
	headers.Set("Accept", "application/json")
	headers.Set("Accept-Encoding", "gzip")
	return headers
}

// GetJSON issues GET endpoint?params and decodes the JSON body into out.
func (c *APIClient) GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}

	if c.logger != nil {
		c.logger.Debug("http request", c.logger.Args("url", req.URL.String()))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := ReadResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.String(),
			Body:       string(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
