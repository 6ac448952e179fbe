package diffbot

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

	"productposts/internal/logger"
)

const (
	DefaultBaseURL = "https://api.diffbot.com"
	DefaultTimeout = 30 * time.Second

	minTokenLength = 5
	maxBodyBytes   = 10 << 20
)

var ErrInvalidToken = errors.New("diffbot: invalid token")

// APIError is a failure reported by Diffbot, either as a non-2xx status or
// as an error payload.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("diffbot: API error %d (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("diffbot: API request failed: %d - %s", e.StatusCode, e.Message)
}

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout bounds every call. Ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient rejects tokens that cannot possibly be valid before any request
// is made.
func NewClient(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if len(token) < minTokenLength {
		return nil, ErrInvalidToken
	}

	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Product asks the Product API to extract the product found at pageURL.
func (c *Client) Product(ctx context.Context, pageURL string) (*ProductResponse, error) {
	params := url.Values{}
	params.Set("url", pageURL)
	params.Set("discussion", "false")

	var resp ProductResponse
	if err := c.get(ctx, "/v3/product", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Account fetches the status of the account owning the token.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var acct Account
	if err := c.get(ctx, "/v3/account", url.Values{}, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("token", c.token)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", redactURL(err, c.baseURL+path))
	}
	defer resp.Body.Close()
	c.logger.Debug("diffbot GET %s -> %d in %s", path, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env errorEnvelope
	envErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		if envErr == nil && env.Error != "" {
			apiErr.Code = env.ErrorCode
			apiErr.Message = env.Error
		}
		return apiErr
	}
	if envErr == nil && (env.ErrorCode != 0 || env.Error != "") {
		return &APIError{StatusCode: resp.StatusCode, Code: env.ErrorCode, Message: env.Error}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// redactURL replaces the request URL carried by transport errors, which
// includes the token query parameter, with the bare endpoint.
func redactURL(err error, endpoint string) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{Op: urlErr.Op, URL: endpoint, Err: urlErr.Err}
}
