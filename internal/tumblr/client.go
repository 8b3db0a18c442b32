package tumblr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"followerscope/internal/models"
)

const (
	apiBase      = "https://api.tumblr.com/v2"
	authorizeURL = "https://www.tumblr.com/oauth2/authorize"
	tokenURL     = "https://api.tumblr.com/v2/oauth2/token"
)

// Client wraps authenticated calls to the Tumblr v2 API. It holds the
// consumer credentials, the redirect URI and at most one bearer token.
// Construct one per request with the token restored from the session.
type Client struct {
	consumerKey    string
	consumerSecret string
	redirectURI    string

	baseURL  string
	tokenURL string

	httpClient *http.Client
	token      *models.Token
	now        func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithEndpoints overrides the API base and token endpoint URLs.
func WithEndpoints(baseURL, tokenURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
		c.tokenURL = tokenURL
	}
}

// NewClient creates a client from explicit configuration values. token
// may be nil when no session token exists yet.
func NewClient(consumerKey, consumerSecret, redirectURI string, token *models.Token, opts ...Option) *Client {
	c := &Client{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		redirectURI:    redirectURI,
		baseURL:        apiBase,
		tokenURL:       tokenURL,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		token:          token,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the currently held bearer token, or nil.
func (c *Client) Token() *models.Token {
	return c.token
}

// IsAuthenticated reports whether a non-expired token is held.
func (c *Client) IsAuthenticated() bool {
	return c.token != nil && !c.token.Expired(c.now())
}

// envelope is the {meta, response} wrapper around every API payload.
type envelope struct {
	Meta struct {
		Status int    `json:"status"`
		Msg    string `json:"msg"`
	} `json:"meta"`
	Response json.RawMessage `json:"response"`
}

// privilegedHeaders builds a fresh header set for an authenticated call.
// A new map is allocated per request; nothing is shared between calls.
func (c *Client) privilegedHeaders() (http.Header, error) {
	if !c.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+c.token.AccessToken)
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", "followerscope/1.0")
	return headers, nil
}

// Get performs an authenticated GET against the API and returns the
// unwrapped response payload.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	headers, err := c.privilegedHeaders()
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header = headers

	return c.do(req)
}

// Post performs an authenticated form POST against the API and returns
// the unwrapped response payload.
func (c *Client) Post(ctx context.Context, path string, form url.Values) (json.RawMessage, error) {
	headers, err := c.privilegedHeaders()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header = headers
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, rateLimitError(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Path:       req.URL.Path,
			Body:       string(body),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedResponseError{Field: "response"}
	}
	if env.Response == nil {
		return nil, &MalformedResponseError{Field: "response"}
	}
	return env.Response, nil
}

func rateLimitError(resp *http.Response) error {
	rl := &RateLimitError{}
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			rl.RetryAfter = time.Duration(seconds) * time.Second
		}
	}
	return rl
}
