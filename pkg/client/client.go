package client

import (
	"crypto/tls"
	"net/http"
	"strings"
	"time"
)

// Client represents an orchestra API client
type Client struct {
	baseURL    string
	token      string
	namespace  string
	httpClient *http.Client

	Workshops *WorkshopsService
	Auth      *AuthService
	System    *SystemService
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithToken sets the bearer token sent with every request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithNamespace scopes workshop calls to namespace. The server default is
// used when it is empty.
func WithNamespace(namespace string) ClientOption {
	return func(c *Client) {
		c.namespace = namespace
	}
}

// WithHTTPClient sets the HTTP client for the API client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:errcheck
		if t, ok := c.httpClient.Transport.(*http.Transport); ok {
			transport = t
		}

		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec
		}
		//nolint:gosec
		transport.TLSClientConfig.InsecureSkipVerify = true
		c.httpClient.Transport = transport
	}
}

// WithTimeout sets the timeout for the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new orchestra API client
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, option := range options {
		option(client)
	}

	client.Workshops = NewWorkshopsService(client)
	client.Auth = NewAuthService(client)
	client.System = NewSystemService(client)

	return client
}

// do performs an HTTP request using the client's HTTP client
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}
