package xms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// Version is the library version sent in the XMS-SDK-Version header.
	Version = "1.2.0"
	// DefaultEndpoint is the public XMS API endpoint.
	DefaultEndpoint = "https://api.clxcommunications.com/xms"
)

// Client represents an XMS API client. A Client owns a single connection
// handle for its whole lifetime and must not be used from several
// goroutines at once.
type Client struct {
	endpoint      string
	servicePlanID string
	token         string
	http          *resty.Client
	logger        zerolog.Logger
	observer      Observer
	userAgent     string

	// sharedTransport is set when the transport belongs to a caller
	// supplied http.Client; Close then leaves its connections alone.
	sharedTransport bool

	closeOnce sync.Once
	closed    bool
}

// NewClient creates a new XMS client for the given service plan. No network
// I/O is performed.
func NewClient(servicePlanID, token string, opts ...Option) (*Client, error) {
	if servicePlanID == "" {
		return nil, fmt.Errorf("%w: service plan id is required", ErrInvalidConfig)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := strings.TrimRight(o.endpoint, "/")
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", ErrInvalidConfig, o.endpoint)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		hc := *o.httpClient
		rc = resty.NewWithClient(&hc)
	} else {
		rc = resty.New()
	}
	rc.SetTimeout(o.timeout)
	rc.SetRetryCount(0)
	rc.SetLogger(restyLogger{logger: o.logger})

	return &Client{
		endpoint:      endpoint,
		servicePlanID: servicePlanID,
		token:         token,
		http:          rc,
		logger:        o.logger,
		observer:      o.observer,
		userAgent:     fmt.Sprintf("xms-go/%s resty/%s %s", Version, resty.Version, runtime.Version()),

		sharedTransport: o.httpClient != nil,
	}, nil
}

// ServicePlanID returns the service plan the client is scoped to.
func (c *Client) ServicePlanID() string {
	return c.servicePlanID
}

// Close releases the connection handle. It is safe to call more than once;
// every call made afterwards fails with ErrClientClosed.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed = true
		if !c.sharedTransport {
			c.http.GetClient().CloseIdleConnections()
		}
	})
	return nil
}

// do executes a request and classifies the response. The returned body is
// the untouched payload of a 200 or 201 response.
func (c *Client) do(ctx context.Context, method, requestURL string, body []byte) ([]byte, error) {
	if c.closed {
		return nil, ErrClientClosed
	}

	resp, err := c.execute(ctx, newRequest(method, requestURL, body))
	if err != nil {
		return nil, err
	}

	if err := classify(resp.status, resp.body, requestURL, c.servicePlanID, c.token); err != nil {
		return nil, err
	}
	return resp.body, nil
}

// doJSON encodes in (when non-nil), performs the call and decodes the
// response into a new T.
func doJSON[T any](ctx context.Context, c *Client, method, requestURL string, in any) (*T, error) {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = b
	}

	raw, err := c.do(ctx, method, requestURL, body)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}
