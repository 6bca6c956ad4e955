package xms

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
	observer   Observer
}

func defaultOptions() clientOptions {
	return clientOptions{
		endpoint: DefaultEndpoint,
		timeout:  30 * time.Second,
		logger:   zerolog.Nop(),
	}
}

// WithEndpoint sets the API endpoint, for example a regional host or a test
// server. The "/v1/<service plan>" suffix is added by the client.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithTimeout sets the timeout applied to every HTTP exchange.
// Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient sets the underlying HTTP client, for custom TLS or proxy
// settings. The client is copied, so the caller's value keeps its own
// Timeout while the copy uses the configured one. The transport stays
// shared and Close does not close its idle connections.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithLogger sets the logger receiving one debug record per exchange.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithObserver registers a function called synchronously after every
// completed HTTP exchange.
func WithObserver(observer Observer) Option {
	return func(o *clientOptions) {
		o.observer = observer
	}
}
