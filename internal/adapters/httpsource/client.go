package httpsource

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fxchart/internal/ports"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

// Client implements ports.PayloadSource over HTTP. It owns transport
// semantics: status-code checking and a JSON well-formedness check. Shape
// validation of the payload is left to the caller.
type Client struct {
	http   *resty.Client
	logger ports.Logger
}

// Config holds configuration for the HTTP payload source.
type Config struct {
	Timeout time.Duration
	Logger  ports.Logger
}

// New creates a new HTTP payload source.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for HTTP source: %w", ports.ErrConfigurationError)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http:   resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		logger: cfg.Logger,
	}, nil
}

// Fetch retrieves the payload behind the URL. Any transport failure or
// non-2xx status is surfaced as a single ErrFetchFailed; a body that is not
// valid JSON is an ErrInvalidFormat. Both are fatal to this load attempt only.
func (c *Client) Fetch(ctx context.Context, address string) (json.RawMessage, error) {
	c.logger.Debug(ctx, "Fetching chart payload", map[string]interface{}{"address": address})

	resp, err := c.http.R().SetContext(ctx).Get(address)
	if err != nil {
		return nil, fmt.Errorf("request to %q failed: %v: %w", address, err, ports.ErrFetchFailed)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("request to %q returned status %s: %w", address, resp.Status(), ports.ErrFetchFailed)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("response from %q is not valid JSON: %w", address, ports.ErrInvalidFormat)
	}

	c.logger.Debug(ctx, "Payload fetched", map[string]interface{}{"address": address, "bytes": len(resp.Body())})
	return raw, nil
}
