package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultHTTPTimeout bounds a loopback delivery attempt.
const DefaultHTTPTimeout = 5 * time.Second

// HTTP delivers outbound URLs over plain HTTP GET. Used with the host
// simulator so integration tests can observe ready signals and completion
// reports without an OS link resolver.
type HTTP struct {
	client *resty.Client
}

// NewHTTP creates an HTTP loopback dispatcher.
func NewHTTP() *HTTP {
	return &HTTP{
		client: resty.New().SetTimeout(DefaultHTTPTimeout),
	}
}

// NewHTTPWithClient creates a dispatcher with a preconfigured client.
func NewHTTPWithClient(client *resty.Client) *HTTP {
	return &HTTP{client: client}
}

// OpenURL GETs the URL and treats any non-2xx response as a failed dispatch.
func (h *HTTP) OpenURL(ctx context.Context, rawURL string) error {
	resp, err := h.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return fmt.Errorf("failed to deliver %s: %w", rawURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("delivery of %s rejected: %s", rawURL, resp.Status())
	}
	return nil
}
