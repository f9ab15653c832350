package dispatch

import "context"

// Dispatcher hands an outbound URL to the platform's link resolver. The
// handoff manager treats every dispatch as fire-and-forget: errors are
// logged by the caller and never propagated further, since a deep-link
// open has no reliable feedback channel.
type Dispatcher interface {
	OpenURL(ctx context.Context, rawURL string) error
}

// Func adapts a plain function to the Dispatcher interface.
type Func func(ctx context.Context, rawURL string) error

// OpenURL calls f.
func (f Func) OpenURL(ctx context.Context, rawURL string) error {
	return f(ctx, rawURL)
}
