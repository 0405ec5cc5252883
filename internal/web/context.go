package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for import history.
// RemoteAddr has already been resolved by the TrustedRealIP middleware.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.WithClient(ctx, core.Client{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}
