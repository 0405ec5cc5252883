package core

import "context"

// Client identifies who sent an import. It is stored in import history.
type Client struct {
	IPAddress string
	UserAgent string
}

type clientKey struct{}

// WithClient attaches the requesting client to ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFromContext returns the client set by WithClient, or the zero Client.
func ClientFromContext(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}
