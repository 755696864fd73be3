package views

import (
	"context"
	"strings"
)

type HandlerOptions struct {
	// PathPrefix where the dashboard is mounted (e.g. "/splitter"), empty if mounted at the root.
	PathPrefix string
}

type handlerOptionsKey struct{}

func WithHandlerOptions(ctx context.Context, opts HandlerOptions) context.Context {
	return context.WithValue(ctx, handlerOptionsKey{}, opts)
}

// url returns path below the dashboard's mount point.
func url(ctx context.Context, path string) string {
	opts, _ := ctx.Value(handlerOptionsKey{}).(HandlerOptions)
	return strings.TrimSuffix(opts.PathPrefix, "/") + path
}
