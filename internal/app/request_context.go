package app

import (
	"context"
	"strings"
)

// RequestMeta carries caller correlation metadata for one store request.
type RequestMeta struct {
	RequestID string
	Source    string
}

// requestMetaContextKey stores context keys for request metadata values.
type requestMetaContextKey struct{}

// WithRequestMeta attaches normalized request metadata to context.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	meta = normalizeRequestMeta(meta)
	return context.WithValue(ctx, requestMetaContextKey{}, meta)
}

// RequestMetaFromContext returns normalized request metadata when present.
func RequestMetaFromContext(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestMetaContextKey{}).(RequestMeta)
	if !ok {
		return RequestMeta{}, false
	}
	meta = normalizeRequestMeta(meta)
	if meta.RequestID == "" && meta.Source == "" {
		return RequestMeta{}, false
	}
	return meta, true
}

// normalizeRequestMeta trims metadata fields.
func normalizeRequestMeta(meta RequestMeta) RequestMeta {
	meta.RequestID = strings.TrimSpace(meta.RequestID)
	meta.Source = strings.TrimSpace(meta.Source)
	return meta
}
