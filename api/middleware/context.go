package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-catalog/pkg/enums"
)

type contextKey string

const (
	ctxRequestID contextKey = "request_id"
	ctxLocale    contextKey = "locale"
)

// RequestIDFromContext returns the request identifier assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

// LocaleFromContext returns the negotiated locale, or the empty Locale when
// the Locale middleware did not run.
func LocaleFromContext(ctx context.Context) enums.Locale {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxLocale).(enums.Locale); ok {
		return v
	}
	return ""
}

// WithLocale injects the request locale into the context.
func WithLocale(ctx context.Context, locale enums.Locale) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLocale, locale)
}

func withRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestID, requestID)
}
