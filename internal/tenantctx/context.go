package tenantctx

import (
	"context"
	"strings"
)

// TenantContextKey is the request context key for the resolved tenant ID.
type TenantContextKey struct{}

// WithTenantID stores the tenant ID in the context. The value is trimmed;
// storing a blank ID is a no-op so downstream lookups fail loudly.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return ctx
	}
	return context.WithValue(ctx, TenantContextKey{}, tenantID)
}

// TenantID returns the tenant ID from context, if set.
func TenantID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(TenantContextKey{}).(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}
