package logger

import (
	"context"
	"testing"

	"github.com/pulsetrail/pulsetrail/internal/obscontext"
	"github.com/pulsetrail/pulsetrail/internal/tenantctx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextCorrelationFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := context.Background()
	ctx = obscontext.WithRequestID(ctx, "req-123")
	ctx = obscontext.WithClientIP(ctx, "203.0.113.9")
	ctx = obscontext.WithUserAgent(ctx, "feedwatch/1.0")
	ctx = tenantctx.WithTenantID(ctx, "acme")

	WithContext(ctx, base).Info("handled")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "req-123", fields["request_id"])
	require.Equal(t, "acme", fields["tenant_id"])
	require.Equal(t, "203.0.113.9", fields["client_ip"])
	require.Equal(t, "feedwatch/1.0", fields["user_agent"])
}

func TestWithContextOmitsAbsentCallerFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	WithContext(context.Background(), zap.New(core)).Info("handled")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.NotContains(t, fields, "client_ip")
	require.NotContains(t, fields, "user_agent")
	require.Equal(t, "", fields["request_id"])
	require.Equal(t, "", fields["tenant_id"])
}
