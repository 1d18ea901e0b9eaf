package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"github.com/pulsetrail/pulsetrail/internal/tenantctx"
)

const HeaderTenant = "X-Tenant-ID"

// TenantRequired rejects requests with a missing or blank X-Tenant-ID header
// before any handler work happens, and scopes the request context to the
// tenant for everything downstream.
func TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(HeaderTenant))
		if tenantID == "" {
			AbortWithError(c, domain.ErrInvalidTenant)
			return
		}

		ctx := tenantctx.WithTenantID(c.Request.Context(), tenantID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RateLimitWrites applies the per-tenant then global write buckets. Requests
// are refused with 429 when either bucket is dry. Limiter outages fail open;
// writes are never blocked on redis health.
func (s *Server) RateLimitWrites() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.writeLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		tenantID, _ := tenantctx.TenantID(ctx)

		res, err := s.writeLimiter.AllowTenant(ctx, tenantID)
		if err == nil && !res.Allowed {
			s.obsMetrics.RecordRateLimitDenied(ctx, tenantID, "create_activity", "tenant_bucket")
			AbortWithError(c, ErrRateLimited)
			return
		}

		res, err = s.writeLimiter.AllowGlobal(ctx)
		if err == nil && !res.Allowed {
			s.obsMetrics.RecordRateLimitDenied(ctx, tenantID, "create_activity", "global_bucket")
			AbortWithError(c, ErrRateLimited)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(ctx, tenantID, "create_activity")
		c.Next()
	}
}
