package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
)

type createActivityRequest struct {
	ActorID   string         `json:"actorId"`
	ActorName string         `json:"actorName"`
	Type      string         `json:"type"`
	EntityID  string         `json:"entityId"`
	Metadata  map[string]any `json:"metadata"`
}

// CreateActivity handles POST /activities.
func (s *Server) CreateActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, domain.ErrInvalidActor)
		return
	}

	activity, err := s.activitySvc.Create(c.Request.Context(), domain.CreateActivityRequest{
		ActorID:   req.ActorID,
		ActorName: req.ActorName,
		Type:      req.Type,
		EntityID:  req.EntityID,
		Metadata:  req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse{Success: true, Data: activity})
}

// ListActivities handles GET /activities with cursor pagination.
func (s *Server) ListActivities(c *gin.Context) {
	start := time.Now()

	req := domain.ListActivitiesRequest{
		Cursor: strings.TrimSpace(c.Query("cursor")),
		Type:   strings.TrimSpace(c.Query("type")),
	}
	// A non-numeric limit falls back to the default page size.
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			req.Limit = parsed
		}
	}

	resp, err := s.activitySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// nextCursor is null only when the page came back empty.
	var nextCursor *string
	if resp.NextCursor != "" {
		nextCursor = &resp.NextCursor
	}
	if resp.Activities == nil {
		resp.Activities = []domain.Activity{}
	}

	s.obsMetrics.RecordFeedRead(c.Request.Context(), req.Type, http.StatusOK, time.Since(start))
	c.JSON(http.StatusOK, listResponse{
		Success:    true,
		Data:       resp.Activities,
		NextCursor: nextCursor,
		HasMore:    resp.HasMore,
	})
}
