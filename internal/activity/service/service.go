package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"github.com/pulsetrail/pulsetrail/internal/config"
	"github.com/pulsetrail/pulsetrail/internal/observability/metrics"
	"github.com/pulsetrail/pulsetrail/internal/tenantctx"
	"github.com/pulsetrail/pulsetrail/pkg/db"
	"github.com/pulsetrail/pulsetrail/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Feed    *config.FeedConfigHolder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	feed    *config.FeedConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("activity.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		feed:    p.Feed,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateActivityRequest) (domain.Activity, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || tenantID == "" {
		return domain.Activity{}, domain.ErrInvalidTenant
	}

	actorID := strings.TrimSpace(req.ActorID)
	if actorID == "" {
		return domain.Activity{}, domain.ErrInvalidActor
	}
	actorName := strings.TrimSpace(req.ActorName)
	if actorName == "" {
		return domain.Activity{}, domain.ErrInvalidActorName
	}
	activityType := domain.Type(strings.TrimSpace(req.Type))
	if !activityType.Valid() {
		return domain.Activity{}, domain.ErrInvalidType
	}

	payload := map[string]any{}
	for key, value := range req.Metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}

	activity := domain.Activity{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		ActorID:   actorID,
		ActorName: actorName,
		Type:      activityType,
		Metadata:  datatypes.JSONMap(payload),
		CreatedAt: time.Now().UTC(),
	}
	if entityID := strings.TrimSpace(req.EntityID); entityID != "" {
		activity.EntityID = &entityID
	}

	err := s.repo.Insert(ctx, s.db, &activity)
	if db.IsDuplicateKeyErr(err) {
		// ID collision, possible when replicas share a snowflake node ID.
		// One retry with a fresh ID; a second collision surfaces the error.
		s.log.Warn("activity id collision, retrying with a fresh id",
			zap.String("tenant_id", tenantID),
			zap.Int64("id", activity.ID.Int64()),
		)
		activity.ID = s.genID.Generate()
		err = s.repo.Insert(ctx, s.db, &activity)
	}
	if err != nil {
		s.log.Warn("failed to write activity",
			zap.String("tenant_id", tenantID),
			zap.String("type", string(activityType)),
			zap.Error(err),
		)
		return domain.Activity{}, err
	}

	s.metrics.RecordActivityWritten(ctx, string(activityType))
	return activity, nil
}

func (s *Service) List(ctx context.Context, req domain.ListActivitiesRequest) (domain.ListActivitiesResponse, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || tenantID == "" {
		return domain.ListActivitiesResponse{}, domain.ErrInvalidTenant
	}

	createdBefore, err := pagination.ParseCursor(req.Cursor)
	if err != nil {
		return domain.ListActivitiesResponse{}, domain.ErrInvalidCursor
	}

	var typeFilter domain.Type
	if raw := strings.TrimSpace(req.Type); raw != "" {
		typeFilter = domain.Type(raw)
		if !typeFilter.Valid() {
			return domain.ListActivitiesResponse{}, domain.ErrInvalidType
		}
	}

	feedCfg := s.feed.Current()
	limit := pagination.ClampLimit(req.Limit, feedCfg.PageSize, feedCfg.MaxPageSize)

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		TenantID:      tenantID,
		Type:          typeFilter,
		CreatedBefore: createdBefore,
		Limit:         limit,
	})
	if err != nil {
		return domain.ListActivitiesResponse{}, err
	}

	page, pageInfo := pagination.BuildCursorPageInfo(items, limit, func(item *domain.Activity) string {
		return pagination.FormatCursor(item.CreatedAt)
	})

	activities := make([]domain.Activity, 0, len(page))
	for _, item := range page {
		if item == nil {
			continue
		}
		activities = append(activities, *item)
	}

	return domain.ListActivitiesResponse{
		Activities: activities,
		NextCursor: pageInfo.NextCursor,
		HasMore:    pageInfo.HasMore,
	}, nil
}
