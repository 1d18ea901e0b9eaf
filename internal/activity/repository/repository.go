package repository

import (
	"context"
	"strings"

	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, activity *domain.Activity) error {
	if activity == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO activities (
			id, tenant_id, actor_id, actor_name, type, entity_id, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID,
		activity.TenantID,
		activity.ActorID,
		activity.ActorName,
		activity.Type,
		activity.EntityID,
		activity.Metadata,
		activity.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	stmt := db.WithContext(ctx).Model(&domain.Activity{}).
		Where("tenant_id = ?", filter.TenantID)

	if activityType := strings.TrimSpace(string(filter.Type)); activityType != "" {
		stmt = stmt.Where("type = ?", activityType)
	}
	if filter.CreatedBefore != nil {
		stmt = stmt.Where("created_at < ?", filter.CreatedBefore.UTC())
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit + 1)
	}

	if err := stmt.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
