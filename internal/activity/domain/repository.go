package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter scopes a descending feed scan. TenantID is mandatory; every query
// the repository issues is bounded by it.
type ListFilter struct {
	TenantID      string
	Type          Type
	CreatedBefore *time.Time
	Limit         int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, activity *Activity) error
	// List returns up to Limit+1 rows matching the filter, newest first.
	// The extra row is the has-more probe; callers truncate to Limit.
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Activity, error)
}
