package domain

import (
	"context"
	"errors"
)

type CreateActivityRequest struct {
	ActorID   string
	ActorName string
	Type      string
	EntityID  string
	Metadata  map[string]any
}

type ListActivitiesRequest struct {
	Cursor string
	Limit  int
	Type   string
}

type ListActivitiesResponse struct {
	Activities []Activity `json:"activities"`
	NextCursor string     `json:"nextCursor"`
	HasMore    bool       `json:"hasMore"`
}

type Service interface {
	Create(context.Context, CreateActivityRequest) (Activity, error)
	List(context.Context, ListActivitiesRequest) (ListActivitiesResponse, error)
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrInvalidActor     = errors.New("invalid_actor_id")
	ErrInvalidActorName = errors.New("invalid_actor_name")
	ErrInvalidType      = errors.New("invalid_type")
	ErrInvalidCursor    = errors.New("invalid_cursor")
	ErrInvalidLimit     = errors.New("invalid_limit")
)
