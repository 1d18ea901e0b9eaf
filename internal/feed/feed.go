// Package feed maintains a client-side view of a tenant's activity list with
// optimistic writes reconciled against the server.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetrail/pulsetrail/internal/config"
	"github.com/pulsetrail/pulsetrail/pkg/client"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// API is the slice of the feed client the reconciler needs.
type API interface {
	CreateActivity(ctx context.Context, params client.CreateActivityParams) (*client.Activity, error)
	ListActivities(ctx context.Context, params client.ListActivitiesParams) (*client.Page, error)
}

// Entry is one row of the feed: either a confirmed server record or a pending
// optimistic write awaiting confirmation.
type Entry struct {
	Activity client.Activity
	Pending  bool
}

type Params struct {
	fx.In

	API  API
	Log  *zap.Logger
	Feed *config.FeedConfigHolder `optional:"true"`
}

// Feed is a mutex-serialized state machine. Network calls run outside the
// lock; the loading flag suppresses overlapping fetches.
type Feed struct {
	api API
	log *zap.Logger
	cfg *config.FeedConfigHolder

	mu             sync.Mutex
	entries        []Entry
	typeFilter     string
	cursor         string
	hasMore        bool
	loading        bool
	initialLoading bool
	loadedOnce     bool
	lastErr        error
}

func New(p Params) *Feed {
	return &Feed{
		api: p.API,
		log: p.Log.Named("feed"),
		cfg: p.Feed,
	}
}

// Snapshot is a point-in-time copy of the feed state for rendering.
type Snapshot struct {
	Entries        []Entry
	HasMore        bool
	Loading        bool
	InitialLoading bool
	LastErr        error
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]Entry, len(f.entries))
	copy(entries, f.entries)
	return Snapshot{
		Entries:        entries,
		HasMore:        f.hasMore,
		Loading:        f.loading,
		InitialLoading: f.initialLoading,
		LastErr:        f.lastErr,
	}
}

// Load resets the feed and fetches the first page. The list, cursor and
// has-more state are cleared before the fetch so a filter change never shows
// stale rows.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	if !f.loadedOnce {
		f.initialLoading = true
	}
	f.entries = nil
	f.cursor = ""
	f.hasMore = false
	typeFilter := f.typeFilter
	f.mu.Unlock()

	return f.fetchFirstPage(ctx, typeFilter)
}

// SetTypeFilter records the filter and reloads the feed from scratch.
func (f *Feed) SetTypeFilter(ctx context.Context, activityType string) error {
	f.mu.Lock()
	f.typeFilter = activityType
	f.mu.Unlock()
	return f.Load(ctx)
}

// Refresh resyncs page one against the server, replacing the list wholesale on
// success. Unconfirmed pending entries are discarded; records written by other
// sessions appear. On failure the current list stays usable.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	typeFilter := f.typeFilter
	f.mu.Unlock()

	return f.fetchFirstPage(ctx, typeFilter)
}

func (f *Feed) fetchFirstPage(ctx context.Context, typeFilter string) error {
	page, err := f.api.ListActivities(ctx, client.ListActivitiesParams{
		Limit: f.pageSize(),
		Type:  typeFilter,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.initialLoading = false
	f.loadedOnce = true

	if err != nil {
		f.lastErr = err
		f.log.Warn("feed load failed", zap.Error(err))
		return err
	}

	entries := make([]Entry, 0, len(page.Activities))
	for _, activity := range page.Activities {
		entries = append(entries, Entry{Activity: activity})
	}
	f.entries = entries
	f.cursor = page.NextCursor
	f.hasMore = page.HasMore
	f.lastErr = nil
	return nil
}

// LoadMore appends the next page. A no-op while a fetch is in flight, when the
// feed is exhausted, or before the first page has loaded.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading || !f.hasMore || f.cursor == "" {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	cursor := f.cursor
	typeFilter := f.typeFilter
	f.mu.Unlock()

	page, err := f.api.ListActivities(ctx, client.ListActivitiesParams{
		Cursor: cursor,
		Limit:  f.pageSize(),
		Type:   typeFilter,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	if err != nil {
		f.lastErr = err
		f.log.Warn("feed load more failed", zap.Error(err))
		return err
	}

	for _, activity := range page.Activities {
		f.entries = append(f.entries, Entry{Activity: activity})
	}
	f.cursor = page.NextCursor
	f.hasMore = page.HasMore
	f.lastErr = nil
	return nil
}

// AddPending prepends an optimistic entry and returns its temp ID plus a
// rollback that removes it. The rollback is safe to call after the entry was
// confirmed or already removed.
func (f *Feed) AddPending(params client.CreateActivityParams) (string, func()) {
	tempID := fmt.Sprintf("temp-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])

	entry := Entry{
		Pending: true,
		Activity: client.Activity{
			ID:        tempID,
			ActorID:   params.ActorID,
			ActorName: params.ActorName,
			Type:      params.Type,
			Metadata:  params.Metadata,
			CreatedAt: time.Now().UTC(),
		},
	}
	if params.EntityID != "" {
		entityID := params.EntityID
		entry.Activity.EntityID = &entityID
	}

	f.mu.Lock()
	f.entries = append([]Entry{entry}, f.entries...)
	f.mu.Unlock()

	rollback := func() {
		f.removePending(tempID)
	}
	return tempID, rollback
}

func (f *Feed) removePending(tempID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, entry := range f.entries {
		if entry.Pending && entry.Activity.ID == tempID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return
		}
	}
}

// ConfirmPending swaps the pending entry for the server record in place, so
// the row does not jump while the list is on screen.
func (f *Feed) ConfirmPending(tempID string, record client.Activity) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, entry := range f.entries {
		if entry.Pending && entry.Activity.ID == tempID {
			f.entries[i] = Entry{Activity: record}
			return true
		}
	}
	return false
}

// Create performs an optimistic write: the entry appears immediately, then is
// confirmed with the server record or rolled back on failure. No retry.
func (f *Feed) Create(ctx context.Context, params client.CreateActivityParams) (*client.Activity, error) {
	tempID, rollback := f.AddPending(params)

	record, err := f.api.CreateActivity(ctx, params)
	if err != nil {
		rollback()
		f.mu.Lock()
		f.lastErr = err
		f.mu.Unlock()
		return nil, err
	}

	f.ConfirmPending(tempID, *record)
	return record, nil
}

func (f *Feed) pageSize() int {
	return f.cfg.Current().PageSize
}
