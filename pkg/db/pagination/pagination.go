package pagination

import (
	"strings"
	"time"
)

// CursorLayout is the wire format for feed cursors: the createdAt timestamp of
// the last record on the previous page, used as a strict exclusive upper bound.
const CursorLayout = time.RFC3339Nano

type PageInfo struct {
	NextCursor string `json:"nextCursor"`
	HasMore    bool   `json:"hasMore"`
}

// ParseCursor decodes a cursor string. Empty input means "first page" and
// returns nil without error.
func ParseCursor(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(CursorLayout, raw)
	if err != nil {
		// Accept second-precision cursors from older clients.
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
	}
	return &parsed, nil
}

// FormatCursor encodes a record timestamp as a cursor string.
func FormatCursor(t time.Time) string {
	return t.UTC().Format(CursorLayout)
}

// ClampLimit normalizes a requested page size into [1, max], applying def when
// the request carries no usable value.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		limit = def
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

// BuildCursorPageInfo resolves the has-more probe: items is the Limit+1 fetch
// result. It returns the trimmed page plus the next cursor taken from the last
// visible item.
func BuildCursorPageInfo[T any](items []*T, limit int, cursorOf func(*T) string) ([]*T, PageInfo) {
	if len(items) == 0 {
		return items, PageInfo{}
	}

	hasMore := false
	if limit > 0 && len(items) > limit {
		hasMore = true
		items = items[:limit]
	}

	return items, PageInfo{
		HasMore:    hasMore,
		NextCursor: cursorOf(items[len(items)-1]),
	}
}
