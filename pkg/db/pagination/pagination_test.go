package pagination

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCursorEmpty(t *testing.T) {
	parsed, err := ParseCursor("   ")
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	parsed, err := ParseCursor(FormatCursor(at))
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, parsed.Equal(at))
}

func TestParseCursorSecondPrecision(t *testing.T) {
	parsed, err := ParseCursor("2026-03-14T09:26:53Z")
	require.NoError(t, err)
	require.NotNil(t, parsed)
}

func TestParseCursorInvalid(t *testing.T) {
	_, err := ParseCursor("not-a-date")
	assert.Error(t, err)
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: 20},
		{in: -5, want: 20},
		{in: 1, want: 1},
		{in: 20, want: 20},
		{in: 100, want: 100},
		{in: 101, want: 100},
		{in: 100000, want: 100},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("limit=%d", tc.in), func(t *testing.T) {
			assert.Equal(t, tc.want, ClampLimit(tc.in, 20, 100))
		})
	}
}

type row struct{ cursor string }

func TestBuildCursorPageInfoEmpty(t *testing.T) {
	items, info := BuildCursorPageInfo(nil, 20, func(r *row) string { return r.cursor })
	assert.Empty(t, items)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextCursor)
}

func TestBuildCursorPageInfoProbe(t *testing.T) {
	rows := []*row{{"a"}, {"b"}, {"c"}}

	// Probe row present: page trimmed, more pages exist.
	items, info := BuildCursorPageInfo(rows, 2, func(r *row) string { return r.cursor })
	assert.Len(t, items, 2)
	assert.True(t, info.HasMore)
	assert.Equal(t, "b", info.NextCursor)

	// Exactly limit rows: full page but nothing left.
	items, info = BuildCursorPageInfo(rows, 3, func(r *row) string { return r.cursor })
	assert.Len(t, items, 3)
	assert.False(t, info.HasMore)
	assert.Equal(t, "c", info.NextCursor)
}
