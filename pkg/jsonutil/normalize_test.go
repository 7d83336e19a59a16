package jsonutil

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{name: "nil becomes empty list", input: nil, want: []string{}},
		{name: "nil typed slice becomes empty list", input: []string(nil), want: []string{}},
		{name: "native slice kept in order", input: []string{"Python", "React"}, want: []string{"Python", "React"}},
		{name: "any slice from driver", input: []any{"go", nil, "sql"}, want: []string{"go", "sql"}},
		{name: "json text", input: `["a","b"]`, want: []string{"a", "b"}},
		{name: "json bytes", input: []byte(`["a"]`), want: []string{"a"}},
		{name: "blank text", input: "  ", want: []string{}},
		{name: "plain text is one element", input: "solo", want: []string{"solo"}},
		{name: "unsupported type", input: 42, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringList(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObject(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  map[string]any
	}{
		{name: "nil", input: nil, want: map[string]any{}},
		{name: "decoded map", input: map[string]any{"roi_percentage": float64(40)}, want: map[string]any{"roi_percentage": float64(40)}},
		{name: "json bytes", input: []byte(`{"uptime":"99.9%"}`), want: map[string]any{"uptime": "99.9%"}},
		{name: "json text", input: `{"a":1}`, want: map[string]any{"a": float64(1)}},
		{name: "double encoded text", input: `"{\"a\":1}"`, want: map[string]any{"a": float64(1)}},
		{name: "malformed text", input: `{not json`, want: map[string]any{}},
		{name: "json null", input: []byte(`null`), want: map[string]any{}},
		{name: "json array is not an object", input: `[1,2]`, want: map[string]any{}},
		{name: "empty text", input: "", want: map[string]any{}},
		{name: "raw message", input: json.RawMessage(`{"k":"v"}`), want: map[string]any{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Object(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObjectList(t *testing.T) {
	assert.Equal(t, []map[string]any{}, ObjectList(nil))
	assert.Equal(t, []map[string]any{}, ObjectList("garbage"))

	got := ObjectList(`[{"name":"folio","stars":3}, 7]`)
	require.Len(t, got, 1)
	assert.Equal(t, "folio", got[0]["name"])

	got = ObjectList([]any{map[string]any{"name": "x"}, "skip"})
	require.Len(t, got, 1)
}

func TestNormalizeRow(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	row := map[string]any{
		"id":                int64(7),
		"tags":              nil,
		"stack":             []any{"Python", "React"},
		"achievements":      nil,
		"business_metrics":  `{"roi_percentage": 40}`,
		"technical_metrics": "{broken",
		"top_repos":         nil,
		"created_at":        created,
		"session_id":        [16]byte{0x12, 0x34},
		"avg_page_views":    pgtype.Numeric{Int: big.NewInt(25), Exp: -1, Valid: true},
		"title":             "Folio",
	}

	t.Run("detail keeps native timestamps", func(t *testing.T) {
		got := NormalizeRow(row, Options{})

		assert.Equal(t, []string{}, got["tags"])
		assert.Equal(t, []string{"Python", "React"}, got["stack"])
		assert.Equal(t, []string{}, got["achievements"])
		assert.Equal(t, map[string]any{"roi_percentage": float64(40)}, got["business_metrics"])
		assert.Equal(t, map[string]any{}, got["technical_metrics"])
		assert.Equal(t, []map[string]any{}, got["top_repos"])
		assert.Equal(t, created, got["created_at"])
		assert.Equal(t, "12340000-0000-0000-0000-000000000000", got["session_id"])
		assert.InDelta(t, 2.5, got["avg_page_views"], 1e-9)
		assert.Equal(t, "Folio", got["title"])
		assert.Equal(t, int64(7), got["id"])
	})

	t.Run("bulk renders ISO timestamps", func(t *testing.T) {
		got := NormalizeRow(row, Options{ISOTimestamps: true})
		assert.Equal(t, "2024-03-01T12:30:00Z", got["created_at"])
	})

	t.Run("no field renaming", func(t *testing.T) {
		got := NormalizeRow(row, Options{})
		assert.Len(t, got, len(row))
		for key := range row {
			assert.Contains(t, got, key)
		}
	})
}

func TestNormalizeRows_NeverNil(t *testing.T) {
	got := NormalizeRows(nil, Options{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestISOTime(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.FixedZone("CET", 3600))
	assert.Equal(t, "2025-01-02T03:04:05.123456+01:00", ISOTime(ts))
}
