package jsonutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ISOLayout is the timestamp format used in bulk and export responses.
const ISOLayout = "2006-01-02T15:04:05.999999Z07:00"

// Field classes. A field's class decides its normalization on every read path.
var (
	listFields = map[string]struct{}{
		"tags": {}, "stack": {}, "technologies": {}, "achievements": {}, "keywords": {},
		"target_modes": {}, "modes_viewed": {},
	}
	objectFields = map[string]struct{}{
		"business_metrics": {}, "technical_metrics": {}, "metrics": {}, "languages": {}, "settings": {},
		"payload": {}, "metadata": {}, "mode_priority": {},
	}
	objectListFields = map[string]struct{}{
		"top_repos": {},
	}
)

// Options controls NormalizeRow.
type Options struct {
	// ISOTimestamps renders time.Time values as ISO-8601 strings.
	ISOTimestamps bool
}

// StringList returns v as an ordered list of strings. Null becomes an empty
// list; JSON-encoded array text is decoded.
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			if elem == nil {
				continue
			}
			out = append(out, FlexibleString(elem))
		}
		return out
	case []byte:
		return StringList(string(val))
	case string:
		text := strings.TrimSpace(val)
		if text == "" {
			return []string{}
		}
		var decoded []any
		if err := json.Unmarshal([]byte(text), &decoded); err == nil {
			return StringList(decoded)
		}
		return []string{val}
	}
	return []string{}
}

// Object returns v as a mapping. Null and undecodable text become an empty
// mapping; text that decodes to a JSON string is decoded once more.
func Object(v any) map[string]any {
	switch val := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		if val == nil {
			return map[string]any{}
		}
		return val
	case json.RawMessage:
		return decodeObject(val)
	case []byte:
		return decodeObject(val)
	case string:
		return decodeObject([]byte(val))
	}
	return map[string]any{}
}

func decodeObject(data []byte) map[string]any {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return map[string]any{}
	}

	switch d := decoded.(type) {
	case map[string]any:
		return d
	case string:
		var inner map[string]any
		if err := json.Unmarshal([]byte(d), &inner); err == nil && inner != nil {
			return inner
		}
	}
	return map[string]any{}
}

// ObjectList returns v as a list of mappings, dropping entries that are not objects.
func ObjectList(v any) []map[string]any {
	var items []any
	switch val := v.(type) {
	case nil:
		return []map[string]any{}
	case []map[string]any:
		return val
	case []any:
		items = val
	case json.RawMessage, []byte, string:
		var data []byte
		switch raw := val.(type) {
		case json.RawMessage:
			data = raw
		case []byte:
			data = raw
		case string:
			data = []byte(raw)
		}
		if err := json.Unmarshal(data, &items); err != nil {
			return []map[string]any{}
		}
	default:
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// NormalizeRow converts a raw storage row into its external shape. Field names
// are kept as-is.
func NormalizeRow(row map[string]any, opts Options) map[string]any {
	out := make(map[string]any, len(row))
	for key, value := range row {
		if _, ok := listFields[key]; ok {
			out[key] = StringList(value)
			continue
		}
		if _, ok := objectFields[key]; ok {
			out[key] = Object(value)
			continue
		}
		if _, ok := objectListFields[key]; ok {
			out[key] = ObjectList(value)
			continue
		}
		out[key] = normalizeScalar(value, opts)
	}
	return out
}

// NormalizeRows applies NormalizeRow to every row. The result is never nil.
func NormalizeRows(rows []map[string]any, opts Options) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeRow(row, opts))
	}
	return out
}

func normalizeScalar(v any, opts Options) any {
	switch val := v.(type) {
	case time.Time:
		if opts.ISOTimestamps {
			return ISOTime(val)
		}
		return val
	case [16]byte:
		return uuid.UUID(val).String()
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return v
}

// ISOTime formats t with ISOLayout.
func ISOTime(t time.Time) string {
	return t.Format(ISOLayout)
}
