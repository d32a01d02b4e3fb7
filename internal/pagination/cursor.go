package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// Cursor marks the last row of a page in (timestamp, id) descending order.
type Cursor struct {
	LastID    string
	Timestamp time.Time
}

// PageResult is one page of a keyset-paginated listing.
type PageResult[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
}

var ErrInvalidCursor = errors.New("invalid cursor format")

func EncodeCursor(lastID string, timestamp time.Time) string {
	if lastID == "" {
		return ""
	}
	raw := timestamp.UTC().Format(time.RFC3339Nano) + "|" + lastID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor returns nil for an empty cursor.
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	ts, id, ok := strings.Cut(string(decoded), "|")
	if !ok || id == "" {
		return nil, ErrInvalidCursor
	}

	timestamp, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &Cursor{LastID: id, Timestamp: timestamp}, nil
}

// Page builds a PageResult from rows fetched with limit+1. The extra row only
// signals that another page exists and is dropped.
func Page[T any](rows []T, limit int, getID func(T) string, getTimestamp func(T) time.Time) PageResult[T] {
	if limit <= 0 || len(rows) <= limit {
		if rows == nil {
			rows = []T{}
		}
		return PageResult[T]{Items: rows}
	}

	items := rows[:limit]
	last := items[len(items)-1]
	return PageResult[T]{
		Items:   items,
		Cursor:  EncodeCursor(getID(last), getTimestamp(last)),
		HasMore: true,
	}
}
