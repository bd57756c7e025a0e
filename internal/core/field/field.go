// Package field describes the typed values a catalog field can hold and how
// they are parsed from query strings, coerced from JSON and compared
package field

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Type is the value type of a catalog field
type Type uint8

const (
	// String is a short single line string
	String Type = iota
	// Text is free form multi line text
	Text
	// Int is a signed integer, stored as int64
	Int
	// Bool is true or false
	Bool
	// Date is a calendar date in YYYY-MM-DD form
	Date
	// Time is an RFC3339 timestamp, used for server assigned timestamps
	Time
	// UUID is a reference to another resource by id
	UUID
	// URL is an absolute media or canonical path reference
	URL
	// StringList is an ordered list of strings
	StringList
)

// DateLayout is the canonical layout for Date values
const DateLayout = "2006-01-02"

var names = map[Type]string{
	String:     "string",
	Text:       "text",
	Int:        "int",
	Bool:       "bool",
	Date:       "date",
	Time:       "time",
	UUID:       "uuid",
	URL:        "url",
	StringList: "string_list",
}

// String returns the type name
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "unknown"
}

// ErrMismatch is returned by Coerce when a value does not fit the type
var ErrMismatch = errors.New("field: value does not match type")

// ParseParam parses a single query string value for t
// ok is false when the value is not valid for the type
func (t Type) ParseParam(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	switch t {
	case Int:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, false
		}
		return b, true
	case Date:
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, false
		}
		return d.Format(DateLayout), true
	case Time:
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, false
		}
		return ts.UTC(), true
	case UUID:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, false
		}
		return id.String(), true
	default:
		// String, Text, URL and StringList elements compare as plain strings
		return s, true
	}
}

// Coerce converts a decoded JSON value into the canonical Go value for t
// canonical values are string, int64, bool and []string
func (t Type) Coerce(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: null is not a %s", ErrMismatch, t)
	}
	switch t {
	case Int:
		return coerceInt(v)
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: want %s", ErrMismatch, t)
		}
		return b, nil
	case StringList:
		return coerceList(v)
	case Date, UUID, Time, URL:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want %s", ErrMismatch, t)
		}
		if t == URL {
			u, err := url.Parse(strings.TrimSpace(s))
			if err != nil || (!u.IsAbs() && !strings.HasPrefix(u.Path, "/")) {
				return nil, fmt.Errorf("%w: want absolute url or path", ErrMismatch)
			}
			return u.String(), nil
		}
		p, ok := t.ParseParam(s)
		if !ok {
			return nil, fmt.Errorf("%w: want %s", ErrMismatch, t)
		}
		if ts, isTime := p.(time.Time); isTime {
			return ts.Format(time.RFC3339Nano), nil
		}
		return p, nil
	default:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want %s", ErrMismatch, t)
		}
		return s, nil
	}
}

func coerceInt(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: want integer", ErrMismatch)
		}
		return i, nil
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range
		if n != math.Trunc(n) || math.IsInf(n, 0) || n >= 0x1p63 || n < -0x1p63 {
			return nil, fmt.Errorf("%w: want integer", ErrMismatch)
		}
		return int64(n), nil
	}
	return nil, fmt.Errorf("%w: want integer", ErrMismatch)
}

func coerceList(v any) (any, error) {
	switch xs := v.(type) {
	case []string:
		return append([]string(nil), xs...), nil
	case []any:
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("%w: want list of strings", ErrMismatch)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: want list of strings", ErrMismatch)
}
