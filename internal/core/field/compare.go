package field

import (
	"cmp"
	"slices"
	"time"
)

// Matches reports whether a stored value satisfies a filter value of type t
// StringList fields match when the list contains the filter value
func (t Type) Matches(stored, want any) bool {
	if stored == nil {
		return false
	}
	if t == StringList {
		xs, err := coerceList(stored)
		if err != nil {
			return false
		}
		s, ok := want.(string)
		return ok && slices.Contains(xs.([]string), s)
	}
	sv, err := t.normalize(stored)
	if err != nil {
		return false
	}
	wv, err := t.normalize(want)
	if err != nil {
		return false
	}
	return Compare(t, sv, wv) == 0
}

// MatchesAny reports whether stored satisfies at least one of wants
func (t Type) MatchesAny(stored any, wants []any) bool {
	for _, w := range wants {
		if t.Matches(stored, w) {
			return true
		}
	}
	return false
}

// Compare orders two canonical values of type t
// nil sorts before any value; values of mismatched types compare equal
func Compare(t Type, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch t {
	case Int:
		x, errx := coerceInt(a)
		y, erry := coerceInt(b)
		if errx == nil && erry == nil {
			return cmp.Compare(x.(int64), y.(int64))
		}
	case Bool:
		x, okx := a.(bool)
		y, oky := b.(bool)
		if okx && oky {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case Time:
		x, okx := asTime(a)
		y, oky := asTime(b)
		if okx && oky {
			return x.Compare(y)
		}
	case StringList:
		x, okx := a.([]string)
		y, oky := b.([]string)
		if okx && oky {
			return slices.Compare(x, y)
		}
	default:
		x, okx := a.(string)
		y, oky := b.(string)
		if okx && oky {
			return cmp.Compare(x, y)
		}
	}
	return 0
}

// normalize brings a stored or filter value into canonical form so values
// decoded from different sources compare equal
func (t Type) normalize(v any) (any, error) {
	switch t {
	case Time:
		if ts, ok := asTime(v); ok {
			return ts, nil
		}
		return nil, ErrMismatch
	case Int:
		return coerceInt(v)
	default:
		return t.Coerce(v)
	}
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case string:
		ts, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return time.Time{}, false
		}
		return ts.UTC(), true
	}
	return time.Time{}, false
}
