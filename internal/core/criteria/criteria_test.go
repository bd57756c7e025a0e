package criteria

import (
	"net/url"
	"testing"

	"lorebook/internal/core/field"
)

var episodes = Schema{
	Filters: map[string]field.Type{
		"episode_num": field.Int,
		"season_id":   field.UUID,
		"directors":   field.StringList,
	},
	Sorts: map[string]field.Type{
		"episode_num": field.Int,
		"air_date":    field.Date,
	},
	DefaultOrder: CreatedAt,
}

func TestParse_Defaults(t *testing.T) {
	c := Parse(url.Values{}, episodes)
	if !c.Empty() {
		t.Fatalf("expected no clauses, got %+v", c.Clauses)
	}
	if c.Order != CreatedAt || c.OrderType != field.Time {
		t.Fatalf("order = %q/%v, want created_at/time", c.Order, c.OrderType)
	}
	if c.Direction != Asc {
		t.Fatalf("direction = %q, want ASC", c.Direction)
	}
}

func TestParse_TypedFilter(t *testing.T) {
	c := Parse(url.Values{"episode_num": {"2"}}, episodes)
	if len(c.Clauses) != 1 {
		t.Fatalf("clauses = %+v", c.Clauses)
	}
	cl := c.Clauses[0]
	if cl.Field != "episode_num" || cl.Type != field.Int || cl.Values[0] != int64(2) {
		t.Fatalf("clause = %+v", cl)
	}
}

func TestParse_UnknownKeysIgnored(t *testing.T) {
	c := Parse(url.Values{"favourite_snack": {"eggos"}, "page": {"2"}, "language": {"pt-BR"}}, episodes)
	if !c.Empty() {
		t.Fatalf("unknown keys should be no-ops, got %+v", c.Clauses)
	}
	if c.Dropped != 0 {
		t.Fatalf("unknown keys are not counted as dropped values")
	}
}

func TestParse_InvalidValueDropsClause(t *testing.T) {
	c := Parse(url.Values{"episode_num": {"two"}}, episodes)
	if !c.Empty() {
		t.Fatalf("invalid value should drop the clause, got %+v", c.Clauses)
	}
	if c.Dropped != 1 {
		t.Fatalf("Dropped = %d, want 1", c.Dropped)
	}
}

// Invalid values are dropped one at a time: the clause survives with its
// valid values and is dropped only when none are left
func TestParse_RepeatedKeysFormOrSet(t *testing.T) {
	c := Parse(url.Values{"episode_num": {"1", "x", "3"}}, episodes)
	if len(c.Clauses) != 1 {
		t.Fatalf("clauses = %+v", c.Clauses)
	}
	got := c.Clauses[0].Values
	if len(got) != 2 || got[0] != int64(1) || got[1] != int64(3) {
		t.Fatalf("values = %#v", got)
	}
	if c.Dropped != 1 {
		t.Fatalf("Dropped = %d, want 1", c.Dropped)
	}
}

func TestParse_ClausesSortedByField(t *testing.T) {
	c := Parse(url.Values{
		"season_id":   {"6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		"episode_num": {"1"},
		"directors":   {"Shawn Levy"},
	}, episodes)
	want := []string{"directors", "episode_num", "season_id"}
	if len(c.Clauses) != len(want) {
		t.Fatalf("clauses = %+v", c.Clauses)
	}
	for i, f := range want {
		if c.Clauses[i].Field != f {
			t.Fatalf("clause %d = %q, want %q", i, c.Clauses[i].Field, f)
		}
	}
}

func TestParse_Order(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		order  string
		typ    field.Type
		dir    Direction
	}{
		{"sortable field", url.Values{"order": {"episode_num"}}, "episode_num", field.Int, Asc},
		{"desc lower case", url.Values{"order": {"air_date"}, "sort": {"desc"}}, "air_date", field.Date, Desc},
		{"asc explicit", url.Values{"sort": {"ASC"}}, CreatedAt, field.Time, Asc},
		{"bogus direction", url.Values{"sort": {"sideways"}}, CreatedAt, field.Time, Asc},
		{"not sortable falls back", url.Values{"order": {"season_id"}}, CreatedAt, field.Time, Asc},
		{"built in updated_at", url.Values{"order": {"updated_at"}}, UpdatedAt, field.Time, Asc},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := Parse(tc.params, episodes)
			if c.Order != tc.order || c.OrderType != tc.typ || c.Direction != tc.dir {
				t.Fatalf("got %q/%v/%q, want %q/%v/%q", c.Order, c.OrderType, c.Direction, tc.order, tc.typ, tc.dir)
			}
		})
	}
}

func TestParse_ReservedKeysNeverFilter(t *testing.T) {
	s := Schema{Filters: map[string]field.Type{"order": field.String, "size": field.Int}}
	c := Parse(url.Values{"order": {"x"}, "size": {"3"}}, s)
	if !c.Empty() {
		t.Fatalf("reserved keys must not become filters, got %+v", c.Clauses)
	}
}
