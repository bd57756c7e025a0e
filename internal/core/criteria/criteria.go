// Package criteria turns free form query parameters into a typed filter and
// ordering plan for catalog listings
//
// Parsing is permissive: unknown keys are ignored and values that do not parse
// for their field type are dropped, so Parse never fails
package criteria

import (
	"net/url"
	"sort"
	"strings"

	"lorebook/internal/core/field"
)

// Reserved control keys, never treated as filters
const (
	KeySort     = "sort"
	KeyOrder    = "order"
	KeyPage     = "page"
	KeySize     = "size"
	KeyLanguage = "language"
)

// Built in sort fields every kind supports
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

// Direction is the sort direction
type Direction string

const (
	// Asc sorts ascending, the default
	Asc Direction = "ASC"
	// Desc sorts descending
	Desc Direction = "DESC"
)

// Schema is what a resource kind allows a listing to filter and sort by
type Schema struct {
	Filters      map[string]field.Type
	Sorts        map[string]field.Type
	DefaultOrder string
}

// Clause matches a record when Field equals any of Values
type Clause struct {
	Field  string
	Type   field.Type
	Values []any
}

// Criteria is the validated plan for one listing request
type Criteria struct {
	Clauses   []Clause
	Order     string
	OrderType field.Type
	Direction Direction
	// Dropped counts filter values discarded as invalid for their field type
	Dropped int
}

// Parse builds Criteria from params against schema
func Parse(params url.Values, schema Schema) Criteria {
	c := Criteria{Direction: Asc}

	for key, raw := range params {
		if reserved(key) {
			continue
		}
		typ, ok := schema.Filters[key]
		if !ok {
			continue
		}
		cl := Clause{Field: key, Type: typ}
		for _, s := range raw {
			v, ok := typ.ParseParam(s)
			if !ok {
				c.Dropped++
				continue
			}
			cl.Values = append(cl.Values, v)
		}
		if len(cl.Values) > 0 {
			c.Clauses = append(c.Clauses, cl)
		}
	}
	sort.Slice(c.Clauses, func(i, j int) bool { return c.Clauses[i].Field < c.Clauses[j].Field })

	c.Order, c.OrderType = schema.order(params.Get(KeyOrder))
	if strings.EqualFold(strings.TrimSpace(params.Get(KeySort)), string(Desc)) {
		c.Direction = Desc
	}
	return c
}

// Empty reports whether the criteria has no filter clauses
func (c Criteria) Empty() bool { return len(c.Clauses) == 0 }

func (s Schema) order(requested string) (string, field.Type) {
	if t, ok := s.sortType(requested); ok {
		return requested, t
	}
	def := s.DefaultOrder
	if def == "" {
		def = CreatedAt
	}
	if t, ok := s.sortType(def); ok {
		return def, t
	}
	return CreatedAt, field.Time
}

func (s Schema) sortType(name string) (field.Type, bool) {
	if name == "" {
		return 0, false
	}
	if name == CreatedAt || name == UpdatedAt {
		return field.Time, true
	}
	t, ok := s.Sorts[name]
	return t, ok
}

func reserved(key string) bool {
	switch key {
	case KeySort, KeyOrder, KeyPage, KeySize, KeyLanguage:
		return true
	}
	return false
}
