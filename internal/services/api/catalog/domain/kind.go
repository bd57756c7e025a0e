// Package domain holds the catalog resource model, the kind descriptors and
// the store port the resolution service depends on
package domain

import (
	"fmt"
	"slices"
	"sort"

	"lorebook/internal/core/criteria"
	"lorebook/internal/core/field"
)

// Field describes one attribute of a resource kind
type Field struct {
	Name     string
	Type     field.Type
	Required bool
	// Rules are validator tags applied to the coerced value, eg "max=200"
	Rules  string
	Filter bool
	Sort   bool
}

// Kind describes a resource kind: its base and translation schemas and how
// listings may be filtered and ordered
type Kind struct {
	// Name is the collection name used in routes, eg "episodes"
	Name string
	// Singular is used in messages, eg "episode"
	Singular    string
	Base        []Field
	Translation []Field
	DefaultSort string
}

// BaseField returns the base field named name
func (k Kind) BaseField(name string) (Field, bool) { return lookup(k.Base, name) }

// TranslationField returns the translation field named name
func (k Kind) TranslationField(name string) (Field, bool) { return lookup(k.Translation, name) }

// Criteria returns the filter and sort schema for listings of this kind
func (k Kind) Criteria() criteria.Schema {
	s := criteria.Schema{
		Filters:      map[string]field.Type{},
		Sorts:        map[string]field.Type{},
		DefaultOrder: k.DefaultSort,
	}
	for _, f := range k.Base {
		if f.Filter {
			s.Filters[f.Name] = f.Type
		}
		if f.Sort {
			s.Sorts[f.Name] = f.Type
		}
	}
	return s
}

// Registry is the set of known kinds keyed by name
type Registry struct {
	kinds map[string]Kind
}

// NewRegistry validates kinds and indexes them by name
// It panics on programmer error: duplicate kinds, or a field declared in both
// schemas or shadowing a projected key
func NewRegistry(kinds ...Kind) *Registry {
	r := &Registry{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		if k.Name == "" {
			panic("catalog: kind without a name")
		}
		if _, dup := r.kinds[k.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate kind %q", k.Name))
		}
		if k.DefaultSort == "" {
			k.DefaultSort = criteria.CreatedAt
		}
		seen := map[string]bool{}
		for _, f := range slices.Concat(k.Base, k.Translation) {
			if seen[f.Name] || projected(f.Name) {
				panic(fmt.Sprintf("catalog: kind %q field %q clashes", k.Name, f.Name))
			}
			seen[f.Name] = true
		}
		r.kinds[k.Name] = k
	}
	return r
}

// Kind returns the kind named name
func (r *Registry) Kind(name string) (Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered kind names in order
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.kinds))
	for n := range r.kinds {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func lookup(fs []Field, name string) (Field, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func projected(name string) bool {
	switch name {
	case KeyID, KeyLanguage, KeyCreatedAt, KeyUpdatedAt, KeyTranslations:
		return true
	}
	return false
}
