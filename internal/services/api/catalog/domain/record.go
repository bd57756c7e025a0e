package domain

import (
	"time"

	"github.com/google/uuid"
)

// Keys every projected view carries
const (
	KeyID           = "id"
	KeyLanguage     = "language"
	KeyCreatedAt    = "created_at"
	KeyUpdatedAt    = "updated_at"
	KeyTranslations = "translations"
)

// Fields holds attribute values keyed by field name
// Values are canonical: string, int64, bool or []string
type Fields map[string]any

// Clone returns a shallow copy with list values copied
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	out := make(Fields, len(f))
	for k, v := range f {
		if xs, ok := v.([]string); ok {
			v = append([]string(nil), xs...)
		}
		out[k] = v
	}
	return out
}

// BaseRecord is the language invariant part of a resource
type BaseRecord struct {
	ID        uuid.UUID
	Kind      string
	Fields    Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Translation is the language scoped part of a resource
type Translation struct {
	ResourceID uuid.UUID
	Language   string
	Fields     Fields
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// View is a flat projected representation of a resource
type View map[string]any

// Language returns the language the view was resolved in, if any
func (v View) Language() string {
	s, _ := v[KeyLanguage].(string)
	return s
}
