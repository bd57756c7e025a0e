package domain

import (
	"context"
	"net/url"

	"lorebook/internal/core/criteria"
	"lorebook/internal/core/paging"

	"github.com/google/uuid"
)

// Store is the resource and translation storage the catalog resolves against
// Absence is reported with found=false, never with an error
// Every mutator is atomic per call
type Store interface {
	// Base returns the base record for id within kind
	Base(ctx context.Context, kind string, id uuid.UUID) (rec BaseRecord, found bool, err error)
	// ListBases returns one page of base records matching crit plus the total
	// number of matches, independent of paging
	ListBases(ctx context.Context, kind string, crit criteria.Criteria, page paging.Request) ([]BaseRecord, int, error)
	// RandomID samples uniformly among every id of kind
	RandomID(ctx context.Context, kind string) (id uuid.UUID, found bool, err error)

	// Translation returns the translation of id in lang
	Translation(ctx context.Context, kind string, id uuid.UUID, lang string) (tr Translation, found bool, err error)
	// TranslationsFor returns the translations in lang for ids, keyed by id
	// ids lacking one are absent from the map
	TranslationsFor(ctx context.Context, kind string, ids []uuid.UUID, lang string) (map[uuid.UUID]Translation, error)
	// Translations returns every translation of id ordered by language
	// found is false when the resource itself does not exist
	Translations(ctx context.Context, kind string, id uuid.UUID) (trs []Translation, found bool, err error)
	// RandomTranslation samples uniformly among the translations of id
	RandomTranslation(ctx context.Context, kind string, id uuid.UUID) (tr Translation, found bool, err error)

	// Create stores a new resource with its initial translations
	Create(ctx context.Context, kind string, fields Fields, trs []Translation) (BaseRecord, error)
	// ReplaceBase overwrites every base field of id
	ReplaceBase(ctx context.Context, kind string, id uuid.UUID, fields Fields) (found bool, err error)
	// PatchBase overwrites only the supplied base fields of id
	PatchBase(ctx context.Context, kind string, id uuid.UUID, fields Fields) (found bool, err error)
	// DeleteBase removes id and, in cascade, all its translations
	DeleteBase(ctx context.Context, kind string, id uuid.UUID) (found bool, err error)

	// CreateTranslation adds a translation to an existing resource
	// A second translation for the same language is a DuplicateKey error
	CreateTranslation(ctx context.Context, kind string, tr Translation) (created Translation, found bool, err error)
	// ReplaceTranslation overwrites every field of the translation
	ReplaceTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, fields Fields) (found bool, err error)
	// PatchTranslation overwrites only the supplied translation fields
	PatchTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, fields Fields) (found bool, err error)
	// DeleteTranslation removes one translation
	DeleteTranslation(ctx context.Context, kind string, id uuid.UUID, lang string) (found bool, err error)

	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
}

// ServicePort is the catalog contract the http layer consumes
// Every operation is scoped to one kind by name
type ServicePort interface {
	Get(ctx context.Context, kind string, id uuid.UUID, lang string) (View, error)
	List(ctx context.Context, kind string, q url.Values, lang string) ([]View, paging.Meta, error)
	Random(ctx context.Context, kind string, lang string) (View, error)

	Translations(ctx context.Context, kind string, id uuid.UUID) ([]View, error)
	Translation(ctx context.Context, kind string, id uuid.UUID, lang string) (View, error)
	RandomTranslation(ctx context.Context, kind string, id uuid.UUID) (View, error)

	Create(ctx context.Context, kind string, in CreateInput) (View, error)
	Replace(ctx context.Context, kind string, id uuid.UUID, in Input) error
	// Patch updates base fields when lang is empty, else the translation in lang
	Patch(ctx context.Context, kind string, id uuid.UUID, lang string, in Input) error
	Delete(ctx context.Context, kind string, id uuid.UUID) error

	AddTranslation(ctx context.Context, kind string, id uuid.UUID, in TranslationInput) (View, error)
	ReplaceTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, in Input) error
	DeleteTranslation(ctx context.Context, kind string, id uuid.UUID, lang string) error

	Ready(ctx context.Context) error
}
