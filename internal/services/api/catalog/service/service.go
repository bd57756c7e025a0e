// Package service resolves catalog resources: it negotiates the language,
// reads base records and translations from the store and projects them into
// flat views, and validates writes against each kind's schema
package service

import (
	"context"
	"net/url"

	"lorebook/internal/core/criteria"
	"lorebook/internal/core/locale"
	"lorebook/internal/core/normalize"
	"lorebook/internal/core/paging"
	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/logger"
	"lorebook/internal/platform/metrics"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
)

// Service defines the service contract for the catalog
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	store domain.Store
	kinds *domain.Registry
	langs locale.Negotiator
	pager paging.Paginator
	norm  *normalize.Normalizer
}

// Options control service behavior
type Options struct {
	// Kinds is required
	Kinds *domain.Registry
	// Languages is required; it carries the default language
	Languages locale.Negotiator
	// Pager bounds listing page sizes; zero value means 20 of at most 100
	Pager paging.Paginator
}

// New constructs the service
func New(store domain.Store, opt Options) *Svc {
	if store == nil {
		panic("catalog.Service requires a non nil Store")
	}
	if opt.Kinds == nil {
		panic("catalog.Service requires a non nil kind Registry")
	}
	if opt.Languages.Default() == "" {
		panic("catalog.Service requires a language Negotiator with a default")
	}
	p := opt.Pager
	if p.MaxSize == 0 {
		p = paging.New(20, 100)
	}
	return &Svc{
		store: store,
		kinds: opt.Kinds,
		langs: opt.Languages,
		pager: p,
		norm:  normalize.New(),
	}
}

var _ Service = (*Svc)(nil)

// Kinds returns the registry the service resolves against
func (s *Svc) Kinds() *domain.Registry { return s.kinds }

func (s *Svc) kind(name string) (domain.Kind, error) {
	k, ok := s.kinds.Kind(name)
	if !ok {
		return domain.Kind{}, perr.NotFoundf("unknown resource kind %s", name)
	}
	return k, nil
}

// Get resolves one resource in the negotiated language
func (s *Svc) Get(ctx context.Context, kind string, id uuid.UUID, lang string) (domain.View, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	lang = s.langs.Resolve(lang)

	base, ok, err := s.store.Base(ctx, k.Name, id)
	if err != nil {
		return nil, s.failed(k, "get", err)
	}
	if !ok {
		return nil, s.miss(ctx, k, "get", id, lang, domain.ErrUnknownResource)
	}
	tr, ok, err := s.store.Translation(ctx, k.Name, id, lang)
	if err != nil {
		return nil, s.failed(k, "get", err)
	}
	if !ok {
		return nil, s.miss(ctx, k, "get", id, lang, domain.ErrUnknownTranslation)
	}
	metrics.RecordResolution(k.Name, "get", "ok")
	return Project(base, tr), nil
}

// List resolves one page of resources matching the filters in q
// Resources lacking the negotiated language are left out of the page while
// the metadata still counts them
func (s *Svc) List(ctx context.Context, kind string, q url.Values, lang string) ([]domain.View, paging.Meta, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, paging.Meta{}, err
	}
	lang = s.langs.Resolve(lang)

	crit := criteria.Parse(q, k.Criteria())
	if crit.Dropped > 0 {
		logger.C(ctx).Debug().Str("kind", k.Name).Int("dropped", crit.Dropped).Msg("invalid filter values dropped")
		metrics.RecordFilterDropped(k.Name, crit.Dropped)
	}
	page := s.pager.Request(q)

	bases, total, err := s.store.ListBases(ctx, k.Name, crit, page)
	if err != nil {
		return nil, paging.Meta{}, s.failed(k, "list", err)
	}
	meta := s.pager.Compute(page, total)

	out := make([]domain.View, 0, len(bases))
	if len(bases) == 0 {
		metrics.RecordResolution(k.Name, "list", "ok")
		return out, meta, nil
	}

	ids := make([]uuid.UUID, len(bases))
	for i, b := range bases {
		ids[i] = b.ID
	}
	trs, err := s.store.TranslationsFor(ctx, k.Name, ids, lang)
	if err != nil {
		return nil, paging.Meta{}, s.failed(k, "list", err)
	}
	for _, b := range bases {
		tr, ok := trs[b.ID]
		if !ok {
			continue
		}
		out = append(out, Project(b, tr))
	}
	if excluded := len(bases) - len(out); excluded > 0 {
		logger.C(ctx).Debug().Str("kind", k.Name).Str("language", lang).Int("excluded", excluded).Msg("listing excluded untranslated resources")
		metrics.RecordListExcluded(k.Name, excluded)
	}
	metrics.RecordResolution(k.Name, "list", "ok")
	return out, meta, nil
}

// Random resolves a uniformly random resource of kind
// A pick lacking the negotiated language is a miss, not a retry
func (s *Svc) Random(ctx context.Context, kind string, lang string) (domain.View, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	lang = s.langs.Resolve(lang)

	id, ok, err := s.store.RandomID(ctx, k.Name)
	if err != nil {
		return nil, s.failed(k, "random", err)
	}
	if !ok {
		return nil, s.miss(ctx, k, "random", uuid.Nil, lang, domain.ErrUnknownResource)
	}
	base, ok, err := s.store.Base(ctx, k.Name, id)
	if err != nil {
		return nil, s.failed(k, "random", err)
	}
	if !ok {
		// deleted between the pick and the read
		return nil, s.miss(ctx, k, "random", id, lang, domain.ErrUnknownResource)
	}
	tr, ok, err := s.store.Translation(ctx, k.Name, id, lang)
	if err != nil {
		return nil, s.failed(k, "random", err)
	}
	if !ok {
		return nil, s.miss(ctx, k, "random", id, lang, domain.ErrUnknownTranslation)
	}
	metrics.RecordResolution(k.Name, "random", "ok")
	return Project(base, tr), nil
}

// Translations lists every translation of one resource, unpaged
func (s *Svc) Translations(ctx context.Context, kind string, id uuid.UUID) ([]domain.View, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	trs, ok, err := s.store.Translations(ctx, k.Name, id)
	if err != nil {
		return nil, s.failed(k, "translations", err)
	}
	if !ok {
		return nil, s.miss(ctx, k, "translations", id, "", domain.ErrUnknownResource)
	}
	out := make([]domain.View, 0, len(trs))
	for _, tr := range trs {
		out = append(out, ProjectTranslation(tr))
	}
	metrics.RecordResolution(k.Name, "translations", "ok")
	return out, nil
}

// Translation returns one translation of a resource
func (s *Svc) Translation(ctx context.Context, kind string, id uuid.UUID, lang string) (domain.View, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	lang = s.langs.Resolve(lang)

	tr, ok, err := s.store.Translation(ctx, k.Name, id, lang)
	if err != nil {
		return nil, s.failed(k, "translation", err)
	}
	if !ok {
		return nil, s.miss(ctx, k, "translation", id, lang, s.cause(ctx, k, id))
	}
	metrics.RecordResolution(k.Name, "translation", "ok")
	return ProjectTranslation(tr), nil
}

// RandomTranslation samples uniformly among the translations of a resource
func (s *Svc) RandomTranslation(ctx context.Context, kind string, id uuid.UUID) (domain.View, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	tr, ok, err := s.store.RandomTranslation(ctx, k.Name, id)
	if err != nil {
		return nil, s.failed(k, "random_translation", err)
	}
	if !ok {
		return nil, s.miss(ctx, k, "random_translation", id, "", s.cause(ctx, k, id))
	}
	metrics.RecordResolution(k.Name, "random_translation", "ok")
	return ProjectTranslation(tr), nil
}

// Ready reports whether the store answers
func (s *Svc) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// cause tells a missing resource from a missing translation for logs
// It costs one extra read and only runs on the miss path
func (s *Svc) cause(ctx context.Context, k domain.Kind, id uuid.UUID) error {
	if _, ok, err := s.store.Base(ctx, k.Name, id); err == nil && !ok {
		return domain.ErrUnknownResource
	}
	return domain.ErrUnknownTranslation
}

// miss records and returns the NotFound of k
func (s *Svc) miss(ctx context.Context, k domain.Kind, op string, id uuid.UUID, lang string, cause error) error {
	err := domain.NotFound(k, cause)
	label := domain.MissCause(err)
	logger.C(ctx).Debug().
		Str("kind", k.Name).
		Str("op", op).
		Str("id", id.String()).
		Str("language", lang).
		Str("cause", label).
		Msg("catalog miss")
	metrics.RecordMiss(k.Name, label)
	metrics.RecordResolution(k.Name, op, "not_found")
	return err
}

// failed records a store failure and hands it back unchanged
func (s *Svc) failed(k domain.Kind, op string, err error) error {
	metrics.RecordResolution(k.Name, op, "error")
	return err
}
