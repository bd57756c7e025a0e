package service

import (
	"context"
	"maps"
	"slices"

	"lorebook/internal/platform/logger"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
)

// Create validates and stores a new resource with its initial translations
func (s *Svc) Create(ctx context.Context, kind string, in domain.CreateInput) (domain.View, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	fields, err := s.checkFields(k.Base, in.Fields, true)
	if err != nil {
		return nil, err
	}

	trs := make([]domain.Translation, 0, len(in.Translations))
	langs := make([]string, 0, len(in.Translations))
	seen := map[string]bool{}
	for _, tag := range slices.Sorted(maps.Keys(in.Translations)) {
		lang, err := canonicalLang(tag)
		if err != nil {
			return nil, err
		}
		if seen[lang] {
			return nil, invalid(domain.KeyTranslations, "translation %s is given twice", lang)
		}
		seen[lang] = true
		tf, err := s.checkFields(k.Translation, in.Translations[tag], true)
		if err != nil {
			return nil, err
		}
		trs = append(trs, domain.Translation{Language: lang, Fields: tf})
		langs = append(langs, lang)
	}

	rec, err := s.store.Create(ctx, k.Name, fields, trs)
	if err != nil {
		return nil, err
	}
	logger.C(ctx).Info().Str("kind", k.Name).Str("id", rec.ID.String()).Strs("languages", langs).Msg("resource created")
	return projectCreated(rec, langs), nil
}

// Replace overwrites every base field of a resource
func (s *Svc) Replace(ctx context.Context, kind string, id uuid.UUID, in domain.Input) error {
	k, err := s.kind(kind)
	if err != nil {
		return err
	}
	fields, err := s.checkFields(k.Base, in, true)
	if err != nil {
		return err
	}
	ok, err := s.store.ReplaceBase(ctx, k.Name, id, fields)
	if err != nil {
		return err
	}
	if !ok {
		return s.miss(ctx, k, "replace", id, "", domain.ErrUnknownResource)
	}
	return nil
}

// Patch overwrites only the fields present in in, base fields when lang is
// empty and the translation in lang otherwise
// Required fields may be omitted; a field cannot be unset
func (s *Svc) Patch(ctx context.Context, kind string, id uuid.UUID, lang string, in domain.Input) error {
	k, err := s.kind(kind)
	if err != nil {
		return err
	}

	if lang == "" {
		fields, err := s.checkFields(k.Base, in, false)
		if err != nil {
			return err
		}
		ok, err := s.store.PatchBase(ctx, k.Name, id, fields)
		if err != nil {
			return err
		}
		if !ok {
			return s.miss(ctx, k, "patch", id, "", domain.ErrUnknownResource)
		}
		return nil
	}

	lang = storedLang(lang)
	fields, err := s.checkFields(k.Translation, in, false)
	if err != nil {
		return err
	}
	ok, err := s.store.PatchTranslation(ctx, k.Name, id, lang, fields)
	if err != nil {
		return err
	}
	if !ok {
		return s.miss(ctx, k, "patch_translation", id, lang, s.cause(ctx, k, id))
	}
	return nil
}

// Delete removes a resource and every translation of it
func (s *Svc) Delete(ctx context.Context, kind string, id uuid.UUID) error {
	k, err := s.kind(kind)
	if err != nil {
		return err
	}
	ok, err := s.store.DeleteBase(ctx, k.Name, id)
	if err != nil {
		return err
	}
	if !ok {
		return s.miss(ctx, k, "delete", id, "", domain.ErrUnknownResource)
	}
	logger.C(ctx).Info().Str("kind", k.Name).Str("id", id.String()).Msg("resource deleted")
	return nil
}

// AddTranslation adds a translation in a new language to a resource
func (s *Svc) AddTranslation(ctx context.Context, kind string, id uuid.UUID, in domain.TranslationInput) (domain.View, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	lang, err := canonicalLang(in.Language)
	if err != nil {
		return nil, err
	}
	fields, err := s.checkFields(k.Translation, in.Fields, true)
	if err != nil {
		return nil, err
	}
	tr, ok, err := s.store.CreateTranslation(ctx, k.Name, domain.Translation{ResourceID: id, Language: lang, Fields: fields})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.miss(ctx, k, "add_translation", id, lang, domain.ErrUnknownResource)
	}
	return ProjectTranslation(tr), nil
}

// ReplaceTranslation overwrites every field of one translation
func (s *Svc) ReplaceTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, in domain.Input) error {
	k, err := s.kind(kind)
	if err != nil {
		return err
	}
	lang = storedLang(lang)
	fields, err := s.checkFields(k.Translation, in, true)
	if err != nil {
		return err
	}
	ok, err := s.store.ReplaceTranslation(ctx, k.Name, id, lang, fields)
	if err != nil {
		return err
	}
	if !ok {
		return s.miss(ctx, k, "replace_translation", id, lang, s.cause(ctx, k, id))
	}
	return nil
}

// DeleteTranslation removes one translation of a resource
func (s *Svc) DeleteTranslation(ctx context.Context, kind string, id uuid.UUID, lang string) error {
	k, err := s.kind(kind)
	if err != nil {
		return err
	}
	lang = storedLang(lang)
	ok, err := s.store.DeleteTranslation(ctx, k.Name, id, lang)
	if err != nil {
		return err
	}
	if !ok {
		return s.miss(ctx, k, "delete_translation", id, lang, s.cause(ctx, k, id))
	}
	return nil
}
