package domain

import (
	"maps"
	"slices"
	"strings"

	perr "lorebook/internal/platform/errors"
)

// Input is a decoded JSON object of field values as sent by a client
// Values are not yet coerced to their field types
type Input map[string]any

// CreateInput is a new resource: flat base fields plus its initial
// translations keyed by language
type CreateInput struct {
	Fields       Input
	Translations map[string]Input
}

// TranslationInput is a new translation for an existing resource
type TranslationInput struct {
	Language string
	Fields   Input
}

// CreateInputFrom splits a create body into base fields and translations
// {"episode_num": 1, "translations": {"en-US": {"title": "Pilot"}}}
func CreateInputFrom(body map[string]any) (CreateInput, error) {
	in := CreateInput{Fields: Input{}, Translations: map[string]Input{}}
	for k, v := range body {
		if k != KeyTranslations {
			in.Fields[k] = v
			continue
		}
		if v == nil {
			continue
		}
		trs, ok := v.(map[string]any)
		if !ok {
			return CreateInput{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "translations must be an object keyed by language"), KeyTranslations)
		}
		for _, lang := range slices.Sorted(maps.Keys(trs)) {
			fs, ok := trs[lang].(map[string]any)
			if !ok {
				return CreateInput{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "translation %s must be an object", lang), KeyTranslations)
			}
			in.Translations[lang] = Input(fs)
		}
	}
	return in, nil
}

// TranslationInputFrom reads the language key out of a translation body
// {"language": "pt-BR", "title": "Piloto"}
func TranslationInputFrom(body map[string]any) (TranslationInput, error) {
	in := TranslationInput{Fields: Input{}}
	for k, v := range body {
		if k == KeyLanguage {
			s, ok := v.(string)
			if !ok {
				return TranslationInput{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "language must be a string"), KeyLanguage)
			}
			in.Language = strings.TrimSpace(s)
			continue
		}
		in.Fields[k] = v
	}
	if in.Language == "" {
		return TranslationInput{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "language is required"), KeyLanguage)
	}
	return in, nil
}
