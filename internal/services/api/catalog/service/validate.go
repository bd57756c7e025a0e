package service

import (
	"maps"
	"slices"
	"strings"

	"lorebook/internal/core/field"
	"lorebook/internal/core/locale"
	"lorebook/internal/core/normalize"
	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/net/http/bind"
	"lorebook/internal/services/api/catalog/domain"
)

// checkFields coerces in against schema, normalizing text as it goes
// Required fields are enforced only when full is set: create and replace
// send every field, patch sends only what changes
func (s *Svc) checkFields(schema []domain.Field, in domain.Input, full bool) (domain.Fields, error) {
	out := make(domain.Fields, len(in))
	// sorted so the first error reported is stable
	for _, name := range slices.Sorted(maps.Keys(in)) {
		i := slices.IndexFunc(schema, func(f domain.Field) bool { return f.Name == name })
		if i < 0 {
			return nil, invalid(name, "%s is not a known field", name)
		}
		f := schema[i]
		v, err := f.Type.Coerce(in[name])
		if err != nil {
			return nil, invalid(name, "%s must be a %s", name, describe(f.Type))
		}
		v = s.clean(f.Type, v)
		if f.Required && isBlank(v) {
			return nil, invalid(name, "%s must not be empty", name)
		}
		if err := bind.Var(name, v, f.Rules); err != nil {
			return nil, err
		}
		out[name] = v
	}
	if full {
		for _, f := range schema {
			if _, ok := out[f.Name]; f.Required && !ok {
				return nil, invalid(f.Name, "%s is required", f.Name)
			}
		}
	}
	return out, nil
}

// clean normalizes free text: single line for String, line breaks kept for Text
func (s *Svc) clean(t field.Type, v any) any {
	switch t {
	case field.String:
		return s.norm.Normalize(v.(string), normalize.Line)
	case field.Text:
		return s.norm.Normalize(v.(string), normalize.Block)
	case field.StringList:
		xs := v.([]string)
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			if x = s.norm.Normalize(x, normalize.Line); x != "" {
				out = append(out, x)
			}
		}
		return out
	}
	return v
}

// canonicalLang canonicalizes the language of a new translation
func canonicalLang(tag string) (string, error) {
	c, err := locale.Canonical(tag)
	if err != nil {
		return "", invalid(domain.KeyLanguage, "%s is not a valid language tag", strings.TrimSpace(tag))
	}
	return c, nil
}

// storedLang maps a language naming an existing translation to the canonical
// form translations are stored under. A tag that does not parse is kept as is
// and simply finds nothing
func storedLang(tag string) string {
	if c, err := locale.Canonical(tag); err == nil {
		return c
	}
	return tag
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	}
	return false
}

func describe(t field.Type) string {
	switch t {
	case field.Int:
		return "whole number"
	case field.Bool:
		return "boolean"
	case field.Date:
		return "date (YYYY-MM-DD)"
	case field.UUID:
		return "uuid"
	case field.URL:
		return "url"
	case field.StringList:
		return "list of strings"
	case field.Time:
		return "RFC3339 timestamp"
	}
	return "string"
}

func invalid(name, format string, a ...any) error {
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, format, a...), name)
}
