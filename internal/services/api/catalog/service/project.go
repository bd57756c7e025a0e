package service

import (
	"maps"
	"slices"

	ptime "lorebook/internal/platform/time"
	"lorebook/internal/services/api/catalog/domain"
)

// Project merges a base record and one of its translations into a flat view
// Nothing is defaulted: a field absent from both is absent from the view
func Project(base domain.BaseRecord, tr domain.Translation) domain.View {
	v := make(domain.View, len(base.Fields)+len(tr.Fields)+4)
	for k, x := range base.Fields {
		v[k] = x
	}
	for k, x := range tr.Fields {
		v[k] = x
	}
	v[domain.KeyID] = base.ID.String()
	v[domain.KeyLanguage] = tr.Language
	v[domain.KeyCreatedAt] = ptime.Stamp(base.CreatedAt)
	v[domain.KeyUpdatedAt] = ptime.Stamp(ptime.Latest(base.UpdatedAt, tr.UpdatedAt))
	return v
}

// ProjectTranslation is the view of a translation on its own
// id is the resource the translation belongs to
func ProjectTranslation(tr domain.Translation) domain.View {
	v := make(domain.View, len(tr.Fields)+4)
	for k, x := range tr.Fields {
		v[k] = x
	}
	v[domain.KeyID] = tr.ResourceID.String()
	v[domain.KeyLanguage] = tr.Language
	v[domain.KeyCreatedAt] = ptime.Stamp(tr.CreatedAt)
	v[domain.KeyUpdatedAt] = ptime.Stamp(tr.UpdatedAt)
	return v
}

// projectCreated is the view returned after a create: base fields plus the
// languages the resource was created with
func projectCreated(base domain.BaseRecord, langs []string) domain.View {
	v := make(domain.View, len(base.Fields)+4)
	maps.Copy(v, base.Fields)
	v[domain.KeyID] = base.ID.String()
	v[domain.KeyCreatedAt] = ptime.Stamp(base.CreatedAt)
	v[domain.KeyUpdatedAt] = ptime.Stamp(base.UpdatedAt)
	sorted := slices.Clone(langs)
	slices.Sort(sorted)
	if sorted == nil {
		sorted = []string{}
	}
	v[domain.KeyTranslations] = sorted
	return v
}
