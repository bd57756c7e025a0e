// Package http provides HTTP transport for the catalog API
package http

import (
	stdhttp "net/http"

	"lorebook/internal/modkit/httpkit"
	"lorebook/internal/platform/logger"
	"lorebook/internal/platform/net/middleware"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
)

// Roles allowed on write routes
const (
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

var (
	writers  = []string{RoleEditor, RoleAdmin}
	removers = []string{RoleAdmin}
)

// Deps are what the catalog routes need
type Deps struct {
	Svc   domain.ServicePort
	Kinds *domain.Registry
	// Auth guards write routes; nil leaves them unmounted
	Auth middleware.AuthPort
}

// Register mounts one route tree per kind, eg /episodes and /episodes/{id}
// Reads are public, writes need an editor and deletes an admin
func Register(r httpkit.Router, d Deps) {
	for _, name := range d.Kinds.Names() {
		k, _ := d.Kinds.Kind(name)
		h := &handlers{svc: d.Svc, kind: k}

		r.Route("/"+k.Name, func(kr httpkit.Router) {
			httpkit.Get(kr, "/", h.list)
			httpkit.Get(kr, "/random", h.random)
			httpkit.Get(kr, "/{id}", h.get)
			httpkit.Get(kr, "/{id}/translations", h.translations)
			httpkit.Get(kr, "/{id}/translations/random", h.randomTranslation)
			httpkit.Get(kr, "/{id}/translations/{language}", h.translation)

			if d.Auth == nil {
				return
			}
			httpkit.Protected(kr, d.Auth, writers, func(wr httpkit.Router) {
				httpkit.PostJSON(wr, "/", h.create)
				httpkit.PutJSON(wr, "/{id}", h.replace)
				httpkit.PatchJSON(wr, "/{id}", h.patch)
				httpkit.PostJSON(wr, "/{id}/translations", h.addTranslation)
				httpkit.PutJSON(wr, "/{id}/translations/{language}", h.replaceTranslation)
				httpkit.PatchJSON(wr, "/{id}/translations/{language}", h.patchTranslation)
			})
			httpkit.Protected(kr, d.Auth, removers, func(ar httpkit.Router) {
				httpkit.Delete(ar, "/{id}", h.remove)
				httpkit.Delete(ar, "/{id}/translations/{language}", h.removeTranslation)
			})
		})
	}
}

type handlers struct {
	svc  domain.ServicePort
	kind domain.Kind
}

// id reads the {id} segment; anything that is not a uuid cannot name a resource
func (h *handlers) id(r *stdhttp.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(httpkit.Param(r, "id"))
	if err != nil {
		return uuid.Nil, domain.NotFound(h.kind, domain.ErrUnknownResource)
	}
	return id, nil
}

func language(r *stdhttp.Request) string { return r.URL.Query().Get("language") }

// @Summary List resources of a kind in one language
// @Description Filters are any base field as a query parameter; repeat a key to match any of its values.
// @Description Pagination is reported in the X-Pagination-* headers.
// @Tags Catalog
// @Produce json
// @Param kind path string true "Resource kind" Enums(actors, episodes, games, locations, overview, seasons, soundtracks)
// @Param language query string false "Language tag, default en-US"
// @Param order query string false "Field to order by"
// @Param sort query string false "asc or desc"
// @Param page query int false "Page index, from 1"
// @Param size query int false "Page size"
// @Success 200 {array} object "ok"
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind} [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	views, meta, err := h.svc.List(r.Context(), h.kind.Name, r.URL.Query(), language(r))
	if err != nil {
		return nil, err
	}
	return httpkit.List(views, httpkit.Page{
		Index:      meta.Page,
		Size:       meta.Size,
		TotalPages: meta.TotalPages,
		TotalItems: meta.TotalItems,
	}), nil
}

// @Summary Get a resource in one language
// @Tags Catalog
// @Produce json
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param language query string false "Language tag, default en-US"
// @Success 200 {object} object "ok"
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	v, err := h.svc.Get(r.Context(), h.kind.Name, id, language(r))
	if err != nil {
		return nil, err
	}
	return httpkit.Localized(v, v.Language()), nil
}

// @Summary Get a random resource in one language
// @Tags Catalog
// @Produce json
// @Param kind path string true "Resource kind"
// @Param language query string false "Language tag, default en-US"
// @Success 200 {object} object "ok"
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/random [get]
func (h *handlers) random(r *stdhttp.Request) (any, error) {
	v, err := h.svc.Random(r.Context(), h.kind.Name, language(r))
	if err != nil {
		return nil, err
	}
	return httpkit.Localized(v, v.Language()), nil
}

// @Summary List every translation of a resource
// @Tags Catalog
// @Produce json
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Success 200 {array} object "ok"
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id}/translations [get]
func (h *handlers) translations(r *stdhttp.Request) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Translations(r.Context(), h.kind.Name, id)
}

// @Summary Get one translation of a resource
// @Tags Catalog
// @Produce json
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param language path string true "Language tag"
// @Success 200 {object} object "ok"
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id}/translations/{language} [get]
func (h *handlers) translation(r *stdhttp.Request) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	v, err := h.svc.Translation(r.Context(), h.kind.Name, id, httpkit.Param(r, "language"))
	if err != nil {
		return nil, err
	}
	return httpkit.Localized(v, v.Language()), nil
}

// @Summary Get a random translation of a resource
// @Tags Catalog
// @Produce json
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Success 200 {object} object "ok"
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id}/translations/random [get]
func (h *handlers) randomTranslation(r *stdhttp.Request) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	v, err := h.svc.RandomTranslation(r.Context(), h.kind.Name, id)
	if err != nil {
		return nil, err
	}
	return httpkit.Localized(v, v.Language()), nil
}

// @Summary Create a resource with its initial translations
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param payload body object true "Base fields plus translations keyed by language"
// @Success 201 {object} object "created"
// @Failure 400 {object} httpkit.Envelope
// @Failure 401 {object} httpkit.Envelope
// @Failure 403 {object} httpkit.Envelope
// @Router /{kind} [post]
func (h *handlers) create(r *stdhttp.Request, body map[string]any) (any, error) {
	in, err := domain.CreateInputFrom(body)
	if err != nil {
		return nil, err
	}
	v, err := h.svc.Create(r.Context(), h.kind.Name, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(v), nil
}

// @Summary Replace every base field of a resource
// @Tags Catalog
// @Accept json
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param payload body object true "Base fields"
// @Success 204
// @Failure 400 {object} httpkit.Envelope
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id} [put]
func (h *handlers) replace(r *stdhttp.Request, body map[string]any) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Replace(r.Context(), h.kind.Name, id, domain.Input(body)); err != nil {
		return nil, err
	}
	h.audit(r, "replace", id)
	return httpkit.NoContent(), nil
}

// @Summary Update some base fields of a resource
// @Tags Catalog
// @Accept json
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param payload body object true "Fields to change"
// @Success 204
// @Failure 400 {object} httpkit.Envelope
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id} [patch]
func (h *handlers) patch(r *stdhttp.Request, body map[string]any) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Patch(r.Context(), h.kind.Name, id, "", domain.Input(body)); err != nil {
		return nil, err
	}
	h.audit(r, "patch", id)
	return httpkit.NoContent(), nil
}

// @Summary Delete a resource and all its translations
// @Tags Catalog
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Success 204
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), h.kind.Name, id); err != nil {
		return nil, err
	}
	h.audit(r, "delete", id)
	return httpkit.NoContent(), nil
}

// @Summary Add a translation to a resource
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param payload body object true "language plus translated fields"
// @Success 201 {object} object "created"
// @Failure 400 {object} httpkit.Envelope
// @Failure 404 {object} httpkit.Envelope
// @Failure 409 {object} httpkit.Envelope
// @Router /{kind}/{id}/translations [post]
func (h *handlers) addTranslation(r *stdhttp.Request, body map[string]any) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	in, err := domain.TranslationInputFrom(body)
	if err != nil {
		return nil, err
	}
	v, err := h.svc.AddTranslation(r.Context(), h.kind.Name, id, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(v), nil
}

// @Summary Replace every field of a translation
// @Tags Catalog
// @Accept json
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param language path string true "Language tag"
// @Param payload body object true "Translated fields"
// @Success 204
// @Failure 400 {object} httpkit.Envelope
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id}/translations/{language} [put]
func (h *handlers) replaceTranslation(r *stdhttp.Request, body map[string]any) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	lang := httpkit.Param(r, "language")
	if err := h.svc.ReplaceTranslation(r.Context(), h.kind.Name, id, lang, domain.Input(body)); err != nil {
		return nil, err
	}
	h.audit(r, "replace_translation", id)
	return httpkit.NoContent(), nil
}

// @Summary Update some fields of a translation
// @Tags Catalog
// @Accept json
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param language path string true "Language tag"
// @Param payload body object true "Fields to change"
// @Success 204
// @Failure 400 {object} httpkit.Envelope
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id}/translations/{language} [patch]
func (h *handlers) patchTranslation(r *stdhttp.Request, body map[string]any) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	lang := httpkit.Param(r, "language")
	if err := h.svc.Patch(r.Context(), h.kind.Name, id, lang, domain.Input(body)); err != nil {
		return nil, err
	}
	h.audit(r, "patch_translation", id)
	return httpkit.NoContent(), nil
}

// @Summary Delete one translation of a resource
// @Tags Catalog
// @Security BearerAuth
// @Param kind path string true "Resource kind"
// @Param id path string true "Resource id"
// @Param language path string true "Language tag"
// @Success 204
// @Failure 404 {object} httpkit.Envelope
// @Router /{kind}/{id}/translations/{language} [delete]
func (h *handlers) removeTranslation(r *stdhttp.Request) (any, error) {
	id, err := h.id(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.DeleteTranslation(r.Context(), h.kind.Name, id, httpkit.Param(r, "language")); err != nil {
		return nil, err
	}
	h.audit(r, "delete_translation", id)
	return httpkit.NoContent(), nil
}

func (h *handlers) audit(r *stdhttp.Request, op string, id uuid.UUID) {
	sub, _ := httpkit.Subject(r)
	logger.C(r.Context()).Info().
		Str("kind", h.kind.Name).
		Str("op", op).
		Str("id", id.String()).
		Str("subject", sub).
		Msg("catalog write")
}
