package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorebook/internal/core/locale"
	"lorebook/internal/modkit/httpkit"
	perr "lorebook/internal/platform/errors"
	phttp "lorebook/internal/platform/net/http"
	"lorebook/internal/services/api/catalog/domain"
	cataloghttp "lorebook/internal/services/api/catalog/http"
	"lorebook/internal/services/api/catalog/repo"
	"lorebook/internal/services/api/catalog/service"
)

var secret = []byte("catalog-test-secret")

type fixture struct {
	t *testing.T
	h http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	langs, err := locale.NewNegotiator("en-US")
	require.NoError(t, err)
	kinds := domain.DefaultRegistry()
	svc := service.New(repo.NewMemory(), service.Options{Kinds: kinds, Languages: langs})

	m := chi.NewRouter()
	cataloghttp.Register(phttp.AdaptChi(m), cataloghttp.Deps{
		Svc:   svc,
		Kinds: kinds,
		Auth:  httpkit.NewPortFunc(httpkit.HS256(secret)),
	})
	return &fixture{t: t, h: m}
}

func (f *fixture) token(role string) string {
	tok, err := httpkit.SignHS256(secret, "user-1", role, time.Minute)
	require.NoError(f.t, err)
	return tok
}

func (f *fixture) do(method, path, role string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+f.token(role))
	}
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) createEpisode(num int, trs map[string]any) string {
	f.t.Helper()
	rr := f.do(http.MethodPost, "/episodes", cataloghttp.RoleEditor, map[string]any{
		"episode_num":  num,
		"translations": trs,
	})
	require.Equal(f.t, http.StatusCreated, rr.Code, rr.Body.String())
	var v map[string]any
	require.NoError(f.t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v["id"].(string)
}

func envelope(t *testing.T, rr *httptest.ResponseRecorder) httpkit.Envelope {
	t.Helper()
	var env httpkit.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestGet_LocalizedWithContentLanguage(t *testing.T) {
	f := newFixture(t)
	id := f.createEpisode(1, map[string]any{
		"en-US": map[string]any{"title": "Pilot"},
		"pt-BR": map[string]any{"title": "Piloto"},
	})

	rr := f.do(http.MethodGet, "/episodes/"+id+"?language=pt-BR", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pt-BR", rr.Header().Get("Content-Language"))

	var v map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	assert.Equal(t, "Piloto", v["title"])
	assert.EqualValues(t, 1, v["episode_num"])
	assert.Equal(t, id, v["id"])

	// no language falls back to the default
	rr = f.do(http.MethodGet, "/episodes/"+id, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "en-US", rr.Header().Get("Content-Language"))
}

func TestGet_MissesLookAlike(t *testing.T) {
	f := newFixture(t)
	id := f.createEpisode(1, map[string]any{"en-US": map[string]any{"title": "Pilot"}})

	cases := []string{
		"/episodes/" + id + "?language=fr-FR",
		"/episodes/" + uuid.NewString(),
		"/episodes/not-a-uuid",
	}
	for _, path := range cases {
		rr := f.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusNotFound, rr.Code, path)
		env := envelope(t, rr)
		assert.Equal(t, "episode not found", env.Error, path)
		assert.Equal(t, perr.ErrorCodeNotFound, env.Code, path)
	}
}

func TestList_BareArrayAndPaginationHeaders(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 3; i++ {
		f.createEpisode(i, map[string]any{"en-US": map[string]any{"title": "Episode"}})
	}

	rr := f.do(http.MethodGet, "/episodes?size=2&order=episode_num&sort=desc", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.EqualValues(t, 3, items[0]["episode_num"])

	assert.Equal(t, "1", rr.Header().Get(phttp.HeaderPageIndex))
	assert.Equal(t, "2", rr.Header().Get(phttp.HeaderPageSize))
	assert.Equal(t, "2", rr.Header().Get(phttp.HeaderPageTotal))
	assert.Equal(t, "3", rr.Header().Get(phttp.HeaderItemTotal))
}

func TestList_EmptyIsArray(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/actors", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestUnknownKind_NotFound(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/dragons", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWrites_NeedRoles(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"episode_num": 1}

	rr := f.do(http.MethodPost, "/episodes", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodPost, "/episodes", "viewer", body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	id := f.createEpisode(1, nil)
	rr = f.do(http.MethodDelete, "/episodes/"+id, cataloghttp.RoleEditor, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(http.MethodDelete, "/episodes/"+id, cataloghttp.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(http.MethodGet, "/episodes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreate_ValidationEnvelope(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/episodes", cataloghttp.RoleEditor, map[string]any{"episode_num": "one"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := envelope(t, rr)
	assert.Equal(t, "episode_num", env.Field)
	assert.Equal(t, perr.ErrorCodeValidation, env.Code)
}

func TestPatch_KeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	id := f.createEpisode(4, map[string]any{"en-US": map[string]any{"title": "Four"}})

	rr := f.do(http.MethodPatch, "/episodes/"+id, cataloghttp.RoleEditor, map[string]any{"duration": 42})
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = f.do(http.MethodPatch, "/episodes/"+id+"/translations/en-US", cataloghttp.RoleEditor, map[string]any{"synopsis": "Later"})
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = f.do(http.MethodGet, "/episodes/"+id, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var v map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	assert.EqualValues(t, 4, v["episode_num"])
	assert.EqualValues(t, 42, v["duration"])
	assert.Equal(t, "Four", v["title"])
	assert.Equal(t, "Later", v["synopsis"])
}

func TestTranslations_Lifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.createEpisode(1, map[string]any{"en-US": map[string]any{"title": "Pilot"}})
	base := "/episodes/" + id + "/translations"

	rr := f.do(http.MethodPost, base, cataloghttp.RoleEditor, map[string]any{"language": "pt-br", "title": "Piloto"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "pt-BR", created["language"])

	rr = f.do(http.MethodPost, base, cataloghttp.RoleEditor, map[string]any{"language": "pt-BR", "title": "Again"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	rr = f.do(http.MethodGet, base+"/pt-BR", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pt-BR", rr.Header().Get("Content-Language"))

	rr = f.do(http.MethodGet, base+"/random", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Content-Language"))

	rr = f.do(http.MethodPut, base+"/pt-BR", cataloghttp.RoleEditor, map[string]any{"title": "Piloto 2"})
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = f.do(http.MethodDelete, base+"/pt-BR", cataloghttp.RoleAdmin, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(http.MethodGet, base+"/pt-BR", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRandom_EmptyKindNotFound(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/seasons/random", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	f.createEpisode(1, map[string]any{"en-US": map[string]any{"title": "Pilot"}})
	rr = f.do(http.MethodGet, "/episodes/random", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "en-US", rr.Header().Get("Content-Language"))
}

func TestReplace_RequiresEveryRequiredField(t *testing.T) {
	f := newFixture(t)
	id := f.createEpisode(1, nil)

	rr := f.do(http.MethodPut, "/episodes/"+id, cataloghttp.RoleEditor, map[string]any{"duration": 10})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "episode_num", envelope(t, rr).Field)

	rr = f.do(http.MethodPut, "/episodes/"+id, cataloghttp.RoleEditor, map[string]any{"episode_num": 2})
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
