package httpkit_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorebook/internal/modkit/httpkit"
	perr "lorebook/internal/platform/errors"
	phttp "lorebook/internal/platform/net/http"
)

func do(h http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func envelope(t *testing.T, rr *httptest.ResponseRecorder) httpkit.Envelope {
	t.Helper()
	var env httpkit.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func TestPort_Parse(t *testing.T) {
	var seen string
	p := httpkit.NewPortFunc(func(tok string) (string, string, error) {
		seen = tok
		if tok == "good" {
			return "editor-7", "editor", nil
		}
		return "", "", errors.New("bad signature")
	})

	cases := []struct {
		name, header string
		ok           bool
	}{
		{"missing", "", false},
		{"wrong scheme", "Basic abc", false},
		{"empty token", "Bearer   ", false},
		{"rejected", "Bearer nope", false},
		{"lowercase scheme", "bearer good", true},
		{"padded", "  Bearer   good  ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			sub, role, err := p.Parse(req)
			if !tc.ok {
				assert.True(t, perr.IsCode(err, perr.ErrorCodeUnauthorized), "%v", err)
				assert.Empty(t, sub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "good", seen)
			assert.Equal(t, "editor-7", sub)
			assert.Equal(t, "editor", role)
		})
	}

	_, _, err := httpkit.NewPortFunc(nil).Parse(func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer x")
		return r
	}())
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnauthorized))
}

type roleTable map[string]string

func (rt roleTable) Parse(r *http.Request) (string, string, error) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	role, ok := rt[tok]
	if !ok {
		return "", "", perr.Unauthorizedf("invalid bearer token")
	}
	return tok, role, nil
}

func TestProtected_AuthThenRole(t *testing.T) {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Get("/seasons", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("open")) })
	httpkit.Protected(r, roleTable{"ann": "admin", "vic": "viewer"}, []string{"admin"}, func(pr httpkit.Router) {
		httpkit.Delete(pr, "/seasons/{id}", func(req *http.Request) (any, error) {
			sub, err := httpkit.Subject(req)
			if err != nil {
				return nil, err
			}
			return map[string]string{"deleted": httpkit.Param(req, "id"), "by": sub}, nil
		})
	})

	assert.Equal(t, "open", do(mux, http.MethodGet, "/seasons", "").Body.String())

	rr := do(mux, http.MethodDelete, "/seasons/s1", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 401, envelope(t, rr).StatusCode)

	rr = do(mux, http.MethodDelete, "/seasons/s1", "", "Authorization", "Bearer vic")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(mux, http.MethodDelete, "/seasons/s1", "", "Authorization", "Bearer ann")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":"s1","by":"ann"}`, rr.Body.String())
}

func TestSubject_Missing(t *testing.T) {
	_, err := httpkit.Subject(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnauthorized))
}

type seasonIn struct {
	SeasonNum int `json:"season_num" validate:"required,min=1"`
}

func TestSugar_Responses(t *testing.T) {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	httpkit.Get(r, "/plain", func(*http.Request) (any, error) { return []int{1, 2}, nil })
	httpkit.Get(r, "/localized", func(*http.Request) (any, error) {
		return httpkit.Localized(map[string]string{"title": "Temporada 1"}, "pt-BR"), nil
	})
	httpkit.Get(r, "/paged", func(*http.Request) (any, error) {
		return httpkit.List([]string{"a"}, httpkit.Page{Index: 2, Size: 1, TotalPages: 3, TotalItems: 3}), nil
	})
	httpkit.Get(r, "/missing", func(*http.Request) (any, error) { return nil, perr.NotFoundf("season not found") })
	httpkit.PostJSON(r, "/seasons", func(_ *http.Request, in seasonIn) (any, error) {
		return httpkit.Created(in), nil
	})
	httpkit.PutJSON(r, "/seasons/{id}", func(_ *http.Request, in seasonIn) (any, error) { return in, nil })
	httpkit.PatchJSON(r, "/seasons/{id}", func(*http.Request, seasonIn) (any, error) { return httpkit.NoContent(), nil })

	rr := do(mux, http.MethodGet, "/plain", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[1,2]`, rr.Body.String())

	rr = do(mux, http.MethodGet, "/localized", "")
	assert.Equal(t, "pt-BR", rr.Header().Get("Content-Language"))

	rr = do(mux, http.MethodGet, "/paged", "")
	assert.Equal(t, "3", rr.Header().Get(phttp.HeaderItemTotal))

	rr = do(mux, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "season not found", envelope(t, rr).Error)

	rr = do(mux, http.MethodPost, "/seasons", `{"season_num": 2}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"season_num":2}`, rr.Body.String())

	rr = do(mux, http.MethodPut, "/seasons/x", `{"season_num": 0}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(mux, http.MethodPatch, "/seasons/x", `{"season_num": 3}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMountAPIV1(t *testing.T) {
	mux := chi.NewRouter()
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Scope", "api")
			next.ServeHTTP(w, r)
		})
	}
	httpkit.MountAPIV1(phttp.AdaptChi(mux), []func(http.Handler) http.Handler{mw}, func(api httpkit.Router) {
		httpkit.Get(api, "/episodes", func(*http.Request) (any, error) { return []string{}, nil })
	})

	rr := do(mux, http.MethodGet, "/api/v1/episodes", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "api", rr.Header().Get("X-Scope"))
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodGet, "/episodes", "").Code)
}
