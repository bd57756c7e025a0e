package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorebook/internal/modkit/httpkit"
	"lorebook/internal/platform/config"
	"lorebook/internal/platform/logger"
	phttp "lorebook/internal/platform/net/http"
	"lorebook/internal/services/api"
	catalogmod "lorebook/internal/services/api/catalog/module"
)

func server(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("CORE_API_JWT_SECRET", "api-test-secret")
	cfg := config.New().Prefix("CORE_API_")

	srv := phttp.NewServer(cfg, phttp.WithJSONFallbacks)
	api.Mount(srv.Router(), api.Options{
		Config: cfg,
		Catalog: catalogmod.Options{
			DefaultLanguage: "en-US",
			PageSize:        20,
			MaxPageSize:     100,
			Store:           catalogmod.StoreMemory,
		},
		Logger:        logger.Get(),
		EnableMetrics: true,
	})
	return srv.Router().Mux()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestMount_CatalogUnderV1(t *testing.T) {
	h := server(t)

	rr := get(h, "/api/v1/episodes?language=pt-BR&order=episode_num")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "3", rr.Header().Get(phttp.HeaderItemTotal))

	var items []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestMount_UnknownRouteIsJSON404(t *testing.T) {
	h := server(t)
	rr := get(h, "/api/v1/dragons")
	require.Equal(t, http.StatusNotFound, rr.Code)

	var env httpkit.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, 404, env.StatusCode)
}

func TestMount_ReadyChecksCatalog(t *testing.T) {
	h := server(t)
	rr := get(h, "/api/v1/meta/ready")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "catalog")
}

func TestMount_WritesNeedToken(t *testing.T) {
	h := server(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/seasons", strings.NewReader(`{"season_num": 2}`)))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	tok, err := httpkit.SignHS256([]byte("api-test-secret"), "admin-1", "admin", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seasons", strings.NewReader(`{"season_num": 2}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestMount_Metrics(t *testing.T) {
	h := server(t)
	_ = get(h, "/api/v1/episodes")
	rr := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "catalog_resolutions_total")
}
