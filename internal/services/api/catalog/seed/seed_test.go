package seed_test

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorebook/internal/core/locale"
	perr "lorebook/internal/platform/errors"
	"lorebook/internal/services/api/catalog/domain"
	"lorebook/internal/services/api/catalog/repo"
	"lorebook/internal/services/api/catalog/seed"
	"lorebook/internal/services/api/catalog/service"
)

func newSvc(t *testing.T) *service.Svc {
	t.Helper()
	langs, err := locale.NewNegotiator("en-US")
	require.NoError(t, err)
	return service.New(repo.NewMemory(), service.Options{Kinds: domain.DefaultRegistry(), Languages: langs})
}

func TestStarterCatalog_AppliesCleanly(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)

	f, err := seed.Open("")
	require.NoError(t, err)
	counts, err := seed.Apply(ctx, s, f)
	require.NoError(t, err)
	assert.Equal(t, 3, counts["episodes"])
	assert.Equal(t, 1, counts["overview"])

	views, meta, err := s.List(ctx, "episodes", url.Values{"order": {"episode_num"}}, "pt-BR")
	require.NoError(t, err)
	assert.Equal(t, 3, meta.TotalItems)
	// episode 2 has no pt-BR translation
	assert.Len(t, views, 2)
	assert.Equal(t, "Batatinha Frita 1, 2, 3", views[0]["title"])
}

func TestDecode_PreservesOrderAndTypes(t *testing.T) {
	doc := `
- kind: seasons
  items:
    - season_num: 2
      release_date: "2024-12-26"
      translations:
        en-US: {title: Season 2}
- kind: episodes
  items: []
`
	f, err := seed.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, f, 2)
	assert.Equal(t, "seasons", f[0].Kind)
	assert.Equal(t, 2, f[0].Items[0]["season_num"])
	assert.Equal(t, "2024-12-26", f[0].Items[0]["release_date"])
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := seed.Decode(strings.NewReader("- kind: seasons\n  rows: []\n"))
	require.Error(t, err)
}

func TestDecode_EmptyDocument(t *testing.T) {
	f, err := seed.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f)
}

func TestApply_StopsAtFirstInvalidItem(t *testing.T) {
	s := newSvc(t)
	f := seed.File{{
		Kind: "episodes",
		Items: []map[string]any{
			{"episode_num": 1, "translations": map[string]any{"en-US": map[string]any{"title": "One"}}},
			{"translations": map[string]any{"en-US": map[string]any{"title": "No number"}}},
			{"episode_num": 3},
		},
	}}
	counts, err := seed.Apply(context.Background(), s, f)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
	assert.Contains(t, err.Error(), "episodes item 1")
	assert.Equal(t, 1, counts["episodes"])
}

func TestApply_UnknownKind(t *testing.T) {
	s := newSvc(t)
	_, err := seed.Apply(context.Background(), s, seed.File{{Kind: "dragons", Items: []map[string]any{{}}}})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- kind: actors\n  items: []\n"), 0o600))

	f, err := seed.Open(path)
	require.NoError(t, err)
	require.Len(t, f, 1)
	assert.Equal(t, "actors", f[0].Kind)

	_, err = seed.Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
