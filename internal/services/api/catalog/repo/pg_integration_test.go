//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lorebook/internal/core/paging"
	"lorebook/internal/modkit/repokit"
	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/store"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns a migrated store
func startPostgres(t *testing.T) *PG {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "lorebook",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{
		Enabled: true,
		URL:     fmt.Sprintf("postgres://postgres:postgres@%s:%s/lorebook?sslmode=disable", host, port.Port()),
	}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	db := repokit.WithBeginHooks(st.PG, StatementTimeout(5*time.Second))
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db), "migrate must be idempotent")
	return NewPG(db)
}

func TestPG_Integration_ResolveAndWrite(t *testing.T) {
	p := startPostgres(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, n := range []int64{1, 2, 3} {
		rec, err := p.Create(ctx, "episodes",
			domain.Fields{"episode_num": n, "air_date": "2019-06-0" + fmt.Sprint(n)},
			[]domain.Translation{{Language: "en-US", Fields: domain.Fields{"title": fmt.Sprintf("Episode %d", n), "writers": []string{"Ana"}}}},
		)
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	recs, total, err := p.ListBases(ctx, "episodes", episodeCriteria(t, "episode_num=2"), paging.Request{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, recs, 1)
	assert.Equal(t, ids[1], recs[0].ID)
	assert.Equal(t, int64(2), recs[0].Fields["episode_num"])

	recs, total, err = p.ListBases(ctx, "episodes", episodeCriteria(t, "order=episode_num&sort=DESC"), paging.Request{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, recs, 2)
	assert.Equal(t, ids[2], recs[0].ID)

	// filters on another kind never match
	_, total, err = p.ListBases(ctx, "seasons", episodeCriteria(t, ""), paging.Request{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	got, err := p.TranslationsFor(ctx, "episodes", ids, "en-US")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"Ana"}, got[ids[0]].Fields["writers"])

	ok, err := p.PatchBase(ctx, "episodes", ids[0], domain.Fields{"duration": int64(44)})
	require.NoError(t, err)
	require.True(t, ok)
	base, ok, err := p.Base(ctx, "episodes", ids[0])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), base.Fields["episode_num"])
	assert.Equal(t, int64(44), base.Fields["duration"])

	_, _, err = p.CreateTranslation(ctx, "episodes", domain.Translation{ResourceID: ids[0], Language: "en-US", Fields: domain.Fields{"title": "dup"}})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeDuplicateKey), "got %v", err)

	id, ok, err := p.RandomID(ctx, "episodes")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, ids, id)

	ok, err = p.DeleteBase(ctx, "episodes", ids[0])
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = p.Translation(ctx, "episodes", ids[0], "en-US")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = p.Translations(ctx, "episodes", ids[0])
	require.NoError(t, err)
	assert.False(t, ok)
}
