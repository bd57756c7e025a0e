package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/metrics"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails Base with err and counts calls
type flakyStore struct {
	domain.Store
	err   error
	calls int
}

func (f *flakyStore) Base(context.Context, string, uuid.UUID) (domain.BaseRecord, bool, error) {
	f.calls++
	return domain.BaseRecord{}, false, f.err
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	next := &flakyStore{err: perr.DBf("connection reset")}
	b := NewBreaker(next, BreakerConfig{Name: "test-open", Failures: 2, Timeout: time.Minute})

	for range 2 {
		_, _, err := b.Base(context.Background(), "episodes", uuid.New())
		require.Error(t, err)
		assert.True(t, perr.IsCode(err, perr.ErrorCodeDB))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, _, err := b.Base(context.Background(), "episodes", uuid.New())
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 2, next.calls, "open breaker must not reach the store")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.BreakerState.WithLabelValues("test-open")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BreakerRequests.WithLabelValues("test-open", "rejected")))
}

func TestBreaker_CallerErrorsDoNotTrip(t *testing.T) {
	next := &flakyStore{err: perr.DuplicateKeyf("translation en-US already exists")}
	b := NewBreaker(next, BreakerConfig{Name: "test-caller", Failures: 1, Timeout: time.Minute})

	for range 3 {
		_, _, err := b.Base(context.Background(), "episodes", uuid.New())
		assert.True(t, perr.IsCode(err, perr.ErrorCodeDuplicateKey))
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 3, next.calls)
}

func TestBreaker_PassesResultsThrough(t *testing.T) {
	m := NewMemory()
	b := NewBreaker(m, BreakerConfig{Name: "test-pass"})
	ids := seedEpisodes(t, m, 1)

	rec, ok, err := b.Base(context.Background(), "episodes", ids[0])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ids[0], rec.ID)

	_, ok, err = b.Base(context.Background(), "episodes", uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = b.DeleteBase(context.Background(), "episodes", ids[0])
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.Ping(context.Background()))
}

func TestStoreHealthy(t *testing.T) {
	assert.True(t, storeHealthy(nil))
	assert.True(t, storeHealthy(context.Canceled))
	assert.True(t, storeHealthy(perr.NotFoundf("x")))
	assert.False(t, storeHealthy(perr.DBf("x")))
	assert.False(t, storeHealthy(perr.Unavailablef("x")))
	assert.False(t, storeHealthy(errors.New("plain")))
}
