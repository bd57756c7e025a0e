package repo

import (
	"context"
	"errors"
	"time"

	"lorebook/internal/core/criteria"
	"lorebook/internal/core/paging"
	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/logger"
	"lorebook/internal/platform/metrics"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the store circuit breaker
type BreakerConfig struct {
	Name string
	// Failures is the number of consecutive store failures that opens the breaker
	Failures uint32
	// Timeout is how long the breaker stays open before probing again
	Timeout time.Duration
	// Interval resets the closed state counts; zero never resets
	Interval time.Duration
}

// Breaker decorates a Store with a circuit breaker
// Calls rejected while open fail fast as Unavailable; nothing is retried
type Breaker struct {
	next domain.Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreaker wraps next
func NewBreaker(next domain.Store, cfg BreakerConfig) *Breaker {
	if cfg.Name == "" {
		cfg.Name = "catalog-store"
	}
	if cfg.Failures == 0 {
		cfg.Failures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log := logger.Named("breaker")
	metrics.BreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.Failures
		},
		IsSuccessful: storeHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("store breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.BreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return &Breaker{next: next, cb: cb, name: cfg.Name}
}

var _ domain.Store = (*Breaker)(nil)

// State reports the current breaker state
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// storeHealthy decides which errors count against the store
// caller mistakes and cancellations are not store failures
func storeHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeNotFound, perr.ErrorCodeDuplicateKey, perr.ErrorCodeConflict,
		perr.ErrorCodeValidation, perr.ErrorCodeInvalidArgument, perr.ErrorCodeJSON:
		return true
	}
	return false
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return -1
}

// run executes fn through the breaker keeping its typed result
func run[T any](b *Breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) { return fn() })
	if err != nil {
		var zero T
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.BreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return zero, perr.Wrap(err, perr.ErrorCodeUnavailable, "catalog store unavailable")
		case storeHealthy(err):
			metrics.BreakerRequests.WithLabelValues(b.name, "success").Inc()
		default:
			metrics.BreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		if v, ok := out.(T); ok {
			return v, err
		}
		return zero, err
	}
	metrics.BreakerRequests.WithLabelValues(b.name, "success").Inc()
	v, _ := out.(T)
	return v, nil
}

// lookup carries a value and its found flag through the breaker
type lookup[T any] struct {
	v  T
	ok bool
}

func runLookup[T any](b *Breaker, fn func() (T, bool, error)) (T, bool, error) {
	r, err := run(b, func() (lookup[T], error) {
		v, ok, err := fn()
		return lookup[T]{v: v, ok: ok}, err
	})
	return r.v, r.ok, err
}

type listing struct {
	recs  []domain.BaseRecord
	total int
}

// Ping checks the wrapped store through the breaker
func (b *Breaker) Ping(ctx context.Context) error {
	_, err := run(b, func() (struct{}, error) { return struct{}{}, b.next.Ping(ctx) })
	return err
}

func (b *Breaker) Base(ctx context.Context, kind string, id uuid.UUID) (domain.BaseRecord, bool, error) {
	return runLookup(b, func() (domain.BaseRecord, bool, error) { return b.next.Base(ctx, kind, id) })
}

func (b *Breaker) ListBases(ctx context.Context, kind string, crit criteria.Criteria, page paging.Request) ([]domain.BaseRecord, int, error) {
	l, err := run(b, func() (listing, error) {
		recs, total, err := b.next.ListBases(ctx, kind, crit, page)
		return listing{recs: recs, total: total}, err
	})
	return l.recs, l.total, err
}

func (b *Breaker) RandomID(ctx context.Context, kind string) (uuid.UUID, bool, error) {
	return runLookup(b, func() (uuid.UUID, bool, error) { return b.next.RandomID(ctx, kind) })
}

func (b *Breaker) Translation(ctx context.Context, kind string, id uuid.UUID, lang string) (domain.Translation, bool, error) {
	return runLookup(b, func() (domain.Translation, bool, error) { return b.next.Translation(ctx, kind, id, lang) })
}

func (b *Breaker) TranslationsFor(ctx context.Context, kind string, ids []uuid.UUID, lang string) (map[uuid.UUID]domain.Translation, error) {
	return run(b, func() (map[uuid.UUID]domain.Translation, error) { return b.next.TranslationsFor(ctx, kind, ids, lang) })
}

func (b *Breaker) Translations(ctx context.Context, kind string, id uuid.UUID) ([]domain.Translation, bool, error) {
	return runLookup(b, func() ([]domain.Translation, bool, error) { return b.next.Translations(ctx, kind, id) })
}

func (b *Breaker) RandomTranslation(ctx context.Context, kind string, id uuid.UUID) (domain.Translation, bool, error) {
	return runLookup(b, func() (domain.Translation, bool, error) { return b.next.RandomTranslation(ctx, kind, id) })
}

func (b *Breaker) Create(ctx context.Context, kind string, fields domain.Fields, trs []domain.Translation) (domain.BaseRecord, error) {
	return run(b, func() (domain.BaseRecord, error) { return b.next.Create(ctx, kind, fields, trs) })
}

func (b *Breaker) ReplaceBase(ctx context.Context, kind string, id uuid.UUID, fields domain.Fields) (bool, error) {
	return run(b, func() (bool, error) { return b.next.ReplaceBase(ctx, kind, id, fields) })
}

func (b *Breaker) PatchBase(ctx context.Context, kind string, id uuid.UUID, fields domain.Fields) (bool, error) {
	return run(b, func() (bool, error) { return b.next.PatchBase(ctx, kind, id, fields) })
}

func (b *Breaker) DeleteBase(ctx context.Context, kind string, id uuid.UUID) (bool, error) {
	return run(b, func() (bool, error) { return b.next.DeleteBase(ctx, kind, id) })
}

func (b *Breaker) CreateTranslation(ctx context.Context, kind string, tr domain.Translation) (domain.Translation, bool, error) {
	return runLookup(b, func() (domain.Translation, bool, error) { return b.next.CreateTranslation(ctx, kind, tr) })
}

func (b *Breaker) ReplaceTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, fields domain.Fields) (bool, error) {
	return run(b, func() (bool, error) { return b.next.ReplaceTranslation(ctx, kind, id, lang, fields) })
}

func (b *Breaker) PatchTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, fields domain.Fields) (bool, error) {
	return run(b, func() (bool, error) { return b.next.PatchTranslation(ctx, kind, id, lang, fields) })
}

func (b *Breaker) DeleteTranslation(ctx context.Context, kind string, id uuid.UUID, lang string) (bool, error) {
	return run(b, func() (bool, error) { return b.next.DeleteTranslation(ctx, kind, id, lang) })
}
