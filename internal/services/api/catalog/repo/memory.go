package repo

import (
	"context"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"

	"lorebook/internal/core/criteria"
	"lorebook/internal/core/field"
	"lorebook/internal/core/paging"
	perr "lorebook/internal/platform/errors"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
)

// Memory is an in-memory Store for local runs and tests
// Records are copied on the way in and out so callers never share maps
type Memory struct {
	mu    sync.RWMutex
	bases map[uuid.UUID]*domain.BaseRecord
	trs   map[uuid.UUID]map[string]*domain.Translation
	// last is the newest creation time handed out, so creation order is total
	last time.Time

	now   func() time.Time
	intn  func(n int) int
	newID func() uuid.UUID
}

// NewMemory constructs an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		bases: make(map[uuid.UUID]*domain.BaseRecord),
		trs:   make(map[uuid.UUID]map[string]*domain.Translation),
		now:   time.Now,
		intn:  rand.IntN,
		newID: uuid.New,
	}
}

var _ domain.Store = (*Memory)(nil)

// Ping always succeeds
func (m *Memory) Ping(context.Context) error { return nil }

// Base returns the base record for id within kind
func (m *Memory) Base(_ context.Context, kind string, id uuid.UUID) (domain.BaseRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.base(kind, id)
	if !ok {
		return domain.BaseRecord{}, false, nil
	}
	return cloneBase(rec), true, nil
}

// ListBases filters, orders and pages the records of kind
func (m *Memory) ListBases(_ context.Context, kind string, crit criteria.Criteria, page paging.Request) ([]domain.BaseRecord, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.BaseRecord
	for _, rec := range m.bases {
		if rec.Kind == kind && matches(rec, crit) {
			matched = append(matched, rec)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		c := field.Compare(crit.OrderType, orderValue(a, crit.Order), orderValue(b, crit.Order))
		if crit.Direction == criteria.Desc {
			c = -c
		}
		if c == 0 {
			return a.ID.String() < b.ID.String()
		}
		return c < 0
	})

	total := len(matched)
	lo := page.Offset()
	if lo < 0 || lo > total {
		lo = total
	}
	hi := lo + min(max(page.Limit(), 0), total-lo)

	out := make([]domain.BaseRecord, 0, hi-lo)
	for _, rec := range matched[lo:hi] {
		out = append(out, cloneBase(rec))
	}
	return out, total, nil
}

// RandomID picks uniformly among every id of kind
func (m *Memory) RandomID(_ context.Context, kind string) (uuid.UUID, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.bases))
	for id, rec := range m.bases {
		if rec.Kind == kind {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	// map order is random but not uniform; sort then sample
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return slices.Compare(a[:], b[:]) })
	return ids[m.intn(len(ids))], true, nil
}

// Translation returns the translation of id in lang
func (m *Memory) Translation(_ context.Context, kind string, id uuid.UUID, lang string) (domain.Translation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.base(kind, id); !ok {
		return domain.Translation{}, false, nil
	}
	tr, ok := m.trs[id][lang]
	if !ok {
		return domain.Translation{}, false, nil
	}
	return cloneTranslation(tr), true, nil
}

// TranslationsFor returns the translations in lang for ids
func (m *Memory) TranslationsFor(_ context.Context, kind string, ids []uuid.UUID, lang string) (map[uuid.UUID]domain.Translation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[uuid.UUID]domain.Translation, len(ids))
	for _, id := range ids {
		if _, ok := m.base(kind, id); !ok {
			continue
		}
		if tr, ok := m.trs[id][lang]; ok {
			out[id] = cloneTranslation(tr)
		}
	}
	return out, nil
}

// Translations returns every translation of id ordered by language
func (m *Memory) Translations(_ context.Context, kind string, id uuid.UUID) ([]domain.Translation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.base(kind, id); !ok {
		return nil, false, nil
	}
	return m.sortedTranslations(id), true, nil
}

// RandomTranslation picks uniformly among the translations of id
func (m *Memory) RandomTranslation(_ context.Context, kind string, id uuid.UUID) (domain.Translation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.base(kind, id); !ok {
		return domain.Translation{}, false, nil
	}
	trs := m.sortedTranslations(id)
	if len(trs) == 0 {
		return domain.Translation{}, false, nil
	}
	return trs[m.intn(len(trs))], true, nil
}

// Create stores a new resource with its initial translations
func (m *Memory) Create(_ context.Context, kind string, fields domain.Fields, trs []domain.Translation) (domain.BaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[string]bool{}
	for _, tr := range trs {
		if seen[tr.Language] {
			return domain.BaseRecord{}, perr.DuplicateKeyf("duplicate translation %s", tr.Language)
		}
		seen[tr.Language] = true
	}

	now := advance(m.last, m.now())
	m.last = now
	rec := &domain.BaseRecord{
		ID:        m.newID(),
		Kind:      kind,
		Fields:    fields.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.bases[rec.ID] = rec

	langs := make(map[string]*domain.Translation, len(trs))
	for _, tr := range trs {
		langs[tr.Language] = &domain.Translation{
			ResourceID: rec.ID,
			Language:   tr.Language,
			Fields:     tr.Fields.Clone(),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	m.trs[rec.ID] = langs
	return cloneBase(rec), nil
}

// ReplaceBase overwrites every base field of id
func (m *Memory) ReplaceBase(_ context.Context, kind string, id uuid.UUID, fields domain.Fields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.base(kind, id)
	if !ok {
		return false, nil
	}
	rec.Fields = fields.Clone()
	rec.UpdatedAt = advance(rec.UpdatedAt, m.now())
	return true, nil
}

// PatchBase overwrites only the supplied base fields of id
func (m *Memory) PatchBase(_ context.Context, kind string, id uuid.UUID, fields domain.Fields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.base(kind, id)
	if !ok {
		return false, nil
	}
	merged := rec.Fields.Clone()
	for k, v := range fields.Clone() {
		merged[k] = v
	}
	rec.Fields = merged
	rec.UpdatedAt = advance(rec.UpdatedAt, m.now())
	return true, nil
}

// DeleteBase removes id and its translations
func (m *Memory) DeleteBase(_ context.Context, kind string, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.base(kind, id); !ok {
		return false, nil
	}
	delete(m.bases, id)
	delete(m.trs, id)
	return true, nil
}

// CreateTranslation adds a translation to an existing resource
func (m *Memory) CreateTranslation(_ context.Context, kind string, tr domain.Translation) (domain.Translation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.base(kind, tr.ResourceID); !ok {
		return domain.Translation{}, false, nil
	}
	langs := m.trs[tr.ResourceID]
	if langs == nil {
		langs = make(map[string]*domain.Translation)
		m.trs[tr.ResourceID] = langs
	}
	if _, dup := langs[tr.Language]; dup {
		return domain.Translation{}, true, perr.DuplicateKeyf("translation %s already exists", tr.Language)
	}
	now := m.now().UTC()
	stored := &domain.Translation{
		ResourceID: tr.ResourceID,
		Language:   tr.Language,
		Fields:     tr.Fields.Clone(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	langs[tr.Language] = stored
	return cloneTranslation(stored), true, nil
}

// ReplaceTranslation overwrites every field of one translation
func (m *Memory) ReplaceTranslation(_ context.Context, kind string, id uuid.UUID, lang string, fields domain.Fields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tr, ok := m.translation(kind, id, lang)
	if !ok {
		return false, nil
	}
	tr.Fields = fields.Clone()
	tr.UpdatedAt = advance(tr.UpdatedAt, m.now())
	return true, nil
}

// PatchTranslation overwrites only the supplied translation fields
func (m *Memory) PatchTranslation(_ context.Context, kind string, id uuid.UUID, lang string, fields domain.Fields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tr, ok := m.translation(kind, id, lang)
	if !ok {
		return false, nil
	}
	merged := tr.Fields.Clone()
	for k, v := range fields.Clone() {
		merged[k] = v
	}
	tr.Fields = merged
	tr.UpdatedAt = advance(tr.UpdatedAt, m.now())
	return true, nil
}

// DeleteTranslation removes one translation
func (m *Memory) DeleteTranslation(_ context.Context, kind string, id uuid.UUID, lang string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.translation(kind, id, lang); !ok {
		return false, nil
	}
	delete(m.trs[id], lang)
	return true, nil
}

// helpers, callers hold the lock

func (m *Memory) base(kind string, id uuid.UUID) (*domain.BaseRecord, bool) {
	rec, ok := m.bases[id]
	if !ok || rec.Kind != kind {
		return nil, false
	}
	return rec, true
}

func (m *Memory) translation(kind string, id uuid.UUID, lang string) (*domain.Translation, bool) {
	if _, ok := m.base(kind, id); !ok {
		return nil, false
	}
	tr, ok := m.trs[id][lang]
	return tr, ok
}

func (m *Memory) sortedTranslations(id uuid.UUID) []domain.Translation {
	langs := m.trs[id]
	out := make([]domain.Translation, 0, len(langs))
	for _, tr := range langs {
		out = append(out, cloneTranslation(tr))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out
}

func matches(rec *domain.BaseRecord, crit criteria.Criteria) bool {
	for _, cl := range crit.Clauses {
		if !cl.Type.MatchesAny(rec.Fields[cl.Field], cl.Values) {
			return false
		}
	}
	return true
}

func orderValue(rec *domain.BaseRecord, order string) any {
	switch order {
	case criteria.CreatedAt:
		return rec.CreatedAt
	case criteria.UpdatedAt:
		return rec.UpdatedAt
	}
	return rec.Fields[order]
}

// advance returns a write timestamp strictly after prev
func advance(prev, now time.Time) time.Time {
	now = now.UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func cloneBase(rec *domain.BaseRecord) domain.BaseRecord {
	c := *rec
	c.Fields = rec.Fields.Clone()
	return c
}

func cloneTranslation(tr *domain.Translation) domain.Translation {
	c := *tr
	c.Fields = tr.Fields.Clone()
	return c
}
