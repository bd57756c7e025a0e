package repo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"lorebook/internal/core/criteria"
	"lorebook/internal/core/field"
	"lorebook/internal/core/paging"
	"lorebook/internal/modkit/repokit"
	perr "lorebook/internal/platform/errors"
	ptime "lorebook/internal/platform/time"
	"lorebook/internal/services/api/catalog/domain"

	"github.com/google/uuid"
)

// PG is the Postgres Store
// Base and translation attributes live in jsonb columns so every kind shares
// the same two tables
type PG struct {
	db   repokit.TxRunner
	bind repokit.Binder[*queries]
	intn func(n int) int
}

// queries runs the catalog SQL against one Queryer, a pool or a tx
type queries struct{ q repokit.Queryer }

var bindQueries = repokit.BindFunc[*queries](func(q repokit.Queryer) *queries { return &queries{q: q} })

// NewPG constructs the Postgres store over db
func NewPG(db repokit.TxRunner) *PG {
	if db == nil {
		panic("catalog.PG requires a non nil TxRunner")
	}
	return &PG{db: db, bind: bindQueries, intn: rand.IntN}
}

var _ domain.Store = (*PG)(nil)

func (p *PG) read() *queries { return repokit.MustBind(p.bind, p.db) }

func (p *PG) tx(ctx context.Context, fn func(*queries) error) error {
	return repokit.WithTx(ctx, p.db, func(q repokit.Queryer) error { return fn(p.bind.Bind(q)) })
}

// Ping checks the connection
func (p *PG) Ping(ctx context.Context) error {
	if pinger, ok := p.db.(interface{ Ping(context.Context) error }); ok {
		return wrap(pinger.Ping(ctx), "catalog: ping")
	}
	_, err := repokit.Scalar[int](ctx, p.db, "select 1")
	return wrap(err, "catalog: ping")
}

const baseCols = `id::text, kind, attrs::text, created_at, updated_at`

const trCols = `t.resource_id::text, t.language, t.attrs::text, t.created_at, t.updated_at`

// Base returns the base record for id within kind
func (p *PG) Base(ctx context.Context, kind string, id uuid.UUID) (domain.BaseRecord, bool, error) {
	rec, err := repokit.One(ctx, p.read().q, scanBase,
		`select `+baseCols+` from catalog_resources where id = $1::uuid and kind = $2`,
		id.String(), kind)
	return found(rec, err, "catalog: base")
}

// ListBases counts and pages the records of kind matching crit
func (p *PG) ListBases(ctx context.Context, kind string, crit criteria.Criteria, page paging.Request) ([]domain.BaseRecord, int, error) {
	var (
		recs  []domain.BaseRecord
		total int
	)
	err := p.tx(ctx, func(qs *queries) error {
		a := &sqlArgs{}
		where := whereClause(a, kind, crit)

		n, err := repokit.Scalar[int64](ctx, qs.q, `select count(*) from catalog_resources where `+where, a.vals...)
		if err != nil {
			return err
		}
		total = int(n)
		if off := page.Offset(); total == 0 || off < 0 || off >= total {
			return nil
		}

		sql := `select ` + baseCols + ` from catalog_resources where ` + where +
			` order by ` + orderClause(a, crit) +
			` limit ` + a.add(page.Limit()) + ` offset ` + a.add(page.Offset())
		recs, err = repokit.Many(ctx, qs.q, scanBase, sql, a.vals...)
		return err
	})
	if err != nil {
		return nil, 0, wrap(err, "catalog: list")
	}
	return recs, total, nil
}

// RandomID counts the ids of kind and reads one at a random offset
func (p *PG) RandomID(ctx context.Context, kind string) (uuid.UUID, bool, error) {
	q := p.read().q
	n, err := repokit.Scalar[int64](ctx, q, `select count(*) from catalog_resources where kind = $1`, kind)
	if err != nil {
		return uuid.Nil, false, wrap(err, "catalog: random count")
	}
	if n == 0 {
		return uuid.Nil, false, nil
	}
	raw, err := repokit.One(ctx, q, scanText,
		`select id::text from catalog_resources where kind = $1 order by id offset $2 limit 1`,
		kind, p.intn(int(n)))
	raw, ok, err := found(raw, err, "catalog: random id")
	if err != nil || !ok {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("catalog: random id: %w", err)
	}
	return id, true, nil
}

// Translation returns the translation of id in lang
func (p *PG) Translation(ctx context.Context, kind string, id uuid.UUID, lang string) (domain.Translation, bool, error) {
	tr, err := repokit.One(ctx, p.read().q, scanTranslation,
		`select `+trCols+` from catalog_translations t
		join catalog_resources r on r.id = t.resource_id
		where t.resource_id = $1::uuid and r.kind = $2 and t.language = $3`,
		id.String(), kind, lang)
	return found(tr, err, "catalog: translation")
}

// TranslationsFor returns the translations in lang for ids in one round trip
func (p *PG) TranslationsFor(ctx context.Context, kind string, ids []uuid.UUID, lang string) (map[uuid.UUID]domain.Translation, error) {
	out := make(map[uuid.UUID]domain.Translation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	trs, err := repokit.Many(ctx, p.read().q, scanTranslation,
		`select `+trCols+` from catalog_translations t
		join catalog_resources r on r.id = t.resource_id
		where t.resource_id = any($1::uuid[]) and r.kind = $2 and t.language = $3`,
		keys, kind, lang)
	if err != nil {
		return nil, wrap(err, "catalog: translations for page")
	}
	for _, tr := range trs {
		out[tr.ResourceID] = tr
	}
	return out, nil
}

// Translations returns every translation of id ordered by language
func (p *PG) Translations(ctx context.Context, kind string, id uuid.UUID) ([]domain.Translation, bool, error) {
	var (
		trs    []domain.Translation
		exists bool
	)
	err := p.tx(ctx, func(qs *queries) error {
		var err error
		exists, err = qs.exists(ctx, kind, id)
		if err != nil || !exists {
			return err
		}
		trs, err = repokit.Many(ctx, qs.q, scanTranslation,
			`select `+trCols+` from catalog_translations t
			where t.resource_id = $1::uuid order by t.language`,
			id.String())
		return err
	})
	if err != nil {
		return nil, false, wrap(err, "catalog: translations")
	}
	if trs == nil && exists {
		trs = []domain.Translation{}
	}
	return trs, exists, nil
}

// RandomTranslation samples among the translations of id
func (p *PG) RandomTranslation(ctx context.Context, kind string, id uuid.UUID) (domain.Translation, bool, error) {
	tr, err := repokit.One(ctx, p.read().q, scanTranslation,
		`select `+trCols+` from catalog_translations t
		join catalog_resources r on r.id = t.resource_id
		where t.resource_id = $1::uuid and r.kind = $2
		order by random() limit 1`,
		id.String(), kind)
	return found(tr, err, "catalog: random translation")
}

// Create inserts a resource and its translations in one transaction
func (p *PG) Create(ctx context.Context, kind string, fields domain.Fields, trs []domain.Translation) (domain.BaseRecord, error) {
	rec := domain.BaseRecord{ID: uuid.New(), Kind: kind, Fields: fields.Clone()}
	attrs, err := encodeAttrs(fields)
	if err != nil {
		return domain.BaseRecord{}, perr.Wrap(err, perr.ErrorCodeJSON, "catalog: encode fields")
	}
	err = p.tx(ctx, func(qs *queries) error {
		if err := qs.q.QueryRow(ctx,
			`insert into catalog_resources (id, kind, attrs) values ($1::uuid, $2, $3::jsonb)
			returning created_at, updated_at`,
			rec.ID.String(), kind, attrs,
		).Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return err
		}
		for _, tr := range trs {
			tr.ResourceID = rec.ID
			if _, err := qs.insertTranslation(ctx, tr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.BaseRecord{}, wrap(err, "catalog: create")
	}
	return rec, nil
}

// ReplaceBase overwrites every base field of id
func (p *PG) ReplaceBase(ctx context.Context, kind string, id uuid.UUID, fields domain.Fields) (bool, error) {
	return p.updateBase(ctx, "attrs = $3::jsonb", kind, id, fields)
}

// PatchBase merges the supplied base fields into id
func (p *PG) PatchBase(ctx context.Context, kind string, id uuid.UUID, fields domain.Fields) (bool, error) {
	return p.updateBase(ctx, "attrs = attrs || $3::jsonb", kind, id, fields)
}

func (p *PG) updateBase(ctx context.Context, set, kind string, id uuid.UUID, fields domain.Fields) (bool, error) {
	attrs, err := encodeAttrs(fields)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeJSON, "catalog: encode fields")
	}
	var n int64
	err = p.tx(ctx, func(qs *queries) error {
		tag, err := qs.q.Exec(ctx,
			`update catalog_resources set `+set+`, updated_at = `+touch+`
			where id = $1::uuid and kind = $2`,
			id.String(), kind, attrs)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, wrap(err, "catalog: update")
	}
	return n > 0, nil
}

// DeleteBase removes id; translations go with it through the foreign key
func (p *PG) DeleteBase(ctx context.Context, kind string, id uuid.UUID) (bool, error) {
	tag, err := p.db.Exec(ctx, `delete from catalog_resources where id = $1::uuid and kind = $2`, id.String(), kind)
	if err != nil {
		return false, wrap(err, "catalog: delete")
	}
	return tag.RowsAffected() > 0, nil
}

// CreateTranslation adds a translation to an existing resource
func (p *PG) CreateTranslation(ctx context.Context, kind string, tr domain.Translation) (domain.Translation, bool, error) {
	var (
		out    domain.Translation
		exists bool
	)
	err := p.tx(ctx, func(qs *queries) error {
		var err error
		exists, err = qs.exists(ctx, kind, tr.ResourceID)
		if err != nil || !exists {
			return err
		}
		out, err = qs.insertTranslation(ctx, tr)
		return err
	})
	if err != nil {
		return domain.Translation{}, exists, wrap(err, "catalog: create translation")
	}
	return out, exists, nil
}

// ReplaceTranslation overwrites every field of one translation
func (p *PG) ReplaceTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, fields domain.Fields) (bool, error) {
	return p.updateTranslation(ctx, "attrs = $4::jsonb", kind, id, lang, fields)
}

// PatchTranslation merges the supplied fields into one translation
func (p *PG) PatchTranslation(ctx context.Context, kind string, id uuid.UUID, lang string, fields domain.Fields) (bool, error) {
	return p.updateTranslation(ctx, "attrs = t.attrs || $4::jsonb", kind, id, lang, fields)
}

func (p *PG) updateTranslation(ctx context.Context, set, kind string, id uuid.UUID, lang string, fields domain.Fields) (bool, error) {
	attrs, err := encodeAttrs(fields)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeJSON, "catalog: encode fields")
	}
	tag, err := p.db.Exec(ctx,
		`update catalog_translations t set `+set+`, updated_at = greatest(now(), t.updated_at + interval '1 microsecond')
		from catalog_resources r
		where r.id = t.resource_id and r.kind = $1 and t.resource_id = $2::uuid and t.language = $3`,
		kind, id.String(), lang, attrs)
	if err != nil {
		return false, wrap(err, "catalog: update translation")
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteTranslation removes one translation
func (p *PG) DeleteTranslation(ctx context.Context, kind string, id uuid.UUID, lang string) (bool, error) {
	tag, err := p.db.Exec(ctx,
		`delete from catalog_translations t using catalog_resources r
		where r.id = t.resource_id and r.kind = $1 and t.resource_id = $2::uuid and t.language = $3`,
		kind, id.String(), lang)
	if err != nil {
		return false, wrap(err, "catalog: delete translation")
	}
	return tag.RowsAffected() > 0, nil
}

// statements shared inside transactions

// touch advances updated_at strictly even when two writes share a clock tick
const touch = `greatest(now(), updated_at + interval '1 microsecond')`

func (qs *queries) exists(ctx context.Context, kind string, id uuid.UUID) (bool, error) {
	return repokit.Scalar[bool](ctx, qs.q,
		`select exists(select 1 from catalog_resources where id = $1::uuid and kind = $2)`,
		id.String(), kind)
}

func (qs *queries) insertTranslation(ctx context.Context, tr domain.Translation) (domain.Translation, error) {
	attrs, err := encodeAttrs(tr.Fields)
	if err != nil {
		return domain.Translation{}, err
	}
	out := domain.Translation{ResourceID: tr.ResourceID, Language: tr.Language, Fields: tr.Fields.Clone()}
	err = qs.q.QueryRow(ctx,
		`insert into catalog_translations (resource_id, language, attrs) values ($1::uuid, $2, $3::jsonb)
		returning created_at, updated_at`,
		tr.ResourceID.String(), tr.Language, attrs,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	return out, err
}

// query building

// sqlArgs collects positional parameters
type sqlArgs struct{ vals []any }

func (a *sqlArgs) add(v any) string {
	a.vals = append(a.vals, v)
	return "$" + strconv.Itoa(len(a.vals))
}

// whereClause renders crit as a parameterized predicate; field names are
// passed as parameters too so nothing from the request reaches the SQL text
func whereClause(a *sqlArgs, kind string, crit criteria.Criteria) string {
	parts := []string{"kind = " + a.add(kind)}
	for _, cl := range crit.Clauses {
		key := a.add(cl.Field)
		switch cl.Type {
		case field.Int:
			parts = append(parts, fmt.Sprintf("(attrs->>%s)::bigint = any(%s::bigint[])", key, a.add(typed[int64](cl.Values))))
		case field.Bool:
			parts = append(parts, fmt.Sprintf("(attrs->>%s)::boolean = any(%s::boolean[])", key, a.add(typed[bool](cl.Values))))
		case field.StringList:
			parts = append(parts, fmt.Sprintf("attrs->%s ?| %s::text[]", key, a.add(typed[string](cl.Values))))
		default:
			parts = append(parts, fmt.Sprintf("attrs->>%s = any(%s::text[])", key, a.add(texts(cl.Values))))
		}
	}
	return strings.Join(parts, " and ")
}

func orderClause(a *sqlArgs, crit criteria.Criteria) string {
	var expr string
	switch crit.Order {
	case criteria.CreatedAt, criteria.UpdatedAt:
		expr = crit.Order
	default:
		key := a.add(crit.Order)
		switch crit.OrderType {
		case field.Int:
			expr = "(attrs->>" + key + ")::bigint"
		case field.Bool:
			expr = "(attrs->>" + key + ")::boolean"
		default:
			expr = "attrs->>" + key
		}
	}
	// nulls sort first ascending and last descending, matching the memory store
	if crit.Direction == criteria.Desc {
		return expr + " desc nulls last, id"
	}
	return expr + " asc nulls first, id"
}

func typed[T any](vs []any) []T {
	out := make([]T, 0, len(vs))
	for _, v := range vs {
		if t, ok := v.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

func texts(vs []any) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case time.Time:
			out = append(out, ptime.Stamp(x))
		default:
			out = append(out, fmt.Sprint(x))
		}
	}
	return out
}

// scanning

func scanText(r repokit.Row) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

func scanBase(r repokit.Row) (domain.BaseRecord, error) {
	var (
		rec       domain.BaseRecord
		id, attrs string
	)
	if err := r.Scan(&id, &rec.Kind, &attrs, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return rec, err
	}
	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return rec, err
	}
	rec.Fields, err = decodeAttrs(attrs)
	rec.CreatedAt, rec.UpdatedAt = rec.CreatedAt.UTC(), rec.UpdatedAt.UTC()
	return rec, err
}

func scanTranslation(r repokit.Row) (domain.Translation, error) {
	var (
		tr        domain.Translation
		id, attrs string
	)
	if err := r.Scan(&id, &tr.Language, &attrs, &tr.CreatedAt, &tr.UpdatedAt); err != nil {
		return tr, err
	}
	var err error
	if tr.ResourceID, err = uuid.Parse(id); err != nil {
		return tr, err
	}
	tr.Fields, err = decodeAttrs(attrs)
	tr.CreatedAt, tr.UpdatedAt = tr.CreatedAt.UTC(), tr.UpdatedAt.UTC()
	return tr, err
}

// error mapping

// found folds the not found sentinel of repokit.One into found=false
func found[T any](v T, err error, msg string) (T, bool, error) {
	var zero T
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, perr.ErrNotFound):
		return zero, false, nil
	default:
		return zero, false, wrap(err, msg)
	}
}

// wrap maps driver errors to project errors, keeping ones already mapped
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.FromPostgres(err, msg)
}
