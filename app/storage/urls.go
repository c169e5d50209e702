package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/tg-linkcheck/app/storage/engine"
	"github.com/umputun/tg-linkcheck/lib/canonical"
)

// URLs is the classification store, keyed by canonical (host, path, query)
type URLs struct {
	*engine.SQL
	engine.RWLocker
}

// urls-related command constants
const (
	CmdCreateURLsTables engine.DBCmd = iota + 100
	CmdCreateURLsIndexes
	CmdInsertURL
	CmdInsertURLParam
	CmdGetURLExact
	CmdGetURLSubset
	CmdGetURLHostPath
	CmdUpdateURL
	CmdDeleteURLParams
	CmdDeleteURL
	CmdDeleteSpamListParams
	CmdDeleteSpamList
	CmdCountURLs
)

const urlColumns = "u.id, u.param_count, u.designation, u.manually_reviewed, u.host, u.path, u.query, u.original_url, u.from_spam_list"

var urlsQueries = engine.NewQueryMap().
	Add(CmdCreateURLsTables, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS urls (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            host TEXT NOT NULL,
            path TEXT NOT NULL CHECK (path LIKE '/%'),
            query TEXT NOT NULL DEFAULT '',
            param_count INTEGER NOT NULL DEFAULT 0,
            original_url TEXT NOT NULL DEFAULT '',
            designation TEXT NOT NULL CHECK (designation IN ('spam', 'not_spam', 'aggregator')),
            manually_reviewed BOOLEAN NOT NULL DEFAULT FALSE,
            from_spam_list BOOLEAN NOT NULL DEFAULT FALSE,
            UNIQUE(host, path, query)
        );
        CREATE TABLE IF NOT EXISTS url_params (
            url_id INTEGER NOT NULL REFERENCES urls(id),
            param TEXT NOT NULL,
            UNIQUE(url_id, param)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS urls (
            id BIGSERIAL PRIMARY KEY,
            host TEXT NOT NULL,
            path TEXT NOT NULL CHECK (path LIKE '/%'),
            query TEXT NOT NULL DEFAULT '',
            param_count INTEGER NOT NULL DEFAULT 0,
            original_url TEXT NOT NULL DEFAULT '',
            designation TEXT NOT NULL CHECK (designation IN ('spam', 'not_spam', 'aggregator')),
            manually_reviewed BOOLEAN NOT NULL DEFAULT FALSE,
            from_spam_list BOOLEAN NOT NULL DEFAULT FALSE,
            UNIQUE(host, path, query)
        );
        CREATE TABLE IF NOT EXISTS url_params (
            url_id BIGINT NOT NULL REFERENCES urls(id),
            param TEXT NOT NULL,
            UNIQUE(url_id, param)
        )`,
	}).
	AddSame(CmdCreateURLsIndexes, `
        CREATE INDEX IF NOT EXISTS idx_urls_host_path ON urls(host, path);
        CREATE INDEX IF NOT EXISTS idx_url_params_param ON url_params(param);
        CREATE INDEX IF NOT EXISTS idx_urls_spam_list ON urls(from_spam_list)
    `).
	AddSame(CmdInsertURL, "INSERT INTO urls (host, path, query, param_count, original_url, designation, "+
		"manually_reviewed, from_spam_list) VALUES (?, ?, ?, ?, ?, ?, ?, ?) "+
		"ON CONFLICT (host, path, query) DO NOTHING RETURNING id").
	AddSame(CmdInsertURLParam, "INSERT INTO url_params (url_id, param) VALUES (?, ?) ON CONFLICT (url_id, param) DO NOTHING").
	AddSame(CmdGetURLExact, "SELECT "+urlColumns+" FROM urls u "+
		"WHERE u.host = ? AND u.path = ? AND u.query = ? AND (u.manually_reviewed OR ?)").
	// a candidate matches only if every stored param is present in the lookup params
	AddSame(CmdGetURLSubset, "SELECT "+urlColumns+" FROM urls u JOIN url_params p ON p.url_id = u.id "+
		"WHERE u.host = ? AND u.path = ? AND (u.manually_reviewed OR ?) AND p.param IN (?) "+
		"GROUP BY u.id HAVING COUNT(*) = u.param_count "+
		"ORDER BY u.param_count DESC, u.id ASC LIMIT 1").
	AddSame(CmdGetURLHostPath, "SELECT "+urlColumns+" FROM urls u "+
		"WHERE u.host = ? AND u.path = ? AND u.query = '' AND (u.manually_reviewed OR ?)").
	AddSame(CmdUpdateURL, "UPDATE urls SET designation = ?, manually_reviewed = ?, original_url = COALESCE(NULLIF(?, ''), original_url), "+
		"from_spam_list = ? "+
		"WHERE id = ?").
	AddSame(CmdDeleteURLParams, "DELETE FROM url_params WHERE url_id = ?").
	AddSame(CmdDeleteURL, "DELETE FROM urls WHERE id = ?").
	AddSame(CmdDeleteSpamListParams, "DELETE FROM url_params WHERE url_id IN "+
		"(SELECT id FROM urls WHERE from_spam_list = TRUE AND manually_reviewed = FALSE)").
	AddSame(CmdDeleteSpamList, "DELETE FROM urls WHERE from_spam_list = TRUE AND manually_reviewed = FALSE").
	AddSame(CmdCountURLs, "SELECT COUNT(*) FROM urls")

// urlRecord is an incoming classification
type urlRecord struct {
	url          canonical.URL
	original     string
	designation  Designation
	manual       bool
	fromSpamList bool
}

// NewURLs makes the classification store, creating its tables if needed
func NewURLs(ctx context.Context, db *engine.SQL) (*URLs, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &URLs{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "urls",
		CreateTable:   CmdCreateURLsTables,
		CreateIndexes: CmdCreateURLsIndexes,
		QueriesMap:    urlsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init urls storage: %w", err)
	}
	return res, nil
}

// Lookup returns the best matching entry for u, or nil if nothing matches.
// Exact match goes first, then the most specific entry whose params are all present in u,
// then exact host/path matches without query, walking from u up to its registered domain.
// With manualOnly only manually reviewed entries are considered.
func (r *URLs) Lookup(ctx context.Context, u canonical.URL, manualOnly bool) (*Entry, error) {
	r.RLock()
	defer r.RUnlock()
	return r.lookup(ctx, r.SQL, u, manualOnly)
}

// lookup runs the lookup with q, which can be a transaction of another store on the same db
func (r *URLs) lookup(ctx context.Context, q engine.Querier, u canonical.URL, manualOnly bool) (*Entry, error) {
	if u.IsZero() {
		return nil, fmt.Errorf("empty url")
	}
	anyReview := !manualOnly

	if u.Query() != "" {
		query, err := r.Pick(urlsQueries, CmdGetURLExact)
		if err != nil {
			return nil, fmt.Errorf("failed to get exact query: %w", err)
		}
		if e, err := getEntry(ctx, q, query, u.Host(), u.Path(), u.Query(), anyReview); err != nil || e != nil {
			return e, err
		}

		subset, err := urlsQueries.Pick(r.Type(), CmdGetURLSubset)
		if err != nil {
			return nil, fmt.Errorf("failed to get subset query: %w", err)
		}
		subset, args, err := r.ExpandIn(subset, u.Host(), u.Path(), anyReview, u.Params())
		if err != nil {
			return nil, err
		}
		if e, err := getEntry(ctx, q, subset, args...); err != nil || e != nil {
			return e, err
		}
	}

	query, err := r.Pick(urlsQueries, CmdGetURLHostPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get host/path query: %w", err)
	}
	for hp := range u.Destructure() {
		if e, err := getEntry(ctx, q, query, hp.Host, hp.Path, anyReview); err != nil || e != nil {
			return e, err
		}
	}
	return nil, nil
}

// Upsert records a designation for u. An automatic designation never overwrites a manual one.
func (r *URLs) Upsert(ctx context.Context, u canonical.URL, original string, d Designation, manual bool) (UpsertResult, error) {
	r.Lock()
	defer r.Unlock()

	tx, err := r.BeginTxx(ctx, nil)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := r.upsert(ctx, tx, urlRecord{url: u, original: original, designation: d, manual: manual})
	if err != nil {
		return UpsertResult{}, err
	}
	if err = tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	if res.Kind != NoChange {
		log.Printf("[INFO] url %s %s as %s, manual:%v, id:%d", u, res.Kind, d, manual, res.ID)
	}
	return res, nil
}

// upsert inserts first and falls back to update on conflict, everything in tx
func (r *URLs) upsert(ctx context.Context, tx *sqlx.Tx, rec urlRecord) (UpsertResult, error) {
	if rec.url.IsZero() {
		return UpsertResult{}, fmt.Errorf("empty url")
	}
	if !rec.designation.Valid() {
		return UpsertResult{}, fmt.Errorf("invalid designation %q", rec.designation)
	}

	insert, err := r.Pick(urlsQueries, CmdInsertURL)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to get insert query: %w", err)
	}
	params := rec.url.Params()
	var id int64
	err = tx.GetContext(ctx, &id, insert, rec.url.Host(), rec.url.Path(), rec.url.Query(), len(params),
		rec.original, string(rec.designation), rec.manual, rec.fromSpamList)
	switch {
	case err == nil:
		if err = r.insertParams(ctx, tx, id, params); err != nil {
			return UpsertResult{}, err
		}
		return UpsertResult{Kind: Inserted, ID: id}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return UpsertResult{}, fmt.Errorf("failed to insert url %s: %w", rec.url, err)
	}

	// conflict, the url is already there
	exact, err := r.Pick(urlsQueries, CmdGetURLExact)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to get exact query: %w", err)
	}
	existing, err := getEntry(ctx, tx, exact, rec.url.Host(), rec.url.Path(), rec.url.Query(), true)
	if err != nil {
		return UpsertResult{}, err
	}
	if existing == nil {
		return UpsertResult{}, fmt.Errorf("url %s conflicts on insert but can't be found", rec.url)
	}
	old := existing.EntryInfo

	if existing.ManuallyReviewed && !rec.manual {
		log.Printf("[WARN] refusing to overwrite manual %s of %s with automatic %s",
			existing.Designation, rec.url, rec.designation)
		return UpsertResult{Kind: NoChange, ID: old.ID, Old: &old, Refused: true}, nil
	}
	if existing.Designation == rec.designation && existing.ManuallyReviewed == rec.manual {
		return UpsertResult{Kind: NoChange, ID: old.ID, Old: &old}, nil
	}

	update, err := r.Pick(urlsQueries, CmdUpdateURL)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to get update query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, update, string(rec.designation), rec.manual, rec.original, rec.fromSpamList, old.ID); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to update url %s: %w", rec.url, err)
	}
	return UpsertResult{Kind: Updated, ID: old.ID, Old: &old}, nil
}

func (r *URLs) insertParams(ctx context.Context, tx *sqlx.Tx, id int64, params []string) error {
	if len(params) == 0 {
		return nil
	}
	query, err := r.Pick(urlsQueries, CmdInsertURLParam)
	if err != nil {
		return fmt.Errorf("failed to get insert param query: %w", err)
	}
	for _, p := range params {
		if _, err := tx.ExecContext(ctx, query, id, p); err != nil {
			return fmt.Errorf("failed to insert param %q of url %d: %w", p, id, err)
		}
	}
	return nil
}

// Remove deletes the exact entry of u with its params. Returns nil if there is no such entry.
func (r *URLs) Remove(ctx context.Context, u canonical.URL) (*EntryInfo, error) {
	r.Lock()
	defer r.Unlock()

	tx, err := r.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exact, err := r.Pick(urlsQueries, CmdGetURLExact)
	if err != nil {
		return nil, fmt.Errorf("failed to get exact query: %w", err)
	}
	existing, err := getEntry(ctx, tx, exact, u.Host(), u.Path(), u.Query(), true)
	if err != nil || existing == nil {
		return nil, err
	}

	for _, cmd := range []engine.DBCmd{CmdDeleteURLParams, CmdDeleteURL} {
		query, err := r.Pick(urlsQueries, cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to get delete query: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete url %s: %w", u, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("[INFO] url %s removed, was %s, manual:%v", u, existing.Designation, existing.ManuallyReviewed)
	return &existing.EntryInfo, nil
}

// Count returns the number of classification entries
func (r *URLs) Count(ctx context.Context) (int, error) {
	r.RLock()
	defer r.RUnlock()
	query, err := r.Pick(urlsQueries, CmdCountURLs)
	if err != nil {
		return 0, fmt.Errorf("failed to get count query: %w", err)
	}
	var count int
	if err := r.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count urls: %w", err)
	}
	return count, nil
}

// getEntry returns a single entry for the query, nil if there are no rows
func getEntry(ctx context.Context, q engine.Querier, query string, args ...any) (*Entry, error) {
	var e Entry
	err := q.GetContext(ctx, &e, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get url entry: %w", err)
	}
	return &e, nil
}
