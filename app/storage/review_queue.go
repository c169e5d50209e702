package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/hashicorp/go-multierror"

	"github.com/umputun/tg-linkcheck/app/storage/engine"
	"github.com/umputun/tg-linkcheck/lib/canonical"
)

// ErrNotQueued is returned when a url or queue id is not on review
var ErrNotQueued = errors.New("not on review")

// ReviewQueue holds urls waiting for a human decision, with the messages they were seen in
// and the review keyboards currently displayed for them
type ReviewQueue struct {
	*engine.SQL
	engine.RWLocker
	urls      *URLs
	lastStamp time.Time
	retry     RetryPolicy
}

// RetryPolicy limits repeats of the drain-then-delete cycle of a purge
type RetryPolicy struct {
	Repeats int
	Delay   time.Duration
}

// review-queue-related command constants
const (
	CmdCreateReviewTables engine.DBCmd = iota + 200
	CmdCreateReviewIndexes
	CmdInsertReview
	CmdDequeueReview
	CmdInsertSighting
	CmdUpsertKeyboard
	CmdPopKeyboards
	CmdPopSightings
	CmdDeleteReview
	CmdCountReview
	CmdListReview
)

var reviewQueries = engine.NewQueryMap().
	Add(CmdCreateReviewTables, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS review_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            sanitized_url TEXT NOT NULL UNIQUE,
            original_url TEXT NOT NULL DEFAULT '',
            last_sent_to_review TIMESTAMP NULL
        );
        CREATE TABLE IF NOT EXISTS sus_link_sightings (
            chat_id INTEGER NOT NULL,
            message_id INTEGER NOT NULL,
            sender_name TEXT NOT NULL DEFAULT '',
            url_id INTEGER NOT NULL REFERENCES review_queue(id),
            UNIQUE(chat_id, message_id, url_id)
        );
        CREATE TABLE IF NOT EXISTS review_keyboards (
            chat_id INTEGER NOT NULL,
            message_id INTEGER NOT NULL,
            url_id INTEGER NOT NULL REFERENCES review_queue(id),
            UNIQUE(chat_id, message_id)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS review_queue (
            id BIGSERIAL PRIMARY KEY,
            sanitized_url TEXT NOT NULL UNIQUE,
            original_url TEXT NOT NULL DEFAULT '',
            last_sent_to_review TIMESTAMP NULL
        );
        CREATE TABLE IF NOT EXISTS sus_link_sightings (
            chat_id BIGINT NOT NULL,
            message_id BIGINT NOT NULL,
            sender_name TEXT NOT NULL DEFAULT '',
            url_id BIGINT NOT NULL REFERENCES review_queue(id),
            UNIQUE(chat_id, message_id, url_id)
        );
        CREATE TABLE IF NOT EXISTS review_keyboards (
            chat_id BIGINT NOT NULL,
            message_id BIGINT NOT NULL,
            url_id BIGINT NOT NULL REFERENCES review_queue(id),
            UNIQUE(chat_id, message_id)
        )`,
	}).
	AddSame(CmdCreateReviewIndexes, `
        CREATE INDEX IF NOT EXISTS idx_review_queue_last_sent ON review_queue(last_sent_to_review);
        CREATE INDEX IF NOT EXISTS idx_sightings_url_id ON sus_link_sightings(url_id);
        CREATE INDEX IF NOT EXISTS idx_keyboards_url_id ON review_keyboards(url_id)
    `).
	AddSame(CmdInsertReview, "INSERT INTO review_queue (sanitized_url, original_url) VALUES (?, ?) RETURNING id").
	Add(CmdDequeueReview, engine.Query{
		Sqlite: "UPDATE review_queue SET last_sent_to_review = ? WHERE id = (SELECT id FROM review_queue " +
			"ORDER BY last_sent_to_review ASC NULLS FIRST, id ASC LIMIT 1) RETURNING id, sanitized_url, original_url",
		Postgres: "UPDATE review_queue SET last_sent_to_review = ? WHERE id = (SELECT id FROM review_queue " +
			"ORDER BY last_sent_to_review ASC NULLS FIRST, id ASC LIMIT 1 FOR UPDATE SKIP LOCKED) " +
			"RETURNING id, sanitized_url, original_url",
	}).
	AddSame(CmdInsertSighting, "INSERT INTO sus_link_sightings (chat_id, message_id, sender_name, url_id) "+
		"SELECT ?, ?, ?, id FROM review_queue WHERE sanitized_url = ? "+
		"ON CONFLICT (chat_id, message_id, url_id) DO NOTHING").
	AddSame(CmdUpsertKeyboard, "INSERT INTO review_keyboards (chat_id, message_id, url_id) VALUES (?, ?, ?) "+
		"ON CONFLICT (chat_id, message_id) DO UPDATE SET url_id = excluded.url_id").
	AddSame(CmdPopKeyboards, "DELETE FROM review_keyboards WHERE url_id = ? RETURNING chat_id, message_id").
	AddSame(CmdPopSightings, "DELETE FROM sus_link_sightings WHERE url_id = ? RETURNING chat_id, message_id, sender_name").
	AddSame(CmdDeleteReview, "DELETE FROM review_queue WHERE id = ?").
	AddSame(CmdCountReview, "SELECT COUNT(*) FROM review_queue").
	AddSame(CmdListReview, "SELECT id, sanitized_url, original_url FROM review_queue ORDER BY id ASC")

// NewReviewQueue makes the review queue on the same db as urls
func NewReviewQueue(ctx context.Context, db *engine.SQL, urls *URLs) (*ReviewQueue, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	if urls == nil {
		return nil, fmt.Errorf("urls storage is nil")
	}
	res := &ReviewQueue{SQL: db, RWLocker: db.MakeLock(), urls: urls,
		retry: RetryPolicy{Repeats: 10, Delay: 50 * time.Millisecond}}
	cfg := engine.TableConfig{
		Name:          "review_queue",
		CreateTable:   CmdCreateReviewTables,
		CreateIndexes: CmdCreateReviewIndexes,
		QueriesMap:    reviewQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init review queue storage: %w", err)
	}
	return res, nil
}

// WithRetry sets the retry policy of purges
func (q *ReviewQueue) WithRetry(p RetryPolicy) *ReviewQueue {
	if p.Repeats < 1 {
		p.Repeats = 1
	}
	q.retry = p
	return q
}

// Enqueue sends u to review. The queue row is inserted first and holds the write lock
// on the queue while the classification store is consulted, so a concurrent enqueue of
// the same url reports AlreadyOnReview and never makes a second row. Urls with a spam verdict,
// a manual spam verdict on any parent, or a manual verdict on exactly this url are not queued.
func (q *ReviewQueue) Enqueue(ctx context.Context, u canonical.URL, original string) (EnqueueResult, error) {
	if u.IsZero() {
		return EnqueueResult{}, fmt.Errorf("empty url")
	}
	q.Lock()
	defer q.Unlock()

	tx, err := q.BeginTxx(ctx, nil)
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, err := q.Pick(reviewQueries, CmdInsertReview)
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("failed to get insert query: %w", err)
	}
	var id int64
	if err = tx.GetContext(ctx, &id, query, u.String(), original); err != nil {
		if engine.IsUniqueViolation(err) {
			return EnqueueResult{Kind: AlreadyOnReview}, nil
		}
		return EnqueueResult{}, fmt.Errorf("failed to insert %s to review queue: %w", u, err)
	}

	entry, err := q.urls.lookup(ctx, tx, u, false)
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("failed to check %s: %w", u, err)
	}
	if entry != nil && entry.Designation != Spam {
		// a manual spam verdict covers everything under it, manual non-spam only this exact url
		if entry, err = q.urls.lookup(ctx, tx, u, true); err != nil {
			return EnqueueResult{}, fmt.Errorf("failed to check manual verdict of %s: %w", u, err)
		}
		if entry != nil && entry.Designation != Spam && entry.SanitizedURL() != u.String() {
			entry = nil
		}
	}
	if entry != nil {
		return EnqueueResult{Kind: AlreadyInDatabase, Entry: entry}, nil // rolled back by defer
	}

	if err = tx.Commit(); err != nil {
		return EnqueueResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[INFO] %s sent to review, id:%d", u, id)
	return EnqueueResult{Kind: Sent, ID: id}, nil
}

// DequeueOldest returns the queued url least recently sent to review, never sent ones first,
// and marks it as sent now. Repeated calls cycle through the whole queue.
// Returns nil if the queue is empty.
func (q *ReviewQueue) DequeueOldest(ctx context.Context) (*QueueItem, error) {
	q.Lock()
	defer q.Unlock()

	query, err := q.Pick(reviewQueries, CmdDequeueReview)
	if err != nil {
		return nil, fmt.Errorf("failed to get dequeue query: %w", err)
	}

	// stamps are strictly increasing, rotation order must not depend on clock resolution
	stamp := time.Now().UTC().Truncate(time.Microsecond)
	if !stamp.After(q.lastStamp) {
		stamp = q.lastStamp.Add(time.Microsecond)
	}

	var item QueueItem
	err = q.GetContext(ctx, &item, query, stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue review: %w", err)
	}
	q.lastStamp = stamp
	return &item, nil
}

// RecordSighting records that u was seen in the message. No-op if u is not on review.
func (q *ReviewQueue) RecordSighting(ctx context.Context, s Sighting, u canonical.URL) error {
	q.Lock()
	defer q.Unlock()

	query, err := q.Pick(reviewQueries, CmdInsertSighting)
	if err != nil {
		return fmt.Errorf("failed to get sighting query: %w", err)
	}
	_, err = q.ExecContext(ctx, query, s.ChatID, s.MessageID, s.SenderName, u.String())
	if engine.IsForeignKeyViolation(err) {
		log.Printf("[DEBUG] sighting of %s skipped, not on review anymore", u)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record sighting of %s: %w", u, err)
	}
	return nil
}

// KeyboardMade records a review keyboard displayed for the queue item, replacing
// whatever the same message displayed before. Returns ErrNotQueued if the item is gone.
func (q *ReviewQueue) KeyboardMade(ctx context.Context, kb Keyboard, queueID int64) error {
	q.Lock()
	defer q.Unlock()

	query, err := q.Pick(reviewQueries, CmdUpsertKeyboard)
	if err != nil {
		return fmt.Errorf("failed to get keyboard query: %w", err)
	}
	_, err = q.ExecContext(ctx, query, kb.ChatID, kb.MessageID, queueID)
	if engine.IsForeignKeyViolation(err) {
		return fmt.Errorf("keyboard for review %d: %w", queueID, ErrNotQueued)
	}
	if err != nil {
		return fmt.Errorf("failed to record keyboard for review %d: %w", queueID, err)
	}
	return nil
}

// PopKeyboards removes and returns all keyboards of the queue item
func (q *ReviewQueue) PopKeyboards(ctx context.Context, queueID int64) ([]Keyboard, error) {
	q.Lock()
	defer q.Unlock()

	query, err := q.Pick(reviewQueries, CmdPopKeyboards)
	if err != nil {
		return nil, fmt.Errorf("failed to get pop keyboards query: %w", err)
	}
	var res []Keyboard
	if err = q.SelectContext(ctx, &res, query, queueID); err != nil {
		return nil, fmt.Errorf("failed to pop keyboards of review %d: %w", queueID, err)
	}
	return res, nil
}

// PopSightings removes and returns all sightings of the queue item
func (q *ReviewQueue) PopSightings(ctx context.Context, queueID int64) ([]Sighting, error) {
	q.Lock()
	defer q.Unlock()

	query, err := q.Pick(reviewQueries, CmdPopSightings)
	if err != nil {
		return nil, fmt.Errorf("failed to get pop sightings query: %w", err)
	}
	var res []Sighting
	if err = q.SelectContext(ctx, &res, query, queueID); err != nil {
		return nil, fmt.Errorf("failed to pop sightings of review %d: %w", queueID, err)
	}
	return res, nil
}

// Delete removes the queue item. Fails with a foreign key violation while the item
// still has keyboards or sightings, see engine.IsForeignKeyViolation.
func (q *ReviewQueue) Delete(ctx context.Context, queueID int64) error {
	q.Lock()
	defer q.Unlock()

	query, err := q.Pick(reviewQueries, CmdDeleteReview)
	if err != nil {
		return fmt.Errorf("failed to get delete query: %w", err)
	}
	res, err := q.ExecContext(ctx, query, queueID)
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", queueID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("review %d: %w", queueID, ErrNotQueued)
	}
	return nil
}

// Count returns the number of queued urls
func (q *ReviewQueue) Count(ctx context.Context) (int, error) {
	q.RLock()
	defer q.RUnlock()

	query, err := q.Pick(reviewQueries, CmdCountReview)
	if err != nil {
		return 0, fmt.Errorf("failed to get count query: %w", err)
	}
	var count int
	if err = q.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count review queue: %w", err)
	}
	return count, nil
}

// List returns all queued urls in insertion order
func (q *ReviewQueue) List(ctx context.Context) ([]QueueItem, error) {
	q.RLock()
	defer q.RUnlock()

	query, err := q.Pick(reviewQueries, CmdListReview)
	if err != nil {
		return nil, fmt.Errorf("failed to get list query: %w", err)
	}
	var res []QueueItem
	if err = q.SelectContext(ctx, &res, query); err != nil {
		return nil, fmt.Errorf("failed to list review queue: %w", err)
	}
	return res, nil
}

// Matching returns queued urls whose best classification match is the entry with entryID
func (q *ReviewQueue) Matching(ctx context.Context, entryID int64) ([]QueueItem, error) {
	items, err := q.List(ctx)
	if err != nil {
		return nil, err
	}
	var res []QueueItem
	for _, item := range items {
		u, ok := canonical.Parse(item.SanitizedURL)
		if !ok {
			log.Printf("[WARN] queued url %q is not canonical, id:%d", item.SanitizedURL, item.ID)
			continue
		}
		entry, err := q.urls.Lookup(ctx, u, false)
		if err != nil {
			return nil, fmt.Errorf("failed to match queued %s: %w", item.SanitizedURL, err)
		}
		if entry != nil && entry.ID == entryID {
			res = append(res, item)
		}
	}
	return res, nil
}

// PurgeHandler processes dependents of a queue item being purged
type PurgeHandler interface {
	HandleKeyboard(ctx context.Context, kb Keyboard) error
	HandleSighting(ctx context.Context, s Sighting) error
}

// PurgeStats counts dependents processed by a purge
type PurgeStats struct {
	Keyboards int
	Sightings int
	Cycles    int
}

// Purge drains keyboards and sightings of the item through h and deletes the item.
// A dependent added between the drain and the delete makes the delete fail on the foreign key,
// and the whole cycle repeats with backoff, up to the retry policy. Handler errors are collected
// and returned together, they never stop the purge.
func (q *ReviewQueue) Purge(ctx context.Context, item QueueItem, h PurgeHandler) (PurgeStats, error) {
	var stats PurgeStats
	var handlerErrs *multierror.Error
	var fatal error

	rpt := repeater.New(&strategy.Backoff{Duration: q.retry.Delay, Repeats: q.retry.Repeats, Factor: 2, Jitter: true})
	err := rpt.Do(ctx, func() error {
		stats.Cycles++
		kbs, err := q.PopKeyboards(ctx, item.ID)
		if err != nil {
			fatal = err
			return nil
		}
		for _, kb := range kbs {
			stats.Keyboards++
			if herr := h.HandleKeyboard(ctx, kb); herr != nil {
				handlerErrs = multierror.Append(handlerErrs, fmt.Errorf("keyboard %d:%d: %w", kb.ChatID, kb.MessageID, herr))
			}
		}
		sightings, err := q.PopSightings(ctx, item.ID)
		if err != nil {
			fatal = err
			return nil
		}
		for _, s := range sightings {
			stats.Sightings++
			if herr := h.HandleSighting(ctx, s); herr != nil {
				handlerErrs = multierror.Append(handlerErrs, fmt.Errorf("sighting %d:%d: %w", s.ChatID, s.MessageID, herr))
			}
		}
		err = q.Delete(ctx, item.ID)
		switch {
		case err == nil, errors.Is(err, ErrNotQueued):
			return nil
		case engine.IsForeignKeyViolation(err):
			log.Printf("[DEBUG] review %d got new dependents while purging, cycle %d", item.ID, stats.Cycles)
			return err
		default:
			fatal = err
			return nil
		}
	})
	if fatal != nil {
		return stats, fmt.Errorf("failed to purge %s: %w", item.SanitizedURL, fatal)
	}
	if err != nil {
		log.Printf("[ERROR] purge of %s abandoned after %d cycles: %v", item.SanitizedURL, stats.Cycles, err)
		return stats, fmt.Errorf("purge of %s abandoned after %d cycles: %w", item.SanitizedURL, stats.Cycles, err)
	}
	return stats, handlerErrs.ErrorOrNil()
}

// Resolution is a final decision on a url
type Resolution struct {
	URL         canonical.URL
	OriginalURL string
	Designation Designation
	Reviewer    string // empty for automatic decisions
}

// ResolveResult is returned by ResolveAndPurge
type ResolveResult struct {
	Upsert UpsertResult
	Purged []QueueItem
	Stats  PurgeStats
}

// ResolveAndPurge stores the decision and purges every queued url whose best match is now
// the stored entry. An automatic decision refused over a manual one purges nothing. Failed purges of some items don't stop purging the rest, all errors are returned
// together with the result.
func (q *ReviewQueue) ResolveAndPurge(ctx context.Context, res Resolution, h PurgeHandler) (ResolveResult, error) {
	var result ResolveResult
	upd, err := q.urls.Upsert(ctx, res.URL, res.OriginalURL, res.Designation, res.Reviewer != "")
	if err != nil {
		return result, fmt.Errorf("failed to resolve %s: %w", res.URL, err)
	}
	result.Upsert = upd
	if upd.Refused {
		log.Printf("[INFO] automatic %s of %s refused, manual %s stays", res.Designation, res.URL, upd.Old.Designation)
		return result, nil
	}

	items, err := q.Matching(ctx, upd.ID)
	if err != nil {
		return result, fmt.Errorf("failed to find queued urls matching %s: %w", res.URL, err)
	}

	var errs *multierror.Error
	for _, item := range items {
		stats, err := q.Purge(ctx, item, h)
		result.Stats.Keyboards += stats.Keyboards
		result.Stats.Sightings += stats.Sightings
		result.Stats.Cycles += stats.Cycles
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		result.Purged = append(result.Purged, item)
	}
	log.Printf("[INFO] %s resolved as %s by %q, %s, purged %d queued", res.URL, res.Designation,
		res.Reviewer, upd.Kind, len(result.Purged))
	return result, errs.ErrorOrNil()
}
