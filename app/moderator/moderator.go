// Package moderator ties link classification together. It checks links against the classification store,
// the telegram heuristic and a site visit, sends uncertain links to human review and applies review decisions,
// cleaning up review prompts and spam messages of every queued link the decision covers.
package moderator

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/umputun/tg-linkcheck/app/storage"
	"github.com/umputun/tg-linkcheck/app/visitor"
	"github.com/umputun/tg-linkcheck/lib/canonical"
	"github.com/umputun/tg-linkcheck/lib/visitgate"
)

//go:generate moq --out mocks/url_store.go --pkg mocks --with-resets --skip-ensure . URLStore
//go:generate moq --out mocks/review_queue.go --pkg mocks --with-resets --skip-ensure . ReviewQueue
//go:generate moq --out mocks/visitor.go --pkg mocks --with-resets --skip-ensure . Visitor
//go:generate moq --out mocks/notifier.go --pkg mocks --with-resets --skip-ensure . Notifier

// AutoReviewer signs automatic decisions in the audit log
const AutoReviewer = "[AUTO] Spam checker"

// ErrNotURL is returned for text which can't be used as a link
var ErrNotURL = errors.New("not a usable url")

// URLStore is the classification store
type URLStore interface {
	Lookup(ctx context.Context, u canonical.URL, manualOnly bool) (*storage.Entry, error)
	Upsert(ctx context.Context, u canonical.URL, original string, d storage.Designation, manual bool) (storage.UpsertResult, error)
	Remove(ctx context.Context, u canonical.URL) (*storage.EntryInfo, error)
}

// ReviewQueue holds links waiting for a human
type ReviewQueue interface {
	Enqueue(ctx context.Context, u canonical.URL, original string) (storage.EnqueueResult, error)
	DequeueOldest(ctx context.Context) (*storage.QueueItem, error)
	RecordSighting(ctx context.Context, s storage.Sighting, u canonical.URL) error
	KeyboardMade(ctx context.Context, kb storage.Keyboard, queueID int64) error
	ResolveAndPurge(ctx context.Context, res storage.Resolution, h storage.PurgeHandler) (storage.ResolveResult, error)
	Count(ctx context.Context) (int, error)
}

// Visitor classifies a link by visiting it
type Visitor interface {
	Visit(ctx context.Context, target string) (visitor.Verdict, error)
}

// Notifier delivers review prompts and moderation actions to chats. Failures are logged by the caller.
type Notifier interface {
	SendReviewPrompt(ctx context.Context, chatID int64, item storage.QueueItem) (msgID int, err error)
	DiscardKeyboard(ctx context.Context, kb storage.Keyboard, text string) error
	DeleteMessage(ctx context.Context, chatID int64, msgID int) error
	Log(ctx context.Context, text string) error
	Remind(ctx context.Context, count int) error
}

// Params for Moderator
type Params struct {
	FailTTL          time.Duration // how long a domain with a failed visit is not revisited
	ReminderInterval time.Duration // period of review reminders, 0 disables them
	AuditLog         io.Writer     // optional log of review decisions
}

// Moderator checks links and applies review decisions
type Moderator struct {
	Params
	urls     URLStore
	queue    ReviewQueue
	visitor  Visitor
	notifier Notifier
	gate     *visitgate.Gate
	failed   cache.Cache[string, struct{}]
	auditMu  sync.Mutex
}

// Status is a check result
type Status string

// enum of statuses
const (
	StatusSpam       Status = "spam"
	StatusNotSpam    Status = "not_spam"
	StatusAggregator Status = "aggregator"
	StatusUncertain  Status = "uncertain"
	StatusUnknown    Status = "unknown"
)

// Source tells where a check result came from
type Source string

// enum of sources
const (
	SourceStore    Source = "store"
	SourceTelegram Source = "telegram"
	SourceVisit    Source = "visit"
	SourceFailed   Source = "failed_visit"
	SourceInFlight Source = "in_flight"
)

// Verdict is a result of Check
type Verdict struct {
	URL      string         `json:"url"`
	Status   Status         `json:"status"`
	Source   Source         `json:"source"`
	Manual   bool           `json:"manual,omitempty"`
	OnReview bool           `json:"on_review,omitempty"`
	Entry    *storage.Entry `json:"entry,omitempty"`
}

// IsSpam reports whether the link should be removed
func (v Verdict) IsSpam() bool { return v.Status == StatusSpam }

// Resolution is a review decision
type Resolution struct {
	URL         string              `json:"url"`
	OriginalURL string              `json:"original_url,omitempty"`
	Designation storage.Designation `json:"designation"`
	Reviewer    string              `json:"reviewer"` // empty for automatic decisions
}

// New makes a Moderator. Nil notifier only logs.
func New(urls URLStore, queue ReviewQueue, v Visitor, n Notifier, params Params) *Moderator {
	if params.FailTTL <= 0 {
		params.FailTTL = 10 * time.Minute
	}
	if n == nil {
		n = logNotifier{}
	}
	return &Moderator{
		Params:   params,
		urls:     urls,
		queue:    queue,
		visitor:  v,
		notifier: n,
		gate:     visitgate.New(),
		failed:   cache.NewCache[string, struct{}]().WithMaxKeys(10000).WithTTL(params.FailTTL),
	}
}

// Check classifies raw link text. Known links are answered from the store, telegram links by their shape,
// the rest by visiting them, at most one visit per domain at a time. Uncertain links go to review.
// Returns ErrNotURL if raw is not a usable link.
func (m *Moderator) Check(ctx context.Context, raw string) (Verdict, error) {
	u, ok := canonical.Parse(raw)
	if !ok {
		return Verdict{}, ErrNotURL
	}

	entry, err := m.urls.Lookup(ctx, u, false)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to lookup %s: %w", u, err)
	}
	if entry != nil && entry.Designation == storage.Spam {
		return storeVerdict(u, entry), nil
	}

	// telegram links are re-checked even if automatically known as not spam, the heuristic gets updates
	if tv, isTelegram := visitor.Telegram(u); isTelegram {
		if entry != nil && (entry.ManuallyReviewed || tv == visitor.NotSpam) {
			return storeVerdict(u, entry), nil
		}
		log.Printf("[DEBUG] telegram link %s is %s", u, tv)
		return m.applyVerdict(ctx, u, raw, tv, SourceTelegram)
	}
	if entry != nil {
		return storeVerdict(u, entry), nil
	}

	domain := registeredDomain(u)
	if _, failed := m.failed.Get(domain); failed {
		log.Printf("[DEBUG] %s recently failed to load, skip visit of %s", domain, u)
		return m.applyVerdict(ctx, u, raw, visitor.Unknown, SourceFailed)
	}

	guard, acquired := m.gate.TryAcquire(domain)
	if !acquired {
		log.Printf("[DEBUG] %s is being visited, check %s with the store", domain, u)
		if entry, err = m.urls.Lookup(ctx, u, false); err != nil {
			return Verdict{}, fmt.Errorf("failed to lookup %s: %w", u, err)
		}
		if entry != nil {
			return storeVerdict(u, entry), nil
		}
		return Verdict{URL: u.String(), Status: StatusUnknown, Source: SourceInFlight}, nil
	}
	defer guard.Release()

	// the visit which held the gate before may have stored a verdict already
	if entry, err = m.urls.Lookup(ctx, u, false); err != nil {
		return Verdict{}, fmt.Errorf("failed to lookup %s: %w", u, err)
	}
	if entry != nil {
		return storeVerdict(u, entry), nil
	}

	vv, err := m.visitor.Visit(ctx, visitTarget(raw, u))
	if err != nil {
		log.Printf("[INFO] visit of %s failed, %v", u, err)
		m.failed.Set(domain, struct{}{}, m.FailTTL)
		vv = visitor.Unknown
	}
	return m.applyVerdict(ctx, u, raw, vv, SourceVisit)
}

// applyVerdict stores a definite verdict for u and sends anything else to review.
// Automatic spam purges the review queue like a human decision, automatic not spam only gets stored.
func (m *Moderator) applyVerdict(ctx context.Context, u canonical.URL, raw string, v visitor.Verdict, src Source) (Verdict, error) {
	res := Verdict{URL: u.String(), Source: src}
	switch v {
	case visitor.Spam:
		res.Status = StatusSpam
		ur, err := m.Resolve(ctx, Resolution{URL: u.String(), OriginalURL: raw, Designation: storage.Spam})
		if err != nil {
			return Verdict{}, err
		}
		if ur.Refused {
			entry, err := m.urls.Lookup(ctx, u, false)
			if err != nil {
				return Verdict{}, fmt.Errorf("failed to lookup %s: %w", u, err)
			}
			return storeVerdict(u, entry), nil // a human decided otherwise
		}
		return res, nil
	case visitor.NotSpam:
		res.Status = StatusNotSpam
		ur, err := m.urls.Upsert(ctx, u, raw, storage.NotSpam, false)
		if err != nil {
			return Verdict{}, fmt.Errorf("failed to store %s: %w", u, err)
		}
		log.Printf("[DEBUG] %s stored as not spam, %s", u, ur.Kind)
		return res, nil
	case visitor.Uncertain:
		res.Status = StatusUncertain
	default:
		res.Status = StatusUnknown
	}

	qr, err := m.queue.Enqueue(ctx, u, raw)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to send %s to review: %w", u, err)
	}
	switch qr.Kind {
	case storage.Sent, storage.AlreadyOnReview:
		res.OnReview = true
	case storage.AlreadyInDatabase:
		return storeVerdict(u, qr.Entry), nil // decided while we were checking
	}
	return res, nil
}

// Report sends a link seen in a message to review and remembers the message,
// so it can be removed once the link is decided as spam.
func (m *Moderator) Report(ctx context.Context, raw string, seen storage.Sighting) (storage.EnqueueResult, error) {
	u, ok := canonical.Parse(raw)
	if !ok {
		return storage.EnqueueResult{}, ErrNotURL
	}
	res, err := m.queue.Enqueue(ctx, u, raw)
	if err != nil {
		return storage.EnqueueResult{}, fmt.Errorf("failed to report %s: %w", u, err)
	}
	if res.Kind != storage.AlreadyInDatabase && seen.ChatID != 0 {
		if err := m.queue.RecordSighting(ctx, seen, u); err != nil {
			return res, fmt.Errorf("failed to record sighting of %s: %w", u, err)
		}
	}
	log.Printf("[INFO] %s reported by %q, %s", u, seen.SenderName, res.Kind)
	return res, nil
}

// NextForReview returns the queued link least recently shown to reviewers, nil if nothing is queued
func (m *Moderator) NextForReview(ctx context.Context) (*storage.QueueItem, error) {
	return m.queue.DequeueOldest(ctx)
}

// SendForReview shows the next queued link to the reviewer in chatID.
// Returns nil item if nothing is queued.
func (m *Moderator) SendForReview(ctx context.Context, chatID int64) (*storage.QueueItem, error) {
	item, err := m.queue.DequeueOldest(ctx)
	if err != nil || item == nil {
		return nil, err
	}
	msgID, err := m.notifier.SendReviewPrompt(ctx, chatID, *item)
	if err != nil {
		return nil, fmt.Errorf("failed to send review prompt for %s: %w", item.SanitizedURL, err)
	}
	kb := storage.Keyboard{ChatID: chatID, MessageID: msgID}
	err = m.queue.KeyboardMade(ctx, kb, item.ID)
	if errors.Is(err, storage.ErrNotQueued) {
		// resolved while the prompt was sent
		if derr := m.notifier.DiscardKeyboard(ctx, kb, "Already handled:\n"+html.EscapeString(item.SanitizedURL)); derr != nil {
			log.Printf("[WARN] failed to discard review prompt %d:%d, %v", chatID, msgID, derr)
		}
		return item, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record review prompt for %s: %w", item.SanitizedURL, err)
	}
	return item, nil
}

// Resolve stores the decision and purges every queued link it covers. Review prompts of purged links
// are replaced with the decision, messages with them are deleted if the decision is spam.
// Notification failures are logged and don't fail the resolution.
func (m *Moderator) Resolve(ctx context.Context, r Resolution) (storage.UpsertResult, error) {
	u, ok := canonical.Parse(r.URL)
	if !ok {
		return storage.UpsertResult{}, ErrNotURL
	}
	if !r.Designation.Valid() {
		return storage.UpsertResult{}, fmt.Errorf("invalid designation %q", r.Designation)
	}

	h := &purgeHandler{notifier: m.notifier, res: r, url: u}
	res, err := m.queue.ResolveAndPurge(ctx, storage.Resolution{URL: u, OriginalURL: r.OriginalURL,
		Designation: r.Designation, Reviewer: r.Reviewer}, h)
	if res.Upsert.Kind == 0 {
		return storage.UpsertResult{}, fmt.Errorf("failed to resolve %s: %w", u, err)
	}
	if err != nil {
		log.Printf("[WARN] resolution of %s is stored, but cleanup failed: %v", u, err)
	}

	if res.Upsert.Kind != storage.NoChange {
		m.audit(ctx, auditMessage(r, u))
	}
	return res.Upsert, nil
}

// Remove deletes the classification of the exact link, returns nil if there was none
func (m *Moderator) Remove(ctx context.Context, raw string) (*storage.EntryInfo, error) {
	u, ok := canonical.Parse(raw)
	if !ok {
		return nil, ErrNotURL
	}
	return m.urls.Remove(ctx, u)
}

// QueueSize returns the number of links waiting for review
func (m *Moderator) QueueSize(ctx context.Context) (int, error) {
	return m.queue.Count(ctx)
}

// RunReminder periodically reminds reviewers about queued links. Blocks until ctx is done.
func (m *Moderator) RunReminder(ctx context.Context) {
	if m.ReminderInterval <= 0 {
		log.Printf("[INFO] review reminder disabled")
		return
	}
	ticker := time.NewTicker(m.ReminderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DEBUG] review reminder stopped, %v", ctx.Err())
			return
		case <-ticker.C:
			m.remind(ctx)
		}
	}
}

func (m *Moderator) remind(ctx context.Context) {
	count, err := m.queue.Count(ctx)
	if err != nil {
		log.Printf("[WARN] failed to count review queue, %v", err)
		return
	}
	if count == 0 {
		return
	}
	if err := m.notifier.Remind(ctx, count); err != nil {
		log.Printf("[WARN] failed to send review reminder, %v", err)
	}
}

func (m *Moderator) audit(ctx context.Context, msg string) {
	if err := m.notifier.Log(ctx, msg); err != nil {
		log.Printf("[WARN] failed to send review log, %v", err)
	}
	if m.AuditLog == nil {
		return
	}
	m.auditMu.Lock()
	defer m.auditMu.Unlock()
	line := time.Now().Format(time.RFC3339) + " " + strings.ReplaceAll(msg, "\n", " | ") + "\n"
	if _, err := io.WriteString(m.AuditLog, line); err != nil {
		log.Printf("[WARN] failed to write review audit log, %v", err)
	}
}

// auditMessage makes the review log record, e.g. "alice\n/mark_spam\nhttps://example.com/"
func auditMessage(r Resolution, u canonical.URL) string {
	reviewer := r.Reviewer
	if reviewer == "" {
		reviewer = AutoReviewer
	}
	msg := reviewer + "\n" + r.Designation.Command() + "\n" + u.String()
	if r.OriginalURL != "" && r.OriginalURL != u.String() {
		msg += "\n\nOriginal URL: " + r.OriginalURL
	}
	return msg
}

// DiscardText is shown instead of a review prompt once the link is decided, it is html
func DiscardText(reviewer string, d storage.Designation, u string) string {
	if reviewer == "" {
		reviewer = AutoReviewer
	}
	return fmt.Sprintf("Handled by %s:\n<b>%s</b>\n%s", html.EscapeString(reviewer), d.Title(), html.EscapeString(u))
}

// purgeHandler cleans up chats for a purged queue item
type purgeHandler struct {
	notifier Notifier
	res      Resolution
	url      canonical.URL
}

func (p *purgeHandler) HandleKeyboard(ctx context.Context, kb storage.Keyboard) error {
	return p.notifier.DiscardKeyboard(ctx, kb, DiscardText(p.res.Reviewer, p.res.Designation, p.url.String()))
}

func (p *purgeHandler) HandleSighting(ctx context.Context, s storage.Sighting) error {
	if p.res.Designation != storage.Spam {
		return nil
	}
	log.Printf("[INFO] deleting message %d:%d from %q with spam link %s", s.ChatID, s.MessageID, s.SenderName, p.url)
	return p.notifier.DeleteMessage(ctx, s.ChatID, s.MessageID)
}

func storeVerdict(u canonical.URL, e *storage.Entry) Verdict {
	res := Verdict{URL: u.String(), Source: SourceStore, Entry: e}
	if e == nil {
		res.Status = StatusUnknown
		return res
	}
	res.Manual = e.ManuallyReviewed
	switch e.Designation {
	case storage.Spam:
		res.Status = StatusSpam
	case storage.NotSpam:
		res.Status = StatusNotSpam
	case storage.Aggregator:
		res.Status = StatusAggregator
	}
	return res
}

// registeredDomain returns the domain one can register, like example.co.uk for a.b.example.co.uk.
// Falls back to the host for ip addresses and unknown suffixes.
func registeredDomain(u canonical.URL) string {
	if u.IsIP() {
		return u.Host()
	}
	domain, err := publicsuffix.Domain(u.Host())
	if err != nil || domain == "" {
		return u.Host()
	}
	return domain
}

// visitTarget prefers the link as written, canonical paths are lowercased and may not exist
func visitTarget(raw string, u canonical.URL) string {
	pu, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || pu.Host == "" || (pu.Scheme != "http" && pu.Scheme != "https") {
		return u.String()
	}
	return pu.String()
}

// logNotifier is used when there are no chats to notify
type logNotifier struct{}

func (logNotifier) SendReviewPrompt(_ context.Context, chatID int64, item storage.QueueItem) (int, error) {
	return 0, fmt.Errorf("can't send review prompt for %s to %d, no notifier", item.SanitizedURL, chatID)
}

func (logNotifier) DiscardKeyboard(_ context.Context, kb storage.Keyboard, text string) error {
	log.Printf("[DEBUG] discard keyboard %d:%d, %q", kb.ChatID, kb.MessageID, text)
	return nil
}

func (logNotifier) DeleteMessage(_ context.Context, chatID int64, msgID int) error {
	log.Printf("[INFO] spam message %d:%d should be deleted", chatID, msgID)
	return nil
}

func (logNotifier) Log(_ context.Context, text string) error {
	log.Printf("[INFO] review: %s", strings.ReplaceAll(text, "\n", " | "))
	return nil
}

func (logNotifier) Remind(_ context.Context, count int) error {
	log.Printf("[INFO] %d urls awaiting review", count)
	return nil
}
