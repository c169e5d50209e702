// Package storage keeps url classifications and the human review queue in a sql database.
// URLs is the classification store, ReviewQueue holds uncertain urls with their sightings and
// review keyboards. Both work on top of engine.SQL and share the same database.
package storage

import (
	"fmt"
	"strings"
)

// Designation is a final verdict on a url
type Designation string

// enum of designations
const (
	Spam       Designation = "spam"
	NotSpam    Designation = "not_spam"
	Aggregator Designation = "aggregator"
)

// Valid reports whether d is a known designation
func (d Designation) Valid() bool {
	switch d {
	case Spam, NotSpam, Aggregator:
		return true
	}
	return false
}

// Command returns the review command for the designation, e.g. /mark_spam
func (d Designation) Command() string {
	return "/mark_" + string(d)
}

// Title returns the human-readable designation
func (d Designation) Title() string {
	switch d {
	case Spam:
		return "Spam"
	case NotSpam:
		return "Not spam"
	case Aggregator:
		return "Aggregator"
	}
	return string(d)
}

// ParseDesignation parses a designation or its review command
func ParseDesignation(s string) (Designation, error) {
	d := Designation(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "/mark_"))
	if !d.Valid() {
		return "", fmt.Errorf("unknown designation %q", s)
	}
	return d, nil
}

// EntryInfo is a short info about a classification entry
type EntryInfo struct {
	ID               int64       `db:"id" json:"id"`
	ParamCount       int         `db:"param_count" json:"param_count"`
	Designation      Designation `db:"designation" json:"designation"`
	ManuallyReviewed bool        `db:"manually_reviewed" json:"manually_reviewed"`
}

// Entry is a classification entry with its url
type Entry struct {
	EntryInfo
	Host         string `db:"host" json:"host"`
	Path         string `db:"path" json:"path"`
	Query        string `db:"query" json:"query"`
	OriginalURL  string `db:"original_url" json:"original_url"`
	FromSpamList bool   `db:"from_spam_list" json:"from_spam_list"`
}

// SanitizedURL returns the canonical url of the entry
func (e Entry) SanitizedURL() string {
	host := e.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	res := "https://" + host + e.Path
	if e.Query != "" {
		res += "?" + e.Query
	}
	return res
}

// UpsertKind is the outcome of an upsert
type UpsertKind int

// enum of upsert outcomes
const (
	Inserted UpsertKind = iota + 1
	Updated
	NoChange
)

func (k UpsertKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case NoChange:
		return "no change"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// UpsertResult is returned by URLs.Upsert. Old is the prior state for Updated
// and the existing state for NoChange, nil for Inserted.
type UpsertResult struct {
	Kind    UpsertKind
	ID      int64
	Old     *EntryInfo
	Refused bool // automatic designation not applied over a manual one
}

// EnqueueKind is the outcome of sending a url to review
type EnqueueKind int

// enum of enqueue outcomes
const (
	Sent EnqueueKind = iota + 1
	AlreadyOnReview
	AlreadyInDatabase
)

func (k EnqueueKind) String() string {
	switch k {
	case Sent:
		return "sent"
	case AlreadyOnReview:
		return "already on review"
	case AlreadyInDatabase:
		return "already in database"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// EnqueueResult is returned by ReviewQueue.Enqueue. ID is set for Sent, Entry for AlreadyInDatabase.
type EnqueueResult struct {
	Kind  EnqueueKind
	ID    int64
	Entry *Entry
}

// QueueItem is a url waiting for review
type QueueItem struct {
	ID           int64  `db:"id" json:"id"`
	SanitizedURL string `db:"sanitized_url" json:"sanitized_url"`
	OriginalURL  string `db:"original_url" json:"original_url"`
}

// Sighting is a message where a queued url was seen
type Sighting struct {
	ChatID     int64  `db:"chat_id" json:"chat_id"`
	MessageID  int    `db:"message_id" json:"message_id"`
	SenderName string `db:"sender_name" json:"sender_name"`
}

// Keyboard is a displayed review prompt for a queued url
type Keyboard struct {
	ChatID    int64 `db:"chat_id" json:"chat_id"`
	MessageID int   `db:"message_id" json:"message_id"`
}
