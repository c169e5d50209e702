package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/umputun/tg-linkcheck/app/storage/engine"
	"github.com/umputun/tg-linkcheck/lib/canonical"
)

// ListEntry is a single spam list entry
type ListEntry struct {
	URL     canonical.URL
	Example string // optional example of the spam link, kept as original url
}

// ParseSpamList reads a spam list. Each line is "domain [example_url]",
// "#" at the line start or after a whitespace starts a comment.
func ParseSpamList(rd io.Reader) ([]ListEntry, error) {
	var res []ListEntry
	scanner := bufio.NewScanner(rd)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := stripComment(scanner.Text())
		fields := strings.Fields(line)
		switch len(fields) {
		case 0:
			continue
		case 1, 2:
		default:
			return nil, fmt.Errorf("line %d: expected domain and optional example url, got %d fields", lineNum, len(fields))
		}
		u, ok := canonical.Parse(fields[0])
		if !ok {
			return nil, fmt.Errorf("line %d: invalid domain %q", lineNum, fields[0])
		}
		entry := ListEntry{URL: u}
		if len(fields) == 2 {
			entry.Example = fields[1]
		}
		res = append(res, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spam list: %w", err)
	}
	return res, nil
}

func stripComment(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

// ImportSpamList replaces automatic entries of the previous spam list with entries.
// Manually reviewed entries are kept as is. Returns the number of inserted or updated entries.
func (r *URLs) ImportSpamList(ctx context.Context, entries []ListEntry) (int, error) {
	r.Lock()
	defer r.Unlock()

	tx, err := r.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, cmd := range []engine.DBCmd{CmdDeleteSpamListParams, CmdDeleteSpamList} {
		query, err := r.Pick(urlsQueries, cmd)
		if err != nil {
			return 0, fmt.Errorf("failed to get spam list cleanup query: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query); err != nil {
			return 0, fmt.Errorf("failed to clean previous spam list: %w", err)
		}
	}

	count := 0
	for _, e := range entries {
		original := e.Example
		if original == "" {
			original = e.URL.String()
		}
		res, err := r.upsert(ctx, tx, urlRecord{url: e.URL, original: original, designation: Spam, fromSpamList: true})
		if err != nil {
			return 0, fmt.Errorf("failed to import %s: %w", e.URL, err)
		}
		if res.Kind != NoChange {
			count++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[INFO] spam list imported, %d entries, %d applied", len(entries), count)
	return count, nil
}
