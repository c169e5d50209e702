package visitor

import (
	"strings"

	"github.com/umputun/tg-linkcheck/lib/canonical"
)

// usernames spammed as telegram bots while not looking like bots
var knownSpamAccounts = map[string]bool{"blum": true, "blumcryptobot": true, "notpixel": true}

// bot username suffixes seen only in spam campaigns
var spamBotSuffixes = []string{"hamster_kombat_bot", "gemgombot", "drft_party_bot", "drop_bot"}

// Telegram classifies t.me links without visiting them. Returns false if u is not a telegram link.
// Bots with start parameters are Uncertain unless the parameters look like a giveaway.
func Telegram(u canonical.URL) (Verdict, bool) {
	if u.Host() != "t.me" {
		return Unknown, false
	}

	segments := strings.Split(strings.TrimPrefix(u.Path(), "/"), "/")
	username := segments[0]
	if username == "" {
		return NotSpam, true
	}
	if knownSpamAccounts[username] {
		return Spam, true
	}
	if !strings.HasSuffix(username, "bot") {
		return NotSpam, true
	}
	for _, suffix := range spamBotSuffixes {
		if strings.HasSuffix(username, suffix) {
			return Spam, true
		}
	}

	if len(segments) < 2 {
		return NotSpam, true
	}
	params := segments[1]
	if strings.Contains(params, "claim") || strings.Contains(params, "drop") {
		return Spam, true
	}

	query := u.Query()
	switch {
	case query == "":
		return Uncertain, true
	case strings.Contains(query, "startapp=kentid"):
		return Spam, true
	case strings.Contains(params, "game") && strings.Contains(query, "ref="):
		return Spam, true
	}
	return Uncertain, true
}
