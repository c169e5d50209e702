package canonical

import "strings"

// parts is a url under canonicalization, segments are already normalized and query is still raw
type parts struct {
	host     string
	segments []string
	query    string
}

func (p *parts) path() string { return "/" + strings.Join(p.segments, "/") }

// rewriteRule is a per-domain rewrite, the first rule matching the host is applied
type rewriteRule struct {
	match func(host string) bool
	apply func(p *parts)
}

// twitter and its mirrors serving the same statuses
var twitterHosts = []string{
	"twitter.com", "x.com", "mobile.twitter.com", "mobile.x.com",
	"fxtwitter.com", "vxtwitter.com", "fixupx.com", "fixvx.com",
	"girlcockx.com", "stupidpenisx.com", "hitlerx.com", "cunnyx.com",
}

// rewrites is the per-domain rewrite table. Add entries here to support more sites.
var rewrites = []rewriteRule{
	{match: hosts("t.me", "telegram.me", "telegram.dog"), apply: func(p *parts) { p.host = "t.me" }},
	{match: telegramSubdomain, apply: telegramUsername},
	{match: hosts("youtu.be"), apply: youtubeShortLink},
	{match: hosts("youtube.com", "m.youtube.com"), apply: youtubeVideo},
	{match: hosts(twitterHosts...), apply: twitterStatus},
}

func applyRewrites(p *parts) {
	for _, r := range rewrites {
		if r.match(p.host) {
			r.apply(p)
			return
		}
	}
}

func hosts(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(host string) bool { return set[host] }
}

func telegramSubdomain(host string) bool {
	return strings.HasSuffix(host, ".t.me") && len(host) > len(".t.me")
}

// telegramUsername turns username.t.me into t.me/username, the rest of the link is dropped
func telegramUsername(p *parts) {
	p.segments = []string{Normalize(strings.TrimSuffix(p.host, ".t.me"))}
	p.host = "t.me"
	p.query = ""
}

// youtubeShortLink turns youtu.be/<id> into a watch link, youtu.be without id stays as is
func youtubeShortLink(p *parts) {
	if len(p.segments) == 0 {
		return
	}
	p.query = "v=" + strings.Join(p.segments, "/")
	p.host = "youtube.com"
	p.segments = []string{"watch"}
}

// youtubeVideo keeps only the video id for watch links and turns shorts into watch links
func youtubeVideo(p *parts) {
	p.host = "youtube.com"
	path := p.path()
	if path == "/watch" {
		videoParam := ""
		for _, param := range strings.Split(p.query, "&") {
			if key, val, _ := strings.Cut(param, "="); val != "" && Normalize(key) == "v" {
				videoParam = param
				break
			}
		}
		p.query = videoParam
		return
	}
	if _, id, ok := strings.Cut(path, "/shorts/"); ok {
		p.segments = []string{"watch"}
		p.query = "v=" + id
	}
}

// twitterStatus maps any mirror status link to twitter.com/i/status/<id>, query is always dropped
func twitterStatus(p *parts) {
	p.host = "twitter.com"
	p.query = ""
	if len(p.segments) >= 3 && p.segments[1] == "status" {
		p.segments = []string{"i", "status", p.segments[2]}
	}
}
