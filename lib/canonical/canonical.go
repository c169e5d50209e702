// Package canonical maps arbitrary link text to a comparable canonical URL.
// Canonicalization is lossy on purpose: case, tracking parameters and mirror domains
// are folded so that variations of a known spam link resolve to the same identity.
// The result is always an https URL without fragment, userinfo and port.
package canonical

import (
	"net/netip"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/idna"
)

// URL is a canonical, immutable url value. The zero value is not a valid url.
type URL struct {
	host  string
	path  string // always starts with "/", no trailing slash unless root
	query string // sorted and deduplicated params joined with "&", empty if no query
	ip    bool
}

// schemes which can be coerced to https
var coercible = map[string]bool{"http": true, "https": true, "ws": true, "wss": true, "ftp": true}

// hosts carrying payload in the fragment, it is folded into the path for them
var fragmentHosts = map[string]bool{
	"signal.me": true, "signal.group": true, "signal.link": true, "signal.tube": true, "signal.art": true,
}

// hostProfile maps hosts the way a lookup does but keeps underscores, which are common in real hosts
var hostProfile = idna.New(idna.MapForLookup(), idna.BidiRule(), idna.StrictDomainName(false))

// Parse interprets raw link text the way Telegram linkifies it, e.g. "@name" is a t.me link
// and a bare "example.com" is an https url. Returns false if raw is not a usable url.
func Parse(raw string) (URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return URL{}, false
	}
	if name, ok := strings.CutPrefix(raw, "@"); ok {
		raw = "https://t.me/" + name
	}

	u, err := url.Parse(raw)
	switch {
	case err == nil && u.Scheme == "" && u.Host != "":
		u.Scheme = "https" // scheme-relative, "//example.com/x"
	case hasScheme(raw):
		if err != nil {
			return URL{}, false
		}
	case err != nil || u.Scheme == "":
		if u, err = url.Parse("https://" + raw); err != nil {
			return URL{}, false
		}
	}
	return FromURL(u)
}

// hasScheme reports whether raw starts with "scheme://"
func hasScheme(raw string) bool {
	i := strings.Index(raw, "://")
	if i <= 0 {
		return false
	}
	for j := 0; j < i; j++ {
		c := raw[j]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case j > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// FromURL canonicalizes already parsed url. Returns false for non-http-like schemes,
// hostless urls, urls which can't have a path and hosts with forbidden characters.
func FromURL(u *url.URL) (URL, bool) {
	res, ok := canonicalize(u)
	if !ok {
		return URL{}, false
	}
	// the result must canonicalize to itself
	again, err := url.Parse(res.String())
	if err != nil {
		return URL{}, false
	}
	if stable, ok := canonicalize(again); !ok || stable != res {
		return URL{}, false
	}
	return res, true
}

func canonicalize(u *url.URL) (URL, bool) {
	if u == nil || u.Opaque != "" || !coercible[strings.ToLower(u.Scheme)] {
		return URL{}, false
	}
	host, ip, ok := normalizeHost(u.Hostname())
	if !ok {
		return URL{}, false
	}

	rawPath := u.EscapedPath()
	if frag := u.EscapedFragment(); frag != "" && fragmentHosts[host] {
		rawPath += "/fragment__" + frag
	}

	p := parts{host: host, segments: normalizeSegments(rawPath), query: u.RawQuery}
	if !ip {
		applyRewrites(&p)
	}

	return URL{
		host:  p.host,
		path:  "/" + strings.Join(p.segments, "/"),
		query: normalizeQuery(p.query),
		ip:    ip,
	}, true
}

// String returns the serialized canonical url, empty for the zero value
func (u URL) String() string {
	if u.host == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("https://")
	if strings.Contains(u.host, ":") {
		b.WriteString("[" + u.host + "]")
	} else {
		b.WriteString(u.host)
	}
	b.WriteString(u.path)
	if u.query != "" {
		b.WriteString("?" + u.query)
	}
	return b.String()
}

// Host returns lowercase ascii host, IPv6 addresses without brackets
func (u URL) Host() string { return u.host }

// Path returns normalized path, "/" for the root
func (u URL) Path() string { return u.path }

// Query returns normalized query without "?", empty if there is none
func (u URL) Query() string { return u.query }

// IsIP reports whether the host is an ip address
func (u URL) IsIP() bool { return u.ip }

// IsZero reports whether u is the zero value
func (u URL) IsZero() bool { return u.host == "" }

// Params returns query params in canonical order
func (u URL) Params() []string {
	if u.query == "" {
		return nil
	}
	return strings.Split(u.query, "&")
}

func normalizeHost(host string) (res string, ip, ok bool) {
	if host == "" {
		return "", false, false
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.WithZone("").String(), true, true
	}
	res, err := hostProfile.ToASCII(strings.ToLower(host))
	if err != nil {
		return "", false, false
	}
	res = strings.ToLower(res)
	if strings.ContainsFunc(res, forbiddenInHost) {
		return "", false, false
	}
	for strings.HasPrefix(res, "www.") {
		res = res[len("www."):]
	}
	return res, false, res != ""
}

// forbiddenInHost matches forbidden domain code points of the url standard
func forbiddenInHost(r rune) bool {
	return r <= 0x20 || r == 0x7f || strings.ContainsRune("#%/:<>?@[\\]^|", r)
}

// normalizeSegments splits escaped path into normalized non-empty segments and resolves dot segments
func normalizeSegments(rawPath string) []string {
	res := []string{}
	for _, seg := range strings.Split(rawPath, "/") {
		if seg == "" {
			continue
		}
		switch seg = Normalize(seg); seg {
		case "", ".":
		case "..":
			if len(res) > 0 {
				res = res[:len(res)-1]
			}
		default:
			res = append(res, seg)
		}
	}
	return res
}

// normalizeQuery normalizes every key and value, then sorts and deduplicates params
func normalizeQuery(raw string) string {
	if raw == "" {
		return ""
	}
	var params []string
	prev := ""
	for i, param := range strings.Split(raw, "&") {
		if param == "" || (i > 0 && param == prev) {
			prev = param
			continue
		}
		prev = param
		key, val, _ := strings.Cut(param, "=")
		item := Normalize(key)
		if val != "" {
			item += "=" + Normalize(val)
		}
		if item != "" {
			params = append(params, item)
		}
	}
	slices.Sort(params)
	return strings.Join(slices.Compact(params), "&")
}
