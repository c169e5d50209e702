package canonical

import (
	"iter"
	"strings"
)

// HostPath is a single step of url destructuring
type HostPath struct {
	Host string
	Path string
}

// Destructurer walks a url from the most to the least specific host/path pair.
// Path segments are trimmed first, one per step, then leading host labels until no dot remains.
// Query is ignored.
type Destructurer struct {
	host string
	path string
	ip   bool
	done bool
}

// Destructurer makes a new cursor over the destructured pairs of u
func (u URL) Destructurer() *Destructurer {
	return &Destructurer{host: u.host, path: u.path, ip: u.ip, done: u.host == ""}
}

// Next returns the next pair. Once exhausted it returns false on every call.
func (d *Destructurer) Next() (HostPath, bool) {
	if d.done {
		return HostPath{}, false
	}

	if len(d.path) > 1 {
		res := HostPath{Host: d.host, Path: d.path}
		d.path = d.path[:strings.LastIndexByte(d.path, '/')]
		if d.path == "" {
			d.path = "/"
		}
		return res, true
	}

	if d.ip {
		d.done = true // ip addresses have no parent domains
		return HostPath{Host: d.host, Path: "/"}, true
	}

	if idx := strings.IndexByte(d.host, '.'); idx >= 0 {
		res := HostPath{Host: d.host, Path: "/"}
		d.host = d.host[idx+1:]
		return res, true
	}

	d.done = true
	return HostPath{}, false
}

// Destructure returns the sequence of destructured pairs, see Destructurer
func (u URL) Destructure() iter.Seq[HostPath] {
	return func(yield func(HostPath) bool) {
		d := u.Destructurer()
		for hp, ok := d.Next(); ok; hp, ok = d.Next() {
			if !yield(hp) {
				return
			}
		}
	}
}

// DestructureTo returns n-th destructured pair as a url without query. 0 returns u itself.
// Returns false if the sequence is shorter than n.
func (u URL) DestructureTo(n int) (URL, bool) {
	if n == 0 {
		return u, !u.IsZero()
	}
	if n < 0 {
		return URL{}, false
	}
	d := u.Destructurer()
	for i := 1; ; i++ {
		hp, ok := d.Next()
		if !ok {
			return URL{}, false
		}
		if i == n {
			return URL{host: hp.Host, path: hp.Path, ip: u.ip}, true
		}
	}
}
