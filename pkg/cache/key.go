package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Key identifies a stored response by catalog host, path and query.
type Key struct {
	// Host is the catalog host, e.g. "swapi.dev"
	Host string

	// Path is the request path, e.g. "/api/planets/"
	Path string

	// Query holds the request query parameters
	Query url.Values
}

// KeyFor derives the key of a request URL.
func KeyFor(u *url.URL) Key {
	if u == nil {
		return Key{}
	}
	return Key{Host: u.Host, Path: u.Path, Query: u.Query()}
}

// String renders a deterministic Redis key.
// Format: swapi[:<host>]:<path>[:name=value...] with names sorted and
// values lower-cased, since catalog search is case-insensitive.
//
//	swapi:swapi.dev:api/planets:search=tatooine
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("swapi")

	if k.Host != "" {
		b.WriteByte(':')
		b.WriteString(strings.ToLower(k.Host))
	}

	if p := strings.Trim(k.Path, "/"); p != "" {
		b.WriteByte(':')
		b.WriteString(p)
	}

	names := make([]string, 0, len(k.Query))
	for name := range k.Query {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.ToLower(k.Query.Get(name)))
	}

	return b.String()
}
