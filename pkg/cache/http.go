package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTTL applies when the catalog sends no usable Expires header.
const DefaultTTL = 5 * time.Minute

// FromResponse builds an Entry from a 200 response. The body is read fully
// and replaced so the caller can still decode it.
func FromResponse(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, errors.New("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	now := time.Now()
	entry := &Entry{
		Body:     body,
		ETag:     resp.Header.Get("ETag"),
		Header:   resp.Header.Clone(),
		Expires:  expiresFrom(resp.Header, now),
		StoredAt: now,
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			entry.LastModified = t
		}
	}

	return entry, nil
}

// expiresFrom falls back to now+DefaultTTL for a missing or malformed
// header and clamps past dates to now.
func expiresFrom(header http.Header, now time.Time) time.Time {
	raw := header.Get("Expires")
	if raw == "" {
		return now.Add(DefaultTTL)
	}

	expires, err := http.ParseTime(raw)
	if err != nil {
		return now.Add(DefaultTTL)
	}
	if expires.Before(now) {
		return now
	}
	return expires
}
