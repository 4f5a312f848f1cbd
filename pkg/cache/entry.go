package cache

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// Entry is a stored catalog response together with its validators.
type Entry struct {
	// Body is the raw JSON payload
	Body []byte `json:"body"`

	// ETag is sent back as If-None-Match
	ETag string `json:"etag,omitempty"`

	// LastModified is sent back as If-Modified-Since when no ETag exists
	LastModified time.Time `json:"last_modified,omitempty"`

	// Expires is when Redis drops the entry
	Expires time.Time `json:"expires"`

	// Header holds the original response headers
	Header http.Header `json:"header,omitempty"`

	// StoredAt is when the entry was written
	StoredAt time.Time `json:"stored_at"`
}

// IsExpired reports whether the entry is past its expiry.
func (e *Entry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TTL returns the time left before expiry, never negative.
func (e *Entry) TTL() time.Duration {
	if ttl := time.Until(e.Expires); ttl > 0 {
		return ttl
	}
	return 0
}

// HasValidator reports whether a conditional request can be built from e.
func (e *Entry) HasValidator() bool {
	return e != nil && (e.ETag != "" || !e.LastModified.IsZero())
}

// Condition adds If-None-Match or If-Modified-Since to req. ETag wins when
// both validators are present.
func (e *Entry) Condition(req *http.Request) {
	if e == nil || req == nil {
		return
	}
	switch {
	case e.ETag != "":
		req.Header.Set("If-None-Match", e.ETag)
	case !e.LastModified.IsZero():
		req.Header.Set("If-Modified-Since", e.LastModified.UTC().Format(http.TimeFormat))
	}
}

// Response rebuilds a 200 response from the stored body.
func (e *Entry) Response() *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("X-Cache", "REVALIDATED")

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
	}
}
