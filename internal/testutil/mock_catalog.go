// Package testutil provides a mock Star Wars catalog for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines a canned reply for one path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

type mockPlanet struct {
	Name      string   `json:"name"`
	Residents []string `json:"residents"`
	URL       string   `json:"url"`
}

// MockCatalog is an httptest server that mimics the catalog's
// /api/planets/?search= and /api/people/<id>/ endpoints.
type MockCatalog struct {
	server *httptest.Server

	mu       sync.RWMutex
	planets  []mockPlanet
	records  map[string]any
	handlers map[string]http.HandlerFunc
	requests []string
}

// NewMockCatalog starts a new mock catalog.
func NewMockCatalog() *MockCatalog {
	m := &MockCatalog{
		records:  make(map[string]any),
		handlers: make(map[string]http.HandlerFunc),
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r.URL.RequestURI())
		handler, custom := m.handlers[r.URL.Path]
		m.mu.Unlock()

		if custom {
			handler(w, r)
			return
		}
		m.defaultHandler(w, r)
	}))

	return m
}

// URL returns the server root.
func (m *MockCatalog) URL() string {
	return m.server.URL
}

// BaseURL returns the catalog root to configure clients with.
func (m *MockCatalog) BaseURL() string {
	return m.server.URL + "/api"
}

// Close shuts down the server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// RequestCount returns the number of requests served.
func (m *MockCatalog) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Requests returns the request URIs served, in arrival order.
func (m *MockCatalog) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.requests...)
}

// PersonPath returns the path of person id.
func (m *MockCatalog) PersonPath(id int) string {
	return fmt.Sprintf("/api/people/%d/", id)
}

// PersonURL returns the absolute reference of person id.
func (m *MockCatalog) PersonURL(id int) string {
	return m.server.URL + m.PersonPath(id)
}

// PersonURLs returns references for ids from..to inclusive.
func (m *MockCatalog) PersonURLs(from, to int) []string {
	refs := make([]string, 0, to-from+1)
	for id := from; id <= to; id++ {
		refs = append(refs, m.PersonURL(id))
	}
	return refs
}

// AddPlanet registers a planet for the search endpoint.
func (m *MockCatalog) AddPlanet(name string, residents []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planets = append(m.planets, mockPlanet{
		Name:      name,
		Residents: residents,
		URL:       fmt.Sprintf("%s/api/planets/%d/", m.server.URL, len(m.planets)+1),
	})
}

// AddPerson registers person id.
func (m *MockCatalog) AddPerson(id int, name, birthYear string) {
	m.SetRecord(m.PersonPath(id), map[string]any{
		"name":       name,
		"birth_year": birthYear,
		"url":        m.PersonURL(id),
	})
}

// AddPeople registers persons from..to named "Person <id>" born "<id>BBY".
func (m *MockCatalog) AddPeople(from, to int) {
	for id := from; id <= to; id++ {
		m.AddPerson(id, fmt.Sprintf("Person %d", id), fmt.Sprintf("%dBBY", id))
	}
}

// AddPersonWithResidents registers person id whose record also carries a
// residents list, so it can serve as a next-batch reference.
func (m *MockCatalog) AddPersonWithResidents(id int, name, birthYear string, residents []string) {
	m.SetRecord(m.PersonPath(id), map[string]any{
		"name":       name,
		"birth_year": birthYear,
		"url":        m.PersonURL(id),
		"residents":  residents,
	})
}

// SetRecord serves body as JSON at path.
func (m *MockCatalog) SetRecord(path string, body any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[path] = body
}

// SetHandler overrides the handler for path.
func (m *MockCatalog) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// Restore drops a handler override so path serves its record again.
func (m *MockCatalog) Restore(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, path)
}

// SetResponse serves a canned reply at path.
func (m *MockCatalog) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// Fail makes path answer with status.
func (m *MockCatalog) Fail(path string, status int) {
	m.SetResponse(path, MockResponse{
		StatusCode: status,
		Body:       `{"detail":"mock failure"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

func (m *MockCatalog) defaultHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/planets/" {
		m.searchPlanets(w, r)
		return
	}

	m.mu.RLock()
	record, ok := m.records[r.URL.Path]
	m.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// searchPlanets matches case-insensitive substrings like the real catalog.
func (m *MockCatalog) searchPlanets(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("search"))

	m.mu.RLock()
	results := make([]mockPlanet, 0)
	for _, p := range m.planets {
		if strings.Contains(strings.ToLower(p.Name), query) {
			results = append(results, p)
		}
	}
	m.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(results),
		"next":     nil,
		"previous": nil,
		"results":  results,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
