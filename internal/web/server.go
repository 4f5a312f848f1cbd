// Package web serves the planet search widget as a single HTML page.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/swapi-planet-search/pkg/metrics"
	"github.com/Sternrassler/swapi-planet-search/pkg/search"
)

// Controller is the subset of *search.Controller the widget drives.
type Controller interface {
	State() search.State
	SetQuery(q string)
	Search(ctx context.Context, name string) error
	LoadMore(ctx context.Context) error
	Reset() error
}

// Server wraps the HTTP server and the widget routes. Each browser session
// drives its own controller.
type Server struct {
	http     *http.Server
	sessions *sessions
	logger   zerolog.Logger
}

// New builds the server listening on addr. newController is called once
// per visitor session.
func New(addr string, newController func() Controller, logger zerolog.Logger) *Server {
	s := &Server{
		sessions: newSessions(newController),
		logger:   logger,
	}

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handlePage)
		r.Post("/search", s.handleSearch)
		r.Post("/more", s.handleMore)
		r.Post("/reset", s.handleReset)
	})
	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if err := pageTemplate.Execute(w, controllerFrom(r.Context()).State()); err != nil {
		s.logger.Error().Err(err).Msg("Render page")
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r.Context())
	query := r.PostFormValue("planet")
	ctrl.SetQuery(query)

	// Issued fetches run to completion even if the browser goes away.
	s.report(ctrl.Search(context.WithoutCancel(r.Context()), query), "search")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMore(w http.ResponseWriter, r *http.Request) {
	s.report(controllerFrom(r.Context()).LoadMore(context.WithoutCancel(r.Context())), "load_more")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.report(controllerFrom(r.Context()).Reset(), "reset")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// report logs rejected calls; every other failure is already part of the
// rendered state.
func (s *Server) report(err error, op string) {
	if errors.Is(err, search.ErrBusy) {
		s.logger.Debug().Str("op", op).Msg("Rejected while busy")
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// accessLog writes one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http_request")
	})
}
