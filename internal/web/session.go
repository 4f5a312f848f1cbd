package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SessionCookie names the cookie that ties a browser to its controller.
const SessionCookie = "planet_search_session"

// SessionIdleTimeout is how long an untouched session is kept.
const SessionIdleTimeout = 30 * time.Minute

var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "planet_search_web_sessions",
	Help: "Widget sessions currently held in memory",
})

type session struct {
	ctrl     Controller
	lastSeen time.Time
}

// sessions maps cookie values to per-visitor controllers. Nothing is
// persisted: a restart or an idle timeout starts the visitor over.
type sessions struct {
	newController func() Controller
	idle          time.Duration
	now           func() time.Time

	mu   sync.Mutex
	byID map[string]*session
}

func newSessions(newController func() Controller) *sessions {
	return &sessions{
		newController: newController,
		idle:          SessionIdleTimeout,
		now:           time.Now,
		byID:          make(map[string]*session),
	}
}

// get returns the controller for id and marks it as used.
func (s *sessions) get(id string) (Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ctrl, true
}

// create starts a session and drops the ones idle for longer than s.idle.
func (s *sessions) create() (string, Controller) {
	id := uuid.NewString()
	ctrl := s.newController()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, sess := range s.byID {
		if now.Sub(sess.lastSeen) > s.idle && !sess.ctrl.State().Busy {
			delete(s.byID, key)
		}
	}
	s.byID[id] = &session{ctrl: ctrl, lastSeen: now}
	sessionsActive.Set(float64(len(s.byID)))

	return id, ctrl
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type ctrlKey struct{}

// withSession attaches the visitor's controller to the request context,
// issuing a new cookie when the request has none or an unknown one.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ctrl Controller
		if id, ok := readSession(r); ok {
			ctrl, _ = s.sessions.get(id)
		}

		if ctrl == nil {
			var id string
			id, ctrl = s.sessions.create()
			writeSession(w, r, id)
			s.logger.Debug().Str("session", id).Msg("Session started")
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctrlKey{}, ctrl)))
	})
}

func controllerFrom(ctx context.Context) Controller {
	ctrl, _ := ctx.Value(ctrlKey{}).(Controller)
	return ctrl
}

func readSession(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	return value, value != ""
}

func writeSession(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
