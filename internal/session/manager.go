// Package session gives every visitor of the docs server a tree state of
// their own, identified by a cookie and optionally kept in SQLite.
package session

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// CookieName is the cookie carrying the session id.
const CookieName = "docnav_session"

const cookieMaxAge = 365 * 24 * time.Hour

// Session is one visitor's tree state.
type Session struct {
	ID    string
	Store *navtree.Store

	lastSeen time.Time
	cancel   func()
}

// watched reports whether anything besides persistence listens to the
// session's store, such as an open websocket.
func (s *Session) watched() bool {
	own := 0
	if s.cancel != nil {
		own = 1
	}
	return s.Store.Listeners() > own
}

// Manager hands out sessions. A nil StateStore keeps state in memory only.
// Sessions idle for longer than the sweep's idle time are dropped from
// memory; persisted ones are restored on their next request.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	states    *StateStore
	logger    *zap.Logger
	lastSweep time.Time

	now func() time.Time
}

// NewManager creates a session manager.
func NewManager(states *StateStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		states:   states,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the session with id, restoring it from storage when it is not
// in memory. Unknown or malformed ids get a fresh session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		id = ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok && id != "" {
		s.lastSeen = m.now()
		return s, nil
	}

	store := navtree.NewStore()
	if id != "" && m.states != nil {
		exists, err := m.states.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			states, err := m.states.Load(ctx, id)
			if err != nil {
				return nil, err
			}
			store.Restore(states)
		} else {
			id = ""
		}
	} else if m.states == nil && id != "" {
		// Memory-only sessions do not survive a restart.
		id = ""
	}
	if id == "" {
		id = uuid.NewString()
	}

	if m.states != nil {
		if err := m.states.Touch(ctx, id); err != nil {
			return nil, err
		}
	}

	s := &Session{ID: id, Store: store, lastSeen: m.now()}
	if m.states != nil {
		s.cancel = store.Subscribe(m.persist(id))
	}
	m.sessions[id] = s
	return s, nil
}

func (m *Manager) persist(id string) navtree.Listener {
	return func(c navtree.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.states.Save(ctx, id, c.Route, c.Expanded); err != nil {
			m.logger.Error("persisting tree state",
				zap.String("session", id),
				zap.String("route", c.Route),
				zap.Error(err),
			)
		}
	}
}

// FromRequest returns the session named by the request's cookie and sets
// the cookie when a new session was created.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) (*Session, error) {
	var id string
	if c, err := r.Cookie(CookieName); err == nil {
		id = c.Value
	}
	s, err := m.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if s.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    s.ID,
			Path:     "/",
			MaxAge:   int(cookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s, nil
}

// Forget drops the caller's session from memory and storage and expires
// its cookie. The next request starts from an empty tree state.
func (m *Manager) Forget(w http.ResponseWriter, r *http.Request) error {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	m.mu.Lock()
	if s, ok := m.sessions[c.Value]; ok {
		if s.cancel != nil {
			s.cancel()
		}
		delete(m.sessions, c.Value)
	}
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if m.states == nil {
		return nil
	}
	if err := m.states.Delete(r.Context(), c.Value); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// Sweep drops sessions not seen for idle from memory, unless a websocket
// still watches them. With persistence it also records activity since the
// previous sweep and deletes stored sessions not seen within retention.
// It returns the number of sessions dropped from memory.
func (m *Manager) Sweep(ctx context.Context, idle, retention time.Duration) (int, error) {
	now := m.now()

	m.mu.Lock()
	var active []string
	evicted := 0
	for id, s := range m.sessions {
		if m.states != nil && s.lastSeen.After(m.lastSweep) {
			active = append(active, id)
		}
		if now.Sub(s.lastSeen) < idle || s.watched() {
			continue
		}
		if s.cancel != nil {
			s.cancel()
		}
		delete(m.sessions, id)
		evicted++
	}
	m.lastSweep = now
	remaining := len(m.sessions)
	m.mu.Unlock()

	var pruned int64
	if m.states != nil {
		for _, id := range active {
			if err := m.states.Touch(ctx, id); err != nil {
				return evicted, err
			}
		}
		var err error
		pruned, err = m.states.Prune(ctx, now.Add(-retention))
		if err != nil {
			return evicted, err
		}
	}

	m.logger.Debug("swept sessions",
		zap.Int("evicted", evicted),
		zap.Int("sessions", remaining),
		zap.Int64("pruned", pruned),
	)
	return evicted, nil
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, idle, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx, idle, retention); err != nil {
				m.logger.Warn("sweeping sessions", zap.Error(err))
			}
		}
	}
}

// Close stops persisting every session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.cancel != nil {
			s.cancel()
		}
		delete(m.sessions, id)
	}
}
