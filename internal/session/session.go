// Package session przechowuje sesje zalogowanych użytkowników w pamięci.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"book-tracker/internal/models"
)

const (
	sessionCookieName = "session_id"
	sessionDuration   = 24 * time.Hour
)

// Session reprezentuje sesję użytkownika
type Session struct {
	ID        string
	User      *models.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Manager zarządza sesjami użytkowników
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	duration time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

var (
	globalManager *Manager
	globalOnce    sync.Once
)

// NewManager tworzy manager sesji o podanym czasie życia (0 = domyślny)
func NewManager(duration time.Duration) *Manager {
	if duration <= 0 {
		duration = sessionDuration
	}
	return &Manager{
		sessions: make(map[string]*Session),
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Init inicjalizuje globalny manager sesji i czyszczenie wygasłych sesji
func Init() *Manager {
	globalOnce.Do(func() {
		globalManager = NewManager(sessionDuration)

		// Czyszczenie wygasłych sesji co godzinę
		go globalManager.cleanupExpiredSessions(time.Hour)
	})
	return globalManager
}

// GetManager zwraca globalny manager sesji
func GetManager() *Manager {
	return Init()
}

// CreateSession tworzy nową sesję dla użytkownika
func (m *Manager) CreateSession(user *models.User) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	now := m.now()
	session := &Session{
		ID:        id.String(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session, nil
}

// GetSession pobiera sesję po ID
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, false
	}

	// Sprawdź czy sesja nie wygasła
	if m.now().After(session.ExpiresAt) {
		return nil, false
	}

	return session, true
}

// DeleteSession usuwa sesję
func (m *Manager) DeleteSession(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Len zwraca liczbę przechowywanych sesji
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close zatrzymuje czyszczenie sesji
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// FromRequest pobiera sesję z cookie requesta
func (m *Manager) FromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}
	return m.GetSession(cookie.Value)
}

// SetSessionCookie ustawia cookie z ID sesji
func SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(sessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   false, // w produkcji ustaw na true (HTTPS)
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie usuwa cookie z sesją
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (m *Manager) cleanupExpiredSessions(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *Manager) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
}
