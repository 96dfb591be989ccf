package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"book-tracker/internal/models"
)

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(time.Hour)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	sess, err := m.CreateSession(&models.User{UID: "u1", DisplayName: "Ala"})
	require.NoError(t, err)
	_, err = uuid.Parse(sess.ID)
	assert.NoError(t, err, "ID sesji to UUID")

	got, ok := m.GetSession(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "u1", got.User.UID)

	now = now.Add(2 * time.Hour)
	_, ok = m.GetSession(sess.ID)
	assert.False(t, ok, "sesja wygasła")

	m.removeExpired()
	assert.Equal(t, 0, m.Len())
}

func TestManager_FromRequest(t *testing.T) {
	m := NewManager(0)
	sess, err := m.CreateSession(&models.User{UID: "u1"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, sess.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	got, ok := m.FromRequest(req)
	require.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)

	m.DeleteSession(sess.ID)
	_, ok = m.FromRequest(req)
	assert.False(t, ok)

	_, ok = m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestManager_CloseStopsCleanup(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewManager(time.Minute)
	done := make(chan struct{})
	go func() {
		m.cleanupExpiredSessions(time.Millisecond)
		close(done)
	}()

	m.Close()
	m.Close()
	<-done
}
