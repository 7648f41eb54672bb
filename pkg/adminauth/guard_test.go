package adminauth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	"github.com/n1protocol/portal/pkg/config"
)

const testSecret = "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"

func newTestGuard() *Guard {
	return NewGuard(config.AdminConfig{
		SecretHash:    testSecret,
		SecureCookies: false,
		SessionMaxAge: 7 * 24 * time.Hour,
	})
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestGuard_LoginIssuesCookie(t *testing.T) {
	guard := newTestGuard()
	rec := httptest.NewRecorder()

	require.NoError(t, guard.Login(rec, testSecret))

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, testSecret, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestGuard_LoginRejectsWrongHash(t *testing.T) {
	guard := newTestGuard()
	rec := httptest.NewRecorder()

	err := guard.Login(rec, "deadbeef")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryUnauthorized))
	assert.Nil(t, sessionCookie(t, rec), "no cookie on rejected login")
}

func TestGuard_LoginRejectsEmptyHash(t *testing.T) {
	guard := newTestGuard()
	rec := httptest.NewRecorder()

	require.Error(t, guard.Login(rec, ""))
	assert.Nil(t, sessionCookie(t, rec))
}

func TestGuard_Check(t *testing.T) {
	guard := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	assert.False(t, guard.Check(req), "no cookie")

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeef"})
	assert.False(t, guard.Check(req), "wrong value")

	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: testSecret})
	assert.True(t, guard.Check(req))
}

func TestGuard_LogoutClearsCookie(t *testing.T) {
	guard := newTestGuard()
	rec := httptest.NewRecorder()

	guard.Logout(rec)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestRequire_BlocksBeforeHandlerRuns(t *testing.T) {
	guard := newTestGuard()

	handlerRan := false
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(guard.Require)
		r.Patch("/admin/ledger/{id}", func(w http.ResponseWriter, _ *http.Request) {
			handlerRan = true
			w.WriteHeader(http.StatusOK)
		})
	})

	req := httptest.NewRequest(http.MethodPatch, "/admin/ledger/1", strings.NewReader(`{"action":"approve"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerRan, "guarded handler must not run without a session")

	req = httptest.NewRequest(http.MethodPatch, "/admin/ledger/1", strings.NewReader(`{"action":"approve"}`))
	req.AddCookie(&http.Cookie{Name: CookieName, Value: testSecret})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, handlerRan)
}

func TestAuthEndpoints(t *testing.T) {
	guard := newTestGuard()
	r := chi.NewRouter()
	RegisterRoutes(r, guard, zap.NewNop())

	// Status without a session.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/auth", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	// Login with the right hash.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/auth",
		strings.NewReader(`{"hashedPassword":"`+testSecret+`"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)

	// Status with the session cookie.
	req := httptest.NewRequest(http.MethodGet, "/admin/auth", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"authenticated":true}`, rec.Body.String())

	// Login with a wrong hash.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/auth",
		strings.NewReader(`{"hashedPassword":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/auth", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(t, rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}
