package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranklens/ranklens/internal/auth"
	"github.com/ranklens/ranklens/internal/domain"
)

// stubUserService resolves one fixed token to one fixed user.
type stubUserService struct {
	token string
	user  *domain.User
}

func (s *stubUserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.LoginResult, error) {
	return nil, domain.Internal(nil, "stub", "not implemented")
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	return nil, domain.Internal(nil, "stub", "not implemented")
}

func (s *stubUserService) Logout(ctx context.Context, token string) error {
	return nil
}

func (s *stubUserService) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	if s.user != nil && token == s.token {
		return s.user, nil
	}
	return nil, domain.Unauthorized("user.session", "Invalid or expired session")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Email: "user@example.com",
		Role:  role,
		Plan:  domain.PlanFree,
	}
}

func newAuthMiddleware(users *stubUserService) *AuthMiddleware {
	return NewAuthMiddleware(users, testLogger(), false)
}

func TestWithUser_ValidSession(t *testing.T) {
	user := testUser(domain.RoleUser)
	mw := newAuthMiddleware(&stubUserService{token: "good-token", user: user})

	var got *domain.User
	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.GetUserFromRequest(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good-token"})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestWithUser_NoCookie(t *testing.T) {
	mw := newAuthMiddleware(&stubUserService{})

	var called bool
	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, auth.GetUserFromRequest(r))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.True(t, called, "request should continue without a session")
}

func TestWithUser_InvalidSessionClearsCookie(t *testing.T) {
	mw := newAuthMiddleware(&stubUserService{token: "good-token", user: testUser(domain.RoleUser)})

	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, auth.GetUserFromRequest(r))
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-token"})
	handler.ServeHTTP(w, r)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRequireUser(t *testing.T) {
	mw := newAuthMiddleware(&stubUserService{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.RequireUser(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/usage", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
		r = r.WithContext(auth.SetUser(r.Context(), testUser(domain.RoleUser)))
		mw.RequireUser(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	mw := newAuthMiddleware(&stubUserService{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.RequireAdmin(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/plans", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/admin/plans", nil)
		r = r.WithContext(auth.SetUser(r.Context(), testUser(domain.RoleUser)))
		mw.RequireAdmin(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/admin/plans", nil)
		r = r.WithContext(auth.SetUser(r.Context(), testUser(domain.RoleAdmin)))
		mw.RequireAdmin(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestStack_Order(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	stack := Stack(tag("outer"), tag("middle"), tag("inner"))
	stack(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "middle", "inner", "handler"}, order)
}
