package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ranklens/ranklens/internal/domain"
	"github.com/ranklens/ranklens/internal/repository"
)

// fakeUserStore is an in-memory UserStore keyed by email and token hash.
type fakeUserStore struct {
	users    map[string]*domain.User
	sessions map[string]*domain.Session

	createUserErr error
	purgeCalls    int
	purgeErr      error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.Session),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, email, passwordHash, name string) (*domain.User, error) {
	if f.createUserErr != nil {
		return nil, f.createUserErr
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         domain.RoleUser,
		Plan:         domain.PlanFree,
	}
	f.users[email] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) CreateSession(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error) {
	session := &domain.Session{ID: uuid.New(), UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	f.sessions[tokenHash] = session
	return session, nil
}

func (f *fakeUserStore) GetSessionByTokenHash(_ context.Context, tokenHash string) (*domain.Session, error) {
	if session, ok := f.sessions[tokenHash]; ok {
		return session, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) DeleteSession(_ context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeUserStore) DeleteExpiredSessions(context.Context) (int64, error) {
	f.purgeCalls++
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	var n int64
	for hash, session := range f.sessions {
		if session.IsExpired() {
			delete(f.sessions, hash)
			n++
		}
	}
	return n, nil
}

func registerTestUser(t *testing.T, store *fakeUserStore, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), email, string(hash), "")
	require.NoError(t, err)
	return user
}

func TestRegister_AndSessionRoundTrip(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserServiceWithStore(store, testLogger())

	result, err := svc.Register(context.Background(), domain.RegisterParams{
		Email:    "New@Example.com",
		Password: "correct horse",
		Name:     "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", result.User.Email, "email is normalized")
	assert.Equal(t, domain.PlanFree, result.User.Plan)
	require.NotEmpty(t, result.Token)

	resolved, err := svc.GetBySessionToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewUserServiceWithStore(newFakeUserStore(), testLogger())

	tests := []struct {
		name   string
		params domain.RegisterParams
	}{
		{"missing email", domain.RegisterParams{Password: "long enough"}},
		{"not an email", domain.RegisterParams{Email: "nope", Password: "long enough"}},
		{"short password", domain.RegisterParams{Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.params)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	registerTestUser(t, store, "taken@example.com", "password123")
	svc := NewUserServiceWithStore(store, testLogger())

	_, err := svc.Register(context.Background(), domain.RegisterParams{Email: "taken@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestRegister_DuplicateInsertRace(t *testing.T) {
	// The pre-insert lookup can miss a user committed between the check and
	// the insert. The unique-index violation from the insert must come back
	// as a conflict, not an internal error.
	store := newFakeUserStore()
	store.createUserErr = repository.ErrDuplicate
	svc := NewUserServiceWithStore(store, testLogger())

	_, err := svc.Register(context.Background(), domain.RegisterParams{Email: "raced@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	user := registerTestUser(t, store, "user@example.com", "password123")
	svc := NewUserServiceWithStore(store, testLogger())

	t.Run("success", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "User@Example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "user@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ghost@example.com", "password123")
		require.Error(t, err)
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	})

	t.Run("banned user", func(t *testing.T) {
		user.Banned = true
		defer func() { user.Banned = false }()
		_, err := svc.Login(context.Background(), "user@example.com", "password123")
		require.Error(t, err)
		assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
	})
}

func TestLogin_PurgesExpiredSessions(t *testing.T) {
	store := newFakeUserStore()
	user := registerTestUser(t, store, "user@example.com", "password123")
	store.sessions["stale"] = &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	svc := NewUserServiceWithStore(store, testLogger())

	_, err := svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, 1, store.purgeCalls)
	assert.NotContains(t, store.sessions, "stale")
}

func TestLogin_PurgeFailureDoesNotBlockLogin(t *testing.T) {
	store := newFakeUserStore()
	registerTestUser(t, store, "user@example.com", "password123")
	store.purgeErr = assert.AnError
	svc := NewUserServiceWithStore(store, testLogger())

	result, err := svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestGetBySessionToken(t *testing.T) {
	store := newFakeUserStore()
	user := registerTestUser(t, store, "user@example.com", "password123")
	svc := NewUserServiceWithStore(store, testLogger())

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.GetBySessionToken(context.Background(), "nope")
		require.Error(t, err)
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	})

	t.Run("expired session", func(t *testing.T) {
		store.sessions[hashToken("old")] = &domain.Session{
			ID:        uuid.New(),
			UserID:    user.ID,
			TokenHash: hashToken("old"),
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		_, err := svc.GetBySessionToken(context.Background(), "old")
		require.Error(t, err)
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	})
}

func TestLogout_RemovesSession(t *testing.T) {
	store := newFakeUserStore()
	registerTestUser(t, store, "user@example.com", "password123")
	svc := NewUserServiceWithStore(store, testLogger())

	result, err := svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))

	_, err = svc.GetBySessionToken(context.Background(), result.Token)
	require.Error(t, err)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}
