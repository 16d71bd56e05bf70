package session

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/client/credstore"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	loginErr    error
	registerErr error
	logoutErr   error
	userID      uuid.UUID

	loginCalls   int
	logoutTokens []string
}

func (f *fakeAPI) Register(_ context.Context, username, email, _ string) (*v1.AuthResponse, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &v1.AuthResponse{Token: "tok-" + email, User: v1.UserResponse{ID: f.userID, Email: email, Username: username}}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*v1.AuthResponse, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &v1.AuthResponse{Token: "tok-" + email, User: v1.UserResponse{ID: f.userID, Email: email}}, nil
}

func (f *fakeAPI) Logout(_ context.Context, token string) error {
	f.logoutTokens = append(f.logoutTokens, token)
	return f.logoutErr
}

type fakeStore struct {
	creds    credstore.Credentials
	clearErr error
	saves    int
}

func (f *fakeStore) Save(_ context.Context, c credstore.Credentials) error {
	f.saves++
	if c.Email != "" {
		f.creds.Email = c.Email
	}
	if c.Password != "" {
		f.creds.Password = c.Password
	}
	if c.Username != "" {
		f.creds.Username = c.Username
	}
	if c.UserID != "" {
		f.creds.UserID = c.UserID
	}
	return nil
}

func (f *fakeStore) Load(context.Context) (credstore.Credentials, error) {
	return f.creds, nil
}

func (f *fakeStore) Clear(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.creds = credstore.Credentials{}
	return nil
}

func newTestManager() (*Manager, *fakeAPI, *fakeStore) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	api := &fakeAPI{userID: uuid.New()}
	store := &fakeStore{}
	return NewManager(api, store, logger), api, store
}

func TestLogin_Success(t *testing.T) {
	m, api, store := newTestManager()

	require.NoError(t, m.Login(context.Background(), "alice@example.com", "secret1"))

	assert.Equal(t, State{Status: LoggedIn}, m.State())
	s := m.Session()
	require.NotNil(t, s)
	assert.Equal(t, "tok-alice@example.com", s.Token)
	assert.Equal(t, api.userID, s.UserID)
	assert.Equal(t, credstore.Credentials{
		Email:    "alice@example.com",
		Password: "secret1",
		UserID:   api.userID.String(),
	}, store.creds)
}

func TestLogin_FailureStoresNothing(t *testing.T) {
	m, api, store := newTestManager()
	api.loginErr = errors.New("invalid email or password")

	err := m.Login(context.Background(), "alice@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, State{Status: LoggedOut, Error: "invalid email or password"}, m.State())
	assert.Nil(t, m.Session())
	assert.Zero(t, store.saves)
}

func TestLogin_SuccessClearsPreviousError(t *testing.T) {
	m, api, _ := newTestManager()
	api.loginErr = errors.New("boom")
	require.Error(t, m.Login(context.Background(), "alice@example.com", "wrong"))

	api.loginErr = nil
	require.NoError(t, m.Login(context.Background(), "alice@example.com", "secret1"))

	assert.Equal(t, "", m.State().Error)
	assert.Equal(t, LoggedIn, m.State().Status)
}

func TestRegister_CachesUsername(t *testing.T) {
	m, api, store := newTestManager()

	require.NoError(t, m.Register(context.Background(), "alice", "alice@example.com", "secret1"))

	assert.Equal(t, LoggedIn, m.State().Status)
	assert.Equal(t, "alice", store.creds.Username)
	assert.Equal(t, "secret1", store.creds.Password)
	assert.Equal(t, api.userID.String(), store.creds.UserID)
}

func TestRegisterThenLogout_CacheLifecycle(t *testing.T) {
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	dir := t.TempDir()
	store, err := credstore.Open(ctx, filepath.Join(dir, "credentials.db"), filepath.Join(dir, "device.key"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	api := &fakeAPI{userID: uuid.New()}
	m := NewManager(api, store, logger)

	require.NoError(t, m.Register(ctx, "alice", "alice@example.com", "secret1"))

	cached, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.userID.String(), cached.UserID)
	assert.Equal(t, m.Session().UserID.String(), cached.UserID)
	assert.Equal(t, "alice", cached.Username)

	require.NoError(t, m.Logout(ctx))

	cached, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, credstore.Credentials{}, cached)
	assert.Equal(t, State{Status: LoggedOut}, m.State())
	assert.Nil(t, m.Session())
}

func TestRegister_Failure(t *testing.T) {
	m, api, store := newTestManager()
	api.registerErr = errors.New("email already registered")

	err := m.Register(context.Background(), "alice", "alice@example.com", "secret1")

	require.Error(t, err)
	assert.Equal(t, State{Status: LoggedOut, Error: "email already registered"}, m.State())
	assert.Zero(t, store.saves)
}

func TestLogout_ResetsEvenWhenServerFails(t *testing.T) {
	m, api, store := newTestManager()
	require.NoError(t, m.Login(context.Background(), "alice@example.com", "secret1"))
	api.logoutErr = errors.New("network down")

	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, []string{"tok-alice@example.com"}, api.logoutTokens)
	assert.Equal(t, State{Status: LoggedOut}, m.State())
	assert.Nil(t, m.Session())
	assert.Equal(t, credstore.Credentials{}, store.creds)
}

func TestLogout_ClearFailureIsReported(t *testing.T) {
	m, _, store := newTestManager()
	store.clearErr = errors.New("disk full")

	err := m.Logout(context.Background())

	require.Error(t, err)
	assert.Equal(t, LoggedOut, m.State().Status)
}

func TestRestore(t *testing.T) {
	t.Run("re-login with cached credentials", func(t *testing.T) {
		m, api, store := newTestManager()
		store.creds = credstore.Credentials{Email: "alice@example.com", Password: "secret1"}

		require.NoError(t, m.Restore(context.Background()))

		assert.Equal(t, 1, api.loginCalls)
		assert.Equal(t, LoggedIn, m.State().Status)
	})

	t.Run("missing password stays logged out", func(t *testing.T) {
		m, api, store := newTestManager()
		store.creds = credstore.Credentials{Email: "alice@example.com"}

		require.NoError(t, m.Restore(context.Background()))

		assert.Zero(t, api.loginCalls)
		assert.Equal(t, LoggedOut, m.State().Status)
	})

	t.Run("stale password", func(t *testing.T) {
		m, api, store := newTestManager()
		store.creds = credstore.Credentials{Email: "alice@example.com", Password: "old"}
		api.loginErr = errors.New("invalid email or password")

		require.Error(t, m.Restore(context.Background()))
		assert.Equal(t, "invalid email or password", m.State().Error)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "logged out", LoggedOut.String())
	assert.Equal(t, "authenticating", Authenticating.String())
	assert.Equal(t, "logged in", LoggedIn.String())
}
