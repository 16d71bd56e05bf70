package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer - минимальный сервер SafeWalk для проверки команд
type fakeServer struct {
	mu       sync.Mutex
	userID   uuid.UUID
	password string
	contacts []v1.ContactResponse
	logouts  int
	sos      []v1.LocationRequest
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "user not authenticated"})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req v1.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != f.password {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, v1.AuthResponse{Token: "tok", User: v1.UserResponse{ID: f.userID, Email: req.Email}})
	})
	mux.HandleFunc("POST /api/v1/auth/logout", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/v1/contacts", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.contacts)
	}))
	mux.HandleFunc("POST /api/v1/contacts", authed(func(w http.ResponseWriter, r *http.Request) {
		var req v1.ContactRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		c := v1.ContactResponse{ID: uuid.New(), Name: req.Name, Phone: req.Phone}
		f.mu.Lock()
		f.contacts = append(f.contacts, c)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, c)
	}))
	mux.HandleFunc("POST /api/v1/alerts/sos", authed(func(w http.ResponseWriter, r *http.Request) {
		var req v1.LocationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.sos = append(f.sos, req)
		recipients := len(f.contacts)
		f.mu.Unlock()
		writeJSON(w, http.StatusAccepted, v1.AlertResponse{Kind: "sos", Recipients: recipients})
	}))
	return mux
}

func (f *fakeServer) sosRequests() []v1.LocationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]v1.LocationRequest(nil), f.sos...)
}

func (f *fakeServer) logoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type cliEnv struct {
	server *fakeServer
	args   []string
}

func newCLIEnv(t *testing.T) *cliEnv {
	f := &fakeServer{userID: uuid.New(), password: "secret1"}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &cliEnv{
		server: f,
		args: []string{
			"--server", srv.URL + "/api/v1",
			"--store", filepath.Join(dir, "credentials.db"),
			"--key-file", filepath.Join(dir, "device.key"),
		},
	}
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), append(append([]string{}, e.args...), args...), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestLogin_ThenCommandsReuseCachedCredentials(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run("login", "--email", "alice@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as alice@example.com")

	out, _, err = env.run("contacts", "add", "Mom", "+15551234567")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Mom")

	out, _, err = env.run("contacts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mom")
	assert.Contains(t, out, "+15551234567")

	out, _, err = env.run("sos", "--lat=52.52", "--lon=-13.405")
	require.NoError(t, err)
	assert.Contains(t, out, "Alert queued for 1 recipient(s)")
	sos := env.server.sosRequests()
	require.Len(t, sos, 1)
	assert.Equal(t, -13.405, *sos[0].Longitude)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("login", "--email", "alice@example.com", "--password", "wrong")

	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())

	_, _, err = env.run("contacts", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestLogout_ForgetsCredentials(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("login", "--email", "alice@example.com", "--password", "secret1")
	require.NoError(t, err)

	out, _, err := env.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.Equal(t, 1, env.server.logoutCount())

	_, _, err = env.run("contacts", "list")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestContactsList_Empty(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("login", "--email", "alice@example.com", "--password", "secret1")
	require.NoError(t, err)

	out, _, err := env.run("contacts", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No emergency contacts yet")
}

func TestPasswordPrompt(t *testing.T) {
	original := readPassword
	t.Cleanup(func() { readPassword = original })
	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }

	env := newCLIEnv(t)
	out, errOut, err := env.run("login", "--email", "alice@example.com")

	require.NoError(t, err)
	assert.Contains(t, errOut, "Password: ")
	assert.Contains(t, out, "Signed in")
}
