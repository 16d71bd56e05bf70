// Package session - состояние входа на устройстве
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/client/credstore"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
	"github.com/sirupsen/logrus"
)

type Status int

const (
	LoggedOut Status = iota
	Authenticating
	LoggedIn
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case LoggedIn:
		return "logged in"
	default:
		return "logged out"
	}
}

// State - снимок состояния; Error хранит текст последней ошибки входа
type State struct {
	Status Status
	Error  string
}

// Session - явный контекст пользователя для остальных клиентских компонентов
type Session struct {
	Token  string
	UserID uuid.UUID
}

// AuthAPI - серверные операции входа
type AuthAPI interface {
	Register(ctx context.Context, username, email, password string) (*v1.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*v1.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

// CredentialStore - локальный кэш учетных данных
type CredentialStore interface {
	Save(ctx context.Context, creds credstore.Credentials) error
	Load(ctx context.Context) (credstore.Credentials, error)
	Clear(ctx context.Context) error
}

// Manager - конечный автомат LoggedOut -> Authenticating -> LoggedIn.
// Параллельные вызовы не упорядочиваются: состояние определяет тот, кто завершился последним.
type Manager struct {
	api    AuthAPI
	store  CredentialStore
	logger *logrus.Logger

	mu      sync.Mutex
	state   State
	session *Session
}

func NewManager(api AuthAPI, store CredentialStore, logger *logrus.Logger) *Manager {
	return &Manager{
		api:    api,
		store:  store,
		logger: logger,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session возвращает nil, если пользователь не вошел
func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

func (m *Manager) set(state State, session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.session = session
}

// Login входит по email и паролю; при успехе кэширует email, пароль и id пользователя
func (m *Manager) Login(ctx context.Context, email, password string) error {
	log := m.logger.WithFields(logrus.Fields{
		"component": "session",
		"method":    "Login",
	})
	m.set(State{Status: Authenticating}, nil)

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		log.WithError(err).Warn("Login failed")
		m.set(State{Status: LoggedOut, Error: err.Error()}, nil)
		return err
	}

	creds := credstore.Credentials{
		Email:    email,
		Password: password,
		UserID:   resp.User.ID.String(),
	}
	return m.complete(ctx, log, resp, creds)
}

// Register создает аккаунт и сразу входит; дополнительно кэширует имя пользователя
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	log := m.logger.WithFields(logrus.Fields{
		"component": "session",
		"method":    "Register",
	})
	m.set(State{Status: Authenticating}, nil)

	resp, err := m.api.Register(ctx, username, email, password)
	if err != nil {
		log.WithError(err).Warn("Registration failed")
		m.set(State{Status: LoggedOut, Error: err.Error()}, nil)
		return err
	}

	creds := credstore.Credentials{
		Email:    email,
		Password: password,
		Username: username,
		UserID:   resp.User.ID.String(),
	}
	return m.complete(ctx, log, resp, creds)
}

func (m *Manager) complete(ctx context.Context, log *logrus.Entry, resp *v1.AuthResponse, creds credstore.Credentials) error {
	if err := m.store.Save(ctx, creds); err != nil {
		log.WithError(err).Warn("Failed to cache credentials")
	}

	m.set(State{Status: LoggedIn}, &Session{Token: resp.Token, UserID: resp.User.ID})
	log.WithField("user_id", resp.User.ID).Info("Signed in")
	return nil
}

// Logout завершает сессию на сервере и стирает кэш; состояние сбрасывается в любом случае
func (m *Manager) Logout(ctx context.Context) error {
	log := m.logger.WithFields(logrus.Fields{
		"component": "session",
		"method":    "Logout",
	})

	if s := m.Session(); s != nil {
		if err := m.api.Logout(ctx, s.Token); err != nil {
			log.WithError(err).Warn("Server logout failed")
		}
	}

	m.set(State{Status: LoggedOut}, nil)

	if err := m.store.Clear(ctx); err != nil {
		log.WithError(err).Error("Failed to clear cached credentials")
		return fmt.Errorf("session: could not clear credentials: %w", err)
	}
	return nil
}

// Restore повторяет вход по кэшированным данным; без них пользователь остается не вошедшим
func (m *Manager) Restore(ctx context.Context) error {
	creds, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("session: could not load credentials: %w", err)
	}
	if creds.Email == "" || creds.Password == "" {
		m.set(State{Status: LoggedOut}, nil)
		return nil
	}
	return m.Login(ctx, creds.Email, creds.Password)
}

// Cached возвращает кэшированные данные, например имя пользователя для вывода
func (m *Manager) Cached(ctx context.Context) (credstore.Credentials, error) {
	return m.store.Load(ctx)
}
