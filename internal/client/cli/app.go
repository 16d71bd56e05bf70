// Package cli - командная строка SafeWalk поверх cobra.
//
// Каждая команда открывает локальный кэш учетных данных; команды, требующие
// входа, сначала восстанавливают сессию по кэшу.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/shenikar/safewalk/internal/client/api"
	"github.com/shenikar/safewalk/internal/client/contacts"
	"github.com/shenikar/safewalk/internal/client/credstore"
	"github.com/shenikar/safewalk/internal/client/session"
	"github.com/shenikar/safewalk/pkg/logger"
	"github.com/sirupsen/logrus"
)

var errNotLoggedIn = errors.New("not logged in, run `safewalk login` first")

// Config - настройки клиента из флагов и переменных SAFEWALK_*
type Config struct {
	Server   string
	Store    string
	KeyFile  string
	LogLevel string
}

type App struct {
	api      *api.Client
	store    *credstore.Store
	sessions *session.Manager
	contacts *contacts.Registry
	logger   *logrus.Logger
}

func newApp(ctx context.Context, cfg Config, logOutput io.Writer) (*App, error) {
	log := logger.New(cfg.LogLevel)
	log.SetOutput(logOutput)

	store, err := credstore.Open(ctx, cfg.Store, cfg.KeyFile, log)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.Server)
	sessions := session.NewManager(client, store, log)

	return &App{
		api:      client,
		store:    store,
		sessions: sessions,
		contacts: contacts.NewRegistry(client, sessions, log),
		logger:   log,
	}, nil
}

// requireSession восстанавливает вход по кэшу и возвращает токен
func (a *App) requireSession(ctx context.Context) (*session.Session, error) {
	if s := a.sessions.Session(); s != nil {
		return s, nil
	}
	if err := a.sessions.Restore(ctx); err != nil {
		return nil, err
	}
	s := a.sessions.Session()
	if s == nil {
		return nil, errNotLoggedIn
	}
	return s, nil
}

func (a *App) Close() error {
	return a.store.Close()
}
