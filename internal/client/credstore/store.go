// Package credstore - локальный кэш учетных данных на устройстве.
//
// Значения шифруются ключом устройства. Если ключ недоступен, хранилище
// работает без шифрования и сообщает об этом только в лог.
package credstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	keyEmail    = "email"
	keyPassword = "password"
	keyUsername = "username"
	keyUserID   = "user_id"
)

// Credentials - кэшированные данные входа; любое поле может быть пустым
type Credentials struct {
	Email    string
	Password string
	Username string
	UserID   string
}

type Store struct {
	db     *sql.DB
	codec  codec
	logger *logrus.Logger
}

// Open открывает базу SQLite по path и применяет миграции
func Open(ctx context.Context, path, keyPath string, logger *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		codec:  newCodec(keyPath, logger),
		logger: logger,
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run credential store migrations: %w", err)
	}
	return nil
}

func newCodec(keyPath string, logger *logrus.Logger) codec {
	log := logger.WithField("component", "credstore")

	key, err := loadDeviceKey(keyPath)
	if err != nil {
		log.WithError(err).Warn("Device key unavailable, credentials will be stored unencrypted")
		return plainCodec{}
	}
	c, err := newAEADCodec(key)
	if err != nil {
		log.WithError(err).Warn("Cipher unavailable, credentials will be stored unencrypted")
		return plainCodec{}
	}
	return c
}

// Save записывает только непустые поля, остальные остаются как были
func (s *Store) Save(ctx context.Context, creds Credentials) error {
	fields := []struct {
		key   string
		value string
	}{
		{keyEmail, creds.Email},
		{keyPassword, creds.Password},
		{keyUsername, creds.Username},
		{keyUserID, creds.UserID},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		sealed, err := s.codec.seal([]byte(f.value))
		if err != nil {
			return fmt.Errorf("failed to seal %s: %w", f.key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO credentials (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, f.key, sealed)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", f.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credentials: %w", err)
	}
	return nil
}

// Load возвращает то, что есть; нечитаемые значения считаются отсутствующими
func (s *Store) Load(ctx context.Context) (Credentials, error) {
	var creds Credentials

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM credentials`)
	if err != nil {
		return creds, fmt.Errorf("failed to load credentials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return creds, fmt.Errorf("failed to scan credential row: %w", err)
		}

		plaintext, err := s.codec.open(value)
		if err != nil {
			s.logger.WithField("key", key).WithError(err).Warn("Skipping unreadable credential")
			continue
		}

		switch key {
		case keyEmail:
			creds.Email = string(plaintext)
		case keyPassword:
			creds.Password = string(plaintext)
		case keyUsername:
			creds.Username = string(plaintext)
		case keyUserID:
			creds.UserID = string(plaintext)
		}
	}

	if err := rows.Err(); err != nil {
		return creds, fmt.Errorf("failed to iterate credential rows: %w", err)
	}
	return creds, nil
}

// Clear стирает все записи
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
