package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
)

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) service.AlertRepository {
	return &AlertRepository{db: db}
}

// Save сохраняет запись об отправленной тревоге
func (r *AlertRepository) Save(ctx context.Context, record *models.AlertRecord) error {
	query := `
		INSERT INTO alerts (user_id, kind, location, recipients, used_default_contacts)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		record.UserID,
		string(record.Kind),
		record.Location.Longitude,
		record.Location.Latitude,
		record.Recipients,
		record.UsedDefaultContacts,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// CountRecentSenders возвращает количество уникальных пользователей, отправивших SOS
func (r *AlertRepository) CountRecentSenders(ctx context.Context, minutes int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM alerts
		WHERE kind = $1 AND created_at >= NOW() - ($2 * INTERVAL '1 minute');
	`
	var count int
	err := r.db.QueryRow(ctx, query, string(models.AlertSOS), minutes).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get alert stats: %w", err)
	}
	return count, nil
}
