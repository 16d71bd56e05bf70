package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
)

const incidentColumns = `
			id,
			user_id,
			username,
			title,
			description,
			category,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			created_at`

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{
		db: db,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (user_id, username, title, description, category, location)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.UserID,
		incident.Username,
		incident.Title,
		incident.Description,
		incident.Category,
		incident.Location.Longitude,
		incident.Location.Latitude,
	).Scan(&incident.ID, &incident.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + `
		FROM incidents
		WHERE id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (r *IncidentRepository) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	// рассчитываем смещение
	offset := (page - 1) * pageSize

	query := `SELECT ` + incidentColumns + `
		FROM incidents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	return r.queryIncidents(ctx, query, pageSize, offset)
}

// ListAll возвращает все инциденты, новые первыми
func (r *IncidentRepository) ListAll(ctx context.Context) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + `
		FROM incidents
		ORDER BY created_at DESC;
	`
	return r.queryIncidents(ctx, query)
}

// FindNearby находит инциденты в радиусе от точки
func (r *IncidentRepository) FindNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + `
		FROM incidents
		WHERE ST_DWithin(
			location,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		ORDER BY created_at DESC;
	`
	return r.queryIncidents(ctx, query, center.Longitude, center.Latitude, radiusMeters)
}

// AddComment добавляет комментарий к существующему инциденту
func (r *IncidentRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO incident_comments (incident_id, user_id, username, content)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		comment.IncidentID,
		comment.UserID,
		comment.Username,
		comment.Content,
	).Scan(&comment.ID, &comment.Timestamp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("incident with id %s: %w", comment.IncidentID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// ListComments возвращает комментарии инцидента, старые первыми
func (r *IncidentRepository) ListComments(ctx context.Context, incidentID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT id, incident_id, user_id, username, content, created_at
		FROM incident_comments
		WHERE incident_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.IncidentID,
			&comment.UserID,
			&comment.Username,
			&comment.Content,
			&comment.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error comment iteration: %w", err)
	}
	return comments, nil
}

func (r *IncidentRepository) queryIncidents(ctx context.Context, query string, args ...any) ([]*models.Incident, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.UserID,
		&incident.Username,
		&incident.Title,
		&incident.Description,
		&incident.Category,
		&incident.Location.Latitude,
		&incident.Location.Longitude,
		&incident.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}
