package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) service.ContactRepository {
	return &ContactRepository{db: db}
}

// List возвращает контакты пользователя в порядке добавления
func (r *ContactRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT id, user_id, name, phone, created_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		contact := &models.Contact{}
		if err := rows.Scan(&contact.ID, &contact.UserID, &contact.Name, &contact.Phone, &contact.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return contacts, nil
}

// Create добавляет контакт; id назначает база
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (user_id, name, phone)
		VALUES ($1, $2, $3) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query, contact.UserID, contact.Name, contact.Phone).
		Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// Update меняет контакт только у его владельца
func (r *ContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE contacts SET
			name = $1,
			phone = $2
		WHERE id = $3 AND user_id = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, contact.Name, contact.Phone, contact.ID, contact.UserID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact with id %s: %w", contact.ID, service.ErrNotFound)
	}
	return nil
}

// Delete удаляет контакт; отсутствие строки не ошибка
func (r *ContactRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2;`
	if _, err := r.db.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
