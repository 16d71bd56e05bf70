package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact - экстренный контакт пользователя
type Contact struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
