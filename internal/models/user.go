package models

import (
	"time"

	"github.com/google/uuid"
)

// User - учетная запись и профиль пользователя
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session - контекст аутентифицированного пользователя, передается явно в каждую операцию
type Session struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}
