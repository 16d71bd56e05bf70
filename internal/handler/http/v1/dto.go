package v1

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest DTO для регистрации
// @Description DTO для регистрации
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse DTO для ответа с токеном
// @Description DTO для ответа с токеном
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse DTO профиля пользователя
// @Description DTO профиля пользователя
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactRequest DTO для создания и изменения контакта
// @Description DTO для создания и изменения контакта
type ContactRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Phone string `json:"phone" validate:"required,e164"`
}

// ContactResponse DTO экстренного контакта
// @Description DTO экстренного контакта
type ContactResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// LocationRequest DTO с координатами
// @Description DTO с координатами
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// NearbyQuery параметры поиска рядом с точкой
type NearbyQuery struct {
	Latitude  *float64 `form:"lat" validate:"required,latitude"`
	Longitude *float64 `form:"lon" validate:"required,longitude"`
	Radius    float64  `form:"radius" validate:"gte=0,lte=50000"`
}

// SafePlaceResponse DTO безопасного места
// @Description DTO безопасного места
type SafePlaceResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	DistanceMeters float64  `json:"distance_meters"`
	Rating         *float64 `json:"rating,omitempty"`
}

// NearbyPlacesResponse DTO результата поиска мест
// @Description DTO результата поиска мест
type NearbyPlacesResponse struct {
	Places   []*SafePlaceResponse `json:"places"`
	Failures map[string]string    `json:"failures,omitempty"`
}

// GeocodeResponse DTO найденной точки
// @Description DTO найденной точки
type GeocodeResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AlertResponse DTO результата рассылки
// @Description DTO результата рассылки
type AlertResponse struct {
	Kind                string `json:"kind"`
	Recipients          int    `json:"recipients"`
	UsedDefaultContacts bool   `json:"used_default_contacts"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=255"`
	Description string   `json:"description" validate:"required,max=4000"`
	Category    string   `json:"category" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
}

// CreateIncidentResponse DTO с идентификатором нового инцидента
// @Description DTO с идентификатором нового инцидента
type CreateIncidentResponse struct {
	ID uuid.UUID `json:"id"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"user_id"`
	Username    string             `json:"username"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Latitude    float64            `json:"latitude"`
	Longitude   float64            `json:"longitude"`
	Timestamp   time.Time          `json:"timestamp"`
	Comments    []*CommentResponse `json:"comments,omitempty"`
}

// CommentRequest DTO для добавления комментария
// @Description DTO для добавления комментария
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// CommentResponse DTO комментария
// @Description DTO комментария
type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	IncidentID uuid.UUID `json:"incident_id"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// FeedEventResponse DTO события живой ленты
// @Description DTO события живой ленты
type FeedEventResponse struct {
	Incidents  []*IncidentResponse `json:"incidents,omitempty"`
	IncidentID *uuid.UUID          `json:"incident_id,omitempty"`
	Comments   []*CommentResponse  `json:"comments,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	UserCount     int `json:"user_count"`
	WindowMinutes int `json:"window_minutes"`
}
