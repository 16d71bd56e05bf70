package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	IncidentHarassment         = "Harassment"
	IncidentSuspiciousActivity = "Suspicious Activity"
	IncidentUnsafeArea         = "Unsafe Area"
	IncidentOther              = "Other"
)

// IncidentCategories - допустимые категории инцидентов
var IncidentCategories = []string{
	IncidentHarassment,
	IncidentSuspiciousActivity,
	IncidentUnsafeArea,
	IncidentOther,
}

type Incident struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Username    string     `json:"username"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Location    Coordinate `json:"location"`
	Timestamp   time.Time  `json:"timestamp"`
	Comments    []*Comment `json:"comments,omitempty"`
}

// Comment - комментарий к инциденту, только добавляется
type Comment struct {
	ID         uuid.UUID `json:"id"`
	IncidentID uuid.UUID `json:"incident_id"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}
