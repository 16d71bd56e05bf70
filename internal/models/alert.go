package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertKind string

const (
	AlertSOS        AlertKind = "sos"
	AlertFalseAlarm AlertKind = "false_alarm"
)

// AlertResult - итог рассылки; успех отдельных получателей не учитывается
type AlertResult struct {
	Kind                AlertKind `json:"kind"`
	Recipients          int       `json:"recipients"`
	UsedDefaultContacts bool      `json:"used_default_contacts"`
}

// AlertRecord представляет запись об отправленной тревоге
type AlertRecord struct {
	ID                  int64      `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	Kind                AlertKind  `json:"kind"`
	Location            Coordinate `json:"location"`
	Recipients          int        `json:"recipients"`
	UsedDefaultContacts bool       `json:"used_default_contacts"`
	CreatedAt           time.Time  `json:"created_at"`
}

// AlertStats - число пользователей, поднявших SOS за окно
type AlertStats struct {
	UserCount     int `json:"user_count"`
	WindowMinutes int `json:"window_minutes"`
}
