package models

import "github.com/google/uuid"

type FeedChangeKind int

const (
	FeedIncidentsChanged FeedChangeKind = iota
	FeedCommentsChanged
)

// FeedChange - сигнал об изменении в ленте инцидентов
type FeedChange struct {
	Kind       FeedChangeKind
	IncidentID uuid.UUID
}

type FeedEventKind string

const (
	FeedEventIncidents FeedEventKind = "incidents"
	FeedEventComments  FeedEventKind = "comments"
	FeedEventError     FeedEventKind = "error"
)

// FeedEvent - полный снимок списка инцидентов или комментариев одного инцидента
type FeedEvent struct {
	Kind       FeedEventKind
	Incidents  []*Incident
	IncidentID uuid.UUID
	Comments   []*Comment
	Error      string
}
