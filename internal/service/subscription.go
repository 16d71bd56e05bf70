package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/sirupsen/logrus"
)

const subscriptionBuffer = 16

// Subscription - живая лента инцидентов.
// Каждое событие несет полный список, а не разницу с предыдущим.
type Subscription struct {
	events   chan models.FeedEvent
	cancel   context.CancelFunc
	done     chan struct{}
	repo     IncidentRepository
	listener FeedListener
	logger   *logrus.Entry
	tracked  map[uuid.UUID]struct{}
	closeErr error
}

func newSubscription(parent context.Context, repo IncidentRepository, listener FeedListener, logger *logrus.Entry) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	s := &Subscription{
		events:   make(chan models.FeedEvent, subscriptionBuffer),
		cancel:   cancel,
		done:     make(chan struct{}),
		repo:     repo,
		listener: listener,
		logger:   logger,
		tracked:  make(map[uuid.UUID]struct{}),
	}
	go s.run(ctx)
	return s
}

// Events закрывается после остановки подписки
func (s *Subscription) Events() <-chan models.FeedEvent {
	return s.events
}

// Close останавливает подписку и ждет завершения горутины; повторный вызов безопасен
func (s *Subscription) Close() error {
	s.cancel()
	<-s.done
	return s.closeErr
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)
	defer func() {
		if err := s.listener.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close feed listener")
			s.closeErr = err
		}
		s.logger.Info("Incident feed subscription closed")
	}()

	s.deliverIncidents(ctx)

	changes := s.listener.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			switch change.Kind {
			case models.FeedIncidentsChanged:
				s.deliverIncidents(ctx)
			case models.FeedCommentsChanged:
				if _, ok := s.tracked[change.IncidentID]; ok {
					s.deliverComments(ctx, change.IncidentID)
				}
			}
		}
	}
}

// deliverIncidents отдает полный список и открывает ленту комментариев для новых инцидентов
func (s *Subscription) deliverIncidents(ctx context.Context) {
	incidents, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load incidents for feed")
		s.emit(ctx, models.FeedEvent{Kind: models.FeedEventError, Error: err.Error()})
		return
	}
	if !s.emit(ctx, models.FeedEvent{Kind: models.FeedEventIncidents, Incidents: incidents}) {
		return
	}

	for _, incident := range incidents {
		if _, ok := s.tracked[incident.ID]; ok {
			continue
		}
		s.tracked[incident.ID] = struct{}{}
		s.deliverComments(ctx, incident.ID)
	}
}

func (s *Subscription) deliverComments(ctx context.Context, incidentID uuid.UUID) {
	comments, err := s.repo.ListComments(ctx, incidentID)
	if err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Error("Failed to load comments for feed")
		s.emit(ctx, models.FeedEvent{Kind: models.FeedEventError, IncidentID: incidentID, Error: err.Error()})
		return
	}
	s.emit(ctx, models.FeedEvent{Kind: models.FeedEventComments, IncidentID: incidentID, Comments: comments})
}

func (s *Subscription) emit(ctx context.Context, event models.FeedEvent) bool {
	select {
	case <-ctx.Done():
		return false
	case s.events <- event:
		return true
	}
}
