package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/sirupsen/logrus"
)

const anonymousAuthor = "Anonymous"

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListAll(ctx context.Context) ([]*models.Incident, error)
	FindNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]*models.Incident, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, incidentID uuid.UUID) ([]*models.Comment, error)
}

// FeedListener - подписка на сигналы об изменениях ленты
type FeedListener interface {
	Changes() <-chan models.FeedChange
	Close() error
}

// FeedNotifier публикует и принимает сигналы об изменениях инцидентов и комментариев
type FeedNotifier interface {
	IncidentsChanged(ctx context.Context) error
	CommentsChanged(ctx context.Context, incidentID uuid.UUID) error
	Listen(ctx context.Context) (FeedListener, error)
}

// IncidentService определяет контрак для бизнес-логики журнала инцидентов
type IncidentService interface {
	CreateIncident(ctx context.Context, session *models.Session, incident *models.Incident) (uuid.UUID, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListComments(ctx context.Context, incidentID uuid.UUID) ([]*models.Comment, error)
	AddComment(ctx context.Context, session *models.Session, incidentID uuid.UUID, content string) (*models.Comment, error)
	NearbyIncidents(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]*models.Incident, error)
	Subscribe(ctx context.Context) (*Subscription, error)
}

type incidentService struct {
	repo   IncidentRepository
	users  UserRepository
	feed   FeedNotifier
	logger *logrus.Logger
}

func NewIncidentService(repo IncidentRepository, users UserRepository, feed FeedNotifier, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:   repo,
		users:  users,
		feed:   feed,
		logger: logger,
	}
}

// CreateIncident создает инцидент от имени пользователя сессии
func (s *incidentService) CreateIncident(ctx context.Context, session *models.Session, incident *models.Incident) (uuid.UUID, error) {
	if session == nil {
		return uuid.Nil, ErrUnauthenticated
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "CreateIncident",
		"user_id":  session.UserID,
		"category": incident.Category,
	})
	log.Info("Attempting to create a new incident")

	if !slices.Contains(models.IncidentCategories, incident.Category) {
		log.Warn("Unknown incident category")
		return uuid.Nil, ErrInvalidCategory
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return uuid.Nil, ErrUsernameNotFound
		}
		log.WithError(err).Error("Failed to load user profile")
		return uuid.Nil, fmt.Errorf("service: could not load profile: %w", err)
	}
	if user.Username == "" {
		log.Warn("Profile has no username")
		return uuid.Nil, ErrUsernameNotFound
	}

	incident.UserID = session.UserID
	incident.Username = user.Username
	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return uuid.Nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	if err := s.feed.IncidentsChanged(ctx); err != nil {
		log.WithError(err).Warn("Failed to notify incident feed")
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return incident.ID, nil
}

// ListIncidents возвращает список инцидентов с пагинацией, новые первыми
func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})
	log.Info("Listing incidents")

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// GetIncident получает инцидент по ID вместе с комментариями
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to list comments in repository")
		return nil, fmt.Errorf("service: could not list comments: %w", err)
	}
	incident.Comments = comments

	log.Info("Incident fetched successfully")
	return incident, nil
}

// ListComments возвращает комментарии инцидента, старые первыми
func (s *incidentService) ListComments(ctx context.Context, incidentID uuid.UUID) ([]*models.Comment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ListComments",
		"incident_id": incidentID,
	})

	comments, err := s.repo.ListComments(ctx, incidentID)
	if err != nil {
		log.WithError(err).Error("Failed to list comments in repository")
		return nil, fmt.Errorf("service: could not list comments: %w", err)
	}
	return comments, nil
}

// AddComment добавляет комментарий; имя автора - username, затем email, затем Anonymous
func (s *incidentService) AddComment(ctx context.Context, session *models.Session, incidentID uuid.UUID, content string) (*models.Comment, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "AddComment",
		"incident_id": incidentID,
		"user_id":     session.UserID,
	})

	comment := &models.Comment{
		IncidentID: incidentID,
		UserID:     session.UserID,
		Username:   s.authorName(ctx, log, session),
		Content:    content,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		log.WithError(err).Warn("Failed to add comment in repository")
		return nil, fmt.Errorf("service: could not add comment: %w", err)
	}

	if err := s.feed.CommentsChanged(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to notify comment feed")
	}

	log.WithField("comment_id", comment.ID).Info("Comment added")
	return comment, nil
}

func (s *incidentService) authorName(ctx context.Context, log *logrus.Entry, session *models.Session) string {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).Warn("Failed to load user profile")
	}
	switch {
	case user != nil && user.Username != "":
		return user.Username
	case session.Email != "":
		return session.Email
	case user != nil && user.Email != "":
		return user.Email
	default:
		return anonymousAuthor
	}
}

// NearbyIncidents находит инциденты в радиусе от точки
func (s *incidentService) NearbyIncidents(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "NearbyIncidents",
		"radius":  radiusMeters,
	})
	log.Info("Checking incidents around location")

	incidents, err := s.repo.FindNearby(ctx, center, radiusMeters)
	if err != nil {
		log.WithError(err).Error("Failed to find incidents by location")
		return nil, fmt.Errorf("service: failed to find nearby incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Location check completed")
	return incidents, nil
}

// Subscribe открывает живую ленту инцидентов; ленту закрывает вызывающий
func (s *incidentService) Subscribe(ctx context.Context) (*Subscription, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Subscribe",
	})

	listener, err := s.feed.Listen(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to listen for feed changes")
		return nil, fmt.Errorf("service: could not subscribe to incidents: %w", err)
	}

	sub := newSubscription(ctx, s.repo, listener, log)
	log.Info("Incident feed subscription opened")
	return sub, nil
}
