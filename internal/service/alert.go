package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shenikar/safewalk/internal/config"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/sms"
	"github.com/sirupsen/logrus"
)

const (
	fallbackDisplayName = "A SafeWalk user"
	mapsSearchURL       = "https://www.google.com/maps/search/?api=1&query="
)

// SMSTransport - канал отправки SMS
type SMSTransport interface {
	Permitted() bool
	SendMultipart(ctx context.Context, phone string, parts []string) error
}

// AlertRepository хранит историю тревог
type AlertRepository interface {
	Save(ctx context.Context, record *models.AlertRecord) error
	CountRecentSenders(ctx context.Context, minutes int) (int, error)
}

// AlertService определяет контракт рассылки тревог экстренным контактам
type AlertService interface {
	SendSOS(ctx context.Context, session *models.Session, location models.Coordinate) (*models.AlertResult, error)
	SendFalseAlarm(ctx context.Context, session *models.Session, location models.Coordinate) (*models.AlertResult, error)
	GetStats(ctx context.Context) (*models.AlertStats, error)
}

type alertService struct {
	transport SMSTransport
	contacts  ContactRepository
	users     UserRepository
	repo      AlertRepository
	logger    *logrus.Logger
	cfg       *config.Config
}

func NewAlertService(transport SMSTransport, contacts ContactRepository, users UserRepository, repo AlertRepository, logger *logrus.Logger, cfg *config.Config) AlertService {
	return &alertService{
		transport: transport,
		contacts:  contacts,
		users:     users,
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
	}
}

// SendSOS рассылает SOS с координатами всем контактам пользователя
func (s *alertService) SendSOS(ctx context.Context, session *models.Session, location models.Coordinate) (*models.AlertResult, error) {
	return s.dispatch(ctx, session, location, models.AlertSOS)
}

// SendFalseAlarm рассылает отмену предыдущего SOS
func (s *alertService) SendFalseAlarm(ctx context.Context, session *models.Session, location models.Coordinate) (*models.AlertResult, error) {
	return s.dispatch(ctx, session, location, models.AlertFalseAlarm)
}

func (s *alertService) dispatch(ctx context.Context, session *models.Session, location models.Coordinate, kind models.AlertKind) (*models.AlertResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "dispatch",
		"kind":    kind,
	})

	if !s.transport.Permitted() {
		log.Warn("SMS sending is not permitted")
		return nil, ErrSMSPermissionDenied
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}
	log = log.WithField("user_id", session.UserID)

	name := s.displayName(ctx, log, session)

	contacts, err := s.contacts.List(ctx, session.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to load emergency contacts")
		return nil, fmt.Errorf("service: could not load contacts: %w", err)
	}

	phones := make([]string, 0, len(contacts))
	for _, c := range contacts {
		phones = append(phones, c.Phone)
	}
	usedDefault := false
	if len(phones) == 0 {
		phones = append(phones, s.cfg.DefaultEmergencyContacts...)
		usedDefault = true
		log.Warn("User has no emergency contacts, using default list")
	}

	parts := sms.Split(alertMessage(kind, name, location))
	for _, phone := range phones {
		if err := s.transport.SendMultipart(ctx, phone, parts); err != nil {
			log.WithError(err).WithField("phone", phone).Error("Failed to send alert SMS")
		}
	}

	record := &models.AlertRecord{
		UserID:              session.UserID,
		Kind:                kind,
		Location:            location,
		Recipients:          len(phones),
		UsedDefaultContacts: usedDefault,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		log.WithError(err).Warn("Failed to save alert record")
	}

	log.WithField("recipients", len(phones)).Info("Alert dispatched")
	return &models.AlertResult{
		Kind:                kind,
		Recipients:          len(phones),
		UsedDefaultContacts: usedDefault,
	}, nil
}

// displayName берет имя из профиля; без профиля используется общее имя
func (s *alertService) displayName(ctx context.Context, log *logrus.Entry, session *models.Session) string {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Warn("Failed to load user profile")
		}
		return fallbackDisplayName
	}
	if user.Username == "" {
		return fallbackDisplayName
	}
	return user.Username
}

// GetStats возвращает число пользователей, отправивших SOS за окно
func (s *alertService) GetStats(ctx context.Context) (*models.AlertStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "GetStats",
	})

	count, err := s.repo.CountRecentSenders(ctx, s.cfg.StatsTimeWindowMinutes)
	if err != nil {
		log.WithError(err).Error("Failed to get alert stats")
		return nil, fmt.Errorf("service: could not get alert stats: %w", err)
	}

	return &models.AlertStats{
		UserCount:     count,
		WindowMinutes: s.cfg.StatsTimeWindowMinutes,
	}, nil
}

// MapsURL - ссылка на точку в Google Maps
func MapsURL(location models.Coordinate) string {
	return mapsSearchURL +
		strconv.FormatFloat(location.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(location.Longitude, 'f', -1, 64)
}

func alertMessage(kind models.AlertKind, name string, location models.Coordinate) string {
	if kind == models.AlertFalseAlarm {
		return fmt.Sprintf("FALSE ALARM: %s is safe. Previous SOS alert at this location can be disregarded: %s", name, MapsURL(location))
	}
	return fmt.Sprintf("SOS ALERT: %s needs immediate help! They are at this location: %s", name, MapsURL(location))
}
