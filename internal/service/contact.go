package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/sirupsen/logrus"
)

// ContactRepository определяет контракт хранения экстренных контактов пользователя
type ContactRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ContactService определяет контракт реестра экстренных контактов
type ContactService interface {
	ListContacts(ctx context.Context, session *models.Session) ([]*models.Contact, error)
	AddContact(ctx context.Context, session *models.Session, name, phone string) (*models.Contact, error)
	UpdateContact(ctx context.Context, session *models.Session, contact *models.Contact) error
	DeleteContact(ctx context.Context, session *models.Session, id uuid.UUID) error
}

type contactService struct {
	repo   ContactRepository
	logger *logrus.Logger
}

func NewContactService(repo ContactRepository, logger *logrus.Logger) ContactService {
	return &contactService{
		repo:   repo,
		logger: logger,
	}
}

// ListContacts возвращает все контакты; пустой список не является ошибкой
func (s *contactService) ListContacts(ctx context.Context, session *models.Session) ([]*models.Contact, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "ListContacts",
		"user_id": session.UserID,
	})

	contacts, err := s.repo.List(ctx, session.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to list contacts from repository")
		return nil, fmt.Errorf("service: could not list contacts: %w", err)
	}

	log.WithField("count", len(contacts)).Debug("Contacts listed")
	return contacts, nil
}

// AddContact создает контакт; идентификатор назначает хранилище
func (s *contactService) AddContact(ctx context.Context, session *models.Session, name, phone string) (*models.Contact, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "AddContact",
		"user_id": session.UserID,
	})

	contact := &models.Contact{
		UserID: session.UserID,
		Name:   name,
		Phone:  phone,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		log.WithError(err).Error("Failed to create contact in repository")
		return nil, fmt.Errorf("service: could not create contact: %w", err)
	}

	log.WithField("contact_id", contact.ID).Info("Contact created")
	return contact, nil
}

// UpdateContact меняет имя и телефон контакта текущего пользователя
func (s *contactService) UpdateContact(ctx context.Context, session *models.Session, contact *models.Contact) error {
	if session == nil {
		return ErrUnauthenticated
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "UpdateContact",
		"user_id":    session.UserID,
		"contact_id": contact.ID,
	})

	contact.UserID = session.UserID
	if err := s.repo.Update(ctx, contact); err != nil {
		log.WithError(err).Warn("Failed to update contact in repository")
		return fmt.Errorf("service: could not update contact: %w", err)
	}

	log.Info("Contact updated")
	return nil
}

// DeleteContact удаляет контакт текущего пользователя
func (s *contactService) DeleteContact(ctx context.Context, session *models.Session, id uuid.UUID) error {
	if session == nil {
		return ErrUnauthenticated
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "DeleteContact",
		"user_id":    session.UserID,
		"contact_id": id,
	})

	if err := s.repo.Delete(ctx, session.UserID, id); err != nil {
		log.WithError(err).Warn("Failed to delete contact in repository")
		return fmt.Errorf("service: could not delete contact: %w", err)
	}

	log.Info("Contact deleted")
	return nil
}
