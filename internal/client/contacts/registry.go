// Package contacts - список экстренных контактов на устройстве
package contacts

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/client/session"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/sirupsen/logrus"
)

// ContactsAPI - серверные операции с контактами
type ContactsAPI interface {
	ListContacts(ctx context.Context, token string) ([]*v1.ContactResponse, error)
	AddContact(ctx context.Context, token, name, phone string) (*v1.ContactResponse, error)
	UpdateContact(ctx context.Context, token string, id uuid.UUID, name, phone string) (*v1.ContactResponse, error)
	DeleteContact(ctx context.Context, token string, id uuid.UUID) error
}

// SessionSource отдает текущую сессию или nil
type SessionSource interface {
	Session() *session.Session
}

// Registry держит список в памяти. После записи список перечитывается с сервера,
// а если перечитать не удалось, изменение применяется локально.
type Registry struct {
	api      ContactsAPI
	sessions SessionSource
	logger   *logrus.Logger

	mu       sync.Mutex
	contacts []models.Contact
}

func NewRegistry(api ContactsAPI, sessions SessionSource, logger *logrus.Logger) *Registry {
	return &Registry{
		api:      api,
		sessions: sessions,
		logger:   logger,
	}
}

// Contacts возвращает копию списка
func (r *Registry) Contacts() []models.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.contacts)
}

func (r *Registry) token() (string, error) {
	s := r.sessions.Session()
	if s == nil {
		return "", service.ErrUnauthenticated
	}
	return s.Token, nil
}

// Load заменяет список серверным; пустой список допустим
func (r *Registry) Load(ctx context.Context) error {
	token, err := r.token()
	if err != nil {
		return err
	}

	remote, err := r.api.ListContacts(ctx, token)
	if err != nil {
		return err
	}

	contacts := make([]models.Contact, len(remote))
	for i, c := range remote {
		contacts[i] = toModel(c)
	}

	r.mu.Lock()
	r.contacts = contacts
	r.mu.Unlock()
	return nil
}

func (r *Registry) Add(ctx context.Context, name, phone string) (models.Contact, error) {
	token, err := r.token()
	if err != nil {
		return models.Contact{}, err
	}

	created, err := r.api.AddContact(ctx, token, name, phone)
	if err != nil {
		return models.Contact{}, err
	}
	contact := toModel(created)

	r.reconcile(ctx, "Add", func(list []models.Contact) []models.Contact {
		return append(list, contact)
	})
	return contact, nil
}

func (r *Registry) Update(ctx context.Context, contact models.Contact) error {
	token, err := r.token()
	if err != nil {
		return err
	}

	if _, err := r.api.UpdateContact(ctx, token, contact.ID, contact.Name, contact.Phone); err != nil {
		return err
	}

	r.reconcile(ctx, "Update", func(list []models.Contact) []models.Contact {
		for i := range list {
			if list[i].ID == contact.ID {
				list[i] = contact
			}
		}
		return list
	})
	return nil
}

func (r *Registry) Delete(ctx context.Context, id uuid.UUID) error {
	token, err := r.token()
	if err != nil {
		return err
	}

	if err := r.api.DeleteContact(ctx, token, id); err != nil {
		return err
	}

	r.reconcile(ctx, "Delete", func(list []models.Contact) []models.Contact {
		return slices.DeleteFunc(list, func(c models.Contact) bool { return c.ID == id })
	})
	return nil
}

// reconcile перечитывает список после успешной записи; при ошибке применяет local
func (r *Registry) reconcile(ctx context.Context, method string, local func([]models.Contact) []models.Contact) {
	if err := r.Load(ctx); err != nil {
		r.logger.WithFields(logrus.Fields{
			"component": "contacts",
			"method":    method,
		}).WithError(err).Warn("Re-fetch failed, applying change locally")

		r.mu.Lock()
		r.contacts = local(slices.Clone(r.contacts))
		r.mu.Unlock()
	}
}

func toModel(c *v1.ContactResponse) models.Contact {
	return models.Contact{ID: c.ID, Name: c.Name, Phone: c.Phone}
}
