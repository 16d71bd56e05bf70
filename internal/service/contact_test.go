package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/shenikar/safewalk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestContactService(t *testing.T) (service.ContactService, *mocks.MockContactRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockContactRepository(ctrl)
	return service.NewContactService(repoMock, newTestLogger()), repoMock
}

func TestListContacts_Empty(t *testing.T) {
	svc, repoMock := newTestContactService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}

	repoMock.EXPECT().List(ctx, session.UserID).Return([]*models.Contact{}, nil).Times(1)

	contacts, err := svc.ListContacts(ctx, session)

	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestAddContact_AssignsOwner(t *testing.T) {
	svc, repoMock := newTestContactService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}
	contactID := uuid.New()

	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Contact) error {
			assert.Equal(t, session.UserID, c.UserID)
			c.ID = contactID
			return nil
		}).
		Times(1)

	contact, err := svc.AddContact(ctx, session, "Mom", "+15555550101")

	require.NoError(t, err)
	assert.Equal(t, contactID, contact.ID)
	assert.Equal(t, "Mom", contact.Name)
	assert.Equal(t, "+15555550101", contact.Phone)
}

func TestUpdateContact_NotFound(t *testing.T) {
	svc, repoMock := newTestContactService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}
	contact := &models.Contact{ID: uuid.New(), Name: "Dad", Phone: "+15555550102"}

	repoMock.EXPECT().Update(ctx, contact).Return(service.ErrNotFound).Times(1)

	err := svc.UpdateContact(ctx, session, contact)

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, session.UserID, contact.UserID)
}

func TestDeleteContact_RepositoryError(t *testing.T) {
	svc, repoMock := newTestContactService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}
	id := uuid.New()

	repoMock.EXPECT().Delete(ctx, session.UserID, id).Return(errors.New("connection reset")).Times(1)

	err := svc.DeleteContact(ctx, session, id)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not delete contact")
}

func TestContacts_RequireSession(t *testing.T) {
	svc, _ := newTestContactService(t)
	ctx := context.Background()

	_, err := svc.ListContacts(ctx, nil)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	_, err = svc.AddContact(ctx, nil, "Mom", "+15555550101")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	assert.ErrorIs(t, svc.UpdateContact(ctx, nil, &models.Contact{}), service.ErrUnauthenticated)
	assert.ErrorIs(t, svc.DeleteContact(ctx, nil, uuid.New()), service.ErrUnauthenticated)
}
