package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/config"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/shenikar/safewalk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type alertMocks struct {
	transport *mocks.MockSMSTransport
	contacts  *mocks.MockContactRepository
	users     *mocks.MockUserRepository
	repo      *mocks.MockAlertRepository
}

func newTestAlertService(t *testing.T) (service.AlertService, alertMocks) {
	ctrl := gomock.NewController(t)
	m := alertMocks{
		transport: mocks.NewMockSMSTransport(ctrl),
		contacts:  mocks.NewMockContactRepository(ctrl),
		users:     mocks.NewMockUserRepository(ctrl),
		repo:      mocks.NewMockAlertRepository(ctrl),
	}
	cfg := &config.Config{
		DefaultEmergencyContacts: []string{"+15555550100"},
		StatsTimeWindowMinutes:   60,
	}
	svc := service.NewAlertService(m.transport, m.contacts, m.users, m.repo, newTestLogger(), cfg)
	return svc, m
}

var berlin = models.Coordinate{Latitude: 52.52, Longitude: 13.405}

func TestSendSOS_SendsToEveryContact(t *testing.T) {
	svc, m := newTestAlertService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}
	expected := "SOS ALERT: alice needs immediate help! They are at this location: " +
		"https://www.google.com/maps/search/?api=1&query=52.52,13.405"

	m.transport.EXPECT().Permitted().Return(true).Times(1)
	m.users.EXPECT().GetByID(ctx, session.UserID).Return(&models.User{Username: "alice"}, nil).Times(1)
	m.contacts.EXPECT().List(ctx, session.UserID).Return([]*models.Contact{
		{Phone: "+15555550101"},
		{Phone: "+15555550102"},
	}, nil).Times(1)
	m.transport.EXPECT().SendMultipart(ctx, "+15555550101", []string{expected}).Return(nil).Times(1)
	m.transport.EXPECT().SendMultipart(ctx, "+15555550102", []string{expected}).Return(nil).Times(1)
	m.repo.EXPECT().Save(ctx, gomock.Any()).Return(nil).Times(1)

	result, err := svc.SendSOS(ctx, session, berlin)

	require.NoError(t, err)
	assert.Equal(t, models.AlertSOS, result.Kind)
	assert.Equal(t, 2, result.Recipients)
	assert.False(t, result.UsedDefaultContacts)
}

func TestSendSOS_FallsBackToDefaultContacts(t *testing.T) {
	svc, m := newTestAlertService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}

	m.transport.EXPECT().Permitted().Return(true).Times(1)
	m.users.EXPECT().GetByID(ctx, session.UserID).Return(nil, service.ErrNotFound).Times(1)
	m.contacts.EXPECT().List(ctx, session.UserID).Return([]*models.Contact{}, nil).Times(1)
	m.transport.EXPECT().
		SendMultipart(ctx, "+15555550100", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, parts []string) error {
			assert.True(t, strings.HasPrefix(strings.Join(parts, ""), "SOS ALERT: A SafeWalk user needs immediate help!"))
			return nil
		}).
		Times(1)
	m.repo.EXPECT().
		Save(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, record *models.AlertRecord) error {
			assert.True(t, record.UsedDefaultContacts)
			assert.Equal(t, session.UserID, record.UserID)
			return nil
		}).
		Times(1)

	result, err := svc.SendSOS(ctx, session, berlin)

	require.NoError(t, err)
	assert.True(t, result.UsedDefaultContacts)
	assert.Equal(t, 1, result.Recipients)
}

func TestSendSOS_PermissionDenied(t *testing.T) {
	svc, m := newTestAlertService(t)

	m.transport.EXPECT().Permitted().Return(false).Times(1)

	result, err := svc.SendSOS(context.Background(), &models.Session{UserID: uuid.New()}, berlin)

	assert.ErrorIs(t, err, service.ErrSMSPermissionDenied)
	assert.Nil(t, result)
}

func TestSendSOS_NoSession(t *testing.T) {
	svc, m := newTestAlertService(t)

	m.transport.EXPECT().Permitted().Return(true).Times(1)

	_, err := svc.SendSOS(context.Background(), nil, berlin)

	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestSendFalseAlarm_RecipientFailureIsSkipped(t *testing.T) {
	svc, m := newTestAlertService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}

	m.transport.EXPECT().Permitted().Return(true).Times(1)
	m.users.EXPECT().GetByID(ctx, session.UserID).Return(&models.User{Username: "alice"}, nil).Times(1)
	m.contacts.EXPECT().List(ctx, session.UserID).Return([]*models.Contact{
		{Phone: "+15555550101"},
		{Phone: "+15555550102"},
	}, nil).Times(1)
	m.transport.EXPECT().
		SendMultipart(ctx, "+15555550101", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, parts []string) error {
			assert.True(t, strings.HasPrefix(parts[0], "FALSE ALARM: alice is safe."))
			return errors.New("queue unavailable")
		}).
		Times(1)
	m.transport.EXPECT().SendMultipart(ctx, "+15555550102", gomock.Any()).Return(nil).Times(1)
	m.repo.EXPECT().Save(ctx, gomock.Any()).Return(errors.New("db down")).Times(1)

	result, err := svc.SendFalseAlarm(ctx, session, berlin)

	require.NoError(t, err)
	assert.Equal(t, models.AlertFalseAlarm, result.Kind)
	assert.Equal(t, 2, result.Recipients)
}

func TestGetStats(t *testing.T) {
	svc, m := newTestAlertService(t)
	ctx := context.Background()

	m.repo.EXPECT().CountRecentSenders(ctx, 60).Return(7, nil).Times(1)

	stats, err := svc.GetStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 7, stats.UserCount)
	assert.Equal(t, 60, stats.WindowMinutes)
}

func TestMapsURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=-33.8688,151.2093",
		service.MapsURL(models.Coordinate{Latitude: -33.8688, Longitude: 151.2093}))
}
