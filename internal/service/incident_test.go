package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/shenikar/safewalk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type incidentMocks struct {
	repo  *mocks.MockIncidentRepository
	users *mocks.MockUserRepository
	feed  *mocks.MockFeedNotifier
}

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (service.IncidentService, incidentMocks) {
	ctrl := gomock.NewController(t)
	m := incidentMocks{
		repo:  mocks.NewMockIncidentRepository(ctrl),
		users: mocks.NewMockUserRepository(ctrl),
		feed:  mocks.NewMockFeedNotifier(ctrl),
	}
	return service.NewIncidentService(m.repo, m.users, m.feed, newTestLogger()), m
}

func TestCreateIncident_Success(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}
	incidentID := uuid.New()
	incident := &models.Incident{
		Title:       "Broken street light",
		Description: "Dark underpass",
		Category:    models.IncidentUnsafeArea,
		Location:    berlin,
	}

	// Ожидания
	m.users.EXPECT().GetByID(ctx, session.UserID).Return(&models.User{Username: "alice"}, nil).Times(1)
	m.repo.EXPECT().
		Create(ctx, incident).
		DoAndReturn(func(_ context.Context, i *models.Incident) error {
			assert.Equal(t, "alice", i.Username)
			assert.Equal(t, session.UserID, i.UserID)
			i.ID = incidentID
			return nil
		}).
		Times(1)
	m.feed.EXPECT().IncidentsChanged(ctx).Return(nil).Times(1)

	// Действие
	id, err := svc.CreateIncident(ctx, session, incident)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, incidentID, id)
}

func TestCreateIncident_UsernameMissing(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}

	m.users.EXPECT().GetByID(ctx, session.UserID).Return(&models.User{Email: "alice@example.com"}, nil).Times(1)

	_, err := svc.CreateIncident(ctx, session, &models.Incident{Category: models.IncidentOther})

	assert.ErrorIs(t, err, service.ErrUsernameNotFound)
}

func TestCreateIncident_InvalidCategory(t *testing.T) {
	svc, _ := newTestIncidentService(t)

	_, err := svc.CreateIncident(context.Background(), &models.Session{UserID: uuid.New()}, &models.Incident{Category: "Noise"})

	assert.ErrorIs(t, err, service.ErrInvalidCategory)
}

func TestCreateIncident_NoSession(t *testing.T) {
	svc, _ := newTestIncidentService(t)

	_, err := svc.CreateIncident(context.Background(), nil, &models.Incident{Category: models.IncidentOther})

	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestListIncidents_DefaultPagination(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{{ID: uuid.New()}, {ID: uuid.New()}}

	m.repo.EXPECT().ListIncidents(ctx, 1, 20).Return(expected, nil).Times(1)

	incidents, err := svc.ListIncidents(ctx, 0, 1000)

	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}

func TestGetIncident_WithComments(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	comments := []*models.Comment{{ID: uuid.New(), Content: "Seen it too"}}

	m.repo.EXPECT().GetByID(ctx, incidentID).Return(&models.Incident{ID: incidentID}, nil).Times(1)
	m.repo.EXPECT().ListComments(ctx, incidentID).Return(comments, nil).Times(1)

	incident, err := svc.GetIncident(ctx, incidentID)

	require.NoError(t, err)
	assert.Equal(t, comments, incident.Comments)
}

func TestGetIncident_NotFound(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	m.repo.EXPECT().GetByID(ctx, incidentID).Return(nil, service.ErrNotFound).Times(1)

	incident, err := svc.GetIncident(ctx, incidentID)

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Nil(t, incident)
}

func TestAddComment_AuthorFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		userErr  error
		email    string
		expected string
	}{
		{name: "username", user: &models.User{Username: "alice", Email: "alice@example.com"}, email: "alice@example.com", expected: "alice"},
		{name: "email", user: &models.User{Email: "bob@example.com"}, email: "bob@example.com", expected: "bob@example.com"},
		{name: "anonymous", userErr: service.ErrNotFound, expected: "Anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestIncidentService(t)
			ctx := context.Background()
			session := &models.Session{UserID: uuid.New(), Email: tt.email}
			incidentID := uuid.New()

			m.users.EXPECT().GetByID(ctx, session.UserID).Return(tt.user, tt.userErr).Times(1)
			m.repo.EXPECT().AddComment(ctx, gomock.Any()).Return(nil).Times(1)
			m.feed.EXPECT().CommentsChanged(ctx, incidentID).Return(nil).Times(1)

			comment, err := svc.AddComment(ctx, session, incidentID, "Careful here")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, comment.Username)
			assert.Equal(t, incidentID, comment.IncidentID)
		})
	}
}

func TestAddComment_UnknownIncident(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New()}

	m.users.EXPECT().GetByID(ctx, session.UserID).Return(&models.User{Username: "alice"}, nil).Times(1)
	m.repo.EXPECT().AddComment(ctx, gomock.Any()).Return(service.ErrNotFound).Times(1)

	_, err := svc.AddComment(ctx, session, uuid.New(), "hello")

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestNearbyIncidents(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{{ID: uuid.New()}}

	m.repo.EXPECT().FindNearby(ctx, berlin, 500.0).Return(expected, nil).Times(1)

	incidents, err := svc.NearbyIncidents(ctx, berlin, 500)

	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}

type fakeListener struct {
	changes chan models.FeedChange
	closed  atomic.Bool
}

func newFakeListener() *fakeListener {
	return &fakeListener{changes: make(chan models.FeedChange, 4)}
}

func (l *fakeListener) Changes() <-chan models.FeedChange { return l.changes }

func (l *fakeListener) Close() error {
	l.closed.Store(true)
	return nil
}

func nextEvent(t *testing.T, sub *service.Subscription) models.FeedEvent {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "events channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed event")
		return models.FeedEvent{}
	}
}

func TestSubscribe_DeliversFullListOnEveryChange(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	listener := newFakeListener()
	first := &models.Incident{ID: uuid.New(), Title: "first"}
	second := &models.Incident{ID: uuid.New(), Title: "second"}
	comment := &models.Comment{ID: uuid.New(), IncidentID: first.ID, Content: "hi"}

	m.feed.EXPECT().Listen(ctx).Return(listener, nil).Times(1)
	gomock.InOrder(
		m.repo.EXPECT().ListAll(gomock.Any()).Return([]*models.Incident{first}, nil),
		m.repo.EXPECT().ListComments(gomock.Any(), first.ID).Return([]*models.Comment{}, nil),
		m.repo.EXPECT().ListAll(gomock.Any()).Return([]*models.Incident{second, first}, nil),
		m.repo.EXPECT().ListComments(gomock.Any(), second.ID).Return([]*models.Comment{}, nil),
		m.repo.EXPECT().ListComments(gomock.Any(), first.ID).Return([]*models.Comment{comment}, nil),
	)

	sub, err := svc.Subscribe(ctx)
	require.NoError(t, err)

	event := nextEvent(t, sub)
	assert.Equal(t, models.FeedEventIncidents, event.Kind)
	assert.Equal(t, []*models.Incident{first}, event.Incidents)

	event = nextEvent(t, sub)
	assert.Equal(t, models.FeedEventComments, event.Kind)
	assert.Equal(t, first.ID, event.IncidentID)
	assert.Empty(t, event.Comments)

	listener.changes <- models.FeedChange{Kind: models.FeedIncidentsChanged}

	event = nextEvent(t, sub)
	assert.Equal(t, []*models.Incident{second, first}, event.Incidents)

	event = nextEvent(t, sub)
	assert.Equal(t, second.ID, event.IncidentID)

	listener.changes <- models.FeedChange{Kind: models.FeedCommentsChanged, IncidentID: uuid.New()}
	listener.changes <- models.FeedChange{Kind: models.FeedCommentsChanged, IncidentID: first.ID}

	event = nextEvent(t, sub)
	assert.Equal(t, models.FeedEventComments, event.Kind)
	assert.Equal(t, []*models.Comment{comment}, event.Comments)

	require.NoError(t, sub.Close())
	assert.True(t, listener.closed.Load())

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.NoError(t, sub.Close())
}

func TestSubscribe_StopsOnContextCancel(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx, cancel := context.WithCancel(context.Background())
	listener := newFakeListener()

	m.feed.EXPECT().Listen(ctx).Return(listener, nil).Times(1)
	m.repo.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("db down")).Times(1)

	sub, err := svc.Subscribe(ctx)
	require.NoError(t, err)

	event := nextEvent(t, sub)
	assert.Equal(t, models.FeedEventError, event.Kind)
	assert.Equal(t, "db down", event.Error)

	cancel()
	for range sub.Events() {
	}
	assert.True(t, listener.closed.Load())
}

func TestSubscribe_ListenFailure(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()

	m.feed.EXPECT().Listen(ctx).Return(nil, errors.New("redis down")).Times(1)

	sub, err := svc.Subscribe(ctx)

	require.Error(t, err)
	assert.Nil(t, sub)
}
