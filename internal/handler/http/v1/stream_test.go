package v1

import (
	"context"
	"mime"
	"net/http/httptest"
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

// closeNotifyRecorder нужен gin.Context.Stream
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool {
	return r.closed
}

type idleListener struct {
	changes chan models.FeedChange
}

func (l *idleListener) Changes() <-chan models.FeedChange { return l.changes }

func (l *idleListener) Close() error { return nil }

func TestStreamIncidents_SendsSnapshotUntilClientLeaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIncidentRepository(ctrl)
	feed := mocks.NewMockFeedNotifier(ctrl)
	auth := mocks.NewMockAuthService(ctrl)
	incidents := service.NewIncidentService(repo, mocks.NewMockUserRepository(ctrl), feed, newTestLogger())

	incident := &models.Incident{ID: uuid.New(), Title: "Dark alley", Category: models.IncidentUnsafeArea}
	auth.EXPECT().Authenticate(gomock.Any(), testToken).Return(testSession, nil).Times(1)
	feed.EXPECT().Listen(gomock.Any()).Return(&idleListener{changes: make(chan models.FeedChange)}, nil).Times(1)
	repo.EXPECT().ListAll(gomock.Any()).Return([]*models.Incident{incident}, nil).Times(1)
	repo.EXPECT().ListComments(gomock.Any(), incident.ID).Return([]*models.Comment{}, nil).Times(1)

	router := newRouter(t, Services{Auth: auth, Incidents: incidents}, newTestConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest("GET", "/api/v1/incidents/stream", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(w, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after the request context ended")
	}

	body := w.Body.String()
	require.Contains(t, body, "event:incidents")
	assert.Contains(t, body, "Dark alley")
	assert.Contains(t, body, "event:comments")
	mediaType, _, err := mime.ParseMediaType(w.Header().Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", mediaType)
}
