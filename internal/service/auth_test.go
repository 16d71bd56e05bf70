package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/auth"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/shenikar/safewalk/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func newTestAuthService(t *testing.T) (service.AuthService, *mocks.MockUserRepository, *mocks.MockTokenRevoker) {
	ctrl := gomock.NewController(t)
	usersMock := mocks.NewMockUserRepository(ctrl)
	revokerMock := mocks.NewMockTokenRevoker(ctrl)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return service.NewAuthService(usersMock, revokerMock, tokens, newTestLogger()), usersMock, revokerMock
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	svc, usersMock, revokerMock := newTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Ожидания
	usersMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User) error {
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "alice", user.Username)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pa55word")))
			user.ID = userID
			return nil
		}).
		Times(1)
	revokerMock.EXPECT().IsRevoked(ctx, gomock.Any()).Return(false, nil).Times(1)

	// Действие
	result, err := svc.Register(ctx, "alice", " Alice@Example.com ", "pa55word")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, userID, result.User.ID)
	assert.NotEmpty(t, result.Token)

	session, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "alice@example.com", session.Email)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().Create(ctx, gomock.Any()).Return(service.ErrEmailTaken).Times(1)

	result, err := svc.Register(ctx, "alice", "alice@example.com", "pa55word")

	assert.ErrorIs(t, err, service.ErrEmailTaken)
	assert.Nil(t, result)
}

func TestLogin_Success(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("pa55word"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: string(hash)}

	usersMock.EXPECT().GetByEmail(ctx, "alice@example.com").Return(user, nil).Times(1)

	result, err := svc.Login(ctx, "alice@example.com", "pa55word")

	require.NoError(t, err)
	assert.Equal(t, user, result.User)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("pa55word"), bcrypt.MinCost)
	require.NoError(t, err)

	usersMock.EXPECT().
		GetByEmail(ctx, "alice@example.com").
		Return(&models.User{ID: uuid.New(), PasswordHash: string(hash)}, nil).
		Times(1)

	result, err := svc.Login(ctx, "alice@example.com", "wrong")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, service.ErrNotFound).Times(1)

	_, err := svc.Login(ctx, "nobody@example.com", "pa55word")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, revokerMock := newTestAuthService(t)
	ctx := context.Background()
	session := &models.Session{UserID: uuid.New(), TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}

	revokerMock.EXPECT().
		Revoke(ctx, "jti-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ttl time.Duration) error {
			assert.Greater(t, ttl, time.Duration(0))
			assert.LessOrEqual(t, ttl, time.Hour)
			return nil
		}).
		Times(1)

	assert.NoError(t, svc.Logout(ctx, session))
}

func TestLogout_ExpiredTokenIsNoop(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	session := &models.Session{UserID: uuid.New(), TokenID: "jti-1", ExpiresAt: time.Now().Add(-time.Minute)}

	assert.NoError(t, svc.Logout(context.Background(), session))
}

func TestLogout_NoSession(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	assert.ErrorIs(t, svc.Logout(context.Background(), nil), service.ErrUnauthenticated)
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	svc, usersMock, revokerMock := newTestAuthService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("pa55word"), bcrypt.MinCost)
	require.NoError(t, err)

	usersMock.EXPECT().
		GetByEmail(ctx, "alice@example.com").
		Return(&models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: string(hash)}, nil).
		Times(1)
	revokerMock.EXPECT().IsRevoked(ctx, gomock.Any()).Return(true, nil).Times(1)

	result, err := svc.Login(ctx, "alice@example.com", "pa55word")
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, result.Token)

	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	assert.Nil(t, session)
}

func TestAuthenticate_Garbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}
