package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/auth"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository определяет контракт для хранения учетных записей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenRevoker хранит отозванные токены до истечения их срока
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthResult - выданный токен и данные учетной записи
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService определяет контракт регистрации, входа и выхода
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, session *models.Session) error
	Authenticate(ctx context.Context, token string) (*models.Session, error)
	Profile(ctx context.Context, session *models.Session) (*models.User, error)
}

type authService struct {
	users   UserRepository
	revoker TokenRevoker
	tokens  *auth.TokenManager
	logger  *logrus.Logger
	now     func() time.Time
}

func NewAuthService(users UserRepository, revoker TokenRevoker, tokens *auth.TokenManager, logger *logrus.Logger) AuthService {
	return &authService{
		users:   users,
		revoker: revoker,
		tokens:  tokens,
		logger:  logger,
		now:     time.Now,
	}
}

// Register создает учетную запись вместе с профилем и сразу выдает токен
func (s *authService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Register",
		"email":   email,
	})
	log.Info("Registering a new account")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Warn("Email already registered")
			return nil, err
		}
		log.WithError(err).Error("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not create user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("Account registered successfully")
	return s.issue(user)
}

// Login проверяет пароль; неверный email и неверный пароль неразличимы
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
	})

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get user by email")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return s.issue(user)
}

// Logout отзывает токен сессии до истечения его срока
func (s *authService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrUnauthenticated
	}
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Logout",
		"user_id": session.UserID,
	})

	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		log.Info("Token already expired, nothing to revoke")
		return nil
	}
	if err := s.revoker.Revoke(ctx, session.TokenID, ttl); err != nil {
		log.WithError(err).Error("Failed to revoke token")
		return fmt.Errorf("service: could not revoke token: %w", err)
	}

	log.Info("User logged out")
	return nil
}

// Authenticate превращает bearer-токен в явный контекст сессии
func (s *authService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("service: could not check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	session := &models.Session{
		UserID:  userID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Profile возвращает профиль текущего пользователя
func (s *authService) Profile(ctx context.Context, session *models.Session) (*models.User, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get profile: %w", err)
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service: could not issue token: %w", err)
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
