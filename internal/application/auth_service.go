package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	repo "github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
	"github.com/oksasatya/pharmadocs/pkg/mailer"
)

// Publisher enqueues a JSON job on a message queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users    repo.UserRepository
	Profiles repo.ProfileRepository
	Sessions *SessionManager
	Logger   *logrus.Logger
	// Mail is optional; when set a welcome email is queued after registration.
	Mail Publisher
}

func NewAuthService(users repo.UserRepository, profiles repo.ProfileRepository, sessions *SessionManager, logger *logrus.Logger, mail Publisher) *AuthService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AuthService{Users: users, Profiles: profiles, Sessions: sessions, Logger: logger, Mail: mail}
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareDummy burns the same bcrypt time as a real check for unknown emails.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = helpers.HashPassword("pharmadocs-dummy-password")
	})
	_ = helpers.CompareHashAndPassword(dummyHash, password)
}

// Register creates the account, its profile and a session. When only the
// session fails the user is returned with a zero Session.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.User, Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, Session{}, ErrInvalidInput
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, Session{}, err
	}
	u := &entity.User{Email: email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, Session{}, ErrDuplicateEmail
		}
		return nil, Session{}, storageErr("create user", err)
	}

	// The profile read path creates it lazily as well, so a failure here is not fatal.
	if _, err := s.Profiles.Ensure(ctx, u.ID); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile creation at registration failed")
	}

	s.enqueueWelcome(ctx, u)

	// The account is committed; a missing session only means the caller has to log in.
	sess, err := s.Sessions.Create(ctx, u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session creation at registration failed")
		return u, Session{}, nil
	}
	return u, sess, nil
}

// Verify checks credentials. Unknown email and wrong password both return ErrAuthFailure.
func (s *AuthService) Verify(ctx context.Context, email, password string) (*entity.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrAuthFailure
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		compareDummy(password)
		return nil, ErrAuthFailure
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrAuthFailure
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, Session, error) {
	u, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, Session{}, err
	}
	sess, err := s.Sessions.Create(ctx, u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("create session failed")
		return nil, Session{}, err
	}
	return u, sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Sessions.Destroy(ctx, token)
}

func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Email":        u.Email,
			"RegisteredAt": u.CreatedAt.UTC().Format(time.RFC3339),
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue welcome email")
	}
}
