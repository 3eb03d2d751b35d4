package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

// SessionTTL is fixed; sessions do not slide on activity.
const SessionTTL = time.Hour

// Session is what the client receives after login or registration.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// SessionManager issues, resolves and destroys sessions. The store is
// pluggable; the signer binds the cookie value to the server secret.
type SessionManager struct {
	Store  repository.SessionStore
	Signer *helpers.SessionSigner
}

func NewSessionManager(store repository.SessionStore, signer *helpers.SessionSigner) *SessionManager {
	return &SessionManager{Store: store, Signer: signer}
}

func genSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (m *SessionManager) Create(ctx context.Context, userID string) (Session, error) {
	sid, err := genSessionID()
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSession, err)
	}
	if err := m.Store.Save(ctx, sid, userID, SessionTTL); err != nil {
		return Session{}, storageErr("save session", err)
	}
	token, exp, err := m.Signer.Sign(sid)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSession, err)
	}
	return Session{Token: token, UserID: userID, ExpiresAt: exp}, nil
}

// Resolve returns the user id bound to token or ErrUnauthenticated.
func (m *SessionManager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	claims, err := m.Signer.Parse(token)
	if err != nil {
		return "", ErrUnauthenticated
	}
	uid, err := m.Store.Lookup(ctx, claims.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", storageErr("lookup session", err)
	}
	return uid, nil
}

// Destroy removes the session behind token. Unknown or expired tokens are a no-op.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := m.Signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := m.Store.Remove(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrSession, err)
	}
	return nil
}
