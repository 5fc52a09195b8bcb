package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/navigation"
	"github.com/mcoot/cricketstats-go/internal/storage"
)

// Storage keys
const (
	TokenKey       = "access_token"
	UsernameKey    = "username"
	LoginStatusKey = "isLoggedIn"

	loggedInValue = "true"
)

// Store keeps the bearer token, username and login flag for the current session
type Store struct {
	storage   storage.Storage
	navigator navigation.Navigator
}

// New creates a Store over the given storage backend
func New(storage storage.Storage, navigator navigation.Navigator) *Store {
	return &Store{
		storage:   storage,
		navigator: navigator,
	}
}

// Set records a successful login. All three keys are written in one call.
func (s *Store) Set(ctx context.Context, token, username string) error {
	err := s.storage.SetItems(ctx, map[string]string{
		TokenKey:       token,
		UsernameKey:    username,
		LoginStatusKey: loggedInValue,
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the session and sends the user to the login page.
// The redirect happens even if the backend fails to remove the keys.
func (s *Store) Clear(ctx context.Context) error {
	err := s.storage.RemoveItems(ctx, TokenKey, UsernameKey, LoginStatusKey)
	s.navigator.Navigate(navigation.LoginPath)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// IsActive reports whether the flag is "true" and a token is present
func (s *Store) IsActive(ctx context.Context) (bool, error) {
	flag, err := s.get(ctx, LoginStatusKey)
	if err != nil {
		return false, err
	}
	if flag != loggedInValue {
		return false, nil
	}
	token, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Token returns the stored bearer token, or "" if there is none
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.get(ctx, TokenKey)
}

// Username returns the stored username, or "" if there is none
func (s *Store) Username(ctx context.Context) (string, error) {
	return s.get(ctx, UsernameKey)
}

// get reads one key. Data that cannot be decoded reads as no session.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	value, _, err := s.storage.GetItem(ctx, key)
	if errors.Is(err, storage.ErrCorrupt) {
		return "", nil
	}
	return value, err
}

// Snapshot returns the whole session as read right now
func (s *Store) Snapshot(ctx context.Context) (model.Session, error) {
	var sess model.Session
	var err error

	if sess.Token, err = s.Token(ctx); err != nil {
		return sess, err
	}
	if sess.Username, err = s.Username(ctx); err != nil {
		return sess, err
	}
	if sess.LoggedIn, err = s.IsActive(ctx); err != nil {
		return sess, err
	}
	return sess, nil
}

// RequireAuth sends an inactive session to the login page.
// It returns true when the session is active.
func (s *Store) RequireAuth(ctx context.Context) (bool, error) {
	active, err := s.IsActive(ctx)
	if err != nil {
		return false, err
	}
	if !active {
		s.navigator.Navigate(navigation.LoginPath)
		return false, nil
	}
	return true, nil
}

// RedirectIfLoggedIn sends an active session to the dashboard.
// It returns true when a redirect happened.
func (s *Store) RedirectIfLoggedIn(ctx context.Context) (bool, error) {
	active, err := s.IsActive(ctx)
	if err != nil {
		return false, err
	}
	if active {
		s.navigator.Navigate(navigation.DashboardPath)
		return true, nil
	}
	return false, nil
}

// TokenExpiry reads the exp claim of the stored token without verifying
// its signature. ok is false when there is no token, it is not a JWT,
// or it carries no expiry.
func (s *Store) TokenExpiry(ctx context.Context) (expiry time.Time, ok bool, err error) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return time.Time{}, false, err
	}

	claims := jwt.RegisteredClaims{}
	if _, _, perr := jwt.NewParser().ParseUnverified(token, &claims); perr != nil {
		return time.Time{}, false, nil
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}
