package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
)

// Session is an authenticated editor session.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService gates the admin editor behind a hashed password and expiring session tokens.
type AuthService interface {
	// Login checks password against the configured bcrypt hash and opens a new session.
	Login(ctx context.Context, password string) (Session, error)

	// Validate returns the session for token if it exists and has not expired.
	Validate(ctx context.Context, token string) (Session, error)

	// Logout ends the session. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error
}

type authService struct {
	hash   []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewAuthService builds an in-memory AuthService. An empty passwordHash disables login entirely.
func NewAuthService(passwordHash string, ttl time.Duration, logger *zap.Logger) AuthService {
	if passwordHash == "" {
		logger.Warn("admin password hash not configured; editor login is disabled")
	}
	return &authService{
		hash:     []byte(passwordHash),
		ttl:      ttl,
		logger:   logger.Named("auth"),
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *authService) Login(ctx context.Context, password string) (Session, error) {
	if len(s.hash) == 0 || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		s.logger.Warn("admin login rejected")
		return Session{}, ErrInvalidCredentials
	}

	now := s.now()
	sess := Session{Token: uuid.NewString(), ExpiresAt: now.Add(s.ttl)}

	s.mu.Lock()
	s.evictExpiredLocked(now)
	s.sessions[sess.Token] = sess.ExpiresAt
	s.mu.Unlock()

	s.logger.Info("admin session opened", zap.Time("expires_at", sess.ExpiresAt))
	return sess, nil
}

func (s *authService) Validate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrInvalidSession
	}
	if !s.now().Before(exp) {
		delete(s.sessions, token)
		return Session{}, ErrSessionExpired
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *authService) evictExpiredLocked(now time.Time) {
	for tok, exp := range s.sessions {
		if !now.Before(exp) {
			delete(s.sessions, tok)
		}
	}
}
