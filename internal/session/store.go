package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"commerce-console/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repository persists the single console session across restarts.
type Repository interface {
	Save(ctx context.Context, s *model.Session) error
	Load(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context) error
}

// Store owns the process-wide session value. It is injected into the gateway
// and the session service; nothing reads credentials from ambient globals.
type Store struct {
	mu      sync.RWMutex
	current *model.Session
	repo    Repository
	log     *zap.Logger
}

func NewStore(repo Repository, log *zap.Logger) *Store {
	return &Store{
		repo: repo,
		log:  log,
	}
}

// Restore loads a previously persisted session, if any.
func (s *Store) Restore(ctx context.Context) error {
	sess, err := s.repo.Load(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.log.Info("session restored", zap.String("user_id", sess.UserID))
	return nil
}

// Set replaces the session wholesale and persists it.
func (s *Store) Set(ctx context.Context, sess *model.Session) error {
	if err := s.repo.Save(ctx, sess); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// Clear destroys the session (logout or irrecoverable renewal failure).
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	return s.repo.Clear(ctx)
}

func (s *Store) Current() (*model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	copied := *s.current
	return &copied, true
}

func (s *Store) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return "", false
	}
	return s.current.AccessToken, true
}

// ExpiresWithin reports whether the access token's exp claim falls inside d.
// The token is parsed without signature verification; only the identity
// service can actually accept or reject it.
func (s *Store) ExpiresWithin(d time.Duration) bool {
	token, ok := s.AccessToken()
	if !ok {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return time.Until(exp.Time) < d
}
