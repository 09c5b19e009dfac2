package service

import (
	"context"
	"time"

	"commerce-console/internal/client"
	"commerce-console/internal/model"
	"commerce-console/internal/session"

	"go.uber.org/zap"
)

// SessionService owns the login/logout lifecycle around the session store.
type SessionService struct {
	identity client.IdentityClient
	store    *session.Store
	log      *zap.Logger
}

func NewSessionService(identity client.IdentityClient, store *session.Store, log *zap.Logger) *SessionService {
	return &SessionService{
		identity: identity,
		store:    store,
		log:      log,
	}
}

func (s *SessionService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := s.identity.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info("signed in", zap.String("user_id", sess.UserID))
	return sess, nil
}

func (s *SessionService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *SessionService) Current() (*model.Session, bool) {
	return s.store.Current()
}

// ExpiringSoon hints the UI that the next call will likely renew.
func (s *SessionService) ExpiringSoon() bool {
	return s.store.ExpiresWithin(time.Minute)
}
