package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"commerce-console/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Gateway wraps every authenticated outbound call. It attaches the current
// access token and, when an upstream rejects it, performs exactly one
// transparent renewal-and-retry per request. Renewals are single-flight:
// concurrent requests rejected around the same time share one refresh call.
type Gateway struct {
	httpClient *http.Client
	sessions   *session.Store
	identity   IdentityClient
	renewals   singleflight.Group
	log        *zap.Logger
}

func NewGateway(sessions *session.Store, identity IdentityClient, log *zap.Logger) *Gateway {
	return &Gateway{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		sessions: sessions,
		identity: identity,
		log:      log,
	}
}

func (g *Gateway) GetJSON(ctx context.Context, url string, out any) error {
	return g.do(ctx, http.MethodGet, url, nil, out)
}

func (g *Gateway) PostJSON(ctx context.Context, url string, in, out any) error {
	return g.do(ctx, http.MethodPost, url, in, out)
}

func (g *Gateway) do(ctx context.Context, method, url string, in, out any) error {
	token, ok := g.sessions.AccessToken()
	if !ok {
		return ErrAuthExpired
	}

	err := doJSON(ctx, g.httpClient, method, url, token, in, out)
	if !errors.Is(err, errUnauthorized) {
		return err
	}

	if err := g.renew(ctx, token); err != nil {
		return err
	}

	token, ok = g.sessions.AccessToken()
	if !ok {
		return ErrAuthExpired
	}
	err = doJSON(ctx, g.httpClient, method, url, token, in, out)
	if errors.Is(err, errUnauthorized) {
		// Rejected again on the retried attempt: terminal. No second renewal
		// for the same original request.
		return ErrAuthExpired
	}
	return err
}

// renew refreshes the session, keyed by the rejected token so every request
// that observed the same stale credential joins the same flight.
func (g *Gateway) renew(ctx context.Context, rejected string) error {
	_, err, _ := g.renewals.Do(rejected, func() (any, error) {
		current, ok := g.sessions.Current()
		if !ok {
			return nil, ErrAuthExpired
		}
		if current.AccessToken != rejected {
			// Another flight already replaced the session; just retry.
			return nil, nil
		}

		renewed, err := g.identity.Refresh(ctx, current.RefreshToken)
		if err != nil {
			g.log.Warn("session renewal failed, forcing logout", zap.Error(err))
			if clearErr := g.sessions.Clear(ctx); clearErr != nil {
				g.log.Error("clear session after failed renewal", zap.Error(clearErr))
			}
			return nil, ErrAuthExpired
		}

		if err := g.sessions.Set(ctx, renewed); err != nil {
			return nil, fmt.Errorf("store renewed session: %w", err)
		}
		g.log.Info("session renewed", zap.String("user_id", renewed.UserID))
		return nil, nil
	})
	return err
}
