package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"commerce-console/internal/config"
	"commerce-console/internal/model"
)

// IdentityClient talks to the identity service directly, without the session
// gateway: login and refresh are the calls that establish the session the
// gateway attaches everywhere else.
type IdentityClient interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Session, error)
}

type identityClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewIdentityClient(cfg *config.Identity) IdentityClient {
	return &identityClientImpl{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: cfg.BaseURL,
	}
}

type tokenResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *identityClientImpl) Login(ctx context.Context, email, password string) (*model.Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var res tokenResponse
	err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/auth/login", "", payload, &res)
	if err != nil {
		return nil, fmt.Errorf("identity login: %w", err)
	}

	return sessionFromTokens(&res), nil
}

func (c *identityClientImpl) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	payload := map[string]string{
		"refresh_token": refreshToken,
	}

	var res tokenResponse
	err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/auth/refresh", "", payload, &res)
	if err != nil {
		return nil, fmt.Errorf("identity refresh: %w", err)
	}

	return sessionFromTokens(&res), nil
}

func sessionFromTokens(res *tokenResponse) *model.Session {
	return &model.Session{
		UserID:       res.UserID,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		FetchedAt:    time.Now(),
	}
}
