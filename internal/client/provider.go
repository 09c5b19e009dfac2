package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"commerce-console/internal/config"
)

// ProviderClient confirms payment intents with the payment provider. It
// authenticates with the provider's public key, not the console session,
// so it does not go through the session gateway.
type ProviderClient interface {
	// Confirm drives the provider's confirmation for the given client secret.
	// It returns a terminal status or a *ProviderDecline with the provider's
	// human-readable message. Safe to invoke once per successful charge.
	Confirm(ctx context.Context, clientSecret string) (*ConfirmResult, error)
}

type ConfirmResult struct {
	IntentID string `json:"payment_intent_id"`
	Status   string `json:"status"`
}

// ProviderDecline is a structured decline from the provider. The same intent
// may be confirmed again after the user fixes the payment details.
type ProviderDecline struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderDecline) Error() string {
	return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Message)
}

type providerClientImpl struct {
	httpClient *http.Client
	baseURL    string
	publicKey  string
}

func NewProviderClient(cfg *config.Provider) ProviderClient {
	return &providerClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   cfg.BaseURL,
		publicKey: cfg.PublicKey,
	}
}

func (c *providerClientImpl) Confirm(ctx context.Context, clientSecret string) (*ConfirmResult, error) {
	payload := map[string]string{
		"client_secret": clientSecret,
		"public_key":    c.publicKey,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal confirm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents/confirm", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Op: "provider confirm", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		var decline struct {
			Error ProviderDecline `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decline); err != nil {
			return nil, fmt.Errorf("decode provider decline: %w", err)
		}
		return nil, &decline.Error
	case resp.StatusCode >= 500:
		return nil, &TransientError{Op: "provider confirm", Err: readAPIError(resp)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, readAPIError(resp)
	}

	var result ConfirmResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return &result, nil
}
