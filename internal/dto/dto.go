package dto

import (
	"commerce-console/internal/model"
	"commerce-console/internal/service"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID string `json:"user_id"`
}

type SessionResponse struct {
	UserID       string `json:"user_id"`
	ExpiringSoon bool   `json:"expiring_soon"`
}

type DraftLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerID    string      `json:"customer_id"`
	Lines         []DraftLine `json:"lines"`
	PaymentMethod string      `json:"payment_method"`
	Notes         string      `json:"notes,omitempty"`
}

type CheckoutResponse struct {
	Order       *model.Order `json:"order"`
	ResumeToken string       `json:"resume_token,omitempty"`
	AttemptID   string       `json:"attempt_id,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
	// Set when the order was created but its cash settlement failed; the
	// order is pending and must be settled manually.
	SettlementError string `json:"settlement_error,omitempty"`
}

type ValidatedLine struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type ValidateResponse struct {
	Lines    []ValidatedLine `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Warnings []string        `json:"warnings,omitempty"`
	Problems []string        `json:"problems,omitempty"`
}

type OrderDetailResponse struct {
	Order   *model.Order      `json:"order"`
	Payment *service.Decision `json:"payment"`
}

type AttemptRequest struct {
	AttemptID  string          `json:"attempt_id,omitempty"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type AttemptResponse struct {
	AttemptID    string          `json:"attempt_id"`
	IntentID     string          `json:"payment_intent_id"`
	ClientSecret string          `json:"client_secret"`
	Amount       decimal.Decimal `json:"amount"`
}

type ConfirmRequest struct {
	IntentID     string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
}
