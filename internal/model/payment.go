package model

import "github.com/shopspring/decimal"

// PaymentIntent is the provider-side charge attempt as reported through
// the order service.
type PaymentIntent struct {
	IntentID     string          `json:"payment_intent_id"`
	ClientSecret string          `json:"client_secret"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
}

// Continuation is the hand-off from order submission to the order's detail
// view: "a card settlement is expected now". It travels as an opaque token
// in the redirect and is never re-derived from the order's persisted fields.
type Continuation struct {
	Token      string          `json:"token"`
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	AttemptID  string          `json:"attempt_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
}
