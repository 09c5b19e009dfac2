package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfStock rejects selecting a product whose snapshot availability is zero.
var ErrOutOfStock = errors.New("product is out of stock")

// ValidationError aggregates every problem found before any network call is
// made. It blocks submission and is never retried automatically.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "order not submittable: " + strings.Join(e.Problems, "; ")
}

// SettlementError is a payment failure after the order already exists. The
// order stays pending and retrievable; settling it again is a human decision.
type SettlementError struct {
	OrderID string
	Stage   string
	Message string
	Err     error
}

func (e *SettlementError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("settlement failed for order %s at %s: %s", e.OrderID, e.Stage, msg)
}

func (e *SettlementError) Unwrap() error { return e.Err }
