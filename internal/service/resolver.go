package service

import (
	"context"

	"commerce-console/internal/model"
	"commerce-console/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// paymentCollectible is the single precondition shared by both trigger paths:
// the automatic open after creation and the manual "process payment" action.
func paymentCollectible(status model.PaymentStatus, method model.PaymentMethod) bool {
	return status == model.PaymentPending && method == model.MethodCard
}

// Decision is what an order's detail view does about payment collection.
type Decision struct {
	// AutoOpenPayment: this visit arrived through the checkout hand-off and
	// the payment UI opens immediately.
	AutoOpenPayment bool `json:"auto_open_payment"`
	// CanProcessPayment: a manual "process payment" action is available,
	// judged from the persisted order alone.
	CanProcessPayment bool `json:"can_process_payment"`

	AttemptID  string          `json:"attempt_id,omitempty"`
	CustomerID string          `json:"customer_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// Resolver decides, when an order's detail view loads, whether the
// payment-collection UI should (re)open. Only the explicit hand-off from
// submission auto-opens it; the order's own fields never do.
type Resolver struct {
	continuations repository.ContinuationRepository
	log           *zap.Logger
}

func NewResolver(continuations repository.ContinuationRepository, log *zap.Logger) *Resolver {
	return &Resolver{
		continuations: continuations,
		log:           log,
	}
}

func (r *Resolver) Resolve(ctx context.Context, order *model.Order, resumeToken string) (*Decision, error) {
	decision := &Decision{
		CanProcessPayment: paymentCollectible(order.PaymentStatus, order.PaymentMethod),
		Amount:            order.Total,
	}

	if resumeToken == "" {
		return decision, nil
	}

	cont, err := r.continuations.Get(ctx, resumeToken)
	if err != nil {
		return nil, err
	}
	if cont == nil {
		// Expired or unknown. An intent created for this hand-off is never
		// voided provider-side; it only lapses by the provider's own expiry.
		r.log.Warn("resume token expired or unknown",
			zap.String("order_id", order.ID))
		return decision, nil
	}
	if cont.OrderID != order.ID {
		r.log.Warn("resume token belongs to a different order",
			zap.String("order_id", order.ID),
			zap.String("token_order_id", cont.OrderID))
		return decision, nil
	}

	if paymentCollectible(order.PaymentStatus, cont.Method) {
		decision.AutoOpenPayment = true
		decision.AttemptID = cont.AttemptID
		decision.CustomerID = cont.CustomerID
		decision.Amount = cont.Amount
	}
	return decision, nil
}
