package service

import (
	"context"
	"fmt"
	"time"

	"commerce-console/internal/client"
	"commerce-console/internal/model"
	"commerce-console/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CheckoutService submits a validated draft: it creates the persisted order,
// then branches by payment method. Order creation failing is terminal for the
// whole flow; anything failing afterwards leaves the order pending and payable.
type CheckoutService struct {
	orders        client.OrdersClient
	composer      *Composer
	continuations repository.ContinuationRepository
	resumeTTL     time.Duration
	tracer        trace.Tracer
	log           *zap.Logger
}

// SubmitResult carries the created order and, for card payments, the hand-off
// the order's detail view needs to resume collection.
type SubmitResult struct {
	Order  *model.Order
	Resume *model.Continuation
}

func NewCheckoutService(
	orders client.OrdersClient,
	composer *Composer,
	continuations repository.ContinuationRepository,
	resumeTTL time.Duration,
	log *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:        orders,
		composer:      composer,
		continuations: continuations,
		resumeTTL:     resumeTTL,
		tracer:        otel.Tracer("checkout"),
		log:           log,
	}
}

// Submit may return both a non-nil result and a *SettlementError: a cash
// settlement that fails after order creation leaves the order pending, and
// the caller gets the order along with the failure to surface.
func (s *CheckoutService) Submit(ctx context.Context, draft *Draft) (*SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.submit",
		trace.WithAttributes(attribute.String("payment.method", string(draft.PaymentMethod))))
	defer span.End()

	if err := s.composer.ValidateForSubmission(ctx, draft); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, len(draft.Lines))
	for i, line := range draft.Lines {
		items[i] = model.OrderItem{
			ProductID: line.ProductID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	order, err := s.orders.CreateOrder(ctx, &client.CreateOrderRequest{
		CustomerID:    draft.CustomerID,
		Items:         items,
		PaymentMethod: draft.PaymentMethod,
		Notes:         draft.Notes,
	})
	if err != nil {
		// Terminal: no further calls, nothing partial left behind.
		return nil, fmt.Errorf("submit order: %w", err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(draft.PaymentMethod)),
		zap.String("total", order.Total.String()))

	switch draft.PaymentMethod {
	case model.MethodCash:
		return s.settleCash(ctx, order, draft.Notes)
	case model.MethodCard:
		return s.handOffCard(ctx, order, draft.CustomerID)
	default:
		// Manual methods (bank transfer, check): order stays pending, a human
		// settles it later.
		return &SubmitResult{Order: order}, nil
	}
}

func (s *CheckoutService) settleCash(ctx context.Context, order *model.Order, notes string) (*SubmitResult, error) {
	settled, err := s.orders.CreateCashSettlement(ctx, order.ID, order.Total, order.Total, notes)
	if err != nil {
		s.log.Warn("cash settlement failed, order left pending",
			zap.String("order_id", order.ID), zap.Error(err))
		return &SubmitResult{Order: order}, &SettlementError{
			OrderID: order.ID,
			Stage:   "cash_settlement",
			Err:     err,
		}
	}
	return &SubmitResult{Order: settled}, nil
}

func (s *CheckoutService) handOffCard(ctx context.Context, order *model.Order, customerID string) (*SubmitResult, error) {
	cont := &model.Continuation{
		Token:      uuid.NewString(),
		OrderID:    order.ID,
		CustomerID: customerID,
		AttemptID:  uuid.NewString(),
		Amount:     order.Total,
		Method:     model.MethodCard,
	}
	if err := s.continuations.Put(ctx, cont, s.resumeTTL); err != nil {
		// The order exists and stays payable through the manual path; only
		// the auto-open hand-off is lost.
		s.log.Error("store card hand-off, falling back to manual payment",
			zap.String("order_id", order.ID), zap.Error(err))
		return &SubmitResult{Order: order}, nil
	}
	return &SubmitResult{Order: order, Resume: cont}, nil
}
