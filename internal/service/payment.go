package service

import (
	"context"
	"errors"

	"commerce-console/internal/client"
	"commerce-console/internal/model"
	"commerce-console/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PaymentService produces exactly one provider payment intent per order per
// attempt, however many times the attempt's initialization runs, and
// reconciles confirmations with the order service.
type PaymentService struct {
	orders   client.OrdersClient
	provider client.ProviderClient
	attempts repository.AttemptRepository
	tracer   trace.Tracer
	log      *zap.Logger
}

func NewPaymentService(
	orders client.OrdersClient,
	provider client.ProviderClient,
	attempts repository.AttemptRepository,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orders:   orders,
		provider: provider,
		attempts: attempts,
		tracer:   otel.Tracer("payment"),
		log:      log,
	}
}

// Begin returns the attempt's payment intent, creating it on the first call
// and replaying it on duplicate initializations of the same attempt.
func (s *PaymentService) Begin(ctx context.Context, orderID, attemptID, customerID string, amount decimal.Decimal) (*model.PaymentIntent, error) {
	ctx, span := s.tracer.Start(ctx, "payment.begin", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("attempt.id", attemptID)))
	defer span.End()

	claimed, existing, err := s.attempts.Claim(ctx, orderID, attemptID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		s.log.Debug("duplicate attempt initialization, reusing intent",
			zap.String("order_id", orderID), zap.String("attempt_id", attemptID))
		return existing, nil
	}

	intent, err := s.orders.CreatePaymentIntent(ctx, orderID, customerID, amount)
	if err == nil && intent.ClientSecret == "" {
		err = errors.New("no client secret returned")
	}
	if err != nil {
		if relErr := s.attempts.Release(ctx, orderID, attemptID); relErr != nil {
			s.log.Error("release attempt latch", zap.Error(relErr))
		}
		return nil, &SettlementError{
			OrderID: orderID,
			Stage:   "intent_create",
			Err:     err,
		}
	}

	if err := s.attempts.StoreIntent(ctx, orderID, attemptID, intent); err != nil {
		// The intent exists; only the duplicate-replay copy is missing.
		s.log.Error("store intent for attempt replay", zap.Error(err))
	}
	return intent, nil
}

// Confirm drives the provider confirmation and, on success, reconciles the
// result with the order service. A provider decline is retryable against the
// same intent; no new intent is created for an in-place retry.
func (s *PaymentService) Confirm(ctx context.Context, orderID, intentID, clientSecret string) (*model.Order, error) {
	ctx, span := s.tracer.Start(ctx, "payment.confirm", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("intent.id", intentID)))
	defer span.End()

	result, err := s.provider.Confirm(ctx, clientSecret)
	if err != nil {
		var decline *client.ProviderDecline
		if errors.As(err, &decline) {
			s.log.Info("provider declined confirmation",
				zap.String("order_id", orderID), zap.String("code", decline.Code))
			return nil, &SettlementError{
				OrderID: orderID,
				Stage:   "provider_confirm",
				Message: decline.Message,
				Err:     decline,
			}
		}
		return nil, err
	}

	confirmedID := result.IntentID
	if confirmedID == "" {
		confirmedID = intentID
	}

	order, err := s.orders.ConfirmPaymentIntent(ctx, orderID, confirmedID)
	if err != nil {
		return nil, &SettlementError{
			OrderID: orderID,
			Stage:   "intent_confirm",
			Err:     err,
		}
	}

	s.log.Info("card settlement confirmed",
		zap.String("order_id", orderID),
		zap.String("payment_status", string(order.PaymentStatus)))
	return order, nil
}
