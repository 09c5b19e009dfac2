package service

import (
	"context"
	"testing"

	"commerce-console/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func cardContinuation(orderID string) *model.Continuation {
	return &model.Continuation{
		Token:      "tok-1",
		OrderID:    orderID,
		CustomerID: "cust-1",
		AttemptID:  "att-1",
		Amount:     decimal.RequireFromString("99.90"),
		Method:     model.MethodCard,
	}
}

func newTestResolver(conts ...*model.Continuation) *Resolver {
	continuations := newMockContinuations()
	for _, c := range conts {
		continuations.Put(context.Background(), c, 0)
	}
	return NewResolver(continuations, zap.NewNop())
}

func TestResolve_HandOffAutoOpens(t *testing.T) {
	resolver := newTestResolver(cardContinuation("ord-1"))
	order := pendingOrder(model.MethodCard, "99.90")

	decision, err := resolver.Resolve(context.Background(), order, "tok-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if !decision.AutoOpenPayment {
		t.Error("arrival through the hand-off must auto-open the payment UI")
	}
	if decision.AttemptID != "att-1" {
		t.Errorf("decision must replay the hand-off's attempt id, got %q", decision.AttemptID)
	}
	if !decision.CanProcessPayment {
		t.Error("the manual action shares the same precondition and must also hold")
	}
}

func TestResolve_NoHintNeverAutoOpens(t *testing.T) {
	resolver := newTestResolver()
	order := pendingOrder(model.MethodCard, "99.90")

	decision, err := resolver.Resolve(context.Background(), order, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if decision.AutoOpenPayment {
		t.Error("an independent visit must not auto-open the payment UI")
	}
	if !decision.CanProcessPayment {
		t.Error("a pending card order must expose the manual process-payment action")
	}
}

func TestResolve_ExpiredTokenFallsBackToManual(t *testing.T) {
	resolver := newTestResolver()
	order := pendingOrder(model.MethodCard, "99.90")

	decision, err := resolver.Resolve(context.Background(), order, "tok-unknown")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if decision.AutoOpenPayment {
		t.Error("an expired or unknown token must not auto-open")
	}
	if !decision.CanProcessPayment {
		t.Error("the manual action must survive token expiry")
	}
}

func TestResolve_PaidOrderOffersNothing(t *testing.T) {
	resolver := newTestResolver(cardContinuation("ord-1"))
	order := pendingOrder(model.MethodCard, "99.90")
	order.PaymentStatus = model.PaymentPaid

	decision, err := resolver.Resolve(context.Background(), order, "tok-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if decision.AutoOpenPayment || decision.CanProcessPayment {
		t.Error("a settled order must offer no payment collection at all")
	}
}

func TestResolve_NonCardOrderHasNoManualAction(t *testing.T) {
	resolver := newTestResolver()
	order := pendingOrder(model.MethodBankTransfer, "42.00")

	decision, err := resolver.Resolve(context.Background(), order, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if decision.CanProcessPayment {
		t.Error("the card payment UI is only for card orders")
	}
}

func TestResolve_TokenForDifferentOrderIgnored(t *testing.T) {
	resolver := newTestResolver(cardContinuation("ord-2"))
	order := pendingOrder(model.MethodCard, "99.90")

	decision, err := resolver.Resolve(context.Background(), order, "tok-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if decision.AutoOpenPayment {
		t.Error("a hand-off for another order must not auto-open this one")
	}
}
