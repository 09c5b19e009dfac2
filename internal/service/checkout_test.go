package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"commerce-console/internal/client"
	"commerce-console/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Mock OrdersClient
type mockOrders struct {
	mu sync.Mutex

	createErr  error
	settleErr  error
	intentErr  error
	confirmErr error

	createCalls  int
	settleCalls  int
	intentCalls  int
	confirmCalls int

	lastSettleAmount   decimal.Decimal
	lastSettleTendered decimal.Decimal
	lastConfirmedID    string

	nextOrder  *model.Order
	nextIntent *model.PaymentIntent
}

func (m *mockOrders) CreateOrder(ctx context.Context, req *client.CreateOrderRequest) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	order := *m.nextOrder
	order.CustomerID = req.CustomerID
	order.PaymentMethod = req.PaymentMethod
	return &order, nil
}

func (m *mockOrders) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order := *m.nextOrder
	return &order, nil
}

func (m *mockOrders) CreateCashSettlement(ctx context.Context, orderID string, amount, tendered decimal.Decimal, notes string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settleCalls++
	m.lastSettleAmount = amount
	m.lastSettleTendered = tendered
	if m.settleErr != nil {
		return nil, m.settleErr
	}
	order := *m.nextOrder
	order.PaymentStatus = model.PaymentPaid
	return &order, nil
}

func (m *mockOrders) CreatePaymentIntent(ctx context.Context, orderID, customerID string, amount decimal.Decimal) (*model.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intentCalls++
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	intent := *m.nextIntent
	return &intent, nil
}

func (m *mockOrders) ConfirmPaymentIntent(ctx context.Context, orderID, intentID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmCalls++
	m.lastConfirmedID = intentID
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	order := *m.nextOrder
	order.PaymentStatus = model.PaymentPaid
	return &order, nil
}

// Mock ContinuationRepository
type mockContinuations struct {
	mu    sync.Mutex
	items map[string]*model.Continuation
}

func newMockContinuations() *mockContinuations {
	return &mockContinuations{items: make(map[string]*model.Continuation)}
}

func (m *mockContinuations) Put(ctx context.Context, cont *model.Continuation, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *cont
	m.items[cont.Token] = &copied
	return nil
}

func (m *mockContinuations) Get(ctx context.Context, token string) (*model.Continuation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cont, ok := m.items[token]
	if !ok {
		return nil, nil
	}
	copied := *cont
	return &copied, nil
}

func pendingOrder(method model.PaymentMethod, total string) *model.Order {
	return &model.Order{
		ID:            "ord-1",
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentPending,
		PaymentMethod: method,
		Subtotal:      decimal.RequireFromString(total),
		Total:         decimal.RequireFromString(total),
	}
}

func cashDraft() *Draft {
	return &Draft{
		CustomerID:    "cust-1",
		PaymentMethod: model.MethodCash,
		Lines: []LineItem{
			{ProductID: "p1", SKU: "SKU-1", Quantity: 3, UnitPrice: decimal.RequireFromString("50.00")},
		},
	}
}

func newTestCheckout(orders *mockOrders) (*CheckoutService, *mockContinuations) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "50.00", 10))
	continuations := newMockContinuations()
	svc := NewCheckoutService(orders, composer, continuations, 30*time.Minute, zap.NewNop())
	return svc, continuations
}

func TestSubmit_CashSettlesImmediately(t *testing.T) {
	orders := &mockOrders{nextOrder: pendingOrder(model.MethodCash, "150.00")}
	svc, _ := newTestCheckout(orders)

	result, err := svc.Submit(context.Background(), cashDraft())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if orders.settleCalls != 1 {
		t.Errorf("expected 1 settlement call, got %d", orders.settleCalls)
	}
	if orders.intentCalls != 0 {
		t.Errorf("cash path must never create a payment intent, got %d calls", orders.intentCalls)
	}
	if !orders.lastSettleAmount.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("expected settlement amount 150.00, got %s", orders.lastSettleAmount)
	}
	if !orders.lastSettleTendered.Equal(orders.lastSettleAmount) {
		t.Errorf("expected tendered == amount, got %s vs %s", orders.lastSettleTendered, orders.lastSettleAmount)
	}
	if result.Order.PaymentStatus != model.PaymentPaid {
		t.Errorf("expected payment status paid, got %s", result.Order.PaymentStatus)
	}
	if result.Resume != nil {
		t.Error("cash submission must not produce a card hand-off")
	}
}

func TestSubmit_CashSettlementFailureLeavesOrderPending(t *testing.T) {
	orders := &mockOrders{
		nextOrder: pendingOrder(model.MethodCash, "150.00"),
		settleErr: &client.TransientError{Op: "POST /payments", Err: errors.New("gateway timeout")},
	}
	svc, _ := newTestCheckout(orders)

	result, err := svc.Submit(context.Background(), cashDraft())

	var settlement *SettlementError
	if !errors.As(err, &settlement) {
		t.Fatalf("expected SettlementError, got: %v", err)
	}
	if result == nil || result.Order == nil {
		t.Fatal("the created order must be returned alongside the settlement failure")
	}
	if result.Order.PaymentStatus != model.PaymentPending {
		t.Errorf("expected order left pending, got %s", result.Order.PaymentStatus)
	}
	if orders.settleCalls != 1 {
		t.Errorf("settlement must not be auto-retried, got %d calls", orders.settleCalls)
	}
}

func TestSubmit_CardHandsOffWithoutSettling(t *testing.T) {
	orders := &mockOrders{nextOrder: pendingOrder(model.MethodCard, "99.90")}
	svc, continuations := newTestCheckout(orders)

	draft := cashDraft()
	draft.PaymentMethod = model.MethodCard

	result, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if orders.settleCalls != 0 {
		t.Errorf("card path must not settle at creation, got %d calls", orders.settleCalls)
	}
	if orders.intentCalls != 0 {
		t.Errorf("intent creation belongs to the detail view, got %d calls", orders.intentCalls)
	}
	if result.Resume == nil {
		t.Fatal("card submission must return the hand-off")
	}
	if result.Resume.Method != model.MethodCard {
		t.Errorf("hand-off must mark the method as card, got %s", result.Resume.Method)
	}
	if result.Resume.AttemptID == "" {
		t.Error("hand-off must carry an attempt id")
	}

	stored, err := continuations.Get(context.Background(), result.Resume.Token)
	if err != nil || stored == nil {
		t.Fatalf("hand-off not stored: %v", err)
	}
	if stored.OrderID != result.Order.ID {
		t.Errorf("hand-off order id mismatch: %s vs %s", stored.OrderID, result.Order.ID)
	}
}

func TestSubmit_ManualLeavesOrderPending(t *testing.T) {
	orders := &mockOrders{nextOrder: pendingOrder(model.MethodBankTransfer, "42.00")}
	svc, _ := newTestCheckout(orders)

	draft := cashDraft()
	draft.PaymentMethod = model.MethodBankTransfer

	result, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if orders.settleCalls != 0 || orders.intentCalls != 0 {
		t.Error("manual methods must not trigger any settlement call")
	}
	if result.Resume != nil {
		t.Error("manual methods must not produce a hand-off")
	}
}

func TestSubmit_CreateFailureIsTerminal(t *testing.T) {
	orders := &mockOrders{
		nextOrder: pendingOrder(model.MethodCash, "150.00"),
		createErr: &client.TransientError{Op: "POST /orders", Err: errors.New("connection refused")},
	}
	svc, _ := newTestCheckout(orders)

	result, err := svc.Submit(context.Background(), cashDraft())
	if err == nil {
		t.Fatal("expected submit to fail")
	}
	if result != nil {
		t.Error("nothing partial may be left behind after a failed create")
	}
	if orders.settleCalls != 0 {
		t.Errorf("no settlement after failed create, got %d calls", orders.settleCalls)
	}
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	orders := &mockOrders{nextOrder: pendingOrder(model.MethodCash, "150.00")}
	svc, _ := newTestCheckout(orders)

	draft := cashDraft()
	draft.CustomerID = ""

	_, err := svc.Submit(context.Background(), draft)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
	if orders.createCalls != 0 {
		t.Errorf("validation errors must never reach the network, got %d create calls", orders.createCalls)
	}
}
