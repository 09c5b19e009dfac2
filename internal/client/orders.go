package client

import (
	"context"
	"fmt"

	"commerce-console/internal/config"
	"commerce-console/internal/model"

	"github.com/shopspring/decimal"
)

// OrdersClient talks to the order/payment service. Order records are
// authoritative there; this client never fabricates status transitions.
type OrdersClient interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)

	// CreateCashSettlement records a completed cash payment against the order.
	CreateCashSettlement(ctx context.Context, orderID string, amount, tendered decimal.Decimal, notes string) (*model.Order, error)

	// CreatePaymentIntent asks the order service for a provider payment intent.
	CreatePaymentIntent(ctx context.Context, orderID, customerID string, amount decimal.Decimal) (*model.PaymentIntent, error)

	// ConfirmPaymentIntent reconciles a provider-confirmed intent with the
	// order, returning the order with its updated payment status.
	ConfirmPaymentIntent(ctx context.Context, orderID, intentID string) (*model.Order, error)
}

type CreateOrderRequest struct {
	CustomerID    string              `json:"customer_id"`
	Items         []model.OrderItem   `json:"items"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes,omitempty"`
}

type ordersClientImpl struct {
	gateway *Gateway
	baseURL string
}

func NewOrdersClient(cfg *config.Orders, gateway *Gateway) OrdersClient {
	return &ordersClientImpl{
		gateway: gateway,
		baseURL: cfg.BaseURL,
	}
}

func (c *ordersClientImpl) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.Order, error) {
	var order model.Order
	err := c.gateway.PostJSON(ctx, c.baseURL+"/orders", req, &order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

func (c *ordersClientImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := c.gateway.GetJSON(ctx, c.baseURL+"/orders/"+orderID, &order)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return &order, nil
}

func (c *ordersClientImpl) CreateCashSettlement(ctx context.Context, orderID string, amount, tendered decimal.Decimal, notes string) (*model.Order, error) {
	payload := map[string]any{
		"payment_method":  model.MethodCash,
		"amount":          amount,
		"amount_tendered": tendered,
		"notes":           notes,
	}

	var order model.Order
	err := c.gateway.PostJSON(ctx, c.baseURL+"/orders/"+orderID+"/payments", payload, &order)
	if err != nil {
		return nil, fmt.Errorf("cash settlement for order %s: %w", orderID, err)
	}
	return &order, nil
}

func (c *ordersClientImpl) CreatePaymentIntent(ctx context.Context, orderID, customerID string, amount decimal.Decimal) (*model.PaymentIntent, error) {
	payload := map[string]any{
		"order_id":    orderID,
		"customer_id": customerID,
		"amount":      amount,
	}

	var intent model.PaymentIntent
	err := c.gateway.PostJSON(ctx, c.baseURL+"/orders/"+orderID+"/payment-intent", payload, &intent)
	if err != nil {
		return nil, fmt.Errorf("create payment intent for order %s: %w", orderID, err)
	}
	return &intent, nil
}

func (c *ordersClientImpl) ConfirmPaymentIntent(ctx context.Context, orderID, intentID string) (*model.Order, error) {
	payload := map[string]any{
		"payment_intent_id": intentID,
		"order_id":          orderID,
	}

	var order model.Order
	err := c.gateway.PostJSON(ctx, c.baseURL+"/orders/"+orderID+"/payment-intent/confirm", payload, &order)
	if err != nil {
		return nil, fmt.Errorf("confirm payment intent %s: %w", intentID, err)
	}
	return &order, nil
}
