package handler

import (
	"net/http"

	"commerce-console/internal/client"
	"commerce-console/internal/dto"
	"commerce-console/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders   client.OrdersClient
	resolver *service.Resolver
	payments *service.PaymentService
}

func NewOrderHandler(orders client.OrdersClient, resolver *service.Resolver, payments *service.PaymentService) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		resolver: resolver,
		payments: payments,
	}
}

// GetOrder backs the order detail view. A `resume` query parameter is the
// hand-off from checkout; without it the payment UI never auto-opens, no
// matter what the order record says.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orders.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	decision, err := h.resolver.Resolve(ctx, order, c.QueryParam("resume"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, &dto.OrderDetailResponse{
		Order:   order,
		Payment: decision,
	})
}

// BeginPayment initializes a payment attempt. Re-running the same attempt
// (duplicate view initialization) replays the already-created intent.
func (h *OrderHandler) BeginPayment(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("id")

	var req dto.AttemptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.AttemptID == "" {
		// Manual "process payment" path: a fresh attempt for this click.
		req.AttemptID = uuid.NewString()
	}

	intent, err := h.payments.Begin(ctx, orderID, req.AttemptID, req.CustomerID, req.Amount)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, &dto.AttemptResponse{
		AttemptID:    req.AttemptID,
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
	})
}

func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("id")

	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ClientSecret == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "client_secret is required")
	}

	order, err := h.payments.Confirm(ctx, orderID, req.IntentID, req.ClientSecret)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, order)
}
