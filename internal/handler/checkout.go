package handler

import (
	"context"
	"errors"
	"net/http"

	"commerce-console/internal/dto"
	"commerce-console/internal/model"
	"commerce-console/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	composer *service.Composer
	checkout *service.CheckoutService
}

func NewCheckoutHandler(composer *service.Composer, checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		composer: composer,
		checkout: checkout,
	}
}

// buildDraft replays the UI's composition through the composer: select each
// product, then set its quantity, collecting clamp warnings along the way.
func (h *CheckoutHandler) buildDraft(ctx context.Context, req *dto.CheckoutRequest) (*service.Draft, []string, error) {
	draft := &service.Draft{
		CustomerID:    req.CustomerID,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}

	var warnings []string
	for i, line := range req.Lines {
		warning, err := h.composer.SelectProduct(ctx, draft, i, line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}

		warning, err = h.composer.SetQuantity(ctx, draft, i, line.Quantity)
		if err != nil {
			return nil, nil, err
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
	}
	return draft, warnings, nil
}

// Validate dry-runs the draft so the UI can show clamped quantities, the
// subtotal and any blocking problems while the user is still editing.
func (h *CheckoutHandler) Validate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	res := &dto.ValidateResponse{}
	draft, warnings, err := h.buildDraft(ctx, &req)
	if err != nil {
		var validation *service.ValidationError
		switch {
		case errors.As(err, &validation):
			res.Problems = validation.Problems
		case errors.Is(err, service.ErrOutOfStock):
			res.Problems = []string{err.Error()}
		default:
			return toHTTPError(err)
		}
		return c.JSON(http.StatusOK, res)
	}

	res.Warnings = warnings
	res.Subtotal = h.composer.Subtotal(draft)
	for _, line := range draft.Lines {
		res.Lines = append(res.Lines, dto.ValidatedLine{
			ProductID: line.ProductID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := h.composer.ValidateForSubmission(ctx, draft); err != nil {
		var validation *service.ValidationError
		if errors.As(err, &validation) {
			res.Problems = validation.Problems
			return c.JSON(http.StatusOK, res)
		}
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	draft, warnings, err := h.buildDraft(ctx, &req)
	if err != nil {
		return toHTTPError(err)
	}

	result, err := h.checkout.Submit(ctx, draft)
	if err != nil {
		var settlement *service.SettlementError
		if errors.As(err, &settlement) && result != nil {
			// The order exists; only its cash settlement failed. Surface the
			// failure alongside the pending order instead of discarding it.
			return c.JSON(http.StatusOK, &dto.CheckoutResponse{
				Order:           result.Order,
				Warnings:        warnings,
				SettlementError: settlement.Error(),
			})
		}
		return toHTTPError(err)
	}

	res := &dto.CheckoutResponse{
		Order:    result.Order,
		Warnings: warnings,
	}
	if result.Resume != nil {
		res.ResumeToken = result.Resume.Token
		res.AttemptID = result.Resume.AttemptID
	}
	return c.JSON(http.StatusOK, res)
}
