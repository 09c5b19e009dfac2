package handler

import (
	"errors"
	"net/http"

	"commerce-console/internal/client"
	"commerce-console/internal/repository"
	"commerce-console/internal/service"

	"github.com/labstack/echo/v4"
)

// toHTTPError maps the core's error taxonomy onto HTTP responses. Every
// terminal failure carries a human-readable message.
func toHTTPError(err error) error {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{
			"message":  "order not submittable",
			"problems": validation.Problems,
		})
	}
	if errors.Is(err, service.ErrOutOfStock) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if errors.Is(err, client.ErrAuthExpired) {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if errors.Is(err, repository.ErrAttemptInFlight) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	var settlement *service.SettlementError
	if errors.As(err, &settlement) {
		return echo.NewHTTPError(http.StatusPaymentRequired, settlement.Error())
	}
	var transient *client.TransientError
	if errors.As(err, &transient) {
		return echo.NewHTTPError(http.StatusBadGateway, transient.Error())
	}
	var api *client.APIError
	if errors.As(err, &api) {
		return echo.NewHTTPError(api.StatusCode, api.Message)
	}

	return err
}
