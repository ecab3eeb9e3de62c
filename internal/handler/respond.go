package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/internal/policy"
	"notes-service/internal/validation"
	"notes-service/pkg/config"
)

var cfg *config.Config

// Initialize hands the handlers their configuration. Must be called once at
// startup before routes are served.
func Initialize(c *config.Config) {
	cfg = c
}

// denialStatus maps a policy denial to its HTTP status.
func denialStatus(d *policy.Denial) int {
	switch d.Kind {
	case policy.KindForbidden:
		return http.StatusForbidden
	case policy.KindNotFound:
		return http.StatusNotFound
	default:
		// Bad request and quota denials both surface as 400
		return http.StatusBadRequest
	}
}

// deny writes a policy denial in the uniform envelope.
func deny(c echo.Context, d *policy.Denial) error {
	body := echo.Map{
		"success": false,
		"message": d.Message,
	}
	if d.Code != "" {
		body["code"] = d.Code
	}
	return c.JSON(denialStatus(d), body)
}

// validationFailed writes a field-level validation error list.
func validationFailed(c echo.Context, errs []validation.FieldError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"error":   errs,
	})
}

// badRequest writes a 400 with a single message.
func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"message": message,
	})
}

// internalError logs the failure server-side and returns the generic 500
// envelope. Store and primitive failures never reach the client verbatim.
func internalError(c echo.Context, log *zap.Logger, err error) error {
	log.Error("Internal server error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"message": "Internal Server Error",
	})
}
