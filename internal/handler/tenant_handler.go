package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/internal/middleware"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

// GetMyTenant returns the authenticated identity's own tenant, including its
// current note count. The tenant is always resolved from the identity, never
// from client input.
func GetMyTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("view")
	actor := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := store.FindTenantByID(database.GetDB(), actor.TenantID)
	if err != nil {
		return internalError(c, log, err)
	}
	if tenant == nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Tenant not found",
		})
	}

	noteCount, err := store.CountNotes(database.GetDB(), tenant.ID)
	if err != nil {
		return internalError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"tenant": echo.Map{
			"name":       tenant.Name,
			"slug":       tenant.Slug,
			"plan":       tenant.Plan,
			"note_count": noteCount,
		},
	})
}

// UpgradePlan moves the caller's tenant from FREE to PRO. The tenant is
// resolved by slug and must belong to the caller.
func UpgradePlan(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("upgrade")
	actor := middleware.CurrentUser(c)

	slug := c.Param("slug")
	if slug == "" {
		return badRequest(c, "Slug is required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := store.FindTenantBySlug(database.GetDB(), slug)
	if err != nil {
		return internalError(c, log, err)
	}

	if d := policy.CanUpgradePlan(actor, tenant); d != nil {
		if d.Kind == policy.KindForbidden {
			prometheus.RecordAuthError("forbidden")
		}
		return deny(c, d)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.UpgradeTenantPlan(database.GetDB(), tenant.ID); err != nil {
		return internalError(c, log, err)
	}

	log.Info("Tenant upgraded to PRO plan",
		zap.String("tenant_id", tenant.ID),
		zap.String("slug", tenant.Slug))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Tenant upgraded to PRO plan",
	})
}
