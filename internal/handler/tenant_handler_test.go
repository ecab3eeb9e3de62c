package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-service/internal/model"
	"notes-service/pkg/database"
)

func TestGetMyTenant(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanFree)
	user := seedUser(t, tenant, "Member", "user@acme.test", model.RoleMember, "password")
	seedNote(t, tenant, user, "first")
	seedNote(t, tenant, user, "second")

	rec := doRequest(t, e, http.MethodGet, "/api/auth/tenants/me", nil, tokenFor(t, user))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	summary := body["tenant"].(map[string]interface{})
	assert.Equal(t, "Acme", summary["name"])
	assert.Equal(t, "acme", summary["slug"])
	assert.Equal(t, model.PlanFree, summary["plan"])
	assert.Equal(t, float64(2), summary["note_count"])
}

func TestUpgradePlan(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanFree)
	manager := seedUser(t, tenant, "Admin", "admin@acme.test", model.RoleManager, "password")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/tenants/acme/upgrade", nil, tokenFor(t, manager))
	require.Equal(t, http.StatusOK, rec.Code)

	var upgraded model.Tenant
	require.NoError(t, database.GetDB().Where("id = ?", tenant.ID).First(&upgraded).Error)
	assert.Equal(t, model.PlanPro, upgraded.Plan)
}

func TestUpgradePlanAlreadyPro(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanPro)
	manager := seedUser(t, tenant, "Admin", "admin@acme.test", model.RoleManager, "password")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/tenants/acme/upgrade", nil, tokenFor(t, manager))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Tenant is already on PRO plan", body["message"])

	// Idempotent failure: the plan is left unchanged
	var unchanged model.Tenant
	require.NoError(t, database.GetDB().Where("id = ?", tenant.ID).First(&unchanged).Error)
	assert.Equal(t, model.PlanPro, unchanged.Plan)
}

func TestUpgradePlanDenied(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanFree)
	other := seedTenant(t, "Globex", "globex", model.PlanFree)
	member := seedUser(t, tenant, "Member", "user@acme.test", model.RoleMember, "password")
	manager := seedUser(t, tenant, "Admin", "admin@acme.test", model.RoleManager, "password")

	// Members cannot upgrade their own tenant
	rec := doRequest(t, e, http.MethodPost, "/api/auth/tenants/acme/upgrade", nil, tokenFor(t, member))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Cross-tenant slug
	rec = doRequest(t, e, http.MethodPost, "/api/auth/tenants/globex/upgrade", nil, tokenFor(t, manager))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown slug reads as a cross-tenant attempt, ownership before existence
	rec = doRequest(t, e, http.MethodPost, "/api/auth/tenants/missing/upgrade", nil, tokenFor(t, manager))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, id := range []string{tenant.ID, other.ID} {
		var unchanged model.Tenant
		require.NoError(t, database.GetDB().Where("id = ?", id).First(&unchanged).Error)
		assert.Equal(t, model.PlanFree, unchanged.Plan)
	}
}
