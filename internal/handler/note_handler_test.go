package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-service/internal/model"
	"notes-service/internal/policy"
	"notes-service/pkg/database"
)

func TestNoteLifecycle(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanFree)
	user := seedUser(t, tenant, "Member", "user@acme.test", model.RoleMember, "password")
	token := tokenFor(t, user)

	// Create
	rec := doRequest(t, e, http.MethodPost, "/api/notes", map[string]string{
		"title":   "groceries",
		"content": "milk, eggs",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)["data"].(map[string]interface{})
	noteID := created["id"].(string)
	require.NotEmpty(t, noteID)
	assert.Equal(t, tenant.ID, created["tenant_id"])
	assert.Equal(t, user.ID, created["user_id"])

	// List
	rec = doRequest(t, e, http.MethodGet, "/api/notes", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, notes, 1)

	// Get
	rec = doRequest(t, e, http.MethodGet, "/api/notes/"+noteID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update
	rec = doRequest(t, e, http.MethodPut, "/api/notes/"+noteID, map[string]string{
		"title":   "groceries",
		"content": "milk, eggs, bread",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Note
	require.NoError(t, database.GetDB().Where("id = ?", noteID).First(&updated).Error)
	assert.Equal(t, "milk, eggs, bread", updated.Content)

	// Delete
	rec = doRequest(t, e, http.MethodDelete, "/api/notes/"+noteID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// Deleting again still reports success
	rec = doRequest(t, e, http.MethodDelete, "/api/notes/"+noteID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	rec = doRequest(t, e, http.MethodGet, "/api/notes/"+noteID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateNoteValidation(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanFree)
	user := seedUser(t, tenant, "Member", "user@acme.test", model.RoleMember, "password")

	rec := doRequest(t, e, http.MethodPost, "/api/notes", map[string]string{
		"title": "no content",
	}, tokenFor(t, user))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestFreePlanQuota(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanFree)
	user := seedUser(t, tenant, "Member", "user@acme.test", model.RoleMember, "password")
	token := tokenFor(t, user)
	seedNote(t, tenant, user, "one")
	seedNote(t, tenant, user, "two")

	// Two existing notes: creation succeeds
	rec := doRequest(t, e, http.MethodPost, "/api/notes", map[string]string{
		"title":   "three",
		"content": "third note",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Three existing notes: creation is denied with the machine code
	rec = doRequest(t, e, http.MethodPost, "/api/notes", map[string]string{
		"title":   "four",
		"content": "one too many",
	}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, policy.CodeMaxNotesReached, body["code"])

	var count int64
	require.NoError(t, database.GetDB().Model(&model.Note{}).
		Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestProPlanHasNoQuota(t *testing.T) {
	e := setupTest(t)
	tenant := seedTenant(t, "Acme", "acme", model.PlanPro)
	user := seedUser(t, tenant, "Member", "user@acme.test", model.RoleMember, "password")
	token := tokenFor(t, user)
	for _, title := range []string{"one", "two", "three", "four"} {
		seedNote(t, tenant, user, title)
	}

	rec := doRequest(t, e, http.MethodPost, "/api/notes", map[string]string{
		"title":   "five",
		"content": "still allowed",
	}, token)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNotesAreTenantIsolated(t *testing.T) {
	e := setupTest(t)
	acme := seedTenant(t, "Acme", "acme", model.PlanFree)
	globex := seedTenant(t, "Globex", "globex", model.PlanFree)
	acmeUser := seedUser(t, acme, "Member", "user@acme.test", model.RoleMember, "password")
	globexUser := seedUser(t, globex, "Member", "user@globex.test", model.RoleMember, "password")
	theirNote := seedNote(t, globex, globexUser, "globex secret")
	token := tokenFor(t, acmeUser)

	// The other tenant's note never shows up in a listing
	rec := doRequest(t, e, http.MethodGet, "/api/notes", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["data"])

	// Nor by direct identifier
	rec = doRequest(t, e, http.MethodGet, "/api/notes/"+theirNote.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, e, http.MethodPut, "/api/notes/"+theirNote.ID, map[string]string{
		"title":   "defaced",
		"content": "defaced",
	}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Delete reports success without touching the foreign row
	rec = doRequest(t, e, http.MethodDelete, "/api/notes/"+theirNote.ID, nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	var survivor model.Note
	require.NoError(t, database.GetDB().Where("id = ?", theirNote.ID).First(&survivor).Error)
	assert.Equal(t, "globex secret", survivor.Title)
}
