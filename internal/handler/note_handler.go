package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/internal/validation"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

type noteRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// ListNotes returns the notes of the authenticated tenant.
func ListNotes(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("list")
	actor := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	notes, err := store.ListNotes(database.GetDB(), actor.TenantID)
	if err != nil {
		return internalError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    notes,
	})
}

// CreateNote creates a note in the authenticated tenant, subject to the
// FREE-plan quota. The count check and the insert are not serialized against
// concurrent creates; the tenant may transiently exceed the quota under
// racing requests.
func CreateNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("create")
	actor := middleware.CurrentUser(c)

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note request", zap.Error(err))
		return badRequest(c, "invalid request")
	}
	if errs := validation.ValidateStruct(&req); errs != nil {
		return validationFailed(c, errs)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := store.FindTenantByID(database.GetDB(), actor.TenantID)
	if err != nil {
		return internalError(c, log, err)
	}
	if tenant == nil {
		return badRequest(c, "Tenant not found")
	}

	noteCount, err := store.CountNotes(database.GetDB(), tenant.ID)
	if err != nil {
		return internalError(c, log, err)
	}

	if d := policy.CanCreateNote(tenant, noteCount); d != nil {
		log.Info("Note creation denied by quota",
			zap.String("tenant_id", tenant.ID),
			zap.Int64("note_count", noteCount))
		prometheus.RecordQuotaDenied(tenant.ID)
		return deny(c, d)
	}

	note := model.Note{
		Title:    req.Title,
		Content:  req.Content,
		TenantID: actor.TenantID,
		UserID:   actor.ID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.CreateNote(database.GetDB(), &note); err != nil {
		return internalError(c, log, err)
	}

	log.Info("Note created",
		zap.String("note_id", note.ID),
		zap.String("tenant_id", note.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Note created successfully",
		"data":    note,
	})
}

// GetNote returns a single note. The lookup is scoped by the authenticated
// tenant, so another tenant's note id reads as absent.
func GetNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("get")
	actor := middleware.CurrentUser(c)

	id := c.Param("id")
	if id == "" {
		return badRequest(c, "Note ID is required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	note, err := store.FindNoteByID(database.GetDB(), actor.TenantID, id)
	if err != nil {
		return internalError(c, log, err)
	}
	if note == nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Note not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    note,
	})
}

// UpdateNote replaces the title and content of a note within the
// authenticated tenant.
func UpdateNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("update")
	actor := middleware.CurrentUser(c)

	id := c.Param("id")
	if id == "" {
		return badRequest(c, "Note ID is required")
	}

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note request", zap.Error(err))
		return badRequest(c, "invalid request")
	}
	if errs := validation.ValidateStruct(&req); errs != nil {
		return validationFailed(c, errs)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	note, err := store.FindNoteByID(database.GetDB(), actor.TenantID, id)
	if err != nil {
		return internalError(c, log, err)
	}
	if note == nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Note not found",
		})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.UpdateNote(database.GetDB(), actor.TenantID, id, req.Title, req.Content); err != nil {
		return internalError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Note updated successfully",
	})
}

// DeleteNote removes a note within the authenticated tenant. Deleting a note
// that does not exist reports success; the end state is the same.
func DeleteNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("delete")
	actor := middleware.CurrentUser(c)

	id := c.Param("id")
	if id == "" {
		return badRequest(c, "Note ID is required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	note, err := store.FindNoteByID(database.GetDB(), actor.TenantID, id)
	if err != nil {
		return internalError(c, log, err)
	}
	if note == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Note deleted successfully",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := store.DeleteNote(database.GetDB(), actor.TenantID, id); err != nil {
		return internalError(c, log, err)
	}

	log.Info("Note deleted",
		zap.String("note_id", id),
		zap.String("tenant_id", actor.TenantID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Note deleted successfully",
	})
}
