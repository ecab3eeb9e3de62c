package store

import (
	"errors"

	"gorm.io/gorm"

	"notes-service/internal/model"
)

// ListNotes returns all notes of the given tenant.
func ListNotes(db *gorm.DB, tenantID string) ([]model.Note, error) {
	var notes []model.Note
	result := db.Where("tenant_id = ?", tenantID).Order("created_at").Find(&notes)
	if result.Error != nil {
		return nil, result.Error
	}
	return notes, nil
}

// CreateNote persists a new note row.
func CreateNote(db *gorm.DB, note *model.Note) error {
	return db.Create(note).Error
}

// FindNoteByID returns a note by id within a tenant, or nil when no such
// note exists for that tenant.
func FindNoteByID(db *gorm.DB, tenantID, id string) (*model.Note, error) {
	var note model.Note
	result := db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&note)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &note, nil
}

// UpdateNote sets the title and content of a note within a tenant.
func UpdateNote(db *gorm.DB, tenantID, id, title, content string) error {
	return db.Model(&model.Note{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{"title": title, "content": content}).Error
}

// DeleteNote removes a note within a tenant.
func DeleteNote(db *gorm.DB, tenantID, id string) error {
	return db.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&model.Note{}).Error
}
