package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note represents a note owned by a tenant. Notes are only ever visible to
// requests authenticated against the owning tenant.
type Note struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	TenantID  string         `json:"tenant_id" gorm:"type:uuid;index;not null"`
	UserID    string         `json:"user_id" gorm:"type:uuid;index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
