package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription plans. FREE tenants are limited to FreePlanNoteLimit notes;
// PRO tenants have no limit. Plan changes are one-way (FREE -> PRO).
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
)

// FreePlanNoteLimit is the maximum number of notes a FREE tenant may hold.
const FreePlanNoteLimit = 3

// Tenant represents an isolated customer account that owns users and notes.
// This is the core of our multi-tenant architecture
type Tenant struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Plan      string         `json:"plan" gorm:"type:varchar(10);not null;default:'FREE'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
