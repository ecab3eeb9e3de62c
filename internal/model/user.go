package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold within its tenant.
const (
	RoleManager = "MANAGER"
	RoleMember  = "MEMBER"
)

// ValidRole reports whether role is one of the two supported role values.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleMember
}

// User represents the user model stored in the database. A user belongs to
// exactly one tenant; tenant_id never changes after creation.
type User struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(10);not null;default:'MEMBER'"`
	TenantID  string         `json:"tenant_id" gorm:"type:uuid;index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
