// Package store wraps the database queries used by the handlers. Every query
// that touches tenant-owned data is parameterized by the tenant id of the
// authenticated identity, never by a client-supplied tenant identifier.
package store

import (
	"errors"

	"gorm.io/gorm"

	"notes-service/internal/model"
)

// FindUserByEmail returns the user with the given email, or nil when no such
// user exists.
func FindUserByEmail(db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	result := db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindUserByID returns the user with the given id, or nil when no such user
// exists.
func FindUserByID(db *gorm.DB, id string) (*model.User, error) {
	var user model.User
	result := db.Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// CreateUser persists a new user row.
func CreateUser(db *gorm.DB, user *model.User) error {
	return db.Create(user).Error
}

// ListUsers returns all users of the given tenant.
func ListUsers(db *gorm.DB, tenantID string) ([]model.User, error) {
	var users []model.User
	result := db.Where("tenant_id = ?", tenantID).Order("created_at").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// UpdateUserRole sets the role of a user within a tenant. The update is
// scoped by tenant id so a manager can never touch another tenant's users.
// The returned count is the number of rows changed.
func UpdateUserRole(db *gorm.DB, tenantID, userID, role string) (int64, error) {
	result := db.Model(&model.User{}).
		Where("id = ? AND tenant_id = ?", userID, tenantID).
		Update("role", role)
	return result.RowsAffected, result.Error
}
